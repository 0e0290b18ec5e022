package notify

import (
	"errors"
	"testing"

	"github.com/bwmarrin/discordgo"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	slackapi "github.com/slack-go/slack"
)

func TestSlackChannel_Send(t *testing.T) {
	var gotURL, gotText string
	ch := &SlackChannel{
		webhookURL: "https://hooks.slack.com/services/x",
		post: func(url string, msg *slackapi.WebhookMessage) error {
			gotURL, gotText = url, msg.Text
			return nil
		},
	}

	if err := ch.Send("Reminder: test"); err != nil {
		t.Fatalf("Send() error: %v", err)
	}
	if gotURL != "https://hooks.slack.com/services/x" || gotText != "Reminder: test" {
		t.Errorf("posted %q to %q", gotText, gotURL)
	}

	ch.post = func(string, *slackapi.WebhookMessage) error { return errors.New("503") }
	if err := ch.Send("x"); err == nil {
		t.Error("Send() should surface webhook errors")
	}
}

type fakeDiscordSession struct {
	channelID string
	content   string
	err       error
}

func (f *fakeDiscordSession) ChannelMessageSend(channelID, content string, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.channelID, f.content = channelID, content
	return &discordgo.Message{}, f.err
}

func TestDiscordChannel_Send(t *testing.T) {
	sess := &fakeDiscordSession{}
	ch := &DiscordChannel{sess: sess, channelID: "chan-1"}

	if err := ch.Send("Reminder: test"); err != nil {
		t.Fatalf("Send() error: %v", err)
	}
	if sess.channelID != "chan-1" || sess.content != "Reminder: test" {
		t.Errorf("sent %q to %q", sess.content, sess.channelID)
	}

	sess.err = errors.New("forbidden")
	if err := ch.Send("x"); err == nil {
		t.Error("Send() should surface API errors")
	}
}

type fakeTelegramBot struct {
	got tgbotapi.Chattable
	err error
}

func (f *fakeTelegramBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.got = c
	return tgbotapi.Message{}, f.err
}

func TestTelegramChannel_Send(t *testing.T) {
	bot := &fakeTelegramBot{}
	ch := &TelegramChannel{bot: bot, chatID: 42}

	if err := ch.Send("Reminder: test"); err != nil {
		t.Fatalf("Send() error: %v", err)
	}
	msg, ok := bot.got.(tgbotapi.MessageConfig)
	if !ok {
		t.Fatalf("sent %T, want MessageConfig", bot.got)
	}
	if msg.ChatID != 42 || msg.Text != "Reminder: test" {
		t.Errorf("sent %q to chat %d", msg.Text, msg.ChatID)
	}

	bot.err = errors.New("blocked")
	if err := ch.Send("x"); err == nil {
		t.Error("Send() should surface API errors")
	}
}
