package notify

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// telegramBot abstracts the bot API send call, enabling test mocks.
type telegramBot interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramChannel sends reminders to a Telegram chat.
type TelegramChannel struct {
	bot    telegramBot
	chatID int64
}

// NewTelegram creates a Telegram channel for a bot token and target chat.
func NewTelegram(botToken string, chatID int64) (*TelegramChannel, error) {
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("telegram: create bot: %w", err)
	}
	return &TelegramChannel{bot: bot, chatID: chatID}, nil
}

// Name implements Channel.
func (t *TelegramChannel) Name() string { return "telegram" }

// Send implements Channel.
func (t *TelegramChannel) Send(text string) error {
	if _, err := t.bot.Send(tgbotapi.NewMessage(t.chatID, text)); err != nil {
		return fmt.Errorf("telegram: send to %d: %w", t.chatID, err)
	}
	return nil
}
