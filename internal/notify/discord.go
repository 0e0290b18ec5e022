package notify

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// discordSession abstracts the discordgo methods we use, enabling test mocks.
type discordSession interface {
	ChannelMessageSend(channelID, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// DiscordChannel posts reminders to a Discord channel over the REST API.
// No gateway connection is opened; message sends are plain HTTP.
type DiscordChannel struct {
	sess      discordSession
	channelID string
}

// NewDiscord creates a Discord channel for a bot token and target channel.
func NewDiscord(botToken, channelID string) (*DiscordChannel, error) {
	sess, err := discordgo.New("Bot " + botToken)
	if err != nil {
		return nil, fmt.Errorf("discord: create session: %w", err)
	}
	return &DiscordChannel{sess: sess, channelID: channelID}, nil
}

// Name implements Channel.
func (d *DiscordChannel) Name() string { return "discord" }

// Send implements Channel.
func (d *DiscordChannel) Send(text string) error {
	if _, err := d.sess.ChannelMessageSend(d.channelID, text); err != nil {
		return fmt.Errorf("discord: send to %s: %w", d.channelID, err)
	}
	return nil
}
