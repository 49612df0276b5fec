package notify

import (
	"fmt"
	"strconv"

	"github.com/example/studypilot/pkg/models"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramChannel delivers push notifications through a Telegram bot
type TelegramChannel struct {
	api    *tgbotapi.BotAPI
	chatID int64
}

// NewTelegramChannel creates a channel from a bot token and target chat id
func NewTelegramChannel(token, chatID string) (*TelegramChannel, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %v", err)
	}
	id, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid telegram chat id %q: %v", chatID, err)
	}
	return &TelegramChannel{api: api, chatID: id}, nil
}

// Name implements Channel
func (c *TelegramChannel) Name() string { return "telegram" }

// Kind implements Channel
func (c *TelegramChannel) Kind() ChannelKind { return ChannelPush }

// Deliver implements Channel
func (c *TelegramChannel) Deliver(event models.NotificationEvent) error {
	msg := tgbotapi.NewMessage(c.chatID, fmt.Sprintf("*%s*\n%s", event.Title, event.Message))
	msg.ParseMode = "Markdown"
	if _, err := c.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send telegram message: %v", err)
	}
	return nil
}
