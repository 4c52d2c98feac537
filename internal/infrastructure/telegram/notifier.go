package telegram

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"JobSniper/internal/ports"
)

// Notifier delivers alert messages to a single Telegram chat via bot API.
type Notifier struct {
	api    *tgbotapi.BotAPI
	chatID int64
}

var _ ports.Notifier = (*Notifier)(nil)

// New connects the bot against the public Telegram endpoint.
func New(token, chatID string) (*Notifier, error) {
	client := &http.Client{Timeout: 10 * time.Second}
	return NewWithEndpoint(token, chatID, tgbotapi.APIEndpoint, client)
}

// NewWithEndpoint allows pointing the bot at an alternate API endpoint;
// tests use it with a local server. The endpoint follows the tgbotapi
// format string convention ("…/bot%s/%s").
func NewWithEndpoint(token, chatID, endpoint string, client *http.Client) (*Notifier, error) {
	id, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid telegram chat id %q: %w", chatID, err)
	}

	api, err := tgbotapi.NewBotAPIWithClient(token, endpoint, client)
	if err != nil {
		return nil, fmt.Errorf("connect telegram: %w", err)
	}

	return &Notifier{api: api, chatID: id}, nil
}

// Send posts an HTML-formatted message with link previews disabled.
func (n *Notifier) Send(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if text == "" {
		return fmt.Errorf("refusing to send empty message")
	}

	msg := tgbotapi.NewMessage(n.chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true

	if _, err := n.api.Send(msg); err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}
