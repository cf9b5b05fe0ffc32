package notify

import (
	"github.com/mocchh/hltv-monitor/internal/telegram"
)

// TelegramNotifier delivers reports through the Telegram Bot API.
type TelegramNotifier struct {
	client *telegram.Client
}

// NewTelegramNotifier wraps an existing Telegram client.
func NewTelegramNotifier(client *telegram.Client) *TelegramNotifier {
	return &TelegramNotifier{client: client}
}

// SendText delivers a plain-text message to a chat.
func (n *TelegramNotifier) SendText(destination, text string) error {
	return n.client.SendMessage(destination, text)
}

// SendImage uploads the report image to a chat.
func (n *TelegramNotifier) SendImage(destination, imagePath, caption string) error {
	return n.client.SendPhoto(destination, imagePath, caption)
}
