package telegram

import "context"

// Client defines an interface for sending text messages via a Telegram bot.
// This helps in decoupling the application logic from the specific bot library.
type Client interface {
	SendMessage(ctx context.Context, chatID string, text string) error
}
