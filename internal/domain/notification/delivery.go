// internal/domain/notification/delivery.go
package notification

import (
	"context"
	"time"
)

// Kind tells apart the two things the bot ever sends.
type Kind string

const (
	KindStatusChange Kind = "STATUS_CHANGE"
	KindError        Kind = "ERROR"
)

// ErrorMessagePrefix is prepended to every error notification.
const ErrorMessagePrefix = "Сбой в работе программы: "

// Delivery is one attempt to send a message to the chat.
type Delivery struct {
	Kind      Kind
	ChatID    string
	Text      string
	Delivered bool
	Error     string // empty when Delivered
	CreatedAt time.Time
}

// Journal is an append-only record of delivery attempts. Nothing reads it back.
type Journal interface {
	Append(ctx context.Context, d *Delivery) error
}

// NopJournal discards every delivery. Used when no database is configured.
type NopJournal struct{}

func (NopJournal) Append(context.Context, *Delivery) error { return nil }
