package domain

import "time"

// Message is one entry in a family's append-only conversation log.
// ChatID is always the parent's user id, no matter which side sent it.
type Message struct {
	ID         string    `json:"id"`
	ChatID     string    `json:"chat_id"`
	Text       string    `json:"text"`
	SenderID   string    `json:"sender_id"`
	SenderName string    `json:"sender_name"`
	Role       Role      `json:"role"`
	CreatedAt  time.Time `json:"created_at"`
}
