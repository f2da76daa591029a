package model

import "time"

type MessageStatus string

const (
	MessageStatusNew  MessageStatus = "new"
	MessageStatusRead MessageStatus = "read"
)

// ContactMessage is an inbound message from the public contact form.
type ContactMessage struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Email     string        `json:"email"`
	Message   string        `json:"message"`
	Status    MessageStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
}
