package agent

import "time"

// Message is a unit of conversation exchanged between agents or between an
// agent and its host.
type Message struct {
	ID        string    `json:"id"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// NewMessage creates a message from one party to another.
func NewMessage(id, from, to, content string) Message {
	return Message{
		ID:        id,
		From:      from,
		To:        to,
		Content:   content,
		Timestamp: time.Now(),
	}
}
