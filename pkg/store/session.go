package store

import "time"

const (
	TurnRoleUser      = "user"
	TurnRoleAssistant = "assistant"
)

// Turn is one conversation turn within a session.
type Turn struct {
	Role      string    `json:"role"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// Session is the bounded conversation history for one session id.
// Turns are ordered oldest first.
type Session struct {
	ID    string `json:"id"`
	Turns []Turn `json:"turns"`
}
