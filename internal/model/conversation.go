package model

import "time"

// ChatMessage is a single message in a client conversation.
type ChatMessage struct {
	Sender    string    `json:"sender"`    // messages.sender (email)
	Role      string    `json:"role"`      // messages.role at send time
	Text      string    `json:"text"`      // messages.text
	Timestamp time.Time `json:"timestamp"` // messages.created_at
}

// Conversation is the append-only message log between one client and the
// admin team.  Conversations are keyed by the client's email; messages are
// never edited or removed.
type Conversation struct {
	ClientEmail string        `json:"client_email"`          // conversations.client_email
	StaffEmail  string        `json:"staff_email,omitempty"` // conversations.staff_email
	Messages    []ChatMessage `json:"messages"`              // ordered oldest first
}
