package internal

import "time"

// Role identifies who authored a message
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Session is the exported view of a conversation
type Session struct {
	ID       string    `json:"id" yaml:"id"`
	Messages []Message `json:"messages" yaml:"messages"`
	Metadata Metadata  `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Message is a single chat turn. Messages are never modified after creation.
type Message struct {
	Timestamp string `json:"timestamp,omitempty" yaml:"timestamp,omitempty"`
	Role      Role   `json:"role" yaml:"role"`
	Content   string `json:"content" yaml:"content"`
}

// Metadata contains additional session information
type Metadata struct {
	CreatedAt    string `json:"created_at,omitempty" yaml:"created_at,omitempty"`
	UpdatedAt    string `json:"updated_at,omitempty" yaml:"updated_at,omitempty"`
	MessageCount int    `json:"message_count" yaml:"message_count"`
}

// NewMessage creates a message stamped with the current time
func NewMessage(role Role, content string) Message {
	return Message{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Role:      role,
		Content:   content,
	}
}

// IsUser reports whether the message was written by the user
func (m Message) IsUser() bool {
	return m.Role == RoleUser
}

// lastN returns the final n messages of msgs (all of them if there are fewer)
func lastN(msgs []Message, n int) []Message {
	if n <= 0 {
		return nil
	}
	if len(msgs) <= n {
		return msgs
	}
	return msgs[len(msgs)-n:]
}
