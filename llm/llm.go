// Package llm provides chat-completion client implementations.
package llm

import "context"

// Client is the interface for chat-completion backends.
type Client interface {
	// Complete submits one system + user message pair and returns the
	// response text.
	Complete(ctx context.Context, system, user string) (string, error)

	// Model returns the model identifier requests are made with.
	Model() string
}

// Message represents a conversation message.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Role identifies the message sender.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)
