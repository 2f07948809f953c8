package llm

import (
	"context"

	"github.com/alexanderramin/whittle/internal/domain"
)

// Conversation keeps an ordered chat history, seeded with a system prompt,
// and sends each new user turn together with everything before it.
type Conversation struct {
	client   ChatClient
	messages []Message
}

// NewConversation starts a history with systemPrompt as its first message.
func NewConversation(client ChatClient, systemPrompt string) *Conversation {
	c := &Conversation{client: client}
	if systemPrompt != "" {
		c.messages = append(c.messages, Message{Role: domain.RoleSystem, Content: systemPrompt})
	}
	return c
}

// Send appends text as a user turn and returns the model's reply. When the
// call fails the user turn is dropped again so the history stays alternating.
func (c *Conversation) Send(ctx context.Context, text string) (string, error) {
	c.messages = append(c.messages, Message{Role: domain.RoleUser, Content: text})

	resp, err := c.client.Chat(ctx, ChatRequest{Messages: c.History()})
	if err != nil {
		c.messages = c.messages[:len(c.messages)-1]
		return "", err
	}

	c.messages = append(c.messages, Message{Role: domain.RoleAssistant, Content: resp.Text})
	return resp.Text, nil
}

// History returns a copy of the messages exchanged so far.
func (c *Conversation) History() []Message {
	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}
