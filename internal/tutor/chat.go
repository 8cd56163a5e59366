package tutor

import (
	"context"
	"strings"
	"sync"

	"psych-academy/internal/domain"
)

// Replier is the never-failing answer boundary a Chat talks to.
type Replier interface {
	Reply(ctx context.Context, prompt string, history []domain.ChatMessage) Result
}

// Chat is an append-only tutor transcript with at most one request in flight.
type Chat struct {
	replier Replier

	mu       sync.Mutex
	messages []domain.ChatMessage
	loading  bool
}

// NewChat opens a transcript with the greeting message.
func NewChat(replier Replier) *Chat {
	return &Chat{
		replier:  replier,
		messages: []domain.ChatMessage{{Role: domain.RoleModel, Text: Greeting}},
	}
}

// Send appends text as a user message, asks the replier with the transcript
// as it was before this message and appends the reply. It returns false
// without side effects for blank text or while another send is pending.
func (c *Chat) Send(ctx context.Context, text string) (Result, bool) {
	c.mu.Lock()
	if strings.TrimSpace(text) == "" || c.loading {
		c.mu.Unlock()
		return Result{}, false
	}
	history := append([]domain.ChatMessage(nil), c.messages...)
	c.messages = append(c.messages, domain.ChatMessage{Role: domain.RoleUser, Text: text})
	c.loading = true
	c.mu.Unlock()

	res := c.replier.Reply(ctx, text, history)

	c.mu.Lock()
	c.messages = append(c.messages, domain.ChatMessage{Role: domain.RoleModel, Text: res.Text})
	c.loading = false
	c.mu.Unlock()
	return res, true
}

func (c *Chat) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

func (c *Chat) Messages() []domain.ChatMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]domain.ChatMessage(nil), c.messages...)
}
