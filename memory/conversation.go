// Package memory holds the caller-supplied conversation history for a single
// chat request. Nothing here persists between requests.
package memory

import (
	"github.com/hannahmacd/portfolio-core/llm"
)

// Conversation is an ordered list of prior turns.
type Conversation struct {
	Messages []llm.Message
}

func (c *Conversation) AddUserMessage(content string) {
	c.Messages = append(c.Messages, llm.Message{Role: "user", Content: content})
}

func (c *Conversation) AddAssistantMessage(content string) {
	c.Messages = append(c.Messages, llm.Message{Role: "assistant", Content: content})
}

// Tail returns the last n messages, keeping prompt size bounded no matter how
// long the client-side transcript grows.
func (c *Conversation) Tail(n int) []llm.Message {
	if n <= 0 || len(c.Messages) == 0 {
		return nil
	}
	if len(c.Messages) <= n {
		return c.Messages
	}
	return c.Messages[len(c.Messages)-n:]
}
