package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/SaiNageswarS/go-api-boot/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/hannahmacd/portfolio-core/chat"
	"github.com/hannahmacd/portfolio-core/llm"
	"github.com/hannahmacd/portfolio-core/memory"
)

// Answerer is the chat pipeline surface the handler consumes.
type Answerer interface {
	Answer(ctx context.Context, message string, history []llm.Message) (*chat.Answer, error)
}

type ChatRequest struct {
	Message string        `json:"message"`
	History []llm.Message `json:"history"`
}

type ChatHandler struct {
	composer Answerer
}

func NewChatHandler(composer Answerer) *ChatHandler {
	return &ChatHandler{composer: composer}
}

// Handle serves POST /api/chat. A missing or empty message is a client
// error; every downstream failure surfaces as a 500 with the underlying
// message logged server-side.
func (h *ChatHandler) Handle(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing `message`"})
		return
	}

	message := strings.TrimSpace(req.Message)
	if message == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing `message`"})
		return
	}

	answer, err := h.composer.Answer(c.Request.Context(), message, normalizeHistory(req.History))
	if err != nil {
		logger.Error("Chat request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, answer)
}

// normalizeHistory rebuilds the client-supplied transcript with coerced
// roles: anything that is not an assistant turn becomes a user turn, so a
// crafted history cannot smuggle system messages into the model call.
func normalizeHistory(history []llm.Message) []llm.Message {
	var conversation memory.Conversation
	for _, m := range history {
		if m.Role == "assistant" {
			conversation.AddAssistantMessage(m.Content)
		} else {
			conversation.AddUserMessage(m.Content)
		}
	}
	return conversation.Messages
}
