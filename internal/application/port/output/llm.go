package output

import (
	"context"

	"browsing-agent/internal/domain/entity"
)

type LLMPort interface {
	Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error)
}

// ChatRequest leaves Model empty to use the adapter default. MaxTokens 0
// means no limit.
type ChatRequest struct {
	Messages    []entity.Message
	Tools       []entity.ToolDefinition
	Model       string
	MaxTokens   int
	Temperature float32
}

type ChatResponse struct {
	Message entity.Message
}
