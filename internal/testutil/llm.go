package testutil

import (
	"context"
	"errors"
	"sync"

	"browsing-agent/internal/application/port/output"
	"browsing-agent/internal/domain/entity"
)

var _ output.LLMPort = (*FakeLLM)(nil)

// FakeLLM answers with ChatFunc when set, otherwise pops Responses in order.
type FakeLLM struct {
	mu        sync.Mutex
	ChatFunc  func(req output.ChatRequest) (*output.ChatResponse, error)
	Responses []entity.Message
	Requests  []output.ChatRequest
}

func NewFakeLLM(responses ...entity.Message) *FakeLLM {
	return &FakeLLM{Responses: responses}
}

// TextReply builds an LLM that always answers with text.
func TextReply(text string) *FakeLLM {
	return &FakeLLM{ChatFunc: func(req output.ChatRequest) (*output.ChatResponse, error) {
		return &output.ChatResponse{Message: entity.Message{Role: entity.RoleAssistant, Content: text}}, nil
	}}
}

func (f *FakeLLM) Chat(ctx context.Context, req output.ChatRequest) (*output.ChatResponse, error) {
	f.mu.Lock()
	f.Requests = append(f.Requests, req)
	chat := f.ChatFunc
	f.mu.Unlock()

	if chat != nil {
		return chat(req)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.Responses) == 0 {
		return nil, errors.New("fake llm: no responses left")
	}
	msg := f.Responses[0]
	f.Responses = f.Responses[1:]
	if msg.Role == "" {
		msg.Role = entity.RoleAssistant
	}
	return &output.ChatResponse{Message: msg}, nil
}

func (f *FakeLLM) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Requests)
}
