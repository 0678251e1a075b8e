package command

import (
	"sync"

	"browsing-agent/internal/domain/entity"
)

// EchoGuard rejects a message whose bracket-stripped text equals the
// immediately preceding one.
type EchoGuard struct {
	mu   sync.Mutex
	prev string
}

func NewEchoGuard() *EchoGuard {
	return &EchoGuard{}
}

// Check records message and returns a *entity.ProtocolError when it repeats
// the previous one. Empty normalized messages never count as repeats.
func (g *EchoGuard) Check(message string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	normalized := StripBrackets(message)
	if normalized != "" && normalized == g.prev {
		return entity.NewRepeatedMessageError()
	}
	g.prev = normalized
	return nil
}
