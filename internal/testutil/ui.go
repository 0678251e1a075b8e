package testutil

import (
	"context"
	"fmt"
	"sync"

	"browsing-agent/internal/application/port/output"
)

var _ output.UserInteractionPort = (*FakeUI)(nil)

// FakeUI records every call as a short line.
type FakeUI struct {
	mu    sync.Mutex
	Lines []string
}

func NewFakeUI() *FakeUI {
	return &FakeUI{}
}

func (u *FakeUI) add(format string, args ...any) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.Lines = append(u.Lines, fmt.Sprintf(format, args...))
}

func (u *FakeUI) ShowIteration(ctx context.Context, iteration, maxIterations int) {
	u.add("iteration %d/%d", iteration, maxIterations)
}

func (u *FakeUI) ShowToolStart(ctx context.Context, toolName, arguments string) {
	u.add("start %s %s", toolName, arguments)
}

func (u *FakeUI) ShowToolResult(ctx context.Context, toolName, result string, isError bool) {
	u.add("result %s error=%t %s", toolName, isError, result)
}

func (u *FakeUI) ShowThinking(ctx context.Context, content string) {
	u.add("thinking %s", content)
}

func (u *FakeUI) ShowMetaCommand(ctx context.Context, command string) {
	u.add("meta %s", command)
}
