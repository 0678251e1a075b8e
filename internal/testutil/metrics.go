package testutil

import (
	"sync"
	"time"

	"browsing-agent/internal/application/port/output"
)

var _ output.MetricsPort = (*FakeMetrics)(nil)

type FakeMetrics struct {
	mu             sync.Mutex
	Tools          map[string][]string
	ProtocolErrors map[string]int
	Captcha        []string
	Iterations     int
}

func NewFakeMetrics() *FakeMetrics {
	return &FakeMetrics{Tools: map[string][]string{}, ProtocolErrors: map[string]int{}}
}

func (m *FakeMetrics) ObserveTool(tool, outcome string, d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Tools[tool] = append(m.Tools[tool], outcome)
}

func (m *FakeMetrics) IncProtocolError(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ProtocolErrors[kind]++
}

func (m *FakeMetrics) ObserveCaptcha(outcome string, attempts int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Captcha = append(m.Captcha, outcome)
}

func (m *FakeMetrics) IncIteration() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Iterations++
}
