package session

import (
	"context"
	"errors"
	"sync"

	"browsing-agent/internal/application/port/output"
	"browsing-agent/internal/domain/entity"
)

var ErrSessionClosed = errors.New("browser session closed")

// Factory launches a browser configured from cfg.
type Factory func(ctx context.Context, cfg Config) (output.BrowserPort, error)

// Manager owns the single browser session of one agent. The browser is
// launched on the first Acquire and reused until Close.
type Manager struct {
	mu      sync.Mutex
	cfg     Config
	factory Factory
	logger  output.LoggerPort

	current *Session
	initErr error
	closed  bool
}

func NewManager(cfg Config, factory Factory, logger output.LoggerPort) *Manager {
	if cfg.Zoom <= 0 {
		cfg.Zoom = DefaultZoom
	}
	return &Manager{
		cfg:     cfg,
		factory: factory,
		logger:  logger,
	}
}

func (m *Manager) Config() Config {
	return m.cfg
}

// Acquire returns the live session, creating it on first use. A launch
// failure is returned as *entity.DriverInitError and is not retried.
func (m *Manager) Acquire(ctx context.Context) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, ErrSessionClosed
	}
	if m.initErr != nil {
		return nil, m.initErr
	}
	if m.current != nil {
		return m.current, nil
	}

	m.logger.Info("Launching browser",
		"headless", m.cfg.Headless,
		"profile", m.cfg.ProfilePath != "",
		"fullPageScreenshot", m.cfg.FullPageScreenshot)

	browser, err := m.factory(ctx, m.cfg)
	if err != nil {
		var initErr *entity.DriverInitError
		if !errors.As(err, &initErr) {
			initErr = &entity.DriverInitError{Err: err}
		}
		m.initErr = initErr
		m.logger.Error("Browser launch failed", "error", err)
		return nil, initErr
	}

	m.current = newSession(browser, m.cfg, m.logger)
	return m.current, nil
}

func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}
	m.closed = true
	if m.current != nil {
		m.current.browser.Close()
		m.current = nil
		m.logger.Info("Browser closed")
	}
	return nil
}
