package session

import (
	"context"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"browsing-agent/internal/application/port/output"
	"browsing-agent/internal/domain/entity"
)

const sanitizeScript = `() => {
	['modal', 'popup', 'overlay', 'dialog'].forEach(selector => {
		document.querySelectorAll(selector).forEach(el => el.parentNode && el.parentNode.removeChild(el));
	});
}`

const linkedinScript = `() => {
	['div.msg-overlay-list-bubble', 'div.ml4.msg-overlay-list-bubble__tablet-height'].forEach(selector => {
		document.querySelectorAll(selector).forEach(el => el.parentNode && el.parentNode.removeChild(el));
	});
}`

// Session is the live browser plus the perception frame built on top of it.
// It is used by one tool call at a time.
type Session struct {
	browser output.BrowserPort
	cfg     Config
	logger  output.LoggerPort

	frame entity.PerceptionFrame
}

func newSession(browser output.BrowserPort, cfg Config, logger output.LoggerPort) *Session {
	return &Session{browser: browser, cfg: cfg, logger: logger}
}

func (s *Session) Browser() output.BrowserPort {
	return s.browser
}

func (s *Session) Config() Config {
	return s.cfg
}

func (s *Session) Frame() entity.PerceptionFrame {
	return s.frame
}

func (s *Session) SetFrame(frame entity.PerceptionFrame) {
	s.frame = frame
}

func (s *Session) ResetFrame() {
	s.frame = entity.PerceptionFrame{}
}

// Require fails with a protocol error unless the active frame was produced
// by a highlight pass of category c.
func (s *Session) Require(c entity.HighlightCategory) error {
	if s.frame.Category != c {
		return entity.NewNotHighlightedError(c)
	}
	return nil
}

// ResolveElement re-queries the highlighted elements and returns the one at
// the 1-based index. A page that changed under the frame yields an IndexError.
func (s *Session) ResolveElement(ctx context.Context, index int) (output.ElementPort, error) {
	if _, err := s.frame.Lookup(index); err != nil {
		return nil, err
	}

	live, err := s.browser.FindElements(ctx, entity.HighlightedSelector)
	if err != nil {
		return nil, fmt.Errorf("query highlighted elements: %w", err)
	}
	if index > len(live) {
		return nil, &entity.IndexError{Index: index, Count: len(live)}
	}
	return live[index-1], nil
}

// Commit normalizes page state after navigation or interaction.
func (s *Session) Commit(ctx context.Context) error {
	if _, err := s.browser.ExecuteScript(ctx, sanitizeScript); err != nil {
		return fmt.Errorf("remove overlays: %w", err)
	}

	url := s.browser.CurrentURL(ctx)
	if strings.Contains(url, "linkedin.com") {
		if _, err := s.browser.ExecuteScript(ctx, linkedinScript); err != nil {
			return fmt.Errorf("remove linkedin overlays: %w", err)
		}
	}

	zoom := strconv.FormatFloat(s.cfg.Zoom, 'f', -1, 64)
	if _, err := s.browser.ExecuteScript(ctx, fmt.Sprintf(`() => { document.body.style.zoom = '%s'; }`, zoom)); err != nil {
		return fmt.Errorf("set zoom: %w", err)
	}

	s.logger.Debug("Session committed", "url", url, "zoom", zoom)
	return nil
}

// CaptureScreenshot returns a base64 JPEG of el, or of the page when el is nil.
func (s *Session) CaptureScreenshot(ctx context.Context, el output.ElementPort) (string, error) {
	if el != nil {
		data, err := el.Screenshot(ctx)
		if err != nil {
			return "", fmt.Errorf("element screenshot: %w", err)
		}
		return base64.StdEncoding.EncodeToString(data), nil
	}

	shot, err := s.browser.Screenshot(ctx, s.cfg.FullPageScreenshot)
	if err != nil {
		return "", fmt.Errorf("page screenshot: %w", err)
	}
	return shot.Base64(), nil
}

// CaptureDataURL is CaptureScreenshot of the whole page in data URL form.
func (s *Session) CaptureDataURL(ctx context.Context) (string, error) {
	shot, err := s.browser.Screenshot(ctx, s.cfg.FullPageScreenshot)
	if err != nil {
		return "", fmt.Errorf("page screenshot: %w", err)
	}
	return shot.DataURL(), nil
}
