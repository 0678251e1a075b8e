package tool

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"browsing-agent/internal/application/port/output"
	"browsing-agent/internal/domain/entity"
)

var _ output.ToolPort = (*NavigateTool)(nil)

type NavigateTool struct {
	base
}

func NewNavigateTool(d Deps) *NavigateTool {
	return &NavigateTool{base: newBase(d, entity.ToolNavigate.String())}
}

func (t *NavigateTool) Name() entity.ToolName { return entity.ToolNavigate }
func (t *NavigateTool) Description() string {
	return "Opens an absolute URL in the browser. Use it to go to a known website or a Google search URL."
}
func (t *NavigateTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"url": map[string]interface{}{
				"type":        "string",
				"description": "Absolute URL including the scheme, for example https://www.google.com/search?q=go",
			},
		},
		"required": []string{"url"},
	}
}

func (t *NavigateTool) Execute(ctx context.Context, args string) (string, error) {
	var input struct {
		URL string `json:"url"`
	}
	if err := decodeArgs(args, &input); err != nil {
		return "", err
	}
	target, err := validateURL(input.URL)
	if err != nil {
		return "", err
	}

	s, err := t.sessions.Acquire(ctx)
	if err != nil {
		return "", err
	}

	if err := s.Browser().Navigate(ctx, target); err != nil {
		return "", fmt.Errorf("navigate to %s: %w", target, err)
	}
	t.settle(ctx, t.timing().NavigateSettle)
	s.ResetFrame()
	t.commit(ctx, s)

	return fmt.Sprintf("Current URL is: %s\n"+
		"Please output '[send screenshot]' next to analyze the current web page "+
		"or '[highlight clickable elements]' for further navigation.", s.Browser().CurrentURL(ctx)), nil
}

func validateURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid URL %q: %w", raw, err)
	}
	switch u.Scheme {
	case "http", "https":
		if u.Host == "" {
			return "", fmt.Errorf("invalid URL %q: missing host", raw)
		}
	case "file":
	default:
		return "", fmt.Errorf("invalid URL %q: an absolute http(s) URL is required", raw)
	}
	return u.String(), nil
}

var _ output.ToolPort = (*GoBackTool)(nil)

type GoBackTool struct {
	base
}

func NewGoBackTool(d Deps) *GoBackTool {
	return &GoBackTool{base: newBase(d, entity.ToolGoBack.String())}
}

func (t *GoBackTool) Name() entity.ToolName { return entity.ToolGoBack }
func (t *GoBackTool) Description() string {
	return "Goes back one page in the browser history."
}
func (t *GoBackTool) Parameters() map[string]interface{} { return emptySchema() }

func (t *GoBackTool) Execute(ctx context.Context, args string) (string, error) {
	s, err := t.sessions.Acquire(ctx)
	if err != nil {
		return "", err
	}

	if err := s.Browser().Back(ctx); err != nil {
		return "", fmt.Errorf("go back: %w", err)
	}
	t.settle(ctx, t.timing().BackSettle)
	s.ResetFrame()
	t.commit(ctx, s)

	return fmt.Sprintf("Success. Went back 1 page. Current URL is: %s", s.Browser().CurrentURL(ctx)), nil
}

var _ output.ToolPort = (*ScrollTool)(nil)

const (
	scrollTopNotice    = "Reached the top of the page. Cannot scroll up any further.\n"
	scrollBottomNotice = "Reached the bottom of the page. Cannot scroll down any further.\n"
)

type ScrollTool struct {
	base
}

func NewScrollTool(d Deps) *ScrollTool {
	return &ScrollTool{base: newBase(d, entity.ToolScroll.String())}
}

func (t *ScrollTool) Name() entity.ToolName { return entity.ToolScroll }
func (t *ScrollTool) Description() string {
	return "Scrolls the page up or down by one screen height."
}
func (t *ScrollTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"direction": map[string]interface{}{
				"type":        "string",
				"enum":        []string{"up", "down"},
				"description": "Scroll direction",
			},
		},
		"required": []string{"direction"},
	}
}

func (t *ScrollTool) Execute(ctx context.Context, args string) (string, error) {
	var input struct {
		Direction string `json:"direction"`
	}
	if err := decodeArgs(args, &input); err != nil {
		return "", err
	}
	direction := strings.ToLower(strings.TrimSpace(input.Direction))
	if direction != "up" && direction != "down" {
		return "", fmt.Errorf("unknown scroll direction %q: use 'up' or 'down'", input.Direction)
	}

	s, err := t.sessions.Acquire(ctx)
	if err != nil {
		return "", err
	}
	browser := s.Browser()

	size, err := browser.WindowSize(ctx)
	if err != nil {
		return "", fmt.Errorf("window size: %w", err)
	}
	zoom, err := browser.ExecuteScript(ctx, `() => document.body.style.zoom || '1'`)
	if err != nil {
		return "", fmt.Errorf("read zoom: %w", err)
	}
	position, err := browser.ExecuteScript(ctx, `() => window.pageYOffset`)
	if err != nil {
		return "", fmt.Errorf("read scroll position: %w", err)
	}
	total, err := browser.ExecuteScript(ctx, `() => document.body.scrollHeight`)
	if err != nil {
		return "", fmt.Errorf("read scroll height: %w", err)
	}

	viewport := float64(size.Height) / parseZoom(zoom.Str())
	pos := position.Num()

	var delta float64
	var result string
	switch direction {
	case "up":
		if pos <= 0 {
			return scrollTopNotice, nil
		}
		delta = -viewport
		result = "Scrolled up by 1 screen height. Make sure to output '[send screenshot]' command to analyze the page after scrolling."
	case "down":
		if pos+viewport >= total.Num() {
			return scrollBottomNotice, nil
		}
		delta = viewport
		result = "Scrolled down by 1 screen height. Make sure to output '[send screenshot]' command to analyze the page after scrolling."
	}

	if _, err := browser.ExecuteScript(ctx, fmt.Sprintf(`() => window.scrollBy(0, %s)`, strconv.FormatFloat(delta, 'f', 2, 64))); err != nil {
		return "", fmt.Errorf("scroll: %w", err)
	}
	t.commit(ctx, s)
	return result, nil
}

// parseZoom reads a CSS zoom value such as "1.2" or "120%".
func parseZoom(v string) float64 {
	v = strings.TrimSpace(v)
	percent := strings.HasSuffix(v, "%")
	f, err := strconv.ParseFloat(strings.TrimSuffix(v, "%"), 64)
	if err != nil || f <= 0 {
		return 1
	}
	if percent {
		return f / 100
	}
	return f
}
