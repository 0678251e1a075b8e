package highlight

import (
	"context"
	"fmt"
	"strings"

	"browsing-agent/internal/application/port/output"
	"browsing-agent/internal/domain/entity"
	"browsing-agent/internal/usecase/session"
)

const maxDropdownOptions = 10

// Highlighter draws numbered labels over the elements of one category and
// turns them into a perception frame.
type Highlighter struct {
	logger output.LoggerPort
}

func New(logger output.LoggerPort) *Highlighter {
	return &Highlighter{logger: logger}
}

// Highlight replaces the session frame with a fresh pass over category.
func (h *Highlighter) Highlight(ctx context.Context, s *session.Session, category entity.HighlightCategory) (entity.PerceptionFrame, error) {
	selector := category.Selector()
	if selector == "" {
		return entity.PerceptionFrame{}, fmt.Errorf("unknown highlight category %q", category)
	}

	doc := s.Browser()
	s.ResetFrame()

	res, err := doc.ExecuteScript(ctx, highlightScript(selector))
	if err != nil {
		return entity.PerceptionFrame{}, fmt.Errorf("highlight %s: %w", category, err)
	}

	elements, err := doc.FindElements(ctx, entity.HighlightedSelector)
	if err != nil {
		return entity.PerceptionFrame{}, fmt.Errorf("read highlighted elements: %w", err)
	}

	frame := entity.PerceptionFrame{
		Category: category,
		Elements: make([]entity.FrameElement, 0, len(elements)),
	}
	for i, el := range elements {
		item := entity.FrameElement{Index: i + 1, Text: describe(ctx, el)}
		if category == entity.CategoryDropdown {
			item.Options = dropdownOptions(ctx, el)
		}
		frame.Elements = append(frame.Elements, item)
	}

	s.SetFrame(frame)
	h.logger.Debug("Elements highlighted",
		"category", category.String(),
		"labelled", res.Int(),
		"elements", frame.Len())
	return frame, nil
}

// Clear removes labels, the injected stylesheet and highlight markers.
func (h *Highlighter) Clear(ctx context.Context, doc output.DocumentPort) error {
	if _, err := doc.ExecuteScript(ctx, clearScript()); err != nil {
		return fmt.Errorf("clear highlights: %w", err)
	}
	return nil
}

// describe prefers visible text and falls back to attributes that name
// empty form controls.
func describe(ctx context.Context, el output.ElementPort) string {
	if text, err := el.Text(ctx); err == nil {
		if text = collapseSpaces(text); text != "" {
			return text
		}
	}
	for _, attr := range []string{"placeholder", "aria-label", "name", "value"} {
		if v, err := el.Attribute(ctx, attr); err == nil && strings.TrimSpace(v) != "" {
			return collapseSpaces(v)
		}
	}
	return ""
}

func dropdownOptions(ctx context.Context, el output.ElementPort) []string {
	options, err := el.Options(ctx)
	if err != nil {
		return nil
	}
	if len(options) > maxDropdownOptions {
		options = options[:maxDropdownOptions]
	}
	result := make([]string, 0, len(options))
	for _, o := range options {
		result = append(result, collapseSpaces(o))
	}
	return result
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
