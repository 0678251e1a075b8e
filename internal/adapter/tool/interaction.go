package tool

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"browsing-agent/internal/application/port/output"
	"browsing-agent/internal/domain/entity"
	"browsing-agent/internal/usecase/session"
)

const invalidElementMessage = "Element number is invalid. Please try again with a valid element number."

var _ output.ToolPort = (*ClickTool)(nil)

type ClickTool struct {
	base
}

func NewClickTool(d Deps) *ClickTool {
	return &ClickTool{base: newBase(d, entity.ToolClickElement.String())}
}

func (t *ClickTool) Name() entity.ToolName { return entity.ToolClickElement }
func (t *ClickTool) Description() string {
	return "Clicks a highlighted element by its number. Requires '[highlight clickable elements]' first."
}
func (t *ClickTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"element_number": map[string]interface{}{
				"type":        "integer",
				"description": "Number of the highlighted element to click",
			},
		},
		"required": []string{"element_number"},
	}
}

func (t *ClickTool) Execute(ctx context.Context, args string) (string, error) {
	var input struct {
		ElementNumber int `json:"element_number"`
	}
	if err := decodeArgs(args, &input); err != nil {
		return "", err
	}

	s, err := t.sessions.Acquire(ctx)
	if err != nil {
		return "", err
	}
	if err := s.Require(entity.CategoryClickable); err != nil {
		return "", err
	}

	result := t.click(ctx, s, input.ElementNumber)
	t.finishInteraction(ctx, s)
	return result, nil
}

func (t *ClickTool) click(ctx context.Context, s *session.Session, number int) string {
	el, err := s.ResolveElement(ctx, number)
	if err != nil {
		return resolveFailure(err)
	}

	text, _ := el.Text(ctx)
	text = strings.TrimSpace(text)

	if err := el.Click(ctx); err != nil {
		if !errors.Is(err, output.ErrClickIntercepted) {
			return err.Error()
		}
		t.logger.Debug("Click intercepted, falling back to script click", "element", number)
		if err := el.JSClick(ctx); err != nil {
			return err.Error()
		}
	}
	t.settle(ctx, t.timing().InteractionSettle)

	return fmt.Sprintf("Clicked on element %d. Text on clicked element: '%s'. Current URL is %s. %s",
		number, text, s.Browser().CurrentURL(ctx), screenshotHint)
}

var _ output.ToolPort = (*SendKeysTool)(nil)

type SendKeysTool struct {
	base
}

func NewSendKeysTool(d Deps) *SendKeysTool {
	return &SendKeysTool{base: newBase(d, entity.ToolSendKeys.String())}
}

func (t *SendKeysTool) Name() entity.ToolName { return entity.ToolSendKeys }
func (t *SendKeysTool) Description() string {
	return "Types text into highlighted input fields in the given order and presses Enter after the last one. " +
		"Requires '[highlight text fields]' first."
}
func (t *SendKeysTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"elements_and_texts": map[string]interface{}{
				"type":        "object",
				"description": `Element numbers mapped to the text to type, in typing order. Example: {"52": "johndoe@gmail.com", "53": "password123"}`,
				"additionalProperties": map[string]interface{}{
					"type": "string",
				},
			},
		},
		"required": []string{"elements_and_texts"},
	}
}

func (t *SendKeysTool) Execute(ctx context.Context, args string) (string, error) {
	var input struct {
		ElementsAndTexts json.RawMessage `json:"elements_and_texts"`
	}
	if err := decodeArgs(args, &input); err != nil {
		return "", err
	}
	pairs, err := decodeIndexMapping(input.ElementsAndTexts, "text")
	if err != nil {
		return "", err
	}
	if len(pairs) == 0 {
		return "", entity.NewMissingArgumentError("elements_and_texts")
	}

	s, err := t.sessions.Acquire(ctx)
	if err != nil {
		return "", err
	}
	if err := s.Require(entity.CategoryTextInput); err != nil {
		return "", err
	}

	var failures []string
	submitted := false
	for i, pair := range pairs {
		el, err := s.ResolveElement(ctx, pair.Index)
		if err != nil {
			failures = append(failures, fmt.Sprintf("element %s: %v", pair.Key, err))
			continue
		}

		if err := el.Focus(ctx); err != nil {
			t.logger.Debug("Focus failed", "element", pair.Index, "error", err)
		}
		if err := el.ClearText(ctx); err != nil {
			t.logger.Debug("Clear text failed", "element", pair.Index, "error", err)
		}
		if err := el.Input(ctx, rawString(pair.Value)); err != nil {
			failures = append(failures, fmt.Sprintf("element %s: %v", pair.Key, err))
			continue
		}

		if i == len(pairs)-1 {
			if err := el.PressEnter(ctx); err != nil {
				failures = append(failures, fmt.Sprintf("element %s: press Enter: %v", pair.Key, err))
				continue
			}
			submitted = true
			t.settle(ctx, t.timing().InteractionSettle)
		}
	}

	result := t.report(ctx, s, len(pairs), failures, submitted)
	t.finishInteraction(ctx, s)
	return result, nil
}

func (t *SendKeysTool) report(ctx context.Context, s *session.Session, total int, failures []string, submitted bool) string {
	if len(failures) == total {
		return "Could not send input. " + strings.Join(failures, "; ")
	}

	var b strings.Builder
	b.WriteString("Sent input to elements")
	if submitted {
		b.WriteString(" and pressed Enter")
	}
	fmt.Fprintf(&b, ". Current URL is %s. %s", s.Browser().CurrentURL(ctx), screenshotHint)
	if len(failures) > 0 {
		b.WriteString(" Failed: " + strings.Join(failures, "; ") + ".")
	}
	return b.String()
}

var _ output.ToolPort = (*SelectDropdownTool)(nil)

type SelectDropdownTool struct {
	base
}

func NewSelectDropdownTool(d Deps) *SelectDropdownTool {
	return &SelectDropdownTool{base: newBase(d, entity.ToolSelectDropdown.String())}
}

func (t *SelectDropdownTool) Name() entity.ToolName { return entity.ToolSelectDropdown }
func (t *SelectDropdownTool) Description() string {
	return "Selects options in highlighted dropdowns by 0-based option position. Requires '[highlight dropdowns]' first."
}
func (t *SelectDropdownTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"key_value_pairs": map[string]interface{}{
				"type":        "object",
				"description": `Dropdown numbers mapped to the 0-based position of the option to select. Example: {"1": 0, "2": 3}`,
				"additionalProperties": map[string]interface{}{
					"type": "integer",
				},
			},
		},
		"required": []string{"key_value_pairs"},
	}
}

func (t *SelectDropdownTool) Execute(ctx context.Context, args string) (string, error) {
	var input struct {
		KeyValuePairs json.RawMessage `json:"key_value_pairs"`
	}
	if err := decodeArgs(args, &input); err != nil {
		return "", err
	}
	pairs, err := decodeIndexMapping(input.KeyValuePairs, "option")
	if err != nil || len(pairs) == 0 {
		return "", entity.NewMissingArgumentError("key_value_pairs")
	}

	s, err := t.sessions.Acquire(ctx)
	if err != nil {
		return "", err
	}
	if err := s.Require(entity.CategoryDropdown); err != nil {
		return "", err
	}

	var failures []string
	for _, pair := range pairs {
		if err := t.selectOne(ctx, s, pair); err != nil {
			failures = append(failures, fmt.Sprintf("dropdown %s: %v", pair.Key, err))
		}
	}

	var result string
	switch {
	case len(failures) == len(pairs):
		result = "Could not select options. " + strings.Join(failures, "; ")
	case len(failures) > 0:
		result = fmt.Sprintf("Success. Option is selected in the dropdown. %s Failed: %s.", screenshotHint, strings.Join(failures, "; "))
	default:
		result = "Success. Option is selected in the dropdown. " + screenshotHint
	}

	t.finishInteraction(ctx, s)
	return result, nil
}

func (t *SelectDropdownTool) selectOne(ctx context.Context, s *session.Session, pair indexPair) error {
	position, err := rawInt(pair.Value)
	if err != nil {
		return err
	}
	el, err := s.ResolveElement(ctx, pair.Index)
	if err != nil {
		return err
	}
	return el.SelectOption(ctx, position)
}

func resolveFailure(err error) string {
	var indexErr *entity.IndexError
	if errors.As(err, &indexErr) {
		return invalidElementMessage
	}
	return err.Error()
}
