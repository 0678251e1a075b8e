package tool

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"browsing-agent/internal/application/port/output"
	"browsing-agent/internal/usecase/highlight"
	"browsing-agent/internal/usecase/session"
)

const screenshotHint = "To further analyze the page, output '[send screenshot]' command."

// Deps are the collaborators shared by every browser tool.
type Deps struct {
	Sessions    *session.Manager
	Highlighter *highlight.Highlighter
	Clock       output.Clock
	Logger      output.LoggerPort
}

type base struct {
	sessions    *session.Manager
	highlighter *highlight.Highlighter
	clock       output.Clock
	logger      output.LoggerPort
}

func newBase(d Deps, name string) base {
	return base{
		sessions:    d.Sessions,
		highlighter: d.Highlighter,
		clock:       d.Clock,
		logger:      d.Logger.WithField("tool", name),
	}
}

func (b base) timing() session.Timing {
	return b.sessions.Config().Timing
}

func (b base) settle(ctx context.Context, d time.Duration) {
	if err := b.clock.Sleep(ctx, d); err != nil {
		b.logger.Debug("Settle wait interrupted", "error", err)
	}
}

// finishInteraction runs after every index-consuming action: highlights go
// away, the frame is invalidated and the page is normalized.
func (b base) finishInteraction(ctx context.Context, s *session.Session) {
	if err := b.highlighter.Clear(ctx, s.Browser()); err != nil {
		b.logger.Warn("Clear highlights failed", "error", err)
	}
	s.ResetFrame()
	b.commit(ctx, s)
}

func (b base) commit(ctx context.Context, s *session.Session) {
	if err := s.Commit(ctx); err != nil {
		b.logger.Warn("Session commit failed", "error", err)
	}
}

func emptySchema() map[string]interface{} {
	return map[string]interface{}{
		"type":       "object",
		"properties": map[string]interface{}{},
		"required":   []string{},
	}
}

func decodeArgs(args string, v any) error {
	if strings.TrimSpace(args) == "" {
		args = "{}"
	}
	if err := json.Unmarshal([]byte(args), v); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

// indexPair is one entry of an element-number keyed mapping. Key keeps the
// caller's spelling for error reports.
type indexPair struct {
	Key   string
	Index int
	Value json.RawMessage
}

// decodeIndexMapping reads a JSON object keyed by element number, keeping the
// caller's key order. An array of {"element_number", valueField} objects is
// accepted as well.
func decodeIndexMapping(raw json.RawMessage, valueField string) ([]indexPair, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	if raw[0] == '[' {
		var items []map[string]json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, fmt.Errorf("decode mapping: %w", err)
		}
		pairs := make([]indexPair, 0, len(items))
		for _, item := range items {
			key := strings.Trim(string(item["element_number"]), `"`)
			pairs = append(pairs, indexPair{Key: key, Index: parseIndex(key), Value: item[valueField]})
		}
		return pairs, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("decode mapping: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("decode mapping: expected an object")
	}

	var pairs []indexPair
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("decode mapping: %w", err)
		}
		key, _ := keyTok.(string)
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, fmt.Errorf("decode mapping value %q: %w", key, err)
		}
		pairs = append(pairs, indexPair{Key: key, Index: parseIndex(key), Value: value})
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("decode mapping: %w", err)
	}
	return pairs, nil
}

// parseIndex returns 0 for keys that are not numbers; 0 never resolves.
func parseIndex(key string) int {
	n, err := strconv.Atoi(strings.TrimSpace(key))
	if err != nil {
		return 0
	}
	return n
}

// rawString accepts a JSON string or any other scalar rendered as text.
func rawString(v json.RawMessage) string {
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(v))
}

// rawInt accepts a JSON number or a numeric string.
func rawInt(v json.RawMessage) (int, error) {
	var n int
	if err := json.Unmarshal(v, &n); err == nil {
		return n, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(rawString(v)))
	if err != nil {
		return 0, fmt.Errorf("option position %s is not a number", string(v))
	}
	return n, nil
}
