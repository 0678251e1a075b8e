package executor

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"browsing-agent/internal/application/port/output"
	"browsing-agent/internal/application/service"
	"browsing-agent/internal/domain/command"
	"browsing-agent/internal/domain/entity"
	"browsing-agent/internal/testutil"
	"browsing-agent/internal/usecase/highlight"
	"browsing-agent/internal/usecase/perception"
	"browsing-agent/internal/usecase/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type stubTool struct {
	name  entity.ToolName
	calls []string
	run   func(args string) (string, error)
}

func (s *stubTool) Name() entity.ToolName              { return s.name }
func (s *stubTool) Description() string                { return "stub" }
func (s *stubTool) Parameters() map[string]interface{} { return map[string]interface{}{"type": "object"} }

func (s *stubTool) Execute(ctx context.Context, args string) (string, error) {
	s.calls = append(s.calls, args)
	if s.run != nil {
		return s.run(args)
	}
	return "ok", nil
}

type stubPerceiver struct {
	metas []command.Meta
	err   error
}

func (p *stubPerceiver) Respond(ctx context.Context, meta command.Meta) (entity.Message, error) {
	p.metas = append(p.metas, meta)
	if p.err != nil {
		return entity.Message{}, p.err
	}
	return entity.Message{Role: entity.RoleUser, Content: "screenshot for " + meta.String()}, nil
}

type harness struct {
	llm     *testutil.FakeLLM
	metrics *testutil.FakeMetrics
	ui      *testutil.FakeUI
	percept *stubPerceiver
	uc      *UseCase
}

func newHarness(llm *testutil.FakeLLM, maxIterations int, tools ...output.ToolPort) *harness {
	registry := service.NewToolRegistry()
	for _, tool := range tools {
		registry.Register(tool)
	}
	h := &harness{
		llm:     llm,
		metrics: testutil.NewFakeMetrics(),
		ui:      testutil.NewFakeUI(),
		percept: &stubPerceiver{},
	}
	h.uc = New(llm, registry, h.percept, h.ui, h.metrics, testutil.NewFakeClock(), testutil.NewFakeLogger(), Config{
		SystemPrompt:  "system prompt",
		MaxIterations: maxIterations,
	})
	return h
}

func toolCall(id string, name entity.ToolName, args string) entity.Message {
	return entity.Message{ToolCalls: []entity.ToolCall{{ID: id, Name: name, Arguments: args}}}
}

func lastMessage(req output.ChatRequest) entity.Message {
	return req.Messages[len(req.Messages)-1]
}

func TestExecute_FinalAnswer(t *testing.T) {
	h := newHarness(testutil.NewFakeLLM(entity.Message{Content: "The answer is 42."}), 0)

	result, err := h.uc.Execute(context.Background(), "find the answer")
	require.NoError(t, err)

	assert.Equal(t, "The answer is 42.", result.FinalAnswer)
	assert.Equal(t, 1, result.Iterations)
	assert.NotEmpty(t, result.TaskID)
	assert.Equal(t, 1, h.metrics.Iterations)

	req := h.llm.Requests[0]
	require.Len(t, req.Messages, 2)
	assert.Equal(t, entity.RoleSystem, req.Messages[0].Role)
	assert.Equal(t, "system prompt", req.Messages[0].Content)
	assert.Equal(t, "find the answer", req.Messages[1].Content)
}

func TestExecute_ToolObservation(t *testing.T) {
	tool := &stubTool{name: entity.ToolNavigate}
	h := newHarness(testutil.NewFakeLLM(
		toolCall("call-1", entity.ToolNavigate, `{"url":"https://example.com"}`),
		entity.Message{Content: "done"},
	), 0, tool)

	result, err := h.uc.Execute(context.Background(), "open example")
	require.NoError(t, err)

	assert.Equal(t, "done", result.FinalAnswer)
	assert.Equal(t, 2, result.Iterations)
	assert.Equal(t, []string{`{"url":"https://example.com"}`}, tool.calls)
	assert.Equal(t, []string{output.OutcomeSuccess}, h.metrics.Tools[entity.ToolNavigate.String()])

	obs := lastMessage(h.llm.Requests[1])
	assert.Equal(t, entity.RoleTool, obs.Role)
	assert.Equal(t, "call-1", obs.ToolCallID)
	assert.Equal(t, "ok", obs.Content)
}

func TestExecute_ToolErrorBecomesObservation(t *testing.T) {
	tool := &stubTool{name: entity.ToolClickElement, run: func(string) (string, error) {
		return "", entity.NewNotHighlightedError(entity.CategoryClickable)
	}}
	h := newHarness(testutil.NewFakeLLM(
		toolCall("c1", entity.ToolClickElement, `{"number":1}`),
		entity.Message{Content: "gave up"},
	), 0, tool)

	_, err := h.uc.Execute(context.Background(), "click")
	require.NoError(t, err)

	obs := lastMessage(h.llm.Requests[1])
	assert.True(t, strings.HasPrefix(obs.Content, "Error: elements not highlighted"))
	assert.Equal(t, 1, h.metrics.ProtocolErrors["elements not highlighted"])
	assert.Equal(t, []string{output.OutcomeError}, h.metrics.Tools[entity.ToolClickElement.String()])
}

func TestExecute_UnknownTool(t *testing.T) {
	h := newHarness(testutil.NewFakeLLM(
		toolCall("c1", "teleport", `{}`),
		entity.Message{Content: "ok"},
	), 0)

	_, err := h.uc.Execute(context.Background(), "go")
	require.NoError(t, err)
	assert.Equal(t, "Error: unknown tool 'teleport'", lastMessage(h.llm.Requests[1]).Content)
}

func TestExecute_LongObservationTruncated(t *testing.T) {
	tool := &stubTool{name: entity.ToolSummarize, run: func(string) (string, error) {
		return strings.Repeat("a", maxObservationLen+500), nil
	}}
	h := newHarness(testutil.NewFakeLLM(
		toolCall("c1", entity.ToolSummarize, `{}`),
		entity.Message{Content: "ok"},
	), 0, tool)

	_, err := h.uc.Execute(context.Background(), "summarize")
	require.NoError(t, err)

	content := lastMessage(h.llm.Requests[1]).Content
	assert.True(t, strings.HasSuffix(content, "(truncated)"))
	assert.Less(t, len(content), maxObservationLen+100)
}

func TestExecute_DriverInitErrorAborts(t *testing.T) {
	tool := &stubTool{name: entity.ToolNavigate, run: func(string) (string, error) {
		return "", &entity.DriverInitError{Err: errors.New("chromium not found")}
	}}
	h := newHarness(testutil.NewFakeLLM(toolCall("c1", entity.ToolNavigate, `{"url":"https://example.com"}`)), 0, tool)

	_, err := h.uc.Execute(context.Background(), "go")
	var initErr *entity.DriverInitError
	require.ErrorAs(t, err, &initErr)
	assert.Equal(t, 1, h.llm.Calls())
}

func TestExecute_MetaCommandRoundTrip(t *testing.T) {
	h := newHarness(testutil.NewFakeLLM(
		entity.Message{Content: "Let me look. [highlight clickable elements]"},
		entity.Message{Content: "I see the page."},
	), 0)

	result, err := h.uc.Execute(context.Background(), "look")
	require.NoError(t, err)

	assert.Equal(t, 2, result.Iterations)
	assert.Equal(t, []command.Meta{command.MetaHighlightClickable}, h.percept.metas)
	assert.Contains(t, h.ui.Lines, "meta [highlight clickable elements]")

	req := h.llm.Requests[1]
	require.Len(t, req.Messages, 4)
	assert.Equal(t, entity.RoleAssistant, req.Messages[2].Role)
	assert.Equal(t, "screenshot for [highlight clickable elements]", req.Messages[3].Content)
}

func TestExecute_MetaCommandFailureAborts(t *testing.T) {
	h := newHarness(testutil.NewFakeLLM(entity.Message{Content: "[send screenshot]"}), 0)
	h.percept.err = &entity.DriverInitError{Err: errors.New("no browser")}

	_, err := h.uc.Execute(context.Background(), "look")
	var initErr *entity.DriverInitError
	assert.ErrorAs(t, err, &initErr)
}

func TestExecute_RepeatedMessageRejected(t *testing.T) {
	tool := &stubTool{name: entity.ToolScroll}
	repeated := entity.Message{
		Content:   "Scrolling down to find the link.",
		ToolCalls: []entity.ToolCall{{ID: "s", Name: entity.ToolScroll, Arguments: `{"direction":"down"}`}},
	}
	h := newHarness(testutil.NewFakeLLM(repeated, repeated, entity.Message{Content: "Found it."}), 0, tool)

	result, err := h.uc.Execute(context.Background(), "find link")
	require.NoError(t, err)

	assert.Equal(t, "Found it.", result.FinalAnswer)
	assert.Len(t, tool.calls, 1)
	assert.Equal(t, 1, h.metrics.ProtocolErrors["repeated message"])

	req := h.llm.Requests[2]
	last := lastMessage(req)
	assert.Equal(t, entity.RoleUser, last.Role)
	assert.True(t, strings.HasPrefix(last.Content, "Error: repeated message"))
	assert.Equal(t, entity.RoleTool, req.Messages[len(req.Messages)-2].Role)
}

func TestExecute_BracketOnlyRepeatsAllowed(t *testing.T) {
	h := newHarness(testutil.NewFakeLLM(
		entity.Message{Content: "[send screenshot]"},
		entity.Message{Content: "[send screenshot]"},
		entity.Message{Content: "done"},
	), 0)

	_, err := h.uc.Execute(context.Background(), "look twice")
	require.NoError(t, err)
	assert.Len(t, h.percept.metas, 2)
	assert.Empty(t, h.metrics.ProtocolErrors)
}

func TestExecute_MaxIterations(t *testing.T) {
	tool := &stubTool{name: entity.ToolGoBack}
	n := 0
	llm := &testutil.FakeLLM{ChatFunc: func(req output.ChatRequest) (*output.ChatResponse, error) {
		n++
		return &output.ChatResponse{Message: entity.Message{
			Role:      entity.RoleAssistant,
			Content:   "step " + strings.Repeat("x", n),
			ToolCalls: []entity.ToolCall{{ID: "b", Name: entity.ToolGoBack, Arguments: `{}`}},
		}}, nil
	}}
	h := newHarness(llm, 3, tool)

	_, err := h.uc.Execute(context.Background(), "loop")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max iterations (3)")
	assert.Equal(t, 3, h.metrics.Iterations)
}

func TestExecute_LLMError(t *testing.T) {
	h := newHarness(testutil.NewFakeLLM(), 0)

	_, err := h.uc.Execute(context.Background(), "x")
	assert.ErrorContains(t, err, "llm request failed")
}

func TestExecute_CancelledContext(t *testing.T) {
	h := newHarness(testutil.NewFakeLLM(entity.Message{Content: "never"}), 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := h.uc.Execute(ctx, "x")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, h.llm.Calls())
}

func TestExecute_WithPerceptionService(t *testing.T) {
	browser := testutil.NewFakeBrowser()
	logger := testutil.NewFakeLogger()
	sessions := session.NewManager(session.DefaultConfig(), func(ctx context.Context, cfg session.Config) (output.BrowserPort, error) {
		return browser, nil
	}, logger)
	registry := service.NewToolRegistry()
	llm := testutil.NewFakeLLM(
		entity.Message{Content: "[send screenshot]"},
		entity.Message{Content: "It is a blank page."},
	)
	uc := New(llm, registry, perception.New(sessions, highlight.New(logger), logger), testutil.NewFakeUI(),
		testutil.NewFakeMetrics(), testutil.NewFakeClock(), logger, Config{SystemPrompt: "sys"})

	result, err := uc.Execute(context.Background(), "describe")
	require.NoError(t, err)
	assert.Equal(t, "It is a blank page.", result.FinalAnswer)

	screenshot := lastMessage(llm.Requests[1])
	require.Len(t, screenshot.Parts, 2)
	assert.Equal(t, entity.PartImage, screenshot.Parts[1].Type)
}

func TestTruncateObservation_KeepsRunesWhole(t *testing.T) {
	s := strings.Repeat("a", 9) + "é" + "tail"

	out := truncateObservation(s, 10)
	assert.Equal(t, strings.Repeat("a", 9)+"\n... (truncated)", out)
	assert.True(t, utf8.ValidString(out))

	assert.Equal(t, "aaaa\n... (truncated)", truncateObservation("aaaaaa", 4))
}
