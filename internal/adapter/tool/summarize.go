package tool

import (
	"context"
	"fmt"
	"strings"

	"github.com/ysmood/gson"

	"browsing-agent/internal/application/port/output"
	"browsing-agent/internal/domain/entity"
	"browsing-agent/internal/infrastructure/browser/pagetext"
	"browsing-agent/internal/infrastructure/prompts"
)

const (
	DefaultSummaryWords = 10000

	bodyTextScript = `() => document.body ? document.body.innerText : ''`
	pageHTMLScript = `() => document.documentElement ? document.documentElement.outerHTML : ''`
)

var _ output.ToolPort = (*SummarizeTool)(nil)

type SummarizeTool struct {
	base
	llm      output.LLMPort
	model    string
	maxWords int
}

func NewSummarizeTool(d Deps, llm output.LLMPort, model string, maxWords int) *SummarizeTool {
	if maxWords <= 0 {
		maxWords = DefaultSummaryWords
	}
	return &SummarizeTool{
		base:     newBase(d, entity.ToolSummarize.String()),
		llm:      llm,
		model:    model,
		maxWords: maxWords,
	}
}

func (t *SummarizeTool) Name() entity.ToolName { return entity.ToolSummarize }
func (t *SummarizeTool) Description() string {
	return "Summarizes the text content of the current web page."
}
func (t *SummarizeTool) Parameters() map[string]interface{} { return emptySchema() }

func (t *SummarizeTool) Execute(ctx context.Context, _ string) (string, error) {
	s, err := t.sessions.Acquire(ctx)
	if err != nil {
		return "", err
	}

	content, err := t.pageText(ctx, s.Browser())
	if err != nil {
		return fmt.Sprintf("Error extracting webpage content: %v", err), nil
	}
	content = pagetext.TruncateWords(content, t.maxWords)
	if content == "" {
		return "Error: No content found on the webpage to summarize.", nil
	}

	user, err := prompts.SummarizeUserPrompt(content)
	if err != nil {
		return fmt.Sprintf("Error generating summary: %v", err), nil
	}

	resp, err := t.llm.Chat(ctx, output.ChatRequest{
		Model: t.model,
		Messages: []entity.Message{
			{Role: entity.RoleSystem, Content: prompts.SummarizeSystemPrompt},
			{Role: entity.RoleUser, Content: user},
		},
	})
	if err != nil {
		return fmt.Sprintf("Error generating summary: %v", err), nil
	}

	t.logger.Debug("Page summarized", "words", len(strings.Fields(content)))
	return resp.Message.Text(), nil
}

// pageText prefers the rendered body text and falls back to parsing markup.
func (t *SummarizeTool) pageText(ctx context.Context, doc output.DocumentPort) (string, error) {
	res, err := doc.ExecuteScript(ctx, bodyTextScript)
	if err != nil {
		return "", err
	}
	if text := strings.TrimSpace(jsonText(res)); text != "" {
		return text, nil
	}

	res, err = doc.ExecuteScript(ctx, pageHTMLScript)
	if err != nil {
		return "", err
	}
	return pagetext.Extract(jsonText(res), nil), nil
}

func jsonText(v gson.JSON) string {
	if v.Nil() {
		return ""
	}
	return v.Str()
}
