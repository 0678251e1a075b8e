package prompts

import (
	"fmt"

	"browsing-agent/internal/domain/entity"

	lcprompts "github.com/tmc/langchaingo/prompts"
)

const SummarizeSystemPrompt = "Your task is to summarize the content of the provided webpage. " +
	"The summary should be concise and informative, capturing the main points and takeaways of the page. " +
	"Focus on key information and maintain a clear structure."

const CaptchaGridNote = "Keep in mind that all images are part of a bigger image in a 4x4 grid."

var (
	summarizeTemplate = lcprompts.NewPromptTemplate(
		"Summarize the content of the following webpage:\n\n{{.content}}",
		[]string{"content"},
	)

	captchaSystemTemplate = lcprompts.NewPromptTemplate(
		"You are an AI supporting visually impaired users.{{if .note}} {{.note}}{{end}}",
		[]string{"note"},
	)

	captchaTaskTemplate = lcprompts.NewPromptTemplate(
		"{{.task}}. Only output numbers separated by commas. Output 0 if there are none.",
		[]string{"task"},
	)
)

type toolInfo struct {
	Name        string
	Description string
}

// GenerateSystemPrompt renders baseTemplate with the registered tools.
func GenerateSystemPrompt(baseTemplate string, tools []entity.ToolDefinition) (string, error) {
	infos := make([]toolInfo, 0, len(tools))
	for _, t := range tools {
		infos = append(infos, toolInfo{Name: t.Name.String(), Description: t.Description})
	}

	tmpl := lcprompts.NewPromptTemplate(baseTemplate, []string{"tools"})
	out, err := tmpl.Format(map[string]any{"tools": infos})
	if err != nil {
		return "", fmt.Errorf("render system prompt: %w", err)
	}
	return out, nil
}

func SummarizeUserPrompt(content string) (string, error) {
	return summarizeTemplate.Format(map[string]any{"content": content})
}

// CaptchaSystemPrompt renders the system turn of a tile request. note may be
// empty.
func CaptchaSystemPrompt(note string) (string, error) {
	return captchaSystemTemplate.Format(map[string]any{"note": note})
}

func CaptchaTaskPrompt(task string) (string, error) {
	return captchaTaskTemplate.Format(map[string]any{"task": task})
}
