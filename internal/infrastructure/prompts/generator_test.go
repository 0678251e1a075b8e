package prompts

import (
	"testing"

	"browsing-agent/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSystemPrompt(t *testing.T) {
	prompt, err := GenerateSystemPrompt(DefaultSystemPrompt, []entity.ToolDefinition{
		{Name: entity.ToolClickElement, Description: "Clicks a highlighted element"},
		{Name: entity.ToolNavigate, Description: "Opens a URL"},
	})
	require.NoError(t, err)

	assert.Contains(t, prompt, "- click_element: Clicks a highlighted element\n")
	assert.Contains(t, prompt, "- navigate: Opens a URL\n")
	assert.Contains(t, prompt, "[highlight clickable elements]")
	assert.NotContains(t, prompt, "{{")
}

func TestSummarizeUserPrompt(t *testing.T) {
	out, err := SummarizeUserPrompt("Go is a programming language. {{not a template}}")
	require.NoError(t, err)

	assert.Equal(t, "Summarize the content of the following webpage:\n\nGo is a programming language. {{not a template}}", out)
}

func TestCaptchaPrompts(t *testing.T) {
	out, err := CaptchaTaskPrompt("Select all images with buses")
	require.NoError(t, err)
	assert.Equal(t, "Select all images with buses. Only output numbers separated by commas. Output 0 if there are none.", out)

	system, err := CaptchaSystemPrompt("")
	require.NoError(t, err)
	assert.Equal(t, "You are an AI supporting visually impaired users.", system)

	system, err = CaptchaSystemPrompt(CaptchaGridNote)
	require.NoError(t, err)
	assert.Equal(t, "You are an AI supporting visually impaired users. Keep in mind that all images are part of a bigger image in a 4x4 grid.", system)
}
