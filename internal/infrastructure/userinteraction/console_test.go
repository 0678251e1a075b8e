package userinteraction

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	m.Run()
}

func TestConsole_ToolLifecycle(t *testing.T) {
	var buf bytes.Buffer
	ui := NewWriterUserInteraction(&buf)
	ctx := context.Background()

	ui.ShowIteration(ctx, 2, 50)
	ui.ShowToolStart(ctx, "navigate", `{"url":"https://golang.org"}`)
	ui.ShowToolResult(ctx, "navigate", "Current URL is: https://golang.org\nPlease output...", false)
	ui.ShowToolResult(ctx, "click_element", "elements not highlighted", true)
	ui.ShowMetaCommand(ctx, "[highlight clickable elements]")

	out := buf.String()
	assert.Contains(t, out, "Iteration 2/50")
	assert.Contains(t, out, "🌐 Navigate")
	assert.Contains(t, out, "URL: https://golang.org")
	assert.Contains(t, out, "✓ Current URL is: https://golang.org\n")
	assert.NotContains(t, out, "Please output")
	assert.Contains(t, out, "❌ Error: elements not highlighted")
	assert.Contains(t, out, "[highlight clickable elements]")
}

func TestFormatToolArguments(t *testing.T) {
	assert.Equal(t, "Element: 4", formatToolArguments("click_element", `{"element_number": 4}`))
	assert.Equal(t, "1 → bob, 2 → secret", formatToolArguments("send_keys", `{"elements_and_texts": {"2": "secret", "1": "bob"}}`))
	assert.Equal(t, "1 option 3", formatToolArguments("select_dropdown", `{"key_value_pairs": {"1": 3}}`))
	assert.Equal(t, "⬇️ Down", formatToolArguments("scroll", `{"direction": "down"}`))
	assert.Empty(t, formatToolArguments("go_back", `{}`))
	assert.Empty(t, formatToolArguments("navigate", `not json`))
}

func TestShowThinking_SkipsEmpty(t *testing.T) {
	var buf bytes.Buffer
	ui := NewWriterUserInteraction(&buf)

	ui.ShowThinking(context.Background(), "  ")
	assert.Empty(t, buf.String())

	ui.ShowThinking(context.Background(), strings.Repeat("a", 600))
	assert.Contains(t, buf.String(), "...")
}

func TestGetToolDisplay_Unknown(t *testing.T) {
	icon, name := getToolDisplay("mystery")

	assert.Equal(t, "🔧", icon)
	assert.Equal(t, "mystery", name)
}
