package userinteraction

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"browsing-agent/internal/application/port/output"
	"browsing-agent/internal/domain/entity"

	"github.com/fatih/color"
)

var _ output.UserInteractionPort = (*ConsoleUserInteraction)(nil)

type ConsoleUserInteraction struct {
	out io.Writer
}

func NewConsoleUserInteraction() *ConsoleUserInteraction {
	return &ConsoleUserInteraction{out: color.Output}
}

// NewWriterUserInteraction prints to w instead of the terminal.
func NewWriterUserInteraction(w io.Writer) *ConsoleUserInteraction {
	return &ConsoleUserInteraction{out: w}
}

func (u *ConsoleUserInteraction) ShowIteration(ctx context.Context, iteration, maxIterations int) {
	cyan := color.New(color.FgCyan, color.Bold)
	cyan.Fprintf(u.out, "\n━━━ Iteration %d/%d ━━━\n", iteration, maxIterations)
}

func (u *ConsoleUserInteraction) ShowThinking(ctx context.Context, content string) {
	if strings.TrimSpace(content) == "" {
		return
	}

	blue := color.New(color.FgBlue)
	blue.Fprint(u.out, "\n💭 Agent: ")

	dim := color.New(color.Faint)
	dim.Fprintln(u.out, truncate(content, 500))
}

func (u *ConsoleUserInteraction) ShowMetaCommand(ctx context.Context, command string) {
	magenta := color.New(color.FgMagenta, color.Bold)
	magenta.Fprintf(u.out, "👁️  %s\n", command)
}

func (u *ConsoleUserInteraction) ShowToolStart(ctx context.Context, toolName, arguments string) {
	icon, name := getToolDisplay(toolName)

	yellow := color.New(color.FgYellow, color.Bold)
	yellow.Fprintf(u.out, "\n%s %s\n", icon, name)

	summary := formatToolArguments(toolName, arguments)
	if summary != "" {
		dim := color.New(color.Faint)
		dim.Fprintf(u.out, "   %s\n", summary)
	}
}

func (u *ConsoleUserInteraction) ShowToolResult(ctx context.Context, toolName, result string, isError bool) {
	if isError {
		red := color.New(color.FgRed)
		red.Fprint(u.out, "❌ Error: ")

		dim := color.New(color.Faint)
		dim.Fprintln(u.out, truncate(result, 300))
		return
	}

	green := color.New(color.FgGreen)
	green.Fprintf(u.out, "✓ %s\n", formatToolResult(toolName, result))
}

func getToolDisplay(toolName string) (string, string) {
	displays := map[entity.ToolName][2]string{
		entity.ToolNavigate:       {"🌐", "Navigate"},
		entity.ToolClickElement:   {"🖱️", "Click"},
		entity.ToolSendKeys:       {"✏️", "Type"},
		entity.ToolSelectDropdown: {"🔽", "Select"},
		entity.ToolScroll:         {"📜", "Scroll"},
		entity.ToolGoBack:         {"↩️", "Back"},
		entity.ToolExportPage:     {"📄", "Export PDF"},
		entity.ToolSummarize:      {"📝", "Summarize"},
		entity.ToolSolveCaptcha:   {"🧩", "Solve captcha"},
	}

	if display, ok := displays[entity.ToolName(toolName)]; ok {
		return display[0], display[1]
	}
	return "🔧", toolName
}

func formatToolArguments(toolName, arguments string) string {
	var args map[string]interface{}
	if err := json.Unmarshal([]byte(arguments), &args); err != nil {
		return ""
	}

	switch entity.ToolName(toolName) {
	case entity.ToolNavigate:
		if url, ok := args["url"].(string); ok {
			return fmt.Sprintf("URL: %s", url)
		}

	case entity.ToolClickElement:
		if n, ok := args["element_number"].(float64); ok {
			return fmt.Sprintf("Element: %d", int(n))
		}

	case entity.ToolSendKeys:
		if fields, ok := args["elements_and_texts"].(map[string]interface{}); ok {
			return describeMapping(fields, "→")
		}

	case entity.ToolSelectDropdown:
		if pairs, ok := args["key_value_pairs"].(map[string]interface{}); ok {
			return describeMapping(pairs, "option")
		}

	case entity.ToolScroll:
		if direction, ok := args["direction"].(string); ok {
			directions := map[string]string{
				"up":   "⬆️ Up",
				"down": "⬇️ Down",
			}
			if display, ok := directions[direction]; ok {
				return display
			}
			return direction
		}
	}

	return ""
}

// describeMapping renders {"3": "x"} as `3 → x`, sorted by key.
func describeMapping(m map[string]interface{}, sep string) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s %s %s", k, sep, truncate(fmt.Sprint(m[k]), 30)))
	}
	return strings.Join(parts, ", ")
}

func formatToolResult(toolName, result string) string {
	switch entity.ToolName(toolName) {
	case entity.ToolNavigate:
		return firstLine(result)
	case entity.ToolExportPage:
		return result
	case entity.ToolSummarize:
		return truncate(result, 200)
	}
	return truncate(firstLine(result), 120)
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
