package entity

type ToolName string

const (
	ToolNavigate       ToolName = "navigate"
	ToolClickElement   ToolName = "click_element"
	ToolSendKeys       ToolName = "send_keys"
	ToolSelectDropdown ToolName = "select_dropdown"
	ToolScroll         ToolName = "scroll"
	ToolGoBack         ToolName = "go_back"
	ToolExportPage     ToolName = "export_page"
	ToolSummarize      ToolName = "summarize_webpage"
	ToolSolveCaptcha   ToolName = "solve_captcha"
)

func (t ToolName) String() string {
	return string(t)
}
