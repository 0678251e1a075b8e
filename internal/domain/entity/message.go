package entity

type MessageRole string

const (
	RoleSystem    MessageRole = "system"
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
	RoleTool      MessageRole = "tool"
)

type ContentPartType string

const (
	PartText  ContentPartType = "text"
	PartImage ContentPartType = "image_url"
)

// ContentPart is one element of a multimodal message. ImageURL is usually a
// data URL.
type ContentPart struct {
	Type     ContentPartType
	Text     string
	ImageURL string
}

func TextPart(text string) ContentPart {
	return ContentPart{Type: PartText, Text: text}
}

func ImagePart(url string) ContentPart {
	return ContentPart{Type: PartImage, ImageURL: url}
}

// Message is one turn of the conversation. When Parts is set it replaces
// Content on the wire.
type Message struct {
	Role       MessageRole
	Content    string
	Parts      []ContentPart
	ToolCalls  []ToolCall
	ToolCallID string
	Name       string
}

func (m Message) IsMultimodal() bool {
	return len(m.Parts) > 0
}

// Text returns Content, or the concatenated text parts of a multimodal message.
func (m Message) Text() string {
	if !m.IsMultimodal() {
		return m.Content
	}
	s := ""
	for _, p := range m.Parts {
		if p.Type == PartText {
			if s != "" {
				s += "\n"
			}
			s += p.Text
		}
	}
	return s
}

type ToolCall struct {
	ID        string
	Name      ToolName
	Arguments string
}

type ToolDefinition struct {
	Name        ToolName
	Description string
	Parameters  map[string]interface{}
}
