package entity

import (
	"fmt"
	"strings"
)

// HighlightCategory selects which elements a highlight pass indexes.
type HighlightCategory string

const (
	CategoryNone      HighlightCategory = ""
	CategoryClickable HighlightCategory = "clickable"
	CategoryTextInput HighlightCategory = "text-input"
	CategoryDropdown  HighlightCategory = "dropdown"
)

const (
	clickableSelector = `a, button, div[onclick], div[role="button"], div[tabindex], span[onclick], span[role="button"], span[tabindex]`
	textInputSelector = `input, textarea`
	dropdownSelector  = `select`

	// CleanupSelector covers every element any category may have marked.
	CleanupSelector = `a, button, input, textarea, div[onclick], div[role="button"], div[tabindex], span[onclick], span[role="button"], span[tabindex], select`

	// HighlightedSelector matches elements tagged by the last highlight pass.
	HighlightedSelector = ".highlighted-element"
)

func (c HighlightCategory) Selector() string {
	switch c {
	case CategoryClickable:
		return clickableSelector
	case CategoryTextInput:
		return textInputSelector
	case CategoryDropdown:
		return dropdownSelector
	default:
		return ""
	}
}

// MetaCommand is the bracketed instruction the agent must emit to activate c.
func (c HighlightCategory) MetaCommand() string {
	switch c {
	case CategoryClickable:
		return "[highlight clickable elements]"
	case CategoryTextInput:
		return "[highlight text fields]"
	case CategoryDropdown:
		return "[highlight dropdowns]"
	default:
		return ""
	}
}

func (c HighlightCategory) noun() string {
	switch c {
	case CategoryTextInput:
		return "input"
	case CategoryDropdown:
		return "dropdown"
	default:
		return string(c)
	}
}

func (c HighlightCategory) String() string {
	if c == CategoryNone {
		return "none"
	}
	return string(c)
}

type FrameElement struct {
	Index   int
	Text    string
	Options []string
}

// PerceptionFrame is the indexed set of highlighted, visible elements of one
// category. Indices are 1-based and contiguous.
type PerceptionFrame struct {
	Category HighlightCategory
	Elements []FrameElement
}

func (f PerceptionFrame) Active() bool {
	return f.Category != CategoryNone
}

func (f PerceptionFrame) Len() int {
	return len(f.Elements)
}

func (f PerceptionFrame) Lookup(index int) (FrameElement, error) {
	if index < 1 || index > len(f.Elements) {
		return FrameElement{}, &IndexError{Index: index, Count: len(f.Elements)}
	}
	return f.Elements[index-1], nil
}

// Describe renders the frame the way it is reported back to the model.
func (f PerceptionFrame) Describe() string {
	if len(f.Elements) == 0 {
		return "No visible elements were found."
	}

	parts := make([]string, 0, len(f.Elements))
	if f.Category == CategoryDropdown {
		for _, el := range f.Elements {
			parts = append(parts, fmt.Sprintf("%d: %s", el.Index, strings.Join(el.Options, ", ")))
		}
		return "Dropdown options are: " + strings.Join(parts, "; ") + "."
	}

	for _, el := range f.Elements {
		parts = append(parts, fmt.Sprintf("%d: %s", el.Index, el.Text))
	}
	return "Texts of the elements are: " + strings.Join(parts, ", ") + "."
}
