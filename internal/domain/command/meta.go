package command

import (
	"regexp"
	"strings"

	"browsing-agent/internal/domain/entity"
)

// Meta is a bracketed instruction the model can emit in free text.
type Meta int

const (
	MetaNone Meta = iota
	MetaSendScreenshot
	MetaHighlightClickable
	MetaHighlightTextFields
	MetaHighlightDropdowns
)

var bracketRe = regexp.MustCompile(`\[(.*?)\]`)

var metaTable = map[string]Meta{
	"send screenshot":              MetaSendScreenshot,
	"highlight clickable elements": MetaHighlightClickable,
	"highlight text fields":        MetaHighlightTextFields,
	"highlight dropdowns":          MetaHighlightDropdowns,
}

// Parse returns the first recognized bracketed command in text. Unknown
// bracket contents are skipped.
func Parse(text string) (Meta, bool) {
	for _, m := range bracketRe.FindAllStringSubmatch(text, -1) {
		if meta, ok := metaTable[normalizeToken(m[1])]; ok {
			return meta, true
		}
	}
	return MetaNone, false
}

// Category maps highlight commands to the category they activate.
func (m Meta) Category() entity.HighlightCategory {
	switch m {
	case MetaHighlightClickable:
		return entity.CategoryClickable
	case MetaHighlightTextFields:
		return entity.CategoryTextInput
	case MetaHighlightDropdowns:
		return entity.CategoryDropdown
	default:
		return entity.CategoryNone
	}
}

func (m Meta) String() string {
	switch m {
	case MetaSendScreenshot:
		return "[send screenshot]"
	case MetaHighlightClickable, MetaHighlightTextFields, MetaHighlightDropdowns:
		return m.Category().MetaCommand()
	default:
		return "none"
	}
}

// StripBrackets removes every bracketed span and trims the rest.
func StripBrackets(text string) string {
	return strings.TrimSpace(bracketRe.ReplaceAllString(text, ""))
}

func normalizeToken(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
