// Package pagetext extracts readable text from page HTML when the browser
// cannot report rendered text.
package pagetext

import (
	"strings"

	"golang.org/x/net/html"
)

type Config struct {
	TagsToSkip []string
	// BlockTags end a line of text.
	BlockTags []string
}

var DefaultConfig = Config{
	TagsToSkip: []string{
		"script", "style", "noscript", "svg", "iframe", "template",
		"link", "meta", "head", "title",
	},
	BlockTags: []string{
		"p", "div", "br", "li", "tr", "h1", "h2", "h3", "h4", "h5", "h6",
		"section", "article", "header", "footer", "nav", "ul", "ol", "table",
	},
}

// Extract returns the visible text of rawHTML, one block per line. Elements
// marked hidden or aria-hidden are skipped.
func Extract(rawHTML string, cfg *Config) string {
	if cfg == nil {
		cfg = &DefaultConfig
	}

	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return ""
	}

	root := findBodyNode(doc)
	if root == nil {
		root = doc
	}

	var sb strings.Builder
	collect(root, cfg, &sb)

	lines := strings.Split(sb.String(), "\n")
	kept := lines[:0]
	for _, line := range lines {
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}

func findBodyNode(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBodyNode(c); b != nil {
			return b
		}
	}
	return nil
}

func collect(n *html.Node, cfg *Config, sb *strings.Builder) {
	switch n.Type {
	case html.TextNode:
		sb.WriteString(n.Data)
		sb.WriteByte(' ')
		return
	case html.CommentNode:
		return
	case html.ElementNode:
		if isOneOf(n.Data, cfg.TagsToSkip...) || isHidden(n) {
			return
		}
	}

	block := n.Type == html.ElementNode && isOneOf(n.Data, cfg.BlockTags...)
	if block {
		sb.WriteByte('\n')
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collect(c, cfg, sb)
	}
	if block {
		sb.WriteByte('\n')
	}
}

func isHidden(n *html.Node) bool {
	for _, attr := range n.Attr {
		switch attr.Key {
		case "hidden":
			return true
		case "aria-hidden":
			if attr.Val == "true" {
				return true
			}
		case "style":
			style := strings.ReplaceAll(strings.ToLower(attr.Val), " ", "")
			if strings.Contains(style, "display:none") || strings.Contains(style, "visibility:hidden") {
				return true
			}
		}
	}
	return false
}

func isOneOf(s string, candidates ...string) bool {
	for _, c := range candidates {
		if s == c {
			return true
		}
	}
	return false
}

// TruncateWords keeps the first max whitespace-separated words of s, joined
// by single spaces.
func TruncateWords(s string, max int) string {
	words := strings.Fields(s)
	if max > 0 && len(words) > max {
		words = words[:max]
	}
	return strings.Join(words, " ")
}
