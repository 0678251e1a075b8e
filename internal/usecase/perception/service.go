// Package perception answers the agent's meta-commands with what the page
// looks like: a screenshot, optionally with numbered highlights.
package perception

import (
	"context"
	"fmt"

	"browsing-agent/internal/application/port/output"
	"browsing-agent/internal/domain/command"
	"browsing-agent/internal/domain/entity"
	"browsing-agent/internal/usecase/highlight"
	"browsing-agent/internal/usecase/session"
)

const (
	screenshotText  = "Here is the screenshot of the current web page."
	highlightedText = "Here is the screenshot of the current web page with highlighted elements. "
	dropdownsText   = "Here is the screenshot of the current web page with highlighted dropdowns. "
)

type Service struct {
	sessions    *session.Manager
	highlighter *highlight.Highlighter
	logger      output.LoggerPort
}

func New(sessions *session.Manager, highlighter *highlight.Highlighter, logger output.LoggerPort) *Service {
	return &Service{
		sessions:    sessions,
		highlighter: highlighter,
		logger:      logger.WithField("component", "perception"),
	}
}

// Respond builds the user turn that answers meta. Only a failure to start
// the browser is returned as an error; page problems are described in the
// message text.
func (p *Service) Respond(ctx context.Context, meta command.Meta) (entity.Message, error) {
	s, err := p.sessions.Acquire(ctx)
	if err != nil {
		return entity.Message{}, err
	}

	var text string
	switch meta {
	case command.MetaSendScreenshot:
		if err := p.highlighter.Clear(ctx, s.Browser()); err != nil {
			p.logger.Warn("Clear highlights failed", "error", err)
		}
		s.ResetFrame()
		text = screenshotText

	case command.MetaHighlightClickable, command.MetaHighlightTextFields, command.MetaHighlightDropdowns:
		if err := s.Commit(ctx); err != nil {
			p.logger.Warn("Session commit failed", "error", err)
		}
		frame, err := p.highlighter.Highlight(ctx, s, meta.Category())
		if err != nil {
			p.logger.Warn("Highlight failed", "category", meta.Category().String(), "error", err)
			return userText(fmt.Sprintf("Could not highlight elements: %v", err)), nil
		}
		text = highlightedText
		if frame.Category == entity.CategoryDropdown {
			text = dropdownsText
		}
		text += frame.Describe()

	default:
		return entity.Message{}, fmt.Errorf("unsupported meta-command %s", meta)
	}

	shot, err := s.CaptureDataURL(ctx)
	if err != nil {
		p.logger.Warn("Screenshot failed", "error", err)
		return userText(fmt.Sprintf("%s Could not capture the screenshot: %v", text, err)), nil
	}

	return entity.Message{
		Role:  entity.RoleUser,
		Parts: []entity.ContentPart{entity.TextPart(text), entity.ImagePart(shot)},
	}, nil
}

func userText(text string) entity.Message {
	return entity.Message{Role: entity.RoleUser, Content: text}
}
