package output

import (
	"context"
	"errors"

	"browsing-agent/internal/domain/entity"

	"github.com/ysmood/gson"
)

// ErrClickIntercepted is returned by ElementPort.Click when another element
// receives the click or the target cannot take pointer events.
var ErrClickIntercepted = errors.New("element click intercepted")

// DocumentPort is a document scope: the top page or an iframe.
type DocumentPort interface {
	ExecuteScript(ctx context.Context, js string) (gson.JSON, error)
	FindElements(ctx context.Context, selector string) ([]ElementPort, error)
	Frame(ctx context.Context, selector string) (DocumentPort, error)
}

type BrowserPort interface {
	DocumentPort

	Navigate(ctx context.Context, url string) error
	Back(ctx context.Context) error
	CurrentURL(ctx context.Context) string
	Screenshot(ctx context.Context, fullPage bool) (*entity.Screenshot, error)
	PrintToPDF(ctx context.Context) ([]byte, error)
	WindowSize(ctx context.Context) (*entity.WindowSize, error)

	Close()
}

type ElementPort interface {
	Text(ctx context.Context) (string, error)
	// Attribute returns "" when the attribute is absent.
	Attribute(ctx context.Context, name string) (string, error)

	Click(ctx context.Context) error
	JSClick(ctx context.Context) error
	Focus(ctx context.Context) error
	ClearText(ctx context.Context) error
	Input(ctx context.Context, text string) error
	PressEnter(ctx context.Context) error
	ScrollIntoView(ctx context.Context) error

	SelectOption(ctx context.Context, position int) error
	Options(ctx context.Context) ([]string, error)

	Screenshot(ctx context.Context) ([]byte, error)
}
