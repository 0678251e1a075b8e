// Package testutil holds in-memory fakes of the output ports.
package testutil

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"browsing-agent/internal/application/port/output"
	"browsing-agent/internal/domain/entity"

	"github.com/ysmood/gson"
)

var (
	_ output.BrowserPort  = (*FakeBrowser)(nil)
	_ output.DocumentPort = (*FakeDocument)(nil)
	_ output.ElementPort  = (*FakeElement)(nil)
)

// FakeDocument serves elements by exact selector string. EvalFunc answers
// scripts; every script is recorded in Scripts.
type FakeDocument struct {
	mu       sync.Mutex
	Elements map[string][]*FakeElement
	Frames   map[string]*FakeDocument
	EvalFunc func(js string) (gson.JSON, error)
	Scripts  []string
}

func NewFakeDocument() *FakeDocument {
	return &FakeDocument{
		Elements: make(map[string][]*FakeElement),
		Frames:   make(map[string]*FakeDocument),
	}
}

func (d *FakeDocument) SetElements(selector string, els ...*FakeElement) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Elements[selector] = els
}

func (d *FakeDocument) SetFrame(selector string, doc *FakeDocument) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Frames[selector] = doc
}

func (d *FakeDocument) ExecuteScript(ctx context.Context, js string) (gson.JSON, error) {
	d.mu.Lock()
	d.Scripts = append(d.Scripts, js)
	eval := d.EvalFunc
	d.mu.Unlock()

	if eval == nil {
		return gson.New(nil), nil
	}
	return eval(js)
}

func (d *FakeDocument) FindElements(ctx context.Context, selector string) ([]output.ElementPort, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	els := d.Elements[selector]
	result := make([]output.ElementPort, 0, len(els))
	for _, el := range els {
		result = append(result, el)
	}
	return result, nil
}

func (d *FakeDocument) Frame(ctx context.Context, selector string) (output.DocumentPort, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	frame, ok := d.Frames[selector]
	if !ok {
		return nil, fmt.Errorf("frame %s not found", selector)
	}
	return frame, nil
}

// ScriptsContaining returns recorded scripts that contain substr.
func (d *FakeDocument) ScriptsContaining(substr string) []string {
	d.mu.Lock()
	defer d.mu.Unlock()

	var result []string
	for _, s := range d.Scripts {
		if strings.Contains(s, substr) {
			result = append(result, s)
		}
	}
	return result
}

type FakeBrowser struct {
	*FakeDocument

	URL         string
	History     []string
	NavigateErr error
	Window      entity.WindowSize

	ScreenshotData []byte
	ScreenshotErr  error
	FullPageShots  int

	PDFData []byte
	PDFErr  error

	Closed bool
}

func NewFakeBrowser() *FakeBrowser {
	return &FakeBrowser{
		FakeDocument:   NewFakeDocument(),
		URL:            "about:blank",
		Window:         entity.WindowSize{Width: 1920, Height: 1080},
		ScreenshotData: []byte("viewport"),
		PDFData:        []byte("%PDF-1.4"),
	}
}

func (b *FakeBrowser) Navigate(ctx context.Context, url string) error {
	if b.NavigateErr != nil {
		return b.NavigateErr
	}
	b.History = append(b.History, b.URL)
	b.URL = url
	return nil
}

func (b *FakeBrowser) Back(ctx context.Context) error {
	if len(b.History) == 0 {
		return nil
	}
	b.URL = b.History[len(b.History)-1]
	b.History = b.History[:len(b.History)-1]
	return nil
}

func (b *FakeBrowser) CurrentURL(ctx context.Context) string {
	return b.URL
}

func (b *FakeBrowser) Screenshot(ctx context.Context, fullPage bool) (*entity.Screenshot, error) {
	if b.ScreenshotErr != nil {
		return nil, b.ScreenshotErr
	}
	if fullPage {
		b.FullPageShots++
	}
	return &entity.Screenshot{Data: b.ScreenshotData, Format: "jpeg"}, nil
}

func (b *FakeBrowser) PrintToPDF(ctx context.Context) ([]byte, error) {
	return b.PDFData, b.PDFErr
}

func (b *FakeBrowser) WindowSize(ctx context.Context) (*entity.WindowSize, error) {
	w := b.Window
	return &w, nil
}

func (b *FakeBrowser) Close() {
	b.Closed = true
}

// FakeElement records every interaction. Errors set on it are returned by
// the matching method.
type FakeElement struct {
	mu sync.Mutex

	TextValue      string
	Attrs          map[string]string
	AttributeFunc  func(name string) string
	OptionLabels   []string
	ScreenshotData []byte

	TextErr       error
	ClickErr      error
	JSClickErr    error
	FocusErr      error
	ClearErr      error
	InputErr      error
	SelectErr     error
	ScreenshotErr error

	OnClick func()

	Clicks     int
	JSClicks   int
	Focused    int
	Cleared    int
	Enters     int
	Scrolled   int
	Inputs     []string
	Selected   []int
	Operations []string
}

func NewFakeElement(text string) *FakeElement {
	return &FakeElement{TextValue: text, Attrs: make(map[string]string)}
}

func (e *FakeElement) record(op string) {
	e.Operations = append(e.Operations, op)
}

func (e *FakeElement) Text(ctx context.Context) (string, error) {
	return e.TextValue, e.TextErr
}

func (e *FakeElement) Attribute(ctx context.Context, name string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.AttributeFunc != nil {
		return e.AttributeFunc(name), nil
	}
	return e.Attrs[name], nil
}

func (e *FakeElement) SetAttribute(name, value string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Attrs[name] = value
}

func (e *FakeElement) Click(ctx context.Context) error {
	e.mu.Lock()
	e.record("click")
	if e.ClickErr != nil {
		e.mu.Unlock()
		return e.ClickErr
	}
	e.Clicks++
	onClick := e.OnClick
	e.mu.Unlock()

	if onClick != nil {
		onClick()
	}
	return nil
}

func (e *FakeElement) JSClick(ctx context.Context) error {
	e.mu.Lock()
	e.record("jsclick")
	if e.JSClickErr != nil {
		e.mu.Unlock()
		return e.JSClickErr
	}
	e.JSClicks++
	onClick := e.OnClick
	e.mu.Unlock()

	if onClick != nil {
		onClick()
	}
	return nil
}

func (e *FakeElement) Focus(ctx context.Context) error {
	e.record("focus")
	e.Focused++
	return e.FocusErr
}

func (e *FakeElement) ClearText(ctx context.Context) error {
	e.record("clear")
	if e.ClearErr != nil {
		return e.ClearErr
	}
	e.Cleared++
	return nil
}

func (e *FakeElement) Input(ctx context.Context, text string) error {
	e.record("input:" + text)
	if e.InputErr != nil {
		return e.InputErr
	}
	e.Inputs = append(e.Inputs, text)
	return nil
}

func (e *FakeElement) PressEnter(ctx context.Context) error {
	e.record("enter")
	e.Enters++
	return nil
}

func (e *FakeElement) ScrollIntoView(ctx context.Context) error {
	e.record("scroll")
	e.Scrolled++
	return nil
}

func (e *FakeElement) SelectOption(ctx context.Context, position int) error {
	e.record(fmt.Sprintf("select:%d", position))
	if e.SelectErr != nil {
		return e.SelectErr
	}
	if position < 0 || position >= len(e.OptionLabels) {
		return errors.New("option position out of range")
	}
	e.Selected = append(e.Selected, position)
	return nil
}

func (e *FakeElement) Options(ctx context.Context) ([]string, error) {
	return e.OptionLabels, nil
}

func (e *FakeElement) Screenshot(ctx context.Context) ([]byte, error) {
	if e.ScreenshotErr != nil {
		return nil, e.ScreenshotErr
	}
	if e.ScreenshotData == nil {
		return []byte("element:" + e.TextValue), nil
	}
	return e.ScreenshotData, nil
}
