package rod

import (
	"context"
	"errors"
	"fmt"
	"time"

	"browsing-agent/internal/application/port/output"

	"github.com/go-rod/rod"
	"github.com/ysmood/gson"
)

var _ output.DocumentPort = (*document)(nil)

// document is a page or an iframe's page.
type document struct {
	page          *rod.Page
	lookupTimeout time.Duration
	clickTimeout  time.Duration
}

func (d *document) ExecuteScript(ctx context.Context, js string) (gson.JSON, error) {
	res, err := d.page.Context(ctx).Eval(js)
	if err != nil {
		return gson.JSON{}, fmt.Errorf("execute script: %w", err)
	}
	return res.Value, nil
}

// FindElements waits up to the lookup timeout for the first match, then
// returns every match in document order. No match is not an error.
func (d *document) FindElements(ctx context.Context, selector string) ([]output.ElementPort, error) {
	page := d.page.Context(ctx)
	if _, err := page.Timeout(d.lookupTimeout).Element(selector); err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return nil, nil
		}
		return nil, fmt.Errorf("find %s: %w", selector, err)
	}

	els, err := page.Elements(selector)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", selector, err)
	}

	result := make([]output.ElementPort, 0, len(els))
	for _, el := range els {
		result = append(result, &element{el: el, clickTimeout: d.clickTimeout})
	}
	return result, nil
}

func (d *document) Frame(ctx context.Context, selector string) (output.DocumentPort, error) {
	el, err := d.page.Context(ctx).Timeout(d.lookupTimeout).Element(selector)
	if err != nil {
		return nil, fmt.Errorf("frame %s not found: %w", selector, err)
	}
	frame, err := el.Frame()
	if err != nil {
		return nil, fmt.Errorf("enter frame %s: %w", selector, err)
	}
	return &document{page: frame, lookupTimeout: d.lookupTimeout, clickTimeout: d.clickTimeout}, nil
}
