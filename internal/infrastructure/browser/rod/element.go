package rod

import (
	"context"
	"errors"
	"fmt"
	"time"

	"browsing-agent/internal/application/port/output"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/proto"
)

var _ output.ElementPort = (*element)(nil)

type element struct {
	el           *rod.Element
	clickTimeout time.Duration
}

func (e *element) Text(ctx context.Context) (string, error) {
	return e.el.Context(ctx).Text()
}

func (e *element) Attribute(ctx context.Context, name string) (string, error) {
	v, err := e.el.Context(ctx).Attribute(name)
	if err != nil {
		return "", err
	}
	if v == nil {
		return "", nil
	}
	return *v, nil
}

// Click performs a real mouse click. A click another element would receive,
// or one that never becomes possible within the click timeout, is reported
// as output.ErrClickIntercepted.
func (e *element) Click(ctx context.Context) error {
	err := e.el.Context(ctx).Timeout(e.clickTimeout).Click(proto.InputMouseButtonLeft, 1)
	if err == nil {
		return nil
	}
	if isIntercepted(err) || (errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil) {
		return fmt.Errorf("%w: %v", output.ErrClickIntercepted, err)
	}
	return fmt.Errorf("click failed: %w", err)
}

func isIntercepted(err error) bool {
	var covered *rod.CoveredError
	var notInteractable *rod.NotInteractableError
	var noPointer *rod.NoPointerEventsError
	var invisible *rod.InvisibleShapeError
	return errors.As(err, &covered) ||
		errors.As(err, &notInteractable) ||
		errors.As(err, &noPointer) ||
		errors.As(err, &invisible)
}

func (e *element) JSClick(ctx context.Context) error {
	if _, err := e.el.Context(ctx).Eval(jsClickScript); err != nil {
		return fmt.Errorf("script click failed: %w", err)
	}
	return nil
}

func (e *element) Focus(ctx context.Context) error {
	return e.el.Context(ctx).Focus()
}

func (e *element) ClearText(ctx context.Context) error {
	el := e.el.Context(ctx)
	if err := el.SelectAllText(); err != nil {
		return fmt.Errorf("select text: %w", err)
	}
	return el.Input("")
}

func (e *element) Input(ctx context.Context, text string) error {
	if err := e.el.Context(ctx).Input(text); err != nil {
		return fmt.Errorf("input failed: %w", err)
	}
	return nil
}

func (e *element) PressEnter(ctx context.Context) error {
	if err := e.el.Context(ctx).Type(input.Enter); err != nil {
		return fmt.Errorf("failed to press Enter: %w", err)
	}
	return nil
}

func (e *element) ScrollIntoView(ctx context.Context) error {
	return e.el.Context(ctx).ScrollIntoView()
}

func (e *element) SelectOption(ctx context.Context, position int) error {
	if _, err := e.el.Context(ctx).Eval(selectOptionScript, position); err != nil {
		return fmt.Errorf("select option %d: %w", position, err)
	}
	return nil
}

func (e *element) Options(ctx context.Context) ([]string, error) {
	res, err := e.el.Context(ctx).Eval(optionLabelsScript)
	if err != nil {
		return nil, fmt.Errorf("read options: %w", err)
	}
	arr := res.Value.Arr()
	labels := make([]string, 0, len(arr))
	for _, v := range arr {
		labels = append(labels, v.Str())
	}
	return labels, nil
}

func (e *element) Screenshot(ctx context.Context) ([]byte, error) {
	return e.el.Context(ctx).Screenshot(proto.PageCaptureScreenshotFormatJpeg, 90)
}
