package rod

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"

	"browsing-agent/internal/application/port/output"
	"browsing-agent/internal/domain/entity"
	"browsing-agent/internal/testutil"
	"browsing-agent/internal/usecase/highlight"
	"browsing-agent/internal/usecase/session"

	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.True(t, cfg.Headless)
	assert.Equal(t, defaultLookupTimeout, cfg.LookupTimeout)
	assert.Empty(t, cfg.ProfilePath)
}

func TestNewLauncher_Flags(t *testing.T) {
	l := NewLauncher(DefaultConfig())

	for _, flag := range []string{
		"no-sandbox", "disable-gpu", "disable-dev-shm-usage", "disable-extensions",
		"disable-popup-blocking", "ignore-certificate-errors", "disable-web-security",
		"allow-running-insecure-content",
	} {
		assert.True(t, l.Has(flags.Flag(flag)), flag)
	}
	assert.Equal(t, "AutomationControlled", l.Get("disable-blink-features"))
	assert.Equal(t, "1920,1080", l.Get("window-size"))
	assert.False(t, l.Has("start-maximized"))
	assert.False(t, l.Has("enable-automation"))
}

func TestNewLauncher_ProfileAndMaximized(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ProfilePath = "/home/me/.config/google-chrome/Profile 1"
	cfg.Maximized = true

	l := NewLauncher(cfg)

	assert.Equal(t, "/home/me/.config/google-chrome", l.Get("user-data-dir"))
	assert.Equal(t, "Profile 1", l.Get("profile-directory"))
	assert.True(t, l.Has("start-maximized"))
	assert.False(t, l.Has("window-size"))
}

func TestSplitProfilePath(t *testing.T) {
	dir, profile := splitProfilePath("/data/chrome/Default/")

	assert.Equal(t, "/data/chrome", dir)
	assert.Equal(t, "Default", profile)
}

func TestDownscale(t *testing.T) {
	encode := func(w, h int) []byte {
		img := image.NewRGBA(image.Rect(0, 0, w, h))
		img.Set(0, 0, color.White)
		var buf bytes.Buffer
		require.NoError(t, png.Encode(&buf, img))
		return buf.Bytes()
	}

	shot, err := downscale(encode(2048, 1000))
	require.NoError(t, err)
	assert.Equal(t, 1024, shot.Width)
	assert.Equal(t, 500, shot.Height)
	assert.Equal(t, "jpeg", shot.Format)

	shot, err = downscale(encode(800, 600))
	require.NoError(t, err)
	assert.Equal(t, 800, shot.Width)

	_, err = downscale([]byte("not an image"))
	assert.Error(t, err)
}

func newTestAdapter(t *testing.T) *BrowserAdapter {
	t.Helper()
	if testing.Short() {
		t.Skip("browser tests are skipped in short mode")
	}
	bin, found := launcher.LookPath()
	if !found {
		t.Skip("no Chromium found")
	}

	cfg := DefaultConfig()
	cfg.Bin = bin
	adapter, err := NewBrowserAdapter(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(adapter.Close)
	return adapter
}

func serve(t *testing.T, page string) string {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, page)
	}))
	t.Cleanup(server.Close)
	return server.URL
}

func TestBrowserAdapter_NavigateAndBack(t *testing.T) {
	adapter := newTestAdapter(t)
	ctx := context.Background()
	first := serve(t, linksHTML)
	second := serve(t, formHTML)

	require.NoError(t, adapter.Navigate(ctx, first))
	require.NoError(t, adapter.Navigate(ctx, second))
	assert.Equal(t, second+"/", adapter.CurrentURL(ctx))

	require.NoError(t, adapter.Back(ctx))
	assert.Equal(t, first+"/", adapter.CurrentURL(ctx))
}

func TestBrowserAdapter_FindElementsWaitsThenReturnsEmpty(t *testing.T) {
	adapter := newTestAdapter(t)
	ctx := context.Background()
	require.NoError(t, adapter.Navigate(ctx, serve(t, linksHTML)))

	els, err := adapter.FindElements(ctx, "a")
	require.NoError(t, err)
	assert.Len(t, els, 4)

	els, err = adapter.FindElements(ctx, ".missing")
	require.NoError(t, err)
	assert.Empty(t, els)
}

func TestBrowserAdapter_ClickAndIntercept(t *testing.T) {
	adapter := newTestAdapter(t)
	ctx := context.Background()
	require.NoError(t, adapter.Navigate(ctx, serve(t, linksHTML)))

	els, err := adapter.FindElements(ctx, "#btn")
	require.NoError(t, err)
	require.Len(t, els, 1)
	require.NoError(t, els[0].Click(ctx))

	res, err := adapter.ExecuteScript(ctx, `() => document.getElementById('result').textContent`)
	require.NoError(t, err)
	assert.Equal(t, "Clicked!", res.Str())

	require.NoError(t, adapter.Navigate(ctx, serve(t, coveredHTML)))
	els, err = adapter.FindElements(ctx, "#target")
	require.NoError(t, err)
	require.Len(t, els, 1)

	err = els[0].Click(ctx)
	assert.True(t, errors.Is(err, output.ErrClickIntercepted), "got %v", err)

	require.NoError(t, els[0].JSClick(ctx))
	res, err = adapter.ExecuteScript(ctx, `() => document.title`)
	require.NoError(t, err)
	assert.Equal(t, "clicked", res.Str())
}

func TestBrowserAdapter_InputAndSelect(t *testing.T) {
	adapter := newTestAdapter(t)
	ctx := context.Background()
	require.NoError(t, adapter.Navigate(ctx, serve(t, formHTML)))

	inputs, err := adapter.FindElements(ctx, "#name")
	require.NoError(t, err)
	require.Len(t, inputs, 1)
	require.NoError(t, inputs[0].ClearText(ctx))
	require.NoError(t, inputs[0].Input(ctx, "new"))

	res, err := adapter.ExecuteScript(ctx, `() => document.getElementById('name').value`)
	require.NoError(t, err)
	assert.Equal(t, "new", res.Str())

	selects, err := adapter.FindElements(ctx, "#country")
	require.NoError(t, err)
	require.Len(t, selects, 1)

	options, err := selects[0].Options(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"France", "Germany", "Spain"}, options)

	require.NoError(t, selects[0].SelectOption(ctx, 2))
	res, err = adapter.ExecuteScript(ctx, `() => document.getElementById('country').value`)
	require.NoError(t, err)
	assert.Equal(t, "Spain", res.Str())

	assert.Error(t, selects[0].SelectOption(ctx, 5))
}

func TestBrowserAdapter_Frame(t *testing.T) {
	adapter := newTestAdapter(t)
	ctx := context.Background()
	require.NoError(t, adapter.Navigate(ctx, serve(t, frameHTML)))

	frame, err := adapter.Frame(ctx, "iframe[title='inner']")
	require.NoError(t, err)

	els, err := frame.FindElements(ctx, "#inside")
	require.NoError(t, err)
	require.Len(t, els, 1)
	text, err := els[0].Text(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Inside", text)

	_, err = adapter.Frame(ctx, "iframe[title='missing']")
	assert.Error(t, err)
}

func TestBrowserAdapter_ScreenshotAndPDF(t *testing.T) {
	adapter := newTestAdapter(t)
	ctx := context.Background()
	require.NoError(t, adapter.Navigate(ctx, serve(t, linksHTML)))

	shot, err := adapter.Screenshot(ctx, true)
	require.NoError(t, err)
	assert.LessOrEqual(t, shot.Width, maxScreenshotWidth)
	assert.NotEmpty(t, shot.Data)

	pdf, err := adapter.PrintToPDF(ctx)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))

	size, err := adapter.WindowSize(ctx)
	require.NoError(t, err)
	assert.Positive(t, size.Width)
	assert.Positive(t, size.Height)
}

func TestHighlight_IsDeterministicAndSkipsInvisible(t *testing.T) {
	adapter := newTestAdapter(t)
	ctx := context.Background()
	require.NoError(t, adapter.Navigate(ctx, serve(t, linksHTML)))

	m := session.NewManager(session.DefaultConfig(), func(ctx context.Context, cfg session.Config) (output.BrowserPort, error) {
		return adapter, nil
	}, testutil.NewFakeLogger())
	s, err := m.Acquire(ctx)
	require.NoError(t, err)
	h := highlight.New(testutil.NewFakeLogger())

	first, err := h.Highlight(ctx, s, entity.CategoryClickable)
	require.NoError(t, err)
	second, err := h.Highlight(ctx, s, entity.CategoryClickable)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	require.Equal(t, 2, first.Len())
	assert.Equal(t, "First link", first.Elements[0].Text)
	assert.Equal(t, "Click Me", first.Elements[1].Text)

	zero, err := adapter.FindElements(ctx, `a[href="#zero"]`)
	require.NoError(t, err)
	require.Len(t, zero, 1)
	marked, err := zero[0].Attribute(ctx, "data-highlighted")
	require.NoError(t, err)
	assert.Empty(t, marked)

	labels, err := adapter.FindElements(ctx, ".highlight-label")
	require.NoError(t, err)
	assert.Len(t, labels, 2)

	require.NoError(t, h.Clear(ctx, adapter))
	labels, err = adapter.FindElements(ctx, ".highlight-label")
	require.NoError(t, err)
	assert.Empty(t, labels)
}
