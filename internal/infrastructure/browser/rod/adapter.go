package rod

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"io"
	"path/filepath"
	"time"

	"browsing-agent/internal/application/port/output"
	"browsing-agent/internal/domain/entity"

	"github.com/disintegration/imaging"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/ysmood/gson"
)

const (
	defaultLookupTimeout = 3 * time.Second
	defaultClickTimeout  = 5 * time.Second
	maxScreenshotWidth   = 1024
)

var _ output.BrowserPort = (*BrowserAdapter)(nil)

type BrowserAdapter struct {
	*document
	browser  *rod.Browser
	launcher *launcher.Launcher
}

type BrowserConfig struct {
	Headless bool
	// ProfilePath points at a Chrome profile directory, for example
	// ~/.config/google-chrome/Profile 1. Empty means a fresh profile.
	ProfilePath string
	// Maximized starts the window maximized instead of 1920x1080.
	Maximized bool
	// Bin overrides the browser executable lookup.
	Bin           string
	LookupTimeout time.Duration
	ClickTimeout  time.Duration
}

func DefaultConfig() BrowserConfig {
	return BrowserConfig{
		Headless:      true,
		LookupTimeout: defaultLookupTimeout,
		ClickTimeout:  defaultClickTimeout,
	}
}

func NewLauncher(cfg BrowserConfig) *launcher.Launcher {
	l := launcher.New().
		Headless(cfg.Headless).
		NoSandbox(true).
		Set("disable-gpu").
		Set("disable-dev-shm-usage").
		Set("disable-extensions").
		Set("disable-popup-blocking").
		Set("ignore-certificate-errors").
		Set("disable-blink-features", "AutomationControlled").
		Set("disable-web-security").
		Set("allow-running-insecure-content").
		Delete("enable-automation")

	if cfg.Maximized {
		l = l.Set("start-maximized")
	} else {
		l = l.Set("window-size", "1920,1080")
	}

	if cfg.ProfilePath != "" {
		dataDir, profile := splitProfilePath(cfg.ProfilePath)
		l = l.UserDataDir(dataDir).Set("profile-directory", profile)
	}

	if cfg.Bin != "" {
		l = l.Bin(cfg.Bin)
	}
	return l
}

func NewBrowserAdapter(ctx context.Context, cfg BrowserConfig) (*BrowserAdapter, error) {
	if cfg.LookupTimeout <= 0 {
		cfg.LookupTimeout = defaultLookupTimeout
	}
	if cfg.ClickTimeout <= 0 {
		cfg.ClickTimeout = defaultClickTimeout
	}

	l := NewLauncher(cfg).Context(ctx)
	url, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().ControlURL(url)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	page, err := newPage(browser, cfg.ProfilePath == "")
	if err != nil {
		_ = browser.Close()
		l.Kill()
		return nil, err
	}

	return &BrowserAdapter{
		document: &document{page: page, lookupTimeout: cfg.LookupTimeout, clickTimeout: cfg.ClickTimeout},
		browser:  browser,
		launcher: l,
	}, nil
}

// newPage opens the working tab. Without a user profile the tab is disguised
// as a regular desktop Chrome.
func newPage(browser *rod.Browser, disguise bool) (*rod.Page, error) {
	if !disguise {
		page, err := browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
		if err != nil {
			return nil, fmt.Errorf("failed to open page: %w", err)
		}
		return page, nil
	}

	page, err := stealth.Page(browser)
	if err != nil {
		return nil, fmt.Errorf("failed to open stealth page: %w", err)
	}
	if _, err := page.EvalOnNewDocument(fingerprintScript); err != nil {
		return nil, fmt.Errorf("failed to install fingerprint script: %w", err)
	}
	return page, nil
}

func (b *BrowserAdapter) Navigate(ctx context.Context, url string) error {
	page := b.page.Context(ctx)
	if err := page.Navigate(url); err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		return fmt.Errorf("wait load: %w", err)
	}
	return nil
}

func (b *BrowserAdapter) Back(ctx context.Context) error {
	if err := b.page.Context(ctx).NavigateBack(); err != nil {
		return fmt.Errorf("navigate back: %w", err)
	}
	return nil
}

func (b *BrowserAdapter) CurrentURL(ctx context.Context) string {
	info, err := b.page.Context(ctx).Info()
	if err != nil {
		return ""
	}
	return info.URL
}

func (b *BrowserAdapter) Screenshot(ctx context.Context, fullPage bool) (*entity.Screenshot, error) {
	imgBytes, err := b.page.Context(ctx).Screenshot(fullPage, &proto.PageCaptureScreenshot{
		Format:  proto.PageCaptureScreenshotFormatJpeg,
		Quality: gson.Int(80),
	})
	if err != nil {
		return nil, fmt.Errorf("screenshot failed: %w", err)
	}
	return downscale(imgBytes)
}

func (b *BrowserAdapter) PrintToPDF(ctx context.Context) ([]byte, error) {
	stream, err := b.page.Context(ctx).PDF(&proto.PagePrintToPDF{
		Landscape:           false,
		DisplayHeaderFooter: false,
		PrintBackground:     true,
		PreferCSSPageSize:   true,
	})
	if err != nil {
		return nil, fmt.Errorf("print to pdf: %w", err)
	}
	data, err := io.ReadAll(stream)
	if err != nil {
		return nil, fmt.Errorf("read pdf stream: %w", err)
	}
	return data, nil
}

func (b *BrowserAdapter) WindowSize(ctx context.Context) (*entity.WindowSize, error) {
	page := b.page.Context(ctx)
	bounds, err := page.GetWindow()
	if err == nil && bounds.Width != nil && bounds.Height != nil {
		return &entity.WindowSize{Width: *bounds.Width, Height: *bounds.Height}, nil
	}

	res, evalErr := page.Eval(`() => [window.outerWidth, window.outerHeight]`)
	if evalErr != nil {
		return nil, fmt.Errorf("window size: %w", evalErr)
	}
	arr := res.Value.Arr()
	if len(arr) != 2 {
		return nil, fmt.Errorf("window size: unexpected result %s", res.Value.JSON("", ""))
	}
	return &entity.WindowSize{Width: arr[0].Int(), Height: arr[1].Int()}, nil
}

func (b *BrowserAdapter) Close() {
	if b.browser != nil {
		_ = b.browser.Close()
	}
	if b.launcher != nil {
		b.launcher.Kill()
		b.launcher.Cleanup()
	}
}

// downscale keeps screenshots at most maxScreenshotWidth wide.
func downscale(imgBytes []byte) (*entity.Screenshot, error) {
	img, _, err := image.Decode(bytes.NewReader(imgBytes))
	if err != nil {
		return nil, fmt.Errorf("image decode failed: %w", err)
	}

	if img.Bounds().Dx() > maxScreenshotWidth {
		img = imaging.Resize(img, maxScreenshotWidth, 0, imaging.Lanczos)
	}

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: 75}); err != nil {
		return nil, fmt.Errorf("jpeg encode failed: %w", err)
	}

	return &entity.Screenshot{
		Data:   buf.Bytes(),
		Format: "jpeg",
		Width:  img.Bounds().Dx(),
		Height: img.Bounds().Dy(),
	}, nil
}

// splitProfilePath turns ".../User Data/Profile 1" into the user data dir and
// the profile directory name.
func splitProfilePath(path string) (dataDir, profile string) {
	clean := filepath.Clean(path)
	return filepath.Dir(clean), filepath.Base(clean)
}
