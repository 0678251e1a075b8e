package captcha

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"browsing-agent/internal/application/port/output"
	"browsing-agent/internal/application/service"
	"browsing-agent/internal/domain/entity"
	"browsing-agent/internal/infrastructure/prompts"
	"browsing-agent/internal/usecase/highlight"
	"browsing-agent/internal/usecase/session"
)

const (
	checkboxFrameSelector  = "iframe[title='reCAPTCHA']"
	challengeFrameSelector = "iframe[title='recaptcha challenge expires in two minutes']"
	anchorSelector         = "#recaptcha-anchor"
	checkboxSelector       = ".recaptcha-checkbox"
	tileSelector           = ".rc-imageselect-tile"
	instructionsSelector   = ".rc-imageselect-instructions"
	verifySelector         = "#recaptcha-verify-button"

	dynamicSelectedClass = "rc-imageselect-dynamic-selected"
	continuousMarker     = "once there are none left"
	gridTileThreshold    = 9

	ResultSolved   = "Success. Captcha solved."
	ResultUnsolved = "Could not solve captcha."
)

var skipPhraseRe = regexp.MustCompile(`(?i)click (verify|skip)`)

type Config struct {
	Model           string
	MaxAttempts     int
	MaxTokens       int
	CheckboxTimeout time.Duration
	VerifyTimeout   time.Duration
	AnchorSettle    time.Duration
	ChallengeSettle time.Duration
	TilePause       time.Duration
	PollInterval    time.Duration
}

func DefaultConfig() Config {
	return Config{
		MaxAttempts:     5,
		MaxTokens:       1024,
		CheckboxTimeout: 3 * time.Second,
		VerifyTimeout:   5 * time.Second,
		AnchorSettle:    time.Second,
		ChallengeSettle: 2 * time.Second,
		TilePause:       500 * time.Millisecond,
		PollInterval:    250 * time.Millisecond,
	}
}

// Solver clicks through a reCAPTCHA, delegating tile classification to a
// vision model.
type Solver struct {
	llm         output.LLMPort
	highlighter *highlight.Highlighter
	clock       output.Clock
	metrics     output.MetricsPort
	logger      output.LoggerPort
	cfg         Config
}

func New(
	llm output.LLMPort,
	highlighter *highlight.Highlighter,
	clock output.Clock,
	metrics output.MetricsPort,
	logger output.LoggerPort,
	cfg Config,
) *Solver {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultConfig().MaxAttempts
	}
	return &Solver{
		llm:         llm,
		highlighter: highlighter,
		clock:       clock,
		metrics:     metrics,
		logger:      logger,
		cfg:         cfg,
	}
}

// attemptState lives for one Solve call. selected holds the tile numbers
// clicked in the current round; a new round starts after every verify or
// continuous replacement, so it is reset per classification.
type attemptState struct {
	attempt  int
	clicked  int
	selected map[int]bool
}

// Solve never fails: every outcome is reported as text.
func (sv *Solver) Solve(ctx context.Context, s *session.Session) string {
	browser := s.Browser()

	if err := sv.clickCheckbox(ctx, browser); err != nil {
		sv.metrics.ObserveCaptcha("checkbox_error", 0)
		return fmt.Sprintf("Could not click captcha checkbox: %v", err)
	}
	if sv.checkboxChecked(ctx, browser, sv.cfg.CheckboxTimeout) {
		sv.metrics.ObserveCaptcha("solved", 0)
		return ResultSolved
	}

	challenge, err := browser.Frame(ctx, challengeFrameSelector)
	if err != nil {
		sv.metrics.ObserveCaptcha("no_challenge", 0)
		return fmt.Sprintf("Could not find captcha challenge frame: %v", err)
	}
	_ = sv.clock.Sleep(ctx, sv.cfg.ChallengeSettle)

	defer func() {
		if err := sv.highlighter.Clear(context.WithoutCancel(ctx), browser); err != nil {
			sv.logger.Warn("Captcha cleanup failed", "error", err)
		}
	}()

	state := &attemptState{}
	for state.attempt < sv.cfg.MaxAttempts {
		state.attempt++
		solved, err := sv.runAttempt(ctx, s, challenge, state)
		if err != nil {
			sv.logger.Warn("Captcha attempt failed", "attempt", state.attempt, "error", err)
		}
		if solved {
			sv.metrics.ObserveCaptcha("solved", state.attempt)
			return ResultSolved
		}
		if ctx.Err() != nil {
			break
		}
	}

	sv.logger.Info("Captcha not solved", "attempts", state.attempt, "tilesClicked", state.clicked)
	sv.metrics.ObserveCaptcha("exhausted", state.attempt)
	return ResultUnsolved
}

func (sv *Solver) clickCheckbox(ctx context.Context, browser output.BrowserPort) error {
	frame, err := browser.Frame(ctx, checkboxFrameSelector)
	if err != nil {
		return err
	}
	anchor, err := first(ctx, frame, anchorSelector)
	if err != nil {
		return err
	}
	if err := anchor.ScrollIntoView(ctx); err != nil {
		sv.logger.Debug("Scroll to captcha anchor failed", "error", err)
	}
	if err := sv.clock.Sleep(ctx, sv.cfg.AnchorSettle); err != nil {
		return err
	}
	return anchor.JSClick(ctx)
}

// checkboxChecked re-enters the checkbox frame from the top document and
// polls its aria-checked state.
func (sv *Solver) checkboxChecked(ctx context.Context, browser output.BrowserPort, timeout time.Duration) bool {
	return service.WaitUntil(ctx, sv.clock, timeout, sv.cfg.PollInterval, func() bool {
		frame, err := browser.Frame(ctx, checkboxFrameSelector)
		if err != nil {
			return false
		}
		box, err := first(ctx, frame, checkboxSelector)
		if err != nil {
			return false
		}
		checked, err := box.Attribute(ctx, "aria-checked")
		return err == nil && checked == "true"
	})
}

func (sv *Solver) runAttempt(ctx context.Context, s *session.Session, challenge output.DocumentPort, state *attemptState) (bool, error) {
	browser := s.Browser()
	tiles, err := unselectedTiles(ctx, challenge)
	if err != nil {
		return false, err
	}

	parts := make([]entity.ContentPart, 0, 2*len(tiles)+1)
	for i, tile := range tiles {
		data, err := s.CaptureScreenshot(ctx, tile)
		if err != nil {
			sv.logger.Debug("Tile screenshot failed", "tile", i+1, "error", err)
			continue
		}
		parts = append(parts,
			entity.TextPart(fmt.Sprintf("Image %d:", i+1)),
			entity.ImagePart("data:image/jpeg;base64,"+data),
		)
	}

	task, err := instructions(ctx, challenge)
	if err != nil {
		return false, err
	}
	continuous := strings.Contains(strings.ToLower(task), continuousMarker)

	numbers, err := sv.classify(ctx, parts, task, len(tiles) > gridTileThreshold)
	if err != nil {
		return false, err
	}

	if len(numbers) == 0 {
		return sv.verify(ctx, browser, challenge)
	}

	state.selected = make(map[int]bool, len(numbers))
	for _, n := range numbers {
		if n > len(tiles) || state.selected[n] {
			continue
		}
		if err := tiles[n-1].JSClick(ctx); err != nil {
			sv.logger.Debug("Tile click failed", "tile", n, "error", err)
			continue
		}
		state.selected[n] = true
		state.clicked++
		_ = sv.clock.Sleep(ctx, sv.cfg.TilePause)
	}

	if continuous {
		return false, nil
	}
	return sv.verify(ctx, browser, challenge)
}

func (sv *Solver) classify(ctx context.Context, parts []entity.ContentPart, task string, grid bool) ([]int, error) {
	note := ""
	if grid {
		note = prompts.CaptchaGridNote
	}
	system, err := prompts.CaptchaSystemPrompt(note)
	if err != nil {
		return nil, err
	}
	closing, err := prompts.CaptchaTaskPrompt(task)
	if err != nil {
		return nil, err
	}

	resp, err := sv.llm.Chat(ctx, output.ChatRequest{
		Model: sv.cfg.Model,
		Messages: []entity.Message{
			{Role: entity.RoleSystem, Content: system},
			{Role: entity.RoleUser, Parts: append(parts, entity.TextPart(closing))},
		},
		MaxTokens:   sv.cfg.MaxTokens,
		Temperature: 0,
	})
	if err != nil {
		return nil, fmt.Errorf("classify tiles: %w", err)
	}

	answer := resp.Message.Text()
	sv.logger.Debug("Captcha classification", "task", task, "answer", answer)
	return parseTileNumbers(answer), nil
}

func (sv *Solver) verify(ctx context.Context, browser output.BrowserPort, challenge output.DocumentPort) (bool, error) {
	button, err := first(ctx, challenge, verifySelector)
	if err != nil {
		return false, err
	}
	if err := button.Click(ctx); err != nil {
		if !errors.Is(err, output.ErrClickIntercepted) {
			return false, fmt.Errorf("click verify: %w", err)
		}
		if err := button.JSClick(ctx); err != nil {
			return false, fmt.Errorf("click verify: %w", err)
		}
	}
	return sv.checkboxChecked(ctx, browser, sv.cfg.VerifyTimeout), nil
}

func unselectedTiles(ctx context.Context, doc output.DocumentPort) ([]output.ElementPort, error) {
	all, err := doc.FindElements(ctx, tileSelector)
	if err != nil {
		return nil, fmt.Errorf("find tiles: %w", err)
	}
	tiles := make([]output.ElementPort, 0, len(all))
	for _, tile := range all {
		class, err := tile.Attribute(ctx, "class")
		if err == nil && strings.HasSuffix(class, dynamicSelectedClass) {
			continue
		}
		tiles = append(tiles, tile)
	}
	return tiles, nil
}

func instructions(ctx context.Context, doc output.DocumentPort) (string, error) {
	el, err := first(ctx, doc, instructionsSelector)
	if err != nil {
		return "", err
	}
	text, err := el.Text(ctx)
	if err != nil {
		return "", fmt.Errorf("read instructions: %w", err)
	}
	text = strings.ReplaceAll(strings.TrimSpace(text), "\n", " ")
	return skipPhraseRe.ReplaceAllString(text, "Output 0"), nil
}

// parseTileNumbers reads a comma separated answer. Zero and non-numeric
// entries are dropped, so "0" yields no tiles.
func parseTileNumbers(answer string) []int {
	var numbers []int
	seen := make(map[int]bool)
	for _, field := range strings.Split(answer, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(field))
		if err != nil || n <= 0 || seen[n] {
			continue
		}
		seen[n] = true
		numbers = append(numbers, n)
	}
	return numbers
}

func first(ctx context.Context, doc output.DocumentPort, selector string) (output.ElementPort, error) {
	els, err := doc.FindElements(ctx, selector)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", selector, err)
	}
	if len(els) == 0 {
		return nil, fmt.Errorf("element %s not found", selector)
	}
	return els[0], nil
}
