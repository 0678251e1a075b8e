package di

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"browsing-agent/internal/adapter/tool"
	"browsing-agent/internal/application/port/input"
	"browsing-agent/internal/application/port/output"
	"browsing-agent/internal/application/service"
	"browsing-agent/internal/config"
	"browsing-agent/internal/infrastructure/artifact/openaifiles"
	"browsing-agent/internal/infrastructure/browser/rod"
	"browsing-agent/internal/infrastructure/clock"
	"browsing-agent/internal/infrastructure/llm/openrouter"
	"browsing-agent/internal/infrastructure/logger"
	"browsing-agent/internal/infrastructure/metrics"
	"browsing-agent/internal/infrastructure/prompts"
	"browsing-agent/internal/infrastructure/userinteraction"
	"browsing-agent/internal/usecase/captcha"
	"browsing-agent/internal/usecase/executor"
	"browsing-agent/internal/usecase/highlight"
	"browsing-agent/internal/usecase/perception"
	"browsing-agent/internal/usecase/session"
)

type Container struct {
	Config       config.Config
	Logger       output.LoggerPort
	Metrics      *metrics.Collector
	Sessions     *session.Manager
	LLM          output.LLMPort
	Tools        output.ToolRegistry
	TaskExecutor input.TaskExecutor

	metricsServer *http.Server
}

// NewContainer wires the agent. The browser is not started here; the session
// manager launches it on the first tool call or meta-command.
func NewContainer(cfg config.Config, taskName string) (*Container, error) {
	logCfg := logger.DefaultConfig()
	logCfg.Level = cfg.LogLevel
	logCfg.Dir = cfg.LogDir
	logCfg.TaskName = taskName
	logCfg.Console = true
	log, err := logger.New(logCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	collector := metrics.NewCollector("")
	clk := clock.New()

	sessionCfg := session.DefaultConfig()
	sessionCfg.Headless = cfg.Headless
	sessionCfg.ProfilePath = cfg.ProfilePath
	sessionCfg.FullPageScreenshot = cfg.FullPageScreenshot
	sessions := session.NewManager(sessionCfg, browserFactory, log.WithField("component", "session"))

	llmCfg := openrouter.DefaultConfig(cfg.OpenRouterAPIKey, cfg.OpenRouterModel)
	llmCfg.BaseURL = cfg.OpenRouterBaseURL
	llmCfg.Logger = log.WithField("component", "llm")
	llm := openrouter.NewOpenRouterAdapter(llmCfg)

	store := openaifiles.New(openaifiles.Config{
		APIKey:  cfg.OpenAIAPIKey,
		BaseURL: cfg.OpenAIBaseURL,
		Logger:  log.WithField("component", "artifacts"),
	})

	highlighter := highlight.New(log.WithField("component", "highlight"))

	captchaCfg := captcha.DefaultConfig()
	captchaCfg.Model = cfg.VisionModel
	solver := captcha.New(llm, highlighter, clk, collector, log.WithField("component", "captcha"), captchaCfg)

	tools := service.NewToolRegistry()
	registerBrowserTools(tools, tool.Deps{
		Sessions:    sessions,
		Highlighter: highlighter,
		Clock:       clk,
		Logger:      log,
	}, llm, store, solver, cfg)

	systemPrompt, err := prompts.GenerateSystemPrompt(prompts.DefaultSystemPrompt, tools.Definitions())
	if err != nil {
		_ = log.Close()
		return nil, fmt.Errorf("failed to build system prompt: %w", err)
	}

	percept := perception.New(sessions, highlighter, log.WithField("component", "perception"))
	uc := executor.New(llm, tools, percept, userinteraction.NewConsoleUserInteraction(), collector, clk, log, executor.Config{
		SystemPrompt:  systemPrompt,
		MaxIterations: cfg.MaxIterations,
	})

	c := &Container{
		Config:       cfg,
		Logger:       log,
		Metrics:      collector,
		Sessions:     sessions,
		LLM:          llm,
		Tools:        tools,
		TaskExecutor: uc,
	}
	if cfg.MetricsAddr != "" {
		c.startMetricsServer(cfg.MetricsAddr)
	}
	return c, nil
}

func browserFactory(ctx context.Context, cfg session.Config) (output.BrowserPort, error) {
	browserCfg := rod.DefaultConfig()
	browserCfg.Headless = cfg.Headless
	browserCfg.ProfilePath = cfg.ProfilePath
	browserCfg.Maximized = cfg.FullPageScreenshot
	return rod.NewBrowserAdapter(ctx, browserCfg)
}

func registerBrowserTools(
	registry *service.ToolRegistryImpl,
	deps tool.Deps,
	llm output.LLMPort,
	store output.ArtifactStore,
	solver *captcha.Solver,
	cfg config.Config,
) {
	registry.Register(tool.NewNavigateTool(deps))
	registry.Register(tool.NewGoBackTool(deps))
	registry.Register(tool.NewScrollTool(deps))
	registry.Register(tool.NewClickTool(deps))
	registry.Register(tool.NewSendKeysTool(deps))
	registry.Register(tool.NewSelectDropdownTool(deps))
	registry.Register(tool.NewExportPageTool(deps, store, cfg.ExportDir))
	registry.Register(tool.NewSummarizeTool(deps, llm, cfg.SummaryModel, tool.DefaultSummaryWords))
	registry.Register(tool.NewSolveCaptchaTool(deps, solver))
}

func (c *Container) startMetricsServer(addr string) {
	c.metricsServer = c.Metrics.Server(addr)
	go func() {
		if err := c.metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			c.Logger.Error("Metrics server stopped", "addr", addr, "error", err)
		}
	}()
	c.Logger.Info("Metrics server started", "addr", addr)
}

// Close stops the browser before the logger is flushed.
func (c *Container) Close() error {
	var errs []error
	if c.Sessions != nil {
		errs = append(errs, c.Sessions.Close())
	}
	if c.metricsServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		errs = append(errs, c.metricsServer.Shutdown(ctx))
		cancel()
	}
	if c.Logger != nil {
		errs = append(errs, c.Logger.Close())
	}
	return errors.Join(errs...)
}
