package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"browsing-agent/internal/config"
	"browsing-agent/internal/di"
	"browsing-agent/internal/infrastructure/env"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

type options struct {
	headless      bool
	profile       string
	fullPage      bool
	metricsAddr   string
	logLevel      string
	maxIterations int
	timeout       time.Duration
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:           "agent [task]",
		Short:         "Drive a Chromium browser with an LLM to complete a task",
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := run(cmd, opts, args)
			if err != nil {
				color.New(color.FgRed, color.Bold).Fprintf(cmd.ErrOrStderr(), "\nError: %v\n", err)
			}
			return err
		},
	}

	f := cmd.Flags()
	f.BoolVar(&opts.headless, "headless", false, "run the browser without a window (overrides BROWSER_HEADLESS)")
	f.StringVar(&opts.profile, "profile", "", "Chrome profile directory to reuse (overrides CHROME_PROFILE_PATH)")
	f.BoolVar(&opts.fullPage, "full-page", false, "capture full-page screenshots with a maximized window")
	f.StringVar(&opts.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address, e.g. :9090")
	f.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn or error")
	f.IntVar(&opts.maxIterations, "max-iterations", 0, "maximum agent iterations")
	f.DurationVar(&opts.timeout, "timeout", 30*time.Minute, "overall task timeout")
	return cmd
}

func run(cmd *cobra.Command, opts *options, args []string) error {
	task, err := readTask(args, cmd.InOrStdin(), cmd.OutOrStdout())
	if err != nil {
		return err
	}

	cfg := config.FromEnv(env.NewEnvService())
	applyFlags(cmd, opts, &cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	container, err := di.NewContainer(cfg, task)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}
	defer container.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, opts.timeout)
	defer cancel()

	out := cmd.OutOrStdout()
	color.New(color.FgCyan).Fprintln(out, "\nAgent started...")

	result, err := container.TaskExecutor.Execute(ctx, task)
	if err != nil {
		return err
	}

	color.New(color.FgGreen, color.Bold).Fprintln(out, "\nFINAL ANSWER:")
	fmt.Fprintln(out, result.FinalAnswer)
	return nil
}

// applyFlags overrides the environment only for flags the user actually set.
func applyFlags(cmd *cobra.Command, opts *options, cfg *config.Config) {
	f := cmd.Flags()
	if f.Changed("headless") {
		cfg.Headless = opts.headless
	}
	if f.Changed("profile") {
		cfg.ProfilePath = opts.profile
	}
	if f.Changed("full-page") {
		cfg.FullPageScreenshot = opts.fullPage
	}
	if f.Changed("metrics-addr") {
		cfg.MetricsAddr = opts.metricsAddr
	}
	if f.Changed("log-level") {
		cfg.LogLevel = opts.logLevel
	}
	if f.Changed("max-iterations") {
		cfg.MaxIterations = opts.maxIterations
	}
}

func readTask(args []string, in io.Reader, out io.Writer) (string, error) {
	if len(args) > 0 {
		return strings.TrimSpace(strings.Join(args, " ")), nil
	}

	fmt.Fprintln(out, "\nEnter a task for the agent:")
	task, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read task: %w", err)
	}
	task = strings.TrimSpace(task)
	if task == "" {
		return "", errors.New("task is empty")
	}
	return task, nil
}
