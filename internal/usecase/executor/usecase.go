package executor

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"browsing-agent/internal/application/port/input"
	"browsing-agent/internal/application/port/output"
	"browsing-agent/internal/domain/command"
	"browsing-agent/internal/domain/entity"

	"github.com/google/uuid"
)

var _ input.TaskExecutor = (*UseCase)(nil)

const (
	DefaultMaxIterations = 50
	maxObservationLen    = 20000
)

// Perceiver answers a meta-command with a user turn.
type Perceiver interface {
	Respond(ctx context.Context, meta command.Meta) (entity.Message, error)
}

type Config struct {
	SystemPrompt  string
	MaxIterations int
}

type UseCase struct {
	llm        output.LLMPort
	tools      output.ToolRegistry
	perception Perceiver
	ui         output.UserInteractionPort
	metrics    output.MetricsPort
	clock      output.Clock
	logger     output.LoggerPort
	cfg        Config
}

func New(
	llm output.LLMPort,
	tools output.ToolRegistry,
	perception Perceiver,
	ui output.UserInteractionPort,
	metrics output.MetricsPort,
	clock output.Clock,
	logger output.LoggerPort,
	cfg Config,
) *UseCase {
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = DefaultMaxIterations
	}
	return &UseCase{
		llm:        llm,
		tools:      tools,
		perception: perception,
		ui:         ui,
		metrics:    metrics,
		clock:      clock,
		logger:     logger,
		cfg:        cfg,
	}
}

// Execute runs the agent loop until the model answers without a tool call or
// a meta-command. Each call gets its own repeat guard.
func (uc *UseCase) Execute(ctx context.Context, description string) (*input.ExecuteResult, error) {
	task := entity.Task{
		ID:          uuid.NewString(),
		Description: description,
		StartedAt:   uc.clock.Now(),
	}
	logger := uc.logger.WithField("taskID", task.ID)
	logger.Info("Task started", "task", description)

	guard := command.NewEchoGuard()
	messages := []entity.Message{
		{Role: entity.RoleSystem, Content: uc.cfg.SystemPrompt},
		{Role: entity.RoleUser, Content: description},
	}
	toolDefs := uc.tools.Definitions()

	for iteration := 1; iteration <= uc.cfg.MaxIterations; iteration++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("task %s interrupted: %w", task.ID, err)
		}
		uc.metrics.IncIteration()
		uc.ui.ShowIteration(ctx, iteration, uc.cfg.MaxIterations)
		logger.Debug("Starting iteration", "iteration", iteration)

		resp, err := uc.llm.Chat(ctx, output.ChatRequest{
			Messages:    messages,
			Tools:       toolDefs,
			Temperature: 0.0,
		})
		if err != nil {
			return nil, fmt.Errorf("llm request failed: %w", err)
		}

		reply := resp.Message
		text := reply.Text()
		uc.ui.ShowThinking(ctx, text)

		if err := guard.Check(text); err != nil {
			uc.rejectReply(logger, err)
			messages = append(messages, entity.Message{Role: entity.RoleUser, Content: "Error: " + err.Error()})
			continue
		}
		messages = append(messages, reply)

		for _, tc := range reply.ToolCalls {
			observation, err := uc.executeTool(ctx, logger, tc)
			if err != nil {
				return nil, err
			}
			messages = append(messages, entity.Message{
				Role:       entity.RoleTool,
				ToolCallID: tc.ID,
				Name:       tc.Name.String(),
				Content:    observation,
			})
		}

		meta, found := command.Parse(text)
		if found {
			uc.ui.ShowMetaCommand(ctx, meta.String())
			msg, err := uc.perception.Respond(ctx, meta)
			if err != nil {
				return nil, fmt.Errorf("respond to %s: %w", meta, err)
			}
			messages = append(messages, msg)
		}

		if len(reply.ToolCalls) == 0 && !found {
			result := entity.TaskResult{
				TaskID:      task.ID,
				FinalAnswer: text,
				Iterations:  iteration,
				Duration:    uc.clock.Now().Sub(task.StartedAt),
			}
			logger.Info("Task completed", "iterations", result.Iterations, "duration", result.Duration.String())
			return &input.ExecuteResult{
				TaskID:      result.TaskID,
				FinalAnswer: result.FinalAnswer,
				Iterations:  result.Iterations,
			}, nil
		}
	}

	logger.Warn("Task failed", "reason", "max iterations", "maxIterations", uc.cfg.MaxIterations)
	return nil, fmt.Errorf("max iterations (%d) exceeded", uc.cfg.MaxIterations)
}

// rejectReply drops a repeated assistant turn, tool calls included, so the
// history never holds unanswered tool calls.
func (uc *UseCase) rejectReply(logger output.LoggerPort, err error) {
	var protoErr *entity.ProtocolError
	if errors.As(err, &protoErr) {
		uc.metrics.IncProtocolError(protoErr.Reason)
	}
	logger.Warn("Assistant reply rejected", "error", err)
}

// executeTool turns tool failures into observations. Only a browser that
// cannot be started aborts the task.
func (uc *UseCase) executeTool(ctx context.Context, logger output.LoggerPort, tc entity.ToolCall) (string, error) {
	tool, ok := uc.tools.Get(tc.Name)
	if !ok {
		logger.Warn("Unknown tool called", "name", tc.Name.String())
		uc.metrics.ObserveTool(tc.Name.String(), output.OutcomeError, 0)
		return fmt.Sprintf("Error: unknown tool '%s'", tc.Name), nil
	}

	logger.Info("Executing tool", "name", tc.Name.String(), "args", tc.Arguments)
	uc.ui.ShowToolStart(ctx, tc.Name.String(), tc.Arguments)

	start := uc.clock.Now()
	result, err := tool.Execute(ctx, tc.Arguments)
	elapsed := uc.clock.Now().Sub(start)

	if err != nil {
		uc.metrics.ObserveTool(tc.Name.String(), output.OutcomeError, elapsed)
		uc.ui.ShowToolResult(ctx, tc.Name.String(), err.Error(), true)

		var initErr *entity.DriverInitError
		if errors.As(err, &initErr) {
			logger.Error("Browser unavailable", "name", tc.Name.String(), "error", err)
			return "", err
		}
		var protoErr *entity.ProtocolError
		if errors.As(err, &protoErr) {
			uc.metrics.IncProtocolError(protoErr.Reason)
		}
		logger.Error("Tool execution failed", "name", tc.Name.String(), "error", err)
		return "Error: " + err.Error(), nil
	}

	uc.metrics.ObserveTool(tc.Name.String(), output.OutcomeSuccess, elapsed)
	uc.ui.ShowToolResult(ctx, tc.Name.String(), result, false)

	if len(result) > maxObservationLen {
		result = truncateObservation(result, maxObservationLen)
	}

	logger.Debug("Tool completed", "name", tc.Name.String(), "resultLen", len(result), "duration", elapsed.String())
	return result, nil
}


// truncateObservation cuts s to at most limit bytes on a rune boundary.
func truncateObservation(s string, limit int) string {
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "\n... (truncated)"
}
