package tool

import (
	"context"

	"browsing-agent/internal/application/port/output"
	"browsing-agent/internal/domain/entity"
	"browsing-agent/internal/usecase/captcha"
)

var _ output.ToolPort = (*SolveCaptchaTool)(nil)

type SolveCaptchaTool struct {
	base
	solver *captcha.Solver
}

func NewSolveCaptchaTool(d Deps, solver *captcha.Solver) *SolveCaptchaTool {
	return &SolveCaptchaTool{base: newBase(d, entity.ToolSolveCaptcha.String()), solver: solver}
}

func (t *SolveCaptchaTool) Name() entity.ToolName { return entity.ToolSolveCaptcha }
func (t *SolveCaptchaTool) Description() string {
	return "Solves a reCAPTCHA shown on the current page."
}
func (t *SolveCaptchaTool) Parameters() map[string]interface{} { return emptySchema() }

func (t *SolveCaptchaTool) Execute(ctx context.Context, _ string) (string, error) {
	s, err := t.sessions.Acquire(ctx)
	if err != nil {
		return "", err
	}
	result := t.solver.Solve(ctx, s)
	s.ResetFrame()
	return result, nil
}
