package fill

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jobswipe/jobswipe-cli/api/schemas"
)

// Executor runs decoded plans sequentially with per-step failure isolation.
// A broken step, a vanished selector, or even a panicking handler only costs
// that one step; the rest of the plan still runs.
type Executor struct {
	registry *Registry
	logger   *zap.Logger
}

// NewExecutor returns an executor bound to a tool registry.
func NewExecutor(registry *Registry, logger *zap.Logger) *Executor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Executor{registry: registry, logger: logger.Named("executor")}
}

// Execute runs every step of the plan against the page, in order, and
// reports how many took effect. Selectors are resolved fresh at each step so
// reactive re-renders between steps do not poison later ones.
func (e *Executor) Execute(ctx context.Context, page schemas.Page, plan *schemas.Plan, profile *schemas.UserProfileData) schemas.ExecutionResult {
	var result schemas.ExecutionResult
	if plan == nil {
		return result
	}

	for i, step := range plan.Steps {
		if !step.Valid() {
			e.logger.Warn("Skipping malformed plan step", zap.Int("step", i), zap.String("reason", step.Invalid))
			continue
		}
		handler, ok := e.registry.Lookup(step.Tool)
		if !ok {
			e.logger.Warn("Unknown tool in plan", zap.Int("step", i), zap.String("tool", string(step.Tool)))
			continue
		}
		if e.runStep(ctx, page, handler, step, profile, i) {
			result.SuccessCount++
		}
	}

	e.logger.Info("Plan execution finished",
		zap.Int("steps", len(plan.Steps)),
		zap.Int("succeeded", result.SuccessCount))
	return result
}

// runStep invokes one handler, converting panics into ordinary failures.
func (e *Executor) runStep(ctx context.Context, page schemas.Page, handler Handler, step schemas.PlanStep, profile *schemas.UserProfileData, index int) (acted bool) {
	defer func() {
		if r := recover(); r != nil {
			acted = false
			e.logger.Error("Plan step panicked",
				zap.Int("step", index),
				zap.String("tool", string(step.Tool)),
				zap.String("selector", step.Selector),
				zap.Error(fmt.Errorf("panic: %v", r)))
		}
	}()

	acted, err := handler(ctx, page, step, profile)
	if err != nil {
		e.logger.Warn("Plan step failed",
			zap.Int("step", index),
			zap.String("tool", string(step.Tool)),
			zap.String("selector", step.Selector),
			zap.Error(err))
		return false
	}
	return acted
}
