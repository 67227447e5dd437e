package checks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/stigops/stigcheck/internal/hostquery"
	"github.com/stigops/stigcheck/internal/xccdf"
)

// DefaultQueryTimeout bounds a single check's host queries. A check that
// does not return within it yields an error result for that rule only.
const DefaultQueryTimeout = 10 * time.Second

// Runner executes registered checks against a host, one rule at a time in
// rule order. Checks are independent and share no mutable state.
type Runner struct {
	logger       *slog.Logger
	registry     *Registry
	host         hostquery.Provider
	queryTimeout time.Duration
	now          func() time.Time
}

// RunnerOption is a functional option for configuring the runner.
type RunnerOption func(*Runner)

// WithQueryTimeout overrides the per-check query timeout.
func WithQueryTimeout(d time.Duration) RunnerOption {
	return func(r *Runner) {
		if d > 0 {
			r.queryTimeout = d
		}
	}
}

// WithClock overrides the timestamp source. Used in tests.
func WithClock(now func() time.Time) RunnerOption {
	return func(r *Runner) {
		r.now = now
	}
}

// NewRunner creates a runner over the given registry and host provider.
func NewRunner(logger *slog.Logger, registry *Registry, host hostquery.Provider, opts ...RunnerOption) *Runner {
	r := &Runner{
		logger:       logger,
		registry:     registry,
		host:         host,
		queryTimeout: DefaultQueryTimeout,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run evaluates every rule and returns one result per rule, in rule order.
// A failing check never aborts the run of the remaining rules. If ctx is
// cancelled the results produced so far are returned as a partial report;
// a check already started is allowed to finish.
func (r *Runner) Run(ctx context.Context, rules []xccdf.Rule) []Result {
	r.logger.Info("starting compliance run",
		"rules", len(rules),
		"registered_checks", r.registry.Len(),
	)

	results := make([]Result, 0, len(rules))
	for _, rule := range rules {
		if ctx.Err() != nil {
			r.logger.Warn("run cancelled, returning partial results",
				"completed", len(results),
				"remaining", len(rules)-len(results),
			)
			return results
		}
		results = append(results, r.runOne(ctx, rule))
	}

	r.logger.Info("compliance run finished", "results", len(results))
	return results
}

func (r *Runner) runOne(ctx context.Context, rule xccdf.Rule) Result {
	result := Result{RuleID: rule.ID, Timestamp: r.now()}

	check, ok := r.registry.Lookup(rule.ID)
	if !ok {
		result.Status = StatusNotImplemented
		result.Detail = "no check implementation registered for this rule"
		return result
	}

	checkCtx, cancel := context.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	verdict, err := evaluate(checkCtx, check, r.host)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			err = fmt.Errorf("check did not complete within %s: %w", r.queryTimeout, err)
		}
		r.logger.Error("check failed", "rule_id", rule.ID, "error", err)
		result.Status = StatusError
		result.Detail = err.Error()
		return result
	}

	if verdict.Compliant {
		result.Status = StatusCompliant
	} else {
		result.Status = StatusNonCompliant
	}
	result.Detail = verdict.Detail
	if result.Detail == "" {
		// The audit trail requires an explanation for every verdict.
		result.Status = StatusError
		result.Detail = "check returned a verdict without detail"
	}

	r.logger.Debug("check evaluated",
		"rule_id", rule.ID,
		"status", result.Status,
	)
	return result
}

// evaluate invokes a check and converts a panic in the implementation into
// an ordinary error so one broken check cannot take down the run.
func evaluate(ctx context.Context, check Check, host hostquery.Provider) (verdict Verdict, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("check panicked: %v", rec)
		}
	}()
	return check.Evaluate(ctx, host)
}
