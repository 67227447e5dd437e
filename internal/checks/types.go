// Package checks maps STIG rules to executable host checks and runs them,
// producing one result per rule with per-rule failure isolation.
package checks

import (
	"context"
	"time"

	"github.com/stigops/stigcheck/internal/hostquery"
)

// Status is the outcome class of one rule evaluation.
type Status string

const (
	StatusCompliant    Status = "compliant"
	StatusNonCompliant Status = "non_compliant"
	// StatusError means the check could not produce a verdict: the host
	// query failed, timed out, or the implementation misbehaved.
	StatusError Status = "error"
	// StatusNotImplemented means no check is registered for the rule. It is
	// an expected coverage gap, not a failure.
	StatusNotImplemented Status = "not_implemented"
)

// Result is the outcome of evaluating one rule against the host. Results
// are created once per rule per run and never mutated.
type Result struct {
	RuleID    string    `json:"rule_id"`
	Status    Status    `json:"status"`
	Detail    string    `json:"detail"`
	Timestamp time.Time `json:"timestamp"`
}

// Verdict is a check implementation's compliance decision. Detail is
// mandatory: it must state the observed value against the expected one,
// because a bare pass/fail is insufficient for audit purposes.
type Verdict struct {
	Compliant bool
	Detail    string
}

// Check is one executable verification procedure. Implementations inspect
// host state through the provider and know nothing about Rule records or
// other checks' results.
type Check interface {
	Evaluate(ctx context.Context, host hostquery.Provider) (Verdict, error)
}

// CheckFunc adapts a function to the Check interface.
type CheckFunc func(ctx context.Context, host hostquery.Provider) (Verdict, error)

func (f CheckFunc) Evaluate(ctx context.Context, host hostquery.Provider) (Verdict, error) {
	return f(ctx, host)
}
