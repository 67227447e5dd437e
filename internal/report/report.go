// Package report aggregates check results into an ordered compliance
// report and renders it for auditors. Every renderer emits every result,
// not_implemented entries included, because omitting them would hide
// coverage gaps.
package report

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shirou/gopsutil/v3/host"

	"github.com/stigops/stigcheck/internal/checks"
	"github.com/stigops/stigcheck/internal/xccdf"
)

// Row is one rule's outcome joined with the rule metadata an auditor needs
// to read the report without the benchmark at hand.
type Row struct {
	RuleID    string         `json:"rule_id"`
	GroupID   string         `json:"group_id,omitempty"`
	Title     string         `json:"title"`
	Severity  xccdf.Severity `json:"severity"`
	Status    checks.Status  `json:"status"`
	Detail    string         `json:"detail"`
	Timestamp time.Time      `json:"timestamp"`
}

// Summary holds the per-status counts for a run.
type Summary struct {
	Total          int `json:"total"`
	Compliant      int `json:"compliant"`
	NonCompliant   int `json:"non_compliant"`
	Errors         int `json:"errors"`
	NotImplemented int `json:"not_implemented"`
}

// HostInfo identifies the scanned host.
type HostInfo struct {
	Hostname string `json:"hostname,omitempty"`
	OS       string `json:"os,omitempty"`
	Platform string `json:"platform,omitempty"`
	Kernel   string `json:"kernel,omitempty"`
}

// Report is the complete output of one compliance run.
type Report struct {
	RunID      string    `json:"run_id"`
	Benchmark  string    `json:"benchmark"`
	Host       HostInfo  `json:"host"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Summary    Summary   `json:"summary"`
	Rows       []Row     `json:"results"`
}

// New joins rules with their results, preserving rule order. results must
// be the (possibly partial, on cancellation) output of a run over rules:
// result i corresponds to rule i.
func New(benchmark *xccdf.Benchmark, results []checks.Result, startedAt, finishedAt time.Time) (*Report, error) {
	if len(results) > len(benchmark.Rules) {
		return nil, fmt.Errorf("got %d results for %d rules", len(results), len(benchmark.Rules))
	}

	r := &Report{
		RunID:      uuid.NewString(),
		Benchmark:  benchmark.Title,
		StartedAt:  startedAt,
		FinishedAt: finishedAt,
		Rows:       make([]Row, 0, len(results)),
	}

	for i, res := range results {
		rule := benchmark.Rules[i]
		if rule.ID != res.RuleID {
			return nil, fmt.Errorf("result %d is for rule %q, expected %q", i, res.RuleID, rule.ID)
		}
		r.Rows = append(r.Rows, Row{
			RuleID:    rule.ID,
			GroupID:   rule.GroupID,
			Title:     rule.Title,
			Severity:  rule.Severity,
			Status:    res.Status,
			Detail:    res.Detail,
			Timestamp: res.Timestamp,
		})

		r.Summary.Total++
		switch res.Status {
		case checks.StatusCompliant:
			r.Summary.Compliant++
		case checks.StatusNonCompliant:
			r.Summary.NonCompliant++
		case checks.StatusError:
			r.Summary.Errors++
		case checks.StatusNotImplemented:
			r.Summary.NotImplemented++
		}
	}

	return r, nil
}

// CollectHost fills in host identity from the local system. Failures leave
// the fields empty rather than failing the report.
func (r *Report) CollectHost(ctx context.Context) {
	info, err := host.InfoWithContext(ctx)
	if err != nil {
		return
	}
	r.Host = HostInfo{
		Hostname: info.Hostname,
		OS:       info.OS,
		Platform: fmt.Sprintf("%s %s", info.Platform, info.PlatformVersion),
		Kernel:   info.KernelVersion,
	}
}
