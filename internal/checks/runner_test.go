package checks

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stigops/stigcheck/internal/hostquery"
	"github.com/stigops/stigcheck/internal/xccdf"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testRules(ids ...string) []xccdf.Rule {
	rules := make([]xccdf.Rule, 0, len(ids))
	for _, id := range ids {
		rules = append(rules, xccdf.Rule{ID: id, Severity: xccdf.SeverityMedium})
	}
	return rules
}

func staticCheck(compliant bool, detail string) Check {
	return CheckFunc(func(ctx context.Context, host hostquery.Provider) (Verdict, error) {
		return Verdict{Compliant: compliant, Detail: detail}, nil
	})
}

func TestRunnerOneResultPerRuleInOrder(t *testing.T) {
	registry := NewRegistry()
	if err := registry.Register("WN11-AC-01", staticCheck(false, "observed 0, expected 1")); err != nil {
		t.Fatal(err)
	}

	fixed := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	runner := NewRunner(testLogger(), registry, hostquery.NewFake(),
		WithClock(func() time.Time { return fixed }))
	results := runner.Run(context.Background(), testRules("WN11-AC-01", "WN11-AC-02"))

	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].RuleID != "WN11-AC-01" || results[0].Status != StatusNonCompliant {
		t.Errorf("unexpected first result: %+v", results[0])
	}
	if results[1].RuleID != "WN11-AC-02" || results[1].Status != StatusNotImplemented {
		t.Errorf("unexpected second result: %+v", results[1])
	}
	for _, r := range results {
		if r.Detail == "" {
			t.Errorf("result %s has no detail", r.RuleID)
		}
		if !r.Timestamp.Equal(fixed) {
			t.Errorf("result %s has timestamp %v, want %v", r.RuleID, r.Timestamp, fixed)
		}
	}
}

func TestRunnerIsolatesFailingCheck(t *testing.T) {
	registry := NewRegistry()
	if err := registry.Register("WN11-AC-01", CheckFunc(func(ctx context.Context, host hostquery.Provider) (Verdict, error) {
		return Verdict{}, hostquery.PermissionDenied(`HKLM\SECURITY`, errors.New("access is denied"))
	})); err != nil {
		t.Fatal(err)
	}
	if err := registry.Register("WN11-AC-02", staticCheck(true, "observed 1, expected 1")); err != nil {
		t.Fatal(err)
	}

	runner := NewRunner(testLogger(), registry, hostquery.NewFake())
	results := runner.Run(context.Background(), testRules("WN11-AC-01", "WN11-AC-02"))

	if results[0].Status != StatusError {
		t.Fatalf("expected error status, got %s", results[0].Status)
	}
	if !strings.Contains(results[0].Detail, "access is denied") {
		t.Errorf("detail does not carry the cause: %q", results[0].Detail)
	}
	if results[1].Status != StatusCompliant {
		t.Errorf("failing check aborted the run: second result %+v", results[1])
	}
}

func TestRunnerRecoversPanickingCheck(t *testing.T) {
	registry := NewRegistry()
	if err := registry.Register("WN11-AC-01", CheckFunc(func(ctx context.Context, host hostquery.Provider) (Verdict, error) {
		panic("boom")
	})); err != nil {
		t.Fatal(err)
	}
	if err := registry.Register("WN11-AC-02", staticCheck(true, "ok as expected")); err != nil {
		t.Fatal(err)
	}

	runner := NewRunner(testLogger(), registry, hostquery.NewFake())
	results := runner.Run(context.Background(), testRules("WN11-AC-01", "WN11-AC-02"))

	if results[0].Status != StatusError || !strings.Contains(results[0].Detail, "boom") {
		t.Errorf("panic not converted to error result: %+v", results[0])
	}
	if results[1].Status != StatusCompliant {
		t.Errorf("panic aborted the run: %+v", results[1])
	}
}

func TestRunnerTimesOutSlowCheck(t *testing.T) {
	registry := NewRegistry()
	if err := registry.Register("WN11-AC-01", CheckFunc(func(ctx context.Context, host hostquery.Provider) (Verdict, error) {
		<-ctx.Done()
		return Verdict{}, ctx.Err()
	})); err != nil {
		t.Fatal(err)
	}
	if err := registry.Register("WN11-AC-02", staticCheck(true, "ok as expected")); err != nil {
		t.Fatal(err)
	}

	runner := NewRunner(testLogger(), registry, hostquery.NewFake(),
		WithQueryTimeout(10*time.Millisecond))
	results := runner.Run(context.Background(), testRules("WN11-AC-01", "WN11-AC-02"))

	if results[0].Status != StatusError {
		t.Fatalf("expected error status, got %s", results[0].Status)
	}
	if !strings.Contains(results[0].Detail, "did not complete within") {
		t.Errorf("timeout not named in detail: %q", results[0].Detail)
	}
	if results[1].Status != StatusCompliant {
		t.Errorf("timed-out check aborted the run: %+v", results[1])
	}
}

func TestRunnerCancelledReturnsPartialResults(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	registry := NewRegistry()
	if err := registry.Register("WN11-AC-01", CheckFunc(func(cctx context.Context, host hostquery.Provider) (Verdict, error) {
		cancel() // abort the run after this check completes
		return Verdict{Compliant: true, Detail: "ok as expected"}, nil
	})); err != nil {
		t.Fatal(err)
	}

	runner := NewRunner(testLogger(), registry, hostquery.NewFake())
	results := runner.Run(ctx, testRules("WN11-AC-01", "WN11-AC-02", "WN11-AC-03"))

	if len(results) != 1 {
		t.Fatalf("expected 1 partial result, got %d", len(results))
	}
	if results[0].Status != StatusCompliant {
		t.Errorf("partial result invalidated: %+v", results[0])
	}
}

func TestRunnerRejectsVerdictWithoutDetail(t *testing.T) {
	registry := NewRegistry()
	if err := registry.Register("WN11-AC-01", staticCheck(true, "")); err != nil {
		t.Fatal(err)
	}

	runner := NewRunner(testLogger(), registry, hostquery.NewFake())
	results := runner.Run(context.Background(), testRules("WN11-AC-01"))

	if results[0].Status != StatusError {
		t.Errorf("detail-less verdict must be an error, got %s", results[0].Status)
	}
}

func TestRunnerIdempotentStatuses(t *testing.T) {
	host := hostquery.NewFake()
	host.RegistryValues[`HKLM\SYSTEM\CurrentControlSet\Control\Lsa\LimitBlankPasswordUse`] = "1"

	def := Definition{
		RuleID:        "WN11-SO-000030",
		Type:          "registry",
		RegistryPath:  `HKLM\SYSTEM\CurrentControlSet\Control\Lsa`,
		RegistryValue: "LimitBlankPasswordUse",
		Operator:      "equals",
		Expected:      "1",
	}
	registry := NewRegistry()
	if err := registry.RegisterDefinitions([]Definition{def}); err != nil {
		t.Fatal(err)
	}

	runner := NewRunner(testLogger(), registry, host)
	rules := testRules("WN11-SO-000030", "WN11-SO-000031")

	first := runner.Run(context.Background(), rules)
	second := runner.Run(context.Background(), rules)

	for i := range first {
		if first[i].Status != second[i].Status {
			t.Errorf("rule %s: status changed between runs: %s vs %s",
				first[i].RuleID, first[i].Status, second[i].Status)
		}
	}
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	registry := NewRegistry()
	if err := registry.Register("WN11-AC-01", staticCheck(true, "x")); err != nil {
		t.Fatal(err)
	}
	if err := registry.Register("WN11-AC-01", staticCheck(true, "y")); err == nil {
		t.Error("duplicate registration must fail")
	}
	if err := registry.Register("", staticCheck(true, "x")); err == nil {
		t.Error("empty rule id must fail")
	}
	if err := registry.Register("WN11-AC-02", nil); err == nil {
		t.Error("nil check must fail")
	}
	if registry.Len() != 1 {
		t.Errorf("unexpected registry size %d", registry.Len())
	}
}
