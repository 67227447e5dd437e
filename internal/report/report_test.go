package report

import (
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stigops/stigcheck/internal/checks"
	"github.com/stigops/stigcheck/internal/xccdf"
)

func sampleData() (*xccdf.Benchmark, []checks.Result) {
	bench := &xccdf.Benchmark{
		Title: "Windows 11 STIG",
		Rules: []xccdf.Rule{
			{ID: "WN11-AC-01", GroupID: "V-1", Title: "first", Severity: xccdf.SeverityHigh},
			{ID: "WN11-AC-02", GroupID: "V-2", Title: "second", Severity: xccdf.SeverityMedium},
			{ID: "WN11-AC-03", GroupID: "V-3", Title: "third", Severity: xccdf.SeverityLow},
		},
	}
	now := time.Now()
	results := []checks.Result{
		{RuleID: "WN11-AC-01", Status: checks.StatusNonCompliant, Detail: "observed 0, expected 1", Timestamp: now},
		{RuleID: "WN11-AC-02", Status: checks.StatusNotImplemented, Detail: "no check implementation registered for this rule", Timestamp: now},
		{RuleID: "WN11-AC-03", Status: checks.StatusError, Detail: "permission denied", Timestamp: now},
	}
	return bench, results
}

func TestNewJoinsRulesAndResults(t *testing.T) {
	bench, results := sampleData()
	rep, err := New(bench, results, time.Now(), time.Now())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if rep.RunID == "" {
		t.Error("report has no run id")
	}
	if len(rep.Rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rep.Rows))
	}
	if rep.Rows[0].Title != "first" || rep.Rows[0].Severity != xccdf.SeverityHigh {
		t.Errorf("rule metadata not joined: %+v", rep.Rows[0])
	}
	want := Summary{Total: 3, NonCompliant: 1, Errors: 1, NotImplemented: 1}
	if rep.Summary != want {
		t.Errorf("summary = %+v, want %+v", rep.Summary, want)
	}
}

func TestNewAcceptsPartialResults(t *testing.T) {
	bench, results := sampleData()
	rep, err := New(bench, results[:1], time.Now(), time.Now())
	if err != nil {
		t.Fatalf("New failed on partial results: %v", err)
	}
	if len(rep.Rows) != 1 || rep.Summary.Total != 1 {
		t.Errorf("partial report wrong: %+v", rep.Summary)
	}
}

func TestNewRejectsMismatchedResults(t *testing.T) {
	bench, results := sampleData()
	results[1].RuleID = "WN11-AC-99"
	if _, err := New(bench, results, time.Now(), time.Now()); err == nil {
		t.Error("mismatched rule ids must fail")
	}

	bench2, results2 := sampleData()
	results2 = append(results2, checks.Result{RuleID: "extra"})
	if _, err := New(bench2, results2, time.Now(), time.Now()); err == nil {
		t.Error("more results than rules must fail")
	}
}

func TestJSONIncludesEveryResult(t *testing.T) {
	bench, results := sampleData()
	rep, err := New(bench, results, time.Now(), time.Now())
	if err != nil {
		t.Fatal(err)
	}

	data, err := JSON(rep)
	if err != nil {
		t.Fatalf("JSON failed: %v", err)
	}

	var decoded Report
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(decoded.Rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(decoded.Rows))
	}
	// not_implemented must never be omitted: it is the coverage gap signal.
	if decoded.Rows[1].Status != checks.StatusNotImplemented {
		t.Errorf("row order or status lost: %+v", decoded.Rows[1])
	}
}

func TestCSVPreservesOrder(t *testing.T) {
	bench, results := sampleData()
	rep, err := New(bench, results, time.Now(), time.Now())
	if err != nil {
		t.Fatal(err)
	}

	data, err := CSV(rep)
	if err != nil {
		t.Fatalf("CSV failed: %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if len(records) != 4 { // header + 3 rows
		t.Fatalf("expected 4 records, got %d", len(records))
	}
	if records[1][0] != "WN11-AC-01" || records[2][0] != "WN11-AC-02" || records[3][0] != "WN11-AC-03" {
		t.Error("rule order not preserved")
	}
	if records[2][4] != "not_implemented" {
		t.Errorf("not_implemented entry missing: %v", records[2])
	}
}

func TestMarkdownListsAllRules(t *testing.T) {
	bench, results := sampleData()
	rep, err := New(bench, results, time.Now(), time.Now())
	if err != nil {
		t.Fatal(err)
	}

	data, err := Markdown(rep)
	if err != nil {
		t.Fatalf("Markdown failed: %v", err)
	}
	out := string(data)

	for _, id := range []string{"WN11-AC-01", "WN11-AC-02", "WN11-AC-03"} {
		if !strings.Contains(out, id) {
			t.Errorf("markdown omits rule %s", id)
		}
	}
	if !strings.Contains(out, "not implemented 1") {
		t.Errorf("summary line missing: %s", out)
	}
}

func TestConsoleShowsSummary(t *testing.T) {
	bench, results := sampleData()
	rep, err := New(bench, results, time.Now(), time.Now())
	if err != nil {
		t.Fatal(err)
	}

	out := Console(rep)
	if !strings.Contains(out, "Windows 11 STIG") {
		t.Error("console output omits the benchmark title")
	}
	if !strings.Contains(out, "3 rules") {
		t.Error("console output omits the summary")
	}
	for _, id := range []string{"WN11-AC-01", "WN11-AC-02", "WN11-AC-03"} {
		if !strings.Contains(out, id) {
			t.Errorf("console output omits rule %s", id)
		}
	}
}
