package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// JSON renders the report as indented JSON.
func JSON(r *Report) ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// CSV renders one record per rule, in rule order.
func CSV(r *Report) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"rule_id", "group_id", "title", "severity", "status", "detail", "timestamp"}
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("writing CSV header: %w", err)
	}

	for _, row := range r.Rows {
		record := []string{
			row.RuleID,
			row.GroupID,
			row.Title,
			string(row.Severity),
			string(row.Status),
			row.Detail,
			row.Timestamp.Format(time.RFC3339),
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("writing CSV record: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Markdown renders the report for review or check-in alongside a POA&M.
func Markdown(r *Report) ([]byte, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "# STIG compliance report\n\n")
	fmt.Fprintf(&b, "- Run: `%s`\n", r.RunID)
	if r.Benchmark != "" {
		fmt.Fprintf(&b, "- Benchmark: %s\n", r.Benchmark)
	}
	if r.Host.Hostname != "" {
		fmt.Fprintf(&b, "- Host: `%s` (%s)\n", r.Host.Hostname, r.Host.Platform)
	}
	fmt.Fprintf(&b, "- Started: `%s`\n", r.StartedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(&b, "- Compliant: %d / %d (non-compliant %d, errors %d, not implemented %d)\n\n",
		r.Summary.Compliant, r.Summary.Total,
		r.Summary.NonCompliant, r.Summary.Errors, r.Summary.NotImplemented)

	if len(r.Rows) == 0 {
		b.WriteString("No rules evaluated.\n")
		return []byte(b.String()), nil
	}

	b.WriteString("| Rule | Severity | Status | Detail |\n")
	b.WriteString("|------|----------|--------|--------|\n")
	for _, row := range r.Rows {
		fmt.Fprintf(&b, "| `%s` | %s | %s | %s |\n",
			row.RuleID, row.Severity, row.Status, markdownEscape(row.Detail))
	}
	return []byte(b.String()), nil
}

func markdownEscape(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
