package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/stigops/stigcheck/internal/checks"
	"github.com/stigops/stigcheck/internal/xccdf"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	subtleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

	statusStyles = map[checks.Status]lipgloss.Style{
		checks.StatusCompliant:      lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		checks.StatusNonCompliant:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		checks.StatusError:          lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		checks.StatusNotImplemented: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	}

	severityStyles = map[xccdf.Severity]lipgloss.Style{
		xccdf.SeverityHigh:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		xccdf.SeverityMedium: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		xccdf.SeverityLow:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	}
)

// Console renders the report as a colored table for terminal output.
// Row order matches rule order.
func Console(r *Report) string {
	var b strings.Builder

	heading := r.Benchmark
	if heading == "" {
		heading = "STIG compliance report"
	}
	b.WriteString(titleStyle.Render(heading))
	b.WriteByte('\n')
	if r.Host.Hostname != "" {
		b.WriteString(subtleStyle.Render(fmt.Sprintf("%s · %s", r.Host.Hostname, r.Host.Platform)))
		b.WriteByte('\n')
	}
	b.WriteByte('\n')

	idWidth := len("RULE")
	for _, row := range r.Rows {
		if len(row.RuleID) > idWidth {
			idWidth = len(row.RuleID)
		}
	}

	fmt.Fprintf(&b, "%-*s  %-8s  %-15s  %s\n", idWidth, "RULE", "SEV", "STATUS", "DETAIL")
	for _, row := range r.Rows {
		sev := severityStyles[row.Severity].Render(string(row.Severity))
		status := statusStyles[row.Status].Render(string(row.Status))
		detail := strings.ReplaceAll(row.Detail, "\n", " ")

		// Styled cells carry ANSI escapes, so pad the raw text and style it
		// afterwards to keep the columns aligned.
		fmt.Fprintf(&b, "%-*s  %s  %s  %s\n",
			idWidth, row.RuleID,
			pad(sev, string(row.Severity), 8),
			pad(status, string(row.Status), 15),
			detail)
	}

	b.WriteByte('\n')
	b.WriteString(subtleStyle.Render(fmt.Sprintf(
		"%d rules: %d compliant, %d non-compliant, %d errors, %d not implemented",
		r.Summary.Total, r.Summary.Compliant, r.Summary.NonCompliant,
		r.Summary.Errors, r.Summary.NotImplemented)))
	b.WriteByte('\n')

	return b.String()
}

func pad(styled, raw string, width int) string {
	if len(raw) >= width {
		return styled
	}
	return styled + strings.Repeat(" ", width-len(raw))
}
