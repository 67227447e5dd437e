// Package xccdf parses DISA STIG benchmarks published in the XCCDF XML
// format and extracts the per-rule fields needed to drive compliance checks.
package xccdf

import (
	"fmt"
	"strings"
)

// Severity is the impact level DISA assigns to a rule.
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// DefaultSeverity is applied when a Rule element carries no severity
// attribute. Defaulting to medium is a documented policy, not a guess: the
// DISA schema treats severity as optional and medium is its stated default.
const DefaultSeverity = SeverityMedium

// ParseSeverity normalizes a severity attribute value.
// An empty value yields DefaultSeverity.
func ParseSeverity(s string) (Severity, error) {
	switch Severity(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return DefaultSeverity, nil
	case SeverityHigh:
		return SeverityHigh, nil
	case SeverityMedium:
		return SeverityMedium, nil
	case SeverityLow:
		return SeverityLow, nil
	default:
		return "", fmt.Errorf("unknown severity %q", s)
	}
}

// Rule is one requirement extracted from a benchmark. Rules are immutable
// once parsed; consumers read them, never modify them.
type Rule struct {
	// ID is the SV rule identifier, unique within one benchmark.
	ID string
	// GroupID is the id of the enclosing Group (the V-ID).
	GroupID string
	// LegacyID is the legacy finding identifier when the rule carries an
	// ident element with the cyber.mil legacy finding-format system.
	LegacyID string
	Title    string
	Severity Severity
	// Description is the vulnerability discussion, flattened to plain text.
	Description string
	// CheckText is the manual verification procedure. Line breaks from the
	// source are preserved because they often delimit command syntax.
	CheckText string
	// FixText is the remediation procedure.
	FixText string
	// CheckSystem is the system attribute of the check element, when present.
	CheckSystem string
}

// Benchmark is a parsed XCCDF document: its title plus every rule in
// document order.
type Benchmark struct {
	Title string
	Rules []Rule
}

// ParseError reports a malformed or structurally incomplete benchmark
// document. It is fatal to extraction: no partial rule set is returned.
type ParseError struct {
	Msg string
	Err error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("xccdf: %s: %v", e.Msg, e.Err)
	}
	return "xccdf: " + e.Msg
}

func (e *ParseError) Unwrap() error { return e.Err }
