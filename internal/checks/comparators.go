package checks

import (
	"fmt"
	"strconv"
	"strings"
)

// Comparator turns an observed host value and an expected value into a
// verdict. Detail always names both sides so the report stands on its own
// in an audit.
type Comparator struct{}

// NewComparator creates a Comparator.
func NewComparator() *Comparator {
	return &Comparator{}
}

// Compare evaluates observed against expected under the given operator.
// exists reports whether the query target was present on the host at all;
// the exists/not_exists operators need only that.
func (c *Comparator) Compare(observed string, exists bool, expected, operator string) Verdict {
	switch operator {
	case "exists":
		if exists {
			return Verdict{Compliant: true, Detail: fmt.Sprintf("value exists: %q", observed)}
		}
		return Verdict{Compliant: false, Detail: "value does not exist"}

	case "not_exists":
		if !exists {
			return Verdict{Compliant: true, Detail: "value does not exist (expected)"}
		}
		return Verdict{Compliant: false, Detail: fmt.Sprintf("value exists (%q) but should not", observed)}
	}

	if !exists {
		return Verdict{Compliant: false, Detail: fmt.Sprintf("value does not exist, expected %q", expected)}
	}

	switch operator {
	case "equals", "":
		if observed == expected {
			return Verdict{Compliant: true, Detail: fmt.Sprintf("observed %q matches expected %q", observed, expected)}
		}
		return Verdict{Compliant: false, Detail: fmt.Sprintf("observed %q, expected %q", observed, expected)}

	case "not_equals":
		if observed != expected {
			return Verdict{Compliant: true, Detail: fmt.Sprintf("observed %q differs from %q (expected)", observed, expected)}
		}
		return Verdict{Compliant: false, Detail: fmt.Sprintf("observed %q equals %q but should not", observed, expected)}

	case "contains":
		if strings.Contains(observed, expected) {
			return Verdict{Compliant: true, Detail: fmt.Sprintf("observed value contains %q", expected)}
		}
		return Verdict{Compliant: false, Detail: fmt.Sprintf("observed %q does not contain %q", observed, expected)}

	case "gte", "lte", "gt", "lt":
		return c.compareNumeric(observed, expected, operator)

	default:
		return Verdict{Compliant: false, Detail: fmt.Sprintf("unsupported comparison operator %q", operator)}
	}
}

func (c *Comparator) compareNumeric(observed, expected, operator string) Verdict {
	obs, err := toFloat64(observed)
	if err != nil {
		return Verdict{Compliant: false, Detail: fmt.Sprintf("observed value %q is not numeric", observed)}
	}
	exp, err := toFloat64(expected)
	if err != nil {
		return Verdict{Compliant: false, Detail: fmt.Sprintf("expected value %q is not numeric", expected)}
	}

	var passed bool
	var symbol string
	switch operator {
	case "gte":
		passed, symbol = obs >= exp, ">="
	case "lte":
		passed, symbol = obs <= exp, "<="
	case "gt":
		passed, symbol = obs > exp, ">"
	case "lt":
		passed, symbol = obs < exp, "<"
	}

	if passed {
		return Verdict{Compliant: true, Detail: fmt.Sprintf("observed %v %s %v", obs, symbol, exp)}
	}
	return Verdict{Compliant: false, Detail: fmt.Sprintf("observed %v, required %s %v", obs, symbol, exp)}
}

func toFloat64(s string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("cannot convert %q to number", s)
	}
	return f, nil
}
