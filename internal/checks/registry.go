package checks

import "fmt"

// Registry maps rule ids to check implementations. It is populated once at
// startup and read-only during a run, so no locking is needed.
type Registry struct {
	checks map[string]Check
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{checks: make(map[string]Check)}
}

// Register binds a check to a rule id. Registering the same rule id twice
// is a programming error and is rejected.
func (r *Registry) Register(ruleID string, c Check) error {
	if ruleID == "" {
		return fmt.Errorf("rule id is required")
	}
	if c == nil {
		return fmt.Errorf("check for rule %q is nil", ruleID)
	}
	if _, dup := r.checks[ruleID]; dup {
		return fmt.Errorf("check for rule %q already registered", ruleID)
	}
	r.checks[ruleID] = c
	return nil
}

// Lookup returns the check bound to a rule id, if any.
func (r *Registry) Lookup(ruleID string) (Check, bool) {
	c, ok := r.checks[ruleID]
	return c, ok
}

// Len returns the number of registered checks.
func (r *Registry) Len() int {
	return len(r.checks)
}
