package checks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/stigops/stigcheck/internal/hostquery"
)

// Definition is one declarative check from the catalog: a rule id bound to
// a host query, an expected value, and a comparison operator. The catalog
// is how checks are authored without writing Go; hand-written Check
// implementations can still be registered directly for rules that need
// more than a single query.
type Definition struct {
	RuleID   string `yaml:"rule_id"`
	Name     string `yaml:"name,omitempty"`
	Type     string `yaml:"type"` // registry, service, file, command
	Operator string `yaml:"operator,omitempty"`
	Expected string `yaml:"expected,omitempty"`

	// Registry checks.
	RegistryPath  string `yaml:"registry_path,omitempty"`
	RegistryValue string `yaml:"registry_value,omitempty"`

	// Service checks. Field selects "state" (default) or "start_mode".
	Service string `yaml:"service,omitempty"`
	Field   string `yaml:"field,omitempty"`

	// File checks. Field selects "mode" (default) or "owner".
	Path string `yaml:"path,omitempty"`

	// Command checks.
	Command string   `yaml:"command,omitempty"`
	Args    []string `yaml:"args,omitempty"`
}

// Validate checks that the definition names a rule and carries the fields
// its type needs.
func (d Definition) Validate() error {
	if d.RuleID == "" {
		return fmt.Errorf("check definition has no rule_id")
	}
	switch d.Type {
	case "registry":
		if d.RegistryPath == "" || d.RegistryValue == "" {
			return fmt.Errorf("registry check %q needs registry_path and registry_value", d.RuleID)
		}
	case "service":
		if d.Service == "" {
			return fmt.Errorf("service check %q needs a service name", d.RuleID)
		}
		if d.Field != "" && d.Field != "state" && d.Field != "start_mode" {
			return fmt.Errorf("service check %q: unknown field %q", d.RuleID, d.Field)
		}
	case "file":
		if d.Path == "" {
			return fmt.Errorf("file check %q needs a path", d.RuleID)
		}
		if d.Field != "" && d.Field != "mode" && d.Field != "owner" {
			return fmt.Errorf("file check %q: unknown field %q", d.RuleID, d.Field)
		}
	case "command":
		if d.Command == "" {
			return fmt.Errorf("command check %q needs a command", d.RuleID)
		}
	default:
		return fmt.Errorf("check %q: unknown type %q", d.RuleID, d.Type)
	}
	return nil
}

// Check builds the executable check for this definition.
func (d Definition) Check() (Check, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	cmp := NewComparator()

	switch d.Type {
	case "registry":
		return CheckFunc(func(ctx context.Context, host hostquery.Provider) (Verdict, error) {
			observed, err := host.RegistryValue(ctx, d.RegistryPath, d.RegistryValue)
			if err != nil {
				if hostquery.IsNotFound(err) {
					return cmp.Compare("", false, d.Expected, d.Operator), nil
				}
				return Verdict{}, err
			}
			return cmp.Compare(observed, true, d.Expected, d.Operator), nil
		}), nil

	case "service":
		return CheckFunc(func(ctx context.Context, host hostquery.Provider) (Verdict, error) {
			status, err := host.ServiceState(ctx, d.Service)
			if err != nil {
				if hostquery.IsNotFound(err) {
					return cmp.Compare("", false, d.Expected, d.Operator), nil
				}
				return Verdict{}, err
			}
			observed := status.State
			if d.Field == "start_mode" {
				observed = status.StartMode
			}
			return cmp.Compare(observed, true, d.Expected, d.Operator), nil
		}), nil

	case "file":
		return CheckFunc(func(ctx context.Context, host hostquery.Provider) (Verdict, error) {
			fi, err := host.Stat(ctx, d.Path)
			if err != nil {
				if hostquery.IsNotFound(err) {
					return cmp.Compare("", false, d.Expected, d.Operator), nil
				}
				return Verdict{}, err
			}
			observed := fmt.Sprintf("%04o", fi.Mode.Perm())
			if d.Field == "owner" {
				observed = fi.Owner
			}
			return cmp.Compare(observed, true, d.Expected, d.Operator), nil
		}), nil

	case "command":
		return CheckFunc(func(ctx context.Context, host hostquery.Provider) (Verdict, error) {
			observed, err := host.Run(ctx, d.Command, d.Args...)
			if err != nil {
				return Verdict{}, err
			}
			return cmp.Compare(observed, true, d.Expected, d.Operator), nil
		}), nil
	}

	return nil, fmt.Errorf("check %q: unknown type %q", d.RuleID, d.Type)
}

type catalogFile struct {
	Checks []Definition `yaml:"checks"`
}

// LoadFile parses one catalog file.
func LoadFile(path string) ([]Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog %s: %w", path, err)
	}
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing catalog %s: %w", path, err)
	}
	for _, d := range f.Checks {
		if err := d.Validate(); err != nil {
			return nil, fmt.Errorf("catalog %s: %w", path, err)
		}
	}
	return f.Checks, nil
}

// LoadDir loads every .yaml/.yml catalog file in a directory.
func LoadDir(dir string) ([]Definition, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading catalog directory %s: %w", dir, err)
	}

	var defs []Definition
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		fileDefs, err := LoadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		defs = append(defs, fileDefs...)
	}
	return defs, nil
}

// RegisterDefinitions builds and registers a check for every definition.
func (r *Registry) RegisterDefinitions(defs []Definition) error {
	for _, d := range defs {
		c, err := d.Check()
		if err != nil {
			return err
		}
		if err := r.Register(d.RuleID, c); err != nil {
			return err
		}
	}
	return nil
}
