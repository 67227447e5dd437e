//go:build !windows
// +build !windows

package hostquery

import "context"

// RegistryValue is unavailable off Windows; registry-backed checks report an
// unsupported-platform query error instead of a verdict.
func (s *System) RegistryValue(ctx context.Context, path, name string) (string, error) {
	return "", Unsupported(path + `\` + name)
}

// ServiceState is unavailable off Windows. Service checks for non-Windows
// benchmarks go through Run with the platform's service manager CLI.
func (s *System) ServiceState(ctx context.Context, name string) (ServiceStatus, error) {
	return ServiceStatus{}, Unsupported(name)
}
