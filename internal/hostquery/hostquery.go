// Package hostquery abstracts the host-state lookups compliance checks
// depend on: registry values, service run states, file metadata, and
// bounded command output. Check implementations consume the Provider
// interface so they can be tested against a fake host instead of requiring
// live elevated privileges.
package hostquery

import (
	"context"
	"os"
	"time"
)

// ServiceStatus describes the run state of a named system service.
type ServiceStatus struct {
	// State is the current run state, e.g. "running" or "stopped".
	State string
	// StartMode is the configured start type, e.g. "automatic" or
	// "disabled". Empty when the platform does not expose it.
	StartMode string
}

// FileInfo is the permission and ownership metadata of a path.
type FileInfo struct {
	Mode    os.FileMode
	Owner   string
	Size    int64
	ModTime time.Time
}

// Provider is the narrow host-introspection capability the check dispatcher
// consumes. All methods are read-only with respect to host state.
type Provider interface {
	// RegistryValue reads a named value under a registry key path such as
	// `HKLM\SOFTWARE\Policies\Microsoft\Windows\System`. The value is
	// returned in its string form regardless of the stored type.
	RegistryValue(ctx context.Context, path, name string) (string, error)

	// ServiceState queries the run state of a named service.
	ServiceState(ctx context.Context, name string) (ServiceStatus, error)

	// Stat reads permission and ownership metadata of a path.
	Stat(ctx context.Context, path string) (FileInfo, error)

	// Run executes a short-lived command and returns its combined output,
	// bounded in size and by the context deadline.
	Run(ctx context.Context, name string, args ...string) (string, error)
}
