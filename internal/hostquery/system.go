package hostquery

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/stigops/stigcheck/internal/security/safecmd"
)

// System is the live-host Provider. Registry and service queries are
// platform specific and live in the build-tagged files; file metadata and
// command execution are portable.
type System struct {
	maxOutput int64
}

// NewSystem creates a Provider backed by the local host.
func NewSystem() *System {
	return &System{maxOutput: safecmd.DefaultMaxOutput}
}

// Stat reads permission and ownership metadata of a path.
func (s *System) Stat(ctx context.Context, path string) (FileInfo, error) {
	if err := ctx.Err(); err != nil {
		return FileInfo{}, Timeout(path, err)
	}
	fi, err := os.Stat(path)
	if err != nil {
		switch {
		case os.IsNotExist(err):
			return FileInfo{}, NotFound(path, err)
		case os.IsPermission(err):
			return FileInfo{}, PermissionDenied(path, err)
		default:
			return FileInfo{}, fmt.Errorf("stat %s: %w", path, err)
		}
	}
	return FileInfo{
		Mode:    fi.Mode(),
		Owner:   fileOwner(fi),
		Size:    fi.Size(),
		ModTime: fi.ModTime(),
	}, nil
}

// Run executes a short-lived command and returns its combined output with a
// bounded size. The context deadline bounds the command's lifetime.
func (s *System) Run(ctx context.Context, name string, args ...string) (string, error) {
	target := name
	cmd := exec.CommandContext(ctx, name, args...)
	out, err := safecmd.CombinedOutput(ctx, cmd, safecmd.Config{MaxOutput: s.maxOutput})
	if err != nil {
		switch {
		case errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded):
			return "", Timeout(target, err)
		case errors.Is(err, exec.ErrNotFound):
			return "", NotFound(target, err)
		case errors.Is(err, os.ErrPermission):
			return "", PermissionDenied(target, err)
		default:
			return "", fmt.Errorf("running %s: %w", target, err)
		}
	}
	return strings.TrimSpace(string(out)), nil
}
