//go:build windows
// +build windows

package hostquery

import (
	"context"
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/windows"
	"golang.org/x/sys/windows/svc"
	"golang.org/x/sys/windows/svc/mgr"
)

// ServiceState queries the service control manager for the run state and
// start mode of a named service.
func (s *System) ServiceState(ctx context.Context, name string) (ServiceStatus, error) {
	if err := ctx.Err(); err != nil {
		return ServiceStatus{}, Timeout(name, err)
	}

	m, err := mgr.Connect()
	if err != nil {
		if errors.Is(err, os.ErrPermission) {
			return ServiceStatus{}, PermissionDenied(name, err)
		}
		return ServiceStatus{}, fmt.Errorf("connecting to service manager: %w", err)
	}
	defer m.Disconnect()

	service, err := m.OpenService(name)
	if err != nil {
		switch {
		case errors.Is(err, windows.ERROR_SERVICE_DOES_NOT_EXIST):
			return ServiceStatus{}, NotFound(name, err)
		case errors.Is(err, os.ErrPermission):
			return ServiceStatus{}, PermissionDenied(name, err)
		default:
			return ServiceStatus{}, fmt.Errorf("opening service %s: %w", name, err)
		}
	}
	defer service.Close()

	status, err := service.Query()
	if err != nil {
		return ServiceStatus{}, fmt.Errorf("querying service %s: %w", name, err)
	}

	result := ServiceStatus{State: stateName(status.State)}

	// Start mode requires a separate config query; treat failure as
	// missing detail rather than a failed check.
	if cfg, err := service.Config(); err == nil {
		result.StartMode = startModeName(cfg.StartType)
	}

	return result, nil
}

func stateName(state svc.State) string {
	switch state {
	case svc.Stopped:
		return "stopped"
	case svc.StartPending:
		return "start_pending"
	case svc.StopPending:
		return "stop_pending"
	case svc.Running:
		return "running"
	case svc.ContinuePending:
		return "continue_pending"
	case svc.PausePending:
		return "pause_pending"
	case svc.Paused:
		return "paused"
	default:
		return fmt.Sprintf("unknown(%d)", state)
	}
}

func startModeName(startType uint32) string {
	switch startType {
	case mgr.StartAutomatic:
		return "automatic"
	case mgr.StartManual:
		return "manual"
	case mgr.StartDisabled:
		return "disabled"
	default:
		return fmt.Sprintf("unknown(%d)", startType)
	}
}
