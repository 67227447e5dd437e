package hostquery

import (
	"errors"
	"fmt"
)

// Kind classifies why a host query failed.
type Kind string

const (
	KindNotFound    Kind = "not_found"
	KindPermission  Kind = "permission_denied"
	KindTimeout     Kind = "timeout"
	KindUnsupported Kind = "unsupported_platform"
)

// QueryError reports the failure of a single host query. The dispatcher
// recovers it locally: the affected rule gets an error result and the run
// continues.
type QueryError struct {
	Kind   Kind
	Target string
	Err    error
}

func (e *QueryError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("host query %q: %s: %v", e.Target, e.Kind, e.Err)
	}
	return fmt.Sprintf("host query %q: %s", e.Target, e.Kind)
}

func (e *QueryError) Unwrap() error { return e.Err }

// NotFound reports that the query target does not exist on this host.
func NotFound(target string, err error) *QueryError {
	return &QueryError{Kind: KindNotFound, Target: target, Err: err}
}

// PermissionDenied reports that the agent lacks the privilege to read the
// target.
func PermissionDenied(target string, err error) *QueryError {
	return &QueryError{Kind: KindPermission, Target: target, Err: err}
}

// Timeout reports that the query did not return within its deadline.
func Timeout(target string, err error) *QueryError {
	return &QueryError{Kind: KindTimeout, Target: target, Err: err}
}

// Unsupported reports that the query has no implementation on this platform.
func Unsupported(target string) *QueryError {
	return &QueryError{Kind: KindUnsupported, Target: target}
}

// IsNotFound reports whether err is a QueryError with KindNotFound.
func IsNotFound(err error) bool {
	var qe *QueryError
	return errors.As(err, &qe) && qe.Kind == KindNotFound
}
