// Package safecmd runs host commands with a bounded output size.
//
// Compliance checks shell out to tools like auditpol or icacls whose output
// is normally small, but a misconfigured target can produce unbounded
// output. These wrappers cap what is read into memory so one runaway
// command cannot exhaust the scanner.
package safecmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
)

// DefaultMaxOutput is the default output cap (1 MB). Check output beyond
// this is almost certainly not a compliance verdict.
const DefaultMaxOutput = 1 * 1024 * 1024

// ErrOutputTooLarge is returned when command output exceeds the cap.
var ErrOutputTooLarge = errors.New("command output exceeds size limit")

// Config holds execution limits.
type Config struct {
	// MaxOutput is the output cap in bytes; DefaultMaxOutput when zero.
	MaxOutput int64
}

// CombinedOutput runs cmd and returns its combined stdout and stderr,
// capped at cfg.MaxOutput bytes. Output read before an overflow or a
// command failure is returned alongside the error.
func CombinedOutput(ctx context.Context, cmd *exec.Cmd, cfg Config) ([]byte, error) {
	limit := cfg.MaxOutput
	if limit <= 0 {
		limit = DefaultMaxOutput
	}

	var buf bytes.Buffer
	w := &cappedWriter{w: &buf, remaining: limit}
	cmd.Stdout = w
	cmd.Stderr = w

	err := cmd.Run()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return buf.Bytes(), ctxErr
	}
	if w.overflowed {
		return buf.Bytes(), fmt.Errorf("%w: limit is %d bytes", ErrOutputTooLarge, limit)
	}
	if err != nil {
		return buf.Bytes(), err
	}
	return buf.Bytes(), nil
}

// cappedWriter discards writes past its limit instead of failing them, so
// the command is not killed with a broken pipe mid-query.
type cappedWriter struct {
	w          io.Writer
	remaining  int64
	overflowed bool
}

func (c *cappedWriter) Write(p []byte) (int, error) {
	n := len(p)
	if c.remaining <= 0 {
		c.overflowed = true
		return n, nil
	}
	if int64(n) > c.remaining {
		c.overflowed = true
		p = p[:c.remaining]
	}
	if _, err := c.w.Write(p); err != nil {
		return 0, err
	}
	c.remaining -= int64(len(p))
	return n, nil
}
