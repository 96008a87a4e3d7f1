package shell

import (
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"ssi/internal/proc"
)

// Poller reports background jobs that have terminated, one per call.
type Poller struct {
	procs    proc.Controller
	registry *Registry
	out      io.Writer
	logger   *zap.Logger
}

func NewPoller(procs proc.Controller, registry *Registry, out io.Writer, logger *zap.Logger) *Poller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Poller{procs: procs, registry: registry, out: out, logger: logger}
}

// PollOnce reaps at most one terminated child without blocking. It returns
// the pid and true when a tracked job was reported and removed.
//
// The wait is for any child, not a tracked one. Foreground children are
// always waited on directly, so every child reaped here should be a job.
func (p *Poller) PollOnce() (int, bool) {
	pid, ok := p.registry.firstExited()
	if !ok {
		if p.registry.Len() == 0 {
			return 0, false
		}

		reaped, status, err := p.procs.TryWait(proc.AnyChild)
		if err != nil {
			if !errors.Is(err, proc.ErrNoChildren) {
				p.logger.Warn("termination check failed", zap.Error(err))
			}
			return 0, false
		}
		if reaped == 0 {
			return 0, false
		}
		p.logger.Debug("background process exited", zap.Int("pid", reaped), zap.Stringer("status", status))
		pid = reaped
	}

	if !p.registry.Remove(pid) {
		p.logger.Warn("reaped process is not a tracked job", zap.Int("pid", pid))
		return pid, false
	}
	fmt.Fprintf(p.out, "%d has been terminated.\n", pid)
	return pid, true
}
