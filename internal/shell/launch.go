package shell

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/kballard/go-shellquote"
	"go.uber.org/zap"

	"ssi/internal/proc"
)

type OutcomeKind int

const (
	// OutcomeNoCommand means the vector was empty and nothing ran.
	OutcomeNoCommand OutcomeKind = iota
	// OutcomeCompleted means a foreground child ran to completion.
	OutcomeCompleted
	// OutcomeStarted means a background child was started and registered.
	OutcomeStarted
	// OutcomeExecFailed means the program could not be found or run.
	OutcomeExecFailed
	// OutcomeLaunchFailed means no child process could be created.
	OutcomeLaunchFailed
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeNoCommand:
		return "no-command"
	case OutcomeCompleted:
		return "completed"
	case OutcomeStarted:
		return "started"
	case OutcomeExecFailed:
		return "exec-failed"
	case OutcomeLaunchFailed:
		return "launch-failed"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// Outcome describes what a launch did. The caller decides how to report
// failures; none of them end the session.
type Outcome struct {
	Kind       OutcomeKind
	PID        int
	ExitStatus int
	Err        error
}

// Launcher starts external programs in the foreground or the background.
type Launcher struct {
	procs      proc.Controller
	registry   *Registry
	logger     *zap.Logger
	workingDir func() (string, error)
}

func NewLauncher(procs proc.Controller, registry *Registry, logger *zap.Logger) *Launcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Launcher{
		procs:      procs,
		registry:   registry,
		logger:     logger,
		workingDir: os.Getwd,
	}
}

func (l *Launcher) Launch(args ArgumentVector, background bool) Outcome {
	if len(args) == 0 {
		return Outcome{Kind: OutcomeNoCommand}
	}

	dir, err := l.workingDir()
	if err != nil {
		return Outcome{Kind: OutcomeLaunchFailed, Err: fmt.Errorf("%w: working directory: %w", proc.ErrLaunch, err)}
	}

	argv := []string(args)
	pid, err := l.procs.Start(argv, dir)
	if err != nil {
		kind := OutcomeLaunchFailed
		if errors.Is(err, proc.ErrExec) {
			kind = OutcomeExecFailed
		}
		l.logger.Warn("launch failed",
			zap.String("argv", shellquote.Join(argv...)),
			zap.Stringer("outcome", kind),
			zap.Error(err))
		return Outcome{Kind: kind, Err: err}
	}

	l.logger.Debug("process started",
		zap.Int("pid", pid),
		zap.String("argv", shellquote.Join(argv...)),
		zap.Bool("background", background))

	if !background {
		return l.waitForeground(pid)
	}
	return l.track(pid, dir, args)
}

func (l *Launcher) waitForeground(pid int) Outcome {
	status, err := l.procs.Wait(pid)
	if err != nil {
		l.logger.Warn("foreground wait failed", zap.Int("pid", pid), zap.Error(err))
		return Outcome{Kind: OutcomeCompleted, PID: pid, ExitStatus: -1, Err: err}
	}
	l.logger.Debug("foreground process exited", zap.Int("pid", pid), zap.Stringer("status", status))
	return Outcome{Kind: OutcomeCompleted, PID: pid, ExitStatus: status.ExitCode()}
}

func (l *Launcher) track(pid int, dir string, args ArgumentVector) Outcome {
	reaped, _, err := l.procs.TryWait(pid)
	if err != nil {
		l.logger.Warn("background status check failed", zap.Int("pid", pid), zap.Error(err))
	}

	if err := l.registry.Add(pid, jobCommandLine(dir, args)); err != nil {
		l.logger.Error("background job not tracked", zap.Int("pid", pid), zap.Error(err))
		return Outcome{Kind: OutcomeStarted, PID: pid}
	}
	if reaped == pid {
		l.registry.markExited(pid)
	}
	return Outcome{Kind: OutcomeStarted, PID: pid}
}

// jobCommandLine renders "<dir>/<prog> <arg1> ... <argN>".
func jobCommandLine(dir string, args ArgumentVector) string {
	var b strings.Builder
	b.WriteString(strings.TrimSuffix(dir, "/"))
	b.WriteByte('/')
	b.WriteString(strings.Join(args, " "))
	return b.String()
}
