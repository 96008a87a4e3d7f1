// Package proc creates child processes and collects their exit status with
// raw wait4 calls, so callers can choose between blocking and non-blocking
// waits per process.
package proc

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"
)

// AnyChild asks TryWait for whichever child terminates first.
const AnyChild = -1

var (
	// ErrExec means the program could not be found or its image could not be loaded.
	ErrExec = errors.New("exec failed")
	// ErrLaunch means the process could not be created at all.
	ErrLaunch = errors.New("launch failed")
	// ErrNoChildren is returned by waits when there is nothing left to reap.
	ErrNoChildren = errors.New("no child processes")
)

// Controller starts and reaps child processes.
type Controller interface {
	// Start runs argv[0], resolved on PATH, in dir and returns its pid.
	Start(argv []string, dir string) (int, error)
	// Wait blocks until pid exits.
	Wait(pid int) (Status, error)
	// TryWait reaps pid (or AnyChild) if it has exited and returns 0 otherwise.
	TryWait(pid int) (int, Status, error)
}

// Status is the exit status of a reaped child.
type Status struct {
	ws unix.WaitStatus
}

func (s Status) ExitCode() int {
	switch {
	case s.ws.Exited():
		return s.ws.ExitStatus()
	case s.ws.Signaled():
		return 128 + int(s.ws.Signal())
	default:
		return -1
	}
}

func (s Status) String() string {
	if s.ws.Signaled() {
		return fmt.Sprintf("signal %s", s.ws.Signal())
	}
	return fmt.Sprintf("exit %d", s.ExitCode())
}

// System is the Controller backed by the running kernel. Children share the
// interpreter's standard streams.
type System struct {
	Stdin  *os.File
	Stdout *os.File
	Stderr *os.File
}

func NewSystem() *System {
	return &System{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
}

func (s *System) Start(argv []string, dir string) (int, error) {
	if len(argv) == 0 {
		return 0, fmt.Errorf("%w: empty argument vector", ErrExec)
	}

	path, err := exec.LookPath(argv[0])
	if err != nil && !errors.Is(err, exec.ErrDot) {
		return 0, fmt.Errorf("%w: %s: %w", ErrExec, argv[0], err)
	}

	pid, err := syscall.ForkExec(path, argv, &syscall.ProcAttr{
		Dir: dir,
		Env: os.Environ(),
		Files: []uintptr{
			s.Stdin.Fd(),
			s.Stdout.Fd(),
			s.Stderr.Fd(),
		},
	})
	if err != nil {
		if isResourceError(err) {
			return 0, fmt.Errorf("%w: %s: %w", ErrLaunch, argv[0], err)
		}
		return 0, fmt.Errorf("%w: %s: %w", ErrExec, argv[0], err)
	}
	return pid, nil
}

func (s *System) Wait(pid int) (Status, error) {
	var ws unix.WaitStatus
	for {
		_, err := unix.Wait4(pid, &ws, 0, nil)
		if err == nil {
			return Status{ws: ws}, nil
		}
		if errors.Is(err, unix.EINTR) {
			continue
		}
		if errors.Is(err, unix.ECHILD) {
			return Status{}, ErrNoChildren
		}
		return Status{}, fmt.Errorf("wait %d: %w", pid, err)
	}
}

func (s *System) TryWait(pid int) (int, Status, error) {
	var ws unix.WaitStatus
	for {
		reaped, err := unix.Wait4(pid, &ws, unix.WNOHANG, nil)
		if err == nil {
			if reaped <= 0 {
				return 0, Status{}, nil
			}
			return reaped, Status{ws: ws}, nil
		}
		if errors.Is(err, unix.EINTR) {
			continue
		}
		if errors.Is(err, unix.ECHILD) {
			return 0, Status{}, ErrNoChildren
		}
		return 0, Status{}, fmt.Errorf("wait %d: %w", pid, err)
	}
}

// fork itself failing, as opposed to the new image failing to load
func isResourceError(err error) bool {
	return errors.Is(err, unix.EAGAIN) ||
		errors.Is(err, unix.ENOMEM) ||
		errors.Is(err, unix.EMFILE) ||
		errors.Is(err, unix.ENFILE)
}
