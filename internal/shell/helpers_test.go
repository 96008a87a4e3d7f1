package shell

import (
	"bytes"
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"ssi/internal/proc"
)

// fakeProcs is a scripted proc.Controller.
type fakeProcs struct {
	nextPID  int
	startErr error
	started  [][]string
	dirs     []string
	waited   []int
	// pids that the launcher's targeted check finds already exited
	finished map[int]bool
	// pids handed out, in order, by TryWait(AnyChild)
	exited []int
}

func newFakeProcs() *fakeProcs {
	return &fakeProcs{nextPID: 100, finished: map[int]bool{}}
}

func (f *fakeProcs) Start(argv []string, dir string) (int, error) {
	if f.startErr != nil {
		return 0, f.startErr
	}
	f.nextPID++
	f.started = append(f.started, append([]string(nil), argv...))
	f.dirs = append(f.dirs, dir)
	return f.nextPID, nil
}

func (f *fakeProcs) Wait(pid int) (proc.Status, error) {
	f.waited = append(f.waited, pid)
	return proc.Status{}, nil
}

func (f *fakeProcs) TryWait(pid int) (int, proc.Status, error) {
	if pid != proc.AnyChild {
		if f.finished[pid] {
			return pid, proc.Status{}, nil
		}
		return 0, proc.Status{}, nil
	}
	if len(f.exited) == 0 {
		return 0, proc.Status{}, nil
	}
	reaped := f.exited[0]
	f.exited = f.exited[1:]
	return reaped, proc.Status{}, nil
}

type scriptedReader struct {
	lines []string
}

func (r *scriptedReader) ReadLine(string) (string, error) {
	if len(r.lines) == 0 {
		return "", io.EOF
	}
	line := r.lines[0]
	r.lines = r.lines[1:]
	return line, nil
}

func (r *scriptedReader) Close() error { return nil }

func newTestShell(t *testing.T, procs proc.Controller, lines ...string) (*Shell, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	s, err := New(nil,
		WithReader(&scriptedReader{lines: lines}),
		WithOutput(&out),
		WithProcesses(procs),
		WithPrompt(func() string { return "> " }),
	)
	require.NoError(t, err)
	return s, &out
}

func newQuietSystem(t *testing.T) *proc.System {
	t.Helper()
	devNull, err := os.OpenFile(os.DevNull, os.O_RDWR, 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = devNull.Close() })
	return &proc.System{Stdin: devNull, Stdout: devNull, Stderr: devNull}
}

// killJobs stops and reaps every job still registered.
func killJobs(t *testing.T, system *proc.System, registry *Registry) {
	t.Helper()
	for _, job := range registry.List() {
		_ = unix.Kill(job.PID, unix.SIGKILL)
		_, _ = system.Wait(job.PID)
	}
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (stand-in for testing.T.Chdir, added in Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
