package shell

import (
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"ssi/internal/proc"
)

var (
	// ErrExit asks Run to leave the loop.
	ErrExit           = errors.New("exit requested")
	ErrMissingCommand = errors.New("missing command")
)

// DirectoryError reports a cd target that could not be entered.
type DirectoryError struct {
	Path string
	Err  error
}

func (e *DirectoryError) Error() string {
	return fmt.Sprintf("cd: %s: %v", e.Path, e.Err)
}

func (e *DirectoryError) Unwrap() error {
	return e.Err
}

// Execute interprets one input line. Errors are for the user; ErrExit ends
// the session.
func (s *Shell) Execute(line string) error {
	// whole-line builtins
	switch line {
	case "exit":
		return ErrExit
	case "":
		return nil
	case "cd":
		return s.changeDirectory(nil)
	case "bglist":
		s.listJobs()
		return nil
	}

	args := Tokenize(line)
	if len(args) == 0 {
		return nil
	}

	switch args[0] {
	case "cd":
		return s.changeDirectory(args[1:])
	case "bg":
		if len(args) == 1 {
			return fmt.Errorf("bg: %w", ErrMissingCommand)
		}
		return s.launch(args[1:], true)
	}
	return s.launch(args, false)
}

func (s *Shell) launch(args ArgumentVector, background bool) error {
	outcome := s.launcher.Launch(args, background)
	switch outcome.Kind {
	case OutcomeExecFailed, OutcomeLaunchFailed:
		return outcome.Err
	case OutcomeStarted:
		s.logger.Info("background job started", zap.Int("pid", outcome.PID))
	case OutcomeCompleted:
		if outcome.ExitStatus != 0 {
			s.logger.Debug("command exited non-zero", zap.Int("pid", outcome.PID), zap.Int("status", outcome.ExitStatus))
		}
	}
	return nil
}

func (s *Shell) changeDirectory(args []string) error {
	var dir string
	if len(args) == 0 || args[0] == "~" {
		dir = s.homeDir()
	} else {
		dir = args[0]
	}

	if err := os.Chdir(dir); err != nil {
		return &DirectoryError{Path: dir, Err: err}
	}
	return nil
}

func (s *Shell) homeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	return s.config.HomeDir
}

func (s *Shell) listJobs() {
	jobs := s.registry.List()
	for _, job := range jobs {
		fmt.Fprintf(s.out, "%d: %s\n", job.PID, job.CommandLine)
	}
	fmt.Fprintf(s.out, "Total Background Jobs: %d\n", len(jobs))
}

// report prints the user-facing message for err and logs the detail.
func (s *Shell) report(err error) {
	var dirErr *DirectoryError
	var msg string
	switch {
	case errors.As(err, &dirErr):
		msg = fmt.Sprintf("'%s' does not exist.", dirErr.Path)
	case errors.Is(err, proc.ErrExec):
		msg = "Unable to execute."
	case errors.Is(err, proc.ErrLaunch):
		msg = "Error."
	case errors.Is(err, ErrMissingCommand):
		msg = "bg: missing command."
	default:
		msg = fmt.Sprintf("Error: %v", err)
	}
	s.logger.Debug("command failed", zap.Error(err))
	fmt.Fprintln(s.out, msg)
}
