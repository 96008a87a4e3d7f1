package shell

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"ssi/internal/config"
	"ssi/internal/input"
	"ssi/internal/proc"
)

type Shell struct {
	config     *config.Config
	reader     input.Reader
	procs      proc.Controller
	registry   *Registry
	launcher   *Launcher
	poller     *Poller
	out        io.Writer
	logger     *zap.Logger
	prompt     func() string
	signalChan chan os.Signal
}

type Option func(*Shell)

func WithReader(r input.Reader) Option {
	return func(s *Shell) { s.reader = r }
}

func WithOutput(w io.Writer) Option {
	return func(s *Shell) { s.out = w }
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Shell) { s.logger = l }
}

func WithProcesses(c proc.Controller) Option {
	return func(s *Shell) { s.procs = c }
}

func WithPrompt(f func() string) Option {
	return func(s *Shell) { s.prompt = f }
}

func New(cfg *config.Config, opts ...Option) (*Shell, error) {
	if cfg == nil {
		cfg = &config.Config{}
	}
	s := &Shell{
		config:   cfg,
		procs:    proc.NewSystem(),
		registry: NewRegistry(),
		out:      os.Stdout,
		logger:   zap.NewNop(),
		prompt:   BuildPrompt,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(zap.String("session", uuid.NewString()))

	if s.reader == nil {
		r, err := input.New(cfg.HistoryFile, cfg.HistoryLimit)
		if err != nil {
			return nil, fmt.Errorf("error initializing line reader: %w", err)
		}
		s.reader = r
	}

	s.launcher = NewLauncher(s.procs, s.registry, s.logger)
	s.poller = NewPoller(s.procs, s.registry, s.out, s.logger)
	return s, nil
}

// Run reads and executes lines until exit or end of input.
func (s *Shell) Run() error {
	s.setupSignalHandling()
	defer s.stopSignalHandling()
	defer s.reader.Close()

	for {
		line, err := s.reader.ReadLine(s.prompt())
		if errors.Is(err, input.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("error reading input: %w", err)
		}

		s.poller.PollOnce()

		if err := s.Execute(line); err != nil {
			if errors.Is(err, ErrExit) {
				break
			}
			s.report(err)
		}
	}

	fmt.Fprintln(s.out, "Exiting.")
	return nil
}

// Jobs exposes the session's background jobs.
func (s *Shell) Jobs() *Registry {
	return s.registry
}

// Poll runs one termination check, as Run does before each command.
func (s *Shell) Poll() (int, bool) {
	return s.poller.PollOnce()
}
