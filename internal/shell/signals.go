package shell

import (
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
)

// The session catches SIGINT and SIGQUIT so that the terminal's interrupt
// reaches the foreground child without ending the interpreter. Caught signals
// are restored to their defaults in children on exec.
func (s *Shell) setupSignalHandling() {
	s.signalChan = make(chan os.Signal, 1)
	signal.Notify(s.signalChan, syscall.SIGINT, syscall.SIGQUIT)
	go s.handleSignals()
}

func (s *Shell) stopSignalHandling() {
	signal.Stop(s.signalChan)
	close(s.signalChan)
}

func (s *Shell) handleSignals() {
	for sig := range s.signalChan {
		s.logger.Debug("signal received", zap.Stringer("signal", sig))
	}
}
