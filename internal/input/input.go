// Package input supplies the lines the interpreter executes.
package input

import (
	"errors"
	"fmt"
	"os"

	"github.com/chzyer/readline"
)

// ErrInterrupt is returned when the user cancels the line being edited.
var ErrInterrupt = errors.New("interrupted")

// Reader reads one line per call after showing prompt. io.EOF ends input.
type Reader interface {
	ReadLine(prompt string) (string, error)
	Close() error
}

// New picks a line-editing reader on a terminal and a plain scanner otherwise.
func New(historyFile string, historyLimit int) (Reader, error) {
	if !readline.DefaultIsTerminal() {
		return NewScanner(os.Stdin, os.Stdout), nil
	}
	rl, err := NewReadline(historyFile, historyLimit)
	if err != nil {
		return nil, fmt.Errorf("error initializing readline: %w", err)
	}
	return rl, nil
}
