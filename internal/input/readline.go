package input

import (
	"errors"

	"github.com/chzyer/readline"
)

type ReadlineReader struct {
	instance *readline.Instance
}

func NewReadline(historyFile string, historyLimit int) (*ReadlineReader, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:       "> ",
		HistoryFile:  historyFile,
		HistoryLimit: historyLimit,
	})
	if err != nil {
		return nil, err
	}
	return &ReadlineReader{instance: rl}, nil
}

func (r *ReadlineReader) ReadLine(prompt string) (string, error) {
	r.instance.SetPrompt(prompt)
	line, err := r.instance.Readline()
	if errors.Is(err, readline.ErrInterrupt) {
		return "", ErrInterrupt
	}
	return line, err
}

func (r *ReadlineReader) Close() error {
	return r.instance.Close()
}
