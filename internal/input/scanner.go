package input

import (
	"bufio"
	"fmt"
	"io"
)

// ScannerReader reads newline-terminated lines from a non-interactive source.
type ScannerReader struct {
	w io.Writer
	s *bufio.Scanner
}

func NewScanner(r io.Reader, w io.Writer) *ScannerReader {
	s := bufio.NewScanner(r)
	s.Split(bufio.ScanLines)
	return &ScannerReader{w: w, s: s}
}

func (r *ScannerReader) ReadLine(prompt string) (string, error) {
	fmt.Fprint(r.w, prompt)
	if r.s.Scan() {
		return r.s.Text(), nil
	}
	if err := r.s.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

func (r *ScannerReader) Close() error {
	return nil
}
