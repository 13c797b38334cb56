package shell

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/abiosoft/readline"
)

// ErrInterrupt is returned by ReadLine when the user pressed the interrupt key
// while editing a line.
var ErrInterrupt = errors.New("interrupt")

// LineReader reads one line of input per call.
type LineReader interface {
	// ReadLine shows the prompt and returns the next line without its line
	// terminator. It returns io.EOF once input is exhausted.
	ReadLine(prompt string) (string, error)

	io.Closer
}

// NewBufferedReader reads lines from a pipe or file, the prompt is written to
// out.
func NewBufferedReader(in io.Reader, out io.Writer) LineReader {
	return &bufferedReader{
		in:  bufio.NewReader(in),
		out: out,
	}
}

type bufferedReader struct {
	in  *bufio.Reader
	out io.Writer
}

func (b *bufferedReader) ReadLine(prompt string) (string, error) {
	fmt.Fprint(b.out, prompt)

	line, err := b.in.ReadString('\n')
	switch {
	case errors.Is(err, io.EOF) && line != "":
		// Unterminated final line, the next read reports EOF.
	case err != nil:
		return "", err
	}

	return trimLineEnding(line), nil
}

func (b *bufferedReader) Close() error {
	return nil
}

// NewReadlineReader reads lines from a terminal with line editing.
func NewReadlineReader(stdin io.Reader, stdout, stderr io.Writer) (LineReader, error) {
	cfg := &readline.Config{
		Stdin:  readline.NewCancelableStdin(stdin),
		Stdout: stdout,
		Stderr: stderr,

		// Lines are never recalled.
		DisableAutoSaveHistory: true,
	}

	if err := cfg.Init(); err != nil {
		return nil, err
	}

	instance, err := readline.NewEx(cfg)
	if err != nil {
		return nil, err
	}

	return &readlineReader{instance: instance}, nil
}

type readlineReader struct {
	instance *readline.Instance
}

func (r *readlineReader) ReadLine(prompt string) (string, error) {
	r.instance.SetPrompt(prompt)
	line, err := r.instance.Readline()

	switch {
	case err == readline.ErrInterrupt:
		return "", ErrInterrupt
	case err != nil:
		return "", err
	default:
		return trimLineEnding(line), nil
	}
}

func (r *readlineReader) Close() error {
	return r.instance.Close()
}

func trimLineEnding(line string) string {
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r")
}
