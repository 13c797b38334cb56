package shell

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/josephlewis42/minishell/core/config"
)

const (
	backgroundToken = "&"
	delimiter       = ' '
)

var (
	// ErrLineTooLong is returned for lines that don't fit the line buffer.
	ErrLineTooLong = errors.New("line too long")

	// ErrTooManyArgs is returned for lines with more tokens than allowed.
	ErrTooManyArgs = errors.New("too many arguments")
)

// Command is a parsed line. Args[0] is always the command name.
type Command struct {
	Name string
	Args []string
}

// Empty is true if the line held no command.
func (c Command) Empty() bool {
	return len(c.Args) == 0
}

// SplitBackground removes a trailing "&" from the command and reports whether
// it was present. Only the last token is considered, an "&" anywhere else is a
// regular argument.
func (c Command) SplitBackground() (Command, bool) {
	n := len(c.Args)
	if n == 0 || c.Args[n-1] != backgroundToken {
		return c, false
	}

	out := Command{Args: append([]string(nil), c.Args[:n-1]...)}
	if len(out.Args) > 0 {
		out.Name = out.Args[0]
	}
	return out, true
}

func (c Command) String() string {
	return strings.Join(c.Args, " ")
}

// Parser splits lines into commands.
//
// Tokens are separated by runs of spaces, tabs and other whitespace are part
// of a token. There is no quoting, escaping or expansion of any kind.
type Parser struct {
	// MaxLineLength is the size of the line buffer, one more than the longest
	// accepted line. Zero means unbounded.
	MaxLineLength int
	// MaxArgs is the largest number of tokens accepted, including the command
	// name. Zero means unbounded.
	MaxArgs int
}

// NewParser creates a parser with the limits from the configuration.
func NewParser(cfg *config.Configuration) Parser {
	return Parser{
		MaxLineLength: cfg.MaxLineLength,
		MaxArgs:       cfg.MaxArgs,
	}
}

// Parse tokenizes the line. Blank lines produce an empty Command and no error.
func (p Parser) Parse(line string) (Command, error) {
	if p.MaxLineLength > 0 {
		if maxChars := p.MaxLineLength - 1; utf8.RuneCountInString(line) > maxChars {
			return Command{}, fmt.Errorf("%w: more than %d characters", ErrLineTooLong, maxChars)
		}
	}

	fields := strings.FieldsFunc(line, isDelimiter)
	if len(fields) == 0 {
		return Command{}, nil
	}

	if p.MaxArgs > 0 && len(fields) > p.MaxArgs {
		return Command{}, fmt.Errorf("%w: %d given, at most %d", ErrTooManyArgs, len(fields), p.MaxArgs)
	}

	return Command{Name: fields[0], Args: fields}, nil
}

func isDelimiter(r rune) bool {
	return r == delimiter
}
