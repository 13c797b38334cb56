package shell

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/josephlewis42/minishell/core/config"
	"github.com/mattn/go-isatty"
)

// Reporter writes one-line diagnostics.
type Reporter struct {
	w         io.Writer
	colorizer *color.Color
}

// NewReporter creates a Reporter on w. The mode is one of the config.Color*
// values, auto colors only when w is a terminal.
func NewReporter(w io.Writer, mode string) *Reporter {
	r := &Reporter{w: w}
	if ShouldColor(w, mode) {
		r.colorizer = color.New(color.FgRed, color.Bold)
		r.colorizer.EnableColor()
	}
	return r
}

// Printf writes a formatted diagnostic line.
func (r *Reporter) Printf(format string, a ...interface{}) {
	msg := fmt.Sprintf(format, a...)
	if r.colorizer != nil {
		msg = r.colorizer.Sprint(msg)
	}
	fmt.Fprintln(r.w, msg)
}

// ShouldColor decides whether output to w gets colored.
func ShouldColor(w io.Writer, mode string) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	default:
		return IsTerminal(w)
	}
}

// IsTerminal reports whether v is a file connected to a terminal.
func IsTerminal(v interface{}) bool {
	f, ok := v.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
