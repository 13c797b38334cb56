// Package proc starts, waits for and signals the shell's child processes.
package proc

import (
	"errors"
	"fmt"
)

//go:generate mockgen -destination=mocks/mock_table.go -package=mocks github.com/josephlewis42/minishell/core/proc Table

var (
	// ErrFork is returned when the system can't create another process.
	ErrFork = errors.New("unable to fork")

	// ErrExec is returned when a program can't be found or executed.
	ErrExec = errors.New("unable to execute")
)

// Mode says whether the shell waits for a process.
type Mode int

const (
	Foreground Mode = iota
	Background
)

func (m Mode) String() string {
	switch m {
	case Foreground:
		return "foreground"
	case Background:
		return "background"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Record identifies a started process.
type Record struct {
	PID  int
	Mode Mode
}

// Exit describes how a process terminated.
type Exit struct {
	PID int
	// Code is the exit status, or -1 if the process was killed by a signal.
	Code int
	// Signal holds the name of the terminating signal, if any.
	Signal string
}

// Table creates and collects child processes.
type Table interface {
	// Start creates a process running argv[0] with the arguments argv.
	// Errors wrap ErrFork or ErrExec.
	Start(argv []string, mode Mode) (Record, error)

	// Wait blocks until the process pid terminates and collects it.
	Wait(pid int) (Exit, error)

	// ReapAny collects one terminated child without blocking. The boolean is
	// false if no child was ready.
	ReapAny() (Exit, bool, error)

	// TerminateAll sends the termination signal to every process in the
	// shell's process group, the shell included.
	TerminateAll() error
}
