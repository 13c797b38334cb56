package shell

import (
	"errors"
	"fmt"
	"io"
	"io/ioutil"
	"log"
	"time"

	"github.com/josephlewis42/minishell/core/logger"
	"github.com/josephlewis42/minishell/core/proc"
)

// ErrBackgroundOnly is returned for a line holding nothing but "&".
var ErrBackgroundOnly = errors.New("syntax error near unexpected token `&'")

// Launcher runs external programs and reports on their lifecycle.
type Launcher struct {
	Procs  proc.Table
	Stdout io.Writer
	Events *logger.SessionLogger
	Log    *log.Logger

	// Now is the clock used for wallclock timing, time.Now if nil.
	Now func() time.Time
}

// NewLauncher creates a launcher that writes reports to stdout.
func NewLauncher(procs proc.Table, stdout io.Writer) *Launcher {
	return &Launcher{
		Procs:  procs,
		Stdout: stdout,
		Events: logger.NewNopLogger().NewSession(),
		Log:    log.New(ioutil.Discard, "", 0),
	}
}

func (l *Launcher) now() time.Time {
	if l.Now == nil {
		return time.Now()
	}
	return l.Now()
}

// Launch starts cmd. A trailing "&" runs it in the background, otherwise
// Launch blocks until the process terminates.
//
// Errors from starting the process wrap proc.ErrFork or proc.ErrExec.
func (l *Launcher) Launch(cmd Command) error {
	cmd, background := cmd.SplitBackground()
	if cmd.Empty() {
		return ErrBackgroundOnly
	}

	mode := proc.Foreground
	if background {
		mode = proc.Background
	}

	start := l.now()
	rec, err := l.Procs.Start(cmd.Args, mode)
	if err != nil {
		l.logEvent(l.Events.ExecError(cmd.Args, err))
		return err
	}

	fmt.Fprintf(l.Stdout, "Started %s process with pid %d\n", rec.Mode, rec.PID)
	l.logEvent(l.Events.Started(rec.PID, rec.Mode.String(), cmd.Args))

	if rec.Mode == proc.Background {
		return nil
	}

	exit, err := l.Procs.Wait(rec.PID)
	if err != nil {
		return fmt.Errorf("waiting for process %d: %w", rec.PID, err)
	}
	elapsed := l.now().Sub(start)

	fmt.Fprintf(l.Stdout, "Foreground process %d ended\n", rec.PID)
	fmt.Fprintf(l.Stdout, "Wallclock time: %.3f\n", elapsed.Seconds())
	l.logEvent(l.Events.ForegroundEnded(rec.PID, exit.Code, exit.Signal, elapsed))

	return nil
}

// Reap collects every child that has terminated without blocking and returns
// their process IDs. It doesn't check how the children were started.
func (l *Launcher) Reap() []int {
	var pids []int
	for {
		exit, ok, err := l.Procs.ReapAny()
		if err != nil {
			l.Log.Printf("reap: %v", err)
			return pids
		}
		if !ok {
			return pids
		}

		fmt.Fprintf(l.Stdout, "Background process %d terminated\n", exit.PID)
		l.logEvent(l.Events.BackgroundEnded(exit.PID, exit.Code, exit.Signal))
		pids = append(pids, exit.PID)
	}
}

// TerminateAll signals every process in the shell's process group to exit.
func (l *Launcher) TerminateAll() error {
	return l.Procs.TerminateAll()
}

func (l *Launcher) logEvent(err error) {
	if err != nil {
		l.Log.Printf("event log: %v", err)
	}
}
