package proc

import (
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/josephlewis42/minishell/core/vos"
	"golang.org/x/sys/unix"
)

// NewOSTable creates a Table backed by real processes that share the given
// standard streams.
func NewOSTable(stdin, stdout, stderr *os.File) *OSTable {
	return &OSTable{
		Stdin:  stdin,
		Stdout: stdout,
		Stderr: stderr,
	}
}

// OSTable implements Table with fork, exec and wait4.
type OSTable struct {
	Stdin  *os.File
	Stdout *os.File
	Stderr *os.File

	// Env is read on every Start to build the child environment, nil
	// inherits the shell process environment.
	Env vos.EnvironFetcher
}

var _ Table = (*OSTable)(nil)

// Start implements Table.Start.
func (t *OSTable) Start(argv []string, mode Mode) (Record, error) {
	if len(argv) == 0 {
		return Record{}, fmt.Errorf("%w: no command", ErrExec)
	}

	path, err := exec.LookPath(argv[0])
	if err != nil {
		return Record{}, fmt.Errorf("%w: %v", ErrExec, err)
	}

	var env []string
	if t.Env != nil {
		env = t.Env.Environ()
	}

	process, err := os.StartProcess(path, argv, &os.ProcAttr{
		Env:   env,
		Files: []*os.File{t.Stdin, t.Stdout, t.Stderr},
	})
	switch {
	case isForkFailure(err):
		return Record{}, fmt.Errorf("%w: %v", ErrFork, err)
	case err != nil:
		return Record{}, fmt.Errorf("%w: %v", ErrExec, err)
	}

	pid := process.Pid
	// Children are collected with wait4 rather than through the handle.
	_ = process.Release()

	return Record{PID: pid, Mode: mode}, nil
}

// Wait implements Table.Wait, interrupted waits are retried.
func (t *OSTable) Wait(pid int) (Exit, error) {
	for {
		var status unix.WaitStatus
		wpid, err := unix.Wait4(pid, &status, 0, nil)
		switch {
		case errors.Is(err, unix.EINTR):
			continue
		case err != nil:
			return Exit{PID: pid}, err
		default:
			return toExit(wpid, status), nil
		}
	}
}

// ReapAny implements Table.ReapAny.
func (t *OSTable) ReapAny() (Exit, bool, error) {
	for {
		var status unix.WaitStatus
		wpid, err := unix.Wait4(-1, &status, unix.WNOHANG, nil)
		switch {
		case errors.Is(err, unix.EINTR):
			continue
		case errors.Is(err, unix.ECHILD):
			return Exit{}, false, nil
		case err != nil:
			return Exit{}, false, err
		case wpid <= 0:
			return Exit{}, false, nil
		default:
			return toExit(wpid, status), true, nil
		}
	}
}

// TerminateAll implements Table.TerminateAll.
func (t *OSTable) TerminateAll() error {
	return unix.Kill(0, unix.SIGTERM)
}

func toExit(pid int, status unix.WaitStatus) Exit {
	out := Exit{PID: pid, Code: status.ExitStatus()}
	if status.Signaled() {
		out.Code = -1
		out.Signal = unix.SignalName(status.Signal())
	}
	return out
}

func isForkFailure(err error) bool {
	return errors.Is(err, unix.EAGAIN) || errors.Is(err, unix.ENOMEM)
}
