// Package sigpolicy manages how the shell and the programs it starts react to
// the interrupt and termination signals.
//
// The shell must survive both signals: the interrupt key at the prompt and the
// termination broadcast it sends to its own process group on shutdown. Its
// children must not inherit that immunity. Signals that are ignored with
// SIG_IGN stay ignored across exec, so the policy catches and discards them
// instead; the Go runtime restores caught signals to SIG_DFL in every child it
// starts.
package sigpolicy

import (
	"errors"
	"fmt"
	"io/ioutil"
	"log"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
)

// ErrUncatchable is returned when a signal's disposition can't be changed.
var ErrUncatchable = errors.New("signal can't be caught or ignored")

// Disposition is what happens when a process receives a signal.
type Disposition int

const (
	// Default runs the signal's default action, usually termination.
	Default Disposition = iota
	// Ignore discards the signal.
	Ignore
)

func (d Disposition) String() string {
	switch d {
	case Default:
		return "default"
	case Ignore:
		return "ignore"
	default:
		return fmt.Sprintf("Disposition(%d)", int(d))
	}
}

// InstallError reports a signal the policy couldn't take over.
type InstallError struct {
	Signal os.Signal
	Err    error
}

func (e *InstallError) Error() string {
	return fmt.Sprintf("Failed to install signal handler for signal %d", signalNumber(e.Signal))
}

func (e *InstallError) Unwrap() error {
	return e.Err
}

// Policy holds the signal dispositions of the shell process.
type Policy struct {
	// Signals are ignored by the shell and left at their default in children.
	Signals []os.Signal

	// Logger receives a line for every discarded signal, it may be nil.
	Logger *log.Logger

	mu       sync.Mutex
	ch       chan os.Signal
	done     chan struct{}
	wg       sync.WaitGroup
	received int64
}

// Shell returns the policy for an interactive shell: interrupt and termination.
func Shell() *Policy {
	return New(syscall.SIGINT, syscall.SIGTERM)
}

// New creates a policy over the given signals.
func New(signals ...os.Signal) *Policy {
	return &Policy{Signals: signals}
}

// Install makes the shell process ignore the policy's signals. It's safe to
// call more than once.
func (p *Policy) Install() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ch != nil {
		return nil
	}

	for _, sig := range p.Signals {
		if err := checkCatchable(sig); err != nil {
			return &InstallError{Signal: sig, Err: err}
		}
	}

	logger := p.Logger
	if logger == nil {
		logger = log.New(ioutil.Discard, "", 0)
	}

	p.ch = make(chan os.Signal, len(p.Signals))
	p.done = make(chan struct{})
	signal.Notify(p.ch, p.Signals...)

	p.wg.Add(1)
	go func(ch <-chan os.Signal, done <-chan struct{}) {
		defer p.wg.Done()
		for {
			select {
			case sig := <-ch:
				atomic.AddInt64(&p.received, 1)
				logger.Printf("ignoring signal %q", sig)
			case <-done:
				return
			}
		}
	}(p.ch, p.done)

	return nil
}

// Restore returns the policy's signals to their default disposition in the
// shell process.
func (p *Policy) Restore() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ch == nil {
		return
	}

	signal.Stop(p.ch)
	signal.Reset(p.Signals...)
	close(p.done)
	p.wg.Wait()

	p.ch = nil
	p.done = nil
}

// Disposition reports what the shell process does on receipt of sig.
func (p *Policy) Disposition(sig os.Signal) Disposition {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ch != nil && p.covers(sig) {
		return Ignore
	}
	if signal.Ignored(sig) {
		return Ignore
	}
	return Default
}

// Child reports what a program started by the shell does on receipt of sig.
//
// Signals the installed policy covers are caught rather than ignored, and
// caught signals are reset to their default action in new processes. Any
// other signal keeps whatever disposition the shell inherited, children
// inherit an ignored signal as ignored.
func (p *Policy) Child(sig os.Signal) Disposition {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ch != nil && p.covers(sig) {
		return Default
	}
	if signal.Ignored(sig) {
		return Ignore
	}
	return Default
}

// Received returns the number of signals discarded since Install.
func (p *Policy) Received() int {
	return int(atomic.LoadInt64(&p.received))
}

func (p *Policy) covers(sig os.Signal) bool {
	for _, s := range p.Signals {
		if s == sig {
			return true
		}
	}
	return false
}

func checkCatchable(sig os.Signal) error {
	switch sig {
	case syscall.SIGKILL, syscall.SIGSTOP:
		return ErrUncatchable
	}

	if _, ok := sig.(syscall.Signal); !ok {
		return fmt.Errorf("%v: %w", sig, ErrUncatchable)
	}
	return nil
}

func signalNumber(sig os.Signal) int {
	if s, ok := sig.(syscall.Signal); ok {
		return int(s)
	}
	return -1
}
