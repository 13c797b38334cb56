// Package shell implements an interactive command interpreter: it reads
// lines, runs the cd and exit builtins itself and starts every other command
// as a foreground or background process.
package shell

import (
	"errors"
	"io"
	"io/ioutil"
	"log"

	"github.com/josephlewis42/minishell/core/config"
	"github.com/josephlewis42/minishell/core/logger"
	"github.com/josephlewis42/minishell/core/proc"
	"github.com/josephlewis42/minishell/core/vos"
)

const (
	EnvPWD = "PWD"
)

// Options holds the collaborators of a Shell. Reader, Procs and Stdout are
// required.
type Options struct {
	Config *config.Configuration
	Reader LineReader
	Procs  proc.Table

	Stdout io.Writer
	Stderr io.Writer

	// Env defaults to the process environment.
	Env vos.VEnv
	// Dir defaults to the process working directory.
	Dir vos.VDir
	// Events defaults to a session that records nothing.
	Events *logger.SessionLogger
	// Logger receives debugging output, it defaults to discarding it.
	Logger *log.Logger
}

// Shell is an interactive command interpreter.
type Shell struct {
	Config *config.Configuration
	Env    vos.VEnv
	Dir    vos.VDir
	Stdout io.Writer
	Report *Reporter
	Events *logger.SessionLogger
	Log    *log.Logger

	reader   LineReader
	parser   Parser
	launcher *Launcher

	quit   bool
	status int
}

// New creates a shell from the options.
func New(opts Options) *Shell {
	if opts.Config == nil {
		opts.Config = config.Default()
	}
	if opts.Stderr == nil {
		opts.Stderr = opts.Stdout
	}
	if opts.Env == nil {
		opts.Env = vos.OSEnv{}
	}
	if opts.Dir == nil {
		opts.Dir = vos.OSDir{}
	}
	if opts.Events == nil {
		opts.Events = logger.NewNopLogger().NewSession()
	}
	if opts.Logger == nil {
		opts.Logger = log.New(ioutil.Discard, "", 0)
	}

	launcher := NewLauncher(opts.Procs, opts.Stdout)
	launcher.Events = opts.Events
	launcher.Log = opts.Logger

	return &Shell{
		Config: opts.Config,
		Env:    opts.Env,
		Dir:    opts.Dir,
		Stdout: opts.Stdout,
		Report: NewReporter(opts.Stderr, opts.Config.Color),
		Events: opts.Events,
		Log:    opts.Logger,

		reader:   opts.Reader,
		parser:   NewParser(opts.Config),
		launcher: launcher,
	}
}

// Launcher returns the launcher used for external commands.
func (s *Shell) Launcher() *Launcher {
	return s.launcher
}

// Run reads and executes lines until the shell quits and returns the exit
// status. Terminated background processes are reported before each prompt.
func (s *Shell) Run() int {
	for !s.quit {
		s.launcher.Reap()

		line, err := s.reader.ReadLine(s.Config.Prompt)
		switch {
		case errors.Is(err, ErrInterrupt):
			continue
		case errors.Is(err, io.EOF):
			s.Quit(1)
			continue
		case err != nil:
			s.Report.Printf("Unable to read input: %v", err)
			s.Quit(1)
			continue
		}

		s.Execute(line)
	}

	return s.status
}

// Execute runs a single line.
func (s *Shell) Execute(line string) {
	cmd, err := s.parser.Parse(line)
	switch {
	case err != nil:
		s.Report.Printf("%v", err)
		return
	case cmd.Empty():
		return
	}

	if builtin, ok := AllBuiltins[cmd.Name]; ok {
		code := builtin.Main(s, cmd.Args)
		if err := s.Events.Builtin(cmd.Args, code); err != nil {
			s.Log.Printf("event log: %v", err)
		}
		return
	}

	s.launch(cmd)
}

func (s *Shell) launch(cmd Command) {
	err := s.launcher.Launch(cmd)
	switch {
	case err == nil:
		return
	case errors.Is(err, proc.ErrFork):
		s.Log.Printf("%s: %v", cmd.Name, err)
		s.Report.Printf("Unable to fork.")
		s.Quit(1)
	case errors.Is(err, proc.ErrExec):
		s.Log.Printf("%s: %v", cmd.Name, err)
		s.Report.Printf("Unable to start command: %s", cmd.Name)
	case errors.Is(err, ErrBackgroundOnly):
		s.Report.Printf("%v", err)
	default:
		s.Report.Printf("%s: %v", cmd.Name, err)
	}
}

// Quit terminates every process in the shell's process group and stops the
// read loop, Run returns status. Only the first call has an effect.
func (s *Shell) Quit(status int) {
	if s.quit {
		return
	}

	s.quit = true
	s.status = status
	if err := s.launcher.TerminateAll(); err != nil {
		s.Log.Printf("terminate: %v", err)
	}
}

// Exited reports whether Quit was called, and with which status.
func (s *Shell) Exited() (int, bool) {
	return s.status, s.quit
}

// Close releases the line reader.
func (s *Shell) Close() error {
	return s.reader.Close()
}

func (s *Shell) chdir(dir string) error {
	if err := s.Dir.Chdir(dir); err != nil {
		return err
	}

	if wd, err := s.Dir.Getwd(); err == nil {
		if err := s.Env.Setenv(EnvPWD, wd); err != nil {
			s.Log.Printf("setting %s: %v", EnvPWD, err)
		}
	}
	return nil
}
