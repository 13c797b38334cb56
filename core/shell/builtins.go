package shell

import (
	"sort"

	"github.com/josephlewis42/minishell/core/vos"
)

// AllBuiltins holds a list of all registered shell builtins
var AllBuiltins = make(map[string]Builtin)

// Builtin is a command the shell runs itself, without starting a process.
type Builtin interface {
	Main(s *Shell, args []string) int
}

type BuiltinFunc func(s *Shell, args []string) int

func (f BuiltinFunc) Main(s *Shell, args []string) int {
	return f(s, args)
}

var _ Builtin = (BuiltinFunc)(nil)

// BuiltinCommand is a documented builtin. Arguments reach Run exactly as
// typed, builtins don't parse options.
type BuiltinCommand struct {
	// Use holds a one line usage string
	Use string
	// Short holds a one line description of the command.
	Short string

	Run BuiltinFunc
}

var _ Builtin = (*BuiltinCommand)(nil)

func (c *BuiltinCommand) Main(s *Shell, args []string) int {
	return c.Run(s, args)
}

// BuiltinNames returns the sorted names of the registered builtins.
func BuiltinNames() []string {
	var names []string
	for name := range AllBuiltins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Cd is the cd shell builtin.
func Cd(s *Shell, args []string) int {
	if len(args) < 2 {
		return goHome(s)
	}

	// Anything after the first operand is ignored.
	dir := args[1]
	if err := s.chdir(dir); err != nil {
		s.Log.Printf("cd %q: %v", dir, err)
		s.Report.Printf("Unable to go to directory %s. Attempting to go to HOME directory", dir)
		return goHome(s)
	}
	return 0
}

func goHome(s *Shell) int {
	home, ok := vos.HomeDir(s.Env)
	if !ok {
		s.Report.Printf("Unable to go to HOME directory. Possibly not set.")
		return 1
	}

	if err := s.chdir(home); err != nil {
		s.Log.Printf("cd %q: %v", home, err)
		s.Report.Printf("Unable to go to HOME directory. Possibly not set.")
		return 1
	}
	return 0
}

// Exit quits the shell with a successful status, arguments are ignored.
func Exit(s *Shell, args []string) int {
	s.Quit(0)
	return 0
}

func init() {
	AllBuiltins["cd"] = &BuiltinCommand{
		Use:   "cd [dir]",
		Short: "Change the shell working directory, HOME if dir is omitted.",
		Run:   Cd,
	}
	AllBuiltins["exit"] = &BuiltinCommand{
		Use:   "exit",
		Short: "Terminate every process started by the shell and exit.",
		Run:   Exit,
	}
}
