package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"io/ioutil"
	"log"
	"os"

	"github.com/josephlewis42/minishell/core/config"
	"github.com/josephlewis42/minishell/core/logger"
	"github.com/josephlewis42/minishell/core/proc"
	"github.com/josephlewis42/minishell/core/shell"
	"github.com/josephlewis42/minishell/core/sigpolicy"
	"github.com/josephlewis42/minishell/core/vos"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var (
	cfgPath string
	prompt  string
	verbose bool
)

func newAppLogger(cmd *cobra.Command) *log.Logger {
	if !verbose {
		return log.New(ioutil.Discard, "", 0)
	}
	return log.New(cmd.ErrOrStderr(), "[minishell] ", 0)
}

func loadConfig(cmd *cobra.Command, logger *log.Logger) (*config.Configuration, error) {
	var configuration *config.Configuration
	if cfgPath == "" {
		configuration = config.Default()
	} else {
		loaded, err := config.Load(afero.NewOsFs(), cfgPath)
		if errors.Is(err, fs.ErrNotExist) {
			logger.Println("Couldn't load config: did you run init?")
		}
		if err != nil {
			return nil, err
		}
		configuration = loaded
	}

	if cmd.Flags().Changed("prompt") {
		configuration.Prompt = prompt
	}

	return configuration, nil
}

// openEventLog opens the event log at path for appending, the returned file is
// nil if path is empty.
func openEventLog(path string) (*logger.SessionLogger, *os.File, error) {
	if path == "" {
		return logger.NewNopLogger().NewSession(), nil, nil
	}

	fd, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return nil, nil, fmt.Errorf("opening event log: %w", err)
	}
	return logger.NewJSONLinesLogRecorder(fd).NewSession(), fd, nil
}

func newLineReader() (shell.LineReader, error) {
	if shell.IsTerminal(os.Stdin) {
		return shell.NewReadlineReader(os.Stdin, os.Stdout, os.Stderr)
	}
	return shell.NewBufferedReader(os.Stdin, os.Stdout), nil
}

// runShell runs the interactive shell and returns its exit status.
func runShell(cmd *cobra.Command) int {
	appLogger := newAppLogger(cmd)

	policy := sigpolicy.Shell()
	policy.Logger = appLogger
	if err := policy.Install(); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
		return 1
	}
	// The policy stays installed until exit, Quit signals the whole process
	// group including the shell.

	configuration, err := loadConfig(cmd, appLogger)
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
		return 1
	}

	events, eventLog, err := openEventLog(configuration.EventLog)
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
		return 1
	}
	if eventLog != nil {
		defer eventLog.Close()
	}
	appLogger.Printf("session %s", events.SessionID())

	reader, err := newLineReader()
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
		return 1
	}

	// Children see the shell's environment, including PWD updates from cd.
	env := vos.NewMapEnvFrom(vos.OSEnv{})
	procs := proc.NewOSTable(os.Stdin, os.Stdout, os.Stderr)
	procs.Env = env

	sh := shell.New(shell.Options{
		Config: configuration,
		Reader: reader,
		Procs:  procs,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Env:    env,
		Events: events,
		Logger: appLogger,
	})
	defer sh.Close()

	status := sh.Run()
	appLogger.Printf("exiting with status %d", status)
	return status
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "minishell",
	Short: "A minimal interactive shell",
	Long: `minishell reads commands, runs the cd and exit builtins itself and
starts everything else as a foreground process, or in the background when the
line ends with "&".`,
	Args: cobra.ExactArgs(0),
	Run: func(cmd *cobra.Command, args []string) {
		os.Exit(runShell(cmd))
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "config path, the built-in defaults are used if empty")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debugging information to stderr")
	rootCmd.Flags().StringVar(&prompt, "prompt", "", "override the configured prompt")
}
