package shell

import (
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/josephlewis42/minishell/core/proc"
	"github.com/josephlewis42/minishell/core/vos"
	"github.com/stretchr/testify/assert"
)

func TestCd(t *testing.T) {
	cases := map[string]struct {
		line     string
		home     *string
		wantCode int
		wantDir  string
		wantOut  string
	}{
		"no-args-goes-home": {
			line:    "cd",
			wantDir: "/home/user",
		},
		"absolute": {
			line:    "cd /tmp",
			wantDir: "/tmp",
		},
		"relative": {
			line:    "cd home",
			wantDir: "/home",
		},
		"extra-args-ignored": {
			line:    "cd /tmp /home",
			wantDir: "/tmp",
		},
		"missing-falls-back-home": {
			line:     "cd /nonexistent",
			wantCode: 0,
			wantDir:  "/home/user",
			wantOut:  "Unable to go to directory /nonexistent. Attempting to go to HOME directory\n",
		},
		"file-falls-back-home": {
			line:    "cd /tmp/file",
			wantDir: "/home/user",
			wantOut: "Unable to go to directory /tmp/file. Attempting to go to HOME directory\n",
		},
		"home-unset": {
			line:     "cd",
			home:     strPtr(""),
			wantCode: 1,
			wantDir:  "/",
			wantOut:  "Unable to go to HOME directory. Possibly not set.\n",
		},
		"home-invalid": {
			line:     "cd /nonexistent",
			home:     strPtr("/nowhere"),
			wantCode: 1,
			wantDir:  "/",
			wantOut: "Unable to go to directory /nonexistent. Attempting to go to HOME directory\n" +
				"Unable to go to HOME directory. Possibly not set.\n",
		},
		"dash-operand-falls-back-home": {
			line:    "cd -nonexistent",
			wantDir: "/home/user",
			wantOut: "Unable to go to directory -nonexistent. Attempting to go to HOME directory\n",
		},
		"help-is-a-directory-name": {
			line:    "cd --help",
			wantDir: "/home/user",
			wantOut: "Unable to go to directory --help. Attempting to go to HOME directory\n",
		},
		"dash-directory": {
			line:    "cd -d",
			wantDir: "/-d",
		},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			s, _, out := newTestShell(t, "")
			if tc.home != nil {
				if *tc.home == "" {
					s.Env.Unsetenv(vos.EnvHome)
				} else {
					s.Env.Setenv(vos.EnvHome, *tc.home)
				}
			}

			cmd, err := s.parser.Parse(tc.line)
			assert.Nil(t, err)

			code := AllBuiltins["cd"].Main(s, cmd.Args)

			assert.Equal(t, tc.wantCode, code)
			assert.Equal(t, tc.wantOut, out.String())
			wd, _ := s.Dir.Getwd()
			assert.Equal(t, tc.wantDir, wd)
			assert.Equal(t, tc.wantDir, s.Env.Getenv(EnvPWD))
		})
	}
}

func TestExit(t *testing.T) {
	cases := map[string]struct {
		args []string
	}{
		"bare":         {args: []string{"exit"}},
		"args-ignored": {args: []string{"exit", "5", "now"}},
		"help":         {args: []string{"exit", "--help"}},
		"short-help":   {args: []string{"exit", "-h"}},
		"unknown-flag": {args: []string{"exit", "-x"}},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			s, procs, out := newTestShell(t, "")
			procs.EXPECT().TerminateAll().Return(nil).Times(1)

			code := AllBuiltins["exit"].Main(s, tc.args)
			assert.Equal(t, 0, code)

			status, exited := s.Exited()
			assert.True(t, exited)
			assert.Equal(t, 0, status)
			assert.Empty(t, out.String())
		})
	}
}

func TestShell_QuitOnce(t *testing.T) {
	s, procs, _ := newTestShell(t, "")
	procs.EXPECT().TerminateAll().Return(nil).Times(1)

	s.Quit(0)
	s.Quit(1)

	status, exited := s.Exited()
	assert.True(t, exited)
	assert.Equal(t, 0, status)
}

func TestBuiltinNames(t *testing.T) {
	assert.Equal(t, []string{"cd", "exit"}, BuiltinNames())
}

func TestBuiltin_notLaunched(t *testing.T) {
	// Start is never expected, running a builtin must not create a process.
	s, procs, _ := newTestShell(t, "")
	procs.EXPECT().Start(gomock.Any(), gomock.Any()).Times(0).Return(proc.Record{}, nil)

	s.Execute("cd /tmp")

	wd, _ := s.Dir.Getwd()
	assert.Equal(t, "/tmp", wd)
}

func strPtr(s string) *string {
	return &s
}
