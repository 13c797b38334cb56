package shell

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/josephlewis42/minishell/core/proc"
	"github.com/josephlewis42/minishell/core/proc/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// steppingClock returns a time source that advances by step on every call.
func steppingClock(step time.Duration) func() time.Time {
	now := time.Date(2006, 1, 2, 3, 4, 5, 0, time.UTC)
	return func() time.Time {
		out := now
		now = now.Add(step)
		return out
	}
}

func newMockLauncher(t *testing.T) (*Launcher, *mocks.MockTable, *bytes.Buffer) {
	t.Helper()

	procs := mocks.NewMockTable(gomock.NewController(t))
	out := &bytes.Buffer{}
	launcher := NewLauncher(procs, out)
	launcher.Now = steppingClock(1234 * time.Millisecond)

	return launcher, procs, out
}

func TestLauncher_Launch(t *testing.T) {
	cases := map[string]struct {
		args     []string
		wantArgv []string
		wantMode proc.Mode
		wantOut  string
	}{
		"foreground": {
			args:     []string{"ls", "-l"},
			wantArgv: []string{"ls", "-l"},
			wantMode: proc.Foreground,
			wantOut: "Started foreground process with pid 100\n" +
				"Foreground process 100 ended\n" +
				"Wallclock time: 1.234\n",
		},
		"background": {
			args:     []string{"sleep", "5", "&"},
			wantArgv: []string{"sleep", "5"},
			wantMode: proc.Background,
			wantOut:  "Started background process with pid 100\n",
		},
		"ampersand-not-last": {
			args:     []string{"echo", "a", "&", "b"},
			wantArgv: []string{"echo", "a", "&", "b"},
			wantMode: proc.Foreground,
			wantOut: "Started foreground process with pid 100\n" +
				"Foreground process 100 ended\n" +
				"Wallclock time: 1.234\n",
		},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			launcher, procs, out := newMockLauncher(t)

			procs.EXPECT().
				Start(tc.wantArgv, tc.wantMode).
				Return(proc.Record{PID: 100, Mode: tc.wantMode}, nil)
			if tc.wantMode == proc.Foreground {
				procs.EXPECT().Wait(100).Return(proc.Exit{PID: 100}, nil)
			}

			err := launcher.Launch(Command{Name: tc.args[0], Args: tc.args})

			assert.Nil(t, err)
			assert.Equal(t, tc.wantOut, out.String())
		})
	}
}

func TestLauncher_LaunchErrors(t *testing.T) {
	t.Run("exec-failure", func(t *testing.T) {
		launcher, procs, out := newMockLauncher(t)
		procs.EXPECT().
			Start([]string{"nope"}, proc.Foreground).
			Return(proc.Record{}, fmt.Errorf("%w: not found", proc.ErrExec))

		err := launcher.Launch(Command{Name: "nope", Args: []string{"nope"}})

		assert.ErrorIs(t, err, proc.ErrExec)
		assert.Empty(t, out.String())
	})

	t.Run("fork-failure", func(t *testing.T) {
		launcher, procs, out := newMockLauncher(t)
		procs.EXPECT().
			Start([]string{"ls"}, proc.Background).
			Return(proc.Record{}, fmt.Errorf("%w: resource temporarily unavailable", proc.ErrFork))

		err := launcher.Launch(Command{Name: "ls", Args: []string{"ls", "&"}})

		assert.ErrorIs(t, err, proc.ErrFork)
		assert.Empty(t, out.String())
	})

	t.Run("background-marker-only", func(t *testing.T) {
		launcher, _, out := newMockLauncher(t)

		err := launcher.Launch(Command{Name: "&", Args: []string{"&"}})

		assert.ErrorIs(t, err, ErrBackgroundOnly)
		assert.Empty(t, out.String())
	})

	t.Run("wait-failure", func(t *testing.T) {
		launcher, procs, out := newMockLauncher(t)
		procs.EXPECT().Start([]string{"ls"}, proc.Foreground).Return(proc.Record{PID: 7}, nil)
		procs.EXPECT().Wait(7).Return(proc.Exit{PID: 7}, errors.New("no child processes"))

		err := launcher.Launch(Command{Name: "ls", Args: []string{"ls"}})

		assert.EqualError(t, err, "waiting for process 7: no child processes")
		assert.Equal(t, "Started foreground process with pid 7\n", out.String())
	})
}

func TestLauncher_Reap(t *testing.T) {
	t.Run("none", func(t *testing.T) {
		launcher, procs, out := newMockLauncher(t)
		procs.EXPECT().ReapAny().Return(proc.Exit{}, false, nil)

		assert.Empty(t, launcher.Reap())
		assert.Empty(t, out.String())
	})

	t.Run("drains", func(t *testing.T) {
		launcher, procs, out := newMockLauncher(t)
		gomock.InOrder(
			procs.EXPECT().ReapAny().Return(proc.Exit{PID: 11}, true, nil),
			procs.EXPECT().ReapAny().Return(proc.Exit{PID: 12, Code: -1, Signal: "SIGTERM"}, true, nil),
			procs.EXPECT().ReapAny().Return(proc.Exit{}, false, nil),
		)

		assert.Equal(t, []int{11, 12}, launcher.Reap())
		assert.Equal(t, "Background process 11 terminated\nBackground process 12 terminated\n", out.String())
	})

	t.Run("error-stops", func(t *testing.T) {
		launcher, procs, out := newMockLauncher(t)
		gomock.InOrder(
			procs.EXPECT().ReapAny().Return(proc.Exit{PID: 11}, true, nil),
			procs.EXPECT().ReapAny().Return(proc.Exit{}, false, errors.New("boom")),
		)

		assert.Equal(t, []int{11}, launcher.Reap())
		assert.Equal(t, "Background process 11 terminated\n", out.String())
	})
}

func newOSLauncher(t *testing.T) (*Launcher, *bytes.Buffer) {
	t.Helper()

	devNull, err := os.OpenFile(os.DevNull, os.O_RDWR, 0)
	require.Nil(t, err)
	t.Cleanup(func() { devNull.Close() })

	out := &bytes.Buffer{}
	return NewLauncher(proc.NewOSTable(devNull, devNull, devNull), out), out
}

func TestLauncher_RealProcesses(t *testing.T) {
	t.Run("foreground-wallclock", func(t *testing.T) {
		launcher, out := newOSLauncher(t)

		require.Nil(t, launcher.Launch(Command{Name: "sleep", Args: []string{"sleep", "0.2"}}))

		lines := strings.Split(strings.TrimSpace(out.String()), "\n")
		require.Len(t, lines, 3)

		var pid int
		_, err := fmt.Sscanf(lines[0], "Started foreground process with pid %d", &pid)
		require.Nil(t, err)
		assert.Equal(t, fmt.Sprintf("Foreground process %d ended", pid), lines[1])

		var seconds float64
		_, err = fmt.Sscanf(lines[2], "Wallclock time: %f", &seconds)
		require.Nil(t, err)
		assert.GreaterOrEqual(t, seconds, 0.2)
		assert.Less(t, seconds, 5.0)

		// The foreground process was collected by the wait, not the reaper.
		assert.Empty(t, launcher.Reap())
	})

	t.Run("background-reaped", func(t *testing.T) {
		launcher, out := newOSLauncher(t)

		require.Nil(t, launcher.Launch(Command{Name: "true", Args: []string{"true", "&"}}))

		var pid int
		_, err := fmt.Sscanf(out.String(), "Started background process with pid %d", &pid)
		require.Nil(t, err)

		var reaped []int
		assert.Eventually(t, func() bool {
			reaped = append(reaped, launcher.Reap()...)
			return len(reaped) > 0
		}, 5*time.Second, 10*time.Millisecond)
		assert.Equal(t, []int{pid}, reaped)
		assert.Contains(t, out.String(), fmt.Sprintf("Background process %d terminated\n", pid))
	})

	t.Run("exec-failure-does-not-hang", func(t *testing.T) {
		launcher, out := newOSLauncher(t)

		err := launcher.Launch(Command{Name: "minishell-no-such-command", Args: []string{"minishell-no-such-command"}})

		assert.ErrorIs(t, err, proc.ErrExec)
		assert.Empty(t, out.String())
		assert.Empty(t, launcher.Reap())
	})
}
