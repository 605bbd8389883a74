//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"errors"
	"testing"

	"github.com/mitchellh/go-ps"
	"github.com/stretchr/testify/require"
)

// fakeProcess is a minimal ps.Process implementation for tests.
type fakeProcess struct {
	pid        int
	executable string
}

func (p fakeProcess) Pid() int           { return p.pid }
func (p fakeProcess) PPid() int          { return 1 }
func (p fakeProcess) Executable() string { return p.executable }

// TestEnsureSingleInstance detects a second process with the same executable.
func TestEnsureSingleInstance(t *testing.T) {
	t.Parallel()

	processes := []ps.Process{
		fakeProcess{pid: 1, executable: "systemd"},
		fakeProcess{pid: 100, executable: "freezer-monitor"},
	}
	list := func() ([]ps.Process, error) { return processes, nil }
	monitorArgs := func(int) ([]string, error) { return []string{"freezer-monitor"}, nil }

	// Only ourselves.
	require.NoError(t, ensureSingleInstance("freezer-monitor", 100, list, monitorArgs))

	// Someone else.
	err := ensureSingleInstance("freezer-monitor", 200, list, monitorArgs)
	require.ErrorIs(t, err, ErrAlreadyRunning)
}

// TestEnsureSingleInstance_OneShotCommands ignores status and version runs of
// the same executable.
func TestEnsureSingleInstance_OneShotCommands(t *testing.T) {
	t.Parallel()

	processes := []ps.Process{
		fakeProcess{pid: 300, executable: "freezer-monitor"},
		fakeProcess{pid: 301, executable: "freezer-monitor"},
		fakeProcess{pid: 302, executable: "freezer-monitor"},
	}
	list := func() ([]ps.Process, error) { return processes, nil }

	commandLines := map[int][]string{
		300: {"freezer-monitor", "status"},
		301: {"/usr/local/bin/freezer-monitor", "version"},
		302: {"freezer-monitor", "-V"},
	}
	argsOf := func(pid int) ([]string, error) { return commandLines[pid], nil }

	require.NoError(t, ensureSingleInstance("freezer-monitor", 100, list, argsOf))

	// A monitor among them still blocks startup.
	commandLines[301] = []string{"/usr/local/bin/freezer-monitor"}

	err := ensureSingleInstance("freezer-monitor", 100, list, argsOf)
	require.ErrorIs(t, err, ErrAlreadyRunning)
	require.ErrorContains(t, err, "pid 301")
}

// TestEnsureSingleInstance_UnreadableCommandLine counts the process as a monitor.
func TestEnsureSingleInstance_UnreadableCommandLine(t *testing.T) {
	t.Parallel()

	list := func() ([]ps.Process, error) {
		return []ps.Process{fakeProcess{pid: 400, executable: "freezer-monitor"}}, nil
	}
	argsOf := func(int) ([]string, error) { return nil, errors.New("permission denied") }

	err := ensureSingleInstance("freezer-monitor", 100, list, argsOf)
	require.ErrorIs(t, err, ErrAlreadyRunning)
}

// TestEnsureSingleInstance_Live runs against the real process table.
func TestEnsureSingleInstance_Live(t *testing.T) {
	t.Parallel()

	// The test binary is unique to this run.
	require.NoError(t, EnsureSingleInstance())
}
