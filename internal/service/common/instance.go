//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mitchellh/go-ps"
	"github.com/shirou/gopsutil/v3/process"
)

// ErrAlreadyRunning is returned when another monitor process is alive.
// Two monitors on one pin would send every notification twice.
var ErrAlreadyRunning = errors.New("another monitor instance is already running")

// ArgsFunc returns the command line of a process, program name included.
type ArgsFunc func(pid int) ([]string, error)

// EnsureSingleInstance fails when another process runs the same executable as
// a monitor. Invocations with arguments (status, version, help) are one-shot
// commands and do not count.
func EnsureSingleInstance() error {
	executable, err := os.Executable()
	if err != nil {
		return fmt.Errorf("detect executable: %w", err)
	}

	return ensureSingleInstance(filepath.Base(executable), os.Getpid(), ps.Processes, processArgs)
}

// ensureSingleInstance is EnsureSingleInstance with injectable process data.
func ensureSingleInstance(
	processName string,
	thisProcessID int,
	list func() ([]ps.Process, error),
	argsOf ArgsFunc,
) error {
	processList, err := list()
	if err != nil {
		return fmt.Errorf("list processes: %w", err)
	}

	for _, candidate := range processList {
		if candidate.Pid() == thisProcessID {
			continue
		}

		if candidate.Executable() != processName {
			continue
		}

		// The monitor takes no arguments at all. An unreadable command line
		// still counts as a monitor.
		args, err := argsOf(candidate.Pid())
		if err == nil && len(args) > 1 {
			continue
		}

		return fmt.Errorf("%w: pid %d", ErrAlreadyRunning, candidate.Pid())
	}

	return nil
}

// processArgs reads a command line from the process table.
func processArgs(pid int) ([]string, error) {
	proc, err := process.NewProcess(int32(pid)) //nolint:gosec // PIDs fit in int32.
	if err != nil {
		return nil, fmt.Errorf("open process %d: %w", pid, err)
	}

	args, err := proc.CmdlineSlice()
	if err != nil {
		return nil, fmt.Errorf("read command line of %d: %w", pid, err)
	}

	return args, nil
}
