// Package pidfile keeps two simulations from writing the same run database.
package pidfile

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"
)

// PIDFile guards a path with the ID of the process that holds it
type PIDFile struct {
	path string
}

// New creates a new PIDFile manager
func New(path string) *PIDFile {
	return &PIDFile{path: path}
}

func (p *PIDFile) Path() string { return p.path }

// Acquire writes the current PID to the file. Fails when a live process
// already holds it; a stale or unreadable file is replaced.
func (p *PIDFile) Acquire() error {
	if pid, ok := p.holder(); ok {
		if isProcessRunning(pid) {
			return fmt.Errorf("simulation is already running (PID %d)", pid)
		}
	}
	_ = os.Remove(p.path)

	pidData := strconv.Itoa(os.Getpid()) + "\n"
	if err := os.WriteFile(p.path, []byte(pidData), 0644); err != nil {
		return fmt.Errorf("failed to write PID file: %w", err)
	}
	return nil
}

// Release removes the file if this process still holds it
func (p *PIDFile) Release() error {
	if pid, ok := p.holder(); ok && pid != os.Getpid() {
		return fmt.Errorf("PID file is held by process %d", pid)
	}
	if err := os.Remove(p.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove PID file: %w", err)
	}
	return nil
}

func (p *PIDFile) holder() (int, bool) {
	data, err := os.ReadFile(p.path)
	if err != nil {
		return 0, false
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, false
	}
	return pid, true
}

// isProcessRunning sends signal 0, which only checks the process exists
func isProcessRunning(pid int) bool {
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}

	err = process.Signal(syscall.Signal(0))
	switch {
	case err == nil:
		return true
	case errors.Is(err, syscall.EPERM):
		// exists but belongs to another user
		return true
	default:
		return false
	}
}
