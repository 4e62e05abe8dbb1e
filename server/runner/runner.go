// Package runner guards parts of the server that must only be run once.
package runner

import (
	"errors"
	"sync"
)

// ErrAlreadyRun is returned when the Runner has been started before.
var ErrAlreadyRun = errors.New("already running or finished running, it can only be run once")

// Runner tracks whether something is running.  It is safe to use from multiple goroutines.
// The zero value is ready to be run.
type Runner struct {
	mu      sync.Mutex
	running bool
	done    bool
}

// Run marks the Runner as running.  An error is returned if it has been run before.
func (r *Runner) Run() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.running || r.done {
		return ErrAlreadyRun
	}
	r.running = true
	return nil
}

// Finish marks the Runner as done, even if it was never run.
func (r *Runner) Finish() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.running = false
	r.done = true
}

// IsRunning reports whether Run has been called without a later call to Finish.
func (r *Runner) IsRunning() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}
