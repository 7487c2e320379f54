// Package monitor watches FunctionFS descriptor directories and coordinates
// the gadget pull-up with out-of-process descriptor writers.
package monitor

import (
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/sanjay900/gadgetd/internal/gadget"
)

// pollInterval backstops missed fsnotify events and directories that did not
// exist yet when the watch was added (a descriptor writer may mount its
// FunctionFS instance after the composition is linked).
const pollInterval = time.Second

// FFS implements gadget.Monitor over fsnotify. A FunctionFS function is
// ready once the kernel has created its data endpoints (ep1...), which only
// happens after the user-space daemon writes descriptors to ep0. When every
// registered directory is ready the monitor writes the pull-up and notifies
// the applied callback; if a writer goes away it clears the pull-up and
// waits for it to come back.
type FFS struct {
	controller string
	ops        gadget.Ops
	logger     *slog.Logger

	mu        sync.Mutex
	dirs      []string
	running   bool
	ready     bool
	waitCh    chan struct{}
	onApplied func(bool)
	watcher   *fsnotify.Watcher
	done      chan struct{}
}

func NewFFS(controller string, ops gadget.Ops, logger *slog.Logger) *FFS {
	return &FFS{
		controller: controller,
		ops:        ops,
		logger:     logger,
		waitCh:     make(chan struct{}),
	}
}

func (m *FFS) IsRunning() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

func (m *FFS) AddWatch(dir string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dirs = append(m.dirs, dir)
}

func (m *FFS) OnApplied(fn func(bool)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onApplied = fn
}

// Start begins watching all registered directories. Already-written
// descriptors are picked up immediately so a pull-up is never missed when
// the writer was faster than the monitor.
func (m *FFS) Start() error {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return nil
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		m.mu.Unlock()
		return err
	}
	m.watcher = watcher
	m.running = true
	m.done = make(chan struct{})
	for _, dir := range m.dirs {
		if err := watcher.Add(dir); err != nil {
			m.logger.Debug("ffs dir not watchable yet", "dir", dir, "error", err)
		}
	}
	done := m.done
	m.mu.Unlock()

	go m.loop(watcher, done)
	m.evaluate()
	return nil
}

// Stop ends watching. Readiness state is preserved; use Reset to clear it.
func (m *FFS) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopLocked()
}

func (m *FFS) stopLocked() {
	if !m.running {
		return
	}
	m.running = false
	close(m.done)
	_ = m.watcher.Close()
	m.watcher = nil
}

// Reset stops the monitor and clears registered directories and readiness
// state, preparing for the next composition attempt.
func (m *FFS) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopLocked()
	m.dirs = nil
	if m.ready {
		m.ready = false
		m.waitCh = make(chan struct{})
	}
}

// WaitForPullup blocks until the pull-up has been issued or timeout
// elapses. The monitor keeps running after a timeout; a late readiness
// signal still reaches the applied callback.
func (m *FFS) WaitForPullup(timeout time.Duration) bool {
	m.mu.Lock()
	if m.ready {
		m.mu.Unlock()
		return true
	}
	ch := m.waitCh
	m.mu.Unlock()

	select {
	case <-ch:
		return true
	case <-time.After(timeout):
		return false
	}
}

func (m *FFS) loop(watcher *fsnotify.Watcher, done chan struct{}) {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case _, ok := <-watcher.Events:
			if !ok {
				return
			}
			m.evaluate()
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			m.logger.Warn("ffs watcher error", "error", err)
		case <-ticker.C:
			m.rearmMissing(watcher)
			m.evaluate()
		}
	}
}

// rearmMissing retries watches for directories that appeared after Start.
func (m *FFS) rearmMissing(watcher *fsnotify.Watcher) {
	m.mu.Lock()
	dirs := append([]string(nil), m.dirs...)
	m.mu.Unlock()
	watched := watcher.WatchList()
	for _, dir := range dirs {
		found := false
		for _, w := range watched {
			if w == dir {
				found = true
				break
			}
		}
		if !found {
			_ = watcher.Add(dir)
		}
	}
}

// descriptorsWritten reports whether the kernel has created data endpoints
// in dir, i.e. ep0 descriptors were written by the function's daemon.
func descriptorsWritten(dir string) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false
	}
	for _, entry := range entries {
		name := entry.Name()
		if name != "ep0" && strings.HasPrefix(name, "ep") {
			return true
		}
	}
	return false
}

func (m *FFS) evaluate() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.running || len(m.dirs) == 0 {
		return
	}
	ready := true
	for _, dir := range m.dirs {
		if !descriptorsWritten(dir) {
			ready = false
			break
		}
	}
	if ready == m.ready {
		return
	}

	if ready {
		// The pull-up must land before readiness is announced. On a failed
		// write the monitor stays unready, so waiters keep blocking and the
		// ticker retries the pull-up.
		if err := m.ops.WritePullup(m.controller); err != nil {
			m.logger.Error("pullup after descriptor readiness", "error", err)
			return
		}
		m.ready = true
		m.logger.Info("descriptors written, gadget pulled up")
		close(m.waitCh)
		if m.onApplied != nil {
			m.onApplied(true)
		}
		return
	}

	m.ready = false
	m.waitCh = make(chan struct{})
	m.logger.Warn("descriptor writer went away, pulling gadget down")
	if err := m.ops.ClearPullup(); err != nil {
		m.logger.Error("clear pullup", "error", err)
	}
	if m.onApplied != nil {
		m.onApplied(false)
	}
}
