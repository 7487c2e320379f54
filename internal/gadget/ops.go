package gadget

import "time"

// Ops is the raw configfs surface the coordinator drives. Implementations
// must be safe for use from the lifecycle goroutine and the readiness
// monitor concurrently.
type Ops interface {
	SetVidPid(vid, pid string) error
	LinkFunction(endpoint string, slot int) error
	UnlinkFunctions() error
	WritePullup(controller string) error
	ClearPullup() error
	// ResetGadget pulls the gadget down, zeroes the id pair and unlinks all
	// functions. A pull-up that cannot be cleared is a fatal error.
	ResetGadget() error
}

// Monitor watches FunctionFS descriptor directories and issues the pull-up
// once every registered function has its descriptors written by user space.
type Monitor interface {
	IsRunning() bool
	Start() error
	Stop()
	// Reset stops watching and clears registered directories and readiness
	// state. Called during teardown before a new composition attempt.
	Reset()
	// AddWatch registers a FunctionFS mount directory to watch.
	AddWatch(dir string)
	// OnApplied registers the single applied-state callback. The monitor
	// invokes it from its own goroutine whenever readiness changes, including
	// after a synchronous waiter has already given up.
	OnApplied(fn func(applied bool))
	// WaitForPullup blocks until the pull-up has been issued or the timeout
	// elapses. The monitor keeps running either way.
	WaitForPullup(timeout time.Duration) bool
}
