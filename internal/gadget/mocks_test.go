package gadget

import (
	"sync"
	"time"
)

type linkRecord struct {
	endpoint string
	slot     int
}

// fakeOps records every configfs operation and can be told to fail specific
// endpoints or attribute writes.
type fakeOps struct {
	mu          sync.Mutex
	links       []linkRecord
	vid, pid    string
	controller  string
	pullupCount int
	clearCount  int
	resetCount  int

	failLink   map[string]error
	failVidPid error
	failPullup error
	failClear  error
	failReset  error
}

func newFakeOps() *fakeOps {
	return &fakeOps{failLink: map[string]error{}}
}

func (f *fakeOps) SetVidPid(vid, pid string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failVidPid != nil {
		return f.failVidPid
	}
	f.vid, f.pid = vid, pid
	return nil
}

func (f *fakeOps) LinkFunction(endpoint string, slot int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failLink[endpoint]; err != nil {
		return err
	}
	f.links = append(f.links, linkRecord{endpoint: endpoint, slot: slot})
	return nil
}

func (f *fakeOps) UnlinkFunctions() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.links = nil
	return nil
}

func (f *fakeOps) WritePullup(controller string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failPullup != nil {
		return f.failPullup
	}
	f.controller = controller
	f.pullupCount++
	return nil
}

func (f *fakeOps) ClearPullup() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failClear != nil {
		return f.failClear
	}
	f.clearCount++
	return nil
}

func (f *fakeOps) ResetGadget() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failReset != nil {
		return f.failReset
	}
	f.resetCount++
	f.links = nil
	f.vid, f.pid = "0x0000", "0x0000"
	return nil
}

func (f *fakeOps) endpoints() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.links))
	for i, l := range f.links {
		out[i] = l.endpoint
	}
	return out
}

// fakeMonitor satisfies Monitor without any filesystem watching. readyOnWait
// controls what WaitForPullup reports; when true the applied callback fires
// from Start, mimicking a descriptor writer that was already done.
type fakeMonitor struct {
	mu          sync.Mutex
	running     bool
	watches     []string
	onApplied   func(bool)
	readyOnWait bool
	startErr    error
	resetCount  int
}

func (m *fakeMonitor) IsRunning() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

func (m *fakeMonitor) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.startErr != nil {
		return m.startErr
	}
	m.running = true
	if m.readyOnWait && m.onApplied != nil {
		m.onApplied(true)
	}
	return nil
}

func (m *fakeMonitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.running = false
}

func (m *fakeMonitor) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.running = false
	m.watches = nil
	m.resetCount++
}

func (m *fakeMonitor) AddWatch(dir string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.watches = append(m.watches, dir)
}

func (m *fakeMonitor) OnApplied(fn func(bool)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onApplied = fn
}

func (m *fakeMonitor) WaitForPullup(timeout time.Duration) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.readyOnWait
}

// fireApplied delivers a late readiness change the way the real monitor's
// goroutine would.
func (m *fakeMonitor) fireApplied(applied bool) {
	m.mu.Lock()
	fn := m.onApplied
	m.mu.Unlock()
	if fn != nil {
		fn(applied)
	}
}

// fakeProps is a fixed Properties implementation.
type fakeProps struct {
	controller string
	vendorComp string
	fc         FunctionConfig
}

func (p fakeProps) Controller() string             { return p.controller }
func (p fakeProps) VendorComposition() string      { return p.vendorComp }
func (p fakeProps) FunctionConfig() FunctionConfig { return p.fc }

// fakeProber reports a fixed topology.
type fakeProber struct{ topo ModemTopology }

func (p fakeProber) Probe() ModemTopology { return p.topo }
