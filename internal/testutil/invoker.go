package testutil

import (
	"fmt"
	"sync"

	"pwrite-go/internal/pw"
)

// StagedReader reads staged content by the path handed to the invoker.
type StagedReader interface {
	Read(path string) ([]byte, error)
}

// CopyCall records one invocation of MockInvoker.Copy.
type CopyCall struct {
	Src     string
	Dst     string
	Content []byte
}

// MockInvoker stands in for the privilege helper. Results are consumed in
// order; once the script runs out every call succeeds. A successful call
// copies the staged content into the mock filesystem.
type MockInvoker struct {
	fsmgr  *MockFilesystemManager
	staged StagedReader

	mu        sync.Mutex
	script    []*pw.RawResult
	launchErr error
	calls     []CopyCall
	gate      chan struct{}
	entered   chan struct{}
}

// NewMockInvoker creates an invoker that writes into fsmgr, reading
// staged files through staged.
func NewMockInvoker(fsmgr *MockFilesystemManager, staged StagedReader) *MockInvoker {
	return &MockInvoker{fsmgr: fsmgr, staged: staged}
}

// Script queues results for subsequent calls.
func (m *MockInvoker) Script(results ...pw.RawResult) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range results {
		r := results[i]
		m.script = append(m.script, &r)
	}
}

// FailLaunch makes every call fail as if the helper binary were missing.
func (m *MockInvoker) FailLaunch(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.launchErr = err
}

// Block makes the next calls wait inside Copy, as if the user were still
// at the password prompt. entered is closed when a call starts waiting;
// release lets all blocked calls continue.
func (m *MockInvoker) Block() (entered <-chan struct{}, release func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gate = make(chan struct{})
	m.entered = make(chan struct{})
	gate := m.gate
	var once sync.Once
	return m.entered, func() { once.Do(func() { close(gate) }) }
}

// Calls returns the recorded invocations.
func (m *MockInvoker) Calls() []CopyCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]CopyCall(nil), m.calls...)
}

func (m *MockInvoker) Copy(src, dst string) (*pw.RawResult, error) {
	m.mu.Lock()
	gate, entered := m.gate, m.entered
	m.entered = nil
	launchErr := m.launchErr
	var result *pw.RawResult
	if len(m.script) > 0 {
		result, m.script = m.script[0], m.script[1:]
	} else {
		result = &pw.RawResult{}
	}
	m.mu.Unlock()

	if entered != nil {
		close(entered)
	}
	if gate != nil {
		<-gate
	}

	content, err := m.staged.Read(src)
	if err != nil {
		return nil, fmt.Errorf("mock invoker reading staged file: %w", err)
	}

	m.mu.Lock()
	m.calls = append(m.calls, CopyCall{Src: src, Dst: dst, Content: content})
	m.mu.Unlock()

	if launchErr != nil {
		return nil, &pw.LaunchError{Facility: "mock", Err: launchErr}
	}
	if result.ExitCode == 0 {
		m.fsmgr.AddFile(dst, content)
	}
	return result, nil
}

// Compile-time check
var _ pw.PrivilegeInvoker = (*MockInvoker)(nil)
