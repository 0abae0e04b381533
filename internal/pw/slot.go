package pw

import "sync/atomic"

// State is the workflow state. There is no persistent "completed" state:
// every terminal outcome returns the workflow to Idle.
type State int

const (
	Idle State = iota
	InProgress
)

func (s State) String() string {
	if s == InProgress {
		return "in_progress"
	}
	return "idle"
}

// Slot is the single-occupancy guard around Apply and Restore.
// TryAcquire never blocks; a held slot means the caller must fail fast.
type Slot interface {
	TryAcquire() bool
	Release()
}

// MemorySlot is an in-process Slot.
type MemorySlot struct {
	held atomic.Bool
}

func NewMemorySlot() *MemorySlot { return &MemorySlot{} }

func (s *MemorySlot) TryAcquire() bool { return s.held.CompareAndSwap(false, true) }

func (s *MemorySlot) Release() { s.held.Store(false) }

// Held reports whether the slot is currently taken.
func (s *MemorySlot) Held() bool { return s.held.Load() }
