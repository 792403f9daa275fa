// Package monitor tracks the security invariants consulted before every
// sensitive operation and records operational failures to an append-only
// sink.
package monitor

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Monitor holds the two security flags and the last-check timestamp.
// Defaults after Reset: level maintained, no side channel suspected.
type Monitor struct {
	mu                   sync.Mutex
	levelMaintained      bool
	sideChannelSuspected bool
	lastCheck            time.Time
	sink                 Sink
}

// New creates a monitor writing failure records to sink. A nil sink is
// valid; records are then counted in metrics only.
func New(sink Sink) *Monitor {
	m := &Monitor{sink: sink}
	m.Reset()
	return m
}

// RecordFailure appends a failure record for operation. It never fails and
// never panics: a broken sink must not turn a security failure into an
// unrelated crash during error handling.
func (m *Monitor) RecordFailure(operation string, cause error) {
	observeFailure(operation)

	detail := ""
	if cause != nil {
		detail = cause.Error()
	}
	rec := Record{
		ID:        uuid.NewString(),
		Timestamp: time.Now(),
		Operation: operation,
		Detail:    detail,
	}

	m.mu.Lock()
	sink := m.sink
	m.mu.Unlock()
	if sink == nil {
		return
	}

	func() {
		defer func() { _ = recover() }()
		_ = sink.Append(rec)
	}()
}

// LevelMaintained reports whether the security-level invariant holds.
func (m *Monitor) LevelMaintained() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.levelMaintained
}

// SideChannelSuspected reports whether a side channel is suspected. No
// live detector sets this flag; it is a policy extension point and stays
// false unless a deployment wires its own detector through
// MarkSideChannelSuspected.
func (m *Monitor) SideChannelSuspected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sideChannelSuspected
}

// LastCheck returns the time of the most recent Reset.
func (m *Monitor) LastCheck() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastCheck
}

// Reset restores the default flags and stamps the check time.
func (m *Monitor) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.levelMaintained = true
	m.sideChannelSuspected = false
	m.lastCheck = time.Now()
}

// MarkLevelCompromised clears the level-maintained flag. Policy hook for
// external detectors; nothing in pqops calls it.
func (m *Monitor) MarkLevelCompromised() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.levelMaintained = false
}

// MarkSideChannelSuspected raises the side-channel flag. Policy hook for
// external detectors; nothing in pqops calls it.
func (m *Monitor) MarkSideChannelSuspected() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sideChannelSuspected = true
}
