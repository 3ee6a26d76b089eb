// Package state provides thread-safe state management for the application.
package state

import (
	"sync"
	"time"

	"github.com/litescript/ls-galaxy/internal/galaxy"
)

// EventType represents the type of state change event.
type EventType string

const (
	EventRegenerated EventType = "REGENERATED"
	EventFailed      EventType = "FAILED"
	EventReverted    EventType = "REVERTED"
)

// Event records one regeneration attempt or edit.
type Event struct {
	Type      EventType     `json:"type"`
	Timestamp time.Time     `json:"timestamp"`
	Points    int           `json:"points"`
	Duration  time.Duration `json:"duration"`
	Err       error         `json:"-"`
}

// Manager owns the editable working copy of the galaxy parameters, the
// last committed copy, and a log of regenerations.
type Manager struct {
	mu sync.RWMutex

	working   galaxy.Parameters
	committed galaxy.Parameters

	lastError    error
	lastDuration time.Duration
	lastRegen    time.Time
	regenCount   int
	summary      galaxy.Summary

	// Event log (ring buffer)
	events       []Event
	maxEvents    int
	eventWriteAt int
}

// Config holds configuration for the state manager.
type Config struct {
	MaxEvents int
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() Config {
	return Config{
		MaxEvents: 50,
	}
}

// NewManager creates a state manager whose working and committed copies
// both start at initial.
func NewManager(cfg Config, initial galaxy.Parameters) *Manager {
	maxEvents := cfg.MaxEvents
	if maxEvents <= 0 {
		maxEvents = 50
	}
	return &Manager{
		working:   initial,
		committed: initial,
		maxEvents: maxEvents,
		events:    make([]Event, 0, maxEvents),
	}
}

// Working returns the working copy.
func (m *Manager) Working() galaxy.Parameters {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.working
}

// Committed returns the parameters of the last successful regeneration.
func (m *Manager) Committed() galaxy.Parameters {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.committed
}

// SetWorking replaces the working copy.
func (m *Manager) SetWorking(p galaxy.Parameters) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.working = p
}

// Edit applies fn to the working copy and returns the result.
func (m *Manager) Edit(fn func(galaxy.Parameters) galaxy.Parameters) galaxy.Parameters {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.working = fn(m.working)
	return m.working
}

// Revert discards uncommitted edits.
func (m *Manager) Revert() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.working == m.committed {
		return
	}
	m.working = m.committed
	m.addEvent(Event{Type: EventReverted, Timestamp: time.Now()})
}

// Dirty reports whether the working copy has uncommitted edits.
func (m *Manager) Dirty() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.working != m.committed
}

// RecordRegeneration records the outcome of regenerating from p. A
// successful regeneration makes p the committed copy.
func (m *Manager) RecordRegeneration(p galaxy.Parameters, duration time.Duration, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	m.lastError = err
	m.lastDuration = duration

	if err != nil {
		m.addEvent(Event{Type: EventFailed, Timestamp: now, Points: p.Count, Duration: duration, Err: err})
		return
	}

	m.committed = p
	m.lastRegen = now
	m.regenCount++
	m.addEvent(Event{Type: EventRegenerated, Timestamp: now, Points: p.Count, Duration: duration})
}

// SetSummary stores the shape summary of the displayed galaxy.
func (m *Manager) SetSummary(s galaxy.Summary) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.summary = s
}

// addEvent adds an event to the ring buffer.
func (m *Manager) addEvent(e Event) {
	if len(m.events) < m.maxEvents {
		m.events = append(m.events, e)
	} else {
		m.events[m.eventWriteAt] = e
		m.eventWriteAt = (m.eventWriteAt + 1) % m.maxEvents
	}
}

// Snapshot represents an immutable snapshot of current state.
type Snapshot struct {
	Working       galaxy.Parameters
	Committed     galaxy.Parameters
	Dirty         bool
	LastError     error
	LastDuration  time.Duration
	LastRegen     time.Time
	Regenerations int
	Summary       galaxy.Summary
	Events        []Event
}

// Snapshot returns a consistent snapshot of current state.
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return Snapshot{
		Working:       m.working,
		Committed:     m.committed,
		Dirty:         m.working != m.committed,
		LastError:     m.lastError,
		LastDuration:  m.lastDuration,
		LastRegen:     m.lastRegen,
		Regenerations: m.regenCount,
		Summary:       m.summary,
		Events:        m.getEventsOrdered(),
	}
}

// getEventsOrdered returns events in chronological order.
func (m *Manager) getEventsOrdered() []Event {
	if len(m.events) == 0 {
		return nil
	}

	// If buffer isn't full yet, just copy
	if len(m.events) < m.maxEvents {
		result := make([]Event, len(m.events))
		copy(result, m.events)
		return result
	}

	// Ring buffer is full, reorder from oldest to newest
	result := make([]Event, m.maxEvents)
	for i := 0; i < m.maxEvents; i++ {
		idx := (m.eventWriteAt + i) % m.maxEvents
		result[i] = m.events[idx]
	}
	return result
}

// RecentEvents returns the last n events.
func (m *Manager) RecentEvents(n int) []Event {
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := m.getEventsOrdered()
	if len(all) <= n {
		return all
	}
	return all[len(all)-n:]
}
