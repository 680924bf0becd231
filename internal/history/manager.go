// Package history keeps a bounded stack of whole-document snapshots for
// undo/redo and autosaves the live one.
package history

import (
	"fmt"
	"log/slog"
	"sync"
)

// AutosaveKey is the store slot holding the most recent document snapshot.
const AutosaveKey = "document"

// Surface is the document owner the manager snapshots and reloads.
type Surface interface {
	// Snapshot serializes the current document. It must not call back
	// into the Manager.
	Snapshot() (Snapshot, error)
	// ApplySnapshot replaces the document with s and calls onComplete once
	// the reload has finished. Mutation events raised during the reload are
	// ignored by the Manager.
	ApplySnapshot(s Snapshot, onComplete func()) error
}

// Store is the local durability layer.
type Store interface {
	Persist(key string, value []byte) error
	Load(key string) (value []byte, ok bool, err error)
}

type Options struct {
	// Limit bounds the past; DefaultLimit when zero.
	Limit  int
	Logger *slog.Logger
	// OnPersistError is told about autosave failures. History stays
	// authoritative in memory either way.
	OnPersistError func(key string, err error)
}

// Manager owns one HistoryStack for one document session. All operations are
// serialized: while a reload started by Undo, Redo, ResetTo or Open is in
// flight, recording is suspended and further operations are ignored.
type Manager struct {
	mu        sync.Mutex
	surface   Surface
	store     Store
	stack     *Stack
	reloading bool

	log            *slog.Logger
	onPersistError func(key string, err error)
}

func NewManager(surface Surface, store Store, opts Options) *Manager {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Manager{
		surface:        surface,
		store:          store,
		stack:          NewStack(opts.Limit),
		log:            logger.With("component", "history"),
		onPersistError: opts.OnPersistError,
	}
}

// Open seeds the baseline. A snapshot in the autosave slot is reloaded into
// the surface first; otherwise the surface's current document is the baseline.
// A returned error means the autosave could not be read or applied; the
// manager is still usable with the surface's document as the baseline.
func (m *Manager) Open() error {
	saved, ok, loadErr := m.store.Load(AutosaveKey)
	if loadErr != nil || !ok || len(saved) == 0 {
		baseline, err := m.surface.Snapshot()
		if err != nil {
			return fmt.Errorf("history: snapshot baseline: %w", err)
		}
		m.mu.Lock()
		m.stack.Reset(baseline)
		m.mu.Unlock()
		if loadErr != nil {
			m.log.Warn("autosave unreadable, starting empty", "err", loadErr)
			return fmt.Errorf("history: read autosave: %w", loadErr)
		}
		m.log.Info("history opened", "restored", false)
		return nil
	}

	m.mu.Lock()
	m.stack.Reset(saved)
	m.reloading = true
	m.mu.Unlock()
	if err := m.reload(saved, true, func(live Snapshot) { m.stack.Reset(live) }); err != nil {
		// keep whatever the surface holds as the baseline
		if baseline, serr := m.surface.Snapshot(); serr == nil {
			m.mu.Lock()
			m.stack.Reset(baseline)
			m.mu.Unlock()
		}
		return fmt.Errorf("history: restore autosave: %w", err)
	}
	m.log.Info("history opened", "restored", true)
	return nil
}

// RecordIfChanged pushes the current document if it differs from the live
// snapshot. It is a no-op while a reload is in progress.
func (m *Manager) RecordIfChanged() (bool, error) {
	if m.Reloading() {
		m.log.Debug("record suspended during reload")
		return false, nil
	}
	s, err := m.surface.Snapshot()
	if err != nil {
		return false, fmt.Errorf("history: snapshot: %w", err)
	}

	m.mu.Lock()
	if m.reloading {
		m.mu.Unlock()
		return false, nil
	}
	pushed := m.stack.Push(s)
	depth := len(m.stack.past)
	m.mu.Unlock()

	if !pushed {
		return false, nil
	}
	m.log.Debug("snapshot recorded", "depth", depth, "bytes", len(s))
	m.persist(s)
	return true, nil
}

// Undo steps back one snapshot. It reports false when there is nothing
// before the baseline or a reload is in flight.
func (m *Manager) Undo() (bool, error) {
	m.mu.Lock()
	if m.reloading {
		m.mu.Unlock()
		m.log.Debug("undo ignored during reload")
		return false, nil
	}
	s, ok := m.stack.Undo()
	if !ok {
		m.mu.Unlock()
		return false, nil
	}
	m.reloading = true
	m.mu.Unlock()

	if err := m.reload(s, false, nil); err != nil {
		m.mu.Lock()
		m.stack.Redo()
		m.mu.Unlock()
		return false, fmt.Errorf("history: undo: %w", err)
	}
	return true, nil
}

// Redo re-applies the most recently undone snapshot.
func (m *Manager) Redo() (bool, error) {
	m.mu.Lock()
	if m.reloading {
		m.mu.Unlock()
		m.log.Debug("redo ignored during reload")
		return false, nil
	}
	s, ok := m.stack.Redo()
	if !ok {
		m.mu.Unlock()
		return false, nil
	}
	m.reloading = true
	m.mu.Unlock()

	if err := m.reload(s, false, nil); err != nil {
		m.mu.Lock()
		m.stack.Undo()
		m.mu.Unlock()
		return false, fmt.Errorf("history: redo: %w", err)
	}
	return true, nil
}

// ResetTo discards all history and makes s the new baseline, as for a new
// or imported document.
func (m *Manager) ResetTo(s Snapshot) (bool, error) {
	m.mu.Lock()
	if m.reloading {
		m.mu.Unlock()
		m.log.Debug("reset ignored during reload")
		return false, nil
	}
	prevPast, prevFuture := m.stack.past, m.stack.future
	m.stack.Reset(s)
	m.reloading = true
	m.mu.Unlock()

	if err := m.reload(s, true, func(live Snapshot) { m.stack.Reset(live) }); err != nil {
		m.mu.Lock()
		m.stack.past, m.stack.future = prevPast, prevFuture
		m.mu.Unlock()
		return false, fmt.Errorf("history: reset: %w", err)
	}
	m.log.Info("history reset", "bytes", len(s))
	return true, nil
}

// reload hands s to the surface. m.reloading must already be set. When the
// surface completes, canonical re-reads the document so the baseline matches
// what the surface serializes, settle runs under the lock, recording resumes
// and the live snapshot is autosaved.
func (m *Manager) reload(s Snapshot, canonical bool, settle func(live Snapshot)) error {
	var once sync.Once
	done := func() {
		once.Do(func() {
			live := s
			if canonical {
				if c, err := m.surface.Snapshot(); err == nil {
					live = c
				} else {
					m.log.Warn("snapshot after reload failed", "err", err)
				}
			}
			m.mu.Lock()
			if settle != nil {
				settle(live)
			}
			m.reloading = false
			m.mu.Unlock()
			m.persist(live)
		})
	}
	if err := m.surface.ApplySnapshot(s, done); err != nil {
		m.mu.Lock()
		m.reloading = false
		m.mu.Unlock()
		return err
	}
	return nil
}

func (m *Manager) persist(s Snapshot) {
	if err := m.store.Persist(AutosaveKey, s); err != nil {
		m.log.Warn("autosave failed", "key", AutosaveKey, "err", err)
		if m.onPersistError != nil {
			m.onPersistError(AutosaveKey, err)
		}
	}
}

// Reloading reports whether a reload is in flight.
func (m *Manager) Reloading() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reloading
}

func (m *Manager) CanUndo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return !m.reloading && m.stack.CanUndo()
}

func (m *Manager) CanRedo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return !m.reloading && m.stack.CanRedo()
}

// Past returns a copy of the past, oldest first.
func (m *Manager) Past() []Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stack.Past()
}

// Future returns a copy of the future, next redo last.
func (m *Manager) Future() []Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stack.Future()
}

// Current returns the live snapshot.
func (m *Manager) Current() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return clone(m.stack.Top())
}
