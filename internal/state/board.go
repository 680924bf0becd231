// Package state holds the live board document and implements the rendering
// surface contract the stroke interpreter and the history manager work
// against.
package state

import (
	"fmt"
	"log/slog"
	"sync"

	"SmartBoard/internal/history"
	"SmartBoard/internal/shape"
	"SmartBoard/internal/stroke"

	"github.com/google/uuid"
)

// Board is the live document plus the strokes still waiting to be
// interpreted and the current selection. Pending strokes and the selection
// are not part of snapshots.
type Board struct {
	mu        sync.RWMutex
	doc       Document
	pending   map[string]Object
	selection map[string]bool

	// OnMutated fires after any add, modify or remove of a document object,
	// including the ones caused by ApplySnapshot.
	OnMutated func()
	// OnChanged fires after anything visible changed.
	OnChanged func()

	log *slog.Logger
}

var (
	_ shape.InkSurface = (*Board)(nil)
	_ history.Surface  = (*Board)(nil)
)

func NewBoard(logger *slog.Logger) *Board {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Board{
		doc:       NewDocument(),
		pending:   make(map[string]Object),
		selection: make(map[string]bool),
		log:       logger.With("component", "board"),
	}
}

func newID() string { return uuid.NewString() }

func (b *Board) emit(mutated bool) {
	if mutated && b.OnMutated != nil {
		b.OnMutated()
	}
	if b.OnChanged != nil {
		b.OnChanged()
	}
}

// Add appends o on top of the document, assigning an id if it has none.
func (b *Board) Add(o Object) string {
	b.mu.Lock()
	if o.ID == "" {
		o.ID = newID()
	}
	b.doc.Objects = append(b.doc.Objects, o)
	b.mu.Unlock()

	b.log.Debug("object added", "id", o.ID, "kind", o.Kind)
	b.emit(true)
	return o.ID
}

// Remove deletes the objects with the given ids and reports how many existed.
func (b *Board) Remove(ids ...string) int {
	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}

	b.mu.Lock()
	kept := b.doc.Objects[:0:0]
	for _, o := range b.doc.Objects {
		if drop[o.ID] {
			delete(b.selection, o.ID)
			continue
		}
		kept = append(kept, o)
	}
	n := len(b.doc.Objects) - len(kept)
	b.doc.Objects = kept
	b.mu.Unlock()

	if n > 0 {
		b.log.Debug("objects removed", "count", n)
		b.emit(true)
	}
	return n
}

// Update modifies the object with the given id in place.
func (b *Board) Update(id string, fn func(o *Object)) error {
	b.mu.Lock()
	i := b.indexOf(id)
	if i < 0 {
		b.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrUnknownObject, id)
	}
	fn(&b.doc.Objects[i])
	b.doc.Objects[i].ID = id
	b.mu.Unlock()

	b.emit(true)
	return nil
}

// Clear removes every object.
func (b *Board) Clear() {
	b.mu.Lock()
	n := len(b.doc.Objects)
	b.doc.Objects = []Object{}
	b.selection = make(map[string]bool)
	b.mu.Unlock()

	if n > 0 {
		b.emit(true)
	}
}

func (b *Board) indexOf(id string) int {
	for i, o := range b.doc.Objects {
		if o.ID == id {
			return i
		}
	}
	return -1
}

// Document returns a deep copy of the live document.
func (b *Board) Document() Document {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.doc.Clone()
}

// Object returns a copy of one object.
func (b *Board) Object(id string) (Object, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	i := b.indexOf(id)
	if i < 0 {
		return Object{}, false
	}
	return Document{Objects: []Object{b.doc.Objects[i]}}.Clone().Objects[0], true
}

// Visit calls fn for every object in paint order under the read lock. fn
// must not modify o or call back into the Board.
func (b *Board) Visit(fn func(o *Object, selected bool)) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for i := range b.doc.Objects {
		o := &b.doc.Objects[i]
		fn(o, b.selection[o.ID])
	}
}

func (b *Board) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.doc.Objects)
}

// AddPending parks a finished gesture until the interpreter decides on it.
func (b *Board) AddPending(points []stroke.Point, style shape.Style) string {
	id := newID()
	b.mu.Lock()
	b.pending[id] = NewPath(id, points, style)
	b.mu.Unlock()

	b.emit(false)
	return id
}

// Pending returns the strokes awaiting interpretation.
func (b *Board) Pending() []Object {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]Object, 0, len(b.pending))
	for _, o := range b.pending {
		out = append(out, o)
	}
	return out
}

func (b *Board) takePending(id string) (Object, error) {
	o, ok := b.pending[id]
	if !ok {
		return Object{}, fmt.Errorf("%w: pending stroke %s", ErrUnknownObject, id)
	}
	delete(b.pending, id)
	return o, nil
}

// KeepStroke promotes a pending stroke into the document as raw ink.
func (b *Board) KeepStroke(id string) error {
	b.mu.Lock()
	o, err := b.takePending(id)
	if err != nil {
		b.mu.Unlock()
		return err
	}
	b.doc.Objects = append(b.doc.Objects, o)
	b.mu.Unlock()

	b.emit(true)
	return nil
}

// ReplaceStroke discards a pending stroke and inserts the synthesized shape
// as the only selected object.
func (b *Board) ReplaceStroke(id string, d shape.Descriptor) error {
	b.mu.Lock()
	if _, err := b.takePending(id); err != nil {
		b.mu.Unlock()
		return err
	}
	o := FromDescriptor(newID(), d)
	b.doc.Objects = append(b.doc.Objects, o)
	b.selection = map[string]bool{o.ID: true}
	b.mu.Unlock()

	b.log.Debug("stroke replaced", "stroke", id, "object", o.ID, "kind", o.Kind)
	b.emit(true)
	return nil
}

// DropStroke forgets a pending stroke.
func (b *Board) DropStroke(id string) error {
	b.mu.Lock()
	_, err := b.takePending(id)
	b.mu.Unlock()
	if err != nil {
		return err
	}
	b.emit(false)
	return nil
}

// Snapshot serializes the document.
func (b *Board) Snapshot() (history.Snapshot, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return Encode(b.doc)
}

// ApplySnapshot replaces the document with s. It completes synchronously.
func (b *Board) ApplySnapshot(s history.Snapshot, onComplete func()) error {
	doc, err := Decode(s)
	if err != nil {
		return err
	}
	b.mu.Lock()
	b.doc = doc
	b.selection = make(map[string]bool)
	b.mu.Unlock()

	b.log.Debug("snapshot applied", "objects", len(doc.Objects))
	b.emit(true)
	if onComplete != nil {
		onComplete()
	}
	return nil
}
