package state

import "SmartBoard/internal/stroke"

// hitPadding widens every object's box so thin strokes can be picked.
const hitPadding = 10

func pad(b stroke.Box, p float64) stroke.Box {
	return stroke.Box{Left: b.Left - p, Top: b.Top - p, Width: b.Width + 2*p, Height: b.Height + 2*p}
}

func pointInBox(p stroke.Point, b stroke.Box) bool {
	return p.X >= b.Left && p.X <= b.Right() && p.Y >= b.Top && p.Y <= b.Bottom()
}

func boxesOverlap(a, b stroke.Box) bool {
	return !(a.Right() < b.Left || b.Right() < a.Left ||
		a.Bottom() < b.Top || b.Bottom() < a.Top)
}

// HitTest returns the topmost object whose padded box contains p.
func (b *Board) HitTest(p stroke.Point) (string, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for i := len(b.doc.Objects) - 1; i >= 0; i-- {
		o := b.doc.Objects[i]
		if pointInBox(p, pad(o.Bounds(), hitPadding)) {
			return o.ID, true
		}
	}
	return "", false
}

// ObjectsIn returns the ids of objects whose boxes overlap area, in paint order.
func (b *Board) ObjectsIn(area stroke.Box) []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	var ids []string
	for _, o := range b.doc.Objects {
		if boxesOverlap(area, o.Bounds()) {
			ids = append(ids, o.ID)
		}
	}
	return ids
}

// Select replaces the selection with the given known ids.
func (b *Board) Select(ids ...string) {
	b.mu.Lock()
	b.selection = make(map[string]bool, len(ids))
	for _, id := range ids {
		if b.indexOf(id) >= 0 {
			b.selection[id] = true
		}
	}
	b.mu.Unlock()
	b.emit(false)
}

// SelectAll selects every object.
func (b *Board) SelectAll() {
	b.mu.Lock()
	b.selection = make(map[string]bool, len(b.doc.Objects))
	for _, o := range b.doc.Objects {
		b.selection[o.ID] = true
	}
	b.mu.Unlock()
	b.emit(false)
}

func (b *Board) ClearSelection() { b.Select() }

// Selected returns the selected ids in paint order.
func (b *Board) Selected() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	var ids []string
	for _, o := range b.doc.Objects {
		if b.selection[o.ID] {
			ids = append(ids, o.ID)
		}
	}
	return ids
}

// IsSelected reports whether id is in the selection.
func (b *Board) IsSelected(id string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.selection[id]
}

// DeleteSelected removes the selected objects as one mutation.
func (b *Board) DeleteSelected() int {
	return b.Remove(b.Selected()...)
}
