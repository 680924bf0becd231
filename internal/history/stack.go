package history

import "bytes"

// DefaultLimit bounds the number of snapshots kept in the past.
const DefaultLimit = 50

// Snapshot is an opaque serialization of the whole document. It is only
// compared and passed through, never parsed.
type Snapshot []byte

// Equal reports whether s and o are the same serialization.
func (s Snapshot) Equal(o Snapshot) bool {
	return bytes.Equal(s, o)
}

// Stack holds the past (oldest first, newest is the live state) and the
// future (next redo last). The zero Stack is empty; Reset seeds it.
type Stack struct {
	limit  int
	past   []Snapshot
	future []Snapshot
}

// NewStack returns an empty stack keeping at most limit past entries.
// A limit below 1 means DefaultLimit.
func NewStack(limit int) *Stack {
	if limit < 1 {
		limit = DefaultLimit
	}
	return &Stack{limit: limit}
}

// Top returns the live state, or nil before the stack is seeded.
func (st *Stack) Top() Snapshot {
	if len(st.past) == 0 {
		return nil
	}
	return st.past[len(st.past)-1]
}

// Push records s as the new live state unless it equals the current one.
// It reports whether s was recorded.
func (st *Stack) Push(s Snapshot) bool {
	if len(st.past) > 0 && st.Top().Equal(s) {
		return false
	}
	st.past = append(st.past, clone(s))
	if over := len(st.past) - st.limit; over > 0 {
		st.past = append(st.past[:0:0], st.past[over:]...)
	}
	st.future = nil
	return true
}

// Undo moves the live state onto the future and returns the new live state.
// The baseline is never undone.
func (st *Stack) Undo() (Snapshot, bool) {
	if len(st.past) <= 1 {
		return nil, false
	}
	top := st.past[len(st.past)-1]
	st.past = st.past[:len(st.past)-1]
	st.future = append(st.future, top)
	return st.Top(), true
}

// Redo moves the most recently undone state back onto the past and returns it.
func (st *Stack) Redo() (Snapshot, bool) {
	if len(st.future) == 0 {
		return nil, false
	}
	next := st.future[len(st.future)-1]
	st.future = st.future[:len(st.future)-1]
	st.past = append(st.past, next)
	return next, true
}

// Reset makes s the only entry and clears the future.
func (st *Stack) Reset(s Snapshot) {
	st.past = []Snapshot{clone(s)}
	st.future = nil
}

func (st *Stack) Past() []Snapshot   { return append([]Snapshot(nil), st.past...) }
func (st *Stack) Future() []Snapshot { return append([]Snapshot(nil), st.future...) }

func (st *Stack) CanUndo() bool { return len(st.past) > 1 }
func (st *Stack) CanRedo() bool { return len(st.future) > 0 }

func clone(s Snapshot) Snapshot {
	return append(Snapshot(nil), s...)
}
