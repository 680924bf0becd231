package state

import (
	"testing"

	"SmartBoard/internal/history"
	"SmartBoard/internal/shape"
	"SmartBoard/internal/stroke"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pen = shape.Style{Color: "#000000", Width: 3}

func countEvents(b *Board) (mutated, changed *int) {
	mutated, changed = new(int), new(int)
	b.OnMutated = func() { *mutated++ }
	b.OnChanged = func() { *changed++ }
	return mutated, changed
}

func box(l, t, w, h float64) shape.Descriptor {
	return shape.Descriptor{Bounds: stroke.Box{Left: l, Top: t, Width: w, Height: h}, Style: pen}
}

func TestBoardAddRemoveUpdate(t *testing.T) {
	b := NewBoard(nil)
	mutated, _ := countEvents(b)

	id := b.Add(Object{Kind: KindRect, Width: 10, Height: 10})
	require.NotEmpty(t, id)
	assert.Equal(t, 1, b.Len())

	require.NoError(t, b.Update(id, func(o *Object) { o.Left = 5; o.ID = "hijack" }))
	o, ok := b.Object(id)
	require.True(t, ok)
	assert.Equal(t, 5.0, o.Left)

	assert.ErrorIs(t, b.Update("nope", func(*Object) {}), ErrUnknownObject)
	assert.Equal(t, 0, b.Remove("nope"))
	assert.Equal(t, 1, b.Remove(id))
	assert.Equal(t, 3, *mutated)
}

func TestBoardInkContract(t *testing.T) {
	b := NewBoard(nil)
	mutated, changed := countEvents(b)
	points := []stroke.Point{{X: 0, Y: 0}, {X: 5, Y: 5}, {X: 10, Y: 0}}

	id := b.AddPending(points, pen)
	assert.Len(t, b.Pending(), 1)
	assert.Zero(t, b.Len())
	assert.Zero(t, *mutated)
	assert.Equal(t, 1, *changed)

	require.NoError(t, b.KeepStroke(id))
	assert.Empty(t, b.Pending())
	doc := b.Document()
	require.Len(t, doc.Objects, 1)
	assert.Equal(t, KindPath, doc.Objects[0].Kind)
	assert.Equal(t, points, doc.Objects[0].Points)
	assert.Equal(t, 1, *mutated)

	id = b.AddPending(points, pen)
	d := box(0, 0, 20, 20)
	d.Kind = shape.Rectangle
	require.NoError(t, b.ReplaceStroke(id, d))
	doc = b.Document()
	require.Len(t, doc.Objects, 2)
	top := doc.Objects[1]
	assert.Equal(t, KindRect, top.Kind)
	assert.Equal(t, []string{top.ID}, b.Selected())
	assert.Equal(t, 2, *mutated)

	id = b.AddPending(points[:2], pen)
	require.NoError(t, b.DropStroke(id))
	assert.Empty(t, b.Pending())
	assert.Equal(t, 2, *mutated)

	assert.ErrorIs(t, b.KeepStroke(id), ErrUnknownObject)
	assert.ErrorIs(t, b.ReplaceStroke(id, d), ErrUnknownObject)
	assert.ErrorIs(t, b.DropStroke(id), ErrUnknownObject)
}

func TestFromDescriptor(t *testing.T) {
	cases := []struct {
		kind shape.Kind
		want Kind
	}{
		{shape.Wave, KindWave},
		{shape.Scribble, KindPath},
		{shape.Line, KindLine},
		{shape.Triangle, KindTriangle},
		{shape.Rectangle, KindRect},
		{shape.Ellipse, KindEllipse},
	}
	for _, tc := range cases {
		t.Run(tc.kind.String(), func(t *testing.T) {
			d := box(1, 2, 30, 40)
			d.Kind = tc.kind
			d.From, d.To = stroke.Point{X: 1, Y: 2}, stroke.Point{X: 31, Y: 42}
			o := FromDescriptor("x", d)
			assert.Equal(t, tc.want, o.Kind)
			assert.Equal(t, d.Bounds, o.Bounds())
			assert.Equal(t, "#000000", o.Stroke)
			assert.Equal(t, 1.0, o.Opacity)
			assert.Empty(t, o.Fill)
			if tc.kind == shape.Line {
				assert.Equal(t, []stroke.Point{d.From, d.To}, o.Points)
			}
		})
	}
}

func TestEncodeDecode(t *testing.T) {
	doc := NewDocument()
	doc.Objects = append(doc.Objects, NewPath("p1", []stroke.Point{{X: 0, Y: 0}, {X: 3, Y: 4}}, pen))

	s, err := Encode(doc)
	require.NoError(t, err)
	back, err := Decode(s)
	require.NoError(t, err)
	assert.Equal(t, doc, back)

	again, err := Encode(back)
	require.NoError(t, err)
	assert.True(t, s.Equal(again))

	empty, err := Encode(Document{Version: DocumentVersion})
	require.NoError(t, err)
	assert.Contains(t, string(empty), `"objects":[]`)
}

func TestDecodeRejectsBadSnapshots(t *testing.T) {
	for _, in := range []string{
		`not json`,
		`{"version":0,"objects":[]}`,
		`{"version":99,"objects":[]}`,
		`{"version":1,"objects":[{"kind":"rect"}]}`,
	} {
		_, err := Decode([]byte(in))
		assert.ErrorIs(t, err, ErrBadSnapshot, in)
	}
}

func TestDocumentCloneIsDeep(t *testing.T) {
	doc := NewDocument()
	doc.Objects = append(doc.Objects, NewPath("p1", []stroke.Point{{X: 0, Y: 0}, {X: 3, Y: 4}}, pen))
	c := doc.Clone()
	c.Objects[0].Points[0].X = 99
	assert.Equal(t, 0.0, doc.Objects[0].Points[0].X)
}

func TestDocumentBounds(t *testing.T) {
	doc := NewDocument()
	assert.Equal(t, stroke.Box{}, doc.Bounds())
	doc.Objects = []Object{
		{ID: "a", Kind: KindRect, Left: 0, Top: 0, Width: 10, Height: 10},
		{ID: "b", Kind: KindRect, Left: 20, Top: 5, Width: 10, Height: 30},
	}
	assert.Equal(t, stroke.Box{Left: 0, Top: 0, Width: 30, Height: 35}, doc.Bounds())
}

func TestBoardSelection(t *testing.T) {
	b := NewBoard(nil)
	a := b.Add(Object{Kind: KindRect, Left: 0, Top: 0, Width: 50, Height: 50})
	c := b.Add(Object{Kind: KindRect, Left: 40, Top: 40, Width: 50, Height: 50})
	mutated, _ := countEvents(b)

	id, ok := b.HitTest(stroke.Point{X: 45, Y: 45})
	require.True(t, ok)
	assert.Equal(t, c, id, "topmost wins")
	id, ok = b.HitTest(stroke.Point{X: -5, Y: -5})
	require.True(t, ok)
	assert.Equal(t, a, id, "padding")
	_, ok = b.HitTest(stroke.Point{X: 500, Y: 500})
	assert.False(t, ok)

	assert.Equal(t, []string{a, c}, b.ObjectsIn(stroke.Box{Left: 30, Top: 30, Width: 20, Height: 20}))

	b.Select(c, "ghost")
	assert.Equal(t, []string{c}, b.Selected())
	assert.True(t, b.IsSelected(c))
	b.SelectAll()
	assert.Equal(t, []string{a, c}, b.Selected())
	assert.Zero(t, *mutated, "selection is not a mutation")

	assert.Equal(t, 2, b.DeleteSelected())
	assert.Zero(t, b.Len())
	assert.Equal(t, 1, *mutated)
	assert.Empty(t, b.Selected())
}

func TestBoardApplySnapshot(t *testing.T) {
	b := NewBoard(nil)
	b.Add(Object{Kind: KindRect})
	s, err := b.Snapshot()
	require.NoError(t, err)
	b.Clear()
	require.Zero(t, b.Len())

	mutated, _ := countEvents(b)
	done := false
	require.NoError(t, b.ApplySnapshot(s, func() { done = true }))
	assert.True(t, done)
	assert.Equal(t, 1, b.Len())
	assert.Equal(t, 1, *mutated)

	assert.ErrorIs(t, b.ApplySnapshot(history.Snapshot("{"), nil), ErrBadSnapshot)
	assert.Equal(t, 1, b.Len())
}

type mapStore map[string][]byte

func (m mapStore) Persist(key string, v []byte) error { m[key] = v; return nil }
func (m mapStore) Load(key string) ([]byte, bool, error) {
	v, ok := m[key]
	return v, ok, nil
}

func TestBoardWithHistory(t *testing.T) {
	b := NewBoard(nil)
	m := history.NewManager(b, mapStore{}, history.Options{})
	b.OnMutated = func() {
		_, err := m.RecordIfChanged()
		require.NoError(t, err)
	}
	require.NoError(t, m.Open())

	first := b.Add(Object{Kind: KindRect, Width: 1, Height: 1})
	b.Add(Object{Kind: KindEllipse, Width: 2, Height: 2})
	b.Select(first)
	require.Len(t, m.Past(), 3)

	ok, err := m.Undo()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 1, b.Len())
	assert.Len(t, m.Past(), 2)

	ok, err = m.Undo()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Zero(t, b.Len())

	ok, err = m.Redo()
	require.NoError(t, err)
	require.True(t, ok)
	_, found := b.Object(first)
	assert.True(t, found)
	assert.Len(t, m.Future(), 1)
}

func TestBoardVisit(t *testing.T) {
	b := NewBoard(nil)
	a := b.Add(Object{Kind: KindRect})
	c := b.Add(Object{Kind: KindEllipse})
	b.Select(c)

	var ids []string
	var selected []bool
	b.Visit(func(o *Object, sel bool) {
		ids = append(ids, o.ID)
		selected = append(selected, sel)
	})
	assert.Equal(t, []string{a, c}, ids)
	assert.Equal(t, []bool{false, true}, selected)
}

func TestTextObjects(t *testing.T) {
	style := TextStyle{Color: "#ef4444", FontSize: 20, FontFamily: "Serif", Bold: true}
	o := NewText("t", stroke.Point{X: 5, Y: 6}, "ab\nabcd", style)
	assert.Equal(t, KindText, o.Kind)
	assert.Equal(t, 5.0, o.Left)
	assert.Equal(t, 6.0, o.Top)
	assert.InDelta(t, 48, o.Width, 1e-9)
	assert.InDelta(t, 48, o.Height, 1e-9)
	assert.Equal(t, []string{"ab", "abcd"}, o.Lines())
	assert.True(t, o.Bold)
	assert.False(t, o.IsSticky())

	n := NewSticky("s", stroke.Point{})
	assert.True(t, n.IsSticky())
	assert.Equal(t, StickyText, n.Text)
	assert.Equal(t, stroke.Box{Width: StickySide, Height: StickySide}, n.Bounds())
}

func TestBoardSetText(t *testing.T) {
	b := NewBoard(nil)
	mutated, _ := countEvents(b)
	text := b.Add(NewText("", stroke.Point{}, PlaceholderText, TextStyle{FontSize: 10}))
	sticky := b.Add(NewSticky("", stroke.Point{}))
	rect := b.Add(Object{Kind: KindRect})

	require.NoError(t, b.SetText(text, "hi"))
	o, _ := b.Object(text)
	assert.Equal(t, "hi", o.Text)
	assert.InDelta(t, 12, o.Width, 1e-9)

	require.NoError(t, b.SetText(sticky, "a much longer note than before"))
	o, _ = b.Object(sticky)
	assert.Equal(t, float64(StickySide), o.Width)

	assert.ErrorIs(t, b.SetText(rect, "x"), ErrNotText)
	assert.ErrorIs(t, b.SetText("ghost", "x"), ErrUnknownObject)
	assert.Equal(t, 5, *mutated)

	s, err := b.Snapshot()
	require.NoError(t, err)
	doc, err := Decode(s)
	require.NoError(t, err)
	assert.Equal(t, "hi", doc.Objects[0].Text)
	assert.Equal(t, StickyColor, doc.Objects[1].Background)
}
