// Package view maps between document coordinates and the on-screen board.
package view

import (
	"math"

	"SmartBoard/internal/stroke"
)

const (
	MinZoom = 0.05
	MaxZoom = 20
	// ZoomStep is the factor one zoom button press applies.
	ZoomStep = 1.2
	// wheelBase^delta is the zoom factor for a wheel movement of delta.
	wheelBase = 0.999
)

// Viewport is a pan offset in screen units plus a zoom factor. Screen =
// document*Zoom + Pan.
type Viewport struct {
	PanX, PanY float64
	Zoom       float64
}

func New() Viewport { return Viewport{Zoom: 1} }

func (v Viewport) ToDocument(x, y float64) stroke.Point {
	return stroke.Point{X: (x - v.PanX) / v.Zoom, Y: (y - v.PanY) / v.Zoom}
}

func (v Viewport) ToScreen(p stroke.Point) (x, y float64) {
	return p.X*v.Zoom + v.PanX, p.Y*v.Zoom + v.PanY
}

// Scale converts a document length to screen units.
func (v Viewport) Scale(d float64) float64 { return d * v.Zoom }

func (v *Viewport) Pan(dx, dy float64) {
	v.PanX += dx
	v.PanY += dy
}

// ZoomAt sets the zoom, clamped to [MinZoom, MaxZoom], keeping the document
// point under the screen point (x, y) in place.
func (v *Viewport) ZoomAt(x, y, zoom float64) {
	zoom = math.Min(math.Max(zoom, MinZoom), MaxZoom)
	anchor := v.ToDocument(x, y)
	v.Zoom = zoom
	v.PanX = x - anchor.X*zoom
	v.PanY = y - anchor.Y*zoom
}

// Wheel zooms around (x, y) for a wheel movement of delta, positive meaning
// away from the content.
func (v *Viewport) Wheel(x, y, delta float64) {
	v.ZoomAt(x, y, v.Zoom*math.Pow(wheelBase, delta))
}

func (v *Viewport) Reset() { *v = New() }
