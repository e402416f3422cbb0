package core

import (
	"math"
)

// Shapes is an immediate-mode helper that draws filled primitives through a
// Surface, one draw call per shape. Shapes go through the same attribute
// scheme as particles: a fan template in local pixel space plus a
// single-element position/size/color stream, so the two renderers can share
// a surface and a shader.
type Shapes struct {
	surface Surface
	circle  []float32
}

// NewShapes builds a shape helper for the surface.
func NewShapes(surface Surface) *Shapes {
	return &Shapes{
		surface: surface,
		circle:  TemplateShape(DefaultSegments * 2),
	}
}

// FillCircle draws a filled circle centered at (x, y) with radius r.
func (sh *Shapes) FillCircle(x, y, r float32, color ColorSpec) {
	sh.fill(sh.circle, x, y, r, color)
}

// FillRect draws a filled axis-aligned rectangle with top-left corner (x, y).
func (sh *Shapes) FillRect(x, y, w, h float32, color ColorSpec) {
	verts := []float32{
		0, 0,
		w, 0,
		w, h,
		0, h,
	}
	sh.fill(verts, x, y, 1, color)
}

// FillTriangle draws a filled triangle over three pixel-space points.
func (sh *Shapes) FillTriangle(x1, y1, x2, y2, x3, y3 float32, color ColorSpec) {
	verts := []float32{
		0, 0,
		x2 - x1, y2 - y1,
		x3 - x1, y3 - y1,
	}
	sh.fill(verts, x1, y1, 1, color)
}

// Line draws a segment from (x1, y1) to (x2, y2) as a quad of the given
// thickness.
func (sh *Shapes) Line(x1, y1, x2, y2, thickness float32, color ColorSpec) {
	dx := float64(x2 - x1)
	dy := float64(y2 - y1)
	length := math.Hypot(dx, dy)
	if length == 0 {
		return
	}
	// Unit normal, scaled to half thickness.
	nx := float32(-dy/length) * thickness / 2
	ny := float32(dx/length) * thickness / 2
	verts := []float32{
		nx, ny,
		x2 - x1 + nx, y2 - y1 + ny,
		x2 - x1 - nx, y2 - y1 - ny,
		-nx, -ny,
	}
	sh.fill(verts, x1, y1, 1, color)
}

func (sh *Shapes) fill(verts []float32, x, y, scale float32, color ColorSpec) {
	s := sh.surface
	w, h := s.Size()
	rgba := color.Resolve()

	s.SetUniform("resolution", [2]float32{float32(w), float32(h)})
	s.UploadVertexStream(SlotTemplate, verts, 2)
	s.UploadVertexStream(SlotPosition, []float32{x, y}, 2)
	s.UploadVertexStream(SlotSize, []float32{scale}, 1)
	s.UploadVertexStream(SlotColor, rgba[:], 4)
	s.Draw(PrimitiveFan, len(verts)/2, 1)
}
