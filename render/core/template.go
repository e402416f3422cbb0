package core

import (
	"math"
)

// DefaultSegments is the default ring resolution of the particle template.
const DefaultSegments = 12

// TemplateShape builds the unit-circle triangle fan shared by every particle
// instance: vertex 0 at the origin, then segments+1 ring vertices at
// (cos t, sin t) with t stepping from 0 to 2pi. The last ring vertex closes
// the fan by duplicating the first. Interleaved (x, y), so the slice holds
// 2*(segments+2) floats.
func TemplateShape(segments int) []float32 {
	verts := make([]float32, 0, 2*(segments+2))
	verts = append(verts, 0, 0)
	for i := 0; i < segments; i++ {
		t := 2 * math.Pi * float64(i) / float64(segments)
		verts = append(verts, float32(math.Cos(t)), float32(math.Sin(t)))
	}
	// Close the ring with an exact copy of the first ring vertex rather
	// than trusting cos/sin at 2pi to round back to it.
	verts = append(verts, verts[2], verts[3])
	return verts
}
