package core

// Particle is one frame's snapshot of a single particle. Positions and size
// are in surface pixels. The batcher only reads these; ownership stays with
// the simulation that produced them.
type Particle struct {
	X, Y  float32
	Size  float32
	Color ColorSpec
}
