package ember

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ember2d/ember/render/core"
)

// stubSurface is the minimal core.Surface needed to count shape draws.
type stubSurface struct {
	draws int
}

func (s *stubSurface) InstancingSupported() bool                       { return true }
func (s *stubSurface) UploadVertexStream(slot int, d []float32, c int) {}
func (s *stubSurface) SetInstanceStepRate(slot, rate int)              {}
func (s *stubSurface) SetUniform(name string, value any)               {}
func (s *stubSurface) Draw(k core.PrimitiveKind, v, i int)             { s.draws++ }
func (s *stubSurface) Clear()                                          {}
func (s *stubSurface) Size() (int, int)                                { return 640, 480 }

func TestBoard_Tiles(t *testing.T) {
	b := NewBoard(3, 2, 32)
	red := core.ParseColorSpec("#ff0000")
	b.SetTile(2, 1, red)
	assert.Equal(t, red, b.Tile(2, 1))
	assert.Equal(t, core.ColorUnknown, b.Tile(0, 0).Kind, "unset tiles resolve black")
}

func TestDrawSprite_OneQuadPerOpaqueCell(t *testing.T) {
	as := NewAssetServer()

	// 2x2 with one transparent quadrant.
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.SetRGBA(0, 0, color.RGBA{R: 255, A: 255})
	img.SetRGBA(1, 0, color.RGBA{G: 255, A: 255})
	img.SetRGBA(0, 1, color.RGBA{B: 255, A: 255})
	id, err := as.LoadSpriteImage(img, 2, 2)
	require.NoError(t, err)

	sprite, ok := as.Sprite(id)
	require.True(t, ok)

	surface := &stubSurface{}
	drawSprite(core.NewShapes(surface), sprite, 0, 0, 8)
	assert.Equal(t, 3, surface.draws)
}
