package ember

import (
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/google/uuid"
	xdraw "golang.org/x/image/draw"

	"github.com/ember2d/ember/render/core"
)

type AssetId string

func newAssetId() AssetId {
	return AssetId(uuid.NewString())
}

// SpriteAsset is an image reduced to a small grid of flat color cells. The
// flat pipeline has no textures, so sprites render as one filled quad per
// opaque cell.
type SpriteAsset struct {
	Cols, Rows int
	cells      []spriteCell
}

type spriteCell struct {
	color  core.ColorSpec
	opaque bool
}

// Cell returns the cell color and whether it should be drawn at all.
func (s *SpriteAsset) Cell(col, row int) (core.ColorSpec, bool) {
	c := s.cells[row*s.Cols+col]
	return c.color, c.opaque
}

// AssetServer registers sprite assets under generated ids.
type AssetServer struct {
	sprites map[AssetId]*SpriteAsset
}

func NewAssetServer() *AssetServer {
	return &AssetServer{sprites: make(map[AssetId]*SpriteAsset)}
}

// LoadSpriteFile decodes a PNG and registers it as a cols x rows sprite.
func (as *AssetServer) LoadSpriteFile(path string, cols, rows int) (AssetId, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open sprite %s: %w", path, err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return "", fmt.Errorf("decode sprite %s: %w", path, err)
	}
	return as.LoadSpriteImage(img, cols, rows)
}

// LoadSpriteImage downsamples an image into a cols x rows cell grid and
// registers it. Cells with less than half alpha coverage are marked
// transparent and skipped at draw time.
func (as *AssetServer) LoadSpriteImage(img image.Image, cols, rows int) (AssetId, error) {
	if cols <= 0 || rows <= 0 {
		return "", fmt.Errorf("sprite grid must be positive, got %dx%d", cols, rows)
	}

	scaled := image.NewRGBA(image.Rect(0, 0, cols, rows))
	xdraw.ApproxBiLinear.Scale(scaled, scaled.Bounds(), img, img.Bounds(), xdraw.Src, nil)

	sprite := &SpriteAsset{
		Cols:  cols,
		Rows:  rows,
		cells: make([]spriteCell, cols*rows),
	}
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			o := scaled.PixOffset(col, row)
			r, g, b, a := scaled.Pix[o], scaled.Pix[o+1], scaled.Pix[o+2], scaled.Pix[o+3]
			sprite.cells[row*cols+col] = spriteCell{
				color:  core.ColorSpec{Kind: core.ColorHex, R: r, G: g, B: b},
				opaque: a >= 128,
			}
		}
	}

	id := newAssetId()
	as.sprites[id] = sprite
	return id, nil
}

// Sprite looks up a registered sprite.
func (as *AssetServer) Sprite(id AssetId) (*SpriteAsset, bool) {
	s, ok := as.sprites[id]
	return s, ok
}

// AssetServerModule installs the AssetServer resource.
type AssetServerModule struct{}

func (m AssetServerModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(NewAssetServer())
}
