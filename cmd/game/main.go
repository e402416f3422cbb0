// Command game is the minimal game-renderer demo: a checkerboard of tiles
// with a couple of sprites bouncing across it. Sprites come from a PNG when
// -sprite is given, otherwise from a procedurally drawn blob.
package main

import (
	"flag"
	"image"
	"log"

	"github.com/ember2d/ember"
	"github.com/ember2d/ember/render/core"
)

type gameSetupModule struct {
	spritePath string
}

func (m gameSetupModule) Install(app *ember.App, cmd *ember.Commands) {
	cmd.UseSystem(ember.Update, escQuitSystem)
}

func escQuitSystem(in *ember.InputState, cmd *ember.Commands) {
	if in.JustPressed(ember.KeyEscape) {
		cmd.Quit()
	}
}

func buildBoard() *ember.Board {
	board := ember.NewBoard(16, 12, 64)
	dark := core.ParseColorSpec("#1d3142")
	light := core.ParseColorSpec("#27425a")
	for row := 0; row < board.Rows; row++ {
		for col := 0; col < board.Cols; col++ {
			if (row+col)%2 == 0 {
				board.SetTile(col, row, dark)
			} else {
				board.SetTile(col, row, light)
			}
		}
	}
	return board
}

// blobImage draws a filled disc into an RGBA image, the stand-in sprite
// when no PNG is supplied.
func blobImage(size int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	r := size / 2
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx, dy := x-r, y-r
			if dx*dx+dy*dy <= r*r {
				o := img.PixOffset(x, y)
				img.Pix[o+0] = 0xe8
				img.Pix[o+1] = 0x5d
				img.Pix[o+2] = 0x3d
				img.Pix[o+3] = 0xff
			}
		}
	}
	return img
}

func main() {
	spritePath := flag.String("sprite", "", "PNG to render as the sprite")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	board := buildBoard()
	app := ember.NewAppBuilder().
		UseModule(
			ember.LoggingModule{Prefix: "game", Debug: *debug},
			ember.ClockModule{},
			ember.NewWindow(1024, 768, "ember game"),
			ember.InputModule{},
			ember.AssetServerModule{},
			ember.SurfaceModule{},
			ember.GameModule{Board: board},
			gameSetupModule{spritePath: *spritePath},
		).
		Build()

	assets := ember.MustResource[*ember.AssetServer](app)
	gs := ember.MustResource[*ember.GameState](app)

	var (
		id  ember.AssetId
		err error
	)
	if *spritePath != "" {
		id, err = assets.LoadSpriteFile(*spritePath, 12, 12)
	} else {
		id, err = assets.LoadSpriteImage(blobImage(48), 12, 12)
	}
	if err != nil {
		log.Fatal(err)
	}

	gs.Sprites = []ember.SpriteInstance{
		{Asset: id, X: 100, Y: 100, VX: 180, VY: 120, Scale: 8},
		{Asset: id, X: 500, Y: 300, VX: -140, VY: 200, Scale: 5},
	}

	app.Run()
}
