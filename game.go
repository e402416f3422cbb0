package ember

import (
	"github.com/ember2d/ember/render/core"
)

// Board is a grid of flat-colored tiles.
type Board struct {
	Cols, Rows int
	CellSize   float32
	tiles      []core.ColorSpec
}

func NewBoard(cols, rows int, cellSize float32) *Board {
	return &Board{
		Cols:     cols,
		Rows:     rows,
		CellSize: cellSize,
		tiles:    make([]core.ColorSpec, cols*rows),
	}
}

func (b *Board) SetTile(col, row int, color core.ColorSpec) {
	b.tiles[row*b.Cols+col] = color
}

func (b *Board) Tile(col, row int) core.ColorSpec {
	return b.tiles[row*b.Cols+col]
}

// SpriteInstance places a registered sprite on the board, in pixels.
// Scale is the size of one sprite cell.
type SpriteInstance struct {
	Asset  AssetId
	X, Y   float32
	VX, VY float32
	Scale  float32
}

// GameState is the minimal scene the game renderer draws: a tile board plus
// moving sprites.
type GameState struct {
	Board   *Board
	Sprites []SpriteInstance
}

// GameModule installs the game state and its update/render systems. Needs a
// WindowModule, an AssetServerModule and a ClientModule installed first.
type GameModule struct {
	Board *Board
}

func (m GameModule) Install(app *App, cmd *Commands) {
	board := m.Board
	if board == nil {
		board = NewBoard(16, 12, 48)
	}
	cmd.AddResources(&GameState{Board: board})
	cmd.UseSystem(Update, spriteBounceSystem)
	cmd.UseSystem(Render, gameRenderSystem)
}

// spriteBounceSystem drifts sprites and reflects them off the window edges.
func spriteBounceSystem(gs *GameState, ws *WindowState, clock *Clock, assets *AssetServer) {
	dt := clock.DtSeconds()
	w, h := ws.FramebufferSize()
	for i := range gs.Sprites {
		sp := &gs.Sprites[i]
		sp.X += sp.VX * dt
		sp.Y += sp.VY * dt

		var sw, sh float32
		if sprite, ok := assets.Sprite(sp.Asset); ok {
			sw = sp.Scale * float32(sprite.Cols)
			sh = sp.Scale * float32(sprite.Rows)
		}
		if sp.X < 0 && sp.VX < 0 || sp.X+sw > float32(w) && sp.VX > 0 {
			sp.VX = -sp.VX
		}
		if sp.Y < 0 && sp.VY < 0 || sp.Y+sh > float32(h) && sp.VY > 0 {
			sp.VY = -sp.VY
		}
	}
}

func gameRenderSystem(rs *RenderState, ws *WindowState, gs *GameState, assets *AssetServer, logger *DefaultLogger) {
	fbw, fbh := ws.FramebufferSize()
	if w, h := rs.Surface.Size(); w != fbw || h != fbh {
		rs.Surface.Resize(fbw, fbh)
	}

	rs.Surface.BeginFrame()
	rs.Surface.Clear()

	board := gs.Board
	cs := board.CellSize
	for row := 0; row < board.Rows; row++ {
		for col := 0; col < board.Cols; col++ {
			rs.Shapes.FillRect(float32(col)*cs, float32(row)*cs, cs, cs, board.Tile(col, row))
		}
	}

	for i := range gs.Sprites {
		sp := &gs.Sprites[i]
		sprite, ok := assets.Sprite(sp.Asset)
		if !ok {
			continue
		}
		drawSprite(rs.Shapes, sprite, sp.X, sp.Y, sp.Scale)
	}

	if err := rs.Surface.EndFrame(); err != nil {
		logger.Warnf("frame dropped: %v", err)
	}
}

// drawSprite renders one filled quad per opaque sprite cell.
func drawSprite(shapes *core.Shapes, sprite *SpriteAsset, x, y, scale float32) {
	for row := 0; row < sprite.Rows; row++ {
		for col := 0; col < sprite.Cols; col++ {
			color, opaque := sprite.Cell(col, row)
			if !opaque {
				continue
			}
			shapes.FillRect(x+float32(col)*scale, y+float32(row)*scale, scale, scale, color)
		}
	}
}
