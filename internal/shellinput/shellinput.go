// Package shellinput maps ebiten keyboard/mouse state onto the arena
// controller's per-tick Input, grounded on the teacher's
// input/cameracontroller.go and input/avatarmovement.go WASD +
// IsKeyJustPressed conventions and game_main/player_movement.go's
// ebiten.CursorPosition aim sampling.
package shellinput

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/Htoledo30/jogo1/internal/arena"
	"github.com/Htoledo30/jogo1/internal/geo"
	"github.com/Htoledo30/jogo1/internal/troopai"
)

// Reader tracks the edge-triggered state (order cycling, formation
// cycling) that a single frame's key snapshot can't carry on its own.
type Reader struct {
	order     troopai.Order
	formation troopai.Formation
}

// NewReader returns a Reader with no standing order and the default
// circle formation.
func NewReader() *Reader {
	return &Reader{order: troopai.OrderNone, formation: troopai.FormationCircle}
}

// Poll samples the current ebiten input state into an arena.Input.
// playerScreenPos is where the player renders on screen, used to turn
// the absolute cursor position into an aim direction relative to the
// player.
func (r *Reader) Poll(playerScreenPos geo.Vec2) arena.Input {
	var in arena.Input

	if ebiten.IsKeyPressed(ebiten.KeyW) {
		in.MoveY--
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) {
		in.MoveY++
	}
	if ebiten.IsKeyPressed(ebiten.KeyA) {
		in.MoveX--
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) {
		in.MoveX++
	}

	cx, cy := ebiten.CursorPosition()
	in.Aim = geo.Vec2{X: float64(cx), Y: float64(cy)}.Sub(playerScreenPos)

	in.AttackHeld = ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	in.Heavy = ebiten.IsKeyPressed(ebiten.KeyShift)
	in.BlockHeld = ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight) || ebiten.IsKeyPressed(ebiten.KeySpace)

	r.pollOrder()
	r.pollFormation()
	in.OrderKey = r.order
	in.FormationKey = r.formation

	return in
}

func (r *Reader) pollOrder() {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.Key0):
		r.order = troopai.OrderNone
	case inpututil.IsKeyJustPressed(ebiten.Key1):
		r.order = troopai.OrderFocus
	case inpututil.IsKeyJustPressed(ebiten.Key2):
		r.order = troopai.OrderHold
	case inpututil.IsKeyJustPressed(ebiten.Key3):
		r.order = troopai.OrderCharge
	case inpututil.IsKeyJustPressed(ebiten.Key4):
		r.order = troopai.OrderDefend
	}
}

func (r *Reader) pollFormation() {
	if !inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		return
	}
	switch r.formation {
	case troopai.FormationCircle:
		r.formation = troopai.FormationLine
	case troopai.FormationLine:
		r.formation = troopai.FormationWedge
	default:
		r.formation = troopai.FormationCircle
	}
}
