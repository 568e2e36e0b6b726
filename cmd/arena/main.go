// Command arena runs a single standalone arena battle for manual
// testing and demoing, grounded on the teacher's game_main/main.go
// Game/Update/Draw/Layout/ebiten.RunGame structure, generalized from
// its tactical-dungeon Game to the spec's single-encounter arena loop.
package main

import (
	"flag"
	"fmt"
	"image/color"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/Htoledo30/jogo1/internal/arena"
	"github.com/Htoledo30/jogo1/internal/config"
	"github.com/Htoledo30/jogo1/internal/entity"
	"github.com/Htoledo30/jogo1/internal/eventbus"
	"github.com/Htoledo30/jogo1/internal/geo"
	"github.com/Htoledo30/jogo1/internal/shellinput"
)

// Game holds the demo's whole mutable state. It is the struct ebiten's
// RunGame drives every frame.
type Game struct {
	cfg    config.Config
	ctrl   *arena.Controller
	reader *shellinput.Reader
	log    []string
}

func newGame(seed int64, enemyCount int) *Game {
	cfg := config.Default()
	ctrl := arena.NewController(cfg, seed)

	player := &entity.Combatant{Stats: entity.NewStats(5), Radius: 16}
	var enemies []*entity.Combatant
	for i := 0; i < enemyCount; i++ {
		enemies = append(enemies, &entity.Combatant{
			Stats:     entity.NewStats(3),
			Radius:    16,
			EnemyType: "warrior",
		})
	}
	ctrl.StartBattle(player, arena.Encounter{Enemies: enemies})

	return &Game{cfg: cfg, ctrl: ctrl, reader: shellinput.NewReader()}
}

func (g *Game) Update() error {
	in := g.reader.Poll(geo.Vec2{X: g.cfg.Arena.Width * 0.25, Y: g.cfg.Arena.Height * 0.5})
	g.ctrl.Tick(1.0/60.0, in)
	g.appendEvents(g.ctrl.Events())
	return nil
}

func (g *Game) appendEvents(events []eventbus.Event) {
	for _, ev := range events {
		if ev.Kind == eventbus.Death || ev.Kind == eventbus.Crit {
			g.log = append(g.log, fmt.Sprintf("kind=%d entity=%d", ev.Kind, ev.EntityID))
		}
	}
	if len(g.log) > 20 {
		g.log = g.log[len(g.log)-20:]
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 20, G: 20, B: 28, A: 255})
	for _, c := range g.ctrl.Combatants() {
		clr := color.RGBA{R: 200, G: 60, B: 60, A: 255}
		switch c.Kind {
		case entity.KindPlayer:
			clr = color.RGBA{R: 60, G: 200, B: 90, A: 255}
		case entity.KindTroop:
			clr = color.RGBA{R: 60, G: 120, B: 220, A: 255}
		}
		drawCombatant(screen, c.Pos, float32(c.Radius), clr)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return int(g.cfg.Arena.Width), int(g.cfg.Arena.Height)
}

func drawCombatant(screen *ebiten.Image, pos geo.Vec2, radius float32, clr color.Color) {
	vector.DrawFilledCircle(screen, float32(pos.X), float32(pos.Y), radius, clr, true)
}

func main() {
	seed := flag.Int64("seed", 1, "RNG seed for the demo battle")
	enemies := flag.Int("enemies", 3, "number of enemies to spawn")
	flag.Parse()

	g := newGame(*seed, *enemies)

	ebiten.SetWindowResizable(true)
	ebiten.SetWindowTitle("arena demo")
	ebiten.SetWindowSize(int(g.cfg.Arena.Width), int(g.cfg.Arena.Height))

	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}
