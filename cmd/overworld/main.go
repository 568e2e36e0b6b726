// Command overworld runs the overworld simulation loop headlessly,
// logging triggered encounters to stdout (other world events are
// drained without being printed). Grounded on the teacher's
// overworld/core/tick_system.go ordered-phase loop, stripped of its
// ebiten rendering since this driver's job is to exercise and observe
// world.World's simulation, not to render it.
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/Htoledo30/jogo1/internal/clock"
	"github.com/Htoledo30/jogo1/internal/config"
	"github.com/Htoledo30/jogo1/internal/eventbus"
	"github.com/Htoledo30/jogo1/internal/geo"
	"github.com/Htoledo30/jogo1/internal/world"
)

func main() {
	seed := flag.Int64("seed", 1, "world RNG seed")
	ticks := flag.Int("ticks", 3600, "number of simulated ticks to run (at 60 per simulated second)")
	flag.Parse()

	cfg := config.Default()
	w := world.New(cfg.World, *seed)
	w.SetAtWar("kingdom", "raiders", true)
	w.SpawnArmy(geo.Vec2{X: 200, Y: 200}, "raiders", 4, 1)
	w.SpawnArmy(geo.Vec2{X: 800, Y: 600}, "kingdom", 6, 2)

	rng := clock.NewRNG(*seed + 1)
	const dt = 1.0 / 60.0

	for i := 0; i < *ticks; i++ {
		ux, uy := rng.UnitVector()
		w.PlayerPos = w.PlayerPos.Add(geo.Vec2{X: ux, Y: uy}.Scale(40 * dt))

		if err := w.Tick(dt); err != nil {
			log.Fatalf("overworld tick %d: %v", i, err)
		}

		if hostile := w.CheckCollision(30); hostile != nil {
			w.TriggerEncounter(hostile, int64(i)+*seed)
		}

		logEvents(i, w.Events())
	}
}

func logEvents(tick int, events []eventbus.Event) {
	for _, ev := range events {
		if ev.Kind != eventbus.Encounter {
			continue
		}
		fmt.Printf("[t=%d] %s encounter: sideA=%d sideB=%d allies=%d seed=%d\n",
			tick, ev.Faction, len(ev.SideA), len(ev.SideB), len(ev.AllyTroops), ev.Seed)
	}
}
