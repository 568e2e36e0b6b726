// Command battlesim runs a batch of simulated arena battles headlessly
// and reports aggregate outcomes, for balance tuning and determinism
// regression checks. Grounded on the teacher's
// tools/combatsim/cmd/combatsim_main.go flag-driven iteration loop and
// quick-report style, generalized from its squad-template battles to
// the spec's single-player-vs-enemies arena battle.
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/Htoledo30/jogo1/internal/arena"
	"github.com/Htoledo30/jogo1/internal/config"
	"github.com/Htoledo30/jogo1/internal/entity"
)

// battleResult is one simulated battle's outcome plus how many ticks
// it took to resolve, for throughput/determinism reporting.
type battleResult struct {
	arena.Outcome
	ticks int
}

func runBattle(cfg config.Config, seed int64, playerLevel, enemyCount, enemyLevel, maxTicks int) battleResult {
	ctrl := arena.NewController(cfg, seed)

	player := &entity.Combatant{Stats: entity.NewStats(playerLevel), Radius: 16}
	player.Equipment.WeaponID = "sword_iron"
	var enemies []*entity.Combatant
	for i := 0; i < enemyCount; i++ {
		enemies = append(enemies, &entity.Combatant{
			Stats:     entity.NewStats(enemyLevel),
			Radius:    16,
			EnemyType: "warrior",
		})
	}
	ctrl.StartBattle(player, arena.Encounter{Enemies: enemies})

	const dt = 1.0 / 60.0
	ticks := 0
	for !ctrl.IsDone() && ticks < maxTicks {
		ctrl.Tick(dt, arena.Input{AttackHeld: true})
		ctrl.Events()
		ticks++
	}
	return battleResult{Outcome: ctrl.Outcome(), ticks: ticks}
}

func main() {
	iterations := flag.Int("iterations", 100, "number of battles to simulate")
	seed := flag.Int64("seed", 1, "base RNG seed; battle i uses seed+i")
	playerLevel := flag.Int("player-level", 5, "player level")
	enemyCount := flag.Int("enemies", 3, "enemies per battle")
	enemyLevel := flag.Int("enemy-level", 3, "enemy level")
	maxTicks := flag.Int("max-ticks", 3600, "ticks before a battle is declared a timeout (60 ticks/sec)")
	flag.Parse()

	if *iterations < 1 {
		log.Fatalf("iterations must be at least 1, got %d", *iterations)
	}

	cfg := config.Default()

	var wins, timeouts int
	var totalXP, totalGold float64
	var totalTicks int

	for i := 0; i < *iterations; i++ {
		res := runBattle(cfg, *seed+int64(i), *playerLevel, *enemyCount, *enemyLevel, *maxTicks)
		if res.ticks >= *maxTicks && !res.Outcome.Victory && res.PlayerHP > 0 {
			timeouts++
		}
		if res.Victory {
			wins++
		}
		totalXP += res.XPGranted
		totalGold += res.GoldGranted
		totalTicks += res.ticks
	}

	fmt.Printf("battlesim: %d battles, player L%d vs %d x L%d enemies\n", *iterations, *playerLevel, *enemyCount, *enemyLevel)
	fmt.Printf("  win rate:    %.1f%% (%d/%d)\n", 100*float64(wins)/float64(*iterations), wins, *iterations)
	fmt.Printf("  timeouts:    %d\n", timeouts)
	fmt.Printf("  avg xp:      %.1f\n", totalXP/float64(*iterations))
	fmt.Printf("  avg gold:    %.1f\n", totalGold/float64(*iterations))
	fmt.Printf("  avg ticks:   %.1f\n", float64(totalTicks)/float64(*iterations))
}
