package arena

import (
	"testing"

	"github.com/Htoledo30/jogo1/internal/catalog"
	"github.com/Htoledo30/jogo1/internal/config"
	"github.com/Htoledo30/jogo1/internal/entity"
	"github.com/Htoledo30/jogo1/internal/geo"
)

func newTestPlayer() *entity.Combatant {
	s := entity.NewStats(3)
	return &entity.Combatant{Stats: s, Radius: 16}
}

func newTestEnemy(level int) *entity.Combatant {
	s := entity.NewStats(level)
	return &entity.Combatant{Stats: s, Radius: 16, EnemyType: "warrior"}
}

func TestStartBattlePlacesCombatantsWithinArena(t *testing.T) {
	cfg := config.Default()
	c := NewController(cfg, 1)

	player := newTestPlayer()
	enc := Encounter{Enemies: []*entity.Combatant{newTestEnemy(1), newTestEnemy(1)}}
	c.StartBattle(player, enc)

	if player.Pos.X <= 0 || player.Pos.X >= cfg.Arena.Width {
		t.Errorf("player.Pos.X = %v, want within (0, %v)", player.Pos.X, cfg.Arena.Width)
	}
	for _, id := range c.enemyIDs {
		e := c.em.Get(id)
		if e.Pos.X <= player.Pos.X {
			t.Errorf("enemy at X=%v should be placed right of player at X=%v", e.Pos.X, player.Pos.X)
		}
	}
}

func TestCheckVictoryWithNoEnemies(t *testing.T) {
	cfg := config.Default()
	c := NewController(cfg, 2)
	player := newTestPlayer()
	c.StartBattle(player, Encounter{})

	c.Tick(1.0/60.0, Input{})

	if !c.IsDone() {
		t.Fatal("battle with zero enemies should end immediately as a victory")
	}
	if !c.Outcome().Victory {
		t.Error("expected Victory = true")
	}
}

func TestCheckVictoryWhenPlayerDies(t *testing.T) {
	cfg := config.Default()
	c := NewController(cfg, 3)
	player := newTestPlayer()
	enc := Encounter{Enemies: []*entity.Combatant{newTestEnemy(1)}}
	c.StartBattle(player, enc)

	player.Stats.HP = 0

	c.Tick(1.0/60.0, Input{})

	if !c.IsDone() {
		t.Fatal("battle should end once the player's hp reaches 0")
	}
	if c.Outcome().Victory {
		t.Error("expected Victory = false on player defeat")
	}
}

func TestTickIsNoOpAfterDone(t *testing.T) {
	cfg := config.Default()
	c := NewController(cfg, 4)
	player := newTestPlayer()
	c.StartBattle(player, Encounter{})
	c.Tick(1.0/60.0, Input{}) // ends immediately, zero enemies

	before := c.Outcome()
	c.Tick(1.0/60.0, Input{MoveX: 1}) // must be a no-op
	after := c.Outcome()

	if before.Victory != after.Victory || before.PlayerHP != after.PlayerHP ||
		before.XPGranted != after.XPGranted || before.GoldGranted != after.GoldGranted {
		t.Errorf("Tick after done mutated outcome: before=%+v after=%+v", before, after)
	}
}

func TestGrantKillRewardsAccumulatesXPAndGold(t *testing.T) {
	cfg := config.Default()
	c := NewController(cfg, 5)

	enemy := newTestEnemy(3)
	c.grantKillRewards(enemy)

	wantXP := float64(3) * cfg.Combat.KillXPPerLevel
	if c.xpGranted != wantXP {
		t.Errorf("xpGranted = %v, want %v", c.xpGranted, wantXP)
	}
	lo := float64(3) * cfg.Combat.GoldMinPerLevel
	hi := float64(3) * cfg.Combat.GoldMaxPerLevel
	if c.goldGranted < lo || c.goldGranted > hi {
		t.Errorf("goldGranted = %v, want within [%v, %v]", c.goldGranted, lo, hi)
	}
}

func TestPromoteGrantsVeterancyAtHalfLevelThreshold(t *testing.T) {
	cfg := config.Default()
	c := NewController(cfg, 6)
	player := newTestPlayer()

	troop := entity.Combatant{Stats: entity.NewStats(4), Radius: 10}
	enc := Encounter{AllyTroops: []*entity.Combatant{&troop}}
	c.StartBattle(player, enc)

	c.promote()

	if troop.ChainTier != 2 {
		t.Errorf("ChainTier after promote = %d, want 2 (level 4 / 2)", troop.ChainTier)
	}
	if len(c.promotedTroops) != 1 {
		t.Errorf("promotedTroops count = %d, want 1", len(c.promotedTroops))
	}

	c.promote()
	if len(c.promotedTroops) != 1 {
		t.Error("promote should not re-promote a troop already at its ChainTier")
	}
}

func TestResolveActiveAttackUsesThrustRangeForThrustWeapons(t *testing.T) {
	cfg := config.Default()
	c := NewController(cfg, 7)

	player := newTestPlayer()
	player.Equipment.WeaponID = "spear_bronze" // thrust-style weapon
	enc := Encounter{Enemies: []*entity.Combatant{newTestEnemy(1)}}
	c.StartBattle(player, enc)

	w, ok := catalog.GetWeapon("spear_bronze")
	if !ok {
		t.Fatal("spear_bronze missing from catalog")
	}
	thrustRange := clampF(w.Range*cfg.Combat.PlayerThrustRangeMult, cfg.Combat.PlayerRangeMin, cfg.Combat.PlayerRangeMax)
	slashRange := clampF(w.Range*cfg.Combat.PlayerSlashRangeMult, cfg.Combat.PlayerRangeMin, cfg.Combat.PlayerRangeMax)
	if thrustRange <= slashRange {
		t.Fatalf("test fixture assumes thrust range (%v) exceeds slash range (%v) for spear_bronze", thrustRange, slashRange)
	}
	weaponDist := (thrustRange + slashRange) / 2 // inside thrust range, outside slash range

	enemy := c.em.Get(c.enemyIDs[0])
	enemy.Pos = player.Pos.Add(geo.Vec2{X: player.Radius + weaponDist, Y: 0})
	player.AttackActiveTimer = 0.1

	c.resolveActiveAttack(player, false)

	if !player.HitThisSwing[enemy.ID] {
		t.Errorf("attack at weapon-range distance %v (within thrust range %v but outside slash range %v) should have landed", weaponDist, thrustRange, slashRange)
	}
}
