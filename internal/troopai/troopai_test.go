package troopai

import (
	"math"
	"testing"

	"github.com/bytearena/ecs"

	"github.com/Htoledo30/jogo1/internal/clock"
	"github.com/Htoledo30/jogo1/internal/config"
	"github.com/Htoledo30/jogo1/internal/entity"
	"github.com/Htoledo30/jogo1/internal/geo"
	"github.com/Htoledo30/jogo1/internal/projectile"
)

func TestFormationSlotCirclePlacesArchersFartherOut(t *testing.T) {
	archer := FormationSlot(FormationCircle, 0, 4, entity.TroopArcher, 100)
	warrior := FormationSlot(FormationCircle, 0, 4, entity.TroopWarrior, 100)
	if archer.Len() <= warrior.Len() {
		t.Errorf("archer slot radius %v should exceed warrior slot radius %v", archer.Len(), warrior.Len())
	}
}

func TestFormationSlotLineSpreadsEvenly(t *testing.T) {
	count := 5
	first := FormationSlot(FormationLine, 0, count, entity.TroopWarrior, 100)
	last := FormationSlot(FormationLine, count-1, count, entity.TroopWarrior, 100)
	if first.X >= last.X {
		t.Errorf("line formation should spread slots left to right, got first.X=%v last.X=%v", first.X, last.X)
	}
}

func TestFormationSlotSingleTroopDoesNotPanic(t *testing.T) {
	slot := FormationSlot(FormationLine, 0, 1, entity.TroopWarrior, 100)
	if math.IsNaN(slot.X) || math.IsNaN(slot.Y) {
		t.Errorf("single-troop line slot = %+v, want finite coordinates", slot)
	}
}

func TestEngageMeleeAttacksInRange(t *testing.T) {
	cfg := config.Default().AI
	troop := &entity.Combatant{
		TroopType: entity.TroopWarrior,
		Stats:     entity.NewStats(1),
		Radius:    10,
		Pos:       geo.Vec2{X: 0, Y: 0},
	}
	target := &entity.Combatant{
		ID: 5, Radius: 10, Pos: geo.Vec2{X: 15, Y: 0},
		Stats: entity.Stats{HP: 100, HPMax: 100},
	}

	attacked := false
	ctx := Context{
		Cfg: cfg,
		OnAttack: func(attacker, tgt *entity.Combatant, heavy bool) {
			attacked = true
			if tgt != target {
				t.Error("OnAttack received wrong target")
			}
		},
	}
	engage(troop, target, ctx, 1.0/60.0)

	if !attacked {
		t.Fatal("melee troop within range should attack")
	}
	if troop.AttackCooldown != cfg.TroopMeleeCooldown {
		t.Errorf("AttackCooldown = %v, want %v", troop.AttackCooldown, cfg.TroopMeleeCooldown)
	}
}

func TestEngageMeleeApproachesOutOfRange(t *testing.T) {
	cfg := config.Default().AI
	troop := &entity.Combatant{
		TroopType: entity.TroopWarrior,
		Stats:     entity.NewStats(1),
		Radius:    10,
		Pos:       geo.Vec2{X: 0, Y: 0},
	}
	target := &entity.Combatant{
		ID: 5, Radius: 10, Pos: geo.Vec2{X: 500, Y: 0},
		Stats: entity.Stats{HP: 100, HPMax: 100},
	}

	ctx := Context{Cfg: cfg}
	engage(troop, target, ctx, 1.0/60.0)

	if troop.Pos.X <= 0 {
		t.Errorf("troop should advance toward a far target, Pos.X = %v", troop.Pos.X)
	}
	if troop.AttackCooldown != 0 {
		t.Error("troop should not attack while still out of range")
	}
}

func TestEngageArcherRespectsHoldOrderWidenedBand(t *testing.T) {
	cfg := config.Default().AI
	archer := &entity.Combatant{
		TroopType: entity.TroopArcher,
		Stats:     entity.NewStats(1),
		Radius:    8,
		Pos:       geo.Vec2{X: 0, Y: 0},
	}
	target := &entity.Combatant{
		ID: 9, Radius: 8,
		Pos:   geo.Vec2{X: cfg.TroopArcherBandLow * 0.8, Y: 0},
		Stats: entity.Stats{HP: 100, HPMax: 100},
	}

	projCfg := config.Default().Projectile
	ctx := Context{
		Cfg:        cfg,
		ProjCfg:    projCfg,
		RNG:        clock.NewRNG(1),
		Projectile: projectile.NewManager(projCfg),
		Order:      OrderHold,
		Allies:     nil,
	}
	engage(archer, target, ctx, 1.0/60.0)

	if archer.AttackCooldown == 0 {
		t.Error("archer should be able to fire once HOLD widens the band to include this distance")
	}
}

func TestBodyguardRetargetsNearestEnemyWhenPlayerLow(t *testing.T) {
	cfg := config.Default().AI
	cfg.BodyguardHPFrac = 0.5
	cfg.BodyguardRange = 1000

	player := &entity.Combatant{
		Stats: entity.Stats{HP: 10, HPMax: 100},
		Pos:   geo.Vec2{X: 0, Y: 0},
	}
	troop := &entity.Combatant{Pos: geo.Vec2{X: 0, Y: 0}}
	near := &entity.Combatant{ID: 1, Pos: geo.Vec2{X: 20, Y: 0}, Stats: entity.Stats{HP: 10, HPMax: 10}}
	far := &entity.Combatant{ID: 2, Pos: geo.Vec2{X: 200, Y: 0}, Stats: entity.Stats{HP: 10, HPMax: 10}}

	ctx := Context{Cfg: cfg, Player: player, Enemies: []*entity.Combatant{far, near}}
	bodyguard(troop, ctx)

	if troop.AssignedEnemyID != near.ID {
		t.Errorf("AssignedEnemyID = %v, want nearest enemy %v", troop.AssignedEnemyID, near.ID)
	}
}

func TestUpdateEngagesBodyguardTargetOverAssignedTarget(t *testing.T) {
	cfg := config.Default().AI
	cfg.BodyguardHPFrac = 0.5
	cfg.BodyguardRange = 1000
	cfg.TroopEngageRange = 1000

	player := &entity.Combatant{Stats: entity.Stats{HP: 10, HPMax: 100}, Pos: geo.Vec2{X: 0, Y: 0}}
	troop := &entity.Combatant{
		TroopType: entity.TroopWarrior,
		Stats:     entity.NewStats(1),
		Radius:    10,
		Pos:       geo.Vec2{X: 0, Y: 0},
	}
	near := &entity.Combatant{ID: 1, Radius: 10, Pos: geo.Vec2{X: 15, Y: 0}, Stats: entity.Stats{HP: 10, HPMax: 10}}
	far := &entity.Combatant{ID: 2, Radius: 10, Pos: geo.Vec2{X: 500, Y: 0}, Stats: entity.Stats{HP: 10, HPMax: 10}}

	var attackedID ecs.EntityID
	ctx := Context{
		Cfg:     cfg,
		Player:  player,
		Enemies: []*entity.Combatant{far, near},
		OnAttack: func(attacker, tgt *entity.Combatant, heavy bool) {
			attackedID = tgt.ID
		},
	}

	Update(troop, &AssignedTarget{ID: far.ID}, ctx, 1.0/60.0)

	if troop.AssignedEnemyID != near.ID {
		t.Fatalf("AssignedEnemyID = %v, want bodyguard target %v", troop.AssignedEnemyID, near.ID)
	}
	if attackedID != near.ID {
		t.Errorf("Update engaged %v, want the bodyguard-assigned nearest enemy %v (the distributed assignment %v should be overridden)", attackedID, near.ID, far.ID)
	}
}

func TestUpdateDropsBodyguardTargetOnceThePlayerRecovers(t *testing.T) {
	cfg := config.Default().AI
	cfg.BodyguardHPFrac = 0.5
	cfg.BodyguardRange = 1000
	cfg.TroopEngageRange = 1000

	player := &entity.Combatant{Stats: entity.Stats{HP: 90, HPMax: 100}, Pos: geo.Vec2{X: 0, Y: 0}}
	troop := &entity.Combatant{
		TroopType:       entity.TroopWarrior,
		Stats:           entity.NewStats(1),
		Radius:          10,
		Pos:             geo.Vec2{X: 0, Y: 0},
		AssignedEnemyID: 1,
	}
	near := &entity.Combatant{ID: 1, Radius: 10, Pos: geo.Vec2{X: 15, Y: 0}, Stats: entity.Stats{HP: 10, HPMax: 10}}

	ctx := Context{Cfg: cfg, Player: player, Enemies: []*entity.Combatant{near}}

	Update(troop, nil, ctx, 1.0/60.0)

	if troop.AssignedEnemyID != 0 {
		t.Errorf("AssignedEnemyID = %v, want cleared once the player is back above the bodyguard threshold", troop.AssignedEnemyID)
	}
}

func TestBodyguardDoesNothingWhenPlayerHealthy(t *testing.T) {
	cfg := config.Default().AI
	cfg.BodyguardHPFrac = 0.5
	cfg.BodyguardRange = 1000

	player := &entity.Combatant{Stats: entity.Stats{HP: 90, HPMax: 100}, Pos: geo.Vec2{X: 0, Y: 0}}
	troop := &entity.Combatant{Pos: geo.Vec2{X: 0, Y: 0}}
	near := &entity.Combatant{ID: 1, Pos: geo.Vec2{X: 20, Y: 0}, Stats: entity.Stats{HP: 10, HPMax: 10}}

	ctx := Context{Cfg: cfg, Player: player, Enemies: []*entity.Combatant{near}}
	bodyguard(troop, ctx)

	if troop.AssignedEnemyID != 0 {
		t.Error("bodyguard should not re-target while the player is above the hp threshold")
	}
}
