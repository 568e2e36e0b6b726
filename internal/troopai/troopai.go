// Package troopai implements the per-troop behaviour of spec §4.H —
// focus/assigned target selection, archer kite engagement with
// HOLD/CHARGE modifiers, melee rush-and-attack, role-aware formation
// placement, and bodyguard re-targeting — grounded on the teacher's
// squads/squadmanager.go formation slot assignment and
// original_source/src/battle_systems.py's calculate_formation_position
// for the circle/line/wedge slot math.
package troopai

import (
	"math"

	"github.com/bytearena/ecs"

	"github.com/Htoledo30/jogo1/internal/catalog"
	"github.com/Htoledo30/jogo1/internal/clock"
	"github.com/Htoledo30/jogo1/internal/config"
	"github.com/Htoledo30/jogo1/internal/entity"
	"github.com/Htoledo30/jogo1/internal/geo"
	"github.com/Htoledo30/jogo1/internal/projectile"
)

// Order is the squad-wide order a troop honors before its own
// distributed assignment.
type Order int

const (
	OrderNone Order = iota
	OrderFocus
	OrderHold
	OrderCharge
	OrderDefend
)

// Formation selects the slot layout used when no troop is engaging.
type Formation int

const (
	FormationCircle Formation = iota
	FormationLine
	FormationWedge
)

// AttackFunc lets the controller register an attack initiation without
// this package importing the damage package back.
type AttackFunc func(attacker, target *entity.Combatant, heavy bool)

// Context bundles the per-tick inputs a troop AI update needs.
type Context struct {
	Cfg        config.AIConfig
	ProjCfg    config.ProjectileConfig
	RNG        *clock.RNG
	Projectile *projectile.Manager
	Player     *entity.Combatant
	Order      Order
	Formation  Formation
	FocusID    ecs.EntityID
	Enemies    []*entity.Combatant
	Allies     []*entity.Combatant // other troops, for friendly occlusion
	OnAttack   AttackFunc
	SlotIndex  int
	SlotCount  int

	ArenaWidth  float64
	ArenaHeight float64
	ArenaBorder float64
}

// AssignedTarget is the troop's entry in the controller's round-robin
// distribution map; the controller owns the map itself (spec §4.F
// state) and rebuilds it elsewhere when a target dies.
type AssignedTarget struct {
	ID ecs.EntityID
}

// Update runs one tick of troop t's behaviour.
func Update(t *entity.Combatant, assigned *AssignedTarget, ctx Context, dt float64) {
	bodyguard(t, ctx)

	var target *entity.Combatant
	if t.AssignedEnemyID != 0 {
		target = findByID(ctx.Enemies, t.AssignedEnemyID)
	}
	if target == nil && ctx.Order == OrderFocus && ctx.FocusID != 0 {
		target = findByID(ctx.Enemies, ctx.FocusID)
	}
	if target == nil && assigned != nil {
		target = findByID(ctx.Enemies, assigned.ID)
	}

	engaged := false
	if target != nil && target.Alive() {
		dist := t.Pos.Dist(target.Pos)
		if dist <= ctx.Cfg.TroopEngageRange {
			engaged = true
			engage(t, target, ctx, dt)
		}
	}

	if !engaged {
		formationMove(t, ctx, dt)
	}

	t.ClampToArena(ctx.ArenaWidth, ctx.ArenaHeight, ctx.ArenaBorder)
}

func engage(t *entity.Combatant, target *entity.Combatant, ctx Context, dt float64) {
	dist := t.Pos.Dist(target.Pos)
	dir := target.Pos.Sub(t.Pos).Unit(geo.Vec2{X: 1})

	if t.TroopType == entity.TroopArcher {
		low, high := ctx.Cfg.TroopArcherBandLow, ctx.Cfg.TroopArcherBandHigh
		switch ctx.Order {
		case OrderHold:
			low, high = low*0.7, high*1.3
		case OrderCharge:
			low, high = low*1.2, high*0.85
		}

		var move geo.Vec2
		if dist < low {
			move = dir.Scale(-1)
		} else if dist > high {
			move = dir
		}
		speed := t.Stats.Spd
		if ctx.Order == OrderCharge {
			speed *= ctx.Cfg.TroopChargeSpeedMult
		}
		t.Pos = t.Pos.Add(move.Scale(speed * dt))
		t.Facing = dir

		if dist >= low && dist <= high && t.AttackCooldown <= 0 {
			t.AttackCooldown = ctx.Cfg.TroopArcherCooldown
			t.AttackActiveTimer = ctx.Cfg.TroopArcherActive
			aimDir := projectile.LeadSolve(t.Pos, target.Pos, target.Velocity, 480, ctx.ProjCfg.MinLeadTime, ctx.ProjCfg.MaxLeadTime, dir)
			occluded := projectile.FriendlyOcclusion(t.Pos, target.Pos, ctx.Allies, target.ID, ctx.ProjCfg.OcclusionPad)
			if !occluded {
				ctx.Projectile.Spawn(t.Pos, aimDir, 480, t.Stats.Atk, t.Team, catalog.Piercing, t.ID)
			}
		}
		return
	}

	speed := t.Stats.Spd
	if ctx.Order == OrderCharge {
		speed *= 1.05
	}
	attackRange := t.Radius + target.Radius + ctx.Cfg.TroopMeleeRangePad
	if dist > attackRange {
		t.Pos = t.Pos.Add(dir.Scale(speed * dt))
		t.Facing = dir
		return
	}

	if t.AttackCooldown <= 0 {
		t.AttackCooldown = ctx.Cfg.TroopMeleeCooldown
		t.AttackActiveTimer = ctx.Cfg.TroopMeleeActive
		t.HitThisSwing = map[ecs.EntityID]bool{}
		if ctx.OnAttack != nil {
			ctx.OnAttack(t, target, false)
		}
	}
}

func formationMove(t *entity.Combatant, ctx Context, dt float64) {
	radius := ctx.Cfg.TroopFormationRadius
	if ctx.Order == OrderDefend {
		radius = ctx.Cfg.TroopDefendRadius
	}
	if t.Pos.Dist(ctx.Player.Pos) <= radius {
		return
	}
	slot := FormationSlot(ctx.Formation, ctx.SlotIndex, ctx.SlotCount, t.TroopType, radius)
	target := ctx.Player.Pos.Add(slot)
	dir := target.Sub(t.Pos).Unit(geo.Vec2{})
	if dir.LenSq() == 0 {
		return
	}
	t.Pos = t.Pos.Add(dir.Scale(t.Stats.Spd * dt))
	t.Facing = dir
}

// FormationSlot computes the offset from the player's position to slot
// index i of count for a given formation and troop role, per spec
// §4.H: archers back, infantry front, cavalry flanks/point.
func FormationSlot(f Formation, i, count int, troopType entity.TroopType, radius float64) geo.Vec2 {
	if count <= 0 {
		count = 1
	}
	switch f {
	case FormationLine:
		spread := radius * 1.5
		x := -spread/2 + spread*float64(i)/float64(maxInt(count-1, 1))
		y := roleRowOffset(troopType, radius)
		return geo.Vec2{X: x, Y: y}
	case FormationWedge:
		row := i / 3
		col := i % 3
		x := float64(col-1) * radius * 0.5
		y := float64(row)*radius*0.4 + roleRowOffset(troopType, radius)
		return geo.Vec2{X: x, Y: y}
	default: // FormationCircle
		theta := 2 * math.Pi * float64(i) / float64(count)
		r := radius
		switch troopType {
		case entity.TroopArcher:
			r *= 1.3
		case entity.TroopCavalry:
			r *= 1.1
		}
		return geo.Vec2{X: math.Cos(theta) * r, Y: math.Sin(theta) * r}
	}
}

func roleRowOffset(troopType entity.TroopType, radius float64) float64 {
	switch troopType {
	case entity.TroopArcher:
		return radius * 0.6
	case entity.TroopTank, entity.TroopWarrior:
		return -radius * 0.4
	case entity.TroopCavalry:
		return 0
	default:
		return 0
	}
}

func bodyguard(t *entity.Combatant, ctx Context) {
	if ctx.Player == nil || !ctx.Player.Alive() {
		t.AssignedEnemyID = 0
		return
	}
	if ctx.Player.Stats.HP >= ctx.Player.Stats.HPMax*ctx.Cfg.BodyguardHPFrac {
		t.AssignedEnemyID = 0
		return
	}
	if t.Pos.Dist(ctx.Player.Pos) > ctx.Cfg.BodyguardRange {
		t.AssignedEnemyID = 0
		return
	}
	var nearest *entity.Combatant
	best := math.Inf(1)
	for _, e := range ctx.Enemies {
		if !e.Alive() {
			continue
		}
		d := e.Pos.Dist(ctx.Player.Pos)
		if d < best {
			best = d
			nearest = e
		}
	}
	if nearest != nil {
		t.AssignedEnemyID = nearest.ID
	}
}

func findByID(list []*entity.Combatant, id ecs.EntityID) *entity.Combatant {
	for _, c := range list {
		if c.ID == id {
			return c
		}
	}
	return nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
