// Package enemyai implements the per-enemy behaviour of spec §4.G —
// target refresh, locked block decisions, the chase/retreat/flank/space
// state machine, attack initiation, and stamina gating — generalized
// from the teacher's ai/monsterstateactions.go state-driven monster
// turn (Attack/Pursue/Wander) into a continuous-time per-frame update,
// and grounded on original_source/src/battle_ai.py's per-enemy update
// loop for the profile/state thresholds.
package enemyai

import (
	"github.com/bytearena/ecs"

	"github.com/Htoledo30/jogo1/internal/catalog"
	"github.com/Htoledo30/jogo1/internal/clock"
	"github.com/Htoledo30/jogo1/internal/config"
	"github.com/Htoledo30/jogo1/internal/entity"
	"github.com/Htoledo30/jogo1/internal/geo"
	"github.com/Htoledo30/jogo1/internal/projectile"
)

// Profile selects spacing band and speed multiplier by troop/enemy type.
type Profile string

const (
	ProfileKite  Profile = "kite"
	ProfileSpear Profile = "spear"
	ProfilePress Profile = "press"
)

// DeriveProfile maps an enemy's troop/enemy type string to its profile,
// per spec §4.G's archers/phalangites/cataphract table.
func DeriveProfile(troopType entity.TroopType, enemyType string) Profile {
	switch enemyType {
	case "archer":
		return ProfileKite
	case "phalangite", "hoplite":
		return ProfileSpear
	case "cataphract":
		return ProfilePress
	}
	if troopType == entity.TroopArcher {
		return ProfileKite
	}
	return ProfilePress
}

// Band returns the [low, high] kite distance for a profile.
func Band(p Profile, cfg config.AIConfig) (low, high float64) {
	switch p {
	case ProfileKite:
		return cfg.KiteBandArcherLow, cfg.KiteBandArcherHigh
	case ProfileSpear:
		return cfg.KiteBandSpearLow, cfg.KiteBandSpearHigh
	default:
		return cfg.KiteBandPressLow, cfg.KiteBandPressHigh
	}
}

// SpeedMult returns the profile's movement speed multiplier.
func SpeedMult(p Profile) float64 {
	switch p {
	case ProfileKite:
		return 0.9
	case ProfileSpear:
		return 1.0
	default:
		return 1.05
	}
}

// State values stored in Combatant.AIState for an enemy.
const (
	StateChasing = iota
	StateBlocking
	StateRetreating
	StateFlanking
	StateSpacing
	StateClumpStrafe
)

// AttackFunc lets the controller register an attack initiation without
// this package importing the damage/arena packages back.
type AttackFunc func(attacker, target *entity.Combatant, heavy bool)

// Context bundles the per-tick inputs an enemy AI update needs.
type Context struct {
	Cfg        config.AIConfig
	ProjCfg    config.ProjectileConfig
	RNG        *clock.RNG
	Projectile *projectile.Manager
	Player     *entity.Combatant
	PlayerAttackActive bool
	PlayerAttackDir    geo.Vec2
	Candidates []*entity.Combatant // player + allied troops + cross-team enemies
	Allies     []*entity.Combatant // same-team enemies, for friendly occlusion
	OnAttack   AttackFunc
	DistToPlayer float64
}

// Update runs one tick of enemy e's behaviour: target refresh, block
// decision, state selection, movement, and attack initiation, per spec
// §4.G. dt has already had hit-pause scaling applied by the caller.
func Update(e *entity.Combatant, ctx Context, dt float64) {
	if ctx.Cfg.LODDistance > 0 && ctx.DistToPlayer > ctx.Cfg.LODDistance {
		return
	}

	profile := DeriveProfile(e.TroopType, e.EnemyType)
	low, high := Band(profile, ctx.Cfg)

	refreshTarget(e, ctx)

	target := findByID(ctx.Candidates, e.TargetID)
	if target == nil || !target.Alive() {
		return
	}

	decideBlock(e, target, ctx, dt)

	if e.AIState == StateBlocking {
		return
	}

	dist := e.Pos.Dist(target.Pos)
	toTarget := target.Pos.Sub(e.Pos).Unit(geo.Vec2{X: 1})

	desired := toTarget
	state := StateChasing

	clumped := countWithin(ctx.Candidates, ctx.Player.Pos, ctx.Cfg.ClumpCheckRadius) >= ctx.Cfg.ClumpCheckCount
	if clumped && dist < ctx.Cfg.ClumpStrafeRange {
		desired = toTarget.Perp()
		state = StateClumpStrafe
	} else if e.EnemyType == "archer" || profile == ProfileKite {
		if dist < low {
			desired = toTarget.Scale(-1)
		} else if dist > high {
			desired = toTarget
		} else {
			desired = toTarget.Perp()
		}
		state = StateChasing
	} else if e.EnemyType != "archer" && e.Stats.HP < e.Stats.HPMax*ctx.Cfg.RetreatHPFrac {
		desired = toTarget.Scale(-1)
		state = StateRetreating
	} else if ctx.RNG.Chance(ctx.Cfg.FlankChance) {
		desired = desired.Perp()
		state = StateFlanking
	} else if dist < ctx.Cfg.SpacingRadius {
		desired = toTarget.Scale(-1)
		state = StateSpacing
	}

	e.AIState = state

	speed := e.Stats.Spd * SpeedMult(profile)
	if state == StateRetreating {
		speed *= ctx.Cfg.RetreatSpeedMult
	}

	if e.Stats.Stamina > ctx.Cfg.StaminaHaltThreshold {
		move := desired.Scale(speed * dt)
		e.Pos = e.Pos.Add(move)
		e.Velocity = desired.Scale(speed)
		drain := ctx.Cfg.StaminaDrainMoveMin + ctx.RNG.Float64()*(ctx.Cfg.StaminaDrainMoveMax-ctx.Cfg.StaminaDrainMoveMin)
		e.Stats.Stamina -= drain * dt
		if e.Stats.Stamina < 0 {
			e.Stats.Stamina = 0
		}
	} else {
		e.Stats.Stamina += ctx.Cfg.StaminaRegenPerSec * dt
		if e.Stats.Stamina > ctx.Cfg.StaminaMax {
			e.Stats.Stamina = ctx.Cfg.StaminaMax
		}
	}

	if toTarget.LenSq() > 0 {
		e.Facing = toTarget
	}

	attemptAttack(e, target, profile, low, high, ctx, dt)
}

func refreshTarget(e *entity.Combatant, ctx Context) {
	if e.TargetRefreshTimer > 0 {
		return
	}
	e.TargetRefreshTimer = ctx.Cfg.TargetRefreshInterval

	var best *entity.Combatant
	bestScore := 0.0
	for _, c := range ctx.Candidates {
		if c == e || !c.Alive() {
			continue
		}
		score := e.Pos.Dist(c.Pos)
		isolation := countWithin(ctx.Candidates, c.Pos, ctx.Cfg.IsolationRadius)
		score -= ctx.Cfg.IsolationBonusPerUnit * float64(3-isolation)
		if c.InvulnTimer > 0 {
			score += ctx.Cfg.InvulnTargetPenalty
		}
		if best == nil || score < bestScore || (score == bestScore && c.ID < best.ID) {
			best = c
			bestScore = score
		}
	}
	if best != nil {
		e.TargetID = best.ID
	}
}

func decideBlock(e *entity.Combatant, target *entity.Combatant, ctx Context, dt float64) {
	if e.BlockDecisionTimer > 0 {
		return
	}

	inCone := ctx.PlayerAttackActive &&
		target == ctx.Player &&
		e.Pos.Dist(ctx.Player.Pos) <= ctx.Cfg.BlockConeRange &&
		ctx.PlayerAttackDir.Dot(e.Pos.Sub(ctx.Player.Pos).Unit(geo.Vec2{X: 1})) >= ctx.Cfg.BlockConeDot

	if !inCone {
		e.BlockedChoice = false
		e.BlockDecisionTimer = ctx.Cfg.BlockRerollMin + ctx.RNG.Float64()*(ctx.Cfg.BlockRerollMax-ctx.Cfg.BlockRerollMin)
		if e.AIState == StateBlocking {
			e.AIState = StateChasing
		}
		return
	}

	p := ctx.Cfg.BlockChanceHighHP
	if e.Stats.HP <= e.Stats.HPMax*0.5 {
		p = ctx.Cfg.BlockChanceLowHP
	}
	e.BlockedChoice = ctx.RNG.Chance(p)
	e.BlockDecisionTimer = ctx.Cfg.BlockLockMin + ctx.RNG.Float64()*(ctx.Cfg.BlockLockMax-ctx.Cfg.BlockLockMin)
	if e.BlockedChoice {
		e.AIState = StateBlocking
		e.IsBlocking = true
	} else {
		e.IsBlocking = false
	}
}

func attemptAttack(e *entity.Combatant, target *entity.Combatant, profile Profile, low, high float64, ctx Context, dt float64) {
	if e.AttackCooldown > 0 {
		return
	}
	dist := e.Pos.Dist(target.Pos)
	attackRange := e.Radius + target.Radius + ctx.Cfg.AttackRangePad
	inRange := dist <= attackRange
	if profile == ProfileKite {
		inRange = dist >= low && dist <= high
	}
	if !inRange {
		return
	}

	e.AttackCooldown = ctx.Cfg.AttackCooldownMin + ctx.RNG.Float64()*(ctx.Cfg.AttackCooldownMax-ctx.Cfg.AttackCooldownMin)
	e.AttackActiveTimer = ctx.Cfg.AttackActiveDuration
	e.IsHeavyAttack = false
	e.HitThisSwing = map[ecs.EntityID]bool{}

	if profile == ProfileKite {
		dir := projectile.LeadSolve(e.Pos, target.Pos, target.Velocity, 480, ctx.ProjCfg.MinLeadTime, ctx.ProjCfg.MaxLeadTime, target.Pos.Sub(e.Pos).Unit(geo.Vec2{X: 1}))
		occluded := projectile.FriendlyOcclusion(e.Pos, target.Pos, ctx.Allies, target.ID, ctx.ProjCfg.OcclusionPad)
		if !occluded {
			ctx.Projectile.Spawn(e.Pos, dir, 480, e.Stats.Atk, e.Team, catalog.Piercing, e.ID)
		}
		return
	}

	if ctx.OnAttack != nil {
		ctx.OnAttack(e, target, false)
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

func countWithin(list []*entity.Combatant, pos geo.Vec2, radius float64) int {
	n := 0
	for _, c := range list {
		if c.Alive() && c.Pos.Dist(pos) <= radius {
			n++
		}
	}
	return n
}
