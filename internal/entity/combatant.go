// Package entity implements the shared combatant record used by both the
// arena and overworld simulations (spec §3/§4.B), stored in a
// bytearena/ecs slab the way the teacher engine's common.EntityManager
// stores its Attributes/Position components — generalized from the
// teacher's tile-grid roguelike record to the continuous-coordinate,
// real-time combatant this specification requires.
package entity

import (
	"github.com/bytearena/ecs"

	"github.com/Htoledo30/jogo1/internal/geo"
)

// Kind discriminates what a combatant represents; per the design note on
// polymorphism over combat roles, it selects behavior tables, never
// structure.
type Kind int

const (
	KindPlayer Kind = iota
	KindTroop
	KindEnemy
	KindArmyMarker
)

type Team int

const (
	TeamA Team = iota
	TeamB
)

// TroopType selects formation placement and AI profile for allied
// troops; EnemyType plays the analogous role for enemies and is a
// faction-specific string (e.g. "archer", "phalangite", "cataphract").
type TroopType string

const (
	TroopWarrior TroopType = "warrior"
	TroopArcher  TroopType = "archer"
	TroopTank    TroopType = "tank"
	TroopCavalry TroopType = "cavalry"
)

// ArmorSlot indexes the four armor pieces of a Loadout.
type ArmorSlot int

const (
	SlotHelmet ArmorSlot = iota
	SlotChest
	SlotLegs
	SlotBoots
	NumArmorSlots
)

// Loadout is the equipped gear on a combatant. It only carries catalog
// ids; the catalog resolves them to immutable descriptors (spec §4.C).
type Loadout struct {
	WeaponID string
	Armor    [NumArmorSlots]string
}

// Combatant is the single record used by every combatant in the
// simulation — player, troop, enemy, or overworld army marker.
type Combatant struct {
	ID ecs.EntityID

	Kind    Kind
	Team    Team
	Faction string

	Pos      geo.Vec2
	LastPos  geo.Vec2
	Velocity geo.Vec2
	Radius   float64

	Stats Stats

	TroopType TroopType
	EnemyType string

	InvulnTimer float64
	Equipment   Loadout

	// Overworld army marker fields (spec §3 World.enemies).
	ArmySize int
	AvgTier  int

	// Arena combat runtime state (§4.F controller state, kept on the
	// uniform record rather than parallel maps keyed by id).
	AttackCooldown    float64
	AttackActiveTimer float64
	IsHeavyAttack     bool
	StunTimer         float64

	IsBlocking         bool
	BlockElapsed       float64
	BlockDecisionTimer float64
	BlockedChoice      bool

	TargetID           ecs.EntityID
	TargetRefreshTimer float64
	AssignedEnemyID    ecs.EntityID // troop's distributed focus target

	AIState   int    // interpreted by enemyai/troopai per Kind
	AIProfile string // enemyai.Profile tag, opaque here

	Facing geo.Vec2

	HitThisSwing map[ecs.EntityID]bool

	ComboCount int
	ComboTimer float64
	ChainTier  int
}

// Alive reports hp > 0, the single definition of "simulated and
// rendered" per spec §3 invariants.
func (c *Combatant) Alive() bool { return c.Stats.Alive() }

// ApplyDamage is the single mutation path for hp (spec §4.B). It
// composes armor defense and VIT defense multiplicatively, subtracts the
// result from hp (clamped at 0), and arms the invulnerability window.
// While InvulnTimer is active, further calls are no-ops and return false.
func (c *Combatant) ApplyDamage(raw float64, armorDefense float64, invulnDuration float64) (applied bool, delta float64) {
	if c.InvulnTimer > 0 {
		return false, 0
	}
	if raw < 0 {
		raw = 0
	}
	final := raw * (1 - armorDefense) * (1 - c.Stats.Defense)
	before := c.Stats.HP
	c.Stats.HP -= final
	if c.Stats.HP < 0 {
		c.Stats.HP = 0
	}
	if c.Stats.HP > c.Stats.HPMax {
		c.Stats.HP = c.Stats.HPMax
	}
	c.InvulnTimer = invulnDuration
	return true, before - c.Stats.HP
}

// TickTimers decrements per-frame countdown timers; never lets them go
// negative, per §5 "Timeouts" ordering guarantee.
func (c *Combatant) TickTimers(dt float64, poiseRegenDelay, poiseRegenRate float64) {
	if c.InvulnTimer > 0 {
		c.InvulnTimer -= dt
		if c.InvulnTimer < 0 {
			c.InvulnTimer = 0
		}
	}
	if c.Stats.IsStaggered {
		c.Stats.StaggerTimer -= dt
		if c.Stats.StaggerTimer <= 0 {
			c.Stats.StaggerTimer = 0
			c.Stats.IsStaggered = false
			c.Stats.Poise = c.Stats.PoiseMax
		}
		return
	}
	if c.Stats.PoiseRegenDelay > 0 {
		c.Stats.PoiseRegenDelay -= dt
		if c.Stats.PoiseRegenDelay > 0 {
			return
		}
		dt = -c.Stats.PoiseRegenDelay
		c.Stats.PoiseRegenDelay = 0
	}
	if c.Stats.Poise < c.Stats.PoiseMax {
		c.Stats.Poise += poiseRegenRate * dt
		if c.Stats.Poise > c.Stats.PoiseMax {
			c.Stats.Poise = c.Stats.PoiseMax
		}
	}
}

// ApplyPoiseDamage subtracts amount from poise, arms the regen delay, and
// staggers the combatant (for staggerDuration) if poise drops to zero
// and it was not already staggered, per spec §4.I.10.
func (c *Combatant) ApplyPoiseDamage(amount, regenDelay, staggerDuration float64) {
	c.Stats.PoiseRegenDelay = regenDelay
	if c.Stats.IsStaggered {
		return
	}
	c.Stats.Poise -= amount
	if c.Stats.Poise <= 0 {
		c.Stats.Poise = 0
		c.Stats.IsStaggered = true
		c.Stats.StaggerTimer = staggerDuration
	}
}

// ClampToArena confines Pos to [border+radius, dim-border-radius] on both
// axes, per spec §3 invariant.
func (c *Combatant) ClampToArena(width, height, border float64) {
	min := geo.Vec2{X: border + c.Radius, Y: border + c.Radius}
	max := geo.Vec2{X: width - border - c.Radius, Y: height - border - c.Radius}
	c.Pos = c.Pos.Clamp(min, max)
}
