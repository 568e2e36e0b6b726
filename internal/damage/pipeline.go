// Package damage implements the single attack-resolution function of
// spec §4.I — the multiplicative armor/VIT defense, damage-type ×
// material effectiveness, crit, combo, stagger, terrain, block/parry,
// and poise pipeline shared by every attacker in the arena.
//
// Grounded on the teacher's combat/attackingsystem.go PerformAttack
// (single resolution function shared by melee and ranged attacks) and
// original_source/src/battle_combat.py's damage formula chain, adapted
// from the teacher's d20-roll/dodge model to the spec's deterministic
// multiplicative chain.
package damage

import (
	"strconv"

	"github.com/Htoledo30/jogo1/internal/catalog"
	"github.com/Htoledo30/jogo1/internal/clock"
	"github.com/Htoledo30/jogo1/internal/config"
	"github.com/Htoledo30/jogo1/internal/entity"
	"github.com/Htoledo30/jogo1/internal/eventbus"
)

// AttackInfo describes the swing being resolved. The caller (arena
// controller) is responsible for the attack-window-active check (§4.I.1),
// the range check (§4.I.2), and the per-swing hit-set skip (§4.I.3) —
// those require controller-owned timer/state this package does not see.
type AttackInfo struct {
	AttackerIsPlayer   bool
	WeaponDamageMult   float64 // 1.0 for enemy attackers: spec "enemy skips weapon.damage"
	DamageType         catalog.DamageType
	ComboCount         int  // player only; 0 or 1 means no bonus
	IsHeavy            bool // heavy vs light attack, drives poise damage
	AttackerHighGround bool
	DefenderHighGround bool
}

// Result reports what happened so the controller can update its
// per-swing hit-set, award xp, and drive veterancy/victory checks.
type Result struct {
	Applied      bool // true if any hp was actually removed (adds to hit-set)
	Damage       float64
	Crit         bool
	Blocked      bool
	Parried      bool
	DefenderDied bool
}

// Resolve applies one attack from attacker to defender. bus receives
// HIT/BLOCK/PARRY/CRIT/DEATH events in the order spec §4.I describes.
func Resolve(bus *eventbus.Bus, rng *clock.RNG, cfg config.CombatConfig, attacker, defender *entity.Combatant, info AttackInfo) Result {
	// Step 4: blocking / parry.
	if defender.IsBlocking {
		if defender.Kind == entity.KindPlayer {
			if defender.BlockElapsed <= defender.Stats.ParryWindow {
				bus.Parry(defender.Pos)
				attacker.StunTimer = cfg.ParryStunDuration
				return Result{Parried: true}
			}
			bus.Block(defender.Pos)
			// falls through with block-power reduction applied below
		} else {
			bus.Block(defender.Pos)
			return Result{Blocked: true}
		}
	}

	// Step 5: base damage + combo.
	base := attacker.Stats.Atk * info.WeaponDamageMult
	if info.AttackerIsPlayer && info.ComboCount > 1 {
		base *= 1 + cfg.ComboWindowMult*float64(info.ComboCount-1)
	}

	// Step 6: effectiveness table.
	mat := catalog.PrimaryMaterial(defender.Equipment)
	dmg := base * catalog.Effectiveness(info.DamageType, mat)

	// Step 7: stagger + terrain.
	if defender.Stats.IsStaggered {
		dmg *= cfg.StaggerDamageMult
	}
	if info.AttackerHighGround {
		dmg *= cfg.HighGroundAttackMult
	} else if info.DefenderHighGround {
		dmg *= cfg.HighGroundDefendMult
	}

	// Step 8: crit roll.
	crit := rng.Chance(attacker.Stats.CritChance)
	if crit {
		dmg *= attacker.Stats.CritDamage
		bus.Crit(defender.Pos)
	}

	// Partial block reduction (defender blocking outside parry window).
	if defender.IsBlocking && defender.Kind == entity.KindPlayer && defender.BlockElapsed > defender.Stats.ParryWindow {
		dmg *= 1 - defender.Stats.BlockPower
	}

	// Step 9: apply via the single hp mutation path.
	armorDefense := catalog.TotalDefense(defender.Equipment, cfg.ArmorDefenseCap)
	armorDefense = catalog.EffectiveShieldDefense(defender.Equipment, armorDefense, cfg.ShieldDefenseBump, cfg.ShieldDefenseCap)
	applied, delta := defender.ApplyDamage(dmg, armorDefense, cfg.InvulnDuration)

	res := Result{Applied: applied, Damage: delta, Crit: crit}
	if !applied {
		return res
	}

	color := "white"
	if crit {
		color = "yellow"
	}
	bus.Hit(defender.Pos, delta, color)
	bus.DamageNumber(defender.Pos, formatDamage(delta), color)

	// Step 10: poise.
	poiseDmg := cfg.LightPoiseDamage
	if info.IsHeavy {
		poiseDmg = cfg.HeavyPoiseDamage
	}
	defender.ApplyPoiseDamage(poiseDmg, cfg.PoiseRegenDelay, cfg.StaggerDuration)

	// Step 11: death + xp.
	if defender.Stats.HP <= 0 {
		res.DefenderDied = true
		bus.Death(defender.ID)
	}

	return res
}

func formatDamage(d float64) string {
	n := int(d + 0.5)
	if n < 0 {
		n = 0
	}
	return strconv.Itoa(n)
}
