package damage

import (
	"testing"

	"github.com/Htoledo30/jogo1/internal/catalog"
	"github.com/Htoledo30/jogo1/internal/clock"
	"github.com/Htoledo30/jogo1/internal/config"
	"github.com/Htoledo30/jogo1/internal/entity"
	"github.com/Htoledo30/jogo1/internal/eventbus"
)

func newCombatants() (attacker, defender *entity.Combatant) {
	a := entity.Stats{Atk: 10, CritChance: 0}
	d := entity.Stats{HP: 100, HPMax: 100, Defense: 0}
	return &entity.Combatant{Kind: entity.KindEnemy, Stats: a},
		&entity.Combatant{Kind: entity.KindPlayer, Stats: d}
}

// Scenario 3: defender blocks inside the parry window. No damage is
// applied and the attacker is stunned for cfg.ParryStunDuration (1.5s).
func TestResolveScenario3PerfectParry(t *testing.T) {
	cfg := config.Default().Combat
	bus := eventbus.New()
	rng := clock.NewRNG(1)

	attacker, defender := newCombatants()
	defender.IsBlocking = true
	defender.BlockElapsed = 0.05
	defender.Stats.ParryWindow = 0.15

	res := Resolve(bus, rng, cfg, attacker, defender, AttackInfo{DamageType: catalog.Slashing})

	if !res.Parried {
		t.Fatal("expected Parried = true")
	}
	if res.Applied || res.Damage != 0 {
		t.Errorf("parried hit should apply no damage, got applied=%v damage=%v", res.Applied, res.Damage)
	}
	if defender.Stats.HP != 100 {
		t.Errorf("defender hp = %v, want unchanged 100", defender.Stats.HP)
	}
	if attacker.StunTimer != 1.5 {
		t.Errorf("attacker StunTimer = %v, want 1.5", attacker.StunTimer)
	}
}

func TestResolveBlockOutsideParryWindowReducesDamage(t *testing.T) {
	cfg := config.Default().Combat
	bus := eventbus.New()
	rng := clock.NewRNG(1)

	attacker, defender := newCombatants()
	defender.IsBlocking = true
	defender.BlockElapsed = 1.0
	defender.Stats.ParryWindow = 0.15
	defender.Stats.BlockPower = 0.70

	baseline := Resolve(bus, rng, cfg, attacker, &entity.Combatant{
		Kind: entity.KindPlayer, Stats: entity.Stats{HP: 100, HPMax: 100},
	}, AttackInfo{DamageType: catalog.Slashing, WeaponDamageMult: 1.0})

	res := Resolve(bus, rng, cfg, attacker, defender, AttackInfo{DamageType: catalog.Slashing, WeaponDamageMult: 1.0})

	if res.Blocked {
		t.Error("partial block outside parry window should not set Blocked (only troop/enemy full-block does)")
	}
	want := baseline.Damage * 0.30
	if diff := res.Damage - want; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("blocked damage = %v, want %v (30%% of unblocked %v)", res.Damage, want, baseline.Damage)
	}
}

func TestResolveNonPlayerBlockAbsorbsFully(t *testing.T) {
	cfg := config.Default().Combat
	bus := eventbus.New()
	rng := clock.NewRNG(1)

	attacker, defender := newCombatants()
	defender.Kind = entity.KindEnemy
	defender.IsBlocking = true

	res := Resolve(bus, rng, cfg, attacker, defender, AttackInfo{DamageType: catalog.Slashing})

	if !res.Blocked || res.Applied {
		t.Errorf("enemy/troop block should fully absorb: blocked=%v applied=%v", res.Blocked, res.Applied)
	}
	if defender.Stats.HP != 100 {
		t.Errorf("defender hp = %v, want unchanged 100", defender.Stats.HP)
	}
}

func TestResolveHeavyAttackAppliesHeavierPoiseDamage(t *testing.T) {
	cfg := config.Default().Combat
	bus := eventbus.New()
	rng := clock.NewRNG(7)

	attacker, defender := newCombatants()
	defender.Stats.Poise, defender.Stats.PoiseMax = 100, 100

	Resolve(bus, rng, cfg, attacker, defender, AttackInfo{DamageType: catalog.Slashing, IsHeavy: true})

	if defender.Stats.Poise != 0 {
		t.Errorf("poise after heavy hit = %v, want 0 (stagger threshold %v)", defender.Stats.Poise, cfg.HeavyPoiseDamage)
	}
	if !defender.Stats.IsStaggered {
		t.Error("defender should be staggered after a heavy hit removes all poise")
	}
}

func TestResolveDeathEmitsDeathEvent(t *testing.T) {
	cfg := config.Default().Combat
	bus := eventbus.New()
	rng := clock.NewRNG(3)

	attacker, defender := newCombatants()
	defender.Stats.HP, defender.Stats.HPMax = 1, 100
	defender.ID = 42

	res := Resolve(bus, rng, cfg, attacker, defender, AttackInfo{DamageType: catalog.Slashing, WeaponDamageMult: 1.0})

	if !res.DefenderDied {
		t.Fatal("expected DefenderDied = true")
	}
	found := false
	for _, e := range bus.Drain() {
		if e.Kind == eventbus.Death && e.EntityID == 42 {
			found = true
		}
	}
	if !found {
		t.Error("expected a Death event for entity 42")
	}
}
