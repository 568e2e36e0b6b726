package entity

import "math"

// Derive recomputes every derived field of s from its primary attributes,
// per spec §4.D. It is pure and idempotent: Derive(s); Derive(s) leaves s
// unchanged after the first call. Call it after level-up, attribute
// spend, equip change, and load, per the spec's call-site contract.
//
// Formulas are grounded on original_source/src/attributes.py
// (calculate_derived_stats), carrying over its base values, coefficients
// and caps unchanged — the caps additionally match spec §3 exactly.
func Derive(s *Stats) {
	str, agi, vit, cha, skl := float64(s.STR), float64(s.AGI), float64(s.VIT), float64(s.CHA), float64(s.SKL)

	prevHP, prevHPMax := s.HP, s.HPMax

	s.HPMax = 100 + vit*8 + str*2
	s.Atk = 10 + str*2 + skl*0.5
	s.Spd = 180 + agi*2
	s.StaminaMax = 100 + vit*2 + agi*1
	s.PoiseMax = 100

	s.CritChance = math.Min(0.45, 0.05+skl*0.005)
	s.CritDamage = math.Min(3.0, 2.0+skl*0.03)
	s.BlockPower = math.Min(0.70, 0.30+skl*0.02)
	s.ParryWindow = math.Min(0.5, 0.2+skl*0.01)

	s.AttackSpeedBonus = math.Max(-0.20, -(agi * 0.005))
	s.StaminaRegenBonus = agi * 0.005

	s.GoldBonus = math.Min(1.6, 1.0+cha*0.02)
	s.TroopBonus = math.Min(0.40, cha*0.01)
	s.ShopDiscount = math.Min(0.20, cha*0.005)

	s.Defense = math.Min(0.30, vit*0.01)

	// Preserve current HP unless this is first derivation (prevHPMax==0),
	// then clamp to the new max per spec §4.D.
	if prevHPMax == 0 {
		s.HP = s.HPMax
	} else if prevHP > s.HPMax {
		s.HP = s.HPMax
	}
}

// XPForLevel returns the xp threshold to reach level L, per spec §6:
// xp_for_level(L) = floor(15 * L^1.5).
func XPForLevel(level int) float64 {
	return math.Floor(15 * math.Pow(float64(level), 1.5))
}

// GrantXP applies xp to s, processing every level-up crossed in one call
// (heal to full, +1 attribute point, re-derive, recompute threshold),
// exactly as spec §6's grant loop specifies. Returns the number of
// levels gained.
func GrantXP(s *Stats, xp float64) int {
	s.XP += xp
	gained := 0
	for s.XP >= XPForLevel(s.Level+1) {
		s.Level++
		s.AttributePoints++
		Derive(s)
		s.HP = s.HPMax
		gained++
	}
	if gained > 0 {
		s.XP -= XPForLevel(s.Level)
	}
	s.XPToNext = XPForLevel(s.Level + 1)
	return gained
}

// CurrentDifficulty implements spec §6:
// min(2.0, 1.0 + 0.05*minutes + 0.1*(level-1)).
func CurrentDifficulty(minutes float64, level int) float64 {
	d := 1.0 + 0.05*minutes + 0.1*float64(level-1)
	return math.Min(2.0, d)
}
