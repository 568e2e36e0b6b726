// Package catalog is the immutable weapon/armor table of spec §4.C,
// grounded on the teacher's gear/equipmentcomponents.go static
// Armor/MeleeWeapon/RangedWeapon descriptors — generalized from the
// teacher's d20 damage-roll model to the spec's damage-type ×
// material-effectiveness model.
package catalog

import "github.com/Htoledo30/jogo1/internal/entity"

type DamageType string

const (
	Slashing    DamageType = "slashing"
	Piercing    DamageType = "piercing"
	Bludgeoning DamageType = "bludgeoning"
)

type Material string

const (
	Leather   Material = "leather"
	Bronze    Material = "bronze"
	Chainmail Material = "chainmail"
	Plate     Material = "plate"
)

// AttackKind distinguishes the player's attack styles for range
// computation in the damage pipeline (§4.I.2).
type AttackKind int

const (
	AttackThrust AttackKind = iota
	AttackSlashOverhead
)

// Weapon is an immutable weapon descriptor.
type Weapon struct {
	ID          string
	Name        string
	DamageMult  float64
	Range       float64
	Cooldown    float64
	StaminaCost float64
	DamageType  DamageType
	Style       AttackKind
	IsRanged    bool
	IsShield    bool
}

// Armor is an immutable armor descriptor.
type Armor struct {
	ID           string
	Name         string
	Defense      float64
	SpeedPenalty float64
	Material     Material
}

var weapons = map[string]Weapon{
	"sword_iron":     {ID: "sword_iron", Name: "Iron Sword", DamageMult: 1.0, Range: 40, Cooldown: 0.8, StaminaCost: 10, DamageType: Slashing, Style: AttackSlashOverhead},
	"spear_bronze":   {ID: "spear_bronze", Name: "Bronze Spear", DamageMult: 1.1, Range: 60, Cooldown: 1.0, StaminaCost: 12, DamageType: Piercing, Style: AttackThrust},
	"mace_steel":     {ID: "mace_steel", Name: "Steel Mace", DamageMult: 1.3, Range: 35, Cooldown: 1.1, StaminaCost: 14, DamageType: Bludgeoning, Style: AttackSlashOverhead},
	"bow_hunting":    {ID: "bow_hunting", Name: "Hunting Bow", DamageMult: 0.9, Range: 340, Cooldown: 1.2, StaminaCost: 8, DamageType: Piercing, Style: AttackThrust, IsRanged: true},
	"dagger_curved":  {ID: "dagger_curved", Name: "Curved Dagger", DamageMult: 0.7, Range: 25, Cooldown: 0.4, StaminaCost: 6, DamageType: Slashing, Style: AttackThrust},
	"warhammer_iron": {ID: "warhammer_iron", Name: "Iron Warhammer", DamageMult: 1.6, Range: 45, Cooldown: 1.5, StaminaCost: 20, DamageType: Bludgeoning, Style: AttackSlashOverhead},
	"shield_round":   {ID: "shield_round", Name: "Round Shield", DamageMult: 0.3, Range: 20, Cooldown: 0.6, StaminaCost: 5, DamageType: Bludgeoning, Style: AttackSlashOverhead, IsShield: true},
}

var armors = map[string]Armor{
	"leather_cap":     {ID: "leather_cap", Name: "Leather Cap", Defense: 0.04, SpeedPenalty: 0.00, Material: Leather},
	"leather_jerkin":  {ID: "leather_jerkin", Name: "Leather Jerkin", Defense: 0.08, SpeedPenalty: 0.00, Material: Leather},
	"leather_leggings": {ID: "leather_leggings", Name: "Leather Leggings", Defense: 0.05, SpeedPenalty: 0.00, Material: Leather},
	"leather_boots":   {ID: "leather_boots", Name: "Leather Boots", Defense: 0.03, SpeedPenalty: 0.00, Material: Leather},

	"bronze_helm":   {ID: "bronze_helm", Name: "Bronze Helm", Defense: 0.07, SpeedPenalty: 0.02, Material: Bronze},
	"bronze_cuirass": {ID: "bronze_cuirass", Name: "Bronze Cuirass", Defense: 0.14, SpeedPenalty: 0.04, Material: Bronze},
	"bronze_greaves": {ID: "bronze_greaves", Name: "Bronze Greaves", Defense: 0.08, SpeedPenalty: 0.02, Material: Bronze},
	"bronze_sandals": {ID: "bronze_sandals", Name: "Bronze Sandals", Defense: 0.04, SpeedPenalty: 0.01, Material: Bronze},

	"chain_coif":  {ID: "chain_coif", Name: "Chainmail Coif", Defense: 0.09, SpeedPenalty: 0.03, Material: Chainmail},
	"chain_hauberk": {ID: "chain_hauberk", Name: "Chainmail Hauberk", Defense: 0.18, SpeedPenalty: 0.06, Material: Chainmail},
	"chain_leggings": {ID: "chain_leggings", Name: "Chainmail Leggings", Defense: 0.10, SpeedPenalty: 0.03, Material: Chainmail},
	"chain_boots": {ID: "chain_boots", Name: "Chainmail Boots", Defense: 0.05, SpeedPenalty: 0.02, Material: Chainmail},

	"plate_helm":    {ID: "plate_helm", Name: "Plate Helm", Defense: 0.12, SpeedPenalty: 0.05, Material: Plate},
	"plate_cuirass": {ID: "plate_cuirass", Name: "Plate Cuirass", Defense: 0.24, SpeedPenalty: 0.08, Material: Plate},
	"plate_greaves": {ID: "plate_greaves", Name: "Plate Greaves", Defense: 0.13, SpeedPenalty: 0.05, Material: Plate},
	"plate_sabatons": {ID: "plate_sabatons", Name: "Plate Sabatons", Defense: 0.06, SpeedPenalty: 0.03, Material: Plate},
}

// GetWeapon looks up an immutable weapon descriptor by id.
func GetWeapon(id string) (Weapon, bool) {
	w, ok := weapons[id]
	return w, ok
}

// GetArmor looks up an immutable armor descriptor by id.
func GetArmor(id string) (Armor, bool) {
	a, ok := armors[id]
	return a, ok
}

// ValidWeaponID reports whether id resolves to a catalog entry; used by
// the equip-change boundary to refuse invalid identifiers (spec §7).
func ValidWeaponID(id string) bool { _, ok := weapons[id]; return ok }

// ValidArmorID reports whether id resolves to a catalog entry.
func ValidArmorID(id string) bool { _, ok := armors[id]; return ok }

// TotalDefense sums the defense of every equipped armor piece, capped at
// cap (spec §4.C, §4.I effectiveness: armor defense is capped 0.75).
func TotalDefense(l entity.Loadout, cap float64) float64 {
	total := 0.0
	for _, id := range l.Armor {
		if a, ok := armors[id]; ok {
			total += a.Defense
		}
	}
	if w, ok := weapons[l.WeaponID]; ok && w.IsShield {
		total += 0.0 // shield bump is applied separately by the damage pipeline
	}
	if total > cap {
		total = cap
	}
	return total
}

// TotalSpeedPenalty sums the speed penalty of every equipped armor
// piece.
func TotalSpeedPenalty(l entity.Loadout) float64 {
	total := 0.0
	for _, id := range l.Armor {
		if a, ok := armors[id]; ok {
			total += a.SpeedPenalty
		}
	}
	return total
}

// PrimaryMaterial returns the dominant armor material by slot priority
// chest > helmet > legs > boots (spec §4.C), defaulting to Leather if
// nothing is equipped.
func PrimaryMaterial(l entity.Loadout) Material {
	order := [...]entity.ArmorSlot{entity.SlotChest, entity.SlotHelmet, entity.SlotLegs, entity.SlotBoots}
	for _, slot := range order {
		if a, ok := armors[l.Armor[slot]]; ok {
			return a.Material
		}
	}
	return Leather
}

// EffectiveShieldDefense returns the flat armor bump a shield weapon
// contributes, combined with baseDefense and capped at shieldCap (spec
// §4.B: "A shield weapon contributes a small flat bump to effective
// armor (cap 0.9)").
func EffectiveShieldDefense(l entity.Loadout, baseDefense, bump, shieldCap float64) float64 {
	if w, ok := weapons[l.WeaponID]; ok && w.IsShield {
		total := baseDefense + bump
		if total > shieldCap {
			total = shieldCap
		}
		return total
	}
	return baseDefense
}
