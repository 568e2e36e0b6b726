// Package config centralizes the tunable constants for the arena and
// overworld simulations. Every magic number named by the specification
// lives here instead of scattered through the systems that consume it,
// mirroring game_main/config in the reference engine this was built from.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds every tunable the core simulation reads. Zero value is
// never used directly; callers get it from Default() or LoadYAML.
type Config struct {
	Arena    ArenaConfig    `yaml:"arena"`
	World    WorldConfig    `yaml:"world"`
	Combat   CombatConfig   `yaml:"combat"`
	AI       AIConfig       `yaml:"ai"`
	Save     SaveConfig     `yaml:"save"`
	Clock    ClockConfig    `yaml:"clock"`
	Projectile ProjectileConfig `yaml:"projectile"`
}

type ArenaConfig struct {
	Width         float64 `yaml:"width"`
	Height        float64 `yaml:"height"`
	Border        float64 `yaml:"border"`
	TroopSpacingX float64 `yaml:"troop_spacing_x"`
	TroopSpacingY float64 `yaml:"troop_spacing_y"`
}

type WorldConfig struct {
	Width                float64 `yaml:"width"`
	Height               float64 `yaml:"height"`
	DiplomacyInterval    float64 `yaml:"diplomacy_interval_s"`
	AutoResolveInterval  float64 `yaml:"auto_resolve_interval_s"`
	AutoResolveRadius    float64 `yaml:"auto_resolve_radius"`
	AutoResolveRange     float64 `yaml:"auto_resolve_range"`
	AutoResolveMaxChecks int     `yaml:"auto_resolve_max_checks"`
	SpawnInterval        float64 `yaml:"spawn_interval_s"`
	BanditCampCap        int     `yaml:"bandit_camp_cap"`
	CastleCap            int     `yaml:"castle_cap"`
	GlobalArmyCap        int     `yaml:"global_army_cap"`
	MinGlobalEnemies     int     `yaml:"min_global_enemies"`
	CastleSpawnRadius    float64 `yaml:"castle_spawn_radius"`
	LODFarDistance       float64 `yaml:"lod_far_distance"`
	LODNearDistance      float64 `yaml:"lod_near_distance"`
	PatrolSpeedFrac      float64 `yaml:"patrol_speed_frac"`
	ChaseSpeedFrac       float64 `yaml:"chase_speed_frac"`
	ChaseGiveUpDistance  float64 `yaml:"chase_give_up_distance"`
	ChaseTriggerDistance float64 `yaml:"chase_trigger_distance"`
	PackAlertRadius      float64 `yaml:"pack_alert_radius"`
	ForestSpeedMult      float64 `yaml:"forest_speed_mult"`
	EncounterEnemyRadius float64 `yaml:"encounter_enemy_radius"`
	EncounterMaxAdds     int     `yaml:"encounter_max_adds"`
	SideBRange           float64 `yaml:"side_b_range"`
	AllyPullRange        float64 `yaml:"ally_pull_range"`
}

type CombatConfig struct {
	InvulnDuration       float64 `yaml:"invuln_duration_s"`
	LightPoiseDamage     float64 `yaml:"light_poise_damage"`
	HeavyPoiseDamage     float64 `yaml:"heavy_poise_damage"`
	StaggerDuration      float64 `yaml:"stagger_duration_s"`
	PoiseRegenDelay      float64 `yaml:"poise_regen_delay_s"`
	PoiseRegenRate       float64 `yaml:"poise_regen_rate"`
	StaggerDamageMult    float64 `yaml:"stagger_damage_mult"`
	HighGroundAttackMult float64 `yaml:"high_ground_attack_mult"`
	HighGroundDefendMult float64 `yaml:"high_ground_defend_mult"`
	ComboWindowMult      float64 `yaml:"combo_window_mult"`
	ParryStunDuration    float64 `yaml:"parry_stun_duration_s"`
	ArmorDefenseCap      float64 `yaml:"armor_defense_cap"`
	ShieldDefenseBump    float64 `yaml:"shield_defense_bump"`
	ShieldDefenseCap     float64 `yaml:"shield_defense_cap"`
	PlayerAttackActive   float64 `yaml:"player_attack_active_s"`
	PlayerThrustRangeMult float64 `yaml:"player_thrust_range_mult"`
	PlayerSlashRangeMult  float64 `yaml:"player_slash_range_mult"`
	PlayerRangeMin        float64 `yaml:"player_range_min"`
	PlayerRangeMax        float64 `yaml:"player_range_max"`
	ComboWindowDuration   float64 `yaml:"combo_window_duration_s"`
	KillXPPerLevel        float64 `yaml:"kill_xp_per_level"`
	TroopKillXPPerLevel   float64 `yaml:"troop_kill_xp_per_level"`
	GoldMinPerLevel       float64 `yaml:"gold_min_per_level"`
	GoldMaxPerLevel       float64 `yaml:"gold_max_per_level"`
}

type AIConfig struct {
	TargetRefreshInterval  float64 `yaml:"target_refresh_interval_s"`
	IsolationRadius        float64 `yaml:"isolation_radius"`
	IsolationBonusPerUnit  float64 `yaml:"isolation_bonus_per_unit"`
	InvulnTargetPenalty    float64 `yaml:"invuln_target_penalty"`
	BlockConeRange         float64 `yaml:"block_cone_range"`
	BlockConeDot           float64 `yaml:"block_cone_dot"`
	BlockLockMin           float64 `yaml:"block_lock_min_s"`
	BlockLockMax           float64 `yaml:"block_lock_max_s"`
	BlockRerollMin         float64 `yaml:"block_reroll_min_s"`
	BlockRerollMax         float64 `yaml:"block_reroll_max_s"`
	BlockChanceLowHP       float64 `yaml:"block_chance_low_hp"`
	BlockChanceHighHP      float64 `yaml:"block_chance_high_hp"`
	RetreatHPFrac          float64 `yaml:"retreat_hp_frac"`
	RetreatSpeedMult       float64 `yaml:"retreat_speed_mult"`
	FlankChance            float64 `yaml:"flank_chance"`
	SpacingRadius          float64 `yaml:"spacing_radius"`
	ClumpCheckRadius       float64 `yaml:"clump_check_radius"`
	ClumpCheckCount        int     `yaml:"clump_check_count"`
	ClumpStrafeRange       float64 `yaml:"clump_strafe_range"`
	AttackRangePad         float64 `yaml:"attack_range_pad"`
	AttackCooldownMin      float64 `yaml:"attack_cooldown_min_s"`
	AttackCooldownMax      float64 `yaml:"attack_cooldown_max_s"`
	AttackActiveDuration   float64 `yaml:"attack_active_duration_s"`
	StaminaMax             float64 `yaml:"stamina_max"`
	StaminaRegenPerSec     float64 `yaml:"stamina_regen_per_sec"`
	StaminaDrainMoveMin    float64 `yaml:"stamina_drain_move_min"`
	StaminaDrainMoveMax    float64 `yaml:"stamina_drain_move_max"`
	StaminaHaltThreshold   float64 `yaml:"stamina_halt_threshold"`
	LODDistance            float64 `yaml:"lod_distance"`
	KiteBandArcherLow      float64 `yaml:"kite_band_archer_low"`
	KiteBandArcherHigh     float64 `yaml:"kite_band_archer_high"`
	KiteBandSpearLow       float64 `yaml:"kite_band_spear_low"`
	KiteBandSpearHigh      float64 `yaml:"kite_band_spear_high"`
	KiteBandPressLow       float64 `yaml:"kite_band_press_low"`
	KiteBandPressHigh      float64 `yaml:"kite_band_press_high"`

	TroopEngageRange       float64 `yaml:"troop_engage_range"`
	TroopArcherBandLow     float64 `yaml:"troop_archer_band_low"`
	TroopArcherBandHigh    float64 `yaml:"troop_archer_band_high"`
	TroopArcherCooldown    float64 `yaml:"troop_archer_cooldown_s"`
	TroopArcherActive      float64 `yaml:"troop_archer_active_s"`
	TroopMeleeRangePad     float64 `yaml:"troop_melee_range_pad"`
	TroopMeleeCooldown     float64 `yaml:"troop_melee_cooldown_s"`
	TroopMeleeActive       float64 `yaml:"troop_melee_active_s"`
	TroopChargeSpeedMult   float64 `yaml:"troop_charge_speed_mult"`
	TroopFormationRadius   float64 `yaml:"troop_formation_radius"`
	TroopDefendRadius      float64 `yaml:"troop_defend_radius"`
	BodyguardHPFrac        float64 `yaml:"bodyguard_hp_frac"`
	BodyguardRange         float64 `yaml:"bodyguard_range"`
	OrderFlashDuration     float64 `yaml:"order_flash_duration_s"`
}

type ProjectileConfig struct {
	Capacity        int     `yaml:"capacity"`
	DefaultLifetime float64 `yaml:"default_lifetime_s"`
	DefaultRadius   float64 `yaml:"default_radius"`
	MinLeadTime     float64 `yaml:"min_lead_time_s"`
	MaxLeadTime     float64 `yaml:"max_lead_time_s"`
	MinVelocityDT   float64 `yaml:"min_velocity_dt_s"`
	OcclusionPad    float64 `yaml:"occlusion_pad"`
}

type SaveConfig struct {
	Directory      string `yaml:"directory"`
	FileName       string `yaml:"file_name"`
	BackupDir      string `yaml:"backup_dir"`
	RetainedCount  int    `yaml:"retained_count"`
	CurrentVersion string `yaml:"current_version"`
}

type ClockConfig struct {
	MaxDT          float64 `yaml:"max_dt_s"`
	HitPauseScale  float64 `yaml:"hit_pause_scale"`
}

// Default returns the literal values named by the specification.
func Default() Config {
	return Config{
		Arena: ArenaConfig{
			Width: 1280, Height: 720, Border: 16,
			TroopSpacingX: 36, TroopSpacingY: 28,
		},
		World: WorldConfig{
			Width: 6000, Height: 6000,
			DiplomacyInterval:    30,
			AutoResolveInterval:  0.4,
			AutoResolveRadius:    1400,
			AutoResolveRange:     140,
			AutoResolveMaxChecks: 60,
			SpawnInterval:        6,
			BanditCampCap:        3,
			CastleCap:            5,
			GlobalArmyCap:        120,
			MinGlobalEnemies:     15,
			CastleSpawnRadius:    600,
			LODFarDistance:       1700,
			LODNearDistance:      1500,
			PatrolSpeedFrac:      0.4,
			ChaseSpeedFrac:       0.55,
			ChaseGiveUpDistance:  450,
			ChaseTriggerDistance: 300,
			PackAlertRadius:      200,
			ForestSpeedMult:      0.8,
			EncounterEnemyRadius: 300,
			EncounterMaxAdds:     4,
			SideBRange:           380,
			AllyPullRange:        320,
		},
		Combat: CombatConfig{
			InvulnDuration:       0.3,
			LightPoiseDamage:     20,
			HeavyPoiseDamage:     100,
			StaggerDuration:      1.5,
			PoiseRegenDelay:      3.0,
			PoiseRegenRate:       33,
			StaggerDamageMult:    1.25,
			HighGroundAttackMult: 1.2,
			HighGroundDefendMult: 0.9,
			ComboWindowMult:      0.3,
			ParryStunDuration:    1.5,
			ArmorDefenseCap:      0.75,
			ShieldDefenseBump:    0.05,
			ShieldDefenseCap:     0.9,
			PlayerAttackActive:    0.3,
			PlayerThrustRangeMult: 1.3,
			PlayerSlashRangeMult:  1.1,
			PlayerRangeMin:        50,
			PlayerRangeMax:        170,
			ComboWindowDuration:   0.9,
			KillXPPerLevel:        5,
			TroopKillXPPerLevel:   2,
			GoldMinPerLevel:       5,
			GoldMaxPerLevel:       15,
		},
		AI: AIConfig{
			TargetRefreshInterval: 0.35,
			IsolationRadius:       120,
			IsolationBonusPerUnit: 15,
			InvulnTargetPenalty:   80,
			BlockConeRange:        120,
			BlockConeDot:          0.5,
			BlockLockMin:          1.0,
			BlockLockMax:          2.0,
			BlockRerollMin:        0.3,
			BlockRerollMax:        0.6,
			BlockChanceLowHP:      0.75,
			BlockChanceHighHP:     0.50,
			RetreatHPFrac:         0.30,
			RetreatSpeedMult:      1.2,
			FlankChance:           0.40,
			SpacingRadius:         50,
			ClumpCheckRadius:      100,
			ClumpCheckCount:       2,
			ClumpStrafeRange:      120,
			AttackRangePad:        15,
			AttackCooldownMin:     1.0,
			AttackCooldownMax:     1.4,
			AttackActiveDuration:  0.3,
			StaminaMax:            100,
			StaminaRegenPerSec:    12,
			StaminaDrainMoveMin:   5,
			StaminaDrainMoveMax:   6,
			StaminaHaltThreshold:  10,
			LODDistance:           650,
			KiteBandArcherLow:     100,
			KiteBandArcherHigh:    140,
			KiteBandSpearLow:      80,
			KiteBandSpearHigh:     110,
			KiteBandPressLow:      30,
			KiteBandPressHigh:     60,

			TroopEngageRange:     150,
			TroopArcherBandLow:   90,
			TroopArcherBandHigh:  150,
			TroopArcherCooldown:  1.0,
			TroopArcherActive:    0.25,
			TroopMeleeRangePad:   20,
			TroopMeleeCooldown:   1.2,
			TroopMeleeActive:     0.3,
			TroopChargeSpeedMult: 1.2,
			TroopFormationRadius: 80,
			TroopDefendRadius:    50,
			BodyguardHPFrac:      0.35,
			BodyguardRange:       150,
			OrderFlashDuration:   0.4,
		},
		Projectile: ProjectileConfig{
			Capacity:        60,
			DefaultLifetime: 2.0,
			DefaultRadius:   4,
			MinLeadTime:     0.05,
			MaxLeadTime:     1.2,
			MinVelocityDT:   1.0 / 60.0,
			OcclusionPad:    6,
		},
		Save: SaveConfig{
			Directory:      "saves",
			FileName:       "savegame.json",
			BackupDir:      "saves/backups",
			RetainedCount:  5,
			CurrentVersion: "1.3",
		},
		Clock: ClockConfig{
			MaxDT:         0.1,
			HitPauseScale: 0.30,
		},
	}
}

// LoadYAML overrides fields of Default() with values found at path.
// Missing keys keep their default value; an unreadable or malformed file
// is reported to the caller, it never panics.
func LoadYAML(path string) (Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}
