// Package save implements the save/load boundary of spec §4.K — the
// JSON schema of §6, sequential migrations from 1.0 through the
// current 1.3 that backfill the attribute system, top-level key
// validation, and timestamped-backup retention — grounded on the
// teacher's savesystem/savesystem.go envelope/atomic-write/backup
// pattern, generalized from its chunk-registry shape (many independent
// SaveChunk implementations) to the spec's single flat envelope since
// the spec defines one normative document, not a per-subsystem chunk
// set.
package save

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/Htoledo30/jogo1/internal/config"
	"github.com/Htoledo30/jogo1/internal/geo"
)

const CurrentVersion = "1.3"

// PlayerStats mirrors the normative player.stats keys of spec §6.
type PlayerStats struct {
	HP                float64 `json:"hp"`
	HPMax             float64 `json:"hp_max"`
	Atk               float64 `json:"atk"`
	Spd               float64 `json:"spd"`
	Level             int     `json:"level"`
	XP                float64 `json:"xp"`
	XPToNextLevel     float64 `json:"xp_to_next_level"`
	Food              float64 `json:"food"`
	Gold              float64 `json:"gold"`
	Strength          int     `json:"strength"`
	Agility           int     `json:"agility"`
	Vitality          int     `json:"vitality"`
	Charisma          int     `json:"charisma"`
	Skill             int     `json:"skill"`
	AttributePoints   int     `json:"attribute_points"`
	StaminaMax        float64 `json:"stamina_max"`
	CritChance        float64 `json:"crit_chance"`
	CritDamage        float64 `json:"crit_damage"`
	BlockPower        float64 `json:"block_power"`
	GoldBonus         float64 `json:"gold_bonus"`
	TroopBonus        float64 `json:"troop_bonus"`
	Defense           float64 `json:"defense"`
	ParryWindow       float64 `json:"parry_window"`
	AttackSpeedBonus  float64 `json:"attack_speed_bonus"`
	StaminaRegenBonus float64 `json:"stamina_regen_bonus"`
	ShopDiscount      float64 `json:"shop_discount"`
}

// Equipment mirrors player.equipment.
type Equipment struct {
	Weapon string `json:"weapon"`
	Helmet string `json:"helmet"`
	Chest  string `json:"chest"`
	Legs   string `json:"legs"`
	Boots  string `json:"boots"`
}

// PlayerSave mirrors the normative player object.
type PlayerSave struct {
	Position  geo.Vec2         `json:"position"`
	Stats     PlayerStats      `json:"stats"`
	Equipment Equipment        `json:"equipment"`
	Inventory []map[string]any `json:"inventory"`
}

// TroopSave mirrors one entry of the normative troops array.
type TroopSave struct {
	ID       uint64         `json:"id"`
	Type     string         `json:"type"`
	Position geo.Vec2       `json:"position"`
	Stats    map[string]any `json:"stats"`
}

// WorldSave mirrors the normative world object.
type WorldSave struct {
	Seed            int64    `json:"seed"`
	DefeatedEnemies []string `json:"defeated_enemies"`
}

// File is the top-level save document of spec §6. SaveID is a stable
// identifier minted once on a slot's first write and carried across
// every subsequent overwrite, so a save file and its rotated backups
// can be traced back to the same playthrough even after the slot has
// been reused.
type File struct {
	Version         string         `json:"version"`
	SaveID          string         `json:"save_id,omitempty"`
	SaveTimestamp   string         `json:"save_timestamp"`
	GameTime        float64        `json:"game_time"`
	Player          PlayerSave     `json:"player"`
	Troops          []TroopSave    `json:"troops"`
	World           WorldSave      `json:"world"`
	Relations       map[string]int `json:"relations"`
	CurrentLocation *string        `json:"current_location"`
}

var requiredTopLevelKeys = []string{
	"version", "save_timestamp", "game_time", "player", "troops",
	"world", "relations", "current_location",
}

// Validate checks that every normative top-level key is present in raw
// JSON. Missing keys fail corrupted-save handling (spec §7).
func Validate(raw map[string]json.RawMessage) error {
	for _, k := range requiredTopLevelKeys {
		if _, ok := raw[k]; !ok {
			return fmt.Errorf("save: missing top-level key %q", k)
		}
	}
	return nil
}

// migrationSteps runs in order; each receives the current decoded
// document and mutates it in place to the next version, backfilling
// spec §4.K's attribute-system fields by distributing (level-1) points
// evenly across the 5 attributes and zeroing pending points.
var migrationSteps = []struct {
	from, to string
	apply    func(m map[string]any)
}{
	{"1.0", "1.1", backfillAttributes},
	{"1.1", "1.2", func(m map[string]any) {}},
	{"1.2", "1.3", func(m map[string]any) {}},
}

func backfillAttributes(m map[string]any) {
	player, _ := m["player"].(map[string]any)
	if player == nil {
		return
	}
	stats, _ := player["stats"].(map[string]any)
	if stats == nil {
		return
	}
	if _, ok := stats["strength"]; ok {
		return // already has attribute fields, nothing to backfill
	}
	level := 1
	if lv, ok := stats["level"].(float64); ok {
		level = int(lv)
	}
	points := level - 1
	per := points / 5
	rem := points % 5
	names := []string{"strength", "agility", "vitality", "charisma", "skill"}
	for i, n := range names {
		v := per
		if i < rem {
			v++
		}
		stats[n] = 10 + v
	}
	stats["attribute_points"] = 0
}

// ApplyMigrations walks raw through migrationSteps from its current
// version string to CurrentVersion, in order. Idempotent at the
// current version: calling it on an already-current document is a
// no-op.
func ApplyMigrations(raw []byte) ([]byte, error) {
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("save: unmarshal for migration: %w", err)
	}

	version, _ := m["version"].(string)
	if version == "" {
		version = "1.0"
	}

	for _, step := range migrationSteps {
		if version != step.from {
			continue
		}
		step.apply(m)
		m["version"] = step.to
		version = step.to
	}

	out, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("save: marshal after migration: %w", err)
	}
	return out, nil
}

// Load reads, validates top-level keys, migrates, and decodes a save
// file at path. A corrupted save (bad JSON, missing keys) is reported
// to the caller and never applied (spec §7).
func Load(path string) (File, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("save: read %s: %w", path, err)
	}

	var rawMap map[string]json.RawMessage
	if err := json.Unmarshal(raw, &rawMap); err != nil {
		return File{}, fmt.Errorf("save: corrupted save (bad json): %w", err)
	}

	migrated, err := ApplyMigrations(raw)
	if err != nil {
		return File{}, err
	}

	if err := json.Unmarshal(migrated, &rawMap); err != nil {
		return File{}, fmt.Errorf("save: corrupted save after migration: %w", err)
	}
	if err := Validate(rawMap); err != nil {
		return File{}, fmt.Errorf("save: corrupted save: %w", err)
	}

	var f File
	if err := json.Unmarshal(migrated, &f); err != nil {
		return File{}, fmt.Errorf("save: decode %s: %w", path, err)
	}
	return f, nil
}

// Save writes f to cfg's save path atomically (write to .tmp, rename),
// first rotating a timestamped backup into cfg.BackupDir and trimming
// to cfg.RetainedCount, per spec §4.K.
func Save(cfg config.SaveConfig, f File, now time.Time) error {
	f.Version = CurrentVersion
	f.SaveTimestamp = now.UTC().Format(time.RFC3339)
	if f.SaveID == "" {
		if existing, err := Load(filepath.Join(cfg.Directory, cfg.FileName)); err == nil && existing.SaveID != "" {
			f.SaveID = existing.SaveID
		} else {
			f.SaveID = uuid.NewString()
		}
	}

	if err := os.MkdirAll(cfg.Directory, 0o755); err != nil {
		return fmt.Errorf("save: mkdir %s: %w", cfg.Directory, err)
	}

	out, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("save: marshal: %w", err)
	}

	savePath := filepath.Join(cfg.Directory, cfg.FileName)

	if _, err := os.Stat(savePath); err == nil {
		if err := backup(cfg, savePath, now); err != nil {
			return fmt.Errorf("save: backup: %w", err)
		}
	}

	tmpPath := savePath + ".tmp"
	if err := os.WriteFile(tmpPath, out, 0o644); err != nil {
		return fmt.Errorf("save: write temp: %w", err)
	}
	if err := os.Rename(tmpPath, savePath); err != nil {
		return fmt.Errorf("save: finalize: %w", err)
	}
	return nil
}

func backup(cfg config.SaveConfig, savePath string, now time.Time) error {
	if err := os.MkdirAll(cfg.BackupDir, 0o755); err != nil {
		return err
	}
	stamp := now.UTC().Format("20060102_150405")
	dest := filepath.Join(cfg.BackupDir, fmt.Sprintf("savegame_%s_%s.json", stamp, uuid.NewString()[:8]))

	data, err := os.ReadFile(savePath)
	if err != nil {
		return err
	}
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return err
	}
	return trimBackups(cfg)
}

func trimBackups(cfg config.SaveConfig) error {
	entries, err := os.ReadDir(cfg.BackupDir)
	if err != nil {
		return err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	if len(names) <= cfg.RetainedCount {
		return nil
	}
	for _, n := range names[:len(names)-cfg.RetainedCount] {
		if err := os.Remove(filepath.Join(cfg.BackupDir, n)); err != nil {
			return err
		}
	}
	return nil
}
