package save

import (
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/Htoledo30/jogo1/internal/config"
)

func testSaveCfg(dir string) config.SaveConfig {
	return config.SaveConfig{
		Directory:     dir,
		FileName:      "savegame.json",
		BackupDir:     filepath.Join(dir, "backups"),
		RetainedCount: 5,
	}
}

func legacyV1Doc(level int) []byte {
	doc := map[string]any{
		"version":          "1.0",
		"save_timestamp":   "2026-01-01T00:00:00Z",
		"game_time":        0.0,
		"player": map[string]any{
			"position":  map[string]any{"X": 0, "Y": 0},
			"stats":     map[string]any{"level": float64(level), "hp": 100.0, "hp_max": 100.0},
			"equipment": map[string]any{},
			"inventory": []any{},
		},
		"troops":           []any{},
		"world":            map[string]any{"seed": 1, "defeated_enemies": []any{}},
		"relations":        map[string]any{},
		"current_location": nil,
	}
	b, _ := json.Marshal(doc)
	return b
}

func TestApplyMigrationsBackfillsAttributesEvenly(t *testing.T) {
	raw := legacyV1Doc(6) // 5 attribute points to distribute

	out, err := ApplyMigrations(raw)
	if err != nil {
		t.Fatalf("ApplyMigrations error: %v", err)
	}

	var m map[string]any
	if err := json.Unmarshal(out, &m); err != nil {
		t.Fatalf("unmarshal migrated doc: %v", err)
	}
	if m["version"] != CurrentVersion {
		t.Errorf("version = %v, want %v", m["version"], CurrentVersion)
	}
	stats := m["player"].(map[string]any)["stats"].(map[string]any)

	total := 0
	for _, name := range []string{"strength", "agility", "vitality", "charisma", "skill"} {
		v, ok := stats[name].(float64)
		if !ok {
			t.Fatalf("missing backfilled attribute %q", name)
		}
		total += int(v) - 10
	}
	if total != 5 {
		t.Errorf("distributed points total = %d, want 5 (level 6 => level-1 points)", total)
	}
	if ap, _ := stats["attribute_points"].(float64); ap != 0 {
		t.Errorf("attribute_points after backfill = %v, want 0", ap)
	}
}

func TestApplyMigrationsIdempotentAtCurrentVersion(t *testing.T) {
	raw := legacyV1Doc(3)
	once, err := ApplyMigrations(raw)
	if err != nil {
		t.Fatalf("first ApplyMigrations error: %v", err)
	}
	twice, err := ApplyMigrations(once)
	if err != nil {
		t.Fatalf("second ApplyMigrations error: %v", err)
	}

	var m1, m2 map[string]any
	json.Unmarshal(once, &m1)
	json.Unmarshal(twice, &m2)
	if m1["version"] != m2["version"] {
		t.Errorf("version drifted on re-migration: %v -> %v", m1["version"], m2["version"])
	}
	s1 := m1["player"].(map[string]any)["stats"].(map[string]any)
	s2 := m2["player"].(map[string]any)["stats"].(map[string]any)
	if s1["strength"] != s2["strength"] {
		t.Error("re-running migrations on an already-migrated doc changed backfilled attributes")
	}
}

func TestValidateRejectsMissingTopLevelKey(t *testing.T) {
	raw := map[string]json.RawMessage{
		"version": json.RawMessage(`"1.3"`),
		"player":  json.RawMessage(`{}`),
	}
	if err := Validate(raw); err == nil {
		t.Error("expected an error for a document missing required top-level keys")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfg := testSaveCfg(dir)

	f := File{
		GameTime: 120,
		Player: PlayerSave{
			Stats: PlayerStats{HP: 80, HPMax: 100, Level: 4, Strength: 12},
		},
		Troops:    []TroopSave{},
		World:     WorldSave{Seed: 7, DefeatedEnemies: []string{"bandit_1"}},
		Relations: map[string]int{"kingdom": 10},
	}

	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	if err := Save(cfg, f, now); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	loaded, err := Load(filepath.Join(dir, "savegame.json"))
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if loaded.Version != CurrentVersion {
		t.Errorf("loaded version = %q, want %q", loaded.Version, CurrentVersion)
	}
	if loaded.Player.Stats.Level != 4 || loaded.Player.Stats.HP != 80 {
		t.Errorf("loaded player stats = %+v, want level 4 hp 80", loaded.Player.Stats)
	}
	if loaded.World.Seed != 7 {
		t.Errorf("loaded world seed = %d, want 7", loaded.World.Seed)
	}
}

func TestSaveRotatesBackupOnOverwrite(t *testing.T) {
	dir := t.TempDir()
	cfg := testSaveCfg(dir)

	f := File{Troops: []TroopSave{}, Relations: map[string]int{}}
	t1 := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	if err := Save(cfg, f, t1); err != nil {
		t.Fatalf("first Save error: %v", err)
	}
	t2 := time.Date(2026, 8, 1, 9, 0, 1, 0, time.UTC)
	if err := Save(cfg, f, t2); err != nil {
		t.Fatalf("second Save error: %v", err)
	}

	entries, err := filepathGlob(cfg.BackupDir)
	if err != nil {
		t.Fatalf("reading backup dir: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("backup file count = %d, want 1 (one backup taken before the second overwrite)", len(entries))
	}
}

func filepathGlob(dir string) ([]string, error) {
	return filepath.Glob(filepath.Join(dir, "savegame_*.json"))
}

func TestSaveAssignsAndPreservesSaveID(t *testing.T) {
	dir := t.TempDir()
	cfg := testSaveCfg(dir)

	f := File{Troops: []TroopSave{}, Relations: map[string]int{}}
	t1 := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	if err := Save(cfg, f, t1); err != nil {
		t.Fatalf("first Save error: %v", err)
	}
	first, err := Load(filepath.Join(dir, "savegame.json"))
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if first.SaveID == "" {
		t.Fatal("expected Save to assign a non-empty SaveID")
	}

	t2 := time.Date(2026, 8, 1, 9, 0, 1, 0, time.UTC)
	if err := Save(cfg, f, t2); err != nil {
		t.Fatalf("second Save error: %v", err)
	}
	second, err := Load(filepath.Join(dir, "savegame.json"))
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if second.SaveID != first.SaveID {
		t.Errorf("SaveID changed across overwrite: %q -> %q", first.SaveID, second.SaveID)
	}
}
