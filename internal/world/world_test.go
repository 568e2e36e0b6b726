package world

import (
	"testing"

	"github.com/Htoledo30/jogo1/internal/config"
	"github.com/Htoledo30/jogo1/internal/geo"
)

func testWorldCfg() config.WorldConfig {
	return config.Default().World
}

func TestBanditsAlwaysAtWar(t *testing.T) {
	w := New(testWorldCfg(), 1)
	w.Factions = []string{"kingdom", "empire", banditsFaction}

	w.tickDiplomacy(0) // below interval, should still assert the invariant
	if !w.AtWar(banditsFaction, "kingdom") {
		t.Error("bandits must always be at war with kingdom")
	}
	if !w.AtWar(banditsFaction, "empire") {
		t.Error("bandits must always be at war with empire")
	}

	w.SetAtWar(banditsFaction, "kingdom", false)
	w.ensureBanditsAtWar()
	if !w.AtWar(banditsFaction, "kingdom") {
		t.Error("ensureBanditsAtWar must re-assert bandits-at-war even after a manual override")
	}
}

func TestAutoResolveDecrementsWeakerSide(t *testing.T) {
	cfg := testWorldCfg()
	cfg.AutoResolveInterval = 0
	cfg.AutoResolveRadius = 1000
	cfg.AutoResolveRange = 1000
	cfg.AutoResolveMaxChecks = 10

	w := New(cfg, 42)
	w.SetAtWar("kingdom", "empire", true)

	idA := w.SpawnArmy(geo.Vec2{X: 0, Y: 0}, "kingdom", 10, 2)
	idB := w.SpawnArmy(geo.Vec2{X: 10, Y: 0}, "empire", 2, 1)

	if err := w.tickAutoResolve(1.0); err != nil {
		t.Fatalf("tickAutoResolve error: %v", err)
	}

	foundA, foundB := false, false
	for _, m := range w.Armies() {
		if m.ID == idA {
			foundA = true
		}
		if m.ID == idB {
			foundB = true
			if m.ArmySize >= 2 {
				t.Errorf("weaker army size = %d, want fewer than starting 2 after casualty exchange", m.ArmySize)
			}
		}
	}
	if !foundA {
		t.Error("stronger army (10 @ tier 2) should have survived the exchange")
	}
	_ = foundB // empire army may have been fully depleted and removed; that is a valid outcome
}

func TestAutoResolveSkipsNonWarringFactions(t *testing.T) {
	cfg := testWorldCfg()
	cfg.AutoResolveInterval = 0
	cfg.AutoResolveRadius = 1000
	cfg.AutoResolveRange = 1000
	cfg.AutoResolveMaxChecks = 10

	w := New(cfg, 7)
	// no SetAtWar call: kingdom and empire are at peace

	w.SpawnArmy(geo.Vec2{X: 0, Y: 0}, "kingdom", 5, 1)
	w.SpawnArmy(geo.Vec2{X: 10, Y: 0}, "empire", 5, 1)

	if err := w.tickAutoResolve(1.0); err != nil {
		t.Fatalf("tickAutoResolve error: %v", err)
	}
	for _, m := range w.Armies() {
		if m.ArmySize != 5 {
			t.Errorf("army %d size = %d, want unchanged 5 (factions not at war)", m.ID, m.ArmySize)
		}
	}
}

func TestTriggerEncounterAssemblesSides(t *testing.T) {
	cfg := testWorldCfg()
	cfg.EncounterMaxAdds = 5
	cfg.EncounterEnemyRadius = 100
	cfg.SideBRange = 500
	cfg.AllyPullRange = 500

	w := New(cfg, 3)
	w.PlayerPos = geo.Vec2{X: 0, Y: 0}
	w.SetAtWar("bandits", "kingdom", true)
	w.Relations["kingdom"] = 50

	hostileID := w.SpawnArmy(geo.Vec2{X: 10, Y: 0}, "bandits", 4, 1)
	w.SpawnArmy(geo.Vec2{X: 20, Y: 0}, "bandits", 3, 1)
	w.SpawnArmy(geo.Vec2{X: 5, Y: 5}, "kingdom", 6, 2)

	before := len(w.Armies())
	for _, m := range w.Armies() {
		if m.ID == hostileID {
			w.TriggerEncounter(m, 99)
			break
		}
	}
	after := len(w.Armies())
	if after >= before {
		t.Errorf("army count after encounter = %d, want fewer than %d (sides pulled out)", after, before)
	}

	events := w.Events()
	found := false
	for _, e := range events {
		if e.Faction == "bandits" && e.Seed == 99 {
			found = true
			if len(e.SideA) == 0 {
				t.Error("side A should contain at least the hostile army")
			}
		}
	}
	if !found {
		t.Error("expected an Encounter event tagged with the hostile faction and seed")
	}
}
