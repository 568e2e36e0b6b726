// Package world implements the overworld simulator of spec §4.J —
// diplomacy, auto-resolve casualty exchange between army markers,
// per-enemy patrol/chase AI with level-of-detail hysteresis, encounter
// triggering, and castle/camp spawning — grounded on the teacher's
// overworld/core/tick_system.go ordered subsystem orchestration,
// generalized from its turn-based "advance on player action" model into
// the spec's fixed-dt real-time tick.
package world

import (
	"fmt"
	"math"

	"github.com/bytearena/ecs"

	"github.com/Htoledo30/jogo1/internal/clock"
	"github.com/Htoledo30/jogo1/internal/config"
	"github.com/Htoledo30/jogo1/internal/entity"
	"github.com/Htoledo30/jogo1/internal/eventbus"
	"github.com/Htoledo30/jogo1/internal/geo"
)

// Terrain kinds affect army marker movement speed or block it outright.
type Terrain int

const (
	TerrainPlain Terrain = iota
	TerrainForest
	TerrainRiver
	TerrainMountain
)

// TerrainZone is an axis-aligned region of a single terrain kind.
type TerrainZone struct {
	Rect geo.Rect
	Kind Terrain
}

// Location is a castle or bandit camp: a spawn site for army markers.
type Location struct {
	ID          string
	Pos         geo.Vec2
	Faction     string
	IsBanditCamp bool
}

// AI states for an army marker (world-scoped, distinct from arena's).
const (
	StatePatrolling = iota
	StateChasing
)

const banditsFaction = "bandits"

// World owns every overworld entity and subsystem timer. Single-
// threaded; Tick is the only entry point that advances it.
type World struct {
	cfg config.WorldConfig

	em  *entity.Manager
	bus *eventbus.Bus
	rng *clock.RNG

	PlayerPos geo.Vec2

	Factions  []string
	Locations []Location
	Terrain   []TerrainZone

	Relations map[string]int   // factionID -> relation to player, [-100,100]
	WarSet    map[string]bool  // canonical "a|b" sorted pair -> at war

	diplomacyTimer   float64
	autoResolveTimer float64
	spawnTimer       float64

	armyIDs []ecs.EntityID

	wanderTimer map[ecs.EntityID]float64
	wanderDir   map[ecs.EntityID]geo.Vec2
	lodSkipped  map[ecs.EntityID]bool
}

// New creates an empty world bound to cfg and seed.
func New(cfg config.WorldConfig, seed int64) *World {
	return &World{
		cfg:         cfg,
		em:          entity.NewManager(),
		bus:         eventbus.New(),
		rng:         clock.NewRNG(seed),
		Relations:   map[string]int{},
		WarSet:      map[string]bool{},
		wanderTimer: map[ecs.EntityID]float64{},
		wanderDir:   map[ecs.EntityID]geo.Vec2{},
		lodSkipped:  map[ecs.EntityID]bool{},
	}
}

func warKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + "|" + b
}

// SetAtWar toggles the war state of an unordered faction pair.
func (w *World) SetAtWar(a, b string, atWar bool) {
	w.WarSet[warKey(a, b)] = atWar
}

// AtWar reports whether a and b are currently at war.
func (w *World) AtWar(a, b string) bool {
	return w.WarSet[warKey(a, b)]
}

// SpawnArmy adds an army marker to the world and returns its id.
func (w *World) SpawnArmy(pos geo.Vec2, faction string, size, tier int) ecs.EntityID {
	m := &entity.Combatant{
		Kind:     entity.KindArmyMarker,
		Faction:  faction,
		Pos:      pos,
		ArmySize: size,
		AvgTier:  tier,
	}
	m.Stats = entity.NewStats(1)
	id := w.em.Spawn(m)
	w.armyIDs = append(w.armyIDs, id)
	return id
}

// Tick advances the world by dt seconds, running diplomacy, auto-
// resolve, per-enemy AI, and spawning in that order (spec §4.J).
func (w *World) Tick(dt float64) error {
	w.tickDiplomacy(dt)
	if err := w.tickAutoResolve(dt); err != nil {
		return fmt.Errorf("world: auto-resolve: %w", err)
	}
	w.tickArmyAI(dt)
	w.tickSpawning(dt)
	return nil
}

// tickDiplomacy implements spec §4.J's diplomacy timer: every 30s, with
// at least 2 non-bandit factions present, flip a random pair's war
// membership, then re-assert the bandits-always-at-war invariant.
func (w *World) tickDiplomacy(dt float64) {
	w.diplomacyTimer += dt
	if w.diplomacyTimer < w.cfg.DiplomacyInterval {
		w.ensureBanditsAtWar()
		return
	}
	w.diplomacyTimer = 0

	nonBandit := make([]string, 0, len(w.Factions))
	for _, f := range w.Factions {
		if f != banditsFaction {
			nonBandit = append(nonBandit, f)
		}
	}
	if len(nonBandit) >= 2 {
		i := w.rng.IntN(len(nonBandit))
		j := w.rng.IntN(len(nonBandit))
		if j == i {
			j = (j + 1) % len(nonBandit)
		}
		a, b := nonBandit[i], nonBandit[j]
		w.SetAtWar(a, b, !w.AtWar(a, b))
	}
	w.ensureBanditsAtWar()
}

func (w *World) ensureBanditsAtWar() {
	for _, f := range w.Factions {
		if f == banditsFaction {
			continue
		}
		w.WarSet[warKey(banditsFaction, f)] = true
	}
}

// tickAutoResolve implements spec §4.J's stochastic casualty exchange
// between nearby warring army markers within range of the player.
func (w *World) tickAutoResolve(dt float64) error {
	w.autoResolveTimer += dt
	if w.autoResolveTimer < w.cfg.AutoResolveInterval {
		return nil
	}
	w.autoResolveTimer = 0

	tierPower := map[int]float64{1: 1.0, 2: 1.4, 3: 1.8}

	nearby := make([]*entity.Combatant, 0, len(w.armyIDs))
	for _, id := range w.armyIDs {
		m := w.em.Get(id)
		if m == nil {
			continue
		}
		if m.Pos.Dist(w.PlayerPos) <= w.cfg.AutoResolveRadius {
			nearby = append(nearby, m)
		}
	}

	checks := 0
	for i := 0; i < len(nearby) && checks < w.cfg.AutoResolveMaxChecks; i++ {
		for j := i + 1; j < len(nearby) && checks < w.cfg.AutoResolveMaxChecks; j++ {
			a, b := nearby[i], nearby[j]
			if a.Faction == b.Faction {
				continue
			}
			if a.Pos.Dist(b.Pos) > w.cfg.AutoResolveRange {
				continue
			}
			if !w.AtWar(a.Faction, b.Faction) {
				continue
			}
			checks++

			powerA := float64(a.ArmySize) * tierPower[a.AvgTier]
			powerB := float64(b.ArmySize) * tierPower[b.AvgTier]
			if powerA+powerB <= 0 {
				continue
			}

			events := 1 + w.rng.IntN(2)
			for k := 0; k < events; k++ {
				r := w.rng.Float64()
				if r < powerB/(powerA+powerB) {
					a.ArmySize--
				} else {
					b.ArmySize--
				}
			}
		}
	}

	w.removeDepletedArmies()
	return nil
}

func (w *World) removeDepletedArmies() {
	alive := w.armyIDs[:0]
	for _, id := range w.armyIDs {
		m := w.em.Get(id)
		if m == nil || m.ArmySize <= 0 {
			if m != nil {
				w.em.Remove(id)
			}
			continue
		}
		alive = append(alive, id)
	}
	w.armyIDs = alive
}

// tickArmyAI runs the per-enemy PATROLLING/CHASING state machine of
// spec §4.J, with LOD hysteresis (skip far entities, resume near ones).
func (w *World) tickArmyAI(dt float64) {
	for _, id := range w.armyIDs {
		m := w.em.Get(id)
		if m == nil {
			continue
		}
		dist := m.Pos.Dist(w.PlayerPos)
		if w.lodSkipped[m.ID] {
			if dist > w.cfg.LODNearDistance {
				continue
			}
			w.lodSkipped[m.ID] = false
		} else if dist > w.cfg.LODFarDistance {
			w.lodSkipped[m.ID] = true
			continue
		}

		speedMult := w.terrainSpeedMult(m.Pos)

		switch m.AIState {
		case StateChasing:
			if dist > w.cfg.ChaseGiveUpDistance {
				m.AIState = StatePatrolling
				break
			}
			dir := w.PlayerPos.Sub(m.Pos).Unit(geo.Vec2{})
			move := dir.Scale(m.Stats.Spd * w.cfg.ChaseSpeedFrac * speedMult * dt)
			w.moveArmy(m, move)
		default: // StatePatrolling
			hostile := m.Faction == banditsFaction || w.Relations[m.Faction] <= -30
			if hostile && dist <= w.cfg.ChaseTriggerDistance {
				m.AIState = StateChasing
				w.alertPack(m)
				break
			}
			if m.Faction == banditsFaction {
				if target := w.nearestNonBanditWithin(m.Pos, w.cfg.ChaseTriggerDistance); target != nil {
					dir := target.Pos.Sub(m.Pos).Unit(geo.Vec2{})
					w.moveArmy(m, dir.Scale(m.Stats.Spd*w.cfg.ChaseSpeedFrac*speedMult*dt))
					break
				}
			}
			w.wander(m, speedMult, dt)
		}
	}
}

func (w *World) alertPack(m *entity.Combatant) {
	for _, id := range w.armyIDs {
		other := w.em.Get(id)
		if other == nil || other == m || other.Faction != m.Faction {
			continue
		}
		if other.Pos.Dist(m.Pos) <= w.cfg.PackAlertRadius {
			other.AIState = StateChasing
		}
	}
}

func (w *World) nearestNonBanditWithin(pos geo.Vec2, radius float64) *entity.Combatant {
	var best *entity.Combatant
	bestDist := radius
	for _, id := range w.armyIDs {
		other := w.em.Get(id)
		if other == nil || other.Faction == banditsFaction {
			continue
		}
		d := other.Pos.Dist(pos)
		if d <= bestDist {
			best = other
			bestDist = d
		}
	}
	return best
}

func (w *World) wander(m *entity.Combatant, speedMult float64, dt float64) {
	w.wanderTimer[m.ID] -= dt
	if w.wanderTimer[m.ID] <= 0 {
		theta := w.rng.Float64() * 2 * math.Pi
		w.wanderDir[m.ID] = geo.Vec2{X: math.Cos(theta), Y: math.Sin(theta)}
		w.wanderTimer[m.ID] = 2 + w.rng.Float64()*2
	}
	dir := w.wanderDir[m.ID]
	w.moveArmy(m, dir.Scale(m.Stats.Spd*w.cfg.PatrolSpeedFrac*speedMult*dt))
}

func (w *World) moveArmy(m *entity.Combatant, delta geo.Vec2) {
	next := m.Pos.Add(delta)
	if w.terrainBlocks(next) {
		axisX := geo.Vec2{X: m.Pos.X + delta.X, Y: m.Pos.Y}
		axisY := geo.Vec2{X: m.Pos.X, Y: m.Pos.Y + delta.Y}
		if !w.terrainBlocks(axisX) {
			m.Pos = axisX
		} else if !w.terrainBlocks(axisY) {
			m.Pos = axisY
		}
		return
	}
	m.Pos = next
}

func (w *World) terrainSpeedMult(pos geo.Vec2) float64 {
	for _, z := range w.Terrain {
		if z.Kind == TerrainForest && z.Rect.Contains(pos) {
			return w.cfg.ForestSpeedMult
		}
	}
	return 1.0
}

func (w *World) terrainBlocks(pos geo.Vec2) bool {
	for _, z := range w.Terrain {
		if (z.Kind == TerrainRiver || z.Kind == TerrainMountain) && z.Rect.Contains(pos) {
			return true
		}
	}
	return false
}

// tickSpawning implements spec §4.J: every 6s, spawn an army marker per
// castle/camp under its per-site cap and the global cap, replenishing
// to a minimum global enemy count.
func (w *World) tickSpawning(dt float64) {
	w.spawnTimer += dt
	if w.spawnTimer < w.cfg.SpawnInterval {
		return
	}
	w.spawnTimer = 0

	if len(w.armyIDs) >= w.cfg.GlobalArmyCap {
		return
	}

	for _, loc := range w.Locations {
		if len(w.armyIDs) >= w.cfg.GlobalArmyCap {
			return
		}
		siteCap := w.cfg.CastleCap
		if loc.IsBanditCamp {
			siteCap = w.cfg.BanditCampCap
		}
		count := 0
		for _, id := range w.armyIDs {
			m := w.em.Get(id)
			if m != nil && m.Faction == loc.Faction && m.Pos.Dist(loc.Pos) <= w.cfg.CastleSpawnRadius {
				count++
			}
		}
		if count >= siteCap {
			continue
		}
		size := 1 + w.rng.IntN(10)
		tier := 1 + w.rng.IntN(3)
		w.SpawnArmy(loc.Pos, loc.Faction, size, tier)
	}

	w.replenishGlobalMinimum()
}

func (w *World) replenishGlobalMinimum() {
	for len(w.armyIDs) < w.cfg.MinGlobalEnemies && len(w.Locations) > 0 {
		loc := w.Locations[w.rng.IntN(len(w.Locations))]
		size := 1 + w.rng.IntN(10)
		tier := 1 + w.rng.IntN(3)
		w.SpawnArmy(loc.Pos, loc.Faction, size, tier)
	}
}

// TriggerEncounter implements spec §4.J's encounter trigger: removes
// the hostile entity and up to EncounterMaxAdds nearby enemies,
// assembles an optional side B from warring factions within
// SideBRange, and collects ally troops within AllyPullRange, then
// emits EncounterTriggered.
func (w *World) TriggerEncounter(hostile *entity.Combatant, seed int64) {
	sideA := []ecs.EntityID{hostile.ID}
	w.em.Remove(hostile.ID)
	w.removeFromArmyList(hostile.ID)

	added := 0
	for _, id := range append([]ecs.EntityID(nil), w.armyIDs...) {
		if added >= w.cfg.EncounterMaxAdds {
			break
		}
		m := w.em.Get(id)
		if m == nil || m.Faction != hostile.Faction {
			continue
		}
		if m.Pos.Dist(hostile.Pos) <= w.cfg.EncounterEnemyRadius {
			sideA = append(sideA, id)
			w.em.Remove(id)
			w.removeFromArmyList(id)
			added++
		}
	}

	var sideB []ecs.EntityID
	for _, id := range append([]ecs.EntityID(nil), w.armyIDs...) {
		m := w.em.Get(id)
		if m == nil || !w.AtWar(m.Faction, hostile.Faction) {
			continue
		}
		if m.Pos.Dist(w.PlayerPos) <= w.cfg.SideBRange {
			sideB = append(sideB, id)
			w.em.Remove(id)
			w.removeFromArmyList(id)
		}
	}

	var allyTroops []ecs.EntityID
	for _, id := range append([]ecs.EntityID(nil), w.armyIDs...) {
		m := w.em.Get(id)
		if m == nil {
			continue
		}
		if w.Relations[m.Faction] > 30 && m.Pos.Dist(w.PlayerPos) <= w.cfg.AllyPullRange {
			allyTroops = append(allyTroops, id)
			w.em.Remove(id)
			w.removeFromArmyList(id)
		}
	}

	w.bus.EncounterTriggered(sideA, sideB, allyTroops, seed, hostile.Faction)
}

func (w *World) removeFromArmyList(id ecs.EntityID) {
	out := w.armyIDs[:0]
	for _, a := range w.armyIDs {
		if a != id {
			out = append(out, a)
		}
	}
	w.armyIDs = out
}

// CheckCollision reports the first hostile army marker the player has
// collided with (distance <= radius), or nil if none, per spec §4.J's
// "on player-entity collision with hostile entity" trigger condition.
func (w *World) CheckCollision(radius float64) *entity.Combatant {
	for _, id := range w.armyIDs {
		m := w.em.Get(id)
		if m == nil {
			continue
		}
		hostile := m.Faction == banditsFaction || w.Relations[m.Faction] <= -30
		if hostile && m.Pos.Dist(w.PlayerPos) <= radius {
			return m
		}
	}
	return nil
}

// Armies returns every live army marker.
func (w *World) Armies() []*entity.Combatant {
	out := make([]*entity.Combatant, 0, len(w.armyIDs))
	for _, id := range w.armyIDs {
		if m := w.em.Get(id); m != nil {
			out = append(out, m)
		}
	}
	return out
}

// Events drains the event bus for this tick.
func (w *World) Events() []eventbus.Event { return w.bus.Drain() }
