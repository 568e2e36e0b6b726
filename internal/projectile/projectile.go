// Package projectile implements the fixed-capacity projectile pool of
// spec §4.E — the predictive-aim and friendly-occlusion archer kit —
// generalized from the teacher's tile-grid RangedWeapon.GetTargets/
// DisplayShootingVX pair (gear/equipmentcomponents.go) into continuous
// circle-collision projectiles, and grounded on
// original_source/src/battle_projectiles.py and
// original_source/src/battle_ai.py's _compute_lead_direction /
// _friendly_blocks_line for the solver and occlusion check.
package projectile

import (
	"math"

	"github.com/bytearena/ecs"

	"github.com/Htoledo30/jogo1/internal/catalog"
	"github.com/Htoledo30/jogo1/internal/config"
	"github.com/Htoledo30/jogo1/internal/entity"
	"github.com/Htoledo30/jogo1/internal/geo"
)

type Projectile struct {
	ID         int
	Pos        geo.Vec2
	Vel        geo.Vec2
	Damage     float64
	Lifetime   float64
	Radius     float64
	Team       entity.Team
	DamageType catalog.DamageType
	SourceID   ecs.EntityID
}

// HitFunc is invoked once per projectile hit so the arena controller can
// route it through the damage pipeline (§4.I) without this package
// importing it back.
type HitFunc func(p *Projectile, target *entity.Combatant)

// Manager owns the fixed-capacity pool. It is owned exclusively by one
// arena controller (§5 shared resources).
type Manager struct {
	cfg     config.ProjectileConfig
	items   []*Projectile
	nextID  int
}

func NewManager(cfg config.ProjectileConfig) *Manager {
	return &Manager{cfg: cfg}
}

// Spawn adds a projectile travelling at speed along dirUnit from origin.
// When the pool is at capacity the oldest entry is evicted first (spec
// §3/§7: capacity pressure is not an error).
func (m *Manager) Spawn(origin geo.Vec2, dirUnit geo.Vec2, speed, damage float64, team entity.Team, dt catalog.DamageType, source ecs.EntityID) *Projectile {
	if len(m.items) >= m.cfg.Capacity {
		m.items = m.items[1:]
	}
	m.nextID++
	p := &Projectile{
		ID:         m.nextID,
		Pos:        origin,
		Vel:        dirUnit.Scale(speed),
		Damage:     damage,
		Lifetime:   m.cfg.DefaultLifetime,
		Radius:     m.cfg.DefaultRadius,
		Team:       team,
		DamageType: dt,
		SourceID:   source,
	}
	m.items = append(m.items, p)
	return p
}

func (m *Manager) Count() int { return len(m.items) }
func (m *Manager) All() []*Projectile { return m.items }

// Update advances every projectile by dt, kills ones whose lifetime
// expires or that exit the arena border, and resolves collisions against
// the given candidate targets, skipping dead targets and targets on the
// projectile's own team. On hit, hit is invoked and the projectile is
// removed.
func (m *Manager) Update(dt float64, arenaW, arenaH float64, targets []*entity.Combatant, hit HitFunc) {
	alive := m.items[:0]
	for _, p := range m.items {
		p.Lifetime -= dt
		if p.Lifetime <= 0 {
			continue
		}
		p.Pos = p.Pos.Add(p.Vel.Scale(dt))

		if p.Pos.X < 0 || p.Pos.X > arenaW || p.Pos.Y < 0 || p.Pos.Y > arenaH {
			continue
		}

		hitSomething := false
		for _, t := range targets {
			if !t.Alive() || t.Team == p.Team {
				continue
			}
			if p.Pos.Dist(t.Pos) <= p.Radius+t.Radius {
				hit(p, t)
				hitSomething = true
				break
			}
		}
		if !hitSomething {
			alive = append(alive, p)
		}
	}
	m.items = alive
}

// LeadSolve implements the quadratic intercept solver of spec §4.E:
// given shooter, target position/velocity, and projectile speed, solve
// (v·v - s²)t² + 2(r·v)t + r·r = 0 for the smallest positive t, clamp to
// [minT,maxT], and aim at target+vel*t. If no positive real root exists
// (or velocity is unknown), dirFallback is returned unit-normalized.
func LeadSolve(shooterPos, targetPos, targetVel geo.Vec2, speed, minT, maxT float64, dirFallback geo.Vec2) geo.Vec2 {
	r := targetPos.Sub(shooterPos)
	v := targetVel

	a := v.Dot(v) - speed*speed
	b := 2 * r.Dot(v)
	c := r.Dot(r)

	var tImpact float64
	found := false

	if math.Abs(a) < 1e-6 {
		if math.Abs(b) > 1e-6 {
			t := -c / b
			if t > 0 {
				tImpact = t
				found = true
			}
		}
	} else {
		disc := b*b - 4*a*c
		if disc >= 0 {
			sqrtDisc := math.Sqrt(disc)
			t1 := (-b - sqrtDisc) / (2 * a)
			t2 := (-b + sqrtDisc) / (2 * a)
			best := math.Inf(1)
			if t1 > 0 && t1 < best {
				best = t1
			}
			if t2 > 0 && t2 < best {
				best = t2
			}
			if !math.IsInf(best, 1) {
				tImpact = best
				found = true
			}
		}
	}

	if !found {
		return dirFallback.Unit(geo.Vec2{X: 1})
	}

	tImpact = clampF(tImpact, minT, maxT)
	aim := r.Add(v.Scale(tImpact))
	return aim.Unit(dirFallback.Unit(geo.Vec2{X: 1}))
}

func clampF(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// FriendlyOcclusion reports whether any ally (alive, excluding the
// intended target) lies on the ray from shooter to target with
// parametric projection in (0, distTarget) and lateral distance <=
// ally.Radius+pad (spec §4.E friendly line-of-fire occlusion).
func FriendlyOcclusion(shooter, target geo.Vec2, allies []*entity.Combatant, intendedTargetID ecs.EntityID, pad float64) bool {
	ray := target.Sub(shooter)
	distTarget := ray.Len()
	if distTarget < 1e-9 {
		return false
	}
	dir := ray.Scale(1 / distTarget)

	for _, a := range allies {
		if !a.Alive() || a.ID == intendedTargetID {
			continue
		}
		toAlly := a.Pos.Sub(shooter)
		proj := toAlly.Dot(dir)
		if proj <= 0 || proj >= distTarget {
			continue
		}
		closest := shooter.Add(dir.Scale(proj))
		lateral := closest.Dist(a.Pos)
		if lateral <= a.Radius+pad {
			return true
		}
	}
	return false
}
