package entity

import "github.com/bytearena/ecs"

// Manager wraps the ECS library's manager the way the teacher engine's
// common.EntityManager does, but owns a single Combatant component
// instead of a scatter of Position/Attributes/Name components — the
// uniform-record design note (§9) means one component carries the whole
// combatant.
type Manager struct {
	World     *ecs.Manager
	Component *ecs.Component
	AllTag    ecs.Tag

	view *ecs.View
}

// NewManager creates an empty slab ready to Spawn combatants into.
func NewManager() *Manager {
	m := &Manager{World: ecs.NewManager()}
	m.Component = m.World.NewComponent()
	m.AllTag = ecs.BuildTag(m.Component)
	m.view = m.World.CreateView(m.AllTag)
	return m
}

// Spawn creates a new entity, attaches c as its Combatant component, and
// stamps c.ID with the assigned EntityID.
func (m *Manager) Spawn(c *Combatant) ecs.EntityID {
	e := m.World.NewEntity()
	e.AddComponent(m.Component, c)
	c.ID = e.GetID()
	return c.ID
}

// Get returns the combatant with the given id, or nil if it is not in
// the slab (already removed).
func (m *Manager) Get(id ecs.EntityID) *Combatant {
	for _, r := range m.view.Get() {
		if r.Entity.GetID() == id {
			data, ok := r.Entity.GetComponentData(m.Component)
			if !ok {
				return nil
			}
			return data.(*Combatant)
		}
	}
	return nil
}

// All returns every combatant currently in the slab. The returned slice
// is a fresh copy each call; callers must not rely on stable ordering
// across ticks beyond what ecs.View guarantees.
func (m *Manager) All() []*Combatant {
	results := m.view.Get()
	out := make([]*Combatant, 0, len(results))
	for _, r := range results {
		data, ok := r.Entity.GetComponentData(m.Component)
		if !ok {
			continue
		}
		out = append(out, data.(*Combatant))
	}
	return out
}

// Remove disposes the entity backing id. Safe to call on an id already
// removed.
func (m *Manager) Remove(id ecs.EntityID) {
	for _, r := range m.view.Get() {
		if r.Entity.GetID() == id {
			m.World.DisposeEntity(r.Entity)
			return
		}
	}
}

// Count returns the number of live entities in the slab.
func (m *Manager) Count() int { return len(m.view.Get()) }
