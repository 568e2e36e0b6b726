// Package eventbus implements the per-tick FIFO of observable events
// described in spec §4.L. The core is the sole producer; the
// renderer/UI shell is the sole consumer, draining once per tick after
// the arena/world controller finishes — the core never awaits it (§5).
package eventbus

import (
	"github.com/bytearena/ecs"

	"github.com/Htoledo30/jogo1/internal/geo"
)

type Kind int

const (
	Hit Kind = iota
	Parry
	Block
	Crit
	Death
	ComboUp
	Promotion
	Encounter
	DamageNumber
	ScreenShake
	HitPause
	NotifyError
)

// Event is a tagged union of every event the core can emit. Only the
// fields relevant to Kind are populated; the rest are zero.
type Event struct {
	Kind Kind

	Pos    geo.Vec2
	Damage float64
	Color  string

	EntityID ecs.EntityID
	Tier     int

	Text string
	Amount float64

	Message string

	SideA      []ecs.EntityID
	SideB      []ecs.EntityID
	AllyTroops []ecs.EntityID
	Seed       int64
	Faction    string
}

// Bus is an ordered, single-producer FIFO. Events are appended in
// occurrence order during a tick and made visible atomically at Drain.
type Bus struct {
	pending []Event
}

func New() *Bus { return &Bus{} }

func (b *Bus) push(e Event) { b.pending = append(b.pending, e) }

func (b *Bus) Hit(pos geo.Vec2, dmg float64, color string) {
	b.push(Event{Kind: Hit, Pos: pos, Damage: dmg, Color: color})
}

func (b *Bus) Parry(pos geo.Vec2) { b.push(Event{Kind: Parry, Pos: pos}) }
func (b *Bus) Block(pos geo.Vec2) { b.push(Event{Kind: Block, Pos: pos}) }
func (b *Bus) Crit(pos geo.Vec2)  { b.push(Event{Kind: Crit, Pos: pos}) }

func (b *Bus) Death(id ecs.EntityID) { b.push(Event{Kind: Death, EntityID: id}) }

func (b *Bus) ComboUp(tier int) { b.push(Event{Kind: ComboUp, Tier: tier}) }

func (b *Bus) Promotion(troop ecs.EntityID) { b.push(Event{Kind: Promotion, EntityID: troop}) }

func (b *Bus) EncounterTriggered(sideA, sideB, allyTroops []ecs.EntityID, seed int64, faction string) {
	b.push(Event{Kind: Encounter, SideA: sideA, SideB: sideB, AllyTroops: allyTroops, Seed: seed, Faction: faction})
}

func (b *Bus) DamageNumber(pos geo.Vec2, text, color string) {
	b.push(Event{Kind: DamageNumber, Pos: pos, Text: text, Color: color})
}

func (b *Bus) ScreenShake(amount float64) { b.push(Event{Kind: ScreenShake, Amount: amount}) }
func (b *Bus) HitPause(amount float64)    { b.push(Event{Kind: HitPause, Amount: amount}) }

func (b *Bus) NotifyError(message string) { b.push(Event{Kind: NotifyError, Message: message}) }

// Drain returns every event queued since the last Drain and clears the
// queue. Safe to call once per tick from the single consumer side.
func (b *Bus) Drain() []Event {
	out := b.pending
	b.pending = nil
	return out
}

// Len reports the number of events currently queued, useful for tests
// that assert nothing was emitted.
func (b *Bus) Len() int { return len(b.pending) }
