// Package arena implements the single-battle controller of spec §4.F —
// the per-tick phase sequence (hit-pause, cooldowns, player input,
// enemy AI, troop AI, projectiles, damage resolution, bookkeeping,
// victory check) that every arena battle runs under, grounded on the
// teacher's overworld/core/tick_system.go ordered TickAdvancer list,
// generalized from its discrete turn queue into the spec's continuous
// per-frame phase pipeline.
package arena

import (
	"math"

	"github.com/bytearena/ecs"

	"github.com/Htoledo30/jogo1/internal/catalog"
	"github.com/Htoledo30/jogo1/internal/clock"
	"github.com/Htoledo30/jogo1/internal/config"
	"github.com/Htoledo30/jogo1/internal/damage"
	"github.com/Htoledo30/jogo1/internal/enemyai"
	"github.com/Htoledo30/jogo1/internal/entity"
	"github.com/Htoledo30/jogo1/internal/eventbus"
	"github.com/Htoledo30/jogo1/internal/geo"
	"github.com/Htoledo30/jogo1/internal/projectile"
	"github.com/Htoledo30/jogo1/internal/troopai"
)

// Input is the per-tick inbound command from the shell (spec §6).
type Input struct {
	MoveX, MoveY int // each in {-1,0,1}
	AttackHeld   bool
	Heavy        bool
	BlockHeld    bool
	Aim          geo.Vec2
	OrderKey     troopai.Order
	FormationKey troopai.Formation
}

// Encounter describes the combatants a battle starts with (spec §4.F
// start_battle contract).
type Encounter struct {
	Enemies    []*entity.Combatant
	EnemiesB   []*entity.Combatant // optional second side, AI-vs-AI
	AllyTroops []*entity.Combatant
	Faction    string
	Seed       int64
}

// Outcome is published once the battle is done (spec §6 BattleOutcome).
type Outcome struct {
	Victory         bool
	PlayerHP        float64
	XPGranted       float64
	GoldGranted     float64
	DefeatedEnemies []ecs.EntityID
	SurvivingTroops []ecs.EntityID
	PromotedTroops  []ecs.EntityID
}

// Controller owns one battle's whole mutable state (spec §4.F). It is
// single-threaded: Tick is the only entry point that advances it.
type Controller struct {
	cfg config.Config
	em  *entity.Manager
	bus *eventbus.Bus
	rng *clock.RNG
	fc  *clock.FrameClock
	proj *projectile.Manager

	playerID  ecs.EntityID
	troopIDs  []ecs.EntityID
	enemyIDs  []ecs.EntityID
	enemyBIDs []ecs.EntityID

	assigned map[ecs.EntityID]*troopai.AssignedTarget
	nextEnemyRR int

	order     troopai.Order
	formation troopai.Formation
	focusID   ecs.EntityID

	highGround []geo.Rect
	theme      string

	orderFlashTimer float64

	done    bool
	victory bool

	defeatedEnemies []ecs.EntityID
	promotedTroops  []ecs.EntityID
	xpGranted       float64
	goldGranted     float64
}

// NewController creates an empty controller bound to cfg and seed. Call
// StartBattle to populate it.
func NewController(cfg config.Config, seed int64) *Controller {
	return &Controller{
		cfg:      cfg,
		em:       entity.NewManager(),
		bus:      eventbus.New(),
		rng:      clock.NewRNG(seed),
		fc:       clock.NewFrameClock(cfg.Clock),
		proj:     projectile.NewManager(cfg.Projectile),
		assigned: map[ecs.EntityID]*troopai.AssignedTarget{},
	}
}

// StartBattle positions the player/troops on the left half of the arena
// in a spacing-36x28 grid around the player, enemies distributed along
// the right side (and enemiesB, when present, for an AI-vs-AI battle),
// per spec §4.F start_battle.
func (c *Controller) StartBattle(player *entity.Combatant, enc Encounter) {
	arenaW, arenaH := c.cfg.Arena.Width, c.cfg.Arena.Height

	player.Pos = geo.Vec2{X: arenaW * 0.25, Y: arenaH * 0.5}
	player.Team = entity.TeamA
	player.Kind = entity.KindPlayer
	c.playerID = c.em.Spawn(player)

	cols := int(math.Ceil(math.Sqrt(float64(len(enc.AllyTroops)))))
	if cols == 0 {
		cols = 1
	}
	for i, tr := range enc.AllyTroops {
		row := i / cols
		col := i % cols
		tr.Team = entity.TeamA
		tr.Kind = entity.KindTroop
		tr.Pos = geo.Vec2{
			X: player.Pos.X - float64(col+1)*c.cfg.Arena.TroopSpacingX,
			Y: player.Pos.Y + (float64(row)-float64(len(enc.AllyTroops))/float64(cols)/2)*c.cfg.Arena.TroopSpacingY,
		}
		id := c.em.Spawn(tr)
		c.troopIDs = append(c.troopIDs, id)
	}

	placeSide(c, enc.Enemies, entity.TeamB, arenaW*0.75, arenaH, &c.enemyIDs)
	if len(enc.EnemiesB) > 0 {
		placeSide(c, enc.EnemiesB, entity.TeamB, arenaW*0.9, arenaH, &c.enemyBIDs)
	}

	c.rebuildAssignments()
}

func placeSide(c *Controller, list []*entity.Combatant, team entity.Team, centerX, arenaH float64, out *[]ecs.EntityID) {
	cols := int(math.Ceil(math.Sqrt(float64(len(list)))))
	if cols == 0 {
		cols = 1
	}
	for i, e := range list {
		row := i / cols
		col := i % cols
		e.Team = team
		e.Kind = entity.KindEnemy
		e.Pos = geo.Vec2{
			X: centerX + float64(col)*40,
			Y: arenaH*0.5 + (float64(row)-float64(len(list))/float64(cols)/2)*40,
		}
		id := c.em.Spawn(e)
		*out = append(*out, id)
	}
}

func (c *Controller) rebuildAssignments() {
	alive := c.aliveEnemies()
	if len(alive) == 0 {
		return
	}
	for _, tid := range c.troopIDs {
		a := c.assigned[tid]
		if a == nil {
			a = &troopai.AssignedTarget{}
			c.assigned[tid] = a
		}
		if findCombatant(alive, a.ID) == nil {
			a.ID = alive[c.nextEnemyRR%len(alive)].ID
			c.nextEnemyRR++
		}
	}
}

// Tick advances the battle by rawDT seconds of wall clock, running the
// ordered phase sequence of spec §4.F.
func (c *Controller) Tick(rawDT float64, in Input) {
	if c.done {
		return
	}

	dt := c.fc.Advance(rawDT)

	player := c.em.Get(c.playerID)
	if player == nil {
		return
	}

	c.tickTimers(dt, player)
	c.playerInput(dt, in, player)
	c.enemyPhase(dt, player)
	c.troopPhase(dt, player, in)
	c.projectilePhase(dt)
	c.lastPositionStash()

	if in.OrderKey != c.order || in.FormationKey != c.formation {
		c.orderFlashTimer = c.cfg.AI.OrderFlashDuration
	}
	c.order = in.OrderKey
	c.formation = in.FormationKey

	c.checkVictory(player)
}

func (c *Controller) tickTimers(dt float64, player *entity.Combatant) {
	for _, e := range c.em.All() {
		e.TickTimers(dt, c.cfg.Combat.PoiseRegenDelay, c.cfg.Combat.PoiseRegenRate)
		if e.AttackCooldown > 0 {
			e.AttackCooldown -= dt
			if e.AttackCooldown < 0 {
				e.AttackCooldown = 0
			}
		}
		if e.AttackActiveTimer > 0 {
			e.AttackActiveTimer -= dt
			if e.AttackActiveTimer < 0 {
				e.AttackActiveTimer = 0
			}
		}
		if e.StunTimer > 0 {
			e.StunTimer -= dt
			if e.StunTimer < 0 {
				e.StunTimer = 0
			}
		}
		if e.BlockDecisionTimer > 0 {
			e.BlockDecisionTimer -= dt
			if e.BlockDecisionTimer < 0 {
				e.BlockDecisionTimer = 0
			}
		}
		if e.TargetRefreshTimer > 0 {
			e.TargetRefreshTimer -= dt
			if e.TargetRefreshTimer < 0 {
				e.TargetRefreshTimer = 0
			}
		}
		if e.ComboTimer > 0 {
			e.ComboTimer -= dt
			if e.ComboTimer <= 0 {
				e.ComboTimer = 0
				e.ComboCount = 0
			}
		}
	}
	if c.orderFlashTimer > 0 {
		c.orderFlashTimer -= dt
		if c.orderFlashTimer < 0 {
			c.orderFlashTimer = 0
		}
	}
}

func (c *Controller) playerInput(dt float64, in Input, player *entity.Combatant) {
	if player.StunTimer > 0 {
		return
	}

	move := geo.Vec2{X: float64(in.MoveX), Y: float64(in.MoveY)}.Unit(geo.Vec2{})
	player.Velocity = move.Scale(player.Stats.Spd)
	player.Pos = player.Pos.Add(player.Velocity.Scale(dt))
	player.ClampToArena(c.cfg.Arena.Width, c.cfg.Arena.Height, c.cfg.Arena.Border)

	if in.Aim.LenSq() > 0 {
		player.Facing = in.Aim.Unit(player.Facing)
	}

	player.IsBlocking = in.BlockHeld && !in.AttackHeld
	if player.IsBlocking {
		player.BlockElapsed += dt
	} else {
		player.BlockElapsed = 0
	}

	if in.AttackHeld && player.AttackCooldown <= 0 && !player.IsBlocking {
		c.initiatePlayerAttack(player, in.Heavy)
	}

	c.resolveActiveAttack(player, player.IsHeavyAttack)
}

func (c *Controller) initiatePlayerAttack(player *entity.Combatant, heavy bool) {
	w, _ := catalog.GetWeapon(player.Equipment.WeaponID)
	player.AttackCooldown = w.Cooldown
	player.AttackActiveTimer = c.cfg.Combat.PlayerAttackActive
	player.IsHeavyAttack = heavy
	player.HitThisSwing = map[ecs.EntityID]bool{}

	if player.ComboTimer > 0 {
		player.ComboCount++
	} else {
		player.ComboCount = 1
	}
	player.ComboTimer = c.cfg.Combat.ComboWindowDuration
	if player.ComboCount > 1 {
		c.bus.ComboUp(comboTier(player.ComboCount))
	}

	if w.IsRanged {
		aim := player.Facing.Unit(geo.Vec2{X: 1})
		c.proj.Spawn(player.Pos, aim, 480, player.Stats.Atk*w.DamageMult, player.Team, w.DamageType, player.ID)
	}
}

func comboTier(count int) int {
	switch {
	case count >= 9:
		return 4
	case count >= 7:
		return 3
	case count >= 5:
		return 2
	case count >= 3:
		return 1
	default:
		return 0
	}
}

// resolveActiveAttack implements §4.I steps 1-3 (the controller-owned
// window/range/hit-set checks) then hands off to damage.Resolve for
// steps 4-11, for every live candidate target.
func (c *Controller) resolveActiveAttack(attacker *entity.Combatant, heavy bool) {
	if attacker.AttackActiveTimer <= 0 {
		return
	}

	w, _ := catalog.GetWeapon(attacker.Equipment.WeaponID)

	var effRange float64
	if attacker.Kind == entity.KindPlayer {
		mult := c.cfg.Combat.PlayerSlashRangeMult
		if w.Style == catalog.AttackThrust {
			mult = c.cfg.Combat.PlayerThrustRangeMult
		}
		effRange = attacker.Radius + clampF(w.Range*mult, c.cfg.Combat.PlayerRangeMin, c.cfg.Combat.PlayerRangeMax)
	}

	for _, target := range c.em.All() {
		if target == attacker || target.Team == attacker.Team || !target.Alive() {
			continue
		}
		if attacker.HitThisSwing != nil && attacker.HitThisSwing[target.ID] {
			continue
		}

		var inRange bool
		if attacker.Kind == entity.KindPlayer {
			inRange = attacker.Pos.Dist(target.Pos) <= effRange
		} else {
			inRange = attacker.Pos.Dist(target.Pos) <= attacker.Radius+target.Radius+c.cfg.AI.AttackRangePad
		}
		if !inRange {
			continue
		}

		info := damage.AttackInfo{
			AttackerIsPlayer:   attacker.Kind == entity.KindPlayer,
			WeaponDamageMult:   w.DamageMult,
			DamageType:         w.DamageType,
			ComboCount:         attacker.ComboCount,
			IsHeavy:            heavy,
			AttackerHighGround: c.onHighGround(attacker.Pos),
			DefenderHighGround: c.onHighGround(target.Pos),
		}
		if attacker.Kind != entity.KindPlayer {
			info.WeaponDamageMult = 1.0
			info.ComboCount = 0
		}

		res := damage.Resolve(c.bus, c.rng, c.cfg.Combat, attacker, target, info)
		if res.Applied {
			if attacker.HitThisSwing == nil {
				attacker.HitThisSwing = map[ecs.EntityID]bool{}
			}
			attacker.HitThisSwing[target.ID] = true
			c.postHit(res, heavy)
		}
		if res.DefenderDied {
			c.onDeath(attacker, target)
		}
	}
}

// postHit triggers hit-pause dilation and emits the screen-shake event
// for impactful hits (crits and heavy attacks), per the teacher's
// feel-good-juice convention of pausing briefly on a strong hit.
func (c *Controller) postHit(res damage.Result, heavy bool) {
	if !res.Crit && !heavy {
		return
	}
	amount := 0.05
	if res.Crit && heavy {
		amount = 0.12
	}
	c.fc.TriggerHitPause(amount)
	c.bus.HitPause(amount)
	c.bus.ScreenShake(amount)
}

func (c *Controller) onDeath(killer, dead *entity.Combatant) {
	if dead.Kind == entity.KindEnemy {
		c.defeatedEnemies = append(c.defeatedEnemies, dead.ID)
		c.grantKillRewards(dead)
		if killer.Kind == entity.KindTroop {
			entity.GrantXP(&killer.Stats, float64(dead.Stats.Level)*c.cfg.Combat.TroopKillXPPerLevel)
		}
		c.rebuildAssignments()
	}
	c.em.Remove(dead.ID)
}

func (c *Controller) onHighGround(pos geo.Vec2) bool {
	for _, r := range c.highGround {
		if r.Contains(pos) {
			return true
		}
	}
	return false
}

func (c *Controller) enemyPhase(dt float64, player *entity.Combatant) {
	candidates := c.buildEnemyCandidates(player)
	for _, id := range c.enemyIDs {
		e := c.em.Get(id)
		if e == nil || !e.Alive() {
			continue
		}
		ctx := enemyai.Context{
			Cfg:                c.cfg.AI,
			ProjCfg:            c.cfg.Projectile,
			RNG:                c.rng,
			Projectile:         c.proj,
			Player:             player,
			PlayerAttackActive: player.AttackActiveTimer > 0,
			PlayerAttackDir:    player.Facing,
			Candidates:         candidates,
			Allies:             c.sideCombatants(c.enemyIDs),
			DistToPlayer:       e.Pos.Dist(player.Pos),
			OnAttack: func(attacker, target *entity.Combatant, heavy bool) {
				attacker.IsHeavyAttack = heavy
			},
		}
		enemyai.Update(e, ctx, dt)
		c.resolveActiveAttack(e, e.IsHeavyAttack)
		e.ClampToArena(c.cfg.Arena.Width, c.cfg.Arena.Height, c.cfg.Arena.Border)
	}
}

func (c *Controller) buildEnemyCandidates(player *entity.Combatant) []*entity.Combatant {
	out := []*entity.Combatant{player}
	out = append(out, c.sideCombatants(c.troopIDs)...)
	if len(c.enemyBIDs) > 0 {
		out = append(out, c.sideCombatants(c.enemyBIDs)...)
	}
	return out
}

func (c *Controller) sideCombatants(ids []ecs.EntityID) []*entity.Combatant {
	out := make([]*entity.Combatant, 0, len(ids))
	for _, id := range ids {
		if e := c.em.Get(id); e != nil {
			out = append(out, e)
		}
	}
	return out
}

func (c *Controller) aliveEnemies() []*entity.Combatant {
	out := make([]*entity.Combatant, 0, len(c.enemyIDs))
	for _, id := range c.enemyIDs {
		if e := c.em.Get(id); e != nil && e.Alive() {
			out = append(out, e)
		}
	}
	return out
}

func (c *Controller) troopPhase(dt float64, player *entity.Combatant, in Input) {
	enemies := c.aliveEnemies()
	allies := c.sideCombatants(c.troopIDs)
	for i, id := range c.troopIDs {
		t := c.em.Get(id)
		if t == nil || !t.Alive() {
			continue
		}
		ctx := troopai.Context{
			Cfg:         c.cfg.AI,
			ProjCfg:     c.cfg.Projectile,
			RNG:         c.rng,
			Projectile:  c.proj,
			Player:      player,
			Order:       c.order,
			Formation:   c.formation,
			FocusID:     c.focusID,
			Enemies:     enemies,
			Allies:      allies,
			SlotIndex:   i,
			SlotCount:   len(c.troopIDs),
			ArenaWidth:  c.cfg.Arena.Width,
			ArenaHeight: c.cfg.Arena.Height,
			ArenaBorder: c.cfg.Arena.Border,
			OnAttack: func(attacker, target *entity.Combatant, heavy bool) {
				attacker.IsHeavyAttack = heavy
			},
		}
		troopai.Update(t, c.assigned[id], ctx, dt)
		c.resolveActiveAttack(t, t.IsHeavyAttack)
	}
}

func (c *Controller) projectilePhase(dt float64) {
	targets := c.em.All()
	c.proj.Update(dt, c.cfg.Arena.Width, c.cfg.Arena.Height, targets, func(p *projectile.Projectile, target *entity.Combatant) {
		info := damage.AttackInfo{
			AttackerIsPlayer:   false,
			WeaponDamageMult:   1.0,
			DamageType:         p.DamageType,
			AttackerHighGround: false,
			DefenderHighGround: c.onHighGround(target.Pos),
		}
		if source := c.em.Get(p.SourceID); source != nil {
			info.AttackerHighGround = c.onHighGround(source.Pos)
			if source.Kind == entity.KindPlayer {
				info.AttackerIsPlayer = true
				w, _ := catalog.GetWeapon(source.Equipment.WeaponID)
				info.WeaponDamageMult = w.DamageMult
				info.ComboCount = source.ComboCount
			}
			res := damage.Resolve(c.bus, c.rng, c.cfg.Combat, source, target, info)
			if res.DefenderDied {
				c.onDeath(source, target)
			}
		}
	})
}

func (c *Controller) lastPositionStash() {
	for _, e := range c.em.All() {
		e.LastPos = e.Pos
	}
}

func (c *Controller) checkVictory(player *entity.Combatant) {
	if c.done {
		return
	}
	if len(c.aliveEnemies()) == 0 {
		c.done = true
		c.victory = true
		c.promote()
		return
	}
	if !player.Alive() {
		c.done = true
		c.victory = false
	}
}

// promote grants veterancy to surviving troops, raising ChainTier to one
// tier per two troop levels (Level/2), grounded on the original game's
// check_veterancy_promotions sweep at battle end.
func (c *Controller) promote() {
	for _, id := range c.troopIDs {
		t := c.em.Get(id)
		if t == nil || !t.Alive() {
			continue
		}
		if t.Stats.Level > 1 && t.ChainTier < t.Stats.Level/2 {
			t.ChainTier = t.Stats.Level / 2
			c.promotedTroops = append(c.promotedTroops, id)
			c.bus.Promotion(id)
		}
	}
}

// grantKillRewards tallies xp/gold for one defeated enemy, per the
// outcome formula: xp += level*5, gold += random in [level*5, level*15].
func (c *Controller) grantKillRewards(e *entity.Combatant) {
	c.xpGranted += float64(e.Stats.Level) * c.cfg.Combat.KillXPPerLevel
	lo := float64(e.Stats.Level) * c.cfg.Combat.GoldMinPerLevel
	hi := float64(e.Stats.Level) * c.cfg.Combat.GoldMaxPerLevel
	c.goldGranted += lo + c.rng.Float64()*(hi-lo)
}

// IsDone reports whether the battle has ended.
func (c *Controller) IsDone() bool { return c.done }

// Outcome returns the battle result. Only valid once IsDone() is true.
func (c *Controller) Outcome() Outcome {
	player := c.em.Get(c.playerID)
	hp := 0.0
	if player != nil {
		hp = player.Stats.HP
	}
	return Outcome{
		Victory:         c.victory,
		PlayerHP:        hp,
		XPGranted:       c.xpGranted,
		GoldGranted:     c.goldGranted,
		DefeatedEnemies: c.defeatedEnemies,
		SurvivingTroops: c.sideCombatantIDs(c.troopIDs),
		PromotedTroops:  c.promotedTroops,
	}
}

func (c *Controller) sideCombatantIDs(ids []ecs.EntityID) []ecs.EntityID {
	out := make([]ecs.EntityID, 0, len(ids))
	for _, id := range ids {
		if e := c.em.Get(id); e != nil && e.Alive() {
			out = append(out, id)
		}
	}
	return out
}

// Events drains the event bus for this tick; the shell calls this once
// per tick after Tick returns (spec §5 shared-resource rule).
func (c *Controller) Events() []eventbus.Event { return c.bus.Drain() }

// Combatants returns every live combatant currently in the arena, for
// a shell's render pass. The returned slice is read-only from the
// shell's perspective; mutating combatants through it bypasses Tick's
// phase ordering.
func (c *Controller) Combatants() []*entity.Combatant { return c.em.All() }

func findCombatant(list []*entity.Combatant, id ecs.EntityID) *entity.Combatant {
	for _, c := range list {
		if c.ID == id {
			return c
		}
	}
	return nil
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
