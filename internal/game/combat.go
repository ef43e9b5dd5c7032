package game

import (
	"fmt"
	"math"

	"github.com/Garsondee/Arena-Sense/internal/geom"
)

// --- Missile constants ---

const (
	projectileRadius  = 3.0 // px, hit circle of an arrow or bolt
	explosionLifetime = 0.3 // s an explosion lingers and keeps biting newcomers
)

// MeleeAttack hits target once if a's melee cooldown has run out.
func (w *World) MeleeAttack(a, target *Entity) bool {
	if a.MeleeCooldownLeft > 0 || a.MeleeDamage <= 0 || target == nil || !target.Alive() {
		return false
	}
	a.MeleeCooldownLeft = a.MeleeCooldown
	w.SimLog.AddVerbose(w.tick, a.Label, a.Team.String(), "attack", "melee", target.Label, a.MeleeDamage)
	w.applyDamage(a, a.Team, target, a.MeleeDamage)
	return true
}

// RangedAttack launches a projectile from a towards aim if the ranged
// cooldown has run out. Splash shots burst at the aim point, or at
// maximum range when the aim point is farther.
func (w *World) RangedAttack(a *Entity, aim geom.Vec2) bool {
	if a.RangedCooldownLeft > 0 || !a.Ranged() {
		return false
	}
	dir := aim.Sub(a.Pos).Norm()
	if dir.IsZero() {
		return false
	}
	a.RangedCooldownLeft = a.RangedCooldown

	p := &Entity{
		Kind:         KindProjectile,
		Team:         a.Team,
		Pos:          a.Pos,
		Vel:          dir.Scale(a.ProjectileSpeed),
		Radius:       projectileRadius,
		OwnerID:      a.ID,
		Damage:       a.RangedDamage,
		MaxTravel:    a.ProjectileRange,
		Explodes:     a.SplashRadius > 0,
		SplashRadius: a.SplashRadius,
	}
	if p.Explodes {
		p.MaxTravel = math.Min(a.ProjectileRange, a.Pos.Dist(aim))
	}
	w.Add(p)
	w.SimLog.AddVerbose(w.tick, a.Label, a.Team.String(), "attack", "ranged",
		fmt.Sprintf("%s -> (%.0f,%.0f)", p.Label, aim.X, aim.Y), a.RangedDamage)
	return true
}

func (w *World) processProjectile(p *Entity, dt float64) {
	step := p.Vel.Scale(dt)
	p.Pos = p.Pos.Add(step)
	p.Traveled += step.Len()

	for _, id := range w.order {
		c := w.entities[id]
		if c == nil || !projectileCanHit(p, c) {
			continue
		}
		if p.Pos.Dist(c.Pos) > c.Radius+p.Radius {
			continue
		}
		if p.Explodes {
			w.explode(p)
		} else {
			w.applyDamage(w.entities[p.OwnerID], p.Team, c, p.Damage)
		}
		w.Remove(p.ID)
		return
	}

	if p.Traveled >= p.MaxTravel {
		if p.Explodes {
			w.explode(p)
		}
		w.Remove(p.ID)
		return
	}
	if p.Pos.X < 0 || p.Pos.Y < 0 || p.Pos.X > w.bounds.X || p.Pos.Y > w.bounds.Y {
		w.Remove(p.ID)
	}
}

// projectileCanHit: live, solid, and on another side. Neutral entities
// are never hit; neutral projectiles hit both teams.
func projectileCanHit(p, c *Entity) bool {
	return c.Alive() && !c.Kind.IsMissile() && c.Team != p.Team && c.Team != TeamNeutral
}

func (w *World) explode(p *Entity) {
	x := &Entity{
		Kind:     KindExplosion,
		Team:     p.Team,
		Pos:      p.Pos,
		Radius:   p.SplashRadius,
		OwnerID:  p.OwnerID,
		Damage:   p.Damage,
		Lifetime: explosionLifetime,
		hit:      make(map[int]bool),
	}
	w.Add(x)
	// The burst lands in the same tick; anyone wandering in later is
	// caught while it lingers.
	w.burst(x)
}

func (w *World) processExplosion(x *Entity, dt float64) {
	x.Lifetime -= dt
	if x.Lifetime <= 0 {
		w.Remove(x.ID)
		return
	}
	w.burst(x)
}

func (w *World) burst(x *Entity) {
	owner := w.entities[x.OwnerID]
	ids := append([]int(nil), w.order...)
	for _, id := range ids {
		c := w.entities[id]
		if c == nil || x.hit[id] || !projectileCanHit(x, c) {
			continue
		}
		if x.Pos.Dist(c.Pos) > x.Radius+c.Radius {
			continue
		}
		x.hit[id] = true
		w.applyDamage(owner, x.Team, c, x.Damage)
	}
}

// applyDamage subtracts dmg from victim. attacker may be nil when the
// shooter is already gone; team still credits the score.
func (w *World) applyDamage(attacker *Entity, team Team, victim *Entity, dmg float64) {
	if victim == nil || victim.Invulnerable || !victim.Alive() || dmg <= 0 {
		return
	}
	before := victim.HP
	victim.HP -= dmg
	dealt := math.Min(dmg, before)

	if victim.Kind.IsStructure() && team <= TeamRed && victim.Team <= TeamRed && victim.Team != team {
		w.scores[team] += dealt
	}
	src := "--"
	if attacker != nil {
		src = attacker.Label
	}
	w.SimLog.AddVerbose(w.tick, victim.Label, victim.Team.String(), "combat", "hit",
		fmt.Sprintf("by %s hp=%.0f", src, math.Max(0, victim.HP)), dealt)

	if victim.HP > 0 {
		return
	}
	if team <= TeamRed {
		w.kills[team]++
	}
	if attacker != nil && attacker.Kind.IsCharacter() {
		attacker.XP += w.rules.XPValue[victim.Kind.String()]
	}
	w.SimLog.Add(w.tick, victim.Label, victim.Team.String(), "combat", "killed", "by "+src, before)
	w.log.Debug("killed", "victim", victim.Label, "by", src)

	if victim.Kind == KindOrc || victim.Kind.IsStructure() {
		w.Remove(victim.ID)
	}
}
