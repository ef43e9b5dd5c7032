package game

import (
	"math"
	"sort"

	"github.com/Garsondee/Arena-Sense/internal/geom"
)

// Hostile reports whether a and b would fight. Neutral entities only
// count when they can hurt someone: towers and their projectiles.
func Hostile(a, b *Entity) bool {
	if a.Team == b.Team {
		return false
	}
	if a.Team == TeamNeutral {
		return neutralHostile(a)
	}
	if b.Team == TeamNeutral {
		return neutralHostile(b)
	}
	return true
}

func neutralHostile(e *Entity) bool {
	return e.Kind == KindTower || e.Kind == KindProjectile
}

// LineOfSight walks a thin ray from observer to target in LOSStep
// increments. It fails on the first step that touches an obstacle body,
// except bodies the observer or target stand in.
func (w *World) LineOfSight(observer, target *Entity, rayWidth float64) bool {
	from, to := observer.Pos, target.Pos
	var blockers []*Obstacle
	for _, o := range w.index.Query(geom.SegmentBound(from, to, rayWidth)) {
		b := o.Bound()
		b.Min[0] -= rayWidth
		b.Min[1] -= rayWidth
		b.Max[0] += rayWidth
		b.Max[1] += rayWidth
		if !geom.SegmentHitsBound(from, to, b) {
			continue
		}
		if o.Contains(from) || o.Contains(to) {
			continue
		}
		blockers = append(blockers, o)
	}
	if len(blockers) == 0 {
		return true
	}

	step := w.rules.LOSStep
	if step <= 0 {
		step = 4
	}
	total := from.Dist(to)
	dir := to.Sub(from).Norm()
	half := rayWidth / 2
	for s := 0.0; s < total; s += step {
		p := from.Add(dir.Scale(s))
		if p.Dist(to) <= target.Radius {
			return true
		}
		for _, o := range blockers {
			if o.Distance(p) <= half {
				return false
			}
		}
	}
	return true
}

// Visible is LineOfSight with the configured ray width.
func (w *World) Visible(observer, target *Entity) bool {
	return w.LineOfSight(observer, target, w.rules.RayWidth)
}

// ThreatSet splits the hostiles around a unit by urgency. It is only
// valid for the tick it was collected in.
type ThreatSet struct {
	Immediate []*Entity
	Latent    []*Entity
}

// Empty reports whether no threat was found.
func (ts ThreatSet) Empty() bool { return len(ts.Immediate) == 0 && len(ts.Latent) == 0 }

// CollectThreats gathers hostiles within radius of e. Melee fighters
// close by, towers in danger distance, bases in firing range and anything
// in flight are immediate.
func (w *World) CollectThreats(e *Entity, radius float64) ThreatSet {
	var ts ThreatSet
	for _, id := range w.order {
		t := w.entities[id]
		if t == nil || t == e || t.KO || !Hostile(e, t) {
			continue
		}
		if e.Pos.Dist(t.Pos) > radius {
			continue
		}
		if w.immediateThreat(e, t) {
			ts.Immediate = append(ts.Immediate, t)
		} else {
			ts.Latent = append(ts.Latent, t)
		}
	}
	return ts
}

func (w *World) immediateThreat(e, t *Entity) bool {
	d := e.Pos.Dist(t.Pos)
	switch {
	case t.Kind.IsMelee():
		return d <= w.rules.MeleeDanger
	case t.Kind == KindTower:
		return d <= w.rules.TowerDanger
	case t.Kind == KindBase:
		return d <= t.ProjectileRange
	case t.Kind.IsMissile():
		return true
	}
	return false
}

// opposes reports whether c is a live fighting opponent of e. Neutral
// entities are never anyone's opponent; a neutral e opposes both teams.
func opposes(e, c *Entity) bool {
	return c != e && c.Alive() && c.Team != e.Team && c.Team != TeamNeutral && !c.Kind.IsMissile()
}

// NearestOpponent returns the closest live opponent within radius, or
// nil. A radius of zero or less is unlimited. Ties go to the lowest id.
func (w *World) NearestOpponent(e *Entity, radius float64, requireVisible bool) *Entity {
	var best *Entity
	bestD := math.Inf(1)
	for _, id := range w.order {
		c := w.entities[id]
		if c == nil || !opposes(e, c) {
			continue
		}
		d := e.Pos.Dist(c.Pos)
		if radius > 0 && d > radius {
			continue
		}
		if d >= bestD {
			continue
		}
		if requireVisible && !w.Visible(e, c) {
			continue
		}
		best, bestD = c, d
	}
	return best
}

// EnemiesTargeting returns the live opponents whose target is e, in id order.
func (w *World) EnemiesTargeting(e *Entity) []*Entity {
	var out []*Entity
	for _, id := range w.order {
		c := w.entities[id]
		if c != nil && c.TargetID == e.ID && opposes(e, c) {
			out = append(out, c)
		}
	}
	return out
}

// AttackersByDistance is EnemiesTargeting sorted nearest first.
func (w *World) AttackersByDistance(e *Entity) []*Entity {
	out := w.EnemiesTargeting(e)
	sort.SliceStable(out, func(i, j int) bool {
		return e.Pos.Dist(out[i].Pos) < e.Pos.Dist(out[j].Pos)
	})
	return out
}

// PredictPosition estimates where target will be after dt seconds. A unit
// reads its intent from where it is heading rather than its velocity this
// instant, so a fleeing target is led along its escape line. The estimate
// never overshoots the intent point.
func (w *World) PredictPosition(target *Entity, dt float64) geom.Vec2 {
	if target.Vel.IsZero() || dt <= 0 {
		return target.Pos
	}
	speed := target.Vel.Len()
	if intent, ok := w.intent(target); ok {
		d := intent.Sub(target.Pos)
		if !d.IsZero() {
			travel := math.Min(speed*dt, d.Len())
			return target.Pos.Add(d.Norm().Scale(travel))
		}
	}
	return target.Pos.Add(target.Vel.Scale(dt))
}

func (w *World) intent(e *Entity) (geom.Vec2, bool) {
	if e.HasMoveTarget {
		return e.MoveTarget, true
	}
	if t := w.Target(e); t != nil {
		return t.Pos, true
	}
	return geom.Vec2{}, false
}
