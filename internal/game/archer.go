package game

import (
	"fmt"

	"github.com/Garsondee/Arena-Sense/internal/geom"
	"github.com/Garsondee/Arena-Sense/internal/nav"
)

// rangedCombatState keeps a target at the edge of projectile range and
// shoots at where it is going to be. Archers use it as "combat" with a
// searching fallback; wizards as "attacking" with splash aiming.
type rangedCombatState struct {
	unitState
	name      StateName
	search    bool    // hand over to searching when sight is lost
	splash    bool    // aim bursts to catch clustered structures
	fleeBelow float64 // HP fraction that sends the unit fleeing; 0 never
}

func (s *rangedCombatState) Name() StateName { return s.name }

func (s *rangedCombatState) Do() {
	e := s.e
	// Whoever is shooting at us comes first.
	if attackers := s.w.AttackersByDistance(e); len(attackers) > 0 && attackers[0].ID != e.TargetID {
		s.engage(attackers[0], "self-defense")
	}
	t := s.w.Target(e)
	if t == nil {
		e.Vel = geom.Vec2{}
		return
	}

	rng := e.ProjectileRange
	// Where the target will be when we can next shoot, then where it will
	// be when the shot gets there.
	lead := e.RangedCooldownLeft
	next := s.w.PredictPosition(t, lead)
	dist := e.Pos.Dist(next)
	aim := next
	if e.ProjectileSpeed > 0 {
		aim = s.w.PredictPosition(t, lead+dist/e.ProjectileSpeed)
	}
	if s.splash {
		aim = s.w.splashAim(e, t, aim)
	}

	if e.RangedCooldownLeft <= 0 && dist <= rng && s.w.Visible(e, t) {
		s.w.RangedAttack(e, aim)
	}

	tol := s.w.rules.RangeTolerance
	switch {
	case dist > rng+tol:
		e.SetMoveTarget(next)
	case dist < rng-tol:
		e.SetMoveTarget(s.retreatPoint(t.Pos, rng))
	default:
		e.SetMoveTarget(e.Pos)
	}
	s.escapeObstacles()
	e.Vel = Seek(e, e.MoveTarget, 0)
}

// retreatPoint is the nearest graph node at least rng from the opponent,
// or a point straight away from it when no node qualifies.
func (s *rangedCombatState) retreatPoint(from geom.Vec2, rng float64) geom.Vec2 {
	e := s.e
	n := s.w.graph.NearestNode(e.Pos, func(n *nav.Node) bool {
		return n.Pos.Dist(from) >= rng
	})
	if n != nil {
		return n.Pos
	}
	away := e.Pos.Sub(from).Norm()
	if away.IsZero() {
		away = geom.V(1, 0)
	}
	return e.Pos.Add(away.Scale(rng - e.Pos.Dist(from)))
}

// escapeObstacles pushes the move target out along the contact normal
// when the unit is rubbing against an obstacle body.
func (s *rangedCombatState) escapeObstacles() {
	e := s.e
	for _, o := range s.w.index.Near(e.Pos, e.Radius) {
		if o.Distance(e.Pos) > e.Radius {
			continue
		}
		contact := o.ClosestPoint(e.Pos)
		normal := e.Pos.Sub(contact).Norm()
		if normal.IsZero() {
			continue
		}
		e.SetMoveTarget(contact.Add(normal.Scale(e.MaxSpeed)))
		return
	}
}

func (s *rangedCombatState) Check() StateName {
	e := s.e
	t := s.w.Target(e)
	if s.fleeBelow > 0 && e.HPFraction() <= s.fleeBelow {
		s.think("too hurt, breaking off")
		return StateFleeing
	}
	if t == nil {
		s.drop()
		return StateSeeking
	}
	if s.search && !s.w.Visible(e, t) {
		s.think("lost sight of " + t.Label)
		return StateSearching
	}
	if leash := e.MinTargetDistance * s.w.rules.SearchSlack; leash > 0 && e.Pos.Dist(t.Pos) > leash {
		s.think(t.Label + " got away")
		s.drop()
		return StateSeeking
	}
	return ""
}

// splashAim shifts a splash shot towards the middle of the hostile
// structures around the aim point, as long as the target itself stays
// inside the burst.
func (w *World) splashAim(e, target *Entity, aim geom.Vec2) geom.Vec2 {
	if !target.Kind.IsStructure() || e.SplashRadius <= 0 {
		return aim
	}
	var sum geom.Vec2
	n := 0
	for _, id := range w.order {
		c := w.entities[id]
		if c == nil || !c.Kind.IsStructure() || !opposes(e, c) {
			continue
		}
		if c.Pos.Dist(aim) > 2*e.SplashRadius+c.Radius {
			continue
		}
		sum = sum.Add(c.Pos)
		n++
	}
	if n < 2 {
		return aim
	}
	mid := sum.Scale(1 / float64(n))
	if mid.Dist(target.Pos) > e.SplashRadius+target.Radius {
		return aim
	}
	return mid
}

// searchingState chases a target that went out of sight along the world
// graph, and gives up when it has run too far.
type searchingState struct {
	unitState
	resume StateName
	follow pathFollower
	goal   int // graph node the current path leads to
}

func (s *searchingState) Name() StateName { return StateSearching }

func (s *searchingState) Enter() {
	s.goal = -1
	s.replan()
}

func (s *searchingState) replan() {
	e := s.e
	t := s.w.Target(e)
	if t == nil {
		return
	}
	g := s.w.SearchGraph()
	goal := g.NearestNode(t.Pos, nil)
	if goal == nil || goal.ID == s.goal {
		return
	}
	s.goal = goal.ID
	start := g.NearestNode(e.Pos, nil)
	if start == nil {
		return
	}
	s.follow.set(nav.ShortestPath(g, start, goal))
	s.w.SimLog.AddVerbose(s.w.tick, e.Label, e.Team.String(), "search", "replan",
		fmt.Sprintf("node %d -> %d", start.ID, goal.ID), s.follow.remaining(e.Pos))
}

func (s *searchingState) Do() {
	e := s.e
	t := s.w.Target(e)
	if t == nil {
		e.Vel = geom.Vec2{}
		return
	}
	s.replan()
	if s.follow.advance(e.Pos, s.w.rules.ArriveRadius) {
		e.SetMoveTarget(t.Pos)
	} else if wp, ok := s.follow.waypoint(); ok {
		e.SetMoveTarget(wp)
	}
	e.Vel = Seek(e, e.MoveTarget, 0)
}

func (s *searchingState) Check() StateName {
	e := s.e
	t := s.w.Target(e)
	if t == nil {
		s.drop()
		return StateSeeking
	}
	if s.w.Visible(e, t) {
		s.think("found " + t.Label + " again")
		return s.resume
	}
	left := s.follow.remaining(e.Pos)
	if left == 0 {
		left = e.Pos.Dist(t.Pos)
	}
	if limit := e.MinTargetDistance * s.w.rules.SearchSlack; left > limit {
		s.think(fmt.Sprintf("%s is %.0f away, giving up", t.Label, left))
		s.drop()
		return StateSeeking
	}
	return ""
}
