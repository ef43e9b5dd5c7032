package game

import (
	"fmt"

	"github.com/Garsondee/Arena-Sense/internal/geom"
	"github.com/Garsondee/Arena-Sense/internal/nav"
)

// unitState carries what every state needs and gives no-op hooks.
type unitState struct {
	w *World
	e *Entity
}

func (unitState) Enter() {}
func (unitState) Exit()  {}

func (s unitState) think(msg string) {
	s.w.Thoughts.Add(s.w.tick, s.e.Label, s.e.Team, msg)
}

// engage points the unit at target and records why.
func (s unitState) engage(target *Entity, why string) {
	s.e.TargetID = target.ID
	s.w.SimLog.Add(s.w.tick, s.e.Label, s.e.Team.String(), "target", "acquire",
		fmt.Sprintf("%s (%s)", target.Label, why), s.e.Pos.Dist(target.Pos))
}

// drop forgets the current target.
func (s unitState) drop() {
	s.e.TargetID = 0
}

// pathFollower walks a list of connections: the first waypoint is the
// path's start node, then each connection's end node in turn.
type pathFollower struct {
	path []nav.Connection
	i    int
}

func (pf *pathFollower) set(path []nav.Connection) {
	pf.path = path
	pf.i = 0
}

func (pf *pathFollower) waypoint() (geom.Vec2, bool) {
	if len(pf.path) == 0 {
		return geom.Vec2{}, false
	}
	if pf.i == 0 {
		return pf.path[0].From.Pos, true
	}
	return pf.path[pf.i-1].To.Pos, true
}

// advance moves to the next waypoint once pos is within arrive of the
// current one. It reports whether the last waypoint has been reached.
func (pf *pathFollower) advance(pos geom.Vec2, arrive float64) bool {
	wp, ok := pf.waypoint()
	if !ok {
		return true
	}
	if pos.Dist(wp) >= arrive {
		return false
	}
	if pf.i < len(pf.path) {
		pf.i++
		return false
	}
	return true
}

// remaining is the distance still to walk from pos.
func (pf *pathFollower) remaining(pos geom.Vec2) float64 {
	wp, ok := pf.waypoint()
	if !ok {
		return 0
	}
	return pos.Dist(wp) + nav.PathCost(pf.path[pf.i:])
}

// seekingState walks the unit's patrol route towards the enemy base and
// looks for someone to fight on the way.
type seekingState struct {
	unitState
	engageState StateName // where to go once a target is found
	heal        bool
	fleeBelow   float64 // HP fraction that sends the unit fleeing; 0 never
	visible     bool    // targets must be in sight
	follow      pathFollower
}

func (s *seekingState) Name() StateName { return StateSeeking }

func (s *seekingState) Enter() {
	e := s.e
	if e.Route == nil {
		e.Route = s.w.RandomRoute()
	}
	goal := e.Route.Node(e.GoalNode)
	if goal == nil {
		goal = e.Route.NearestNode(s.w.enemyBasePos(e.Team), nil)
	}
	start := e.Route.NearestNode(e.Pos, nil)
	var path []nav.Connection
	if start != nil && goal != nil {
		path = nav.ShortestPath(e.Route, start, goal)
	}
	s.follow.set(path)
	if wp, ok := s.follow.waypoint(); ok {
		e.SetMoveTarget(wp)
	} else if goal != nil {
		e.SetMoveTarget(goal.Pos)
	} else {
		e.SetMoveTarget(s.w.enemyBasePos(e.Team))
	}
}

func (s *seekingState) Do() {
	e := s.e
	if s.heal && e.HP < e.MaxHP && e.Heal() {
		s.w.SimLog.AddVerbose(s.w.tick, e.Label, e.Team.String(), "heal", "seeking", "", e.HP)
	}
	if !s.follow.advance(e.Pos, s.w.rules.ArriveRadius) {
		if wp, ok := s.follow.waypoint(); ok {
			e.SetMoveTarget(wp)
		}
	}
	e.Vel = Seek(e, e.MoveTarget, 0)
}

func (s *seekingState) Check() StateName {
	e := s.e
	if s.fleeBelow > 0 && e.HPFraction() <= s.fleeBelow {
		s.think("too hurt to push on")
		return StateFleeing
	}
	if attackers := s.w.AttackersByDistance(e); len(attackers) > 0 {
		s.engage(attackers[0], "under attack")
		s.think("fighting back against " + attackers[0].Label)
		return s.engageState
	}
	if t := s.w.NearestOpponent(e, e.MinTargetDistance, s.visible); t != nil {
		s.engage(t, "in range")
		s.think("spotted " + t.Label)
		return s.engageState
	}
	return ""
}

// koState waits out the respawn timer at the spawn point.
type koState struct {
	unitState
}

func (s *koState) Name() StateName { return StateKO }

func (s *koState) Enter() {
	e := s.e
	e.HP = e.MaxHP
	e.Pos = e.Spawn
	e.Vel = geom.Vec2{}
	e.ClearMoveTarget()
	e.FleeTargets = nil
	s.drop()
	s.think(fmt.Sprintf("knocked out, back in %.1fs", e.RespawnLeft))
}

func (s *koState) Do() {}

func (s *koState) Check() StateName {
	if s.e.RespawnLeft <= 0 {
		return StateSeeking
	}
	return ""
}

func (s *koState) Exit() {
	e := s.e
	e.KO = false
	e.RespawnLeft = s.w.rules.RespawnTime
	e.Route = s.w.RandomRoute()
	s.w.SimLog.Add(s.w.tick, e.Label, e.Team.String(), "combat", "respawn", "", 0)
}

// enemyBasePos is where team is marching to: the target node of its own
// base, or the enemy base itself.
func (w *World) enemyBasePos(t Team) geom.Vec2 {
	if b, ok := w.bases[t]; ok {
		if n := w.graph.Node(b.TargetNode); n != nil {
			return n.Pos
		}
	}
	if b, ok := w.bases[t.Opponent()]; ok {
		return b.Pos.Vec()
	}
	return w.bounds.Scale(0.5)
}
