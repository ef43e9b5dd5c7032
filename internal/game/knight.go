package game

import (
	"fmt"

	"github.com/Garsondee/Arena-Sense/internal/geom"
	"github.com/Garsondee/Arena-Sense/internal/nav"
)

const (
	knightFleeBelow   = 0.30 // HP fraction at which a losing knight considers running
	knightRecoverFrom = 0.85 // HP fraction at which a fleeing knight returns to the road
)

// meleeAttackState closes on the target and swings on contact. With a
// positive fleeBelow the unit weighs running away once badly hurt.
type meleeAttackState struct {
	unitState
	fleeBelow float64
}

func (s *meleeAttackState) Name() StateName { return StateAttacking }

func (s *meleeAttackState) Do() {
	e := s.e
	t := s.w.Target(e)
	if t == nil {
		e.Vel = geom.Vec2{}
		return
	}
	e.SetMoveTarget(t.Pos)
	if _, hit := e.CollidesWith(t); hit {
		e.Vel = geom.Vec2{}
		s.w.MeleeAttack(e, t)
		return
	}
	e.Vel = Seek(e, t.Pos, 0)
}

func (s *meleeAttackState) Check() StateName {
	e := s.e
	t := s.w.Target(e)
	if t == nil {
		s.drop()
		return StateSeeking
	}
	if s.fleeBelow <= 0 || e.HPFraction() > s.fleeBelow {
		return ""
	}
	if s.shouldFlee(t) {
		s.think(fmt.Sprintf("losing to %s, falling back", t.Label))
		return StateFleeing
	}
	return ""
}

// shouldFlee: only when someone is on us, we can shake them off, and
// they would finish us before we finish the target.
func (s *meleeAttackState) shouldFlee(t *Entity) bool {
	e := s.e
	enemies := s.w.EnemiesTargeting(e)
	if len(enemies) == 0 || !CanOutrun(e, enemies) {
		return false
	}
	ttd, _ := TimeToDeath(e, enemies)
	ttk := TimeToKill(e, t, AttackMelee)
	s.w.SimLog.AddVerbose(s.w.tick, e.Label, e.Team.String(), "decision", "flee_check",
		fmt.Sprintf("ttd=%.1f ttk=%.1f", ttd, ttk), ttd-ttk)
	return ttd <= ttk
}

// knightFleeState runs to a node on the knight's own side of the map,
// healing on the way. It dodges the immediate threats around it, or the
// latent ones when nothing is immediate.
type knightFleeState struct {
	unitState
	follow pathFollower
}

func (s *knightFleeState) Name() StateName { return StateFleeing }

func (s *knightFleeState) Enter() {
	s.newPath()
}

func (s *knightFleeState) Exit() {
	s.e.FleeTargets = nil
}

// newPath picks a random end node other than the nearest one.
func (s *knightFleeState) newPath() {
	e := s.e
	g := s.w.graph
	start := g.NearestNode(e.Pos, nil)
	var ends []*nav.Node
	for _, id := range s.w.fleeNodes[e.Team] {
		if n := g.Node(id); n != nil && (start == nil || n.ID != start.ID) {
			ends = append(ends, n)
		}
	}
	if start == nil || len(ends) == 0 {
		s.follow.set(nil)
		e.SetMoveTarget(e.Spawn)
		return
	}
	end := ends[s.w.rng.Intn(len(ends))]
	s.follow.set(nav.ShortestPath(g, start, end))
	if wp, ok := s.follow.waypoint(); ok {
		e.SetMoveTarget(wp)
	} else {
		e.SetMoveTarget(end.Pos)
	}
}

func (s *knightFleeState) Do() {
	e := s.e
	e.Heal()

	if s.follow.advance(e.Pos, s.w.rules.ArriveRadius) {
		if s.w.NearestOpponent(e, 0, false) != nil {
			s.newPath()
		}
	} else if wp, ok := s.follow.waypoint(); ok {
		e.SetMoveTarget(wp)
	}

	heading := e.MoveTarget.Sub(e.Pos).Norm()
	threats := s.w.CollectThreats(e, e.MinTargetDistance)
	dodge := threats.Immediate
	if len(dodge) == 0 {
		dodge = threats.Latent
	}
	e.FleeTargets = e.FleeTargets[:0]
	for _, t := range dodge {
		e.FleeTargets = append(e.FleeTargets, t.ID)
	}
	bias := heading.Add(AvoidEntities(e, dodge).Norm())
	bias = s.w.AvoidObstacles(e, bias)
	bias = s.w.AvoidEdges(e.Pos, bias)
	e.Vel = bias.Scale(e.MaxSpeed)
}

func (s *knightFleeState) Check() StateName {
	e := s.e
	if t := s.w.Target(e); t != nil {
		if t.TargetID != e.ID {
			s.drop()
			s.think("shook them off")
			return StateSeeking
		}
		ttd, ok := TimeToDeath(e, s.w.EnemiesTargeting(e))
		if ok && ttd > TimeToKill(e, t, AttackMelee) {
			s.think("can take " + t.Label + " now")
			return StateAttacking
		}
	} else {
		s.drop()
	}
	if e.HPFraction() >= knightRecoverFrom {
		s.think("patched up, back to it")
		return StateSeeking
	}
	return ""
}
