package game

import "github.com/Garsondee/Arena-Sense/internal/geom"

const (
	wizardSeekFleeBelow   = 0.5
	wizardAttackFleeBelow = 0.3
)

// wizardFleeState backs away from every threat around until fully healed.
// With nothing in range it stands still and heals.
type wizardFleeState struct {
	unitState
}

func (s *wizardFleeState) Name() StateName { return StateFleeing }

func (s *wizardFleeState) Enter() {
	s.drop()
	s.e.ClearMoveTarget()
}

func (s *wizardFleeState) Exit() {
	s.e.FleeTargets = nil
}

func (s *wizardFleeState) Do() {
	e := s.e
	if e.HP < e.MaxHP {
		e.Heal()
	}

	threats := s.w.CollectThreats(e, s.w.rules.FleeRadius)
	e.FleeTargets = e.FleeTargets[:0]
	for _, t := range threats.Immediate {
		e.FleeTargets = append(e.FleeTargets, t.ID)
	}

	dir := AvoidEntities(e, threats.Immediate)
	if len(threats.Immediate) == 0 {
		dir = AvoidEntities(e, threats.Latent)
	}
	dir = s.w.AvoidObstacles(e, dir)
	dir = s.w.AvoidEdges(e.Pos, dir)

	e.Vel = geom.Vec2{}
	if !dir.IsZero() {
		e.Vel = dir.Norm().Scale(e.MaxSpeed)
	}
}

func (s *wizardFleeState) Check() StateName {
	if s.e.HP >= s.e.MaxHP {
		s.think("fully healed")
		return StateSeeking
	}
	return ""
}
