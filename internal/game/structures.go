package game

import (
	"fmt"

	"github.com/Garsondee/Arena-Sense/internal/geom"
)

// guardState is the whole mind of a tower or base: shoot the nearest
// opponent in range. A base also sends out an orc every spawn cooldown.
type guardState struct {
	unitState
}

func (s *guardState) Name() StateName { return StateGuarding }

func (s *guardState) Do() {
	e := s.e
	e.Vel = geom.Vec2{}

	if e.Kind == KindBase && e.SpawnCooldown > 0 && e.SpawnCooldownLeft <= 0 {
		e.SpawnCooldownLeft += e.SpawnCooldown
		if _, err := s.w.SpawnOrc(e.Team); err != nil {
			s.w.log.Warn("orc spawn failed", "base", e.Label, "err", err)
		}
	}

	t := s.w.NearestOpponent(e, e.ProjectileRange, false)
	if t == nil {
		e.TargetID = 0
		return
	}
	if t.ID != e.TargetID {
		s.engage(t, "in range")
	}
	if e.RangedCooldownLeft > 0 {
		return
	}
	aim := t.Pos
	if e.ProjectileSpeed > 0 {
		aim = s.w.PredictPosition(t, e.Pos.Dist(t.Pos)/e.ProjectileSpeed)
	}
	s.w.RangedAttack(e, aim)
}

func (s *guardState) Check() StateName { return "" }

// SpawnOrc sends an orc out of team's base along a random route.
func (w *World) SpawnOrc(team Team) (*Entity, error) {
	pos, err := w.spawnPoint(team)
	if err != nil {
		return nil, err
	}
	o, err := w.SpawnUnit(KindOrc, team, pos)
	if err != nil {
		return nil, err
	}
	w.SimLog.AddVerbose(w.tick, o.Label, team.String(), "spawn", "orc",
		fmt.Sprintf("(%.0f,%.0f)", pos.X, pos.Y), 0)
	return o, nil
}
