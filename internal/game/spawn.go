package game

import (
	"fmt"

	"github.com/Garsondee/Arena-Sense/internal/config"
	"github.com/Garsondee/Arena-Sense/internal/geom"
)

// statsFor looks up the configured statistics for a kind on a team.
// Neutral towers are grey towers; red gets the difficulty multiplier on
// HP and damage.
func (w *World) statsFor(kind Kind, team Team) (config.Stats, error) {
	name := kind.String()
	if kind == KindTower && team == TeamNeutral {
		name = "grey_tower"
	}
	s, ok := w.cfg.Units.StatsFor(name)
	if !ok {
		return config.Stats{}, fmt.Errorf("no stats for %s", name)
	}
	if team == TeamRed {
		m := w.rules.RedMultiplier()
		s.MaxHP *= m
		s.MeleeDamage *= m
		s.RangedDamage *= m
	}
	return s, nil
}

// SpawnUnit creates a unit of kind at pos with its brain running.
func (w *World) SpawnUnit(kind Kind, team Team, pos geom.Vec2) (*Entity, error) {
	if kind.IsMissile() {
		return nil, fmt.Errorf("spawn %s: missiles are launched, not spawned", kind)
	}
	s, err := w.statsFor(kind, team)
	if err != nil {
		return nil, err
	}
	e := newEntity(kind, team, pos, s)
	if kind.IsCharacter() {
		e.HealingCooldown = w.rules.HealingCooldown
		e.HealingPercentage = w.rules.HealingPercentage
		e.RespawnLeft = w.rules.RespawnTime
	}
	if b, ok := w.bases[team]; ok {
		e.GoalNode = b.TargetNode
	}
	w.Add(e)

	var initial StateName
	e.Brain, initial = w.newBrain(e)
	e.Brain.OnChange = func(from, to StateName) { w.stateChanged(e, from, to) }
	if kind.IsCharacter() || kind == KindOrc {
		e.Route = w.RandomRoute()
	}
	if err := e.Brain.SetState(initial); err != nil {
		return nil, err
	}
	w.SimLog.Add(w.tick, e.Label, team.String(), "spawn", kind.String(),
		fmt.Sprintf("(%.0f,%.0f)", pos.X, pos.Y), e.MaxHP)
	return e, nil
}

// SpawnCharacter places a hero at its team's spawn node.
func (w *World) SpawnCharacter(kind Kind, team Team) (*Entity, error) {
	if !kind.IsCharacter() {
		return nil, fmt.Errorf("spawn %s: not a character", kind)
	}
	pos, err := w.spawnPoint(team)
	if err != nil {
		return nil, err
	}
	return w.SpawnUnit(kind, team, pos)
}

// SpawnBase places team's base.
func (w *World) SpawnBase(team Team) (*Entity, error) {
	b, ok := w.bases[team]
	if !ok {
		return nil, fmt.Errorf("no %s base in arena", team)
	}
	return w.SpawnUnit(KindBase, team, b.Pos.Vec())
}

// SpawnTower places a tower; neutral towers are the invulnerable grey kind.
func (w *World) SpawnTower(team Team, pos geom.Vec2) (*Entity, error) {
	return w.SpawnUnit(KindTower, team, pos)
}

func (w *World) spawnPoint(team Team) (geom.Vec2, error) {
	b, ok := w.bases[team]
	if !ok {
		return geom.Vec2{}, fmt.Errorf("no %s base in arena", team)
	}
	if n := w.graph.Node(b.SpawnNode); n != nil {
		return n.Pos, nil
	}
	return b.Pos.Vec(), nil
}

// newBrain wires the archetype's states and names the first one.
func (w *World) newBrain(e *Entity) (*Brain, StateName) {
	base := unitState{w: w, e: e}
	switch e.Kind {
	case KindKnight:
		return NewBrain(
			&seekingState{unitState: base, engageState: StateAttacking, heal: true},
			&meleeAttackState{unitState: base, fleeBelow: knightFleeBelow},
			&knightFleeState{unitState: base},
			&koState{unitState: base},
		), StateSeeking
	case KindArcher:
		return NewBrain(
			&seekingState{unitState: base, engageState: StateCombat, heal: true, visible: true},
			&rangedCombatState{unitState: base, name: StateCombat, search: true},
			&searchingState{unitState: base, resume: StateCombat},
			&koState{unitState: base},
		), StateSeeking
	case KindWizard:
		return NewBrain(
			&seekingState{unitState: base, engageState: StateAttacking, fleeBelow: wizardSeekFleeBelow},
			&rangedCombatState{unitState: base, name: StateAttacking, splash: true, fleeBelow: wizardAttackFleeBelow},
			&wizardFleeState{unitState: base},
			&koState{unitState: base},
		), StateSeeking
	case KindOrc:
		return NewBrain(
			&seekingState{unitState: base, engageState: StateAttacking},
			&meleeAttackState{unitState: base},
		), StateSeeking
	default:
		return NewBrain(&guardState{unitState: base}), StateGuarding
	}
}

func (w *World) stateChanged(e *Entity, from, to StateName) {
	if from == "" {
		return
	}
	w.SimLog.Add(w.tick, e.Label, e.Team.String(), "state", "change",
		fmt.Sprintf("%s → %s", from, to), 0)
	w.Thoughts.Add(w.tick, e.Label, e.Team, fmt.Sprintf("%s → %s", from, to))
	w.log.Debug("state change", "unit", e.Label, "from", from, "to", to)
}
