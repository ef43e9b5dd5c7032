package game

import (
	"errors"
	"testing"

	"github.com/Garsondee/Arena-Sense/internal/config"
	"github.com/Garsondee/Arena-Sense/internal/geom"
	"github.com/Garsondee/Arena-Sense/internal/nav"
	"github.com/stretchr/testify/require"
)

func findKind(w *World, k Kind, team Team) *Entity {
	for _, e := range w.Entities() {
		if e.Kind == k && e.Team == team {
			return e
		}
	}
	return nil
}

func TestNewWorld_UnknownRouteNode(t *testing.T) {
	cfg, err := config.Default()
	require.NoError(t, err)
	cfg.Arena.Routes = append(cfg.Arena.Routes, []int{0, 999})

	_, err = NewWorld(cfg, 1, nil)
	require.Error(t, err)
	require.True(t, errors.Is(err, nav.ErrUnknownNode), "got %v", err)
}

func TestSpawnAll_PlacesEverything(t *testing.T) {
	ts := NewTestSim(WithFullMatch())
	w := ts.World
	require.Equal(t, 2, countKind(w, KindBase))
	require.Equal(t, len(ts.Config.Arena.Towers), countKind(w, KindTower))
	for _, k := range []Kind{KindKnight, KindArcher, KindWizard} {
		for _, team := range []Team{TeamBlue, TeamRed} {
			e := findKind(w, k, team)
			require.NotNil(t, e, "%s %s", team, k)
			require.NotNil(t, e.Route)
			require.Equal(t, StateSeeking, e.Brain.ActiveName())
		}
	}
	grey := findKind(w, KindTower, TeamNeutral)
	require.NotNil(t, grey)
	require.True(t, grey.Invulnerable)
}

func TestWorld_LabelsAndOrder(t *testing.T) {
	ts := NewTestSim(WithoutObstacles(),
		WithUnit(KindKnight, TeamBlue, 100, 100),
		WithUnit(KindOrc, TeamRed, 200, 100),
		WithUnit(KindArcher, TeamBlue, 300, 100),
	)
	require.Equal(t, "BK1", ts.Units[0].Label)
	require.Equal(t, "RO2", ts.Units[1].Label)

	ts.World.Remove(ts.Units[1].ID)
	ts.World.Remove(ts.Units[1].ID)
	ids := []int{}
	for _, e := range ts.World.Entities() {
		ids = append(ids, e.ID)
	}
	require.Equal(t, []int{1, 3}, ids)
	require.Nil(t, ts.World.Get(2))
}

func TestWorld_RemovingBaseEndsMatch(t *testing.T) {
	ts := NewTestSim(WithFullMatch())
	base := findKind(ts.World, KindBase, TeamBlue)
	require.NotNil(t, base)

	ts.RunTicks(3)
	ts.World.Remove(base.ID)
	o := ts.World.Outcome()
	require.True(t, o.Over)
	require.Equal(t, TeamRed, o.Winner)
	require.Equal(t, 3, o.Tick)

	ts.RunTicks(5)
	require.Equal(t, 3, ts.World.Tick(), "a finished match does not advance")

	r := DetermineMatchOutcome(ts.World, 1)
	require.Equal(t, OutcomeRedVictory, r.Outcome)
	require.Equal(t, "red_victory_base_destroyed", r.Description)
	require.Equal(t, "red", r.Winner())
	require.True(t, ts.SimLog.HasEntry("match", "end", "red"))
}

func TestWorld_TimeLimitDraw(t *testing.T) {
	ts := NewTestSim(WithoutObstacles(), WithConfig(func(c *config.Config) {
		c.Rules.TimeLimit = 1
	}))
	ts.RunTicks(31)
	require.NoError(t, ts.Err)
	o := ts.World.Outcome()
	require.True(t, o.Over)
	require.Equal(t, TeamNeutral, o.Winner)
	require.Equal(t, "time limit", o.Reason)

	r := DetermineMatchOutcome(ts.World, 1)
	require.Equal(t, OutcomeDraw, r.Outcome)
	require.Equal(t, "draw_time_limit", r.Description)
}

func TestWorld_StepReportsBrainErrors(t *testing.T) {
	ts := NewTestSim(WithoutObstacles(), WithUnit(KindKnight, TeamBlue, 100, 100))
	ts.Units[0].Brain = NewBrain()

	ts.RunTicks(3)
	require.Error(t, ts.Err)
	require.True(t, errors.Is(ts.Err, ErrNoActiveState))
	require.Equal(t, 1, ts.World.Tick(), "runner stops on the first error")
}

func TestWorld_MoveSlidesAlongObstacle(t *testing.T) {
	ts := NewTestSim(wallObstacle())
	e := &Entity{Pos: geom.V(390, 350), Vel: geom.V(600, 600), MaxSpeed: 900}
	ts.World.move(e, 1.0/30)
	require.InDelta(t, 390, e.Pos.X, 1e-9)
	require.InDelta(t, 370, e.Pos.Y, 1e-9)
}

func TestWorld_MoveClampsToArena(t *testing.T) {
	ts := NewTestSim(WithoutObstacles())
	e := &Entity{Pos: geom.V(1020, 760), Vel: geom.V(300, 300), MaxSpeed: 300}
	ts.World.move(e, 1.0/30)
	require.Equal(t, ts.World.Bounds(), e.Pos)
}

func TestWorld_StructureDamageScores(t *testing.T) {
	ts := NewTestSim(WithoutObstacles(),
		WithUnit(KindKnight, TeamBlue, 500, 400),
		WithUnit(KindTower, TeamRed, 520, 400),
		WithUnit(KindTower, TeamNeutral, 480, 400),
	)
	k, tower, grey := ts.Units[0], ts.Units[1], ts.Units[2]

	require.True(t, ts.World.MeleeAttack(k, tower))
	require.Equal(t, tower.MaxHP-k.MeleeDamage, tower.HP)
	require.Equal(t, k.MeleeDamage, ts.World.Score(TeamBlue))
	require.Zero(t, ts.World.Score(TeamRed))

	k.MeleeCooldownLeft = 0
	require.True(t, ts.World.MeleeAttack(k, grey))
	require.Equal(t, grey.MaxHP, grey.HP, "grey towers cannot be hurt")
	require.Equal(t, k.MeleeDamage, ts.World.Score(TeamBlue))
}

func TestDetermineMatchOutcome_ScoreLead(t *testing.T) {
	ts := NewTestSim(WithoutObstacles())
	r := DetermineMatchOutcome(ts.World, 9)
	require.Equal(t, OutcomeInconclusive, r.Outcome)
	require.Equal(t, "inconclusive_no_structure_damage", r.Description)

	ts.World.scores[TeamBlue] = 300
	ts.World.scores[TeamRed] = 100
	r = DetermineMatchOutcome(ts.World, 9)
	require.Equal(t, OutcomeBlueVictory, r.Outcome)
	require.Equal(t, "blue", r.Env()["winner"])
	require.Equal(t, int64(9), r.Seed)

	ts.World.scores[TeamRed] = 280
	r = DetermineMatchOutcome(ts.World, 9)
	require.Equal(t, OutcomeInconclusive, r.Outcome)
	require.Equal(t, "inconclusive_close_score", r.Description)
}

func TestSpawnUnit_HardScalesRed(t *testing.T) {
	ts := NewTestSim(WithoutObstacles(),
		WithConfig(func(c *config.Config) { c.Rules.Difficulty = "hard" }),
		WithUnit(KindKnight, TeamBlue, 100, 100),
		WithUnit(KindKnight, TeamRed, 200, 100),
	)
	blue, red := ts.Units[0], ts.Units[1]
	m := ts.Config.Rules.HardMultiplier
	require.InDelta(t, blue.MaxHP*m, red.MaxHP, 1e-9)
	require.InDelta(t, blue.MeleeDamage*m, red.MeleeDamage, 1e-9)
	require.Equal(t, blue.MaxSpeed, red.MaxSpeed)
}
