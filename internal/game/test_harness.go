package game

import (
	"fmt"

	"github.com/Garsondee/Arena-Sense/internal/config"
	"github.com/Garsondee/Arena-Sense/internal/geom"
)

// TestSim is a headless match harness used by tests. It drives World.Step
// exactly as the viewer and headless runner do, with deterministic
// seeding and structured logging.
type TestSim struct {
	Config   *config.Config
	World    *World
	SimLog   *SimLog
	Reporter *SimReporter
	Units    []*Entity // units added with WithUnit, in option order
	Err      error     // first error returned by World.Step

	seed    int64
	verbose bool
	full    bool
	dt      float64
}

// simOptionKind controls the pass in which an option is applied.
type simOptionKind int

const (
	simOptInfra simOptionKind = iota // config, seed, verbose (applied first)
	simOptUnit                       // add units (applied after the world is built)
	simOptTune                       // adjust units (applied after they exist)
)

// SimOption is a builder function applied to a TestSim during construction.
type SimOption struct {
	kind simOptionKind
	fn   func(*TestSim)
}

// WithSeed sets the RNG seed for deterministic runs.
func WithSeed(seed int64) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.seed = seed
	}}
}

// WithVerbose enables per-hit and per-shot logging.
func WithVerbose(v bool) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.verbose = v
	}}
}

// WithConfig edits the configuration before the world is built.
func WithConfig(fn func(*config.Config)) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		fn(ts.Config)
	}}
}

// WithoutObstacles clears the arena's obstacles.
func WithoutObstacles() SimOption {
	return WithConfig(func(c *config.Config) { c.Arena.Obstacles = nil })
}

// WithFullMatch spawns bases, towers and both rosters.
func WithFullMatch() SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.full = true
	}}
}

// WithUnit adds a unit of kind for team at (x,y).
func WithUnit(kind Kind, team Team, x, y float64) SimOption {
	return SimOption{simOptUnit, func(ts *TestSim) {
		e, err := ts.World.SpawnUnit(kind, team, geom.V(x, y))
		if err != nil {
			panic(fmt.Sprintf("test sim: %v", err))
		}
		ts.Units = append(ts.Units, e)
	}}
}

// WithTune adjusts the i-th unit added by WithUnit.
func WithTune(i int, fn func(*Entity)) SimOption {
	return SimOption{simOptTune, func(ts *TestSim) {
		fn(ts.Units[i])
	}}
}

// NewTestSim constructs a TestSim from the given options in ordered passes:
//  1. Infrastructure (config, seed, verbose)
//  2. Build the World (and spawn the full match if asked)
//  3. Units
//  4. Unit tuning
//
// Setup failures panic: they are mistakes in the test, not the engine.
func NewTestSim(opts ...SimOption) *TestSim {
	cfg, err := config.Default()
	if err != nil {
		panic(fmt.Sprintf("test sim: %v", err))
	}
	ts := &TestSim{Config: cfg, seed: 1}
	for _, o := range opts {
		if o.kind == simOptInfra {
			o.fn(ts)
		}
	}

	w, err := NewWorld(ts.Config, ts.seed, nil)
	if err != nil {
		panic(fmt.Sprintf("test sim: %v", err))
	}
	w.SimLog.SetVerbose(ts.verbose)
	ts.World = w
	ts.SimLog = w.SimLog
	ts.Reporter = NewSimReporter(reportWindowTicks, int(w.Rules().TickRate))
	ts.dt = 1 / w.Rules().TickRate
	if ts.full {
		if err := w.SpawnAll(); err != nil {
			panic(fmt.Sprintf("test sim: %v", err))
		}
	}

	for _, kind := range []simOptionKind{simOptUnit, simOptTune} {
		for _, o := range opts {
			if o.kind == kind {
				o.fn(ts)
			}
		}
	}
	return ts
}

// RunTicks advances the simulation n ticks. It stops early on a step
// error, which is kept in Err.
func (ts *TestSim) RunTicks(n int) {
	for i := 0; i < n && ts.Err == nil; i++ {
		ts.Err = ts.World.Step(ts.dt)
		ts.Reporter.Collect(ts.World)
	}
}

// RunUntil advances the simulation up to maxTicks, stopping early if predicate
// returns true. Returns the tick at which the predicate was satisfied, or -1.
func (ts *TestSim) RunUntil(predicate func(*TestSim) bool, maxTicks int) int {
	for i := 0; i < maxTicks && ts.Err == nil; i++ {
		ts.Err = ts.World.Step(ts.dt)
		ts.Reporter.Collect(ts.World)
		if predicate(ts) {
			return ts.World.Tick()
		}
	}
	return -1
}

// SimSnapshot is a lightweight state summary.
type SimSnapshot struct {
	Tick  int
	Units []UnitSnapshot
}

// UnitSnapshot is a lightweight copy of a unit's state at a tick.
type UnitSnapshot struct {
	ID     int
	Label  string
	Team   Team
	Kind   Kind
	X, Y   float64
	HP     float64
	KO     bool
	State  StateName
	Target int
}

// Snapshot returns the current state of every non-missile entity.
func (ts *TestSim) Snapshot() SimSnapshot {
	snap := SimSnapshot{Tick: ts.World.Tick()}
	for _, e := range ts.World.Entities() {
		if e.Kind.IsMissile() {
			continue
		}
		var state StateName
		if e.Brain != nil {
			state = e.Brain.ActiveName()
		}
		snap.Units = append(snap.Units, UnitSnapshot{
			ID:     e.ID,
			Label:  e.Label,
			Team:   e.Team,
			Kind:   e.Kind,
			X:      e.Pos.X,
			Y:      e.Pos.Y,
			HP:     e.HP,
			KO:     e.KO,
			State:  state,
			Target: e.TargetID,
		})
	}
	return snap
}
