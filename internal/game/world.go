package game

import (
	"fmt"
	"io"
	"math/rand"
	"sort"

	"github.com/Garsondee/Arena-Sense/internal/config"
	"github.com/Garsondee/Arena-Sense/internal/geom"
	"github.com/Garsondee/Arena-Sense/internal/nav"
	"github.com/charmbracelet/log"
)

// Outcome is the match result. Winner is TeamNeutral for a draw.
type Outcome struct {
	Over   bool
	Winner Team
	Reason string
	Tick   int
}

// World owns every entity and the static arena, and advances the match.
// It is single-threaded: Step processes entities one after another.
type World struct {
	cfg   config.Config
	rules config.Rules
	log   *log.Logger
	rng   *rand.Rand

	SimLog   *SimLog
	Thoughts *ThoughtLog

	entities map[int]*Entity
	order    []int
	nextID   int

	graph     *nav.Graph
	search    *nav.Graph
	routes    []*nav.Graph
	obstacles []*Obstacle
	index     *obstacleIndex
	bounds    geom.Vec2
	bases     map[Team]config.Base
	fleeNodes map[Team][]int

	tick     int
	elapsed  float64
	timeLeft float64
	scores   [2]float64
	kos      [2]int
	kills    [2]int
	outcome  Outcome
}

// NewWorld builds the static arena: graph, patrol routes and obstacles.
// Call SpawnAll to place the structures and rosters. A nil logger
// discards everything.
func NewWorld(cfg *config.Config, seed int64, logger *log.Logger) (*World, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	scaled := cfg.Scaled()
	w := &World{
		cfg:       scaled,
		rules:     scaled.Rules,
		log:       logger,
		rng:       rand.New(rand.NewSource(seed)), // #nosec G404 -- simulation RNG
		SimLog:    NewSimLog(false),
		Thoughts:  NewThoughtLog(),
		entities:  make(map[int]*Entity),
		nextID:    1,
		bounds:    geom.V(scaled.Arena.Width, scaled.Arena.Height),
		bases:     make(map[Team]config.Base),
		fleeNodes: make(map[Team][]int),
		timeLeft:  scaled.Rules.TimeLimit,
	}

	g, err := scaled.Arena.NavGraph()
	if err != nil {
		return nil, fmt.Errorf("world graph: %w", err)
	}
	w.graph = g
	for i, ids := range scaled.Arena.Routes {
		r, err := g.Route(ids...)
		if err != nil {
			return nil, fmt.Errorf("route %d: %w", i, err)
		}
		if scaled.Rules.RouteSpacing > 0 {
			r = nav.Interpolate(r, scaled.Rules.RouteSpacing)
		}
		if err := r.Validate(); err != nil {
			return nil, fmt.Errorf("route %d: %w", i, err)
		}
		w.routes = append(w.routes, r)
	}

	for _, oc := range scaled.Arena.Obstacles {
		o, err := obstacleFromConfig(oc)
		if err != nil {
			return nil, err
		}
		w.obstacles = append(w.obstacles, o)
	}
	w.index = newObstacleIndex(w.obstacles)
	if s := scaled.Arena.SearchGrid; s > 0 {
		w.search = nav.GridGraph(w.bounds.X, w.bounds.Y, s, func(p geom.Vec2) bool {
			return w.nearObstacle(p, s/2)
		})
	}

	for _, b := range scaled.Arena.Bases {
		t, err := ParseTeam(b.Team)
		if err != nil {
			return nil, err
		}
		w.bases[t] = b
	}
	for name, ids := range scaled.Arena.FleeNodes {
		t, err := ParseTeam(name)
		if err != nil {
			return nil, err
		}
		w.fleeNodes[t] = ids
	}
	logger.Debug("arena built", "nodes", g.Len(), "routes", len(w.routes), "obstacles", len(w.obstacles))
	return w, nil
}

// SpawnAll places both bases, every tower and each team's roster.
func (w *World) SpawnAll() error {
	for _, t := range []Team{TeamBlue, TeamRed} {
		if _, err := w.SpawnBase(t); err != nil {
			return err
		}
	}
	for _, tc := range w.cfg.Arena.Towers {
		t, err := ParseTeam(tc.Team)
		if err != nil {
			return err
		}
		if _, err := w.SpawnTower(t, tc.Pos.Vec()); err != nil {
			return err
		}
	}
	for _, t := range []Team{TeamBlue, TeamRed} {
		for _, name := range w.rules.Roster {
			k, err := ParseKind(name)
			if err != nil {
				return err
			}
			if _, err := w.SpawnCharacter(k, t); err != nil {
				return err
			}
		}
	}
	return nil
}

// Config returns the effective configuration, speed multiplier applied.
func (w *World) Config() config.Config { return w.cfg }

// Rules returns the effective match rules.
func (w *World) Rules() config.Rules { return w.rules }

// Logger returns the operational logger.
func (w *World) Logger() *log.Logger { return w.log }

// Graph returns the full navigation graph.
func (w *World) Graph() *nav.Graph { return w.graph }

// SearchGraph is the graph searching units path over: the search grid
// when the arena has one, the navigation graph otherwise.
func (w *World) SearchGraph() *nav.Graph {
	if w.search != nil {
		return w.search
	}
	return w.graph
}

// Routes returns the patrol routes.
func (w *World) Routes() []*nav.Graph { return w.routes }

// Obstacles returns the arena obstacles.
func (w *World) Obstacles() []*Obstacle { return w.obstacles }

// Bounds returns the arena size.
func (w *World) Bounds() geom.Vec2 { return w.bounds }

// Tick returns the number of completed steps.
func (w *World) Tick() int { return w.tick }

// Elapsed returns simulated seconds.
func (w *World) Elapsed() float64 { return w.elapsed }

// TimeLeft returns the countdown.
func (w *World) TimeLeft() float64 { return w.timeLeft }

// Score returns a team's score.
func (w *World) Score(t Team) float64 {
	if t > TeamRed {
		return 0
	}
	return w.scores[t]
}

// KOs returns how many times a team's heroes were knocked out.
func (w *World) KOs(t Team) int {
	if t > TeamRed {
		return 0
	}
	return w.kos[t]
}

// Kills returns how many entities a team destroyed or knocked out.
func (w *World) Kills(t Team) int {
	if t > TeamRed {
		return 0
	}
	return w.kills[t]
}

// Outcome returns the match result so far.
func (w *World) Outcome() Outcome { return w.outcome }

// Rand exposes the world RNG to states.
func (w *World) Rand() *rand.Rand { return w.rng }

// Get returns a live registry entry, or nil when the id is gone.
func (w *World) Get(id int) *Entity { return w.entities[id] }

// Entities returns a snapshot of all entities in id order.
func (w *World) Entities() []*Entity {
	out := make([]*Entity, 0, len(w.order))
	for _, id := range w.order {
		if e := w.entities[id]; e != nil {
			out = append(out, e)
		}
	}
	return out
}

// Add registers an entity and assigns its id and label.
func (w *World) Add(e *Entity) *Entity {
	e.ID = w.nextID
	w.nextID++
	e.Label = fmt.Sprintf("%c%c%d", e.Team.letter(), e.Kind.letter(), e.ID)
	w.entities[e.ID] = e
	w.order = append(w.order, e.ID)
	return e
}

// Remove deletes an entity. Removing a base ends the match.
func (w *World) Remove(id int) {
	e, ok := w.entities[id]
	if !ok {
		return
	}
	delete(w.entities, id)
	i := sort.SearchInts(w.order, id)
	if i < len(w.order) && w.order[i] == id {
		w.order = append(w.order[:i], w.order[i+1:]...)
	}
	if e.Kind == KindBase && !w.outcome.Over {
		w.finish(e.Team.Opponent(), "base destroyed")
	}
}

// Target resolves e's target, clearing nothing. It returns nil when the
// target is gone, knocked out or dead.
func (w *World) Target(e *Entity) *Entity {
	if e.TargetID == 0 {
		return nil
	}
	t := w.entities[e.TargetID]
	if t == nil || !t.Alive() {
		return nil
	}
	return t
}

// RandomRoute picks a patrol route.
func (w *World) RandomRoute() *nav.Graph {
	if len(w.routes) == 0 {
		return w.graph
	}
	return w.routes[w.rng.Intn(len(w.routes))]
}

// Step advances the match by dt seconds. Entities are processed in id
// order over a snapshot taken at the start of the step; ones removed
// earlier in the same step are skipped. An error from a brain aborts the
// step.
func (w *World) Step(dt float64) error {
	if w.outcome.Over {
		return nil
	}
	w.tick++
	ids := append([]int(nil), w.order...)
	for _, id := range ids {
		e := w.entities[id]
		if e == nil {
			continue
		}
		if err := w.process(e, dt); err != nil {
			return fmt.Errorf("tick %d %s: %w", w.tick, e.Label, err)
		}
	}

	w.elapsed += dt
	w.timeLeft -= dt
	if !w.outcome.Over && w.rules.TimeLimit > 0 && w.timeLeft <= 0 {
		switch {
		case w.scores[TeamBlue] > w.scores[TeamRed]:
			w.finish(TeamBlue, "time limit")
		case w.scores[TeamRed] > w.scores[TeamBlue]:
			w.finish(TeamRed, "time limit")
		default:
			w.finish(TeamNeutral, "time limit")
		}
	}
	return nil
}

func (w *World) finish(winner Team, reason string) {
	w.outcome = Outcome{Over: true, Winner: winner, Reason: reason, Tick: w.tick}
	result := outcomeLabel(w.outcome)
	w.SimLog.Add(w.tick, "--", "--", "match", "end",
		fmt.Sprintf("%s (%s) %.0f-%.0f", result, reason, w.scores[TeamBlue], w.scores[TeamRed]), 0)
	w.log.Info("match over", "result", result, "reason", reason,
		"blue", w.scores[TeamBlue], "red", w.scores[TeamRed], "tick", w.tick)
}

func (w *World) process(e *Entity, dt float64) error {
	e.tickCooldowns(dt)

	switch e.Kind {
	case KindProjectile:
		w.processProjectile(e, dt)
		return nil
	case KindExplosion:
		w.processExplosion(e, dt)
		return nil
	}

	if e.Kind.IsCharacter() && !e.KO && e.HP <= 0 {
		e.KO = true
		e.RespawnLeft = w.rules.RespawnTime
		w.kos[e.Team]++
		w.SimLog.Add(w.tick, e.Label, e.Team.String(), "combat", "ko", e.Kind.String(), 0)
		w.log.Debug("knocked out", "unit", e.Label)
		if err := e.Brain.SetState(StateKO); err != nil {
			return err
		}
	}

	if e.Brain != nil {
		if err := e.Brain.Think(); err != nil {
			return err
		}
	}
	if !e.KO && e.MaxSpeed > 0 {
		w.move(e, dt)
	}
	if e.Kind.IsCharacter() && !e.KO {
		w.maybeLevelUp(e)
	}
	return nil
}

// move integrates velocity, sliding along an axis when the full step would
// enter an obstacle body, and clamps to the arena.
func (w *World) move(e *Entity, dt float64) {
	if e.Vel.IsZero() {
		return
	}
	next := e.Pos.Add(e.Vel.Scale(dt))
	if w.Blocked(next) && !w.Blocked(e.Pos) {
		switch {
		case !w.Blocked(geom.V(next.X, e.Pos.Y)):
			next = geom.V(next.X, e.Pos.Y)
		case !w.Blocked(geom.V(e.Pos.X, next.Y)):
			next = geom.V(e.Pos.X, next.Y)
		default:
			return
		}
	}
	next.X = clamp(next.X, 0, w.bounds.X)
	next.Y = clamp(next.Y, 0, w.bounds.Y)
	e.Pos = next
}

// Blocked reports whether p is inside any obstacle body.
func (w *World) Blocked(p geom.Vec2) bool {
	for _, o := range w.index.Near(p, 0) {
		if o.Contains(p) {
			return true
		}
	}
	return false
}

func (w *World) maybeLevelUp(e *Entity) {
	if w.rules.XPToLevel <= 0 || e.XP < w.rules.XPToLevel {
		return
	}
	e.XP -= w.rules.XPToLevel
	stat := w.levelUpChoice(e)
	pct := w.rules.LevelUpPercentage
	if stat == StatHealingCooldown && w.rules.LevelUpHealingPercentage > 0 {
		pct = w.rules.LevelUpHealingPercentage
	}
	e.applyLevelUp(stat, pct)
	w.SimLog.Add(w.tick, e.Label, e.Team.String(), "xp", "level_up",
		fmt.Sprintf("level %d: %s", e.Level, stat), float64(e.Level))
	w.Thoughts.Add(w.tick, e.Label, e.Team, fmt.Sprintf("level %d, better %s", e.Level, stat))
	w.log.Debug("level up", "unit", e.Label, "level", e.Level, "stat", stat)
}

func (w *World) levelUpChoice(e *Entity) Stat {
	switch e.Kind {
	case KindKnight:
		opts := []Stat{StatHealingCooldown, StatSpeed, StatMeleeCooldown}
		return opts[w.rng.Intn(len(opts))]
	case KindArcher:
		if w.rng.Float64() < 0.7 {
			return StatRangedCooldown
		}
		return StatHealingCooldown
	default:
		return StatRangedCooldown
	}
}

// nearObstacle reports whether p is inside a body or closer than clearance to one.
func (w *World) nearObstacle(p geom.Vec2, clearance float64) bool {
	for _, o := range w.index.Near(p, clearance) {
		if o.Distance(p) < clearance {
			return true
		}
	}
	return false
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
