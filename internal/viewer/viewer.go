// Package viewer is the ebiten debug window for a running match.
package viewer

import (
	"fmt"

	"github.com/Garsondee/Arena-Sense/internal/game"
	"github.com/Garsondee/Arena-Sense/internal/geom"
	"github.com/Garsondee/Arena-Sense/internal/nav"
	"github.com/atotto/clipboard"
	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// borderWidth is the pixel gap between the window edge and the arena.
const borderWidth = 24

// speeds are the selectable simulation rates; 0 is paused.
var speeds = []float64{0, 0.5, 1, 2, 4}

// Viewer implements ebiten.Game over a game.World. Each Update runs as many
// world steps as the current speed asks for.
type Viewer struct {
	world *game.World
	log   *log.Logger
	seed  int64
	dt    float64

	width, height int
	arenaW        int
	arenaH        int
	offX, offY    int

	speed     float64
	tickAccum float64

	selected int // entity id, 0 for none

	// routes are the patrol routes folded back to their arena waypoints.
	routes []*nav.Graph

	showGraph   bool
	showRoutes  bool
	showThreats bool
	showHUD     bool

	status string // last clipboard result, shown in the HUD
}

// New wraps w. seed is only used for the match report.
func New(w *game.World, seed int64, logger *log.Logger) *Viewer {
	b := w.Bounds()
	v := &Viewer{
		world:       w,
		log:         logger,
		seed:        seed,
		dt:          1 / w.Rules().TickRate,
		arenaW:      int(b.X),
		arenaH:      int(b.Y),
		offX:        borderWidth,
		offY:        borderWidth,
		speed:       1,
		showRoutes:  true,
		showThreats: true,
		showHUD:     true,
	}
	for _, r := range w.Routes() {
		v.routes = append(v.routes, waypoints(w.Graph(), r))
	}
	v.width = borderWidth + v.arenaW + borderWidth + logPanelWidth
	v.height = borderWidth + v.arenaH + borderWidth
	return v
}

// waypoints collapses an interpolated route onto the nodes it shares with
// the arena graph.
func waypoints(arena, route *nav.Graph) *nav.Graph {
	return nav.Collapse(route, func(id int) bool {
		a, r := arena.Node(id), route.Node(id)
		return a != nil && r != nil && a.Pos == r.Pos
	})
}

// Size is the window size the viewer lays out for.
func (v *Viewer) Size() (int, int) { return v.width, v.height }

func (v *Viewer) Update() error {
	v.handleInput()
	if v.speed <= 0 || v.world.Outcome().Over {
		return nil
	}
	// Speeds above 1 run several steps a frame; below 1 accumulate.
	v.tickAccum += v.speed
	for v.tickAccum >= 1 {
		v.tickAccum--
		if err := v.world.Step(v.dt); err != nil {
			return fmt.Errorf("step: %w", err)
		}
		if o := v.world.Outcome(); o.Over {
			v.log.Info("match finished", "winner", o.Winner, "reason", o.Reason, "tick", o.Tick)
			break
		}
	}
	return nil
}

func (v *Viewer) handleInput() {
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		if v.speed > 0 {
			v.speed = 0
		} else {
			v.speed = 1
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyComma) {
		v.speed = slower(v.speed)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyPeriod) {
		v.speed = faster(v.speed)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyG) {
		v.showGraph = !v.showGraph
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		v.showRoutes = !v.showRoutes
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyT) {
		v.showThreats = !v.showThreats
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		v.showHUD = !v.showHUD
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		v.copyReport()
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		mx, my := ebiten.CursorPosition()
		v.selected = 0
		if e := pickEntity(v.world, geom.V(float64(mx-v.offX), float64(my-v.offY))); e != nil {
			v.selected = e.ID
		}
	}
}

// copyReport puts the selected unit's report, or the match report when
// nothing is selected, on the system clipboard.
func (v *Viewer) copyReport() {
	text := matchReport(v.world, v.seed)
	if e := v.world.Get(v.selected); e != nil {
		text = unitReport(v.world, e)
	}
	if err := clipboard.WriteAll(text); err != nil {
		v.log.Warn("clipboard", "err", err)
		v.status = "copy failed"
		return
	}
	v.status = "copied"
}

func (v *Viewer) Layout(_, _ int) (int, int) {
	return v.width, v.height
}

// slower returns the next lower speed step.
func slower(cur float64) float64 {
	for i := len(speeds) - 1; i >= 0; i-- {
		if speeds[i] < cur {
			return speeds[i]
		}
	}
	return speeds[0]
}

// faster returns the next higher speed step.
func faster(cur float64) float64 {
	for _, s := range speeds {
		if s > cur {
			return s
		}
	}
	return speeds[len(speeds)-1]
}

// pickEntity returns the non-missile entity closest to the arena point p
// within 16 pixels, or nil.
func pickEntity(w *game.World, p geom.Vec2) *game.Entity {
	const pickRadius = 16.0
	var best *game.Entity
	bestDist := pickRadius
	for _, e := range w.Entities() {
		if e.Kind.IsMissile() {
			continue
		}
		if d := e.Pos.Dist(p); d < bestDist || (best == nil && d == bestDist) {
			best, bestDist = e, d
		}
	}
	return best
}
