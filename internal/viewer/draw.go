package viewer

import (
	"fmt"
	"image/color"

	"github.com/Garsondee/Arena-Sense/internal/game"
	"github.com/Garsondee/Arena-Sense/internal/geom"
	"github.com/Garsondee/Arena-Sense/internal/nav"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/colornames"
)

var (
	groundColor   = color.RGBA{R: 38, G: 52, B: 36, A: 255}
	obstacleColor = colornames.Saddlebrown
	boundaryColor = color.RGBA{R: 200, G: 170, B: 120, A: 90}
	graphColor    = color.RGBA{R: 120, G: 120, B: 120, A: 120}
	routeColor    = color.RGBA{R: 240, G: 230, B: 140, A: 60}
	threatColor   = colornames.Orangered
	targetColor   = colornames.Gold
	selectColor   = colornames.White
)

// teamColor is the fill for a team's units.
func teamColor(t game.Team) color.RGBA {
	switch t {
	case game.TeamBlue:
		return colornames.Royalblue
	case game.TeamRed:
		return colornames.Firebrick
	}
	return colornames.Gray
}

func (v *Viewer) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 12, G: 14, B: 12, A: 255})
	ox, oy := float32(v.offX), float32(v.offY)
	vector.FillRect(screen, ox, oy, float32(v.arenaW), float32(v.arenaH), groundColor, false)
	vector.StrokeRect(screen, ox-1, oy-1, float32(v.arenaW)+2, float32(v.arenaH)+2, 2, colornames.Darkolivegreen, false)

	if v.showRoutes {
		for _, r := range v.routes {
			v.drawGraph(screen, r, routeColor, false)
		}
	}
	if v.showGraph {
		v.drawGraph(screen, v.world.Graph(), graphColor, true)
	}
	for _, o := range v.world.Obstacles() {
		v.drawObstacle(screen, o)
	}
	for _, e := range v.world.Entities() {
		v.drawEntity(screen, e)
	}
	if sel := v.world.Get(v.selected); sel != nil {
		v.drawSelection(screen, sel)
	}

	drawThoughtPanel(screen, v.world.Thoughts, v.selectedLabel(), v.offX+v.arenaW+v.offX, v.height)
	if v.showHUD {
		v.drawHUD(screen)
	}
	if sel := v.world.Get(v.selected); sel != nil {
		drawInspector(screen, unitReport(v.world, sel), v.offX+8, v.offY+8)
	}
}

func (v *Viewer) toScreen(p geom.Vec2) (float32, float32) {
	return float32(p.X) + float32(v.offX), float32(p.Y) + float32(v.offY)
}

func (v *Viewer) drawGraph(screen *ebiten.Image, g *nav.Graph, c color.Color, ids bool) {
	for _, conn := range g.Edges() {
		x0, y0 := v.toScreen(conn.From.Pos)
		x1, y1 := v.toScreen(conn.To.Pos)
		vector.StrokeLine(screen, x0, y0, x1, y1, 1, c, false)
	}
	for _, n := range g.Nodes() {
		x, y := v.toScreen(n.Pos)
		vector.FillCircle(screen, x, y, 2, c, false)
		if ids {
			ebitenutil.DebugPrintAt(screen, fmt.Sprint(n.ID), int(x)+3, int(y)-14)
		}
	}
}

func (v *Viewer) drawObstacle(screen *ebiten.Image, o *game.Obstacle) {
	verts := o.Vertices()
	var path vector.Path
	for i, p := range verts {
		x, y := v.toScreen(p)
		if i == 0 {
			path.MoveTo(x, y)
		} else {
			path.LineTo(x, y)
		}
	}
	path.Close()
	op := &vector.DrawPathOptions{AntiAlias: true}
	op.ColorScale.ScaleWithColor(obstacleColor)
	vector.FillPath(screen, &path, &vector.FillOptions{}, op)

	for i := range o.Boundary {
		a, b := o.Boundary[i], o.Boundary[(i+1)%len(o.Boundary)]
		x0, y0 := v.toScreen(a)
		x1, y1 := v.toScreen(b)
		vector.StrokeLine(screen, x0, y0, x1, y1, 1, boundaryColor, true)
	}
}

func (v *Viewer) drawEntity(screen *ebiten.Image, e *game.Entity) {
	x, y := v.toScreen(e.Pos)
	r := float32(e.Radius)
	col := teamColor(e.Team)
	switch {
	case e.Kind == game.KindProjectile:
		vector.FillCircle(screen, x, y, 3, colornames.Khaki, true)
		return
	case e.Kind == game.KindExplosion:
		vector.StrokeCircle(screen, x, y, r, 2, colornames.Orange, true)
		return
	case e.Kind.IsStructure():
		vector.FillRect(screen, x-r, y-r, 2*r, 2*r, col, false)
		vector.StrokeRect(screen, x-r, y-r, 2*r, 2*r, 1, colornames.Black, false)
	case e.KO:
		vector.StrokeCircle(screen, x, y, r, 1, col, true)
		return
	default:
		vector.FillCircle(screen, x, y, r, col, true)
		if !e.Vel.IsZero() {
			h := e.Pos.Add(e.Vel.Norm().Scale(e.Radius + 4))
			hx, hy := v.toScreen(h)
			vector.StrokeLine(screen, x, y, hx, hy, 2, colornames.Whitesmoke, true)
		}
	}
	drawHealthBar(screen, x-r, y-r-6, 2*r, e.HPFraction())
	ebitenutil.DebugPrintAt(screen, e.Label, int(x-r), int(y+r))
}

func drawHealthBar(screen *ebiten.Image, x, y, w float32, frac float64) {
	vector.FillRect(screen, x, y, w, 3, colornames.Darkred, false)
	vector.FillRect(screen, x, y, w*float32(frac), 3, colornames.Limegreen, false)
}

// drawSelection rings the selected unit and draws its target, its path
// intent and, when enabled, a line to every threat it can see.
func (v *Viewer) drawSelection(screen *ebiten.Image, e *game.Entity) {
	x, y := v.toScreen(e.Pos)
	vector.StrokeCircle(screen, x, y, float32(e.Radius)+4, 1.5, selectColor, true)

	if e.HasMoveTarget {
		mx, my := v.toScreen(e.MoveTarget)
		vector.StrokeLine(screen, x, y, mx, my, 1, colornames.Lightgreen, true)
		vector.StrokeCircle(screen, mx, my, 3, 1, colornames.Lightgreen, true)
	}
	if t := v.world.Target(e); t != nil {
		tx, ty := v.toScreen(t.Pos)
		vector.StrokeLine(screen, x, y, tx, ty, 1.5, targetColor, true)
	}
	if v.showThreats {
		threats := v.world.CollectThreats(e, v.world.Rules().FleeRadius)
		for _, t := range threats.Immediate {
			tx, ty := v.toScreen(t.Pos)
			vector.StrokeLine(screen, x, y, tx, ty, 1, threatColor, true)
		}
		for _, t := range threats.Latent {
			tx, ty := v.toScreen(t.Pos)
			vector.StrokeLine(screen, x, y, tx, ty, 1, color.RGBA{R: 255, G: 69, B: 0, A: 70}, true)
		}
	}
}

func (v *Viewer) drawHUD(screen *ebiten.Image) {
	w := v.world
	speed := fmt.Sprintf("%gx", v.speed)
	if v.speed == 0 {
		speed = "PAUSED"
	}
	lines := []string{
		fmt.Sprintf("T=%d  %.0fs left  blue %.0f : %.0f red", w.Tick(), w.TimeLeft(), w.Score(game.TeamBlue), w.Score(game.TeamRed)),
		fmt.Sprintf("SIM: %s  P=pause  ,/. speed", speed),
		"G=graph R=routes T=threats H=hud",
		"click=select  C=copy report",
	}
	if o := w.Outcome(); o.Over {
		lines = append([]string{"MATCH OVER: " + game.DetermineMatchOutcome(w, v.seed).Description}, lines...)
	}
	if v.status != "" {
		lines = append(lines, v.status)
	}
	const lineH = 14
	y := v.offY + v.arenaH - len(lines)*lineH - 6
	vector.FillRect(screen, float32(v.offX+4), float32(y-4), 260, float32(len(lines)*lineH+8),
		color.RGBA{R: 6, G: 10, B: 6, A: 210}, false)
	for i, l := range lines {
		ebitenutil.DebugPrintAt(screen, l, v.offX+10, y+i*lineH)
	}
}

func (v *Viewer) selectedLabel() string {
	if e := v.world.Get(v.selected); e != nil {
		return e.Label
	}
	return ""
}
