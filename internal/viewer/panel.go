package viewer

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/Garsondee/Arena-Sense/internal/game"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	logPanelWidth = 320
	logLineHeight = 14
)

// drawThoughtPanel renders the thought log on the right of the window,
// newest at the bottom. Lines of the selected unit are highlighted.
func drawThoughtPanel(screen *ebiten.Image, tl *game.ThoughtLog, selected string, panelX, panelH int) {
	vector.FillRect(screen, float32(panelX), 0, float32(logPanelWidth), float32(panelH), color.RGBA{R: 10, G: 12, B: 10, A: 248}, false)
	vector.StrokeLine(screen, float32(panelX), 0, float32(panelX), float32(panelH), 1.0, color.RGBA{R: 50, G: 70, B: 50, A: 255}, false)

	vector.FillRect(screen, float32(panelX), 0, float32(logPanelWidth), 16, color.RGBA{R: 20, G: 30, B: 20, A: 255}, false)
	ebitenutil.DebugPrintAt(screen, "THOUGHT LOG", panelX+8, 2)
	vector.StrokeLine(screen, float32(panelX), 16, float32(panelX+logPanelWidth), 16, 1.0, color.RGBA{R: 50, G: 80, B: 50, A: 200}, false)

	entries := tl.Recent()
	maxVisible := (panelH - 24) / logLineHeight
	if len(entries) > maxVisible {
		entries = entries[len(entries)-maxVisible:]
	}

	y := 20
	for _, e := range entries {
		if selected != "" && e.Label == selected {
			vector.FillRect(screen, float32(panelX+2), float32(y), float32(logPanelWidth-4), float32(logLineHeight), color.RGBA{R: 40, G: 50, B: 30, A: 200}, false)
		}
		vector.FillRect(screen, float32(panelX+5), float32(y+3), 3, 5, teamColor(e.Team), false)
		line := fmt.Sprintf("%4d [%s] %s", e.Tick, e.Label, e.Message)
		ebitenutil.DebugPrintAt(screen, line, panelX+12, y)
		y += logLineHeight
	}
}

// drawInspector draws a text block on a dark backing box.
func drawInspector(screen *ebiten.Image, text string, x, y int) {
	const (
		charW = 6
		lineH = 13
		pad   = 4
	)
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	maxLen := 0
	for _, l := range lines {
		maxLen = max(maxLen, len(l))
	}
	w := float32(maxLen*charW + 2*pad)
	h := float32(len(lines)*lineH + 2*pad)
	vector.FillRect(screen, float32(x), float32(y), w, h, color.RGBA{R: 6, G: 10, B: 6, A: 220}, false)
	vector.StrokeRect(screen, float32(x), float32(y), w, h, 1, color.RGBA{R: 60, G: 100, B: 60, A: 180}, false)
	for i, l := range lines {
		ebitenutil.DebugPrintAt(screen, l, x+pad, y+pad+i*lineH)
	}
}
