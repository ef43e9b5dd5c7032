package viewer

import (
	"io"
	"strings"
	"testing"

	"github.com/Garsondee/Arena-Sense/internal/config"
	"github.com/Garsondee/Arena-Sense/internal/game"
	"github.com/Garsondee/Arena-Sense/internal/geom"
	"github.com/Garsondee/Arena-Sense/internal/nav"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/require"
)

func newWorld(t *testing.T) *game.World {
	t.Helper()
	cfg, err := config.Default()
	require.NoError(t, err)
	cfg.Arena.Obstacles = nil
	w, err := game.NewWorld(cfg, 1, nil)
	require.NoError(t, err)
	return w
}

func TestSpeedSteps(t *testing.T) {
	cases := []struct {
		cur, slower, faster float64
	}{
		{0, 0, 0.5},
		{0.5, 0, 1},
		{1, 0.5, 2},
		{2, 1, 4},
		{4, 2, 4},
		{3, 2, 4},
	}
	for _, c := range cases {
		if got := slower(c.cur); got != c.slower {
			t.Fatalf("slower(%g) = %g, want %g", c.cur, got, c.slower)
		}
		if got := faster(c.cur); got != c.faster {
			t.Fatalf("faster(%g) = %g, want %g", c.cur, got, c.faster)
		}
	}
}

func TestPickEntity(t *testing.T) {
	w := newWorld(t)
	k, err := w.SpawnUnit(game.KindKnight, game.TeamBlue, geom.V(100, 100))
	require.NoError(t, err)
	o, err := w.SpawnUnit(game.KindOrc, game.TeamRed, geom.V(120, 100))
	require.NoError(t, err)

	require.Equal(t, k, pickEntity(w, geom.V(105, 100)))
	require.Equal(t, o, pickEntity(w, geom.V(118, 104)))
	require.Nil(t, pickEntity(w, geom.V(300, 300)))
}

func TestUnitReport(t *testing.T) {
	w := newWorld(t)
	k, err := w.SpawnUnit(game.KindKnight, game.TeamBlue, geom.V(100, 100))
	require.NoError(t, err)
	o, err := w.SpawnUnit(game.KindOrc, game.TeamRed, geom.V(140, 100))
	require.NoError(t, err)
	k.TargetID = o.ID
	o.TargetID = k.ID

	r := unitReport(w, k)
	require.True(t, strings.HasPrefix(r, k.Label+"  blue knight  [seeking]"), r)
	require.Contains(t, r, "target "+o.Label)
	require.Contains(t, r, "targeted by "+o.Label)
	require.NotContains(t, r, "ranged")
}

func TestMatchReport(t *testing.T) {
	w := newWorld(t)
	r := matchReport(w, 42)
	require.Contains(t, r, "seed=42")
	require.Contains(t, r, "Score: blue=0")
}

func TestNew_WindowFitsArenaAndPanel(t *testing.T) {
	w := newWorld(t)
	v := New(w, 1, log.New(io.Discard))
	width, height := v.Size()
	require.Equal(t, 1024+2*borderWidth+logPanelWidth, width)
	require.Equal(t, 768+2*borderWidth, height)
}

func TestWaypoints_FoldsInterpolatedRoute(t *testing.T) {
	arena := nav.NewGraph()
	arena.AddNode(0, geom.V(0, 0))
	arena.AddNode(1, geom.V(100, 0))
	arena.AddNode(2, geom.V(0, 100))
	require.NoError(t, arena.ConnectBoth(0, 1))
	require.NoError(t, arena.ConnectBoth(0, 2))

	route, err := arena.Route(0, 1)
	require.NoError(t, err)
	fine := nav.Interpolate(route, 25)
	require.Greater(t, fine.Len(), 2)

	wp := waypoints(arena, fine)
	require.Equal(t, 2, wp.Len())
	require.True(t, wp.Connected(0, 1))
	require.True(t, wp.Connected(1, 0))
}
