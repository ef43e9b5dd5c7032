package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/Garsondee/Arena-Sense/internal/config"
	"github.com/Garsondee/Arena-Sense/internal/game"
)

func TestFirstTick(t *testing.T) {
	entries := []game.SimLogEntry{
		{Tick: 3, Category: "state", Key: "change", Value: "seeking → attacking"},
		{Tick: 7, Category: "state", Key: "change", Value: "attacking → fleeing"},
		{Tick: 9, Category: "combat", Key: "ko", Value: "knight"},
	}
	if got := firstTick(entries, "state", "change", ""); got != 3 {
		t.Fatalf("expected 3, got %d", got)
	}
	if got := firstTick(entries, "state", "change", "→ fleeing"); got != 7 {
		t.Fatalf("expected 7, got %d", got)
	}
	if got := firstTick(entries, "xp", "level_up", ""); got != -1 {
		t.Fatalf("expected -1, got %d", got)
	}
}

func TestCompileExpect_EmptyIsNil(t *testing.T) {
	prog, err := compileExpect("  ")
	if err != nil || prog != nil {
		t.Fatalf("expected nil program, got %v / %v", prog, err)
	}
}

func TestCompileExpect_RejectsUnknownVariable(t *testing.T) {
	if _, err := compileExpect("bogus > 1"); err == nil {
		t.Fatal("expected a compile error for an unknown variable")
	}
	if _, err := compileExpect("ticks + 1"); err == nil {
		t.Fatal("expected a compile error for a non-boolean expression")
	}
}

func TestEvalExpect(t *testing.T) {
	prog, err := compileExpect("winner == 'blue' && kos >= 2 && blue_score > red_score")
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	r := game.MatchReport{Outcome: game.OutcomeBlueVictory, BlueScore: 500, RedScore: 100, BlueKOs: 1, RedKOs: 1}
	ok, err := evalExpect(prog, r)
	if err != nil || !ok {
		t.Fatalf("expected true, got %v (err=%v)", ok, err)
	}
	r.RedKOs = 0
	if ok, _ := evalExpect(prog, r); ok {
		t.Fatal("expected false with one KO")
	}
}

func TestPrintAggregate_FailsOnMissedExpectation(t *testing.T) {
	all := []runStats{
		{report: game.MatchReport{Outcome: game.OutcomeBlueVictory, Ticks: 100}, expectOK: true, firstKOTick: 40, firstFleeTick: -1},
		{report: game.MatchReport{Outcome: game.OutcomeDraw, Ticks: 300}, expectOK: false, firstKOTick: -1, firstFleeTick: -1},
	}
	var buf bytes.Buffer
	if failed := printAggregate(&buf, all, true); !failed {
		t.Fatal("expected failure when one run misses the expectation")
	}
	out := buf.String()
	for _, want := range []string{"wins: blue=1 draw=1", "ticks=200.0", "first_ko=40.0", "first_flee=n/a", "expect_hits=1/2"} {
		if !strings.Contains(out, want) {
			t.Fatalf("aggregate missing %q:\n%s", want, out)
		}
	}
	if failed := printAggregate(&bytes.Buffer{}, all, false); failed {
		t.Fatal("without an expectation only errors fail the run")
	}
}

func TestRunMatch_ShortRun(t *testing.T) {
	cfg, err := config.Default()
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	rs := runMatch(1, 5, cfg, 150)
	if rs.err != nil {
		t.Fatalf("run: %v", rs.err)
	}
	if rs.report.Ticks != 150 {
		t.Fatalf("expected 150 ticks, got %d", rs.report.Ticks)
	}
	if rs.orcsSpawned < 2 {
		t.Fatalf("expected both bases to spawn an orc, got %d", rs.orcsSpawned)
	}
	if len(rs.report.Levels) != 6 {
		t.Fatalf("expected 6 heroes in the level table, got %d", len(rs.report.Levels))
	}
}

func TestPrintRun_IncludesWindow(t *testing.T) {
	cfg, err := config.Default()
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	rs := runMatch(1, 5, cfg, 90)
	if rs.window == nil {
		t.Fatal("expected a behaviour window")
	}
	var buf bytes.Buffer
	printRun(&buf, rs, false)
	out := buf.String()
	for _, want := range []string{"--- Run 1 (seed=5) ---", "Behaviour Report", "event_totals:"} {
		if !strings.Contains(out, want) {
			t.Fatalf("run output missing %q:\n%s", want, out)
		}
	}
}
