package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/Garsondee/Arena-Sense/internal/config"
	"github.com/Garsondee/Arena-Sense/internal/game"
	"github.com/charmbracelet/log"
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

type runStats struct {
	runIndex int
	seed     int64
	report   game.MatchReport
	err      error

	firstEngageTick int
	firstKOTick     int
	firstFleeTick   int
	firstLevelTick  int

	stateChanges int
	fleeEvents   int
	searchEvents int
	levelUps     int
	respawns     int
	orcsSpawned  int

	window   *game.WindowReport
	expectOK bool
}

func main() {
	var runs int
	var maxTicks int
	var seedBase int64
	var seedStep int64
	var cfgPath string
	var expect string

	flag.IntVar(&runs, "runs", 5, "number of headless matches")
	flag.IntVar(&maxTicks, "max-ticks", 0, "stop a match after this many ticks (0 = time limit)")
	flag.Int64Var(&seedBase, "seed-base", 42, "base RNG seed for run 1")
	flag.Int64Var(&seedStep, "seed-step", 1, "seed increment between runs")
	flag.StringVar(&cfgPath, "config", "", "arena YAML file (default: built-in arena)")
	flag.StringVar(&expect, "expect", "", `boolean expression checked per match, e.g. "winner != 'none' && kos > 0"`)
	flag.Parse()

	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "headless-report"})
	if runs <= 0 {
		logger.Error("-runs must be > 0")
		os.Exit(2)
	}

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("config", "err", err)
		os.Exit(1)
	}
	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		logger.Error("env", "err", err)
		os.Exit(1)
	}
	if maxTicks <= 0 && cfg.Rules.TimeLimit <= 0 {
		logger.Error("need a time limit or -max-ticks")
		os.Exit(2)
	}
	prog, err := compileExpect(expect)
	if err != nil {
		logger.Error("expect", "err", err)
		os.Exit(2)
	}

	fmt.Printf("=== Headless Match Report ===\n")
	fmt.Printf("runs=%d max_ticks=%d seed_base=%d seed_step=%d difficulty=%s\n\n",
		runs, maxTicks, seedBase, seedStep, cfg.Rules.Difficulty)

	all := make([]runStats, 0, runs)
	for i := 0; i < runs; i++ {
		seed := seedBase + int64(i)*seedStep
		rs := runMatch(i+1, seed, cfg, maxTicks)
		if rs.err == nil && prog != nil {
			rs.expectOK, rs.err = evalExpect(prog, rs.report)
		}
		all = append(all, rs)
		printRun(os.Stdout, rs, prog != nil)
	}

	if failed := printAggregate(os.Stdout, all, prog != nil); failed {
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default()
	}
	return config.Load(path)
}

func runMatch(runIndex int, seed int64, cfg *config.Config, maxTicks int) runStats {
	rs := runStats{runIndex: runIndex, seed: seed}
	w, err := game.NewWorld(cfg, seed, log.New(io.Discard))
	if err == nil {
		err = w.SpawnAll()
	}
	if err != nil {
		rs.err = err
		return rs
	}
	rep := game.NewSimReporter(0, int(w.Rules().TickRate))
	dt := 1 / w.Rules().TickRate
	for !w.Outcome().Over && (maxTicks <= 0 || w.Tick() < maxTicks) {
		if err := w.Step(dt); err != nil {
			rs.err = err
			break
		}
		rep.Collect(w)
	}
	rs.window = rep.WindowSummary()

	entries := w.SimLog.Entries()
	rs.report = game.DetermineMatchOutcome(w, seed)
	rs.firstEngageTick = firstTick(entries, "target", "acquire", "")
	rs.firstKOTick = firstTick(entries, "combat", "ko", "")
	rs.firstFleeTick = firstTick(entries, "state", "change", "→ fleeing")
	rs.firstLevelTick = firstTick(entries, "xp", "level_up", "")
	rs.stateChanges = w.SimLog.CountCategory("state", "change")
	rs.levelUps = w.SimLog.CountCategory("xp", "level_up")
	rs.respawns = w.SimLog.CountCategory("combat", "respawn")
	rs.orcsSpawned = w.SimLog.CountCategory("spawn", "orc")
	for _, e := range entries {
		if e.Category != "state" || e.Key != "change" {
			continue
		}
		switch {
		case strings.HasSuffix(e.Value, "→ fleeing"):
			rs.fleeEvents++
		case strings.HasSuffix(e.Value, "→ searching"):
			rs.searchEvents++
		}
	}
	return rs
}

func firstTick(entries []game.SimLogEntry, category, key, contains string) int {
	for _, e := range entries {
		if e.Category != category || e.Key != key {
			continue
		}
		if contains == "" || strings.Contains(e.Value, contains) {
			return e.Tick
		}
	}
	return -1
}

// compileExpect type-checks the expression against the report's variables.
// An empty expression compiles to nil.
func compileExpect(src string) (*vm.Program, error) {
	if strings.TrimSpace(src) == "" {
		return nil, nil
	}
	prog, err := expr.Compile(src, expr.Env(game.MatchReport{}.Env()), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("compile %q: %w", src, err)
	}
	return prog, nil
}

func evalExpect(prog *vm.Program, r game.MatchReport) (bool, error) {
	out, err := expr.Run(prog, r.Env())
	if err != nil {
		return false, fmt.Errorf("expect: %w", err)
	}
	ok, _ := out.(bool)
	return ok, nil
}

func printRun(w io.Writer, rs runStats, withExpect bool) {
	fmt.Fprintf(w, "--- Run %d (seed=%d) ---\n", rs.runIndex, rs.seed)
	if rs.err != nil {
		fmt.Fprintf(w, "error: %v\n\n", rs.err)
		return
	}
	r := rs.report
	fmt.Fprintf(w, "result: %s winner=%s ticks=%d seconds=%.1f\n", r.Description, r.Winner(), r.Ticks, r.Seconds)
	fmt.Fprintf(w, "score: blue=%.0f red=%.0f  kos: blue=%d red=%d  kills: blue=%d red=%d\n",
		r.BlueScore, r.RedScore, r.BlueKOs, r.RedKOs, r.BlueKills, r.RedKills)
	fmt.Fprintf(w, "phase_markers: engage=%d first_ko=%d first_flee=%d first_level=%d\n",
		rs.firstEngageTick, rs.firstKOTick, rs.firstFleeTick, rs.firstLevelTick)
	fmt.Fprintf(w, "event_totals: state_change=%d flee=%d search=%d level_up=%d respawn=%d orcs=%d\n",
		rs.stateChanges, rs.fleeEvents, rs.searchEvents, rs.levelUps, rs.respawns, rs.orcsSpawned)
	fmt.Fprintf(w, "levels: %s\n", formatLevels(r.Levels))
	if rs.window != nil {
		fmt.Fprint(w, rs.window.Format())
	}
	if withExpect {
		fmt.Fprintf(w, "expect: %v\n", rs.expectOK)
	}
	fmt.Fprintln(w)
}

// printAggregate prints the cross-run summary and reports whether any run
// errored or missed the expectation.
func printAggregate(w io.Writer, all []runStats, withExpect bool) bool {
	wins := map[string]int{}
	totalTicks, totalKOs, totalLevels, totalFlee := 0, 0, 0, 0
	var koTicks, fleeTicks []int
	errs, hits, done := 0, 0, 0
	for _, rs := range all {
		if rs.err != nil {
			errs++
			continue
		}
		done++
		wins[rs.report.Winner()]++
		totalTicks += rs.report.Ticks
		totalKOs += rs.report.BlueKOs + rs.report.RedKOs
		totalLevels += rs.levelUps
		totalFlee += rs.fleeEvents
		if rs.firstKOTick >= 0 {
			koTicks = append(koTicks, rs.firstKOTick)
		}
		if rs.firstFleeTick >= 0 {
			fleeTicks = append(fleeTicks, rs.firstFleeTick)
		}
		if rs.expectOK {
			hits++
		}
	}

	fmt.Fprintln(w, "=== Aggregate ===")
	fmt.Fprintf(w, "runs=%d completed=%d errors=%d\n", len(all), done, errs)
	fmt.Fprintf(w, "wins: %s\n", formatCounts(wins))
	fmt.Fprintf(w, "avg_per_run: ticks=%.1f kos=%.1f level_ups=%.1f flee=%.1f\n",
		avg(totalTicks, done), avg(totalKOs, done), avg(totalLevels, done), avg(totalFlee, done))
	fmt.Fprintf(w, "phase_marker_avg_ticks: first_ko=%s first_flee=%s\n", avgTickString(koTicks), avgTickString(fleeTicks))
	failed := errs > 0
	if withExpect {
		fmt.Fprintf(w, "expect_hits=%d/%d\n", hits, done)
		failed = failed || hits < done
	}
	return failed
}

func avg(sum int, n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

func avgTickString(vals []int) string {
	if len(vals) == 0 {
		return "n/a"
	}
	sum := 0
	for _, v := range vals {
		sum += v
	}
	return fmt.Sprintf("%.1f", float64(sum)/float64(len(vals)))
}

func formatCounts(counts map[string]int) string {
	if len(counts) == 0 {
		return "none"
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%d", k, counts[k])
	}
	return strings.Join(parts, " ")
}

func formatLevels(levels map[string]int) string {
	if len(levels) == 0 {
		return "none"
	}
	labels := make([]string, 0, len(levels))
	for k := range levels {
		labels = append(labels, k)
	}
	sort.Strings(labels)
	parts := make([]string, len(labels))
	for i, l := range labels {
		parts[i] = fmt.Sprintf("%s:%d", l, levels[l])
	}
	return strings.Join(parts, ",")
}
