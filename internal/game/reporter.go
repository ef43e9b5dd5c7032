package game

import (
	"fmt"
	"sort"
	"strings"
)

// reportWindowTicks is the default sliding window for recent-behaviour
// reports (20s at 30 ticks per second).
const reportWindowTicks = 600

// TeamSample is one team's picture at a sampled tick.
type TeamSample struct {
	States     map[StateName]int // hero states
	Heroes     int               // heroes on the field
	KO         int
	Injured    int // heroes below full health
	Orcs       int
	Structures int
	StructHP   float64 // summed HP of towers and base
	Engaged    int     // heroes with a live target
}

// SimReport is a snapshot of the match at one tick.
type SimReport struct {
	Tick  int
	Teams [2]TeamSample
}

// SimReporter collects periodic reports from a World and summarises them
// over a sliding window of ticks.
type SimReporter struct {
	history     []SimReport
	windowTicks int
	every       int
}

// NewSimReporter samples every `every` ticks and summarises the last
// windowTicks.
func NewSimReporter(windowTicks, every int) *SimReporter {
	if windowTicks <= 0 {
		windowTicks = reportWindowTicks
	}
	if every <= 0 {
		every = 30
	}
	return &SimReporter{windowTicks: windowTicks, every: every}
}

// Collect samples w when its tick falls on the sampling interval.
func (r *SimReporter) Collect(w *World) {
	if w.Tick()%r.every != 0 {
		return
	}
	report := SimReport{Tick: w.Tick()}
	for i := range report.Teams {
		report.Teams[i].States = make(map[StateName]int)
	}
	for _, e := range w.Entities() {
		if e.Team > TeamRed {
			continue
		}
		ts := &report.Teams[e.Team]
		switch {
		case e.Kind.IsCharacter():
			ts.Heroes++
			if e.Brain != nil {
				ts.States[e.Brain.ActiveName()]++
			}
			if e.KO {
				ts.KO++
			} else if e.HP < e.MaxHP {
				ts.Injured++
			}
			if w.Target(e) != nil {
				ts.Engaged++
			}
		case e.Kind == KindOrc:
			ts.Orcs++
		case e.Kind.IsStructure():
			ts.Structures++
			ts.StructHP += e.HP
		}
	}
	r.history = append(r.history, report)
}

// Latest returns the most recent report, or nil.
func (r *SimReporter) Latest() *SimReport {
	if len(r.history) == 0 {
		return nil
	}
	return &r.history[len(r.history)-1]
}

// History returns all collected reports.
func (r *SimReporter) History() []SimReport {
	return r.history
}

// TeamWindow holds one team's averages over a window.
type TeamWindow struct {
	StatePct   map[StateName]float64 // share of hero-samples per state, 0-100
	AvgKO      float64
	AvgInjured float64
	AvgOrcs    float64
	AvgEngaged float64
	StructHP   float64 // at the end of the window
}

// WindowReport is an aggregated summary over a time window.
type WindowReport struct {
	FromTick, ToTick int
	SampleCount      int
	Teams            [2]TeamWindow
}

// WindowSummary aggregates the reports within the last window, or nil
// when nothing has been collected.
func (r *SimReporter) WindowSummary() *WindowReport {
	if len(r.history) == 0 {
		return nil
	}
	latest := r.history[len(r.history)-1]
	cutoff := latest.Tick - r.windowTicks
	var window []SimReport
	for i := len(r.history) - 1; i >= 0; i-- {
		if r.history[i].Tick < cutoff {
			break
		}
		window = append(window, r.history[i])
	}

	n := float64(len(window))
	wr := &WindowReport{
		FromTick:    window[len(window)-1].Tick,
		ToTick:      window[0].Tick,
		SampleCount: len(window),
	}
	for t := range wr.Teams {
		tw := &wr.Teams[t]
		tw.StatePct = make(map[StateName]float64)
		stateTotal := 0.0
		for _, rpt := range window {
			s := rpt.Teams[t]
			for st, c := range s.States {
				tw.StatePct[st] += float64(c)
				stateTotal += float64(c)
			}
			tw.AvgKO += float64(s.KO)
			tw.AvgInjured += float64(s.Injured)
			tw.AvgOrcs += float64(s.Orcs)
			tw.AvgEngaged += float64(s.Engaged)
		}
		if stateTotal > 0 {
			for st := range tw.StatePct {
				tw.StatePct[st] = tw.StatePct[st] / stateTotal * 100
			}
		}
		tw.AvgKO /= n
		tw.AvgInjured /= n
		tw.AvgOrcs /= n
		tw.AvgEngaged /= n
		tw.StructHP = latest.Teams[t].StructHP
	}
	return wr
}

// Format returns a human-readable multi-line string of the window summary.
func (wr *WindowReport) Format() string {
	if wr == nil {
		return "No data collected yet.\n"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "=== Behaviour Report (T=%d..%d, %d samples) ===\n",
		wr.FromTick, wr.ToTick, wr.SampleCount)
	for _, t := range []Team{TeamBlue, TeamRed} {
		tw := wr.Teams[t]
		fmt.Fprintf(&sb, "%-4s states: %s\n", t, formatStatePct(tw.StatePct))
		fmt.Fprintf(&sb, "     ko=%.1f injured=%.1f engaged=%.1f orcs=%.1f structure_hp=%.0f\n",
			tw.AvgKO, tw.AvgInjured, tw.AvgEngaged, tw.AvgOrcs, tw.StructHP)
	}
	return sb.String()
}

func formatStatePct(pct map[StateName]float64) string {
	if len(pct) == 0 {
		return "none"
	}
	names := make([]string, 0, len(pct))
	for s := range pct {
		names = append(names, string(s))
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, s := range names {
		parts[i] = fmt.Sprintf("%s=%.0f%%", s, pct[StateName(s)])
	}
	return strings.Join(parts, " ")
}
