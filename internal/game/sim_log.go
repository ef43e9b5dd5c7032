package game

import (
	"fmt"
	"strings"
)

// SimLogEntry is one recorded match event.
type SimLogEntry struct {
	Tick     int
	Unit     string  // label e.g. "BK3", "RO17", or "--" for match events
	Team     string  // "blue", "red", "neutral" or "--"
	Category string  // spawn, state, target, attack, combat, heal, xp, search, decision, match
	Key      string  // event name within the category
	Value    string  // human-readable detail
	NumVal   float64 // optional numeric value for threshold checks
}

// String formats the entry as a fixed-width log line.
//
//	[T=0042] BK3   state     change           seeking → attacking
func (e SimLogEntry) String() string {
	return fmt.Sprintf("[T=%04d] %-5s %-9s %-16s %s",
		e.Tick, e.Unit, e.Category, e.Key, e.Value)
}

// SimLog collects structured events for a match. Unlike ThoughtLog (the
// viewer's ring buffer) it is unbounded and machine-readable.
type SimLog struct {
	entries []SimLogEntry
	verbose bool
}

// NewSimLog creates a SimLog. If verbose is true, per-hit and per-shot
// entries are also recorded.
func NewSimLog(verbose bool) *SimLog {
	return &SimLog{verbose: verbose}
}

// SetVerbose switches per-hit recording on or off.
func (sl *SimLog) SetVerbose(v bool) { sl.verbose = v }

// Add records a new entry.
func (sl *SimLog) Add(tick int, unit, team, category, key, value string, numVal float64) {
	sl.entries = append(sl.entries, SimLogEntry{
		Tick:     tick,
		Unit:     unit,
		Team:     team,
		Category: category,
		Key:      key,
		Value:    value,
		NumVal:   numVal,
	})
}

// AddVerbose records an entry only when verbose mode is on.
func (sl *SimLog) AddVerbose(tick int, unit, team, category, key, value string, numVal float64) {
	if !sl.verbose {
		return
	}
	sl.Add(tick, unit, team, category, key, value, numVal)
}

// Entries returns all recorded entries.
func (sl *SimLog) Entries() []SimLogEntry {
	return sl.entries
}

// Len returns the number of entries.
func (sl *SimLog) Len() int { return len(sl.entries) }

// Filter returns entries matching the given category and/or key.
// Pass empty string to match any value for that field.
func (sl *SimLog) Filter(category, key string) []SimLogEntry {
	var out []SimLogEntry
	for _, e := range sl.entries {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		out = append(out, e)
	}
	return out
}

// FilterUnit returns entries for one unit label.
func (sl *SimLog) FilterUnit(label string) []SimLogEntry {
	var out []SimLogEntry
	for _, e := range sl.entries {
		if e.Unit == label {
			out = append(out, e)
		}
	}
	return out
}

// FilterTickRange returns entries within [fromTick, toTick] inclusive.
func (sl *SimLog) FilterTickRange(fromTick, toTick int) []SimLogEntry {
	var out []SimLogEntry
	for _, e := range sl.entries {
		if e.Tick >= fromTick && e.Tick <= toTick {
			out = append(out, e)
		}
	}
	return out
}

// CountCategory returns how many entries match the given category and key.
func (sl *SimLog) CountCategory(category, key string) int {
	return len(sl.Filter(category, key))
}

// LastOf returns the most recent entry matching category+key, or false if none.
func (sl *SimLog) LastOf(category, key string) (SimLogEntry, bool) {
	entries := sl.Filter(category, key)
	if len(entries) == 0 {
		return SimLogEntry{}, false
	}
	return entries[len(entries)-1], true
}

// HasEntry returns true if at least one entry matches category, key, and value substring.
func (sl *SimLog) HasEntry(category, key, valueSubstr string) bool {
	for _, e := range sl.entries {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		if valueSubstr != "" && !strings.Contains(e.Value, valueSubstr) {
			continue
		}
		return true
	}
	return false
}

// Format returns the full log as a single string for t.Log output.
func (sl *SimLog) Format() string {
	return formatEntries(sl.entries)
}

// FormatRange returns a log string filtered to a tick range.
func (sl *SimLog) FormatRange(fromTick, toTick int) string {
	return formatEntries(sl.FilterTickRange(fromTick, toTick))
}

func formatEntries(entries []SimLogEntry) string {
	var sb strings.Builder
	for _, e := range entries {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Summary returns a short human-readable picture of the match: score,
// state distribution per team and every unit's health and target.
func (sl *SimLog) Summary(w *World) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "--- Summary at T=%04d (%.1fs left) ---\n", w.Tick(), w.TimeLeft())
	fmt.Fprintf(&sb, "Score: blue=%.0f  red=%.0f  KOs: blue=%d  red=%d\n",
		w.Score(TeamBlue), w.Score(TeamRed), w.KOs(TeamBlue), w.KOs(TeamRed))

	states := map[Team]map[StateName]int{}
	for _, e := range w.Entities() {
		if !e.Kind.IsCharacter() || e.Brain == nil {
			continue
		}
		if states[e.Team] == nil {
			states[e.Team] = map[StateName]int{}
		}
		states[e.Team][e.Brain.ActiveName()]++
	}
	order := []StateName{StateSeeking, StateAttacking, StateCombat, StateSearching, StateFleeing, StateKO}
	for _, team := range []Team{TeamBlue, TeamRed} {
		counts := states[team]
		if counts == nil {
			continue
		}
		fmt.Fprintf(&sb, "%s states: ", team)
		for _, s := range order {
			if n := counts[s]; n > 0 {
				fmt.Fprintf(&sb, "%s=%d  ", s, n)
			}
		}
		sb.WriteByte('\n')
	}

	orcs := [2]int{}
	for _, e := range w.Entities() {
		switch {
		case e.Kind == KindOrc && e.Team <= TeamRed:
			orcs[e.Team]++
		case e.Kind.IsCharacter() || e.Kind.IsStructure():
			target := "-"
			if t := w.Target(e); t != nil {
				target = t.Label
			}
			fmt.Fprintf(&sb, "%-5s %-7s hp=%4.0f/%-4.0f lvl=%d → %s\n",
				e.Label, e.Kind, e.HP, e.MaxHP, e.Level, target)
		}
	}
	fmt.Fprintf(&sb, "Orcs: blue=%d  red=%d\n", orcs[TeamBlue], orcs[TeamRed])
	if o := w.Outcome(); o.Over {
		fmt.Fprintf(&sb, "Result: %s (%s)\n", outcomeLabel(o), o.Reason)
	}
	return sb.String()
}

// outcomeLabel is "blue wins", "red wins" or "draw".
func outcomeLabel(o Outcome) string {
	if o.Winner == TeamNeutral {
		return "draw"
	}
	return o.Winner.String() + " wins"
}
