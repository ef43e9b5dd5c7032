package game

import (
	"fmt"
	"strings"
)

type MatchOutcome int

const (
	OutcomeInconclusive MatchOutcome = iota
	OutcomeBlueVictory
	OutcomeRedVictory
	OutcomeDraw
)

func (o MatchOutcome) String() string {
	switch o {
	case OutcomeBlueVictory:
		return "blue_victory"
	case OutcomeRedVictory:
		return "red_victory"
	case OutcomeDraw:
		return "draw"
	case OutcomeInconclusive:
		return "inconclusive"
	default:
		return "unknown"
	}
}

// scoreLeadMargin is the share of total structure damage a team must lead
// by for an unfinished match to count as theirs.
const scoreLeadMargin = 0.20

// MatchReport is the end-of-run summary of one match.
type MatchReport struct {
	Seed        int64
	Ticks       int
	Seconds     float64
	Outcome     MatchOutcome
	Description string
	BlueScore   float64
	RedScore    float64
	BlueKOs     int
	RedKOs      int
	BlueKills   int
	RedKills    int
	Levels      map[string]int // hero label -> level reached
}

// DetermineMatchOutcome reads the world's result. A finished match
// reports its winner; one cut short is judged on score.
func DetermineMatchOutcome(w *World, seed int64) MatchReport {
	r := MatchReport{
		Seed:      seed,
		Ticks:     w.Tick(),
		Seconds:   w.Elapsed(),
		BlueScore: w.Score(TeamBlue),
		RedScore:  w.Score(TeamRed),
		BlueKOs:   w.KOs(TeamBlue),
		RedKOs:    w.KOs(TeamRed),
		BlueKills: w.Kills(TeamBlue),
		RedKills:  w.Kills(TeamRed),
		Levels:    map[string]int{},
	}
	for _, e := range w.Entities() {
		if e.Kind.IsCharacter() {
			r.Levels[e.Label] = e.Level
		}
	}

	if o := w.Outcome(); o.Over {
		reason := strings.ReplaceAll(o.Reason, " ", "_")
		switch o.Winner {
		case TeamBlue:
			r.Outcome, r.Description = OutcomeBlueVictory, "blue_victory_"+reason
		case TeamRed:
			r.Outcome, r.Description = OutcomeRedVictory, "red_victory_"+reason
		default:
			r.Outcome, r.Description = OutcomeDraw, "draw_"+reason
		}
		return r
	}

	total := r.BlueScore + r.RedScore
	if total == 0 {
		r.Outcome, r.Description = OutcomeInconclusive, "inconclusive_no_structure_damage"
		return r
	}
	lead := (r.BlueScore - r.RedScore) / total
	switch {
	case lead > scoreLeadMargin:
		r.Outcome, r.Description = OutcomeBlueVictory, "marginal_blue_victory_score_lead"
	case lead < -scoreLeadMargin:
		r.Outcome, r.Description = OutcomeRedVictory, "marginal_red_victory_score_lead"
	default:
		r.Outcome, r.Description = OutcomeInconclusive, "inconclusive_close_score"
	}
	return r
}

// Winner is "blue", "red", "draw" or "none".
func (r MatchReport) Winner() string {
	switch r.Outcome {
	case OutcomeBlueVictory:
		return "blue"
	case OutcomeRedVictory:
		return "red"
	case OutcomeDraw:
		return "draw"
	}
	return "none"
}

// Env exposes the report to -expect expressions.
func (r MatchReport) Env() map[string]any {
	return map[string]any{
		"winner":     r.Winner(),
		"outcome":    r.Outcome.String(),
		"blue_score": r.BlueScore,
		"red_score":  r.RedScore,
		"ticks":      r.Ticks,
		"seconds":    r.Seconds,
		"kos":        r.BlueKOs + r.RedKOs,
		"blue_kos":   r.BlueKOs,
		"red_kos":    r.RedKOs,
		"blue_kills": r.BlueKills,
		"red_kills":  r.RedKills,
	}
}

// String is a one-line rendering.
func (r MatchReport) String() string {
	return fmt.Sprintf("seed=%d ticks=%d %-34s score=%.0f-%.0f kos=%d-%d",
		r.Seed, r.Ticks, r.Description, r.BlueScore, r.RedScore, r.BlueKOs, r.RedKOs)
}
