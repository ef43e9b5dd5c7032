package viewer

import (
	"fmt"
	"math"
	"strings"

	"github.com/Garsondee/Arena-Sense/internal/game"
)

// unitReport is the inspector text for one entity: vitals, current
// decision inputs and its latest thoughts.
func unitReport(w *game.World, e *game.Entity) string {
	var sb strings.Builder
	state := game.StateName("-")
	if e.Brain != nil {
		state = e.Brain.ActiveName()
	}
	fmt.Fprintf(&sb, "%s  %s %s  [%s]\n", e.Label, e.Team, e.Kind, state)
	fmt.Fprintf(&sb, "hp %.0f/%.0f  lvl %d  xp %.0f\n", e.HP, e.MaxHP, e.Level, e.XP)
	fmt.Fprintf(&sb, "pos (%.0f,%.0f)  speed %.0f/%.0f", e.Pos.X, e.Pos.Y, e.Vel.Len(), e.MaxSpeed)
	if !e.Vel.IsZero() {
		fmt.Fprintf(&sb, "  heading %.0f°", e.Vel.Heading()*180/math.Pi)
	}
	sb.WriteByte('\n')
	if e.KO {
		fmt.Fprintf(&sb, "KO, back in %.1fs\n", e.RespawnLeft)
	}
	if e.MeleeDamage > 0 {
		fmt.Fprintf(&sb, "melee %.0f every %.2fs (%.2f)\n", e.MeleeDamage, e.MeleeCooldown, e.MeleeCooldownLeft)
	}
	if e.Ranged() {
		fmt.Fprintf(&sb, "ranged %.0f every %.2fs (%.2f) r=%.0f\n", e.RangedDamage, e.RangedCooldown, e.RangedCooldownLeft, e.ProjectileRange)
	}

	if t := w.Target(e); t != nil {
		kind := game.AttackRanged
		if e.Kind.IsMelee() {
			kind = game.AttackMelee
		}
		fmt.Fprintf(&sb, "target %s  d=%.0f  ttk=%s\n", t.Label, e.Pos.Dist(t.Pos), seconds(game.TimeToKill(e, t, kind)))
	}
	if attackers := w.EnemiesTargeting(e); len(attackers) > 0 {
		labels := make([]string, len(attackers))
		for i, a := range attackers {
			labels[i] = a.Label
		}
		ttd, _ := game.TimeToDeath(e, attackers)
		fmt.Fprintf(&sb, "targeted by %s  ttd=%s\n", strings.Join(labels, ","), seconds(ttd))
	}
	if len(e.FleeTargets) > 0 {
		fmt.Fprintf(&sb, "dodging %v\n", e.FleeTargets)
	}

	thoughts := w.Thoughts.For(e.Label)
	if n := len(thoughts); n > 4 {
		thoughts = thoughts[n-4:]
	}
	for _, th := range thoughts {
		fmt.Fprintf(&sb, "  %4d %s\n", th.Tick, th.Message)
	}
	return sb.String()
}

// matchReport is the clipboard text when no unit is selected.
func matchReport(w *game.World, seed int64) string {
	return game.DetermineMatchOutcome(w, seed).String() + "\n" + w.SimLog.Summary(w)
}

func seconds(v float64) string {
	if math.IsInf(v, 1) {
		return "never"
	}
	return fmt.Sprintf("%.1fs", v)
}
