package game

import "math"

// AttackKind selects which of a unit's attacks an estimate uses.
type AttackKind int

const (
	AttackMelee AttackKind = iota
	AttackRanged
)

// maxTimeToDeath caps the TimeToDeath loop, in simulated seconds.
const maxTimeToDeath = 3600

// attackOf returns the damage and cooldown of the attack kind.
func attackOf(e *Entity, kind AttackKind) (damage, cooldown float64) {
	if kind == AttackRanged {
		return e.RangedDamage, e.RangedCooldown
	}
	return e.MeleeDamage, e.MeleeCooldown
}

// preferredAttack is how an entity usually hurts others.
func preferredAttack(e *Entity) AttackKind {
	if e.Kind.IsMelee() || !e.Ranged() {
		return AttackMelee
	}
	return AttackRanged
}

// TimeToKill estimates how long attacker needs to bring defender down,
// assuming the defender stands and takes it. The attacker's remaining
// healing cooldown is added on top. It is +Inf when the attack does no
// damage.
func TimeToKill(attacker, defender *Entity, kind AttackKind) float64 {
	dmg, cd := attackOf(attacker, kind)
	if dmg <= 0 {
		return math.Inf(1)
	}
	return defender.HP/dmg*cd + attacker.HealingCooldownLeft
}

// TimeToDeath steps whole seconds until the attackers' combined hits
// reach defender's current HP. Each attacker starts on a full cooldown;
// when it fires, the overshoot carries into the next cooldown. The bool
// is false when there are no attackers; attackers that cannot hurt give
// +Inf.
func TimeToDeath(defender *Entity, attackers []*Entity) (float64, bool) {
	if len(attackers) == 0 {
		return 0, false
	}
	type hitter struct{ dmg, cd, left float64 }
	var hs []hitter
	for _, a := range attackers {
		dmg, cd := attackOf(a, preferredAttack(a))
		if dmg > 0 {
			hs = append(hs, hitter{dmg: dmg, cd: cd, left: cd})
		}
	}
	if len(hs) == 0 {
		return math.Inf(1), true
	}

	total := 0.0
	for t := 0; t < maxTimeToDeath; t++ {
		for i := range hs {
			h := &hs[i]
			if h.left <= 0 {
				total += h.dmg
				h.left += h.cd
			} else {
				h.left--
			}
		}
		if total >= defender.HP {
			return float64(t), true
		}
	}
	return maxTimeToDeath, true
}

// CanOutrun reports whether e can heal through the enemies it cannot
// leave behind. Each faster-or-equal enemy contributes the whole hits it
// lands in one healing cooldown, or a single hit when that rounds to
// none.
func CanOutrun(e *Entity, enemies []*Entity) bool {
	sum := 0.0
	for _, en := range enemies {
		if e.MaxSpeed > en.MaxSpeed {
			continue
		}
		dmg, cd := attackOf(en, preferredAttack(en))
		dealt := dmg
		if cd > 0 {
			dealt = math.Floor(dmg * e.HealingCooldown / cd)
		}
		if dealt == 0 {
			dealt = dmg
		}
		sum += dealt
	}
	return sum < e.MaxHP*e.HealingPercentage/100
}
