package game

import (
	"fmt"
	"math"

	"github.com/Garsondee/Arena-Sense/internal/config"
	"github.com/Garsondee/Arena-Sense/internal/geom"
	"github.com/Garsondee/Arena-Sense/internal/nav"
)

// Entity is anything the World processes: heroes, orcs, structures and
// missiles. Fields a kind does not use stay zero.
type Entity struct {
	ID    int
	Kind  Kind
	Team  Team
	Label string // e.g. "BK3", "RT7"

	Pos    geom.Vec2
	Vel    geom.Vec2
	Radius float64

	// MoveTarget is the point the entity is currently heading for. States
	// keep it current so others can read intent from it.
	MoveTarget    geom.Vec2
	HasMoveTarget bool

	MaxSpeed          float64
	MinTargetDistance float64

	HP, MaxHP    float64
	KO           bool
	Invulnerable bool
	RespawnLeft  float64
	Spawn        geom.Vec2

	MeleeDamage, MeleeCooldown, MeleeCooldownLeft    float64
	RangedDamage, RangedCooldown, RangedCooldownLeft float64
	ProjectileRange, ProjectileSpeed                 float64
	SplashRadius                                     float64

	HealingCooldown, HealingCooldownLeft float64
	HealingPercentage                    float64

	XP    float64
	Level int

	// TargetID is a weak reference resolved through World.Get; 0 is none.
	TargetID int

	// Route is the patrol route walked while seeking; GoalNode is the
	// route node next to the enemy base.
	Route    *nav.Graph
	GoalNode int

	SpawnCooldown, SpawnCooldownLeft float64

	// Missile fields.
	OwnerID   int
	Damage    float64
	Traveled  float64
	MaxTravel float64
	Explodes  bool
	Lifetime  float64
	hit       map[int]bool

	// FleeTargets are the immediate threats a fleeing unit is dodging.
	FleeTargets []int

	Brain *Brain
}

func newEntity(kind Kind, team Team, pos geom.Vec2, s config.Stats) *Entity {
	return &Entity{
		Kind:              kind,
		Team:              team,
		Pos:               pos,
		Spawn:             pos,
		Radius:            s.Radius,
		MaxSpeed:          s.MaxSpeed,
		MinTargetDistance: s.MinTargetDistance,
		HP:                s.MaxHP,
		MaxHP:             s.MaxHP,
		Invulnerable:      s.Invulnerable,
		MeleeDamage:       s.MeleeDamage,
		MeleeCooldown:     s.MeleeCooldown,
		RangedDamage:      s.RangedDamage,
		RangedCooldown:    s.RangedCooldown,
		ProjectileRange:   s.ProjectileRange,
		ProjectileSpeed:   s.ProjectileSpeed,
		SplashRadius:      s.SplashRadius,
		SpawnCooldown:     s.SpawnCooldown,
		SpawnCooldownLeft: s.SpawnCooldown,
	}
}

// Alive reports whether the entity can still act and be targeted.
func (e *Entity) Alive() bool { return !e.KO && e.HP > 0 }

// Ranged reports whether the entity attacks with projectiles.
func (e *Entity) Ranged() bool { return e.RangedDamage > 0 && e.ProjectileRange > 0 }

// SetMoveTarget records where the entity is heading.
func (e *Entity) SetMoveTarget(p geom.Vec2) {
	e.MoveTarget = p
	e.HasMoveTarget = true
}

// ClearMoveTarget forgets the current heading point.
func (e *Entity) ClearMoveTarget() {
	e.MoveTarget = geom.Vec2{}
	e.HasMoveTarget = false
}

// CollidesWith returns the contact point on e's rim facing other when the
// two circles overlap.
func (e *Entity) CollidesWith(other *Entity) (geom.Vec2, bool) {
	d := other.Pos.Sub(e.Pos)
	if d.Len() > e.Radius+other.Radius {
		return geom.Vec2{}, false
	}
	dir := d.Norm()
	if dir.IsZero() {
		return e.Pos, true
	}
	return e.Pos.Add(dir.Scale(e.Radius)), true
}

// HPFraction is HP over MaxHP, 0 when MaxHP is unset.
func (e *Entity) HPFraction() float64 {
	if e.MaxHP <= 0 {
		return 0
	}
	return e.HP / e.MaxHP
}

func (e *Entity) tickCooldowns(dt float64) {
	e.MeleeCooldownLeft = math.Max(0, e.MeleeCooldownLeft-dt)
	e.RangedCooldownLeft = math.Max(0, e.RangedCooldownLeft-dt)
	e.HealingCooldownLeft = math.Max(0, e.HealingCooldownLeft-dt)
	if e.SpawnCooldown > 0 {
		e.SpawnCooldownLeft -= dt
	}
	if e.KO {
		e.RespawnLeft -= dt
	}
}

// Heal restores HealingPercentage of MaxHP when the healing cooldown has
// run out. It reports whether any healing happened.
func (e *Entity) Heal() bool {
	if e.HealingCooldownLeft > 0 || e.HP >= e.MaxHP || e.HealingPercentage <= 0 {
		return false
	}
	e.HP = math.Min(e.MaxHP, e.HP+e.MaxHP*e.HealingPercentage/100)
	e.HealingCooldownLeft = e.HealingCooldown
	return true
}

// Stat names a level-up upgrade.
type Stat string

const (
	StatSpeed           Stat = "speed"
	StatMeleeCooldown   Stat = "melee_cooldown"
	StatRangedCooldown  Stat = "ranged_cooldown"
	StatHealingCooldown Stat = "healing_cooldown"
)

// applyLevelUp upgrades one stat by pct percent.
func (e *Entity) applyLevelUp(s Stat, pct float64) {
	up := pct / 100
	switch s {
	case StatSpeed:
		e.MaxSpeed *= 1 + up
	case StatMeleeCooldown:
		e.MeleeCooldown *= 1 - up
	case StatRangedCooldown:
		e.RangedCooldown *= 1 - up
	case StatHealingCooldown:
		e.HealingCooldown *= 1 - up
	}
	e.Level++
}

func (e *Entity) String() string {
	return fmt.Sprintf("%s(%s %s hp=%.0f/%.0f)", e.Label, e.Team, e.Kind, e.HP, e.MaxHP)
}
