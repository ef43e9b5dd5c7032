package game

import "fmt"

// Team is the side an entity fights for.
type Team int

const (
	TeamBlue Team = iota
	TeamRed
	TeamNeutral
)

func (t Team) String() string {
	switch t {
	case TeamBlue:
		return "blue"
	case TeamRed:
		return "red"
	case TeamNeutral:
		return "neutral"
	default:
		return "unknown"
	}
}

// Opponent returns the other playing team. Neutral has no opponent.
func (t Team) Opponent() Team {
	switch t {
	case TeamBlue:
		return TeamRed
	case TeamRed:
		return TeamBlue
	}
	return TeamNeutral
}

// ParseTeam maps a config team name to a Team.
func ParseTeam(s string) (Team, error) {
	switch s {
	case "blue":
		return TeamBlue, nil
	case "red":
		return TeamRed, nil
	case "neutral":
		return TeamNeutral, nil
	}
	return TeamNeutral, fmt.Errorf("unknown team %q", s)
}

// Kind is the entity archetype.
type Kind int

const (
	KindKnight Kind = iota
	KindArcher
	KindWizard
	KindOrc
	KindTower
	KindBase
	KindProjectile
	KindExplosion
)

func (k Kind) String() string {
	switch k {
	case KindKnight:
		return "knight"
	case KindArcher:
		return "archer"
	case KindWizard:
		return "wizard"
	case KindOrc:
		return "orc"
	case KindTower:
		return "tower"
	case KindBase:
		return "base"
	case KindProjectile:
		return "projectile"
	case KindExplosion:
		return "explosion"
	default:
		return "unknown"
	}
}

// ParseKind maps a roster or config name to a Kind.
func ParseKind(s string) (Kind, error) {
	for k := KindKnight; k <= KindExplosion; k++ {
		if k.String() == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown kind %q", s)
}

// IsCharacter reports whether k is a respawning hero.
func (k Kind) IsCharacter() bool {
	return k == KindKnight || k == KindArcher || k == KindWizard
}

// IsStructure reports whether k is a tower or base.
func (k Kind) IsStructure() bool { return k == KindTower || k == KindBase }

// IsMissile reports whether k is a projectile or explosion.
func (k Kind) IsMissile() bool { return k == KindProjectile || k == KindExplosion }

// IsMelee reports whether k fights at contact range.
func (k Kind) IsMelee() bool { return k == KindKnight || k == KindOrc }

func (k Kind) letter() byte {
	return "KAWOTBPX"[k]
}

func (t Team) letter() byte {
	return "BRN"[t]
}
