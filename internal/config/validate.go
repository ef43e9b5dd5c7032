package config

import (
	"fmt"
)

// Validate checks the cross references and ranges the simulation relies on.
func (c *Config) Validate() error {
	a := &c.Arena
	if a.Width <= 0 || a.Height <= 0 {
		return fmt.Errorf("arena size %vx%v: %w", a.Width, a.Height, ErrInvalid)
	}
	if len(a.Nodes) == 0 {
		return fmt.Errorf("arena has no graph nodes: %w", ErrInvalid)
	}
	node := func(what string, id int) error {
		if _, ok := a.Nodes[id]; !ok {
			return fmt.Errorf("%s references node %d: %w", what, id, ErrInvalid)
		}
		return nil
	}
	for _, conn := range a.Connections {
		for _, id := range conn {
			if err := node("connection", id); err != nil {
				return err
			}
		}
	}
	if len(a.Routes) == 0 {
		return fmt.Errorf("arena has no patrol routes: %w", ErrInvalid)
	}
	for i, r := range a.Routes {
		if len(r) < 2 {
			return fmt.Errorf("route %d is shorter than two nodes: %w", i, ErrInvalid)
		}
		for _, id := range r {
			if err := node(fmt.Sprintf("route %d", i), id); err != nil {
				return err
			}
		}
	}
	for team, ids := range a.FleeNodes {
		if !knownTeam(team) || team == "neutral" {
			return fmt.Errorf("flee nodes for team %q: %w", team, ErrInvalid)
		}
		for _, id := range ids {
			if err := node("flee nodes", id); err != nil {
				return err
			}
		}
	}

	seen := map[string]bool{}
	for _, b := range a.Bases {
		if b.Team != "blue" && b.Team != "red" {
			return fmt.Errorf("base team %q: %w", b.Team, ErrInvalid)
		}
		if seen[b.Team] {
			return fmt.Errorf("second %s base: %w", b.Team, ErrInvalid)
		}
		seen[b.Team] = true
		if err := node(b.Team+" base spawn", b.SpawnNode); err != nil {
			return err
		}
		if err := node(b.Team+" base target", b.TargetNode); err != nil {
			return err
		}
	}
	if len(seen) != 2 {
		return fmt.Errorf("need one base per team, have %d: %w", len(seen), ErrInvalid)
	}
	for i, t := range a.Towers {
		if !knownTeam(t.Team) {
			return fmt.Errorf("tower %d team %q: %w", i, t.Team, ErrInvalid)
		}
	}
	if a.SearchGrid < 0 {
		return fmt.Errorf("search_grid %v: %w", a.SearchGrid, ErrInvalid)
	}
	for _, o := range a.Obstacles {
		if len(o.Body) < 3 {
			return fmt.Errorf("obstacle %q needs at least 3 body vertices: %w", o.Name, ErrInvalid)
		}
		if len(o.Boundary) != 0 && len(o.Boundary) < 3 {
			return fmt.Errorf("obstacle %q boundary needs at least 3 vertices: %w", o.Name, ErrInvalid)
		}
	}

	for _, k := range []string{"knight", "archer", "wizard", "orc", "tower", "grey_tower", "base"} {
		s, _ := c.Units.StatsFor(k)
		if s.MaxHP <= 0 {
			return fmt.Errorf("%s max_hp %v: %w", k, s.MaxHP, ErrInvalid)
		}
	}
	for _, k := range c.Rules.Roster {
		if k != "knight" && k != "archer" && k != "wizard" {
			return fmt.Errorf("roster entry %q: %w", k, ErrInvalid)
		}
	}
	r := c.Rules
	if r.TickRate <= 0 {
		return fmt.Errorf("tick_rate %v: %w", r.TickRate, ErrInvalid)
	}
	if r.HealingCooldown <= 0 || r.RespawnTime < 0 {
		return fmt.Errorf("healing/respawn timers: %w", ErrInvalid)
	}
	if r.Difficulty != "easy" && r.Difficulty != "hard" {
		return fmt.Errorf("difficulty %q: %w", r.Difficulty, ErrInvalid)
	}
	if r.SpeedMultiplier <= 0 {
		return fmt.Errorf("speed_multiplier %v: %w", r.SpeedMultiplier, ErrInvalid)
	}
	return nil
}

func knownTeam(t string) bool {
	return t == "blue" || t == "red" || t == "neutral"
}
