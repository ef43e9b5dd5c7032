// Package config loads arena layouts, unit statistics and match rules from
// YAML, with the environment overrides the arena binaries honour.
package config

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/Garsondee/Arena-Sense/internal/geom"
	"github.com/Garsondee/Arena-Sense/internal/nav"
	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("config: invalid")

//go:embed arena
var defaultFS embed.FS

// DefaultFile is the embedded arena loaded by Default.
const DefaultFile = "arena/arena.yaml"

// Point is a position written as a [x, y] pair.
type Point [2]float64

// Vec converts p to a geom.Vec2.
func (p Point) Vec() geom.Vec2 { return geom.V(p[0], p[1]) }

// Stats are the per-kind unit statistics. Zero fields are unused by that kind.
type Stats struct {
	MaxHP             float64 `yaml:"max_hp"`
	MaxSpeed          float64 `yaml:"max_speed"`
	Radius            float64 `yaml:"radius"`
	MinTargetDistance float64 `yaml:"min_target_distance"`
	MeleeDamage       float64 `yaml:"melee_damage"`
	MeleeCooldown     float64 `yaml:"melee_cooldown"`
	RangedDamage      float64 `yaml:"ranged_damage"`
	RangedCooldown    float64 `yaml:"ranged_cooldown"`
	ProjectileRange   float64 `yaml:"projectile_range"`
	ProjectileSpeed   float64 `yaml:"projectile_speed"`
	SplashRadius      float64 `yaml:"splash_radius"`
	SpawnCooldown     float64 `yaml:"spawn_cooldown"`
	Invulnerable      bool    `yaml:"invulnerable"`
}

// Units groups the statistics of every entity kind.
type Units struct {
	Knight    Stats `yaml:"knight"`
	Archer    Stats `yaml:"archer"`
	Wizard    Stats `yaml:"wizard"`
	Orc       Stats `yaml:"orc"`
	Tower     Stats `yaml:"tower"`
	GreyTower Stats `yaml:"grey_tower"`
	Base      Stats `yaml:"base"`
}

// Rules are the match-wide constants.
type Rules struct {
	TickRate          float64 `yaml:"tick_rate"`
	TimeLimit         float64 `yaml:"time_limit"`
	RespawnTime       float64 `yaml:"respawn_time"`
	HealingCooldown   float64 `yaml:"healing_cooldown"`
	HealingPercentage float64 `yaml:"healing_percentage"`

	XPToLevel                float64            `yaml:"xp_to_level"`
	XPValue                  map[string]float64 `yaml:"xp_value"`
	LevelUpPercentage        float64            `yaml:"level_up_percentage"`
	LevelUpHealingPercentage float64            `yaml:"level_up_healing_percentage"`

	Difficulty      string  `yaml:"difficulty"`
	HardMultiplier  float64 `yaml:"hard_multiplier"`
	SpeedMultiplier float64 `yaml:"speed_multiplier"`

	Roster []string `yaml:"roster"`

	// Steering and perception tuning.
	ArriveRadius        float64 `yaml:"arrive_radius"`
	RouteSpacing        float64 `yaml:"route_spacing"`
	ObstacleIgnore      float64 `yaml:"obstacle_ignore_distance"`
	ObstacleMaxDistance float64 `yaml:"obstacle_max_distance"`
	EdgeTolerance       float64 `yaml:"edge_tolerance"`
	LOSStep             float64 `yaml:"los_step"`
	RayWidth            float64 `yaml:"ray_width"`
	MeleeDanger         float64 `yaml:"melee_danger_distance"`
	TowerDanger         float64 `yaml:"tower_danger_distance"`
	RangeTolerance      float64 `yaml:"range_tolerance"`
	SearchSlack         float64 `yaml:"search_slack"`
	FleeRadius          float64 `yaml:"flee_radius"`
}

// Base is a team headquarters. Orcs spawn at SpawnNode and walk to TargetNode.
type Base struct {
	Team       string `yaml:"team"`
	Pos        Point  `yaml:"pos"`
	SpawnNode  int    `yaml:"spawn_node"`
	TargetNode int    `yaml:"target_node"`
}

// Tower is a static defensive structure. Team "neutral" builds a grey tower.
type Tower struct {
	Team string `yaml:"team"`
	Pos  Point  `yaml:"pos"`
}

// Obstacle is an impassable polygon. Boundary is the ring units slide along
// when avoiding it; when omitted it is Body pushed outwards by Margin.
type Obstacle struct {
	Name     string  `yaml:"name"`
	Body     []Point `yaml:"body"`
	Boundary []Point `yaml:"boundary"`
	Margin   float64 `yaml:"margin"`
}

// Arena is the static map.
type Arena struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`

	// Graph names a text graph file next to the YAML. When empty the
	// inline Nodes, Connections and Routes are used.
	Graph       string           `yaml:"graph"`
	Nodes       map[int]Point    `yaml:"nodes"`
	Connections [][2]int         `yaml:"connections"`
	Routes      [][]int          `yaml:"routes"`
	FleeNodes   map[string][]int `yaml:"flee_nodes"`

	// SearchGrid is the cell size of an obstacle-aware lattice that
	// searching units path over instead of the sparse graph. 0 disables it.
	SearchGrid float64 `yaml:"search_grid"`

	Bases     []Base     `yaml:"bases"`
	Towers    []Tower    `yaml:"towers"`
	Obstacles []Obstacle `yaml:"obstacles"`
}

// Runtime carries the process-level switches read from the environment.
type Runtime struct {
	Debug    bool
	RealTime bool
	Headless bool
	Seed     int64
	HasSeed  bool
}

// Config is a complete match description.
type Config struct {
	Units   Units   `yaml:"units"`
	Rules   Rules   `yaml:"rules"`
	Arena   Arena   `yaml:"arena"`
	Runtime Runtime `yaml:"-"`
}

// Default loads the embedded arena.
func Default() (*Config, error) {
	return loadFS(defaultFS, DefaultFile)
}

// Load reads a YAML file from disk. A graph file it names is resolved
// relative to the YAML's directory.
func Load(path string) (*Config, error) {
	dir, name := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	return loadFS(os.DirFS(dir), name)
}

func loadFS(fsys fs.FS, name string) (*Config, error) {
	b, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	cfg, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}
	if cfg.Arena.Graph != "" {
		if err := cfg.Arena.loadGraph(fsys, pathJoin(name, cfg.Arena.Graph)); err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// pathJoin resolves rel against the directory of name using fs.FS slashes.
func pathJoin(name, rel string) string {
	dir := filepath.ToSlash(filepath.Dir(name))
	if dir == "." {
		return rel
	}
	return dir + "/" + rel
}

// Parse decodes YAML over the built-in defaults. It does not validate.
func Parse(b []byte) (*Config, error) {
	cfg := &Config{Rules: defaultRules()}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaultRules() Rules {
	return Rules{
		TickRate:        30,
		Difficulty:      "easy",
		HardMultiplier:  1.15,
		SpeedMultiplier: 1,
		ArriveRadius:    8,
		LOSStep:         4,
		RangeTolerance:  10,
		SearchSlack:     1.5,
	}
}

func (a *Arena) loadGraph(fsys fs.FS, name string) error {
	f, err := fsys.Open(name)
	if err != nil {
		return fmt.Errorf("graph %s: %w", name, err)
	}
	defer f.Close()

	g, routes, err := nav.ParseText(f)
	if err != nil {
		return fmt.Errorf("graph %s: %w", name, err)
	}
	if a.Nodes == nil {
		a.Nodes = make(map[int]Point, g.Len())
	}
	for _, n := range g.Nodes() {
		a.Nodes[n.ID] = Point{n.Pos.X, n.Pos.Y}
	}
	for _, c := range g.Edges() {
		if c.From.ID < c.To.ID {
			a.Connections = append(a.Connections, [2]int{c.From.ID, c.To.ID})
		}
	}
	a.Routes = append(a.Routes, routes...)
	return nil
}

// NavGraph builds the full world graph with bidirectional connections.
func (a *Arena) NavGraph() (*nav.Graph, error) {
	g := nav.NewGraph()
	ids := make([]int, 0, len(a.Nodes))
	for id := range a.Nodes {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		g.AddNode(id, a.Nodes[id].Vec())
	}
	for _, c := range a.Connections {
		if err := g.ConnectBoth(c[0], c[1]); err != nil {
			return nil, fmt.Errorf("connection %v: %w", c, err)
		}
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// StatsFor returns the statistics for an entity kind name.
func (u Units) StatsFor(kind string) (Stats, bool) {
	switch kind {
	case "knight":
		return u.Knight, true
	case "archer":
		return u.Archer, true
	case "wizard":
		return u.Wizard, true
	case "orc":
		return u.Orc, true
	case "tower":
		return u.Tower, true
	case "grey_tower":
		return u.GreyTower, true
	case "base":
		return u.Base, true
	}
	return Stats{}, false
}

// RedMultiplier is the scale applied to red HP and damage.
func (r Rules) RedMultiplier() float64 {
	if r.Difficulty == "hard" {
		return r.HardMultiplier
	}
	return 1
}

// Scaled returns a copy with the speed multiplier folded in: speeds grow by
// it, durations shrink by it. Applying it twice is the caller's mistake.
func (c Config) Scaled() Config {
	m := c.Rules.SpeedMultiplier
	if m <= 0 || m == 1 {
		return c
	}
	scale := func(s Stats) Stats {
		s.MaxSpeed *= m
		s.ProjectileSpeed *= m
		s.MeleeCooldown /= m
		s.RangedCooldown /= m
		s.SpawnCooldown /= m
		return s
	}
	c.Units.Knight = scale(c.Units.Knight)
	c.Units.Archer = scale(c.Units.Archer)
	c.Units.Wizard = scale(c.Units.Wizard)
	c.Units.Orc = scale(c.Units.Orc)
	c.Units.Tower = scale(c.Units.Tower)
	c.Units.GreyTower = scale(c.Units.GreyTower)
	c.Units.Base = scale(c.Units.Base)
	c.Rules.RespawnTime /= m
	c.Rules.HealingCooldown /= m
	c.Rules.TimeLimit /= m
	c.Rules.SpeedMultiplier = 1
	return c
}
