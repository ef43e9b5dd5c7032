package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefault_LoadsEmbeddedArena(t *testing.T) {
	cfg, err := Default()
	require.NoError(t, err)

	require.Equal(t, 1024.0, cfg.Arena.Width)
	require.Len(t, cfg.Arena.Nodes, 16)
	require.Len(t, cfg.Arena.Routes, 3)
	require.Len(t, cfg.Arena.Bases, 2)
	require.Equal(t, []int{5, 0, 1, 2}, cfg.Arena.FleeNodes["blue"])
	require.Equal(t, 400.0, cfg.Units.Knight.MaxHP)
	require.True(t, cfg.Units.GreyTower.Invulnerable)
	require.Equal(t, []string{"knight", "archer", "wizard"}, cfg.Rules.Roster)

	g, err := cfg.Arena.NavGraph()
	require.NoError(t, err)
	require.Equal(t, 16, g.Len())
	require.True(t, g.Connected(0, 1))
	require.True(t, g.Connected(1, 0))
}

func TestLoad_InlineGraph(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tiny.yaml")
	src := `
units:
  knight: {max_hp: 10}
  archer: {max_hp: 10}
  wizard: {max_hp: 10}
  orc: {max_hp: 10}
  tower: {max_hp: 10}
  grey_tower: {max_hp: 10}
  base: {max_hp: 10}
rules:
  healing_cooldown: 2
arena:
  width: 200
  height: 100
  nodes: {0: [10, 50], 1: [190, 50]}
  connections: [[0, 1]]
  routes: [[0, 1]]
  bases:
    - {team: blue, pos: [5, 50], spawn_node: 0, target_node: 1}
    - {team: red, pos: [195, 50], spawn_node: 1, target_node: 0}
`
	require.NoError(t, os.WriteFile(path, []byte(src), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 30.0, cfg.Rules.TickRate, "defaults survive partial YAML")
	require.Equal(t, 8.0, cfg.Rules.ArriveRadius)

	g, err := cfg.Arena.NavGraph()
	require.NoError(t, err)
	require.InDelta(t, 180.0, g.Connections(0)[0].Cost, 1e-9)
}

func TestLoad_GraphFileNextToYAML(t *testing.T) {
	dir := t.TempDir()
	graph := "0 0 0\n1 30 40\nconnections\n0 1\npaths\n0 1\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "g.txt"), []byte(graph), 0o600))

	def, err := os.ReadFile(filepath.Join("arena", "arena.yaml"))
	require.NoError(t, err)
	cfg, err := Parse(def)
	require.NoError(t, err)
	require.Equal(t, "graph.txt", cfg.Arena.Graph)

	src := `
units:
  knight: {max_hp: 1}
  archer: {max_hp: 1}
  wizard: {max_hp: 1}
  orc: {max_hp: 1}
  tower: {max_hp: 1}
  grey_tower: {max_hp: 1}
  base: {max_hp: 1}
rules: {healing_cooldown: 1}
arena:
  width: 50
  height: 50
  graph: g.txt
  bases:
    - {team: blue, pos: [0, 0], spawn_node: 0, target_node: 1}
    - {team: red, pos: [30, 40], spawn_node: 1, target_node: 0}
`
	path := filepath.Join(dir, "a.yaml")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o600))
	cfg, err = Load(path)
	require.NoError(t, err)
	require.Equal(t, [][]int{{0, 1}}, cfg.Arena.Routes)
	require.Equal(t, [][2]int{{0, 1}}, cfg.Arena.Connections)
}

func TestValidate_Rejects(t *testing.T) {
	cases := map[string]func(*Config){
		"unknown route node":  func(c *Config) { c.Arena.Routes = append(c.Arena.Routes, []int{0, 99}) },
		"missing base":        func(c *Config) { c.Arena.Bases = c.Arena.Bases[:1] },
		"bad tower team":      func(c *Config) { c.Arena.Towers[0].Team = "green" },
		"degenerate obstacle": func(c *Config) { c.Arena.Obstacles[0].Body = c.Arena.Obstacles[0].Body[:2] },
		"zero hp":             func(c *Config) { c.Units.Orc.MaxHP = 0 },
		"bad roster":          func(c *Config) { c.Rules.Roster = []string{"dragon"} },
		"bad difficulty":      func(c *Config) { c.Rules.Difficulty = "nightmare" },
		"neutral flee nodes":  func(c *Config) { c.Arena.FleeNodes["neutral"] = []int{0} },
		"negative grid":       func(c *Config) { c.Arena.SearchGrid = -5 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg, err := Default()
			require.NoError(t, err)
			mutate(cfg)
			require.ErrorIs(t, cfg.Validate(), ErrInvalid)
		})
	}
}

func TestApplyEnv(t *testing.T) {
	cfg, err := Default()
	require.NoError(t, err)
	env := map[string]string{
		"DEBUG":            "1",
		"SPEED_MULTIPLIER": "2",
		"DIFFICULTY":       "HARD",
		"HEADLESS":         "true",
		"RANDOM_SEED":      "42",
	}
	require.NoError(t, cfg.ApplyEnv(func(k string) string { return env[k] }))
	require.True(t, cfg.Runtime.Debug)
	require.True(t, cfg.Runtime.Headless)
	require.False(t, cfg.Runtime.RealTime)
	require.True(t, cfg.Runtime.HasSeed)
	require.Equal(t, int64(42), cfg.Runtime.Seed)
	require.Equal(t, "hard", cfg.Rules.Difficulty)
	require.InDelta(t, 1.15, cfg.Rules.RedMultiplier(), 1e-9)

	scaled := cfg.Scaled()
	require.Equal(t, 160.0, scaled.Units.Knight.MaxSpeed)
	require.Equal(t, 0.75, scaled.Units.Knight.MeleeCooldown)
	require.Equal(t, 1.0, scaled.Rules.HealingCooldown)
	require.Equal(t, 90.0, scaled.Rules.TimeLimit)
	require.Equal(t, 80.0, cfg.Units.Knight.MaxSpeed, "Scaled must not touch the receiver")
}

func TestApplyEnv_Invalid(t *testing.T) {
	for _, kv := range [][2]string{
		{"SPEED_MULTIPLIER", "-1"},
		{"SPEED_MULTIPLIER", "fast"},
		{"DIFFICULTY", "medium"},
		{"RANDOM_SEED", "abc"},
	} {
		cfg, err := Default()
		require.NoError(t, err)
		err = cfg.ApplyEnv(func(k string) string {
			if k == kv[0] {
				return kv[1]
			}
			return ""
		})
		require.ErrorIs(t, err, ErrInvalid, "%s=%s", kv[0], kv[1])
	}
}
