package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/Garsondee/Arena-Sense/internal/config"
	"github.com/Garsondee/Arena-Sense/internal/game"
	"github.com/Garsondee/Arena-Sense/internal/viewer"
	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	var cfgPath string
	var maxTicks int
	flag.StringVar(&cfgPath, "config", "", "arena YAML file (default: built-in arena)")
	flag.IntVar(&maxTicks, "max-ticks", 0, "headless only: stop after this many ticks (0 = until the match ends)")
	flag.Parse()

	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true, Prefix: "arena"})
	if err := run(cfgPath, maxTicks, logger); err != nil {
		logger.Error("arena", "err", err)
		os.Exit(1)
	}
}

func run(cfgPath string, maxTicks int, logger *log.Logger) error {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return err
	}
	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return err
	}
	if cfg.Runtime.Debug {
		logger.SetLevel(log.DebugLevel)
	}
	seed := time.Now().UnixNano()
	if cfg.Runtime.HasSeed {
		seed = cfg.Runtime.Seed
	}

	w, err := game.NewWorld(cfg, seed, logger)
	if err != nil {
		return err
	}
	if err := w.SpawnAll(); err != nil {
		return err
	}
	logger.Info("match start", "seed", seed, "difficulty", cfg.Rules.Difficulty, "speed", cfg.Rules.SpeedMultiplier)

	if cfg.Runtime.Headless {
		return runHeadless(w, seed, maxTicks)
	}

	v := viewer.New(w, seed, logger)
	if cfg.Runtime.RealTime {
		ebiten.SetTPS(int(w.Rules().TickRate))
	}
	width, height := v.Size()
	ebiten.SetWindowTitle("Arena Sense")
	ebiten.SetWindowSize(width, height)
	return ebiten.RunGame(v)
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default()
	}
	return config.Load(path)
}

// runHeadless plays the match out as fast as possible and prints the result.
func runHeadless(w *game.World, seed int64, maxTicks int) error {
	if maxTicks <= 0 && w.Rules().TimeLimit <= 0 {
		return errors.New("headless run needs a time limit or -max-ticks")
	}
	dt := 1 / w.Rules().TickRate
	for !w.Outcome().Over && (maxTicks <= 0 || w.Tick() < maxTicks) {
		if err := w.Step(dt); err != nil {
			return err
		}
	}
	fmt.Println(game.DetermineMatchOutcome(w, seed))
	fmt.Print(w.SimLog.Summary(w))
	return nil
}
