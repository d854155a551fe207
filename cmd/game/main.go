package main

import (
	"flag"
	"log"
	"math"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/Garsondee/Sentry-Sense/internal/config"
	"github.com/Garsondee/Sentry-Sense/internal/observability"
	"github.com/Garsondee/Sentry-Sense/internal/sim"
	"github.com/Garsondee/Sentry-Sense/internal/viewer"
)

func main() {
	var cfgPath string
	flag.StringVar(&cfgPath, "config", "", "scenario config file")
	flag.Parse()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatal(err)
	}
	logger := observability.NewLogger(cfg.Logger)
	defer func() { _ = logger.Sync() }()

	opts, err := sim.FromConfig(cfg, cfg.Sim.Seed)
	if err != nil {
		log.Fatal(err)
	}
	s, err := sim.NewSim(append(opts, sim.WithLogger(logger))...)
	if err != nil {
		log.Fatal(err)
	}

	ebiten.SetWindowTitle("Sentry Sense")
	ebiten.SetWindowSize(1280, 720)
	ebiten.SetTPS(int(math.Round(cfg.Sim.TickRate)))
	if err := ebiten.RunGame(viewer.New(s, 1280, 720, logger)); err != nil {
		log.Fatal(err)
	}
}
