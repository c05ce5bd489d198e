package main

import (
	"context"
	"flag"
	"log/slog"

	"github.com/calvinmclean/bedlift/app"
	"github.com/calvinmclean/bedlift/simulator"
)

func main() {
	var (
		dev      bool
		noFade   bool
		scale    float64
		httpAddr string
		verbose  bool
	)
	flag.BoolVar(&dev, "dev", false, "Enable dev-only modes without holding UP and MODE at boot")
	flag.BoolVar(&noFade, "no-fade", false, "Skip the startup fade")
	flag.Float64Var(&scale, "scale", 2, "Window pixels per panel pixel")
	flag.StringVar(&httpAddr, "http", "", "Also serve the console over HTTP on this address. Example: \":8080\"")
	flag.BoolVar(&verbose, "v", false, "Debug logging")
	flag.Parse()

	cfg := app.DefaultConfig()
	cfg.ForceDevMode = dev
	cfg.StartupFade = !noFade

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	simulator.New(cfg, float32(scale), level).WithHTTP(httpAddr).Run(context.Background())
}
