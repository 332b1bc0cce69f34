// Command regionsweep searches an area of any size for regions matching a set
// of features, by walking h3 cells through one region session.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/mohammed-shakir/geosearch/internal/app"
	"github.com/mohammed-shakir/geosearch/internal/core/config"
	"github.com/mohammed-shakir/geosearch/internal/core/model"
	"github.com/mohammed-shakir/geosearch/internal/logger"
	"github.com/mohammed-shakir/geosearch/internal/sweep"
)

func main() {
	os.Exit(run())
}

func parseArea(s string) (model.BBox, error) {
	var v [4]float64
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return model.BBox{}, fmt.Errorf("area %q: want south,west,north,east", s)
	}
	for i, p := range parts {
		if _, err := fmt.Sscan(strings.TrimSpace(p), &v[i]); err != nil {
			return model.BBox{}, fmt.Errorf("area %q: %w", s, err)
		}
	}
	return model.BBox{South: v[0], West: v[1], North: v[2], East: v[3]}, nil
}

func parsePrefs(features, minPeak string) (model.RegionPreferences, error) {
	prefs := model.RegionPreferences{Properties: map[string]string{}}
	for f := range strings.SplitSeq(features, ",") {
		if f = strings.TrimSpace(f); f == "" {
			continue
		}
		bit, err := model.ParseFeature(f)
		if err != nil {
			return model.RegionPreferences{}, err
		}
		prefs.Features |= bit
	}
	if minPeak != "" {
		prefs.Properties[model.PropMinPeakHeight] = minPeak
	}
	return prefs, nil
}

func run() int {
	envFile := flag.String("env", ".env", "optional dotenv file")
	area := flag.String("area", "", "area to sweep as south,west,north,east")
	features := flag.String("features", "airports", "comma separated: airports,peaks,sea_beaches,salt_lakes")
	minPeak := flag.String("min-peak-height", "", "minimum peak elevation in metres")
	res := flag.Int("res", -1, "h3 resolution of the sweep tiles (overrides SWEEP_H3_RES)")
	flag.Parse()

	_ = godotenv.Load(*envFile)
	cfg := config.FromEnv()
	if *res >= 0 {
		cfg.SweepH3Res = *res
	}

	zl := logger.Build(logger.Config{Level: cfg.LogLevel, Console: true, Component: "regionsweep"}, os.Stderr)
	log := logger.NewSlog(&zl)

	bbox, err := parseArea(*area)
	if err != nil {
		log.Error("bad -area", "err", err)
		return 2
	}
	prefs, err := parsePrefs(*features, *minPeak)
	if err != nil {
		log.Error("bad -features", "err", err)
		return 2
	}
	tiles, err := sweep.Tiles(bbox, cfg.SweepH3Res)
	if err != nil {
		log.Error("tiling failed", "err", err)
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.Build(ctx, cfg, log)
	if err != nil {
		log.Error("setup failed", "err", err)
		return 1
	}
	defer func() { _ = a.Close() }()

	id := uuid.NewString()
	sess := a.Engine.StartFindRegions(id)
	defer func() { _ = sess.Close(context.Background()) }()

	log.Info("sweep started", "session_id", id, "tiles", len(tiles), "res", cfg.SweepH3Res, "features", prefs.Features.String())

	enc := json.NewEncoder(os.Stdout)
	total := sweep.Run(ctx, log, sess, tiles, prefs, func(t sweep.Tile, places []model.PlaceInfo) {
		for _, p := range places {
			_ = enc.Encode(struct {
				Cell string `json:"cell"`
				model.PlaceInfo
			}{Cell: t.Cell, PlaceInfo: p})
		}
	})
	log.Info("sweep done", "session_id", id, "regions", total)
	return 0
}
