package sweep

import (
	"context"
	"log/slog"

	"github.com/mohammed-shakir/geosearch/internal/core/model"
)

type Stepper interface {
	Step(ctx context.Context, bbox model.BBox, prefs model.RegionPreferences) []model.PlaceInfo
}

// Run steps s over every tile in order and hands each non-empty result to
// found. It stops early when ctx is done and returns the number of places
// reported.
func Run(ctx context.Context, logger *slog.Logger, s Stepper, tiles []Tile, prefs model.RegionPreferences, found func(Tile, []model.PlaceInfo)) int {
	total := 0
	for i, t := range tiles {
		if err := ctx.Err(); err != nil {
			logger.WarnContext(ctx, "sweep interrupted", "done", i, "tiles", len(tiles), "err", err)
			break
		}
		places := s.Step(ctx, t.BBox, prefs)
		logger.DebugContext(ctx, "tile swept", "cell", t.Cell, "places", len(places))
		if len(places) == 0 {
			continue
		}
		total += len(places)
		if found != nil {
			found(t, places)
		}
	}
	return total
}
