// Package search runs city lookups, incremental region sweeps and historical
// weather lookups against the tag query, geocoding and weather services.
package search

import (
	"context"
	"log/slog"
	"time"

	"github.com/mohammed-shakir/geosearch/internal/core/model"
	"github.com/mohammed-shakir/geosearch/internal/core/transport"
	"github.com/mohammed-shakir/geosearch/internal/nominatim"
	"github.com/mohammed-shakir/geosearch/internal/processed"
)

const (
	DefaultMaxBBoxSpanKm   = 2000.0
	DefaultWeatherMaxYears = 30
)

// PlaceSink receives every batch of places a search returns.
type PlaceSink interface {
	EmitPlaces(ctx context.Context, kind string, places []model.PlaceInfo)
}

type nopSink struct{}

func (nopSink) EmitPlaces(context.Context, string, []model.PlaceInfo) {}

type Options struct {
	Overpass  transport.Interface
	Geocoder  nominatim.Geocoder
	Weather   transport.Interface
	Processed processed.Factory
	Sink      PlaceSink

	MaxBBoxSpanKm   float64
	WeatherMaxYears int
}

type Engine struct {
	logger    *slog.Logger
	overpass  transport.Interface
	geocoder  nominatim.Geocoder
	weather   transport.Interface
	processed processed.Factory
	sink      PlaceSink

	maxSpanKm float64
	maxYears  int
	now       func() time.Time // for tests
}

func New(logger *slog.Logger, opts Options) *Engine {
	e := &Engine{
		logger:    logger.With("component", "search"),
		overpass:  opts.Overpass,
		geocoder:  opts.Geocoder,
		weather:   opts.Weather,
		processed: opts.Processed,
		sink:      opts.Sink,
		maxSpanKm: opts.MaxBBoxSpanKm,
		maxYears:  opts.WeatherMaxYears,
		now:       time.Now,
	}
	if e.processed == nil {
		e.processed = processed.MemoryFactory{}
	}
	if e.sink == nil {
		e.sink = nopSink{}
	}
	if e.maxSpanKm <= 0 {
		e.maxSpanKm = DefaultMaxBBoxSpanKm
	}
	if e.maxYears <= 0 {
		e.maxYears = DefaultWeatherMaxYears
	}
	return e
}

func (e *Engine) emit(ctx context.Context, kind string, places []model.PlaceInfo) {
	if len(places) == 0 {
		return
	}
	e.sink.EmitPlaces(ctx, kind, places)
}
