// Package app assembles the search engine and its stores from configuration.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mohammed-shakir/geosearch/internal/core/config"
	"github.com/mohammed-shakir/geosearch/internal/core/health"
	"github.com/mohammed-shakir/geosearch/internal/core/httpclient"
	"github.com/mohammed-shakir/geosearch/internal/core/transport"
	"github.com/mohammed-shakir/geosearch/internal/nominatim"
	"github.com/mohammed-shakir/geosearch/internal/placeevents"
	"github.com/mohammed-shakir/geosearch/internal/processed"
	"github.com/mohammed-shakir/geosearch/internal/search"
)

type App struct {
	Engine *search.Engine
	// Ready holds the dependencies a readiness probe should ping.
	Ready map[string]health.Pinger

	closers []func() error
}

// Build wires transports, the processed-set store and the optional place
// event sink. Close releases whatever Build opened.
func Build(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	a := &App{Ready: map[string]health.Pinger{}}
	client := httpclient.NewOutbound(cfg.UserAgent, cfg.UpstreamTimeout)

	overpass, err := transport.New(logger, client, "overpass", cfg.OverpassURL)
	if err != nil {
		return nil, err
	}
	geocoding, err := transport.New(logger, client, "nominatim", nominatim.LookupEndpoint(cfg.NominatimURL))
	if err != nil {
		return nil, err
	}
	weather, err := transport.New(logger, client, "open-meteo", cfg.OpenMeteoURL)
	if err != nil {
		return nil, err
	}

	var factory processed.Factory
	switch cfg.SessionStore {
	case "", "memory":
		factory = processed.MemoryFactory{}
	case "redis":
		rf, err := processed.NewRedisFactory(ctx, cfg.RedisAddr, cfg.SessionTTL, cfg.StoreOpTimeout)
		if err != nil {
			return nil, fmt.Errorf("session store: %w", err)
		}
		factory = rf
		a.Ready["redis"] = rf
		a.closers = append(a.closers, rf.Close)
	default:
		return nil, fmt.Errorf("session store: unknown kind %q (want memory or redis)", cfg.SessionStore)
	}

	var sink search.PlaceSink
	if cfg.PlaceEvents.Enabled {
		pub, err := placeevents.NewPublisher(logger, cfg.PlaceEvents.BrokerList(), cfg.PlaceEvents.Topic, cfg.PlaceEvents.QueueSize)
		if err != nil {
			_ = a.Close()
			return nil, err
		}
		sink = pub
		a.closers = append(a.closers, pub.Close)
	}

	a.Engine = search.New(logger, search.Options{
		Overpass:        overpass,
		Geocoder:        nominatim.New(logger, geocoding),
		Weather:         weather,
		Processed:       factory,
		Sink:            sink,
		MaxBBoxSpanKm:   cfg.MaxBBoxSpanKm,
		WeatherMaxYears: cfg.WeatherMaxYears,
	})
	logger.Info("search engine ready",
		"session_store", cfg.SessionStore,
		"place_events", cfg.PlaceEvents.Enabled,
		"max_bbox_span_km", cfg.MaxBBoxSpanKm)
	return a, nil
}

// Close releases resources in reverse opening order.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
