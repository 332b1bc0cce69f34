package app

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"

	"github.com/mohammed-shakir/geosearch/internal/core/config"
	"github.com/mohammed-shakir/geosearch/internal/core/model"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func baseConfig() config.Config {
	return config.Config{
		OverpassURL:     "http://127.0.0.1:1/api/interpreter",
		NominatimURL:    "http://127.0.0.1:1",
		OpenMeteoURL:    "http://127.0.0.1:1/v1/archive",
		UpstreamTimeout: time.Second,
		SessionStore:    "memory",
		SessionTTL:      time.Minute,
		StoreOpTimeout:  time.Second,
		MaxBBoxSpanKm:   2000,
	}
}

func TestBuild_MemoryStore(t *testing.T) {
	a, err := Build(context.Background(), baseConfig(), discard)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer func() { _ = a.Close() }()

	if a.Engine == nil || len(a.Ready) != 0 {
		t.Fatalf("engine=%v ready=%v", a.Engine, a.Ready)
	}
	// unreachable upstreams degrade to empty results
	s := a.Engine.StartFindRegions("x")
	got := s.Step(context.Background(), model.BBox{South: 1, West: 1, North: 1.5, East: 1.5},
		model.RegionPreferences{Features: model.FeatureAirports})
	if len(got) != 0 {
		t.Fatalf("want empty, got %v", got)
	}
}

func TestBuild_RedisStore(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	cfg := baseConfig()
	cfg.SessionStore = "redis"
	cfg.RedisAddr = mr.Addr()

	a, err := Build(context.Background(), cfg, discard)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if _, ok := a.Ready["redis"]; !ok {
		t.Fatal("redis must be part of readiness")
	}
	if err := a.Ready["redis"].Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}
	if err := a.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestBuild_RejectsBadConfig(t *testing.T) {
	cfg := baseConfig()
	cfg.SessionStore = "etcd"
	if _, err := Build(context.Background(), cfg, discard); err == nil {
		t.Fatal("expected error for unknown store")
	}

	cfg = baseConfig()
	cfg.OverpassURL = "not a url"
	if _, err := Build(context.Background(), cfg, discard); err == nil {
		t.Fatal("expected error for relative overpass url")
	}
}
