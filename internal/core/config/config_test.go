package config

import (
	"reflect"
	"testing"
	"time"
)

func TestFromEnv_Defaults(t *testing.T) {
	cfg := FromEnv()
	if cfg.MaxBBoxSpanKm != 2000 {
		t.Fatalf("MaxBBoxSpanKm=%v want 2000", cfg.MaxBBoxSpanKm)
	}
	if cfg.SessionStore != "memory" {
		t.Fatalf("SessionStore=%q want memory", cfg.SessionStore)
	}
	if cfg.SweepH3Res != 3 {
		t.Fatalf("SweepH3Res=%d want 3", cfg.SweepH3Res)
	}
}

func TestFromEnv_OverridesAndClamps(t *testing.T) {
	t.Setenv("MAX_BBOX_SPAN_KM", "500")
	t.Setenv("SESSION_STORE", "Redis")
	t.Setenv("SESSION_TTL", "5m")
	t.Setenv("SWEEP_H3_RES", "42")
	t.Setenv("WEATHER_MAX_YEARS", "0")
	t.Setenv("PLACE_EVENTS_ENABLED", "yes")
	t.Setenv("KAFKA_BROKERS", " a:9092, ,b:9092 ")

	cfg := FromEnv()
	if cfg.MaxBBoxSpanKm != 500 {
		t.Fatalf("MaxBBoxSpanKm=%v want 500", cfg.MaxBBoxSpanKm)
	}
	if cfg.SessionStore != "redis" {
		t.Fatalf("SessionStore=%q want redis", cfg.SessionStore)
	}
	if cfg.SessionTTL != 5*time.Minute {
		t.Fatalf("SessionTTL=%v want 5m", cfg.SessionTTL)
	}
	if cfg.SweepH3Res != 15 {
		t.Fatalf("SweepH3Res=%d want clamp to 15", cfg.SweepH3Res)
	}
	if cfg.WeatherMaxYears != 1 {
		t.Fatalf("WeatherMaxYears=%d want clamp to 1", cfg.WeatherMaxYears)
	}
	if !cfg.PlaceEvents.Enabled {
		t.Fatal("PlaceEvents.Enabled should be true")
	}
	if got, want := cfg.PlaceEvents.BrokerList(), []string{"a:9092", "b:9092"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("BrokerList=%v want %v", got, want)
	}
}
