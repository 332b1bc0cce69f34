package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type PlaceEventsCfg struct {
	Enabled   bool
	Brokers   string
	Topic     string
	QueueSize int
}

type Config struct {
	Addr            string
	LogLevel        string
	LogConsole      bool
	MetricsEnabled  bool
	OverpassURL     string
	NominatimURL    string
	OpenMeteoURL    string
	UserAgent       string
	UpstreamTimeout time.Duration
	MaxBBoxSpanKm   float64
	SessionStore    string
	RedisAddr       string
	SessionTTL      time.Duration
	SessionMax      int
	StoreOpTimeout  time.Duration
	WeatherMaxYears int
	SweepH3Res      int
	PlaceEvents     PlaceEventsCfg
}

func FromEnv() Config {
	sweepRes := getint("SWEEP_H3_RES", 3)
	if sweepRes < 0 {
		sweepRes = 0
	}
	if sweepRes > 15 {
		sweepRes = 15
	}

	maxYears := getint("WEATHER_MAX_YEARS", 30)
	if maxYears < 1 {
		maxYears = 1
	}

	return Config{
		Addr:            getenv("ADDR", ":8090"),
		LogLevel:        getenv("LOG_LEVEL", "info"),
		LogConsole:      getbool("LOG_CONSOLE", false),
		MetricsEnabled:  getbool("METRICS_ENABLED", true),
		OverpassURL:     getenv("OVERPASS_URL", "https://overpass-api.de/api/interpreter"),
		NominatimURL:    getenv("NOMINATIM_URL", "https://nominatim.openstreetmap.org"),
		OpenMeteoURL:    getenv("OPEN_METEO_URL", "https://archive-api.open-meteo.com/v1/archive"),
		UserAgent:       getenv("USER_AGENT", "geosearch/dev"),
		UpstreamTimeout: getduration("UPSTREAM_TIMEOUT", 190*time.Second),
		MaxBBoxSpanKm:   getfloat("MAX_BBOX_SPAN_KM", 2000),
		SessionStore:    strings.ToLower(getenv("SESSION_STORE", "memory")),
		RedisAddr:       getenv("REDIS_ADDR", "localhost:6379"),
		SessionTTL:      getduration("SESSION_TTL", 30*time.Minute),
		SessionMax:      getint("SESSION_MAX", 1024),
		StoreOpTimeout:  getduration("STORE_OP_TIMEOUT", 250*time.Millisecond),
		WeatherMaxYears: maxYears,
		SweepH3Res:      sweepRes,
		PlaceEvents: PlaceEventsCfg{
			Enabled:   getbool("PLACE_EVENTS_ENABLED", false),
			Brokers:   getenv("KAFKA_BROKERS", "localhost:9092"),
			Topic:     getenv("PLACE_EVENTS_TOPIC", "geosearch-places"),
			QueueSize: getint("PLACE_EVENTS_QUEUE", 1024),
		},
	}
}

// BrokerList splits the comma separated broker setting
func (c PlaceEventsCfg) BrokerList() []string {
	var out []string
	for b := range strings.SplitSeq(c.Brokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getint(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getbool(k string, def bool) bool {
	if v := os.Getenv(k); v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "t", "true", "y", "yes":
			return true
		case "0", "f", "false", "n", "no":
			return false
		}
	}
	return def
}

func getfloat(k string, def float64) float64 {
	if v := os.Getenv(k); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getduration(k string, def time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
