// Package model defines core domain types shared across the service.
package model

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// BBox is a south/west/north/east bounding box in WGS84 degrees.
type BBox struct {
	South float64 `json:"south"`
	West  float64 `json:"west"`
	North float64 `json:"north"`
	East  float64 `json:"east"`
}

// OverpassString renders the box in the order the tag query language expects
func (b BBox) OverpassString() string {
	return strings.Join([]string{
		formatCoord(b.South),
		formatCoord(b.West),
		formatCoord(b.North),
		formatCoord(b.East),
	}, ",")
}

func (b BBox) String() string {
	return fmt.Sprintf("%.6f,%.6f,%.6f,%.6f", b.South, b.West, b.North, b.East)
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// EntityID is an external OSM identifier.
type EntityID int64

type EntityIDs []EntityID

// Feature is a category of geographical objects a region must contain.
type Feature uint32

const (
	FeatureAirports Feature = 1 << iota
	FeaturePeaks
	FeatureSeaBeaches
	FeatureSaltLakes
)

// PropMinPeakHeight holds the minimum peak elevation in metres.
const PropMinPeakHeight = "minPeakHeight"

var featureNames = []struct {
	f    Feature
	name string
}{
	{FeatureAirports, "airports"},
	{FeaturePeaks, "peaks"},
	{FeatureSeaBeaches, "sea_beaches"},
	{FeatureSaltLakes, "salt_lakes"},
}

// ParseFeature maps a feature name to its flag
func ParseFeature(s string) (Feature, error) {
	n := strings.ToLower(strings.TrimSpace(s))
	for _, fn := range featureNames {
		if fn.name == n {
			return fn.f, nil
		}
	}
	return 0, fmt.Errorf("unknown feature %q", s)
}

func (f Feature) Has(other Feature) bool { return f&other != 0 }

func (f Feature) String() string {
	var parts []string
	for _, fn := range featureNames {
		if f.Has(fn.f) {
			parts = append(parts, fn.name)
		}
	}
	return strings.Join(parts, "|")
}

type RegionPreferences struct {
	Features   Feature
	Properties map[string]string
}

// FeatureRecord is a point of interest attached to a place.
type FeatureRecord struct {
	Lat  float64           `json:"lat"`
	Lon  float64           `json:"lon"`
	Tags map[string]string `json:"tags"`
}

type PlaceInfo struct {
	ID       EntityID        `json:"osm_id"`
	Name     string          `json:"name"`
	Country  string          `json:"country"`
	Lat      float64         `json:"lat"`
	Lon      float64         `json:"lon"`
	Features []FeatureRecord `json:"features,omitempty"`
}

// Node is a point element returned by the tag query service.
type Node struct {
	Lat  float64
	Lon  float64
	Tags map[string]string
}

const DateLayout = "2006-01-02"

// DateRange is a closed interval of calendar dates at UTC midnight.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Days returns the whole-day span End - Start
func (r DateRange) Days() int {
	return int(math.Round(r.End.Sub(r.Start).Hours() / 24))
}

func (r DateRange) String() string {
	return r.Start.Format(DateLayout) + ".." + r.End.Format(DateLayout)
}

// ParseDate parses YYYY-MM-DD into a UTC midnight time.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, strings.TrimSpace(s), time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t, nil
}

// Day truncates t to its UTC calendar date.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type WeatherInfo struct {
	Date    time.Time `json:"date"`
	TempMax float64   `json:"temperature_max"`
	TempMin float64   `json:"temperature_min"`
	TempAvg float64   `json:"temperature_avg"`
}

type WeatherWindow struct {
	Start time.Time     `json:"start"`
	End   time.Time     `json:"end"`
	Days  []WeatherInfo `json:"days"`
}
