// Package nominatim resolves OSM relation ids into named places through the
// Nominatim lookup API.
package nominatim

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"github.com/mohammed-shakir/geosearch/internal/core/model"
	"github.com/mohammed-shakir/geosearch/internal/core/transport"
)

// Nominatim accepts at most 50 ids per lookup request.
const maxIDsPerRequest = 50

type Match int

const (
	// MatchAny keeps every city-class result.
	MatchAny Match = iota
	// MatchBest keeps the single most specific city-class result.
	MatchBest
)

func (m Match) String() string {
	if m == MatchBest {
		return "best"
	}
	return "any"
}

type Geocoder interface {
	LookupForCities(ctx context.Context, ids model.EntityIDs, match Match) []model.PlaceInfo
	Lookup(ctx context.Context, ids model.EntityIDs) []model.PlaceInfo
}

// LookupEndpoint returns the lookup URL for a Nominatim base URL.
func LookupEndpoint(base string) string {
	return strings.TrimRight(base, "/") + "/lookup"
}

type Client struct {
	logger   *slog.Logger
	t        transport.Interface
	language string
}

var _ Geocoder = (*Client)(nil)

func New(logger *slog.Logger, t transport.Interface) *Client {
	return &Client{logger: logger, t: t, language: "en"}
}

type address struct {
	Country string `json:"country"`
}

type result struct {
	OsmType     string  `json:"osm_type"`
	OsmID       int64   `json:"osm_id"`
	Lat         string  `json:"lat"`
	Lon         string  `json:"lon"`
	Category    string  `json:"category"`
	Type        string  `json:"type"`
	PlaceRank   int     `json:"place_rank"`
	AddressType string  `json:"addresstype"`
	Name        string  `json:"name"`
	DisplayName string  `json:"display_name"`
	Address     address `json:"address"`
}

func (r result) isCity() bool {
	switch r.AddressType {
	case "city", "town":
		return true
	}
	return r.Category == "place" && (r.Type == "city" || r.Type == "town")
}

func (r result) place() (model.PlaceInfo, bool) {
	lat, err1 := strconv.ParseFloat(r.Lat, 64)
	lon, err2 := strconv.ParseFloat(r.Lon, 64)
	if err1 != nil || err2 != nil {
		return model.PlaceInfo{}, false
	}
	name := r.Name
	if name == "" {
		name, _, _ = strings.Cut(r.DisplayName, ",")
		name = strings.TrimSpace(name)
	}
	return model.PlaceInfo{
		ID:      model.EntityID(r.OsmID),
		Name:    name,
		Country: r.Address.Country,
		Lat:     lat,
		Lon:     lon,
	}, true
}

// LookupForCities resolves ids and keeps only city-class places. Ids that are
// not cities are dropped silently.
func (c *Client) LookupForCities(ctx context.Context, ids model.EntityIDs, match Match) []model.PlaceInfo {
	var cities []result
	for _, r := range c.lookup(ctx, ids) {
		if r.isCity() {
			cities = append(cities, r)
		}
	}
	if match == MatchBest && len(cities) > 1 {
		best := cities[0]
		for _, r := range cities[1:] {
			if r.PlaceRank > best.PlaceRank {
				best = r
			}
		}
		cities = []result{best}
	}
	return c.places(ctx, cities)
}

// Lookup resolves ids without class filtering; unresolved ids are absent.
func (c *Client) Lookup(ctx context.Context, ids model.EntityIDs) []model.PlaceInfo {
	return c.places(ctx, c.lookup(ctx, ids))
}

func (c *Client) places(ctx context.Context, rs []result) []model.PlaceInfo {
	out := make([]model.PlaceInfo, 0, len(rs))
	for _, r := range rs {
		p, ok := r.place()
		if !ok {
			c.logger.DebugContext(ctx, "skipping place with bad coordinates", "osm_id", r.OsmID, "lat", r.Lat, "lon", r.Lon)
			continue
		}
		out = append(out, p)
	}
	return out
}

func (c *Client) lookup(ctx context.Context, ids model.EntityIDs) []result {
	requested := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		requested[int64(id)] = struct{}{}
	}

	var out []result
	for start := 0; start < len(ids); start += maxIDsPerRequest {
		end := min(start+maxIDsPerRequest, len(ids))
		raw := c.t.Get(ctx, c.query(ids[start:end]))
		if raw == "" {
			continue
		}
		var batch []result
		if err := json.Unmarshal([]byte(raw), &batch); err != nil {
			c.logger.ErrorContext(ctx, "nominatim response is malformed", "err", err)
			continue
		}
		for _, r := range batch {
			if _, ok := requested[r.OsmID]; !ok || r.OsmType != "relation" {
				continue
			}
			out = append(out, r)
		}
	}
	return out
}

func (c *Client) query(ids model.EntityIDs) string {
	refs := make([]string, len(ids))
	for i, id := range ids {
		refs[i] = "R" + strconv.FormatInt(int64(id), 10)
	}
	v := url.Values{}
	v.Set("osm_ids", strings.Join(refs, ","))
	v.Set("format", "jsonv2")
	v.Set("addressdetails", "1")
	v.Set("accept-language", c.language)
	return v.Encode()
}
