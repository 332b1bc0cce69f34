package search

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"sync"

	"github.com/mohammed-shakir/geosearch/internal/core/model"
	"github.com/mohammed-shakir/geosearch/internal/core/transport/transporttest"
	"github.com/mohammed-shakir/geosearch/internal/nominatim"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

// fakeGeocoder resolves ids present in known and records every request.
type fakeGeocoder struct {
	mu      sync.Mutex
	known   map[model.EntityID]string
	lookups []model.EntityIDs
	matches []nominatim.Match
}

func (g *fakeGeocoder) resolve(ids model.EntityIDs) []model.PlaceInfo {
	var out []model.PlaceInfo
	for _, id := range ids {
		if name, ok := g.known[id]; ok {
			out = append(out, model.PlaceInfo{ID: id, Name: name, Country: "Testland"})
		}
	}
	return out
}

func (g *fakeGeocoder) LookupForCities(_ context.Context, ids model.EntityIDs, match nominatim.Match) []model.PlaceInfo {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.lookups = append(g.lookups, append(model.EntityIDs(nil), ids...))
	g.matches = append(g.matches, match)
	return g.resolve(ids)
}

func (g *fakeGeocoder) Lookup(_ context.Context, ids model.EntityIDs) []model.PlaceInfo {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.lookups = append(g.lookups, append(model.EntityIDs(nil), ids...))
	return g.resolve(ids)
}

func (g *fakeGeocoder) calls() []model.EntityIDs {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]model.EntityIDs(nil), g.lookups...)
}

type recordingSink struct {
	mu      sync.Mutex
	batches map[string]int
}

func (s *recordingSink) EmitPlaces(_ context.Context, kind string, places []model.PlaceInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.batches == nil {
		s.batches = map[string]int{}
	}
	s.batches[kind] += len(places)
}

func relationsBody(ids ...int64) string {
	body := `{"elements":[`
	for i, id := range ids {
		if i > 0 {
			body += ","
		}
		body += `{"type":"relation","id":` + strconv.FormatInt(id, 10) + `}`
	}
	return body + `]}`
}

func newEngine(overpass, weather *transporttest.Fake, g *fakeGeocoder, sink PlaceSink) *Engine {
	return New(discard, Options{
		Overpass: overpass,
		Geocoder: g,
		Weather:  weather,
		Sink:     sink,
	})
}

func names(ps []model.PlaceInfo) []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.Name)
	}
	return out
}
