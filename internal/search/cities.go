package search

import (
	"context"

	"github.com/mohammed-shakir/geosearch/internal/core/model"
	"github.com/mohammed-shakir/geosearch/internal/core/observability"
	"github.com/mohammed-shakir/geosearch/internal/nominatim"
	"github.com/mohammed-shakir/geosearch/internal/overpass"
)

// FindCitiesByName returns every city whose administrative boundary is named
// exactly name.
func (e *Engine) FindCitiesByName(ctx context.Context, name string, includeDetails bool) []model.PlaceInfo {
	ids := overpass.LoadRelationIDsByName(ctx, e.overpass, name)
	if len(ids) == 0 {
		e.logger.InfoContext(ctx, "no cities found", "name", name)
		return nil
	}
	return e.resolveCities(ctx, ids, nominatim.MatchAny, includeDetails)
}

// FindCitiesByPosition returns the most specific city containing lat,lon.
func (e *Engine) FindCitiesByPosition(ctx context.Context, lat, lon float64, includeDetails bool) []model.PlaceInfo {
	ids := overpass.LoadRelationIDsByPosition(ctx, e.overpass, lat, lon)
	if len(ids) == 0 {
		e.logger.InfoContext(ctx, "no cities found", "lat", lat, "lon", lon)
		return nil
	}
	return e.resolveCities(ctx, ids, nominatim.MatchBest, includeDetails)
}

func (e *Engine) resolveCities(ctx context.Context, ids model.EntityIDs, match nominatim.Match, includeDetails bool) []model.PlaceInfo {
	places := e.geocoder.LookupForCities(ctx, ids, match)
	e.logger.DebugContext(ctx, "cities resolved",
		"candidates", len(ids),
		"cities", len(places),
		"match", match.String())

	if includeDetails {
		for i := range places {
			nodes := overpass.LoadTourismNodes(ctx, e.overpass, places[i].ID)
			places[i].Features = featureRecords(nodes)
		}
	}

	observability.AddSearchResults("city", len(places))
	e.emit(ctx, "city", places)
	return places
}

var detailTags = []string{"tourism", "name", "name:en"}

// featureRecords keeps nodes carrying a tourism tag, trimmed to the tags
// callers display.
func featureRecords(nodes []model.Node) []model.FeatureRecord {
	var out []model.FeatureRecord
	for _, n := range nodes {
		if n.Tags["tourism"] == "" {
			continue
		}
		tags := make(map[string]string, len(detailTags))
		for _, k := range detailTags {
			if v, ok := n.Tags[k]; ok {
				tags[k] = v
			}
		}
		out = append(out, model.FeatureRecord{Lat: n.Lat, Lon: n.Lon, Tags: tags})
	}
	return out
}
