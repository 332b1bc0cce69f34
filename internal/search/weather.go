package search

import (
	"context"

	"github.com/mohammed-shakir/geosearch/internal/core/model"
	"github.com/mohammed-shakir/geosearch/internal/core/observability"
	"github.com/mohammed-shakir/geosearch/internal/daterange"
	"github.com/mohammed-shakir/geosearch/internal/openmeteo"
)

// HistoricalWeather loads the daily temperatures at lat,lon for the last
// years occurrences of r that already lie in the past. Years is clamped to
// [1, WeatherMaxYears]; windows the archive cannot serve have no days.
func (e *Engine) HistoricalWeather(ctx context.Context, lat, lon float64, r model.DateRange, years int) []model.WeatherWindow {
	years = max(1, min(years, e.maxYears))

	windows := daterange.Roll(r, e.now(), years)
	out := make([]model.WeatherWindow, 0, len(windows))
	total := 0
	for _, w := range windows {
		days := openmeteo.LoadHistoricalWeather(ctx, e.logger, e.weather, lat, lon, w)
		if days == nil {
			days = []model.WeatherInfo{}
		}
		total += len(days)
		out = append(out, model.WeatherWindow{Start: w.Start, End: w.End, Days: days})
	}

	observability.AddSearchResults("weather_day", total)
	return out
}
