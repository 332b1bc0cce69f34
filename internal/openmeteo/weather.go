// Package openmeteo loads daily historical temperatures from the Open-Meteo
// archive API.
package openmeteo

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"

	"github.com/mohammed-shakir/geosearch/internal/core/model"
	"github.com/mohammed-shakir/geosearch/internal/core/transport"
)

const dailyParams = "daily=temperature_2m_max,temperature_2m_min"

// FormatRequest builds the archive query string for one date range.
func FormatRequest(lat, lon float64, r model.DateRange) string {
	return "latitude=" + strconv.FormatFloat(lat, 'f', -1, 64) +
		"&longitude=" + strconv.FormatFloat(lon, 'f', -1, 64) +
		"&start_date=" + r.Start.Format(model.DateLayout) +
		"&end_date=" + r.End.Format(model.DateLayout) +
		"&" + dailyParams
}

type dailyBlock struct {
	Time    []string   `json:"time"`
	TempMax []*float64 `json:"temperature_2m_max"`
	TempMin []*float64 `json:"temperature_2m_min"`
}

type response struct {
	Daily *dailyBlock `json:"daily"`
}

// ParseResponse reads the parallel daily arrays. A malformed document or
// arrays of different lengths yield an empty result; days with a missing
// temperature or an unparsable date are skipped.
func ParseResponse(logger *slog.Logger, raw string) []model.WeatherInfo {
	var resp response
	if err := json.Unmarshal([]byte(raw), &resp); err != nil || resp.Daily == nil {
		logger.Error("historical weather response is malformed", "err", err)
		return nil
	}
	d := resp.Daily
	n := len(d.Time)
	if len(d.TempMax) != n || len(d.TempMin) != n {
		logger.Error("historical weather response is malformed",
			"time", n, "temperature_max", len(d.TempMax), "temperature_min", len(d.TempMin))
		return nil
	}

	out := make([]model.WeatherInfo, 0, n)
	for i := range n {
		if d.TempMax[i] == nil || d.TempMin[i] == nil {
			continue
		}
		day, err := model.ParseDate(d.Time[i])
		if err != nil {
			continue
		}
		hi, lo := *d.TempMax[i], *d.TempMin[i]
		out = append(out, model.WeatherInfo{
			Date:    day,
			TempMax: hi,
			TempMin: lo,
			TempAvg: (hi + lo) / 2,
		})
	}
	return out
}

// LoadHistoricalWeather issues one archive request; an empty response is no data.
func LoadHistoricalWeather(ctx context.Context, logger *slog.Logger, t transport.Interface, lat, lon float64, r model.DateRange) []model.WeatherInfo {
	raw := t.Get(ctx, FormatRequest(lat, lon, r))
	if raw == "" {
		return nil
	}
	return ParseResponse(logger, raw)
}
