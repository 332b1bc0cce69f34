// Package router holds the HTTP handlers of the search service.
package router

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mohammed-shakir/geosearch/internal/core/model"
	"github.com/mohammed-shakir/geosearch/internal/core/observability"
	"github.com/mohammed-shakir/geosearch/internal/sessions"
)

// Searcher runs the one-shot searches.
type Searcher interface {
	FindCitiesByName(ctx context.Context, name string, includeDetails bool) []model.PlaceInfo
	FindCitiesByPosition(ctx context.Context, lat, lon float64, includeDetails bool) []model.PlaceInfo
	HistoricalWeather(ctx context.Context, lat, lon float64, r model.DateRange, years int) []model.WeatherWindow
}

// Sessions holds the incremental region searches.
type Sessions interface {
	Create(ctx context.Context) string
	Step(ctx context.Context, id string, bbox model.BBox, prefs model.RegionPreferences) ([]model.PlaceInfo, error)
	Delete(ctx context.Context, id string) error
}

type placesResponse struct {
	Places []model.PlaceInfo `json:"places"`
}

type sessionResponse struct {
	SessionID string `json:"session_id"`
}

type weatherResponse struct {
	Windows []model.WeatherWindow `json:"windows"`
}

type statusWriter struct {
	http.ResponseWriter
	code int
}

func (w *statusWriter) WriteHeader(code int) {
	w.code = code
	w.ResponseWriter.WriteHeader(code)
}

// instrument records request count and latency under a fixed route label.
func instrument(route string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, code: http.StatusOK}
		h(sw, r)
		observability.ObserveHTTP(r.Method, route, sw.code, time.Since(start).Seconds())
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func badRequest(logger *slog.Logger, w http.ResponseWriter, r *http.Request, err error) {
	logger.DebugContext(r.Context(), "bad request", "path", r.URL.Path, "err", err)
	http.Error(w, err.Error(), http.StatusBadRequest)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// HandleCities answers GET /cities?name=..|lat=..&lon=..[&details=true].
func HandleCities(logger *slog.Logger, s Searcher) http.HandlerFunc {
	return instrument("/cities", func(w http.ResponseWriter, r *http.Request) {
		req, err := ParseCityRequest(r)
		if err != nil {
			badRequest(logger, w, r, err)
			return
		}
		var places []model.PlaceInfo
		if req.Name != "" {
			places = s.FindCitiesByName(r.Context(), req.Name, req.Details)
		} else {
			places = s.FindCitiesByPosition(r.Context(), req.Lat, req.Lon, req.Details)
		}
		writeJSON(w, http.StatusOK, placesResponse{Places: nonNil(places)})
	})
}

// HandleCreateSession answers POST /regions/sessions.
func HandleCreateSession(_ *slog.Logger, reg Sessions) http.HandlerFunc {
	return instrument("/regions/sessions", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusCreated, sessionResponse{SessionID: reg.Create(r.Context())})
	})
}

// HandleStep answers POST /regions/sessions/{id}/steps.
func HandleStep(logger *slog.Logger, reg Sessions) http.HandlerFunc {
	return instrument("/regions/sessions/{id}/steps", func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		bbox, prefs, err := ParseStepRequest(r)
		if err != nil {
			badRequest(logger, w, r, err)
			return
		}
		places, err := reg.Step(r.Context(), id, bbox, prefs)
		if errors.Is(err, sessions.ErrNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		if err != nil {
			logger.ErrorContext(r.Context(), "region step failed", "session_id", id, "err", err)
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, placesResponse{Places: nonNil(places)})
	})
}

// HandleDeleteSession answers DELETE /regions/sessions/{id}.
func HandleDeleteSession(_ *slog.Logger, reg Sessions) http.HandlerFunc {
	return instrument("/regions/sessions/{id}", func(w http.ResponseWriter, r *http.Request) {
		if err := reg.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
}

// HandleWeather answers GET /weather?lat=..&lon=..&start=..&end=..[&years=N].
func HandleWeather(logger *slog.Logger, s Searcher) http.HandlerFunc {
	return instrument("/weather", func(w http.ResponseWriter, r *http.Request) {
		req, err := ParseWeatherRequest(r)
		if err != nil {
			badRequest(logger, w, r, err)
			return
		}
		windows := s.HistoricalWeather(r.Context(), req.Lat, req.Lon, req.Range, req.Years)
		writeJSON(w, http.StatusOK, weatherResponse{Windows: nonNil(windows)})
	})
}
