package router

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/mohammed-shakir/geosearch/internal/core/model"
)

const maxStepBody = 64 << 10

type CityRequest struct {
	Name    string
	Lat     float64
	Lon     float64
	Details bool
}

type WeatherRequest struct {
	Lat   float64
	Lon   float64
	Range model.DateRange
	Years int
}

// ParseCityRequest reads either name or lat+lon; name wins when both are set.
func ParseCityRequest(r *http.Request) (CityRequest, error) {
	q := r.URL.Query()
	var req CityRequest

	details, err := parseBool(q.Get("details"))
	if err != nil {
		return CityRequest{}, fmt.Errorf("invalid details: %w", err)
	}
	req.Details = details

	if name := strings.TrimSpace(q.Get("name")); name != "" {
		req.Name = name
		return req, nil
	}
	if q.Get("lat") == "" || q.Get("lon") == "" {
		return CityRequest{}, errors.New("missing required parameter: name or lat and lon")
	}
	if req.Lat, req.Lon, err = parseLatLon(q.Get("lat"), q.Get("lon")); err != nil {
		return CityRequest{}, err
	}
	return req, nil
}

type stepBody struct {
	BBox *struct {
		South *float64 `json:"south"`
		West  *float64 `json:"west"`
		North *float64 `json:"north"`
		East  *float64 `json:"east"`
	} `json:"bbox"`
	Features   []string          `json:"features"`
	Properties map[string]string `json:"properties"`
}

// ParseStepRequest decodes a region step body. The box corner order is not
// checked; a swapped box simply finds nothing.
func ParseStepRequest(r *http.Request) (model.BBox, model.RegionPreferences, error) {
	var body stepBody
	dec := json.NewDecoder(io.LimitReader(r.Body, maxStepBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		return model.BBox{}, model.RegionPreferences{}, fmt.Errorf("parse json: %w", err)
	}

	if body.BBox == nil {
		return model.BBox{}, model.RegionPreferences{}, errors.New("missing bbox")
	}
	b := body.BBox
	if b.South == nil || b.West == nil || b.North == nil || b.East == nil {
		return model.BBox{}, model.RegionPreferences{}, errors.New("bbox needs south, west, north and east")
	}
	bbox := model.BBox{South: *b.South, West: *b.West, North: *b.North, East: *b.East}
	if err := checkLat(bbox.South); err != nil {
		return model.BBox{}, model.RegionPreferences{}, err
	}
	if err := checkLat(bbox.North); err != nil {
		return model.BBox{}, model.RegionPreferences{}, err
	}
	if err := checkLon(bbox.West); err != nil {
		return model.BBox{}, model.RegionPreferences{}, err
	}
	if err := checkLon(bbox.East); err != nil {
		return model.BBox{}, model.RegionPreferences{}, err
	}

	prefs := model.RegionPreferences{Properties: body.Properties}
	for _, name := range body.Features {
		f, err := model.ParseFeature(name)
		if err != nil {
			return model.BBox{}, model.RegionPreferences{}, err
		}
		prefs.Features |= f
	}
	return bbox, prefs, nil
}

// ParseWeatherRequest reads lat, lon, start and end (YYYY-MM-DD) and an
// optional years count, default 1.
func ParseWeatherRequest(r *http.Request) (WeatherRequest, error) {
	q := r.URL.Query()
	lat, lon, err := parseLatLon(q.Get("lat"), q.Get("lon"))
	if err != nil {
		return WeatherRequest{}, err
	}
	start, err := model.ParseDate(q.Get("start"))
	if err != nil {
		return WeatherRequest{}, fmt.Errorf("invalid start: %w", err)
	}
	end, err := model.ParseDate(q.Get("end"))
	if err != nil {
		return WeatherRequest{}, fmt.Errorf("invalid end: %w", err)
	}
	if end.Before(start) {
		return WeatherRequest{}, errors.New("end must not be before start")
	}

	years := 1
	if v := strings.TrimSpace(q.Get("years")); v != "" {
		if years, err = strconv.Atoi(v); err != nil || years < 1 {
			return WeatherRequest{}, fmt.Errorf("invalid years %q: must be a positive integer", v)
		}
	}
	return WeatherRequest{
		Lat:   lat,
		Lon:   lon,
		Range: model.DateRange{Start: start, End: end},
		Years: years,
	}, nil
}

func parseLatLon(rawLat, rawLon string) (float64, float64, error) {
	lat, err := parseFloat(rawLat)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid lat: %w", err)
	}
	lon, err := parseFloat(rawLon)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid lon: %w", err)
	}
	if err := checkLat(lat); err != nil {
		return 0, 0, err
	}
	if err := checkLon(lon); err != nil {
		return 0, 0, err
	}
	return lat, lon, nil
}

func checkLat(v float64) error {
	if !(v >= -90 && v <= 90) {
		return errors.New("latitude must be in [-90,90]")
	}
	return nil
}

func checkLon(v float64) error {
	if !(v >= -180 && v <= 180) {
		return errors.New("longitude must be in [-180,180]")
	}
	return nil
}

func parseFloat(v string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0, fmt.Errorf("parse float: %w", err)
	}
	return f, nil
}

func parseBool(v string) (bool, error) {
	if strings.TrimSpace(v) == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return false, fmt.Errorf("parse bool: %w", err)
	}
	return b, nil
}
