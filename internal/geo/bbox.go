// Package geo holds small spherical helpers for bounding boxes.
package geo

import (
	"math"

	"github.com/mohammed-shakir/geosearch/internal/core/model"
)

const earthRadiusKm = 6371.0088

// DimensionsKm returns the width and height of b in kilometres.
//
// Width is measured along the parallel closest to the equator, which is the
// widest edge of the box. A box whose east edge is west of its west edge is
// taken to cross the antimeridian.
func DimensionsKm(b model.BBox) (widthKm, heightKm float64) {
	dLon := b.East - b.West
	if dLon < 0 {
		dLon += 360
	}
	dLat := math.Abs(b.North - b.South)

	var lat float64
	if b.South > 0 || b.North < 0 {
		lat = math.Min(math.Abs(b.South), math.Abs(b.North))
	}

	widthKm = earthRadiusKm * math.Cos(lat*math.Pi/180) * dLon * math.Pi / 180
	heightKm = earthRadiusKm * dLat * math.Pi / 180
	return widthKm, heightKm
}

// WithinSpan reports whether both dimensions of b are at most maxKm.
func WithinSpan(b model.BBox, maxKm float64) bool {
	w, h := DimensionsKm(b)
	return w <= maxKm && h <= maxKm
}
