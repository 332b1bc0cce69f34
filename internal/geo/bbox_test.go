package geo

import (
	"math"
	"testing"

	"github.com/mohammed-shakir/geosearch/internal/core/model"
)

func approx(a, b, tol float64) bool { return math.Abs(a-b) <= tol }

func TestDimensionsKm_OneDegreeAtEquator(t *testing.T) {
	w, h := DimensionsKm(model.BBox{South: 0, West: 0, North: 1, East: 1})
	if !approx(w, 111.19, 0.1) || !approx(h, 111.19, 0.1) {
		t.Fatalf("w=%.2f h=%.2f want ~111.19", w, h)
	}
}

func TestDimensionsKm_WidthShrinksWithLatitude(t *testing.T) {
	w, _ := DimensionsKm(model.BBox{South: 60, West: 10, North: 61, East: 11})
	// cos(60deg) = 0.5
	if !approx(w, 55.6, 0.1) {
		t.Fatalf("w=%.2f want ~55.6", w)
	}
	ws, _ := DimensionsKm(model.BBox{South: -61, West: 10, North: -60, East: 11})
	if !approx(ws, w, 1e-9) {
		t.Fatalf("southern hemisphere width %.4f != %.4f", ws, w)
	}
}

func TestDimensionsKm_AntimeridianCrossing(t *testing.T) {
	w, _ := DimensionsKm(model.BBox{South: 0, West: 179, North: 1, East: -179})
	if !approx(w, 2*111.19, 0.2) {
		t.Fatalf("w=%.2f want ~222.4", w)
	}
}

func TestWithinSpan(t *testing.T) {
	cases := []struct {
		name string
		bb   model.BBox
		want bool
	}{
		{"small", model.BBox{South: 10, West: 10, North: 10.5, East: 10.5}, true},
		{"tall", model.BBox{South: 0, West: 10, North: 30, East: 11}, false},
		{"wide", model.BBox{South: 0, West: 0, North: 1, East: 25}, false},
		{"wide but polar", model.BBox{South: 80, West: 0, North: 81, East: 25}, true},
	}
	for _, tc := range cases {
		if got := WithinSpan(tc.bb, 2000); got != tc.want {
			t.Errorf("%s: WithinSpan=%v want %v", tc.name, got, tc.want)
		}
	}
}
