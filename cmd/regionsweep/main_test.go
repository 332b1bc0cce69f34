package main

import (
	"testing"

	"github.com/mohammed-shakir/geosearch/internal/core/model"
)

func TestParseArea(t *testing.T) {
	got, err := parseArea("45, 5,48,10.5")
	if err != nil {
		t.Fatalf("parseArea: %v", err)
	}
	if got != (model.BBox{South: 45, West: 5, North: 48, East: 10.5}) {
		t.Fatalf("got %+v", got)
	}
	for _, bad := range []string{"", "1,2,3", "a,b,c,d"} {
		if _, err := parseArea(bad); err == nil {
			t.Errorf("parseArea(%q) should fail", bad)
		}
	}
}

func TestParsePrefs(t *testing.T) {
	p, err := parsePrefs("peaks, salt_lakes", "3000")
	if err != nil {
		t.Fatalf("parsePrefs: %v", err)
	}
	if p.Features != model.FeaturePeaks|model.FeatureSaltLakes || p.Properties[model.PropMinPeakHeight] != "3000" {
		t.Fatalf("got %+v", p)
	}
	if _, err := parsePrefs("volcanoes", ""); err == nil {
		t.Fatal("expected unknown feature error")
	}
}
