package sweep

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/mohammed-shakir/geosearch/internal/core/model"
	"github.com/mohammed-shakir/geosearch/internal/geo"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestTiles_CoverAreaWithSmallBoxes(t *testing.T) {
	area := model.BBox{South: 45, West: 5, North: 48, East: 10}
	tiles, err := Tiles(area, 3)
	if err != nil {
		t.Fatalf("Tiles: %v", err)
	}
	if len(tiles) < 4 {
		t.Fatalf("want several tiles, got %d", len(tiles))
	}

	seen := map[string]bool{}
	for i, tl := range tiles {
		if seen[tl.Cell] {
			t.Fatalf("duplicate cell %s", tl.Cell)
		}
		seen[tl.Cell] = true
		if i > 0 && tiles[i-1].Cell > tl.Cell {
			t.Fatalf("tiles not sorted at %d", i)
		}
		if tl.BBox.North <= tl.BBox.South || tl.BBox.East <= tl.BBox.West {
			t.Fatalf("degenerate tile bbox %+v", tl.BBox)
		}
		if !geo.WithinSpan(tl.BBox, 2000) {
			t.Fatalf("tile %s too large for one step: %+v", tl.Cell, tl.BBox)
		}
	}
}

func TestTiles_TinyAreaStillYieldsTile(t *testing.T) {
	tiles, err := Tiles(model.BBox{South: 59.33, West: 18.06, North: 59.331, East: 18.061}, 2)
	if err != nil {
		t.Fatalf("Tiles: %v", err)
	}
	if len(tiles) == 0 || len(tiles) > 5 {
		t.Fatalf("want the cells holding the area, got %d", len(tiles))
	}
}

func TestTiles_RejectsBadInput(t *testing.T) {
	if _, err := Tiles(model.BBox{South: 0, West: 0, North: 1, East: 1}, 16); err == nil {
		t.Fatal("expected resolution error")
	}
	if _, err := Tiles(model.BBox{South: 1, West: 0, North: 0, East: 1}, 3); err == nil {
		t.Fatal("expected ordering error")
	}
}

type countingStepper struct {
	calls int
	give  map[int][]model.PlaceInfo
}

func (s *countingStepper) Step(context.Context, model.BBox, model.RegionPreferences) []model.PlaceInfo {
	s.calls++
	return s.give[s.calls]
}

func TestRun_ReportsNonEmptyTiles(t *testing.T) {
	tiles := []Tile{{Cell: "a"}, {Cell: "b"}, {Cell: "c"}}
	s := &countingStepper{give: map[int][]model.PlaceInfo{
		1: {{ID: 1}},
		3: {{ID: 2}, {ID: 3}},
	}}

	var cells []string
	n := Run(context.Background(), discard, s, tiles, model.RegionPreferences{}, func(tl Tile, _ []model.PlaceInfo) {
		cells = append(cells, tl.Cell)
	})
	if n != 3 || s.calls != 3 {
		t.Fatalf("total=%d calls=%d", n, s.calls)
	}
	if len(cells) != 2 || cells[0] != "a" || cells[1] != "c" {
		t.Fatalf("found callbacks for %v", cells)
	}
}

func TestRun_StopsWhenContextDone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := &countingStepper{}
	if n := Run(ctx, discard, s, []Tile{{Cell: "a"}}, model.RegionPreferences{}, nil); n != 0 || s.calls != 0 {
		t.Fatalf("total=%d calls=%d", n, s.calls)
	}
}
