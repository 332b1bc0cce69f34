// Package sweep splits an area into h3 cells and walks them through one region
// session, so areas wider than a single step allows can still be searched.
package sweep

import (
	"errors"
	"fmt"
	"math"
	"sort"

	h3 "github.com/uber/h3-go/v4"

	"github.com/mohammed-shakir/geosearch/internal/core/model"
)

// Tile is one h3 cell and the bounding box enclosing its boundary.
type Tile struct {
	Cell string
	BBox model.BBox
}

func validateRes(res int) error {
	if res < 0 || res > 15 {
		return fmt.Errorf("invalid H3 resolution %d (must be 0..15)", res)
	}
	return nil
}

// Tiles covers area with cells at res, sorted by cell index. Cells whose
// centre lies inside the area are included, plus the cells holding the
// corners and the centre so a small area still yields a tile.
func Tiles(area model.BBox, res int) ([]Tile, error) {
	if err := validateRes(res); err != nil {
		return nil, err
	}
	if area.North <= area.South || area.East <= area.West {
		return nil, errors.New("area must satisfy north>south and east>west")
	}

	outer := h3.GeoLoop{
		{Lat: area.South, Lng: area.West},
		{Lat: area.South, Lng: area.East},
		{Lat: area.North, Lng: area.East},
		{Lat: area.North, Lng: area.West},
	}
	cells, err := h3.PolygonToCells(h3.GeoPolygon{GeoLoop: outer}, res)
	if err != nil {
		return nil, fmt.Errorf("h3 polyfill: %w", err)
	}

	extra := append([]h3.LatLng(nil), outer...)
	extra = append(extra, h3.LatLng{
		Lat: (area.South + area.North) / 2,
		Lng: (area.West + area.East) / 2,
	})
	for _, ll := range extra {
		c, err := h3.LatLngToCell(ll, res)
		if err != nil {
			return nil, fmt.Errorf("h3 cell for %v: %w", ll, err)
		}
		cells = append(cells, c)
	}

	seen := make(map[h3.Cell]struct{}, len(cells))
	out := make([]Tile, 0, len(cells))
	for _, c := range cells {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		bb, err := cellBBox(c)
		if err != nil {
			return nil, err
		}
		out = append(out, Tile{Cell: c.String(), BBox: bb})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Cell < out[j].Cell })
	return out, nil
}

func cellBBox(c h3.Cell) (model.BBox, error) {
	boundary, err := h3.CellToBoundary(c)
	if err != nil {
		return model.BBox{}, fmt.Errorf("h3 boundary of %s: %w", c, err)
	}
	bb := model.BBox{South: math.Inf(1), West: math.Inf(1), North: math.Inf(-1), East: math.Inf(-1)}
	for _, ll := range boundary {
		bb.South = math.Min(bb.South, ll.Lat)
		bb.North = math.Max(bb.North, ll.Lat)
		bb.West = math.Min(bb.West, ll.Lng)
		bb.East = math.Max(bb.East, ll.Lng)
	}
	return bb, nil
}
