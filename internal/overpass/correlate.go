package overpass

import (
	"encoding/json"

	"github.com/mohammed-shakir/geosearch/internal/core/model"
)

const (
	typeNode     = "node"
	typeRelation = "relation"
)

type element struct {
	Type string         `json:"type"`
	ID   *int64         `json:"id"`
	Lat  float64        `json:"lat"`
	Lon  float64        `json:"lon"`
	Tags map[string]any `json:"tags"`
}

type response struct {
	Elements []element `json:"elements"`
}

// decode returns nil for empty or malformed documents.
func decode(raw string) []element {
	if raw == "" {
		return nil
	}
	var r response
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		return nil
	}
	return r.Elements
}

// ExtractRelationIDs returns the ids of relation elements in document order.
// Malformed input yields an empty result.
func ExtractRelationIDs(raw string) model.EntityIDs {
	var out model.EntityIDs
	for _, e := range decode(raw) {
		if e.Type == typeRelation && e.ID != nil {
			out = append(out, model.EntityID(*e.ID))
		}
	}
	return out
}

// ExtractNodes returns node elements with their string tags copied as is.
// Malformed input yields an empty result.
func ExtractNodes(raw string) []model.Node {
	var out []model.Node
	for _, e := range decode(raw) {
		if e.Type != typeNode {
			continue
		}
		n := model.Node{Lat: e.Lat, Lon: e.Lon, Tags: make(map[string]string, len(e.Tags))}
		for k, v := range e.Tags {
			if s, ok := v.(string); ok {
				n.Tags[k] = s
			}
		}
		out = append(out, n)
	}
	return out
}
