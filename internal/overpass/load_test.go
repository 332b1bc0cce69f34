package overpass

import (
	"context"
	"reflect"
	"strings"
	"testing"

	"github.com/mohammed-shakir/geosearch/internal/core/model"
	"github.com/mohammed-shakir/geosearch/internal/core/transport/transporttest"
)

func TestLoaders_PostComposedQueries(t *testing.T) {
	fake := &transporttest.Fake{Respond: func(_, q string) string {
		switch {
		case strings.Contains(q, `"name"="Lyon"`):
			return `{"elements":[{"type":"relation","id":120965}]}`
		case strings.Contains(q, "is_in("):
			return `{"elements":[{"type":"relation","id":1},{"type":"relation","id":2}]}`
		case strings.Contains(q, "rel(120965);"):
			return `{"elements":[{"type":"node","lat":45.76,"lon":4.83,"tags":{"tourism":"museum"}}]}`
		}
		return ""
	}}
	ctx := context.Background()

	if got := LoadRelationIDsByName(ctx, fake, "Lyon"); !reflect.DeepEqual(got, model.EntityIDs{120965}) {
		t.Fatalf("by name: %v", got)
	}
	if got := LoadRelationIDsByPosition(ctx, fake, 45.76, 4.83); !reflect.DeepEqual(got, model.EntityIDs{1, 2}) {
		t.Fatalf("by position: %v", got)
	}
	nodes := LoadTourismNodes(ctx, fake, 120965)
	if len(nodes) != 1 || nodes[0].Tags["tourism"] != "museum" {
		t.Fatalf("tourism nodes: %+v", nodes)
	}

	calls := fake.Calls()
	if len(calls) != 3 {
		t.Fatalf("calls=%d want 3", len(calls))
	}
	for _, c := range calls {
		if c.Method != "POST" {
			t.Fatalf("overpass queries must be posted, got %s", c.Method)
		}
	}
}

func TestLoaders_EmptyResponseIsEmpty(t *testing.T) {
	fake := &transporttest.Fake{}
	if got := LoadRelationIDsByName(context.Background(), fake, "Nowhere"); len(got) != 0 {
		t.Fatalf("want empty, got %v", got)
	}
}
