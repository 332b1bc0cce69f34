package overpass

import (
	"context"

	"github.com/mohammed-shakir/geosearch/internal/core/model"
	"github.com/mohammed-shakir/geosearch/internal/core/transport"
)

func LoadRelationIDsByName(ctx context.Context, t transport.Interface, name string) model.EntityIDs {
	return ExtractRelationIDs(t.Post(ctx, ComposeCityByName(name)))
}

func LoadRelationIDsByPosition(ctx context.Context, t transport.Interface, lat, lon float64) model.EntityIDs {
	return ExtractRelationIDs(t.Post(ctx, ComposeCityByPosition(lat, lon)))
}

func LoadTourismNodes(ctx context.Context, t transport.Interface, relationID model.EntityID) []model.Node {
	return ExtractNodes(t.Post(ctx, ComposeDetail(relationID)))
}
