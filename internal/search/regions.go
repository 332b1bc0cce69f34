package search

import (
	"context"
	"slices"

	"github.com/mohammed-shakir/geosearch/internal/core/model"
	"github.com/mohammed-shakir/geosearch/internal/core/observability"
	"github.com/mohammed-shakir/geosearch/internal/geo"
	mylog "github.com/mohammed-shakir/geosearch/internal/logger"
	"github.com/mohammed-shakir/geosearch/internal/overpass"
	"github.com/mohammed-shakir/geosearch/internal/processed"
)

// RegionSession sweeps successive bounding boxes and reports each
// administrative region at most once over its lifetime.
//
// A RegionSession is not safe for concurrent use; callers serialize Step.
type RegionSession struct {
	id  string
	e   *Engine
	set processed.Set
}

// StartFindRegions opens a session with an empty processed set.
func (e *Engine) StartFindRegions(sessionID string) *RegionSession {
	return &RegionSession{
		id:  sessionID,
		e:   e,
		set: e.processed.NewSet(sessionID),
	}
}

func (s *RegionSession) ID() string { return s.id }

// Step returns the regions in bbox matching every enabled feature of prefs
// that earlier steps of this session have not reported yet.
//
// Oversized boxes and empty preference sets are rejected before any upstream
// call. Ids that fail to resolve are still marked processed.
func (s *RegionSession) Step(ctx context.Context, bbox model.BBox, prefs model.RegionPreferences) []model.PlaceInfo {
	ctx = mylog.WithSessionID(ctx, s.id)
	log := s.e.logger

	if !geo.WithinSpan(bbox, s.e.maxSpanKm) {
		w, h := geo.DimensionsKm(bbox)
		log.ErrorContext(ctx, "bounding box too large",
			"bbox", bbox.String(),
			"width_km", w,
			"height_km", h,
			"max_km", s.e.maxSpanKm)
		observability.IncSearchRejection("bbox_too_large")
		return nil
	}

	q := overpass.ComposeRegions(bbox, prefs)
	if q == "" {
		log.WarnContext(ctx, "no region feature selected", "features", prefs.Features.String())
		observability.IncSearchRejection("empty_query")
		return nil
	}

	ids := uniqueSorted(overpass.ExtractRelationIDs(s.e.overpass.Post(ctx, q)))
	if len(ids) == 0 {
		log.DebugContext(ctx, "no regions in bbox", "bbox", bbox.String())
		return nil
	}

	unseen, err := s.set.Unseen(ctx, ids)
	if err != nil {
		log.ErrorContext(ctx, "processed set read failed", "err", err)
		return nil
	}
	if len(unseen) == 0 {
		log.DebugContext(ctx, "all regions already reported", "found", len(ids))
		return nil
	}

	places := s.e.geocoder.Lookup(ctx, unseen)
	if err := s.set.Add(ctx, unseen); err != nil {
		log.ErrorContext(ctx, "processed set write failed", "err", err)
		return nil
	}

	log.DebugContext(ctx, "region step done",
		"found", len(ids),
		"unseen", len(unseen),
		"resolved", len(places))
	observability.AddSearchResults("region", len(places))
	s.e.emit(ctx, "region", places)
	return places
}

// Processed returns how many distinct regions this session has handled.
func (s *RegionSession) Processed(ctx context.Context) (int, error) {
	return s.set.Len(ctx)
}

// Close releases the session's processed set.
func (s *RegionSession) Close(ctx context.Context) error {
	return s.set.Close(ctx)
}

func uniqueSorted(ids model.EntityIDs) model.EntityIDs {
	if len(ids) == 0 {
		return nil
	}
	out := slices.Clone(ids)
	slices.Sort(out)
	return slices.Compact(out)
}
