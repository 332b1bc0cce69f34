package sessions

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/mohammed-shakir/geosearch/internal/core/model"
	"github.com/mohammed-shakir/geosearch/internal/core/transport/transporttest"
	"github.com/mohammed-shakir/geosearch/internal/nominatim"
	"github.com/mohammed-shakir/geosearch/internal/search"
)

type staticGeocoder struct{}

func (staticGeocoder) LookupForCities(context.Context, model.EntityIDs, nominatim.Match) []model.PlaceInfo {
	return nil
}

func (staticGeocoder) Lookup(_ context.Context, ids model.EntityIDs) []model.PlaceInfo {
	out := make([]model.PlaceInfo, 0, len(ids))
	for _, id := range ids {
		out = append(out, model.PlaceInfo{ID: id, Name: "r" + strconv.FormatInt(int64(id), 10)})
	}
	return out
}

var (
	bbox  = model.BBox{South: 10, West: 10, North: 10.5, East: 10.5}
	prefs = model.RegionPreferences{Features: model.FeatureAirports}
)

func newRegistry(t *testing.T, maxSessions int, ttl time.Duration) *Registry {
	t.Helper()
	fake := &transporttest.Fake{Respond: func(string, string) string {
		return `{"elements":[{"type":"relation","id":7},{"type":"relation","id":8}]}`
	}}
	engine := search.New(slog.New(slog.NewTextHandler(io.Discard, nil)), search.Options{
		Overpass: fake,
		Geocoder: staticGeocoder{},
	})
	r := New(slog.New(slog.NewTextHandler(io.Discard, nil)), engine, maxSessions, ttl)
	t.Cleanup(r.Close)
	return r
}

func TestRegistry_CreateStepDelete(t *testing.T) {
	r := newRegistry(t, 8, time.Minute)
	ctx := context.Background()

	id := r.Create(ctx)
	if _, err := uuid.Parse(id); err != nil {
		t.Fatalf("session id %q is not a uuid: %v", id, err)
	}

	got, err := r.Step(ctx, id, bbox, prefs)
	if err != nil || len(got) != 2 {
		t.Fatalf("first step: %v err=%v", got, err)
	}
	got, err = r.Step(ctx, id, bbox, prefs)
	if err != nil || len(got) != 0 {
		t.Fatalf("second step must be empty: %v err=%v", got, err)
	}

	if err := r.Delete(ctx, id); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := r.Step(ctx, id, bbox, prefs); !errors.Is(err, ErrNotFound) {
		t.Fatalf("step after delete: err=%v", err)
	}
	if err := r.Delete(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Fatalf("double delete: err=%v", err)
	}
}

func TestRegistry_UnknownSession(t *testing.T) {
	r := newRegistry(t, 8, time.Minute)
	if _, err := r.Step(context.Background(), "nope", bbox, prefs); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err=%v want ErrNotFound", err)
	}
}

func TestRegistry_EvictsOldestBeyondCapacity(t *testing.T) {
	r := newRegistry(t, 2, time.Minute)
	ctx := context.Background()

	first := r.Create(ctx)
	r.Create(ctx)
	r.Create(ctx)

	if r.Len() != 2 {
		t.Fatalf("len=%d want 2", r.Len())
	}
	if _, err := r.Step(ctx, first, bbox, prefs); !errors.Is(err, ErrNotFound) {
		t.Fatalf("oldest session should be evicted, err=%v", err)
	}
}

func TestRegistry_ExpiresIdleSessions(t *testing.T) {
	r := newRegistry(t, 8, 50*time.Millisecond)
	id := r.Create(context.Background())

	time.Sleep(120 * time.Millisecond)
	if _, err := r.Step(context.Background(), id, bbox, prefs); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expired session still reachable, err=%v", err)
	}
}

func TestRegistry_ConcurrentStepsReportEachRegionOnce(t *testing.T) {
	r := newRegistry(t, 8, time.Minute)
	ctx := context.Background()
	id := r.Create(ctx)

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		total int
	)
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := r.Step(ctx, id, bbox, prefs)
			if err != nil {
				t.Errorf("step: %v", err)
				return
			}
			mu.Lock()
			total += len(got)
			mu.Unlock()
		}()
	}
	wg.Wait()
	if total != 2 {
		t.Fatalf("regions reported %d times, want 2", total)
	}
}
