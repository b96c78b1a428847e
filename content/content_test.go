package content

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpupo63/portfolio-site/backend"
	"github.com/rpupo63/portfolio-site/models"
	"github.com/rpupo63/portfolio-site/registry"
)

type brokenRows struct{ backend.Rows }

func (brokenRows) Select(context.Context, string, backend.Query, any) error {
	return errors.New("connection refused")
}

func (brokenRows) Count(context.Context, string) (int64, error) {
	return 0, errors.New("connection refused")
}

type countingRows struct {
	backend.Rows
	selects atomic.Int32
}

func (c *countingRows) Select(ctx context.Context, collection string, q backend.Query, dest any) error {
	c.selects.Add(1)
	return c.Rows.Select(ctx, collection, q, dest)
}

// cancellableRows fails like a real driver once the caller's context is done.
type cancellableRows struct{ backend.Rows }

func (c cancellableRows) Select(ctx context.Context, collection string, q backend.Query, dest any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return c.Rows.Select(ctx, collection, q, dest)
}

func seed(t *testing.T, m *backend.Memory) {
	t.Helper()
	ctx := context.Background()
	for _, order := range []int{2, 3, 1} {
		require.NoError(t, m.Insert(ctx, models.CollectionProjects, &models.Project{Title: "p", OrderIndex: order}))
		require.NoError(t, m.Insert(ctx, models.CollectionExperiences, &models.Experience{Title: "e", OrderIndex: order}))
	}
}

func TestLoadOrdersByOrderIndex(t *testing.T) {
	m := backend.NewMemory("portfolio")
	seed(t, m)
	l := NewLoader(m)

	records := l.Load(context.Background(), registry.KindProject)
	require.Len(t, records, 3)
	for i, r := range records {
		assert.Equal(t, i+1, r.OrderIndex())
		assert.Equal(t, registry.KindProject, r.Kind)
	}

	assert.Len(t, l.Load(context.Background(), registry.KindExperience), 3)
	assert.Empty(t, l.Load(context.Background(), registry.KindTechnology))
}

func TestLoadFailureLooksEmpty(t *testing.T) {
	l := NewLoader(brokenRows{})

	records := l.Load(context.Background(), registry.KindProject)
	assert.NotNil(t, records)
	assert.Empty(t, records)
	assert.Empty(t, l.Messages(context.Background()))

	a := l.Analytics(context.Background())
	assert.Zero(t, a.TotalViews)
	assert.Equal(t, []RecentView{}, a.RecentViews)
}

func TestMessagesNewestFirst(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	m := backend.NewMemory("portfolio")
	for i, subject := range []string{"old", "new", "mid"} {
		offset := []time.Duration{0, 2 * time.Hour, time.Hour}[i]
		require.NoError(t, m.Insert(ctx, models.CollectionMessages, &models.Message{Subject: subject, CreatedAt: base.Add(offset)}))
	}

	got := NewLoader(m).Messages(ctx)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"new", "mid", "old"}, []string{got[0].Subject, got[1].Subject, got[2].Subject})
}

func TestAnalytics(t *testing.T) {
	ctx := context.Background()

	empty := NewLoader(backend.NewMemory("portfolio")).Analytics(ctx)
	assert.Equal(t, Analytics{RecentViews: []RecentView{}}, empty)

	m := backend.NewMemory("portfolio")
	base := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 15; i++ {
		require.NoError(t, m.Insert(ctx, models.CollectionPageViews, &models.PageView{PagePath: "/", CreatedAt: base.Add(time.Duration(i) * time.Minute)}))
	}

	a := NewLoader(m).Analytics(ctx)
	assert.EqualValues(t, 15, a.TotalViews)
	assert.Zero(t, a.UniqueVisitors)
	require.Len(t, a.RecentViews, 10)
	assert.Equal(t, base.Add(14*time.Minute), a.RecentViews[0].CreatedAt)
	assert.Equal(t, base.Add(5*time.Minute), a.RecentViews[9].CreatedAt)
}

func TestSiteCacheStalenessWindow(t *testing.T) {
	m := backend.NewMemory("portfolio")
	seed(t, m)
	rows := &countingRows{Rows: m}

	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	cache := NewSiteCache(NewLoader(rows), time.Minute)
	cache.now = func() time.Time { return now }

	site := cache.Get(context.Background())
	assert.Len(t, site.Projects, 3)
	assert.EqualValues(t, 3, rows.selects.Load())

	require.NoError(t, m.Insert(context.Background(), models.CollectionProjects, &models.Project{Title: "late"}))

	now = now.Add(59 * time.Second)
	assert.Len(t, cache.Get(context.Background()).Projects, 3)
	assert.EqualValues(t, 3, rows.selects.Load())

	now = now.Add(time.Second)
	assert.Len(t, cache.Get(context.Background()).Projects, 4)
	assert.EqualValues(t, 6, rows.selects.Load())

	cache.Invalidate()
	cache.Get(context.Background())
	assert.EqualValues(t, 9, rows.selects.Load())
}

func TestSiteCacheConcurrentGets(t *testing.T) {
	m := backend.NewMemory("portfolio")
	seed(t, m)
	cache := NewSiteCache(NewLoader(m), time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Len(t, cache.Get(context.Background()).Experiences, 3)
		}()
	}
	wg.Wait()
}

func TestSiteCacheRefreshOutlivesCancelledRequest(t *testing.T) {
	m := backend.NewMemory("portfolio")
	seed(t, m)
	cache := NewSiteCache(NewLoader(cancellableRows{Rows: m}), time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Len(t, cache.Get(ctx).Projects, 3)
	assert.Len(t, cache.Get(context.Background()).Projects, 3)
}
