package database

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/rpupo63/portfolio-site/backend"
	"github.com/rpupo63/portfolio-site/errs"
	"github.com/rpupo63/portfolio-site/models"
)

func newTestDatabase(t *testing.T) Database {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	d := New(db)
	require.NoError(t, d.Migrate())
	return d
}

func TestRowRepoInsertAndSelect(t *testing.T) {
	ctx := context.Background()
	repo := newTestDatabase(t).RowRepo()

	for i, title := range []string{"Third", "First", "Second"} {
		order := []int{3, 1, 2}[i]
		p := &models.Project{Title: title, Tags: []string{"go", ""}, Span: models.SpanSingleColumn, OrderIndex: order}
		require.NoError(t, repo.Insert(ctx, models.CollectionProjects, p))
		assert.NotEqual(t, uuid.Nil, p.ID)
		assert.False(t, p.CreatedAt.IsZero())
	}

	var got []models.Project
	require.NoError(t, repo.Select(ctx, models.CollectionProjects, backend.Query{OrderBy: "order_index"}, &got))
	require.Len(t, got, 3)
	assert.Equal(t, "First", got[0].Title)
	assert.Equal(t, "Third", got[2].Title)
	assert.Equal(t, []string{"go", ""}, []string(got[0].Tags))

	var limited []models.Project
	require.NoError(t, repo.Select(ctx, models.CollectionProjects, backend.Query{OrderBy: "order_index", Desc: true, Limit: 1}, &limited))
	require.Len(t, limited, 1)
	assert.Equal(t, "Third", limited[0].Title)

	n, err := repo.Count(ctx, models.CollectionProjects)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)
}

func TestRowRepoUpdateWritesZeroValuesAndKeepsCreatedAt(t *testing.T) {
	ctx := context.Background()
	repo := newTestDatabase(t).RowRepo()

	icon := "https://cdn/go.svg"
	a := &models.Technology{Name: "Go", Category: "Backend", IconURL: &icon, OrderIndex: 1}
	b := &models.Technology{Name: "Rust", Category: "Backend", OrderIndex: 2}
	require.NoError(t, repo.Insert(ctx, models.CollectionTechnologies, a))
	require.NoError(t, repo.Insert(ctx, models.CollectionTechnologies, b))

	draft := *a
	draft.Category = ""
	draft.IconURL = nil
	draft.CreatedAt = time.Time{}
	require.NoError(t, repo.Update(ctx, models.CollectionTechnologies, a.ID.String(), &draft))

	var got []models.Technology
	require.NoError(t, repo.Select(ctx, models.CollectionTechnologies, backend.Query{OrderBy: "order_index"}, &got))
	require.Len(t, got, 2)
	assert.Equal(t, "", got[0].Category)
	assert.Nil(t, got[0].IconURL)
	assert.False(t, got[0].CreatedAt.IsZero())
	assert.Equal(t, "Rust", got[1].Name)
	assert.Equal(t, "Backend", got[1].Category)
}

func TestRowRepoDelete(t *testing.T) {
	ctx := context.Background()
	repo := newTestDatabase(t).RowRepo()

	m := &models.Message{Name: "Ada", Email: "ada@example.com", Subject: "Hi", Message: "Hello"}
	require.NoError(t, repo.Insert(ctx, models.CollectionMessages, m))

	require.NoError(t, repo.Delete(ctx, models.CollectionMessages, m.ID.String()))
	err := repo.Delete(ctx, models.CollectionMessages, m.ID.String())
	assert.True(t, errs.IsNotFound(err))

	n, err := repo.Count(ctx, models.CollectionMessages)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRowRepoRejectsUnknownCollection(t *testing.T) {
	repo := newTestDatabase(t).RowRepo()

	err := repo.Delete(context.Background(), "blog_posts", uuid.NewString())
	assert.ErrorIs(t, err, errs.ErrUnknownCollection)
}

func TestPostgresDSN(t *testing.T) {
	c := map[string]string{
		"SUPABASE_DB_USER":     "postgres",
		"SUPABASE_DB_PASSWORD": "secret",
		"SUPABASE_DB_NAME":     "postgres",
	}
	assert.Equal(t,
		"host=db.abc.supabase.co user=postgres password=secret dbname=postgres port=5432 sslmode=require",
		PostgresDSN(c, "db.abc.supabase.co"))
}

func TestOpenRejectsUnknownType(t *testing.T) {
	_, err := Open(map[string]string{"DB_TYPE": "mongo"}, logger.Discard)
	assert.Error(t, err)

	_, err = Open(map[string]string{"DB_TYPE": "supa"}, logger.Discard)
	assert.Error(t, err)
}
