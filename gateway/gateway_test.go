package gateway

import (
	"context"
	"errors"
	"io"
	"regexp"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpupo63/portfolio-site/backend"
	"github.com/rpupo63/portfolio-site/errs"
	"github.com/rpupo63/portfolio-site/models"
	"github.com/rpupo63/portfolio-site/registry"
)

type failingFiles struct{ backend.Files }

func (failingFiles) Upload(context.Context, string, io.Reader, string) error {
	return errs.NewStorageError("portfolio", "x", errors.New("bucket not found"))
}

func TestSaveAddThenEdit(t *testing.T) {
	ctx := context.Background()
	mem := backend.NewMemory("portfolio")
	g := New(mem)

	draft, err := registry.Default(registry.KindProject, 1)
	require.NoError(t, err)
	require.NoError(t, draft.Set("title", "Portfolio"))
	require.NoError(t, g.Save(ctx, ModeAdd, draft))
	assert.Equal(t, uuid.Nil, draft.ID(), "draft keeps no backend identity")

	var rows []models.Project
	require.NoError(t, mem.Select(ctx, models.CollectionProjects, backend.Query{}, &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "Portfolio", rows[0].Title)

	edit := registry.FromProject(rows[0])
	require.NoError(t, edit.Set("title", "Renamed"))
	require.NoError(t, g.Save(ctx, ModeEdit, edit))

	rows = nil
	require.NoError(t, mem.Select(ctx, models.CollectionProjects, backend.Query{}, &rows))
	assert.Equal(t, "Renamed", rows[0].Title)
}

func TestSaveEditWithoutID(t *testing.T) {
	draft, _ := registry.Default(registry.KindTechnology, 1)
	err := New(backend.NewMemory("portfolio")).Save(context.Background(), ModeEdit, draft)
	assert.True(t, errs.IsMissingRequiredFieldError(err))
}

func TestDeleteValidatesCollection(t *testing.T) {
	g := New(backend.NewMemory("portfolio"))

	err := g.Delete(context.Background(), "page_views", uuid.NewString())
	assert.ErrorIs(t, err, errs.ErrUnknownCollection)

	err = g.Delete(context.Background(), models.CollectionMessages, "not-an-id")
	assert.True(t, errs.IsInvalidFieldError(err))

	assert.True(t, Deletable(models.CollectionTechnologies))
}

func TestUploadImageNamesObjectRandomly(t *testing.T) {
	mem := backend.NewMemory("portfolio")
	g := New(mem)

	url, err := g.UploadImage(context.Background(), "My Screenshot.PNG", "image/png", strings.NewReader("img"))
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^/media/portfolio/project-previews/[0-9a-f-]{36}\.png$`), url)

	objectPath := strings.TrimPrefix(url, "/media/portfolio/")
	data, contentType, ok := mem.Object(objectPath)
	require.True(t, ok)
	assert.Equal(t, "img", string(data))
	assert.Equal(t, "image/png", contentType)

	url, err = g.UploadImage(context.Background(), "noext", "", strings.NewReader("x"))
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`project-previews/[0-9a-f-]{36}$`), url)
}

func TestUploadImageFailure(t *testing.T) {
	mem := backend.NewMemory("portfolio")
	g := New(backend.New(mem, failingFiles{Files: mem}))

	_, err := g.UploadImage(context.Background(), "a.png", "image/png", strings.NewReader("img"))
	assert.True(t, errs.IsStorageError(err))
	assert.Equal(t, "portfolio", g.Bucket())
}
