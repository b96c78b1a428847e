// Package gateway writes admin changes to the backend: inserts and updates of drafts, deletes,
// and image uploads to the public bucket.
package gateway

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-site/backend"
	"github.com/rpupo63/portfolio-site/errs"
	"github.com/rpupo63/portfolio-site/models"
	"github.com/rpupo63/portfolio-site/registry"
)

// ImagePrefix is the folder of the bucket holding project previews.
const ImagePrefix = "project-previews/"

type Mode int

const (
	ModeAdd Mode = iota + 1
	ModeEdit
)

func (m Mode) String() string {
	switch m {
	case ModeAdd:
		return "add"
	case ModeEdit:
		return "edit"
	}
	return "none"
}

type Gateway struct {
	backend backend.Backend
	logger  zerolog.Logger
}

func New(b backend.Backend) *Gateway {
	return &Gateway{
		backend: b,
		logger:  log.With().Str("service", "gateway").Logger(),
	}
}

// Save inserts the draft in add mode, or overwrites the row with the draft's id in edit mode.
func (g *Gateway) Save(ctx context.Context, mode Mode, draft registry.Record) error {
	res, ok := registry.Lookup(draft.Kind)
	if !ok || draft.IsZero() {
		return errs.NewInvalidFieldError("kind", fmt.Sprintf("cannot save resource kind %q", draft.Kind))
	}

	// the backend fills ids into the row it is given; keep the caller's draft untouched
	row := draft.Clone().Row()

	switch mode {
	case ModeAdd:
		if err := g.backend.Insert(ctx, res.Collection, row); err != nil {
			g.logger.Error().Err(err).Str("collection", res.Collection).Msg("insert failed")
			return err
		}
	case ModeEdit:
		id := draft.ID()
		if id == uuid.Nil {
			return errs.NewMissingRequiredFieldError("id")
		}
		if err := g.backend.Update(ctx, res.Collection, id.String(), row); err != nil {
			g.logger.Error().Err(err).Str("collection", res.Collection).Str("id", id.String()).Msg("update failed")
			return err
		}
	default:
		return errs.NewBadRequestError(fmt.Sprintf("unknown save mode %d", mode))
	}
	return nil
}

// Delete removes one row of an admin-managed collection.
func (g *Gateway) Delete(ctx context.Context, collection, id string) error {
	if !Deletable(collection) {
		return errs.NewUnknownCollectionError(collection)
	}
	if _, err := uuid.Parse(id); err != nil {
		return errs.NewInvalidFieldError("id", "not a uuid")
	}

	if err := g.backend.Delete(ctx, collection, id); err != nil {
		g.logger.Error().Err(err).Str("collection", collection).Str("id", id).Msg("delete failed")
		return err
	}
	return nil
}

// Deletable reports whether the admin may delete rows of collection.
func Deletable(collection string) bool {
	if _, ok := registry.FromCollection(collection); ok {
		return true
	}
	return collection == models.CollectionMessages
}

// UploadImage stores body under a random name that keeps the original extension and returns
// its public URL. Type and size are not checked.
func (g *Gateway) UploadImage(ctx context.Context, filename, contentType string, body io.Reader) (string, error) {
	objectPath := ImagePrefix + uuid.NewString() + strings.ToLower(path.Ext(filename))

	if err := g.backend.Upload(ctx, objectPath, body, contentType); err != nil {
		g.logger.Error().Err(err).Str("bucket", g.backend.Bucket()).Str("path", objectPath).Msg("upload failed")
		return "", err
	}
	return g.backend.PublicURL(objectPath), nil
}

// Bucket names the bucket uploads go to.
func (g *Gateway) Bucket() string {
	return g.backend.Bucket()
}
