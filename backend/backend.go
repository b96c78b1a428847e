// Package backend defines the hosted data backend the site talks to: relational rows and a public
// object bucket. Callers receive it as a dependency; nothing reaches for a global client.
package backend

import (
	"context"
	"io"
)

// Query selects rows ordered by a single column. Limit <= 0 means no limit.
type Query struct {
	OrderBy string
	Desc    bool
	Limit   int
}

// Rows is row storage keyed by collection name.
type Rows interface {
	// Select decodes the matching rows into dest, a pointer to a slice of models.
	Select(ctx context.Context, collection string, q Query, dest any) error
	Count(ctx context.Context, collection string) (int64, error)
	// Insert stores record and fills in its id and created_at.
	Insert(ctx context.Context, collection string, record any) error
	// Update overwrites every field of the row with the given id except id and created_at.
	Update(ctx context.Context, collection string, id string, record any) error
	Delete(ctx context.Context, collection string, id string) error
}

// Files is a public object bucket.
type Files interface {
	Upload(ctx context.Context, path string, body io.Reader, contentType string) error
	PublicURL(path string) string
	Bucket() string
}

type Backend interface {
	Rows
	Files
}

type composite struct {
	Rows
	Files
}

// New joins independent row and file stores into one Backend.
func New(rows Rows, files Files) Backend {
	return composite{Rows: rows, Files: files}
}
