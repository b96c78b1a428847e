package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rpupo63/portfolio-site/errs"
)

type object struct {
	data        []byte
	contentType string
}

// Memory is a process-local Backend. Rows are kept as decoded JSON documents, the way a
// schema-on-read store returns them, and objects are served back under MediaPrefix.
type Memory struct {
	mu          sync.RWMutex
	rows        map[string][]map[string]any
	objects     map[string]object
	bucket      string
	mediaPrefix string
	now         func() time.Time
}

type MemoryOption func(*Memory)

func WithClock(now func() time.Time) MemoryOption {
	return func(m *Memory) { m.now = now }
}

func WithMediaPrefix(prefix string) MemoryOption {
	return func(m *Memory) { m.mediaPrefix = strings.TrimRight(prefix, "/") }
}

func NewMemory(bucket string, opts ...MemoryOption) *Memory {
	m := &Memory{
		rows:        make(map[string][]map[string]any),
		objects:     make(map[string]object),
		bucket:      bucket,
		mediaPrefix: "/media",
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Memory) Select(ctx context.Context, collection string, q Query, dest any) error {
	m.mu.RLock()
	rows := make([]map[string]any, len(m.rows[collection]))
	copy(rows, m.rows[collection])
	m.mu.RUnlock()

	if q.OrderBy != "" {
		sort.SliceStable(rows, func(i, j int) bool {
			c := compareValues(rows[i][q.OrderBy], rows[j][q.OrderBy])
			if q.Desc {
				return c > 0
			}
			return c < 0
		})
	}
	if q.Limit > 0 && len(rows) > q.Limit {
		rows = rows[:q.Limit]
	}

	raw, err := json.Marshal(rows)
	if err != nil {
		return errs.NewDatabaseError("select", collection, err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return errs.NewDatabaseError("select", collection, err)
	}
	return nil
}

func (m *Memory) Count(ctx context.Context, collection string) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.rows[collection])), nil
}

func (m *Memory) Insert(ctx context.Context, collection string, record any) error {
	doc, err := toDocument(record)
	if err != nil {
		return errs.NewDatabaseError("insert", collection, err)
	}

	if id, _ := doc["id"].(string); id == "" || id == uuid.Nil.String() {
		doc["id"] = uuid.NewString()
	}
	if created, _ := doc["created_at"].(string); created == "" || strings.HasPrefix(created, "0001-01-01") {
		doc["created_at"] = m.now().UTC().Format(time.RFC3339Nano)
	}

	m.mu.Lock()
	for _, row := range m.rows[collection] {
		if row["id"] == doc["id"] {
			m.mu.Unlock()
			return errs.NewDatabaseError("insert", collection, fmt.Errorf("duplicate key id=%v", doc["id"]))
		}
	}
	m.rows[collection] = append(m.rows[collection], doc)
	m.mu.Unlock()

	return fromDocument(doc, record)
}

func (m *Memory) Update(ctx context.Context, collection string, id string, record any) error {
	doc, err := toDocument(record)
	if err != nil {
		return errs.NewDatabaseError("update", collection, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for i, row := range m.rows[collection] {
		if row["id"] != id {
			continue
		}
		doc["id"] = row["id"]
		doc["created_at"] = row["created_at"]
		m.rows[collection][i] = doc
		return nil
	}
	return errs.NewDatabaseError("update", collection, errs.NewNotFound(collection))
}

func (m *Memory) Delete(ctx context.Context, collection string, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rows := m.rows[collection]
	for i, row := range rows {
		if row["id"] == id {
			m.rows[collection] = append(rows[:i:i], rows[i+1:]...)
			return nil
		}
	}
	return errs.NewDatabaseError("delete", collection, errs.NewNotFound(collection))
}

func (m *Memory) Upload(ctx context.Context, path string, body io.Reader, contentType string) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return errs.NewStorageError(m.bucket, path, err)
	}

	m.mu.Lock()
	m.objects[path] = object{data: data, contentType: contentType}
	m.mu.Unlock()
	return nil
}

func (m *Memory) PublicURL(path string) string {
	return fmt.Sprintf("%s/%s/%s", m.mediaPrefix, m.bucket, path)
}

func (m *Memory) Bucket() string {
	return m.bucket
}

// Object returns a stored upload.
func (m *Memory) Object(path string) ([]byte, string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	obj, ok := m.objects[path]
	return obj.data, obj.contentType, ok
}

// ServeHTTP serves uploads at the URLs returned by PublicURL.
func (m *Memory) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, fmt.Sprintf("%s/%s/", m.mediaPrefix, m.bucket))
	data, contentType, ok := m.Object(path)
	if !ok {
		http.NotFound(w, r)
		return
	}
	if contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}
	http.ServeContent(w, r, path, time.Time{}, bytes.NewReader(data))
}

func toDocument(record any) (map[string]any, error) {
	raw, err := json.Marshal(record)
	if err != nil {
		return nil, err
	}
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func fromDocument(doc map[string]any, record any) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, record)
}

// compareValues orders JSON scalars. Timestamps compare as times, nil sorts first.
func compareValues(a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}

	switch av := a.(type) {
	case float64:
		if bv, ok := b.(float64); ok {
			switch {
			case av < bv:
				return -1
			case av > bv:
				return 1
			}
			return 0
		}
	case string:
		if bv, ok := b.(string); ok {
			at, aerr := time.Parse(time.RFC3339Nano, av)
			bt, berr := time.Parse(time.RFC3339Nano, bv)
			if aerr == nil && berr == nil {
				return at.Compare(bt)
			}
			return strings.Compare(av, bv)
		}
	case bool:
		if bv, ok := b.(bool); ok && av != bv {
			if !av {
				return -1
			}
			return 1
		}
		return 0
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}
