// Package editor holds the admin panel's state: the active tab and its list, the add/edit
// session with its draft, the pending delete confirmation and user-facing notices.
package editor

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-site/content"
	"github.com/rpupo63/portfolio-site/errs"
	"github.com/rpupo63/portfolio-site/gateway"
	"github.com/rpupo63/portfolio-site/models"
	"github.com/rpupo63/portfolio-site/registry"
)

const (
	TabAnalytics = "analytics"
	TabMessages  = "messages"
)

const (
	NoticeSaveFailed   = "Erreur lors de la sauvegarde"
	NoticeDeleteFailed = "Erreur lors de la suppression"
)

func UploadFailedNotice(bucket string) string {
	return fmt.Sprintf("Erreur lors de l'upload de l'image. Assurez-vous que le bucket \"%s\" existe et est public.", bucket)
}

// Tabs lists the admin tabs in display order.
func Tabs() []Tab {
	tabs := []Tab{{ID: TabAnalytics, Label: "Analytics"}}
	for _, r := range registry.All() {
		tabs = append(tabs, Tab{ID: r.Tab, Label: r.Label})
	}
	return append(tabs, Tab{ID: TabMessages, Label: "Messages"})
}

type Tab struct {
	ID    string
	Label string
}

func validTab(id string) bool {
	for _, t := range Tabs() {
		if t.ID == id {
			return true
		}
	}
	return false
}

// Workspace is the state of one admin view. Its lock is never held across backend calls.
type Workspace struct {
	loader   *content.Loader
	gateway  *gateway.Gateway
	onChange func()
	logger   zerolog.Logger

	mu         sync.Mutex
	tab        string
	records    []registry.Record
	messages   []models.Message
	analytics  content.Analytics
	session    Session
	generation uint64
	pending    *DeleteRequest
	notices    []string
}

type Option func(*Workspace)

// WithOnChange registers a callback run after every successful save or delete.
func WithOnChange(fn func()) Option {
	return func(w *Workspace) { w.onChange = fn }
}

func NewWorkspace(loader *content.Loader, gw *gateway.Gateway, opts ...Option) *Workspace {
	w := &Workspace{
		loader:    loader,
		gateway:   gw,
		onChange:  func() {},
		logger:    log.With().Str("service", "workspace").Logger(),
		tab:       TabAnalytics,
		records:   []registry.Record{},
		messages:  []models.Message{},
		analytics: content.Analytics{RecentViews: []content.RecentView{}},
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// SelectTab switches the active tab and loads its data.
func (w *Workspace) SelectTab(ctx context.Context, tab string) error {
	if !validTab(tab) {
		return errs.NewInvalidFieldError("tab", fmt.Sprintf("unknown tab %q", tab))
	}

	w.mu.Lock()
	changed := w.tab != tab
	w.tab = tab
	if changed {
		w.records = []registry.Record{}
		w.messages = []models.Message{}
	}
	w.mu.Unlock()

	w.Reload(ctx)
	return nil
}

// Reload re-fetches the active tab. Results for a tab that is no longer active are dropped.
func (w *Workspace) Reload(ctx context.Context) {
	w.mu.Lock()
	tab := w.tab
	w.mu.Unlock()

	switch tab {
	case TabAnalytics:
		analytics := w.loader.Analytics(ctx)
		w.mu.Lock()
		if w.tab == tab {
			w.analytics = analytics
		}
		w.mu.Unlock()
	case TabMessages:
		messages := w.loader.Messages(ctx)
		w.mu.Lock()
		if w.tab == tab {
			w.messages = messages
		}
		w.mu.Unlock()
	default:
		res, ok := registry.FromTab(tab)
		if !ok {
			return
		}
		records := w.loader.Load(ctx, res.Kind)
		w.mu.Lock()
		if w.tab == tab {
			w.records = records
		}
		w.mu.Unlock()
	}
}

// OpenAdd opens a new draft of the active tab's kind, placed after the loaded records.
func (w *Workspace) OpenAdd() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.session.Open() {
		return errs.NewConflictError("an edit session is already open")
	}
	res, ok := registry.FromTab(w.tab)
	if !ok {
		return errs.NewBadRequestError(fmt.Sprintf("tab %q has no editable records", w.tab))
	}

	draft, err := registry.Default(res.Kind, len(w.records)+1)
	if err != nil {
		return err
	}
	w.open(Adding, res.Kind, draft)
	return nil
}

// OpenEdit opens a copy of the loaded record with the given id.
func (w *Workspace) OpenEdit(id string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.session.Open() {
		return errs.NewConflictError("an edit session is already open")
	}
	for _, r := range w.records {
		if r.ID().String() == id {
			w.open(Editing, r.Kind, r.Clone())
			return nil
		}
	}
	return errs.NewNotFound("record")
}

func (w *Workspace) open(mode Mode, kind registry.Kind, draft registry.Record) {
	w.generation++
	w.session = Session{Mode: mode, Kind: kind, Draft: draft, generation: w.generation}
}

// SetField changes one field of the draft.
func (w *Workspace) SetField(name, value string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.session.Open() {
		return errs.NewBadRequestError("no edit session is open")
	}
	res, _ := registry.Lookup(w.session.Kind)
	if _, ok := res.Field(name); !ok {
		return errs.NewInvalidFieldError(name, fmt.Sprintf("not a field of %s", res.Kind))
	}
	return w.session.Draft.Set(name, value)
}

// Upload stores an image and writes its public URL into the draft. Uploads are not queued:
// when several are in flight, the last one to finish wins. A failure leaves the draft as it was.
func (w *Workspace) Upload(ctx context.Context, filename, contentType string, body io.Reader) error {
	w.mu.Lock()
	if !w.session.Open() {
		w.mu.Unlock()
		return errs.NewBadRequestError("no edit session is open")
	}
	if !w.session.Draft.HasImage() {
		w.mu.Unlock()
		return errs.NewInvalidFieldError("image_url", fmt.Sprintf("%s has no image", w.session.Kind))
	}
	w.session.Uploading = true
	generation := w.session.generation
	w.mu.Unlock()

	url, err := w.gateway.UploadImage(ctx, filename, contentType, body)

	w.mu.Lock()
	defer w.mu.Unlock()

	current := w.session.generation == generation && w.session.Open()
	if current {
		w.session.Uploading = false
	}
	if err != nil {
		w.notices = append(w.notices, UploadFailedNotice(w.gateway.Bucket()))
		return err
	}
	if !current {
		w.logger.Warn().Str("url", url).Msg("upload finished after its session closed")
		return nil
	}
	return w.session.Draft.SetImageURL(url)
}

// Save commits the draft. On success the session closes and the list reloads; on failure the
// session stays open with its draft so the user can retry.
func (w *Workspace) Save(ctx context.Context) error {
	w.mu.Lock()
	if !w.session.Open() {
		w.mu.Unlock()
		return errs.NewBadRequestError("no edit session is open")
	}
	mode := w.session.saveMode()
	draft := w.session.Draft.Clone()
	generation := w.session.generation
	w.mu.Unlock()

	if err := w.gateway.Save(ctx, mode, draft); err != nil {
		w.mu.Lock()
		w.notices = append(w.notices, NoticeSaveFailed)
		w.mu.Unlock()
		return err
	}

	w.mu.Lock()
	if w.session.generation == generation {
		w.session = Session{}
	}
	w.mu.Unlock()

	w.onChange()
	w.Reload(ctx)
	return nil
}

// Cancel discards the draft.
func (w *Workspace) Cancel() {
	w.mu.Lock()
	w.session = Session{}
	w.mu.Unlock()
}

// RequestDelete asks for confirmation before deleting a row. Nothing is removed yet.
func (w *Workspace) RequestDelete(collection, id string) error {
	if !gateway.Deletable(collection) {
		return errs.NewUnknownCollectionError(collection)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.pending = &DeleteRequest{Collection: collection, ID: id, Label: w.labelFor(collection, id)}
	return nil
}

func (w *Workspace) labelFor(collection, id string) string {
	if collection == models.CollectionMessages {
		for _, m := range w.messages {
			if m.ID.String() == id {
				return m.Subject
			}
		}
		return ""
	}
	for _, r := range w.records {
		if r.ID().String() == id {
			return r.Title()
		}
	}
	return ""
}

// ConfirmDelete performs the pending delete. The request is cleared whether or not it succeeds.
func (w *Workspace) ConfirmDelete(ctx context.Context) error {
	w.mu.Lock()
	pending := w.pending
	w.mu.Unlock()
	if pending == nil {
		return errs.NewBadRequestError("no delete is pending")
	}

	err := w.gateway.Delete(ctx, pending.Collection, pending.ID)

	w.mu.Lock()
	if w.pending == pending {
		w.pending = nil
	}
	if err != nil {
		w.notices = append(w.notices, NoticeDeleteFailed)
	}
	w.mu.Unlock()

	if err != nil {
		return err
	}
	w.onChange()
	w.Reload(ctx)
	return nil
}

func (w *Workspace) CancelDelete() {
	w.mu.Lock()
	w.pending = nil
	w.mu.Unlock()
}

// Notify queues a notice for the next render.
func (w *Workspace) Notify(notice string) {
	w.mu.Lock()
	w.notices = append(w.notices, notice)
	w.mu.Unlock()
}

// DismissNotices drops the notices already shown.
func (w *Workspace) DismissNotices() {
	w.mu.Lock()
	w.notices = nil
	w.mu.Unlock()
}
