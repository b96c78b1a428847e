package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-site/auth"
	"github.com/rpupo63/portfolio-site/editor"
	"github.com/rpupo63/portfolio-site/errs"
	"github.com/rpupo63/portfolio-site/registry"
)

// Uploads above this size spill to disk while the form is parsed.
const maxFormMemory = 8 << 20

type adminHandler struct {
	responder  Responder
	workspaces *editor.Workspaces
}

func newAdminHandler(workspaces *editor.Workspaces) adminHandler {
	logger := log.With().Str("handlerName", "adminHandler").Logger()
	return adminHandler{
		responder:  NewResponder(logger),
		workspaces: workspaces,
	}
}

// withWorkspace attaches the signed-in session's workspace to the request.
func (h adminHandler) withWorkspace(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := auth.UserFromContext(r.Context())
		if user == nil {
			http.Redirect(w, r, auth.LoginPath, http.StatusSeeOther)
			return
		}
		ws := h.workspaces.Get(r.Context(), user.SessionID, user.ExpiresAt)
		next.ServeHTTP(w, r.WithContext(ctxWithWorkspace(r.Context(), ws)))
	})
}

// done sends the browser back to the admin page. Failures the user has to see are already
// queued as workspace notices, so err is only logged.
func (h adminHandler) done(w http.ResponseWriter, r *http.Request, action string, err error) {
	if err != nil {
		h.responder.logger.Warn().Err(err).Str("action", action).Msg("admin action failed")
	}
	http.Redirect(w, r, adminPath, http.StatusSeeOther)
}

func (h adminHandler) page() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ws := ctxGetWorkspace(r.Context())
		if tab := r.URL.Query().Get("tab"); tab != "" {
			if err := ws.SelectTab(r.Context(), tab); err != nil {
				h.responder.WriteError(w, err)
				return
			}
		}

		view := ws.Snapshot()
		ws.DismissNotices()

		page := adminPage{View: view}
		if user := auth.UserFromContext(r.Context()); user != nil {
			page.User = *user
		}
		if view.Session.Open() {
			res, _ := registry.Lookup(view.Session.Kind)
			title := "Ajouter "
			if view.Session.Mode == editor.Editing {
				title = "Modifier "
			}
			page.Modal = &modal{
				Title:     title + res.Noun,
				Resource:  res,
				Draft:     view.Session.Draft,
				Uploading: view.Session.Uploading,
			}
		}
		h.responder.WriteHTML(w, http.StatusOK, "admin.html", page)
	}
}

func (h adminHandler) openAdd() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.done(w, r, "add", ctxGetWorkspace(r.Context()).OpenAdd())
	}
}

func (h adminHandler) openEdit() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		h.done(w, r, "edit", ctxGetWorkspace(r.Context()).OpenEdit(id))
	}
}

// applyDraft copies the posted form fields of the open session's kind into its draft.
// Fields absent from the form are left alone. A rejected form queues the save failure notice.
func applyDraft(r *http.Request, ws *editor.Workspace) error {
	if err := r.ParseMultipartForm(maxFormMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		ws.Notify(editor.NoticeSaveFailed)
		return errs.NewMalformedPayloadError("form", err)
	}

	session := ws.Snapshot().Session
	if !session.Open() {
		return errs.NewBadRequestError("no edit session is open")
	}
	res, _ := registry.Lookup(session.Kind)
	for _, field := range res.Fields {
		values, ok := r.PostForm[field.Name]
		if !ok || len(values) == 0 {
			continue
		}
		if err := ws.SetField(field.Name, values[0]); err != nil {
			ws.Notify(editor.NoticeSaveFailed)
			return err
		}
	}
	return nil
}

func (h adminHandler) updateDraft() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.done(w, r, "draft", applyDraft(r, ctxGetWorkspace(r.Context())))
	}
}

func (h adminHandler) upload() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ws := ctxGetWorkspace(r.Context())
		if err := applyDraft(r, ws); err != nil {
			h.done(w, r, "upload", err)
			return
		}

		file, header, err := r.FormFile("image")
		if err != nil {
			h.done(w, r, "upload", errs.NewMissingRequiredFieldError("image"))
			return
		}
		defer file.Close()

		h.done(w, r, "upload", ws.Upload(r.Context(), header.Filename, header.Header.Get("Content-Type"), file))
	}
}

func (h adminHandler) save() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ws := ctxGetWorkspace(r.Context())
		if err := applyDraft(r, ws); err != nil {
			h.done(w, r, "save", err)
			return
		}
		h.done(w, r, "save", ws.Save(r.Context()))
	}
}

func (h adminHandler) cancel() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctxGetWorkspace(r.Context()).Cancel()
		h.done(w, r, "cancel", nil)
	}
}

func (h adminHandler) requestDelete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := ctxGetWorkspace(r.Context()).RequestDelete(chi.URLParam(r, "collection"), chi.URLParam(r, "id"))
		h.done(w, r, "delete", err)
	}
}

func (h adminHandler) confirmDelete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.done(w, r, "confirm delete", ctxGetWorkspace(r.Context()).ConfirmDelete(r.Context()))
	}
}

func (h adminHandler) cancelDelete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctxGetWorkspace(r.Context()).CancelDelete()
		h.done(w, r, "cancel delete", nil)
	}
}
