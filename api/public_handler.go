package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-site/backend"
	"github.com/rpupo63/portfolio-site/content"
	"github.com/rpupo63/portfolio-site/errs"
	"github.com/rpupo63/portfolio-site/models"
	"github.com/rpupo63/portfolio-site/registry"
	"github.com/rpupo63/portfolio-site/services"
)

type publicHandler struct {
	responder   Responder
	rows        backend.Rows
	cache       *content.SiteCache
	mailer      *services.Mailer
	cv          *services.CVService
	startupTime time.Time
	backendName string
}

func newPublicHandler(rows backend.Rows, cache *content.SiteCache, mailer *services.Mailer, cv *services.CVService, startupTime time.Time, backendName string) publicHandler {
	logger := log.With().Str("handlerName", "publicHandler").Logger()
	return publicHandler{
		responder:   NewResponder(logger),
		rows:        rows,
		cache:       cache,
		mailer:      mailer,
		cv:          cv,
		startupTime: startupTime,
		backendName: backendName,
	}
}

func emptyState(kind registry.Kind) string {
	res, _ := registry.Lookup(kind)
	return res.EmptyState
}

func (h publicHandler) home() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.responder.WriteHTML(w, http.StatusOK, "home.html", homePage{
			Site:              h.cache.Get(r.Context()),
			Contact:           r.URL.Query().Get("contact"),
			ProjectsEmpty:     emptyState(registry.KindProject),
			TechnologiesEmpty: emptyState(registry.KindTechnology),
		})
	}
}

func (req contactRequest) toMessage() (models.Message, error) {
	msg := models.Message{
		Name:    strings.TrimSpace(req.Name),
		Email:   strings.TrimSpace(req.Email),
		Subject: strings.TrimSpace(req.Subject),
		Message: strings.TrimSpace(req.Message),
	}
	switch {
	case msg.Name == "":
		return msg, errs.NewMissingRequiredFieldError("name")
	case msg.Email == "":
		return msg, errs.NewMissingRequiredFieldError("email")
	case !strings.Contains(msg.Email, "@"):
		return msg, errs.NewInvalidFieldError("email", "not an e-mail address")
	case msg.Subject == "":
		return msg, errs.NewMissingRequiredFieldError("subject")
	case msg.Message == "":
		return msg, errs.NewMissingRequiredFieldError("message")
	}
	return msg, nil
}

// storeMessage inserts a contact message and sends the notification e-mail. A failed
// notification does not fail the request.
func (h publicHandler) storeMessage(r *http.Request, msg *models.Message) error {
	if err := h.rows.Insert(r.Context(), models.CollectionMessages, msg); err != nil {
		return err
	}
	if err := h.mailer.NotifyContact(r.Context(), *msg); err != nil {
		h.responder.logger.Warn().Err(err).Str("messageID", msg.ID.String()).Msg("contact notification failed")
	}
	return nil
}

// contact handles the HTML contact form.
func (h publicHandler) contact() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Redirect(w, r, "/?contact=error#contact", http.StatusSeeOther)
			return
		}

		msg, err := contactRequest{
			Name:    r.PostForm.Get("name"),
			Email:   r.PostForm.Get("email"),
			Subject: r.PostForm.Get("subject"),
			Message: r.PostForm.Get("message"),
		}.toMessage()
		if err == nil {
			err = h.storeMessage(r, &msg)
		}
		if err != nil {
			h.responder.logger.Warn().Err(err).Msg("contact form rejected")
			http.Redirect(w, r, "/?contact=error#contact", http.StatusSeeOther)
			return
		}
		http.Redirect(w, r, "/?contact=sent#contact", http.StatusSeeOther)
	}
}

func (h publicHandler) createMessage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req contactRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewMalformedPayloadError("message", err))
			return
		}

		msg, err := req.toMessage()
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := h.storeMessage(r, &msg); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSONStatus(w, http.StatusCreated, msg)
	}
}

func (h publicHandler) createPageView() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req pageViewRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewMalformedPayloadError("page view", err))
			return
		}
		if strings.TrimSpace(req.PagePath) == "" {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("page_path"))
			return
		}

		view := newPageView(req.PagePath, r.UserAgent(), req.Referrer)
		if err := h.rows.Insert(r.Context(), models.CollectionPageViews, &view); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSONStatus(w, http.StatusCreated, view)
	}
}

func newPageView(path, userAgent, referrer string) models.PageView {
	view := models.PageView{PagePath: path, UserAgent: userAgent}
	if referrer != "" {
		view.Referrer = &referrer
	}
	return view
}

func (h publicHandler) getAllProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.responder.WriteJSON(w, h.cache.Get(r.Context()).Projects)
	}
}

func (h publicHandler) getAllTechnologies() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.responder.WriteJSON(w, h.cache.Get(r.Context()).Technologies)
	}
}

func (h publicHandler) getAllExperiences() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.responder.WriteJSON(w, h.cache.Get(r.Context()).Experiences)
	}
}

func (h publicHandler) cvPDF() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		site := h.cache.Get(r.Context())
		pdf, err := h.cv.PDF(r.Context(), site.LoadedAt, site.Experiences, site.Technologies)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `attachment; filename="cv.pdf"`)
		if _, err := w.Write(pdf); err != nil {
			h.responder.logger.Error().Err(err).Msg("error writing response")
		}
	}
}

func (h publicHandler) health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.responder.WriteJSON(w, healthResponse{
			Status:      "ok",
			StartupTime: h.startupTime,
			Uptime:      time.Since(h.startupTime).Round(time.Second).String(),
			Backend:     h.backendName,
		})
	}
}
