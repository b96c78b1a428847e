package api

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-site/auth"
	"github.com/rpupo63/portfolio-site/editor"
)

const adminPath = "/admin"

type loginHandler struct {
	responder  Responder
	gate       *auth.Gate
	workspaces *editor.Workspaces
}

func newLoginHandler(gate *auth.Gate, workspaces *editor.Workspaces) loginHandler {
	logger := log.With().Str("handlerName", "loginHandler").Logger()
	return loginHandler{
		responder:  NewResponder(logger),
		gate:       gate,
		workspaces: workspaces,
	}
}

func (h loginHandler) loginPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.gate.CurrentUser(r) != nil {
			http.Redirect(w, r, adminPath, http.StatusSeeOther)
			return
		}
		h.responder.WriteHTML(w, http.StatusOK, "login.html", loginPage{})
	}
}

func (h loginHandler) login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			h.responder.WriteHTML(w, http.StatusBadRequest, "login.html", loginPage{Error: auth.FailureMessage(err)})
			return
		}

		email := strings.TrimSpace(r.PostForm.Get("email"))
		user, err := h.gate.SignIn(r.Context(), w, email, r.PostForm.Get("password"))
		if err != nil {
			h.responder.logger.Warn().Err(err).Str("email", email).Msg("sign-in failed")
			h.responder.WriteHTML(w, http.StatusUnauthorized, "login.html", loginPage{
				Email: email,
				Error: auth.FailureMessage(err),
			})
			return
		}

		h.responder.logger.Info().Str("email", user.Email).Msg("signed in")
		http.Redirect(w, r, adminPath, http.StatusSeeOther)
	}
}

func (h loginHandler) logout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if user := h.gate.CurrentUser(r); user != nil {
			h.workspaces.Drop(user.SessionID)
		}
		h.gate.SignOut(r.Context(), w, r)
		http.Redirect(w, r, auth.LoginPath, http.StatusSeeOther)
	}
}
