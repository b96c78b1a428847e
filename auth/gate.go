package auth

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const LoginPath = "/login"

type Gate struct {
	authenticator Authenticator
	sessions      *Sessions
	logger        zerolog.Logger
}

func NewGate(authenticator Authenticator, sessions *Sessions) *Gate {
	return &Gate{
		authenticator: authenticator,
		sessions:      sessions,
		logger:        log.With().Str("handlerName", "sessionGate").Logger(),
	}
}

// SignIn checks the credentials and sets the session cookie. No cookie is written on failure.
func (g *Gate) SignIn(ctx context.Context, w http.ResponseWriter, email, password string) (User, error) {
	user, err := g.authenticator.SignIn(ctx, email, password)
	if err != nil {
		g.logger.Warn().Err(err).Str("email", email).Msg("sign-in rejected")
		return User{}, err
	}
	return g.sessions.Issue(w, user)
}

// CurrentUser returns the signed-in user, or nil. Any cookie problem counts as no user.
func (g *Gate) CurrentUser(r *http.Request) *User {
	if user := UserFromContext(r.Context()); user != nil {
		return user
	}
	user, err := g.sessions.Parse(r)
	if err != nil {
		return nil
	}
	return user
}

// SignOut clears the cookie and ends the upstream session. Upstream failures are only logged.
func (g *Gate) SignOut(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	user := g.CurrentUser(r)
	g.sessions.Clear(w)
	if user == nil {
		return
	}
	if err := g.authenticator.SignOut(ctx, *user); err != nil {
		g.logger.Error().Err(err).Str("email", user.Email).Msg("upstream sign-out failed")
	}
}

// RequireUser redirects anonymous callers to the login page.
func (g *Gate) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := g.CurrentUser(r)
		if user == nil {
			http.Redirect(w, r, LoginPath, http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r.WithContext(ContextWithUser(r.Context(), user)))
	})
}
