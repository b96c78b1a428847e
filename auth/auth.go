// Package auth is the session gate in front of the admin panel: password sign-in against the
// identity provider, a signed session cookie, and middleware that sends anonymous callers to /login.
package auth

import (
	"context"
	"errors"
	"time"

	"github.com/rpupo63/portfolio-site/errs"
)

type User struct {
	ID          string
	Email       string
	SessionID   string
	AccessToken string
	ExpiresAt   time.Time
}

// Authenticator checks e-mail and password credentials.
type Authenticator interface {
	SignIn(ctx context.Context, email, password string) (User, error)
	SignOut(ctx context.Context, user User) error
}

const defaultFailureMessage = "Erreur de connexion"

// FailureMessage is the text shown on the login form for a sign-in error: the provider's own
// message when it rejected the credentials, a generic one otherwise.
func FailureMessage(err error) string {
	var apiErr *errs.ApiErr
	if errs.IsInvalidCredentials(err) && errors.As(err, &apiErr) && apiErr.Details != "" {
		return apiErr.Details
	}
	return defaultFailureMessage
}
