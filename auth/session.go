package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/rpupo63/portfolio-site/errs"
)

const CookieName = "portfolio_session"

type sessionClaims struct {
	Email       string `json:"email"`
	AccessToken string `json:"sb_token,omitempty"`
	jwt.RegisteredClaims
}

// Sessions issues and reads the HS256-signed session cookie.
type Sessions struct {
	secret []byte
	ttl    time.Duration
	secure bool
	now    func() time.Time
}

func NewSessions(secret []byte, ttl time.Duration, secure bool) *Sessions {
	return &Sessions{secret: secret, ttl: ttl, secure: secure, now: time.Now}
}

// Issue starts a new session for user and returns it with its session id.
func (s *Sessions) Issue(w http.ResponseWriter, user User) (User, error) {
	now := s.now()
	user.SessionID = uuid.NewString()
	user.ExpiresAt = now.Add(s.ttl).Truncate(time.Second).UTC()

	claims := sessionClaims{
		Email:       user.Email,
		AccessToken: user.AccessToken,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        user.SessionID,
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(user.ExpiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return User{}, errs.NewInternalErrorWithCause("sign session", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    signed,
		Path:     "/",
		Expires:  now.Add(s.ttl),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return user, nil
}

// Parse reads the session cookie from r.
func (s *Sessions) Parse(r *http.Request) (*User, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return nil, errs.NewMissingTokenError()
	}

	var claims sessionClaims
	_, err = jwt.ParseWithClaims(cookie.Value, &claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, errs.NewTokenExpiredError()
		}
		return nil, errs.NewInvalidTokenError(err)
	}

	return &User{
		ID:          claims.Subject,
		Email:       claims.Email,
		SessionID:   claims.ID,
		AccessToken: claims.AccessToken,
		ExpiresAt:   claims.ExpiresAt.Time.UTC(),
	}, nil
}

func (s *Sessions) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
