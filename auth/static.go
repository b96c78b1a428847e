package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/rpupo63/portfolio-site/errs"
)

// Static accepts a single administrator whose bcrypt hash comes from configuration.
// It is meant for local development without an identity provider.
type Static struct {
	email        string
	passwordHash []byte
}

func NewStatic(email, passwordHash string) *Static {
	return &Static{email: strings.ToLower(strings.TrimSpace(email)), passwordHash: []byte(passwordHash)}
}

func (s *Static) SignIn(ctx context.Context, email, password string) (User, error) {
	if strings.ToLower(strings.TrimSpace(email)) != s.email {
		return User{}, errs.NewAuthError("Invalid login credentials")
	}
	if err := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password)); err != nil {
		return User{}, errs.NewAuthError("Invalid login credentials")
	}

	sum := sha256.Sum256([]byte(s.email))
	return User{ID: hex.EncodeToString(sum[:16]), Email: s.email}, nil
}

func (s *Static) SignOut(ctx context.Context, user User) error {
	return nil
}
