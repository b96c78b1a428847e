package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/supabase-community/gotrue-go"

	"github.com/rpupo63/portfolio-site/errs"
)

// GoTrue signs in against Supabase Auth with the password grant.
type GoTrue struct {
	client gotrue.Client
}

func NewGoTrue(supabaseURL, anonKey string, httpClient *http.Client) *GoTrue {
	projectURL := strings.TrimRight(supabaseURL, "/")
	client := gotrue.New(projectURL, anonKey).WithCustomGoTrueURL(projectURL + "/auth/v1")
	if httpClient != nil {
		client = client.WithClient(*httpClient)
	}
	return &GoTrue{client: client}
}

// gotrue-go reports non-2xx answers as "response status code <n>: <body>".
var statusErrPattern = regexp.MustCompile(`(?s)response status code (\d+): (.*)`)

// Supabase has returned errors in both shapes over time.
type gotrueError struct {
	Msg              string `json:"msg"`
	Message          string `json:"message"`
	ErrorDescription string `json:"error_description"`
	Error            string `json:"error"`
}

func (e gotrueError) text() string {
	for _, s := range []string{e.Msg, e.ErrorDescription, e.Message, e.Error} {
		if s != "" {
			return s
		}
	}
	return ""
}

// classify turns a client error into a rejected sign-in when Auth answered 4xx with a message,
// and into a provider error otherwise.
func classify(err error) error {
	m := statusErrPattern.FindStringSubmatch(err.Error())
	if m == nil {
		return errs.NewAuthProviderError("supabase", err)
	}
	status, _ := strconv.Atoi(m[1])
	var body gotrueError
	_ = json.Unmarshal([]byte(m[2]), &body)
	if status >= 400 && status < 500 && body.text() != "" {
		return errs.NewAuthError(body.text())
	}
	return errs.NewAuthProviderError("supabase", err)
}

// The client library has no context parameter; the deadline comes from the http.Client.
func (g *GoTrue) SignIn(ctx context.Context, email, password string) (User, error) {
	token, err := g.client.SignInWithEmailPassword(email, password)
	if err != nil {
		return User{}, classify(err)
	}
	return User{ID: token.User.ID.String(), Email: token.User.Email, AccessToken: token.AccessToken}, nil
}

func (g *GoTrue) SignOut(ctx context.Context, user User) error {
	if user.AccessToken == "" {
		return nil
	}
	if err := g.client.WithToken(user.AccessToken).Logout(); err != nil {
		return errs.NewAuthProviderError("supabase", err)
	}
	return nil
}
