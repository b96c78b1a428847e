package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpupo63/portfolio-site/models"
)

func TestNotifyContactPostsToResend(t *testing.T) {
	var got ResendEmailRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer re_test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"id":"email-1"}`))
	}))
	defer srv.Close()

	m := NewMailer(map[string]string{
		"RESEND_API_KEY":       "re_test",
		"RESEND_FROM_EMAIL":    "Site <site@example.com>",
		"CONTACT_NOTIFY_EMAIL": "me@example.com",
		"RESEND_ENDPOINT":      srv.URL,
	})
	require.True(t, m.Enabled())

	err := m.NotifyContact(context.Background(), models.Message{
		Name: "Ada", Email: "ada@example.com", Subject: "Mission", Message: "<b>hi</b>",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"me@example.com"}, got.To)
	assert.Equal(t, "Site <site@example.com>", got.From)
	assert.Equal(t, "[Portfolio] Mission", got.Subject)
	assert.Equal(t, "ada@example.com", got.ReplyTo)
	assert.Contains(t, got.Html, "&lt;b&gt;hi&lt;/b&gt;")
}

func TestSendEmailReportsResendError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"message":"Invalid from address"}`))
	}))
	defer srv.Close()

	m := NewMailer(map[string]string{"RESEND_API_KEY": "k", "RESEND_FROM_EMAIL": "x", "RESEND_ENDPOINT": srv.URL})
	err := m.SendEmail(context.Background(), ResendEmailRequest{To: []string{"a@b.c"}, Subject: "s"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid from address")
}

func TestDisabledMailerSendsNothing(t *testing.T) {
	m := NewMailer(map[string]string{})
	assert.False(t, m.Enabled())
	assert.NoError(t, m.NotifyContact(context.Background(), models.Message{}))
}

func TestBuildCVHTML(t *testing.T) {
	html, err := BuildCVHTML("Jane Doe",
		[]models.Experience{{Year: "2023 - Présent", Title: "Engineer", Company: "Acme"}},
		[]models.Technology{{Name: "Go", Category: "Backend"}, {Name: "React", Category: "Frontend"}, {Name: "Postgres", Category: "Backend"}},
	)
	require.NoError(t, err)
	assert.Contains(t, html, "<h1>Jane Doe</h1>")
	assert.Contains(t, html, "2023 - Présent")
	assert.Contains(t, html, "<span>Go</span><span>Postgres</span>")
	assert.Contains(t, html, "Frontend")
}

type fakeRenderer struct {
	calls int
	err   error
}

func (f *fakeRenderer) RenderHTMLToPDF(ctx context.Context, html string) ([]byte, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return []byte("%PDF-1.4"), nil
}

func TestCVServiceCachesPerVersion(t *testing.T) {
	r := &fakeRenderer{}
	s := NewCVService("Jane", r)
	v1 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	pdf, err := s.PDF(context.Background(), v1, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(pdf))

	_, err = s.PDF(context.Background(), v1, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, r.calls)

	_, err = s.PDF(context.Background(), v1.Add(time.Minute), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, r.calls)

	r.err = errors.New("chrome not found")
	_, err = s.PDF(context.Background(), v1.Add(2*time.Minute), nil, nil)
	assert.Error(t, err)
}
