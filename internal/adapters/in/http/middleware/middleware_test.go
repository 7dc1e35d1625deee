package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	fbauth "firebase.google.com/go/v4/auth"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	admindom "storefront/internal/domain/admin"
)

func echoSession() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sid, _ := CartSessionID(r)
		_, _ = w.Write([]byte(sid))
	})
}

func TestCartSession_IssuesNewID(t *testing.T) {
	rec := httptest.NewRecorder()
	CartSession{}.Handler(echoSession()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/store/cart", nil))

	sid := rec.Body.String()
	_, err := uuid.Parse(sid)
	require.NoError(t, err)
	assert.Equal(t, sid, rec.Header().Get(CartSessionHeader))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, CartSessionCookie, cookies[0].Name)
	assert.Equal(t, sid, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
}

func TestCartSession_ReusesHeaderThenCookie(t *testing.T) {
	id := uuid.NewString()
	h := CartSession{}.Handler(echoSession())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(CartSessionHeader, id)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, id, rec.Body.String())
	assert.Empty(t, rec.Result().Cookies())

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CartSessionCookie, Value: id})
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, id, rec.Body.String())
}

func TestCartSession_RejectsForeignIDs(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(CartSessionHeader, "../other")
	rec := httptest.NewRecorder()
	CartSession{}.Handler(echoSession()).ServeHTTP(rec, req)

	assert.NotEqual(t, "../other", rec.Body.String())
	_, err := uuid.Parse(rec.Body.String())
	assert.NoError(t, err)
}

func TestMatchLanguage(t *testing.T) {
	assert.Equal(t, language.English, MatchLanguage("", "en-US,en;q=0.9"))
	assert.Equal(t, language.Arabic, MatchLanguage("", "ar-SA"))
	assert.Equal(t, language.Arabic, MatchLanguage("", "fr-FR"))
	assert.Equal(t, language.English, MatchLanguage("en", "ar"))
	assert.Equal(t, language.Arabic, MatchLanguage("", ""))
}

func TestLanguageMiddleware(t *testing.T) {
	var got language.Tag
	h := Language(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = RequestLanguage(r)
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Language", "en-GB")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, language.English, got)
	assert.Equal(t, "en", rec.Header().Get("Content-Language"))
}

type fakeVerifier struct{ uid string }

func (f fakeVerifier) VerifyIDToken(_ context.Context, tok string) (*fbauth.Token, error) {
	if tok != "good" {
		return nil, errors.New("bad token")
	}
	return &fbauth.Token{UID: f.uid, Claims: map[string]interface{}{"email": "admin@example.com"}}, nil
}

type fakeProfiles map[string]admindom.Profile

func (f fakeProfiles) GetByUID(_ context.Context, uid string) (admindom.Profile, error) {
	p, ok := f[uid]
	if !ok {
		return admindom.Profile{}, admindom.ErrNotFound
	}
	return p, nil
}

func TestAdminAuth(t *testing.T) {
	profiles := fakeProfiles{
		"u1": {UID: "u1", DisplayName: "Admin"},
		"u2": {UID: "u2", Disabled: true},
	}
	var seen admindom.Profile
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = CurrentAdmin(r)
	})

	cases := []struct {
		name   string
		uid    string
		header string
		status int
	}{
		{"missing", "u1", "", http.StatusUnauthorized},
		{"bad token", "u1", "Bearer nope", http.StatusUnauthorized},
		{"no profile", "u9", "Bearer good", http.StatusForbidden},
		{"disabled", "u2", "Bearer good", http.StatusForbidden},
		{"ok", "u1", "Bearer good", http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := &AdminAuth{Verifier: fakeVerifier{uid: tc.uid}, Profiles: profiles}
			req := httptest.NewRequest(http.MethodGet, "/console/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			m.Handler(next).ServeHTTP(rec, req)
			assert.Equal(t, tc.status, rec.Code)
		})
	}
	assert.Equal(t, "u1", seen.UID)
	assert.Equal(t, "admin@example.com", seen.Email)
}

func TestAdminAuth_NotConfigured(t *testing.T) {
	rec := httptest.NewRecorder()
	(&AdminAuth{}).Handler(http.NotFoundHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestCORS_Preflight(t *testing.T) {
	h := CORS([]string{"https://shop.example.com"})(http.NotFoundHandler())

	req := httptest.NewRequest(http.MethodOptions, "/store/cart", nil)
	req.Header.Set("Origin", "https://shop.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "https://shop.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Less(t, rec.Code, 300)
}

func TestRecover(t *testing.T) {
	rec := httptest.NewRecorder()
	Recover(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") })).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal"}`, rec.Body.String())
}
