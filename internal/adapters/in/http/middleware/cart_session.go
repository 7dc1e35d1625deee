package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	CartSessionHeader = "X-Cart-Session"
	CartSessionCookie = "cart_session"
)

// context key は string を使わず、衝突回避のため独自型を使用
type ctxKey struct{ name string }

var (
	ctxKeyCartSession = ctxKey{name: "cartSession"}
	ctxKeyAdmin       = ctxKey{name: "adminProfile"}
	ctxKeyLang        = ctxKey{name: "lang"}
)

// CartSession resolves the shopper session id (header > cookie) or issues a new one.
// 新規発行した id はヘッダと cookie の両方で返す。
type CartSession struct {
	CookieTTL time.Duration
	Secure    bool
}

func (m CartSession) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sid := sanitizeSessionID(r.Header.Get(CartSessionHeader))
		if sid == "" {
			if c, err := r.Cookie(CartSessionCookie); err == nil {
				sid = sanitizeSessionID(c.Value)
			}
		}
		if sid == "" {
			sid = uuid.NewString()
			ttl := m.CookieTTL
			if ttl <= 0 {
				ttl = 7 * 24 * time.Hour
			}
			http.SetCookie(w, &http.Cookie{
				Name:     CartSessionCookie,
				Value:    sid,
				Path:     "/",
				MaxAge:   int(ttl / time.Second),
				HttpOnly: true,
				Secure:   m.Secure,
				SameSite: http.SameSiteLaxMode,
			})
		}
		w.Header().Set(CartSessionHeader, sid)

		ctx := context.WithValue(r.Context(), ctxKeyCartSession, sid)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// sanitizeSessionID accepts only uuid-shaped ids so a session cannot address
// another namespace in the cart store.
func sanitizeSessionID(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return ""
	}
	return id.String()
}

// CartSessionID returns the session id injected by CartSession.
func CartSessionID(r *http.Request) (string, bool) {
	s, ok := r.Context().Value(ctxKeyCartSession).(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

// WithCartSessionID is for tests and internal callers.
func WithCartSessionID(ctx context.Context, sid string) context.Context {
	return context.WithValue(ctx, ctxKeyCartSession, sid)
}
