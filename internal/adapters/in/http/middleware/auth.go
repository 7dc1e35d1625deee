// internal/adapters/in/http/middleware/auth.go
package middleware

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	fbauth "firebase.google.com/go/v4/auth"

	admindom "storefront/internal/domain/admin"
)

// TokenVerifier は *fbauth.Client が満たす。
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*fbauth.Token, error)
}

// AdminAuth は
//
//   - Authorization: Bearer <ID_TOKEN>
//
// を検証し、adminProfiles/{uid} が存在して有効な場合のみ次のハンドラへ渡す。
type AdminAuth struct {
	Verifier TokenVerifier
	Profiles admindom.Repository
}

func (m *AdminAuth) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.Verifier == nil || m.Profiles == nil {
			writeAuthErr(w, http.StatusServiceUnavailable, "auth_not_configured")
			return
		}

		authHeader := r.Header.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			writeAuthErr(w, http.StatusUnauthorized, "missing_bearer_token")
			return
		}
		idToken := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if idToken == "" {
			writeAuthErr(w, http.StatusUnauthorized, "missing_bearer_token")
			return
		}

		token, err := m.Verifier.VerifyIDToken(r.Context(), idToken)
		if err != nil || token == nil || strings.TrimSpace(token.UID) == "" {
			writeAuthErr(w, http.StatusUnauthorized, "invalid_token")
			return
		}
		uid := strings.TrimSpace(token.UID)

		// uid → adminProfiles
		profile, err := m.Profiles.GetByUID(r.Context(), uid)
		if err != nil {
			if errors.Is(err, admindom.ErrNotFound) {
				log.Printf("[AdminAuth] path=%s uid=%s has no admin profile", r.URL.Path, uid)
				writeAuthErr(w, http.StatusForbidden, "forbidden")
				return
			}
			log.Printf("[AdminAuth] path=%s uid=%s profile lookup failed: %v", r.URL.Path, uid, err)
			writeAuthErr(w, http.StatusServiceUnavailable, "unavailable")
			return
		}
		if !profile.CanAccessConsole() {
			writeAuthErr(w, http.StatusForbidden, "forbidden")
			return
		}
		if profile.Email == "" {
			if e, ok := token.Claims["email"].(string); ok {
				profile.Email = strings.TrimSpace(e)
			}
		}

		ctx := WithAdminProfile(r.Context(), profile)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// CurrentAdmin は middleware で検証された管理者プロフィールを返します。
func CurrentAdmin(r *http.Request) (admindom.Profile, bool) {
	p, ok := r.Context().Value(ctxKeyAdmin).(admindom.Profile)
	return p, ok
}

func WithAdminProfile(ctx context.Context, p admindom.Profile) context.Context {
	return context.WithValue(ctx, ctxKeyAdmin, p)
}

func writeAuthErr(w http.ResponseWriter, status int, code string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`{"error":"` + code + `"}`))
}
