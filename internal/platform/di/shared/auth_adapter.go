// internal/platform/di/shared/auth_adapter.go
package shared

import (
	"log"

	"storefront/internal/adapters/in/http/middleware"
	outfs "storefront/internal/adapters/out/firestore"
)

// NewAdminAuth wires Firebase ID-token verification with adminProfiles/{uid}.
// Returns nil when Firestore or Firebase Auth is unavailable (console answers 503).
func NewAdminAuth(inf *Infra) *middleware.AdminAuth {
	if inf == nil || inf.FirebaseAuth == nil || inf.Firestore == nil {
		log.Printf("[shared.auth] WARN: firebase auth or firestore missing; admin auth disabled")
		return nil
	}
	return &middleware.AdminAuth{
		Verifier: inf.FirebaseAuth,
		Profiles: outfs.NewAdminProfileRepositoryFS(inf.Firestore),
	}
}
