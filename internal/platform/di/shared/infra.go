// internal/platform/di/shared/infra.go
package shared

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"cloud.google.com/go/firestore"
	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/storage"
	"github.com/redis/go-redis/v9"

	firebase "firebase.google.com/go/v4"
	firebaseauth "firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	"storefront/internal/adapters/out/localstore"
	appcfg "storefront/internal/infra/config"
	"storefront/internal/infra/secrets"
)

// Infra is shared runtime infrastructure for DI.
// - owns external clients (Firestore/FirebaseAuth/GCS/SecretManager/Redis)
// - owns env/config-resolved runtime settings
//
// Firestore is optional: without a project id every repository falls back to memory.
// Infra must NOT depend on routers or handlers.
type Infra struct {
	Config    *appcfg.Config
	ProjectID string
	Settings  RuntimeSettings

	// Clients (owned; Close-managed)
	Firestore     *firestore.Client
	GCS           *storage.Client
	FirebaseApp   *firebase.App
	FirebaseAuth  *firebaseauth.Client
	SecretManager *secretmanager.Client
	Redis         *redis.Client
}

// NewInfra initializes shared infra.
// Firestore is strict when configured. Everything else is best-effort (warn + continue).
func NewInfra(ctx context.Context) (*Infra, error) {
	cfg := appcfg.Load()
	if cfg == nil {
		return nil, errors.New("shared.infra: config is nil")
	}

	settings, warns, err := ResolveRuntimeSettings(cfg)
	if err != nil {
		return nil, err
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	for _, w := range warns {
		log.Printf("[shared.infra] WARN: %s", w)
	}

	inf := &Infra{
		Config:    cfg,
		ProjectID: strings.TrimSpace(cfg.FirestoreProjectID),
		Settings:  settings,
	}

	// Redis (cart storage). 失敗したらプロセス内メモリに落とす。
	if cfg.RedisURL != "" {
		rc, err := localstore.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Printf("[shared.infra] WARN: redis unavailable: %v (carts are kept in process memory)", err)
		} else {
			inf.Redis = rc
			log.Printf("[shared.infra] Redis connected (cart ttl=%s)", cfg.CartTTL)
		}
	}

	if !cfg.FirestoreEnabled() {
		log.Printf("[shared.infra] FIRESTORE_PROJECT_ID is empty; running in memory mode (orders are not durable)")
		return inf, nil
	}

	// Credentials file (optional; mainly for local dev)
	var clientOpts []option.ClientOption
	if credFile := strings.TrimSpace(cfg.GCPCreds); credFile != "" {
		clientOpts = append(clientOpts, option.WithCredentialsFile(credFile))
		log.Printf("[shared.infra] Using credentials file for GCP clients: %s", redactPath(credFile))
	} else {
		log.Printf("[shared.infra] Using Application Default Credentials (no credentials file configured)")
	}

	// 1) Firestore (strict)
	fsClient, err := firestore.NewClient(ctx, inf.ProjectID, clientOpts...)
	if err != nil {
		_ = inf.Close()
		return nil, fmt.Errorf("shared.infra: firestore.NewClient failed (project=%s): %w", inf.ProjectID, err)
	}
	inf.Firestore = fsClient
	log.Printf("[shared.infra] Firestore connected project=%s", inf.ProjectID)

	// 2) Secret Manager (best-effort; SendGrid key)
	if sm, err := secretmanager.NewClient(ctx, clientOpts...); err != nil {
		log.Printf("[shared.infra] WARN: secretmanager.NewClient failed: %v", err)
	} else {
		inf.SecretManager = sm
	}

	// 3) GCS (best-effort; console images only)
	if settings.ImageBucket != "" {
		gcsClient, err := storage.NewClient(ctx, clientOpts...)
		if err != nil {
			log.Printf("[shared.infra] WARN: storage.NewClient failed: %v (image uploads disabled)", err)
		} else {
			inf.GCS = gcsClient
			log.Printf("[shared.infra] GCS storage client initialized bucket=%s", settings.ImageBucket)
		}
	}

	// 4) Firebase App/Auth (best-effort; console only)
	fbApp, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: inf.ProjectID}, clientOpts...)
	if err != nil {
		log.Printf("[shared.infra] WARN: firebase app init failed: %v", err)
	} else {
		inf.FirebaseApp = fbApp
		authClient, err := fbApp.Auth(ctx)
		if err != nil {
			log.Printf("[shared.infra] WARN: firebase auth init failed: %v", err)
		} else {
			inf.FirebaseAuth = authClient
			log.Printf("[shared.infra] Firebase Auth initialized")
		}
	}

	return inf, nil
}

// SendGridAPIKey returns SENDGRID_API_KEY, else the Secret Manager payload
// named by SENDGRID_API_KEY_SECRET. Empty means mail is disabled.
func (i *Infra) SendGridAPIKey(ctx context.Context) string {
	if i == nil || i.Config == nil {
		return ""
	}
	if k := strings.TrimSpace(i.Config.SendGridAPIKey); k != "" {
		return k
	}
	secretID := strings.TrimSpace(i.Config.SendGridAPIKeySecret)
	if secretID == "" || i.SecretManager == nil {
		return ""
	}
	key, err := secrets.NewSecretProviderSM(i.SecretManager, i.ProjectID).Get(ctx, secretID)
	if err != nil {
		log.Printf("[shared.infra] WARN: sendgrid key secret %q unavailable: %v", secretID, err)
		return ""
	}
	return key
}

func (i *Infra) Close() error {
	if i == nil {
		return nil
	}
	var errs []error
	if i.Firestore != nil {
		errs = append(errs, i.Firestore.Close())
	}
	if i.GCS != nil {
		errs = append(errs, i.GCS.Close())
	}
	if i.SecretManager != nil {
		errs = append(errs, i.SecretManager.Close())
	}
	if i.Redis != nil {
		errs = append(errs, i.Redis.Close())
	}
	return errors.Join(errs...)
}

func redactPath(p string) string {
	// Do not log full path (Windows/Unix compatible light masking)
	p = strings.TrimSpace(p)
	if p == "" {
		return ""
	}
	p = strings.ReplaceAll(p, "\\", "/")
	parts := strings.Split(p, "/")
	last := parts[len(parts)-1]
	if last == "" {
		return "***"
	}
	return "***/" + last
}
