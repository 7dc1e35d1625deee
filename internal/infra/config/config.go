// internal/infra/config/config.go
package config

import (
	"os"
	"strings"
	"time"
	_ "time/tzdata" // STORE_TIMEZONE を distroless イメージでも解決する
)

// Catalog read model モード
const (
	CatalogModeLive     = "live"
	CatalogModeFallback = "fallback"
)

const defaultCartTTL = 7 * 24 * time.Hour

// Config はアプリケーション全体の環境変数設定を保持します。
type Config struct {
	Port string

	// GCP
	GCPCreds           string
	FirestoreProjectID string
	GCSBucket          string
	GCSPublicBaseURL   string

	// Cart (REDIS_URL が空ならプロセス内メモリ)
	RedisURL string
	CartTTL  time.Duration

	// Kafka (空なら order.created は発行しない)
	KafkaBrokers    []string
	KafkaOrderTopic string

	// Mail
	SendGridAPIKey       string
	SendGridAPIKeySecret string // Secret Manager の secret id
	MailFrom             string
	StoreName            string

	StoreTimezone      string
	CORSAllowedOrigins []string
	CatalogMode        string
}

// Load は環境変数を読み込み Config を返します。
func Load() *Config {
	cfg := &Config{
		Port: getenvDefault("PORT", "8080"),

		GCPCreds:           os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),
		FirestoreProjectID: strings.TrimSpace(os.Getenv("FIRESTORE_PROJECT_ID")),
		GCSBucket:          strings.TrimSpace(os.Getenv("GCS_BUCKET")),
		GCSPublicBaseURL:   strings.TrimRight(strings.TrimSpace(os.Getenv("GCS_PUBLIC_BASE_URL")), "/"),

		RedisURL: strings.TrimSpace(os.Getenv("REDIS_URL")),
		CartTTL:  getenvDuration("CART_TTL", defaultCartTTL),

		KafkaBrokers:    splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaOrderTopic: getenvDefault("KAFKA_ORDER_TOPIC", "storefront.orders"),

		SendGridAPIKey:       strings.TrimSpace(os.Getenv("SENDGRID_API_KEY")),
		SendGridAPIKeySecret: strings.TrimSpace(os.Getenv("SENDGRID_API_KEY_SECRET")),
		MailFrom:             strings.TrimSpace(os.Getenv("MAIL_FROM")),
		StoreName:            getenvDefault("STORE_NAME", "Storefront"),

		StoreTimezone:      getenvDefault("STORE_TIMEZONE", "Asia/Riyadh"),
		CORSAllowedOrigins: splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),
		CatalogMode:        strings.ToLower(getenvDefault("CATALOG_MODE", CatalogModeLive)),
	}

	if cfg.FirestoreProjectID == "" {
		// Cloud Run では GOOGLE_CLOUD_PROJECT が入っている
		cfg.FirestoreProjectID = strings.TrimSpace(os.Getenv("GOOGLE_CLOUD_PROJECT"))
	}
	return cfg
}

// FirestoreEnabled reports whether a Firestore project is configured.
// false のときは in-memory の fallback で動く。
func (c *Config) FirestoreEnabled() bool {
	return c != nil && c.FirestoreProjectID != ""
}

// Location は STORE_TIMEZONE を解決する。不正な値は UTC。
func (c *Config) Location() *time.Location {
	if c == nil || c.StoreTimezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.StoreTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func getenvDefault(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getenvDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
