// internal/platform/di/shared/runtime_settings.go
package shared

import (
	"errors"
	"strings"
	"time"

	appcfg "storefront/internal/infra/config"
)

// RuntimeSettings is env/config-resolved runtime settings (normalized once).
// It intentionally contains only "values" (no external clients).
type RuntimeSettings struct {
	// Order month / createdAt はこのタイムゾーンで決める
	Location *time.Location

	CatalogMode string

	// Images (console)
	ImageBucket   string
	PublicBaseURL string

	// Notifications
	MailFrom        string
	StoreName       string
	KafkaBrokers    []string
	KafkaOrderTopic string

	CORSAllowedOrigins []string
}

// ResolveRuntimeSettings resolves and normalizes runtime settings from cfg.
//
// Notes:
// - This function is side-effect free (no logging).
// - It returns warnings as strings so callers can decide how to surface them.
func ResolveRuntimeSettings(cfg *appcfg.Config) (RuntimeSettings, []string, error) {
	if cfg == nil {
		return RuntimeSettings{}, nil, errors.New("shared.runtime_settings: cfg is nil")
	}

	var warns []string
	s := RuntimeSettings{
		Location:           cfg.Location(),
		CatalogMode:        strings.ToLower(strings.TrimSpace(cfg.CatalogMode)),
		ImageBucket:        strings.TrimSpace(cfg.GCSBucket),
		PublicBaseURL:      normalizeBaseURL(cfg.GCSPublicBaseURL),
		MailFrom:           strings.TrimSpace(cfg.MailFrom),
		StoreName:          strings.TrimSpace(cfg.StoreName),
		KafkaBrokers:       cfg.KafkaBrokers,
		KafkaOrderTopic:    strings.TrimSpace(cfg.KafkaOrderTopic),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	}
	if s.CatalogMode == "" {
		s.CatalogMode = appcfg.CatalogModeLive
	}

	if tz := strings.TrimSpace(cfg.StoreTimezone); tz != "" && s.Location.String() != tz {
		warns = append(warns, "STORE_TIMEZONE "+cfg.StoreTimezone+" could not be loaded; using UTC")
	}
	if s.ImageBucket == "" {
		warns = append(warns, "GCS_BUCKET is empty (console image uploads are disabled)")
	}
	if s.MailFrom == "" {
		warns = append(warns, "MAIL_FROM is empty (order confirmation mails are disabled)")
	}
	if len(s.KafkaBrokers) == 0 {
		warns = append(warns, "KAFKA_BROKERS is empty (order.created events are not published)")
	}
	if len(s.CORSAllowedOrigins) == 0 {
		warns = append(warns, "CORS_ALLOWED_ORIGINS is empty (any origin is allowed)")
	}

	return s, warns, nil
}

func normalizeBaseURL(u string) string {
	u = strings.TrimSpace(u)
	if u == "" {
		return ""
	}
	return strings.TrimRight(u, "/")
}
