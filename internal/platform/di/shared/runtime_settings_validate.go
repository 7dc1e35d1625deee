// internal/platform/di/shared/runtime_settings_validate.go
package shared

import (
	"fmt"
	"net/mail"
	"strings"

	appcfg "storefront/internal/infra/config"
)

// Validate performs hard validation for RuntimeSettings.
//
// Policy:
//   - fail fast for values that would cause undefined behavior,
//     while allowing optional features to remain disabled when settings are empty.
func (s RuntimeSettings) Validate() error {
	if s.Location == nil {
		return fmt.Errorf("shared.runtime_settings: Location is nil")
	}

	switch s.CatalogMode {
	case appcfg.CatalogModeLive, appcfg.CatalogModeFallback:
	default:
		return fmt.Errorf("shared.runtime_settings: CATALOG_MODE must be %q or %q (got %q)",
			appcfg.CatalogModeLive, appcfg.CatalogModeFallback, s.CatalogMode)
	}

	// PublicBaseURL is optional, but if set it must look like an HTTP(S) base URL.
	if u := s.PublicBaseURL; u != "" {
		rest, ok := strings.CutPrefix(u, "https://")
		if !ok {
			rest, ok = strings.CutPrefix(u, "http://")
		}
		if !ok || rest == "" {
			return fmt.Errorf("shared.runtime_settings: GCS_PUBLIC_BASE_URL must start with http:// or https:// (got %q)", u)
		}
	}

	// GCS bucket names cannot contain spaces.
	if strings.ContainsAny(s.ImageBucket, " \t\r\n") {
		return fmt.Errorf("shared.runtime_settings: GCS_BUCKET contains whitespace (got %q)", s.ImageBucket)
	}

	if s.MailFrom != "" {
		if _, err := mail.ParseAddress(s.MailFrom); err != nil {
			return fmt.Errorf("shared.runtime_settings: MAIL_FROM is not an address (got %q)", s.MailFrom)
		}
	}

	if len(s.KafkaBrokers) > 0 && s.KafkaOrderTopic == "" {
		return fmt.Errorf("shared.runtime_settings: KAFKA_ORDER_TOPIC is empty while KAFKA_BROKERS is set")
	}
	return nil
}
