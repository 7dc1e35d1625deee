// internal/infra/secrets/secret_provider_sm.go
package secrets

import (
	"context"
	"errors"
	"fmt"
	"strings"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	secretmanagerpb "cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"github.com/googleapis/gax-go/v2"
)

var ErrNotConfigured = errors.New("secrets: secret manager not configured")

// accessor は secretmanager.Client のうち使う部分だけ。
type accessor interface {
	AccessSecretVersion(ctx context.Context, req *secretmanagerpb.AccessSecretVersionRequest, opts ...gax.CallOption) (*secretmanagerpb.AccessSecretVersionResponse, error)
}

// SecretProviderSM reads plain-text secrets (e.g. the SendGrid API key) from Secret Manager.
type SecretProviderSM struct {
	sm        accessor
	projectID string
}

func NewSecretProviderSM(sm *secretmanager.Client, projectID string) *SecretProviderSM {
	if sm == nil {
		return &SecretProviderSM{projectID: strings.TrimSpace(projectID)}
	}
	return &SecretProviderSM{sm: sm, projectID: strings.TrimSpace(projectID)}
}

// SecretName returns projects/{p}/secrets/{id}/versions/{v}. version defaults to latest.
func SecretName(projectID, secretID, version string) string {
	ver := strings.TrimSpace(version)
	if ver == "" {
		ver = "latest"
	}
	return "projects/" + strings.TrimSpace(projectID) + "/secrets/" + strings.TrimSpace(secretID) + "/versions/" + ver
}

// Get returns the trimmed payload of secretID@latest.
func (p *SecretProviderSM) Get(ctx context.Context, secretID string) (string, error) {
	if p == nil || p.sm == nil {
		return "", ErrNotConfigured
	}
	sid := strings.TrimSpace(secretID)
	if sid == "" {
		return "", errors.New("secrets: secretID is empty")
	}
	if p.projectID == "" {
		return "", errors.New("secrets: projectID is empty")
	}

	name := SecretName(p.projectID, sid, "")
	resp, err := p.sm.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{Name: name})
	if err != nil {
		return "", fmt.Errorf("secrets: AccessSecretVersion failed (%s): %w", name, err)
	}
	if resp == nil || resp.Payload == nil {
		return "", fmt.Errorf("secrets: empty payload (%s)", name)
	}
	return strings.TrimSpace(string(resp.Payload.Data)), nil
}
