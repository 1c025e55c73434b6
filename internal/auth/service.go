// Package auth implements the credential probe against the SAP backend. There
// is no session or token: the probe only classifies a Basic-Auth response.
package auth

import (
	"context"
	"log/slog"

	"github.com/po-mobile/po-gateway/internal/odata"
)

// Service validates user credentials with a minimal authenticated read.
type Service struct {
	client   *odata.Client
	resource string
	logger   *slog.Logger
}

// NewService builds the probe service. resource is the PO header entity set
// the probe reads with $top=1.
func NewService(client *odata.Client, resource string, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{client: client, resource: resource, logger: logger}
}

// Probe reports whether the supplied credentials are accepted by the backend.
// A 2xx response means valid, 401/403 means invalid (false, nil error), and
// anything else (timeout, network, 5xx) is returned as an error so callers
// can show "try again" instead of "wrong password".
func (s *Service) Probe(ctx context.Context, username, password string) (bool, error) {
	ok, err := s.client.Probe(ctx, s.resource, odata.Credentials{Username: username, Password: password})
	if err != nil {
		s.logger.Warn("credential probe failed", slog.String("username", username), slog.Any("error", err))
		return false, err
	}
	return ok, nil
}
