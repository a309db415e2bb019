package forwarding

import (
	"context"
	"crypto/tls"
	"net/http"
	"time"

	"fhirhub-service/internal/app/config"
	"fhirhub-service/internal/app/contracts"
	"fhirhub-service/internal/pkg/constvars"
	"fhirhub-service/internal/pkg/exceptions"
)

// AuthStrategy prepares the client and extra headers for one downstream
// attempt. Configuration problems are fatal and must surface before any
// network call.
type AuthStrategy interface {
	Name() string
	Prepare(ctx context.Context) (*http.Client, http.Header, error)
}

type noAuthStrategy struct {
	timeout time.Duration
}

func (s *noAuthStrategy) Name() string { return constvars.ForwardAuthNone }

func (s *noAuthStrategy) Prepare(ctx context.Context) (*http.Client, http.Header, error) {
	return &http.Client{Timeout: s.timeout}, http.Header{}, nil
}

type apiKeyStrategy struct {
	secrets    contracts.SecretStore
	headerName string
	secretName string
	timeout    time.Duration
}

func (s *apiKeyStrategy) Name() string { return constvars.ForwardAuthAPIKey }

func (s *apiKeyStrategy) Prepare(ctx context.Context) (*http.Client, http.Header, error) {
	if s.headerName == "" {
		return nil, nil, exceptions.ErrForwardAuthMisconfigured("api-key header name is not configured")
	}
	if s.secretName == "" {
		return nil, nil, exceptions.ErrForwardAuthMisconfigured("api-key secret name is not configured")
	}

	apiKey, err := s.secrets.GetSecret(ctx, s.secretName)
	if err != nil {
		return nil, nil, exceptions.ErrSecretNotFound(err, s.secretName)
	}
	if apiKey == "" {
		return nil, nil, exceptions.ErrForwardAuthMisconfigured("api-key secret is empty")
	}

	headers := http.Header{}
	headers.Set(s.headerName, apiKey)
	return &http.Client{Timeout: s.timeout}, headers, nil
}

type mtlsStrategy struct {
	secrets        contracts.SecretStore
	certSecretName string
	keySecretName  string
	timeout        time.Duration
}

func (s *mtlsStrategy) Name() string { return constvars.ForwardAuthMTLS }

func (s *mtlsStrategy) Prepare(ctx context.Context) (*http.Client, http.Header, error) {
	if s.certSecretName == "" || s.keySecretName == "" {
		return nil, nil, exceptions.ErrForwardAuthMisconfigured("mTLS cert or key secret name is not configured")
	}

	certPEM, err := s.secrets.GetSecret(ctx, s.certSecretName)
	if err != nil {
		return nil, nil, exceptions.ErrSecretNotFound(err, s.certSecretName)
	}
	keyPEM, err := s.secrets.GetSecret(ctx, s.keySecretName)
	if err != nil {
		return nil, nil, exceptions.ErrSecretNotFound(err, s.keySecretName)
	}
	if certPEM == "" || keyPEM == "" {
		return nil, nil, exceptions.ErrForwardAuthMisconfigured("mTLS cert or key material is empty")
	}

	certificate, err := tls.X509KeyPair([]byte(certPEM), []byte(keyPEM))
	if err != nil {
		return nil, nil, exceptions.ErrForwardAuthMisconfigured("mTLS key pair is not parseable: " + err.Error())
	}

	client := &http.Client{
		Timeout: s.timeout,
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{
				Certificates: []tls.Certificate{certificate},
			},
		},
	}
	return client, http.Header{}, nil
}

// resolveAuthStrategy maps a strategy name to a configured strategy. The
// per-message name comes from the request override when present, otherwise
// from the configured default.
func resolveAuthStrategy(name string, cfg config.AppForwarding, secrets contracts.SecretStore) (AuthStrategy, error) {
	timeout := time.Duration(cfg.RequestTimeoutInSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	switch name {
	case constvars.ForwardAuthNone, "":
		return &noAuthStrategy{timeout: timeout}, nil
	case constvars.ForwardAuthAPIKey:
		return &apiKeyStrategy{
			secrets:    secrets,
			headerName: cfg.APIKeyHeaderName,
			secretName: cfg.APIKeySecretName,
			timeout:    timeout,
		}, nil
	case constvars.ForwardAuthMTLS:
		return &mtlsStrategy{
			secrets:        secrets,
			certSecretName: cfg.MTLSCertSecretName,
			keySecretName:  cfg.MTLSKeySecretName,
			timeout:        timeout,
		}, nil
	default:
		return nil, exceptions.ErrForwardAuthMisconfigured("unknown auth strategy " + name)
	}
}
