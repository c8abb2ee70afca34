package proxy

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/masx-ai/flashpoint-pipeline/internal/apperr"
	"github.com/masx-ai/flashpoint-pipeline/internal/resilience/retry"
)

// providerResponse is the provider's wire shape for the proxy-list endpoint
// (§4.1): {success, data, message}.
type providerResponse struct {
	Success bool     `json:"success"`
	Data    []string `json:"data"`
	Message string   `json:"message"`
}

// fetchProxies calls the provider through the upstream circuit breaker and
// a retry-with-backoff wrapper, and unwraps the {success,data,message}
// envelope into a plain host:port list.
func (s *Service) fetchProxies(ctx context.Context) ([]string, error) {
	var list []string

	err := retry.WithBackoff(ctx, retry.ProxyFetchConfig(), func() error {
		result, cbErr := s.cb.Execute(func() (interface{}, error) {
			return s.doFetchProxies(ctx)
		})
		if cbErr != nil {
			return cbErr
		}
		list = result.([]string)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (s *Service) doFetchProxies(ctx context.Context) ([]string, error) {
	if s.cfg.BaseURL == "" {
		return nil, apperr.New(apperr.KindConfig, "proxy provider base URL not configured", nil)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.cfg.BaseURL+s.cfg.GetProxiesPath, nil)
	if err != nil {
		return nil, apperr.New(apperr.KindNetwork, "failed to build proxy list request", err)
	}
	s.applyAuth(req)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &retry.HTTPError{StatusCode: 0, Message: err.Error()}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		if err := classifyStatus(resp.StatusCode); err != nil {
			return nil, err
		}
		return nil, &retry.HTTPError{StatusCode: resp.StatusCode, Message: resp.Status}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, apperr.New(apperr.KindNetwork, "failed to read proxy list response", err)
	}

	var parsed providerResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, apperr.New(apperr.KindNetwork, "malformed proxy list response", err)
	}
	if !parsed.Success {
		return nil, apperr.New(apperr.KindNetwork, fmt.Sprintf("proxy provider reported failure: %s", parsed.Message), nil)
	}

	return parsed.Data, nil
}
