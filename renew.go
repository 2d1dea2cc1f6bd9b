package goAuthClient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/MrEthical07/goAuthClient/credential"
)

type renewalRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type renewalResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// renewer performs the backend renewal exchange: it posts the refresh credential and
// returns the rotated pair. Every failure mode (network, non-2xx, malformed body,
// missing fields) wraps ErrRenewalFailed so callers collapse into one failure path.
type renewer struct {
	client    *http.Client
	url       string
	userAgent string
}

func newRenewer(client *http.Client, url, userAgent string) *renewer {
	if client == nil {
		client = &http.Client{}
	}
	return &renewer{
		client:    client,
		url:       url,
		userAgent: userAgent,
	}
}

func (r *renewer) renew(ctx context.Context, refreshToken string) (credential.Pair, error) {
	body, err := json.Marshal(renewalRequest{RefreshToken: refreshToken})
	if err != nil {
		return credential.Pair{}, fmt.Errorf("%w: encoding renewal request: %v", ErrRenewalFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(body))
	if err != nil {
		return credential.Pair{}, fmt.Errorf("%w: %v", ErrRenewalFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if r.userAgent != "" {
		req.Header.Set("User-Agent", r.userAgent)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return credential.Pair{}, fmt.Errorf("%w: %v", ErrRenewalFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return credential.Pair{}, fmt.Errorf("%w: reading renewal response: %v", ErrRenewalFailed, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return credential.Pair{}, fmt.Errorf("%w: renewal endpoint returned status %d", ErrRenewalFailed, resp.StatusCode)
	}

	var out renewalResponse
	if err := json.Unmarshal(payload, &out); err != nil {
		return credential.Pair{}, fmt.Errorf("%w: malformed renewal response: %v", ErrRenewalFailed, err)
	}
	if out.AccessToken == "" || out.RefreshToken == "" {
		return credential.Pair{}, fmt.Errorf("%w: renewal response missing credentials", ErrRenewalFailed)
	}

	return credential.Pair{
		AccessToken:  out.AccessToken,
		RefreshToken: out.RefreshToken,
	}, nil
}
