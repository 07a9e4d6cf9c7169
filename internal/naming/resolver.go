// Package naming resolves addresses to human-readable names through an
// external HTTP resolver API.
package naming

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Resolver queries a reverse name-resolution endpoint. The endpoint
// takes an address as the final path segment and answers with a JSON
// body carrying an optional "name" field.
type Resolver struct {
	baseURL string
	client  *http.Client
}

// NewResolver builds a Resolver against the given API base URL.
func NewResolver(baseURL string, timeout time.Duration) *Resolver {
	return &Resolver{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

type resolveResponse struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
}

// Resolve returns the primary name for an address, or an error when the
// lookup fails or no name is set. Callers treat any error as "no name".
func (r *Resolver) Resolve(ctx context.Context, address string) (string, error) {
	url := fmt.Sprintf("%s/%s", r.baseURL, address)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("resolver returned %d", resp.StatusCode)
	}

	var body resolveResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decode resolver response: %w", err)
	}

	name := body.Name
	if name == "" {
		name = body.DisplayName
	}
	if name == "" {
		return "", fmt.Errorf("no name for %s", address)
	}
	return name, nil
}
