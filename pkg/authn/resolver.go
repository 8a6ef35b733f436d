// Package authn resolves the current user from the auth provider. The
// identity is fetched once per process session and treated as immutable
// afterwards.
package authn

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/kovon-io/go-insights/components/dashboard"
)

// UserSource fetches the authenticated user's identity.
type UserSource interface {
	CurrentUser(ctx context.Context) (dashboard.ViewerContext, error)
}

// HTTPSource resolves the identity from the auth provider's /me endpoint.
type HTTPSource struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewHTTPSource builds a source for the given provider URL and session
// token.
func NewHTTPSource(baseURL, token string) *HTTPSource {
	return &HTTPSource{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

type mePayload struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
}

// CurrentUser implements UserSource.
func (s *HTTPSource) CurrentUser(ctx context.Context) (dashboard.ViewerContext, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/me", nil)
	if err != nil {
		return dashboard.ViewerContext{}, fmt.Errorf("authn: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.token)

	resp, err := s.http.Do(req)
	if err != nil {
		return dashboard.ViewerContext{}, fmt.Errorf("authn: fetch current user: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return dashboard.ViewerContext{}, fmt.Errorf("authn: fetch current user: status %d", resp.StatusCode)
	}

	var payload mePayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return dashboard.ViewerContext{}, fmt.Errorf("authn: decode current user: %w", err)
	}
	if payload.UserID == "" {
		return dashboard.ViewerContext{}, fmt.Errorf("authn: current user has no id")
	}
	return dashboard.ViewerContext{UserID: payload.UserID, Email: payload.Email}, nil
}

// Resolver memoizes the first successful identity fetch. Failed fetches are
// retried on the next call; once resolved, the identity never changes.
type Resolver struct {
	source UserSource

	mu       sync.Mutex
	resolved bool
	viewer   dashboard.ViewerContext
}

// NewResolver wraps a source.
func NewResolver(source UserSource) *Resolver {
	return &Resolver{source: source}
}

// Resolve returns the session identity, fetching it on first use.
func (r *Resolver) Resolve(ctx context.Context) (dashboard.ViewerContext, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.resolved {
		return r.viewer, nil
	}
	viewer, err := r.source.CurrentUser(ctx)
	if err != nil {
		return dashboard.ViewerContext{}, err
	}
	r.viewer = viewer
	r.resolved = true
	return viewer, nil
}

// StaticSource returns a fixed identity, for tests and CLI tooling.
type StaticSource struct {
	Viewer dashboard.ViewerContext
}

// CurrentUser implements UserSource.
func (s StaticSource) CurrentUser(context.Context) (dashboard.ViewerContext, error) {
	return s.Viewer, nil
}
