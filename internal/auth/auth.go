// Package auth runs the OAuth2 authorization-code flow against Google and keeps
// the resulting tokens in a store.PropertyStore.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/ccfrost/photodrop/internal/store"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

var (
	ErrUnauthorized  = errors.New("not authorized")
	ErrStateMismatch = errors.New("oauth state mismatch")
)

// Config describes one OAuth2 service.
type Config struct {
	// Name identifies the service; stored properties are keyed by it.
	Name string

	AuthorizationURL string
	TokenURL         string
	ClientID         string
	ClientSecret     string
	// RedirectURL is the callback that completes the flow.
	RedirectURL string

	Store  store.PropertyStore
	Scopes []string
	// Params are added to the authorization URL, eg access_type, prompt and
	// login_hint.
	Params map[string]string
}

// Service is an OAuth2 authorizer backed by a property store.
type Service struct {
	name   string
	conf   *oauth2.Config
	store  store.PropertyStore
	params map[string]string
}

// NewService validates cfg and returns a Service for it.
func NewService(cfg Config) (*Service, error) {
	if cfg.Name == "" {
		return nil, fmt.Errorf("oauth service name is empty")
	}
	if cfg.Store == nil {
		return nil, fmt.Errorf("oauth service %s has no property store", cfg.Name)
	}
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, fmt.Errorf("oauth service %s: missing client id or client secret (set %s and %s)",
			cfg.Name, store.KeyClientID, store.KeyClientSecret)
	}
	if cfg.RedirectURL == "" {
		return nil, fmt.Errorf("oauth service %s: missing redirect url", cfg.Name)
	}

	endpoint := google.Endpoint
	if cfg.AuthorizationURL != "" {
		endpoint.AuthURL = cfg.AuthorizationURL
	}
	if cfg.TokenURL != "" {
		endpoint.TokenURL = cfg.TokenURL
	}

	params := make(map[string]string, len(cfg.Params))
	for k, v := range cfg.Params {
		if v != "" {
			params[k] = v
		}
	}

	return &Service{
		name: cfg.Name,
		conf: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       cfg.Scopes,
			Endpoint:     endpoint,
		},
		store:  cfg.Store,
		params: params,
	}, nil
}

func (s *Service) tokenKey() string {
	return "oauth2." + strings.ToLower(s.name)
}

func (s *Service) stateKey() string {
	return s.tokenKey() + ".state"
}

// RedirectURL returns the callback URL that must be registered with the
// provider.
func (s *Service) RedirectURL() string {
	return s.conf.RedirectURL
}

// IsAuthorized reports whether a usable token is stored: one that is still
// valid or that can be refreshed.
func (s *Service) IsAuthorized(ctx context.Context) bool {
	token, err := s.loadToken(ctx)
	if err != nil || token == nil {
		return false
	}
	return token.Valid() || token.RefreshToken != ""
}

// AuthorizationURL returns the URL a user opens to grant access.
// Each call issues a new state value, replacing the previous one.
func (s *Service) AuthorizationURL(ctx context.Context) (string, error) {
	state := uuid.NewString()
	if err := s.store.SetProperty(ctx, s.stateKey(), state); err != nil {
		return "", fmt.Errorf("failed to save oauth state: %w", err)
	}

	opts := make([]oauth2.AuthCodeOption, 0, len(s.params))
	for k, v := range s.params {
		opts = append(opts, oauth2.SetAuthURLParam(k, v))
	}
	return s.conf.AuthCodeURL(state, opts...), nil
}

// AccessToken returns a current access token, refreshing and re-saving the
// stored token when it has expired.
func (s *Service) AccessToken(ctx context.Context) (string, error) {
	token, err := s.currentToken(ctx)
	if err != nil {
		return "", err
	}
	return token.AccessToken, nil
}

// HTTPClient returns a client that authorizes its requests with the stored
// token. Tokens it refreshes are written back to the store.
func (s *Service) HTTPClient(ctx context.Context) (*http.Client, error) {
	token, err := s.currentToken(ctx)
	if err != nil {
		return nil, err
	}
	return oauth2.NewClient(ctx, s.tokenSource(ctx, token)), nil
}

func (s *Service) tokenSource(ctx context.Context, token *oauth2.Token) oauth2.TokenSource {
	return &savingTokenSource{
		ctx:     ctx,
		svc:     s,
		src:     oauth2.ReuseTokenSource(token, s.conf.TokenSource(ctx, token)),
		last:    token.AccessToken,
		refresh: token.RefreshToken,
	}
}

// savingTokenSource saves every token that differs from the last one seen.
type savingTokenSource struct {
	ctx context.Context
	svc *Service
	src oauth2.TokenSource

	mu      sync.Mutex
	last    string
	refresh string
}

func (ts *savingTokenSource) Token() (*oauth2.Token, error) {
	token, err := ts.src.Token()
	if err != nil {
		return nil, err
	}
	ts.mu.Lock()
	defer ts.mu.Unlock()
	if token.AccessToken == ts.last {
		return token, nil
	}
	if token.RefreshToken == "" {
		token.RefreshToken = ts.refresh
	}
	if err := ts.svc.saveToken(ts.ctx, token); err != nil {
		return nil, err
	}
	ts.last = token.AccessToken
	ts.refresh = token.RefreshToken
	return token, nil
}

func (s *Service) currentToken(ctx context.Context) (*oauth2.Token, error) {
	token, err := s.loadToken(ctx)
	if err != nil {
		return nil, err
	}
	if token == nil || !(token.Valid() || token.RefreshToken != "") {
		return nil, ErrUnauthorized
	}
	if token.Valid() {
		return token, nil
	}

	fresh, err := s.conf.TokenSource(ctx, token).Token()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to refresh token: %v", ErrUnauthorized, err)
	}
	if fresh.RefreshToken == "" {
		fresh.RefreshToken = token.RefreshToken
	}
	if err := s.saveToken(ctx, fresh); err != nil {
		return nil, err
	}
	return fresh, nil
}

// Reset forgets the stored token, so the flow can be re-run.
func (s *Service) Reset(ctx context.Context) error {
	if err := s.store.DeleteProperty(ctx, s.tokenKey()); err != nil {
		return fmt.Errorf("failed to delete token: %w", err)
	}
	if err := s.store.DeleteProperty(ctx, s.stateKey()); err != nil {
		return fmt.Errorf("failed to delete oauth state: %w", err)
	}
	return nil
}

// HandleCallback completes the flow from the provider's redirect request.
// It returns false with a nil error when the user denied access.
func (s *Service) HandleCallback(ctx context.Context, r *http.Request) (bool, error) {
	query := r.URL.Query()
	if errParam := query.Get("error"); errParam != "" {
		return false, nil
	}

	expected, ok, err := s.store.GetProperty(ctx, s.stateKey())
	if err != nil {
		return false, fmt.Errorf("failed to load oauth state: %w", err)
	}
	if !ok || expected == "" || query.Get("state") != expected {
		return false, ErrStateMismatch
	}

	code := query.Get("code")
	if code == "" {
		return false, fmt.Errorf("code not found in callback request")
	}

	token, err := s.conf.Exchange(ctx, code)
	if err != nil {
		return false, fmt.Errorf("unable to retrieve token from web exchange: %w", err)
	}
	if err := s.saveToken(ctx, token); err != nil {
		return false, err
	}
	if err := s.store.DeleteProperty(ctx, s.stateKey()); err != nil {
		return false, fmt.Errorf("failed to delete oauth state: %w", err)
	}
	return true, nil
}

func (s *Service) loadToken(ctx context.Context) (*oauth2.Token, error) {
	raw, ok, err := s.store.GetProperty(ctx, s.tokenKey())
	if err != nil {
		return nil, fmt.Errorf("failed to load token: %w", err)
	}
	if !ok || raw == "" {
		return nil, nil
	}
	token := &oauth2.Token{}
	if err := json.Unmarshal([]byte(raw), token); err != nil {
		return nil, fmt.Errorf("failed to decode stored token: %w", err)
	}
	return token, nil
}

func (s *Service) saveToken(ctx context.Context, token *oauth2.Token) error {
	b, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("failed to encode token: %w", err)
	}
	if err := s.store.SetProperty(ctx, s.tokenKey(), string(b)); err != nil {
		return fmt.Errorf("unable to cache oauth token: %w", err)
	}
	return nil
}
