package twitch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	DefaultTokenURL    = "https://id.twitch.tv/oauth2/token"
	DefaultValidateURL = "https://id.twitch.tv/oauth2/validate"

	// requestTimeout caps every outbound call to the auth endpoints.
	requestTimeout = 60 * time.Second
)

// Manager obtains and caches an app access token via the OAuth2
// client-credentials grant. One instance per run; Initialise must succeed
// before AuthHeaders is meaningful.
type Manager struct {
	creds  CredentialStore
	tokens TokenStore

	tokenURL    string
	validateURL string
	httpClient  *http.Client

	clientID    string
	accessToken string
}

type Option func(*Manager)

// WithEndpoints overrides the Twitch auth endpoints, mainly for tests.
func WithEndpoints(tokenURL, validateURL string) Option {
	return func(m *Manager) {
		m.tokenURL = tokenURL
		m.validateURL = validateURL
	}
}

func WithHTTPClient(client *http.Client) Option {
	return func(m *Manager) {
		m.httpClient = client
	}
}

func NewManager(creds CredentialStore, tokens TokenStore, opts ...Option) *Manager {
	m := &Manager{
		creds:       creds,
		tokens:      tokens,
		tokenURL:    DefaultTokenURL,
		validateURL: DefaultValidateURL,
		httpClient:  &http.Client{Timeout: requestTimeout},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// grantResponse is the token endpoint's answer to a client-credentials POST.
type grantResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
	TokenType   string `json:"token_type"`
}

// Initialise runs the validate-then-refresh flow and returns a usable access token.
//
// Branch order matters and is deliberate: missing credentials, missing token file
// and invalid cached token are distinct branches, not collapsed into one.
func (m *Manager) Initialise(ctx context.Context) (string, error) {
	creds, err := m.creds.LoadCredentials()
	if err != nil {
		return "", err
	}
	m.clientID = creds.ClientID

	record, err := m.tokens.LoadToken()
	switch {
	case errors.Is(err, ErrNoToken):
		log.Debug().Msg("no cached token, requesting a fresh one")
	case err != nil:
		return "", err
	default:
		valid, err := m.validate(ctx, record.AccessToken)
		if err != nil {
			return "", err
		}
		if valid {
			log.Debug().Msg("cached token accepted by validation endpoint")
			m.accessToken = record.AccessToken
			return m.accessToken, nil
		}
		log.Debug().Msg("cached token rejected, requesting a fresh one")
	}

	record, err = m.fetch(ctx, creds)
	if err != nil {
		return "", err
	}
	if err := m.tokens.SaveToken(record); err != nil {
		return "", err
	}

	m.accessToken = record.AccessToken
	return m.accessToken, nil
}

// AuthHeaders returns the headers IGDB expects on every query.
func (m *Manager) AuthHeaders() map[string]string {
	return map[string]string{
		"Client-ID":     m.clientID,
		"Authorization": "Bearer " + m.accessToken,
	}
}

// validate asks the remote validation endpoint whether the token is still good.
// A non-200 answer means "invalid", which is not an error by itself; only
// transport failures are.
func (m *Manager) validate(ctx context.Context, token string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.validateURL, nil)
	if err != nil {
		return false, fmt.Errorf("creating validation request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return false, &NetworkError{Op: "token validation", Wrapped: err}
	}
	defer func(body io.ReadCloser) {
		_ = body.Close()
	}(resp.Body)

	return resp.StatusCode == http.StatusOK, nil
}

// fetch performs the client-credentials grant exchange.
func (m *Manager) fetch(ctx context.Context, creds *ClientCredentials) (*TokenRecord, error) {
	form := url.Values{}
	form.Set("client_id", creds.ClientID)
	form.Set("client_secret", creds.ClientSecret)
	form.Set("grant_type", "client_credentials")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.tokenURL,
		strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("creating token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return nil, &NetworkError{Op: "token fetch", Wrapped: err}
	}
	defer func(body io.ReadCloser) {
		_ = body.Close()
	}(resp.Body)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Op: "token fetch", Wrapped: err}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &AuthError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	var grant grantResponse
	if err := json.Unmarshal(body, &grant); err != nil {
		return nil, fmt.Errorf("decoding token response: %w", err)
	}
	if grant.AccessToken == "" {
		return nil, &AuthError{StatusCode: resp.StatusCode, Body: "response contained no access_token"}
	}

	// expires_at is informational only; validity is always decided by the
	// remote validation endpoint, never by comparing against the local clock.
	return &TokenRecord{
		AccessToken: grant.AccessToken,
		ExpiresAt:   time.Now().Add(time.Duration(grant.ExpiresIn) * time.Second).Format(time.RFC3339),
		TokenType:   grant.TokenType,
	}, nil
}
