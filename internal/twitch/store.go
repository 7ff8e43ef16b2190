package twitch

import "fmt"

// ErrNoToken is returned by a TokenStore when no cached token exists.
// The manager treats it as "fetch a fresh one", never as a failure.
var ErrNoToken = fmt.Errorf("no cached token")

// ClientCredentials are the long-lived app credentials created by the operator.
// The program only ever reads them; the template is the single exception.
type ClientCredentials struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
}

// TokenRecord is the cached bearer token. Owned exclusively by the Manager and
// overwritten wholesale on every refresh.
type TokenRecord struct {
	AccessToken string `json:"access_token"`
	ExpiresAt   string `json:"expires_at"`
	TokenType   string `json:"token_type"`
}

// CredentialStore loads operator-maintained client credentials.
type CredentialStore interface {
	// LoadCredentials returns the credentials, or a *ConfigError if the file
	// is missing, malformed or still contains template placeholders.
	// Implementations should write a fillable template on first miss.
	LoadCredentials() (*ClientCredentials, error)
}

// TokenStore persists the cached bearer token between runs.
type TokenStore interface {
	LoadToken() (*TokenRecord, error)
	SaveToken(*TokenRecord) error
}
