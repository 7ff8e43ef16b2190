package twitch

import "fmt"

// ConfigError indicates a missing or malformed credential/token file.
// It is terminal for the current run: the operator has to fix the file and re-run.
type ConfigError struct {
	Path   string
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("configuration error in '%s': field '%s' %s", e.Path, e.Field, e.Reason)
	}
	return fmt.Sprintf("configuration error in '%s': %s", e.Path, e.Reason)
}

func configError(path, field, reason string) *ConfigError {
	return &ConfigError{Path: path, Field: field, Reason: reason}
}

// NetworkError wraps a transport-level failure (timeout, refused connection).
type NetworkError struct {
	Op      string
	Wrapped error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error during %s: %v", e.Op, e.Wrapped)
}

func (e *NetworkError) Unwrap() error {
	return e.Wrapped
}

// AuthError indicates the remote rejected the credential-grant exchange.
// The remote status and body are kept for diagnosis.
type AuthError struct {
	StatusCode int
	Body       string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("token endpoint rejected request (status %d): %s", e.StatusCode, e.Body)
}
