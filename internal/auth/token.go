// Package auth supplies the API key attached to every reporting API request.
package auth

import (
	"context"
	"os"
	"sync"

	"github.com/secmetrics-io/kb4/pkg/kb4"
)

// TokenManager supplies the current API key. GetToken is called before every
// request, so implementations must be cheap on the hot path.
type TokenManager interface {
	GetToken(ctx context.Context) (string, error)
	SetToken(token string)
}

// PromptFunc solicits an API key interactively.
type PromptFunc func() (string, error)

// StaticTokenManager provides a fixed API key.
type StaticTokenManager struct {
	mu    sync.RWMutex
	token string
}

// NewStaticTokenManager creates a token manager around a fixed key.
func NewStaticTokenManager(token string) *StaticTokenManager {
	return &StaticTokenManager{token: token}
}

// GetToken returns the stored key.
func (m *StaticTokenManager) GetToken(ctx context.Context) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.token == "" {
		return "", kb4.ErrAPIKeyRequired
	}

	return m.token, nil
}

// SetToken replaces the stored key.
func (m *StaticTokenManager) SetToken(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.token = token
}

// EnvTokenManager reads the API key from an environment variable, falling
// back to an interactive prompt when the variable is unset. A prompted key is
// written back into the environment so it survives for the remainder of the
// process. The read-check-prompt-write sequence is mutex-guarded.
type EnvTokenManager struct {
	envKey string
	prompt PromptFunc

	mu    sync.Mutex
	token string
}

// NewEnvTokenManager creates an environment-backed token manager. prompt may
// be nil, in which case an unset variable is an error.
func NewEnvTokenManager(envKey string, prompt PromptFunc) *EnvTokenManager {
	return &EnvTokenManager{envKey: envKey, prompt: prompt}
}

// GetToken returns the cached key, the environment value, or the result of a
// one-time prompt, in that order.
func (m *EnvTokenManager) GetToken(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.token != "" {
		return m.token, nil
	}

	if v := os.Getenv(m.envKey); v != "" {
		m.token = v

		return m.token, nil
	}

	if m.prompt == nil {
		return "", kb4.ErrTokenPromptUnavailable
	}

	token, err := m.prompt()
	if err != nil {
		return "", err
	}

	if token == "" {
		return "", kb4.ErrAPIKeyRequired
	}

	m.token = token
	_ = os.Setenv(m.envKey, token)

	return m.token, nil
}

// SetToken replaces the key in process state and in the environment.
func (m *EnvTokenManager) SetToken(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.token = token
	_ = os.Setenv(m.envKey, token)
}

// Reset discards the stored key so the next GetToken prompts again.
func (m *EnvTokenManager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.token = ""
	_ = os.Unsetenv(m.envKey)
}
