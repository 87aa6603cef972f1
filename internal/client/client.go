// Package client implements the kb4.Client interface.
package client

import (
	"context"
	"fmt"
	nethttp "net/http"
	"os"
	"time"

	"github.com/secmetrics-io/kb4/internal/auth"
	"github.com/secmetrics-io/kb4/internal/constants"
	"github.com/secmetrics-io/kb4/internal/http"
	"github.com/secmetrics-io/kb4/pkg/kb4"
)

// Client implements the kb4.Client interface.
type Client struct {
	httpClient   *http.Client
	tokenManager auth.TokenManager
	baseURL      string
	logger       kb4.Logger
	pager        *pager
	resolver     *resolver

	// Resource clients
	users    kb4.UsersClient
	groups   kb4.GroupsClient
	account  kb4.AccountClient
	phishing kb4.PhishingClient
	training kb4.TrainingClient
}

// createTokenManager picks a token manager based on the configured
// credentials. An explicit APIKey wins; otherwise the key comes from the
// environment, with an optional interactive prompt fallback.
func createTokenManager(config *kb4.Config) auth.TokenManager {
	if config.APIKey != "" {
		return auth.NewStaticTokenManager(config.APIKey)
	}

	var prompt auth.PromptFunc
	if config.PromptForKey {
		prompt = auth.TerminalPrompt(os.Stderr)
	}

	return auth.NewEnvTokenManager(constants.APIKeyEnvVar, prompt)
}

// createHTTPClientOptions builds HTTP client options from config.
func createHTTPClientOptions(config *kb4.Config) []http.Option {
	var httpOpts []http.Option

	if config.Logger != nil {
		httpOpts = append(httpOpts, http.WithLogger(&loggerAdapter{logger: config.Logger}))
	}

	if config.Debug {
		httpOpts = append(httpOpts, http.WithDebug(true))
	}

	if config.UserAgent != "" {
		httpOpts = append(httpOpts, http.WithUserAgent(config.UserAgent))
	}

	if config.HTTPClient != nil {
		httpOpts = append(httpOpts, http.WithHTTPClient(config.HTTPClient))
	} else if config.HTTPTimeout > 0 {
		httpOpts = append(httpOpts, http.WithHTTPClient(newTimeoutHTTPClient(config.HTTPTimeout)))
	}

	if config.RetryMax > 0 {
		retryWaitMin := constants.DefaultRetryWaitMin
		retryWaitMax := constants.DefaultRetryWaitMax

		if config.RetryWaitMin > 0 {
			retryWaitMin = config.RetryWaitMin
		}

		if config.RetryWaitMax > 0 {
			retryWaitMax = config.RetryWaitMax
		}

		httpOpts = append(httpOpts, http.WithRetryConfig(config.RetryMax, retryWaitMin, retryWaitMax))
	}

	return httpOpts
}

// New creates a new reporting API client against the given base URL.
func New(baseURL string, config *kb4.Config) (*Client, error) {
	if config == nil {
		return nil, kb4.ErrConfigRequired
	}

	if baseURL == "" {
		return nil, kb4.ErrAPIEndpointRequired
	}

	tokenManager := createTokenManager(config)
	httpClient := http.NewClient(baseURL, tokenManager, createHTTPClientOptions(config)...)

	client := &Client{
		httpClient:   httpClient,
		tokenManager: tokenManager,
		baseURL:      baseURL,
		logger:       config.Logger,
	}

	client.initialize(time.Sleep)

	return client, nil
}

// NewWithTokenManager creates a client with a caller-supplied token manager.
func NewWithTokenManager(baseURL string, config *kb4.Config, tokenManager auth.TokenManager) (*Client, error) {
	if config == nil {
		return nil, kb4.ErrConfigRequired
	}

	if baseURL == "" {
		return nil, kb4.ErrAPIEndpointRequired
	}

	if tokenManager == nil {
		return nil, kb4.ErrNoTokenManager
	}

	httpClient := http.NewClient(baseURL, tokenManager, createHTTPClientOptions(config)...)

	client := &Client{
		httpClient:   httpClient,
		tokenManager: tokenManager,
		baseURL:      baseURL,
		logger:       config.Logger,
	}

	client.initialize(time.Sleep)

	return client, nil
}

// initialize wires the paginator, the reference resolver, and the resource
// clients. The sleep function is injectable for tests.
func (c *Client) initialize(sleep func(time.Duration)) {
	c.pager = newPager(c.httpClient, c.logger, sleep)
	c.resolver = newResolver(c)

	c.users = &usersClient{client: c}
	c.groups = &groupsClient{client: c}
	c.account = &accountClient{client: c}
	c.phishing = &phishingClient{client: c}
	c.training = &trainingClient{client: c}
}

// GetTokenManager returns the token manager for this client.
func (c *Client) GetTokenManager() auth.TokenManager {
	return c.tokenManager
}

// GetToken returns the current API key from the token manager.
func (c *Client) GetToken(ctx context.Context) (string, error) {
	if c.tokenManager == nil {
		return "", kb4.ErrNoTokenManager
	}

	token, err := c.tokenManager.GetToken(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get token: %w", err)
	}

	return token, nil
}

// Users implements kb4.Client.Users.
func (c *Client) Users() kb4.UsersClient {
	return c.users
}

// Groups implements kb4.Client.Groups.
func (c *Client) Groups() kb4.GroupsClient {
	return c.groups
}

// Account implements kb4.Client.Account.
func (c *Client) Account() kb4.AccountClient {
	return c.account
}

// Phishing implements kb4.Client.Phishing.
func (c *Client) Phishing() kb4.PhishingClient {
	return c.phishing
}

// Training implements kb4.Client.Training.
func (c *Client) Training() kb4.TrainingClient {
	return c.training
}

// newTimeoutHTTPClient builds a plain *http.Client with the given timeout.
func newTimeoutHTTPClient(timeout time.Duration) *nethttp.Client {
	return &nethttp.Client{Timeout: timeout}
}

// loggerAdapter adapts kb4.Logger to http.Logger.
type loggerAdapter struct {
	logger kb4.Logger
}

func (l *loggerAdapter) Debug(msg string, fields map[string]interface{}) {
	l.logger.Debug(msg, fields)
}

func (l *loggerAdapter) Info(msg string, fields map[string]interface{}) {
	l.logger.Info(msg, fields)
}

func (l *loggerAdapter) Warn(msg string, fields map[string]interface{}) {
	l.logger.Warn(msg, fields)
}

func (l *loggerAdapter) Error(msg string, fields map[string]interface{}) {
	l.logger.Error(msg, fields)
}
