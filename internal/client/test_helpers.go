package client

import (
	"time"

	internalhttp "github.com/secmetrics-io/kb4/internal/http"
)

// NewTestClient creates a client against the given base URL without a token
// manager. Rate-limit backoff sleeps are skipped entirely.
func NewTestClient(baseURL string) *Client {
	return NewTestClientWithSleep(baseURL, func(time.Duration) {})
}

// NewTestClientWithSleep creates a test client with an injected sleep
// function so backoff behavior can be observed without waiting.
func NewTestClientWithSleep(baseURL string, sleep func(time.Duration)) *Client {
	httpClient := internalhttp.NewClient(baseURL, nil)

	client := &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
	}

	client.initialize(sleep)

	return client
}
