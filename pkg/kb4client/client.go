// Package kb4client provides the main entry point for creating KnowBe4
// reporting API clients.
package kb4client

import (
	"fmt"
	"strings"

	"github.com/secmetrics-io/kb4/internal/client"
	"github.com/secmetrics-io/kb4/internal/constants"
	"github.com/secmetrics-io/kb4/pkg/kb4"
)

// knownRegions are the documented reporting API server regions.
var knownRegions = map[string]bool{
	"us": true,
	"eu": true,
	"ca": true,
	"uk": true,
	"de": true,
}

// New creates a new reporting API client from the config. The base URL is
// derived from the configured region unless an explicit endpoint override is
// set.
func New(config *kb4.Config) (kb4.Client, error) {
	if config == nil {
		return nil, kb4.ErrConfigRequired
	}

	endpoint, err := resolveEndpoint(config)
	if err != nil {
		return nil, err
	}

	apiClient, err := client.New(endpoint, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create new client: %w", err)
	}

	return apiClient, nil
}

// NewWithAPIKey creates a client for the given region using an explicit API
// key.
func NewWithAPIKey(region, apiKey string) (kb4.Client, error) {
	return New(&kb4.Config{Region: region, APIKey: apiKey})
}

// NewFromEnvironment creates a client that reads the API key from the
// KB4_API_KEY environment variable, prompting interactively as a fallback.
func NewFromEnvironment(region string) (kb4.Client, error) {
	return New(&kb4.Config{Region: region, PromptForKey: true})
}

// resolveEndpoint computes the base URL from the config. An explicit
// APIEndpoint wins over the region; the region must be one the service
// documents.
func resolveEndpoint(config *kb4.Config) (string, error) {
	if config.APIEndpoint != "" {
		endpoint := strings.TrimSuffix(config.APIEndpoint, "/")
		if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
			endpoint = "https://" + endpoint
		}

		return endpoint, nil
	}

	region := config.Region
	if region == "" {
		region = constants.DefaultRegion
	}

	region = strings.ToLower(region)
	if !knownRegions[region] {
		return "", fmt.Errorf("%w: %q", kb4.ErrUnknownRegion, config.Region)
	}

	return fmt.Sprintf(constants.RegionEndpointFormat, region), nil
}
