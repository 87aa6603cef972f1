package constants

import "time"

// Pagination.
const (
	// ResultsPerPage is the fixed page size requested from every list
	// endpoint. A page with fewer results marks the end of the collection.
	ResultsPerPage = 500

	// FirstPage is the 1-based starting page number.
	FirstPage = 1
)

// Rate limiting.
const (
	// MaxConsecutiveRateLimitRetries bounds back-to-back 429 retries for one
	// logical request. A successful response resets the budget.
	MaxConsecutiveRateLimitRetries = 5

	// RetryAfterSlack is added to the server-provided Retry-After wait.
	RetryAfterSlack = 1 * time.Second

	// DefaultRetryAfter is used when a 429 response omits the Retry-After
	// header.
	DefaultRetryAfter = 5
)

// HTTP and network.
const (
	// DefaultHTTPTimeout is the default timeout for HTTP requests.
	DefaultHTTPTimeout = 30 * time.Second

	// DefaultRetryWaitMin is the minimum backoff between connection retries.
	DefaultRetryWaitMin = 1 * time.Second

	// DefaultRetryWaitMax is the maximum backoff between connection retries.
	DefaultRetryWaitMax = 10 * time.Second
)

// Credentials.
const (
	// APIKeyEnvVar is the environment variable holding the reporting API key.
	APIKeyEnvVar = "KB4_API_KEY"
)

// Endpoints.
const (
	// RegionEndpointFormat builds the versioned base URL for a server region.
	RegionEndpointFormat = "https://%s.api.knowbe4.com/v1"

	// DefaultRegion is used when no region is configured.
	DefaultRegion = "us"
)
