package kb4

import (
	"context"
	"net/http"
	"time"
)

// UsersClient provides read access to the users endpoints.
type UsersClient interface {
	// List retrieves every user matching the options, across all pages.
	List(ctx context.Context, opts *UserListOptions) ([]User, error)
	// Get retrieves a single user by ID.
	Get(ctx context.Context, userID int) (*User, error)
}

// GroupsClient provides read access to the groups endpoints.
type GroupsClient interface {
	List(ctx context.Context, opts *GroupListOptions) ([]Group, error)
	Get(ctx context.Context, groupID int) (*Group, error)
}

// AccountClient provides read access to the account endpoint.
type AccountClient interface {
	// Get retrieves the organization account record. When full is true the
	// entire risk score history is returned instead of the last six months.
	Get(ctx context.Context, full bool) (*Account, error)
	// Admins retrieves the console administrators from the account record.
	Admins(ctx context.Context) ([]Admin, error)
}

// PhishingClient provides read access to the phishing reporting endpoints.
type PhishingClient interface {
	ListCampaigns(ctx context.Context) ([]PhishingCampaign, error)
	GetCampaign(ctx context.Context, campaignID int) (*PhishingCampaign, error)
	ListSecurityTests(ctx context.Context, opts *SecurityTestListOptions) ([]PhishingSecurityTest, error)
	GetSecurityTest(ctx context.Context, pstID int) (*PhishingSecurityTest, error)
	ListRecipients(ctx context.Context, pstID int) ([]PhishingCampaignRecipient, error)
	GetRecipient(ctx context.Context, pstID, recipientID int) (*PhishingCampaignRecipient, error)
}

// TrainingClient provides read access to the training reporting endpoints.
type TrainingClient interface {
	ListStorePurchases(ctx context.Context) ([]StorePurchase, error)
	GetStorePurchase(ctx context.Context, storePurchaseID int) (*StorePurchase, error)
	ListPolicies(ctx context.Context) ([]Policy, error)
	GetPolicy(ctx context.Context, policyID int) (*Policy, error)
	ListCampaigns(ctx context.Context) ([]TrainingCampaign, error)
	GetCampaign(ctx context.Context, campaignID int) (*TrainingCampaign, error)
	ListEnrollments(ctx context.Context, opts *EnrollmentListOptions) ([]TrainingEnrollment, error)
	GetEnrollment(ctx context.Context, enrollmentID int) (*TrainingEnrollment, error)
}

// Client is the top-level KnowBe4 reporting API client.
type Client interface {
	Users() UsersClient
	Groups() GroupsClient
	Account() AccountClient
	Phishing() PhishingClient
	Training() TrainingClient
}

// UserListOptions filters a user listing.
type UserListOptions struct {
	// Status filters on "active" or "archived". Empty defaults to active.
	Status string
	// GroupID restricts the listing to members of one group.
	GroupID int
	// Expand requests full group objects inline instead of bare IDs.
	Expand bool
}

// GroupListOptions filters a group listing.
type GroupListOptions struct {
	// Status filters on "active" or "archived". Empty defaults to active.
	Status string
}

// SecurityTestListOptions filters a phishing security test listing. At most
// one of CampaignID and SecurityTestID may be set.
type SecurityTestListOptions struct {
	CampaignID     int
	SecurityTestID int
}

// EnrollmentListOptions filters a training enrollment listing.
type EnrollmentListOptions struct {
	StorePurchaseID int
	CampaignID      int
	UserID          int
}

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Config represents client configuration for building a kb4.Client.
//
// # Authentication
//
// The reporting API uses a raw bearer token sent as the Authorization header
// value, without a "Bearer " prefix. Precedence applied by kb4client.New:
//  1. APIKey: used directly for the lifetime of the client.
//  2. Neither APIKey nor PromptForKey: the KB4_API_KEY environment variable is
//     read once at construction.
//  3. PromptForKey: when the environment variable is also unset, the key is
//     solicited interactively on first use and kept in process state for the
//     remainder of the run.
//
// # Endpoint selection
//
// Region selects one of the documented API hosts
// ("https://<region>.api.knowbe4.com/v1"). APIEndpoint overrides the computed
// host entirely, which is mainly useful for tests and proxies.
type Config struct {
	// APIKey is the reporting API token from the KnowBe4 console.
	APIKey string
	// Region is the console's server region: us, eu, ca, uk, or de.
	// Defaults to us.
	Region string
	// APIEndpoint overrides the region-derived base URL when set.
	APIEndpoint string
	// PromptForKey enables the interactive terminal prompt fallback when no
	// key is configured or present in the environment.
	PromptForKey bool

	// HTTPClient overrides the underlying *http.Client used by the transport.
	HTTPClient *http.Client
	// HTTPTimeout is the per-request timeout applied when HTTPClient is nil.
	HTTPTimeout time.Duration
	// RetryMax bounds transport-level retries for connection failures. HTTP
	// status handling (401, 429) is never delegated to these retries.
	RetryMax int
	// RetryWaitMin is the minimum backoff between connection retries.
	RetryWaitMin time.Duration
	// RetryWaitMax is the maximum backoff between connection retries.
	RetryWaitMax time.Duration
	// Debug enables verbose HTTP request/response logging when a Logger is
	// provided.
	Debug bool
	// Logger: optional structured logger used by the HTTP layer.
	Logger Logger
	// UserAgent overrides the default User-Agent header sent by the client.
	UserAgent string
}
