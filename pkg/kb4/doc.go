// Package kb4 provides types, interfaces, and errors for working with the
// KnowBe4 Reporting API.
//
// # Overview
//
// The kb4 package defines the domain records (User, Group, PhishingCampaign,
// PhishingSecurityTest, TrainingCampaign, TrainingEnrollment, StorePurchase,
// Policy, Account) and the interfaces for the resource-oriented clients
// (UsersClient, GroupsClient, AccountClient, PhishingClient, TrainingClient).
// A concrete implementation is provided by the kb4client package, which wires
// configuration, transport, authentication, pagination, and reference
// hydration. Most consumers should import kb4client to construct a client and
// then interact with the resource interfaces exposed here.
//
// Getting a client
//
//	import (
//	  "context"
//	  "log"
//
//	  "github.com/secmetrics-io/kb4/pkg/kb4"
//	  "github.com/secmetrics-io/kb4/pkg/kb4client"
//	)
//
//	func example() {
//	  ctx := context.Background()
//	  cli, err := kb4client.New(&kb4.Config{APIKey: "...", Region: "us"})
//	  if err != nil { log.Fatal(err) }
//
//	  users, err := cli.Users().List(ctx, &kb4.UserListOptions{Status: kb4.StatusActive})
//	  if err != nil { log.Fatal(err) }
//	  _ = users
//	}
//
// # Pagination
//
// Every List call walks the endpoint's pages sequentially (500 records per
// page) and returns the concatenated result in server order. Rate limiting
// (HTTP 429) is absorbed internally by honoring the Retry-After header, up to
// a bounded number of consecutive retries per call.
//
// # References and hydration
//
// Several records embed references to other resources: users and campaigns
// carry group references, phishing campaigns carry security test references,
// and training enrollments carry user references. On the wire a reference may
// be a bare integer ID, a partial object, or a full object. List and Get
// calls return records with these references hydrated into full nested
// records, backed by per-client caches so each distinct ID is fetched at most
// once per client lifetime. Cached records are a snapshot from first use, not
// live data.
//
// # Errors
//
// API failures are represented by AuthorizationError (401), RateLimitError
// (a single 429), RateLimitExhaustedError, and APIError. Helpers such as
// IsAuthorizationError, IsRateLimited, and IsNotFound make it easy to branch
// on common cases. Argument validation failures are static Err* values
// returned before any network call.
package kb4
