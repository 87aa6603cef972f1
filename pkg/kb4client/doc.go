// Package kb4client provides the primary entry point for constructing a
// KnowBe4 reporting API client that implements the kb4.Client interface.
//
// It layers configuration, HTTP transport, and authentication on top of the
// resource interfaces and types defined in the kb4 package. Most applications
// should import kb4client to build a client, then use the returned kb4.Client
// to access resource-specific clients, for example Users(), Phishing(),
// Training().
//
// Quick start
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
//
//	  // Minimal: an API key for the default US region.
//	  cli, err := kb4client.New(&kb4.Config{APIKey: "eyJhbGciOi..."})
//	  if err != nil { log.Fatal(err) }
//
//	  // Or pick a server region explicitly:
//	  cli, err = kb4client.New(&kb4.Config{Region: "eu", APIKey: "eyJhbGciOi..."})
//	  if err != nil { log.Fatal(err) }
//
//	  // Or defer the key to the KB4_API_KEY environment variable with an
//	  // interactive prompt fallback:
//	  cli, err = kb4client.New(&kb4.Config{Region: "us", PromptForKey: true})
//	  if err != nil { log.Fatal(err) }
//
//	  // Use resource clients via the kb4.Client interface
//	  users, err := cli.Users().List(ctx, &kb4.UserListOptions{Status: kb4.StatusActive})
//	  if err != nil { log.Fatal(err) }
//	  _ = users
//	}
//
// # Helpers
//
// The package also provides convenience constructors NewWithAPIKey and
// NewFromEnvironment that wrap New with the appropriate configuration.
package kb4client
