package client

import (
	"context"
	"net/url"

	"github.com/secmetrics-io/kb4/pkg/kb4"
)

// accountClient implements kb4.AccountClient.
type accountClient struct {
	client *Client
}

// Get implements kb4.AccountClient.Get. With full set the server returns the
// entire risk score history instead of the last six months.
func (c *accountClient) Get(ctx context.Context, full bool) (*kb4.Account, error) {
	query := url.Values{}

	if full {
		query.Set("full", "true")
	}

	return fetchOne[kb4.Account](ctx, c.client.pager, "account", query)
}

// Admins implements kb4.AccountClient.Admins.
func (c *accountClient) Admins(ctx context.Context) ([]kb4.Admin, error) {
	account, err := c.Get(ctx, false)
	if err != nil {
		return nil, err
	}

	return account.Admins, nil
}
