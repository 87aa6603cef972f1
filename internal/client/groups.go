package client

import (
	"context"
	"net/url"
	"strconv"

	"github.com/secmetrics-io/kb4/pkg/kb4"
)

// groupsClient implements kb4.GroupsClient.
type groupsClient struct {
	client *Client
}

// List implements kb4.GroupsClient.List.
func (c *groupsClient) List(ctx context.Context, opts *kb4.GroupListOptions) ([]kb4.Group, error) {
	query := url.Values{}

	if opts != nil && opts.Status != "" {
		err := validateStatus(opts.Status)
		if err != nil {
			return nil, err
		}

		query.Set("status", opts.Status)
	}

	return fetchRecords[kb4.Group](ctx, c.client.pager, "groups", query)
}

// Get implements kb4.GroupsClient.Get.
func (c *groupsClient) Get(ctx context.Context, groupID int) (*kb4.Group, error) {
	return fetchOne[kb4.Group](ctx, c.client.pager, "groups/"+strconv.Itoa(groupID), nil)
}
