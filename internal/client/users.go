package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/secmetrics-io/kb4/pkg/kb4"
)

// usersClient implements kb4.UsersClient.
type usersClient struct {
	client *Client
}

// List implements kb4.UsersClient.List.
func (c *usersClient) List(ctx context.Context, opts *kb4.UserListOptions) ([]kb4.User, error) {
	query := url.Values{}

	if opts != nil {
		if opts.Status != "" {
			err := validateStatus(opts.Status)
			if err != nil {
				return nil, err
			}

			query.Set("status", opts.Status)
		}

		if opts.GroupID != 0 {
			query.Set("group_id", strconv.Itoa(opts.GroupID))
		}

		if opts.Expand {
			query.Set("expand", "group")
		}
	}

	users, err := fetchRecords[kb4.User](ctx, c.client.pager, "users", query)
	if err != nil {
		return nil, err
	}

	for i := range users {
		users[i].Groups, err = c.client.resolver.resolveGroupRefs(ctx, users[i].Groups)
		if err != nil {
			return nil, fmt.Errorf("resolving groups for user %d: %w", users[i].ID, err)
		}
	}

	return users, nil
}

// Get implements kb4.UsersClient.Get.
func (c *usersClient) Get(ctx context.Context, userID int) (*kb4.User, error) {
	user, err := fetchOne[kb4.User](ctx, c.client.pager, "users/"+strconv.Itoa(userID), nil)
	if err != nil {
		return nil, err
	}

	user.Groups, err = c.client.resolver.resolveGroupRefs(ctx, user.Groups)
	if err != nil {
		return nil, fmt.Errorf("resolving groups for user %d: %w", user.ID, err)
	}

	return user, nil
}

// validateStatus rejects status filters the API does not understand before
// any request is made.
func validateStatus(status string) error {
	if status != kb4.StatusActive && status != kb4.StatusArchived {
		return fmt.Errorf("%w, got %q", kb4.ErrInvalidStatus, status)
	}

	return nil
}
