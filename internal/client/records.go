package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/secmetrics-io/kb4/pkg/kb4"
)

// fetchRecords retrieves a full collection and decodes every element into T.
func fetchRecords[T any](ctx context.Context, pager *pager, path string, query url.Values) ([]T, error) {
	elements, err := pager.fetchAll(ctx, path, query)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", path, err)
	}

	records := make([]T, 0, len(elements))

	for i, element := range elements {
		var record T

		err := json.Unmarshal(element, &record)
		if err != nil {
			return nil, fmt.Errorf("parsing %s record %d: %w", path, i, err)
		}

		records = append(records, record)
	}

	return records, nil
}

// fetchOne retrieves a singleton endpoint and decodes it into T. Singleton
// bodies travel the same pagination path and arrive as a one-element page.
func fetchOne[T any](ctx context.Context, pager *pager, path string, query url.Values) (*T, error) {
	elements, err := pager.fetchAll(ctx, path, query)
	if err != nil {
		return nil, fmt.Errorf("getting %s: %w", path, err)
	}

	if len(elements) == 0 {
		return nil, fmt.Errorf("getting %s: %w", path, kb4.ErrEmptyResponse)
	}

	var record T

	err = json.Unmarshal(elements[0], &record)
	if err != nil {
		return nil, fmt.Errorf("parsing %s response: %w", path, err)
	}

	return &record, nil
}
