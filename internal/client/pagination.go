package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/secmetrics-io/kb4/internal/constants"
	"github.com/secmetrics-io/kb4/internal/http"
	"github.com/secmetrics-io/kb4/pkg/kb4"
)

// pager walks a collection endpoint page by page and owns the rate-limit
// retry policy. Connection-level retries live in the HTTP layer; 429 handling
// lives here because the wait is dictated by the server per response.
type pager struct {
	httpClient *http.Client
	logger     kb4.Logger
	sleep      func(time.Duration)
	perPage    int
}

func newPager(httpClient *http.Client, logger kb4.Logger, sleep func(time.Duration)) *pager {
	return &pager{
		httpClient: httpClient,
		logger:     logger,
		sleep:      sleep,
		perPage:    constants.ResultsPerPage,
	}
}

// fetchAll retrieves every element of a collection. Array bodies contribute
// their elements; a singleton object body contributes itself as one element.
// A page carrying fewer elements than the page size ends the walk, so an
// exact-multiple collection costs one extra request for the empty page.
func (p *pager) fetchAll(ctx context.Context, path string, query url.Values) ([]json.RawMessage, error) {
	var collected []json.RawMessage

	for page := constants.FirstPage; ; page++ {
		body, err := p.fetchPage(ctx, path, query, page)
		if err != nil {
			return nil, err
		}

		added, err := appendElements(collected, body)
		if err != nil {
			return nil, fmt.Errorf("parsing page %d of %s: %w", page, path, err)
		}

		pageCount := len(added) - len(collected)
		collected = added

		if pageCount < p.perPage {
			return collected, nil
		}
	}
}

// fetchPage issues one page request, absorbing rate limits. Each 429 response
// is waited out for the server-provided interval plus a second of slack; the
// budget covers consecutive 429s only and a success resets it by returning.
func (p *pager) fetchPage(ctx context.Context, path string, query url.Values, page int) ([]byte, error) {
	pageQuery := url.Values{}

	for key, values := range query {
		pageQuery[key] = values
	}

	pageQuery.Set("page", strconv.Itoa(page))
	pageQuery.Set("per_page", strconv.Itoa(p.perPage))

	for attempt := 0; ; attempt++ {
		resp, err := p.httpClient.Get(ctx, path, pageQuery)
		if err == nil {
			return resp.Body, nil
		}

		rateLimitErr, limited := rateLimitOf(err)
		if !limited {
			return nil, err
		}

		if attempt+1 > constants.MaxConsecutiveRateLimitRetries {
			return nil, &kb4.RateLimitExhaustedError{Attempts: attempt + 1}
		}

		wait := time.Duration(rateLimitErr.RetryAfter)*time.Second + constants.RetryAfterSlack

		if p.logger != nil {
			p.logger.Warn("Rate limited, backing off", map[string]interface{}{
				"path":    path,
				"page":    page,
				"wait":    wait.String(),
				"attempt": attempt + 1,
			})
		}

		if err := sleepContext(ctx, p.sleep, wait); err != nil {
			return nil, err
		}
	}
}

// rateLimitOf unwraps a 429 from a transport error.
func rateLimitOf(err error) (*kb4.RateLimitError, bool) {
	var rateLimitErr *kb4.RateLimitError

	if errors.As(err, &rateLimitErr) {
		return rateLimitErr, true
	}

	return nil, false
}

// sleepContext waits out the backoff unless the context ends first.
func sleepContext(ctx context.Context, sleep func(time.Duration), wait time.Duration) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	sleep(wait)

	return ctx.Err()
}

// appendElements merges one response body into the collected elements. The
// reporting API answers most endpoints with a JSON array but hands back a
// bare object for account-style singletons; both shapes flow through the
// same pagination path.
func appendElements(collected []json.RawMessage, body []byte) ([]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return collected, nil
	}

	if trimmed[0] == '[' {
		var elements []json.RawMessage

		err := json.Unmarshal(trimmed, &elements)
		if err != nil {
			return nil, fmt.Errorf("decoding array body: %w", err)
		}

		return append(collected, elements...), nil
	}

	var element json.RawMessage

	err := json.Unmarshal(trimmed, &element)
	if err != nil {
		return nil, fmt.Errorf("decoding object body: %w", err)
	}

	return append(collected, element), nil
}
