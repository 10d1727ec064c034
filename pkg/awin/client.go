package awin

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	// BaseURL is the Awin publisher API base URL.
	BaseURL = "https://api.awin.com"
	// ProductDataBaseURL is the Awin product feed (datafeed) base URL.
	ProductDataBaseURL = "https://productdata.awin.com"

	// dateFormat is the timestamp layout the transactions endpoint expects.
	dateFormat = "2006-01-02T15:04:05"
)

// StatusError is returned when the API answers with a status other than 200.
type StatusError struct {
	Endpoint   string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("expected response status code 200 from %s, got %d", e.Endpoint, e.StatusCode)
}

// Client is a minimal HTTP client for the Awin publisher API and the
// product-feed download host. All calls are synchronous and carry a
// per-request timeout.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	feedBaseURL string

	apiKey      string
	publisherID string
	feedAPIKey  string
	debug       bool
}

// NewClient constructs a new Awin client with sane defaults.
func NewClient(apiKey, publisherID, feedAPIKey string) *Client {
	return &Client{
		httpClient:  &http.Client{Timeout: 60 * time.Second},
		baseURL:     BaseURL,
		feedBaseURL: ProductDataBaseURL,
		apiKey:      apiKey,
		publisherID: publisherID,
		feedAPIKey:  feedAPIKey,
		debug:       os.Getenv("ENV") == "development",
	}
}

// SetBaseURLs overrides the API and feed hosts. Intended for tests.
func (c *Client) SetBaseURLs(api, feed string) {
	c.baseURL = strings.TrimSuffix(api, "/")
	c.feedBaseURL = strings.TrimSuffix(feed, "/")
}

// PublisherID returns the configured publisher id.
func (c *Client) PublisherID() string { return c.publisherID }

// ListTransactions fetches the publisher transaction report for the given
// window. The endpoint is not paginated: the entire result set for the
// window is returned in one response. Timestamps are sent in UTC.
// advertiserIDs, when non-nil, restricts the report to those programs.
func (c *Client) ListTransactions(ctx context.Context, advertiserIDs []string, from, to time.Time) ([]RawTransaction, error) {
	endpoint := fmt.Sprintf("/publishers/%s/transactions/", c.publisherID)

	query := url.Values{}
	query.Set("timezone", "UTC")
	query.Set("startDate", from.Format(dateFormat))
	query.Set("endDate", to.Format(dateFormat))
	if advertiserIDs != nil {
		query.Set("advertiserId", strings.Join(advertiserIDs, ","))
	}

	var transactions []RawTransaction
	if err := c.getJSON(ctx, endpoint, query, &transactions); err != nil {
		return nil, err
	}
	return transactions, nil
}

// ListCommissionGroups fetches the commission groups configured for one
// advertiser program.
func (c *Client) ListCommissionGroups(ctx context.Context, advertiserID string) ([]RawCommissionGroup, error) {
	endpoint := fmt.Sprintf("/publishers/%s/commissiongroups", c.publisherID)

	query := url.Values{}
	query.Set("advertiserId", advertiserID)

	var resp commissionGroupsResponse
	if err := c.getJSON(ctx, endpoint, query, &resp); err != nil {
		return nil, err
	}
	return resp.CommissionGroups, nil
}

// getJSON performs an authenticated GET against the publisher API and decodes
// the JSON response into result. Any status other than 200 is returned as a
// *StatusError; no retries are performed.
func (c *Client) getJSON(ctx context.Context, endpoint string, query url.Values, result any) error {
	fullURL := c.baseURL + endpoint
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	if c.debug {
		log.Debug().Str("endpoint", fullURL).Msg("[AWIN] Outgoing request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if c.debug {
		log.Debug().
			Str("endpoint", endpoint).
			Int("status_code", resp.StatusCode).
			RawJSON("response", respBody).
			Msg("[AWIN] Incoming response")
	}

	if resp.StatusCode != http.StatusOK {
		return &StatusError{Endpoint: endpoint, StatusCode: resp.StatusCode}
	}

	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
