// Package riksbank implements the rate source port against the Riksbank
// SWEA REST API.
package riksbank

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rnordin/currency_exchange_app/internal/apperrors"
	"github.com/rnordin/currency_exchange_app/internal/core/domain"
	portssvc "github.com/rnordin/currency_exchange_app/internal/core/ports/services"
)

// DefaultBaseURL is the production SWEA API root.
const DefaultBaseURL = "https://api.riksbank.se/swea/v1"

// subscriptionKeyHeader carries the API subscription credential on every
// outbound request.
const subscriptionKeyHeader = "Ocp-Apim-Subscription-Key"

// Client calls the Riksbank SWEA API. It implements portssvc.RateSourceSvc.
type Client struct {
	baseURL string
	apiKey  string
	httpc   *http.Client
	now     func() time.Time
}

var _ portssvc.RateSourceSvc = (*Client)(nil)

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(httpc *http.Client) Option {
	return func(c *Client) {
		c.httpc = httpc
	}
}

// WithClock replaces the wall clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		c.now = now
	}
}

// NewClient creates a Riksbank API client. An empty baseURL selects the
// production API.
func NewClient(baseURL, apiKey string, timeout time.Duration, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpc:   &http.Client{Timeout: timeout},
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// LatestBankDay returns the candidate banking date for the current wall
// clock, per the daily publish cutoff. No network call is made.
func (c *Client) LatestBankDay() time.Time {
	return domain.LatestBankDay(c.now())
}

// LatestCrossRates fetches the cross-rate quotes for an ordered currency pair
// on the latest valid banking day. The banking day candidate from the publish
// cutoff rule is validated against the calendar endpoint first, since the
// naive rule knows nothing about weekends and holidays.
func (c *Client) LatestCrossRates(ctx context.Context, from, to domain.Currency) ([]domain.CrossRate, error) {
	bankDay, err := c.latestCalendarBankDay(ctx)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/CrossRates/%s/%s/%s", c.baseURL, from.SeriesID(), to.SeriesID(), bankDay.CalendarDate)

	var quotes []domain.CrossRate
	if err := c.getJSON(ctx, url, &quotes); err != nil {
		return nil, err
	}
	if len(quotes) == 0 {
		return nil, fmt.Errorf("%w: no cross rates returned from Riksbank for %s to %s", apperrors.ErrUpstream, from, to)
	}

	return quotes, nil
}

// latestCalendarBankDay queries the calendar endpoint with the cutoff-rule
// candidate date and picks the nearest entry flagged as a Swedish banking
// day.
func (c *Client) latestCalendarBankDay(ctx context.Context) (*domain.CalendarDay, error) {
	candidate := c.LatestBankDay().Format(domain.RateDateFormat)

	var days []domain.CalendarDay
	if err := c.getJSON(ctx, c.baseURL+"/CalendarDays/"+candidate, &days); err != nil {
		return nil, err
	}
	if len(days) == 0 {
		return nil, fmt.Errorf("%w: no bank days found in calendar response", apperrors.ErrUpstream)
	}

	for i := range days {
		if days[i].SwedishBankday {
			return &days[i], nil
		}
	}
	return nil, fmt.Errorf("%w: no valid Swedish bank day found", apperrors.ErrUpstream)
}

// getJSON performs an authenticated GET and decodes the JSON body into out.
// Transport failures, non-200 statuses and malformed payloads all map to
// apperrors.ErrUpstream; callers treat them alike.
func (c *Client) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%w: building request to %s: %v", apperrors.ErrUpstream, url, err)
	}
	req.Header.Set(subscriptionKeyHeader, c.apiKey)
	req.Header.Set("Accept", "application/json")

	res, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrUpstream, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: unexpected status %d from %s", apperrors.ErrUpstream, res.StatusCode, url)
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decoding response from %s: %v", apperrors.ErrUpstream, url, err)
	}
	return nil
}
