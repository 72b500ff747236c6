// Package hebcal communicates with the Hebcal REST API: Shabbat times,
// daily zmanim and Rosh Chodesh calendar queries.
package hebcal

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://www.hebcal.com"

// DefaultGeonameID locates the Ramat Gan community the schedule is built for.
const DefaultGeonameID = 293397

// Client communicates with the Hebcal API.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter

	// BaseURL is the API base URL. Defaults to hebcal.com.
	// Exported for testing with httptest.
	BaseURL string

	// GeonameID selects the location for all queries.
	GeonameID int

	// CandleOffset is the candle-lighting offset before sunset, in minutes.
	CandleOffset int
}

// NewClient creates a new API client with sensible defaults. Outbound
// requests are limited to 2/s with a burst of 4.
func NewClient(geonameID int) *Client {
	if geonameID == 0 {
		geonameID = DefaultGeonameID
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		limiter:      rate.NewLimiter(rate.Limit(2), 4),
		BaseURL:      defaultBaseURL,
		GeonameID:    geonameID,
		CandleOffset: 18,
	}
}

// FetchShabbat fetches candle lighting, Havdalah and the weekly portion for
// the Shabbat cycles between start and end.
func (c *Client) FetchShabbat(ctx context.Context, start, end time.Time) (*ShabbatResponse, error) {
	params := url.Values{}
	params.Set("cfg", "json")
	params.Set("geonameid", strconv.Itoa(c.GeonameID))
	params.Set("b", strconv.Itoa(c.CandleOffset))
	params.Set("M", "on")
	params.Set("start", start.Format("2006-01-02"))
	params.Set("end", end.Format("2006-01-02"))
	params.Set("lg", "he")

	var resp ShabbatResponse
	if err := c.doRequest(ctx, c.BaseURL+"/shabbat", params, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// FetchZmanim fetches the halachic day markers for one date.
func (c *Client) FetchZmanim(ctx context.Context, date time.Time) (*ZmanimResponse, error) {
	params := url.Values{}
	params.Set("cfg", "json")
	params.Set("geonameid", strconv.Itoa(c.GeonameID))
	params.Set("date", date.Format("2006-01-02"))

	var resp ZmanimResponse
	if err := c.doRequest(ctx, c.BaseURL+"/zmanim", params, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// FetchRoshChodesh fetches the Rosh Chodesh days between start and end.
func (c *Client) FetchRoshChodesh(ctx context.Context, start, end time.Time) (*CalendarResponse, error) {
	params := url.Values{}
	params.Set("v", "1")
	params.Set("cfg", "json")
	params.Set("geonameid", strconv.Itoa(c.GeonameID))
	params.Set("start", start.Format("2006-01-02"))
	params.Set("end", end.Format("2006-01-02"))
	params.Set("category", CategoryRoshChodesh)
	params.Set("nx", "on")

	var resp CalendarResponse
	if err := c.doRequest(ctx, c.BaseURL+"/hebcal", params, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) doRequest(ctx context.Context, endpoint string, params url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("API rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("build API request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode API response: %w", err)
	}
	return nil
}
