package googlebooks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"bookmory/internal/apperr"

	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL = "https://www.googleapis.com/books/v1"
	MaxResultsCap  = 40

	placeholderAPIKey = "your-google-books-api-key"
	userAgent         = "BookMory/1.0"
)

type Options struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
	// RPS bounds outgoing requests. Zero or negative disables the limiter.
	RPS float64
}

// Client talks to the Google Books v1 volumes API. It never retries; callers
// see NotFound, Timeout or Upstream apperr errors.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	limiter    *rate.Limiter
}

func NewClient(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	limit := rate.Inf
	if opts.RPS > 0 {
		limit = rate.Limit(opts.RPS)
	}
	apiKey := opts.APIKey
	if apiKey == placeholderAPIKey {
		apiKey = ""
	}

	return &Client{
		httpClient: &http.Client{Timeout: opts.Timeout},
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		apiKey:     apiKey,
		limiter:    rate.NewLimiter(limit, 1),
	}
}

func (c *Client) HasAPIKey() bool {
	return c.apiKey != ""
}

func (c *Client) Search(ctx context.Context, params SearchParams) (*SearchResponse, error) {
	var res SearchResponse
	if err := c.get(ctx, c.searchURL(params), &res); err != nil {
		return nil, err
	}
	if res.Items == nil {
		res.Items = []Volume{}
	}
	return &res, nil
}

func (c *Client) GetVolume(ctx context.Context, volumeID string) (*Volume, error) {
	var v Volume
	if err := c.get(ctx, c.volumeURL(volumeID), &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func (c *Client) searchURL(p SearchParams) string {
	q := url.Values{}
	q.Set("q", p.Query)
	if p.MaxResults > 0 {
		q.Set("maxResults", strconv.Itoa(min(p.MaxResults, MaxResultsCap)))
	}
	if p.StartIndex > 0 {
		q.Set("startIndex", strconv.Itoa(p.StartIndex))
	}
	if p.LangRestrict != "" {
		q.Set("langRestrict", p.LangRestrict)
	}
	if p.PrintType != "" {
		q.Set("printType", p.PrintType)
	}
	if p.OrderBy != "" {
		q.Set("orderBy", p.OrderBy)
	}
	if p.Filter != "" {
		q.Set("filter", p.Filter)
	}
	if p.Projection != "" {
		q.Set("projection", p.Projection)
	}
	if c.apiKey != "" {
		q.Set("key", c.apiKey)
	}
	return c.baseURL + "/volumes?" + q.Encode()
}

func (c *Client) volumeURL(volumeID string) string {
	u := c.baseURL + "/volumes/" + url.PathEscape(volumeID)
	if c.apiKey != "" {
		u += "?key=" + url.QueryEscape(c.apiKey)
	}
	return u
}

func (c *Client) get(ctx context.Context, u string, target any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return classify(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return apperr.Upstream("build catalog request").WithCause(err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return classify(err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return apperr.NotFound("Book not found in catalog")
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return apperr.Upstream("Failed to fetch from Google Books API").
			WithCause(fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, strings.TrimSpace(string(body))))
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return classify(fmt.Errorf("decode catalog response: %w", err))
	}
	return nil
}

// classify separates timeouts from every other transport failure.
func classify(err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return apperr.Timeout("Request to Google Books API timed out").WithCause(err)
	}
	return apperr.Upstream("Error contacting Google Books API").WithCause(err)
}
