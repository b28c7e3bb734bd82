package jira

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Query types accepted by SearchWindow; the JQL date field the window is
// applied to.
const (
	QueryCreated  = "created"
	QueryResolved = "resolutiondate"
)

const searchPageSize = 50

// Client talks to one Jira server with basic auth.
type Client struct {
	baseURL  string
	username string
	password string
	http     *http.Client
}

func NewClient(baseURL, username, password string) *Client {
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		username: username,
		password: password,
		http:     &http.Client{Timeout: 30 * time.Second},
	}
}

// SearchWindow returns every issue of a project whose queryType date
// falls within [start, end] (inclusive, YYYY-MM-DD), following the
// search API's paging until all pages are drained.
func (c *Client) SearchWindow(ctx context.Context, projectKey, start, end, queryType string) ([]Issue, error) {
	jql := fmt.Sprintf(`project = %q and %s >= %q and %s <= %q`,
		projectKey, queryType, start, queryType, end)

	var out []Issue
	startAt := 0
	for {
		page, err := c.searchPage(ctx, jql, startAt)
		if err != nil {
			return nil, err
		}
		out = append(out, page.Issues...)
		startAt += len(page.Issues)
		if startAt >= page.Total || len(page.Issues) == 0 {
			return out, nil
		}
	}
}

// SearchFromDaysAgo is SearchWindow over the lookback window ending at
// now's date.
func (c *Client) SearchFromDaysAgo(ctx context.Context, projectKey string, days int, queryType string, now time.Time) ([]Issue, error) {
	end := now.Format("2006-01-02")
	start := now.AddDate(0, 0, -days).Format("2006-01-02")
	return c.SearchWindow(ctx, projectKey, start, end, queryType)
}

func (c *Client) searchPage(ctx context.Context, jql string, startAt int) (*SearchResponse, error) {
	q := url.Values{}
	q.Set("jql", jql)
	q.Set("startAt", strconv.Itoa(startAt))
	q.Set("maxResults", strconv.Itoa(searchPageSize))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/rest/api/2/search?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build search request: %w", err)
	}
	req.SetBasicAuth(c.username, c.password)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("search: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var sr SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}
	return &sr, nil
}
