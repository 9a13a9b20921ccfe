package ytsearch

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/net/html"
)

// Video is one search result. Field names follow the wire contract consumed
// by the clients.
type Video struct {
	Title     string `json:"title"`
	Timestamp string `json:"timestamp"`
	Seconds   int    `json:"seconds"`
	Thumbnail string `json:"thumbnail"`
	URL       string `json:"url"`
	VideoId   string `json:"videoId"`
	Author    string `json:"author"`
	Views     int64  `json:"views"`
}

type Client struct {
	httpClient *http.Client
}

func NewClient(timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Search scrapes the YouTube results page for the query and returns the video
// entries found in its embedded initial-data payload.
func (c *Client) Search(ctx context.Context, query string) ([]Video, error) {
	searchURL := "https://www.youtube.com/results?search_query=" + url.QueryEscape(query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept-Language", "en")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to get search page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse search page: %w", err)
	}

	return parseResultsPage(doc)
}
