// Package gist fetches shared session exports from GitHub gists.
package gist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"sort"
	"strings"
	"time"
)

const (
	defaultBaseURL = "https://api.github.com"
	defaultTimeout = 30 * time.Second
)

var (
	// ErrNotFound is returned when the gist does not exist or is private.
	ErrNotFound = errors.New("gist not found; make sure it exists and is public")
	// ErrRateLimited is returned on HTTP 403 from the GitHub API.
	ErrRateLimited = errors.New("GitHub rate limit exceeded; try again later")
	// ErrNoFiles is returned when the gist holds no files.
	ErrNoFiles = errors.New("gist has no files")
)

var gistURLRe = regexp.MustCompile(`(?i)gist\.github\.com/(?:[\w-]+/)?([a-f0-9]+)`)

// ParseID extracts a gist id from a gist URL, an "owner/id" pair or a bare
// id. Returns "" for empty input.
func ParseID(param string) string {
	param = strings.TrimSpace(param)
	if param == "" {
		return ""
	}
	if m := gistURLRe.FindStringSubmatch(param); m != nil {
		return m[1]
	}
	parts := strings.Split(param, "/")
	return parts[len(parts)-1]
}

// Client talks to the GitHub gists API.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient returns a Client for api.github.com. An empty baseURL selects the
// public API.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: defaultTimeout},
	}
}

type gistResponse struct {
	Files map[string]struct {
		Filename string `json:"filename"`
		Content  string `json:"content"`
	} `json:"files"`
}

// Fetch returns the content of the gist's first file, by file name order.
func (c *Client) Fetch(ctx context.Context, id string) (string, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/gists/"+id, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return "", ErrNotFound
	case http.StatusForbidden:
		return "", ErrRateLimited
	default:
		return "", fmt.Errorf("failed to load gist: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	var gr gistResponse
	if err := json.Unmarshal(body, &gr); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(gr.Files) == 0 {
		return "", ErrNoFiles
	}

	names := make([]string, 0, len(gr.Files))
	for name := range gr.Files {
		names = append(names, name)
	}
	sort.Strings(names)
	return gr.Files[names[0]].Content, nil
}
