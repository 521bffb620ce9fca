package youtrack

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"youtrack_sync/internal/model"
)

const (
	// pageSize is the fixed $top value for sprint issue pages
	pageSize = 100

	// issueFields restricts the response to exactly the fields the sync reads
	issueFields = "idReadable,summary,description,customFields(name,value(name))"
)

// Client fetches sprint issues from the YouTrack REST API. Every request
// carries the permanent token as a bearer Authorization header; the token
// must never appear in logs or error messages.
type Client struct {
	http  *http.Client
	token string
}

// NewClient creates a client authenticated with the given permanent token
func NewClient(token string) *Client {
	return &Client{
		http:  &http.Client{},
		token: token,
	}
}

// FetchSprintIssues retrieves all issues of a sprint, page by page.
// Fetching stops once a page comes back smaller than the page size, so a
// final page of exactly 100 issues costs one extra empty request. Any
// transport failure, non-success status or undecodable body aborts the
// whole fetch; partial pages are not returned.
func (c *Client) FetchSprintIssues(ctx context.Context, base *url.URL, agileID, sprintID string) ([]model.Issue, error) {
	endpoint := base.JoinPath("api", "agiles", agileID, "sprints", sprintID, "issues")

	var all []model.Issue
	skip := 0

	for {
		page, err := c.fetchPage(ctx, endpoint, skip)
		if err != nil {
			return nil, err
		}

		all = append(all, page...)

		if len(page) < pageSize {
			break
		}
		skip += pageSize
	}

	return all, nil
}

func (c *Client) fetchPage(ctx context.Context, endpoint *url.URL, skip int) ([]model.Issue, error) {
	pageURL := *endpoint
	query := pageURL.Query()
	query.Set("$skip", fmt.Sprintf("%d", skip))
	query.Set("$top", fmt.Sprintf("%d", pageSize))
	query.Set("fields", issueFields)
	pageURL.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to build YouTrack sprint issues request: %v", model.ErrUpstream, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: YouTrack request failed: %v", model.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: YouTrack returned status %s for $skip=%d", model.ErrUpstream, resp.Status, skip)
	}

	var page []model.Issue
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("%w: failed to decode YouTrack issues JSON at $skip=%d: %v", model.ErrDecode, skip, err)
	}

	return page, nil
}
