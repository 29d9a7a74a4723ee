// package jira is the gateway to the Atlassian REST API. It is a thin
// authenticated client: no retries, no rate limiting, a non-2xx response is a
// hard failure for that call.
package jira

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/projectpulse/jira-dashboard-service/internal/apperrors"
	"github.com/projectpulse/jira-dashboard-service/internal/config"
)

const apiBase = "https://api.atlassian.com/ex/jira"

// searchFields is the field selection list sent with every JQL search, per
// the upstream contract. The story point field is appended from config since
// its id differs between jira sites.
var searchFields = []string{
	"summary",
	"status",
	"assignee",
	"reporter",
	"created",
	"updated",
	"resolutiondate",
	"duedate",
	"priority",
	"issuetype",
	"labels",
	"components",
}

type Client struct {
	baseURL         string
	accessToken     string
	storyPointField string
	client          *http.Client
	log             *slog.Logger
}

// NewClient creates a client bound to one jira site (cloud id) and one access
// token, typically taken from the OAuth cookie store per request.
func NewClient(cfg config.Jira, accessToken, cloudID string, log *slog.Logger) *Client {
	return &Client{
		baseURL:         fmt.Sprintf("%s/%s", apiBase, cloudID),
		accessToken:     accessToken,
		storyPointField: cfg.StoryPointField,
		client:          &http.Client{Timeout: cfg.RequestTimeout},
		log:             log,
	}
}

// GetProjects lists all projects visible to the token, up to 1000 per call.
func (c *Client) GetProjects(ctx context.Context, maxResults int) ([]RawProject, error) {
	const op = "internal.jira.GetProjects"

	endpoint := fmt.Sprintf("/rest/api/3/project/search?maxResults=%d", maxResults)

	var list ProjectList
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &list); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return list.Values, nil
}

// GetProject fetches a single project by its key.
func (c *Client) GetProject(ctx context.Context, projectKey string) (*RawProject, error) {
	const op = "internal.jira.GetProject"

	endpoint := "/rest/api/3/project/" + url.PathEscape(projectKey)

	var project RawProject
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &project); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &project, nil
}

// SearchIssues runs a JQL query with the fixed field selection list, capped
// at maxResults. Pagination beyond one page is a known limitation.
func (c *Client) SearchIssues(ctx context.Context, jql string, maxResults int) ([]RawIssue, error) {
	const op = "internal.jira.SearchIssues"

	body := map[string]any{
		"jql":        jql,
		"maxResults": maxResults,
		"fields":     append(append([]string{}, searchFields...), c.storyPointField),
	}

	var resp SearchResponse
	if err := c.do(ctx, http.MethodPost, "/rest/api/3/search/jql", body, &resp); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return resp.Issues, nil
}

// GetBoards lists the agile boards attached to a project.
func (c *Client) GetBoards(ctx context.Context, projectKey string) ([]Board, error) {
	const op = "internal.jira.GetBoards"

	endpoint := "/rest/agile/1.0/board?projectKeyOrId=" + url.QueryEscape(projectKey)

	var list BoardList
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &list); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return list.Values, nil
}

// GetSprints lists the sprints of one agile board, up to 1000 per call.
func (c *Client) GetSprints(ctx context.Context, boardID int) ([]Sprint, error) {
	const op = "internal.jira.GetSprints"

	endpoint := fmt.Sprintf("/rest/agile/1.0/board/%d/sprint?maxResults=1000", boardID)

	var list SprintList
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &list); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return list.Values, nil
}

// Myself validates the stored credentials against the identity endpoint.
func (c *Client) Myself(ctx context.Context) (*Myself, error) {
	const op = "internal.jira.Myself"

	var me Myself
	if err := c.do(ctx, http.MethodGet, "/rest/api/3/myself", nil, &me); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &me, nil
}

func (c *Client) do(ctx context.Context, method, endpoint string, body any, out any) error {
	var reqBody io.Reader

	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}

		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Accept", "application/json")

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

		c.log.Error("jira api error",
			slog.Int("status", resp.StatusCode),
			slog.String("endpoint", endpoint),
		)

		return &apperrors.JiraAPIError{
			StatusCode: resp.StatusCode,
			Endpoint:   endpoint,
			Body:       string(respBody),
		}
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
