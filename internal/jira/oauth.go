package jira

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/projectpulse/jira-dashboard-service/internal/apperrors"
	"github.com/projectpulse/jira-dashboard-service/internal/config"
)

const (
	authorizeURL = "https://auth.atlassian.com/authorize"
	tokenURL     = "https://auth.atlassian.com/oauth/token"
	resourcesURL = "https://api.atlassian.com/oauth/token/accessible-resources"

	oauthScopes = "read:jira-work read:jira-user offline_access"
)

// OAuth drives the Atlassian 3LO flow: authorize redirect, code-for-token
// exchange and cloud id resolution.
type OAuth struct {
	clientID     string
	clientSecret string
	redirectURI  string
	client       *http.Client
}

func NewOAuth(cfg config.Jira) *OAuth {
	return &OAuth{
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		redirectURI:  cfg.RedirectURI,
		client:       &http.Client{Timeout: cfg.RequestTimeout},
	}
}

// Configured reports whether the OAuth application credentials are set.
func (o *OAuth) Configured() bool {
	return o.clientID != "" && o.redirectURI != ""
}

// AuthorizeURL builds the Atlassian consent page URL for the given CSRF state.
func (o *OAuth) AuthorizeURL(state string) string {
	q := url.Values{}
	q.Set("audience", "api.atlassian.com")
	q.Set("client_id", o.clientID)
	q.Set("scope", oauthScopes)
	q.Set("redirect_uri", o.redirectURI)
	q.Set("state", state)
	q.Set("response_type", "code")
	q.Set("prompt", "consent")

	return authorizeURL + "?" + q.Encode()
}

// TokenResponse is the token endpoint payload.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	TokenType    string `json:"token_type"`
}

// ExchangeCode trades an authorization code for tokens.
func (o *OAuth) ExchangeCode(ctx context.Context, code string) (*TokenResponse, error) {
	const op = "internal.jira.ExchangeCode"

	payload, err := json.Marshal(map[string]string{
		"grant_type":    "authorization_code",
		"client_id":     o.clientID,
		"client_secret": o.clientSecret,
		"code":          code,
		"redirect_uri":  o.redirectURI,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: failed to encode payload: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build request: %w", op, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: request failed: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

		return nil, fmt.Errorf("%s: %w", op, &apperrors.JiraAPIError{
			StatusCode: resp.StatusCode,
			Endpoint:   tokenURL,
			Body:       string(body),
		})
	}

	var tokens TokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokens); err != nil {
		return nil, fmt.Errorf("%s: failed to decode response: %w", op, err)
	}

	return &tokens, nil
}

// Resource is one jira site the token grants access to.
type Resource struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

// AccessibleResources lists the jira sites the token grants access to; the
// first site's id is the cloud id used to address the REST API.
func (o *OAuth) AccessibleResources(ctx context.Context, accessToken string) ([]Resource, error) {
	const op = "internal.jira.AccessibleResources"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, resourcesURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build request: %w", op, err)
	}

	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: request failed: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

		return nil, fmt.Errorf("%s: %w", op, &apperrors.JiraAPIError{
			StatusCode: resp.StatusCode,
			Endpoint:   resourcesURL,
			Body:       string(body),
		})
	}

	var resources []Resource
	if err := json.NewDecoder(resp.Body).Decode(&resources); err != nil {
		return nil, fmt.Errorf("%s: failed to decode response: %w", op, err)
	}

	return resources, nil
}
