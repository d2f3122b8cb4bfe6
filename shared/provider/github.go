package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var (
	ErrExternalLookupFailed = errors.New("external lookup failed")
)

// RepoLister lists a user's public repositories.
type RepoLister interface {
	ListRepos(ctx context.Context, username string) ([]RepoSummary, error)
}

// RepoSummary is the subset of a GitHub repository exposed to callers.
type RepoSummary struct {
	Name            string    `json:"name"`
	FullName        string    `json:"full_name"`
	HTMLURL         string    `json:"html_url"`
	Description     string    `json:"description"`
	Language        string    `json:"language"`
	StargazersCount int       `json:"stargazers_count"`
	WatchersCount   int       `json:"watchers_count"`
	ForksCount      int       `json:"forks_count"`
	CreatedAt       time.Time `json:"created_at"`
}

const repoPageSize = 5

type GitHubProvider struct {
	baseURL string
	token   string
	timeout time.Duration
	client  *http.Client
}

// NewGitHubProvider creates a provider for the GitHub REST API at baseURL.
// Every request is bounded by timeout.
func NewGitHubProvider(baseURL, token string, timeout time.Duration) *GitHubProvider {
	return &GitHubProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		timeout: timeout,
		client:  &http.Client{},
	}
}

// ListRepos returns the five oldest-first public repositories of username.
// All failures wrap ErrExternalLookupFailed; deadline failures also wrap
// context.DeadlineExceeded.
func (p *GitHubProvider) ListRepos(ctx context.Context, username string) ([]RepoSummary, error) {
	if strings.TrimSpace(username) == "" {
		return nil, fmt.Errorf("%w: empty username", ErrExternalLookupFailed)
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	query := url.Values{}
	query.Set("per_page", fmt.Sprint(repoPageSize))
	query.Set("sort", "created")
	query.Set("direction", "asc")
	endpoint := fmt.Sprintf("%s/users/%s/repos?%s", p.baseURL, url.PathEscape(username), query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExternalLookupFailed, err)
	}

	req.Header.Set("User-Agent", "devconnector-api")
	req.Header.Set("Accept", "application/vnd.github+json")
	if p.token != "" {
		req.Header.Set("Authorization", "token "+p.token)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %w", ErrExternalLookupFailed, ctx.Err())
		}
		return nil, fmt.Errorf("%w: %w", ErrExternalLookupFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status code %d", ErrExternalLookupFailed, resp.StatusCode)
	}

	var repos []RepoSummary
	if err := json.NewDecoder(resp.Body).Decode(&repos); err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %w", ErrExternalLookupFailed, ctx.Err())
		}
		return nil, fmt.Errorf("%w: %w", ErrExternalLookupFailed, err)
	}

	return repos, nil
}
