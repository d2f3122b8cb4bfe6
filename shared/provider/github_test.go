package provider

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListRepos_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/ada/repos", r.URL.Path)
		assert.Equal(t, "5", r.URL.Query().Get("per_page"))
		assert.Equal(t, "created", r.URL.Query().Get("sort"))
		assert.Equal(t, "asc", r.URL.Query().Get("direction"))
		assert.Equal(t, "token gh-secret", r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.Header.Get("User-Agent"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"name":"engine","full_name":"ada/engine","html_url":"https://github.com/ada/engine","stargazers_count":3,"created_at":"2020-01-02T03:04:05Z"},
			{"name":"notes","full_name":"ada/notes","html_url":"https://github.com/ada/notes","forks_count":1,"created_at":"2021-01-02T03:04:05Z"}
		]`))
	}))
	defer srv.Close()

	p := NewGitHubProvider(srv.URL+"/", "gh-secret", time.Second)
	repos, err := p.ListRepos(context.Background(), "ada")
	require.NoError(t, err)
	require.Len(t, repos, 2)
	assert.Equal(t, "ada/engine", repos[0].FullName)
	assert.Equal(t, 3, repos[0].StargazersCount)
	assert.Equal(t, 1, repos[1].ForksCount)
	assert.Equal(t, 2020, repos[0].CreatedAt.Year())
}

func TestListRepos_UnknownUser(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"Not Found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	p := NewGitHubProvider(srv.URL, "", time.Second)
	_, err := p.ListRepos(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrExternalLookupFailed)
}

func TestListRepos_BadPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{not json`))
	}))
	defer srv.Close()

	p := NewGitHubProvider(srv.URL, "", time.Second)
	_, err := p.ListRepos(context.Background(), "ada")
	assert.ErrorIs(t, err, ErrExternalLookupFailed)
}

func TestListRepos_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	p := NewGitHubProvider(srv.URL, "", 20*time.Millisecond)
	_, err := p.ListRepos(context.Background(), "ada")
	assert.ErrorIs(t, err, ErrExternalLookupFailed)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestListRepos_EmptyUsername(t *testing.T) {
	p := NewGitHubProvider("http://127.0.0.1:1", "", time.Second)
	_, err := p.ListRepos(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrExternalLookupFailed)
}

type stubLister struct {
	calls int
	repos []RepoSummary
	err   error
}

func (s *stubLister) ListRepos(context.Context, string) ([]RepoSummary, error) {
	s.calls++
	return s.repos, s.err
}

func unreachableRedis() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
}

func TestCachedRepoLister_FallsThroughWhenRedisIsDown(t *testing.T) {
	client := unreachableRedis()
	defer client.Close()

	logger := zerolog.Nop()
	next := &stubLister{repos: []RepoSummary{{Name: "engine"}}}
	c := NewCachedRepoLister(next, client, time.Minute, &logger)

	repos, err := c.ListRepos(context.Background(), "Ada")
	require.NoError(t, err)
	assert.Equal(t, []RepoSummary{{Name: "engine"}}, repos)
	assert.Equal(t, 1, next.calls)
}

func TestCachedRepoLister_PropagatesLookupError(t *testing.T) {
	client := unreachableRedis()
	defer client.Close()

	logger := zerolog.Nop()
	next := &stubLister{err: ErrExternalLookupFailed}
	c := NewCachedRepoLister(next, client, 0, &logger)

	_, err := c.ListRepos(context.Background(), "ada")
	assert.True(t, errors.Is(err, ErrExternalLookupFailed))
	assert.Equal(t, defaultRepoCacheTTL, c.ttl)
	assert.Equal(t, "github:repos:ada", c.cacheKey("ADA"))
}
