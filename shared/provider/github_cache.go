package provider

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
)

const (
	repoCachePrefix     = "github:repos:"
	defaultRepoCacheTTL = 10 * time.Minute
)

// CachedRepoLister is a read-through Redis cache in front of another RepoLister.
// Redis failures are logged and never fail the lookup.
type CachedRepoLister struct {
	next   RepoLister
	client *redis.Client
	ttl    time.Duration
	logger *zerolog.Logger
}

func NewCachedRepoLister(
	next RepoLister,
	client *redis.Client,
	ttl time.Duration,
	logger *zerolog.Logger,
) *CachedRepoLister {
	if ttl <= 0 {
		ttl = defaultRepoCacheTTL
	}

	return &CachedRepoLister{
		next:   next,
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

func (c *CachedRepoLister) cacheKey(username string) string {
	return repoCachePrefix + strings.ToLower(username)
}

func (c *CachedRepoLister) ListRepos(ctx context.Context, username string) ([]RepoSummary, error) {
	key := c.cacheKey(username)

	data, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		var repos []RepoSummary
		if jsonErr := json.Unmarshal(data, &repos); jsonErr == nil {
			return repos, nil
		}
		c.logger.Warn().Str("key", key).Msg("discarding undecodable cached repositories")
	} else if !errors.Is(err, redis.Nil) {
		c.logger.Warn().Err(err).Str("key", key).Msg("failed to read repository cache")
	}

	repos, err := c.next.ListRepos(ctx, username)
	if err != nil {
		return nil, err
	}

	data, err = json.Marshal(repos)
	if err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("failed to encode repositories for cache")
		return repos, nil
	}

	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("failed to write repository cache")
	}

	return repos, nil
}
