// Package cache puts a Redis read-through layer in front of a store.Source.
// Only fetched league data is cached; computed standings and aggregates are
// always rebuilt from it.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"basket-stats-mcp/internal/model"
	"basket-stats-mcp/internal/store"
)

const DefaultTTL = 10 * time.Minute

// Source wraps another store.Source. Redis failures are logged and the call
// falls through to the wrapped source.
type Source struct {
	next   store.Source
	client *redis.Client
	ttl    time.Duration
	prefix string
}

func New(next store.Source, client *redis.Client, ttl time.Duration, prefix string) *Source {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if prefix == "" {
		prefix = "basket"
	}
	return &Source{next: next, client: client, ttl: ttl, prefix: prefix}
}

func (s *Source) key(parts ...any) string {
	k := s.prefix
	for _, p := range parts {
		k += fmt.Sprintf(":%v", p)
	}
	return k
}

// through returns the cached value at key, or loads it and stores it.
func through[T any](ctx context.Context, s *Source, key string, load func() (T, error)) (T, error) {
	logger := log.Ctx(ctx)

	b, err := s.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var v T
		jerr := json.Unmarshal(b, &v)
		if jerr == nil {
			logger.Debug().Str("key", key).Msg("cache hit")
			return v, nil
		}
		logger.Warn().Err(jerr).Str("key", key).Msg("cache entry unreadable; reloading")
	case errors.Is(err, redis.Nil):
		logger.Debug().Str("key", key).Msg("cache miss")
	default:
		logger.Warn().Err(err).Str("key", key).Msg("cache read failed")
	}

	v, err := load()
	if err != nil {
		return v, err
	}
	data, err := json.Marshal(v)
	if err != nil {
		logger.Warn().Err(err).Str("key", key).Msg("cache encode failed")
		return v, nil
	}
	if err := s.client.Set(ctx, key, data, s.ttl).Err(); err != nil {
		logger.Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
	return v, nil
}

func (s *Source) Seasons(ctx context.Context) ([]model.Season, error) {
	return through(ctx, s, s.key("seasons"), func() ([]model.Season, error) {
		return s.next.Seasons(ctx)
	})
}

func (s *Source) Categories(ctx context.Context) ([]model.Category, error) {
	return through(ctx, s, s.key("categories"), func() ([]model.Category, error) {
		return s.next.Categories(ctx)
	})
}

func (s *Source) Competitions(ctx context.Context, seasonID, categoryID string) ([]model.Competition, error) {
	return through(ctx, s, s.key("competitions", seasonID, categoryID), func() ([]model.Competition, error) {
		return s.next.Competitions(ctx, seasonID, categoryID)
	})
}

func (s *Source) Competition(ctx context.Context, id string) (model.Competition, error) {
	return through(ctx, s, s.key("competition", id), func() (model.Competition, error) {
		return s.next.Competition(ctx, id)
	})
}

func (s *Source) CompetitionData(ctx context.Context, competitionID string) (*model.CompetitionSnapshot, error) {
	return through(ctx, s, s.key("competition", competitionID, "data"), func() (*model.CompetitionSnapshot, error) {
		return s.next.CompetitionData(ctx, competitionID)
	})
}

func (s *Source) TeamData(ctx context.Context, competitionID, teamID string) (*model.TeamSnapshot, error) {
	return through(ctx, s, s.key("competition", competitionID, "team", teamID), func() (*model.TeamSnapshot, error) {
		return s.next.TeamData(ctx, competitionID, teamID)
	})
}

// Invalidate drops every cached entry of a competition, e.g. after a sync.
func (s *Source) Invalidate(ctx context.Context, competitionID string) error {
	base := s.key("competition", competitionID)
	pattern := base + ":*"
	iter := s.client.Scan(ctx, 0, pattern, 100).Iterator()
	keys := []string{base}
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("scan %s: %w", pattern, err)
	}
	return s.client.Del(ctx, keys...).Err()
}

var _ store.Source = (*Source)(nil)
