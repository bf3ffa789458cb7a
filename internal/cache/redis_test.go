package cache

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"basket-stats-mcp/internal/model"
	"basket-stats-mcp/internal/store"
)

// countingSource records how often each call reaches the backing store.
type countingSource struct {
	calls map[string]int
}

func newCounting() *countingSource {
	return &countingSource{calls: make(map[string]int)}
}

func (c *countingSource) Seasons(ctx context.Context) ([]model.Season, error) {
	c.calls["seasons"]++
	return []model.Season{{ID: "1", Name: "2024-25"}}, nil
}

func (c *countingSource) Categories(ctx context.Context) ([]model.Category, error) {
	c.calls["categories"]++
	return []model.Category{{ID: "10", Name: "Mini", Mini: true}}, nil
}

func (c *countingSource) Competitions(ctx context.Context, seasonID, categoryID string) ([]model.Competition, error) {
	c.calls["competitions:"+seasonID+":"+categoryID]++
	return []model.Competition{{ID: "100", SeasonID: seasonID}}, nil
}

func (c *countingSource) Competition(ctx context.Context, id string) (model.Competition, error) {
	c.calls["competition"]++
	if id != "100" {
		return model.Competition{}, fmt.Errorf("competition %s: %w", id, store.ErrNotFound)
	}
	return model.Competition{ID: id, Mini: true}, nil
}

func (c *countingSource) CompetitionData(ctx context.Context, id string) (*model.CompetitionSnapshot, error) {
	c.calls["data"]++
	home, away := 40, 38
	return &model.CompetitionSnapshot{
		Competition: model.Competition{ID: id},
		Teams:       []model.Team{{ID: "1"}, {ID: "2"}},
		Matches:     []model.Match{{ID: "m1", HomeTeamID: "1", AwayTeamID: "2", HomeScore: &home, AwayScore: &away}},
	}, nil
}

func (c *countingSource) TeamData(ctx context.Context, competitionID, teamID string) (*model.TeamSnapshot, error) {
	c.calls["team"]++
	return &model.TeamSnapshot{
		Team:  model.Team{ID: teamID},
		Stats: []model.PlayerMatchStat{{MatchID: "m1", PlayerID: "p1", Points: 7, Minutes: model.ClockText("7:30")}},
		Events: []model.SubstitutionEvent{
			{MatchID: "m1", PlayerID: "p1", Description: "Entra", Clock: model.ClockMinutes(10)},
		},
	}, nil
}

func newCache(t *testing.T, next store.Source) (*Source, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return New(next, client, time.Minute, "test"), mr
}

func TestSource_ReadThrough(t *testing.T) {
	next := newCounting()
	c, mr := newCache(t, next)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		seasons, err := c.Seasons(ctx)
		if err != nil {
			t.Fatalf("seasons: %v", err)
		}
		if len(seasons) != 1 || seasons[0].Name != "2024-25" {
			t.Errorf("seasons: got %+v", seasons)
		}
	}
	if next.calls["seasons"] != 1 {
		t.Errorf("backing calls: want 1, got %d", next.calls["seasons"])
	}
	if !mr.Exists("test:seasons") {
		t.Error("expected key test:seasons")
	}
	if ttl := mr.TTL("test:seasons"); ttl != time.Minute {
		t.Errorf("ttl: want 1m, got %v", ttl)
	}
}

func TestSource_SnapshotsRoundTrip(t *testing.T) {
	next := newCounting()
	c, _ := newCache(t, next)
	ctx := context.Background()

	if _, err := c.TeamData(ctx, "100", "1"); err != nil {
		t.Fatalf("first load: %v", err)
	}
	snap, err := c.TeamData(ctx, "100", "1")
	if err != nil {
		t.Fatalf("cached load: %v", err)
	}
	if next.calls["team"] != 1 {
		t.Errorf("backing calls: want 1, got %d", next.calls["team"])
	}
	if snap.Stats[0].Points != 7 || snap.Stats[0].Minutes.Text != "7:30" {
		t.Errorf("stat row lost in cache: %+v", snap.Stats[0])
	}
	if snap.Events[0].Clock.Number == nil || *snap.Events[0].Clock.Number != 10 {
		t.Errorf("event clock lost in cache: %+v", snap.Events[0].Clock)
	}

	data, err := c.CompetitionData(ctx, "100")
	if err != nil {
		t.Fatalf("competition data: %v", err)
	}
	data, _ = c.CompetitionData(ctx, "100")
	if !data.Matches[0].Completed() || *data.Matches[0].HomeScore != 40 {
		t.Errorf("match scores lost in cache: %+v", data.Matches[0])
	}
}

func TestSource_ErrorsAreNotCached(t *testing.T) {
	next := newCounting()
	c, mr := newCache(t, next)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := c.Competition(ctx, "404"); !errors.Is(err, store.ErrNotFound) {
			t.Fatalf("want ErrNotFound, got %v", err)
		}
	}
	if next.calls["competition"] != 2 {
		t.Errorf("backing calls: want 2, got %d", next.calls["competition"])
	}
	if mr.Exists("test:competition:404") {
		t.Error("error result must not be cached")
	}
}

func TestSource_FallsThroughWhenRedisDown(t *testing.T) {
	next := newCounting()
	c, mr := newCache(t, next)
	mr.Close()

	cats, err := c.Categories(context.Background())
	if err != nil {
		t.Fatalf("categories with redis down: %v", err)
	}
	if len(cats) != 1 || !cats[0].Mini {
		t.Errorf("categories: got %+v", cats)
	}
}

func TestSource_Invalidate(t *testing.T) {
	next := newCounting()
	c, mr := newCache(t, next)
	ctx := context.Background()

	c.Competition(ctx, "100")
	c.CompetitionData(ctx, "100")
	c.TeamData(ctx, "100", "1")
	c.Seasons(ctx)

	if err := c.Invalidate(ctx, "100"); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	for _, k := range []string{"test:competition:100", "test:competition:100:data", "test:competition:100:team:1"} {
		if mr.Exists(k) {
			t.Errorf("%s should be gone", k)
		}
	}
	if !mr.Exists("test:seasons") {
		t.Error("unrelated key test:seasons should survive")
	}
}

func TestSource_CompetitionFilterKeys(t *testing.T) {
	next := newCounting()
	c, _ := newCache(t, next)
	ctx := context.Background()

	c.Competitions(ctx, "1", "")
	c.Competitions(ctx, "1", "")
	c.Competitions(ctx, "2", "")
	if next.calls["competitions:1:"] != 1 || next.calls["competitions:2:"] != 1 {
		t.Errorf("filters must not share a cache entry: %+v", next.calls)
	}
}
