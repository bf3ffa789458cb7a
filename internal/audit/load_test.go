package audit

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"basket-stats-mcp/internal/model"
	"basket-stats-mcp/internal/stats"
	"basket-stats-mcp/internal/store"
)

// snapSource serves one competition ("c1") built from flat slices.
type snapSource struct {
	teams   []model.Team
	matches []model.Match
	roster  []model.RosterEntry
	rows    []model.PlayerMatchStat
	events  []model.SubstitutionEvent
	calls   int
}

func (s *snapSource) Seasons(ctx context.Context) ([]model.Season, error) { return nil, nil }
func (s *snapSource) Categories(ctx context.Context) ([]model.Category, error) { return nil, nil }
func (s *snapSource) Competitions(ctx context.Context, seasonID, categoryID string) ([]model.Competition, error) {
	return nil, nil
}

func (s *snapSource) Competition(ctx context.Context, id string) (model.Competition, error) {
	if id != "c1" {
		return model.Competition{}, fmt.Errorf("competition %s: %w", id, store.ErrNotFound)
	}
	return model.Competition{ID: id, Mini: true}, nil
}

func (s *snapSource) CompetitionData(ctx context.Context, id string) (*model.CompetitionSnapshot, error) {
	comp, err := s.Competition(ctx, id)
	if err != nil {
		return nil, err
	}
	return &model.CompetitionSnapshot{Competition: comp, Teams: s.teams, Matches: s.matches}, nil
}

func (s *snapSource) TeamData(ctx context.Context, competitionID, teamID string) (*model.TeamSnapshot, error) {
	s.calls++
	snap := &model.TeamSnapshot{Team: model.Team{ID: teamID}}
	ids := make(map[string]bool)
	for _, m := range s.matches {
		if m.Involves(teamID) {
			snap.Matches = append(snap.Matches, m)
			ids[m.ID] = true
		}
	}
	for _, r := range s.roster {
		if r.TeamID == teamID {
			snap.Roster = append(snap.Roster, r)
		}
	}
	for _, row := range s.rows {
		if ids[row.MatchID] {
			snap.Stats = append(snap.Stats, row)
		}
	}
	for _, ev := range s.events {
		if ids[ev.MatchID] {
			snap.Events = append(snap.Events, ev)
		}
	}
	return snap, nil
}

func threeTeams() *snapSource {
	return &snapSource{
		teams:   []model.Team{{ID: "a"}, {ID: "b"}, {ID: "c"}},
		matches: []model.Match{match("m1", "a", "b", 50, 40), match("m2", "b", "c", 30, 30)},
		roster: []model.RosterEntry{
			{TeamID: "a", PlayerID: "pa"},
			{TeamID: "b", PlayerID: "pb"},
			{TeamID: "c", PlayerID: "pc"},
		},
		rows: []model.PlayerMatchStat{
			{MatchID: "m1", PlayerID: "pa"},
			{MatchID: "m1", PlayerID: "pb"},
			{MatchID: "m2", PlayerID: "pb"},
			{MatchID: "m2", PlayerID: "pc"},
			{MatchID: "m2", PlayerID: "px"},
		},
		events: []model.SubstitutionEvent{
			move("m2", "pc", "Surt de pista", "3:00"),
		},
	}
}

func TestLoadInput_WholeCompetitionCountsRowsOnce(t *testing.T) {
	src := threeTeams()
	in, comp, err := LoadInput(context.Background(), src, "c1", "")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !comp.Mini {
		t.Error("competition should carry the mini flag")
	}
	if src.calls != 3 {
		t.Errorf("team loads: want 3, got %d", src.calls)
	}
	if len(in.Roster) != 3 || len(in.Stats) != 5 || len(in.Events) != 1 {
		t.Errorf("input: got %d roster / %d rows / %d events", len(in.Roster), len(in.Stats), len(in.Events))
	}

	in.Reconstructor = stats.NewReconstructor(comp.Mini)
	got := kinds(Build(in))
	if got[stats.IssueUnrosteredPlayer] != 1 || got[stats.IssueTiedScore] != 1 || got[stats.IssueUnmatchedExit] != 1 {
		t.Errorf("issues: got %v", got)
	}
}

func TestLoadInput_TeamScope(t *testing.T) {
	in, _, err := LoadInput(context.Background(), threeTeams(), "c1", "a")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(in.Matches) != 1 || in.Matches[0].ID != "m1" {
		t.Errorf("matches: want only m1, got %+v", in.Matches)
	}
	if len(in.Stats) != 2 || len(in.Events) != 0 {
		t.Errorf("rows: want m1's 2 rows and no events, got %d / %d", len(in.Stats), len(in.Events))
	}
	if len(in.Roster) != 3 {
		t.Errorf("roster: every team's roster is needed, got %d", len(in.Roster))
	}
}

func TestLoadInput_NotFound(t *testing.T) {
	if _, _, err := LoadInput(context.Background(), threeTeams(), "c9", ""); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("unknown competition: want ErrNotFound, got %v", err)
	}
	if _, _, err := LoadInput(context.Background(), threeTeams(), "c1", "z"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("unknown team: want ErrNotFound, got %v", err)
	}
}
