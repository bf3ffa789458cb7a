package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"sort"

	"basket-stats-mcp/internal/model"
)

// FileSource serves league data from raw rows mirrored into a JSONStore.
type FileSource struct {
	Store *JSONStore
}

func NewFileSource(st *JSONStore) *FileSource {
	return &FileSource{Store: st}
}

func readRows[R interface{ toModel() M }, M any](st *JSONStore, rel string) ([]M, error) {
	b, err := st.ReadRaw(rel)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", rel, ErrNotFound)
		}
		return nil, err
	}
	out, err := decodeRows[R, M](b)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", rel, err)
	}
	return out, nil
}

func (s *FileSource) Seasons(ctx context.Context) ([]model.Season, error) {
	out, err := readRows[rawSeason, model.Season](s.Store, SeasonsPath)
	if err != nil {
		return nil, err
	}
	// newest season first, like the catalog screen
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name > out[j].Name })
	return out, nil
}

func (s *FileSource) Categories(ctx context.Context) ([]model.Category, error) {
	out, err := readRows[rawCategory, model.Category](s.Store, CategoriesPath)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *FileSource) Competitions(ctx context.Context, seasonID, categoryID string) ([]model.Competition, error) {
	comps, err := readRows[rawCompetition, model.Competition](s.Store, CompetitionsPath)
	if err != nil {
		return nil, err
	}
	cats, err := s.Categories(ctx)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	out := filterCompetitions(comps, cats, seasonID, categoryID)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *FileSource) Competition(ctx context.Context, id string) (model.Competition, error) {
	comps, err := s.Competitions(ctx, "", "")
	if err != nil {
		return model.Competition{}, err
	}
	for _, c := range comps {
		if c.ID == id {
			return c, nil
		}
	}
	return model.Competition{}, fmt.Errorf("competition %s: %w", id, ErrNotFound)
}

func (s *FileSource) CompetitionData(ctx context.Context, competitionID string) (*model.CompetitionSnapshot, error) {
	comp, err := s.Competition(ctx, competitionID)
	if err != nil {
		return nil, err
	}
	teams, err := readRows[rawTeam, model.Team](s.Store, TeamsPath(competitionID))
	if err != nil {
		return nil, err
	}
	matches, err := readRows[rawMatch, model.Match](s.Store, MatchesPath(competitionID))
	if err != nil {
		return nil, err
	}
	sortByRound(matches)
	return &model.CompetitionSnapshot{Competition: comp, Teams: teams, Matches: matches}, nil
}

func (s *FileSource) TeamData(ctx context.Context, competitionID, teamID string) (*model.TeamSnapshot, error) {
	snap, err := s.CompetitionData(ctx, competitionID)
	if err != nil {
		return nil, err
	}
	team, ok := findTeam(snap.Teams, teamID)
	if !ok {
		return nil, fmt.Errorf("team %s in competition %s: %w", teamID, competitionID, ErrNotFound)
	}

	roster, err := readRows[rawRosterEntry, model.RosterEntry](s.Store, RosterPath(teamID))
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	stats, err := readRows[rawStat, model.PlayerMatchStat](s.Store, StatsPath(competitionID))
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	// movements are optional; minutes fall back to the box score
	events, err := readRows[rawMovement, model.SubstitutionEvent](s.Store, MovementsPath(competitionID))
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	return buildTeamSnapshot(snap, team, roster, stats, events), nil
}

// buildTeamSnapshot narrows competition-wide rows to the team's matches.
func buildTeamSnapshot(snap *model.CompetitionSnapshot, team model.Team, roster []model.RosterEntry, stats []model.PlayerMatchStat, events []model.SubstitutionEvent) *model.TeamSnapshot {
	matches := teamMatches(snap.Matches, team.ID)
	ids := make(map[string]bool, len(matches))
	for _, m := range matches {
		ids[m.ID] = true
	}

	out := &model.TeamSnapshot{
		Competition: snap.Competition,
		Team:        team,
		Teams:       snap.Teams,
		Matches:     matches,
		Roster:      make([]model.RosterEntry, 0, len(roster)),
		Stats:       make([]model.PlayerMatchStat, 0),
		Events:      make([]model.SubstitutionEvent, 0),
	}
	for _, r := range roster {
		if r.TeamID == "" || r.TeamID == team.ID {
			out.Roster = append(out.Roster, r)
		}
	}
	for _, row := range stats {
		if ids[row.MatchID] {
			out.Stats = append(out.Stats, row)
		}
	}
	for _, ev := range events {
		if ids[ev.MatchID] {
			out.Events = append(out.Events, ev)
		}
	}
	return out
}

func sortByRound(matches []model.Match) {
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].Round < matches[j].Round })
}
