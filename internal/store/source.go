package store

import (
	"context"
	"errors"

	"basket-stats-mcp/internal/model"
)

// ErrNotFound is returned when a competition or team does not exist.
var ErrNotFound = errors.New("not found")

// Source is the read side of the league data. Implementations return flat,
// already-joined entities; the engine never sees raw rows.
type Source interface {
	Seasons(ctx context.Context) ([]model.Season, error)
	Categories(ctx context.Context) ([]model.Category, error)
	// Competitions lists competitions, optionally filtered by season and
	// category (empty string means no filter).
	Competitions(ctx context.Context, seasonID, categoryID string) ([]model.Competition, error)
	// Competition returns one competition with Mini resolved from its category.
	Competition(ctx context.Context, id string) (model.Competition, error)
	CompetitionData(ctx context.Context, competitionID string) (*model.CompetitionSnapshot, error)
	TeamData(ctx context.Context, competitionID, teamID string) (*model.TeamSnapshot, error)
}

// filterCompetitions applies the season/category filters shared by every
// Source implementation and resolves the mini flag from the categories.
func filterCompetitions(comps []model.Competition, cats []model.Category, seasonID, categoryID string) []model.Competition {
	mini := make(map[string]bool, len(cats))
	for _, c := range cats {
		mini[c.ID] = c.Mini
	}
	out := make([]model.Competition, 0, len(comps))
	for _, c := range comps {
		if seasonID != "" && c.SeasonID != seasonID {
			continue
		}
		if categoryID != "" && c.CategoryID != categoryID {
			continue
		}
		if m, ok := mini[c.CategoryID]; ok {
			c.Mini = m
		}
		out = append(out, c)
	}
	return out
}

// teamMatches keeps the matches involving teamID.
func teamMatches(matches []model.Match, teamID string) []model.Match {
	out := make([]model.Match, 0)
	for _, m := range matches {
		if m.Involves(teamID) {
			out = append(out, m)
		}
	}
	return out
}

func findTeam(teams []model.Team, id string) (model.Team, bool) {
	for _, t := range teams {
		if t.ID == id {
			return t, true
		}
	}
	return model.Team{}, false
}

var (
	_ Source = (*FileSource)(nil)
	_ Source = (*Postgres)(nil)
)
