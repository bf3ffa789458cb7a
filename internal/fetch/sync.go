package fetch

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
)

// SyncResult summarises one competition mirror.
type SyncResult struct {
	CompetitionID string `json:"competition_id"`
	Matches       int    `json:"matches"`
	Teams         int    `json:"teams"`
}

// Catalog mirrors seasons, categories and competitions.
func (c *Client) Catalog(ctx context.Context, force bool) error {
	if err := c.Seasons(ctx, force); err != nil {
		return fmt.Errorf("seasons: %w", err)
	}
	if err := c.Categories(ctx, force); err != nil {
		return fmt.Errorf("categories: %w", err)
	}
	if err := c.Competitions(ctx, force); err != nil {
		return fmt.Errorf("competitions: %w", err)
	}
	return nil
}

// SyncCompetition mirrors everything FileSource needs for one competition:
// teams, matches, box scores, movement logs and every team's roster.
func (c *Client) SyncCompetition(ctx context.Context, competitionID string, force bool) (*SyncResult, error) {
	logger := log.Ctx(ctx).With().Str("competition_id", competitionID).Logger()

	if err := c.CompetitionTeams(ctx, competitionID, force); err != nil {
		return nil, fmt.Errorf("teams: %w", err)
	}
	matchIDs, err := c.CompetitionMatches(ctx, competitionID, force)
	if err != nil {
		return nil, fmt.Errorf("matches: %w", err)
	}
	logger.Info().Int("matches", len(matchIDs)).Msg("matches fetched")

	if len(matchIDs) > 0 {
		if err := c.MatchStats(ctx, competitionID, matchIDs, force); err != nil {
			return nil, fmt.Errorf("player stats: %w", err)
		}
		// some competitions have no movement log at all
		if err := c.MatchMovements(ctx, competitionID, matchIDs, force); err != nil {
			logger.Warn().Err(err).Msg("movements unavailable; minutes will use box scores only")
		}
	}

	teamIDs, err := c.TeamIDs(competitionID)
	if err != nil {
		return nil, fmt.Errorf("team ids: %w", err)
	}
	for _, id := range teamIDs {
		if err := c.TeamRoster(ctx, id, force); err != nil {
			return nil, fmt.Errorf("roster team %s: %w", id, err)
		}
	}
	logger.Info().Int("teams", len(teamIDs)).Msg("rosters fetched")

	return &SyncResult{CompetitionID: competitionID, Matches: len(matchIDs), Teams: len(teamIDs)}, nil
}
