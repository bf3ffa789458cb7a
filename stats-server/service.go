package main

import (
	"context"
	"fmt"

	"basket-stats-mcp/internal/audit"
	"basket-stats-mcp/internal/config"
	"basket-stats-mcp/internal/model"
	"basket-stats-mcp/internal/stats"
	"basket-stats-mcp/internal/store"
)

// service answers every MCP tool and REST route. It holds no state besides
// its collaborators; every call reads a fresh snapshot from src.
type service struct {
	src store.Source
	cfg *config.Config
}

func newService(src store.Source, cfg *config.Config) *service {
	return &service{src: src, cfg: cfg}
}

type StandingsResult struct {
	Competition model.Competition    `json:"competition"`
	Standings   []stats.TeamStanding `json:"standings"`
	Issues      []stats.Issue        `json:"issues,omitempty"`
}

type TeamPlayersResult struct {
	Competition model.Competition       `json:"competition"`
	Team        model.Team              `json:"team"`
	Minutes     string                  `json:"minutes_source"`
	Order       string                  `json:"order"`
	Players     []stats.PlayerAggregate `json:"players"`
}

type TeamMatchesResult struct {
	Competition model.Competition `json:"competition"`
	Team        model.Team        `json:"team"`
	Matches     []stats.MatchLine `json:"matches"`
}

type PlayerMatchesResult struct {
	Competition model.Competition     `json:"competition"`
	Team        model.Team            `json:"team"`
	Player      model.RosterEntry     `json:"player"`
	Series      []stats.SeriesPoint   `json:"series"`
	Totals      stats.PlayerAggregate `json:"totals"`
}

func (s *service) seasons(ctx context.Context) ([]model.Season, error) {
	return s.src.Seasons(ctx)
}

func (s *service) categories(ctx context.Context) ([]model.Category, error) {
	return s.src.Categories(ctx)
}

func (s *service) competitions(ctx context.Context, seasonID, categoryID string) ([]model.Competition, error) {
	return s.src.Competitions(ctx, seasonID, categoryID)
}

func (s *service) standings(ctx context.Context, competitionID string) (*StandingsResult, error) {
	if competitionID == "" {
		return nil, badRequest("competition_id is required")
	}
	snap, err := s.src.CompetitionData(ctx, competitionID)
	if err != nil {
		return nil, fmt.Errorf("load competition %s: %w", competitionID, err)
	}
	table := stats.ComputeStandings(snap.Teams, snap.Matches)
	return &StandingsResult{
		Competition: snap.Competition,
		Standings:   table.Standings,
		Issues:      table.Issues,
	}, nil
}

// teamPlayers aggregates a team's roster. Empty minutes/order fall back to
// the configured engine defaults.
func (s *service) teamPlayers(ctx context.Context, competitionID, teamID, minutes, order string) (*TeamPlayersResult, error) {
	snap, err := s.teamData(ctx, competitionID, teamID)
	if err != nil {
		return nil, err
	}
	opts, err := s.cfg.PlayerOptions(snap.Competition.Mini)
	if err != nil {
		return nil, err
	}
	if minutes != "" {
		if opts.Minutes, err = stats.ParseMinutesSource(minutes); err != nil {
			return nil, badRequestError{err}
		}
	}
	if opts.Order, err = stats.ParsePlayerOrder(order); err != nil {
		return nil, badRequestError{err}
	}

	players := stats.AggregatePlayers(snap.Roster, snap.Stats, snap.Events, opts)
	return &TeamPlayersResult{
		Competition: snap.Competition,
		Team:        snap.Team,
		Minutes:     opts.Minutes.String(),
		Order:       opts.Order.String(),
		Players:     players,
	}, nil
}

func (s *service) teamMatches(ctx context.Context, competitionID, teamID string) (*TeamMatchesResult, error) {
	snap, err := s.teamData(ctx, competitionID, teamID)
	if err != nil {
		return nil, err
	}
	return &TeamMatchesResult{
		Competition: snap.Competition,
		Team:        snap.Team,
		Matches:     stats.TeamMatchLog(snap.Team.ID, snap.Teams, snap.Matches, snap.Roster, snap.Stats),
	}, nil
}

func (s *service) playerMatches(ctx context.Context, competitionID, teamID, playerID string) (*PlayerMatchesResult, error) {
	if playerID == "" {
		return nil, badRequest("player_id is required")
	}
	snap, err := s.teamData(ctx, competitionID, teamID)
	if err != nil {
		return nil, err
	}
	var player model.RosterEntry
	found := false
	for _, r := range snap.Roster {
		if r.PlayerID == playerID {
			player, found = r, true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("player %s on team %s: %w", playerID, teamID, store.ErrNotFound)
	}

	opts, err := s.cfg.PlayerOptions(snap.Competition.Mini)
	if err != nil {
		return nil, err
	}
	totals := stats.AggregatePlayers([]model.RosterEntry{player}, snap.Stats, snap.Events, opts)
	return &PlayerMatchesResult{
		Competition: snap.Competition,
		Team:        snap.Team,
		Player:      player,
		Series:      stats.PlayerSeries(playerID, snap.Matches, snap.Stats, snap.Events, opts.Reconstructor),
		Totals:      totals[0],
	}, nil
}

// dataQuality audits one team, or the whole competition when teamID is
// empty.
func (s *service) dataQuality(ctx context.Context, competitionID, teamID string) (*audit.Report, error) {
	if competitionID == "" {
		return nil, badRequest("competition_id is required")
	}
	in, comp, err := audit.LoadInput(ctx, s.src, competitionID, teamID)
	if err != nil {
		return nil, err
	}
	if in.Reconstructor, err = s.cfg.Reconstructor(comp.Mini); err != nil {
		return nil, err
	}
	return audit.Build(in), nil
}

func (s *service) teamData(ctx context.Context, competitionID, teamID string) (*model.TeamSnapshot, error) {
	if competitionID == "" {
		return nil, badRequest("competition_id is required")
	}
	if teamID == "" {
		return nil, badRequest("team_id is required")
	}
	snap, err := s.src.TeamData(ctx, competitionID, teamID)
	if err != nil {
		return nil, fmt.Errorf("load team %s in competition %s: %w", teamID, competitionID, err)
	}
	return snap, nil
}
