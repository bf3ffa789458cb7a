package audit

import (
	"context"
	"fmt"

	"basket-stats-mcp/internal/model"
	"basket-stats-mcp/internal/store"
)

// LoadInput assembles an Input from src. Rosters of every team are loaded so
// that opponent rows are not reported as unrostered; with teamID set only
// that team's matches, rows and events are audited. The caller still has to
// set the Reconstructor, typically from the returned competition's category.
func LoadInput(ctx context.Context, src store.Source, competitionID, teamID string) (Input, model.Competition, error) {
	comp, err := src.CompetitionData(ctx, competitionID)
	if err != nil {
		return Input{}, model.Competition{}, fmt.Errorf("load competition %s: %w", competitionID, err)
	}

	in := Input{
		CompetitionID: competitionID,
		TeamID:        teamID,
		Teams:         comp.Teams,
		Matches:       comp.Matches,
	}
	if teamID != "" {
		in.Matches = make([]model.Match, 0)
		for _, m := range comp.Matches {
			if m.Involves(teamID) {
				in.Matches = append(in.Matches, m)
			}
		}
		if !hasTeam(comp.Teams, teamID) {
			return Input{}, model.Competition{}, fmt.Errorf("team %s in competition %s: %w", teamID, competitionID, store.ErrNotFound)
		}
	}

	// Each match shows up in both teams' snapshots; its rows are taken from
	// the first snapshot that claims it.
	claimed := make(map[string]string)
	for _, t := range comp.Teams {
		snap, err := src.TeamData(ctx, competitionID, t.ID)
		if err != nil {
			return Input{}, model.Competition{}, fmt.Errorf("load team %s: %w", t.ID, err)
		}
		in.Roster = append(in.Roster, snap.Roster...)
		if teamID != "" && t.ID != teamID {
			continue
		}
		for _, m := range snap.Matches {
			if _, ok := claimed[m.ID]; !ok {
				claimed[m.ID] = t.ID
			}
		}
		for _, row := range snap.Stats {
			if owner, ok := claimed[row.MatchID]; !ok || owner == t.ID {
				in.Stats = append(in.Stats, row)
			}
		}
		for _, ev := range snap.Events {
			if owner, ok := claimed[ev.MatchID]; !ok || owner == t.ID {
				in.Events = append(in.Events, ev)
			}
		}
	}
	return in, comp.Competition, nil
}

func hasTeam(teams []model.Team, id string) bool {
	for _, t := range teams {
		if t.ID == id {
			return true
		}
	}
	return false
}
