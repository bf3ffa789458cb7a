// Package audit collects data-quality observations about a competition
// snapshot. Nothing here fails: every anomaly is reported and the numbers
// computed by the stats package are left as they are.
package audit

import (
	"fmt"
	"sort"
	"time"

	"basket-stats-mcp/internal/model"
	"basket-stats-mcp/internal/stats"
)

// Input is the snapshot to audit. Roster must cover every team whose rows
// appear in Stats; with TeamID set only that team's matches are checked for
// unrostered players.
type Input struct {
	CompetitionID string
	TeamID        string
	Teams         []model.Team
	Matches       []model.Match
	Roster        []model.RosterEntry
	Stats         []model.PlayerMatchStat
	Events        []model.SubstitutionEvent
	Reconstructor stats.Reconstructor
}

type Summary struct {
	Matches          int                     `json:"matches"`
	CompletedMatches int                     `json:"completed_matches"`
	StatRows         int                     `json:"stat_rows"`
	Events           int                     `json:"events"`
	IssuesByKind     map[stats.IssueKind]int `json:"issues_by_kind"`
}

type Report struct {
	CompetitionID  string        `json:"competition_id"`
	TeamID         string        `json:"team_id,omitempty"`
	GeneratedAtUTC string        `json:"generated_at_utc"`
	Summary        Summary       `json:"summary"`
	Issues         []stats.Issue `json:"issues"`
}

// Build reports tied scores and unknown teams from the standings fold, stat
// rows that cannot be attributed, and per (match, player) substitution logs
// with unmatched exits or stints still open at the end.
func Build(in Input) *Report {
	issues := make([]stats.Issue, 0)

	table := stats.ComputeStandings(in.Teams, in.Matches)
	issues = append(issues, table.Issues...)

	matchIDs := make(map[string]bool, len(in.Matches))
	completed := 0
	for _, m := range in.Matches {
		matchIDs[m.ID] = true
		if m.Completed() {
			completed++
		}
	}

	if len(in.Roster) > 0 {
		rostered := make(map[string]bool, len(in.Roster))
		for _, r := range in.Roster {
			rostered[r.PlayerID] = true
		}
		reported := make(map[string]bool)
		for _, row := range in.Stats {
			if rostered[row.PlayerID] || reported[row.PlayerID] || !teamPlayed(in, row.MatchID) {
				continue
			}
			reported[row.PlayerID] = true
			issues = append(issues, stats.Issue{
				Kind:     stats.IssueUnrosteredPlayer,
				MatchID:  row.MatchID,
				TeamID:   in.TeamID,
				PlayerID: row.PlayerID,
				Detail:   fmt.Sprintf("player %s has stat rows but is not on the roster; excluded from aggregates", row.PlayerID),
			})
		}
	}

	for _, row := range in.Stats {
		if !matchIDs[row.MatchID] {
			issues = append(issues, stats.Issue{
				Kind:     stats.IssueUnknownMatch,
				MatchID:  row.MatchID,
				PlayerID: row.PlayerID,
				Detail:   fmt.Sprintf("stat row for player %s references match %s outside the snapshot", row.PlayerID, row.MatchID),
			})
		}
	}

	issues = append(issues, stintIssues(in)...)

	sort.SliceStable(issues, func(i, j int) bool {
		if issues[i].Kind != issues[j].Kind {
			return issues[i].Kind < issues[j].Kind
		}
		if issues[i].MatchID != issues[j].MatchID {
			return issues[i].MatchID < issues[j].MatchID
		}
		return issues[i].PlayerID < issues[j].PlayerID
	})

	byKind := make(map[stats.IssueKind]int)
	for _, is := range issues {
		byKind[is.Kind]++
	}

	return &Report{
		CompetitionID:  in.CompetitionID,
		TeamID:         in.TeamID,
		GeneratedAtUTC: time.Now().UTC().Format(time.RFC3339),
		Summary: Summary{
			Matches:          len(in.Matches),
			CompletedMatches: completed,
			StatRows:         len(in.Stats),
			Events:           len(in.Events),
			IssuesByKind:     byKind,
		},
		Issues: issues,
	}
}

func stintIssues(in Input) []stats.Issue {
	type pair struct{ match, player string }
	var order []pair
	logs := make(map[pair][]model.SubstitutionEvent)
	for _, ev := range in.Events {
		k := pair{ev.MatchID, ev.PlayerID}
		if _, ok := logs[k]; !ok {
			order = append(order, k)
		}
		logs[k] = append(logs[k], ev)
	}

	var out []stats.Issue
	for _, k := range order {
		st := in.Reconstructor.Reconstruct(k.match, k.player, logs[k])
		if st.UnmatchedExits > 0 {
			out = append(out, stats.Issue{
				Kind:     stats.IssueUnmatchedExit,
				MatchID:  k.match,
				PlayerID: k.player,
				Detail:   fmt.Sprintf("%d exit(s) without a preceding entry; credited per %s policy", st.UnmatchedExits, in.Reconstructor.UnmatchedExit),
			})
		}
		if st.OpenAtEnd {
			out = append(out, stats.Issue{
				Kind:     stats.IssueOpenStint,
				MatchID:  k.match,
				PlayerID: k.player,
				Detail:   "log ends with the player on court; credited until the clock reached zero",
			})
		}
	}
	return out
}

// teamPlayed reports whether the match belongs to the audited team. Without a
// team filter every match counts.
func teamPlayed(in Input, matchID string) bool {
	if in.TeamID == "" {
		return true
	}
	for _, m := range in.Matches {
		if m.ID == matchID {
			return m.Involves(in.TeamID)
		}
	}
	return false
}
