package stats

import (
	"fmt"
	"sort"

	"basket-stats-mcp/internal/model"
)

// League points per result. A loss still earns a point for turning up.
const (
	WinLeaguePoints  = 2
	LossLeaguePoints = 1
)

// TeamStanding represents one team's row in the league table.
type TeamStanding struct {
	Rank          int    `json:"rank"`
	TeamID        string `json:"team_id"`
	Name          string `json:"name"`
	Club          string `json:"club"`
	Logo          string `json:"logo,omitempty"`
	Played        int    `json:"played"`
	Won           int    `json:"won"`
	Lost          int    `json:"lost"`
	PointsFor     int    `json:"points_for"`
	PointsAgainst int    `json:"points_against"`
	Diff          int    `json:"diff"`
	LeaguePoints  int    `json:"league_points"`
}

type IssueKind string

const (
	IssueTiedScore        IssueKind = "tied_score"
	IssueUnknownTeam      IssueKind = "unknown_team"
	IssueUnrosteredPlayer IssueKind = "unrostered_player"
	IssueUnknownMatch     IssueKind = "unknown_match"
	IssueUnmatchedExit    IssueKind = "unmatched_exit"
	IssueOpenStint        IssueKind = "open_stint"
)

// Issue is a data-quality observation. Issues never stop a computation.
type Issue struct {
	Kind     IssueKind `json:"kind"`
	MatchID  string    `json:"match_id,omitempty"`
	TeamID   string    `json:"team_id,omitempty"`
	PlayerID string    `json:"player_id,omitempty"`
	Detail   string    `json:"detail"`
}

// Table is the ranked standings plus whatever looked wrong in the input.
type Table struct {
	Standings []TeamStanding `json:"standings"`
	Issues    []Issue        `json:"issues,omitempty"`
}

// ComputeStandings folds completed matches into one row per team.
//
// Matches without both scores are skipped. Matches naming a team that is not
// in teams are skipped and reported. A tied score cannot happen under the
// league rules; when the data has one, the away side is credited the win (the
// historical behaviour) and the match is reported.
func ComputeStandings(teams []model.Team, matches []model.Match) Table {
	rows := make([]TeamStanding, 0, len(teams))
	index := make(map[string]int, len(teams))
	for _, t := range teams {
		if _, dup := index[t.ID]; dup {
			continue
		}
		index[t.ID] = len(rows)
		rows = append(rows, TeamStanding{
			TeamID: t.ID,
			Name:   t.Name,
			Club:   ClubLabel(t.Club),
			Logo:   t.Club.LogoURL,
		})
	}

	var issues []Issue
	for _, m := range matches {
		if !m.Completed() {
			continue
		}
		hi, okHome := index[m.HomeTeamID]
		ai, okAway := index[m.AwayTeamID]
		if !okHome || !okAway {
			missing := m.HomeTeamID
			if okHome {
				missing = m.AwayTeamID
			}
			issues = append(issues, Issue{
				Kind:    IssueUnknownTeam,
				MatchID: m.ID,
				TeamID:  missing,
				Detail:  fmt.Sprintf("match %s references team %s outside the competition; not counted", m.ID, missing),
			})
			continue
		}

		hs, as := *m.HomeScore, *m.AwayScore
		home, away := &rows[hi], &rows[ai]

		home.Played++
		away.Played++
		home.PointsFor += hs
		home.PointsAgainst += as
		away.PointsFor += as
		away.PointsAgainst += hs

		winner, loser := away, home
		if hs > as {
			winner, loser = home, away
		}
		if hs == as {
			issues = append(issues, Issue{
				Kind:    IssueTiedScore,
				MatchID: m.ID,
				TeamID:  m.AwayTeamID,
				Detail:  fmt.Sprintf("match %s ended %d-%d; away team credited the win", m.ID, hs, as),
			})
		}
		winner.Won++
		winner.LeaguePoints += WinLeaguePoints
		loser.Lost++
		loser.LeaguePoints += LossLeaguePoints
	}

	for i := range rows {
		rows[i].Diff = rows[i].PointsFor - rows[i].PointsAgainst
	}

	// League points DESC -> point difference DESC -> input order
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].LeaguePoints != rows[j].LeaguePoints {
			return rows[i].LeaguePoints > rows[j].LeaguePoints
		}
		return rows[i].Diff > rows[j].Diff
	})
	for i := range rows {
		rows[i].Rank = i + 1
	}

	return Table{Standings: rows, Issues: issues}
}

// ClubLabel is the short club name shown next to a team, "Club" when unknown.
func ClubLabel(c model.Club) string {
	if c.ShortName != "" {
		return c.ShortName
	}
	return "Club"
}

// winnerOf applies the standings result rule to a completed match and returns
// the winning team id.
func winnerOf(m model.Match) string {
	if *m.HomeScore > *m.AwayScore {
		return m.HomeTeamID
	}
	return m.AwayTeamID
}
