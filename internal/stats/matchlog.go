package stats

import (
	"sort"
	"time"

	"basket-stats-mcp/internal/model"
)

// Match results from a team's point of view.
const (
	ResultWin  = "W"
	ResultLoss = "L"
)

// MatchLine is one match in a team's season log.
type MatchLine struct {
	MatchID       string    `json:"match_id"`
	Round         int       `json:"round"`
	PlayedAt      time.Time `json:"played_at"`
	Home          bool      `json:"home"`
	OpponentID    string    `json:"opponent_id"`
	OpponentName  string    `json:"opponent_name"`
	OpponentClub  string    `json:"opponent_club"`
	OpponentLogo  string    `json:"opponent_logo,omitempty"`
	Played        bool      `json:"played"`
	TeamScore     *int      `json:"team_score"`
	OpponentScore *int      `json:"opponent_score"`
	Result        string    `json:"result,omitempty"`
	FreeThrows    Shooting  `json:"ft"`
	TwoPointers   Shooting  `json:"fg2"`
	ThreePointers Shooting  `json:"fg3"`
	Fouls         int       `json:"fouls"`
}

// TeamMatchLog lists every match involving teamID, newest first. Box-score
// totals only include rows of players on the roster, so the opponent's rows
// never leak into the team's line. Fouls count personal, technical and
// unsportsmanlike fouls together.
func TeamMatchLog(teamID string, teams []model.Team, matches []model.Match, roster []model.RosterEntry, rows []model.PlayerMatchStat) []MatchLine {
	byID := make(map[string]model.Team, len(teams))
	for _, t := range teams {
		byID[t.ID] = t
	}
	rostered := make(map[string]bool, len(roster))
	for _, r := range roster {
		if r.TeamID == "" || r.TeamID == teamID {
			rostered[r.PlayerID] = true
		}
	}
	rowsByMatch := make(map[string][]model.PlayerMatchStat)
	for _, row := range rows {
		if rostered[row.PlayerID] {
			rowsByMatch[row.MatchID] = append(rowsByMatch[row.MatchID], row)
		}
	}

	var out []MatchLine
	seen := make(map[string]bool)
	for _, m := range matches {
		if !m.Involves(teamID) || seen[m.ID] {
			continue
		}
		seen[m.ID] = true

		line := MatchLine{
			MatchID:  m.ID,
			Round:    m.Round,
			PlayedAt: m.PlayedAt,
			Home:     m.HomeTeamID == teamID,
			Played:   m.Completed(),
		}
		if line.Home {
			line.OpponentID = m.AwayTeamID
			line.TeamScore, line.OpponentScore = copyScore(m.HomeScore), copyScore(m.AwayScore)
		} else {
			line.OpponentID = m.HomeTeamID
			line.TeamScore, line.OpponentScore = copyScore(m.AwayScore), copyScore(m.HomeScore)
		}
		if opp, ok := byID[line.OpponentID]; ok {
			line.OpponentName = opp.Name
			line.OpponentClub = ClubLabel(opp.Club)
			line.OpponentLogo = opp.Club.LogoURL
		} else {
			line.OpponentClub = ClubLabel(model.Club{})
		}
		if line.Played {
			line.Result = ResultLoss
			if winnerOf(m) == teamID {
				line.Result = ResultWin
			}
		}

		for _, row := range rowsByMatch[m.ID] {
			line.FreeThrows.add(row.FreeThrowsMade, row.FreeThrowsAtt)
			line.TwoPointers.add(row.TwoPointersMade, row.TwoPointersAtt)
			line.ThreePointers.add(row.ThreePointersMade, row.ThreePointersAtt)
			line.Fouls += row.PersonalFouls.Int() + row.TechnicalFouls.Int() + row.UnsportsmanFouls.Int()
		}
		line.FreeThrows.finish()
		line.TwoPointers.finish()
		line.ThreePointers.finish()

		out = append(out, line)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].PlayedAt.Equal(out[j].PlayedAt) {
			return out[i].PlayedAt.After(out[j].PlayedAt)
		}
		return out[i].Round > out[j].Round
	})
	return out
}

func copyScore(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
