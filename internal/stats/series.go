package stats

import (
	"fmt"
	"sort"

	"basket-stats-mcp/internal/model"
)

// SeriesPoint is one match of a player's season chart.
type SeriesPoint struct {
	Label          string  `json:"label"`
	MatchID        string  `json:"match_id"`
	Round          int     `json:"round"`
	Points         int     `json:"points"`
	FreeThrowsMade int     `json:"ft_made"`
	FreeThrowsAtt  int     `json:"ft_attempted"`
	Minutes        float64 `json:"minutes"`
}

// PlayerSeries returns the player's per-match line in round order. Minutes
// come from the row when it has a positive reading, otherwise from rec over
// events. Rows for matches missing from matches keep round 0 and are
// labelled by position.
func PlayerSeries(playerID string, matches []model.Match, rows []model.PlayerMatchStat, events []model.SubstitutionEvent, rec Reconstructor) []SeriesPoint {
	rounds := make(map[string]int, len(matches))
	for _, m := range matches {
		rounds[m.ID] = m.Round
	}
	moves := groupEvents(events)

	var out []SeriesPoint
	index := make(map[string]int)
	for _, row := range rows {
		if row.PlayerID != playerID {
			continue
		}
		i, ok := index[row.MatchID]
		if !ok {
			i = len(out)
			index[row.MatchID] = i
			out = append(out, SeriesPoint{MatchID: row.MatchID, Round: rounds[row.MatchID]})
		}
		p := &out[i]
		p.Points += row.Points.Int()
		p.FreeThrowsMade += row.FreeThrowsMade.Int()
		p.FreeThrowsAtt += row.FreeThrowsAtt.Int()
		if m := DirectMinutes(row); m > 0 {
			p.Minutes += m
		} else if !ok {
			p.Minutes += rec.Minutes(row.MatchID, playerID, moves[eventKey{row.MatchID, playerID}])
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Round != out[j].Round {
			return out[i].Round < out[j].Round
		}
		return out[i].MatchID < out[j].MatchID
	})
	for i := range out {
		if out[i].Round > 0 {
			out[i].Label = fmt.Sprintf("J%d", out[i].Round)
		} else {
			out[i].Label = fmt.Sprintf("J%d", i+1)
		}
	}
	return out
}
