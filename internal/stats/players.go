package stats

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"basket-stats-mcp/internal/model"
)

// MinutesSource selects where a player's minutes come from.
type MinutesSource int

const (
	// MinutesAuto uses the box-score minutes when the row has a positive
	// reading and reconstructs from substitutions otherwise.
	MinutesAuto MinutesSource = iota
	// MinutesDirect only trusts the box-score minutes.
	MinutesDirect
	// MinutesReconstructed always rebuilds minutes from substitutions.
	MinutesReconstructed
)

func (s MinutesSource) String() string {
	switch s {
	case MinutesDirect:
		return "direct"
	case MinutesReconstructed:
		return "substitutions"
	default:
		return "auto"
	}
}

func ParseMinutesSource(s string) (MinutesSource, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return MinutesAuto, nil
	case "direct":
		return MinutesDirect, nil
	case "substitutions", "subs", "reconstructed":
		return MinutesReconstructed, nil
	default:
		return MinutesAuto, fmt.Errorf("unknown minutes source %q (want auto|direct|substitutions)", s)
	}
}

// PlayerOrder is the sort key of an aggregated player list.
type PlayerOrder int

const (
	OrderPointsPerGame PlayerOrder = iota
	OrderTotalPoints
)

func (o PlayerOrder) String() string {
	if o == OrderTotalPoints {
		return "points"
	}
	return "ppg"
}

func ParsePlayerOrder(s string) (PlayerOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "ppg":
		return OrderPointsPerGame, nil
	case "points", "pts":
		return OrderTotalPoints, nil
	default:
		return OrderPointsPerGame, fmt.Errorf("unknown player order %q (want ppg|points)", s)
	}
}

type PlayerOptions struct {
	Minutes       MinutesSource
	Order         PlayerOrder
	Reconstructor Reconstructor
}

// Shooting is a made/attempted pair for one shot type.
type Shooting struct {
	Made      int     `json:"made"`
	Attempted int     `json:"attempted"`
	Pct       float64 `json:"pct"`
}

func (s *Shooting) add(made, attempted model.Count) {
	s.Made += made.Int()
	s.Attempted += attempted.Int()
}

func (s *Shooting) finish() {
	s.Pct = 0
	if s.Attempted > 0 {
		s.Pct = float64(s.Made) / float64(s.Attempted) * 100
	}
}

// PlayerAggregate is a rostered player's season line.
type PlayerAggregate struct {
	PlayerID        string   `json:"player_id"`
	Name            string   `json:"name"`
	PhotoURL        string   `json:"photo_url,omitempty"`
	Jersey          string   `json:"jersey"`
	GamesPlayed     int      `json:"games_played"`
	Points          int      `json:"points"`
	Minutes         float64  `json:"minutes"`
	Fouls           int      `json:"fouls"`
	FreeThrows      Shooting `json:"ft"`
	TwoPointers     Shooting `json:"fg2"`
	ThreePointers   Shooting `json:"fg3"`
	PointsPerGame   float64  `json:"ppg"`
	MinutesPerGame  float64  `json:"mpg"`
	FoulsPerGame    float64  `json:"fpg"`
	PointsPerMinute float64  `json:"ppm"`
}

// Fallbacks for roster entries with missing player metadata.
const (
	UnknownPlayerName = "Jugador"
	UnknownJersey     = "-"
)

// AggregatePlayers builds one aggregate per roster entry, including players
// who never appear in rows. Rows for players outside the roster are ignored.
// Games played counts distinct matches.
func AggregatePlayers(roster []model.RosterEntry, rows []model.PlayerMatchStat, events []model.SubstitutionEvent, opts PlayerOptions) []PlayerAggregate {
	out := make([]PlayerAggregate, 0, len(roster))
	index := make(map[string]int, len(roster))
	for _, r := range roster {
		if _, dup := index[r.PlayerID]; dup {
			continue
		}
		index[r.PlayerID] = len(out)
		out = append(out, newAggregate(r))
	}

	moves := groupEvents(events)
	seen := make([]map[string]bool, len(out))
	rec := opts.Reconstructor

	for _, row := range rows {
		i, ok := index[row.PlayerID]
		if !ok {
			continue
		}
		p := &out[i]
		if seen[i] == nil {
			seen[i] = make(map[string]bool)
		}
		first := !seen[i][row.MatchID]
		seen[i][row.MatchID] = true
		if first {
			p.GamesPlayed++
		}

		p.Points += row.Points.Int()
		p.Fouls += row.PersonalFouls.Int()
		p.FreeThrows.add(row.FreeThrowsMade, row.FreeThrowsAtt)
		p.TwoPointers.add(row.TwoPointersMade, row.TwoPointersAtt)
		p.ThreePointers.add(row.ThreePointersMade, row.ThreePointersAtt)

		key := eventKey{row.MatchID, row.PlayerID}
		switch opts.Minutes {
		case MinutesDirect:
			p.Minutes += DirectMinutes(row)
		case MinutesReconstructed:
			if first {
				p.Minutes += rec.Minutes(row.MatchID, row.PlayerID, moves[key])
			}
		default:
			if m := DirectMinutes(row); m > 0 {
				p.Minutes += m
			} else if first {
				p.Minutes += rec.Minutes(row.MatchID, row.PlayerID, moves[key])
			}
		}
	}

	for i := range out {
		finishAggregate(&out[i])
	}
	SortPlayers(out, opts.Order)
	return out
}

// DirectMinutes reads the minutes recorded on a box-score row.
func DirectMinutes(row model.PlayerMatchStat) float64 {
	return math.Max(0, ClockSeconds(row.Minutes)) / 60
}

// SortPlayers orders aggregates descending by the chosen key. Ties keep
// their current order.
func SortPlayers(players []PlayerAggregate, order PlayerOrder) {
	sort.SliceStable(players, func(i, j int) bool {
		if order == OrderTotalPoints {
			return players[i].Points > players[j].Points
		}
		return players[i].PointsPerGame > players[j].PointsPerGame
	})
}

func newAggregate(r model.RosterEntry) PlayerAggregate {
	name := strings.TrimSpace(r.Name)
	if name == "" {
		name = UnknownPlayerName
	}
	jersey := strings.TrimSpace(r.Jersey)
	if jersey == "" {
		jersey = UnknownJersey
	}
	return PlayerAggregate{
		PlayerID: r.PlayerID,
		Name:     name,
		PhotoURL: r.PhotoURL,
		Jersey:   jersey,
	}
}

func finishAggregate(p *PlayerAggregate) {
	p.FreeThrows.finish()
	p.TwoPointers.finish()
	p.ThreePointers.finish()
	if p.GamesPlayed > 0 {
		gp := float64(p.GamesPlayed)
		p.PointsPerGame = float64(p.Points) / gp
		p.MinutesPerGame = p.Minutes / gp
		p.FoulsPerGame = float64(p.Fouls) / gp
	}
	if p.Minutes > 0 {
		p.PointsPerMinute = float64(p.Points) / p.Minutes
	}
}

type eventKey struct {
	matchID  string
	playerID string
}

// groupEvents splits a log per (match, player), keeping log order.
func groupEvents(events []model.SubstitutionEvent) map[eventKey][]model.SubstitutionEvent {
	out := make(map[eventKey][]model.SubstitutionEvent)
	for _, ev := range events {
		k := eventKey{ev.MatchID, ev.PlayerID}
		out[k] = append(out[k], ev)
	}
	return out
}
