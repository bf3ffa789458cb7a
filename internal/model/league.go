package model

import "time"

type Season struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Category is an age/level bracket. Mini categories play shorter periods.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Mini bool   `json:"mini"`
}

type Competition struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	SeasonID   string `json:"season_id"`
	CategoryID string `json:"category_id"`
	Mini       bool   `json:"mini"`
}

type Club struct {
	ID        string `json:"id,omitempty"`
	Name      string `json:"name"`
	ShortName string `json:"short_name"`
	LogoURL   string `json:"logo_url,omitempty"`
}

type Team struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	CompetitionID string `json:"competition_id,omitempty"`
	Club          Club   `json:"club"`
}

// Match is one fixture. HomeScore/AwayScore are nil until the result is recorded.
type Match struct {
	ID            string    `json:"id"`
	CompetitionID string    `json:"competition_id,omitempty"`
	HomeTeamID    string    `json:"home_team_id"`
	AwayTeamID    string    `json:"away_team_id"`
	HomeScore     *int      `json:"home_score"`
	AwayScore     *int      `json:"away_score"`
	Round         int       `json:"round"`
	PlayedAt      time.Time `json:"played_at"`
}

// Completed reports whether both final scores are present.
func (m Match) Completed() bool {
	return m.HomeScore != nil && m.AwayScore != nil
}

// Involves reports whether teamID played in the match.
func (m Match) Involves(teamID string) bool {
	return m.HomeTeamID == teamID || m.AwayTeamID == teamID
}

type RosterEntry struct {
	TeamID   string `json:"team_id"`
	PlayerID string `json:"player_id"`
	Jersey   string `json:"jersey"`
	Name     string `json:"name"`
	PhotoURL string `json:"photo_url,omitempty"`
}

// PlayerMatchStat is one box-score row: a player's line in a single match.
type PlayerMatchStat struct {
	MatchID           string `json:"match_id"`
	PlayerID          string `json:"player_id"`
	Points            Count  `json:"points"`
	Minutes           Clock  `json:"minutes"`
	PersonalFouls     Count  `json:"personal_fouls"`
	TechnicalFouls    Count  `json:"technical_fouls,omitempty"`
	UnsportsmanFouls  Count  `json:"unsportsmanlike_fouls,omitempty"`
	FreeThrowsMade    Count  `json:"ft_made"`
	FreeThrowsAtt     Count  `json:"ft_attempted"`
	TwoPointersMade   Count  `json:"fg2_made"`
	TwoPointersAtt    Count  `json:"fg2_attempted"`
	ThreePointersMade Count  `json:"fg3_made"`
	ThreePointersAtt  Count  `json:"fg3_attempted"`
}

// SubstitutionEvent is one entry of a match's movement log. Log order is
// chronological within a match.
type SubstitutionEvent struct {
	ID          string `json:"id,omitempty"`
	MatchID     string `json:"match_id"`
	PlayerID    string `json:"player_id"`
	Description string `json:"description,omitempty"`
	Type        string `json:"type,omitempty"`
	Clock       Clock  `json:"clock"`
}

// CompetitionSnapshot is everything needed to build a competition's table.
type CompetitionSnapshot struct {
	Competition Competition `json:"competition"`
	Teams       []Team      `json:"teams"`
	Matches     []Match     `json:"matches"`
}

// TeamSnapshot is everything needed to build a team's player and match views.
// Stats and Events cover every match the team played, including rows that
// belong to the opponents.
type TeamSnapshot struct {
	Competition Competition         `json:"competition"`
	Team        Team                `json:"team"`
	Teams       []Team              `json:"teams"`
	Matches     []Match             `json:"matches"`
	Roster      []RosterEntry       `json:"roster"`
	Stats       []PlayerMatchStat   `json:"stats"`
	Events      []SubstitutionEvent `json:"events"`
}
