package stats

import (
	"fmt"
	"math"
	"strings"

	"basket-stats-mcp/internal/model"
)

// UnmatchedExitPolicy decides what an EXIT with no open ENTER is worth.
type UnmatchedExitPolicy int

const (
	// ExitIgnore credits nothing.
	ExitIgnore UnmatchedExitPolicy = iota
	// ExitFromPeriodStart assumes the player had been on court since the
	// start of the period and credits the time elapsed until the exit.
	ExitFromPeriodStart
)

func (p UnmatchedExitPolicy) String() string {
	if p == ExitFromPeriodStart {
		return "period_start"
	}
	return "ignore"
}

// ParseUnmatchedExitPolicy accepts "ignore" (or empty) and "period_start".
func ParseUnmatchedExitPolicy(s string) (UnmatchedExitPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "ignore":
		return ExitIgnore, nil
	case "period_start":
		return ExitFromPeriodStart, nil
	default:
		return ExitIgnore, fmt.Errorf("unknown unmatched exit policy %q", s)
	}
}

// Reconstructor rebuilds on-court time from a match's substitution log.
// The zero value uses the full period and the default vocabulary.
type Reconstructor struct {
	PeriodSeconds float64
	Vocabulary    Vocabulary
	UnmatchedExit UnmatchedExitPolicy
}

func NewReconstructor(mini bool) Reconstructor {
	return Reconstructor{
		PeriodSeconds: PeriodSeconds(mini),
		Vocabulary:    DefaultVocabulary,
	}
}

// Stint is the reconstruction result for one player in one match.
type Stint struct {
	MatchID        string  `json:"match_id"`
	PlayerID       string  `json:"player_id"`
	Seconds        float64 `json:"seconds"`
	Moves          int     `json:"moves"`
	Ignored        int     `json:"ignored"`
	UnmatchedExits int     `json:"unmatched_exits"`
	OpenAtEnd      bool    `json:"open_at_end"`
}

func (s Stint) Minutes() float64 { return s.Seconds / 60 }

// Reconstruct walks the log in order, keeping only the given player's
// ENTER/EXIT entries for the given match. An ENTER opens a stint (replacing
// any stint still open); an EXIT closes it and credits the clock difference.
// A stint still open at the end of the log runs until the clock reaches 0.
func (r Reconstructor) Reconstruct(matchID, playerID string, events []model.SubstitutionEvent) Stint {
	st := Stint{MatchID: matchID, PlayerID: playerID}
	vocab := r.Vocabulary
	if vocab.empty() {
		vocab = DefaultVocabulary
	}

	var (
		total     float64
		onCourt   bool
		hasEnter  bool
		lastEnter float64
	)
	for _, ev := range events {
		if ev.MatchID != matchID || ev.PlayerID != playerID {
			continue
		}
		switch vocab.Classify(ev) {
		case ActionEnter:
			st.Moves++
			lastEnter = ClockSeconds(ev.Clock)
			hasEnter = true
			onCourt = true
		case ActionExit:
			st.Moves++
			now := ClockSeconds(ev.Clock)
			if onCourt && hasEnter {
				total += math.Abs(lastEnter - now)
			} else {
				st.UnmatchedExits++
				if r.UnmatchedExit == ExitFromPeriodStart {
					start := math.Max(now, r.period())
					total += math.Max(0, start-now)
				}
			}
			onCourt = false
			hasEnter = false
		default:
			st.Ignored++
		}
	}
	if onCourt && hasEnter {
		total += math.Max(0, lastEnter)
		st.OpenAtEnd = true
	}
	st.Seconds = total
	return st
}

// Minutes is Reconstruct expressed in fractional minutes.
func (r Reconstructor) Minutes(matchID, playerID string, events []model.SubstitutionEvent) float64 {
	return r.Reconstruct(matchID, playerID, events).Minutes()
}

// Season reconstructs each distinct match separately (every match restarts
// its own clock) and returns the per-match stints in first-seen order.
func (r Reconstructor) Season(playerID string, matchIDs []string, events []model.SubstitutionEvent) []Stint {
	seen := make(map[string]bool, len(matchIDs))
	out := make([]Stint, 0, len(matchIDs))
	for _, id := range matchIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, r.Reconstruct(id, playerID, events))
	}
	return out
}

func (r Reconstructor) period() float64 {
	if r.PeriodSeconds > 0 {
		return r.PeriodSeconds
	}
	return FullPeriodSeconds
}
