package stats

import (
	"fmt"
	"math"
	"testing"
	"time"

	"basket-stats-mcp/internal/model"
)

func score(n int) *int { return &n }

func team(id, name, short string) model.Team {
	return model.Team{ID: id, Name: name, Club: model.Club{Name: name, ShortName: short}}
}

func played(id, home, away string, hs, as, round int) model.Match {
	return model.Match{
		ID: id, HomeTeamID: home, AwayTeamID: away,
		HomeScore: score(hs), AwayScore: score(as),
		Round:    round,
		PlayedAt: time.Date(2024, 10, 1, 18, 0, 0, 0, time.UTC).AddDate(0, 0, 7*round),
	}
}

func enter(match, player string, clock model.Clock) model.SubstitutionEvent {
	return model.SubstitutionEvent{MatchID: match, PlayerID: player, Description: "Entra a pista", Clock: clock}
}

func exit(match, player string, clock model.Clock) model.SubstitutionEvent {
	return model.SubstitutionEvent{MatchID: match, PlayerID: player, Description: "Surt de pista", Clock: clock}
}

// secs builds an "M:SS" clock reading.
func secs(s int) model.Clock { return model.ClockText(fmt.Sprintf("%d:%02d", s/60, s%60)) }

func approx(t *testing.T, what string, want, got float64) {
	t.Helper()
	if math.Abs(want-got) > 1e-9 {
		t.Errorf("%s: want %v, got %v", what, want, got)
	}
}
