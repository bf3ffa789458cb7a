package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"basket-stats-mcp/internal/store"
)

// /temporadas
func (c *Client) Seasons(ctx context.Context, force bool) error {
	_, err := c.FetchRaw(ctx, "/temporadas?select=*&order=nombre.desc", store.SeasonsPath, force)
	return err
}

// /categorias
func (c *Client) Categories(ctx context.Context, force bool) error {
	_, err := c.FetchRaw(ctx, "/categorias?select=*&order=nombre", store.CategoriesPath, force)
	return err
}

// /competiciones
func (c *Client) Competitions(ctx context.Context, force bool) error {
	_, err := c.FetchRaw(ctx, "/competiciones?select=*&order=nombre", store.CompetitionsPath, force)
	return err
}

// /equipos?competicion_id=eq.{id}, with the parent club embedded
func (c *Client) CompetitionTeams(ctx context.Context, competitionID string, force bool) error {
	q := url.Values{}
	q.Set("select", "*,clubs:clubs!equipos_club_id_fkey(*)")
	q.Set("competicion_id", "eq."+competitionID)
	_, err := c.FetchRaw(ctx, "/equipos?"+q.Encode(), store.TeamsPath(competitionID), force)
	return err
}

// /partidos?competicion_id=eq.{id}
// Returns the match ids so the per-match resources can be requested.
func (c *Client) CompetitionMatches(ctx context.Context, competitionID string, force bool) ([]string, error) {
	q := url.Values{}
	q.Set("select", "*")
	q.Set("competicion_id", "eq."+competitionID)
	q.Set("order", "jornada.asc,id.asc")
	body, err := c.FetchRaw(ctx, "/partidos?"+q.Encode(), store.MatchesPath(competitionID), force)
	if err != nil {
		return nil, err
	}
	return idsOf(body)
}

// /estadisticas_jugador_partido?partido_id=in.(...)
func (c *Client) MatchStats(ctx context.Context, competitionID string, matchIDs []string, force bool) error {
	q := url.Values{}
	q.Set("select", "*")
	q.Set("partido_id", inList(matchIDs))
	_, err := c.FetchRaw(ctx, "/estadisticas_jugador_partido?"+q.Encode(), store.StatsPath(competitionID), force)
	return err
}

// /partido_movimientos?partido_id=in.(...), in log order
func (c *Client) MatchMovements(ctx context.Context, competitionID string, matchIDs []string, force bool) error {
	q := url.Values{}
	q.Set("select", "*")
	q.Set("partido_id", inList(matchIDs))
	q.Set("order", "id.asc")
	_, err := c.FetchRaw(ctx, "/partido_movimientos?"+q.Encode(), store.MovementsPath(competitionID), force)
	return err
}

// /plantillas?equipo_id=eq.{id}, with the player embedded
func (c *Client) TeamRoster(ctx context.Context, teamID string, force bool) error {
	q := url.Values{}
	q.Set("select", "dorsal,jugador_id,equipo_id,jugadores(*)")
	q.Set("equipo_id", "eq."+teamID)
	_, err := c.FetchRaw(ctx, "/plantillas?"+q.Encode(), store.RosterPath(teamID), force)
	return err
}

// TeamIDs lists the team ids of a mirrored competition.
func (c *Client) TeamIDs(competitionID string) ([]string, error) {
	body, err := c.Store.ReadRaw(store.TeamsPath(competitionID))
	if err != nil {
		return nil, err
	}
	return idsOf(body)
}

func inList(ids []string) string {
	return "in.(" + strings.Join(ids, ",") + ")"
}

// idsOf extracts the "id" column of a row array, keeping numbers as written.
func idsOf(body []byte) ([]string, error) {
	var rows []struct {
		ID json.RawMessage `json:"id"`
	}
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode ids: %w", err)
	}
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		id := strings.Trim(string(r.ID), `"`)
		if id != "" && id != "null" {
			out = append(out, id)
		}
	}
	return out, nil
}
