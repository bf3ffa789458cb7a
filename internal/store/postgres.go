package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"

	"basket-stats-mcp/internal/model"
)

// Postgres reads the league tables directly. Rows other than the catalog are
// selected as jsonb so they share the raw-row decoding with FileSource.
type Postgres struct {
	db *sql.DB
}

// OpenPostgres opens and pings a lib/pq connection pool.
func OpenPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return &Postgres{db: db}, nil
}

// NewPostgres wraps an existing pool.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (p *Postgres) Close() error {
	return p.db.Close()
}

const (
	seasonsQuery    = `SELECT id, nombre FROM temporadas ORDER BY nombre DESC`
	categoriesQuery = `SELECT id, nombre, COALESCE(es_mini, false) FROM categorias ORDER BY nombre`

	competitionsQuery = `
		SELECT to_jsonb(c) || jsonb_build_object('categorias', to_jsonb(k))
		FROM competiciones c
		LEFT JOIN categorias k ON k.id = c.categoria_id
		WHERE ($1 = '' OR c.temporada_id::text = $1)
		  AND ($2 = '' OR c.categoria_id::text = $2)
		ORDER BY c.nombre`

	competitionQuery = `
		SELECT to_jsonb(c) || jsonb_build_object('categorias', to_jsonb(k))
		FROM competiciones c
		LEFT JOIN categorias k ON k.id = c.categoria_id
		WHERE c.id::text = $1`

	teamsQuery = `
		SELECT to_jsonb(e) || jsonb_build_object('clubs', to_jsonb(c))
		FROM equipos e
		LEFT JOIN clubs c ON c.id = e.club_id
		WHERE e.competicion_id::text = $1
		ORDER BY e.id`

	matchesQuery = `
		SELECT to_jsonb(p)
		FROM partidos p
		WHERE p.competicion_id::text = $1
		ORDER BY p.jornada, p.id`

	rosterQuery = `
		SELECT to_jsonb(pl) || jsonb_build_object('jugadores', to_jsonb(j))
		FROM plantillas pl
		LEFT JOIN jugadores j ON j.id = pl.jugador_id
		WHERE pl.equipo_id::text = $1`

	statsQuery = `
		SELECT to_jsonb(s)
		FROM estadisticas_jugador_partido s
		WHERE s.partido_id::text = ANY($1)`

	movementsQuery = `
		SELECT to_jsonb(m)
		FROM partido_movimientos m
		WHERE m.partido_id::text = ANY($1)
		ORDER BY m.id`
)

func (p *Postgres) Seasons(ctx context.Context) ([]model.Season, error) {
	rows, err := p.db.QueryContext(ctx, seasonsQuery)
	if err != nil {
		return nil, fmt.Errorf("query seasons: %w", err)
	}
	defer rows.Close()

	out := make([]model.Season, 0)
	for rows.Next() {
		var s model.Season
		if err := rows.Scan(&s.ID, &s.Name); err != nil {
			return nil, fmt.Errorf("scan season: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (p *Postgres) Categories(ctx context.Context) ([]model.Category, error) {
	rows, err := p.db.QueryContext(ctx, categoriesQuery)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	out := make([]model.Category, 0)
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Mini); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (p *Postgres) Competitions(ctx context.Context, seasonID, categoryID string) ([]model.Competition, error) {
	return queryRows[rawCompetition, model.Competition](ctx, p.db, "competitions", competitionsQuery, seasonID, categoryID)
}

func (p *Postgres) Competition(ctx context.Context, id string) (model.Competition, error) {
	comps, err := queryRows[rawCompetition, model.Competition](ctx, p.db, "competition", competitionQuery, id)
	if err != nil {
		return model.Competition{}, err
	}
	if len(comps) == 0 {
		return model.Competition{}, fmt.Errorf("competition %s: %w", id, ErrNotFound)
	}
	return comps[0], nil
}

func (p *Postgres) CompetitionData(ctx context.Context, competitionID string) (*model.CompetitionSnapshot, error) {
	comp, err := p.Competition(ctx, competitionID)
	if err != nil {
		return nil, err
	}
	teams, err := queryRows[rawTeam, model.Team](ctx, p.db, "teams", teamsQuery, competitionID)
	if err != nil {
		return nil, err
	}
	matches, err := queryRows[rawMatch, model.Match](ctx, p.db, "matches", matchesQuery, competitionID)
	if err != nil {
		return nil, err
	}
	return &model.CompetitionSnapshot{Competition: comp, Teams: teams, Matches: matches}, nil
}

func (p *Postgres) TeamData(ctx context.Context, competitionID, teamID string) (*model.TeamSnapshot, error) {
	snap, err := p.CompetitionData(ctx, competitionID)
	if err != nil {
		return nil, err
	}
	team, ok := findTeam(snap.Teams, teamID)
	if !ok {
		return nil, fmt.Errorf("team %s in competition %s: %w", teamID, competitionID, ErrNotFound)
	}
	roster, err := queryRows[rawRosterEntry, model.RosterEntry](ctx, p.db, "roster", rosterQuery, teamID)
	if err != nil {
		return nil, err
	}

	matches := teamMatches(snap.Matches, teamID)
	ids := make([]string, 0, len(matches))
	for _, m := range matches {
		ids = append(ids, m.ID)
	}
	var (
		stats  []model.PlayerMatchStat
		events []model.SubstitutionEvent
	)
	if len(ids) > 0 {
		stats, err = queryRows[rawStat, model.PlayerMatchStat](ctx, p.db, "player stats", statsQuery, pq.Array(ids))
		if err != nil {
			return nil, err
		}
		events, err = queryRows[rawMovement, model.SubstitutionEvent](ctx, p.db, "movements", movementsQuery, pq.Array(ids))
		if err != nil {
			return nil, err
		}
	}
	return buildTeamSnapshot(snap, team, roster, stats, events), nil
}

// queryRows runs a single-column jsonb query and decodes every row.
func queryRows[R interface{ toModel() M }, M any](ctx context.Context, db *sql.DB, what, query string, args ...any) ([]M, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", what, err)
	}
	defer rows.Close()

	out := make([]M, 0)
	for rows.Next() {
		var b []byte
		if err := rows.Scan(&b); err != nil {
			return nil, fmt.Errorf("scan %s: %w", what, err)
		}
		var r R
		if err := json.Unmarshal(b, &r); err != nil {
			return nil, fmt.Errorf("decode %s: %w", what, err)
		}
		out = append(out, r.toModel())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", what, err)
	}
	return out, nil
}
