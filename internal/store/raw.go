package store

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"basket-stats-mcp/internal/model"
)

// Raw rows as the league database serves them (PostgREST JSON, or to_jsonb
// rows from Postgres). Column names are the database's own.

// flexID accepts numeric and string identifiers.
type flexID string

func (f *flexID) UnmarshalJSON(b []byte) error {
	*f = ""
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexID(strings.TrimSpace(s))
		return nil
	}
	*f = flexID(b)
	return nil
}

func (f flexID) String() string { return string(f) }

// one decodes an embedded join that PostgREST renders either as an object
// or as an array (to-many hint); only the first element is kept.
type one[T any] struct {
	Value T
	Set   bool
}

func (o *one[T]) UnmarshalJSON(b []byte) error {
	*o = one[T]{}
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	if b[0] == '[' {
		var arr []T
		if err := json.Unmarshal(b, &arr); err != nil {
			return err
		}
		if len(arr) > 0 {
			o.Value, o.Set = arr[0], true
		}
		return nil
	}
	if err := json.Unmarshal(b, &o.Value); err != nil {
		return err
	}
	o.Set = true
	return nil
}

type rawSeason struct {
	ID     flexID `json:"id"`
	Nombre string `json:"nombre"`
}

type rawCategory struct {
	ID     flexID `json:"id"`
	Nombre string `json:"nombre"`
	EsMini bool   `json:"es_mini"`
}

type rawCompetition struct {
	ID          flexID           `json:"id"`
	Nombre      string           `json:"nombre"`
	TemporadaID flexID           `json:"temporada_id"`
	CategoriaID flexID           `json:"categoria_id"`
	Categorias  one[rawCategory] `json:"categorias"`
}

type rawClub struct {
	ID          flexID `json:"id"`
	Nombre      string `json:"nombre"`
	NombreCorto string `json:"nombre_corto"`
	LogoURL     string `json:"logo_url"`
}

type rawTeam struct {
	ID               flexID       `json:"id"`
	ClubID           flexID       `json:"club_id"`
	NombreEspecifico string       `json:"nombre_especifico"`
	CompeticionID    flexID       `json:"competicion_id"`
	Clubs            one[rawClub] `json:"clubs"`
}

type rawMatch struct {
	ID                flexID       `json:"id"`
	CompeticionID     flexID       `json:"competicion_id"`
	EquipoLocalID     flexID       `json:"equipo_local_id"`
	EquipoVisitanteID flexID       `json:"equipo_visitante_id"`
	PuntosLocal       *model.Count `json:"puntos_local"`
	PuntosVisitante   *model.Count `json:"puntos_visitante"`
	Jornada           model.Count  `json:"jornada"`
	FechaHora         string       `json:"fecha_hora"`
}

type rawPlayer struct {
	ID             flexID `json:"id"`
	NombreCompleto string `json:"nombre_completo"`
	FotoURL        string `json:"foto_url"`
}

type rawRosterEntry struct {
	Dorsal    flexID         `json:"dorsal"`
	JugadorID flexID         `json:"jugador_id"`
	EquipoID  flexID         `json:"equipo_id"`
	Jugadores one[rawPlayer] `json:"jugadores"`
}

type rawStat struct {
	PartidoID        flexID      `json:"partido_id"`
	JugadorID        flexID      `json:"jugador_id"`
	Puntos           model.Count `json:"puntos"`
	Minutos          model.Clock `json:"minutos"`
	FaltasPersonales model.Count `json:"faltas_personales"`
	Tecnicas         model.Count `json:"tecnicas"`
	Antideportivas   model.Count `json:"antideportivas"`
	T1Anotados       model.Count `json:"t1_anotados"`
	T1Intentados     model.Count `json:"t1_intentados"`
	T2Anotados       model.Count `json:"t2_anotados"`
	T2Intentados     model.Count `json:"t2_intentados"`
	T3Anotados       model.Count `json:"t3_anotados"`
	T3Intentados     model.Count `json:"t3_intentados"`
}

type rawMovement struct {
	ID             flexID      `json:"id"`
	PartidoID      flexID      `json:"partido_id"`
	JugadorID      flexID      `json:"jugador_id"`
	Descripcion    string      `json:"descripcion"`
	TipoMovimiento string      `json:"tipo_movimiento"`
	Minuto         model.Clock `json:"minuto"`
}

func (r rawSeason) toModel() model.Season {
	return model.Season{ID: r.ID.String(), Name: r.Nombre}
}

func (r rawCategory) toModel() model.Category {
	return model.Category{ID: r.ID.String(), Name: r.Nombre, Mini: r.EsMini}
}

func (r rawCompetition) toModel() model.Competition {
	c := model.Competition{
		ID:         r.ID.String(),
		Name:       r.Nombre,
		SeasonID:   r.TemporadaID.String(),
		CategoryID: r.CategoriaID.String(),
	}
	if r.Categorias.Set {
		c.Mini = r.Categorias.Value.EsMini
	}
	return c
}

func (r rawTeam) toModel() model.Team {
	t := model.Team{
		ID:            r.ID.String(),
		Name:          r.NombreEspecifico,
		CompetitionID: r.CompeticionID.String(),
		Club:          model.Club{ID: r.ClubID.String()},
	}
	if r.Clubs.Set {
		c := r.Clubs.Value
		t.Club.Name = c.Nombre
		t.Club.ShortName = c.NombreCorto
		t.Club.LogoURL = c.LogoURL
		if c.ID != "" {
			t.Club.ID = c.ID.String()
		}
	}
	if t.Name == "" {
		t.Name = t.Club.Name
	}
	return t
}

func (r rawMatch) toModel() model.Match {
	m := model.Match{
		ID:            r.ID.String(),
		CompetitionID: r.CompeticionID.String(),
		HomeTeamID:    r.EquipoLocalID.String(),
		AwayTeamID:    r.EquipoVisitanteID.String(),
		Round:         r.Jornada.Int(),
		PlayedAt:      parseTimestamp(r.FechaHora),
	}
	if r.PuntosLocal != nil {
		v := r.PuntosLocal.Int()
		m.HomeScore = &v
	}
	if r.PuntosVisitante != nil {
		v := r.PuntosVisitante.Int()
		m.AwayScore = &v
	}
	return m
}

func (r rawRosterEntry) toModel() model.RosterEntry {
	e := model.RosterEntry{
		TeamID:   r.EquipoID.String(),
		PlayerID: r.JugadorID.String(),
		Jersey:   r.Dorsal.String(),
	}
	if r.Jugadores.Set {
		e.Name = r.Jugadores.Value.NombreCompleto
		e.PhotoURL = r.Jugadores.Value.FotoURL
		if e.PlayerID == "" {
			e.PlayerID = r.Jugadores.Value.ID.String()
		}
	}
	return e
}

func (r rawStat) toModel() model.PlayerMatchStat {
	return model.PlayerMatchStat{
		MatchID:           r.PartidoID.String(),
		PlayerID:          r.JugadorID.String(),
		Points:            r.Puntos,
		Minutes:           r.Minutos,
		PersonalFouls:     r.FaltasPersonales,
		TechnicalFouls:    r.Tecnicas,
		UnsportsmanFouls:  r.Antideportivas,
		FreeThrowsMade:    r.T1Anotados,
		FreeThrowsAtt:     r.T1Intentados,
		TwoPointersMade:   r.T2Anotados,
		TwoPointersAtt:    r.T2Intentados,
		ThreePointersMade: r.T3Anotados,
		ThreePointersAtt:  r.T3Intentados,
	}
}

func (r rawMovement) toModel() model.SubstitutionEvent {
	return model.SubstitutionEvent{
		ID:          r.ID.String(),
		MatchID:     r.PartidoID.String(),
		PlayerID:    r.JugadorID.String(),
		Description: r.Descripcion,
		Type:        r.TipoMovimiento,
		Clock:       r.Minuto,
	}
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05-07",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseTimestamp accepts the timestamp shapes Postgres and PostgREST emit.
// Unparseable values are the zero time.
func parseTimestamp(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

// decodeRows unmarshals a JSON array of raw rows and converts each one.
func decodeRows[R interface{ toModel() M }, M any](b []byte) ([]M, error) {
	var rows []R
	if err := json.Unmarshal(b, &rows); err != nil {
		return nil, err
	}
	out := make([]M, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toModel())
	}
	return out, nil
}
