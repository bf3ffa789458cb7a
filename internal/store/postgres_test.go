package store

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func newMock(t *testing.T) (*Postgres, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewPostgres(db), mock
}

func jsonRows(docs ...string) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"row"})
	for _, d := range docs {
		rows.AddRow([]byte(d))
	}
	return rows
}

func expectCompetition(mock sqlmock.Sqlmock, id string) {
	mock.ExpectQuery("FROM competiciones c").
		WithArgs(id).
		WillReturnRows(jsonRows(`{"id":100,"nombre":"Mini Lliga","temporada_id":2,"categoria_id":10,"categorias":{"id":10,"nombre":"Mini","es_mini":true}}`))
}

func TestPostgres_Catalog(t *testing.T) {
	pg, mock := newMock(t)
	ctx := context.Background()

	mock.ExpectQuery("FROM temporadas").
		WillReturnRows(sqlmock.NewRows([]string{"id", "nombre"}).AddRow(int64(2), "2024-25").AddRow(int64(1), "2023-24"))
	mock.ExpectQuery("FROM categorias").
		WillReturnRows(sqlmock.NewRows([]string{"id", "nombre", "es_mini"}).AddRow(int64(10), "Mini", true))

	seasons, err := pg.Seasons(ctx)
	if err != nil {
		t.Fatalf("seasons: %v", err)
	}
	if len(seasons) != 2 || seasons[0].ID != "2" || seasons[0].Name != "2024-25" {
		t.Errorf("seasons: got %+v", seasons)
	}
	cats, err := pg.Categories(ctx)
	if err != nil {
		t.Fatalf("categories: %v", err)
	}
	if len(cats) != 1 || !cats[0].Mini || cats[0].ID != "10" {
		t.Errorf("categories: got %+v", cats)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestPostgres_CompetitionsFilters(t *testing.T) {
	pg, mock := newMock(t)
	mock.ExpectQuery("FROM competiciones c").
		WithArgs("2", "").
		WillReturnRows(jsonRows(`{"id":100,"nombre":"Mini Lliga","temporada_id":2,"categoria_id":10,"categorias":{"es_mini":true}}`))

	comps, err := pg.Competitions(context.Background(), "2", "")
	if err != nil {
		t.Fatalf("competitions: %v", err)
	}
	if len(comps) != 1 || comps[0].ID != "100" || !comps[0].Mini || comps[0].SeasonID != "2" {
		t.Errorf("competitions: got %+v", comps)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestPostgres_CompetitionNotFound(t *testing.T) {
	pg, mock := newMock(t)
	mock.ExpectQuery("FROM competiciones c").WithArgs("9").WillReturnRows(jsonRows())

	if _, err := pg.Competition(context.Background(), "9"); !errors.Is(err, ErrNotFound) {
		t.Errorf("want ErrNotFound, got %v", err)
	}
}

func TestPostgres_TeamData(t *testing.T) {
	pg, mock := newMock(t)
	expectCompetition(mock, "100")
	mock.ExpectQuery("FROM equipos e").WithArgs("100").WillReturnRows(jsonRows(
		`{"id":1,"club_id":7,"nombre_especifico":"Alpha A","competicion_id":100,"clubs":{"id":7,"nombre":"Club Alpha","nombre_corto":"ALP"}}`,
		`{"id":2,"club_id":8,"nombre_especifico":"Bravo A","competicion_id":100,"clubs":null}`,
	))
	mock.ExpectQuery("FROM partidos p").WithArgs("100").WillReturnRows(jsonRows(
		`{"id":500,"equipo_local_id":1,"equipo_visitante_id":2,"puntos_local":40,"puntos_visitante":38,"jornada":1,"fecha_hora":"2024-10-05T10:00:00+00:00"}`,
		`{"id":501,"equipo_local_id":2,"equipo_visitante_id":3,"puntos_local":50,"puntos_visitante":30,"jornada":1}`,
	))
	mock.ExpectQuery("FROM plantillas pl").WithArgs("1").WillReturnRows(jsonRows(
		`{"dorsal":"4","jugador_id":11,"equipo_id":1,"jugadores":{"id":11,"nombre_completo":"Anna Puig"}}`,
	))
	mock.ExpectQuery("FROM estadisticas_jugador_partido s").WithArgs(sqlmock.AnyArg()).WillReturnRows(jsonRows(
		`{"partido_id":500,"jugador_id":11,"puntos":12,"minutos":null,"tecnicas":1}`,
	))
	mock.ExpectQuery("FROM partido_movimientos m").WithArgs(sqlmock.AnyArg()).WillReturnRows(jsonRows(
		`{"id":1,"partido_id":500,"jugador_id":11,"descripcion":"Entra","minuto":10}`,
	))

	snap, err := pg.TeamData(context.Background(), "100", "1")
	if err != nil {
		t.Fatalf("team data: %v", err)
	}
	if !snap.Competition.Mini || snap.Team.Club.ShortName != "ALP" {
		t.Errorf("competition/team: got %+v / %+v", snap.Competition, snap.Team)
	}
	if len(snap.Matches) != 1 || snap.Matches[0].ID != "500" {
		t.Errorf("matches: want only 500, got %+v", snap.Matches)
	}
	if len(snap.Roster) != 1 || snap.Roster[0].PlayerID != "11" {
		t.Errorf("roster: got %+v", snap.Roster)
	}
	if len(snap.Stats) != 1 || snap.Stats[0].Points != 12 || snap.Stats[0].TechnicalFouls != 1 || !snap.Stats[0].Minutes.IsZero() {
		t.Errorf("stats: got %+v", snap.Stats)
	}
	if len(snap.Events) != 1 || snap.Events[0].Clock.Number == nil {
		t.Errorf("events: got %+v", snap.Events)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestPostgres_TeamNotInCompetition(t *testing.T) {
	pg, mock := newMock(t)
	expectCompetition(mock, "100")
	mock.ExpectQuery("FROM equipos e").WithArgs("100").WillReturnRows(jsonRows())
	mock.ExpectQuery("FROM partidos p").WithArgs("100").WillReturnRows(jsonRows())

	if _, err := pg.TeamData(context.Background(), "100", "1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("want ErrNotFound, got %v", err)
	}
}

func TestPostgres_QueryError(t *testing.T) {
	pg, mock := newMock(t)
	mock.ExpectQuery("FROM temporadas").WillReturnError(errors.New("connection reset"))

	if _, err := pg.Seasons(context.Background()); err == nil {
		t.Error("expected error")
	}
}
