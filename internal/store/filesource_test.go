package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func writeFile(t *testing.T, st *JSONStore, rel, body string) {
	t.Helper()
	if err := st.WriteRaw(rel, []byte(body), false); err != nil {
		t.Fatalf("write %s: %v", rel, err)
	}
}

// seedLeague writes a small competition the way the sync command mirrors it:
// numeric ids, nested joins as objects or arrays, nullable scores.
func seedLeague(t *testing.T) *FileSource {
	t.Helper()
	st := NewJSONStore(t.TempDir())
	writeFile(t, st, SeasonsPath, `[{"id":1,"nombre":"2023-24"},{"id":2,"nombre":"2024-25"}]`)
	writeFile(t, st, CategoriesPath, `[{"id":10,"nombre":"Mini","es_mini":true},{"id":11,"nombre":"Junior","es_mini":false}]`)
	writeFile(t, st, CompetitionsPath, `[
		{"id":100,"nombre":"Mini Lliga","temporada_id":2,"categoria_id":10},
		{"id":101,"nombre":"Junior Lliga","temporada_id":2,"categoria_id":11},
		{"id":102,"nombre":"Junior Lliga","temporada_id":1,"categoria_id":11}
	]`)
	writeFile(t, st, TeamsPath("100"), `[
		{"id":1,"club_id":7,"nombre_especifico":"Alpha A","competicion_id":100,"clubs":{"id":7,"nombre":"Club Alpha","nombre_corto":"ALP","logo_url":"a.png"}},
		{"id":2,"club_id":8,"nombre_especifico":"","competicion_id":100,"clubs":[{"id":8,"nombre":"Club Bravo","nombre_corto":"BRA","logo_url":null}]}
	]`)
	writeFile(t, st, MatchesPath("100"), `[
		{"id":501,"competicion_id":100,"equipo_local_id":2,"equipo_visitante_id":1,"puntos_local":null,"puntos_visitante":null,"jornada":2,"fecha_hora":"2024-10-12T10:00:00+00:00"},
		{"id":500,"competicion_id":100,"equipo_local_id":1,"equipo_visitante_id":2,"puntos_local":40,"puntos_visitante":"38","jornada":1,"fecha_hora":"2024-10-05 10:00:00"}
	]`)
	writeFile(t, st, StatsPath("100"), `[
		{"partido_id":500,"jugador_id":"p1","puntos":12,"minutos":"7:30","faltas_personales":2,"t1_anotados":2,"t1_intentados":"4"},
		{"partido_id":999,"jugador_id":"p1","puntos":5}
	]`)
	writeFile(t, st, MovementsPath("100"), `[
		{"id":1,"partido_id":500,"jugador_id":"p1","descripcion":"Entra","minuto":10},
		{"id":2,"partido_id":500,"jugador_id":"p1","descripcion":null,"tipo_movimiento":"Surt","minuto":"8:00"}
	]`)
	writeFile(t, st, RosterPath("1"), `[
		{"dorsal":4,"jugador_id":"p1","equipo_id":1,"jugadores":{"id":"p1","nombre_completo":"Anna Puig","foto_url":null}},
		{"dorsal":"","jugador_id":"p2","equipo_id":1,"jugadores":[]}
	]`)
	return NewFileSource(st)
}

// ---------------------------------------------------------------------------
// JSONStore
// ---------------------------------------------------------------------------

func TestJSONStore_WritePrettyAndRead(t *testing.T) {
	st := NewJSONStore(t.TempDir())
	if st.Exists("a/b.json") {
		t.Fatal("file should not exist yet")
	}
	if err := st.WriteRaw("a/b.json", []byte(`{"x":1}`), true); err != nil {
		t.Fatalf("write: %v", err)
	}
	b, err := st.ReadRaw("a/b.json")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(b) != "{\n  \"x\": 1\n}\n" {
		t.Errorf("pretty body: got %q", string(b))
	}
	if _, err := os.Stat(filepath.Join(st.Root, "a", "b.json.tmp")); !os.IsNotExist(err) {
		t.Errorf("temp file left behind: %v", err)
	}
}

func TestJSONStore_NonJSONWrittenVerbatim(t *testing.T) {
	st := NewJSONStore(t.TempDir())
	if err := st.WriteRaw("x.json", []byte("not json"), true); err != nil {
		t.Fatalf("write: %v", err)
	}
	b, _ := st.ReadRaw("x.json")
	if string(b) != "not json" {
		t.Errorf("body: want verbatim, got %q", string(b))
	}
}

// ---------------------------------------------------------------------------
// FileSource
// ---------------------------------------------------------------------------

func TestFileSource_Catalog(t *testing.T) {
	src := seedLeague(t)
	ctx := context.Background()

	seasons, err := src.Seasons(ctx)
	if err != nil {
		t.Fatalf("seasons: %v", err)
	}
	if len(seasons) != 2 || seasons[0].ID != "2" {
		t.Errorf("seasons: want newest (2) first, got %+v", seasons)
	}

	comps, err := src.Competitions(ctx, "2", "")
	if err != nil {
		t.Fatalf("competitions: %v", err)
	}
	if len(comps) != 2 {
		t.Fatalf("season 2 competitions: want 2, got %d", len(comps))
	}
	if comps[0].Name != "Junior Lliga" || comps[0].Mini {
		t.Errorf("first: want Junior Lliga (not mini), got %+v", comps[0])
	}
	if !comps[1].Mini {
		t.Errorf("mini flag not resolved from category: %+v", comps[1])
	}

	comps, _ = src.Competitions(ctx, "", "11")
	if len(comps) != 2 {
		t.Errorf("category 11 competitions: want 2, got %d", len(comps))
	}
}

func TestFileSource_CompetitionData(t *testing.T) {
	src := seedLeague(t)
	snap, err := src.CompetitionData(context.Background(), "100")
	if err != nil {
		t.Fatalf("competition data: %v", err)
	}
	if !snap.Competition.Mini {
		t.Error("competition 100 should be mini")
	}
	if len(snap.Teams) != 2 || snap.Teams[1].Name != "Club Bravo" || snap.Teams[1].Club.ShortName != "BRA" {
		t.Errorf("teams: got %+v", snap.Teams)
	}
	if len(snap.Matches) != 2 || snap.Matches[0].ID != "500" {
		t.Fatalf("matches: want round order starting at 500, got %+v", snap.Matches)
	}
	m := snap.Matches[0]
	if !m.Completed() || *m.HomeScore != 40 || *m.AwayScore != 38 {
		t.Errorf("match 500: got %+v", m)
	}
	if m.PlayedAt.IsZero() {
		t.Error("match 500 timestamp not parsed")
	}
	if snap.Matches[1].Completed() {
		t.Error("match 501 has null scores and must not be completed")
	}
}

func TestFileSource_TeamData(t *testing.T) {
	src := seedLeague(t)
	snap, err := src.TeamData(context.Background(), "100", "1")
	if err != nil {
		t.Fatalf("team data: %v", err)
	}
	if len(snap.Roster) != 2 || snap.Roster[0].Jersey != "4" || snap.Roster[0].Name != "Anna Puig" {
		t.Errorf("roster: got %+v", snap.Roster)
	}
	if len(snap.Stats) != 1 {
		t.Fatalf("stats: want the row for match 500 only, got %d", len(snap.Stats))
	}
	if snap.Stats[0].FreeThrowsAtt != 4 || snap.Stats[0].Minutes.Text != "7:30" {
		t.Errorf("stat row: got %+v", snap.Stats[0])
	}
	if len(snap.Events) != 2 || snap.Events[1].Type != "Surt" || snap.Events[1].Description != "" {
		t.Errorf("events: got %+v", snap.Events)
	}
}

func TestFileSource_NotFound(t *testing.T) {
	src := seedLeague(t)
	ctx := context.Background()

	if _, err := src.CompetitionData(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown competition: want ErrNotFound, got %v", err)
	}
	if _, err := src.TeamData(ctx, "100", "42"); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown team: want ErrNotFound, got %v", err)
	}
	empty := NewFileSource(NewJSONStore(t.TempDir()))
	if _, err := empty.Seasons(ctx); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing catalog: want ErrNotFound, got %v", err)
	}
}

func TestFileSource_TeamWithoutRosterOrMovements(t *testing.T) {
	src := seedLeague(t)
	if err := os.Remove(src.Store.Path(MovementsPath("100"))); err != nil {
		t.Fatal(err)
	}
	snap, err := src.TeamData(context.Background(), "100", "2")
	if err != nil {
		t.Fatalf("team data: %v", err)
	}
	if len(snap.Roster) != 0 || len(snap.Events) != 0 {
		t.Errorf("want empty roster and events, got %d/%d", len(snap.Roster), len(snap.Events))
	}
	if len(snap.Matches) != 2 {
		t.Errorf("matches: want 2, got %d", len(snap.Matches))
	}
}
