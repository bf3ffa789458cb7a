package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// JSONStore keeps raw REST responses on disk, one file per resource.
type JSONStore struct {
	Root string // e.g. "data/raw"
}

func NewJSONStore(root string) *JSONStore {
	return &JSONStore{Root: root}
}

func (s *JSONStore) Path(rel string) string {
	return filepath.Join(s.Root, rel)
}

func (s *JSONStore) Exists(rel string) bool {
	_, err := os.Stat(s.Path(rel))
	return err == nil
}

func (s *JSONStore) WriteRaw(rel string, body []byte, pretty bool) error {
	path := s.Path(rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	if pretty {
		var v any
		if err := json.Unmarshal(body, &v); err == nil {
			buf := &bytes.Buffer{}
			enc := json.NewEncoder(buf)
			enc.SetIndent("", "  ")
			_ = enc.Encode(v)
			body = buf.Bytes()
		}
	}

	// rename into place; readers never see a partial file
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, body, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func (s *JSONStore) ReadRaw(rel string) ([]byte, error) {
	return os.ReadFile(s.Path(rel))
}

// Raw layout written by the sync command and read by FileSource.
const (
	SeasonsPath      = "catalog/seasons.json"
	CategoriesPath   = "catalog/categories.json"
	CompetitionsPath = "catalog/competitions.json"
)

func MatchesPath(competitionID string) string {
	return fmt.Sprintf("competition/%s/matches.json", competitionID)
}

func TeamsPath(competitionID string) string {
	return fmt.Sprintf("competition/%s/teams.json", competitionID)
}

func StatsPath(competitionID string) string {
	return fmt.Sprintf("competition/%s/stats.json", competitionID)
}

func MovementsPath(competitionID string) string {
	return fmt.Sprintf("competition/%s/movements.json", competitionID)
}

func RosterPath(teamID string) string {
	return fmt.Sprintf("team/%s/roster.json", teamID)
}
