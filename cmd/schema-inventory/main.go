package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"basket-stats-mcp/internal/logging"
	"basket-stats-mcp/internal/store"
)

// typeCounts maps a JSON type name to how many values of that type were seen.
type typeCounts map[string]int

type Inventory struct {
	GeneratedAtUTC string     `json:"generated_at_utc"`
	RawRoot        string     `json:"raw_root"`
	Resources      []Resource `json:"resources"`
}

type Resource struct {
	Name         string  `json:"name"`
	FilesScanned int     `json:"files_scanned"`
	Rows         int     `json:"rows"`
	Fields       []Field `json:"fields"`
}

// Field lists the JSON types seen at a path. Mixed is set when more than one
// non-null type shows up, e.g. ids sent as numbers by one table and strings
// by another.
type Field struct {
	Path   string         `json:"path"`
	Types  []string       `json:"types"`
	Counts map[string]int `json:"counts"`
	Mixed  bool           `json:"mixed,omitempty"`
}

// resources mirrors the layout written by cmd/sync.
var resources = []struct {
	Name string
	Glob string
}{
	{"temporadas", store.SeasonsPath},
	{"categorias", store.CategoriesPath},
	{"competiciones", store.CompetitionsPath},
	{"equipos", store.TeamsPath("*")},
	{"partidos", store.MatchesPath("*")},
	{"estadisticas_jugador_partido", store.StatsPath("*")},
	{"partido_movimientos", store.MovementsPath("*")},
	{"plantillas", store.RosterPath("*")},
}

func main() {
	var (
		rawRoot  = flag.String("raw-root", "data/raw", "root directory for raw JSON")
		outRoot  = flag.String("out-root", "data/derived", "root directory for the inventory")
		maxFiles = flag.Int("max-files", 0, "max files per resource (0 = no limit)")
	)
	flag.Parse()
	logging.Setup("info", true, "schema-inventory")

	st := store.NewJSONStore(*rawRoot)
	inv := Inventory{
		GeneratedAtUTC: time.Now().UTC().Format(time.RFC3339),
		RawRoot:        *rawRoot,
		Resources:      make([]Resource, 0, len(resources)),
	}

	for _, res := range resources {
		files, err := filepath.Glob(st.Path(res.Glob))
		if err != nil {
			log.Warn().Err(err).Str("resource", res.Name).Msg("bad glob")
			continue
		}
		sort.Strings(files)
		if *maxFiles > 0 && len(files) > *maxFiles {
			files = files[:*maxFiles]
		}
		if len(files) == 0 {
			log.Info().Str("resource", res.Name).Str("glob", res.Glob).Msg("no files")
			continue
		}

		schema := make(map[string]typeCounts)
		rows := 0
		for _, f := range files {
			raw, err := os.ReadFile(f)
			if err != nil {
				log.Warn().Err(err).Str("file", f).Msg("read failed")
				continue
			}
			var v any
			if err := json.Unmarshal(raw, &v); err != nil {
				log.Warn().Err(err).Str("file", f).Msg("not json")
				continue
			}
			if list, ok := v.([]any); ok {
				rows += len(list)
			}
			walkSchema(v, "$", schema)
		}

		inv.Resources = append(inv.Resources, Resource{
			Name:         res.Name,
			FilesScanned: len(files),
			Rows:         rows,
			Fields:       schemaToFields(schema),
		})
	}

	payload, err := json.Marshal(inv)
	if err != nil {
		log.Fatal().Err(err).Msg("encode inventory")
	}
	out := store.NewJSONStore(*outRoot)
	if err := out.WriteRaw("schema_inventory.json", payload, true); err != nil {
		log.Fatal().Err(err).Msg("write inventory")
	}
	log.Info().Str("path", out.Path("schema_inventory.json")).Msg("inventory written")
}

// walkSchema records the type of every value under path. Every array element
// is visited; PostgREST rows of one table do not share encodings reliably.
func walkSchema(v any, path string, schema map[string]typeCounts) {
	switch x := v.(type) {
	case map[string]any:
		addType(schema, path, "object")
		for k, child := range x {
			walkSchema(child, path+"."+k, schema)
		}
	case []any:
		addType(schema, path, "array")
		for _, child := range x {
			walkSchema(child, path+"[]", schema)
		}
	case string:
		addType(schema, path, "string")
	case bool:
		addType(schema, path, "bool")
	case float64:
		addType(schema, path, "number")
	case nil:
		addType(schema, path, "null")
	default:
		addType(schema, path, fmt.Sprintf("%T", v))
	}
}

func addType(schema map[string]typeCounts, path, typ string) {
	counts, ok := schema[path]
	if !ok {
		counts = make(typeCounts)
		schema[path] = counts
	}
	counts[typ]++
}

func schemaToFields(schema map[string]typeCounts) []Field {
	paths := make([]string, 0, len(schema))
	for p := range schema {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	fields := make([]Field, 0, len(paths))
	for _, p := range paths {
		types := make([]string, 0, len(schema[p]))
		nonNull := 0
		for t := range schema[p] {
			types = append(types, t)
			if t != "null" {
				nonNull++
			}
		}
		sort.Strings(types)
		fields = append(fields, Field{
			Path:   p,
			Types:  types,
			Counts: schema[p],
			Mixed:  nonNull > 1,
		})
	}
	return fields
}
