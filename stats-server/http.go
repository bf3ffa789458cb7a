package main

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"
)

const requestIDHeader = "X-Request-ID"

// withAuth checks the API key from header, or a bearer token. An empty
// apiKey disables the check.
func withAuth(apiKey, header string) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if apiKey == "" || r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}
			key := strings.TrimSpace(r.Header.Get(header))
			if key == "" {
				if authz := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(authz), "bearer ") {
					key = strings.TrimSpace(authz[7:])
				}
			}
			if subtle.ConstantTimeCompare([]byte(key), []byte(apiKey)) != 1 {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"error":"unauthorized"}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// withRequestLog tags every request with an id and a request-scoped logger.
func withRequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		w.Header().Set(requestIDHeader, id)

		logger := log.With().Str("request_id", id).Logger()
		start := time.Now()
		next.ServeHTTP(w, r.WithContext(logger.WithContext(r.Context())))
		logger.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("took", time.Since(start)).
			Msg("request")
	})
}

type routerConfig struct {
	MCPPath     string
	APIKey      string
	AuthHeader  string
	CORSOrigins []string
}

// newRouter mounts the REST routes, /health, /tools and the MCP handler
// behind the request logger, the auth check and CORS.
func newRouter(svc *service, registry []toolInfo, mcpHandler http.Handler, rc routerConfig) http.Handler {
	router := mux.NewRouter()
	router.Use(withRequestLog)
	router.Use(withAuth(rc.APIKey, rc.AuthHeader))

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	router.HandleFunc("/tools", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		b, _ := json.MarshalIndent(map[string]any{"tools": registry}, "", "  ")
		w.Write(b)
	}).Methods("GET")

	if mcpHandler != nil {
		router.Handle(rc.MCPPath, mcpHandler)
	}

	api := router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/seasons", svc.handleSeasons).Methods("GET")
	api.HandleFunc("/categories", svc.handleCategories).Methods("GET")
	api.HandleFunc("/competitions", svc.handleCompetitions).Methods("GET")
	api.HandleFunc("/competitions/{id}/standings", svc.handleStandings).Methods("GET")
	api.HandleFunc("/competitions/{id}/quality", svc.handleQuality).Methods("GET")
	api.HandleFunc("/competitions/{id}/teams/{team}/players", svc.handleTeamPlayers).Methods("GET")
	api.HandleFunc("/competitions/{id}/teams/{team}/matches", svc.handleTeamMatches).Methods("GET")
	api.HandleFunc("/competitions/{id}/teams/{team}/players/{player}/matches", svc.handlePlayerMatches).Methods("GET")

	c := cors.New(cors.Options{
		AllowedOrigins: rc.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", rc.AuthHeader, "Mcp-Session-Id", "Mcp-Protocol-Version"},
		ExposedHeaders: []string{requestIDHeader, "Mcp-Session-Id"},
		MaxAge:         300,
	})
	return c.Handler(router)
}

func respond(w http.ResponseWriter, r *http.Request, v any, err error) {
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *service) handleSeasons(w http.ResponseWriter, r *http.Request) {
	v, err := s.seasons(r.Context())
	respond(w, r, v, err)
}

func (s *service) handleCategories(w http.ResponseWriter, r *http.Request) {
	v, err := s.categories(r.Context())
	respond(w, r, v, err)
}

func (s *service) handleCompetitions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	v, err := s.competitions(r.Context(), q.Get("season_id"), q.Get("category_id"))
	respond(w, r, v, err)
}

func (s *service) handleStandings(w http.ResponseWriter, r *http.Request) {
	v, err := s.standings(r.Context(), mux.Vars(r)["id"])
	respond(w, r, v, err)
}

func (s *service) handleQuality(w http.ResponseWriter, r *http.Request) {
	v, err := s.dataQuality(r.Context(), mux.Vars(r)["id"], r.URL.Query().Get("team_id"))
	respond(w, r, v, err)
}

func (s *service) handleTeamPlayers(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	q := r.URL.Query()
	v, err := s.teamPlayers(r.Context(), vars["id"], vars["team"], q.Get("minutes"), q.Get("order"))
	respond(w, r, v, err)
}

func (s *service) handleTeamMatches(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	v, err := s.teamMatches(r.Context(), vars["id"], vars["team"])
	respond(w, r, v, err)
}

func (s *service) handlePlayerMatches(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	v, err := s.playerMatches(r.Context(), vars["id"], vars["team"], vars["player"])
	respond(w, r, v, err)
}
