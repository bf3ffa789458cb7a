package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"basket-stats-mcp/internal/audit"
	"basket-stats-mcp/internal/cache"
	"basket-stats-mcp/internal/config"
	"basket-stats-mcp/internal/fetch"
	"basket-stats-mcp/internal/logging"
	"basket-stats-mcp/internal/store"
)

func main() {
	var (
		configPath   = flag.String("config", "", "YAML config file (defaults apply when empty)")
		rawRoot      = flag.String("raw-root", "", "root directory for raw JSON (overrides config)")
		derivedRoot  = flag.String("derived-root", "data/derived", "root directory for audit reports")
		competitions = flag.String("competition", "", "comma-separated competition ids to mirror")
		catalog      = flag.Bool("catalog", true, "mirror seasons, categories and competitions")
		force        = flag.Bool("force", false, "refetch files already on disk")
		pretty       = flag.Bool("pretty", true, "pretty-print JSON to disk")
		sleepMS      = flag.Int("sleep-ms", -1, "sleep between requests in ms (overrides config)")
		auditOn      = flag.Bool("audit", true, "write a data-quality report per competition")
		invalidate   = flag.Bool("invalidate", true, "drop cached snapshots of synced competitions when redis is configured")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if *rawRoot != "" {
		cfg.Source.RawRoot = *rawRoot
	}
	if *sleepMS >= 0 {
		cfg.REST.Sleep = time.Duration(*sleepMS) * time.Millisecond
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	if cfg.REST.BaseURL == "" {
		log.Fatal().Msg("rest.base_url is required to sync")
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Pretty, "sync")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st := store.NewJSONStore(cfg.Source.RawRoot)
	client := fetch.NewClient(st, cfg.REST.BaseURL, strings.TrimSpace(os.Getenv(config.EnvRESTAPIKey)))
	client.HTTP.Timeout = cfg.REST.Timeout
	client.Sleep = cfg.REST.Sleep
	client.PrettyWrite = *pretty

	if *catalog {
		must(client.Catalog(ctx, *force))
		log.Info().Msg("catalog mirrored")
	}

	ids := splitIDs(*competitions)
	if len(ids) == 0 {
		log.Info().Msg("no competitions requested; done")
		return
	}

	src := store.NewFileSource(st)
	derived := store.NewJSONStore(*derivedRoot)
	for _, id := range ids {
		res, err := client.SyncCompetition(ctx, id, *force)
		must(err)
		log.Info().Str("competition_id", id).Int("matches", res.Matches).Int("teams", res.Teams).Msg("competition mirrored")

		if *auditOn {
			must(writeAuditReport(ctx, cfg, src, derived, id))
		}
	}

	if *invalidate && cfg.Redis.Addr != "" {
		invalidateCache(ctx, cfg, ids)
	}
	log.Info().Msg("Done.")
}

func writeAuditReport(ctx context.Context, cfg *config.Config, src store.Source, out *store.JSONStore, competitionID string) error {
	in, comp, err := audit.LoadInput(ctx, src, competitionID, "")
	if err != nil {
		return err
	}
	if in.Reconstructor, err = cfg.Reconstructor(comp.Mini); err != nil {
		return err
	}
	rep := audit.Build(in)
	body, err := json.Marshal(rep)
	if err != nil {
		return err
	}
	rel := fmt.Sprintf("audit/%s.json", competitionID)
	if err := out.WriteRaw(rel, body, true); err != nil {
		return err
	}
	log.Info().Str("competition_id", competitionID).Int("issues", len(rep.Issues)).Str("path", out.Path(rel)).Msg("audit report written")
	return nil
}

// invalidateCache is best effort; a stale entry expires with its TTL anyway.
func invalidateCache(ctx context.Context, cfg *config.Config, ids []string) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer client.Close()

	c := cache.New(nil, client, cfg.Redis.TTL, cfg.Redis.Prefix)
	for _, id := range ids {
		if err := c.Invalidate(ctx, id); err != nil {
			log.Warn().Err(err).Str("competition_id", id).Msg("cache invalidation failed")
			continue
		}
		log.Info().Str("competition_id", id).Msg("cache invalidated")
	}
}

func splitIDs(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if id := strings.TrimSpace(part); id != "" {
			out = append(out, id)
		}
	}
	return out
}

func must(err error) {
	if err != nil {
		log.Fatal().Err(err).Msg("sync failed")
	}
}
