package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"basket-stats-mcp/internal/cache"
	"basket-stats-mcp/internal/config"
	"basket-stats-mcp/internal/logging"
	"basket-stats-mcp/internal/store"
)

func main() {
	var (
		configPath  = flag.String("config", "", "YAML config file (defaults apply when empty)")
		addr        = flag.String("addr", "", "HTTP listen address (overrides config)")
		mcpPath     = flag.String("path", "", "HTTP path for MCP endpoint (overrides config)")
		rawRoot     = flag.String("raw-root", "", "root directory for raw JSON (overrides config)")
		requireAuth = flag.Bool("require-auth", true, "require API key auth via "+config.EnvMCPAPIKey)
		authHeader  = flag.String("auth-header", "", "HTTP header to read API key from (overrides config)")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	applyFlags(cfg, *addr, *mcpPath, *rawRoot, *authHeader)
	// an explicit -require-auth=false wins over the file
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "require-auth" {
			cfg.Server.RequireAuth = *requireAuth
		}
	})
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Pretty, "stats-server")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	src, closeSource, err := openSource(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open data source")
	}
	defer closeSource()

	svc := newService(src, cfg)

	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "basket-stats-mcp",
			Version: "0.1.0",
		},
		nil,
	)
	registry := registerTools(server, svc)

	handler := mcp.NewStreamableHTTPHandler(func(r *http.Request) *mcp.Server {
		return server
	}, &mcp.StreamableHTTPOptions{JSONResponse: true})

	apiKey := strings.TrimSpace(os.Getenv(config.EnvMCPAPIKey))
	if cfg.Server.RequireAuth && apiKey == "" {
		log.Fatal().Msgf("%s is required (set env var or run with --require-auth=false)", config.EnvMCPAPIKey)
	}

	srv := &http.Server{
		Addr: cfg.Server.Addr,
		Handler: newRouter(svc, registry, handler, routerConfig{
			MCPPath:     cfg.Server.MCPPath,
			APIKey:      apiKey,
			AuthHeader:  cfg.Server.AuthHeader,
			CORSOrigins: cfg.Server.CORSOrigins,
		}),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown failed")
		}
	}()

	log.Info().
		Str("addr", cfg.Server.Addr).
		Str("mcp_path", cfg.Server.MCPPath).
		Str("source", cfg.Source.Kind).
		Bool("cache", cfg.Redis.Addr != "").
		Msgf("MCP HTTP server listening on %s%s", cfg.Server.Addr, cfg.Server.MCPPath)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func applyFlags(cfg *config.Config, addr, mcpPath, rawRoot, authHeader string) {
	if addr != "" {
		cfg.Server.Addr = addr
	}
	if mcpPath != "" {
		cfg.Server.MCPPath = mcpPath
	}
	if rawRoot != "" {
		cfg.Source.RawRoot = rawRoot
	}
	if authHeader != "" {
		cfg.Server.AuthHeader = authHeader
	}
}

// openSource builds the configured store and wraps it in the Redis cache
// when one is configured. The returned func releases whatever was opened.
func openSource(ctx context.Context, cfg *config.Config) (store.Source, func(), error) {
	var (
		src     store.Source
		closers []func()
	)
	switch cfg.Source.Kind {
	case "postgres":
		pg, err := store.OpenPostgres(ctx, cfg.Source.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		closers = append(closers, func() { pg.Close() })
		src = pg
	default:
		src = store.NewFileSource(store.NewJSONStore(cfg.Source.RawRoot))
	}

	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis unreachable; cache will fall through")
		}
		closers = append(closers, func() { client.Close() })
		src = cache.New(src, client, cfg.Redis.TTL, cfg.Redis.Prefix)
	}

	return src, func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}, nil
}
