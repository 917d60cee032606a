package main

import (
	"context"
	"net/http"

	"github.com/rs/zerolog/log"

	"review_replier/internal/adapters/gbp"
	server "review_replier/internal/adapters/http_server"
	"review_replier/internal/adapters/observability"
	"review_replier/internal/adapters/places"
	redisad "review_replier/internal/adapters/redis"
	"review_replier/internal/app"
	"review_replier/internal/domain"
	"review_replier/internal/shared"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	reg := observability.InitRegistry()
	metricsHandler := observability.MetricsHandler(reg)
	observability.Serve(cfg.MetricsAddr, metricsHandler)

	// key-based fetcher, only when a key is configured
	var placesClient domain.PlacesClient
	if cfg.GoogleAPIKey != "" {
		pc, err := places.New(cfg.PlacesBase, cfg.GoogleAPIKey, cfg.RequestRPS)
		if err != nil {
			log.Fatal().Err(err).Msg("places client init failed")
		}
		placesClient = pc
	}

	// service-account credential: a parse failure disables posting but never
	// kills the process
	var connect app.ConnectFunc
	var cacheKey string
	sa, err := shared.LoadServiceAccount(cfg)
	if err != nil {
		log.Error().Err(err).Msg("could not parse service account secret; posting disabled")
	} else if sa != nil {
		cacheKey = sa.ClientEmail
		saJSON := sa.JSON
		connect = func(ctx context.Context) (domain.BusinessProfileClient, error) {
			return gbp.Connect(ctx, saJSON, cfg.BusinessBase, cfg.RequestRPS)
		}
	}

	var cache domain.Cache
	if cfg.RedisAddr != "" {
		cache = redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	}

	svc := app.NewService(placesClient, connect, cache, cacheKey, cfg.CacheTTL, app.NewComposer(""))

	srv := server.New()
	srv.Mount("/metrics", metricsHandler)
	srv.MountHandlers(&server.Handlers{Svc: svc, Sessions: server.NewRegistry()})

	log.Info().Str("addr", cfg.HTTPAddr).Msg("review replier listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
