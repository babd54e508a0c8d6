package main

import (
	"database/sql"
	"math/rand"
	"net/http"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"nightspot/internal/adapters/geocode"
	server "nightspot/internal/adapters/http_server"
	"nightspot/internal/adapters/observability"
	"nightspot/internal/adapters/placesearch"
	redisad "nightspot/internal/adapters/redis"
	"nightspot/internal/adapters/resstore"
	"nightspot/internal/app"
	"nightspot/internal/shared"
	mysqlrepo "nightspot/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	observability.Serve()

	// db
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("database connection ok")

	// deps
	repo := mysqlrepo.New(db)
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	search, err := placesearch.New(cfg.SearchBase, cfg.SearchKey, 5)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize place search client")
	}
	geocoder := geocode.New(cfg.GeocodeBase, cfg.GeocodeKey, 5)
	store := resstore.New(cfg.ReserveBase, cfg.ReserveKey)

	offsets := app.RandomOffset(rand.New(rand.NewSource(time.Now().UnixNano())))
	resolver := app.NewResolver(geocoder, cache, cfg.GeoCacheTTL, offsets)
	discovery := app.NewDiscoveryService(repo, search, resolver, cfg.Workers)
	reservations := app.NewReservationService(store)

	// http
	srv := server.New()
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{
		Discovery:    discovery,
		Reservations: reservations,
		Registry:     repo,
	})

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
