// @title           Thermostat API
// @version         1.0
// @description     Programmable thermostat: day profiles, target temperature and settings administration.
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in              header
// @name            Authorization
package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "thermostat/docs"
	"thermostat/internal/config"
	"thermostat/internal/handlers"
	"thermostat/internal/logger"
	"thermostat/internal/repository"
	"thermostat/internal/repository/db"
	"thermostat/internal/server"
	"thermostat/internal/service"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Get(logger.InfoLevel).Fatalw("error reading config", "err", err)
	}
	log := logger.Get(cfg.LogLevel)
	defer func() { _ = log.Sync() }()

	sqlDB, err := db.InitDB(cfg.DBPath)
	if err != nil {
		log.Fatalw("failed to init sqlite", "path", cfg.DBPath, "err", err)
	}
	defer closeDB(sqlDB, log)

	// context for background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repos := repository.NewRepository(sqlDB)
	if cfg.SettingsDriver == config.DriverPostgres {
		pg, err := repository.NewSettingPG(ctx, cfg.PostgresURL)
		if err != nil {
			log.Fatalw("failed to connect settings store", "driver", cfg.SettingsDriver, "err", err)
		}
		defer pg.Close()
		repos.Settings = pg
	}

	schedule, err := buildSchedule(cfg)
	if err != nil {
		log.Fatalw("invalid schedule config", "err", err)
	}

	services := service.NewService(repos, log, service.Options{
		MaxAge:          cfg.CacheMaxAge,
		SeedPlaceholder: cfg.SeedPlaceholder,
		Schedule:        schedule,
		SigningKey:      cfg.SigningKey,
		TokenTTL:        cfg.TokenTTL,
	})

	if err := services.Profiles.Load(ctx); err != nil {
		log.Fatalw("failed to load profiles", "err", err)
	}
	log.Infow("thermostat_started",
		"settings_driver", cfg.SettingsDriver,
		"cache_max_age", cfg.CacheMaxAge,
		"timezone", cfg.Timezone,
		"weekend_days", cfg.WeekendDays,
	)

	go services.Watcher.Run(ctx, cfg.WatchInterval)

	srv := &server.Server{}
	runHTTPServer(srv, cfg.Port, handlers.NewHandler(services, log), log)

	waitForShutdown(cancel, srv, log)
}

func buildSchedule(cfg config.Config) (service.WeekSchedule, error) {
	loc, err := cfg.Location()
	if err != nil {
		return service.WeekSchedule{}, err
	}
	return service.NewWeekSchedule(loc, cfg.WeekendDays)
}

func closeDB(sqlDB *sql.DB, log *logger.Logger) {
	if err := sqlDB.Close(); err != nil {
		log.Errorw("failed to close sqlite", "err", err)
	}
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		log.Infow("http_listening", "addr", server.Addr(port))
		if err := srv.Run(port, handler.InitRoutes()); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// stop the watcher
	cancel()

	ctx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}
}
