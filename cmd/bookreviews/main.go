package main

import (
	"context"
	"database/sql"
	"flag"
	"os"
	"sync"

	"github.com/emzola/bookreviews/clients"
	"github.com/emzola/bookreviews/config"
	"github.com/emzola/bookreviews/data"
	"github.com/emzola/bookreviews/handler"
	"github.com/emzola/bookreviews/internal/jsonlog"
	"github.com/emzola/bookreviews/internal/mailer"
	"github.com/emzola/bookreviews/repository"
	"github.com/emzola/bookreviews/repository/memory"
	"github.com/emzola/bookreviews/repository/postgres"
	"github.com/emzola/bookreviews/service"
	"github.com/jellydator/ttlcache/v3"
	"github.com/joho/godotenv"
)

// app defines the application's layers and shared resources.
type app struct {
	config  config.Config
	repo    repository.Repository
	service service.Service
	handler *handler.Handler
}

// @title  Book Reviews API
// @version 1.0.0
// @description This is an API service for cataloguing books and reviewing them.
// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html
// @BasePath /
func main() {
	logger := jsonlog.New(os.Stdout, jsonlog.LevelInfo)

	var configPath string
	flag.StringVar(&configPath, "config", "", "Path to a YAML configuration file")
	flag.Parse()

	// A missing .env file is fine; the environment may be set some other way.
	_ = godotenv.Load()

	cfg, err := config.Decode(configPath)
	if err != nil {
		logger.PrintFatal(err, nil)
	}
	level, err := jsonlog.ParseLevel(cfg.Log.Level)
	if err != nil {
		logger.PrintFatal(err, nil)
	}
	logger = jsonlog.New(os.Stdout, level)

	repo, db, err := openRepository(cfg, logger)
	if err != nil {
		logger.PrintFatal(err, nil)
	}
	if db != nil {
		defer db.Close()
	}

	var opts []service.Option
	if cfg.MailEnabled() {
		opts = append(opts, service.WithMailer(mailer.New(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.Sender)))
	}
	if cfg.UploadsEnabled() {
		uploader, err := clients.NewS3Uploader(context.Background(), cfg)
		if err != nil {
			logger.PrintFatal(err, nil)
		}
		opts = append(opts, service.WithUploader(uploader))
	}

	// Other shared resources: waitgroup and in-memory cache
	var wg sync.WaitGroup
	cache := ttlcache.New(ttlcache.WithTTL[string, *data.User](cfg.Auth.CacheTTL))
	go cache.Start()
	defer cache.Stop()

	// Application layers
	svc := service.New(cfg, &wg, logger, repo, opts...)
	app := &app{
		config:  cfg,
		repo:    repo,
		service: svc,
		handler: handler.New(cfg, logger, cache, svc),
	}

	err = app.serve(&wg, logger)
	if err != nil {
		logger.PrintFatal(err, nil)
	}
}

// openRepository returns the store selected by the database driver. The
// returned *sql.DB is nil for the in-memory store.
func openRepository(cfg config.Config, logger *jsonlog.Logger) (repository.Repository, *sql.DB, error) {
	if cfg.Database.Driver == "memory" {
		logger.PrintInfo("using in-memory store", nil)
		return memory.New(), nil, nil
	}
	db, err := postgres.OpenDBConn(cfg)
	if err != nil {
		return nil, nil, err
	}
	logger.PrintInfo("database connection pool established", nil)
	if cfg.Database.Migrate {
		err = postgres.Migrate(context.Background(), db)
		if err != nil {
			db.Close()
			return nil, nil, err
		}
		logger.PrintInfo("database schema applied", nil)
	}
	return repository.New(db), db, nil
}
