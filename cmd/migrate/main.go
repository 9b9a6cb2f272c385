package main

import (
	"flag"
	"log/slog"
	"os"
	"strconv"

	"moviecatalog/pkg/config"
	"moviecatalog/postgres"

	migrate "github.com/rubenv/sql-migrate"
)

func main() {
	var (
		dir  string
		down bool
	)
	flag.StringVar(&dir, "dir", "migrations", "Directory holding the migration files")
	flag.BoolVar(&down, "down", false, "Roll back the most recent migration")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("cannot load config", "error", err)
		os.Exit(1)
	}

	db, err := postgres.NewConnection(postgres.Options{
		DBName:   cfg.DB.Name,
		DBUser:   cfg.DB.User,
		Password: cfg.DB.Pass,
		Host:     cfg.DB.Host,
		Port:     strconv.Itoa(cfg.DB.Port),
		SSLMode:  cfg.DB.EnableSSL,
	})
	if err != nil {
		logger.Error("cannot connecting to db", "error", err)
		os.Exit(1)
	}

	migrations := &migrate.FileMigrationSource{
		Dir: dir,
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Error("cannot get db instance", "error", err)
		os.Exit(1)
	}

	direction, limit := migrate.Up, 0
	if down {
		direction, limit = migrate.Down, 1
	}

	total, err := migrate.ExecMax(sqlDB, "postgres", migrations, direction, limit)
	if err != nil {
		logger.Error("cannot execute migration", "error", err)
		os.Exit(1)
	}

	logger.Info("applied migrations", "total", total, "down", down)
}
