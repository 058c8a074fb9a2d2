package bootstrap

import (
	"fmt"
	"strconv"

	"github.com/jmoiron/sqlx"

	"github.com/sparkmatch/engine/internal/config"
	"github.com/sparkmatch/engine/internal/database"
	"github.com/sparkmatch/engine/internal/logging"
)

// DatabaseComponents holds the database connection and repositories.
type DatabaseComponents struct {
	DB           *sqlx.DB
	AlertsRepo   *database.AlertsRepository
	FlagsRepo    *database.FlagsRepository
	StatsRepo    *database.StatsRepository
	SettingsRepo *database.SettingsRepository
}

// SetupDatabase creates the database connection and repositories.
func SetupDatabase(cfg *config.Config, logger logging.Logger) (*DatabaseComponents, error) {
	dbConfig := database.Config{
		Host:            cfg.Database.Host,
		Port:            strconv.Itoa(cfg.Database.Port),
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		DBName:          cfg.Database.Database,
		SSLMode:         cfg.Database.SSLMode,
		MaxOpenConns:    cfg.Database.MaxConnections,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}

	logger.Info("Connecting to PostgreSQL database",
		logging.String("host", dbConfig.Host),
		logging.String("port", dbConfig.Port),
		logging.String("database", dbConfig.DBName),
	)

	db, err := database.NewPostgresConnection(dbConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	logger.Info("Database connected successfully")

	return &DatabaseComponents{
		DB:           db,
		AlertsRepo:   database.NewAlertsRepository(db),
		FlagsRepo:    database.NewFlagsRepository(db),
		StatsRepo:    database.NewStatsRepository(db),
		SettingsRepo: database.NewSettingsRepository(db),
	}, nil
}
