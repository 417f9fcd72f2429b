package services

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/alphabatem/common/context"
	"github.com/caarlos0/env/v10"
	"github.com/cenkalti/backoff/v4"
	"github.com/mindforge/forge_api/model"
	"github.com/mindforge/forge_api/services/repositories"
	log "github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverPostgres = "postgres"
	DriverSqlite   = "sqlite"

	staleScenarioAge = 7 * 24 * time.Hour
)

type DatabaseConfig struct {
	Driver     string `env:"DB_DRIVER" envDefault:"postgres"`
	URL        string `env:"DATABASE_URL"`
	Host       string `env:"DB_HOST" envDefault:"localhost"`
	Port       string `env:"DB_PORT" envDefault:"5432"`
	User       string `env:"DB_USER" envDefault:"postgres"`
	Password   string `env:"DB_PASSWORD" envDefault:"postgres"`
	Name       string `env:"DB_NAME" envDefault:"mindforge"`
	SSLMode    string `env:"DB_SSLMODE" envDefault:"disable"`
	TimeZone   string `env:"DB_TIMEZONE" envDefault:"UTC"`
	SqlitePath string `env:"DB_DATABASE" envDefault:"mindforge.db"`
	MaxRetries uint64 `env:"DB_CONNECT_RETRIES" envDefault:"10"`
}

func (c DatabaseConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		c.Host, c.User, c.Password, c.Name, c.Port, c.SSLMode, c.TimeZone)
}

type PostgresService struct {
	context.DefaultService
	db *gorm.DB

	cfg DatabaseConfig

	Profiles   *repositories.ProfileRepository
	Scenarios  *repositories.ScenarioRepository
	RateLimits *repositories.RateLimitRepository

	stopCleanup chan struct{}
}

const POSTGRES_SVC = "postgres_svc"

func (ds PostgresService) Id() string {
	return POSTGRES_SVC
}

func (ds PostgresService) Db() *gorm.DB {
	return ds.db
}

// NewPostgresServiceFromDB wraps an already open connection, migrating it and
// wiring the repositories. Used by the seeder and tests.
func NewPostgresServiceFromDB(db *gorm.DB) (*PostgresService, error) {
	ds := &PostgresService{db: db}
	if err := ds.Migrate(); err != nil {
		return nil, err
	}
	ds.initRepositories()
	return ds, ds.RateLimits.SeedDefaults()
}

func (ds *PostgresService) Configure(ctx *context.Context) error {
	if err := env.Parse(&ds.cfg); err != nil {
		return fmt.Errorf("failed to parse database config: %w", err)
	}
	return ds.DefaultService.Configure(ctx)
}

func (ds *PostgresService) Start() error {
	notify := func(err error, next time.Duration) {
		log.WithFields(log.Fields{"driver": ds.cfg.Driver, "retry_in": next}).WithError(err).Warn("Database connection failed")
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = time.Second
	b.MaxInterval = 10 * time.Second
	err := backoff.RetryNotify(ds.connect, backoff.WithMaxRetries(b, ds.cfg.MaxRetries), notify)
	if err != nil {
		log.WithError(err).Error("Failed to connect to database")
		return err
	}

	if err := ds.Migrate(); err != nil {
		log.WithError(err).Error("Failed to migrate database")
		return err
	}

	ds.initRepositories()

	if err := ds.RateLimits.SeedDefaults(); err != nil {
		log.WithError(err).Error("Failed to seed rate limit configs")
		return err
	}

	ds.stopCleanup = make(chan struct{})
	go ds.cleanupLoop()

	log.WithField("driver", ds.cfg.Driver).Info("Database connected and migrated successfully")
	return nil
}

func (ds *PostgresService) connect() (err error) {
	gormCfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Error)}

	switch ds.cfg.Driver {
	case DriverSqlite:
		ds.db, err = gorm.Open(sqlite.Open(ds.cfg.SqlitePath), gormCfg)
	case DriverPostgres, "":
		ds.db, err = gorm.Open(postgres.Open(ds.cfg.DSN()), gormCfg)
	default:
		return backoff.Permanent(fmt.Errorf("unsupported DB_DRIVER %q", ds.cfg.Driver))
	}
	if err != nil {
		return err
	}

	sqlDB, err := ds.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func (ds *PostgresService) Ping() error {
	if ds.db == nil {
		return errors.New("database not connected")
	}
	sqlDB, err := ds.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// Migrate creates or alters the tables for every persisted model.
func (ds *PostgresService) Migrate() error {
	return ds.db.AutoMigrate(
		&model.Profile{},
		&model.Scenario{},
		&model.ScenarioResult{},
		&model.RateLimitConfig{},
	)
}

func (ds *PostgresService) initRepositories() {
	ds.Profiles = repositories.NewProfileRepository(ds.db)
	ds.Scenarios = repositories.NewScenarioRepository(ds.db)
	ds.RateLimits = repositories.NewRateLimitRepository(ds.db)
}

func (ds *PostgresService) cleanupLoop() {
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			removed, err := ds.Scenarios.DeleteStaleScenarios(time.Now().Add(-staleScenarioAge))
			if err != nil {
				log.WithError(err).Error("Failed to cleanup stale scenarios")
				continue
			}
			log.WithField("removed", removed).Info("Stale scenarios cleaned up")
		case <-ds.stopCleanup:
			return
		}
	}
}

func (ds *PostgresService) Shutdown() {
	if ds.stopCleanup != nil {
		close(ds.stopCleanup)
	}
	if ds.db == nil {
		return
	}
	sqlDB, err := ds.db.DB()
	if err == nil {
		sqlDB.Close()
	}
}

func (ds *PostgresService) HandleError(err error) error {
	if err == nil {
		return nil
	}

	var statusCode int
	var errorType string

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		statusCode = http.StatusNotFound
		errorType = "NOT_FOUND"
	case errors.Is(err, repositories.ErrVersionConflict):
		statusCode = http.StatusConflict
		errorType = "VERSION_CONFLICT"
	case errors.Is(err, gorm.ErrDuplicatedKey):
		statusCode = http.StatusConflict
		errorType = "CONFLICT"
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		statusCode = http.StatusBadRequest
		errorType = "FOREIGN_KEY_VIOLATION"
	case errors.Is(err, gorm.ErrInvalidTransaction):
		statusCode = http.StatusInternalServerError
		errorType = "TRANSACTION_ERROR"
	default:
		switch msg := err.Error(); {
		case strings.Contains(msg, "duplicate key value violates unique constraint"),
			strings.Contains(msg, "UNIQUE constraint failed"):
			statusCode = http.StatusConflict
			errorType = "UNIQUE_CONSTRAINT"
		case strings.Contains(msg, "relation") && strings.Contains(msg, "does not exist"),
			strings.Contains(msg, "no such table"):
			statusCode = http.StatusInternalServerError
			errorType = "SCHEMA_ERROR"
		case strings.Contains(msg, "connection refused"):
			statusCode = http.StatusServiceUnavailable
			errorType = "DATABASE_CONNECTION_ERROR"
		default:
			statusCode = http.StatusInternalServerError
			errorType = "INTERNAL_ERROR"
		}
	}

	logEntry := log.WithFields(log.Fields{
		"status_code": statusCode,
		"error_type":  errorType,
		"error":       err.Error(),
	})

	if statusCode >= 500 {
		logEntry.Error("Database error occurred")
	} else {
		logEntry.Warn("Database operation failed")
	}

	return fmt.Errorf("%s: %w", errorType, err)
}
