package database

import (
	"errors"
	"fmt"

	"news-spectrum/config"
	"news-spectrum/models"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Tables lists every model the API reads.
var Tables = []any{
	&models.GlobalTopic{},
	&models.LocalTopic{},
	&models.Article{},
	&models.LegacyTopic{},
	&models.LegacyArticle{},
	&models.TopicCountryStat{},
	&models.TopicHistory{},
}

// Open connects to the configured database. The Postgres schema is owned by
// the ingestion pipeline and is used as is; a sqlite database is migrated so
// it can stand in for it locally.
func Open(cfg config.Config) (*gorm.DB, error) {
	gcfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)}

	switch cfg.DBDriver {
	case config.DriverPostgres:
		db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), gcfg)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		return db, nil
	case config.DriverSQLite:
		return OpenSQLite(cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("no database driver configured")
	}
}

// OpenSQLite opens and migrates a sqlite database at path.
func OpenSQLite(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("connect sqlite: %w", err)
	}
	if err := db.AutoMigrate(Tables...); err != nil {
		return nil, fmt.Errorf("migrate sqlite: %w", err)
	}
	return db, nil
}

// isInvalidInput reports a Postgres "invalid text representation" error,
// raised when an id is not a valid uuid for a uuid column.
func isInvalidInput(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "22P02"
}

// notFound normalizes lookups that can never match to gorm.ErrRecordNotFound.
func notFound(err error) error {
	if isInvalidInput(err) {
		return gorm.ErrRecordNotFound
	}
	return err
}
