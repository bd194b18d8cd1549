package database

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"ingetin-backend/pkg/config"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewConnection opens the database selected by cfg.DBDriver.
func NewConnection(cfg *config.Config) (*gorm.DB, error) {
	switch strings.ToLower(cfg.DBDriver) {
	case "", "postgres", "postgresql":
		return NewPostgresConnection(cfg.DatabaseURL)
	case "sqlite", "sqlite3":
		return NewSQLiteConnection(cfg.DatabaseURL)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
}

func NewPostgresConnection(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	log.Println("[Database] Connected to PostgreSQL")
	return db, nil
}

// NewSQLiteConnection opens a SQLite database. The pool is pinned to a single
// connection so that in-memory databases stay alive and writes are serialised.
func NewSQLiteConnection(dsn string) (*gorm.DB, error) {
	if dsn == "" {
		dsn = "ingetin.db"
	}
	db, err := gorm.Open(sqlite.Open(dsn), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("sqlite pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	log.Printf("[Database] Connected to SQLite (%s)", dsn)
	return db, nil
}

// Migrate creates or updates the tables for the given models.
func Migrate(db *gorm.DB, models ...interface{}) error {
	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("migrate db: %w", err)
	}
	return nil
}

func gormConfig() *gorm.Config {
	return &gorm.Config{
		Logger: logger.New(
			log.New(os.Stdout, "", log.LstdFlags),
			logger.Config{
				SlowThreshold:             time.Second,
				LogLevel:                  logger.Warn,
				IgnoreRecordNotFoundError: true,
				Colorful:                  false,
			},
		),
		// Child rows are removed explicitly inside repository transactions.
		DisableForeignKeyConstraintWhenMigrating: true,
		// Unique violations surface as gorm.ErrDuplicatedKey on every driver.
		TranslateError: true,
	}
}

// NewInMemory opens a named, private in-memory SQLite database.
func NewInMemory(name string) (*gorm.DB, error) {
	name = strings.NewReplacer("/", "_", " ", "_").Replace(name)
	return NewSQLiteConnection(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
}
