package database

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"lendinghub/internal/config"
	"lendinghub/internal/microservices/http-api/models"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	_ "modernc.org/sqlite"
)

// ConnectDB opens the configured database and brings its schema up to date.
// Postgres is migrated with the embedded SQL files, sqlite with AutoMigrate.
func ConnectDB(cfg *config.Config, logger *slog.Logger) (*gorm.DB, error) {
	db, err := Open(cfg)
	if err != nil {
		return nil, err
	}

	if cfg.DatabaseDriver == "postgres" {
		err = RunMigrations(db, logger)
	} else {
		err = AutoMigrate(db)
	}
	if err != nil {
		Close(db)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Info("Connected to the database successfully", "driver", cfg.DatabaseDriver)
	return db, nil
}

// Open connects to the configured database without touching its schema
func Open(cfg *config.Config) (*gorm.DB, error) {
	switch cfg.DatabaseDriver {
	case "sqlite":
		return OpenSQLite(cfg.DatabaseURL)
	case "postgres":
		return openPostgres(cfg.DatabaseURL)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DatabaseDriver)
	}
}

func gormConfig() *gorm.Config {
	return &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
		// timestamps are stored in UTC, only dates are reckoned in the library's zone
		NowFunc: func() time.Time { return time.Now().UTC() },
		// the schema owns the constraints, see migrations/
		DisableForeignKeyConstraintWhenMigrating: true,
	}
}

func openPostgres(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	return db, nil
}

// OpenSQLite opens a sqlite database through the pure Go driver. DSN ":memory:" gives a
// private in-memory database, which is what the tests use.
func OpenSQLite(dsn string) (*gorm.DB, error) {
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// a single connection: sqlite has one writer, and an in-memory database lives and
	// dies with its connection
	sqlDB.SetMaxOpenConns(1)

	// Verify the connection
	if err := sqlDB.Ping(); err != nil {
		// close the db handle if ping fails to avoid resource leak
		sqlDB.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db, err := gorm.Open(sqlite.New(sqlite.Config{DriverName: "sqlite", Conn: sqlDB}), gormConfig())
	if err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to open gorm: %w", err)
	}
	return db, nil
}

// AutoMigrate creates the tables from the models. Used for sqlite only.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(models.All()...)
}

// Close releases the underlying connection pool
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
