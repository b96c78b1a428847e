package database

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/dbresolver"

	"github.com/rpupo63/portfolio-site/config"
	"github.com/rpupo63/portfolio-site/errs"
	"github.com/rpupo63/portfolio-site/models"
)

type Database struct {
	db      *gorm.DB
	rowRepo *RowRepo
}

// New wraps a shared GORM connection.
func New(db *gorm.DB) Database {
	return Database{
		db:      db,
		rowRepo: NewRowRepo(db),
	}
}

func (d Database) RowRepo() *RowRepo {
	return d.rowRepo
}

func (d Database) DB() *gorm.DB {
	return d.db
}

func (d Database) Migrate() error {
	return models.Migrate(d.db)
}

// Ping checks the primary connection.
func (d Database) Ping(ctx context.Context) error {
	var result int
	if err := d.db.WithContext(ctx).Raw("SELECT 1").Scan(&result).Error; err != nil {
		return errs.NewDatabaseError("ping", "database", err)
	}
	return nil
}

// NewLogger bridges gorm's logger to stdout at warn level.
func NewLogger() logger.Interface {
	return logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             10 * time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)
}

// Open connects to the database selected by DB_TYPE ("supa" or "sqlite"). When
// SUPABASE_DB_REPLICA_HOST is set, reads are routed to that replica.
func Open(c map[string]string, gormLogger logger.Interface) (*gorm.DB, error) {
	var dialector gorm.Dialector

	dbType := config.GetString(c, "DB_TYPE", "supa")
	switch dbType {
	case "supa":
		if err := config.Require(c, "SUPABASE_DB_HOST", "SUPABASE_DB_USER", "SUPABASE_DB_PASSWORD", "SUPABASE_DB_NAME"); err != nil {
			return nil, err
		}
		dialector = postgresDialector(PostgresDSN(c, config.GetString(c, "SUPABASE_DB_HOST", "")))
	case "sqlite":
		dialector = sqlite.Open(config.GetString(c, "SQLITE_PATH", "portfolio.db"))
	default:
		return nil, errs.NewConfigError("DB_TYPE", fmt.Errorf("unsupported DB_TYPE %q", dbType))
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		PrepareStmt: false,
		Logger:      gormLogger,
	})
	if err != nil {
		return nil, errs.NewDatabaseError("connect", dbType, err)
	}

	if replica := config.GetString(c, "SUPABASE_DB_REPLICA_HOST", ""); replica != "" && dbType == "supa" {
		err := db.Use(dbresolver.Register(dbresolver.Config{
			Replicas: []gorm.Dialector{postgresDialector(PostgresDSN(c, replica))},
			Policy:   dbresolver.RandomPolicy{},
		}))
		if err != nil {
			return nil, errs.NewDatabaseError("register replica", replica, err)
		}
	}

	if err := New(db).Ping(context.Background()); err != nil {
		return nil, err
	}
	return db, nil
}

// PostgresDSN builds a Supabase connection string for host.
func PostgresDSN(c map[string]string, host string) string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		host,
		config.GetString(c, "SUPABASE_DB_USER", ""),
		config.GetString(c, "SUPABASE_DB_PASSWORD", ""),
		config.GetString(c, "SUPABASE_DB_NAME", ""),
		config.GetString(c, "SUPABASE_DB_PORT", "5432"),
		config.GetString(c, "SUPABASE_DB_SSLMODE", "require"),
	)
}

func postgresDialector(dsn string) gorm.Dialector {
	return postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	})
}
