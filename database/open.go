package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ProNexus-Startup/ProjectHub/backend/config"
	zlog "github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/dbresolver"
)

// DSN builds the Postgres connection string for the configured DB_TYPE.
func DSN(c map[string]string, hostKey string) (string, error) {
	switch dbType := config.GetString(c, "DB_TYPE", "supa"); dbType {
	case "supa":
		return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
			config.GetString(c, hostKey, ""),
			config.GetString(c, "SUPABASE_DB_USER", ""),
			config.GetString(c, "SUPABASE_DB_PASSWORD", ""),
			config.GetString(c, "SUPABASE_DB_NAME", "postgres"),
			config.GetString(c, "SUPABASE_DB_PORT", "5432"),
			config.GetString(c, "SUPABASE_DB_SSLMODE", "require"),
		), nil
	default:
		return "", fmt.Errorf("unsupported DB_TYPE %q", dbType)
	}
}

// Open connects to the Supabase database and, when SUPABASE_DB_REPLICA_HOST
// is set, routes reads to the replica.
func Open(c map[string]string) (*gorm.DB, error) {
	dsn, err := DSN(c, "SUPABASE_DB_HOST")
	if err != nil {
		return nil, err
	}

	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Duration(config.GetInt(c, "DB_SLOW_QUERY_MS", 2000)) * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true, // Supabase's pooler runs in transaction mode
	}), &gorm.Config{
		PrepareStmt: false,
		Logger:      gormLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if replicaHost := config.GetString(c, "SUPABASE_DB_REPLICA_HOST", ""); replicaHost != "" {
		replicaDSN, err := DSN(c, "SUPABASE_DB_REPLICA_HOST")
		if err != nil {
			return nil, err
		}
		resolver := dbresolver.Register(dbresolver.Config{
			Replicas: []gorm.Dialector{postgres.New(postgres.Config{
				DSN:                  replicaDSN,
				PreferSimpleProtocol: true,
			})},
			Policy:            dbresolver.RandomPolicy{},
			TraceResolverMode: true,
		})
		if err := db.Use(resolver); err != nil {
			return nil, fmt.Errorf("register read replica: %w", err)
		}
		zlog.Info().Str("replicaHost", replicaHost).Msg("Read replica registered")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(config.GetInt(c, "DB_MAX_OPEN_CONNS", 20))
	sqlDB.SetMaxIdleConns(config.GetInt(c, "DB_MAX_IDLE_CONNS", 5))
	sqlDB.SetConnMaxLifetime(time.Duration(config.GetInt(c, "DB_CONN_MAX_LIFETIME_MINUTES", 30)) * time.Minute)

	var result int
	if err := db.Raw("SELECT 1").Scan(&result).Error; err != nil {
		return nil, fmt.Errorf("test database connection: %w", err)
	}
	return db, nil
}
