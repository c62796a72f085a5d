package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	api "github.com/ProNexus-Startup/ProjectHub/backend/api"
	"github.com/ProNexus-Startup/ProjectHub/backend/auth"
	"github.com/ProNexus-Startup/ProjectHub/backend/backend"
	"github.com/ProNexus-Startup/ProjectHub/backend/config"
	"github.com/ProNexus-Startup/ProjectHub/backend/database"
	"github.com/ProNexus-Startup/ProjectHub/backend/models"
	"github.com/ProNexus-Startup/ProjectHub/backend/notify"
	"github.com/ProNexus-Startup/ProjectHub/backend/querycache"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Warning: Error loading .env file: %v\n", err)
	}

	c := config.New()
	if path := config.GetString(c, "CONFIG_FILE", ""); path != "" {
		if err := config.LoadFile(c, path); err != nil {
			fmt.Printf("Error loading config file %s: %v\n", path, err)
			os.Exit(1)
		}
	}
	setupLogger(c)

	log.Info().Str("dbType", config.GetString(c, "DB_TYPE", "supa")).Msg("Initializing app...")

	db, err := database.Open(c)
	if err != nil {
		log.Fatal().Err(err).Msg("Error connecting to database")
	}

	// Test database connection
	var result int
	if err := db.Raw("SELECT 1").Scan(&result).Error; err != nil {
		log.Fatal().Err(err).Msg("Error testing database connection")
	}

	// If generating models, run generation and exit
	if config.GetBool(c, "GENERATE_MODELS", false) {
		log.Info().Msg("Generating query helpers...")
		models.GenerateModels(db)
		return
	}

	// If generating column mismatch report, run report and exit
	if config.GetBool(c, "GENERATE_COLUMN_REPORT", false) {
		log.Info().Msg("Generating column mismatch report...")
		models.GenerateColumnMismatchReport(db)
		return
	}

	cacheStore, err := newCacheStore(c)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing query cache")
	}
	cache := querycache.New(cacheStore, querycache.WithMaxAge(config.GetSeconds(c, "CACHE_TTL_SECONDS", 5*time.Minute)))
	defer cache.Close()

	secret := config.GetString(c, "SUPABASE_JWT_SECRET", "")
	if secret == "" {
		log.Fatal().Msg("SUPABASE_JWT_SECRET is required")
	}

	errChannel := make(chan error)
	defer close(errChannel)

	server, err := api.NewServer(c, api.Dependencies{
		Database:      database.New(backend.NewGormClient(db)),
		Cache:         cache,
		Verifier:      auth.NewVerifier(secret),
		Notifications: notify.NewRecorder(config.GetInt(c, "NOTIFICATION_CAPACITY", notify.DefaultCapacity)),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing server")
	}

	go server.Start(errChannel)

	// Listen for interrupt signals to gracefully shutdown the server
	go listenToInterrupt(errChannel)

	fatalErr := <-errChannel
	log.Info().Msgf("Closing server: %v", fatalErr)

	server.ShutdownGracefully(config.GetSeconds(c, "SHUTDOWN_TIMEOUT_SECONDS", 30*time.Second))
}

func setupLogger(c map[string]string) {
	level, err := zerolog.ParseLevel(strings.ToLower(config.GetString(c, "LOG_LEVEL", "info")))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if config.GetString(c, "LOG_FORMAT", "console") == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}

// newCacheStore picks the query cache backend named by CACHE_BACKEND.
func newCacheStore(c map[string]string) (querycache.Store, error) {
	switch kind := config.GetString(c, "CACHE_BACKEND", "memory"); kind {
	case "memory":
		return querycache.NewMemoryStore(), nil
	case "redis":
		addr := config.GetString(c, "REDIS_ADDR", "localhost:6379")
		rdb := redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: config.GetString(c, "REDIS_PASSWORD", ""),
			DB:       config.GetInt(c, "REDIS_DB", 0),
		})
		log.Info().Str("addr", addr).Msg("Query cache backed by redis")
		return querycache.NewRedisStore(rdb, "projecthub:query:", config.GetSeconds(c, "CACHE_TTL_SECONDS", 5*time.Minute)), nil
	default:
		return nil, fmt.Errorf("unsupported CACHE_BACKEND %q", kind)
	}
}

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
func listenToInterrupt(errChannel chan<- error) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	errChannel <- fmt.Errorf("%s", <-c)
}
