// Command projectctl runs project and task operations against the database
// as the user identified by an access token.
//
// Usage:
//
//	projectctl [-config file] whoami
//	projectctl projects
//	projectctl tasks <projectID>
//	projectctl update-task <projectID> <taskID> field=value...
//	projectctl activity <projectID>
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ProNexus-Startup/ProjectHub/backend/auth"
	"github.com/ProNexus-Startup/ProjectHub/backend/backend"
	"github.com/ProNexus-Startup/ProjectHub/backend/config"
	"github.com/ProNexus-Startup/ProjectHub/backend/database"
	"github.com/ProNexus-Startup/ProjectHub/backend/models"
	"github.com/ProNexus-Startup/ProjectHub/backend/mutation"
	"github.com/ProNexus-Startup/ProjectHub/backend/notify"
	"github.com/ProNexus-Startup/ProjectHub/backend/querycache"
)

var errUsage = errors.New("usage: projectctl [-config file] whoami|projects|tasks|update-task|activity [args]")

type app struct {
	db       database.Database
	cache    *querycache.Cache
	provider *auth.Provider
	recorder *notify.Recorder
	userID   uuid.UUID
}

func main() {
	configFile := flag.String("config", "", "YAML file with configuration defaults")
	verbose := flag.Bool("v", false, "log at debug level")
	flag.Parse()

	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *configFile, flag.Args()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if errors.Is(err, errUsage) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, configFile string, args []string) error {
	if len(args) == 0 {
		return errUsage
	}

	_ = godotenv.Load()
	c := config.New()
	if configFile != "" {
		if err := config.LoadFile(c, configFile); err != nil {
			return err
		}
	}

	verifier := auth.NewVerifier(config.GetString(c, "SUPABASE_JWT_SECRET", ""))
	token := config.GetString(c, "PROJECTCTL_ACCESS_TOKEN", "")
	session, claims, err := verifier.Verify(token)
	if err != nil {
		return fmt.Errorf("PROJECTCTL_ACCESS_TOKEN: %w", err)
	}

	gormDB, err := database.Open(c)
	if err != nil {
		return err
	}
	db := database.New(backend.NewGormClient(gormDB))

	store := auth.NewSessionStore(verifier)
	provider := auth.NewProvider(store, db.UserRoleRepo())
	defer provider.Close()
	if _, err := store.SignIn(token); err != nil {
		return err
	}

	ctx = backend.WithClaims(ctx, claims)
	ctx = auth.WithSession(ctx, session)
	provider.Start(ctx)

	cache := querycache.New(querycache.NewMemoryStore())
	defer cache.Close()

	a := app{
		db:       db,
		cache:    cache,
		provider: provider,
		recorder: notify.NewRecorder(notify.DefaultCapacity),
		userID:   session.User.ID,
	}
	return a.dispatch(ctx, args[0], args[1:])
}

func (a app) dispatch(ctx context.Context, command string, args []string) error {
	switch command {
	case "whoami":
		return printJSON(a.provider.State())
	case "projects":
		projects, err := a.db.ProjectRepo().ListForUser(ctx)
		if err != nil {
			return err
		}
		return printJSON(projects)
	case "tasks":
		if len(args) != 1 {
			return errUsage
		}
		projectID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("projectID: %w", err)
		}
		tasks, err := a.tasks(ctx, projectID)
		if err != nil {
			return err
		}
		return printJSON(tasks)
	case "update-task":
		if len(args) < 3 {
			return errUsage
		}
		return a.updateTask(ctx, args[0], args[1], args[2:])
	case "activity":
		if len(args) != 1 {
			return errUsage
		}
		projectID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("projectID: %w", err)
		}
		entries, err := a.db.ActivityLogRepo().ListForProject(ctx, projectID)
		if err != nil {
			return err
		}
		return printJSON(entries)
	}
	return errUsage
}

func (a app) tasks(ctx context.Context, projectID uuid.UUID) ([]models.Task, error) {
	repo := a.db.TaskRepo()
	return querycache.QueryJSON(ctx, a.cache, querycache.TasksKey(a.userID, projectID), func(ctx context.Context) ([]models.Task, error) {
		return repo.ListForProject(ctx, projectID)
	})
}

func (a app) updateTask(ctx context.Context, rawProjectID, rawTaskID string, assignments []string) error {
	projectID, err := uuid.Parse(rawProjectID)
	if err != nil {
		return fmt.Errorf("projectID: %w", err)
	}
	taskID, err := uuid.Parse(rawTaskID)
	if err != nil {
		return fmt.Errorf("taskID: %w", err)
	}
	data, err := parseAssignments(assignments)
	if err != nil {
		return err
	}

	// load the list so the update has something to patch
	if _, err := a.tasks(ctx, projectID); err != nil {
		return err
	}

	updater := mutation.NewTaskUpdater(a.cache, a.db.TaskRepo(), a.recorder)
	updater.SetObserver(func(m *mutation.Mutation, state mutation.State) {
		log.Debug().Str("mutationID", m.ID.String()).Str("state", string(state)).Msg("Task mutation")
	})
	m, updateErr := updater.Update(ctx, projectID, mutation.TaskPatch{ID: taskID, Data: data})
	a.cache.Wait()

	for _, n := range a.recorder.Recent(a.userID) {
		fmt.Fprintf(os.Stderr, "%s: %s %s\n", n.Variant, n.Title, n.Description)
	}
	if updateErr != nil {
		return updateErr
	}
	return printJSON(m)
}

// parseAssignments turns field=value pairs into a patch. Values that parse
// as JSON keep their JSON type; anything else is a string.
func parseAssignments(assignments []string) (map[string]any, error) {
	data := make(map[string]any, len(assignments))
	for _, assignment := range assignments {
		field, raw, ok := strings.Cut(assignment, "=")
		if !ok || field == "" {
			return nil, fmt.Errorf("expected field=value, got %q", assignment)
		}
		var value any
		if err := json.Unmarshal([]byte(raw), &value); err != nil {
			value = raw
		}
		data[field] = value
	}
	return data, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
