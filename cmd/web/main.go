package main

import (
	"context"
	"fmt"
	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/donseba/go-htmx"
	"github.com/joho/godotenv"
	"github.com/myrjola/cluequest/internal/ai"
	"github.com/myrjola/cluequest/internal/envstruct"
	"github.com/myrjola/cluequest/internal/errors"
	"github.com/myrjola/cluequest/internal/logging"
	"github.com/myrjola/cluequest/internal/pprofserver"
	"github.com/myrjola/cluequest/internal/repositories"
	"github.com/myrjola/cluequest/internal/sqlite"
	"github.com/myrjola/cluequest/internal/story"
	"github.com/myrjola/cluequest/internal/webauthnhandler"
	"log/slog"
	"os"
	"time"
)

type application struct {
	logger          *slog.Logger
	htmx            *htmx.HTMX
	sessionManager  *scs.SessionManager
	webAuthnHandler *webauthnhandler.WebAuthnHandler
	generator       *story.Generator
	tracker         *story.Tracker
	stories         *repositories.StoryRepository
	users           *repositories.UserRepository
}

type configuration struct {
	// Addr is the address the server listens on, e.g. "localhost:4000". Use port 0
	// to let the OS pick a free port.
	Addr string `env:"CLUEQUEST_ADDR" envDefault:"localhost:4000"`
	// FQDN is the fully qualified domain name used as the WebAuthn relying party ID.
	FQDN      string `env:"CLUEQUEST_FQDN" envDefault:"localhost"`
	SqliteURL string `env:"CLUEQUEST_SQLITE_URL" envDefault:"./cluequest.sqlite"`
	// PprofAddr enables the pprof server listening on the given address when set.
	PprofAddr string `env:"CLUEQUEST_PPROF_ADDR" envDefault:""`
	// AIClient selects the completion client, "openai" or "stub". The stub returns a
	// canned case and is meant for tests and local development without an API key.
	AIClient      string `env:"CLUEQUEST_AI_CLIENT" envDefault:"openai"`
	OpenAIBaseURL string `env:"CLUEQUEST_OPENAI_BASE_URL" envDefault:"https://api.groq.com/openai/v1"`
	OpenAIModel   string `env:"CLUEQUEST_OPENAI_MODEL" envDefault:"llama3-70b-8192"`
	OpenAIAPIKey  string `env:"OPENAI_API_KEY" envDefault:""`
}

func run(ctx context.Context, logger *slog.Logger, lookupEnv func(string) (string, bool)) error {
	var (
		err    error
		config configuration
	)
	if err = envstruct.Populate(&config, lookupEnv); err != nil {
		return errors.Wrap(err, "parse environment variables")
	}

	if config.PprofAddr != "" {
		pprofserver.Launch(config.PprofAddr, logger)
	}

	db, err := sqlite.NewDatabase(ctx, config.SqliteURL, logger)
	if err != nil {
		return errors.Wrap(err, "open database", slog.String("url", config.SqliteURL))
	}
	logger.LogAttrs(ctx, slog.LevelInfo, "connected to database", slog.String("url", config.SqliteURL))

	sessionManager := scs.New()
	sessionManager.Store = sqlite3store.NewWithCleanupInterval(db.ReadWrite.DB, 24*time.Hour)
	sessionManager.Lifetime = 12 * time.Hour

	rpOrigins := []string{fmt.Sprintf("http://%s", config.Addr)}
	webAuthnHandler, err := webauthnhandler.New(config.FQDN, rpOrigins, logger, sessionManager, db)
	if err != nil {
		return errors.Wrap(err, "initialise webauthn handler")
	}

	var aiClient ai.Client
	switch config.AIClient {
	case "stub":
		aiClient = ai.NewStubClient()
	case "openai":
		aiClient = ai.NewClient(config.OpenAIBaseURL, config.OpenAIAPIKey, config.OpenAIModel)
	default:
		return errors.New("unknown AI client", slog.String("client", config.AIClient))
	}

	users := repositories.NewUserRepository(db, logger)
	stories := repositories.NewStoryRepository(db, logger)

	app := application{
		logger:          logger,
		htmx:            htmx.New(),
		sessionManager:  sessionManager,
		webAuthnHandler: webAuthnHandler,
		generator:       story.NewGenerator(aiClient, stories, users, logger),
		tracker:         story.NewTracker(stories, users, logger),
		stories:         stories,
		users:           users,
	}

	return app.configureAndStartServer(ctx, config.Addr)
}

func main() {
	loggerHandler := logging.NewContextHandler(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level:       slog.LevelDebug,
		AddSource:   true,
		ReplaceAttr: nil,
	}))
	logger := slog.New(loggerHandler)

	// The .env file is optional, environment variables take precedence.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logger.Error("load .env", "error", err)
		os.Exit(1)
	}

	if err := run(context.Background(), logger, os.LookupEnv); err != nil {
		logger.Error("server error", errors.SlogError(err))
		os.Exit(1)
	}
}
