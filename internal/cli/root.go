package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/existflow/hackersunity/internal/config"
	"github.com/existflow/hackersunity/internal/db"
	"github.com/existflow/hackersunity/internal/logger"
	"github.com/existflow/hackersunity/internal/remote"
	"github.com/existflow/hackersunity/internal/session"
	"github.com/existflow/hackersunity/internal/supabase"
	"github.com/spf13/cobra"
)

const sessionMaxAge = 7 * 24 * time.Hour

var (
	configPath string
	logLevel   string
	logFile    string
	logConsole bool

	// cfg is loaded before any subcommand runs
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "hackersunity",
	Short: "Hacker's Unity - hackathon platform server",
	Long: `Hacker's Unity serves the hackathon platform: the event catalog, the
personal calendar, dashboards and the account pages.

Data lives either in a hosted Supabase project or in a self-hosted
PostgreSQL or SQLite database.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		// Override with CLI flags if provided
		if cmd.Flags().Changed("log-level") {
			loaded.LogLevel = logLevel
		}
		if cmd.Flags().Changed("log-file") {
			loaded.LogFile = logFile
		}
		if cmd.Flags().Changed("log-console") {
			loaded.LogConsole = logConsole
		}

		logConfig := logger.Config{
			Level:      logger.ParseLevel(loaded.LogLevel),
			FilePath:   loaded.LogFile,
			MaxSize:    10 * 1024 * 1024, // 10MB
			MaxAge:     7,
			MaxBackups: 5,
			Console:    loaded.LogConsole,
		}
		if err := logger.Init(logConfig); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		for _, w := range loaded.Warnings {
			logger.Warn(w)
		}

		cfg = loaded
		logger.Debug("Hacker's Unity started",
			logger.F("command", cmd.Name()),
			logger.F("backend", cfg.Backend))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Debug("Hacker's Unity exiting", logger.F("command", cmd.Name()))
		_ = logger.Close()
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "hackersunity.yaml", "Path to the YAML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (DEBUG, INFO, WARN, ERROR)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Path to log file")
	rootCmd.PersistentFlags().BoolVar(&logConsole, "log-console", false, "Enable console logging")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(eventsCmd)
	rootCmd.AddCommand(calendarCmd)
}

// openBackend connects the Remote Data Client chosen in the config
func openBackend() (remote.Backend, error) {
	switch cfg.Backend {
	case config.BackendSupabase:
		logger.Info("Using hosted backend", logger.F("url", cfg.Supabase.URL))
		return supabase.New(cfg.Supabase.URL, cfg.Supabase.AnonKey), nil
	default:
		return openDatabase()
	}
}

// openDatabase opens the self-hosted database, running migrations
func openDatabase() (*db.DB, error) {
	if cfg.Backend == config.BackendSupabase {
		return nil, fmt.Errorf("this command needs a self-hosted backend (set HU_BACKEND to postgres or sqlite)")
	}

	database, err := db.Open(cfg.Backend, cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to open database", logger.F("backend", cfg.Backend), logger.F("error", err))
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return database, nil
}

// openStore builds the session store chosen in the config. The returned close
// function is never nil.
func openStore(ctx context.Context) (session.Store, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Session.Store {
	case config.StoreRedis:
		store, closeFn, err := session.NewRedisStore(ctx, cfg.Session.RedisURL, sessionMaxAge, cfg.Session.CookieSecure)
		if err != nil {
			return nil, noop, fmt.Errorf("failed to connect session store: %w", err)
		}
		return store, closeFn, nil
	case config.StoreCookie:
		return session.NewCookieStore(cfg.Session.Secret, sessionMaxAge, cfg.Session.CookieSecure), noop, nil
	default:
		return session.NewMemoryStore(sessionMaxAge, cfg.Session.CookieSecure), noop, nil
	}
}
