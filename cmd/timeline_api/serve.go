package main

import (
	"fmt"
	"time"

	"github.com/jonathan/recruitment-timeline/internal/config"
	"github.com/jonathan/recruitment-timeline/internal/db"
	"github.com/jonathan/recruitment-timeline/internal/server"
	"github.com/jonathan/recruitment-timeline/internal/server/ratelimit"
	"github.com/jonathan/recruitment-timeline/internal/timeline"
	"github.com/spf13/cobra"
)

var (
	servePort     int
	serveMigrate  bool
	serveInMemory bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes the timeline, step and status endpoints.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on (overrides PORT)")
	serveCmd.Flags().BoolVar(&serveMigrate, "migrate", false, "Apply pending migrations before serving")
	serveCmd.Flags().BoolVar(&serveInMemory, "in-memory", false, "Serve from seeded in-memory storage instead of PostgreSQL")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	cfg, logger, err := loadRuntime()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("port") {
		cfg.Port = servePort
	}

	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		return fmt.Errorf("failed to create JWT config: %w", err)
	}

	deps := server.Deps{
		JWT:       server.NewJWTService(jwtConfig),
		RateLimit: ratelimit.LoadConfig(),
		Logger:    logger,
	}

	if serveInMemory {
		store := timeline.NewMemoryStore()
		store.SeedDefaults()
		deps.Service = timeline.NewService(store, logger)
		logger.Warn("serving from in-memory storage; data is lost on exit")
	} else {
		database, err := connectDB(ctx, cfg)
		if err != nil {
			return err
		}
		if serveMigrate {
			if err := database.Migrate(ctx, db.MigrateUp, logger); err != nil {
				database.Close()
				return err
			}
		}
		deps.Service = timeline.NewService(timeline.NewPostgresStore(database), logger)
		deps.Ping = database.Ping
		deps.OnClose = database.Close
	}

	srv, err := server.New(server.Config{
		Port:              cfg.Port,
		CORSAllowedOrigin: cfg.CORSAllowedOrigin,
		ShutdownTimeout:   time.Duration(cfg.ShutdownTimeout) * time.Second,
	}, deps)
	if err != nil {
		if deps.OnClose != nil {
			deps.OnClose()
		}
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start(ctx)
}
