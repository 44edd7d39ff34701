package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"timed-quiz/internal/app"
	"timed-quiz/internal/config"
	"timed-quiz/internal/infra/memory"
	redissession "timed-quiz/internal/infra/redis"
	transport "timed-quiz/internal/transport/http"

	"github.com/spf13/cobra"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	b, err := newBackend(ctx, cfg)
	if err != nil {
		return err
	}
	defer b.Close()

	var (
		store app.SessionRepository
		stats transport.StatsSource
	)
	if b.redis != nil {
		redisStore := redissession.NewSessionStore(b.redis, config.Duration(cfg.Redis.TTL, 10*time.Minute))
		store, stats = redisStore, redisStore.LiveCount
	} else {
		memStore := memory.NewSessionStore()
		store = memStore
		stats = func(context.Context) (int, error) { return memStore.Len(), nil }
	}
	service := app.NewQuizService(store, b.questions, sessionOptions(cfg))
	router := transport.NewRouter(transport.NewWSHandler(service), b.topics, stats, cfg.Server.CORSOrigins)

	server := &http.Server{
		Addr:              ":" + finalPort,
		Handler:           router,
		ReadHeaderTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting quiz service on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
