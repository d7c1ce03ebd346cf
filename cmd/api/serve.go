package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/expense-service/internal/api/http"
	"github.com/spec-kit/expense-service/internal/api/http/handlers"
	"github.com/spec-kit/expense-service/internal/auth"
	"github.com/spec-kit/expense-service/internal/config"
	"github.com/spec-kit/expense-service/internal/events"
	"github.com/spec-kit/expense-service/internal/observability"
	"github.com/spec-kit/expense-service/internal/persistence"
	"github.com/spec-kit/expense-service/internal/repository"
	"github.com/spec-kit/expense-service/internal/repository/filestore"
	"github.com/spec-kit/expense-service/internal/service"
	"github.com/spec-kit/expense-service/internal/worker"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		logger, err := observability.NewLogger(cfg.Logger)
		if err != nil {
			return fmt.Errorf("failed to init logger: %w", err)
		}
		defer logger.Sync() //nolint:errcheck

		return serve(cmd.Context(), cfg, logger)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

type stores struct {
	users   repository.UserRepository
	tickets repository.TicketRepository
	pinger  repository.Pinger
	close   func()
}

func openStores(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*stores, error) {
	switch cfg.Storage.Driver {
	case config.StorageDriverPostgres:
		db, err := persistence.OpenExpenseDB(ctx, cfg.Postgres, logger)
		if err != nil {
			return nil, fmt.Errorf("open postgres store: %w", err)
		}
		return &stores{users: db.Users(), tickets: db.Tickets(), pinger: db, close: db.Close}, nil
	case config.StorageDriverMemory:
		logger.Warn("using in-memory storage; data is lost on restart")
		store := filestore.NewMemory()
		return &stores{users: store.Users(), tickets: store.Tickets(), pinger: store, close: func() {}}, nil
	default:
		store, err := filestore.Open(cfg.Storage.DataDir)
		if err != nil {
			return nil, fmt.Errorf("open file store: %w", err)
		}
		logger.Info("using file storage", zap.String("dir", cfg.Storage.DataDir))
		return &stores{users: store.Users(), tickets: store.Tickets(), pinger: store, close: func() {}}, nil
	}
}

func serve(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	st, err := openStores(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer st.close()

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	dispatcher := events.NewInMemoryDispatcher()
	worker.StartNotificationWorker(service.NewNotificationService(dispatcher, logger, cfg.Notification))
	var redisPinger repository.Pinger
	if redis.Enabled() {
		worker.StartRedisForwarder(dispatcher, events.NewRedisPublisher(redis.Client, cfg.Redis.EventsChannel), logger)
		redisPinger = redis
	}

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)
	authService := service.NewAuthService(service.AuthDependencies{
		UserRepo:   st.users,
		Hasher:     auth.NewPasswordHasher(cfg.Auth.BcryptCost),
		Tokens:     tokens,
		Dispatcher: dispatcher,
	})
	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo: st.tickets,
		UserRepo:   st.users,
		Dispatcher: dispatcher,
	})
	employeeService := service.NewEmployeeService(st.users, dispatcher)

	metrics := observability.NewMetrics()
	app := httptransport.NewApp(cfg.App.Name,
		httptransport.MiddlewareConfig{
			Logger:       logger,
			Metrics:      metrics,
			Timeout:      cfg.App.RequestTimeout(),
			AllowOrigins: cfg.CORS.AllowOrigins,
		},
		httptransport.RouteConfig{
			Health: handlers.NewHealthHandler(handlers.HealthDependencies{
				ServiceName: cfg.App.Name,
				Version:     cfg.App.Version,
				Store:       st.pinger,
				Redis:       redisPinger,
				Metrics:     metrics,
			}),
			Users:          handlers.NewUsersHandler(authService),
			Tickets:        handlers.NewTicketsHandler(ticketService),
			Employees:      handlers.NewEmployeesHandler(employeeService),
			AuthMiddleware: auth.NewAuthMiddleware(tokens, st.users),
		},
	)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", cfg.App.Addr()))
		errCh <- app.Listen(cfg.App.Addr())
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("fiber listen: %w", err)
	case sig := <-shutdownSignal():
		logger.Info("shutting down", zap.String("signal", sig.String()))
	}
	return app.Shutdown()
}

func shutdownSignal() <-chan os.Signal {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	return sigCh
}
