package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/boostbd/smmpanel/internal/db"
	"github.com/boostbd/smmpanel/internal/handlers"
	"github.com/boostbd/smmpanel/internal/logger"
	"github.com/boostbd/smmpanel/internal/repository/postgres"
	"github.com/boostbd/smmpanel/internal/service/auth"
	"github.com/boostbd/smmpanel/internal/service/catalog"
	"github.com/boostbd/smmpanel/internal/service/order"
	"github.com/boostbd/smmpanel/internal/service/reseller"
	"github.com/boostbd/smmpanel/internal/service/statusrefresh"
	"github.com/boostbd/smmpanel/internal/service/verify"
	"github.com/boostbd/smmpanel/internal/service/wallet"
)

type ServerApp struct {
	ListenAddr string
	Handler    http.Handler

	logger    logger.Logger
	refresher *statusrefresh.Refresher
}

func NewServerApp(ctx context.Context, c *Config) (*ServerApp, error) {
	// Initialize logger
	logger, err := logger.New(c.Environment, c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("error while initializing logger: %w", err)
	}

	// Connect to the database and run migrations
	pool, err := db.ConnectAndMigrate(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("error while connecting to db. Err: %w", err)
	}

	// Initialize repositories
	storage := postgres.NewStorage(pool)

	// Initialize services
	tokenManager, err := auth.New(auth.Config{SecretKey: c.SecretKey})
	if err != nil {
		return nil, fmt.Errorf("error while creating token manager. Err: %w", err)
	}
	authService := auth.NewService(tokenManager, storage.User())

	resellerClient := reseller.NewClient(c.ResellerAddr, c.ResellerAPIKey, logger)
	catalogService := catalog.NewService(resellerClient, logger)
	orderService := order.NewService(storage, resellerClient, catalogService, logger)
	walletService := wallet.NewService(storage, logger)
	verifyService := verify.NewService(c.VerifyMode)
	refresher := statusrefresh.New(resellerClient, orderService, logger)

	mux := handlers.NewRouter(
		authService,
		orderService,
		walletService,
		catalogService,
		verifyService,
		resellerClient,
		logger,
	)

	return &ServerApp{
		ListenAddr: c.ListenAddr,
		Handler:    mux,
		logger:     logger,
		refresher:  refresher,
	}, nil
}

// Run starts the http server and the status refresher and closes both
// gracefully on context cancellation
func (s *ServerApp) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:    s.ListenAddr,
		Handler: s.Handler,
	}

	idleConnsClosed := make(chan struct{})
	srvCtx, srvCtxCancel := context.WithCancel(ctx)
	defer srvCtxCancel()

	refresherStopped := s.refresher.Run(srvCtx)

	go func() {
		<-srvCtx.Done()

		timeoutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(timeoutCtx); err == context.DeadlineExceeded {
			s.logger.Error("HTTP server shutdown timeout exceeded, forcing shutdown...")
		}
		s.logger.Info("HTTP server stopped")
		close(idleConnsClosed)
	}()

	// Listen and serve until context is cancelled; then close gracefully connections
	s.logger.Info("Starting server", "addr", s.ListenAddr)
	err := httpServer.ListenAndServe()
	srvCtxCancel()
	<-idleConnsClosed
	<-refresherStopped

	return err
}
