package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/soheilhy/cmux"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	logger_lib "github.com/s21platform/logger-lib"

	"github.com/s21platform/messenger-service/internal/bridge"
	"github.com/s21platform/messenger-service/internal/chat"
	"github.com/s21platform/messenger-service/internal/client/centrifugo"
	"github.com/s21platform/messenger-service/internal/client/storage"
	"github.com/s21platform/messenger-service/internal/config"
	"github.com/s21platform/messenger-service/internal/infra"
	"github.com/s21platform/messenger-service/internal/pkg/jwt"
	"github.com/s21platform/messenger-service/internal/pkg/tx"
	"github.com/s21platform/messenger-service/internal/pkg/validator"
	db "github.com/s21platform/messenger-service/internal/repository/postgres"
	"github.com/s21platform/messenger-service/internal/rest"
)

func main() {
	cfg := config.MustLoad()
	logger := logger_lib.New(cfg.Logger.Host, cfg.Logger.Port, cfg.Service.Name, cfg.Platform.Env)

	dbRepo := db.New(cfg)
	defer dbRepo.Close()

	centrifugeClient := centrifugo.New(cfg)
	defer centrifugeClient.Close()

	storageClient := storage.New(cfg)
	defer storageClient.Close()

	changeBridge, err := bridge.New(cfg, centrifugeClient)
	if err != nil {
		logger.Error(fmt.Sprintf("failed to start change bridge: %v", err))
		return
	}
	defer changeBridge.Close()

	vldtr := validator.New()
	jwtGenerator := jwt.New(cfg.Centrifuge.JWTSecret)

	chatService := chat.New(dbRepo, storageClient)

	grpcServer := grpc.NewServer()
	healthpb.RegisterHealthServer(grpcServer, health.NewServer())

	handler := rest.New(chatService, vldtr, jwtGenerator)
	router := chi.NewRouter()

	router.Use(infra.AuthInterceptorHTTP)
	router.Use(func(next http.Handler) http.Handler {
		return infra.LoggerHTTP(next, logger)
	})
	router.Use(tx.TxMiddlewareHTTP(dbRepo))

	rest.RegisterRoutes(router, handler)
	httpServer := &http.Server{
		Handler: router,
	}

	listener, err := net.Listen("tcp", fmt.Sprintf(":%s", cfg.Service.Port))
	if err != nil {
		logger.Error(fmt.Sprintf("failed to start TCP listener: %v", err))
		return
	}

	m := cmux.New(listener)

	grpcListener := m.MatchWithWriters(cmux.HTTP2MatchHeaderFieldSendSettings("content-type", "application/grpc"))
	httpListener := m.Match(cmux.HTTP1Fast())

	ctx := context.WithValue(context.Background(), config.KeyLogger, logger)
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := changeBridge.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("change bridge error: %v", err)
		}
		return nil
	})

	g.Go(func() error {
		if err := grpcServer.Serve(grpcListener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return fmt.Errorf("gRPC server error: %v", err)
		}
		return nil
	})

	g.Go(func() error {
		if err := httpServer.Serve(httpListener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %v", err)
		}
		return nil
	})

	g.Go(func() error {
		if err := m.Serve(); err != nil {
			return fmt.Errorf("cannot start service: %v", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error(fmt.Sprintf("server error: %v", err))
	}
}
