package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/grpc"

	"github.com/vasapolrittideah/devconnector-api/services/profile-service/internal/config"
	"github.com/vasapolrittideah/devconnector-api/services/profile-service/internal/handler"
	"github.com/vasapolrittideah/devconnector-api/services/profile-service/internal/repository"
	"github.com/vasapolrittideah/devconnector-api/services/profile-service/internal/usecase"
	"github.com/vasapolrittideah/devconnector-api/shared/auth"
	"github.com/vasapolrittideah/devconnector-api/shared/database"
	"github.com/vasapolrittideah/devconnector-api/shared/logger"
	"github.com/vasapolrittideah/devconnector-api/shared/mailer"
	"github.com/vasapolrittideah/devconnector-api/shared/provider"
	"github.com/vasapolrittideah/devconnector-api/shared/utilities"
	"github.com/vasapolrittideah/devconnector-api/shared/validation"
)

const (
	serviceName     = "profile-service"
	shutdownTimeout = 10 * time.Second

	passwordResetAudienceSuffix = "-password-reset"
)

func main() {
	bootLogger := logger.New(serviceName, os.Getenv("APP_MODE"), os.Getenv("LOG_LEVEL"))
	cfg := config.NewProfileServiceConfig(bootLogger)
	log := logger.New(serviceName, cfg.Mode, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mongoClient, err := database.NewMongoClient(ctx, cfg.Mongo.URI, cfg.StoreTimeout)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to MongoDB")
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("failed to disconnect from MongoDB")
		}
	}()
	db := mongoClient.Database(cfg.Mongo.Database)

	accountRepo := repository.NewAccountMongoRepository(ctx, log, db)
	profileRepo := repository.NewProfileMongoRepository(ctx, log, db)
	postRepo := repository.NewPostMongoRepository(ctx, log, db)
	resetTokenRepo := repository.NewPasswordResetTokenMongoRepository(ctx, log, db)

	jwtAuth := auth.NewJWTAuthenticator(cfg.Token.Issuer, cfg.Token.Issuer)
	resetAuth := auth.NewJWTAuthenticator(cfg.Token.Issuer+passwordResetAudienceSuffix, cfg.Token.Issuer)
	tokens := usecase.NewTokenService(jwtAuth, cfg.Token)
	validator := validation.New()

	var (
		welcome usecase.WelcomeMailer
		reset   usecase.PasswordResetMailer
	)
	if m := mailer.NewMailer(log); m != nil {
		welcome, reset = m, m
	}

	authUsecase := usecase.NewAuthUsecase(
		accountRepo,
		tokens,
		validator,
		welcome,
		cfg.StoreTimeout,
		log,
	)
	passwordResetUsecase := usecase.NewPasswordResetUsecase(
		accountRepo,
		resetTokenRepo,
		resetAuth,
		reset,
		validator,
		cfg,
		log,
	)
	profileUsecase := usecase.NewProfileUsecase(
		profileRepo,
		accountRepo,
		postRepo,
		repoLister(ctx, cfg, log),
		validator,
		cfg.StoreTimeout,
		log,
	)

	router := handler.NewProfileHTTPHandler(
		authUsecase,
		profileUsecase,
		passwordResetUsecase,
		tokens,
		log,
	)
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	grpcServer := grpc.NewServer()
	healthServer := utilities.RegisterHealthServer(grpcServer)

	lis, err := net.Listen("tcp", cfg.GRPCHealthAddr)
	if err != nil {
		log.Fatal().Err(err).Str("addr", cfg.GRPCHealthAddr).Msg("failed to listen")
	}

	go func() {
		log.Info().Str("addr", cfg.GRPCHealthAddr).Msg("gRPC health server started")
		if err := grpcServer.Serve(lis); err != nil {
			log.Error().Err(err).Msg("gRPC health server stopped")
		}
	}()

	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("HTTP server started")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("HTTP server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	healthServer.Shutdown()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("failed to shut down HTTP server")
	}
	grpcServer.GracefulStop()
}

func repoLister(ctx context.Context, cfg *config.ProfileServiceConfig, log *zerolog.Logger) provider.RepoLister {
	github := provider.NewGitHubProvider(cfg.GitHub.APIURL, cfg.GitHub.Token, cfg.GitHub.Timeout)
	if cfg.Redis.URL == "" {
		return github
	}

	redisClient, err := database.NewRedisClient(ctx, cfg.Redis.URL)
	if err != nil {
		log.Warn().Err(err).Msg("GitHub lookup cache disabled")
		return github
	}

	return provider.NewCachedRepoLister(github, redisClient, cfg.GitHub.CacheTTL, log)
}
