// @title        Performance Management API
// @version      1.0
// @description  Users, performance reviews, peer feedback and KPIs behind role-gated bearer authentication.
// @BasePath     /
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the access token.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/talentpulse/performance-api/internal/api"
	"github.com/talentpulse/performance-api/internal/core/auth"
	"github.com/talentpulse/performance-api/internal/core/ports"
	"github.com/talentpulse/performance-api/internal/core/service"
	"github.com/talentpulse/performance-api/internal/infrastructure/config"
	"github.com/talentpulse/performance-api/internal/infrastructure/db/mongo"
	"github.com/talentpulse/performance-api/internal/infrastructure/db/redis"
	"github.com/talentpulse/performance-api/internal/infrastructure/http/handlers"
	"github.com/talentpulse/performance-api/internal/infrastructure/queue"
	"github.com/talentpulse/performance-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		// The logger is configured from cfg, so bootstrap a plain one to report this.
		l := logger.Init(logger.Options{Service: "performance-api"})
		l.Fatal().Err(err).Msg("invalid configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.Env == "development",
		Service: "performance-api",
		Env:     cfg.Env,
	})

	hasher, err := auth.NewPasswordHasher(auth.HasherConfig{
		Schemes:    cfg.Auth.HashSchemes,
		BcryptCost: cfg.Auth.BcryptCost,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("password hasher")
	}
	tokens, err := auth.NewTokenService(auth.TokenConfig{
		Secret: cfg.Auth.JWTSecret,
		TTL:    cfg.Auth.TokenTTL(),
		Issuer: cfg.Auth.Issuer,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("token service")
	}

	// --- Record store ---
	client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = client.Disconnect(disconnectCtx)
	}()
	if err := mongo.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("mongo indexes")
	}

	readiness := map[string]handlers.Pinger{"mongodb": handlers.MongoPinger(db)}

	// --- Revocation list ---
	var revocations ports.RevocationStore = auth.NopRevocationStore{}
	if cfg.Auth.RevocationPolicy == config.RevocationRedis {
		var rdb *goredis.Client
		rdb, err = redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err != nil {
			log.Fatal().Err(err).Msg("redis")
		}
		defer rdb.Close()
		revocations = redis.NewRevocationStore(rdb)
		readiness["redis"] = handlers.RedisPinger(rdb)
	}
	log.Info().Str("policy", cfg.Auth.RevocationPolicy).Msg("token revocation configured")

	// --- Audit trail ---
	auditCtx, stopAudit := context.WithCancel(context.Background())
	dispatcher := queue.NewDispatcher(cfg.Audit.Workers, cfg.Audit.QueueSize, mongo.NewAuditRepository(db), logger.Component("audit"))
	dispatcher.Start(auditCtx)

	// --- Repositories and services ---
	users := mongo.NewUserRepository(db)
	reviews := mongo.NewReviewRepository(db)
	feedback := mongo.NewFeedbackRepository(db)
	kpis := mongo.NewKPIRepository(db)

	authService, err := service.NewAuthService(users, hasher, tokens, revocations, dispatcher, logger.Component("auth"))
	if err != nil {
		log.Fatal().Err(err).Msg("auth service")
	}
	userService := service.NewUserService(service.UserServiceDeps{
		Users:       users,
		Reviews:     reviews,
		Feedback:    feedback,
		KPIs:        kpis,
		Hasher:      hasher,
		Revocations: revocations,
		TokenTTL:    tokens.TTL(),
		Audit:       dispatcher,
	}, logger.Component("users"))

	if err := service.EnsureAdmin(ctx, users, hasher, service.BootstrapAdmin{
		Name:     cfg.Bootstrap.AdminName,
		Email:    cfg.Bootstrap.AdminEmail,
		Password: cfg.Bootstrap.AdminPassword,
	}, logger.Component("bootstrap")); err != nil {
		log.Fatal().Err(err).Msg("bootstrap admin")
	}

	e := api.NewRouter(api.Deps{
		Auth:          authService,
		Users:         userService,
		Performance:   service.NewPerformanceService(users, reviews, logger.Component("performance")),
		Feedback:      service.NewFeedbackService(users, feedback, logger.Component("feedback")),
		KPIs:          service.NewKPIService(users, kpis, logger.Component("kpi")),
		Authenticator: auth.NewAuthenticator(tokens, auth.NewIdentityResolver(users), revocations),
		Audit:         dispatcher,
		Readiness:     readiness,
		Logger:        logger.Component("http"),
	})

	go func() {
		log.Info().Str("port", cfg.Port).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}

	stopAudit()
	dispatcher.Wait()
	log.Info().Msg("server stopped")
}
