package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/fahim-cse12/AutoDiagon/internal/core/port"
	"github.com/fahim-cse12/AutoDiagon/internal/identity"
	"github.com/fahim-cse12/AutoDiagon/internal/infra/config"
	"github.com/fahim-cse12/AutoDiagon/internal/infra/database"
	kafkainfra "github.com/fahim-cse12/AutoDiagon/internal/infra/kafka"
	"github.com/fahim-cse12/AutoDiagon/internal/infra/logger"
	"github.com/fahim-cse12/AutoDiagon/internal/infra/mail"
	redisinfra "github.com/fahim-cse12/AutoDiagon/internal/infra/redis"
	"github.com/fahim-cse12/AutoDiagon/internal/infra/security"
	postgresrepo "github.com/fahim-cse12/AutoDiagon/internal/repository/postgres"
	redisrepo "github.com/fahim-cse12/AutoDiagon/internal/repository/redis"
	"github.com/fahim-cse12/AutoDiagon/internal/transport/http/middleware"
	"github.com/fahim-cse12/AutoDiagon/internal/transport/http/routes"
	"github.com/fahim-cse12/AutoDiagon/internal/usecase"
)

type Application struct {
	cfg      *config.AppConfig
	engine   *gin.Engine
	logger   *zap.Logger
	pool     *pgxpool.Pool
	redis    *redisinfra.Client
	producer *kafkainfra.Producer
}

func New(ctx context.Context, cfg *config.AppConfig) (*Application, error) {
	log, err := logger.New(cfg.App.Env)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	argonCfg := security.Argon2Config{
		Memory:      cfg.Argon2.Memory,
		Iterations:  cfg.Argon2.Iterations,
		Parallelism: cfg.Argon2.Parallelism,
		SaltLength:  cfg.Argon2.SaltLength,
		KeyLength:   cfg.Argon2.KeyLength,
	}
	if err := security.ConfigureArgon2(argonCfg); err != nil {
		return nil, fmt.Errorf("configure argon2: %w", err)
	}

	pool, err := database.NewPostgresPool(ctx, cfg.Postgres, log)
	if err != nil {
		return nil, fmt.Errorf("init postgres: %w", err)
	}

	redisClient, err := redisinfra.NewClient(cfg.Redis, log)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("init redis: %w", err)
	}

	issuer, err := security.NewTokenIssuer(cfg.JWT.Secret, cfg.App.Name, cfg.JWT.AccessTokenTTL)
	if err != nil {
		pool.Close()
		_ = redisClient.Close()
		return nil, fmt.Errorf("init token issuer: %w", err)
	}

	users := postgresrepo.NewUserRepository(pool)
	tokens := redisrepo.NewConfirmationTokenRepository(redisClient.Client(), cfg.Redis.TokenPrefix)

	store := identity.NewStore(users, tokens, security.DefaultPasswordValidator())
	if cfg.Mail.ConfirmationTokenTTL > 0 {
		store = store.WithTokenTTL(cfg.Mail.ConfirmationTokenTTL)
	}

	var mailer port.MailSender
	if cfg.SMTP.Host != "" {
		mailer = mail.NewSMTPSender(mail.SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
		})
	} else {
		log.Info("smtp host not configured, using logging mail sender")
		mailer = mail.NewLoggingSender(log)
	}

	var producer *kafkainfra.Producer
	var eventPublisher port.EventPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		producer, err = kafkainfra.NewProducer(cfg.Kafka, log)
		if err != nil {
			log.Warn("failed to init kafka producer, using stub publisher", zap.Error(err))
			eventPublisher = kafkainfra.NewStubPublisher(log)
		} else {
			eventPublisher = kafkainfra.NewEventPublisher(producer, cfg.App, log)
			log.Info("kafka event publisher initialized", zap.Strings("brokers", cfg.Kafka.Brokers))
		}
	} else {
		log.Info("kafka brokers not configured, using stub publisher")
		eventPublisher = kafkainfra.NewStubPublisher(log)
	}

	authService := usecase.NewAuthService(store, issuer, mailer, cfg.Mail.ConfirmationBaseURL).
		WithEventPublisher(eventPublisher).
		WithLogger(log)

	metrics, err := middleware.NewHTTPMetrics(nil)
	if err != nil {
		pool.Close()
		_ = redisClient.Close()
		return nil, fmt.Errorf("init http metrics: %w", err)
	}

	engine := routes.Register(routes.Dependencies{
		Config:   cfg,
		Logger:   log,
		Auth:     authService,
		Metrics:  metrics,
		Database: pool,
		Cache:    redisClient,
	})

	return &Application{
		cfg:      cfg,
		engine:   engine,
		logger:   log,
		pool:     pool,
		redis:    redisClient,
		producer: producer,
	}, nil
}

func (a *Application) Run(ctx context.Context) error {
	defer func() {
		_ = a.logger.Sync()
	}()
	defer func() {
		if a.pool != nil {
			a.pool.Close()
		}
	}()
	defer func() {
		if a.redis != nil {
			_ = a.redis.Close()
		}
	}()
	defer func() {
		if a.producer != nil {
			_ = a.producer.Close()
		}
	}()

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", a.cfg.App.Host, a.cfg.App.Port),
		Handler:           a.engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	a.logger.Info("starting auth API",
		zap.String("env", a.cfg.App.Env),
		zap.String("address", srv.Addr),
	)

	serverErrCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrCh <- fmt.Errorf("run server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown server: %w", err)
		}
		return nil
	case err := <-serverErrCh:
		return err
	}
}
