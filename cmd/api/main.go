package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/xavierca1/prospectplus-agent/internal/agent"
	"github.com/xavierca1/prospectplus-agent/internal/auth"
	"github.com/xavierca1/prospectplus-agent/internal/config"
	"github.com/xavierca1/prospectplus-agent/internal/infra/database"
	"github.com/xavierca1/prospectplus-agent/internal/infra/http/handlers"
	"github.com/xavierca1/prospectplus-agent/internal/infra/http/middleware"
	"github.com/xavierca1/prospectplus-agent/internal/infra/http/router"
	"github.com/xavierca1/prospectplus-agent/internal/infra/integration/llm"
	"github.com/xavierca1/prospectplus-agent/internal/infra/mail"
	"github.com/xavierca1/prospectplus-agent/internal/logging"
	"github.com/xavierca1/prospectplus-agent/internal/usecase"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "prospectplus:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Database
	db, err := database.Open(ctx, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := database.Migrate(ctx, db); err != nil {
		return err
	}
	log.Info("database ready", zap.String("dialect", db.Dialect.String()))

	// 2. Repositories
	prospectRepo := database.NewProspectRepository(db)
	interactionRepo := database.NewInteractionRepository(db)
	analyticsRepo := database.NewAnalyticsRepository(db)

	// 3. Analysis strategy, chosen once
	provider, err := llm.NewProvider(ctx, llm.Settings{
		Provider:      cfg.LLM.Provider,
		Model:         cfg.LLM.Model,
		OpenAIKey:     cfg.OpenAI.APIKey,
		OpenAIBaseURL: cfg.OpenAI.BaseURL,
		AnthropicKey:  cfg.Anthropic.APIKey,
		GeminiKey:     cfg.Gemini.APIKey,
	})
	if err != nil {
		return err
	}
	analyzer := agent.New(provider, agent.Options{
		Timeout:     cfg.LLM.Timeout,
		RateLimit:   cfg.LLM.RateLimit,
		MaxRetries:  cfg.LLM.MaxRetries,
		Backoff:     500 * time.Millisecond,
		Temperature: cfg.LLM.Temperature,
		MaxTokens:   cfg.LLM.MaxTokens,
		Logger:      log,
	})
	log.Info("analysis strategy selected", zap.String("strategy", analyzer.Name()), zap.Bool("ai_enabled", analyzer.AIEnabled()))

	// 4. Auth
	tokens, err := auth.NewTokenIssuer(cfg.Auth.SecretKey, cfg.Auth.Algorithm, cfg.Auth.TokenTTL)
	if err != nil {
		return err
	}
	users, err := auth.NewDemoUserStore(cfg.Auth.DemoUsername, cfg.Auth.DemoPassword, cfg.Auth.DemoEmail)
	if err != nil {
		return err
	}

	// 5. Outreach mailer, optional
	var mailer usecase.Mailer
	if cfg.SMTP.Enabled() {
		mailer = mail.NewEmailSender(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.User, cfg.SMTP.Pass, cfg.SMTP.From)
	}

	// 6. UseCases
	prospects := usecase.NewProspectService(prospectRepo, interactionRepo, analyzer, cfg.LLM.AnalyzeOnCreate, log)
	outreach := usecase.NewOutreachService(prospectRepo, interactionRepo, mailer, log)
	analytics := usecase.NewAnalyticsService(analyticsRepo)
	agentSvc := usecase.NewAgentService(analyzer, cfg.App.Version)
	login := usecase.NewLoginService(users, tokens, log)

	// 7. Router
	h := router.New(router.Config{
		Prospects:      handlers.NewProspectHandler(prospects, outreach, log),
		Analytics:      handlers.NewAnalyticsHandler(analytics, log),
		Agent:          handlers.NewAgentHandler(agentSvc, log),
		Auth:           handlers.NewAuthHandler(login, log),
		Health:         handlers.NewHealthHandler(db, cfg.App.Version, cfg.App.Environment, analyzer.Name(), cfg.SMTP.Enabled()),
		Info:           handlers.NewInfoHandler(cfg.App.Name, cfg.App.Version, cfg.App.Environment),
		Users:          login,
		AuthRequired:   cfg.Auth.Required,
		LoginLimiter:   middleware.NewRateLimiter(10, time.Minute),
		TrustProxy:     cfg.Server.TrustProxy,
		AllowedOrigins: cfg.CORS.Origins(),
		Log:            log,
	})

	srv := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           h,
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.String("addr", srv.Addr), zap.String("environment", cfg.App.Environment))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
