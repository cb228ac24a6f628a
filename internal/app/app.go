package app

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/you/credsvc/domain"
	"github.com/you/credsvc/internal/config"
	httpx "github.com/you/credsvc/internal/http"
	"github.com/you/credsvc/internal/http/handlers"
	"github.com/you/credsvc/internal/http/middleware"
	"github.com/you/credsvc/internal/infrastructure/auth"
	"github.com/you/credsvc/internal/infrastructure/database"
	"github.com/you/credsvc/internal/infrastructure/notifications"
	"github.com/you/credsvc/internal/infrastructure/repositories"
	"github.com/you/credsvc/internal/services"
)

// Run wires the whole service together and blocks serving HTTP.
func Run(cfg *config.Config) error {
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	gdb, err := database.Open(cfg.DSN)
	if err != nil {
		return err
	}
	if err := database.AutoMigrate(gdb); err != nil {
		return err
	}

	cas, err := auth.NewCasbinService(gdb, cfg.CasbinModelPath)
	if err != nil {
		return err
	}

	rdb := database.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB).Client
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return err
	}

	// Infrastructure
	clock := auth.NewSystemClock()
	passwordSvc := auth.NewPasswordService()
	tokenSvc := auth.NewJWTService(cfg.JWTKey, cfg.JWTIssuer, cfg.JWTAudience, cfg.AccessTokenTTL, clock)
	notificationSvc := notifications.NewTwilioService(cfg.TwilioSID, cfg.TwilioToken, cfg.TwilioFrom)

	// Repositories
	userRepo := repositories.NewUserRepository(gdb)
	sessionRepo := repositories.NewSessionRepository(gdb)
	otpRepo := repositories.NewOTPRepository(gdb)
	resetRepo := repositories.NewPasswordResetRepository(gdb)
	outboxRepo := repositories.NewOutboxRepository(gdb)
	txManager := repositories.NewTxManager(gdb)
	otpThrottle := repositories.NewOTPThrottle(rdb, cfg.OTPResendWindow, cfg.OTPTTL)

	// Services
	sessionSvc := services.NewSessionService(sessionRepo, clock, cfg.RefreshTokenTTL)
	otpSvc := services.NewOTPService(otpRepo, otpThrottle, notificationSvc, clock, services.OTPConfig{
		Length:      cfg.OTPLength,
		TTL:         cfg.OTPTTL,
		MaxAttempts: cfg.OTPMaxAttempts,
	})
	resetSvc := services.NewPasswordResetService(resetRepo, outboxRepo, txManager, clock, services.PasswordResetConfig{
		TTL:      cfg.ResetTokenTTL,
		ResetURL: cfg.ResetURL,
	})
	authSvc := services.NewAuthService(userRepo, sessionSvc, passwordSvc, tokenSvc, otpSvc, resetSvc, clock)
	policySvc := services.NewPolicyService(cas.E)

	dispatcher := services.NewOutboxDispatcher(outboxRepo, notificationSvc, clock, cfg.OutboxInterval, cfg.OutboxBatchSize)
	dispatcherCtx, stopDispatcher := context.WithCancel(context.Background())
	defer stopDispatcher()
	go dispatcher.Run(dispatcherCtx)

	// Handlers and middleware
	authH := handlers.NewAuthHandlers(authSvc)
	polH := handlers.NewPolicyHandlers(policySvc)
	jwtMW := middleware.NewAuthMW(tokenSvc)
	casbinMW := middleware.NewCasbinMW(cas.E)

	r := httpx.BuildRouter(authH, polH, jwtMW, casbinMW)

	if err := seedDefaultPolicies(services.NewCasbinEnforcerWrapper(cas.E)); err != nil {
		log.Printf("POLICY_SEED_FAILED: error=%v", err)
	}

	addr := ":" + cfg.Port
	log.Printf("listening on %s", addr)
	return http.ListenAndServe(addr, r)
}

// seedDefaultPolicies installs the baseline authorization rules on an empty
// policy store. A populated store is left untouched.
func seedDefaultPolicies(enforcer domain.CasbinEnforcer) error {
	policies, err := enforcer.GetPolicy()
	if err != nil {
		return fmt.Errorf("failed to read policies: %w", err)
	}
	if len(policies) > 0 {
		return nil
	}

	defaults := [][]string{
		{"role_admin", "/admin/*", "(GET|POST|PUT|DELETE)"},
		{"role_user", "/auth/me", "GET"},
		{"role_user", "/auth/logout", "POST"},
		{"role_user", "/auth/password", "POST"},
	}
	for _, p := range defaults {
		if _, err := enforcer.AddPolicy(p[0], p[1], p[2]); err != nil {
			return fmt.Errorf("failed to add policy %v: %w", p, err)
		}
	}
	if err := enforcer.SavePolicy(); err != nil {
		return fmt.Errorf("failed to persist policies: %w", err)
	}

	log.Println("casbin: seeded default policies")
	return nil
}
