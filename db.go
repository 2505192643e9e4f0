package main

import (
	"context"
	"fmt"
	"log/slog"

	"moneytracker/pkg/auth"
	"moneytracker/pkg/category"
	"moneytracker/pkg/config"
	"moneytracker/pkg/ledger"
	"moneytracker/pkg/logging"
	"moneytracker/pkg/stats"
	"moneytracker/pkg/store"
	"moneytracker/pkg/token"
)

func initStore(cfg *config.Config, logger *slog.Logger) (*store.Store, error) {
	return store.Open(store.Options{
		Driver:      cfg.DBDriver,
		DSN:         cfg.DBDSN,
		AutoMigrate: cfg.DBAutoMigrate,
		Logger:      logging.Component(logger, logging.ComponentStorage),
	})
}

func newApp(cfg *config.Config, s *store.Store, opts ...auth.CredentialsOption) *App {
	users := auth.NewCredentials(s, opts...)
	tokens := token.NewService([]byte(cfg.JWTSecret), cfg.TokenTTL)
	categories := category.NewResolver(s)
	l := ledger.New(s, categories)
	return &App{
		store:      s,
		users:      users,
		guard:      auth.NewGuard(tokens, users),
		categories: categories,
		ledger:     l,
		stats:      stats.NewService(l),
		limiter:    newLoginLimiter(cfg.LoginMaxAttempts, cfg.LoginBlockDuration),
	}
}

// bootstrap creates the superadmin and the default categories when missing.
func bootstrap(ctx context.Context, cfg *config.Config, app *App, logger *slog.Logger) error {
	authLog := logging.Component(logger, logging.ComponentAuth)

	created, err := app.users.EnsureSuperadmin(ctx, cfg.SuperadminUsername, cfg.SuperadminPassword)
	if err != nil {
		return fmt.Errorf("bootstrap superadmin: %w", err)
	}
	if created {
		authLog.Info("superadmin created", "username", cfg.SuperadminUsername)
		if cfg.SuperadminPassword == config.DefaultSuperadminPassword {
			authLog.Warn("superadmin uses the default password, rotate it with scripts/reset_password",
				"username", cfg.SuperadminUsername)
		}
	}
	if cfg.UsesDevSecret() {
		authLog.Warn("JWT_SECRET not set, signing tokens with the development secret")
	}

	n, err := app.categories.SeedDefaults(ctx, category.Defaults)
	if err != nil {
		return err
	}
	if n > 0 {
		logging.Component(logger, logging.ComponentLedger).Info("default categories seeded", "count", n)
	}
	return nil
}
