package verification

import (
	"fmt"

	"github.com/staffdesk/identity/config"
	"github.com/staffdesk/identity/services/logging"
	"github.com/staffdesk/identity/services/mail"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

func ProvideTokenStore(cfg *config.Config, db *gorm.DB) (TokenStore, error) {
	switch cfg.Verification.Store {
	case "memory":
		return NewMemoryTokenStore(), nil
	case "database":
		if db == nil {
			return nil, fmt.Errorf("database verification store requires the database to be enabled")
		}
		return NewGormTokenStore(db), nil
	default:
		return nil, fmt.Errorf("unsupported verification store: %s", cfg.Verification.Store)
	}
}

func ProvidePendingStore(cfg *config.Config, db *gorm.DB) (PendingStore, error) {
	switch cfg.Verification.Store {
	case "memory":
		return NewMemoryPendingStore(), nil
	case "database":
		if db == nil {
			return nil, fmt.Errorf("database verification store requires the database to be enabled")
		}
		return NewGormPendingStore(db), nil
	default:
		return nil, fmt.Errorf("unsupported verification store: %s", cfg.Verification.Store)
	}
}

func ProvideVerificationService(cfg *config.Config, tokens TokenStore, pending PendingStore, notifier mail.Notifier, logger *logging.Service) *Service {
	return NewService(cfg, tokens, pending, notifier, logger)
}

var Module = fx.Options(
	fx.Provide(ProvideTokenStore),
	fx.Provide(ProvidePendingStore),
	fx.Provide(ProvideVerificationService),
)
