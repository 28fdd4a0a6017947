package jwt

import (
	"fmt"

	"github.com/staffdesk/identity/config"
	"github.com/staffdesk/identity/services/logging"
	"go.uber.org/fx"
)

// ProvideService refuses to start without a signing key; an empty key
// would make every session token forgeable.
func ProvideService(cfg *config.Config, logger *logging.Service) (*Service, error) {
	if cfg.JWT.SecretKey == "" {
		return nil, fmt.Errorf("jwt secret key is not configured (set STAFFDESK_JWT_SECRET_KEY)")
	}
	return NewService(cfg, logger), nil
}

var Module = fx.Options(
	fx.Provide(ProvideService),
)
