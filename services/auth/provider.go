package auth

import (
	"github.com/staffdesk/identity/config"
	"github.com/staffdesk/identity/services/logging"
	"go.uber.org/fx"
)

func ProvideDirectory(cfg *config.Config, logger *logging.Service) (*Directory, error) {
	if cfg.Auth.DirectoryFile == "" {
		logger.Warn("no fallback directory configured, fallback logins will always fail")
		return EmptyDirectory(), nil
	}
	return LoadDirectory(cfg.Auth.DirectoryFile)
}

var Module = fx.Options(
	fx.Provide(ProvideDirectory),
	fx.Provide(NewService),
)
