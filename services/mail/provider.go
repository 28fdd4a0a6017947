package mail

import (
	"github.com/staffdesk/identity/config"
	"github.com/staffdesk/identity/services/logging"
	"go.uber.org/fx"
)

func ProvideNotifier(cfg *config.Config, logger *logging.Service) (Notifier, error) {
	if cfg.Mail.SMTPConfigured() {
		return NewSMTPNotifier(cfg.Mail, logger)
	}
	logger.Info("no SMTP credentials configured, using console notifier")
	return NewConsoleNotifier(logger), nil
}

var Module = fx.Options(
	fx.Provide(ProvideNotifier),
)
