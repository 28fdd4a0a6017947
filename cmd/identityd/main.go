package main

import (
	"github.com/staffdesk/identity/config"
	"github.com/staffdesk/identity/database"
	"github.com/staffdesk/identity/handlers"
	"github.com/staffdesk/identity/server"
	"github.com/staffdesk/identity/services/auth"
	"github.com/staffdesk/identity/services/jwt"
	"github.com/staffdesk/identity/services/logging"
	"github.com/staffdesk/identity/services/mail"
	"github.com/staffdesk/identity/services/verification"
	"github.com/staffdesk/identity/session"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.NewProvider(nil),
		logging.Module,
		fx.Provide(func() *database.ModelsOption {
			return database.WithModels(
				&verification.VerificationToken{},
				&verification.PendingRegistration{},
				&session.UserSession{},
			)
		}),
		database.Module,
		fx.Provide(func() *session.Options { return &session.Options{} }),
		session.Module,
		mail.Module,
		jwt.Module,
		verification.Module,
		auth.Module,
		handlers.Module,
		server.NewProvider(),
	)

	app.Run()
}
