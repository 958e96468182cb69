package bootstrap

import (
	"context"
	"log/slog"

	"lab-booking-api/internal/infra/filestore"
	"lab-booking-api/internal/infra/gateway"
	"lab-booking-api/internal/infra/mailer"
	"lab-booking-api/internal/infra/readstore"
	"lab-booking-api/internal/pkg/config"
	"lab-booking-api/internal/usecase/commands"

	"go.uber.org/fx"
)

// InfrastructureModule wires the external collaborators: the payment gateway,
// the report file store and the mail worker.
var InfrastructureModule = fx.Module("infrastructure",
	fx.Provide(
		fx.Annotate(
			NewPaymentGateway,
			fx.As(new(commands.PaymentGateway)),
		),
		fx.Annotate(
			NewFileStore,
			fx.As(new(commands.FileStore)),
		),
		fx.Annotate(
			NewMailer,
			fx.As(new(commands.Mailer)),
		),
	),
)

func NewPaymentGateway(cfg config.Config) *gateway.RazorpayGateway {
	return gateway.NewRazorpayGateway(cfg.Razorpay)
}

func NewFileStore(cfg config.Config) *filestore.S3Store {
	return filestore.NewS3Store(cfg.S3)
}

func NewMailer(lc fx.Lifecycle, cfg config.Config, directory *readstore.UserReadStore, logger *slog.Logger) *mailer.Mailer {
	m := mailer.NewMailer(cfg.SMTP, directory, logger)

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			m.Close()
			return nil
		},
	})

	return m
}
