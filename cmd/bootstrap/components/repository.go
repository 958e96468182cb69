package components

import (
	"lab-booking-api/internal/infra/mailer"
	"lab-booking-api/internal/infra/readstore"
	"lab-booking-api/internal/infra/writerepo"
	"lab-booking-api/internal/usecase/authz"
	"lab-booking-api/internal/usecase/commands"
	"lab-booking-api/internal/usecase/queries"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var RepositoryModule = fx.Module("repository",
	fx.Provide(
		fx.Annotate(
			NewBookingRepository,
			fx.As(new(commands.BookingRepository)),
		),
		fx.Annotate(
			NewBookingReadStore,
			fx.As(new(queries.BookingReadStore)),
		),
		fx.Annotate(
			NewCatalogReadStore,
			fx.As(new(commands.CatalogRepository)),
		),
		NewUserReadStore,
		fx.Annotate(
			func(s *readstore.UserReadStore) *readstore.UserReadStore { return s },
			fx.As(new(authz.IdentityDirectory)),
			fx.As(new(mailer.AddressDirectory)),
		),
	),
)

func NewBookingRepository(pool *pgxpool.Pool) *writerepo.BookingRepository {
	return writerepo.NewBookingRepository(pool)
}

func NewBookingReadStore(pool *pgxpool.Pool) *readstore.BookingReadStore {
	return readstore.NewBookingReadStore(pool)
}

func NewCatalogReadStore(pool *pgxpool.Pool) *readstore.CatalogReadStore {
	return readstore.NewCatalogReadStore(pool)
}

func NewUserReadStore(pool *pgxpool.Pool) *readstore.UserReadStore {
	return readstore.NewUserReadStore(pool)
}
