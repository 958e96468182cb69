package readstore

import (
	"context"

	"lab-booking-api/internal/domain/user"
	"lab-booking-api/internal/infra"
	"lab-booking-api/internal/usecase/authz"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

// UserReadStore backs the authorization directory and mail address lookups.
type UserReadStore struct {
	db DB
}

func NewUserReadStore(db DB) *UserReadStore {
	return &UserReadStore{db: db}
}

func (r *UserReadStore) FindUser(ctx context.Context, id uuid.UUID) (*authz.Identity, error) {
	query, args, err := psql.Select("id", "role", "lab_id", "is_active", "is_blocked").
		From("users").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build user select", err)
	}

	var (
		identity authz.Identity
		role     string
	)
	err = r.db.QueryRow(ctx, query, args...).Scan(
		&identity.ID, &role, &identity.AssignedLab,
		&identity.IsActive, &identity.IsBlocked,
	)
	if err != nil {
		return nil, infra.WrapPgErr("failed to find user", err)
	}
	identity.Role = user.Role(role)

	return &identity, nil
}

func (r *UserReadStore) FindEmail(ctx context.Context, id uuid.UUID) (string, error) {
	query, args, err := psql.Select("email").
		From("users").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return "", infra.WrapRepoErr("failed to build user email select", err)
	}

	var email string
	if err := r.db.QueryRow(ctx, query, args...).Scan(&email); err != nil {
		return "", infra.WrapPgErr("failed to find user email", err)
	}
	return email, nil
}
