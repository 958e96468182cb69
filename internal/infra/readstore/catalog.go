package readstore

import (
	"context"

	"lab-booking-api/internal/infra"
	"lab-booking-api/internal/usecase/commands"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

// CatalogReadStore serves the lab catalog: the labs themselves and the tests
// and packages each lab offers, with the prices that are authoritative for
// booking creation.
type CatalogReadStore struct {
	db DB
}

func NewCatalogReadStore(db DB) *CatalogReadStore {
	return &CatalogReadStore{db: db}
}

func (r *CatalogReadStore) FindLab(ctx context.Context, id uuid.UUID) (*commands.LabSnapshot, error) {
	query, args, err := psql.Select("id", "name", "is_active").
		From("labs").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build lab select", err)
	}

	var lab commands.LabSnapshot
	err = r.db.QueryRow(ctx, query, args...).Scan(&lab.ID, &lab.Name, &lab.IsActive)
	if err != nil {
		return nil, infra.WrapPgErr("failed to find lab", err)
	}
	return &lab, nil
}

func (r *CatalogReadStore) FindLabTests(ctx context.Context, labID uuid.UUID) ([]commands.TestSnapshot, error) {
	query, args, err := psql.Select("id", "name", "price", "is_active").
		From("lab_tests").
		Where(squirrel.Eq{"lab_id": labID}).
		ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build lab tests select", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.WrapPgErr("failed to list lab tests", err)
	}
	defer rows.Close()

	tests := make([]commands.TestSnapshot, 0)
	for rows.Next() {
		var t commands.TestSnapshot
		if err := rows.Scan(&t.ID, &t.Name, &t.Price, &t.IsActive); err != nil {
			return nil, infra.WrapRepoErr("failed to scan lab test", err)
		}
		tests = append(tests, t)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read lab test rows", err)
	}
	return tests, nil
}

func (r *CatalogReadStore) FindLabPackages(ctx context.Context, labID uuid.UUID) ([]commands.PackageSnapshot, error) {
	query, args, err := psql.Select("id", "name", "price", "is_active").
		From("lab_packages").
		Where(squirrel.Eq{"lab_id": labID}).
		ToSql()
	if err != nil {
		return nil, infra.WrapRepoErr("failed to build lab packages select", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.WrapPgErr("failed to list lab packages", err)
	}
	defer rows.Close()

	packages := make([]commands.PackageSnapshot, 0)
	for rows.Next() {
		var p commands.PackageSnapshot
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.IsActive); err != nil {
			return nil, infra.WrapRepoErr("failed to scan lab package", err)
		}
		packages = append(packages, p)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read lab package rows", err)
	}
	return packages, nil
}
