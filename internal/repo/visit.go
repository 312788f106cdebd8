package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"meal-checkin/internal/apperrors"
	"meal-checkin/internal/domain/meal"
	"meal-checkin/internal/domain/models"
)

type VisitRepo struct {
	storage *sqlx.DB
}

func NewVisitRepo(storage *sqlx.DB) *VisitRepo {
	return &VisitRepo{storage: storage}
}

const visitColumns = `id, rut, nombre, curso, servicio, fecha, hora, registered_at, source`

func (r *VisitRepo) Insert(ctx context.Context, v models.Visit) error {
	const op = "repo.visit.Insert"

	query := r.storage.Rebind(`
		INSERT INTO visits (` + visitColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)

	_, err := r.storage.ExecContext(ctx, query,
		v.ID, v.RUT, v.Name, v.Course, v.Meal, v.Date, v.Clock, v.RegisteredAt.UTC(), v.Source)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%s: %w", op, apperrors.ErrAlreadyRegistered)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *VisitRepo) Exists(ctx context.Context, rut, date string, m meal.Type) (bool, error) {
	const op = "repo.visit.Exists"

	query := r.storage.Rebind(`SELECT COUNT(*) FROM visits WHERE rut = ? AND fecha = ? AND servicio = ?`)

	var count int
	if err := r.storage.GetContext(ctx, &count, query, rut, date, m); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return count > 0, nil
}

// ListByDate returns the visits of one day, oldest first.
func (r *VisitRepo) ListByDate(ctx context.Context, date string) ([]models.Visit, error) {
	const op = "repo.visit.ListByDate"

	query := r.storage.Rebind(`
		SELECT ` + visitColumns + `
		FROM visits
		WHERE fecha = ?
		ORDER BY registered_at, seq
	`)

	visits := []models.Visit{}
	if err := r.storage.SelectContext(ctx, &visits, query, date); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return visits, nil
}

// Merge inserts visits that are not known yet and reports how many were new.
func (r *VisitRepo) Merge(ctx context.Context, visits []models.Visit) (int, error) {
	const op = "repo.visit.Merge"

	tx, err := r.storage.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	defer tx.Rollback()

	query := tx.Rebind(`
		INSERT INTO visits (` + visitColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT DO NOTHING
	`)

	added := 0
	for _, v := range visits {
		res, err := tx.ExecContext(ctx, query,
			v.ID, v.RUT, v.Name, v.Course, v.Meal, v.Date, v.Clock, v.RegisteredAt.UTC(), v.Source)
		if err != nil {
			return 0, fmt.Errorf("%s: failed to merge visit %s: %w", op, v.RUT, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("%s: %w", op, err)
		}
		added += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%s: failed to commit transaction: %w", op, err)
	}

	return added, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		return liteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE ||
			liteErr.Code() == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}

	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
