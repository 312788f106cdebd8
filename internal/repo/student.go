package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"meal-checkin/internal/apperrors"
	"meal-checkin/internal/domain/models"
)

type StudentRepo struct {
	storage *sqlx.DB
}

func NewStudentRepo(storage *sqlx.DB) *StudentRepo {
	return &StudentRepo{storage: storage}
}

// ReplaceAll swaps the roster snapshot in one transaction. When a RUT appears
// twice the first row wins.
func (r *StudentRepo) ReplaceAll(ctx context.Context, students []models.Student) error {
	const op = "repo.student.ReplaceAll"

	tx, err := r.storage.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM students`); err != nil {
		return fmt.Errorf("%s: failed to clear roster: %w", op, err)
	}

	insertQuery := tx.Rebind(`
		INSERT INTO students (rut, nombre, curso, foto)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (rut) DO NOTHING
	`)

	for _, s := range students {
		if _, err := tx.ExecContext(ctx, insertQuery, s.RUT, s.Name, s.Course, s.Photo); err != nil {
			return fmt.Errorf("%s: failed to insert student %s: %w", op, s.RUT, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: failed to commit transaction: %w", op, err)
	}

	return nil
}

func (r *StudentRepo) GetByRUT(ctx context.Context, rut string) (*models.Student, error) {
	const op = "repo.student.GetByRUT"

	query := r.storage.Rebind(`SELECT rut, nombre, curso, foto FROM students WHERE rut = ?`)

	var s models.Student
	if err := r.storage.GetContext(ctx, &s, query, rut); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, apperrors.ErrStudentNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &s, nil
}

// SearchByPrefix matches RUTs starting with prefix, case-insensitively.
func (r *StudentRepo) SearchByPrefix(ctx context.Context, prefix string, limit int) ([]models.Student, error) {
	const op = "repo.student.SearchByPrefix"

	query := r.storage.Rebind(`
		SELECT rut, nombre, curso, foto
		FROM students
		WHERE LOWER(rut) LIKE ? ESCAPE '\'
		ORDER BY rut
		LIMIT ?
	`)

	students := []models.Student{}
	if err := r.storage.SelectContext(ctx, &students, query, likePrefix(strings.ToLower(prefix)), limit); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return students, nil
}

func (r *StudentRepo) Count(ctx context.Context) (int, error) {
	const op = "repo.student.Count"

	var count int
	if err := r.storage.GetContext(ctx, &count, `SELECT COUNT(*) FROM students`); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return count, nil
}

func likePrefix(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s + "%"
}
