package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/jwalitptl/scheduler-api/internal/model"
	"github.com/jwalitptl/scheduler-api/internal/repository"
)

func (r *staffRepository) Get(ctx context.Context, id uuid.UUID) (*model.Staff, error) {
	query := `
		SELECT id, name, email, role, specialty, department, is_available, created_at, updated_at
		FROM staff
		WHERE id = $1
	`
	var staff model.Staff
	if err := r.db.GetContext(ctx, &staff, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrStaffNotFound
		}
		return nil, fmt.Errorf("failed to get staff: %w", err)
	}
	return &staff, nil
}

func (r *staffRepository) List(ctx context.Context, filters *model.StaffFilters) ([]*model.Staff, error) {
	query := `
		SELECT id, name, email, role, specialty, department, is_available, created_at, updated_at
		FROM staff
		WHERE is_available = true
	`
	args := []interface{}{}
	argCount := 1

	if filters != nil {
		if filters.Department != "" {
			query += fmt.Sprintf(" AND department = $%d", argCount)
			args = append(args, filters.Department)
			argCount++
		}
		if filters.Role != "" {
			query += fmt.Sprintf(" AND role = $%d", argCount)
			args = append(args, filters.Role)
			argCount++
		}
	}

	query += " ORDER BY name ASC"

	var staff []*model.Staff
	if err := r.db.SelectContext(ctx, &staff, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list staff: %w", err)
	}
	return staff, nil
}
