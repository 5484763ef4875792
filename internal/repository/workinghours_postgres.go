package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"strizh/internal/domain"
)

type WorkingHoursRepo struct {
	db *pgxpool.Pool
}

func NewWorkingHoursRepository(db *pgxpool.Pool) *WorkingHoursRepo {
	return &WorkingHoursRepo{
		db: db,
	}
}

func (r *WorkingHoursRepo) GetWeek(ctx context.Context, masterID int64) ([]domain.WorkingHours, error) {
	query := `
		SELECT id, master_id, weekday, template, created_at, updated_at
		FROM working_hours
		WHERE master_id = $1
		ORDER BY weekday
	`

	rows, err := r.db.Query(ctx, query, masterID)
	if err != nil {
		return nil, fmt.Errorf("ошибка выполнения запроса: %w", err)
	}
	defer rows.Close()

	hours := make([]domain.WorkingHours, 0, 7)
	for rows.Next() {
		var wh domain.WorkingHours
		if err := rows.Scan(
			&wh.ID,
			&wh.MasterID,
			&wh.Weekday,
			&wh.Template,
			&wh.CreatedAt,
			&wh.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("ошибка сканирования строки расписания: %w", err)
		}

		hours = append(hours, wh)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка при итерации по строкам: %w", err)
	}

	return hours, nil
}

func (r *WorkingHoursRepo) GetByWeekday(ctx context.Context, masterID int64, weekday int) (*domain.WorkingHours, error) {
	query := `
		SELECT id, master_id, weekday, template, created_at, updated_at
		FROM working_hours
		WHERE master_id = $1 AND weekday = $2
	`

	var wh domain.WorkingHours
	err := r.db.QueryRow(ctx, query, masterID, weekday).Scan(
		&wh.ID,
		&wh.MasterID,
		&wh.Weekday,
		&wh.Template,
		&wh.CreatedAt,
		&wh.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения расписания: %w", err)
	}

	return &wh, nil
}

func (r *WorkingHoursRepo) Upsert(ctx context.Context, masterID int64, dto domain.UpsertWorkingHoursDTO) error {
	query := `
		INSERT INTO working_hours (master_id, weekday, template, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
		ON CONFLICT (master_id, weekday)
		DO UPDATE SET template = EXCLUDED.template, updated_at = EXCLUDED.updated_at
	`

	_, err := r.db.Exec(ctx, query, masterID, dto.Weekday, dto.Template, time.Now())
	if err != nil {
		return fmt.Errorf("ошибка сохранения расписания: %w", err)
	}

	return nil
}

func (r *WorkingHoursRepo) Delete(ctx context.Context, masterID int64, weekday int) error {
	query := `DELETE FROM working_hours WHERE master_id = $1 AND weekday = $2`

	_, err := r.db.Exec(ctx, query, masterID, weekday)
	if err != nil {
		return fmt.Errorf("ошибка удаления расписания: %w", err)
	}

	return nil
}
