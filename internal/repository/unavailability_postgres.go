package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"strizh/internal/domain"
)

type UnavailabilityRepo struct {
	db *pgxpool.Pool
}

func NewUnavailabilityRepository(db *pgxpool.Pool) *UnavailabilityRepo {
	return &UnavailabilityRepo{
		db: db,
	}
}

func (r *UnavailabilityRepo) Create(ctx context.Context, masterID int64, dto domain.CreateUnavailabilityDTO) (int64, error) {
	query := `
		INSERT INTO unavailability_periods (master_id, start_time, end_time, all_day, reason, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRow(ctx, query,
		masterID,
		dto.StartTime,
		dto.EndTime,
		dto.AllDay,
		dto.Reason,
		time.Now(),
	).Scan(&id)

	if err != nil {
		return 0, fmt.Errorf("ошибка создания периода недоступности: %w", err)
	}

	return id, nil
}

func (r *UnavailabilityRepo) GetByID(ctx context.Context, id int64) (*domain.UnavailabilityPeriod, error) {
	query := `
		SELECT id, master_id, start_time, end_time, all_day, reason, created_at
		FROM unavailability_periods
		WHERE id = $1
	`

	var period domain.UnavailabilityPeriod
	var reason *string

	err := r.db.QueryRow(ctx, query, id).Scan(
		&period.ID,
		&period.MasterID,
		&period.StartTime,
		&period.EndTime,
		&period.AllDay,
		&reason,
		&period.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения периода недоступности: %w", err)
	}

	if reason != nil {
		period.Reason = *reason
	}

	return &period, nil
}

func (r *UnavailabilityRepo) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM unavailability_periods WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("ошибка удаления периода недоступности: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *UnavailabilityRepo) List(ctx context.Context, filter domain.UnavailabilityFilter) ([]domain.UnavailabilityPeriod, error) {
	var conditions []string
	var args []interface{}
	argCount := 1

	if filter.MasterID != nil {
		conditions = append(conditions, fmt.Sprintf("master_id = $%d", argCount))
		args = append(args, *filter.MasterID)
		argCount++
	}

	if filter.StartDate != nil {
		conditions = append(conditions, fmt.Sprintf("end_time >= $%d", argCount))
		args = append(args, *filter.StartDate)
		argCount++
	}

	if filter.EndDate != nil {
		conditions = append(conditions, fmt.Sprintf("start_time <= $%d", argCount))
		args = append(args, *filter.EndDate)
		argCount++
	}

	query := `
		SELECT id, master_id, start_time, end_time, all_day, reason, created_at
		FROM unavailability_periods
	`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY start_time"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET %d", filter.Offset)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка выполнения запроса: %w", err)
	}
	defer rows.Close()

	return scanPeriods(rows)
}

// ListForMasterDay возвращает периоды мастера, пересекающие календарный день.
// Для периодов на весь день сравнение идет по границам дней.
func (r *UnavailabilityRepo) ListForMasterDay(ctx context.Context, masterID int64, day time.Time) ([]domain.UnavailabilityPeriod, error) {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	query := `
		SELECT id, master_id, start_time, end_time, all_day, reason, created_at
		FROM unavailability_periods
		WHERE master_id = $1
		AND (
			(all_day = false AND start_time < $3 AND end_time > $2)
			OR (all_day = true AND date_trunc('day', start_time) < $3 AND date_trunc('day', end_time) + interval '1 day' > $2)
		)
		ORDER BY start_time
	`

	rows, err := r.db.Query(ctx, query, masterID, dayStart, dayEnd)
	if err != nil {
		return nil, fmt.Errorf("ошибка выполнения запроса: %w", err)
	}
	defer rows.Close()

	return scanPeriods(rows)
}

func scanPeriods(rows pgx.Rows) ([]domain.UnavailabilityPeriod, error) {
	periods := make([]domain.UnavailabilityPeriod, 0)
	for rows.Next() {
		var period domain.UnavailabilityPeriod
		var reason *string

		if err := rows.Scan(
			&period.ID,
			&period.MasterID,
			&period.StartTime,
			&period.EndTime,
			&period.AllDay,
			&reason,
			&period.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("ошибка сканирования строки периода: %w", err)
		}

		if reason != nil {
			period.Reason = *reason
		}

		periods = append(periods, period)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка при итерации по строкам: %w", err)
	}

	return periods, nil
}
