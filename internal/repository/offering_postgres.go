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

type OfferingRepo struct {
	db *pgxpool.Pool
}

func NewOfferingRepository(db *pgxpool.Pool) *OfferingRepo {
	return &OfferingRepo{
		db: db,
	}
}

func (r *OfferingRepo) Create(ctx context.Context, dto domain.CreateOfferingDTO) (int64, error) {
	query := `
		INSERT INTO offerings (name, description, duration_minutes, price, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, true, $5, $5)
		RETURNING id
	`

	now := time.Now()
	var id int64
	err := r.db.QueryRow(ctx, query,
		dto.Name,
		dto.Description,
		dto.DurationMinutes,
		dto.Price,
		now,
	).Scan(&id)

	if err != nil {
		return 0, fmt.Errorf("ошибка создания услуги: %w", err)
	}

	return id, nil
}

func (r *OfferingRepo) GetByID(ctx context.Context, id int64) (*domain.Offering, error) {
	return r.getOne(ctx, "id = $1", id)
}

func (r *OfferingRepo) GetBySimplyBookID(ctx context.Context, sbID int64) (*domain.Offering, error) {
	return r.getOne(ctx, "simplybook_id = $1", sbID)
}

func (r *OfferingRepo) getOne(ctx context.Context, condition string, arg interface{}) (*domain.Offering, error) {
	query := fmt.Sprintf(`
		SELECT id, name, description, duration_minutes, price, is_active, simplybook_id, created_at, updated_at
		FROM offerings
		WHERE %s
	`, condition)

	var offering domain.Offering
	var description *string

	err := r.db.QueryRow(ctx, query, arg).Scan(
		&offering.ID,
		&offering.Name,
		&description,
		&offering.DurationMinutes,
		&offering.Price,
		&offering.IsActive,
		&offering.SimplyBookID,
		&offering.CreatedAt,
		&offering.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения услуги: %w", err)
	}

	if description != nil {
		offering.Description = *description
	}

	return &offering, nil
}

func (r *OfferingRepo) Update(ctx context.Context, id int64, dto domain.UpdateOfferingDTO) error {
	var updateFields []string
	var args []interface{}
	argCount := 1

	if dto.Name != nil {
		updateFields = append(updateFields, fmt.Sprintf("name = $%d", argCount))
		args = append(args, *dto.Name)
		argCount++
	}

	if dto.Description != nil {
		updateFields = append(updateFields, fmt.Sprintf("description = $%d", argCount))
		args = append(args, *dto.Description)
		argCount++
	}

	if dto.DurationMinutes != nil {
		updateFields = append(updateFields, fmt.Sprintf("duration_minutes = $%d", argCount))
		args = append(args, *dto.DurationMinutes)
		argCount++
	}

	if dto.Price != nil {
		updateFields = append(updateFields, fmt.Sprintf("price = $%d", argCount))
		args = append(args, *dto.Price)
		argCount++
	}

	if dto.IsActive != nil {
		updateFields = append(updateFields, fmt.Sprintf("is_active = $%d", argCount))
		args = append(args, *dto.IsActive)
		argCount++
	}

	if dto.SimplyBookID != nil {
		updateFields = append(updateFields, fmt.Sprintf("simplybook_id = $%d", argCount))
		args = append(args, *dto.SimplyBookID)
		argCount++
	}

	if len(updateFields) == 0 {
		return nil
	}

	updateFields = append(updateFields, fmt.Sprintf("updated_at = $%d", argCount))
	args = append(args, time.Now())
	argCount++

	args = append(args, id)
	query := fmt.Sprintf(`
		UPDATE offerings
		SET %s
		WHERE id = $%d
	`, strings.Join(updateFields, ", "), argCount)

	_, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("ошибка обновления услуги: %w", err)
	}

	return nil
}

func (r *OfferingRepo) Delete(ctx context.Context, id int64) error {
	query := `
		UPDATE offerings
		SET is_active = false, updated_at = $1
		WHERE id = $2
	`

	_, err := r.db.Exec(ctx, query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("ошибка деактивации услуги: %w", err)
	}

	return nil
}

func (r *OfferingRepo) List(ctx context.Context, filter domain.OfferingFilter) ([]domain.Offering, int, error) {
	baseQuery := `
		SELECT id, name, description, duration_minutes, price, is_active, simplybook_id, created_at, updated_at
		FROM offerings
	`
	countQuery := `SELECT COUNT(*) FROM offerings`

	where := ""
	if filter.OnlyActive {
		where = " WHERE is_active = true"
	}

	var total int
	if err := r.db.QueryRow(ctx, countQuery+where).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("ошибка подсчета услуг: %w", err)
	}

	query := baseQuery + where + " ORDER BY id"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET %d", filter.Offset)
	}

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка выполнения запроса: %w", err)
	}
	defer rows.Close()

	offerings := make([]domain.Offering, 0)
	for rows.Next() {
		var offering domain.Offering
		var description *string

		if err := rows.Scan(
			&offering.ID,
			&offering.Name,
			&description,
			&offering.DurationMinutes,
			&offering.Price,
			&offering.IsActive,
			&offering.SimplyBookID,
			&offering.CreatedAt,
			&offering.UpdatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("ошибка сканирования строки услуги: %w", err)
		}

		if description != nil {
			offering.Description = *description
		}

		offerings = append(offerings, offering)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("ошибка при итерации по строкам: %w", err)
	}

	return offerings, total, nil
}
