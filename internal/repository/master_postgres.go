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

type MasterRepo struct {
	db *pgxpool.Pool
}

func NewMasterRepository(db *pgxpool.Pool) *MasterRepo {
	return &MasterRepo{
		db: db,
	}
}

const masterColumns = `
	m.id, m.user_id, m.display_name, m.description, m.photo_url, m.simplybook_id, m.is_active, m.created_at, m.updated_at,
	u.first_name, u.last_name, u.phone
`

func (r *MasterRepo) Create(ctx context.Context, userID int64, dto domain.CreateMasterDTO) (int64, error) {
	query := `
		INSERT INTO masters (user_id, display_name, description, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, true, $4, $4)
		RETURNING id
	`

	now := time.Now()
	var id int64
	err := r.db.QueryRow(ctx, query, userID, dto.DisplayName, dto.Description, now).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("ошибка создания профиля мастера: %w", err)
	}

	return id, nil
}

func (r *MasterRepo) GetByID(ctx context.Context, id int64) (*domain.Master, error) {
	return r.getOne(ctx, "m.id = $1", id)
}

func (r *MasterRepo) GetByUserID(ctx context.Context, userID int64) (*domain.Master, error) {
	return r.getOne(ctx, "m.user_id = $1", userID)
}

func (r *MasterRepo) GetBySimplyBookID(ctx context.Context, sbID int64) (*domain.Master, error) {
	return r.getOne(ctx, "m.simplybook_id = $1", sbID)
}

func (r *MasterRepo) getOne(ctx context.Context, condition string, arg interface{}) (*domain.Master, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM masters m
		JOIN users u ON m.user_id = u.id
		WHERE %s
	`, masterColumns, condition)

	var master domain.Master
	var description, photoURL *string

	err := r.db.QueryRow(ctx, query, arg).Scan(
		&master.ID,
		&master.UserID,
		&master.DisplayName,
		&description,
		&photoURL,
		&master.SimplyBookID,
		&master.IsActive,
		&master.CreatedAt,
		&master.UpdatedAt,
		&master.FirstName,
		&master.LastName,
		&master.Phone,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения мастера: %w", err)
	}

	if description != nil {
		master.Description = *description
	}
	if photoURL != nil {
		master.PhotoURL = *photoURL
	}

	return &master, nil
}

func (r *MasterRepo) Update(ctx context.Context, id int64, dto domain.UpdateMasterDTO) error {
	var updateFields []string
	var args []interface{}
	argCount := 1

	if dto.DisplayName != nil {
		updateFields = append(updateFields, fmt.Sprintf("display_name = $%d", argCount))
		args = append(args, *dto.DisplayName)
		argCount++
	}

	if dto.Description != nil {
		updateFields = append(updateFields, fmt.Sprintf("description = $%d", argCount))
		args = append(args, *dto.Description)
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
		UPDATE masters
		SET %s
		WHERE id = $%d
	`, strings.Join(updateFields, ", "), argCount)

	_, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("ошибка обновления мастера: %w", err)
	}

	return nil
}

func (r *MasterRepo) UpdatePhoto(ctx context.Context, id int64, photoURL string) error {
	query := `
		UPDATE masters
		SET photo_url = $1, updated_at = $2
		WHERE id = $3
	`

	_, err := r.db.Exec(ctx, query, photoURL, time.Now(), id)
	if err != nil {
		return fmt.Errorf("ошибка обновления фото мастера: %w", err)
	}

	return nil
}

func (r *MasterRepo) Delete(ctx context.Context, id int64) error {
	query := `
		UPDATE masters
		SET is_active = false, updated_at = $1
		WHERE id = $2
	`

	_, err := r.db.Exec(ctx, query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("ошибка деактивации мастера: %w", err)
	}

	return nil
}

func (r *MasterRepo) List(ctx context.Context, onlyActive bool, limit, offset int) ([]domain.Master, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM masters m
		JOIN users u ON m.user_id = u.id
	`, masterColumns)

	if onlyActive {
		query += " WHERE m.is_active = true"
	}
	query += " ORDER BY m.id LIMIT $1 OFFSET $2"

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("ошибка выполнения запроса: %w", err)
	}
	defer rows.Close()

	masters := make([]domain.Master, 0)
	for rows.Next() {
		var master domain.Master
		var description, photoURL *string

		if err := rows.Scan(
			&master.ID,
			&master.UserID,
			&master.DisplayName,
			&description,
			&photoURL,
			&master.SimplyBookID,
			&master.IsActive,
			&master.CreatedAt,
			&master.UpdatedAt,
			&master.FirstName,
			&master.LastName,
			&master.Phone,
		); err != nil {
			return nil, fmt.Errorf("ошибка сканирования строки мастера: %w", err)
		}

		if description != nil {
			master.Description = *description
		}
		if photoURL != nil {
			master.PhotoURL = *photoURL
		}

		masters = append(masters, master)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка при итерации по строкам: %w", err)
	}

	return masters, nil
}
