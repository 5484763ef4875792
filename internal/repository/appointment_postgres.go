package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"strizh/internal/domain"
)

type AppointmentRepo struct {
	db *pgxpool.Pool
}

func NewAppointmentRepository(db *pgxpool.Pool) *AppointmentRepo {
	return &AppointmentRepo{
		db: db,
	}
}

const appointmentSelect = `
	SELECT a.id, a.client_id, a.master_id, a.offering_id, a.start_time, a.duration_minutes, a.status, a.price, a.comment, a.created_at, a.updated_at,
	       u.first_name || ' ' || u.last_name AS client_name,
	       u.phone AS client_phone,
	       m.display_name AS master_name,
	       o.name AS offering_name
	FROM appointments a
	JOIN users u ON a.client_id = u.id
	JOIN masters m ON a.master_id = m.id
	JOIN offerings o ON a.offering_id = o.id
`

// Create выполняет проверку пересечений и вставку в одной транзакции.
// Последний рубеж — ограничение исключения по (master_id, период) в БД:
// при одновременных бронях одна из транзакций получит ErrSlotTaken.
func (r *AppointmentRepo) Create(ctx context.Context, clientID int64, dto domain.CreateAppointmentDTO, durationMinutes int, price float64) (int64, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	endTime := dto.StartTime.Add(time.Duration(durationMinutes) * time.Minute)

	checkQuery := `
		SELECT COUNT(*)
		FROM appointments
		WHERE master_id = $1
		AND status IN ('confirmed', 'in_progress')
		AND start_time < $3
		AND start_time + make_interval(mins => duration_minutes) > $2
	`

	var count int
	err = tx.QueryRow(ctx, checkQuery, dto.MasterID, dto.StartTime, endTime).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("ошибка проверки доступности слота: %w", err)
	}

	if count > 0 {
		return 0, ErrSlotTaken
	}

	query := `
		INSERT INTO appointments (client_id, master_id, offering_id, start_time, duration_minutes, status, price, comment, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
		RETURNING id
	`

	now := time.Now()
	var id int64
	err = tx.QueryRow(ctx, query,
		clientID,
		dto.MasterID,
		dto.OfferingID,
		dto.StartTime,
		durationMinutes,
		domain.AppointmentStatusConfirmed,
		price,
		dto.Comment,
		now,
	).Scan(&id)

	if err != nil {
		if isExclusionViolation(err) {
			return 0, ErrSlotTaken
		}
		return 0, fmt.Errorf("ошибка создания записи: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		if isExclusionViolation(err) {
			return 0, ErrSlotTaken
		}
		return 0, fmt.Errorf("ошибка при коммите транзакции: %w", err)
	}

	return id, nil
}

func isExclusionViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23P01"
}

func (r *AppointmentRepo) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	query := appointmentSelect + ` WHERE a.id = $1`

	var appointment domain.Appointment
	var comment *string

	err := r.db.QueryRow(ctx, query, id).Scan(
		&appointment.ID,
		&appointment.ClientID,
		&appointment.MasterID,
		&appointment.OfferingID,
		&appointment.StartTime,
		&appointment.DurationMinutes,
		&appointment.Status,
		&appointment.Price,
		&comment,
		&appointment.CreatedAt,
		&appointment.UpdatedAt,
		&appointment.ClientName,
		&appointment.ClientPhone,
		&appointment.MasterName,
		&appointment.OfferingName,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения записи: %w", err)
	}

	if comment != nil {
		appointment.Comment = *comment
	}

	return &appointment, nil
}

func (r *AppointmentRepo) UpdateStatus(ctx context.Context, id int64, status domain.AppointmentStatus) error {
	query := `
		UPDATE appointments
		SET status = $1, updated_at = $2
		WHERE id = $3
	`

	_, err := r.db.Exec(ctx, query, status, time.Now(), id)
	if err != nil {
		return fmt.Errorf("ошибка обновления статуса записи: %w", err)
	}

	return nil
}

// Reschedule переносит запись; пересечения с другими записями мастера
// проверяются в транзакции, сама запись из проверки исключена.
func (r *AppointmentRepo) Reschedule(ctx context.Context, id int64, startTime time.Time) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	var masterID int64
	var durationMinutes int
	err = tx.QueryRow(ctx, `SELECT master_id, duration_minutes FROM appointments WHERE id = $1`, id).
		Scan(&masterID, &durationMinutes)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("ошибка получения текущих данных записи: %w", err)
	}

	endTime := startTime.Add(time.Duration(durationMinutes) * time.Minute)

	checkQuery := `
		SELECT COUNT(*)
		FROM appointments
		WHERE master_id = $1
		AND id != $2
		AND status IN ('confirmed', 'in_progress')
		AND start_time < $4
		AND start_time + make_interval(mins => duration_minutes) > $3
	`

	var count int
	err = tx.QueryRow(ctx, checkQuery, masterID, id, startTime, endTime).Scan(&count)
	if err != nil {
		return fmt.Errorf("ошибка проверки доступности слота: %w", err)
	}

	if count > 0 {
		return ErrSlotTaken
	}

	_, err = tx.Exec(ctx, `UPDATE appointments SET start_time = $1, updated_at = $2 WHERE id = $3`, startTime, time.Now(), id)
	if err != nil {
		if isExclusionViolation(err) {
			return ErrSlotTaken
		}
		return fmt.Errorf("ошибка переноса записи: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		if isExclusionViolation(err) {
			return ErrSlotTaken
		}
		return fmt.Errorf("ошибка при коммите транзакции: %w", err)
	}

	return nil
}

func (r *AppointmentRepo) List(ctx context.Context, filter domain.AppointmentFilter) ([]domain.Appointment, error) {
	var conditions []string
	var args []interface{}
	argCount := 1

	if filter.ClientID != nil {
		conditions = append(conditions, fmt.Sprintf("a.client_id = $%d", argCount))
		args = append(args, *filter.ClientID)
		argCount++
	}

	if filter.MasterID != nil {
		conditions = append(conditions, fmt.Sprintf("a.master_id = $%d", argCount))
		args = append(args, *filter.MasterID)
		argCount++
	}

	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("a.status = $%d", argCount))
		args = append(args, *filter.Status)
		argCount++
	}

	if filter.StartDate != nil {
		conditions = append(conditions, fmt.Sprintf("a.start_time >= $%d", argCount))
		args = append(args, *filter.StartDate)
		argCount++
	}

	if filter.EndDate != nil {
		conditions = append(conditions, fmt.Sprintf("a.start_time <= $%d", argCount))
		args = append(args, *filter.EndDate)
		argCount++
	}

	query := appointmentSelect
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	query += " ORDER BY a.start_time DESC"

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

	return scanAppointments(rows)
}

func (r *AppointmentRepo) CountByFilter(ctx context.Context, filter domain.AppointmentFilter) (int, error) {
	baseQuery := `
		SELECT COUNT(*)
		FROM appointments a
	`

	var conditions []string
	var args []interface{}
	argCount := 1

	if filter.ClientID != nil {
		conditions = append(conditions, fmt.Sprintf("a.client_id = $%d", argCount))
		args = append(args, *filter.ClientID)
		argCount++
	}

	if filter.MasterID != nil {
		conditions = append(conditions, fmt.Sprintf("a.master_id = $%d", argCount))
		args = append(args, *filter.MasterID)
		argCount++
	}

	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("a.status = $%d", argCount))
		args = append(args, *filter.Status)
		argCount++
	}

	if filter.StartDate != nil {
		conditions = append(conditions, fmt.Sprintf("a.start_time >= $%d", argCount))
		args = append(args, *filter.StartDate)
		argCount++
	}

	if filter.EndDate != nil {
		conditions = append(conditions, fmt.Sprintf("a.start_time <= $%d", argCount))
		args = append(args, *filter.EndDate)
		argCount++
	}

	query := baseQuery
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	var count int
	err := r.db.QueryRow(ctx, query, args...).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("ошибка подсчета записей: %w", err)
	}

	return count, nil
}

// ListForMasterDay возвращает блокирующие записи мастера, пересекающие
// календарный день. Используется движком доступности.
func (r *AppointmentRepo) ListForMasterDay(ctx context.Context, masterID int64, day time.Time) ([]domain.Appointment, error) {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	query := appointmentSelect + `
		WHERE a.master_id = $1
		AND a.status IN ('confirmed', 'in_progress')
		AND a.start_time < $3
		AND a.start_time + make_interval(mins => a.duration_minutes) > $2
		ORDER BY a.start_time
	`

	rows, err := r.db.Query(ctx, query, masterID, dayStart, dayEnd)
	if err != nil {
		return nil, fmt.Errorf("ошибка выполнения запроса: %w", err)
	}
	defer rows.Close()

	return scanAppointments(rows)
}

func scanAppointments(rows pgx.Rows) ([]domain.Appointment, error) {
	appointments := make([]domain.Appointment, 0)
	for rows.Next() {
		var appointment domain.Appointment
		var comment *string

		if err := rows.Scan(
			&appointment.ID,
			&appointment.ClientID,
			&appointment.MasterID,
			&appointment.OfferingID,
			&appointment.StartTime,
			&appointment.DurationMinutes,
			&appointment.Status,
			&appointment.Price,
			&comment,
			&appointment.CreatedAt,
			&appointment.UpdatedAt,
			&appointment.ClientName,
			&appointment.ClientPhone,
			&appointment.MasterName,
			&appointment.OfferingName,
		); err != nil {
			return nil, fmt.Errorf("ошибка сканирования строки записи: %w", err)
		}

		if comment != nil {
			appointment.Comment = *comment
		}

		appointments = append(appointments, appointment)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка при итерации по строкам: %w", err)
	}

	return appointments, nil
}
