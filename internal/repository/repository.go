package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"strizh/internal/domain"
)

var (
	ErrNotFound  = errors.New("запись не найдена")
	ErrSlotTaken = errors.New("выбранный слот времени уже занят")
)

type Repositories struct {
	User           UserRepository
	Auth           AuthRepository
	Token          TokenRepository
	Master         MasterRepository
	Offering       OfferingRepository
	Appointment    AppointmentRepository
	Unavailability UnavailabilityRepository
	WorkingHours   WorkingHoursRepository
}

func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		User:           NewUserRepository(db),
		Auth:           NewAuthRepository(db),
		Token:          NewTokenRepository(db),
		Master:         NewMasterRepository(db),
		Offering:       NewOfferingRepository(db),
		Appointment:    NewAppointmentRepository(db),
		Unavailability: NewUnavailabilityRepository(db),
		WorkingHours:   NewWorkingHoursRepository(db),
	}
}

type UserRepository interface {
	Create(ctx context.Context, user domain.CreateUserDTO) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByPhone(ctx context.Context, phone string) (*domain.User, error)
	Update(ctx context.Context, id int64, user domain.UpdateUserDTO) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, limit, offset int) ([]domain.User, error)
}

type AuthRepository interface {
	CreateSession(ctx context.Context, session domain.Session) error
	GetSessionByRefreshToken(ctx context.Context, refreshToken string) (*domain.Session, error)
	DeleteSession(ctx context.Context, id string) error
	DeleteSessionsByUserID(ctx context.Context, userID int64) error
}

type TokenRepository interface {
	Create(ctx context.Context, token domain.ActionToken) error
	Get(ctx context.Context, token string, kind domain.ActionTokenKind) (*domain.ActionToken, error)
	Delete(ctx context.Context, token string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type MasterRepository interface {
	Create(ctx context.Context, userID int64, dto domain.CreateMasterDTO) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Master, error)
	GetByUserID(ctx context.Context, userID int64) (*domain.Master, error)
	GetBySimplyBookID(ctx context.Context, sbID int64) (*domain.Master, error)
	Update(ctx context.Context, id int64, dto domain.UpdateMasterDTO) error
	UpdatePhoto(ctx context.Context, id int64, photoURL string) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, onlyActive bool, limit, offset int) ([]domain.Master, error)
}

type OfferingRepository interface {
	Create(ctx context.Context, dto domain.CreateOfferingDTO) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Offering, error)
	GetBySimplyBookID(ctx context.Context, sbID int64) (*domain.Offering, error)
	Update(ctx context.Context, id int64, dto domain.UpdateOfferingDTO) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter domain.OfferingFilter) ([]domain.Offering, int, error)
}

type AppointmentRepository interface {
	Create(ctx context.Context, clientID int64, dto domain.CreateAppointmentDTO, durationMinutes int, price float64) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	UpdateStatus(ctx context.Context, id int64, status domain.AppointmentStatus) error
	Reschedule(ctx context.Context, id int64, startTime time.Time) error
	List(ctx context.Context, filter domain.AppointmentFilter) ([]domain.Appointment, error)
	CountByFilter(ctx context.Context, filter domain.AppointmentFilter) (int, error)
	ListForMasterDay(ctx context.Context, masterID int64, day time.Time) ([]domain.Appointment, error)
}

type UnavailabilityRepository interface {
	Create(ctx context.Context, masterID int64, dto domain.CreateUnavailabilityDTO) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.UnavailabilityPeriod, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter domain.UnavailabilityFilter) ([]domain.UnavailabilityPeriod, error)
	ListForMasterDay(ctx context.Context, masterID int64, day time.Time) ([]domain.UnavailabilityPeriod, error)
}

type WorkingHoursRepository interface {
	GetWeek(ctx context.Context, masterID int64) ([]domain.WorkingHours, error)
	GetByWeekday(ctx context.Context, masterID int64, weekday int) (*domain.WorkingHours, error)
	Upsert(ctx context.Context, masterID int64, dto domain.UpsertWorkingHoursDTO) error
	Delete(ctx context.Context, masterID int64, weekday int) error
}
