package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"strizh/config"
	"strizh/internal/availability"
	"strizh/internal/domain"
	"strizh/internal/notification"
	"strizh/internal/repository"
	"strizh/internal/simplybook"
	"strizh/internal/storage"
)

type Deps struct {
	Repos       *repository.Repositories
	Logger      *zap.Logger
	Config      *config.Config
	FileStorage storage.FileStorage
	Mailer      notification.Mailer
	SimplyBook  *simplybook.Client
}

type Services struct {
	User           UserService
	Auth           AuthService
	Master         MasterService
	Offering       OfferingService
	Appointment    AppointmentService
	Availability   AvailabilityService
	Schedule       ScheduleService
	Unavailability UnavailabilityService
	Sync           SyncService
	Export         ExportService
}

func NewServices(deps Deps) *Services {
	engine := availability.NewEngine(availability.PolicyFromConfig(deps.Config.Booking))

	availabilitySvc := NewAvailabilityService(engine, deps.Repos.Appointment, deps.Repos.Unavailability, deps.Repos.WorkingHours, deps.Repos.Offering, deps.Logger)

	return &Services{
		User:           NewUserService(deps.Repos.User, deps.Logger),
		Auth:           NewAuthService(deps.Repos.Auth, deps.Repos.User, deps.Repos.Token, deps.Mailer, deps.Config.JWT, deps.Logger),
		Master:         NewMasterService(deps.Repos.Master, deps.Repos.User, deps.FileStorage, deps.Logger),
		Offering:       NewOfferingService(deps.Repos.Offering, deps.Logger),
		Availability:   availabilitySvc,
		Appointment:    NewAppointmentService(deps.Repos.Appointment, deps.Repos.Master, deps.Repos.User, deps.Repos.Offering, availabilitySvc, deps.Mailer, deps.Logger),
		Schedule:       NewScheduleService(deps.Repos.WorkingHours, deps.Repos.Master, deps.Logger),
		Unavailability: NewUnavailabilityService(deps.Repos.Unavailability, deps.Repos.Appointment, deps.Logger),
		Sync:           NewSyncService(deps.SimplyBook, deps.Repos.Master, deps.Repos.Offering, deps.Repos.Appointment, deps.Logger),
		Export:         NewExportService(deps.Repos.Appointment, deps.Repos.Offering, deps.Logger),
	}
}

type UserService interface {
	Create(ctx context.Context, dto domain.CreateUserDTO) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	Update(ctx context.Context, id int64, dto domain.UpdateUserDTO) error
	UpdatePassword(ctx context.Context, id int64, dto domain.PasswordUpdateDTO) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, limit, offset int) ([]domain.User, error)
}

type AuthService interface {
	Register(ctx context.Context, dto domain.RegisterRequest) (int64, error)
	Login(ctx context.Context, dto domain.LoginRequest, userAgent, ip string) (*domain.Tokens, error)
	RefreshTokens(ctx context.Context, refreshToken, userAgent, ip string) (*domain.Tokens, error)
	Logout(ctx context.Context, refreshToken string) error
	ParseToken(ctx context.Context, token string) (int64, domain.UserRole, error)

	RequestMagicLink(ctx context.Context, email string) error
	LoginByMagicLink(ctx context.Context, token, userAgent, ip string) (*domain.Tokens, error)
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
	SweepExpiredTokens(ctx context.Context) (int64, error)
}

type MasterService interface {
	Create(ctx context.Context, userID int64, dto domain.CreateMasterDTO) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Master, error)
	GetByUserID(ctx context.Context, userID int64) (*domain.Master, error)
	Update(ctx context.Context, id int64, dto domain.UpdateMasterDTO) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, onlyActive bool, limit, offset int) ([]domain.Master, error)

	UploadPhoto(ctx context.Context, masterID int64, photo []byte, filename string) error
	DeletePhoto(ctx context.Context, masterID int64) error
}

type OfferingService interface {
	Create(ctx context.Context, dto domain.CreateOfferingDTO) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Offering, error)
	Update(ctx context.Context, id int64, dto domain.UpdateOfferingDTO) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter domain.OfferingFilter) ([]domain.Offering, int, error)
}

type AvailabilityService interface {
	FreeSlots(ctx context.Context, masterID int64, date time.Time, offeringID int64) ([]domain.Slot, error)
	CheckConflict(ctx context.Context, masterID int64, start time.Time, durationMinutes int, excludeID *int64) (bool, error)
}

type AppointmentService interface {
	Create(ctx context.Context, clientID int64, dto domain.CreateAppointmentDTO) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	Reschedule(ctx context.Context, id int64, dto domain.RescheduleAppointmentDTO) error
	Cancel(ctx context.Context, id int64) error
	Start(ctx context.Context, id int64) error
	Complete(ctx context.Context, id int64) error
	NoShow(ctx context.Context, id int64) error
	List(ctx context.Context, filter domain.AppointmentFilter) ([]domain.Appointment, int, error)
}

type ScheduleService interface {
	GetWeek(ctx context.Context, masterID int64) ([]domain.WorkingHours, error)
	Upsert(ctx context.Context, masterID int64, dto domain.UpsertWorkingHoursDTO) error
	Delete(ctx context.Context, masterID int64, weekday int) error
}

type UnavailabilityService interface {
	Create(ctx context.Context, masterID int64, dto domain.CreateUnavailabilityDTO) (int64, error)
	List(ctx context.Context, filter domain.UnavailabilityFilter) ([]domain.UnavailabilityPeriod, error)
	Delete(ctx context.Context, masterID int64, id int64) error
}

type SyncService interface {
	PullCatalog(ctx context.Context) (*domain.SyncReport, error)
	PushAppointments(ctx context.Context, from, to time.Time) (*domain.SyncReport, error)
	Status(ctx context.Context) *domain.SyncReport
}

type ExportService interface {
	AppointmentsCSV(ctx context.Context, from, to time.Time) ([]byte, error)
	ImportOfferingsCSV(ctx context.Context, data []byte) (int, error)
}
