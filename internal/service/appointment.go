package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"strizh/internal/domain"
	"strizh/internal/notification"
	"strizh/internal/repository"
)

var (
	ErrSlotUnavailable  = errors.New("выбранное время недоступно для записи")
	ErrBadStatusChange  = errors.New("недопустимая смена статуса записи")
	ErrPastAppointment  = errors.New("нельзя создать запись в прошлом")
	ErrMasterInactive   = errors.New("мастер не принимает записи")
	ErrOfferingInactive = errors.New("услуга недоступна для записи")
)

type AppointmentServiceImpl struct {
	repo            repository.AppointmentRepository
	masterRepo      repository.MasterRepository
	userRepo        repository.UserRepository
	offeringRepo    repository.OfferingRepository
	availabilitySvc AvailabilityService
	mailer          notification.Mailer
	logger          *zap.Logger
}

func NewAppointmentService(
	repo repository.AppointmentRepository,
	masterRepo repository.MasterRepository,
	userRepo repository.UserRepository,
	offeringRepo repository.OfferingRepository,
	availabilitySvc AvailabilityService,
	mailer notification.Mailer,
	logger *zap.Logger,
) *AppointmentServiceImpl {
	return &AppointmentServiceImpl{
		repo:            repo,
		masterRepo:      masterRepo,
		userRepo:        userRepo,
		offeringRepo:    offeringRepo,
		availabilitySvc: availabilitySvc,
		mailer:          mailer,
		logger:          logger,
	}
}

// Create проверяет, что запрошенное время входит в свободные слоты мастера,
// и создает запись. Проверка тут — лишь быстрый отказ: от гонок защищает
// ограничение исключения в БД, которое репозиторий переводит в ErrSlotTaken.
func (s *AppointmentServiceImpl) Create(ctx context.Context, clientID int64, dto domain.CreateAppointmentDTO) (int64, error) {
	if dto.StartTime.Before(time.Now()) {
		return 0, ErrPastAppointment
	}

	master, err := s.masterRepo.GetByID(ctx, dto.MasterID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, errors.New("мастер не найден")
		}
		s.logger.Error("ошибка получения мастера", zap.Int64("masterId", dto.MasterID), zap.Error(err))
		return 0, errors.New("ошибка создания записи")
	}
	if !master.IsActive {
		return 0, ErrMasterInactive
	}

	offering, err := s.offeringRepo.GetByID(ctx, dto.OfferingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, errors.New("услуга не найдена")
		}
		s.logger.Error("ошибка получения услуги", zap.Int64("offeringId", dto.OfferingID), zap.Error(err))
		return 0, errors.New("ошибка создания записи")
	}
	if !offering.IsActive {
		return 0, ErrOfferingInactive
	}

	slots, err := s.availabilitySvc.FreeSlots(ctx, dto.MasterID, dto.StartTime, dto.OfferingID)
	if err != nil {
		return 0, err
	}
	if !slotOffered(slots, dto.StartTime) {
		return 0, ErrSlotUnavailable
	}

	id, err := s.repo.Create(ctx, clientID, dto, offering.DurationMinutes, offering.Price)
	if err != nil {
		if errors.Is(err, repository.ErrSlotTaken) {
			return 0, ErrSlotUnavailable
		}
		s.logger.Error("ошибка создания записи", zap.Int64("clientId", clientID), zap.Error(err))
		return 0, errors.New("ошибка создания записи")
	}

	s.sendConfirmation(ctx, clientID, master.DisplayName, offering.Name, dto.StartTime)

	return id, nil
}

func (s *AppointmentServiceImpl) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	appointment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		s.logger.Error("ошибка получения записи", zap.Int64("id", id), zap.Error(err))
		return nil, errors.New("ошибка получения записи")
	}
	return appointment, nil
}

// Reschedule переносит подтвержденную запись на новое время.
// Собственный интервал записи исключается из проверки конфликтов.
func (s *AppointmentServiceImpl) Reschedule(ctx context.Context, id int64, dto domain.RescheduleAppointmentDTO) error {
	appointment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return err
		}
		return errors.New("ошибка переноса записи")
	}

	if appointment.Status != domain.AppointmentStatusConfirmed {
		return ErrBadStatusChange
	}
	if dto.StartTime.Before(time.Now()) {
		return ErrPastAppointment
	}

	conflict, err := s.availabilitySvc.CheckConflict(ctx, appointment.MasterID, dto.StartTime, appointment.DurationMinutes, &id)
	if err != nil {
		return err
	}
	if conflict {
		return ErrSlotUnavailable
	}

	if err := s.repo.Reschedule(ctx, id, dto.StartTime); err != nil {
		if errors.Is(err, repository.ErrSlotTaken) {
			return ErrSlotUnavailable
		}
		s.logger.Error("ошибка переноса записи", zap.Int64("id", id), zap.Error(err))
		return errors.New("ошибка переноса записи")
	}

	return nil
}

func (s *AppointmentServiceImpl) Cancel(ctx context.Context, id int64) error {
	return s.changeStatus(ctx, id, domain.AppointmentStatusCancelled,
		domain.AppointmentStatusConfirmed, domain.AppointmentStatusInProgress)
}

func (s *AppointmentServiceImpl) Start(ctx context.Context, id int64) error {
	return s.changeStatus(ctx, id, domain.AppointmentStatusInProgress,
		domain.AppointmentStatusConfirmed)
}

func (s *AppointmentServiceImpl) Complete(ctx context.Context, id int64) error {
	return s.changeStatus(ctx, id, domain.AppointmentStatusCompleted,
		domain.AppointmentStatusInProgress, domain.AppointmentStatusConfirmed)
}

func (s *AppointmentServiceImpl) NoShow(ctx context.Context, id int64) error {
	return s.changeStatus(ctx, id, domain.AppointmentStatusNoShow,
		domain.AppointmentStatusConfirmed)
}

func (s *AppointmentServiceImpl) List(ctx context.Context, filter domain.AppointmentFilter) ([]domain.Appointment, int, error) {
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 20
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	appointments, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("ошибка получения списка записей", zap.Error(err))
		return nil, 0, errors.New("ошибка получения списка записей")
	}

	total, err := s.repo.CountByFilter(ctx, filter)
	if err != nil {
		s.logger.Error("ошибка подсчета записей", zap.Error(err))
		return nil, 0, errors.New("ошибка получения списка записей")
	}

	return appointments, total, nil
}

func (s *AppointmentServiceImpl) changeStatus(ctx context.Context, id int64, to domain.AppointmentStatus, from ...domain.AppointmentStatus) error {
	appointment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return err
		}
		return errors.New("ошибка смены статуса записи")
	}

	allowed := false
	for _, st := range from {
		if appointment.Status == st {
			allowed = true
			break
		}
	}
	if !allowed {
		return ErrBadStatusChange
	}

	if err := s.repo.UpdateStatus(ctx, id, to); err != nil {
		s.logger.Error("ошибка смены статуса записи",
			zap.Int64("id", id), zap.String("status", string(to)), zap.Error(err))
		return errors.New("ошибка смены статуса записи")
	}

	return nil
}

func (s *AppointmentServiceImpl) sendConfirmation(ctx context.Context, clientID int64, masterName, offeringName string, startTime time.Time) {
	client, err := s.userRepo.GetByID(ctx, clientID)
	if err != nil {
		s.logger.Warn("клиент для письма подтверждения не найден", zap.Int64("clientId", clientID))
		return
	}

	body := fmt.Sprintf("Вы записаны на %s к мастеру %s.\nУслуга: %s",
		startTime.Format("02.01.2006 15:04"), masterName, offeringName)
	if err := s.mailer.Send(ctx, client.Email, "Подтверждение записи", body); err != nil {
		s.logger.Warn("ошибка отправки письма подтверждения", zap.Error(err))
	}
}

func slotOffered(slots []domain.Slot, start time.Time) bool {
	for _, slot := range slots {
		if slot.StartTime.Equal(start) {
			return true
		}
	}
	return false
}
