package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"strizh/internal/availability"
	"strizh/internal/domain"
	"strizh/internal/repository"
)

type AvailabilityServiceImpl struct {
	engine             *availability.Engine
	appointmentRepo    repository.AppointmentRepository
	unavailabilityRepo repository.UnavailabilityRepository
	workingHoursRepo   repository.WorkingHoursRepository
	offeringRepo       repository.OfferingRepository
	logger             *zap.Logger
}

func NewAvailabilityService(
	engine *availability.Engine,
	appointmentRepo repository.AppointmentRepository,
	unavailabilityRepo repository.UnavailabilityRepository,
	workingHoursRepo repository.WorkingHoursRepository,
	offeringRepo repository.OfferingRepository,
	logger *zap.Logger,
) *AvailabilityServiceImpl {
	return &AvailabilityServiceImpl{
		engine:             engine,
		appointmentRepo:    appointmentRepo,
		unavailabilityRepo: unavailabilityRepo,
		workingHoursRepo:   workingHoursRepo,
		offeringRepo:       offeringRepo,
		logger:             logger,
	}
}

// FreeSlots возвращает свободные слоты мастера на день для выбранной услуги.
func (s *AvailabilityServiceImpl) FreeSlots(ctx context.Context, masterID int64, date time.Time, offeringID int64) ([]domain.Slot, error) {
	offering, err := s.offeringRepo.GetByID(ctx, offeringID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errors.New("услуга не найдена")
		}
		s.logger.Error("ошибка получения услуги", zap.Int64("offeringId", offeringID), zap.Error(err))
		return nil, errors.New("ошибка расчета свободных слотов")
	}
	if !offering.IsActive {
		return nil, errors.New("услуга недоступна для записи")
	}

	template, err := s.templateForDay(ctx, masterID, date)
	if err != nil {
		return nil, err
	}

	appointments, err := s.appointmentRepo.ListForMasterDay(ctx, masterID, date)
	if err != nil {
		s.logger.Error("ошибка получения записей мастера", zap.Int64("masterId", masterID), zap.Error(err))
		return nil, errors.New("ошибка расчета свободных слотов")
	}

	periods, err := s.unavailabilityRepo.ListForMasterDay(ctx, masterID, date)
	if err != nil {
		s.logger.Error("ошибка получения периодов недоступности", zap.Int64("masterId", masterID), zap.Error(err))
		return nil, errors.New("ошибка расчета свободных слотов")
	}

	slots, err := s.engine.Slots(date, offering.DurationMinutes, template, appointments, periods)
	if err != nil {
		return nil, err
	}

	return slots, nil
}

// CheckConflict отвечает, пересекается ли предлагаемое время с записями мастера.
// Это только быстрая предварительная проверка: атомарность гарантирует БД.
func (s *AvailabilityServiceImpl) CheckConflict(ctx context.Context, masterID int64, start time.Time, durationMinutes int, excludeID *int64) (bool, error) {
	appointments, err := s.appointmentRepo.ListForMasterDay(ctx, masterID, start)
	if err != nil {
		s.logger.Error("ошибка получения записей мастера", zap.Int64("masterId", masterID), zap.Error(err))
		return false, errors.New("ошибка проверки конфликтов")
	}

	return s.engine.HasConflict(start, durationMinutes, appointments, excludeID), nil
}

// templateForDay возвращает шаблон рабочих часов мастера на день недели даты.
// Отсутствие строки расписания означает выходной (nil-шаблон).
func (s *AvailabilityServiceImpl) templateForDay(ctx context.Context, masterID int64, date time.Time) (*string, error) {
	weekday := int(date.Weekday())

	hours, err := s.workingHoursRepo.GetByWeekday(ctx, masterID, weekday)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		s.logger.Error("ошибка получения рабочих часов", zap.Int64("masterId", masterID), zap.Int("weekday", weekday), zap.Error(err))
		return nil, errors.New("ошибка расчета свободных слотов")
	}

	return hours.Template, nil
}
