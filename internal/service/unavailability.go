package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"strizh/internal/domain"
	"strizh/internal/repository"
)

var ErrPeriodHasAppointments = errors.New("в выбранном периоде есть подтвержденные записи")

type UnavailabilityServiceImpl struct {
	repo            repository.UnavailabilityRepository
	appointmentRepo repository.AppointmentRepository
	logger          *zap.Logger
}

func NewUnavailabilityService(repo repository.UnavailabilityRepository, appointmentRepo repository.AppointmentRepository, logger *zap.Logger) *UnavailabilityServiceImpl {
	return &UnavailabilityServiceImpl{
		repo:            repo,
		appointmentRepo: appointmentRepo,
		logger:          logger,
	}
}

// Create добавляет период недоступности мастера. Период, пересекающий
// существующие блокирующие записи, отклоняется: сперва записи нужно
// перенести или отменить, иначе клиенты придут в закрытый салон.
func (s *UnavailabilityServiceImpl) Create(ctx context.Context, masterID int64, dto domain.CreateUnavailabilityDTO) (int64, error) {
	start, end := dto.StartTime, dto.EndTime
	if dto.AllDay {
		start = dayStart(start)
		end = dayEnd(end)
	}
	if !end.After(start) {
		return 0, errors.New("конец периода должен быть позже начала")
	}
	if end.Sub(start) > 90*24*time.Hour {
		return 0, errors.New("период недоступности не может превышать 90 дней")
	}

	if err := s.checkNoBlockingAppointments(ctx, masterID, start, end); err != nil {
		return 0, err
	}

	id, err := s.repo.Create(ctx, masterID, dto)
	if err != nil {
		s.logger.Error("ошибка создания периода недоступности",
			zap.Int64("masterId", masterID), zap.Error(err))
		return 0, errors.New("ошибка создания периода недоступности")
	}
	return id, nil
}

func (s *UnavailabilityServiceImpl) List(ctx context.Context, filter domain.UnavailabilityFilter) ([]domain.UnavailabilityPeriod, error) {
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 50
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	periods, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("ошибка получения периодов недоступности", zap.Error(err))
		return nil, errors.New("ошибка получения периодов недоступности")
	}
	return periods, nil
}

func (s *UnavailabilityServiceImpl) Delete(ctx context.Context, masterID int64, id int64) error {
	period, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return err
		}
		return errors.New("ошибка удаления периода недоступности")
	}

	if period.MasterID != masterID {
		return errors.New("период принадлежит другому мастеру")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("ошибка удаления периода недоступности", zap.Int64("id", id), zap.Error(err))
		return errors.New("ошибка удаления периода недоступности")
	}
	return nil
}

func (s *UnavailabilityServiceImpl) checkNoBlockingAppointments(ctx context.Context, masterID int64, start, end time.Time) error {
	for day := dayStart(start); day.Before(end); day = day.AddDate(0, 0, 1) {
		appointments, err := s.appointmentRepo.ListForMasterDay(ctx, masterID, day)
		if err != nil {
			s.logger.Error("ошибка получения записей мастера",
				zap.Int64("masterId", masterID), zap.Error(err))
			return errors.New("ошибка создания периода недоступности")
		}

		for _, a := range appointments {
			if !a.Status.Blocks() {
				continue
			}
			if a.StartTime.Before(end) && start.Before(a.EndTime()) {
				return fmt.Errorf("%w: запись #%d на %s",
					ErrPeriodHasAppointments, a.ID, a.StartTime.Format("02.01.2006 15:04"))
			}
		}
	}
	return nil
}

func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func dayEnd(t time.Time) time.Time {
	return dayStart(t).AddDate(0, 0, 1)
}
