package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"strizh/internal/availability"
	"strizh/internal/domain"
	"strizh/internal/repository"
)

type ScheduleServiceImpl struct {
	repo       repository.WorkingHoursRepository
	masterRepo repository.MasterRepository
	logger     *zap.Logger
}

func NewScheduleService(repo repository.WorkingHoursRepository, masterRepo repository.MasterRepository, logger *zap.Logger) *ScheduleServiceImpl {
	return &ScheduleServiceImpl{
		repo:       repo,
		masterRepo: masterRepo,
		logger:     logger,
	}
}

func (s *ScheduleServiceImpl) GetWeek(ctx context.Context, masterID int64) ([]domain.WorkingHours, error) {
	if _, err := s.masterRepo.GetByID(ctx, masterID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errors.New("мастер не найден")
		}
		return nil, errors.New("ошибка получения расписания")
	}

	week, err := s.repo.GetWeek(ctx, masterID)
	if err != nil {
		s.logger.Error("ошибка получения расписания", zap.Int64("masterId", masterID), zap.Error(err))
		return nil, errors.New("ошибка получения расписания")
	}
	return week, nil
}

// Upsert сохраняет шаблон рабочих часов на день недели.
// Невалидный шаблон отклоняется сразу: молчаливо закрытый день из-за
// опечатки в расписании хуже явной ошибки при сохранении.
func (s *ScheduleServiceImpl) Upsert(ctx context.Context, masterID int64, dto domain.UpsertWorkingHoursDTO) error {
	if dto.Weekday < 0 || dto.Weekday > 6 {
		return errors.New("день недели должен быть в диапазоне 0-6")
	}

	if dto.Template != nil && strings.TrimSpace(*dto.Template) != "" {
		if _, _, err := availability.ParseWorkingHours(*dto.Template); err != nil {
			return fmt.Errorf("неверный шаблон рабочих часов %q: %w", *dto.Template, err)
		}
	}

	if _, err := s.masterRepo.GetByID(ctx, masterID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return errors.New("мастер не найден")
		}
		return errors.New("ошибка сохранения расписания")
	}

	if err := s.repo.Upsert(ctx, masterID, dto); err != nil {
		s.logger.Error("ошибка сохранения расписания",
			zap.Int64("masterId", masterID), zap.Int("weekday", dto.Weekday), zap.Error(err))
		return errors.New("ошибка сохранения расписания")
	}
	return nil
}

func (s *ScheduleServiceImpl) Delete(ctx context.Context, masterID int64, weekday int) error {
	if weekday < 0 || weekday > 6 {
		return errors.New("день недели должен быть в диапазоне 0-6")
	}

	if err := s.repo.Delete(ctx, masterID, weekday); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return err
		}
		s.logger.Error("ошибка удаления расписания",
			zap.Int64("masterId", masterID), zap.Int("weekday", weekday), zap.Error(err))
		return errors.New("ошибка удаления расписания")
	}
	return nil
}
