package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"strizh/internal/domain"
	"strizh/internal/repository"
)

type OfferingServiceImpl struct {
	repo   repository.OfferingRepository
	logger *zap.Logger
}

func NewOfferingService(repo repository.OfferingRepository, logger *zap.Logger) *OfferingServiceImpl {
	return &OfferingServiceImpl{
		repo:   repo,
		logger: logger,
	}
}

func (s *OfferingServiceImpl) Create(ctx context.Context, dto domain.CreateOfferingDTO) (int64, error) {
	id, err := s.repo.Create(ctx, dto)
	if err != nil {
		s.logger.Error("ошибка создания услуги", zap.String("name", dto.Name), zap.Error(err))
		return 0, errors.New("ошибка создания услуги")
	}
	return id, nil
}

func (s *OfferingServiceImpl) GetByID(ctx context.Context, id int64) (*domain.Offering, error) {
	offering, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		s.logger.Error("ошибка получения услуги", zap.Int64("id", id), zap.Error(err))
		return nil, errors.New("ошибка получения услуги")
	}
	return offering, nil
}

func (s *OfferingServiceImpl) Update(ctx context.Context, id int64, dto domain.UpdateOfferingDTO) error {
	if err := s.repo.Update(ctx, id, dto); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return err
		}
		s.logger.Error("ошибка обновления услуги", zap.Int64("id", id), zap.Error(err))
		return errors.New("ошибка обновления услуги")
	}
	return nil
}

func (s *OfferingServiceImpl) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return err
		}
		s.logger.Error("ошибка удаления услуги", zap.Int64("id", id), zap.Error(err))
		return errors.New("ошибка удаления услуги")
	}
	return nil
}

func (s *OfferingServiceImpl) List(ctx context.Context, filter domain.OfferingFilter) ([]domain.Offering, int, error) {
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 20
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	offerings, total, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("ошибка получения списка услуг", zap.Error(err))
		return nil, 0, errors.New("ошибка получения списка услуг")
	}
	return offerings, total, nil
}
