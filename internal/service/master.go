package service

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"strizh/internal/domain"
	"strizh/internal/repository"
	"strizh/internal/storage"
)

const maxPhotoSize = 5 * 1024 * 1024

var allowedPhotoExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

type MasterServiceImpl struct {
	repo        repository.MasterRepository
	userRepo    repository.UserRepository
	fileStorage storage.FileStorage
	logger      *zap.Logger
}

func NewMasterService(
	repo repository.MasterRepository,
	userRepo repository.UserRepository,
	fileStorage storage.FileStorage,
	logger *zap.Logger,
) *MasterServiceImpl {
	return &MasterServiceImpl{
		repo:        repo,
		userRepo:    userRepo,
		fileStorage: fileStorage,
		logger:      logger,
	}
}

func (s *MasterServiceImpl) Create(ctx context.Context, userID int64, dto domain.CreateMasterDTO) (int64, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return 0, errors.New("пользователь не найден")
	}
	if user.Role != domain.UserRoleMaster && user.Role != domain.UserRoleAdmin {
		return 0, errors.New("профиль мастера доступен только пользователям с ролью master")
	}

	existing, err := s.repo.GetByUserID(ctx, userID)
	if err == nil && existing != nil {
		return 0, errors.New("профиль мастера уже существует")
	}

	id, err := s.repo.Create(ctx, userID, dto)
	if err != nil {
		s.logger.Error("ошибка создания профиля мастера", zap.Int64("userId", userID), zap.Error(err))
		return 0, errors.New("ошибка создания профиля мастера")
	}

	return id, nil
}

func (s *MasterServiceImpl) GetByID(ctx context.Context, id int64) (*domain.Master, error) {
	master, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		s.logger.Error("ошибка получения мастера", zap.Int64("id", id), zap.Error(err))
		return nil, errors.New("ошибка получения мастера")
	}
	return master, nil
}

func (s *MasterServiceImpl) GetByUserID(ctx context.Context, userID int64) (*domain.Master, error) {
	master, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		s.logger.Error("ошибка получения мастера", zap.Int64("userId", userID), zap.Error(err))
		return nil, errors.New("ошибка получения мастера")
	}
	return master, nil
}

func (s *MasterServiceImpl) Update(ctx context.Context, id int64, dto domain.UpdateMasterDTO) error {
	if err := s.repo.Update(ctx, id, dto); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return err
		}
		s.logger.Error("ошибка обновления мастера", zap.Int64("id", id), zap.Error(err))
		return errors.New("ошибка обновления мастера")
	}
	return nil
}

func (s *MasterServiceImpl) Delete(ctx context.Context, id int64) error {
	master, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return err
		}
		return errors.New("ошибка удаления мастера")
	}

	if master.PhotoURL != "" {
		if err := s.fileStorage.DeleteFile(ctx, master.PhotoURL); err != nil {
			s.logger.Warn("ошибка удаления фото мастера", zap.Int64("id", id), zap.Error(err))
		}
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("ошибка удаления мастера", zap.Int64("id", id), zap.Error(err))
		return errors.New("ошибка удаления мастера")
	}
	return nil
}

func (s *MasterServiceImpl) List(ctx context.Context, onlyActive bool, limit, offset int) ([]domain.Master, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	masters, err := s.repo.List(ctx, onlyActive, limit, offset)
	if err != nil {
		s.logger.Error("ошибка получения списка мастеров", zap.Error(err))
		return nil, errors.New("ошибка получения списка мастеров")
	}
	return masters, nil
}

func (s *MasterServiceImpl) UploadPhoto(ctx context.Context, masterID int64, photo []byte, filename string) error {
	if len(photo) == 0 {
		return errors.New("файл пуст")
	}
	if len(photo) > maxPhotoSize {
		return errors.New("файл превышает допустимый размер 5 МБ")
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedPhotoExtensions[ext] {
		return errors.New("допустимые форматы фото: jpg, jpeg, png, webp")
	}

	master, err := s.repo.GetByID(ctx, masterID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return err
		}
		return errors.New("ошибка загрузки фото")
	}

	fileURL, err := s.fileStorage.UploadFile(ctx, photo, filename)
	if err != nil {
		s.logger.Error("ошибка загрузки фото в хранилище", zap.Int64("masterId", masterID), zap.Error(err))
		return errors.New("ошибка загрузки фото")
	}

	if err := s.repo.UpdatePhoto(ctx, masterID, fileURL); err != nil {
		s.logger.Error("ошибка сохранения ссылки на фото", zap.Int64("masterId", masterID), zap.Error(err))
		return errors.New("ошибка загрузки фото")
	}

	// Старое фото удаляем после успешной замены ссылки.
	if master.PhotoURL != "" && master.PhotoURL != fileURL {
		if err := s.fileStorage.DeleteFile(ctx, master.PhotoURL); err != nil {
			s.logger.Warn("ошибка удаления старого фото", zap.Int64("masterId", masterID), zap.Error(err))
		}
	}

	return nil
}

func (s *MasterServiceImpl) DeletePhoto(ctx context.Context, masterID int64) error {
	master, err := s.repo.GetByID(ctx, masterID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return err
		}
		return errors.New("ошибка удаления фото")
	}

	if master.PhotoURL == "" {
		return nil
	}

	if err := s.fileStorage.DeleteFile(ctx, master.PhotoURL); err != nil {
		s.logger.Warn("ошибка удаления фото из хранилища", zap.Int64("masterId", masterID), zap.Error(err))
	}

	if err := s.repo.UpdatePhoto(ctx, masterID, ""); err != nil {
		s.logger.Error("ошибка очистки ссылки на фото", zap.Int64("masterId", masterID), zap.Error(err))
		return errors.New("ошибка удаления фото")
	}

	return nil
}
