package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"strizh/internal/domain"
	"strizh/internal/repository"
	"strizh/internal/simplybook"
)

var ErrSyncNotConfigured = errors.New("интеграция с SimplyBook не настроена")

type SyncServiceImpl struct {
	client          *simplybook.Client
	masterRepo      repository.MasterRepository
	offeringRepo    repository.OfferingRepository
	appointmentRepo repository.AppointmentRepository
	logger          *zap.Logger

	mu         sync.Mutex
	lastReport *domain.SyncReport
}

func NewSyncService(
	client *simplybook.Client,
	masterRepo repository.MasterRepository,
	offeringRepo repository.OfferingRepository,
	appointmentRepo repository.AppointmentRepository,
	logger *zap.Logger,
) *SyncServiceImpl {
	return &SyncServiceImpl{
		client:          client,
		masterRepo:      masterRepo,
		offeringRepo:    offeringRepo,
		appointmentRepo: appointmentRepo,
		logger:          logger,
	}
}

// PullCatalog подтягивает справочники SimplyBook: услуги создаются и
// обновляются свободно, мастера только обновляются — профиль мастера
// привязан к локальному пользователю, и завести его из внешней системы
// нельзя. Несопоставленные исполнители попадают в отчет как ошибки.
func (s *SyncServiceImpl) PullCatalog(ctx context.Context) (*domain.SyncReport, error) {
	if !s.client.Configured() {
		return nil, ErrSyncNotConfigured
	}

	report := &domain.SyncReport{
		BatchID:   uuid.New().String(),
		StartedAt: time.Now(),
	}

	units, err := s.client.GetUnitList(ctx)
	if err != nil {
		s.logger.Error("ошибка получения исполнителей из SimplyBook", zap.Error(err))
		return nil, fmt.Errorf("ошибка получения исполнителей: %w", err)
	}

	for _, unit := range units {
		if err := s.pullUnit(ctx, unit, report); err != nil {
			report.Errors = append(report.Errors, err.Error())
		}
	}

	events, err := s.client.GetEventList(ctx)
	if err != nil {
		s.logger.Error("ошибка получения услуг из SimplyBook", zap.Error(err))
		return nil, fmt.Errorf("ошибка получения услуг: %w", err)
	}

	for _, event := range events {
		if err := s.pullEvent(ctx, event, report); err != nil {
			report.Errors = append(report.Errors, err.Error())
		}
	}

	report.FinishedAt = time.Now()
	s.logger.Info("синхронизация справочников завершена",
		zap.String("batchId", report.BatchID),
		zap.Int("mastersUpdated", report.MastersUpdated),
		zap.Int("offeringsCreated", report.OfferingsCreated),
		zap.Int("offeringsUpdated", report.OfferingsUpdated),
		zap.Int("errors", len(report.Errors)))

	s.rememberReport(report)
	return report, nil
}

// PushAppointments выгружает подтвержденные записи периода в SimplyBook.
// Записи мастеров и услуг без внешнего идентификатора пропускаются с
// ошибкой в отчете, остальные бронируются по одной.
func (s *SyncServiceImpl) PushAppointments(ctx context.Context, from, to time.Time) (*domain.SyncReport, error) {
	if !s.client.Configured() {
		return nil, ErrSyncNotConfigured
	}
	if !to.After(from) {
		return nil, errors.New("конец периода выгрузки должен быть позже начала")
	}

	report := &domain.SyncReport{
		BatchID:   uuid.New().String(),
		StartedAt: time.Now(),
	}

	status := domain.AppointmentStatusConfirmed
	appointments, err := s.appointmentRepo.List(ctx, domain.AppointmentFilter{
		Status:    &status,
		StartDate: &from,
		EndDate:   &to,
		Limit:     1000,
	})
	if err != nil {
		s.logger.Error("ошибка получения записей для выгрузки", zap.Error(err))
		return nil, errors.New("ошибка выгрузки записей")
	}

	for _, appointment := range appointments {
		if err := s.pushAppointment(ctx, appointment); err != nil {
			report.Errors = append(report.Errors, err.Error())
			continue
		}
		report.Exported++
	}

	report.FinishedAt = time.Now()
	s.logger.Info("выгрузка записей завершена",
		zap.String("batchId", report.BatchID),
		zap.Int("exported", report.Exported),
		zap.Int("errors", len(report.Errors)))

	s.rememberReport(report)
	return report, nil
}

// Status возвращает отчет последней синхронизации или nil, если
// синхронизация еще не запускалась.
func (s *SyncServiceImpl) Status(ctx context.Context) *domain.SyncReport {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastReport
}

func (s *SyncServiceImpl) rememberReport(report *domain.SyncReport) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastReport = report
}

func (s *SyncServiceImpl) pullUnit(ctx context.Context, unit simplybook.Unit, report *domain.SyncReport) error {
	master, err := s.masterRepo.GetBySimplyBookID(ctx, unit.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("исполнитель SimplyBook %d (%s) не сопоставлен с мастером", unit.ID, unit.Name)
		}
		return fmt.Errorf("ошибка поиска мастера для исполнителя %d: %w", unit.ID, err)
	}

	dto := domain.UpdateMasterDTO{
		DisplayName: &unit.Name,
		IsActive:    &unit.IsVisible,
	}
	if unit.Description != "" {
		dto.Description = &unit.Description
	}

	if err := s.masterRepo.Update(ctx, master.ID, dto); err != nil {
		return fmt.Errorf("ошибка обновления мастера %d: %w", master.ID, err)
	}
	report.MastersUpdated++
	return nil
}

func (s *SyncServiceImpl) pullEvent(ctx context.Context, event simplybook.Event, report *domain.SyncReport) error {
	offering, err := s.offeringRepo.GetBySimplyBookID(ctx, event.ID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("ошибка поиска услуги для события %d: %w", event.ID, err)
		}

		id, err := s.offeringRepo.Create(ctx, domain.CreateOfferingDTO{
			Name:            event.Name,
			DurationMinutes: event.Duration,
			Price:           event.Price,
		})
		if err != nil {
			return fmt.Errorf("ошибка создания услуги %q: %w", event.Name, err)
		}

		sbID := event.ID
		if err := s.offeringRepo.Update(ctx, id, domain.UpdateOfferingDTO{SimplyBookID: &sbID}); err != nil {
			return fmt.Errorf("ошибка привязки услуги %d к SimplyBook: %w", id, err)
		}
		report.OfferingsCreated++
		return nil
	}

	dto := domain.UpdateOfferingDTO{
		Name:            &event.Name,
		DurationMinutes: &event.Duration,
		Price:           &event.Price,
		IsActive:        &event.IsActive,
	}
	if err := s.offeringRepo.Update(ctx, offering.ID, dto); err != nil {
		return fmt.Errorf("ошибка обновления услуги %d: %w", offering.ID, err)
	}
	report.OfferingsUpdated++
	return nil
}

func (s *SyncServiceImpl) pushAppointment(ctx context.Context, appointment domain.Appointment) error {
	master, err := s.masterRepo.GetByID(ctx, appointment.MasterID)
	if err != nil {
		return fmt.Errorf("запись %d: мастер не найден", appointment.ID)
	}
	if master.SimplyBookID == nil {
		return fmt.Errorf("запись %d: мастер %d не привязан к SimplyBook", appointment.ID, master.ID)
	}

	offering, err := s.offeringRepo.GetByID(ctx, appointment.OfferingID)
	if err != nil {
		return fmt.Errorf("запись %d: услуга не найдена", appointment.ID)
	}
	if offering.SimplyBookID == nil {
		return fmt.Errorf("запись %d: услуга %d не привязана к SimplyBook", appointment.ID, offering.ID)
	}

	bookingID, err := s.client.Book(ctx, simplybook.BookingRequest{
		EventID:     *offering.SimplyBookID,
		UnitID:      *master.SimplyBookID,
		Date:        appointment.StartTime.Format("2006-01-02"),
		Time:        appointment.StartTime.Format("15:04:05"),
		ClientName:  appointment.ClientName,
		ClientPhone: appointment.ClientPhone,
	})
	if err != nil {
		return fmt.Errorf("запись %d: ошибка бронирования в SimplyBook: %w", appointment.ID, err)
	}

	s.logger.Debug("запись выгружена в SimplyBook",
		zap.Int64("appointmentId", appointment.ID), zap.String("bookingId", bookingID))
	return nil
}
