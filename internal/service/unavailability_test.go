package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"strizh/internal/domain"
)

func newUnavailabilityService(appointments []domain.Appointment, created *domain.CreateUnavailabilityDTO) *UnavailabilityServiceImpl {
	return NewUnavailabilityService(
		&fakeUnavailabilityRepo{
			createFn: func(ctx context.Context, masterID int64, dto domain.CreateUnavailabilityDTO) (int64, error) {
				if created != nil {
					*created = dto
				}
				return 1, nil
			},
		},
		&fakeAppointmentRepo{listForMasterDayFn: func(ctx context.Context, masterID int64, day time.Time) ([]domain.Appointment, error) {
			return appointments, nil
		}},
		zap.NewNop(),
	)
}

func TestUnavailabilityCreate_RejectsOverlapWithConfirmed(t *testing.T) {
	date := time.Date(2026, time.September, 7, 0, 0, 0, 0, time.UTC)
	appointments := []domain.Appointment{
		{ID: 3, StartTime: date.Add(12 * time.Hour), DurationMinutes: 60, Status: domain.AppointmentStatusConfirmed},
	}

	svc := newUnavailabilityService(appointments, nil)

	_, err := svc.Create(context.Background(), 1, domain.CreateUnavailabilityDTO{
		StartTime: date.Add(11 * time.Hour),
		EndTime:   date.Add(14 * time.Hour),
	})
	if !errors.Is(err, ErrPeriodHasAppointments) {
		t.Fatalf("err = %v, want ErrPeriodHasAppointments", err)
	}
}

func TestUnavailabilityCreate_CancelledAppointmentIgnored(t *testing.T) {
	date := time.Date(2026, time.September, 7, 0, 0, 0, 0, time.UTC)
	appointments := []domain.Appointment{
		{ID: 3, StartTime: date.Add(12 * time.Hour), DurationMinutes: 60, Status: domain.AppointmentStatusCancelled},
	}

	svc := newUnavailabilityService(appointments, nil)

	if _, err := svc.Create(context.Background(), 1, domain.CreateUnavailabilityDTO{
		StartTime: date.Add(11 * time.Hour),
		EndTime:   date.Add(14 * time.Hour),
	}); err != nil {
		t.Fatalf("отмененная запись не должна блокировать период: %v", err)
	}
}

func TestUnavailabilityCreate_TouchingAppointmentAllowed(t *testing.T) {
	date := time.Date(2026, time.September, 7, 0, 0, 0, 0, time.UTC)
	appointments := []domain.Appointment{
		// Запись 10:00-11:00, период начинается ровно в 11:00.
		{ID: 3, StartTime: date.Add(10 * time.Hour), DurationMinutes: 60, Status: domain.AppointmentStatusConfirmed},
	}

	svc := newUnavailabilityService(appointments, nil)

	if _, err := svc.Create(context.Background(), 1, domain.CreateUnavailabilityDTO{
		StartTime: date.Add(11 * time.Hour),
		EndTime:   date.Add(14 * time.Hour),
	}); err != nil {
		t.Fatalf("касание границ не конфликт: %v", err)
	}
}

func TestUnavailabilityCreate_AllDayCoversWholeDay(t *testing.T) {
	date := time.Date(2026, time.September, 7, 0, 0, 0, 0, time.UTC)
	appointments := []domain.Appointment{
		// При allDay даже утренняя запись вне указанных часов конфликтует.
		{ID: 3, StartTime: date.Add(9 * time.Hour), DurationMinutes: 30, Status: domain.AppointmentStatusConfirmed},
	}

	svc := newUnavailabilityService(appointments, nil)

	_, err := svc.Create(context.Background(), 1, domain.CreateUnavailabilityDTO{
		StartTime: date.Add(14 * time.Hour),
		EndTime:   date.Add(16 * time.Hour),
		AllDay:    true,
	})
	if !errors.Is(err, ErrPeriodHasAppointments) {
		t.Fatalf("err = %v, want ErrPeriodHasAppointments", err)
	}
}

func TestUnavailabilityCreate_EndBeforeStart(t *testing.T) {
	svc := newUnavailabilityService(nil, nil)

	date := time.Date(2026, time.September, 7, 0, 0, 0, 0, time.UTC)
	if _, err := svc.Create(context.Background(), 1, domain.CreateUnavailabilityDTO{
		StartTime: date.Add(14 * time.Hour),
		EndTime:   date.Add(12 * time.Hour),
	}); err == nil {
		t.Fatal("период с концом раньше начала должен отклоняться")
	}
}

func TestUnavailabilityDelete_WrongMaster(t *testing.T) {
	svc := NewUnavailabilityService(
		&fakeUnavailabilityRepo{
			getByIDFn: func(ctx context.Context, id int64) (*domain.UnavailabilityPeriod, error) {
				return &domain.UnavailabilityPeriod{ID: id, MasterID: 99}, nil
			},
		},
		&fakeAppointmentRepo{},
		zap.NewNop(),
	)

	if err := svc.Delete(context.Background(), 1, 5); err == nil {
		t.Fatal("чужой период не должен удаляться")
	}
}
