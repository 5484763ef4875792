package service

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"strizh/internal/availability"
	"strizh/internal/domain"
	"strizh/internal/repository"
)

func strPtr(s string) *string { return &s }

func newAvailabilityService(
	appointments []domain.Appointment,
	periods []domain.UnavailabilityPeriod,
	hours *domain.WorkingHours,
	offering *domain.Offering,
) *AvailabilityServiceImpl {
	return NewAvailabilityService(
		availability.NewEngine(availability.DefaultPolicy()),
		&fakeAppointmentRepo{listForMasterDayFn: func(ctx context.Context, masterID int64, day time.Time) ([]domain.Appointment, error) {
			return appointments, nil
		}},
		&fakeUnavailabilityRepo{listForMasterDayFn: func(ctx context.Context, masterID int64, day time.Time) ([]domain.UnavailabilityPeriod, error) {
			return periods, nil
		}},
		&fakeWorkingHoursRepo{getByWeekdayFn: func(ctx context.Context, masterID int64, weekday int) (*domain.WorkingHours, error) {
			if hours == nil {
				return nil, repository.ErrNotFound
			}
			return hours, nil
		}},
		&fakeOfferingRepo{getByIDFn: func(ctx context.Context, id int64) (*domain.Offering, error) {
			if offering == nil {
				return nil, repository.ErrNotFound
			}
			return offering, nil
		}},
		zap.NewNop(),
	)
}

func TestFreeSlots_FullDay(t *testing.T) {
	svc := newAvailabilityService(
		nil, nil,
		&domain.WorkingHours{Template: strPtr("9:00am-8:00pm")},
		&domain.Offering{ID: 2, DurationMinutes: 30, IsActive: true},
	)

	date := time.Date(2026, time.September, 7, 0, 0, 0, 0, time.UTC)
	slots, err := svc.FreeSlots(context.Background(), 1, date, 2)
	if err != nil {
		t.Fatalf("FreeSlots: %v", err)
	}
	if len(slots) != 21 {
		t.Fatalf("слотов = %d, want 21", len(slots))
	}
	if !slots[0].StartTime.Equal(date.Add(9 * time.Hour)) {
		t.Fatalf("первый слот %v, want 09:00", slots[0].StartTime)
	}
}

func TestFreeSlots_NoScheduleRowMeansClosedDay(t *testing.T) {
	svc := newAvailabilityService(
		nil, nil,
		nil,
		&domain.Offering{ID: 2, DurationMinutes: 30, IsActive: true},
	)

	slots, err := svc.FreeSlots(context.Background(), 1, time.Date(2026, time.September, 7, 0, 0, 0, 0, time.UTC), 2)
	if err != nil {
		t.Fatalf("FreeSlots: %v", err)
	}
	if len(slots) != 0 {
		t.Fatalf("слотов = %d, want 0: без строки расписания день закрыт", len(slots))
	}
}

func TestFreeSlots_InactiveOffering(t *testing.T) {
	svc := newAvailabilityService(
		nil, nil,
		&domain.WorkingHours{Template: strPtr("9:00am-8:00pm")},
		&domain.Offering{ID: 2, DurationMinutes: 30, IsActive: false},
	)

	if _, err := svc.FreeSlots(context.Background(), 1, time.Date(2026, time.September, 7, 0, 0, 0, 0, time.UTC), 2); err == nil {
		t.Fatal("неактивная услуга должна отклоняться")
	}
}

func TestFreeSlots_AppointmentAndUnavailabilityApplied(t *testing.T) {
	date := time.Date(2026, time.September, 7, 0, 0, 0, 0, time.UTC)
	appointments := []domain.Appointment{
		{ID: 1, StartTime: date.Add(10 * time.Hour), DurationMinutes: 60, Status: domain.AppointmentStatusConfirmed},
	}
	periods := []domain.UnavailabilityPeriod{
		{StartTime: date.Add(17 * time.Hour), EndTime: date.Add(20 * time.Hour)},
	}

	svc := newAvailabilityService(
		appointments, periods,
		&domain.WorkingHours{Template: strPtr("9:00am-8:00pm")},
		&domain.Offering{ID: 2, DurationMinutes: 30, IsActive: true},
	)

	slots, err := svc.FreeSlots(context.Background(), 1, date, 2)
	if err != nil {
		t.Fatalf("FreeSlots: %v", err)
	}

	for _, slot := range slots {
		h := slot.StartTime.Hour()
		if h == 10 {
			t.Fatalf("слот %v пересекает запись", slot.StartTime)
		}
		if h >= 17 {
			t.Fatalf("слот %v попадает в период недоступности", slot.StartTime)
		}
	}
	// 21 базовый минус 2 слота записи (10:00, 10:30) и 6 вечерних (17:00-19:30).
	if len(slots) != 13 {
		t.Fatalf("слотов = %d, want 13", len(slots))
	}
}

func TestCheckConflict_PassesExcludeID(t *testing.T) {
	date := time.Date(2026, time.September, 7, 0, 0, 0, 0, time.UTC)
	appointments := []domain.Appointment{
		{ID: 5, StartTime: date.Add(11 * time.Hour), DurationMinutes: 60, Status: domain.AppointmentStatusConfirmed},
	}

	svc := newAvailabilityService(appointments, nil, nil, nil)

	conflict, err := svc.CheckConflict(context.Background(), 1, date.Add(11*time.Hour), 60, nil)
	if err != nil {
		t.Fatalf("CheckConflict: %v", err)
	}
	if !conflict {
		t.Fatal("ожидался конфликт с чужой записью")
	}

	excludeID := int64(5)
	conflict, err = svc.CheckConflict(context.Background(), 1, date.Add(11*time.Hour), 60, &excludeID)
	if err != nil {
		t.Fatalf("CheckConflict: %v", err)
	}
	if conflict {
		t.Fatal("собственная запись не должна считаться конфликтом")
	}
}
