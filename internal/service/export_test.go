package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"strizh/internal/domain"
)

func TestAppointmentsCSV(t *testing.T) {
	date := time.Date(2026, time.September, 7, 10, 0, 0, 0, time.UTC)
	svc := NewExportService(
		&fakeAppointmentRepo{listFn: func(ctx context.Context, filter domain.AppointmentFilter) ([]domain.Appointment, error) {
			return []domain.Appointment{{
				ID:              1,
				StartTime:       date,
				DurationMinutes: 30,
				Price:           1500,
				Status:          domain.AppointmentStatusConfirmed,
				ClientName:      "Иван Петров",
				ClientPhone:     "+79990001122",
				MasterName:      "Сергей",
				OfferingName:    "Мужская стрижка",
			}}, nil
		}},
		&fakeOfferingRepo{},
		zap.NewNop(),
	)

	data, err := svc.AppointmentsCSV(context.Background(), date.AddDate(0, 0, -1), date.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("AppointmentsCSV: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("строк = %d, want 2", len(lines))
	}
	if !strings.HasPrefix(lines[0], "id,date,time,") {
		t.Fatalf("заголовок: %q", lines[0])
	}
	if !strings.Contains(lines[1], "Мужская стрижка") || !strings.Contains(lines[1], "1500.00") {
		t.Fatalf("строка данных: %q", lines[1])
	}
}

func TestAppointmentsCSV_BadRange(t *testing.T) {
	svc := NewExportService(&fakeAppointmentRepo{}, &fakeOfferingRepo{}, zap.NewNop())

	now := time.Now()
	if _, err := svc.AppointmentsCSV(context.Background(), now, now); err == nil {
		t.Fatal("пустой период должен отклоняться")
	}
}

func TestImportOfferingsCSV(t *testing.T) {
	var created []domain.CreateOfferingDTO
	svc := NewExportService(
		&fakeAppointmentRepo{},
		&fakeOfferingRepo{createFn: func(ctx context.Context, dto domain.CreateOfferingDTO) (int64, error) {
			created = append(created, dto)
			return int64(len(created)), nil
		}},
		zap.NewNop(),
	)

	csvData := "name,description,duration_min,price\n" +
		"Мужская стрижка,Классика,30,1500\n" +
		"Бритье,Опасной бритвой,45,1200.50\n"

	count, err := svc.ImportOfferingsCSV(context.Background(), []byte(csvData))
	if err != nil {
		t.Fatalf("ImportOfferingsCSV: %v", err)
	}
	if count != 2 || len(created) != 2 {
		t.Fatalf("создано %d, want 2", count)
	}
	if created[1].DurationMinutes != 45 || created[1].Price != 1200.50 {
		t.Fatalf("вторая услуга: %+v", created[1])
	}
}

func TestImportOfferingsCSV_InvalidRowStops(t *testing.T) {
	var created int
	svc := NewExportService(
		&fakeAppointmentRepo{},
		&fakeOfferingRepo{createFn: func(ctx context.Context, dto domain.CreateOfferingDTO) (int64, error) {
			created++
			return int64(created), nil
		}},
		zap.NewNop(),
	)

	csvData := "name,description,duration_min,price\n" +
		"Мужская стрижка,,30,1500\n" +
		"Бритье,,ноль,1200\n" +
		"Укладка,,20,800\n"

	count, err := svc.ImportOfferingsCSV(context.Background(), []byte(csvData))
	if err == nil {
		t.Fatal("невалидная строка должна прерывать импорт")
	}
	if count != 1 {
		t.Fatalf("до ошибки создано %d, want 1", count)
	}
}
