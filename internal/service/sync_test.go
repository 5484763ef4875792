package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"strizh/config"
	"strizh/internal/domain"
	"strizh/internal/repository"
	"strizh/internal/simplybook"
)

func newSimplyBookStub(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Method string `json:"method"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("запрос не разобран: %v", err)
		}

		var result interface{}
		switch {
		case strings.HasSuffix(r.URL.Path, "/login"):
			result = "stub-token"
		case req.Method == "getUnitList":
			result = map[string]interface{}{
				"10": map[string]interface{}{"id": "10", "name": "Сергей", "description": "", "is_visible": true},
				"11": map[string]interface{}{"id": "11", "name": "Новичок", "description": "", "is_visible": true},
			}
		case req.Method == "getEventList":
			result = map[string]interface{}{
				"20": map[string]interface{}{"id": "20", "name": "Мужская стрижка", "duration": 30, "price": 1500.0, "is_active": true},
			}
		case req.Method == "book":
			result = map[string]string{"code": "BK-1"}
		default:
			t.Fatalf("неожиданный метод %q", req.Method)
		}

		json.NewEncoder(w).Encode(map[string]interface{}{"result": result})
	}))
}

func newStubClient(baseURL string) *simplybook.Client {
	return simplybook.NewClient(config.SimplyBookConfig{
		BaseURL: baseURL,
		Company: "strizh",
		APIKey:  "key",
		Timeout: 5 * time.Second,
	}, zap.NewNop())
}

func TestPullCatalog(t *testing.T) {
	server := newSimplyBookStub(t)
	defer server.Close()

	var masterUpdates int
	var offeringCreated *domain.CreateOfferingDTO
	svc := NewSyncService(
		newStubClient(server.URL),
		&fakeMasterRepo{
			getBySimplyBookIDFn: func(ctx context.Context, sbID int64) (*domain.Master, error) {
				if sbID == 10 {
					return &domain.Master{ID: 1, SimplyBookID: &sbID}, nil
				}
				return nil, repository.ErrNotFound
			},
			updateFn: func(ctx context.Context, id int64, dto domain.UpdateMasterDTO) error {
				masterUpdates++
				return nil
			},
		},
		&fakeOfferingRepo{
			getBySimplyBookIDFn: func(ctx context.Context, sbID int64) (*domain.Offering, error) {
				return nil, repository.ErrNotFound
			},
			createFn: func(ctx context.Context, dto domain.CreateOfferingDTO) (int64, error) {
				offeringCreated = &dto
				return 5, nil
			},
			updateFn: func(ctx context.Context, id int64, dto domain.UpdateOfferingDTO) error {
				return nil
			},
		},
		&fakeAppointmentRepo{},
		zap.NewNop(),
	)

	report, err := svc.PullCatalog(context.Background())
	if err != nil {
		t.Fatalf("PullCatalog: %v", err)
	}

	if report.MastersUpdated != 1 || masterUpdates != 1 {
		t.Fatalf("мастеров обновлено %d, want 1", report.MastersUpdated)
	}
	if report.OfferingsCreated != 1 || offeringCreated == nil {
		t.Fatalf("услуг создано %d, want 1", report.OfferingsCreated)
	}
	if offeringCreated.DurationMinutes != 30 || offeringCreated.Price != 1500 {
		t.Fatalf("услуга из SimplyBook: %+v", offeringCreated)
	}
	// Несопоставленный исполнитель попадает в отчет, но не валит синхронизацию.
	if len(report.Errors) != 1 {
		t.Fatalf("ошибок = %d, want 1: %v", len(report.Errors), report.Errors)
	}
	if report.BatchID == "" {
		t.Fatal("отчет без идентификатора пакета")
	}

	status := svc.Status(context.Background())
	if status == nil || status.BatchID != report.BatchID {
		t.Fatalf("Status должен возвращать последний отчет, получено %+v", status)
	}
}

func TestPushAppointments(t *testing.T) {
	server := newSimplyBookStub(t)
	defer server.Close()

	date := time.Date(2026, time.September, 7, 10, 0, 0, 0, time.UTC)
	sbMaster, sbOffering := int64(10), int64(20)

	svc := NewSyncService(
		newStubClient(server.URL),
		&fakeMasterRepo{getByIDFn: func(ctx context.Context, id int64) (*domain.Master, error) {
			if id == 1 {
				return &domain.Master{ID: 1, SimplyBookID: &sbMaster}, nil
			}
			return &domain.Master{ID: id}, nil
		}},
		&fakeOfferingRepo{getByIDFn: func(ctx context.Context, id int64) (*domain.Offering, error) {
			return &domain.Offering{ID: id, SimplyBookID: &sbOffering}, nil
		}},
		&fakeAppointmentRepo{listFn: func(ctx context.Context, filter domain.AppointmentFilter) ([]domain.Appointment, error) {
			if filter.Status == nil || *filter.Status != domain.AppointmentStatusConfirmed {
				t.Fatal("выгружаться должны только подтвержденные записи")
			}
			return []domain.Appointment{
				{ID: 1, MasterID: 1, OfferingID: 2, StartTime: date, ClientName: "Иван", ClientPhone: "+7999"},
				{ID: 2, MasterID: 3, OfferingID: 2, StartTime: date.Add(time.Hour)},
			}, nil
		}},
		zap.NewNop(),
	)

	report, err := svc.PushAppointments(context.Background(), date.AddDate(0, 0, -1), date.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("PushAppointments: %v", err)
	}
	if report.Exported != 1 {
		t.Fatalf("выгружено %d, want 1", report.Exported)
	}
	// Мастер без привязки к SimplyBook дает ошибку в отчете.
	if len(report.Errors) != 1 {
		t.Fatalf("ошибок = %d, want 1: %v", len(report.Errors), report.Errors)
	}
}

func TestSync_NotConfigured(t *testing.T) {
	svc := NewSyncService(
		simplybook.NewClient(config.SimplyBookConfig{}, zap.NewNop()),
		&fakeMasterRepo{}, &fakeOfferingRepo{}, &fakeAppointmentRepo{},
		zap.NewNop(),
	)

	if _, err := svc.PullCatalog(context.Background()); err != ErrSyncNotConfigured {
		t.Fatalf("err = %v, want ErrSyncNotConfigured", err)
	}
}
