package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"strizh/internal/domain"
	"strizh/internal/repository"
)

type ExportServiceImpl struct {
	appointmentRepo repository.AppointmentRepository
	offeringRepo    repository.OfferingRepository
	logger          *zap.Logger
}

func NewExportService(appointmentRepo repository.AppointmentRepository, offeringRepo repository.OfferingRepository, logger *zap.Logger) *ExportServiceImpl {
	return &ExportServiceImpl{
		appointmentRepo: appointmentRepo,
		offeringRepo:    offeringRepo,
		logger:          logger,
	}
}

// AppointmentsCSV выгружает записи периода в CSV для отчетности салона.
func (s *ExportServiceImpl) AppointmentsCSV(ctx context.Context, from, to time.Time) ([]byte, error) {
	if !to.After(from) {
		return nil, errors.New("конец периода выгрузки должен быть позже начала")
	}

	appointments, err := s.appointmentRepo.List(ctx, domain.AppointmentFilter{
		StartDate: &from,
		EndDate:   &to,
		Limit:     10000,
	})
	if err != nil {
		s.logger.Error("ошибка получения записей для выгрузки", zap.Error(err))
		return nil, errors.New("ошибка выгрузки записей")
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	header := []string{"id", "date", "time", "master", "offering", "client", "phone", "duration_min", "price", "status"}
	if err := writer.Write(header); err != nil {
		return nil, fmt.Errorf("ошибка записи заголовка CSV: %w", err)
	}

	for _, a := range appointments {
		row := []string{
			strconv.FormatInt(a.ID, 10),
			a.StartTime.Format("2006-01-02"),
			a.StartTime.Format("15:04"),
			a.MasterName,
			a.OfferingName,
			a.ClientName,
			a.ClientPhone,
			strconv.Itoa(a.DurationMinutes),
			strconv.FormatFloat(a.Price, 'f', 2, 64),
			string(a.Status),
		}
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("ошибка записи строки CSV: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("ошибка формирования CSV: %w", err)
	}

	return buf.Bytes(), nil
}

// ImportOfferingsCSV загружает прайс услуг из CSV вида
// name,description,duration_min,price. Первая строка — заголовок.
// Импорт прерывается на первой невалидной строке, ничего не откатывая:
// уже созданные услуги остаются.
func (s *ExportServiceImpl) ImportOfferingsCSV(ctx context.Context, data []byte) (int, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = 4

	if _, err := reader.Read(); err != nil {
		return 0, errors.New("пустой или нечитаемый CSV")
	}

	created := 0
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return created, fmt.Errorf("строка %d: ошибка чтения CSV: %w", line, err)
		}

		name := strings.TrimSpace(record[0])
		if name == "" {
			return created, fmt.Errorf("строка %d: пустое название услуги", line)
		}

		duration, err := strconv.Atoi(strings.TrimSpace(record[2]))
		if err != nil || duration < 1 {
			return created, fmt.Errorf("строка %d: неверная длительность %q", line, record[2])
		}

		price, err := strconv.ParseFloat(strings.TrimSpace(record[3]), 64)
		if err != nil || price <= 0 {
			return created, fmt.Errorf("строка %d: неверная цена %q", line, record[3])
		}

		_, err = s.offeringRepo.Create(ctx, domain.CreateOfferingDTO{
			Name:            name,
			Description:     strings.TrimSpace(record[1]),
			DurationMinutes: duration,
			Price:           price,
		})
		if err != nil {
			s.logger.Error("ошибка создания услуги из CSV", zap.String("name", name), zap.Error(err))
			return created, fmt.Errorf("строка %d: ошибка создания услуги", line)
		}
		created++
	}

	return created, nil
}
