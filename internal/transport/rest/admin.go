package rest

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"strizh/internal/service"
)

const maxImportSize = 1 << 20

// @Summary Синхронизация справочников с SimplyBook
// @Description Подтягивает исполнителей и услуги из SimplyBook
// @Tags Администрирование
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} domain.SyncReport
// @Failure 503 {object} errorResponseBody "Интеграция не настроена"
// @Router /admin/sync/catalog [post]
func (h *Handler) pullCatalog(c *gin.Context) {
	report, err := h.services.Sync.PullCatalog(c.Request.Context())
	if err != nil {
		if errors.Is(err, service.ErrSyncNotConfigured) {
			errorResponse(c, http.StatusServiceUnavailable, err.Error())
			return
		}
		h.logger.Error("ошибка синхронизации справочников", zap.Error(err))
		internalServerErrorResponse(c)
		return
	}

	successResponse(c, http.StatusOK, report)
}

// @Summary Статус последней синхронизации
// @Tags Администрирование
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} domain.SyncReport
// @Failure 404 {object} errorResponseBody "Синхронизация еще не запускалась"
// @Router /admin/sync/status [get]
func (h *Handler) syncStatus(c *gin.Context) {
	report := h.services.Sync.Status(c.Request.Context())
	if report == nil {
		errorResponse(c, http.StatusNotFound, "синхронизация еще не запускалась")
		return
	}

	successResponse(c, http.StatusOK, report)
}

// @Summary Выгрузка записей в SimplyBook
// @Tags Администрирование
// @Security ApiKeyAuth
// @Produce json
// @Param from query string true "Начало периода YYYY-MM-DD"
// @Param to query string true "Конец периода YYYY-MM-DD"
// @Success 200 {object} domain.SyncReport
// @Router /admin/sync/appointments [post]
func (h *Handler) pushAppointments(c *gin.Context) {
	from, to, err := parseDateRange(c)
	if err != nil {
		badRequestResponse(c, err.Error())
		return
	}

	report, err := h.services.Sync.PushAppointments(c.Request.Context(), from, to)
	if err != nil {
		if errors.Is(err, service.ErrSyncNotConfigured) {
			errorResponse(c, http.StatusServiceUnavailable, err.Error())
			return
		}
		badRequestResponse(c, err.Error())
		return
	}

	successResponse(c, http.StatusOK, report)
}

// @Summary Выгрузка записей в CSV
// @Tags Администрирование
// @Security ApiKeyAuth
// @Produce text/csv
// @Param from query string true "Начало периода YYYY-MM-DD"
// @Param to query string true "Конец периода YYYY-MM-DD"
// @Success 200 {string} string "CSV-файл"
// @Router /admin/export/appointments [get]
func (h *Handler) exportAppointmentsCSV(c *gin.Context) {
	from, to, err := parseDateRange(c)
	if err != nil {
		badRequestResponse(c, err.Error())
		return
	}

	data, err := h.services.Export.AppointmentsCSV(c.Request.Context(), from, to)
	if err != nil {
		badRequestResponse(c, err.Error())
		return
	}

	filename := fmt.Sprintf("appointments_%s_%s.csv", from.Format("20060102"), to.Format("20060102"))
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}

// @Summary Импорт прайса услуг из CSV
// @Description CSV вида name,description,duration_min,price с заголовком
// @Tags Администрирование
// @Security ApiKeyAuth
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CSV-файл"
// @Success 200 {object} successResponseBody "Число созданных услуг"
// @Router /admin/import/offerings [post]
func (h *Handler) importOfferingsCSV(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		badRequestResponse(c, "файл не передан")
		return
	}
	if fileHeader.Size > maxImportSize {
		badRequestResponse(c, "файл превышает допустимый размер 1 МБ")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		badRequestResponse(c, "файл не читается")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		internalServerErrorResponse(c)
		return
	}

	created, err := h.services.Export.ImportOfferingsCSV(c.Request.Context(), data)
	if err != nil {
		badRequestResponse(c, fmt.Sprintf("%s (создано до ошибки: %d)", err.Error(), created))
		return
	}

	successResponse(c, http.StatusOK, map[string]interface{}{
		"created": created,
	})
}

func parseDateRange(c *gin.Context) (from, to time.Time, err error) {
	from, err = time.ParseInLocation(dateLayout, c.Query("from"), time.Local)
	if err != nil {
		return from, to, errors.New("параметр from обязателен в формате YYYY-MM-DD")
	}
	to, err = time.ParseInLocation(dateLayout, c.Query("to"), time.Local)
	if err != nil {
		return from, to, errors.New("параметр to обязателен в формате YYYY-MM-DD")
	}
	return from, to, nil
}
