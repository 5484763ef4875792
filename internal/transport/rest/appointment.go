package rest

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"strizh/internal/domain"
	"strizh/internal/repository"
	"strizh/internal/service"
)

// @Summary Создание записи
// @Description Записывает клиента к мастеру; занятый слот возвращает 409
// @Tags Записи
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param input body domain.CreateAppointmentDTO true "Данные записи"
// @Success 201 {object} successResponseBody
// @Failure 400 {object} errorResponseBody "Ошибка валидации"
// @Failure 409 {object} errorResponseBody "Слот занят"
// @Router /appointments [post]
func (h *Handler) createAppointment(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		errorResponse(c, http.StatusUnauthorized, err.Error())
		return
	}

	var input domain.CreateAppointmentDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}

	id, err := h.services.Appointment.Create(c.Request.Context(), userID, input)
	if err != nil {
		if errors.Is(err, service.ErrSlotUnavailable) {
			conflictResponse(c, err.Error())
			return
		}
		badRequestResponse(c, err.Error())
		return
	}

	createdResponse(c, map[string]interface{}{
		"id": id,
	})
}

// @Summary Список записей
// @Description Клиент видит свои записи, мастер — записи к себе, админ — все
// @Tags Записи
// @Security ApiKeyAuth
// @Produce json
// @Param status query string false "Фильтр по статусу"
// @Param start_date query string false "Начало периода YYYY-MM-DD"
// @Param end_date query string false "Конец периода YYYY-MM-DD"
// @Param limit query int false "Размер страницы"
// @Param offset query int false "Смещение"
// @Success 200 {object} paginatedResponse
// @Router /appointments [get]
func (h *Handler) getAppointments(c *gin.Context) {
	filter, err := h.appointmentFilterForCaller(c)
	if err != nil {
		badRequestResponse(c, err.Error())
		return
	}

	appointments, total, err := h.services.Appointment.List(c.Request.Context(), filter)
	if err != nil {
		internalServerErrorResponse(c)
		return
	}

	paginatedSuccessResponse(c, appointments, total, filter.Limit, filter.Offset)
}

// @Summary Запись по ID
// @Tags Записи
// @Security ApiKeyAuth
// @Produce json
// @Param id path int true "ID записи"
// @Success 200 {object} domain.Appointment
// @Failure 404 {object} errorResponseBody
// @Router /appointments/{id} [get]
func (h *Handler) getAppointmentByID(c *gin.Context) {
	appointment, ok := h.loadAccessibleAppointment(c)
	if !ok {
		return
	}

	successResponse(c, http.StatusOK, appointment)
}

// @Summary Перенос записи
// @Tags Записи
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param id path int true "ID записи"
// @Param input body domain.RescheduleAppointmentDTO true "Новое время"
// @Success 200 {object} successResponseBody
// @Failure 409 {object} errorResponseBody "Новый слот занят"
// @Router /appointments/{id}/reschedule [put]
func (h *Handler) rescheduleAppointment(c *gin.Context) {
	appointment, ok := h.loadAccessibleAppointment(c)
	if !ok {
		return
	}

	var input domain.RescheduleAppointmentDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequestResponse(c, "неверный формат данных")
		return
	}

	if err := h.services.Appointment.Reschedule(c.Request.Context(), appointment.ID, input); err != nil {
		if errors.Is(err, service.ErrSlotUnavailable) {
			conflictResponse(c, err.Error())
			return
		}
		badRequestResponse(c, err.Error())
		return
	}

	messageResponse(c, http.StatusOK, "запись перенесена")
}

// @Summary Отмена записи
// @Tags Записи
// @Security ApiKeyAuth
// @Produce json
// @Param id path int true "ID записи"
// @Success 200 {object} successResponseBody
// @Router /appointments/{id} [delete]
func (h *Handler) cancelAppointment(c *gin.Context) {
	appointment, ok := h.loadAccessibleAppointment(c)
	if !ok {
		return
	}

	if err := h.services.Appointment.Cancel(c.Request.Context(), appointment.ID); err != nil {
		badRequestResponse(c, err.Error())
		return
	}

	messageResponse(c, http.StatusOK, "запись отменена")
}

// @Summary Начало обслуживания
// @Tags Записи
// @Security ApiKeyAuth
// @Produce json
// @Param id path int true "ID записи"
// @Success 200 {object} successResponseBody
// @Router /appointments/{id}/start [put]
func (h *Handler) startAppointment(c *gin.Context) {
	h.changeAppointmentStatus(c, h.services.Appointment.Start, "обслуживание начато")
}

// @Summary Завершение обслуживания
// @Tags Записи
// @Security ApiKeyAuth
// @Produce json
// @Param id path int true "ID записи"
// @Success 200 {object} successResponseBody
// @Router /appointments/{id}/complete [put]
func (h *Handler) completeAppointment(c *gin.Context) {
	h.changeAppointmentStatus(c, h.services.Appointment.Complete, "запись завершена")
}

// @Summary Отметка о неявке
// @Tags Записи
// @Security ApiKeyAuth
// @Produce json
// @Param id path int true "ID записи"
// @Success 200 {object} successResponseBody
// @Router /appointments/{id}/no-show [put]
func (h *Handler) noShowAppointment(c *gin.Context) {
	h.changeAppointmentStatus(c, h.services.Appointment.NoShow, "неявка зафиксирована")
}

func (h *Handler) changeAppointmentStatus(c *gin.Context, action func(ctx context.Context, id int64) error, message string) {
	appointment, ok := h.loadAccessibleAppointment(c)
	if !ok {
		return
	}

	if err := action(c.Request.Context(), appointment.ID); err != nil {
		if errors.Is(err, service.ErrBadStatusChange) {
			conflictResponse(c, err.Error())
			return
		}
		badRequestResponse(c, err.Error())
		return
	}

	messageResponse(c, http.StatusOK, message)
}

// loadAccessibleAppointment достает запись и проверяет права вызывающего:
// клиент видит только свою запись, мастер — запись к себе, админ — любую.
func (h *Handler) loadAccessibleAppointment(c *gin.Context) (*domain.Appointment, bool) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		badRequestResponse(c, "неверный ID записи")
		return nil, false
	}

	appointment, err := h.services.Appointment.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			notFoundResponse(c, "запись не найдена")
			return nil, false
		}
		internalServerErrorResponse(c)
		return nil, false
	}

	userID, err := getUserID(c)
	if err != nil {
		errorResponse(c, http.StatusUnauthorized, err.Error())
		return nil, false
	}
	role, err := getUserRole(c)
	if err != nil {
		errorResponse(c, http.StatusUnauthorized, err.Error())
		return nil, false
	}

	switch role {
	case domain.UserRoleAdmin:
		return appointment, true
	case domain.UserRoleMaster:
		master, err := h.services.Master.GetByUserID(c.Request.Context(), userID)
		if err == nil && master.ID == appointment.MasterID {
			return appointment, true
		}
		if appointment.ClientID == userID {
			return appointment, true
		}
	default:
		if appointment.ClientID == userID {
			return appointment, true
		}
	}

	forbiddenResponse(c)
	return nil, false
}

// appointmentFilterForCaller сужает фильтр по роли вызывающего.
func (h *Handler) appointmentFilterForCaller(c *gin.Context) (domain.AppointmentFilter, error) {
	var filter domain.AppointmentFilter
	filter.Limit, filter.Offset = parsePagination(c)

	if statusStr := c.Query("status"); statusStr != "" {
		status := domain.AppointmentStatus(statusStr)
		filter.Status = &status
	}
	if dateStr := c.Query("start_date"); dateStr != "" {
		date, err := time.ParseInLocation(dateLayout, dateStr, time.Local)
		if err != nil {
			return filter, errors.New("start_date должна быть в формате YYYY-MM-DD")
		}
		filter.StartDate = &date
	}
	if dateStr := c.Query("end_date"); dateStr != "" {
		date, err := time.ParseInLocation(dateLayout, dateStr, time.Local)
		if err != nil {
			return filter, errors.New("end_date должна быть в формате YYYY-MM-DD")
		}
		filter.EndDate = &date
	}

	userID, err := getUserID(c)
	if err != nil {
		return filter, err
	}
	role, err := getUserRole(c)
	if err != nil {
		return filter, err
	}

	switch role {
	case domain.UserRoleAdmin:
		// Админ видит все без принудительного сужения.
	case domain.UserRoleMaster:
		master, err := h.services.Master.GetByUserID(c.Request.Context(), userID)
		if err != nil {
			return filter, errors.New("профиль мастера не найден")
		}
		filter.MasterID = &master.ID
	default:
		filter.ClientID = &userID
	}

	return filter, nil
}
