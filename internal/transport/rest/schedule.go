package rest

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"strizh/internal/domain"
	"strizh/internal/repository"
	"strizh/internal/service"
)

const dateLayout = "2006-01-02"

// @Summary Свободные слоты мастера
// @Description Возвращает свободные слоты мастера на день для выбранной услуги
// @Tags Расписание
// @Produce json
// @Param id path int true "ID мастера"
// @Param date query string true "Дата в формате YYYY-MM-DD"
// @Param offering_id query int true "ID услуги"
// @Success 200 {array} domain.Slot
// @Failure 400 {object} errorResponseBody "Не указаны дата или услуга"
// @Router /masters/{id}/slots [get]
func (h *Handler) getMasterSlots(c *gin.Context) {
	masterID, err := parseIDParam(c, "id")
	if err != nil {
		badRequestResponse(c, "неверный ID мастера")
		return
	}

	dateStr := c.Query("date")
	if dateStr == "" {
		badRequestResponse(c, "параметр date обязателен")
		return
	}
	date, err := time.ParseInLocation(dateLayout, dateStr, time.Local)
	if err != nil {
		badRequestResponse(c, "дата должна быть в формате YYYY-MM-DD")
		return
	}

	offeringID, err := strconv.ParseInt(c.Query("offering_id"), 10, 64)
	if err != nil || offeringID < 1 {
		badRequestResponse(c, "параметр offering_id обязателен")
		return
	}

	slots, err := h.services.Availability.FreeSlots(c.Request.Context(), masterID, date, offeringID)
	if err != nil {
		badRequestResponse(c, err.Error())
		return
	}

	successResponse(c, http.StatusOK, slots)
}

// @Summary Недельное расписание мастера
// @Tags Расписание
// @Produce json
// @Param id path int true "ID мастера"
// @Success 200 {array} domain.WorkingHours
// @Router /masters/{id}/schedule [get]
func (h *Handler) getMasterSchedule(c *gin.Context) {
	masterID, err := parseIDParam(c, "id")
	if err != nil {
		badRequestResponse(c, "неверный ID мастера")
		return
	}

	week, err := h.services.Schedule.GetWeek(c.Request.Context(), masterID)
	if err != nil {
		badRequestResponse(c, err.Error())
		return
	}

	successResponse(c, http.StatusOK, week)
}

// @Summary Сохранение рабочих часов на день недели
// @Description Шаблон вида "9:00am-8:00pm"; null означает выходной
// @Tags Расписание
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param id path int true "ID мастера"
// @Param input body domain.UpsertWorkingHoursDTO true "День недели и шаблон"
// @Success 200 {object} successResponseBody
// @Failure 400 {object} errorResponseBody "Невалидный шаблон"
// @Router /masters/{id}/schedule [put]
func (h *Handler) upsertMasterSchedule(c *gin.Context) {
	masterID, err := parseIDParam(c, "id")
	if err != nil {
		badRequestResponse(c, "неверный ID мастера")
		return
	}

	if !h.canManageMaster(c, masterID) {
		forbiddenResponse(c)
		return
	}

	var input domain.UpsertWorkingHoursDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequestResponse(c, "неверный формат данных")
		return
	}

	if err := h.services.Schedule.Upsert(c.Request.Context(), masterID, input); err != nil {
		badRequestResponse(c, err.Error())
		return
	}

	messageResponse(c, http.StatusOK, "расписание сохранено")
}

// @Summary Удаление рабочих часов дня недели
// @Tags Расписание
// @Security ApiKeyAuth
// @Produce json
// @Param id path int true "ID мастера"
// @Param weekday path int true "День недели 0-6"
// @Success 204
// @Router /masters/{id}/schedule/{weekday} [delete]
func (h *Handler) deleteMasterSchedule(c *gin.Context) {
	masterID, err := parseIDParam(c, "id")
	if err != nil {
		badRequestResponse(c, "неверный ID мастера")
		return
	}

	weekday, err := strconv.Atoi(c.Param("weekday"))
	if err != nil {
		badRequestResponse(c, "неверный день недели")
		return
	}

	if !h.canManageMaster(c, masterID) {
		forbiddenResponse(c)
		return
	}

	if err := h.services.Schedule.Delete(c.Request.Context(), masterID, weekday); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			notFoundResponse(c, "расписание не найдено")
			return
		}
		badRequestResponse(c, err.Error())
		return
	}

	noContentResponse(c)
}

// @Summary Добавление периода недоступности
// @Description Выходной или перерыв мастера; период с подтвержденными записями отклоняется
// @Tags Расписание
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param id path int true "ID мастера"
// @Param input body domain.CreateUnavailabilityDTO true "Период"
// @Success 201 {object} successResponseBody
// @Failure 409 {object} errorResponseBody "Период пересекается с записями"
// @Router /masters/{id}/unavailability [post]
func (h *Handler) createUnavailability(c *gin.Context) {
	masterID, err := parseIDParam(c, "id")
	if err != nil {
		badRequestResponse(c, "неверный ID мастера")
		return
	}

	if !h.canManageMaster(c, masterID) {
		forbiddenResponse(c)
		return
	}

	var input domain.CreateUnavailabilityDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequestResponse(c, "неверный формат данных")
		return
	}

	id, err := h.services.Unavailability.Create(c.Request.Context(), masterID, input)
	if err != nil {
		if errors.Is(err, service.ErrPeriodHasAppointments) {
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

// @Summary Периоды недоступности мастера
// @Tags Расписание
// @Security ApiKeyAuth
// @Produce json
// @Param id path int true "ID мастера"
// @Success 200 {array} domain.UnavailabilityPeriod
// @Router /masters/{id}/unavailability [get]
func (h *Handler) getUnavailability(c *gin.Context) {
	masterID, err := parseIDParam(c, "id")
	if err != nil {
		badRequestResponse(c, "неверный ID мастера")
		return
	}

	limit, offset := parsePagination(c)
	periods, err := h.services.Unavailability.List(c.Request.Context(), domain.UnavailabilityFilter{
		MasterID: &masterID,
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		internalServerErrorResponse(c)
		return
	}

	successResponse(c, http.StatusOK, periods)
}

// @Summary Удаление периода недоступности
// @Tags Расписание
// @Security ApiKeyAuth
// @Produce json
// @Param id path int true "ID мастера"
// @Param periodId path int true "ID периода"
// @Success 204
// @Router /masters/{id}/unavailability/{periodId} [delete]
func (h *Handler) deleteUnavailability(c *gin.Context) {
	masterID, err := parseIDParam(c, "id")
	if err != nil {
		badRequestResponse(c, "неверный ID мастера")
		return
	}

	periodID, err := parseIDParam(c, "periodId")
	if err != nil {
		badRequestResponse(c, "неверный ID периода")
		return
	}

	if !h.canManageMaster(c, masterID) {
		forbiddenResponse(c)
		return
	}

	if err := h.services.Unavailability.Delete(c.Request.Context(), masterID, periodID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			notFoundResponse(c, "период не найден")
			return
		}
		badRequestResponse(c, err.Error())
		return
	}

	noContentResponse(c)
}
