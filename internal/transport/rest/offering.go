package rest

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"strizh/internal/domain"
	"strizh/internal/repository"
)

// @Summary Список услуг
// @Tags Услуги
// @Produce json
// @Param only_active query bool false "Только активные"
// @Param limit query int false "Размер страницы"
// @Param offset query int false "Смещение"
// @Success 200 {object} paginatedResponse
// @Router /offerings [get]
func (h *Handler) getOfferings(c *gin.Context) {
	limit, offset := parsePagination(c)
	onlyActive, _ := strconv.ParseBool(c.DefaultQuery("only_active", "true"))

	offerings, total, err := h.services.Offering.List(c.Request.Context(), domain.OfferingFilter{
		OnlyActive: onlyActive,
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		internalServerErrorResponse(c)
		return
	}

	paginatedSuccessResponse(c, offerings, total, limit, offset)
}

// @Summary Услуга по ID
// @Tags Услуги
// @Produce json
// @Param id path int true "ID услуги"
// @Success 200 {object} domain.Offering
// @Failure 404 {object} errorResponseBody
// @Router /offerings/{id} [get]
func (h *Handler) getOfferingByID(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		badRequestResponse(c, "неверный ID")
		return
	}

	offering, err := h.services.Offering.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			notFoundResponse(c, "услуга не найдена")
			return
		}
		internalServerErrorResponse(c)
		return
	}

	successResponse(c, http.StatusOK, offering)
}

// @Summary Создание услуги
// @Tags Услуги
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param input body domain.CreateOfferingDTO true "Данные услуги"
// @Success 201 {object} successResponseBody
// @Router /offerings [post]
func (h *Handler) createOffering(c *gin.Context) {
	var input domain.CreateOfferingDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}

	id, err := h.services.Offering.Create(c.Request.Context(), input)
	if err != nil {
		internalServerErrorResponse(c)
		return
	}

	createdResponse(c, map[string]interface{}{
		"id": id,
	})
}

// @Summary Обновление услуги
// @Tags Услуги
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param id path int true "ID услуги"
// @Param input body domain.UpdateOfferingDTO true "Поля для обновления"
// @Success 200 {object} successResponseBody
// @Router /offerings/{id} [put]
func (h *Handler) updateOffering(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		badRequestResponse(c, "неверный ID")
		return
	}

	var input domain.UpdateOfferingDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequestResponse(c, "неверный формат данных")
		return
	}

	if err := h.services.Offering.Update(c.Request.Context(), id, input); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			notFoundResponse(c, "услуга не найдена")
			return
		}
		internalServerErrorResponse(c)
		return
	}

	messageResponse(c, http.StatusOK, "услуга обновлена")
}

// @Summary Удаление услуги
// @Tags Услуги
// @Security ApiKeyAuth
// @Produce json
// @Param id path int true "ID услуги"
// @Success 204
// @Router /offerings/{id} [delete]
func (h *Handler) deleteOffering(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		badRequestResponse(c, "неверный ID")
		return
	}

	if err := h.services.Offering.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			notFoundResponse(c, "услуга не найдена")
			return
		}
		internalServerErrorResponse(c)
		return
	}

	noContentResponse(c)
}
