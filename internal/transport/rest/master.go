package rest

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"strizh/internal/domain"
	"strizh/internal/repository"
)

// @Summary Список мастеров
// @Tags Мастера
// @Produce json
// @Param only_active query bool false "Только активные"
// @Param limit query int false "Размер страницы"
// @Param offset query int false "Смещение"
// @Success 200 {array} domain.Master
// @Router /masters [get]
func (h *Handler) getMasters(c *gin.Context) {
	limit, offset := parsePagination(c)
	onlyActive, _ := strconv.ParseBool(c.DefaultQuery("only_active", "true"))

	masters, err := h.services.Master.List(c.Request.Context(), onlyActive, limit, offset)
	if err != nil {
		internalServerErrorResponse(c)
		return
	}

	successResponse(c, http.StatusOK, masters)
}

// @Summary Мастер по ID
// @Tags Мастера
// @Produce json
// @Param id path int true "ID мастера"
// @Success 200 {object} domain.Master
// @Failure 404 {object} errorResponseBody
// @Router /masters/{id} [get]
func (h *Handler) getMasterByID(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		badRequestResponse(c, "неверный ID")
		return
	}

	master, err := h.services.Master.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			notFoundResponse(c, "мастер не найден")
			return
		}
		internalServerErrorResponse(c)
		return
	}

	successResponse(c, http.StatusOK, master)
}

// @Summary Профиль мастера текущего пользователя
// @Tags Мастера
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} domain.Master
// @Failure 404 {object} errorResponseBody
// @Router /masters/me [get]
func (h *Handler) getMyMasterProfile(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		errorResponse(c, http.StatusUnauthorized, err.Error())
		return
	}

	master, err := h.services.Master.GetByUserID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			notFoundResponse(c, "профиль мастера не найден")
			return
		}
		internalServerErrorResponse(c)
		return
	}

	successResponse(c, http.StatusOK, master)
}

// @Summary Создание профиля мастера
// @Tags Мастера
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param input body domain.CreateMasterDTO true "Данные профиля"
// @Success 201 {object} successResponseBody
// @Router /masters [post]
func (h *Handler) createMaster(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		errorResponse(c, http.StatusUnauthorized, err.Error())
		return
	}

	var input domain.CreateMasterDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}

	id, err := h.services.Master.Create(c.Request.Context(), userID, input)
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	createdResponse(c, map[string]interface{}{
		"id": id,
	})
}

// @Summary Обновление профиля мастера
// @Tags Мастера
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param id path int true "ID мастера"
// @Param input body domain.UpdateMasterDTO true "Поля для обновления"
// @Success 200 {object} successResponseBody
// @Failure 403 {object} errorResponseBody
// @Router /masters/{id} [put]
func (h *Handler) updateMaster(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		badRequestResponse(c, "неверный ID")
		return
	}

	if !h.canManageMaster(c, id) {
		forbiddenResponse(c)
		return
	}

	var input domain.UpdateMasterDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequestResponse(c, "неверный формат данных")
		return
	}

	if err := h.services.Master.Update(c.Request.Context(), id, input); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			notFoundResponse(c, "мастер не найден")
			return
		}
		internalServerErrorResponse(c)
		return
	}

	messageResponse(c, http.StatusOK, "профиль обновлен")
}

// @Summary Удаление мастера
// @Tags Мастера
// @Security ApiKeyAuth
// @Produce json
// @Param id path int true "ID мастера"
// @Success 204
// @Router /masters/{id} [delete]
func (h *Handler) deleteMaster(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		badRequestResponse(c, "неверный ID")
		return
	}

	if err := h.services.Master.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			notFoundResponse(c, "мастер не найден")
			return
		}
		internalServerErrorResponse(c)
		return
	}

	noContentResponse(c)
}

// @Summary Загрузка фото мастера
// @Tags Мастера
// @Security ApiKeyAuth
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "ID мастера"
// @Param photo formData file true "Файл фото (jpg, png, webp)"
// @Success 200 {object} successResponseBody
// @Router /masters/{id}/photo [post]
func (h *Handler) uploadMasterPhoto(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		badRequestResponse(c, "неверный ID")
		return
	}

	if !h.canManageMaster(c, id) {
		forbiddenResponse(c)
		return
	}

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		badRequestResponse(c, "файл не передан")
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

	if err := h.services.Master.UploadPhoto(c.Request.Context(), id, data, fileHeader.Filename); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			notFoundResponse(c, "мастер не найден")
			return
		}
		badRequestResponse(c, err.Error())
		return
	}

	messageResponse(c, http.StatusOK, "фото загружено")
}

// @Summary Удаление фото мастера
// @Tags Мастера
// @Security ApiKeyAuth
// @Produce json
// @Param id path int true "ID мастера"
// @Success 200 {object} successResponseBody
// @Router /masters/{id}/photo [delete]
func (h *Handler) deleteMasterPhoto(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		badRequestResponse(c, "неверный ID")
		return
	}

	if !h.canManageMaster(c, id) {
		forbiddenResponse(c)
		return
	}

	if err := h.services.Master.DeletePhoto(c.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			notFoundResponse(c, "мастер не найден")
			return
		}
		internalServerErrorResponse(c)
		return
	}

	messageResponse(c, http.StatusOK, "фото удалено")
}

// canManageMaster разрешает действие владельцу профиля мастера или администратору.
func (h *Handler) canManageMaster(c *gin.Context, masterID int64) bool {
	role, err := getUserRole(c)
	if err != nil {
		return false
	}
	if role == domain.UserRoleAdmin {
		return true
	}
	if role != domain.UserRoleMaster {
		return false
	}

	userID, err := getUserID(c)
	if err != nil {
		return false
	}

	master, err := h.services.Master.GetByID(c.Request.Context(), masterID)
	if err != nil {
		return false
	}
	return master.UserID == userID
}
