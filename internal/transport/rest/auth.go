package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"strizh/internal/domain"
)

// @Summary Регистрация нового пользователя
// @Description Регистрирует клиента или мастера в системе
// @Tags Авторизация
// @Accept json
// @Produce json
// @Param input body domain.RegisterRequest true "Данные для регистрации"
// @Success 201 {object} successResponseBody "ID созданного пользователя"
// @Failure 400 {object} errorResponseBody "Ошибка валидации"
// @Failure 500 {object} errorResponseBody "Внутренняя ошибка сервера"
// @Router /auth/register [post]
func (h *Handler) register(c *gin.Context) {
	var input domain.RegisterRequest

	if err := c.ShouldBindJSON(&input); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}

	id, err := h.services.Auth.Register(c.Request.Context(), input)
	if err != nil {
		h.logger.Error("ошибка при регистрации", zap.Error(err))
		errorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	createdResponse(c, map[string]interface{}{
		"id": id,
	})
}

// @Summary Вход в систему
// @Description Авторизует пользователя по логину и паролю
// @Tags Авторизация
// @Accept json
// @Produce json
// @Param input body domain.LoginRequest true "Данные для входа"
// @Success 200 {object} domain.Tokens "Токены доступа и обновления"
// @Failure 400 {object} errorResponseBody "Ошибка валидации"
// @Failure 401 {object} errorResponseBody "Неверные учетные данные"
// @Router /auth/login [post]
func (h *Handler) login(c *gin.Context) {
	var input domain.LoginRequest

	if err := c.ShouldBindJSON(&input); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}

	tokens, err := h.services.Auth.Login(c.Request.Context(), input, c.Request.UserAgent(), c.ClientIP())
	if err != nil {
		errorResponse(c, http.StatusUnauthorized, err.Error())
		return
	}

	successResponse(c, http.StatusOK, tokens)
}

// @Summary Обновление токенов
// @Description Обменивает refresh token на новую пару токенов
// @Tags Авторизация
// @Accept json
// @Produce json
// @Param input body domain.RefreshTokenRequest true "Refresh token"
// @Success 200 {object} domain.Tokens "Новые токены"
// @Failure 401 {object} errorResponseBody "Недействительный токен"
// @Router /auth/refresh [post]
func (h *Handler) refreshTokens(c *gin.Context) {
	var input domain.RefreshTokenRequest

	if err := c.ShouldBindJSON(&input); err != nil {
		badRequestResponse(c, "неверный формат данных")
		return
	}

	tokens, err := h.services.Auth.RefreshTokens(c.Request.Context(), input.RefreshToken, c.Request.UserAgent(), c.ClientIP())
	if err != nil {
		errorResponse(c, http.StatusUnauthorized, err.Error())
		return
	}

	successResponse(c, http.StatusOK, tokens)
}

// @Summary Выход из системы
// @Description Удаляет сессию по refresh token
// @Tags Авторизация
// @Accept json
// @Produce json
// @Param input body domain.RefreshTokenRequest true "Refresh token"
// @Success 200 {object} successResponseBody
// @Router /auth/logout [post]
func (h *Handler) logout(c *gin.Context) {
	var input domain.RefreshTokenRequest

	if err := c.ShouldBindJSON(&input); err != nil {
		badRequestResponse(c, "неверный формат данных")
		return
	}

	if err := h.services.Auth.Logout(c.Request.Context(), input.RefreshToken); err != nil {
		internalServerErrorResponse(c)
		return
	}

	messageResponse(c, http.StatusOK, "выход выполнен")
}

// @Summary Запрос ссылки для входа
// @Description Отправляет одноразовую ссылку входа на email. Ответ одинаков для любого email.
// @Tags Авторизация
// @Accept json
// @Produce json
// @Param input body domain.MagicLinkRequest true "Email"
// @Success 200 {object} successResponseBody
// @Failure 400 {object} errorResponseBody "Ошибка валидации"
// @Router /auth/magic-link [post]
func (h *Handler) requestMagicLink(c *gin.Context) {
	var input domain.MagicLinkRequest

	if err := c.ShouldBindJSON(&input); err != nil {
		badRequestResponse(c, "неверный формат данных")
		return
	}

	if err := h.services.Auth.RequestMagicLink(c.Request.Context(), input.Email); err != nil {
		internalServerErrorResponse(c)
		return
	}

	messageResponse(c, http.StatusOK, "если email зарегистрирован, ссылка отправлена")
}

// @Summary Вход по одноразовой ссылке
// @Tags Авторизация
// @Accept json
// @Produce json
// @Param input body domain.MagicLinkLoginRequest true "Токен из письма"
// @Success 200 {object} domain.Tokens "Токены доступа и обновления"
// @Failure 401 {object} errorResponseBody "Недействительный или истекший токен"
// @Router /auth/magic-link/login [post]
func (h *Handler) loginByMagicLink(c *gin.Context) {
	var input domain.MagicLinkLoginRequest

	if err := c.ShouldBindJSON(&input); err != nil {
		badRequestResponse(c, "неверный формат данных")
		return
	}

	tokens, err := h.services.Auth.LoginByMagicLink(c.Request.Context(), input.Token, c.Request.UserAgent(), c.ClientIP())
	if err != nil {
		errorResponse(c, http.StatusUnauthorized, err.Error())
		return
	}

	successResponse(c, http.StatusOK, tokens)
}

// @Summary Запрос сброса пароля
// @Tags Авторизация
// @Accept json
// @Produce json
// @Param input body domain.PasswordResetRequest true "Email"
// @Success 200 {object} successResponseBody
// @Router /auth/password-reset [post]
func (h *Handler) requestPasswordReset(c *gin.Context) {
	var input domain.PasswordResetRequest

	if err := c.ShouldBindJSON(&input); err != nil {
		badRequestResponse(c, "неверный формат данных")
		return
	}

	if err := h.services.Auth.RequestPasswordReset(c.Request.Context(), input.Email); err != nil {
		internalServerErrorResponse(c)
		return
	}

	messageResponse(c, http.StatusOK, "если email зарегистрирован, письмо отправлено")
}

// @Summary Сброс пароля по токену
// @Tags Авторизация
// @Accept json
// @Produce json
// @Param input body domain.PasswordResetConfirm true "Токен и новый пароль"
// @Success 200 {object} successResponseBody
// @Failure 401 {object} errorResponseBody "Недействительный или истекший токен"
// @Router /auth/password-reset/confirm [post]
func (h *Handler) resetPassword(c *gin.Context) {
	var input domain.PasswordResetConfirm

	if err := c.ShouldBindJSON(&input); err != nil {
		badRequestResponse(c, "неверный формат данных")
		return
	}

	if err := h.services.Auth.ResetPassword(c.Request.Context(), input.Token, input.NewPassword); err != nil {
		errorResponse(c, http.StatusUnauthorized, err.Error())
		return
	}

	messageResponse(c, http.StatusOK, "пароль обновлен")
}
