package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"strizh/config"
	"strizh/internal/domain"
	"strizh/internal/notification"
	"strizh/internal/repository"
	"strizh/pkg/auth"
	"strizh/pkg/validator"
)

const actionTokenLength = 32

type tokenClaims struct {
	jwt.RegisteredClaims
	UserID int64           `json:"user_id"`
	Role   domain.UserRole `json:"role"`
}

type AuthServiceImpl struct {
	authRepo  repository.AuthRepository
	userRepo  repository.UserRepository
	tokenRepo repository.TokenRepository
	mailer    notification.Mailer
	jwtConfig config.JWTConfig
	logger    *zap.Logger
}

func NewAuthService(
	authRepo repository.AuthRepository,
	userRepo repository.UserRepository,
	tokenRepo repository.TokenRepository,
	mailer notification.Mailer,
	jwtConfig config.JWTConfig,
	logger *zap.Logger,
) *AuthServiceImpl {
	return &AuthServiceImpl{
		authRepo:  authRepo,
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		mailer:    mailer,
		jwtConfig: jwtConfig,
		logger:    logger,
	}
}

func (s *AuthServiceImpl) Register(ctx context.Context, dto domain.RegisterRequest) (int64, error) {
	if !validator.ValidateEmail(dto.Email) {
		return 0, errors.New("некорректный email")
	}
	if !validator.ValidatePhone(dto.Phone) {
		return 0, errors.New("некорректный номер телефона")
	}
	if !validator.ValidatePassword(dto.Password) {
		return 0, errors.New("пароль должен содержать не менее 8 символов")
	}

	dto.Phone = validator.NormalizePhone(dto.Phone)
	dto.FirstName = validator.FormatName(dto.FirstName)
	dto.LastName = validator.FormatName(dto.LastName)

	existingUser, err := s.userRepo.GetByEmail(ctx, dto.Email)
	if err == nil && existingUser != nil {
		return 0, errors.New("пользователь с таким email уже существует")
	}

	existingUser, err = s.userRepo.GetByPhone(ctx, dto.Phone)
	if err == nil && existingUser != nil {
		return 0, errors.New("пользователь с таким телефоном уже существует")
	}

	hashedPassword, err := auth.HashPassword(dto.Password)
	if err != nil {
		s.logger.Error("ошибка при хешировании пароля", zap.Error(err))
		return 0, errors.New("ошибка при регистрации пользователя")
	}

	createUserDTO := domain.CreateUserDTO{
		FirstName: dto.FirstName,
		LastName:  dto.LastName,
		Email:     dto.Email,
		Phone:     dto.Phone,
		Password:  hashedPassword,
		Role:      dto.Role,
	}

	userID, err := s.userRepo.Create(ctx, createUserDTO)
	if err != nil {
		s.logger.Error("ошибка при создании пользователя", zap.Error(err))
		return 0, errors.New("ошибка при регистрации пользователя")
	}

	return userID, nil
}

func (s *AuthServiceImpl) Login(ctx context.Context, dto domain.LoginRequest, userAgent, ip string) (*domain.Tokens, error) {
	user, err := s.userRepo.GetByEmail(ctx, dto.Login)
	if err != nil {
		user, err = s.userRepo.GetByPhone(ctx, dto.Login)
		if err != nil {
			s.logger.Warn("пользователь не найден", zap.String("login", dto.Login))
			return nil, errors.New("неверный логин или пароль")
		}
	}

	ok, err := auth.VerifyPassword(dto.Password, user.PasswordHash)
	if err != nil {
		s.logger.Error("ошибка проверки пароля", zap.Error(err))
		return nil, errors.New("неверный логин или пароль")
	}
	if !ok {
		return nil, errors.New("неверный логин или пароль")
	}

	if !user.IsActive {
		return nil, errors.New("аккаунт деактивирован")
	}

	return s.issueSession(ctx, user, userAgent, ip)
}

func (s *AuthServiceImpl) RefreshTokens(ctx context.Context, refreshToken, userAgent, ip string) (*domain.Tokens, error) {
	session, err := s.authRepo.GetSessionByRefreshToken(ctx, refreshToken)
	if err != nil {
		s.logger.Warn("сессия не найдена", zap.Error(err))
		return nil, errors.New("недействительный refresh token")
	}

	if session.ExpiresAt.Before(time.Now()) {
		s.authRepo.DeleteSession(ctx, session.ID)
		return nil, errors.New("refresh token истек")
	}

	user, err := s.userRepo.GetByID(ctx, session.UserID)
	if err != nil {
		s.logger.Error("пользователь не найден", zap.Int64("userId", session.UserID), zap.Error(err))
		return nil, errors.New("пользователь не найден")
	}

	if !user.IsActive {
		return nil, errors.New("аккаунт деактивирован")
	}

	if err := s.authRepo.DeleteSession(ctx, session.ID); err != nil {
		s.logger.Warn("ошибка удаления старой сессии", zap.Error(err))
	}

	return s.issueSession(ctx, user, userAgent, ip)
}

func (s *AuthServiceImpl) Logout(ctx context.Context, refreshToken string) error {
	session, err := s.authRepo.GetSessionByRefreshToken(ctx, refreshToken)
	if err != nil {
		s.logger.Warn("сессия не найдена при выходе", zap.Error(err))
		return nil
	}

	if err := s.authRepo.DeleteSession(ctx, session.ID); err != nil {
		s.logger.Error("ошибка удаления сессии", zap.Error(err))
		return errors.New("ошибка при выходе")
	}

	return nil
}

func (s *AuthServiceImpl) ParseToken(ctx context.Context, tokenString string) (int64, domain.UserRole, error) {
	token, err := jwt.ParseWithClaims(tokenString, &tokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("неожиданный метод подписи: %v", token.Header["alg"])
		}
		return []byte(s.jwtConfig.SigningKey), nil
	})
	if err != nil {
		return 0, "", fmt.Errorf("ошибка парсинга токена: %w", err)
	}

	claims, ok := token.Claims.(*tokenClaims)
	if !ok || !token.Valid {
		return 0, "", errors.New("недействительный токен")
	}

	return claims.UserID, claims.Role, nil
}

// RequestMagicLink выпускает одноразовый токен входа и шлет его на почту.
// Для несуществующего email отвечаем молча, не раскрывая наличие аккаунта.
func (s *AuthServiceImpl) RequestMagicLink(ctx context.Context, email string) error {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		s.logger.Info("запрос magic link для неизвестного email", zap.String("email", email))
		return nil
	}

	token, err := s.createActionToken(ctx, user.ID, domain.ActionTokenMagicLink, s.jwtConfig.MagicLinkTTL)
	if err != nil {
		return err
	}

	body := fmt.Sprintf("Ваша ссылка для входа действительна %d минут.\nТокен: %s",
		int(s.jwtConfig.MagicLinkTTL.Minutes()), token)
	if err := s.mailer.Send(ctx, user.Email, "Вход в Стриж", body); err != nil {
		s.logger.Error("ошибка отправки письма со ссылкой входа", zap.Error(err))
	}

	return nil
}

func (s *AuthServiceImpl) LoginByMagicLink(ctx context.Context, token, userAgent, ip string) (*domain.Tokens, error) {
	actionToken, err := s.consumeActionToken(ctx, token, domain.ActionTokenMagicLink)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, actionToken.UserID)
	if err != nil {
		s.logger.Error("пользователь токена не найден", zap.Int64("userId", actionToken.UserID), zap.Error(err))
		return nil, errors.New("недействительный токен входа")
	}

	if !user.IsActive {
		return nil, errors.New("аккаунт деактивирован")
	}

	return s.issueSession(ctx, user, userAgent, ip)
}

func (s *AuthServiceImpl) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		s.logger.Info("запрос сброса пароля для неизвестного email", zap.String("email", email))
		return nil
	}

	token, err := s.createActionToken(ctx, user.ID, domain.ActionTokenPasswordReset, s.jwtConfig.ResetTokenTTL)
	if err != nil {
		return err
	}

	body := fmt.Sprintf("Запрошен сброс пароля. Токен действителен %d минут.\nТокен: %s",
		int(s.jwtConfig.ResetTokenTTL.Minutes()), token)
	if err := s.mailer.Send(ctx, user.Email, "Сброс пароля в Стриж", body); err != nil {
		s.logger.Error("ошибка отправки письма сброса пароля", zap.Error(err))
	}

	return nil
}

func (s *AuthServiceImpl) ResetPassword(ctx context.Context, token, newPassword string) error {
	if !validator.ValidatePassword(newPassword) {
		return errors.New("пароль должен содержать не менее 8 символов")
	}

	actionToken, err := s.consumeActionToken(ctx, token, domain.ActionTokenPasswordReset)
	if err != nil {
		return err
	}

	hashedPassword, err := auth.HashPassword(newPassword)
	if err != nil {
		s.logger.Error("ошибка при хешировании пароля", zap.Error(err))
		return errors.New("ошибка при сбросе пароля")
	}

	if err := s.userRepo.UpdatePassword(ctx, actionToken.UserID, hashedPassword); err != nil {
		s.logger.Error("ошибка обновления пароля", zap.Error(err))
		return errors.New("ошибка при сбросе пароля")
	}

	// После смены пароля все активные сессии считаются скомпрометированными.
	if err := s.authRepo.DeleteSessionsByUserID(ctx, actionToken.UserID); err != nil {
		s.logger.Warn("ошибка удаления сессий после сброса пароля", zap.Error(err))
	}

	return nil
}

func (s *AuthServiceImpl) SweepExpiredTokens(ctx context.Context) (int64, error) {
	deleted, err := s.tokenRepo.DeleteExpired(ctx, time.Now())
	if err != nil {
		return 0, fmt.Errorf("ошибка удаления истекших токенов: %w", err)
	}
	return deleted, nil
}

func (s *AuthServiceImpl) createActionToken(ctx context.Context, userID int64, kind domain.ActionTokenKind, ttl time.Duration) (string, error) {
	token, err := auth.GenerateRandomToken(actionTokenLength)
	if err != nil {
		s.logger.Error("ошибка генерации токена", zap.Error(err))
		return "", errors.New("ошибка выпуска токена")
	}

	actionToken := domain.ActionToken{
		Token:     token,
		Kind:      kind,
		UserID:    userID,
		ExpiresAt: time.Now().Add(ttl),
		CreatedAt: time.Now(),
	}

	if err := s.tokenRepo.Create(ctx, actionToken); err != nil {
		s.logger.Error("ошибка сохранения токена", zap.Error(err))
		return "", errors.New("ошибка выпуска токена")
	}

	return token, nil
}

func (s *AuthServiceImpl) consumeActionToken(ctx context.Context, token string, kind domain.ActionTokenKind) (*domain.ActionToken, error) {
	actionToken, err := s.tokenRepo.Get(ctx, token, kind)
	if err != nil {
		return nil, errors.New("недействительный или истекший токен")
	}

	if actionToken.ExpiresAt.Before(time.Now()) {
		s.tokenRepo.Delete(ctx, token)
		return nil, errors.New("недействительный или истекший токен")
	}

	// Токен одноразовый.
	if err := s.tokenRepo.Delete(ctx, token); err != nil {
		s.logger.Warn("ошибка удаления использованного токена", zap.Error(err))
	}

	return actionToken, nil
}

func (s *AuthServiceImpl) issueSession(ctx context.Context, user *domain.User, userAgent, ip string) (*domain.Tokens, error) {
	tokens, err := s.generateTokens(user.ID, user.Role)
	if err != nil {
		s.logger.Error("ошибка генерации токенов", zap.Error(err))
		return nil, errors.New("ошибка при аутентификации")
	}

	session := domain.Session{
		ID:           uuid.New().String(),
		UserID:       user.ID,
		RefreshToken: tokens.RefreshToken,
		UserAgent:    userAgent,
		IP:           ip,
		ExpiresAt:    time.Now().Add(s.jwtConfig.RefreshTokenTTL),
		CreatedAt:    time.Now(),
	}

	if err := s.authRepo.CreateSession(ctx, session); err != nil {
		s.logger.Error("ошибка сохранения сессии", zap.Error(err))
		return nil, errors.New("ошибка при аутентификации")
	}

	return tokens, nil
}

func (s *AuthServiceImpl) generateTokens(userID int64, role domain.UserRole) (*domain.Tokens, error) {
	now := time.Now()

	accessTokenClaims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtConfig.AccessTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		UserID: userID,
		Role:   role,
	}

	accessToken := jwt.NewWithClaims(jwt.SigningMethodHS256, accessTokenClaims)
	accessTokenString, err := accessToken.SignedString([]byte(s.jwtConfig.SigningKey))
	if err != nil {
		return nil, fmt.Errorf("ошибка подписи access token: %w", err)
	}

	refreshTokenClaims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtConfig.RefreshTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		UserID: userID,
		Role:   role,
	}

	refreshToken := jwt.NewWithClaims(jwt.SigningMethodHS256, refreshTokenClaims)
	refreshTokenString, err := refreshToken.SignedString([]byte(s.jwtConfig.SigningKey))
	if err != nil {
		return nil, fmt.Errorf("ошибка подписи refresh token: %w", err)
	}

	return &domain.Tokens{
		AccessToken:  accessTokenString,
		RefreshToken: refreshTokenString,
	}, nil
}
