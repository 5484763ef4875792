package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"strizh/config"
	"strizh/internal/domain"
	"strizh/internal/repository"
	"strizh/pkg/auth"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		SigningKey:      "test-signing-key",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 24 * time.Hour,
		MagicLinkTTL:    15 * time.Minute,
		ResetTokenTTL:   time.Hour,
	}
}

func testUser(t *testing.T, password string) *domain.User {
	t.Helper()
	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	return &domain.User{
		ID:           1,
		Email:        "ivan@example.com",
		Phone:        "+79990001122",
		PasswordHash: hash,
		Role:         domain.UserRoleClient,
		IsActive:     true,
	}
}

func TestAuthLoginAndParseToken(t *testing.T) {
	user := testUser(t, "secret123")
	authRepo := newFakeAuthRepo()

	svc := NewAuthService(
		authRepo,
		&fakeUserRepo{getByEmailFn: func(ctx context.Context, email string) (*domain.User, error) {
			if email != user.Email {
				return nil, repository.ErrNotFound
			}
			return user, nil
		}},
		newFakeTokenRepo(),
		&capturingMailer{},
		testJWTConfig(),
		zap.NewNop(),
	)

	tokens, err := svc.Login(context.Background(), domain.LoginRequest{Login: user.Email, Password: "secret123"}, "ua", "127.0.0.1")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	userID, role, err := svc.ParseToken(context.Background(), tokens.AccessToken)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if userID != user.ID || role != domain.UserRoleClient {
		t.Fatalf("claims = (%d, %s)", userID, role)
	}

	if len(authRepo.sessions) != 1 {
		t.Fatalf("сессий = %d, want 1", len(authRepo.sessions))
	}
}

func TestRegister_NormalizesInput(t *testing.T) {
	var created domain.CreateUserDTO

	svc := NewAuthService(
		newFakeAuthRepo(),
		&fakeUserRepo{
			getByEmailFn: func(ctx context.Context, email string) (*domain.User, error) {
				return nil, repository.ErrNotFound
			},
			getByPhoneFn: func(ctx context.Context, phone string) (*domain.User, error) {
				return nil, repository.ErrNotFound
			},
			createFn: func(ctx context.Context, user domain.CreateUserDTO) (int64, error) {
				created = user
				return 7, nil
			},
		},
		newFakeTokenRepo(),
		&capturingMailer{},
		testJWTConfig(),
		zap.NewNop(),
	)

	id, err := svc.Register(context.Background(), domain.RegisterRequest{
		FirstName: "иван",
		LastName:  "ПЕТРОВ-водкин",
		Email:     "ivan@example.com",
		Phone:     "8 (999) 000-11-22",
		Password:  "secret123",
		Role:      domain.UserRoleClient,
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if id != 7 {
		t.Fatalf("id = %d, want 7", id)
	}

	if created.Phone != "+79990001122" {
		t.Errorf("phone = %q, want +79990001122", created.Phone)
	}
	if created.FirstName != "Иван" || created.LastName != "Петров-Водкин" {
		t.Errorf("имя = %q %q", created.FirstName, created.LastName)
	}
	if created.Password == "secret123" {
		t.Error("пароль должен сохраняться хешированным")
	}
}

func TestRegister_RejectsInvalidInput(t *testing.T) {
	svc := NewAuthService(
		newFakeAuthRepo(), &fakeUserRepo{}, newFakeTokenRepo(),
		&capturingMailer{}, testJWTConfig(), zap.NewNop(),
	)

	cases := []struct {
		name string
		dto  domain.RegisterRequest
	}{
		{"плохой email", domain.RegisterRequest{Email: "не-почта", Phone: "+79990001122", Password: "secret123"}},
		{"плохой телефон", domain.RegisterRequest{Email: "a@b.ru", Phone: "12", Password: "secret123"}},
		{"короткий пароль", domain.RegisterRequest{Email: "a@b.ru", Phone: "+79990001122", Password: "1234567"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Register(context.Background(), tc.dto); err == nil {
				t.Fatal("ожидалась ошибка валидации")
			}
		})
	}
}

func TestAuthLogin_WrongPassword(t *testing.T) {
	user := testUser(t, "secret123")

	svc := NewAuthService(
		newFakeAuthRepo(),
		&fakeUserRepo{getByEmailFn: func(ctx context.Context, email string) (*domain.User, error) {
			return user, nil
		}},
		newFakeTokenRepo(),
		&capturingMailer{},
		testJWTConfig(),
		zap.NewNop(),
	)

	if _, err := svc.Login(context.Background(), domain.LoginRequest{Login: user.Email, Password: "wrong"}, "ua", "127.0.0.1"); err == nil {
		t.Fatal("неверный пароль должен отклоняться")
	}
}

func TestMagicLinkFlow(t *testing.T) {
	user := testUser(t, "secret123")
	tokenRepo := newFakeTokenRepo()
	mailer := &capturingMailer{}

	svc := NewAuthService(
		newFakeAuthRepo(),
		&fakeUserRepo{
			getByEmailFn: func(ctx context.Context, email string) (*domain.User, error) {
				if email != user.Email {
					return nil, repository.ErrNotFound
				}
				return user, nil
			},
			getByIDFn: func(ctx context.Context, id int64) (*domain.User, error) {
				return user, nil
			},
		},
		tokenRepo,
		mailer,
		testJWTConfig(),
		zap.NewNop(),
	)

	if err := svc.RequestMagicLink(context.Background(), user.Email); err != nil {
		t.Fatalf("RequestMagicLink: %v", err)
	}
	if mailer.count() != 1 {
		t.Fatalf("писем = %d, want 1", mailer.count())
	}

	var token string
	for key := range tokenRepo.tokens {
		token = key
	}
	if token == "" {
		t.Fatal("токен не сохранен")
	}
	if !strings.Contains(mailer.last().body, token) {
		t.Fatal("письмо не содержит токен")
	}

	tokens, err := svc.LoginByMagicLink(context.Background(), token, "ua", "127.0.0.1")
	if err != nil {
		t.Fatalf("LoginByMagicLink: %v", err)
	}
	if tokens.AccessToken == "" {
		t.Fatal("пустой access token")
	}

	// Токен одноразовый.
	if _, err := svc.LoginByMagicLink(context.Background(), token, "ua", "127.0.0.1"); err == nil {
		t.Fatal("повторное использование токена должно отклоняться")
	}
}

func TestMagicLink_UnknownEmailSilent(t *testing.T) {
	tokenRepo := newFakeTokenRepo()
	mailer := &capturingMailer{}

	svc := NewAuthService(
		newFakeAuthRepo(),
		&fakeUserRepo{getByEmailFn: func(ctx context.Context, email string) (*domain.User, error) {
			return nil, repository.ErrNotFound
		}},
		tokenRepo,
		mailer,
		testJWTConfig(),
		zap.NewNop(),
	)

	if err := svc.RequestMagicLink(context.Background(), "nobody@example.com"); err != nil {
		t.Fatalf("неизвестный email не должен возвращать ошибку: %v", err)
	}
	if mailer.count() != 0 {
		t.Fatal("письмо не должно отправляться")
	}
}

func TestResetPassword_ExpiredToken(t *testing.T) {
	tokenRepo := newFakeTokenRepo()
	tokenRepo.tokens["old"] = domain.ActionToken{
		Token:     "old",
		Kind:      domain.ActionTokenPasswordReset,
		UserID:    1,
		ExpiresAt: time.Now().Add(-time.Minute),
	}

	svc := NewAuthService(
		newFakeAuthRepo(),
		&fakeUserRepo{},
		tokenRepo,
		&capturingMailer{},
		testJWTConfig(),
		zap.NewNop(),
	)

	if err := svc.ResetPassword(context.Background(), "old", "newpass123"); err == nil {
		t.Fatal("истекший токен должен отклоняться")
	}
	if _, ok := tokenRepo.tokens["old"]; ok {
		t.Fatal("истекший токен должен удаляться при попытке использования")
	}
}

func TestResetPassword_DropsSessions(t *testing.T) {
	authRepo := newFakeAuthRepo()
	authRepo.sessions["s1"] = domain.Session{ID: "s1", UserID: 1, RefreshToken: "r1"}
	authRepo.sessions["s2"] = domain.Session{ID: "s2", UserID: 2, RefreshToken: "r2"}

	tokenRepo := newFakeTokenRepo()
	tokenRepo.tokens["tok"] = domain.ActionToken{
		Token:     "tok",
		Kind:      domain.ActionTokenPasswordReset,
		UserID:    1,
		ExpiresAt: time.Now().Add(time.Hour),
	}

	var updatedHash string
	svc := NewAuthService(
		authRepo,
		&fakeUserRepo{updatePasswordFn: func(ctx context.Context, id int64, passwordHash string) error {
			updatedHash = passwordHash
			return nil
		}},
		tokenRepo,
		&capturingMailer{},
		testJWTConfig(),
		zap.NewNop(),
	)

	if err := svc.ResetPassword(context.Background(), "tok", "newpass123"); err != nil {
		t.Fatalf("ResetPassword: %v", err)
	}

	ok, err := auth.VerifyPassword("newpass123", updatedHash)
	if err != nil || !ok {
		t.Fatalf("новый пароль не проверяется: %v", err)
	}
	if _, exists := authRepo.sessions["s1"]; exists {
		t.Fatal("сессии пользователя должны удаляться после сброса пароля")
	}
	if _, exists := authRepo.sessions["s2"]; !exists {
		t.Fatal("чужие сессии должны оставаться")
	}
}

func TestSweepExpiredTokens(t *testing.T) {
	tokenRepo := newFakeTokenRepo()
	tokenRepo.tokens["fresh"] = domain.ActionToken{Token: "fresh", Kind: domain.ActionTokenMagicLink, ExpiresAt: time.Now().Add(time.Hour)}
	tokenRepo.tokens["stale"] = domain.ActionToken{Token: "stale", Kind: domain.ActionTokenMagicLink, ExpiresAt: time.Now().Add(-time.Hour)}

	svc := NewAuthService(newFakeAuthRepo(), &fakeUserRepo{}, tokenRepo, &capturingMailer{}, testJWTConfig(), zap.NewNop())

	deleted, err := svc.SweepExpiredTokens(context.Background())
	if err != nil {
		t.Fatalf("SweepExpiredTokens: %v", err)
	}
	if deleted != 1 {
		t.Fatalf("удалено %d, want 1", deleted)
	}
	if _, ok := tokenRepo.tokens["fresh"]; !ok {
		t.Fatal("живой токен не должен удаляться")
	}
}
