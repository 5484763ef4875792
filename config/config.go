package config

import (
	"fmt"
	"os"
	"time"
)

type Config struct {
	Environment string
	Name        string
	Version     string
	HTTP        HTTPConfig
	Postgres    PostgresConfig
	JWT         JWTConfig
	S3          S3Config
	Booking     BookingConfig
	SMTP        SMTPConfig
	SimplyBook  SimplyBookConfig
}

type HTTPConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	MaxHeaderMB  int
}

type PostgresConfig struct {
	Host               string
	Port               string
	Username           string
	Password           string
	DBName             string
	SSLMode            string
	MaxConnections     int
	MaxIdleConnections int
	MaxLifetime        time.Duration
}

type JWTConfig struct {
	SigningKey      string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	MagicLinkTTL    time.Duration
	ResetTokenTTL   time.Duration
}

type S3Config struct {
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	UseSSL          bool
}

// BookingConfig описывает политику салона: рабочая сетка слотов и перерыв.
// Все значения в минутах от полуночи либо в минутах длительности.
type BookingConfig struct {
	OpenMinute      int
	CloseMinute     int
	SlotStepMinutes int
	BreakStart      int
	BreakMinutes    int
}

type SMTPConfig struct {
	Host string
	Port string
	From string
}

type SimplyBookConfig struct {
	BaseURL string
	Company string
	APIKey  string
	Timeout time.Duration
}

func NewConfig() (*Config, error) {
	httpReadTimeout, err := time.ParseDuration(getEnv("HTTP_READ_TIMEOUT", "10s"))
	if err != nil {
		return nil, err
	}

	httpWriteTimeout, err := time.ParseDuration(getEnv("HTTP_WRITE_TIMEOUT", "10s"))
	if err != nil {
		return nil, err
	}

	postgresMaxLifetime, err := time.ParseDuration(getEnv("POSTGRES_MAX_LIFETIME", "5m"))
	if err != nil {
		return nil, err
	}

	jwtAccessTokenTTL, err := time.ParseDuration(getEnv("JWT_ACCESS_TOKEN_TTL", "15m"))
	if err != nil {
		return nil, err
	}

	jwtRefreshTokenTTL, err := time.ParseDuration(getEnv("JWT_REFRESH_TOKEN_TTL", "24h"))
	if err != nil {
		return nil, err
	}

	magicLinkTTL, err := time.ParseDuration(getEnv("MAGIC_LINK_TTL", "15m"))
	if err != nil {
		return nil, err
	}

	resetTokenTTL, err := time.ParseDuration(getEnv("RESET_TOKEN_TTL", "1h"))
	if err != nil {
		return nil, err
	}

	simplyBookTimeout, err := time.ParseDuration(getEnv("SIMPLYBOOK_TIMEOUT", "15s"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Environment: getEnv("APP_ENV", "development"),
		Name:        getEnv("APP_NAME", "strizh"),
		Version:     getEnv("APP_VERSION", "1.0.0"),
		HTTP: HTTPConfig{
			Port:         getEnv("HTTP_PORT", "8080"),
			ReadTimeout:  httpReadTimeout,
			WriteTimeout: httpWriteTimeout,
			MaxHeaderMB:  getEnvAsInt("HTTP_MAX_HEADER_MB", 1),
		},
		Postgres: PostgresConfig{
			Host:               getEnv("POSTGRES_HOST", "localhost"),
			Port:               getEnv("POSTGRES_PORT", "5432"),
			Username:           getEnv("POSTGRES_USER", "postgres"),
			Password:           getEnv("POSTGRES_PASSWORD", "postgres"),
			DBName:             getEnv("POSTGRES_DB", "strizh"),
			SSLMode:            getEnv("POSTGRES_SSL_MODE", "disable"),
			MaxConnections:     getEnvAsInt("POSTGRES_MAX_CONNECTIONS", 10),
			MaxIdleConnections: getEnvAsInt("POSTGRES_MAX_IDLE_CONNECTIONS", 5),
			MaxLifetime:        postgresMaxLifetime,
		},
		JWT: JWTConfig{
			SigningKey:      getEnv("JWT_SIGNING_KEY", "your_secret_key"),
			AccessTokenTTL:  jwtAccessTokenTTL,
			RefreshTokenTTL: jwtRefreshTokenTTL,
			MagicLinkTTL:    magicLinkTTL,
			ResetTokenTTL:   resetTokenTTL,
		},
		S3: S3Config{
			Endpoint:        getEnv("S3_ENDPOINT", ""),
			Region:          getEnv("S3_REGION", "us-east-1"),
			AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", ""),
			Bucket:          getEnv("S3_BUCKET", "strizh"),
			UseSSL:          getEnv("S3_USE_SSL", "true") == "true",
		},
		Booking: BookingConfig{
			OpenMinute:      getEnvAsInt("BOOKING_OPEN_MINUTE", 9*60),
			CloseMinute:     getEnvAsInt("BOOKING_CLOSE_MINUTE", 20*60),
			SlotStepMinutes: getEnvAsInt("BOOKING_SLOT_STEP", 30),
			BreakStart:      getEnvAsInt("BOOKING_BREAK_START", 13*60),
			BreakMinutes:    getEnvAsInt("BOOKING_BREAK_MINUTES", 30),
		},
		SMTP: SMTPConfig{
			Host: getEnv("SMTP_HOST", ""),
			Port: getEnv("SMTP_PORT", "25"),
			From: getEnv("SMTP_FROM", "no-reply@strizh.local"),
		},
		SimplyBook: SimplyBookConfig{
			BaseURL: getEnv("SIMPLYBOOK_BASE_URL", "https://user-api.simplybook.me"),
			Company: getEnv("SIMPLYBOOK_COMPANY", ""),
			APIKey:  getEnv("SIMPLYBOOK_API_KEY", ""),
			Timeout: simplyBookTimeout,
		},
	}

	if cfg.Booking.SlotStepMinutes <= 0 {
		return nil, fmt.Errorf("недопустимый шаг сетки слотов: %d", cfg.Booking.SlotStepMinutes)
	}
	if cfg.Booking.CloseMinute <= cfg.Booking.OpenMinute {
		return nil, fmt.Errorf("время закрытия должно быть позже времени открытия")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value := 0
	_, err := fmt.Sscanf(valueStr, "%d", &value)
	if err != nil {
		return defaultValue
	}

	return value
}
