package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"strizh/config"
	_ "strizh/docs"
	"strizh/internal/notification"
	"strizh/internal/repository"
	"strizh/internal/service"
	"strizh/internal/simplybook"
	"strizh/internal/storage"
	"strizh/internal/transport/rest"
	"strizh/pkg/database"
	"strizh/pkg/logger"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const tokenSweepInterval = time.Hour

// @title Strizh API
// @version 1.0
// @description API барбершопа: запись к мастерам, расписание, свободные слоты

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
func main() {
	log, err := logger.NewLogger()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatal("не удалось загрузить конфигурацию", zap.Error(err))
	}

	db, err := database.NewPostgresDB(cfg.Postgres)
	if err != nil {
		log.Fatal("не удалось подключиться к БД", zap.Error(err))
	}
	defer db.Close()

	log.Info("запуск миграций базы данных")
	if err := database.RunMigrations(db, "./migrations", log); err != nil {
		log.Fatal("ошибка при выполнении миграций", zap.Error(err))
	}
	log.Info("миграции успешно выполнены")

	var fileStorage storage.FileStorage
	if cfg.S3.Endpoint != "" {
		s3Storage, err := storage.NewS3Storage(cfg.S3, log)
		if err != nil {
			log.Fatal("не удалось инициализировать S3 хранилище", zap.Error(err))
		}
		fileStorage = s3Storage
		log.Info("S3 хранилище инициализировано", zap.String("endpoint", cfg.S3.Endpoint))
	} else {
		log.Warn("S3 хранилище не настроено, загрузка фото будет недоступна")
		fileStorage = storage.NoopStorage{}
	}

	var mailer notification.Mailer
	if cfg.SMTP.Host != "" {
		mailer = notification.NewSMTPMailer(cfg.SMTP, log)
		log.Info("SMTP настроен", zap.String("host", cfg.SMTP.Host))
	} else {
		log.Warn("SMTP не настроен, письма отправляться не будут")
		mailer = notification.NoopMailer{}
	}

	sbClient := simplybook.NewClient(cfg.SimplyBook, log)
	if !sbClient.Configured() {
		log.Warn("интеграция с SimplyBook не настроена")
	}

	repos := repository.NewRepositories(db)

	services := service.NewServices(service.Deps{
		Repos:       repos,
		Logger:      log,
		Config:      cfg,
		FileStorage: fileStorage,
		Mailer:      mailer,
		SimplyBook:  sbClient,
	})

	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	go sweepExpiredTokens(sweepCtx, services.Auth, log)

	handler := rest.NewHandler(services, log, cfg)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	handler.InitRoutes(router)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:           ":" + cfg.HTTP.Port,
		Handler:        router,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderMB << 20,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("ошибка запуска сервера", zap.Error(err))
		}
	}()

	log.Info("сервер запущен", zap.String("addr", srv.Addr))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("выключение сервера...")

	stopSweep()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("ошибка при остановке сервера", zap.Error(err))
	}

	log.Info("сервер остановлен")
}

// sweepExpiredTokens периодически чистит истекшие одноразовые токены.
func sweepExpiredTokens(ctx context.Context, auth service.AuthService, log *zap.Logger) {
	ticker := time.NewTicker(tokenSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			deleted, err := auth.SweepExpiredTokens(ctx)
			if err != nil {
				log.Warn("ошибка очистки истекших токенов", zap.Error(err))
				continue
			}
			if deleted > 0 {
				log.Info("истекшие токены удалены", zap.Int64("count", deleted))
			}
		}
	}
}
