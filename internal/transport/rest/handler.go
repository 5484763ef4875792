package rest

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"strizh/config"
	"strizh/internal/service"
)

type Handler struct {
	services *service.Services
	logger   *zap.Logger
	config   *config.Config
}

func NewHandler(services *service.Services, logger *zap.Logger, config *config.Config) *Handler {
	return &Handler{
		services: services,
		logger:   logger,
		config:   config,
	}
}

func (h *Handler) InitRoutes(router *gin.Engine) {
	router.Use(h.loggerMiddleware())

	router.Use(h.errorMiddleware())

	router.Use(h.corsMiddleware())

	api := router.Group("/api/v1")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", h.register)
			auth.POST("/login", h.login)
			auth.POST("/refresh", h.refreshTokens)
			auth.POST("/logout", h.logout)
			auth.POST("/magic-link", h.requestMagicLink)
			auth.POST("/magic-link/login", h.loginByMagicLink)
			auth.POST("/password-reset", h.requestPasswordReset)
			auth.POST("/password-reset/confirm", h.resetPassword)
		}

		users := api.Group("/users")
		users.Use(h.authMiddleware())
		{
			users.GET("/me", h.getCurrentUser)
			users.GET("/:id", h.getUserByID)
			users.PUT("/:id", h.updateUser)
			users.PUT("/:id/password", h.updatePassword)

			admin := users.Group("/")
			admin.Use(h.adminMiddleware())
			{
				admin.POST("/", h.createUser)
				admin.GET("/", h.getUsers)
				admin.DELETE("/:id", h.deleteUser)
			}
		}

		masters := api.Group("/masters")
		{
			masters.GET("/", h.getMasters)
			masters.GET("/me", h.authMiddleware(), h.getMyMasterProfile)
			masters.GET("/:id", h.getMasterByID)
			masters.GET("/:id/slots", h.getMasterSlots)
			masters.GET("/:id/schedule", h.getMasterSchedule)

			auth := masters.Group("/", h.authMiddleware())
			{
				auth.POST("/", h.createMaster)
				auth.PUT("/:id", h.updateMaster)
				auth.DELETE("/:id", h.adminMiddleware(), h.deleteMaster)

				auth.POST("/:id/photo", h.uploadMasterPhoto)
				auth.DELETE("/:id/photo", h.deleteMasterPhoto)

				auth.PUT("/:id/schedule", h.upsertMasterSchedule)
				auth.DELETE("/:id/schedule/:weekday", h.deleteMasterSchedule)

				auth.POST("/:id/unavailability", h.createUnavailability)
				auth.GET("/:id/unavailability", h.getUnavailability)
				auth.DELETE("/:id/unavailability/:periodId", h.deleteUnavailability)
			}
		}

		offerings := api.Group("/offerings")
		{
			offerings.GET("/", h.getOfferings)
			offerings.GET("/:id", h.getOfferingByID)

			admin := offerings.Group("/")
			admin.Use(h.authMiddleware(), h.adminMiddleware())
			{
				admin.POST("/", h.createOffering)
				admin.PUT("/:id", h.updateOffering)
				admin.DELETE("/:id", h.deleteOffering)
			}
		}

		appointments := api.Group("/appointments")
		appointments.Use(h.authMiddleware())
		{
			appointments.POST("/", h.createAppointment)
			appointments.GET("/", h.getAppointments)
			appointments.GET("/:id", h.getAppointmentByID)
			appointments.PUT("/:id/reschedule", h.rescheduleAppointment)
			appointments.DELETE("/:id", h.cancelAppointment)

			master := appointments.Group("/", h.masterMiddleware())
			{
				master.PUT("/:id/start", h.startAppointment)
				master.PUT("/:id/complete", h.completeAppointment)
				master.PUT("/:id/no-show", h.noShowAppointment)
			}
		}

		admin := api.Group("/admin")
		admin.Use(h.authMiddleware(), h.adminMiddleware())
		{
			admin.POST("/sync/catalog", h.pullCatalog)
			admin.POST("/sync/appointments", h.pushAppointments)
			admin.GET("/sync/status", h.syncStatus)
			admin.GET("/export/appointments", h.exportAppointmentsCSV)
			admin.POST("/import/offerings", h.importOfferingsCSV)
		}
	}
}
