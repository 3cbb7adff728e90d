package routes

import (
	"database/sql"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/c14220110/hospital-ops-backend/config"
	"github.com/c14220110/hospital-ops-backend/internal/common/middlewares"
	dashboardControllers "github.com/c14220110/hospital-ops-backend/internal/dashboard/controllers"
	dashboardServices "github.com/c14220110/hospital-ops-backend/internal/dashboard/services"
	staffControllers "github.com/c14220110/hospital-ops-backend/internal/staff/controllers"
	staffServices "github.com/c14220110/hospital-ops-backend/internal/staff/services"
	"github.com/c14220110/hospital-ops-backend/pkg/cache"
	"github.com/c14220110/hospital-ops-backend/ws"
)

// Deps is everything Init needs to build services and controllers.
type Deps struct {
	DB     *sql.DB
	Cache  cache.KVStore
	Hub    *ws.Hub
	Config *config.Config
	Logger *zap.Logger
}

// Init menginisialisasi semua routes menggunakan Echo framework
func Init(e *echo.Echo, d Deps) {
	loc := d.Config.Location()

	// Inisialisasi service
	recordService := dashboardServices.NewRecordService(d.DB, d.Logger)
	dashboardService := dashboardServices.NewDashboardService(recordService, d.Cache, d.Config.CacheTTL, loc, d.Logger)
	exportService := dashboardServices.NewExportService(d.Logger)
	staffService := staffServices.NewStaffService(d.DB, d.Logger)

	// Inisialisasi controller dengan service yang sesuai
	var notifier dashboardControllers.Notifier
	if d.Hub != nil {
		notifier = d.Hub
	}
	dashboardController := dashboardControllers.NewDashboardController(dashboardService, exportService, loc, d.Logger)
	recordController := dashboardControllers.NewRecordController(recordService, dashboardService, notifier, loc, d.Logger)
	staffController := staffControllers.NewStaffController(staffService, d.Config.JWTSecret, d.Config.JWTTTL, d.Logger)

	jwt := middlewares.JWTMiddleware(d.Config.JWTSecret)
	canViewDashboard := middlewares.RequirePrivilege(middlewares.PrivilegeViewDashboard)
	canViewStatistics := middlewares.RequirePrivilege(middlewares.PrivilegeViewStatistics)
	canManageRecords := middlewares.RequirePrivilege(middlewares.PrivilegeManageRecords)

	// Grup API utama
	api := e.Group("/api")
	api.POST("/staff/login", staffController.Login) // Tidak pakai JWT

	api.GET("/dashboard", dashboardController.GetDashboard, jwt, canViewDashboard)
	api.GET("/statistics", dashboardController.GetStatistics, jwt, canViewStatistics)
	api.GET("/statistics/export", dashboardController.ExportStatistics, jwt, canViewStatistics)

	records := api.Group("/daily-records", jwt)
	records.GET("", recordController.ListRecords, canViewStatistics)
	records.POST("", recordController.UpsertRecord, canManageRecords)

	if d.Hub != nil {
		e.GET("/ws/dashboard", ws.ServeWS(d.Hub))
	}
}
