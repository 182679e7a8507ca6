// Package server wires middleware, handlers and routes into a gin engine.
package server

import (
	"net/http"
	"os"

	"github.com/RubeldiRubelda/merryweihnachten/internal/config"
	"github.com/RubeldiRubelda/merryweihnachten/internal/handlers"
	"github.com/RubeldiRubelda/merryweihnachten/internal/middleware"
	"github.com/RubeldiRubelda/merryweihnachten/internal/services"
	"github.com/RubeldiRubelda/merryweihnachten/internal/ws"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

type Deps struct {
	Config             *config.Config
	DB                 *gorm.DB
	AuthService        *services.AuthService
	ParticipantService *services.ParticipantService
	Hub                *ws.Hub
}

// New builds the HTTP surface. The same engine serves production and the
// end-to-end tests.
func New(deps Deps) *gin.Engine {
	authHandler := handlers.NewAuthHandler(deps.AuthService, deps.ParticipantService, deps.Hub)
	adminHandler := handlers.NewAdminHandler(deps.ParticipantService, deps.Hub)
	leaderboardHandler := handlers.NewLeaderboardHandler(deps.ParticipantService, deps.Hub)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.Metrics())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	r.GET("/healthz", healthz(deps.DB))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.GET("/ws/leaderboard", leaderboardHandler.HandleWebSocket)

	if deps.Config.StaticDir != "" {
		if _, err := os.Stat(deps.Config.StaticDir); err == nil {
			r.Static("/static", deps.Config.StaticDir)
		}
	}

	r.POST("/login", authHandler.Login)
	r.POST("/logout", authHandler.Logout)
	r.POST("/admin-login", authHandler.AdminLogin)
	r.POST("/admin/logout", middleware.AdminAuth(deps.AuthService), authHandler.AdminLogout)

	api := r.Group("/api")
	{
		api.GET("/user", middleware.ParticipantAuth(deps.AuthService), authHandler.GetUser)
		api.GET("/leaderboard", leaderboardHandler.GetLeaderboard)

		admin := api.Group("/admin")
		admin.Use(middleware.AdminAuth(deps.AuthService))
		{
			admin.GET("/users", adminHandler.ListUsers)
			admin.GET("/groups", adminHandler.ListGroups)
			admin.POST("/add-user", adminHandler.AddUser)
			admin.POST("/assign-group", adminHandler.AssignGroup)
			admin.POST("/assign-points", adminHandler.AssignPoints)
			admin.POST("/set-points", adminHandler.SetPoints)
			admin.POST("/assign-task", adminHandler.AssignTask)
			admin.DELETE("/delete-user/:phoneNumber", adminHandler.DeleteUser)
			admin.GET("/search-user/:phoneNumber", adminHandler.SearchUser)
		}
	}

	return r
}

func healthz(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.Ping()
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "down"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
