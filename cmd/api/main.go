// main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/sewa-org/sewa-backend/internal/api/handlers"
	"github.com/sewa-org/sewa-backend/internal/api/middleware"
	"github.com/sewa-org/sewa-backend/internal/config"
	"github.com/sewa-org/sewa-backend/internal/cron"
	"github.com/sewa-org/sewa-backend/internal/db"
	"github.com/sewa-org/sewa-backend/internal/repository"
	"github.com/sewa-org/sewa-backend/internal/seed"
	"github.com/sewa-org/sewa-backend/internal/service"
	"github.com/sewa-org/sewa-backend/internal/socket"
	"github.com/sewa-org/sewa-backend/internal/types"
)

func main() {
	// ============================================
	// Load environment variables
	// ============================================
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// ============================================
	// Load configuration
	// ============================================
	cfg := config.Load()

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// ============================================
	// Run Database Migrations FIRST
	// ============================================
	log.Println("[Main] Running database migrations...")
	migrationsPath := "./internal/db/migrations"
	if err := db.RunMigrations(cfg.DatabaseURL, migrationsPath); err != nil {
		log.Fatalf("[Main] Migration failed: %v", err)
	}
	log.Println("[Main] Database migrations completed")

	// ============================================
	// Initialize PostgreSQL
	// ============================================
	pg, err := db.NewPostgresDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("[Main] Failed to connect to PostgreSQL: %v", err)
	}
	defer pg.Close()

	// ============================================
	// Initialize Repositories
	// ============================================
	repos := repository.NewPgRepositories(pg.Pool)
	log.Println("[Main] Repositories initialized")

	// ============================================
	// Initialize Redis (optional)
	// ============================================
	var redisDB *db.RedisDB
	if cfg.RedisURL != "" {
		redisDB, err = db.NewRedisDB(cfg.RedisURL)
		if err != nil {
			log.Printf("[Main] Failed to connect to Redis: %v (continuing without cache)", err)
			redisDB = nil
		} else {
			defer redisDB.Close()
			log.Println("[Main] Redis cache enabled")
		}
	}

	// ============================================
	// Initialize WebSocket Hub
	// ============================================
	hub := socket.NewHub()
	go hub.Run()
	broadcaster := socket.NewBroadcaster(hub)
	wsHandler := socket.NewHandler(hub, cfg.JWTSecret)
	log.Println("[Main] WebSocket hub initialized")

	// ============================================
	// Seed Data
	// ============================================
	seed.SeedData(repos)

	// ============================================
	// Initialize All Services
	// ============================================
	services := service.NewServices(&service.ServiceDeps{
		Config:      cfg,
		Repos:       repos,
		Redis:       redisDB,
		Broadcaster: broadcaster,
	})
	log.Println("[Main] All services initialized")

	// ============================================
	// Initialize Handlers
	// ============================================
	h := handlers.NewHandlers(services)

	// ============================================
	// Initialize Cron Scheduler
	// ============================================
	cronScheduler := cron.NewScheduler(services, repos)
	cronScheduler.Start()
	defer cronScheduler.Stop()

	// ============================================
	// Create Gin Router
	// ============================================
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":     "healthy",
			"timestamp":  time.Now(),
			"database":   "connected",
			"cache":      getCacheStatus(redisDB),
			"websocket":  "active",
			"ws_clients": hub.GetConnectedClientsCount(),
		})
	})

	perm := services.Permission

	api := r.Group("/api")
	{
		// ============================================
		// Public routes (no auth required)
		// ============================================
		auth := api.Group("/auth")
		{
			auth.POST("/register", h.Auth.Register)
			auth.POST("/login", h.Auth.Login)
			auth.POST("/logout", h.Auth.Logout)
		}

		// Published notices and master data back the public-facing pages
		// and the registration form, so they skip auth.
		api.GET("/notices/published", h.Notice.ListPublished)
		api.GET("/master-data/:kind", h.MasterData.List)

		// WebSocket route (self-authenticating via token query param)
		api.GET("/ws", wsHandler.HandleWebSocket)

		// ============================================
		// Protected routes
		// ============================================
		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware(services.Auth))
		{
			protected.GET("/auth/me", h.Auth.Me)

			// Member routes
			members := protected.Group("/members")
			{
				members.GET("", middleware.RequirePermission(perm, types.PermMemberList), h.Member.List)
				members.GET("/search", middleware.RequirePermission(perm, types.PermMemberList), h.Member.List)
				members.GET("/pending", middleware.RequirePermission(perm, types.PermMemberApprove, types.PermMemberReject), h.Member.ListPending)
				members.GET("/me", middleware.RequirePermission(perm, types.PermProfileView), h.Member.MyProfile)
				members.GET("/code/:code", middleware.RequirePermission(perm, types.PermMemberView), h.Member.GetByCode)
				members.GET("/:id", middleware.RequirePermission(perm, types.PermMemberView), h.Member.Get)
				members.PUT("/:id", middleware.RequirePermission(perm, types.PermMemberUpdate, types.PermProfileUpdate), h.Member.Update)
				members.PATCH("/:id/approve", middleware.RequirePermission(perm, types.PermMemberApprove), h.Member.Approve)
				members.PATCH("/:id/reject", middleware.RequirePermission(perm, types.PermMemberReject), h.Member.Reject)
				members.PATCH("/:id/status", middleware.RequireRole(perm, types.RoleSuperAdmin, types.RoleAdmin), h.Member.UpdateStatus)
				members.DELETE("/:id", middleware.RequirePermission(perm, types.PermMemberDelete), h.Member.Delete)
			}

			// Student routes
			students := protected.Group("/students")
			{
				students.GET("", middleware.RequirePermission(perm, types.PermStudentList), h.Student.List)
				students.GET("/search", middleware.RequirePermission(perm, types.PermStudentList), h.Student.List)
				students.GET("/pending", middleware.RequirePermission(perm, types.PermStudentApprove), h.Student.ListPending)
				students.GET("/me", middleware.RequirePermission(perm, types.PermProfileView), h.Student.MyProfile)
				students.GET("/code/:code", middleware.RequirePermission(perm, types.PermStudentView), h.Student.GetByCode)
				students.GET("/:id", middleware.RequirePermission(perm, types.PermStudentView), h.Student.Get)
				students.PUT("/:id", middleware.RequirePermission(perm, types.PermStudentUpdate, types.PermProfileUpdate), h.Student.Update)
				students.PATCH("/:id/approve", middleware.RequirePermission(perm, types.PermStudentApprove), h.Student.Approve)
				students.PATCH("/:id/reject", middleware.RequirePermission(perm, types.PermStudentApprove), h.Student.Reject)
				students.PATCH("/:id/status", middleware.RequireRole(perm, types.RoleSuperAdmin, types.RoleAdmin), h.Student.UpdateStatus)
				students.DELETE("/:id", middleware.RequirePermission(perm, types.PermStudentDelete), h.Student.Delete)
			}

			// Chapter routes
			chapters := protected.Group("/chapters")
			{
				chapters.POST("", middleware.RequirePermission(perm, types.PermChapterCreate), h.Chapter.Create)
				chapters.GET("", middleware.RequirePermission(perm, types.PermChapterView), h.Chapter.List)
				chapters.GET("/:id", middleware.RequirePermission(perm, types.PermChapterView), h.Chapter.Get)
				chapters.PUT("/:id", middleware.RequirePermission(perm, types.PermChapterUpdate), h.Chapter.Update)

				chapters.GET("/:id/members", middleware.RequirePermission(perm, types.PermChapterViewMembers), h.Chapter.ListMembers)
				chapters.POST("/:id/members/:memberId", middleware.RequirePermission(perm, types.PermChapterAssignMember), h.Chapter.AssignMember)
				chapters.PATCH("/:id/members/:memberId/role", middleware.RequirePermission(perm, types.PermChapterAssignMember), h.Chapter.UpdateMemberRole)
				chapters.DELETE("/:id/members/:memberId", middleware.RequirePermission(perm, types.PermChapterAssignMember), h.Chapter.RemoveMember)
			}

			// Fee routes
			fees := protected.Group("/fees")
			{
				fees.POST("", middleware.RequirePermission(perm, types.PermFeePay), h.Fee.Record)
				fees.GET("", middleware.RequirePermission(perm, types.PermFeeView), h.Fee.List)
				fees.GET("/totals", middleware.RequirePermission(perm, types.PermFeeReport), h.Fee.Totals)
				fees.GET("/member/:id", middleware.RequirePermission(perm, types.PermFeeView), h.Fee.ListByMember)
				fees.GET("/code/:code", middleware.RequirePermission(perm, types.PermFeeView), h.Fee.ListByCode)
				fees.GET("/:id", middleware.RequirePermission(perm, types.PermFeeView), h.Fee.Get)
				fees.PUT("/:id", middleware.RequirePermission(perm, types.PermFeeVerify), h.Fee.Update)
				fees.POST("/:id/verify", middleware.RequirePermission(perm, types.PermFeeVerify), h.Fee.Verify)
				fees.DELETE("/:id", middleware.RequirePermission(perm, types.PermFeeVerify), h.Fee.Delete)
			}

			// Notice routes
			notices := protected.Group("/notices")
			{
				notices.GET("", middleware.RequirePermission(perm, types.PermNewsView), h.Notice.ListPublished)
				notices.GET("/all", middleware.RequirePermission(perm, types.PermNewsCreate, types.PermNewsUpdate), h.Notice.ListAll)
				notices.POST("", middleware.RequirePermission(perm, types.PermNewsCreate), h.Notice.Create)
				notices.GET("/:id", middleware.RequirePermission(perm, types.PermNewsView), h.Notice.Get)
				notices.PUT("/:id", middleware.RequirePermission(perm, types.PermNewsUpdate), h.Notice.Update)
				notices.POST("/:id/publish", middleware.RequirePermission(perm, types.PermNewsUpdate), h.Notice.Publish)
				notices.DELETE("/:id", middleware.RequirePermission(perm, types.PermNewsDelete), h.Notice.Delete)
			}

			// Internal message routes
			messages := protected.Group("/messages")
			{
				messages.POST("", middleware.RequirePermission(perm, types.PermMessageSend), h.Message.Send)
				messages.GET("/inbox", middleware.RequirePermission(perm, types.PermMessageView), h.Message.Inbox)
				messages.GET("/sent", middleware.RequirePermission(perm, types.PermMessageView), h.Message.Sent)
				messages.GET("/:id", middleware.RequirePermission(perm, types.PermMessageView), h.Message.Get)
				messages.GET("/:id/recipients", middleware.RequirePermission(perm, types.PermMessageView), h.Message.Recipients)
				messages.POST("/:id/read", middleware.RequirePermission(perm, types.PermMessageView), h.Message.MarkRead)
				messages.DELETE("/:id", middleware.RequirePermission(perm, types.PermMessageDelete), h.Message.Delete)
			}

			// Master data writes; reads are public above
			protected.POST("/master-data/:kind", middleware.RequireRole(perm, types.RoleSuperAdmin, types.RoleAdmin), h.MasterData.Add)

			// Dashboard and admin catalog routes
			dashboard := protected.Group("/dashboard")
			{
				dashboard.GET("/stats", middleware.RequirePermission(perm, types.PermReportView), h.Dashboard.Stats)
			}
			admin := protected.Group("/admin")
			admin.Use(middleware.RequireRole(perm, types.RoleSuperAdmin, types.RoleAdmin))
			{
				admin.GET("/roles", h.Dashboard.Roles)
				admin.GET("/permissions", h.Dashboard.Permissions)
			}
		}
	}

	// ============================================
	// Create server
	// ============================================
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("[Main] Server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[Main] Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("[Main] Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("[Main] Server forced to shutdown: %v", err)
	}

	log.Println("[Main] Server exited")
}

func getCacheStatus(redisDB *db.RedisDB) string {
	if redisDB != nil {
		return "connected"
	}
	return "disabled"
}
