package server

import (
	"log"
	"strings"
	"time"

	"amarbiye.com/campusmatrimony/internal/config"
	"amarbiye.com/campusmatrimony/internal/handler"
	"amarbiye.com/campusmatrimony/internal/middleware"
	"amarbiye.com/campusmatrimony/internal/repository"
	"amarbiye.com/campusmatrimony/internal/service"
	"amarbiye.com/campusmatrimony/pkg/email"
	"amarbiye.com/campusmatrimony/pkg/storage"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/meilisearch/meilisearch-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Server struct {
	engine      *gin.Engine
	db          *gorm.DB
	redisClient *redis.Client
}

func NewServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *Server {
	userRepo := repository.NewUserRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	txnRepo := repository.NewTransactionRepository(db)
	draftRepo := repository.NewDraftRepository(db)
	bookmarkRepo := repository.NewBookmarkRepository(db)
	reportRepo := repository.NewReportRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	imageStorage, err := storage.NewCloudinaryStorage()
	if err != nil {
		log.Fatalf("failed to initialize cloudinary storage: %v", err)
	}

	emailSender, err := email.NewSMTPSender()
	if err != nil {
		log.Printf("email sending disabled: %v", err)
		emailSender = nil
	}

	meiliHost := cfg.MeiliSearchHost
	if !strings.HasPrefix(meiliHost, "http") {
		meiliHost = "http://" + meiliHost + ":7700"
	}
	meiliClient := meilisearch.New(meiliHost, meilisearch.WithAPIKey(cfg.MeiliMasterKey))
	meiliSvc := service.NewMeiliSearchService(meiliClient)

	settingsSvc := service.NewSettingsService(redisClient, cfg.MonetizationDefault, cfg.UnlockCost)
	notificationSvc := service.NewNotificationService(notificationRepo, redisClient)

	authSvc := service.NewAuthService(userRepo, meiliSvc, cfg)
	profileSvc := service.NewProfileService(profileRepo, userRepo, draftRepo, imageStorage, meiliSvc, cfg)
	moderationSvc := service.NewModerationService(profileRepo, userRepo, meiliSvc, emailSender, notificationSvc)
	contactSvc := service.NewContactService(profileRepo, userRepo, bookmarkRepo, settingsSvc, cfg)
	searchSvc := service.NewSearchService(profileRepo)
	draftSvc := service.NewDraftService(draftRepo)
	bookmarkSvc := service.NewBookmarkService(bookmarkRepo, profileRepo)
	reportSvc := service.NewReportService(reportRepo, profileRepo)
	txnSvc := service.NewTransactionService(txnRepo, userRepo, emailSender, notificationSvc)
	userSvc := service.NewUserService(userRepo, meiliSvc)
	adminSvc := service.NewAdminService(userRepo, moderationSvc, meiliSvc)

	authHandler := handler.NewAuthHandler(authSvc)
	biodataHandler := handler.NewBiodataHandler(profileSvc, draftSvc)
	profileHandler := handler.NewProfileHandler(searchSvc, contactSvc, reportSvc, redisClient)
	bookmarkHandler := handler.NewBookmarkHandler(bookmarkSvc)
	txnHandler := handler.NewTransactionHandler(txnSvc)
	notificationHandler := handler.NewNotificationHandler(notificationSvc)
	userHandler := handler.NewUserHandler(userSvc)
	adminHandler := handler.NewAdminHandler(adminSvc, moderationSvc, txnSvc, reportSvc, settingsSvc)

	router := gin.New()

	setupCORS(router, cfg)

	router.Use(gin.Recovery())
	router.Use(gin.Logger())

	authMiddleware := middleware.NewAuthMiddleware(userRepo, cfg.JWTSecret)

	api := router.Group("/api")

	// Public routes (no auth required)
	auth := api.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.GET("/google/login", authHandler.GoogleLogin)
		auth.GET("/google/callback", authHandler.GoogleCallback)
	}

	// Browsing works for anonymous visitors; a valid token only adds the
	// viewer-specific fields.
	browse := api.Group("")
	browse.Use(authMiddleware.OptionalAuth())
	{
		browse.GET("/profiles", profileHandler.ListProfiles)
		browse.GET("/profiles/:profileID", profileHandler.GetProfile)
	}

	// Protected routes
	protected := api.Group("")
	protected.Use(authMiddleware.RequireAuth())
	{
		protected.GET("/me", userHandler.Me)
		protected.POST("/me/verification-request", userHandler.RequestVerification)
		protected.DELETE("/me", userHandler.DeleteAccount)
		protected.GET("/me/unlocks", userHandler.ListUnlocks)
		protected.GET("/search/token", userHandler.SearchToken)

		// Biodata
		protected.POST("/biodata", biodataHandler.Submit)
		protected.GET("/biodata", biodataHandler.GetOwn)
		protected.DELETE("/biodata", biodataHandler.DeleteOwn)
		protected.PUT("/biodata/draft", biodataHandler.SaveDraft)
		protected.GET("/biodata/draft", biodataHandler.GetDraft)
		protected.DELETE("/biodata/draft", biodataHandler.DiscardDraft)

		// Contact unlock and reporting
		protected.POST("/profiles/:profileID/unlock", profileHandler.UnlockContact)
		protected.POST("/profiles/:profileID/report", profileHandler.ReportProfile)

		// Bookmarks
		protected.POST("/bookmarks/:profileID", bookmarkHandler.Add)
		protected.DELETE("/bookmarks/:profileID", bookmarkHandler.Remove)
		protected.GET("/bookmarks", bookmarkHandler.List)

		// Credits
		protected.POST("/purchases", txnHandler.RequestPurchase)
		protected.GET("/transactions", txnHandler.ListOwn)

		// Notifications
		protected.GET("/notifications", notificationHandler.GetNotifications)
		protected.GET("/notifications/unread-count", notificationHandler.UnreadCount)
		protected.PUT("/notifications/:id/read", notificationHandler.MarkAsRead)
		protected.PUT("/notifications/read-all", notificationHandler.MarkAllAsRead)

		// Admin routes
		adminGroup := protected.Group("/admin")
		adminGroup.Use(authMiddleware.RequireAdmin())
		{
			adminGroup.GET("/users", adminHandler.ListUsers)
			adminGroup.GET("/users/:userID", adminHandler.GetUser)
			adminGroup.POST("/users/:userID/verify", adminHandler.VerifyAlumni)
			adminGroup.POST("/users/:userID/ban", adminHandler.BanUser)
			adminGroup.POST("/users/:userID/unban", adminHandler.UnbanUser)
			adminGroup.POST("/users/:userID/restrict", adminHandler.RestrictUser)
			adminGroup.POST("/users/:userID/unrestrict", adminHandler.UnrestrictUser)
			adminGroup.DELETE("/users/:userID", adminHandler.DeleteUser)
			adminGroup.POST("/users/:userID/credits", adminHandler.AdjustCredits)

			adminGroup.GET("/profiles/pending", adminHandler.ListPendingProfiles)
			adminGroup.POST("/profiles/:profileID/approve", adminHandler.ApproveProfile)
			adminGroup.POST("/profiles/:profileID/reject", adminHandler.RejectProfile)

			adminGroup.GET("/purchases/pending", adminHandler.ListPendingPurchases)
			adminGroup.POST("/purchases/:id/approve", adminHandler.ApprovePurchase)
			adminGroup.POST("/purchases/:id/reject", adminHandler.RejectPurchase)

			adminGroup.GET("/reports", adminHandler.ListReports)
			adminGroup.POST("/reports/:id/resolve", adminHandler.ResolveReport)

			adminGroup.GET("/settings", adminHandler.GetSettings)
			adminGroup.PUT("/settings", adminHandler.UpdateSettings)
		}
	}

	return &Server{
		engine:      router,
		db:          db,
		redisClient: redisClient,
	}
}

func (s *Server) Run(addr string) error {
	return s.engine.Run(addr)
}

func setupCORS(router *gin.Engine, cfg *config.Config) {
	origins := []string{"http://localhost:3000"}
	if cfg.AllowedOrigins != "" {
		origins = strings.Split(cfg.AllowedOrigins, ",")
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}
