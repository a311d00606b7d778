package server

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"pressroom/internal/middleware"
	"pressroom/pkg/storage"

	articleHttp "pressroom/internal/modules/article/delivery/http"
	articleRepo "pressroom/internal/modules/article/repository"
	articleService "pressroom/internal/modules/article/service"

	categoryHttp "pressroom/internal/modules/category/delivery/http"
	categoryRepo "pressroom/internal/modules/category/repository"
	categoryService "pressroom/internal/modules/category/service"

	engagementHttp "pressroom/internal/modules/engagement/delivery/http"
	engagementRepo "pressroom/internal/modules/engagement/repository"
	engagementService "pressroom/internal/modules/engagement/service"

	moderationHttp "pressroom/internal/modules/moderation/delivery/http"
	moderationService "pressroom/internal/modules/moderation/service"

	userHttp "pressroom/internal/modules/user/delivery/http"
	userRepo "pressroom/internal/modules/user/repository"
	userService "pressroom/internal/modules/user/service"

	viewService "pressroom/internal/modules/view/service"
)

type Server struct {
	engine      *gin.Engine
	db          *gorm.DB
	redisClient *redis.Client
	logger      zerolog.Logger
}

func NewServer(db *gorm.DB, redisClient *redis.Client, logger zerolog.Logger) *Server {
	userRepository := userRepo.NewUserRepository(db)
	articleRepository := articleRepo.NewArticleRepository(db)
	categoryRepository := categoryRepo.NewCategoryRepository(db)
	engagementRepository := engagementRepo.NewEngagementRepository(db)

	imageStorage, err := storage.NewCloudinaryStorage()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize cloudinary storage")
	}

	userSvc := userService.NewUserService(userRepository)
	userHandler := userHttp.NewUserHandler(userSvc)

	categorySvc := categoryService.NewCategoryService(categoryRepository)
	categoryHandler := categoryHttp.NewCategoryHandler(categorySvc)

	engagementSvc := engagementService.NewEngagementService(engagementRepository, articleRepository, userRepository)
	engagementHandler := engagementHttp.NewEngagementHandler(engagementSvc)

	viewSvc := viewService.NewViewService(redisClient, articleRepository, logger)
	if redisClient != nil {
		go viewSvc.StartViewSyncWorker(context.Background())
	}

	articleSvc := articleService.NewArticleService(
		articleRepository,
		categoryRepository,
		userRepository,
		engagementSvc,
		viewSvc,
		imageStorage,
	)
	articleHandler := articleHttp.NewArticleHandler(articleSvc)

	moderationSvc := moderationService.NewModerationService(articleSvc)
	moderationHandler := moderationHttp.NewModerationHandler(moderationSvc)

	router := gin.New()

	setupCORS(router)

	router.Use(gin.Recovery())
	router.Use(gin.Logger())

	authMiddleware := middleware.NewAuthMiddleware(userRepository)

	api := router.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/register", userHandler.Register)
		auth.POST("/login", userHandler.Login)
	}

	// Public reads. OptionalAuth lets authors and moderators see their
	// own pending articles through the same endpoints.
	public := api.Group("")
	public.Use(authMiddleware.OptionalAuth())
	{
		public.GET("/categories", categoryHandler.GetAll)
		public.GET("/feed", articleHandler.FeedAll)
		public.GET("/feed/popular", articleHandler.FeedPopular)
		public.GET("/feed/category/:slug", articleHandler.FeedByCategory)
		public.GET("/feed/authors", articleHandler.FeedAuthors)
		public.GET("/articles/:id", articleHandler.Detail)
		public.GET("/articles/:id/engagement", engagementHandler.GetSummary)
	}

	protected := api.Group("")
	protected.Use(authMiddleware.RequireAuth())
	{
		protected.GET("/feed/favorites", articleHandler.FeedFavorites)
		protected.GET("/feed/mine", articleHandler.FeedMine)

		protected.POST("/articles", articleHandler.Create)
		protected.PUT("/articles/:id", articleHandler.Update)
		protected.DELETE("/articles/:id", articleHandler.Delete)
		protected.POST("/articles/:id/withdraw", articleHandler.Withdraw)

		protected.POST("/articles/:id/like", engagementHandler.Like)
		protected.POST("/articles/:id/dislike", engagementHandler.Dislike)
		protected.POST("/articles/:id/bookmark", engagementHandler.ToggleBookmark)
		protected.POST("/articles/:id/rate", engagementHandler.Rate)

		moderationGroup := protected.Group("/moderation")
		moderationGroup.Use(authMiddleware.RequireManager())
		{
			moderationGroup.GET("/queue", moderationHandler.Queue)
			moderationGroup.POST("/:id/approve", moderationHandler.Approve)
			moderationGroup.POST("/unpublish", moderationHandler.Unpublish)
		}

		protected.POST("/users/:id/ban", userHandler.ToggleBan)

		adminGroup := protected.Group("/users")
		adminGroup.Use(authMiddleware.RequireSuperAdmin())
		{
			adminGroup.GET("", userHandler.ListUsers)
			adminGroup.POST("/:id/promote", userHandler.Promote)
			adminGroup.POST("/:id/demote", userHandler.Demote)
		}
	}

	return &Server{
		engine:      router,
		db:          db,
		redisClient: redisClient,
		logger:      logger,
	}
}

func (s *Server) Run(addr string) error {
	return s.engine.Run(addr)
}

func setupCORS(router *gin.Engine) {
	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	var origins []string
	if allowedOrigins != "" {
		origins = strings.Split(allowedOrigins, ",")
	} else {
		origins = []string{"http://localhost:3000"}
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
