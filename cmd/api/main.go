package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/yourusername/musictheory-api/internal/config"
	"github.com/yourusername/musictheory-api/internal/handler"
	"github.com/yourusername/musictheory-api/internal/middleware"
	pgRepo "github.com/yourusername/musictheory-api/internal/repository/postgres"
	redisRepo "github.com/yourusername/musictheory-api/internal/repository/redis"
	"github.com/yourusername/musictheory-api/internal/service"
	"github.com/yourusername/musictheory-api/pkg/auth"
	"github.com/yourusername/musictheory-api/pkg/database"
)

// allowedOrigins синхронизирован между CORS и проверкой Origin в WebSocket
var allowedOrigins = []string{
	"https://musictheory-app.vercel.app",
	"https://musictheory-admin.vercel.app",
	"http://localhost:5173",
	"http://localhost:3000",
}

func main() {
	// Загружаем конфигурацию
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	log.Printf("Загрузка конфигурации из %s", configPath)

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Printf("Failed to load config: %v", err)
		os.Exit(1)
	}

	// Инициализируем подключение к PostgreSQL
	db, err := database.NewPostgresDB(cfg.Database.PostgresConnectionString())
	if err != nil {
		log.Printf("Failed to connect to database: %v", err)
		os.Exit(1)
	}

	// Применяем миграции
	if err := database.MigrateDB(db); err != nil {
		log.Printf("Failed to migrate database: %v", err)
		os.Exit(1)
	}

	// Инициализируем подключение к Redis с использованием унифицированной конфигурации
	redisClient, err := database.NewUniversalRedisClient(cfg.Redis)
	if err != nil {
		log.Printf("Failed to connect to Redis: %v", err)
		os.Exit(1)
	}
	log.Println("Successfully connected to Redis")

	// Инициализируем репозитории
	userRepo := pgRepo.NewUserRepo(db)
	questionRepo := pgRepo.NewQuestionRepo(db)
	attemptRepo := pgRepo.NewAttemptRepo(db)
	progressRepo := pgRepo.NewProgressRepo(db)
	practiceQuizRepo := pgRepo.NewPracticeQuizRepo(db)
	feedbackRepo := pgRepo.NewFeedbackRepo(db)

	refreshTokenRepo, err := pgRepo.NewRefreshTokenRepo(db)
	if err != nil {
		log.Printf("Failed to initialize RefreshTokenRepo: %v", err)
		os.Exit(1)
	}

	cacheRepo, err := redisRepo.NewCacheRepo(redisClient)
	if err != nil {
		log.Printf("Failed to initialize CacheRepo: %v", err)
		os.Exit(1)
	}

	// Инициализируем JWT сервис
	jwtService, err := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpirationHrs)
	if err != nil {
		log.Printf("Failed to initialize JWTService: %v", err)
		os.Exit(1)
	}

	// Выбираем отправителя писем: Resend или noop, если почта выключена
	var emailService service.EmailService
	if cfg.Email.Enabled {
		emailService, err = service.NewResendEmailService(cfg.Email.APIKey, cfg.Email.From)
		if err != nil {
			log.Printf("Failed to initialize email service: %v", err)
			os.Exit(1)
		}
		log.Println("Email sending enabled (Resend)")
	} else {
		emailService = &service.NoopEmailService{}
		log.Println("Email sending disabled, using noop sender")
	}

	// Инициализируем сервисы
	authService, err := service.NewAuthService(
		userRepo,
		jwtService,
		refreshTokenRepo,
		emailService,
		cfg.Auth.SessionLimit,
		cfg.Auth.RefreshTokenLifetime,
	)
	if err != nil {
		log.Printf("Failed to initialize AuthService: %v", err)
		os.Exit(1)
	}

	userService := service.NewUserService(userRepo, progressRepo)
	questionService := service.NewQuestionService(questionRepo)
	attemptService := service.NewAttemptService(questionRepo, attemptRepo, progressRepo, userRepo, cacheRepo)
	learningService := service.NewLearningService(
		attemptRepo,
		userRepo,
		questionRepo,
		practiceQuizRepo,
		cfg.Engine.ProfileWindow,
		cfg.Engine.DefaultStrategy,
	)
	feedbackService := service.NewFeedbackService(feedbackRepo, userRepo, emailService)

	// Инициализируем обработчики
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	questionHandler := handler.NewQuestionHandler(questionService)
	attemptHandler := handler.NewAttemptHandler(attemptService)
	learningHandler := handler.NewLearningHandler(learningService)
	feedbackHandler := handler.NewFeedbackHandler(feedbackService)
	practiceWSHandler := handler.NewPracticeWSHandler(attemptService, jwtService, allowedOrigins)

	// Инициализируем middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService)
	rateLimiter := middleware.NewRateLimiter(redisClient)

	// Создаем корневой контекст приложения для фоновых горутин
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Периодическая очистка истекших refresh-токенов
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()

		log.Println("Запуск периодической очистки истекших refresh-токенов (каждый час)")

		for {
			select {
			case <-ticker.C:
				if err := authService.CleanupExpiredTokens(); err != nil {
					log.Printf("Ошибка при очистке refresh-токенов: %v", err)
				}
			case <-ctx.Done():
				log.Println("Завершение работы горутины очистки токенов")
				return
			}
		}
	}()

	// Инициализируем роутер Gin
	router := gin.Default()

	// Настройка доверенных прокси для корректной работы c.ClientIP()
	// В production (GIN_MODE=release): не доверяем прокси (защита от IP spoofing)
	// В development: доверяем localhost
	isProduction := gin.Mode() == gin.ReleaseMode
	if isProduction {
		if err := router.SetTrustedProxies(nil); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	} else {
		if err := router.SetTrustedProxies([]string{"127.0.0.1", "::1"}); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	}

	// Настройка CORS
	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Настраиваем маршруты API
	api := router.Group("/api")
	{
		// Аутентификация
		authGroup := api.Group("/auth")
		authGroup.Use(rateLimiter.Limit(middleware.DefaultAuthRateLimitConfig()))
		{
			// Самые чувствительные маршруты получают строгий лимит
			strict := rateLimiter.LimitByIP(middleware.StrictAuthRateLimitConfig())
			authGroup.POST("/register", strict, authHandler.Register)
			authGroup.POST("/login", strict, authHandler.Login)
			authGroup.POST("/refresh", authHandler.RefreshToken)

			authedAuth := authGroup.Group("/")
			authedAuth.Use(authMiddleware.RequireAuth())
			{
				authedAuth.POST("/logout", authHandler.Logout)
				authedAuth.POST("/logout-all", authHandler.LogoutAllDevices)
				authedAuth.GET("/sessions", authHandler.GetActiveSessions)
				authedAuth.POST("/revoke-session", authHandler.RevokeSession)
				authedAuth.POST("/change-password", authHandler.ChangePassword)
			}
		}

		// Пользователи
		users := api.Group("/users")
		users.Use(authMiddleware.RequireAuth())
		{
			users.GET("/me", authHandler.GetMe)
			users.PUT("/me", userHandler.UpdateProfile)
			users.GET("/me/progress", userHandler.GetProgressOverview)
		}

		// Лидерборд (публичный маршрут)
		api.GET("/leaderboard", userHandler.GetLeaderboard)

		// Вопросы
		questions := api.Group("/questions")
		questions.Use(authMiddleware.RequireAuth())
		{
			// Чтение доступно всем аутентифицированным пользователям
			questions.GET("", questionHandler.ListQuestions)

			questionWithID := questions.Group("/:id")
			questionWithID.Use(middleware.ExtractUintParam("id", "questionID"))
			{
				questionWithID.GET("", questionHandler.GetQuestion)
			}

			// Авторинг доступен только администраторам
			adminQuestions := questions.Group("")
			adminQuestions.Use(authMiddleware.AdminOnly())
			{
				adminQuestions.POST("", questionHandler.CreateQuestion)
				adminQuestions.POST("/batch", questionHandler.CreateBatch)
				adminQuestions.POST("/assess", questionHandler.AssessQuestion)
				adminQuestions.GET("/stats", questionHandler.GetPoolStats)

				adminWithID := adminQuestions.Group("/:id")
				adminWithID.Use(middleware.ExtractUintParam("id", "questionID"))
				{
					adminWithID.PUT("", questionHandler.UpdateQuestion)
					adminWithID.DELETE("", questionHandler.DeleteQuestion)
				}
			}
		}

		// Попытки ответов
		attempts := api.Group("/attempts")
		attempts.Use(authMiddleware.RequireAuth())
		{
			attempts.POST("", attemptHandler.SubmitAnswer)
			attempts.GET("", attemptHandler.GetHistory)
		}

		// Адаптивное обучение
		learning := api.Group("/learning")
		learning.Use(authMiddleware.RequireAuth())
		{
			learning.GET("/profile", learningHandler.GetProfile)
			learning.GET("/behavior", learningHandler.GetBehavior)
			learning.POST("/difficulty", learningHandler.AdjustDifficulty)
			learning.POST("/path", learningHandler.PlanLearningPath)
			learning.GET("/export", learningHandler.ExportProgress)

			quizzes := learning.Group("/quizzes")
			{
				quizzes.POST("", learningHandler.GeneratePracticeQuiz)

				quizWithID := quizzes.Group("/:id")
				quizWithID.Use(middleware.ExtractUintParam("id", "quizID"))
				{
					quizWithID.GET("", learningHandler.GetPracticeQuiz)
					quizWithID.POST("/complete", learningHandler.CompletePracticeQuiz)
				}
			}
		}

		// Обратная связь
		feedback := api.Group("/feedback")
		feedback.Use(authMiddleware.RequireAuth())
		{
			feedback.POST("", feedbackHandler.Submit)
			feedback.GET("", feedbackHandler.ListMine)

			adminFeedback := feedback.Group("")
			adminFeedback.Use(authMiddleware.AdminOnly())
			{
				adminFeedback.GET("/review", feedbackHandler.ListByStatus)

				feedbackWithID := adminFeedback.Group("/:id")
				feedbackWithID.Use(middleware.ExtractUintParam("id", "feedbackID"))
				{
					feedbackWithID.POST("/reviewed", feedbackHandler.MarkReviewed)
				}
			}
		}
	}

	// WebSocket маршрут сессии практики
	router.GET("/ws/practice", practiceWSHandler.HandleConnection)

	// Настраиваем HTTP сервер с тайм-аутами для защиты от slow client attacks
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Запускаем сервер в горутине
	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Failed to start server: %v", err)
		}
	}()

	log.Printf("Server started on port %s", cfg.Server.Port)

	// Ожидаем сигнал остановки
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Отправляем сигнал завершения для всех горутин
	cancel()

	// Создаем контекст с таймаутом для graceful shutdown сервера
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
		os.Exit(1)
	}

	log.Println("Server exited properly")
}
