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

	"github.com/yourusername/lms-api/internal/config"
	"github.com/yourusername/lms-api/internal/handler"
	"github.com/yourusername/lms-api/internal/middleware"
	"github.com/yourusername/lms-api/internal/pkg/events"
	"github.com/yourusername/lms-api/internal/repository/postgres"
	redisrepo "github.com/yourusername/lms-api/internal/repository/redis"
	"github.com/yourusername/lms-api/internal/service"
	"github.com/yourusername/lms-api/pkg/auth"
	"github.com/yourusername/lms-api/pkg/database"
)

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Подключение к PostgreSQL и применение миграций
	db, err := database.NewPostgresDB(cfg.Database.PostgresConnectionString())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.MigrateDB(db); err != nil {
		log.Fatalf("Failed to run database migrations: %v", err)
	}

	// Подключение к Redis (состояние сессий, rate limiting)
	redisClient, err := database.NewUniversalRedisClient(cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	// Репозитории
	userRepo := postgres.NewUserRepo(db)
	quizRepo := postgres.NewQuizRepo(db)
	questionRepo := postgres.NewQuestionRepo(db)
	testRepo := postgres.NewTestRepo(db)
	gradeRepo := postgres.NewGradeRepo(db)
	courseRepo := postgres.NewCourseRepo(db)
	assignmentRepo := postgres.NewAssignmentRepo(db)
	badgeRepo := postgres.NewBadgeRepo(db)
	statsRepo := postgres.NewUserStatsRepo(db)
	cacheRepo, err := redisrepo.NewCacheRepo(redisClient)
	if err != nil {
		log.Fatalf("Failed to init cache repo: %v", err)
	}
	sessionStore := redisrepo.NewSessionStore(cacheRepo)

	// JWT
	jwtService, err := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpirationHrs)
	if err != nil {
		log.Fatalf("Failed to init JWT service: %v", err)
	}

	// Почтовые уведомления (Resend или noop)
	var emailService service.EmailService
	if cfg.Email.Enabled {
		emailService, err = service.NewResendEmailService(cfg.Email.ResendAPIKey, cfg.Email.From)
		if err != nil {
			log.Fatalf("Failed to init email service: %v", err)
		}
	} else {
		emailService = &service.NoopEmailService{}
	}

	// Диспетчер доменных событий: агрегация оценок и геймификация
	// реагируют на попытки и сдачи как best-effort подписчики
	dispatcher := events.NewDispatcher()

	// Сервисы
	authService := service.NewAuthService(userRepo, jwtService)
	quizService := service.NewQuizService(quizRepo, questionRepo)
	courseService := service.NewCourseService(courseRepo, dispatcher)
	sessionService := service.NewSessionService(quizRepo, questionRepo, courseRepo, testRepo, sessionStore, dispatcher)
	gradeService := service.NewGradeService(gradeRepo, quizRepo, testRepo, assignmentRepo, courseRepo, service.GradeWeights{
		Quiz:          cfg.Grades.QuizWeight,
		Assignment:    cfg.Grades.AssignmentWeight,
		Participation: cfg.Grades.ParticipationWeight,
	})
	gamificationService := service.NewGamificationService(statsRepo, badgeRepo, testRepo, assignmentRepo, userRepo, emailService, service.XPConfig{
		QuizBase:         cfg.XP.QuizBase,
		AssignmentSubmit: cfg.XP.AssignmentSubmit,
		DiscussionPost:   cfg.XP.DiscussionPost,
	})
	assignmentService := service.NewAssignmentService(assignmentRepo, courseRepo, &service.NoopAIGrader{}, dispatcher)

	// Подписки: порядок регистрации определяет порядок доставки
	dispatcher.Subscribe(events.AttemptSubmitted{}.Name(), gradeService.HandleAttemptSubmitted)
	dispatcher.Subscribe(events.AttemptSubmitted{}.Name(), gamificationService.HandleAttemptSubmitted)
	dispatcher.Subscribe(events.SubmissionGraded{}.Name(), gradeService.HandleSubmissionGraded)
	dispatcher.Subscribe(events.SubmissionGraded{}.Name(), gamificationService.HandleSubmissionGraded)
	dispatcher.Subscribe(events.ActivityRecorded{}.Name(), gamificationService.HandleActivityRecorded)

	// Обработчики
	authHandler := handler.NewAuthHandler(authService)
	quizHandler := handler.NewQuizHandler(quizService)
	sessionHandler := handler.NewSessionHandler(sessionService)
	attemptHandler := handler.NewAttemptHandler(testRepo)
	gradeHandler := handler.NewGradeHandler(gradeService, userRepo)
	gamificationHandler := handler.NewGamificationHandler(gamificationService)
	assignmentHandler := handler.NewAssignmentHandler(assignmentService)
	courseHandler := handler.NewCourseHandler(courseService)

	authMiddleware := middleware.NewAuthMiddleware(jwtService)
	rateLimiter := middleware.NewRateLimiter(redisClient)

	isProduction := gin.Mode() == gin.ReleaseMode
	router := gin.Default()

	// Доверенные прокси для корректного c.ClientIP(): IP попытки
	// сохраняется при отправке, спуфинг в production недопустим
	if isProduction {
		if err := router.SetTrustedProxies(nil); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	} else {
		if err := router.SetTrustedProxies([]string{"127.0.0.1", "::1"}); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173", "http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api := router.Group("/api")
	{
		authGroup := api.Group("/auth")
		authGroup.Use(rateLimiter.Limit(middleware.StrictAuthRateLimitConfig()))
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}

		authed := api.Group("/")
		authed.Use(authMiddleware.RequireAuth())
		{
			// Курсы
			courses := authed.Group("/courses")
			{
				courses.GET("", courseHandler.ListCourses)
				courses.POST("", authMiddleware.AdminOnly(), courseHandler.CreateCourse)

				course := courses.Group("/:id")
				course.Use(middleware.ExtractUintParam("id", "courseID"))
				{
					course.GET("", courseHandler.GetCourse)
					course.POST("/enroll", courseHandler.Enroll)
					course.POST("/discussion-activity", courseHandler.RecordDiscussionPost)
					course.GET("/assignments", assignmentHandler.ListByCourse)

					grades := course.Group("/grades")
					{
						grades.GET("/me", gradeHandler.GetMyGrade)
						grades.GET("", authMiddleware.AdminOnly(), gradeHandler.GetGradebook)
						grades.GET("/export", authMiddleware.AdminOnly(), gradeHandler.ExportGradebook)

						gradeUser := grades.Group("/:userId")
						gradeUser.Use(authMiddleware.AdminOnly(), middleware.ExtractUintParam("userId", "userID"))
						{
							gradeUser.POST("/recalculate", gradeHandler.Recalculate)
							gradeUser.PUT("/participation", gradeHandler.SetParticipation)
						}
					}
				}
			}

			// Викторины
			quizzes := authed.Group("/quizzes")
			{
				quizzes.GET("", quizHandler.ListQuizzes)
				quizzes.POST("", authMiddleware.AdminOnly(), quizHandler.CreateQuiz)

				quiz := quizzes.Group("/:id")
				quiz.Use(middleware.ExtractUintParam("id", "quizID"))
				{
					quiz.GET("", quizHandler.GetQuiz)
					quiz.POST("/questions", authMiddleware.AdminOnly(), quizHandler.AddQuestions)
					quiz.POST("/publish", authMiddleware.AdminOnly(), quizHandler.PublishQuiz)
					quiz.POST("/unpublish", authMiddleware.AdminOnly(), quizHandler.UnpublishQuiz)
					quiz.DELETE("", authMiddleware.AdminOnly(), quizHandler.DeleteQuiz)

					quiz.POST("/sessions",
						rateLimiter.Limit(middleware.SessionStartRateLimitConfig(cfg.RateLimit.SessionStartPerMinute)),
						sessionHandler.StartSession)
				}
			}

			// Квиз-сессии
			sessions := authed.Group("/sessions/:token")
			{
				sessions.GET("", sessionHandler.GetSession)
				sessions.PUT("/answers", sessionHandler.SetAnswer)
				sessions.PUT("/position", sessionHandler.Navigate)
				sessions.POST("/next", sessionHandler.ChangeQuestion)
				sessions.POST("/submit", sessionHandler.Submit)
			}

			// История попыток
			attempts := authed.Group("/attempts")
			{
				attempts.GET("", attemptHandler.ListMyAttempts)
				attempts.GET("/:id", middleware.ExtractUintParam("id", "attemptID"), attemptHandler.GetAttempt)
			}

			// Задания и сдачи
			assignments := authed.Group("/assignments")
			{
				assignments.POST("", authMiddleware.AdminOnly(), assignmentHandler.CreateAssignment)
				assignments.POST("/:id/submissions",
					middleware.ExtractUintParam("id", "assignmentID"),
					assignmentHandler.Submit)
			}
			submissions := authed.Group("/submissions/:id")
			submissions.Use(middleware.ExtractUintParam("id", "submissionID"), authMiddleware.AdminOnly())
			{
				submissions.POST("/grade", assignmentHandler.Grade)
				submissions.POST("/grade/ai", assignmentHandler.GradeWithAI)
				submissions.POST("/approve", assignmentHandler.Approve)
				submissions.POST("/reject", assignmentHandler.Reject)
			}

			// Геймификация
			gamification := authed.Group("/gamification")
			{
				gamification.GET("/me", gamificationHandler.GetMyStats)
				gamification.GET("/me/badges", gamificationHandler.GetMyBadges)
				gamification.GET("/leaderboard", gamificationHandler.GetLeaderboard)
			}
		}
	}

	// HTTP сервер с тайм-аутами для защиты от slow client attacks
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
		os.Exit(1)
	}

	if err := redisClient.Close(); err != nil {
		log.Printf("Error closing Redis client: %v", err)
	}

	log.Println("Server exited properly")
}
