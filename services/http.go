package services

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/alphabatem/common/context"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	log "github.com/sirupsen/logrus"

	"github.com/perplexity-school/api/services/handlers"
	"github.com/perplexity-school/api/shared"
)

type HttpService struct {
	context.DefaultService

	authSvc       *AuthService
	rateLimitSvc  *RateLimitService
	monitoringSvc *MonitoringService

	port   int
	server *fiber.App
}

const HTTP_SVC = "http_svc"

func (svc HttpService) Id() string {
	return HTTP_SVC
}

func (svc *HttpService) Configure(ctx *context.Context) error {
	if port := os.Getenv("HTTP_PORT"); port != "" {
		var err error
		if svc.port, err = strconv.Atoi(port); err != nil {
			return err
		}
	} else {
		svc.port = 8000
	}

	return svc.DefaultService.Configure(ctx)
}

func (svc *HttpService) Start() error {
	svc.authSvc = svc.Service(AUTH_SVC).(*AuthService)
	svc.rateLimitSvc = svc.Service(RATE_LIMIT_SVC).(*RateLimitService)
	svc.monitoringSvc = svc.Service(MONITORING_SVC).(*MonitoringService)

	authHandler := handlers.NewAuthHandler(svc.authSvc)
	userHandler := handlers.NewUserHandler(svc.Service(USER_SVC).(*UserService))
	lessonHandler := handlers.NewLessonHandler(
		svc.Service(LESSON_SVC).(*LessonService),
		svc.Service(NOTES_SVC).(*NotesService),
		svc.Service(MEDIA_SVC).(*MediaService),
	)
	quizHandler := handlers.NewQuizHandler(svc.Service(QUIZ_SVC).(*QuizService))
	promoHandler := handlers.NewPromoHandler(svc.Service(PROMO_SVC).(*PromoService))
	adminHandler := handlers.NewAdminHandler(
		svc.Service(ADMIN_SVC).(*AdminService),
		svc.Service(MEDIA_SVC).(*MediaService),
	)

	app := fiber.New(fiber.Config{
		ErrorHandler: svc.errorHandler,
		BodyLimit:    256 * 1024 * 1024, // direct video uploads
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOriginsFunc: func(origin string) bool { return true },
		AllowCredentials: true,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(MonitoringMiddleware(svc.monitoringSvc))
	app.Use(requestLogger())
	app.Use(svc.rateLimitSvc.IPRateLimit())

	app.Get("/ping", svc.ping)

	v1 := app.Group("/api/v1")
	v1.Get("/ping", svc.ping)

	// Public auth endpoints
	v1.Post("/register", svc.rateLimitSvc.RateLimit("register"), authHandler.Register)
	v1.Post("/verify-email", authHandler.VerifyEmail)
	v1.Post("/resend-verification", svc.rateLimitSvc.RateLimit("resend_verification"), authHandler.ResendVerification)
	v1.Post("/login", svc.rateLimitSvc.RateLimit("login"), authHandler.Login)
	v1.Post("/refresh", svc.rateLimitSvc.RateLimit("refresh"), authHandler.RefreshToken)
	v1.Post("/forgot-password", svc.rateLimitSvc.RateLimit("forgot_password"), authHandler.ForgotPassword)
	v1.Post("/reset-password", authHandler.ResetPassword)

	// Authenticated endpoints
	authed := v1.Group("", svc.authSvc.RequiredAuth())
	authed.Post("/logout", authHandler.Logout)
	authed.Post("/logout-all", authHandler.LogoutAll)
	authed.Post("/change-password", authHandler.ChangePassword)

	authed.Get("/me", userHandler.GetProfile)
	authed.Patch("/me", userHandler.UpdateProfile)
	authed.Get("/sessions", userHandler.GetSessions)
	authed.Delete("/sessions/:sessionId", userHandler.RevokeSession)

	authed.Get("/lessons", lessonHandler.GetCatalog)
	authed.Get("/lessons/:lessonId", lessonHandler.GetLesson)
	authed.Post("/lessons/:lessonId/complete", lessonHandler.MarkComplete)
	authed.Delete("/lessons/:lessonId/complete", lessonHandler.MarkIncomplete)
	authed.Put("/lessons/:lessonId/notes", svc.rateLimitSvc.RateLimit("notes_save"), lessonHandler.SaveNotes)
	authed.Get("/lessons/:lessonId/video-url", lessonHandler.GetVideoURL)

	authed.Get("/lessons/:lessonId/quiz", quizHandler.GetQuiz)
	authed.Post("/lessons/:lessonId/quiz/attempts", svc.rateLimitSvc.RateLimit("quiz_submit"), quizHandler.Submit)
	authed.Get("/lessons/:lessonId/quiz/attempts", quizHandler.GetAttempts)

	authed.Get("/promo", promoHandler.GetPromo)
	authed.Post("/promo/activate", svc.rateLimitSvc.RateLimit("promo_activate"), promoHandler.Activate)

	// Admin endpoints
	admin := v1.Group("/admin", svc.authSvc.RequiredAuth(), svc.authSvc.RequireAdmin())
	admin.Get("/lessons", adminHandler.ListLessons)
	admin.Post("/lessons", adminHandler.CreateLesson)
	admin.Put("/lessons/:lessonId", adminHandler.UpdateLesson)
	admin.Delete("/lessons/:lessonId", adminHandler.DeleteLesson)
	admin.Post("/lessons/:lessonId/reorder", adminHandler.ReorderLesson)
	admin.Post("/lessons/:lessonId/quiz", adminHandler.CreateQuiz)
	admin.Delete("/lessons/:lessonId/quiz", adminHandler.DeleteQuiz)
	admin.Post("/lessons/:lessonId/thumbnail", adminHandler.UploadThumbnail)
	admin.Post("/lessons/:lessonId/video", adminHandler.UploadVideo)
	admin.Get("/users", adminHandler.ListUsers)
	admin.Get("/users/:userId", adminHandler.GetUserDetail)
	admin.Put("/users/:userId/role", adminHandler.SetUserRole)
	admin.Put("/users/:userId/active", adminHandler.SetUserActive)
	admin.Get("/promo-codes", adminHandler.ListPromoCodes)
	admin.Put("/promo-codes/:codeId/expire", adminHandler.ExpirePromoCode)

	app.Use(func(c *fiber.Ctx) error {
		return shared.ResponseNotFound(c)
	})

	svc.server = app

	log.WithField("port", svc.port).Info("HTTP server starting")
	return app.Listen(fmt.Sprintf(":%v", svc.port))
}

func (svc *HttpService) Shutdown() {
	if svc.server != nil {
		_ = svc.server.Shutdown()
	}
}

// @Summary Ping
// @Description This endpoint checks the health of the service
// @Tags health
// @Produce json
// @Success 200 {object} shared.Response{data=string}
// @Router /ping [get]
func (svc *HttpService) ping(c *fiber.Ctx) error {
	c.Set("Cache-Control", "max-age=10")

	return shared.ResponseOK(c, "pong")
}

// requestLogger traces every request at the lowest level so production
// logs stay quiet unless TRACE is enabled.
func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		log.WithFields(log.Fields{
			"method":   c.Method(),
			"path":     c.Path(),
			"status":   c.Response().StatusCode(),
			"duration": time.Since(start).String(),
		}).Trace("Request handled")

		return err
	}
}

// errorHandler shapes every error returned from a handler. AppErrors
// keep their status and message; anything else is a 500 with the
// detail logged, not leaked.
func (svc *HttpService) errorHandler(c *fiber.Ctx, err error) error {
	if appErr, ok := shared.GetAppError(err); ok {
		return shared.ResponseJSON(c, appErr.StatusCode, appErr.Message, appErr.Data)
	}

	if fiberErr, ok := err.(*fiber.Error); ok {
		return shared.ResponseJSON(c, fiberErr.Code, fiberErr.Message, nil)
	}

	log.WithError(err).WithFields(log.Fields{
		"method": c.Method(),
		"path":   c.Path(),
	}).Error("Unhandled request error")

	return shared.ResponseInternalError(c, err)
}
