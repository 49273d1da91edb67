package services

import (
	"fmt"
	"os"
	"strconv"

	appContext "github.com/alphabatem/common/context"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	fiberSwagger "github.com/gofiber/swagger"
	log "github.com/sirupsen/logrus"

	docs "github.com/lexiquest-app/lexi_api/docs"
	"github.com/lexiquest-app/lexi_api/model"
	"github.com/lexiquest-app/lexi_api/services/handlers"
	"github.com/lexiquest-app/lexi_api/shared"
)

type HttpService struct {
	appContext.DefaultService

	authSvc      *AuthService
	rateLimitSvc *RateLimitService

	authHandler        *handlers.AuthHandler
	vocabHandler       *handlers.VocabHandler
	dailyHandler       *handlers.DailyHandler
	progressHandler    *handlers.ProgressHandler
	duelHandler        *handlers.DuelHandler
	battleHandler      *handlers.BattleHandler
	leaderboardHandler *handlers.LeaderboardHandler

	port int
	app  *fiber.App
}

const HTTP_SVC = "http_svc"

func (svc HttpService) Id() string {
	return HTTP_SVC
}

func (svc *HttpService) Configure(ctx *appContext.Context) error {
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
	monitoringSvc := svc.Service(MONITORING_SVC).(*MonitoringService)

	svc.authHandler = handlers.NewAuthHandler(svc.Service(AUTH_SVC).(*AuthService))
	svc.vocabHandler = handlers.NewVocabHandler(svc.Service(VOCAB_SVC).(*VocabService))
	svc.dailyHandler = handlers.NewDailyHandler(
		svc.Service(DAILY_SVC).(*DailyContentService),
		svc.Service(LEDGER_SVC).(*LedgerService),
	)
	svc.progressHandler = handlers.NewProgressHandler(
		svc.Service(POINTS_SVC).(*PointsService),
		svc.Service(STREAK_SVC).(*StreakService),
		svc.Service(GAMIFICATION_SVC).(*GamificationService),
	)
	svc.duelHandler = handlers.NewDuelHandler(svc.Service(DUEL_SVC).(*DuelService))
	svc.battleHandler = handlers.NewBattleHandler(svc.Service(BATTLE_SVC).(*BattleService))
	svc.leaderboardHandler = handlers.NewLeaderboardHandler(svc.Service(POINTS_SVC).(*PointsService))

	docs.SwaggerInfo.BasePath = ""

	app := fiber.New(fiber.Config{
		ErrorHandler: svc.handleError,
	})
	svc.app = app

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(MonitoringMiddleware(monitoringSvc))

	app.Get("/ping", svc.ping)
	app.Get("/swagger/*", fiberSwagger.HandlerDefault)

	svc.registerRoutes(app)

	log.WithField("port", svc.port).Info("http server starting")
	return app.Listen(fmt.Sprintf(":%v", svc.port))
}

func (svc *HttpService) registerRoutes(app *fiber.App) {
	v1 := app.Group("/api/v1")

	v1.Get("/ping", svc.ping)
	v1.Post("/register", svc.rateLimitSvc.Middleware("register"), svc.authHandler.Register)
	v1.Post("/login", svc.rateLimitSvc.Middleware("login"), svc.authHandler.Login)

	auth := v1.Group("", svc.authSvc.RequiredAuth())

	// Vocabulary catalog
	auth.Post("/terms", svc.authSvc.RequireRole(model.RoleAdmin), svc.vocabHandler.CreateTerm)
	auth.Get("/terms/learned", svc.dailyHandler.GetLearnedTerms)
	auth.Get("/terms/department/:department", svc.vocabHandler.GetTermsByDepartment)
	auth.Get("/terms/department/:department/unlearned", svc.vocabHandler.GetUnlearnedTerms)
	auth.Get("/terms/:termId", svc.vocabHandler.GetTerm)
	auth.Post("/terms/:termId/learned", svc.dailyHandler.MarkLearned)
	auth.Get("/departments", svc.vocabHandler.GetDepartments)

	// Daily content
	auth.Get("/daily/:department", svc.rateLimitSvc.Middleware("generation"), svc.dailyHandler.GetDailyContent)

	// Progress and gamification
	auth.Get("/me", svc.progressHandler.GetMe)
	auth.Post("/points", svc.progressHandler.AddPoints)
	auth.Post("/quiz/complete", svc.progressHandler.CompleteQuiz)
	auth.Post("/daily-mix/complete", svc.progressHandler.CompleteDailyMix)
	auth.Get("/streak", svc.progressHandler.GetStreak)
	auth.Post("/streak/complete", svc.progressHandler.CompleteStreak)
	auth.Post("/streak/save", svc.progressHandler.SaveStreak)
	auth.Get("/badges", svc.progressHandler.GetBadgeCatalog)
	auth.Get("/badges/me", svc.progressHandler.GetMyBadges)
	auth.Get("/leaderboard", svc.leaderboardHandler.GetLeaderboard)

	// Duels
	auth.Post("/duels", svc.rateLimitSvc.Middleware("generation"), svc.duelHandler.StartDuel)
	auth.Get("/duels", svc.duelHandler.GetDuelHistory)
	auth.Post("/duels/:duelId/complete", svc.duelHandler.CompleteDuel)

	// Battles
	auth.Post("/battles", svc.rateLimitSvc.Middleware("generation"), svc.battleHandler.CreateBattle)
	auth.Get("/battles", svc.battleHandler.ListBattles)
	auth.Get("/battles/open", svc.battleHandler.GetOpenBattles)
	auth.Get("/battles/:battleId", svc.battleHandler.GetBattle)
	auth.Post("/battles/:battleId/join", svc.battleHandler.JoinBattle)
	auth.Post("/battles/:battleId/submit", svc.battleHandler.SubmitAnswers)
}

func (svc *HttpService) Shutdown() {
	if svc.app != nil {
		_ = svc.app.Shutdown()
	}
}

// @Summary Ping
// @Description This endpoint checks the health of the service
// @Tags health
// @Accept  json
// @Produce json
// @Success 200 {object} shared.Response{data=string}
// @Router /ping [get]
func (svc *HttpService) ping(c *fiber.Ctx) error {
	c.Set("Cache-Control", "max-age=10")

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", "pong")
}

func (svc *HttpService) handleError(c *fiber.Ctx, err error) error {
	if appErr, ok := shared.GetAppError(err); ok {
		if appErr.StatusCode >= fiber.StatusInternalServerError {
			log.WithError(appErr.Err).WithField("path", c.Path()).Error(appErr.Message)
		}
		return shared.ResponseJSON(c, appErr.StatusCode, appErr.Message, appErr.Data)
	}

	if fiberErr, ok := err.(*fiber.Error); ok {
		return shared.ResponseJSON(c, fiberErr.Code, fiberErr.Message, nil)
	}

	log.WithError(err).WithField("path", c.Path()).Error("unhandled error")
	return shared.ResponseInternalError(c, err)
}
