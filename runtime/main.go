package main

import (
	"github.com/alphabatem/common/context"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/lexiquest-app/lexi_api/services"
)

// @title LexiQuest API
// @version 1.0
// @description Gamified corporate vocabulary learning backend
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("No .env file found, using system environment")
	}

	ctx, err := context.NewCtx(
		&services.SqlService{},
		&services.RedisService{},
		&services.MinIOService{},
		&services.MonitoringService{},
		&services.JWTService{},
		&services.GeminiService{},
		&services.MediaService{},

		&services.AuthService{},
		&services.LedgerService{},
		&services.PointsService{},
		&services.StreakService{},
		&services.GamificationService{},
		&services.VocabService{},
		&services.DailyContentService{},
		&services.DuelService{},
		&services.BattleService{},

		&services.RateLimitService{},
		&services.SchedulerService{},
		&services.HttpService{},
	)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build service context")
		return
	}

	if err := ctx.Run(); err != nil {
		log.Fatal().Err(err).Msg("service context stopped")
		return
	}
}
