package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/lexiquest-app/lexi_api/dto"
)

type AuthServiceInterface interface {
	Register(req dto.RegisterRequest) (*dto.RegisterResponse, error)
	Login(req dto.LoginRequest) (*dto.LoginResponse, error)
	RequiredAuth() fiber.Handler
	RequireRole(role string) fiber.Handler
}

type VocabServiceInterface interface {
	CreateTerm(req dto.CreateTermRequest) (*dto.TermResponse, error)
	GetTerm(termID string) (*dto.TermResponse, error)
	GetTermsByDepartment(department string) (*dto.TermCollectionResponse, error)
	GetUnlearnedTerms(userID, department string) (*dto.TermCollectionResponse, error)
	GetDepartments() ([]string, error)
}

type LedgerServiceInterface interface {
	MarkLearned(userID, termID string) (*dto.MarkLearnedResponse, error)
	GetLearnedTerms(userID string) (*dto.LearnedTermCollectionResponse, error)
}

type DailyContentServiceInterface interface {
	GetOrCreate(ctx context.Context, userID, department string) (*dto.DailyContentResponse, error)
}

type PointsServiceInterface interface {
	AddPoints(userID string, amount int, reason string) (int, []string, error)
	GetUserBadges(userID string) ([]dto.BadgeResponse, error)
	GetBadgeCatalog() ([]dto.BadgeResponse, error)
	GetLeaderboard(userID string, limit int) (*dto.LeaderboardResponse, error)
}

type StreakServiceInterface interface {
	GetStreak(userID string) (*dto.StreakStatusResponse, error)
	SaveStreak(userID string) (*dto.StreakStatusResponse, error)
}

type GamificationServiceInterface interface {
	CompleteQuiz(userID string, req dto.CompleteQuizRequest) (*dto.CompletionResponse, error)
	CompleteDailyMix(userID string, req dto.CompleteQuizRequest) (*dto.CompletionResponse, error)
	CompleteStreak(userID string) (*dto.CompletionResponse, error)
	BuildUserSnapshot(userID string) (*dto.UserSnapshot, error)
}

type DuelServiceInterface interface {
	StartDuel(ctx context.Context, userID string, req dto.StartDuelRequest) (*dto.DuelResponse, error)
	CompleteDuel(duelID, userID string, req dto.CompleteDuelRequest) (*dto.CompleteDuelResponse, error)
	GetDuelHistory(userID string) ([]dto.DuelResponse, error)
}

type BattleServiceInterface interface {
	CreateBattle(ctx context.Context, userID string) (*dto.BattleResponse, error)
	JoinBattle(battleID, userID string) (*dto.BattleResponse, error)
	SubmitAnswers(battleID, userID string, req dto.SubmitBattleRequest) (*dto.BattleResponse, error)
	GetBattle(battleID, userID string) (*dto.BattleResponse, error)
	ListBattlesForUser(userID string) (*dto.BattleCollectionResponse, error)
	GetOpenBattles(userID string) (*dto.BattleCollectionResponse, error)
}
