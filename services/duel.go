// services/duel.go
package services

import (
	"context"
	"encoding/json"

	appContext "github.com/alphabatem/common/context"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/lexiquest-app/lexi_api/dto"
	"github.com/lexiquest-app/lexi_api/model"
	"github.com/lexiquest-app/lexi_api/shared"
)

// DuelService runs quiz matches against the AI. A duel has exactly one
// completion: the first CompleteDuel write is terminal and any repeat
// is rejected, so duel XP can never be credited twice.
type DuelService struct {
	appContext.DefaultService
	sqlSvc          *SqlService
	geminiSvc       *GeminiService
	pointsSvc       *PointsService
	gamificationSvc *GamificationService

	fallback *FallbackGenerator
}

const DUEL_SVC = "duel_svc"

// aiSlayerWins is the completed-duel win count that earns AI Slayer.
const aiSlayerWins = 5

func (svc DuelService) Id() string {
	return DUEL_SVC
}

func (svc *DuelService) Start() error {
	svc.sqlSvc = svc.Service(SQL_SVC).(*SqlService)
	svc.geminiSvc = svc.Service(GEMINI_SVC).(*GeminiService)
	svc.pointsSvc = svc.Service(POINTS_SVC).(*PointsService)
	svc.gamificationSvc = svc.Service(GAMIFICATION_SVC).(*GamificationService)

	svc.fallback = NewFallbackGenerator(svc.sqlSvc)
	return nil
}

func (svc *DuelService) StartDuel(ctx context.Context, userID string, req dto.StartDuelRequest) (*dto.DuelResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, shared.NewBadRequestError(err, "Invalid duel request")
	}

	user, err := svc.sqlSvc.GetUser(userID)
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to load user")
	}

	questions, err := svc.generateQuestions(ctx, user.Department, req.Difficulty)
	if err != nil {
		return nil, err
	}

	questionsJSON, err := json.Marshal(questions)
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to encode questions")
	}

	duel := &model.DuelSession{
		ID:             uuid.Must(uuid.NewV7()).String(),
		UserID:         userID,
		Difficulty:     req.Difficulty,
		AiPersonality:  req.AiPersonality,
		Questions:      questionsJSON,
		TotalQuestions: len(questions),
	}
	if _, err := svc.sqlSvc.CreateDuel(duel); err != nil {
		return nil, shared.NewInternalError(err, "Failed to create duel")
	}

	log.WithFields(log.Fields{
		"user_id":    userID,
		"duel_id":    duel.ID,
		"difficulty": req.Difficulty,
	}).Info("duel started")

	return svc.toResponse(duel)
}

func (svc *DuelService) CompleteDuel(duelID, userID string, req dto.CompleteDuelRequest) (*dto.CompleteDuelResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, shared.NewBadRequestError(err, "Invalid duel completion")
	}

	duel, err := svc.sqlSvc.GetDuel(duelID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, shared.NewNotFoundError(err, "Duel not found")
		}
		return nil, shared.NewInternalError(err, "Failed to load duel")
	}
	if duel.UserID != userID {
		return nil, shared.NewNotFoundError(nil, "Duel not found")
	}
	if duel.Completed {
		return nil, shared.NewConflictError(nil, "Duel already completed")
	}
	if req.UserScore > duel.TotalQuestions {
		return nil, shared.NewBadRequestError(nil, "Score exceeds question count")
	}

	xp := shared.XPDuelLoss
	switch {
	case req.UserScore > req.AiScore:
		xp = shared.XPDuelWin
	case req.UserScore == req.AiScore:
		xp = shared.XPDuelDraw
	}
	xp += req.UserScore * shared.XPPerCorrect

	wrongJSON, err := json.Marshal(req.WrongAnswers)
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to encode wrong answers")
	}

	duel.UserScore = req.UserScore
	duel.AiScore = req.AiScore
	duel.WrongAnswers = wrongJSON
	duel.XPEarned = xp
	duel.Completed = true
	if err := svc.sqlSvc.UpdateDuel(duel); err != nil {
		return nil, shared.NewInternalError(err, "Failed to complete duel")
	}

	_, newBadges, err := svc.pointsSvc.AddPoints(userID, xp, shared.PointsReasonDuel)
	if err != nil {
		return nil, err
	}

	if req.UserScore > req.AiScore {
		if badge := svc.checkAiSlayer(userID); badge != "" {
			newBadges = append(newBadges, badge)
		}
	}

	snapshot, err := svc.gamificationSvc.BuildUserSnapshot(userID)
	if err != nil {
		return nil, err
	}
	snapshot.NewBadges = newBadges

	resp, err := svc.toResponse(duel)
	if err != nil {
		return nil, err
	}

	return &dto.CompleteDuelResponse{Duel: *resp, User: *snapshot}, nil
}

func (svc *DuelService) GetDuelHistory(userID string) ([]dto.DuelResponse, error) {
	duels, err := svc.sqlSvc.GetUserDuels(userID)
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to load duel history")
	}

	history := make([]dto.DuelResponse, 0, len(duels))
	for i := range duels {
		resp, rerr := svc.toResponse(&duels[i])
		if rerr != nil {
			return nil, rerr
		}
		history = append(history, *resp)
	}
	return history, nil
}

func (svc *DuelService) generateQuestions(ctx context.Context, department, difficulty string) ([]model.QuizQuestion, error) {
	questions, err := svc.geminiSvc.GenerateQuiz(ctx, department, difficulty, shared.DailyQuizQuestions, nil)
	if err == nil {
		return questions, nil
	}

	log.WithError(err).WithField("department", department).
		Warn("remote quiz generation failed, using fallback")

	questions, err = svc.fallback.GenerateQuiz(ctx, department, difficulty, shared.DailyQuizQuestions, nil)
	if err != nil {
		return nil, shared.NewGenerationError(err, "No quiz available for this department")
	}
	return questions, nil
}

// checkAiSlayer awards AI Slayer once the lifetime win count reaches
// the threshold. Returns the badge name if this call awarded it.
func (svc *DuelService) checkAiSlayer(userID string) string {
	wins, err := svc.sqlSvc.CountDuelWins(userID)
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Warn("failed to count duel wins")
		return ""
	}
	if wins < aiSlayerWins {
		return ""
	}

	awarded, err := svc.pointsSvc.AwardBadgeByName(userID, "AI Slayer")
	if err != nil {
		log.WithError(err).Warn("failed to award AI Slayer")
		return ""
	}
	if awarded {
		return "AI Slayer"
	}
	return ""
}

func (svc *DuelService) toResponse(duel *model.DuelSession) (*dto.DuelResponse, error) {
	var questions []dto.QuizQuestionResponse
	if len(duel.Questions) > 0 {
		if err := json.Unmarshal(duel.Questions, &questions); err != nil {
			return nil, shared.NewInternalError(err, "Failed to decode questions")
		}
	}

	return &dto.DuelResponse{
		ID:             duel.ID,
		Difficulty:     duel.Difficulty,
		AiPersonality:  duel.AiPersonality,
		Questions:      questions,
		TotalQuestions: duel.TotalQuestions,
		UserScore:      duel.UserScore,
		AiScore:        duel.AiScore,
		XPEarned:       duel.XPEarned,
		Completed:      duel.Completed,
		CreatedAt:      duel.CreatedAt,
	}, nil
}
