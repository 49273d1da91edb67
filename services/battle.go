// services/battle.go
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

// BattleService runs asynchronous two-player quiz battles:
// pending -> active when an opponent claims the seat, completed when
// both scores are in. The join is a conditional state transition so two
// joiners can never both claim one battle, and the completion write is
// conditional so the winner is paid exactly once.
type BattleService struct {
	appContext.DefaultService
	sqlSvc          *SqlService
	geminiSvc       *GeminiService
	pointsSvc       *PointsService
	gamificationSvc *GamificationService

	fallback *FallbackGenerator
}

const BATTLE_SVC = "battle_svc"

func (svc BattleService) Id() string {
	return BATTLE_SVC
}

func (svc *BattleService) Start() error {
	svc.sqlSvc = svc.Service(SQL_SVC).(*SqlService)
	svc.geminiSvc = svc.Service(GEMINI_SVC).(*GeminiService)
	svc.pointsSvc = svc.Service(POINTS_SVC).(*PointsService)
	svc.gamificationSvc = svc.Service(GAMIFICATION_SVC).(*GamificationService)

	svc.fallback = NewFallbackGenerator(svc.sqlSvc)
	return nil
}

func (svc *BattleService) CreateBattle(ctx context.Context, userID string) (*dto.BattleResponse, error) {
	user, err := svc.sqlSvc.GetUser(userID)
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to load user")
	}

	questions, err := svc.geminiSvc.GenerateQuiz(ctx, user.Department, shared.DifficultyMedium, shared.DailyQuizQuestions, nil)
	if err != nil {
		log.WithError(err).WithField("department", user.Department).
			Warn("remote quiz generation failed, using fallback")
		questions, err = svc.fallback.GenerateQuiz(ctx, user.Department, shared.DifficultyMedium, shared.DailyQuizQuestions, nil)
		if err != nil {
			return nil, shared.NewGenerationError(err, "No quiz available for this department")
		}
	}

	questionsJSON, err := json.Marshal(questions)
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to encode questions")
	}

	battle := &model.AsyncBattle{
		ID:           uuid.Must(uuid.NewV7()).String(),
		ChallengerID: userID,
		Department:   user.Department,
		Questions:    questionsJSON,
		Status:       shared.BattleStatusPending,
	}
	if _, err := svc.sqlSvc.CreateBattle(battle); err != nil {
		return nil, shared.NewInternalError(err, "Failed to create battle")
	}

	log.WithFields(log.Fields{
		"battle_id":  battle.ID,
		"challenger": userID,
		"department": user.Department,
	}).Info("battle created")

	return svc.toResponse(battle, true)
}

// JoinBattle claims the opponent seat. The battle must still be pending
// and the joiner cannot be the challenger.
func (svc *BattleService) JoinBattle(battleID, userID string) (*dto.BattleResponse, error) {
	battle, err := svc.loadBattle(battleID)
	if err != nil {
		return nil, err
	}
	if battle.ChallengerID == userID {
		return nil, shared.NewBadRequestError(nil, "Cannot join your own battle")
	}

	claimed, err := svc.sqlSvc.ClaimBattle(battleID, userID)
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to join battle")
	}
	if !claimed {
		return nil, shared.NewConflictError(nil, "Battle is not available")
	}

	battle, err = svc.loadBattle(battleID)
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"battle_id": battleID,
		"opponent":  userID,
	}).Info("battle joined")

	return svc.toResponse(battle, true)
}

// SubmitAnswers records one participant's score. The submission that
// puts the second score in place completes the battle, decides the
// winner and pays out the win bonus.
func (svc *BattleService) SubmitAnswers(battleID, userID string, req dto.SubmitBattleRequest) (*dto.BattleResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, shared.NewBadRequestError(err, "Invalid battle submission")
	}

	battle, err := svc.loadBattle(battleID)
	if err != nil {
		return nil, err
	}
	if battle.Status == shared.BattleStatusCompleted {
		return nil, shared.NewConflictError(nil, "Battle already completed")
	}

	answersJSON, err := json.Marshal(req.Answers)
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to encode answers")
	}

	score := req.Score
	switch {
	case battle.ChallengerID == userID:
		if battle.ChallengerScore != nil {
			return nil, shared.NewConflictError(nil, "Score already submitted")
		}
		battle.ChallengerScore = &score
		battle.ChallengerAnswers = answersJSON
	case battle.OpponentID != nil && *battle.OpponentID == userID:
		if battle.OpponentScore != nil {
			return nil, shared.NewConflictError(nil, "Score already submitted")
		}
		battle.OpponentScore = &score
		battle.OpponentAnswers = answersJSON
	default:
		return nil, shared.NewBadRequestError(nil, "Not a participant in this battle")
	}

	if err := svc.sqlSvc.UpdateBattle(battle); err != nil {
		return nil, shared.NewInternalError(err, "Failed to record submission")
	}

	if battle.ChallengerScore != nil && battle.OpponentScore != nil {
		if err := svc.finalize(battle); err != nil {
			return nil, err
		}
	}

	return svc.toResponse(battle, true)
}

// finalize decides the winner and pays the win bonus. On a tie the
// winner stays nil and nobody is paid.
func (svc *BattleService) finalize(battle *model.AsyncBattle) error {
	var winnerID *string
	switch {
	case *battle.ChallengerScore > *battle.OpponentScore:
		winnerID = &battle.ChallengerID
	case *battle.OpponentScore > *battle.ChallengerScore:
		winnerID = battle.OpponentID
	}

	won, err := svc.sqlSvc.FinalizeBattle(battle.ID, winnerID)
	if err != nil {
		return shared.NewInternalError(err, "Failed to complete battle")
	}
	if !won {
		// Another submission finalized first.
		return nil
	}

	battle.Status = shared.BattleStatusCompleted
	battle.WinnerID = winnerID

	if winnerID != nil {
		if _, _, perr := svc.pointsSvc.AddPoints(*winnerID, shared.XPBattleWin, shared.PointsReasonBattle); perr != nil {
			log.WithError(perr).WithField("battle_id", battle.ID).Error("failed to credit battle winner")
		}
	}

	log.WithFields(log.Fields{
		"battle_id": battle.ID,
		"winner":    winnerID,
	}).Info("battle completed")
	RecordBattleCompleted()

	return nil
}

func (svc *BattleService) GetBattle(battleID, userID string) (*dto.BattleResponse, error) {
	battle, err := svc.loadBattle(battleID)
	if err != nil {
		return nil, err
	}

	participant := battle.ChallengerID == userID ||
		(battle.OpponentID != nil && *battle.OpponentID == userID)

	// Questions are only revealed to participants.
	return svc.toResponse(battle, participant)
}

func (svc *BattleService) ListBattlesForUser(userID string) (*dto.BattleCollectionResponse, error) {
	battles, err := svc.sqlSvc.GetBattlesForUser(userID)
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to load battles")
	}
	return svc.toCollection(battles, true)
}

func (svc *BattleService) GetOpenBattles(userID string) (*dto.BattleCollectionResponse, error) {
	user, err := svc.sqlSvc.GetUser(userID)
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to load user")
	}

	battles, err := svc.sqlSvc.GetOpenBattles(user.Department, userID)
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to load open battles")
	}
	return svc.toCollection(battles, false)
}

func (svc *BattleService) loadBattle(battleID string) (*model.AsyncBattle, error) {
	battle, err := svc.sqlSvc.GetBattle(battleID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, shared.NewNotFoundError(err, "Battle not found")
		}
		return nil, shared.NewInternalError(err, "Failed to load battle")
	}
	return battle, nil
}

func (svc *BattleService) toCollection(battles []model.AsyncBattle, withQuestions bool) (*dto.BattleCollectionResponse, error) {
	items := make([]dto.BattleResponse, 0, len(battles))
	for i := range battles {
		resp, err := svc.toResponse(&battles[i], withQuestions)
		if err != nil {
			return nil, err
		}
		items = append(items, *resp)
	}
	return &dto.BattleCollectionResponse{Battles: items, Total: len(items)}, nil
}

func (svc *BattleService) toResponse(battle *model.AsyncBattle, withQuestions bool) (*dto.BattleResponse, error) {
	resp := &dto.BattleResponse{
		ID:              battle.ID,
		ChallengerID:    battle.ChallengerID,
		OpponentID:      battle.OpponentID,
		Department:      battle.Department,
		ChallengerScore: battle.ChallengerScore,
		OpponentScore:   battle.OpponentScore,
		Status:          battle.Status,
		WinnerID:        battle.WinnerID,
		CreatedAt:       battle.CreatedAt,
	}

	if withQuestions && len(battle.Questions) > 0 {
		if err := json.Unmarshal(battle.Questions, &resp.Questions); err != nil {
			return nil, shared.NewInternalError(err, "Failed to decode questions")
		}
	}

	return resp, nil
}
