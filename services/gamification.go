// services/gamification.go
package services

import (
	appContext "github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/lexiquest-app/lexi_api/dto"
	"github.com/lexiquest-app/lexi_api/shared"
)

// GamificationService is the facade the completion endpoints go
// through. It sequences the standalone trackers for one user action:
// XP first, then the streak, then milestone rewards, then the snapshot
// the client re-renders from.
type GamificationService struct {
	appContext.DefaultService
	sqlSvc    *SqlService
	pointsSvc *PointsService
	streakSvc *StreakService
}

const GAMIFICATION_SVC = "gamification_svc"

func (svc GamificationService) Id() string {
	return GAMIFICATION_SVC
}

func (svc *GamificationService) Start() error {
	svc.sqlSvc = svc.Service(SQL_SVC).(*SqlService)
	svc.pointsSvc = svc.Service(POINTS_SVC).(*PointsService)
	svc.streakSvc = svc.Service(STREAK_SVC).(*StreakService)
	return nil
}

// CompleteQuiz finalizes one quiz run: XP per correct answer plus a
// perfect-score bonus, today's streak mark, and the running quiz
// average update.
func (svc *GamificationService) CompleteQuiz(userID string, req dto.CompleteQuizRequest) (*dto.CompletionResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, shared.NewBadRequestError(err, "Invalid quiz completion")
	}
	if req.Correct > req.Total {
		return nil, shared.NewBadRequestError(nil, "Correct answers cannot exceed total")
	}

	xp := req.Correct * shared.XPQuizPerCorrect
	if req.Correct == req.Total {
		xp += shared.XPQuizPerfect
	}

	return svc.completeActivity(userID, xp, shared.PointsReasonQuiz, func() error {
		return svc.recordQuizScore(userID, req.Correct, req.Total)
	})
}

// CompleteDailyMix finalizes the daily mixed session. Scoring matches
// CompleteQuiz; only the attribution differs.
func (svc *GamificationService) CompleteDailyMix(userID string, req dto.CompleteQuizRequest) (*dto.CompletionResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, shared.NewBadRequestError(err, "Invalid daily mix completion")
	}
	if req.Correct > req.Total {
		return nil, shared.NewBadRequestError(nil, "Correct answers cannot exceed total")
	}

	xp := req.Correct * shared.XPQuizPerCorrect
	if req.Correct == req.Total {
		xp += shared.XPQuizPerfect
	}

	return svc.completeActivity(userID, xp, shared.PointsReasonDailyMix, nil)
}

// CompleteStreak marks today complete without an XP-earning activity
// attached, e.g. a reading-only session. Milestones still pay out.
func (svc *GamificationService) CompleteStreak(userID string) (*dto.CompletionResponse, error) {
	return svc.completeActivity(userID, 0, shared.PointsReasonStreak, nil)
}

// completeActivity runs the shared completion sequence. extra, when
// set, runs after the award and before the snapshot.
func (svc *GamificationService) completeActivity(userID string, xp int, reason string, extra func() error) (*dto.CompletionResponse, error) {
	var newBadges []string

	if xp > 0 {
		_, badges, err := svc.pointsSvc.AddPoints(userID, xp, reason)
		if err != nil {
			return nil, err
		}
		newBadges = append(newBadges, badges...)
	}

	streak, err := svc.streakSvc.CompleteToday(userID)
	if err != nil {
		return nil, err
	}

	if streak.MilestoneXP > 0 {
		_, badges, merr := svc.pointsSvc.AddPoints(userID, streak.MilestoneXP, shared.PointsReasonStreak)
		if merr != nil {
			log.WithError(merr).WithField("user_id", userID).Error("failed to credit streak milestone")
		} else {
			newBadges = append(newBadges, badges...)
		}
	}
	if streak.MilestoneBadge != "" {
		awarded, berr := svc.pointsSvc.AwardBadgeByName(userID, streak.MilestoneBadge)
		if berr != nil {
			log.WithError(berr).WithField("badge", streak.MilestoneBadge).Error("failed to award streak badge")
		} else if awarded {
			newBadges = append(newBadges, streak.MilestoneBadge)
		}
	}

	if extra != nil {
		if err := extra(); err != nil {
			return nil, err
		}
	}

	snapshot, err := svc.BuildUserSnapshot(userID)
	if err != nil {
		return nil, err
	}
	snapshot.NewBadges = newBadges

	return &dto.CompletionResponse{
		XPEarned: xp,
		Streak:   *streak,
		User:     *snapshot,
	}, nil
}

// recordQuizScore folds one quiz result into the true running average
// over all quizzes taken.
func (svc *GamificationService) recordQuizScore(userID string, correct, total int) error {
	user, err := svc.sqlSvc.GetUser(userID)
	if err != nil {
		return shared.NewInternalError(err, "Failed to load user")
	}

	score := float64(correct) / float64(total) * 100
	taken := user.QuizzesTaken + 1
	avg := (user.AvgQuizScore*float64(user.QuizzesTaken) + score) / float64(taken)

	if err := svc.sqlSvc.UpdateQuizStats(userID, taken, avg); err != nil {
		return shared.NewInternalError(err, "Failed to update quiz stats")
	}
	return nil
}

// BuildUserSnapshot assembles the post-action view of a user.
func (svc *GamificationService) BuildUserSnapshot(userID string) (*dto.UserSnapshot, error) {
	user, err := svc.sqlSvc.GetUser(userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, shared.NewNotFoundError(err, "User not found")
		}
		return nil, shared.NewInternalError(err, "Failed to load user")
	}

	streak := 0
	if record, serr := svc.sqlSvc.GetStreakRecord(userID); serr == nil {
		streak = record.CurrentStreak
	}

	return &dto.UserSnapshot{
		UserID:       user.ID,
		Username:     user.Username,
		Department:   user.Department,
		Points:       user.Points,
		WordsLearned: user.WordsLearned,
		Streak:       streak,
		QuizzesTaken: user.QuizzesTaken,
		AvgQuizScore: user.AvgQuizScore,
	}, nil
}
