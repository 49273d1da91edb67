// services/streak.go
package services

import (
	"time"

	appContext "github.com/alphabatem/common/context"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/lexiquest-app/lexi_api/dto"
	"github.com/lexiquest-app/lexi_api/model"
	"github.com/lexiquest-app/lexi_api/shared"
)

// StreakService tracks consecutive-day activity per user. Dates are
// compared as YYYY-MM-DD strings in server-local time; a completion
// after a one-day gap resets the chain to 1 rather than continuing it.
// Milestone rewards are reported back to the caller but never credited
// here, so one completion cannot double-credit through two paths.
type StreakService struct {
	appContext.DefaultService
	sqlSvc *SqlService
}

const STREAK_SVC = "streak_svc"

const dateLayout = "2006-01-02"

// streakMilestones pay out once per threshold crossing, on the
// completion that lands exactly on the threshold.
var streakMilestones = []struct {
	Days  int
	XP    int
	Badge string
}{
	{3, 50, "Streak Starter"},
	{7, 100, "Weekly Warrior"},
	{30, 500, "Monthly Master"},
}

func (svc StreakService) Id() string {
	return STREAK_SVC
}

func (svc *StreakService) Start() error {
	svc.sqlSvc = svc.Service(SQL_SVC).(*SqlService)
	return nil
}

// CompleteToday records today's activity. The second and later calls on
// the same day are no-ops reporting the current chain.
func (svc *StreakService) CompleteToday(userID string) (*dto.CompleteTodayResult, error) {
	record, err := svc.getOrCreateRecord(userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	today := now.Format(dateLayout)
	yesterday := now.AddDate(0, 0, -1).Format(dateLayout)

	if record.LastCompletedDate == today {
		return &dto.CompleteTodayResult{
			NewStreak:              record.CurrentStreak,
			IsFirstCompletionToday: false,
		}, nil
	}

	if record.LastCompletedDate == yesterday {
		record.CurrentStreak++
	} else {
		record.CurrentStreak = 1
	}
	if record.CurrentStreak > record.LongestStreak {
		record.LongestStreak = record.CurrentStreak
	}
	record.LastCompletedDate = today
	record.TotalDaysCompleted++

	if err := svc.sqlSvc.UpdateStreakRecord(record); err != nil {
		return nil, shared.NewInternalError(err, "Failed to update streak")
	}

	result := &dto.CompleteTodayResult{
		NewStreak:              record.CurrentStreak,
		IsFirstCompletionToday: true,
	}
	for _, m := range streakMilestones {
		if record.CurrentStreak == m.Days {
			result.MilestoneXP = m.XP
			result.MilestoneBadge = m.Badge
			break
		}
	}

	log.WithFields(log.Fields{
		"user_id": userID,
		"streak":  record.CurrentStreak,
	}).Info("streak day completed")

	return result, nil
}

func (svc *StreakService) GetStreak(userID string) (*dto.StreakStatusResponse, error) {
	record, err := svc.getOrCreateRecord(userID)
	if err != nil {
		return nil, err
	}

	today := time.Now().Format(dateLayout)

	return &dto.StreakStatusResponse{
		CurrentStreak:      record.CurrentStreak,
		LongestStreak:      record.LongestStreak,
		LastCompletedDate:  record.LastCompletedDate,
		StreakSaversUsed:   record.StreakSaversUsed,
		TotalDaysCompleted: record.TotalDaysCompleted,
		CompletedToday:     record.LastCompletedDate == today,
	}, nil
}

// SaveStreak buys back a chain that missed exactly yesterday: the last
// completion must be the day before yesterday, no older. Completing
// today after a saver continues the old chain.
func (svc *StreakService) SaveStreak(userID string) (*dto.StreakStatusResponse, error) {
	record, err := svc.getOrCreateRecord(userID)
	if err != nil {
		return nil, err
	}

	if record.CurrentStreak == 0 || record.LastCompletedDate == "" {
		return nil, shared.NewBadRequestError(nil, "No streak to save")
	}

	now := time.Now()
	today := now.Format(dateLayout)
	yesterday := now.AddDate(0, 0, -1).Format(dateLayout)
	dayBeforeYesterday := now.AddDate(0, 0, -2).Format(dateLayout)

	if record.LastCompletedDate == today || record.LastCompletedDate == yesterday {
		return nil, shared.NewBadRequestError(nil, "Streak is not at risk")
	}
	if record.LastCompletedDate != dayBeforeYesterday {
		return nil, shared.NewBadRequestError(nil, "Streak can no longer be saved")
	}

	ok, err := svc.sqlSvc.DeductPointsIfEnough(userID, shared.StreakSaverCost)
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to charge streak saver")
	}
	if !ok {
		return nil, shared.NewInsufficientPointsError(nil, "Not enough points for a streak saver")
	}

	record.LastCompletedDate = yesterday
	record.StreakSaversUsed++

	if err := svc.sqlSvc.UpdateStreakRecord(record); err != nil {
		// The charge already landed; put it back.
		if rerr := svc.sqlSvc.AddPointsAtomic(userID, shared.StreakSaverCost); rerr != nil {
			log.WithError(rerr).WithField("user_id", userID).Error("failed to refund streak saver charge")
		}
		return nil, shared.NewInternalError(err, "Failed to update streak")
	}

	log.WithFields(log.Fields{
		"user_id": userID,
		"streak":  record.CurrentStreak,
	}).Info("streak saver applied")
	RecordStreakSaverUsed()

	return &dto.StreakStatusResponse{
		CurrentStreak:      record.CurrentStreak,
		LongestStreak:      record.LongestStreak,
		LastCompletedDate:  record.LastCompletedDate,
		StreakSaversUsed:   record.StreakSaversUsed,
		TotalDaysCompleted: record.TotalDaysCompleted,
	}, nil
}

func (svc *StreakService) getOrCreateRecord(userID string) (*model.StreakRecord, error) {
	record, err := svc.sqlSvc.GetStreakRecord(userID)
	if err == nil {
		return record, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, shared.NewInternalError(err, "Failed to load streak")
	}

	fresh := &model.StreakRecord{
		ID:     uuid.Must(uuid.NewV7()).String(),
		UserID: userID,
	}
	created, err := svc.sqlSvc.CreateStreakRecord(fresh)
	if err != nil {
		if IsDuplicateKey(err) {
			return svc.sqlSvc.GetStreakRecord(userID)
		}
		return nil, shared.NewInternalError(err, "Failed to create streak record")
	}
	return created, nil
}
