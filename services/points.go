// services/points.go
package services

import (
	"context"
	"fmt"
	"time"

	appContext "github.com/alphabatem/common/context"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/lexiquest-app/lexi_api/dto"
	"github.com/lexiquest-app/lexi_api/model"
	"github.com/lexiquest-app/lexi_api/shared"
)

// PointsService owns the points balance and the points-threshold badge
// tier. Balances only ever increase through AddPoints; the single
// deliberate decrease is the streak saver purchase in StreakService.
type PointsService struct {
	appContext.DefaultService
	sqlSvc   *SqlService
	redisSvc *RedisService
}

const POINTS_SVC = "points_svc"

// pointsThreshold badges are evaluated lowest first so a large award
// grants every tier it crosses in one pass.
var pointsThresholds = []struct {
	Points int
	Badge  string
}{
	{300, "Shield"},
	{500, "Medium Shield"},
	{1000, "Bronze Shield"},
	{2500, "Silver Shield"},
	{5000, "Gold Shield"},
}

const leaderboardCacheTTL = 60 * time.Second

func (svc PointsService) Id() string {
	return POINTS_SVC
}

func (svc *PointsService) Start() error {
	svc.sqlSvc = svc.Service(SQL_SVC).(*SqlService)
	svc.redisSvc = svc.Service(REDIS_SVC).(*RedisService)
	return nil
}

// AddPoints credits amount to the user's balance and awards any points
// badges the new balance crosses. It returns the fresh balance and the
// names of badges earned by this call.
func (svc *PointsService) AddPoints(userID string, amount int, reason string) (int, []string, error) {
	if amount <= 0 {
		return 0, nil, shared.NewBadRequestError(nil, "Points amount must be positive")
	}

	if err := svc.sqlSvc.AddPointsAtomic(userID, amount); err != nil {
		if err == gorm.ErrRecordNotFound {
			return 0, nil, shared.NewNotFoundError(err, "User not found")
		}
		return 0, nil, shared.NewInternalError(err, "Failed to add points")
	}

	user, err := svc.sqlSvc.GetUser(userID)
	if err != nil {
		return 0, nil, shared.NewInternalError(err, "Failed to reload user")
	}

	log.WithFields(log.Fields{
		"user_id": userID,
		"amount":  amount,
		"reason":  reason,
		"balance": user.Points,
	}).Info("points added")
	RecordPointsAwarded(reason, amount)

	newBadges := svc.evaluateThresholds(userID, user.Points)

	return user.Points, newBadges, nil
}

func (svc *PointsService) evaluateThresholds(userID string, balance int) []string {
	var earned []string
	for _, tier := range pointsThresholds {
		if balance < tier.Points {
			break
		}
		awarded, err := svc.AwardBadgeByName(userID, tier.Badge)
		if err != nil {
			log.WithError(err).WithField("badge", tier.Badge).Warn("badge award failed")
			continue
		}
		if awarded {
			earned = append(earned, tier.Badge)
		}
	}
	return earned
}

// AwardBadgeByName grants the named badge once. It returns true only
// when this call created the award. A badge missing from the catalog is
// not an error for the caller.
func (svc *PointsService) AwardBadgeByName(userID, name string) (bool, error) {
	badge, err := svc.sqlSvc.GetBadgeByName(name)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			log.WithField("badge", name).Warn("badge missing from catalog, skipping award")
			return false, nil
		}
		return false, err
	}

	has, err := svc.sqlSvc.HasBadge(userID, badge.ID)
	if err != nil {
		return false, err
	}
	if has {
		return false, nil
	}

	record := &model.UserBadge{
		ID:       uuid.Must(uuid.NewV7()).String(),
		UserID:   userID,
		BadgeID:  badge.ID,
		EarnedAt: time.Now(),
	}
	if err := svc.sqlSvc.CreateUserBadge(record); err != nil {
		if IsDuplicateKey(err) {
			return false, nil
		}
		return false, err
	}

	log.WithFields(log.Fields{"user_id": userID, "badge": name}).Info("badge awarded")
	RecordBadgeAwarded(name)
	return true, nil
}

func (svc *PointsService) GetUserBadges(userID string) ([]dto.BadgeResponse, error) {
	records, err := svc.sqlSvc.GetUserBadges(userID)
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to load badges")
	}

	badges := make([]dto.BadgeResponse, 0, len(records))
	for _, r := range records {
		earnedAt := r.EarnedAt
		badges = append(badges, dto.BadgeResponse{
			ID:          r.Badge.ID,
			Name:        r.Badge.Name,
			Description: r.Badge.Description,
			IconURL:     r.Badge.IconURL,
			Condition:   r.Badge.Condition,
			EarnedAt:    &earnedAt,
		})
	}
	return badges, nil
}

func (svc *PointsService) GetBadgeCatalog() ([]dto.BadgeResponse, error) {
	records, err := svc.sqlSvc.GetBadges()
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to load badge catalog")
	}

	badges := make([]dto.BadgeResponse, 0, len(records))
	for _, b := range records {
		badges = append(badges, dto.BadgeResponse{
			ID:          b.ID,
			Name:        b.Name,
			Description: b.Description,
			IconURL:     b.IconURL,
			Condition:   b.Condition,
		})
	}
	return badges, nil
}

// GetLeaderboard returns the top users by points plus the caller's own
// rank. The top list is cached for a minute; the caller row is always
// read fresh so users see their own updates immediately.
func (svc *PointsService) GetLeaderboard(userID string, limit int) (*dto.LeaderboardResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}

	ctx := context.Background()
	cacheKey := fmt.Sprintf("leaderboard:top:%d", limit)

	var top []dto.LeaderboardUserResponse
	found, err := svc.redisSvc.GetJSON(ctx, cacheKey, &top)
	if err != nil {
		log.WithError(err).Warn("leaderboard cache read failed")
	}

	if !found {
		users, err := svc.sqlSvc.GetTopUsersByPoints(limit)
		if err != nil {
			return nil, shared.NewInternalError(err, "Failed to load leaderboard")
		}

		top = make([]dto.LeaderboardUserResponse, 0, len(users))
		for i, u := range users {
			top = append(top, dto.LeaderboardUserResponse{
				UserID:       u.ID,
				Username:     u.Username,
				Department:   u.Department,
				Points:       u.Points,
				WordsLearned: u.WordsLearned,
				Streak:       svc.currentStreak(u.ID),
				Rank:         i + 1,
			})
		}

		if err := svc.redisSvc.Set(ctx, cacheKey, top, leaderboardCacheTTL); err != nil {
			log.WithError(err).Warn("leaderboard cache write failed")
		}
	}

	resp := &dto.LeaderboardResponse{TopUsers: top}

	if user, err := svc.sqlSvc.GetUser(userID); err == nil {
		rank, rerr := svc.sqlSvc.GetUserRankByPoints(userID)
		if rerr != nil {
			rank = 0
		}
		resp.CurrentUser = dto.LeaderboardUserResponse{
			UserID:       user.ID,
			Username:     user.Username,
			Department:   user.Department,
			Points:       user.Points,
			WordsLearned: user.WordsLearned,
			Streak:       svc.currentStreak(user.ID),
			Rank:         rank,
		}
	}

	return resp, nil
}

func (svc *PointsService) currentStreak(userID string) int {
	record, err := svc.sqlSvc.GetStreakRecord(userID)
	if err != nil {
		return 0
	}
	return record.CurrentStreak
}
