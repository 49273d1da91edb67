package services

import (
	"testing"

	"github.com/lexiquest-app/lexi_api/shared"
)

func TestCompleteTodayFirstCompletion(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "alice", "Engineering", 0)

	result, err := env.streakSvc.CompleteToday(user.ID)
	if err != nil {
		t.Fatalf("CompleteToday failed: %v", err)
	}
	if result.NewStreak != 1 {
		t.Fatalf("expected streak 1, got %d", result.NewStreak)
	}
	if !result.IsFirstCompletionToday {
		t.Fatalf("expected first completion flag")
	}
}

func TestCompleteTodaySameDayIsNoOp(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "alice", "Engineering", 0)

	if _, err := env.streakSvc.CompleteToday(user.ID); err != nil {
		t.Fatalf("CompleteToday failed: %v", err)
	}

	result, err := env.streakSvc.CompleteToday(user.ID)
	if err != nil {
		t.Fatalf("second CompleteToday failed: %v", err)
	}
	if result.NewStreak != 1 {
		t.Fatalf("expected streak to stay at 1, got %d", result.NewStreak)
	}
	if result.IsFirstCompletionToday {
		t.Fatalf("second completion on the same day must not count")
	}

	status, err := env.streakSvc.GetStreak(user.ID)
	if err != nil {
		t.Fatalf("GetStreak failed: %v", err)
	}
	if status.TotalDaysCompleted != 1 {
		t.Fatalf("expected 1 total day, got %d", status.TotalDaysCompleted)
	}
}

func TestCompleteTodayContinuesFromYesterday(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "alice", "Engineering", 0)

	env.setLastCompleted(t, user.ID, 1, 4)

	result, err := env.streakSvc.CompleteToday(user.ID)
	if err != nil {
		t.Fatalf("CompleteToday failed: %v", err)
	}
	if result.NewStreak != 5 {
		t.Fatalf("expected streak 5, got %d", result.NewStreak)
	}
}

func TestCompleteTodayResetsAfterGap(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "alice", "Engineering", 0)

	env.setLastCompleted(t, user.ID, 3, 10)

	result, err := env.streakSvc.CompleteToday(user.ID)
	if err != nil {
		t.Fatalf("CompleteToday failed: %v", err)
	}
	if result.NewStreak != 1 {
		t.Fatalf("expected streak reset to 1, got %d", result.NewStreak)
	}

	status, err := env.streakSvc.GetStreak(user.ID)
	if err != nil {
		t.Fatalf("GetStreak failed: %v", err)
	}
	if status.LongestStreak != 10 {
		t.Fatalf("longest streak must survive the reset, got %d", status.LongestStreak)
	}
}

func TestCompleteTodayMilestone(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "alice", "Engineering", 0)

	env.setLastCompleted(t, user.ID, 1, 2)

	result, err := env.streakSvc.CompleteToday(user.ID)
	if err != nil {
		t.Fatalf("CompleteToday failed: %v", err)
	}
	if result.NewStreak != 3 {
		t.Fatalf("expected streak 3, got %d", result.NewStreak)
	}
	if result.MilestoneXP != 50 {
		t.Fatalf("expected milestone XP 50, got %d", result.MilestoneXP)
	}
	if result.MilestoneBadge != "Streak Starter" {
		t.Fatalf("expected Streak Starter badge, got %q", result.MilestoneBadge)
	}
}

func TestSaveStreakNotAtRisk(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "alice", "Engineering", 100)

	env.setLastCompleted(t, user.ID, 1, 3)

	if _, err := env.streakSvc.SaveStreak(user.ID); err == nil {
		t.Fatalf("expected error when streak is not at risk")
	}
}

func TestSaveStreakWithoutStreak(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "alice", "Engineering", 100)

	if _, err := env.streakSvc.SaveStreak(user.ID); err == nil {
		t.Fatalf("expected error when there is no streak to save")
	}
}

func TestSaveStreakExpiredChain(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "alice", "Engineering", 100)

	// Last completion 10 days back: the chain is dead, not at risk.
	env.setLastCompleted(t, user.ID, 10, 5)

	_, err := env.streakSvc.SaveStreak(user.ID)
	appErr, ok := shared.GetAppError(err)
	if !ok || appErr.StatusCode != 400 {
		t.Fatalf("expected 400 for a chain older than one missed day, got %v", err)
	}

	reloaded, err := env.sqlSvc.GetUser(user.ID)
	if err != nil {
		t.Fatalf("GetUser failed: %v", err)
	}
	if reloaded.Points != 100 {
		t.Fatalf("no charge may land on a rejected save, got %d", reloaded.Points)
	}

	// The dead chain resets on the next completion instead of continuing.
	result, err := env.streakSvc.CompleteToday(user.ID)
	if err != nil {
		t.Fatalf("CompleteToday failed: %v", err)
	}
	if result.NewStreak != 1 {
		t.Fatalf("expected streak reset to 1, got %d", result.NewStreak)
	}
}

func TestSaveStreakInsufficientPoints(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "alice", "Engineering", shared.StreakSaverCost-1)

	env.setLastCompleted(t, user.ID, 2, 5)

	_, err := env.streakSvc.SaveStreak(user.ID)
	if err == nil {
		t.Fatalf("expected insufficient points error")
	}
	appErr, ok := shared.GetAppError(err)
	if !ok || appErr.StatusCode != 402 {
		t.Fatalf("expected 402 error, got %v", err)
	}

	// The charge must not have gone through.
	reloaded, err := env.sqlSvc.GetUser(user.ID)
	if err != nil {
		t.Fatalf("GetUser failed: %v", err)
	}
	if reloaded.Points != shared.StreakSaverCost-1 {
		t.Fatalf("balance changed on failed save: %d", reloaded.Points)
	}
}

func TestSaveStreakRestoresChain(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "alice", "Engineering", 100)

	env.setLastCompleted(t, user.ID, 2, 5)

	status, err := env.streakSvc.SaveStreak(user.ID)
	if err != nil {
		t.Fatalf("SaveStreak failed: %v", err)
	}
	if status.CurrentStreak != 5 {
		t.Fatalf("expected streak 5 after save, got %d", status.CurrentStreak)
	}
	if status.StreakSaversUsed != 1 {
		t.Fatalf("expected 1 saver used, got %d", status.StreakSaversUsed)
	}

	reloaded, err := env.sqlSvc.GetUser(user.ID)
	if err != nil {
		t.Fatalf("GetUser failed: %v", err)
	}
	if reloaded.Points != 100-shared.StreakSaverCost {
		t.Fatalf("expected %d points, got %d", 100-shared.StreakSaverCost, reloaded.Points)
	}

	// Completing today now continues the saved chain.
	result, err := env.streakSvc.CompleteToday(user.ID)
	if err != nil {
		t.Fatalf("CompleteToday failed: %v", err)
	}
	if result.NewStreak != 6 {
		t.Fatalf("expected streak 6 after save and completion, got %d", result.NewStreak)
	}
}
