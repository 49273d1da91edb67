package services

import (
	"math"
	"testing"

	"github.com/lexiquest-app/lexi_api/dto"
	"github.com/lexiquest-app/lexi_api/shared"
)

func TestCompleteQuizScoring(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "alice", "Engineering", 0)

	resp, err := env.gamificationSvc.CompleteQuiz(user.ID, dto.CompleteQuizRequest{Correct: 3, Total: 5})
	if err != nil {
		t.Fatalf("CompleteQuiz failed: %v", err)
	}
	if want := 3 * shared.XPQuizPerCorrect; resp.XPEarned != want {
		t.Fatalf("expected %d XP, got %d", want, resp.XPEarned)
	}
	if resp.Streak.NewStreak != 1 {
		t.Fatalf("first completion should start the streak, got %d", resp.Streak.NewStreak)
	}
	if resp.User.QuizzesTaken != 1 {
		t.Fatalf("expected 1 quiz taken, got %d", resp.User.QuizzesTaken)
	}
}

func TestCompleteQuizPerfectBonus(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "alice", "Engineering", 0)

	resp, err := env.gamificationSvc.CompleteQuiz(user.ID, dto.CompleteQuizRequest{Correct: 5, Total: 5})
	if err != nil {
		t.Fatalf("CompleteQuiz failed: %v", err)
	}
	if want := 5*shared.XPQuizPerCorrect + shared.XPQuizPerfect; resp.XPEarned != want {
		t.Fatalf("expected %d XP for a perfect run, got %d", want, resp.XPEarned)
	}
}

func TestCompleteQuizRejectsImpossibleScore(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "alice", "Engineering", 0)

	_, err := env.gamificationSvc.CompleteQuiz(user.ID, dto.CompleteQuizRequest{Correct: 6, Total: 5})
	appErr, ok := shared.GetAppError(err)
	if !ok || appErr.StatusCode != 400 {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestQuizRunningAverage(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "alice", "Engineering", 0)

	// 100%, then 50%: the average weights every run equally.
	if _, err := env.gamificationSvc.CompleteQuiz(user.ID, dto.CompleteQuizRequest{Correct: 4, Total: 4}); err != nil {
		t.Fatalf("CompleteQuiz failed: %v", err)
	}
	resp, err := env.gamificationSvc.CompleteQuiz(user.ID, dto.CompleteQuizRequest{Correct: 2, Total: 4})
	if err != nil {
		t.Fatalf("CompleteQuiz failed: %v", err)
	}

	if resp.User.QuizzesTaken != 2 {
		t.Fatalf("expected 2 quizzes taken, got %d", resp.User.QuizzesTaken)
	}
	if math.Abs(resp.User.AvgQuizScore-75) > 0.001 {
		t.Fatalf("expected average 75, got %f", resp.User.AvgQuizScore)
	}
}

func TestCompleteDailyMixMarksStreakOnce(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "alice", "Engineering", 0)

	first, err := env.gamificationSvc.CompleteDailyMix(user.ID, dto.CompleteQuizRequest{Correct: 5, Total: 5})
	if err != nil {
		t.Fatalf("CompleteDailyMix failed: %v", err)
	}
	if !first.Streak.IsFirstCompletionToday {
		t.Fatalf("first completion of the day should mark the streak")
	}

	second, err := env.gamificationSvc.CompleteDailyMix(user.ID, dto.CompleteQuizRequest{Correct: 5, Total: 5})
	if err != nil {
		t.Fatalf("CompleteDailyMix failed: %v", err)
	}
	if second.Streak.IsFirstCompletionToday {
		t.Fatalf("second completion must not re-mark the streak")
	}
	if second.Streak.NewStreak != first.Streak.NewStreak {
		t.Fatalf("streak changed within one day")
	}
	if second.User.QuizzesTaken != 0 {
		t.Fatalf("daily mix must not count toward quiz stats")
	}
}

func TestCompleteStreakAwardsNoXP(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "alice", "Engineering", 0)

	resp, err := env.gamificationSvc.CompleteStreak(user.ID)
	if err != nil {
		t.Fatalf("CompleteStreak failed: %v", err)
	}
	if resp.XPEarned != 0 {
		t.Fatalf("streak-only completion must not pay XP, got %d", resp.XPEarned)
	}
	if resp.Streak.NewStreak != 1 {
		t.Fatalf("expected streak 1, got %d", resp.Streak.NewStreak)
	}
	if resp.User.Points != 0 {
		t.Fatalf("expected balance 0, got %d", resp.User.Points)
	}
}

func TestMilestoneCreditedByFacade(t *testing.T) {
	env := newTestEnv(t)
	env.seedBadgeCatalog(t)
	user := env.createUser(t, "alice", "Engineering", 0)
	env.setLastCompleted(t, user.ID, 1, 2)

	resp, err := env.gamificationSvc.CompleteQuiz(user.ID, dto.CompleteQuizRequest{Correct: 2, Total: 5})
	if err != nil {
		t.Fatalf("CompleteQuiz failed: %v", err)
	}
	if resp.Streak.NewStreak != 3 {
		t.Fatalf("expected streak 3, got %d", resp.Streak.NewStreak)
	}
	if resp.Streak.MilestoneXP != 50 {
		t.Fatalf("expected 50 milestone XP, got %d", resp.Streak.MilestoneXP)
	}
	if !containsBadge(resp.User.NewBadges, "Streak Starter") {
		t.Fatalf("expected Streak Starter, got %v", resp.User.NewBadges)
	}

	// Quiz XP and milestone XP both land on the balance.
	if want := 2*shared.XPQuizPerCorrect + 50; resp.User.Points != want {
		t.Fatalf("expected balance %d, got %d", want, resp.User.Points)
	}
}
