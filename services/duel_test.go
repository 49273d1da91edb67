package services

import (
	"context"
	"testing"

	"github.com/lexiquest-app/lexi_api/dto"
	"github.com/lexiquest-app/lexi_api/shared"
)

func TestStartDuelBuildsQuiz(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "alice", "Engineering", 0)
	env.seedDepartment(t, "Engineering", 5)

	resp, err := env.duelSvc.StartDuel(context.Background(), user.ID, dto.StartDuelRequest{Difficulty: "medium"})
	if err != nil {
		t.Fatalf("StartDuel failed: %v", err)
	}
	if resp.TotalQuestions != shared.DailyQuizQuestions {
		t.Fatalf("expected %d questions, got %d", shared.DailyQuizQuestions, resp.TotalQuestions)
	}
	if resp.Completed {
		t.Fatalf("new duel must not be completed")
	}
}

func TestStartDuelRejectsBadDifficulty(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "alice", "Engineering", 0)
	env.seedDepartment(t, "Engineering", 5)

	_, err := env.duelSvc.StartDuel(context.Background(), user.ID, dto.StartDuelRequest{Difficulty: "impossible"})
	if err == nil {
		t.Fatalf("expected validation error")
	}
	appErr, ok := shared.GetAppError(err)
	if !ok || appErr.StatusCode != 400 {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestCompleteDuelWin(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "alice", "Engineering", 0)
	env.seedDepartment(t, "Engineering", 5)

	duel, err := env.duelSvc.StartDuel(context.Background(), user.ID, dto.StartDuelRequest{Difficulty: "easy"})
	if err != nil {
		t.Fatalf("StartDuel failed: %v", err)
	}

	resp, err := env.duelSvc.CompleteDuel(duel.ID, user.ID, dto.CompleteDuelRequest{UserScore: 4, AiScore: 2})
	if err != nil {
		t.Fatalf("CompleteDuel failed: %v", err)
	}

	wantXP := shared.XPDuelWin + 4*shared.XPPerCorrect
	if resp.Duel.XPEarned != wantXP {
		t.Fatalf("expected %d XP for a win, got %d", wantXP, resp.Duel.XPEarned)
	}
	if resp.User.Points != wantXP {
		t.Fatalf("expected balance %d, got %d", wantXP, resp.User.Points)
	}
	if !resp.Duel.Completed {
		t.Fatalf("duel should be completed")
	}
}

func TestCompleteDuelDrawAndLoss(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "alice", "Engineering", 0)
	env.seedDepartment(t, "Engineering", 5)

	draw, err := env.duelSvc.StartDuel(context.Background(), user.ID, dto.StartDuelRequest{Difficulty: "easy"})
	if err != nil {
		t.Fatalf("StartDuel failed: %v", err)
	}
	resp, err := env.duelSvc.CompleteDuel(draw.ID, user.ID, dto.CompleteDuelRequest{UserScore: 3, AiScore: 3})
	if err != nil {
		t.Fatalf("CompleteDuel failed: %v", err)
	}
	if want := shared.XPDuelDraw + 3*shared.XPPerCorrect; resp.Duel.XPEarned != want {
		t.Fatalf("expected %d XP for a draw, got %d", want, resp.Duel.XPEarned)
	}

	loss, err := env.duelSvc.StartDuel(context.Background(), user.ID, dto.StartDuelRequest{Difficulty: "easy"})
	if err != nil {
		t.Fatalf("StartDuel failed: %v", err)
	}
	resp, err = env.duelSvc.CompleteDuel(loss.ID, user.ID, dto.CompleteDuelRequest{UserScore: 1, AiScore: 4})
	if err != nil {
		t.Fatalf("CompleteDuel failed: %v", err)
	}
	if want := shared.XPDuelLoss + 1*shared.XPPerCorrect; resp.Duel.XPEarned != want {
		t.Fatalf("expected %d XP for a loss, got %d", want, resp.Duel.XPEarned)
	}
}

func TestCompleteDuelOnlyOnce(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "alice", "Engineering", 0)
	env.seedDepartment(t, "Engineering", 5)

	duel, err := env.duelSvc.StartDuel(context.Background(), user.ID, dto.StartDuelRequest{Difficulty: "easy"})
	if err != nil {
		t.Fatalf("StartDuel failed: %v", err)
	}
	if _, err := env.duelSvc.CompleteDuel(duel.ID, user.ID, dto.CompleteDuelRequest{UserScore: 4, AiScore: 1}); err != nil {
		t.Fatalf("CompleteDuel failed: %v", err)
	}

	_, err = env.duelSvc.CompleteDuel(duel.ID, user.ID, dto.CompleteDuelRequest{UserScore: 5, AiScore: 0})
	appErr, ok := shared.GetAppError(err)
	if !ok || appErr.StatusCode != 409 {
		t.Fatalf("expected 409 for repeated completion, got %v", err)
	}
}

func TestCompleteDuelWrongOwner(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice", "Engineering", 0)
	bob := env.createUser(t, "bob", "Engineering", 0)
	env.seedDepartment(t, "Engineering", 5)

	duel, err := env.duelSvc.StartDuel(context.Background(), alice.ID, dto.StartDuelRequest{Difficulty: "easy"})
	if err != nil {
		t.Fatalf("StartDuel failed: %v", err)
	}

	_, err = env.duelSvc.CompleteDuel(duel.ID, bob.ID, dto.CompleteDuelRequest{UserScore: 4, AiScore: 1})
	appErr, ok := shared.GetAppError(err)
	if !ok || appErr.StatusCode != 404 {
		t.Fatalf("another user's duel must read as not found, got %v", err)
	}
}

func TestCompleteDuelScoreBounds(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "alice", "Engineering", 0)
	env.seedDepartment(t, "Engineering", 5)

	duel, err := env.duelSvc.StartDuel(context.Background(), user.ID, dto.StartDuelRequest{Difficulty: "easy"})
	if err != nil {
		t.Fatalf("StartDuel failed: %v", err)
	}

	_, err = env.duelSvc.CompleteDuel(duel.ID, user.ID, dto.CompleteDuelRequest{UserScore: duel.TotalQuestions + 1, AiScore: 0})
	appErr, ok := shared.GetAppError(err)
	if !ok || appErr.StatusCode != 400 {
		t.Fatalf("expected 400 for impossible score, got %v", err)
	}
}

func TestAiSlayerAfterFifthWin(t *testing.T) {
	env := newTestEnv(t)
	env.seedBadgeCatalog(t)
	user := env.createUser(t, "alice", "Engineering", 0)
	env.seedDepartment(t, "Engineering", 5)

	var last *dto.CompleteDuelResponse
	for i := 0; i < aiSlayerWins; i++ {
		duel, err := env.duelSvc.StartDuel(context.Background(), user.ID, dto.StartDuelRequest{Difficulty: "easy"})
		if err != nil {
			t.Fatalf("StartDuel failed: %v", err)
		}
		last, err = env.duelSvc.CompleteDuel(duel.ID, user.ID, dto.CompleteDuelRequest{UserScore: 5, AiScore: 2})
		if err != nil {
			t.Fatalf("CompleteDuel failed: %v", err)
		}
	}

	if !containsBadge(last.User.NewBadges, "AI Slayer") {
		t.Fatalf("expected AI Slayer on the fifth win, got %v", last.User.NewBadges)
	}

	badges, err := env.pointsSvc.GetUserBadges(user.ID)
	if err != nil {
		t.Fatalf("GetUserBadges failed: %v", err)
	}
	persisted := false
	for _, b := range badges {
		if b.Name == "AI Slayer" {
			persisted = true
		}
	}
	if !persisted {
		t.Fatalf("AI Slayer not persisted")
	}
}

func TestGetDuelHistory(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "alice", "Engineering", 0)
	env.seedDepartment(t, "Engineering", 5)

	for i := 0; i < 2; i++ {
		if _, err := env.duelSvc.StartDuel(context.Background(), user.ID, dto.StartDuelRequest{Difficulty: "easy"}); err != nil {
			t.Fatalf("StartDuel failed: %v", err)
		}
	}

	history, err := env.duelSvc.GetDuelHistory(user.ID)
	if err != nil {
		t.Fatalf("GetDuelHistory failed: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 duels, got %d", len(history))
	}
}
