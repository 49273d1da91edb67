package services

import (
	"testing"

	"github.com/lexiquest-app/lexi_api/shared"
)

func TestAddPointsRejectsNonPositive(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "alice", "Engineering", 0)

	if _, _, err := env.pointsSvc.AddPoints(user.ID, 0, shared.PointsReasonQuiz); err == nil {
		t.Fatalf("expected error for zero amount")
	}
	if _, _, err := env.pointsSvc.AddPoints(user.ID, -10, shared.PointsReasonQuiz); err == nil {
		t.Fatalf("expected error for negative amount")
	}
}

func TestAddPointsAccumulates(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "alice", "Engineering", 0)

	if _, _, err := env.pointsSvc.AddPoints(user.ID, 40, shared.PointsReasonQuiz); err != nil {
		t.Fatalf("AddPoints failed: %v", err)
	}
	balance, _, err := env.pointsSvc.AddPoints(user.ID, 60, shared.PointsReasonQuiz)
	if err != nil {
		t.Fatalf("AddPoints failed: %v", err)
	}
	if balance != 100 {
		t.Fatalf("expected balance 100, got %d", balance)
	}
}

func TestAddPointsUnknownUser(t *testing.T) {
	env := newTestEnv(t)

	_, _, err := env.pointsSvc.AddPoints("missing", 10, shared.PointsReasonQuiz)
	if err == nil {
		t.Fatalf("expected error for unknown user")
	}
	appErr, ok := shared.GetAppError(err)
	if !ok || appErr.StatusCode != 404 {
		t.Fatalf("expected 404, got %v", err)
	}
}

func TestThresholdCrossingAwardsBadge(t *testing.T) {
	env := newTestEnv(t)
	env.seedBadgeCatalog(t)
	user := env.createUser(t, "alice", "Engineering", 950)

	balance, newBadges, err := env.pointsSvc.AddPoints(user.ID, 60, shared.PointsReasonQuiz)
	if err != nil {
		t.Fatalf("AddPoints failed: %v", err)
	}
	if balance != 1010 {
		t.Fatalf("expected balance 1010, got %d", balance)
	}

	if !containsBadge(newBadges, "Bronze Shield") {
		t.Fatalf("expected Bronze Shield in %v", newBadges)
	}
	// Lower tiers were never granted before, so they arrive now too.
	if !containsBadge(newBadges, "Shield") || !containsBadge(newBadges, "Medium Shield") {
		t.Fatalf("expected lower tiers in %v", newBadges)
	}
	if containsBadge(newBadges, "Silver Shield") {
		t.Fatalf("Silver Shield must not be awarded at 1010 points")
	}
}

func TestBadgeAwardedOnlyOnce(t *testing.T) {
	env := newTestEnv(t)
	env.seedBadgeCatalog(t)
	user := env.createUser(t, "alice", "Engineering", 250)

	_, first, err := env.pointsSvc.AddPoints(user.ID, 100, shared.PointsReasonQuiz)
	if err != nil {
		t.Fatalf("AddPoints failed: %v", err)
	}
	if !containsBadge(first, "Shield") {
		t.Fatalf("expected Shield in %v", first)
	}

	_, second, err := env.pointsSvc.AddPoints(user.ID, 10, shared.PointsReasonQuiz)
	if err != nil {
		t.Fatalf("AddPoints failed: %v", err)
	}
	if containsBadge(second, "Shield") {
		t.Fatalf("Shield must not be awarded twice")
	}

	badges, err := env.pointsSvc.GetUserBadges(user.ID)
	if err != nil {
		t.Fatalf("GetUserBadges failed: %v", err)
	}
	count := 0
	for _, b := range badges {
		if b.Name == "Shield" {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("expected exactly one Shield record, got %d", count)
	}
}

func TestMissingCatalogBadgeIsSkipped(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "alice", "Engineering", 0)

	// No catalog seeded: crossing a threshold must not fail the credit.
	balance, newBadges, err := env.pointsSvc.AddPoints(user.ID, 400, shared.PointsReasonQuiz)
	if err != nil {
		t.Fatalf("AddPoints failed: %v", err)
	}
	if balance != 400 {
		t.Fatalf("expected balance 400, got %d", balance)
	}
	if len(newBadges) != 0 {
		t.Fatalf("expected no badges, got %v", newBadges)
	}
}

func TestLeaderboardRanksByPoints(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice", "Engineering", 500)
	env.createUser(t, "bob", "Engineering", 900)
	env.createUser(t, "carol", "Marketing", 100)

	resp, err := env.pointsSvc.GetLeaderboard(alice.ID, 10)
	if err != nil {
		t.Fatalf("GetLeaderboard failed: %v", err)
	}
	if len(resp.TopUsers) != 3 {
		t.Fatalf("expected 3 users, got %d", len(resp.TopUsers))
	}
	if resp.TopUsers[0].Username != "bob" || resp.TopUsers[0].Rank != 1 {
		t.Fatalf("expected bob first, got %+v", resp.TopUsers[0])
	}
	if resp.CurrentUser.UserID != alice.ID || resp.CurrentUser.Rank != 2 {
		t.Fatalf("expected alice ranked 2, got %+v", resp.CurrentUser)
	}
}

func containsBadge(badges []string, name string) bool {
	for _, b := range badges {
		if b == name {
			return true
		}
	}
	return false
}
