package services

import (
	"context"
	"testing"

	"github.com/lexiquest-app/lexi_api/dto"
	"github.com/lexiquest-app/lexi_api/shared"
)

func (env *testEnv) createBattle(t *testing.T, challengerID string) *dto.BattleResponse {
	t.Helper()
	battle, err := env.battleSvc.CreateBattle(context.Background(), challengerID)
	if err != nil {
		t.Fatalf("CreateBattle failed: %v", err)
	}
	return battle
}

func TestCreateBattleStartsPending(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice", "Engineering", 0)
	env.seedDepartment(t, "Engineering", 5)

	battle := env.createBattle(t, alice.ID)
	if battle.Status != shared.BattleStatusPending {
		t.Fatalf("expected pending status, got %q", battle.Status)
	}
	if len(battle.Questions) != shared.DailyQuizQuestions {
		t.Fatalf("expected %d questions, got %d", shared.DailyQuizQuestions, len(battle.Questions))
	}
	if battle.OpponentID != nil {
		t.Fatalf("new battle must have no opponent")
	}
}

func TestJoinBattle(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice", "Engineering", 0)
	bob := env.createUser(t, "bob", "Engineering", 0)
	env.seedDepartment(t, "Engineering", 5)

	battle := env.createBattle(t, alice.ID)

	joined, err := env.battleSvc.JoinBattle(battle.ID, bob.ID)
	if err != nil {
		t.Fatalf("JoinBattle failed: %v", err)
	}
	if joined.Status != shared.BattleStatusActive {
		t.Fatalf("expected active status, got %q", joined.Status)
	}
	if joined.OpponentID == nil || *joined.OpponentID != bob.ID {
		t.Fatalf("opponent seat not claimed")
	}
}

func TestJoinBattleSelf(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice", "Engineering", 0)
	env.seedDepartment(t, "Engineering", 5)

	battle := env.createBattle(t, alice.ID)

	_, err := env.battleSvc.JoinBattle(battle.ID, alice.ID)
	appErr, ok := shared.GetAppError(err)
	if !ok || appErr.StatusCode != 400 {
		t.Fatalf("expected 400 for joining own battle, got %v", err)
	}
}

func TestJoinBattleSeatTakenOnce(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice", "Engineering", 0)
	bob := env.createUser(t, "bob", "Engineering", 0)
	carol := env.createUser(t, "carol", "Engineering", 0)
	env.seedDepartment(t, "Engineering", 5)

	battle := env.createBattle(t, alice.ID)

	if _, err := env.battleSvc.JoinBattle(battle.ID, bob.ID); err != nil {
		t.Fatalf("JoinBattle failed: %v", err)
	}

	_, err := env.battleSvc.JoinBattle(battle.ID, carol.ID)
	appErr, ok := shared.GetAppError(err)
	if !ok || appErr.StatusCode != 409 {
		t.Fatalf("expected 409 for a claimed seat, got %v", err)
	}
}

func TestSubmitAnswersDecidesWinner(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice", "Engineering", 0)
	bob := env.createUser(t, "bob", "Engineering", 0)
	env.seedDepartment(t, "Engineering", 5)

	battle := env.createBattle(t, alice.ID)
	if _, err := env.battleSvc.JoinBattle(battle.ID, bob.ID); err != nil {
		t.Fatalf("JoinBattle failed: %v", err)
	}

	if _, err := env.battleSvc.SubmitAnswers(battle.ID, alice.ID, dto.SubmitBattleRequest{Score: 4}); err != nil {
		t.Fatalf("challenger submit failed: %v", err)
	}

	resp, err := env.battleSvc.SubmitAnswers(battle.ID, bob.ID, dto.SubmitBattleRequest{Score: 2})
	if err != nil {
		t.Fatalf("opponent submit failed: %v", err)
	}
	if resp.Status != shared.BattleStatusCompleted {
		t.Fatalf("expected completed status, got %q", resp.Status)
	}
	if resp.WinnerID == nil || *resp.WinnerID != alice.ID {
		t.Fatalf("expected challenger to win")
	}

	winner, err := env.sqlSvc.GetUser(alice.ID)
	if err != nil {
		t.Fatalf("GetUser failed: %v", err)
	}
	if winner.Points != shared.XPBattleWin {
		t.Fatalf("expected winner balance %d, got %d", shared.XPBattleWin, winner.Points)
	}

	loser, err := env.sqlSvc.GetUser(bob.ID)
	if err != nil {
		t.Fatalf("GetUser failed: %v", err)
	}
	if loser.Points != 0 {
		t.Fatalf("loser must not be paid, got %d", loser.Points)
	}
}

func TestSubmitAnswersTie(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice", "Engineering", 0)
	bob := env.createUser(t, "bob", "Engineering", 0)
	env.seedDepartment(t, "Engineering", 5)

	battle := env.createBattle(t, alice.ID)
	if _, err := env.battleSvc.JoinBattle(battle.ID, bob.ID); err != nil {
		t.Fatalf("JoinBattle failed: %v", err)
	}

	if _, err := env.battleSvc.SubmitAnswers(battle.ID, bob.ID, dto.SubmitBattleRequest{Score: 3}); err != nil {
		t.Fatalf("opponent submit failed: %v", err)
	}
	resp, err := env.battleSvc.SubmitAnswers(battle.ID, alice.ID, dto.SubmitBattleRequest{Score: 3})
	if err != nil {
		t.Fatalf("challenger submit failed: %v", err)
	}

	if resp.Status != shared.BattleStatusCompleted {
		t.Fatalf("expected completed status, got %q", resp.Status)
	}
	if resp.WinnerID != nil {
		t.Fatalf("tie must have no winner")
	}

	for _, id := range []string{alice.ID, bob.ID} {
		u, err := env.sqlSvc.GetUser(id)
		if err != nil {
			t.Fatalf("GetUser failed: %v", err)
		}
		if u.Points != 0 {
			t.Fatalf("nobody is paid on a tie, %s has %d", u.Username, u.Points)
		}
	}
}

func TestSubmitAnswersRepeatRejected(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice", "Engineering", 0)
	bob := env.createUser(t, "bob", "Engineering", 0)
	env.seedDepartment(t, "Engineering", 5)

	battle := env.createBattle(t, alice.ID)
	if _, err := env.battleSvc.JoinBattle(battle.ID, bob.ID); err != nil {
		t.Fatalf("JoinBattle failed: %v", err)
	}

	if _, err := env.battleSvc.SubmitAnswers(battle.ID, alice.ID, dto.SubmitBattleRequest{Score: 4}); err != nil {
		t.Fatalf("challenger submit failed: %v", err)
	}

	_, err := env.battleSvc.SubmitAnswers(battle.ID, alice.ID, dto.SubmitBattleRequest{Score: 5})
	appErr, ok := shared.GetAppError(err)
	if !ok || appErr.StatusCode != 409 {
		t.Fatalf("expected 409 for repeated submission, got %v", err)
	}
}

func TestSubmitAnswersNonParticipant(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice", "Engineering", 0)
	bob := env.createUser(t, "bob", "Engineering", 0)
	carol := env.createUser(t, "carol", "Engineering", 0)
	env.seedDepartment(t, "Engineering", 5)

	battle := env.createBattle(t, alice.ID)
	if _, err := env.battleSvc.JoinBattle(battle.ID, bob.ID); err != nil {
		t.Fatalf("JoinBattle failed: %v", err)
	}

	_, err := env.battleSvc.SubmitAnswers(battle.ID, carol.ID, dto.SubmitBattleRequest{Score: 5})
	appErr, ok := shared.GetAppError(err)
	if !ok || appErr.StatusCode != 400 {
		t.Fatalf("expected 400 for non-participant, got %v", err)
	}
}

func TestGetBattleHidesQuestionsFromSpectators(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice", "Engineering", 0)
	carol := env.createUser(t, "carol", "Engineering", 0)
	env.seedDepartment(t, "Engineering", 5)

	battle := env.createBattle(t, alice.ID)

	asOwner, err := env.battleSvc.GetBattle(battle.ID, alice.ID)
	if err != nil {
		t.Fatalf("GetBattle failed: %v", err)
	}
	if len(asOwner.Questions) == 0 {
		t.Fatalf("participant should see questions")
	}

	asSpectator, err := env.battleSvc.GetBattle(battle.ID, carol.ID)
	if err != nil {
		t.Fatalf("GetBattle failed: %v", err)
	}
	if len(asSpectator.Questions) != 0 {
		t.Fatalf("spectator must not see questions")
	}
}

func TestGetOpenBattlesFiltersOwnAndForeign(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice", "Engineering", 0)
	bob := env.createUser(t, "bob", "Engineering", 0)
	dana := env.createUser(t, "dana", "Marketing", 0)
	env.seedDepartment(t, "Engineering", 5)
	env.seedDepartment(t, "Marketing", 5)

	mine := env.createBattle(t, bob.ID)
	env.createBattle(t, alice.ID)
	env.createBattle(t, dana.ID)

	open, err := env.battleSvc.GetOpenBattles(bob.ID)
	if err != nil {
		t.Fatalf("GetOpenBattles failed: %v", err)
	}
	if open.Total != 1 {
		t.Fatalf("expected 1 open battle for bob, got %d", open.Total)
	}
	if open.Battles[0].ID == mine.ID {
		t.Fatalf("own battle must not be listed as joinable")
	}
	if len(open.Battles[0].Questions) != 0 {
		t.Fatalf("open battle listing must not reveal questions")
	}
}
