package services

import (
	"testing"

	"github.com/lexiquest-app/lexi_api/shared"
)

func TestMarkLearnedFirstTime(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "alice", "Engineering", 0)
	term := env.createTerm(t, "Engineering", "Idempotent", "Same result on repeat application")

	resp, err := env.ledgerSvc.MarkLearned(user.ID, term.ID)
	if err != nil {
		t.Fatalf("MarkLearned failed: %v", err)
	}
	if !resp.NewlyLearned {
		t.Fatalf("expected newly learned")
	}
	if resp.WordsLearned != 1 {
		t.Fatalf("expected words learned 1, got %d", resp.WordsLearned)
	}

	reloaded, err := env.sqlSvc.GetUser(user.ID)
	if err != nil {
		t.Fatalf("GetUser failed: %v", err)
	}
	if reloaded.WordsLearned != 1 {
		t.Fatalf("expected denormalized counter 1, got %d", reloaded.WordsLearned)
	}
}

func TestMarkLearnedIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "alice", "Engineering", 0)
	term := env.createTerm(t, "Engineering", "Rollback", "Reverting to a previous stable state")

	first, err := env.ledgerSvc.MarkLearned(user.ID, term.ID)
	if err != nil {
		t.Fatalf("first MarkLearned failed: %v", err)
	}

	second, err := env.ledgerSvc.MarkLearned(user.ID, term.ID)
	if err != nil {
		t.Fatalf("repeat MarkLearned failed: %v", err)
	}
	if second.NewlyLearned {
		t.Fatalf("repeat mark must not be newly learned")
	}
	if second.WordsLearned != 1 {
		t.Fatalf("expected words learned to stay 1, got %d", second.WordsLearned)
	}
	if !second.LearnedAt.Equal(first.LearnedAt) {
		t.Fatalf("repeat mark must keep the original timestamp")
	}
}

func TestMarkLearnedUnknownTerm(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "alice", "Engineering", 0)

	_, err := env.ledgerSvc.MarkLearned(user.ID, "missing")
	if err == nil {
		t.Fatalf("expected error for unknown term")
	}
	appErr, ok := shared.GetAppError(err)
	if !ok || appErr.StatusCode != 404 {
		t.Fatalf("expected 404, got %v", err)
	}
}

func TestGetLearnedTerms(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "alice", "Engineering", 0)
	terms := env.seedDepartment(t, "Engineering", 3)

	for _, term := range terms[:2] {
		if _, err := env.ledgerSvc.MarkLearned(user.ID, term.ID); err != nil {
			t.Fatalf("MarkLearned failed: %v", err)
		}
	}

	resp, err := env.ledgerSvc.GetLearnedTerms(user.ID)
	if err != nil {
		t.Fatalf("GetLearnedTerms failed: %v", err)
	}
	if resp.WordsLearned != 2 {
		t.Fatalf("expected 2 learned terms, got %d", resp.WordsLearned)
	}

	unlearned, err := env.vocabSvc.GetUnlearnedTerms(user.ID, "Engineering")
	if err != nil {
		t.Fatalf("GetUnlearnedTerms failed: %v", err)
	}
	if unlearned.Total != 1 {
		t.Fatalf("expected 1 unlearned term, got %d", unlearned.Total)
	}
}
