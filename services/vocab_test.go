package services

import (
	"testing"

	"github.com/lexiquest-app/lexi_api/dto"
	"github.com/lexiquest-app/lexi_api/shared"
)

func TestCreateTermAndFetch(t *testing.T) {
	env := newTestEnv(t)

	created, err := env.vocabSvc.CreateTerm(dto.CreateTermRequest{
		Term:       "Synergy",
		Definition: "Combined effort exceeding individual parts",
		Example:    "We need more synergy between teams.",
		Department: "Engineering",
	})
	if err != nil {
		t.Fatalf("CreateTerm failed: %v", err)
	}

	got, err := env.vocabSvc.GetTerm(created.ID)
	if err != nil {
		t.Fatalf("GetTerm failed: %v", err)
	}
	if got.Term != "Synergy" || got.Department != "Engineering" {
		t.Fatalf("unexpected term %+v", got)
	}
}

func TestCreateTermDuplicate(t *testing.T) {
	env := newTestEnv(t)
	env.createTerm(t, "Engineering", "Synergy", "Combined effort exceeding individual parts")

	_, err := env.vocabSvc.CreateTerm(dto.CreateTermRequest{
		Term:       "Synergy",
		Definition: "Another definition",
		Department: "Engineering",
	})
	appErr, ok := shared.GetAppError(err)
	if !ok || appErr.StatusCode != 409 {
		t.Fatalf("expected 409 for duplicate term, got %v", err)
	}
}

func TestCreateTermSameNameOtherDepartment(t *testing.T) {
	env := newTestEnv(t)
	env.createTerm(t, "Engineering", "Runway", "Months of funding left at current burn")

	_, err := env.vocabSvc.CreateTerm(dto.CreateTermRequest{
		Term:       "Runway",
		Definition: "Planned launch window for a campaign",
		Department: "Marketing",
	})
	if err != nil {
		t.Fatalf("same term in another department must be allowed: %v", err)
	}
}

func TestCreateTermValidation(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.vocabSvc.CreateTerm(dto.CreateTermRequest{Term: "Synergy"})
	appErr, ok := shared.GetAppError(err)
	if !ok || appErr.StatusCode != 400 {
		t.Fatalf("expected 400 for missing fields, got %v", err)
	}
}

func TestGetTermsByDepartment(t *testing.T) {
	env := newTestEnv(t)
	env.seedDepartment(t, "Engineering", 3)
	env.seedDepartment(t, "Marketing", 2)

	resp, err := env.vocabSvc.GetTermsByDepartment("Engineering")
	if err != nil {
		t.Fatalf("GetTermsByDepartment failed: %v", err)
	}
	if resp.Total != 3 {
		t.Fatalf("expected 3 terms, got %d", resp.Total)
	}
}

func TestGetDepartments(t *testing.T) {
	env := newTestEnv(t)
	env.seedDepartment(t, "Engineering", 1)
	env.seedDepartment(t, "Marketing", 1)

	departments, err := env.vocabSvc.GetDepartments()
	if err != nil {
		t.Fatalf("GetDepartments failed: %v", err)
	}
	if len(departments) != 2 {
		t.Fatalf("expected 2 departments, got %v", departments)
	}
}
