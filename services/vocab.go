// services/vocab.go
package services

import (
	appContext "github.com/alphabatem/common/context"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lexiquest-app/lexi_api/dto"
	"github.com/lexiquest-app/lexi_api/model"
	"github.com/lexiquest-app/lexi_api/shared"
)

// VocabService manages the term catalog directly; generated terms enter
// through DailyContentService instead.
type VocabService struct {
	appContext.DefaultService
	sqlSvc   *SqlService
	mediaSvc *MediaService
}

const VOCAB_SVC = "vocab_svc"

func (svc VocabService) Id() string {
	return VOCAB_SVC
}

func (svc *VocabService) Start() error {
	svc.sqlSvc = svc.Service(SQL_SVC).(*SqlService)
	svc.mediaSvc = svc.Service(MEDIA_SVC).(*MediaService)
	return nil
}

func (svc *VocabService) CreateTerm(req dto.CreateTermRequest) (*dto.TermResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, shared.NewBadRequestError(err, "Invalid term")
	}

	term := &model.Term{
		ID:         uuid.Must(uuid.NewV7()).String(),
		Term:       req.Term,
		Definition: req.Definition,
		Example:    req.Example,
		Department: req.Department,
	}

	created, err := svc.sqlSvc.CreateTerm(term)
	if err != nil {
		if IsDuplicateKey(err) {
			return nil, shared.NewConflictError(err, "Term already exists in this department")
		}
		return nil, shared.NewInternalError(err, "Failed to create term")
	}

	svc.mediaSvc.EnrichTermAsync(created.Department, created.Term)

	return svc.toResponse(created), nil
}

func (svc *VocabService) GetTerm(termID string) (*dto.TermResponse, error) {
	term, err := svc.sqlSvc.GetTerm(termID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, shared.NewNotFoundError(err, "Term not found")
		}
		return nil, shared.NewInternalError(err, "Failed to load term")
	}
	return svc.toResponse(term), nil
}

func (svc *VocabService) GetTermsByDepartment(department string) (*dto.TermCollectionResponse, error) {
	terms, err := svc.sqlSvc.GetTermsByDepartment(department)
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to load terms")
	}

	items := make([]dto.TermResponse, 0, len(terms))
	for i := range terms {
		items = append(items, *svc.toResponse(&terms[i]))
	}
	return &dto.TermCollectionResponse{Terms: items, Total: len(items)}, nil
}

func (svc *VocabService) GetUnlearnedTerms(userID, department string) (*dto.TermCollectionResponse, error) {
	terms, err := svc.sqlSvc.GetUnlearnedTerms(userID, department)
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to load terms")
	}

	items := make([]dto.TermResponse, 0, len(terms))
	for i := range terms {
		items = append(items, *svc.toResponse(&terms[i]))
	}
	return &dto.TermCollectionResponse{Terms: items, Total: len(items)}, nil
}

func (svc *VocabService) GetDepartments() ([]string, error) {
	departments, err := svc.sqlSvc.GetDepartments()
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to load departments")
	}
	return departments, nil
}

func (svc *VocabService) toResponse(term *model.Term) *dto.TermResponse {
	resp := &dto.TermResponse{
		ID:         term.ID,
		Term:       term.Term,
		Definition: term.Definition,
		Example:    term.Example,
		Department: term.Department,
	}
	resp.AudioURL, resp.ImageURL = svc.mediaSvc.TermMediaURLs(term.Department, term.Term)
	return resp
}
