// services/ledger.go
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

// LedgerService owns the learned-terms ledger. Marking is idempotent:
// the first mark inserts a row and bumps the denormalized counter, every
// later mark for the same pair is a no-op reporting the existing state.
type LedgerService struct {
	appContext.DefaultService
	sqlSvc *SqlService
}

const LEDGER_SVC = "ledger_svc"

func (svc LedgerService) Id() string {
	return LEDGER_SVC
}

func (svc *LedgerService) Start() error {
	svc.sqlSvc = svc.Service(SQL_SVC).(*SqlService)
	return nil
}

func (svc *LedgerService) MarkLearned(userID, termID string) (*dto.MarkLearnedResponse, error) {
	term, err := svc.sqlSvc.GetTerm(termID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, shared.NewNotFoundError(err, "Term not found")
		}
		return nil, shared.NewInternalError(err, "Failed to load term")
	}

	existing, err := svc.sqlSvc.GetLearnedTerm(userID, term.ID)
	if err == nil {
		return &dto.MarkLearnedResponse{
			TermID:       term.ID,
			LearnedAt:    existing.LearnedAt,
			WordsLearned: svc.wordsLearned(userID),
			NewlyLearned: false,
		}, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, shared.NewInternalError(err, "Failed to check learned status")
	}

	record := &model.LearnedTerm{
		ID:        uuid.Must(uuid.NewV7()).String(),
		UserID:    userID,
		TermID:    term.ID,
		LearnedAt: time.Now(),
	}

	if err := svc.sqlSvc.CreateLearnedTerm(record); err != nil {
		if !IsDuplicateKey(err) {
			return nil, shared.NewInternalError(err, "Failed to record learned term")
		}
		// Lost a concurrent race for the same pair; treat as repeat.
		winner, werr := svc.sqlSvc.GetLearnedTerm(userID, term.ID)
		if werr != nil {
			return nil, shared.NewInternalError(werr, "Failed to record learned term")
		}
		record = winner
	}

	count := svc.recountWordsLearned(userID)

	return &dto.MarkLearnedResponse{
		TermID:       term.ID,
		LearnedAt:    record.LearnedAt,
		WordsLearned: count,
		NewlyLearned: true,
	}, nil
}

func (svc *LedgerService) GetLearnedTerms(userID string) (*dto.LearnedTermCollectionResponse, error) {
	records, err := svc.sqlSvc.GetLearnedTerms(userID)
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to load learned terms")
	}

	terms := make([]dto.LearnedTermResponse, 0, len(records))
	for _, r := range records {
		entry := dto.LearnedTermResponse{TermID: r.TermID, LearnedAt: r.LearnedAt}
		if term, terr := svc.sqlSvc.GetTerm(r.TermID); terr == nil {
			entry.Term = term.Term
		}
		terms = append(terms, entry)
	}

	return &dto.LearnedTermCollectionResponse{
		Terms:        terms,
		WordsLearned: len(terms),
	}, nil
}

// LearnedTermNames returns the raw term strings a user has learned,
// used as the exclusion list for content generation.
func (svc *LedgerService) LearnedTermNames(userID string) []string {
	records, err := svc.sqlSvc.GetLearnedTerms(userID)
	if err != nil {
		return nil
	}

	names := make([]string, 0, len(records))
	for _, r := range records {
		if term, terr := svc.sqlSvc.GetTerm(r.TermID); terr == nil {
			names = append(names, term.Term)
		}
	}
	return names
}

// recountWordsLearned recomputes the denormalized counter from the
// ledger so that duplicate-insert races cannot double count.
func (svc *LedgerService) recountWordsLearned(userID string) int {
	count, err := svc.sqlSvc.CountLearnedTerms(userID)
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Error("failed to count learned terms")
		return 0
	}

	if err := svc.sqlSvc.SetWordsLearned(userID, int(count)); err != nil {
		log.WithError(err).WithField("user_id", userID).Error("failed to update words learned counter")
	}

	return int(count)
}

func (svc *LedgerService) wordsLearned(userID string) int {
	count, err := svc.sqlSvc.CountLearnedTerms(userID)
	if err != nil {
		return 0
	}
	return int(count)
}
