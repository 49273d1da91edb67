// services/daily.go
package services

import (
	"context"
	"encoding/json"
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

// DailyContentService serves the word of the day per department. Lookup
// order is Redis, then the database, then lazy creation through the
// remote generator with a deterministic local fallback. Exactly one row
// exists per (department, date): a concurrent creation race is settled
// by the unique index and the loser rereads the winner's row.
type DailyContentService struct {
	appContext.DefaultService
	sqlSvc    *SqlService
	redisSvc  *RedisService
	geminiSvc *GeminiService
	ledgerSvc *LedgerService
	mediaSvc  *MediaService

	fallback *FallbackGenerator
}

const DAILY_SVC = "daily_svc"

func (svc DailyContentService) Id() string {
	return DAILY_SVC
}

func (svc *DailyContentService) Start() error {
	svc.sqlSvc = svc.Service(SQL_SVC).(*SqlService)
	svc.redisSvc = svc.Service(REDIS_SVC).(*RedisService)
	svc.geminiSvc = svc.Service(GEMINI_SVC).(*GeminiService)
	svc.ledgerSvc = svc.Service(LEDGER_SVC).(*LedgerService)
	svc.mediaSvc = svc.Service(MEDIA_SVC).(*MediaService)

	svc.fallback = NewFallbackGenerator(svc.sqlSvc)
	return nil
}

// GetOrCreate returns today's content for a department. Viewing the
// word of the day marks it learned for the requesting user; pass an
// empty userID (scheduler) to skip that side effect.
func (svc *DailyContentService) GetOrCreate(ctx context.Context, userID, department string) (*dto.DailyContentResponse, error) {
	date := time.Now().Format(dateLayout)
	cacheKey := fmt.Sprintf("daily:%s:%s", department, date)

	var cached dto.DailyContentResponse
	found, err := svc.redisSvc.GetJSON(ctx, cacheKey, &cached)
	if err != nil {
		log.WithError(err).Warn("daily content cache read failed")
	}
	if found {
		cached.Source = "cache"
		svc.markViewed(userID, &cached)
		return &cached, nil
	}

	content, err := svc.sqlSvc.GetDailyContent(department, date)
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, shared.NewInternalError(err, "Failed to load daily content")
	}

	source := "cache"
	if err == gorm.ErrRecordNotFound {
		content, source, err = svc.create(ctx, userID, department, date)
		if err != nil {
			return nil, err
		}
	}

	resp, err := svc.toResponse(content, source)
	if err != nil {
		return nil, err
	}

	if cerr := svc.redisSvc.Set(ctx, cacheKey, resp, untilEndOfDay()); cerr != nil {
		log.WithError(cerr).Warn("daily content cache write failed")
	}

	svc.markViewed(userID, resp)
	return resp, nil
}

// create generates and persists the content for one department-day.
func (svc *DailyContentService) create(ctx context.Context, userID, department, date string) (*model.DailyContent, string, error) {
	exclude := svc.exclusionList(userID, department)

	source := "generated"
	daily, err := svc.geminiSvc.GenerateDaily(ctx, department, exclude)
	if err != nil {
		log.WithError(err).WithField("department", department).
			Warn("remote generation failed, using fallback")
		source = "fallback"
		daily, err = svc.fallback.GenerateDaily(ctx, department, exclude)
		if err != nil {
			return nil, "", shared.NewGenerationError(err, "No content available for this department")
		}
	}

	questionsJSON, err := json.Marshal(daily.Questions)
	if err != nil {
		return nil, "", shared.NewInternalError(err, "Failed to encode quiz questions")
	}

	content := &model.DailyContent{
		ID:         uuid.Must(uuid.NewV7()).String(),
		Department: department,
		Date:       date,
		Questions:  questionsJSON,
	}

	// A term the generator re-invented may already exist; reuse it
	// instead of inserting a duplicate.
	var newTerm *model.Term
	if existing, terr := svc.sqlSvc.GetTermByName(department, daily.Term); terr == nil {
		content.TermID = existing.ID
	} else {
		newTerm = &model.Term{
			ID:         uuid.Must(uuid.NewV7()).String(),
			Term:       daily.Term,
			Definition: daily.Definition,
			Example:    daily.Example,
			Department: department,
		}
	}

	if err := svc.sqlSvc.CreateDailyContentWithTerm(newTerm, content); err != nil {
		if IsDuplicateKey(err) {
			// Another request created today's row first.
			winner, werr := svc.sqlSvc.GetDailyContent(department, date)
			if werr != nil {
				return nil, "", shared.NewInternalError(werr, "Failed to load daily content")
			}
			return winner, "cache", nil
		}
		return nil, "", shared.NewInternalError(err, "Failed to store daily content")
	}

	if newTerm != nil {
		svc.mediaSvc.EnrichTermAsync(department, newTerm.Term)
	}

	log.WithFields(log.Fields{
		"department": department,
		"date":       date,
		"source":     source,
	}).Info("daily content created")
	RecordContentGeneration(department, source)

	// Reread with the term preloaded.
	stored, err := svc.sqlSvc.GetDailyContent(department, date)
	if err != nil {
		return nil, "", shared.NewInternalError(err, "Failed to load daily content")
	}
	return stored, source, nil
}

// PregenerateAll creates today's content for every known department
// ahead of the first request. Failures are per-department and logged.
func (svc *DailyContentService) PregenerateAll(ctx context.Context) {
	departments, err := svc.sqlSvc.GetDepartments()
	if err != nil {
		log.WithError(err).Error("failed to list departments for pre-generation")
		return
	}

	for _, dept := range departments {
		if _, err := svc.GetOrCreate(ctx, "", dept); err != nil {
			log.WithError(err).WithField("department", dept).Warn("pre-generation failed")
		}
	}
}

func (svc *DailyContentService) toResponse(content *model.DailyContent, source string) (*dto.DailyContentResponse, error) {
	var questions []dto.QuizQuestionResponse
	if err := json.Unmarshal(content.Questions, &questions); err != nil {
		return nil, shared.NewInternalError(err, "Failed to decode quiz questions")
	}

	word := dto.TermResponse{
		ID:         content.Term.ID,
		Term:       content.Term.Term,
		Definition: content.Term.Definition,
		Example:    content.Term.Example,
		Department: content.Term.Department,
	}
	word.AudioURL, word.ImageURL = svc.mediaSvc.TermMediaURLs(content.Department, content.Term.Term)

	return &dto.DailyContentResponse{
		Department: content.Department,
		Date:       content.Date,
		Word:       word,
		Questions:  questions,
		Source:     source,
	}, nil
}

// markViewed records the word of the day as learned for the viewer.
// Reading the word counts as learning it.
func (svc *DailyContentService) markViewed(userID string, resp *dto.DailyContentResponse) {
	if userID == "" || resp.Word.ID == "" {
		return
	}
	if _, err := svc.ledgerSvc.MarkLearned(userID, resp.Word.ID); err != nil {
		log.WithError(err).WithField("user_id", userID).Warn("failed to mark daily word learned")
	}
}

// exclusionList keeps already-known terms out of generation: the
// requesting user's learned ledger, or the whole department catalog for
// scheduler runs with no user attached.
func (svc *DailyContentService) exclusionList(userID, department string) []string {
	if userID != "" {
		return svc.ledgerSvc.LearnedTermNames(userID)
	}
	return svc.recentTermNames(department)
}

func (svc *DailyContentService) recentTermNames(department string) []string {
	terms, err := svc.sqlSvc.GetTermsByDepartment(department)
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(terms))
	for _, t := range terms {
		names = append(names, t.Term)
	}
	return names
}

func untilEndOfDay() time.Duration {
	now := time.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1)
	return time.Until(midnight)
}
