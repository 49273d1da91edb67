// services/fallback.go
package services

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/lexiquest-app/lexi_api/model"
	"github.com/lexiquest-app/lexi_api/shared"
)

// FallbackGenerator builds quizzes from the terms already stored for a
// department. It never calls out and never fails while at least one
// eligible term exists, so it backs the remote generator.
type FallbackGenerator struct {
	sqlSvc *SqlService
}

func NewFallbackGenerator(sqlSvc *SqlService) *FallbackGenerator {
	return &FallbackGenerator{sqlSvc: sqlSvc}
}

var fallbackDistractors = []string{
	"A quarterly budgeting exercise",
	"An informal team-building ritual",
	"A deprecated reporting procedure",
	"A type of cross-department meeting",
}

func (g *FallbackGenerator) GenerateDaily(_ context.Context, department string, exclude []string) (*GeneratedDaily, error) {
	terms, err := g.sqlSvc.GetTermsByDepartment(department)
	if err != nil {
		return nil, err
	}

	excluded := make(map[string]bool, len(exclude))
	for _, t := range exclude {
		excluded[t] = true
	}

	var eligible []model.Term
	for _, t := range terms {
		if !excluded[t.Term] {
			eligible = append(eligible, t)
		}
	}
	if len(eligible) == 0 {
		// All terms used recently, cycle back through the catalogue.
		eligible = terms
	}
	if len(eligible) == 0 {
		return nil, fmt.Errorf("no terms available for department %s", department)
	}

	pick := eligible[rand.Intn(len(eligible))]

	questions, err := g.buildQuestions(pick, terms, shared.DailyQuizQuestions)
	if err != nil {
		return nil, err
	}

	return &GeneratedDaily{
		Term:       pick.Term,
		Definition: pick.Definition,
		Example:    pick.Example,
		Questions:  questions,
	}, nil
}

func (g *FallbackGenerator) GenerateQuiz(_ context.Context, department, _ string, count int, exclude []string) ([]model.QuizQuestion, error) {
	terms, err := g.sqlSvc.GetTermsByDepartment(department)
	if err != nil {
		return nil, err
	}
	if len(terms) == 0 {
		return nil, fmt.Errorf("no terms available for department %s", department)
	}

	excluded := make(map[string]bool, len(exclude))
	for _, t := range exclude {
		excluded[t] = true
	}

	var pool []model.Term
	for _, t := range terms {
		if !excluded[t.Term] {
			pool = append(pool, t)
		}
	}
	if len(pool) == 0 {
		pool = terms
	}

	rand.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })

	var questions []model.QuizQuestion
	for i := 0; i < count; i++ {
		term := pool[i%len(pool)]
		qs, err := g.buildQuestions(term, terms, 1)
		if err != nil {
			return nil, err
		}
		questions = append(questions, qs...)
	}

	return questions, nil
}

// buildQuestions produces count definition-recall questions for term,
// using the other terms' definitions as distractors.
func (g *FallbackGenerator) buildQuestions(term model.Term, all []model.Term, count int) ([]model.QuizQuestion, error) {
	var distractors []string
	for _, t := range all {
		if t.Term != term.Term && t.Definition != term.Definition {
			distractors = append(distractors, t.Definition)
		}
	}
	for _, d := range fallbackDistractors {
		distractors = append(distractors, d)
	}

	questions := make([]model.QuizQuestion, 0, count)
	for i := 0; i < count; i++ {
		rand.Shuffle(len(distractors), func(a, b int) {
			distractors[a], distractors[b] = distractors[b], distractors[a]
		})

		options := append([]string{term.Definition}, distractors[:3]...)
		rand.Shuffle(len(options), func(a, b int) { options[a], options[b] = options[b], options[a] })

		questions = append(questions, model.QuizQuestion{
			Question: fmt.Sprintf("What does %q mean?", term.Term),
			Options:  options,
			Answer:   term.Definition,
			FunFact:  fmt.Sprintf("Example usage: %s", term.Example),
		})
	}

	return questions, nil
}
