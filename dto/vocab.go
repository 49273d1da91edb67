package dto

import "time"

// ==================== TERM DTOs ====================

type CreateTermRequest struct {
	Term       string `json:"term" validate:"required,min=1,max=120"`
	Definition string `json:"definition" validate:"required"`
	Example    string `json:"example"`
	Department string `json:"department" validate:"required"`
}

func (r CreateTermRequest) Validate() error {
	return GetValidator().Struct(r)
}

type TermResponse struct {
	ID         string `json:"id"`
	Term       string `json:"term"`
	Definition string `json:"definition"`
	Example    string `json:"example"`
	Department string `json:"department"`
	AudioURL   string `json:"audio_url,omitempty"`
	ImageURL   string `json:"image_url,omitempty"`
}

type TermCollectionResponse struct {
	Terms []TermResponse `json:"terms"`
	Total int            `json:"total"`
}

// ==================== DAILY CONTENT DTOs ====================

type QuizQuestionResponse struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Answer   string   `json:"answer"`
	FunFact  string   `json:"fun_fact,omitempty"`
}

type DailyContentResponse struct {
	Department string                 `json:"department"`
	Date       string                 `json:"date"`
	Word       TermResponse           `json:"word"`
	Questions  []QuizQuestionResponse `json:"questions"`
	Source     string                 `json:"source"` // "cache", "generated" or "fallback"
}

// ==================== LEDGER DTOs ====================

type LearnedTermResponse struct {
	TermID    string    `json:"term_id"`
	Term      string    `json:"term"`
	LearnedAt time.Time `json:"learned_at"`
}

type LearnedTermCollectionResponse struct {
	Terms        []LearnedTermResponse `json:"terms"`
	WordsLearned int                   `json:"words_learned"`
}

type MarkLearnedResponse struct {
	TermID       string    `json:"term_id"`
	LearnedAt    time.Time `json:"learned_at"`
	WordsLearned int       `json:"words_learned"`
	NewlyLearned bool      `json:"newly_learned"`
}
