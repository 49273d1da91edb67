// model/vocab.go
package model

import (
	"encoding/json"
	"time"
)

// Term is one vocabulary entry scoped to a department.
type Term struct {
	ID         string    `json:"id" gorm:"primaryKey"`
	Term       string    `json:"term" gorm:"not null;uniqueIndex:idx_department_term"`
	Definition string    `json:"definition" gorm:"type:text;not null"`
	Example    string    `json:"example" gorm:"type:text"`
	Department string    `json:"department" gorm:"not null;index;uniqueIndex:idx_department_term"`
	AudioURL   string    `json:"audio_url"`
	ImageURL   string    `json:"image_url"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// QuizQuestion is stored as a JSON array on DailyContent, DuelSession
// and AsyncBattle rather than as its own table.
type QuizQuestion struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Answer   string   `json:"answer"`
	FunFact  string   `json:"fun_fact,omitempty"`
}

// DailyContent is the word of the day plus its companion quiz for one
// department and one calendar day. The (department, date) unique index
// makes concurrent lazy creation race-safe: the loser of the race
// rereads the winner's row.
type DailyContent struct {
	ID         string          `json:"id" gorm:"primaryKey"`
	Department string          `json:"department" gorm:"not null;uniqueIndex:idx_department_date"`
	Date       string          `json:"date" gorm:"not null;uniqueIndex:idx_department_date"` // YYYY-MM-DD
	TermID     string          `json:"term_id" gorm:"not null"`
	Questions  json.RawMessage `json:"questions" gorm:"type:text"` // JSON array of QuizQuestion
	CreatedAt  time.Time       `json:"created_at"`

	Term Term `json:"term" gorm:"foreignKey:TermID"`
}

// LearnedTerm is one ledger row. At most one row exists per
// (user_id, term_id) pair; marking is idempotent.
type LearnedTerm struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	UserID    string    `json:"user_id" gorm:"not null;uniqueIndex:idx_user_term"`
	TermID    string    `json:"term_id" gorm:"not null;uniqueIndex:idx_user_term"`
	LearnedAt time.Time `json:"learned_at"`
}

// StreakRecord tracks consecutive-day completions, one row per user.
// Invariant: LongestStreak >= CurrentStreak at all times.
type StreakRecord struct {
	ID                 string    `json:"id" gorm:"primaryKey"`
	UserID             string    `json:"user_id" gorm:"uniqueIndex;not null"`
	CurrentStreak      int       `json:"current_streak" gorm:"default:0"`
	LongestStreak      int       `json:"longest_streak" gorm:"default:0"`
	LastCompletedDate  string    `json:"last_completed_date"` // YYYY-MM-DD, empty until first completion
	StreakSaversUsed   int       `json:"streak_savers_used" gorm:"default:0"`
	TotalDaysCompleted int       `json:"total_days_completed" gorm:"default:0"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}
