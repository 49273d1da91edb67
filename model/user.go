package model

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID         string `json:"id" gorm:"primaryKey"`
	Username   string `json:"username" gorm:"uniqueIndex;not null"`
	Email      string `json:"email" gorm:"uniqueIndex;not null"`
	Password   string `json:"-"`
	Role       string `json:"role" gorm:"default:user"`
	Department string `json:"department" gorm:"index;not null"`

	// Points is mutated only through relative increments so that
	// interleaved requests never overwrite each other's updates.
	Points int `json:"points" gorm:"default:0"`

	// WordsLearned mirrors the count of LearnedTerm rows for this user.
	// It is recomputed on every new ledger insert, never decremented.
	WordsLearned int `json:"words_learned" gorm:"default:0"`

	QuizzesTaken int     `json:"quizzes_taken" gorm:"default:0"`
	AvgQuizScore float64 `json:"avg_quiz_score" gorm:"default:0"`

	IsActive  bool       `json:"is_active" gorm:"default:true"`
	LastLogin *time.Time `json:"last_login"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
