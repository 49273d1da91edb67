// model/gamification.go
package model

import (
	"encoding/json"
	"time"
)

// Badge is a static catalog row. Condition is textual, e.g. "points:1000"
// or "streak:7"; the awarding services interpret it.
type Badge struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"uniqueIndex;not null"`
	Description string    `json:"description"`
	IconURL     string    `json:"icon_url"`
	Condition   string    `json:"condition"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// UserBadge is an award record, unique per (user_id, badge_id): a badge
// is earned at most once per user.
type UserBadge struct {
	ID       string    `json:"id" gorm:"primaryKey"`
	UserID   string    `json:"user_id" gorm:"not null;uniqueIndex:idx_user_badge"`
	BadgeID  string    `json:"badge_id" gorm:"not null;uniqueIndex:idx_user_badge"`
	EarnedAt time.Time `json:"earned_at"`

	Badge Badge `json:"badge" gorm:"foreignKey:BadgeID"`
}

// DuelSession is one match against the AI. Two states only: in progress
// (Completed=false) and completed; the completion write is terminal.
type DuelSession struct {
	ID             string          `json:"id" gorm:"primaryKey"`
	UserID         string          `json:"user_id" gorm:"index;not null"`
	Difficulty     string          `json:"difficulty"`
	AiPersonality  string          `json:"ai_personality"`
	Questions      json.RawMessage `json:"questions" gorm:"type:text"`
	UserScore      int             `json:"user_score" gorm:"default:0"`
	AiScore        int             `json:"ai_score" gorm:"default:0"`
	TotalQuestions int             `json:"total_questions"`
	WrongAnswers   json.RawMessage `json:"wrong_answers" gorm:"type:text"`
	XPEarned       int             `json:"xp_earned" gorm:"default:0"`
	Completed      bool            `json:"completed" gorm:"default:false"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// AsyncBattle is a two-player non-real-time quiz:
// pending -> (opponent joins) -> active -> (both submit) -> completed.
// WinnerID is set only once both scores are present; nil on a tie.
type AsyncBattle struct {
	ID                string          `json:"id" gorm:"primaryKey"`
	ChallengerID      string          `json:"challenger_id" gorm:"index;not null"`
	OpponentID        *string         `json:"opponent_id" gorm:"index"`
	Department        string          `json:"department" gorm:"index"`
	Questions         json.RawMessage `json:"questions" gorm:"type:text"`
	ChallengerScore   *int            `json:"challenger_score"`
	OpponentScore     *int            `json:"opponent_score"`
	ChallengerAnswers json.RawMessage `json:"challenger_answers" gorm:"type:text"`
	OpponentAnswers   json.RawMessage `json:"opponent_answers" gorm:"type:text"`
	Status            string          `json:"status" gorm:"default:pending;index"`
	WinnerID          *string         `json:"winner_id"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}
