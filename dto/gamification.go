package dto

import "time"

// ==================== POINTS & BADGE DTOs ====================

type AddPointsRequest struct {
	Amount int    `json:"amount" validate:"required,gt=0"`
	Reason string `json:"reason" validate:"required,max=60"`
}

func (r AddPointsRequest) Validate() error {
	return GetValidator().Struct(r)
}

type BadgeResponse struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	IconURL     string     `json:"icon_url"`
	Condition   string     `json:"condition"`
	EarnedAt    *time.Time `json:"earned_at,omitempty"`
}

// UserSnapshot is the single source of truth the client re-renders from
// after every gamified action.
type UserSnapshot struct {
	UserID       string   `json:"user_id"`
	Username     string   `json:"username"`
	Department   string   `json:"department"`
	Points       int      `json:"points"`
	WordsLearned int      `json:"words_learned"`
	Streak       int      `json:"streak"`
	QuizzesTaken int      `json:"quizzes_taken"`
	AvgQuizScore float64  `json:"avg_quiz_score"`
	NewBadges    []string `json:"new_badges,omitempty"`
}

// ==================== STREAK DTOs ====================

type StreakStatusResponse struct {
	CurrentStreak      int    `json:"current_streak"`
	LongestStreak      int    `json:"longest_streak"`
	LastCompletedDate  string `json:"last_completed_date,omitempty"`
	StreakSaversUsed   int    `json:"streak_savers_used"`
	TotalDaysCompleted int    `json:"total_days_completed"`
	CompletedToday     bool   `json:"completed_today"`
}

// CompleteTodayResult carries milestone data back to the facade; the
// streak tracker itself never grants points.
type CompleteTodayResult struct {
	NewStreak              int    `json:"new_streak"`
	IsFirstCompletionToday bool   `json:"is_first_completion_today"`
	MilestoneXP            int    `json:"milestone_xp,omitempty"`
	MilestoneBadge         string `json:"milestone_badge,omitempty"`
}

// ==================== QUIZ / DAILY MIX DTOs ====================

type CompleteQuizRequest struct {
	Correct int `json:"correct" validate:"gte=0"`
	Total   int `json:"total" validate:"required,gt=0"`
}

func (r CompleteQuizRequest) Validate() error {
	return GetValidator().Struct(r)
}

type CompletionResponse struct {
	XPEarned int                 `json:"xp_earned"`
	Streak   CompleteTodayResult `json:"streak"`
	User     UserSnapshot        `json:"user"`
}

// ==================== DUEL DTOs ====================

type StartDuelRequest struct {
	Difficulty    string `json:"difficulty" validate:"required,oneof=easy medium hard"`
	AiPersonality string `json:"ai_personality" validate:"max=40"`
}

func (r StartDuelRequest) Validate() error {
	return GetValidator().Struct(r)
}

type DuelResponse struct {
	ID             string                 `json:"id"`
	Difficulty     string                 `json:"difficulty"`
	AiPersonality  string                 `json:"ai_personality"`
	Questions      []QuizQuestionResponse `json:"questions"`
	TotalQuestions int                    `json:"total_questions"`
	UserScore      int                    `json:"user_score"`
	AiScore        int                    `json:"ai_score"`
	XPEarned       int                    `json:"xp_earned"`
	Completed      bool                   `json:"completed"`
	CreatedAt      time.Time              `json:"created_at"`
}

type CompleteDuelRequest struct {
	UserScore    int      `json:"user_score" validate:"gte=0"`
	AiScore      int      `json:"ai_score" validate:"gte=0"`
	WrongAnswers []string `json:"wrong_answers"`
}

func (r CompleteDuelRequest) Validate() error {
	return GetValidator().Struct(r)
}

type CompleteDuelResponse struct {
	Duel DuelResponse `json:"duel"`
	User UserSnapshot `json:"user"`
}

// ==================== BATTLE DTOs ====================

type SubmitBattleRequest struct {
	Score   int      `json:"score" validate:"gte=0"`
	Answers []string `json:"answers"`
}

func (r SubmitBattleRequest) Validate() error {
	return GetValidator().Struct(r)
}

type BattleResponse struct {
	ID              string                 `json:"id"`
	ChallengerID    string                 `json:"challenger_id"`
	OpponentID      *string                `json:"opponent_id,omitempty"`
	Department      string                 `json:"department"`
	Questions       []QuizQuestionResponse `json:"questions,omitempty"`
	ChallengerScore *int                   `json:"challenger_score,omitempty"`
	OpponentScore   *int                   `json:"opponent_score,omitempty"`
	Status          string                 `json:"status"`
	WinnerID        *string                `json:"winner_id,omitempty"`
	CreatedAt       time.Time              `json:"created_at"`
}

type BattleCollectionResponse struct {
	Battles []BattleResponse `json:"battles"`
	Total   int              `json:"total"`
}

// ==================== LEADERBOARD DTOs ====================

type LeaderboardUserResponse struct {
	UserID       string `json:"user_id"`
	Username     string `json:"username"`
	Department   string `json:"department"`
	Points       int    `json:"points"`
	WordsLearned int    `json:"words_learned"`
	Streak       int    `json:"streak"`
	Rank         int    `json:"rank"`
}

type LeaderboardResponse struct {
	TopUsers    []LeaderboardUserResponse `json:"top_users"`
	CurrentUser LeaderboardUserResponse   `json:"current_user,omitempty"`
}
