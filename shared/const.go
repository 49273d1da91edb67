package shared

const (
	UserID = "user_id"

	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"

	BattleStatusPending   = "pending"
	BattleStatusActive    = "active"
	BattleStatusCompleted = "completed"

	PointsReasonQuiz     = "quiz"
	PointsReasonDailyMix = "daily_mix"
	PointsReasonDuel     = "duel"
	PointsReasonBattle   = "battle"
	PointsReasonStreak   = "streak_milestone"

	// Fixed XP amounts
	XPBattleWin        = 50
	XPDuelWin          = 50
	XPDuelDraw         = 20
	XPDuelLoss         = 10
	XPPerCorrect       = 5
	XPQuizPerCorrect   = 10
	XPQuizPerfect      = 20
	StreakSaverCost    = 50
	DailyQuizQuestions = 5
)
