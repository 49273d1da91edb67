package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/lexiquest-app/lexi_api/model"
)

// testEnv wires the services against an in-memory database, bypassing
// the service container. Redis and MinIO stay unconfigured; every code
// path is expected to degrade cleanly without them.
type testEnv struct {
	sqlSvc          *SqlService
	ledgerSvc       *LedgerService
	pointsSvc       *PointsService
	streakSvc       *StreakService
	gamificationSvc *GamificationService
	dailySvc        *DailyContentService
	duelSvc         *DuelService
	battleSvc       *BattleService
	vocabSvc        *VocabService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	err = db.AutoMigrate(
		&model.User{},
		&model.Term{},
		&model.DailyContent{},
		&model.LearnedTerm{},
		&model.StreakRecord{},
		&model.Badge{},
		&model.UserBadge{},
		&model.DuelSession{},
		&model.AsyncBattle{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	sqlSvc := &SqlService{db: db}
	redisSvc := &RedisService{}
	mediaSvc := &MediaService{}
	geminiSvc := &GeminiService{}
	fallback := NewFallbackGenerator(sqlSvc)

	ledgerSvc := &LedgerService{sqlSvc: sqlSvc}
	pointsSvc := &PointsService{sqlSvc: sqlSvc, redisSvc: redisSvc}
	streakSvc := &StreakService{sqlSvc: sqlSvc}
	gamificationSvc := &GamificationService{sqlSvc: sqlSvc, pointsSvc: pointsSvc, streakSvc: streakSvc}
	vocabSvc := &VocabService{sqlSvc: sqlSvc, mediaSvc: mediaSvc}

	dailySvc := &DailyContentService{
		sqlSvc:    sqlSvc,
		redisSvc:  redisSvc,
		geminiSvc: geminiSvc,
		ledgerSvc: ledgerSvc,
		mediaSvc:  mediaSvc,
		fallback:  fallback,
	}
	duelSvc := &DuelService{
		sqlSvc:          sqlSvc,
		geminiSvc:       geminiSvc,
		pointsSvc:       pointsSvc,
		gamificationSvc: gamificationSvc,
		fallback:        fallback,
	}
	battleSvc := &BattleService{
		sqlSvc:          sqlSvc,
		geminiSvc:       geminiSvc,
		pointsSvc:       pointsSvc,
		gamificationSvc: gamificationSvc,
		fallback:        fallback,
	}

	return &testEnv{
		sqlSvc:          sqlSvc,
		ledgerSvc:       ledgerSvc,
		pointsSvc:       pointsSvc,
		streakSvc:       streakSvc,
		gamificationSvc: gamificationSvc,
		dailySvc:        dailySvc,
		duelSvc:         duelSvc,
		battleSvc:       battleSvc,
		vocabSvc:        vocabSvc,
	}
}

func (env *testEnv) createUser(t *testing.T, username, department string, points int) *model.User {
	t.Helper()

	user := &model.User{
		ID:         uuid.Must(uuid.NewV7()).String(),
		Username:   username,
		Email:      username + "@example.com",
		Password:   "x",
		Role:       model.RoleUser,
		Department: department,
		Points:     points,
		IsActive:   true,
	}
	if _, err := env.sqlSvc.CreateUser(user); err != nil {
		t.Fatalf("failed to create user %s: %v", username, err)
	}
	return user
}

func (env *testEnv) createTerm(t *testing.T, department, name, definition string) *model.Term {
	t.Helper()

	term := &model.Term{
		ID:         uuid.Must(uuid.NewV7()).String(),
		Term:       name,
		Definition: definition,
		Example:    "Example usage of " + name + ".",
		Department: department,
	}
	if _, err := env.sqlSvc.CreateTerm(term); err != nil {
		t.Fatalf("failed to create term %s: %v", name, err)
	}
	return term
}

func (env *testEnv) seedDepartment(t *testing.T, department string, count int) []*model.Term {
	t.Helper()

	terms := make([]*model.Term, 0, count)
	for i := 0; i < count; i++ {
		name := fmt.Sprintf("%s Term %d", department, i)
		terms = append(terms, env.createTerm(t, department, name, fmt.Sprintf("Definition %d for %s", i, department)))
	}
	return terms
}

func (env *testEnv) createBadge(t *testing.T, name, condition string) *model.Badge {
	t.Helper()

	badge := &model.Badge{
		ID:        uuid.Must(uuid.NewV7()).String(),
		Name:      name,
		Condition: condition,
	}
	if _, err := env.sqlSvc.CreateBadge(badge); err != nil {
		t.Fatalf("failed to create badge %s: %v", name, err)
	}
	return badge
}

func (env *testEnv) seedBadgeCatalog(t *testing.T) {
	t.Helper()

	env.createBadge(t, "Shield", "points:300")
	env.createBadge(t, "Medium Shield", "points:500")
	env.createBadge(t, "Bronze Shield", "points:1000")
	env.createBadge(t, "Silver Shield", "points:2500")
	env.createBadge(t, "Gold Shield", "points:5000")
	env.createBadge(t, "Streak Starter", "streak:3")
	env.createBadge(t, "Weekly Warrior", "streak:7")
	env.createBadge(t, "Monthly Master", "streak:30")
	env.createBadge(t, "AI Slayer", "duel_wins:5")
}

func (env *testEnv) setLastCompleted(t *testing.T, userID string, daysAgo int, streak int) {
	t.Helper()

	record, err := env.streakSvc.getOrCreateRecord(userID)
	if err != nil {
		t.Fatalf("failed to load streak record: %v", err)
	}
	record.LastCompletedDate = time.Now().AddDate(0, 0, -daysAgo).Format(dateLayout)
	record.CurrentStreak = streak
	if record.LongestStreak < streak {
		record.LongestStreak = streak
	}
	if err := env.sqlSvc.UpdateStreakRecord(record); err != nil {
		t.Fatalf("failed to update streak record: %v", err)
	}
}
