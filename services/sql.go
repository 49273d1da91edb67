package services

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/alphabatem/common/context"
	"github.com/lexiquest-app/lexi_api/model"
	log "github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type SqlService struct {
	context.DefaultService
	db *gorm.DB

	driver string
	dsn    string
}

const SQL_SVC = "sql_svc"

func (ds SqlService) Id() string {
	return SQL_SVC
}

// Db Access to raw db handle
func (ds SqlService) Db() *gorm.DB {
	return ds.db
}

func (ds *SqlService) Configure(ctx *context.Context) error {
	ds.driver = os.Getenv("DB_DRIVER")
	if ds.driver == "" {
		ds.driver = "postgres"
	}

	if ds.driver == "sqlite" {
		ds.dsn = os.Getenv("DB_DATABASE")
		if ds.dsn == "" {
			ds.dsn = "lexi.db"
		}
		return ds.DefaultService.Configure(ctx)
	}

	ds.dsn = os.Getenv("DATABASE_URL")
	if ds.dsn == "" {
		host := envOr("DB_HOST", "localhost")
		port := envOr("DB_PORT", "5432")
		user := envOr("DB_USER", "postgres")
		password := envOr("DB_PASSWORD", "postgres")
		dbname := envOr("DB_NAME", "lexi_api")
		sslmode := envOr("DB_SSLMODE", "disable")
		timezone := envOr("DB_TIMEZONE", "UTC")

		ds.dsn = fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
			host, user, password, dbname, port, sslmode, timezone)
	}

	return ds.DefaultService.Configure(ctx)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Start opens the connection (with retry against postgres) and migrates
// any tables that have changed since last runtime.
func (ds *SqlService) Start() (err error) {
	if ds.driver == "sqlite" {
		ds.db, err = gorm.Open(sqlite.Open(ds.dsn), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Error),
		})
		if err != nil {
			return err
		}
		return ds.migrate()
	}

	maxRetries := 10
	retryDelay := time.Second

	for attempt := 1; attempt <= maxRetries; attempt++ {
		ds.db, err = gorm.Open(postgres.Open(ds.dsn), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Error),
		})

		if err == nil {
			sqlDB, dbErr := ds.db.DB()
			if dbErr == nil {
				if pingErr := sqlDB.Ping(); pingErr == nil {
					break
				} else {
					err = pingErr
				}
			} else {
				err = dbErr
			}
		}

		if attempt == maxRetries {
			log.WithError(err).Errorf("Failed to connect to database after %d attempts", maxRetries)
			return err
		}

		log.WithError(err).Warnf("Database connection failed, retrying in %v", retryDelay)
		time.Sleep(retryDelay)

		retryDelay *= 2
		if retryDelay > 10*time.Second {
			retryDelay = 10 * time.Second
		}
	}

	return ds.migrate()
}

func (ds *SqlService) migrate() error {
	models := []interface{}{
		&model.User{},
		&model.Term{},
		&model.DailyContent{},
		&model.LearnedTerm{},
		&model.StreakRecord{},
		&model.Badge{},
		&model.UserBadge{},
		&model.DuelSession{},
		&model.AsyncBattle{},
	}

	if err := ds.db.AutoMigrate(models...); err != nil {
		log.WithError(err).Error("Failed to migrate database")
		return err
	}

	log.Info("Database connected and migrated successfully")
	return nil
}

func (ds *SqlService) Shutdown() {
	if ds.db == nil {
		return
	}
	if sqlDB, err := ds.db.DB(); err == nil {
		sqlDB.Close()
	}
}

// IsDuplicateKey reports whether err is a unique-constraint violation,
// across both the postgres and sqlite drivers.
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}

// ==================== USERS ====================

func (ds *SqlService) CreateUser(user *model.User) (*model.User, error) {
	if err := ds.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

func (ds *SqlService) GetUser(userID string) (*model.User, error) {
	var user model.User
	if err := ds.db.Where("id = ?", userID).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (ds *SqlService) GetUserByEmailOrUsername(emailOrUsername string) (*model.User, error) {
	var user model.User
	if err := ds.db.Where("email = ? OR username = ?", emailOrUsername, emailOrUsername).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (ds *SqlService) GetUserByUsername(username string) (*model.User, error) {
	var user model.User
	if err := ds.db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (ds *SqlService) UpdateLastLogin(userID string) error {
	now := time.Now()
	return ds.db.Model(&model.User{}).Where("id = ?", userID).
		Updates(map[string]interface{}{"last_login": &now, "updated_at": now}).Error
}

// AddPointsAtomic applies a relative increment so that concurrent
// mutations from different request paths never lose updates.
func (ds *SqlService) AddPointsAtomic(userID string, amount int) error {
	res := ds.db.Model(&model.User{}).Where("id = ?", userID).
		UpdateColumn("points", gorm.Expr("points + ?", amount))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeductPointsIfEnough is a conditional decrement; it reports whether
// the deduction was applied.
func (ds *SqlService) DeductPointsIfEnough(userID string, cost int) (bool, error) {
	res := ds.db.Model(&model.User{}).Where("id = ? AND points >= ?", userID, cost).
		UpdateColumn("points", gorm.Expr("points - ?", cost))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (ds *SqlService) SetWordsLearned(userID string, count int) error {
	return ds.db.Model(&model.User{}).Where("id = ?", userID).
		UpdateColumn("words_learned", count).Error
}

func (ds *SqlService) UpdateQuizStats(userID string, quizzesTaken int, avgScore float64) error {
	return ds.db.Model(&model.User{}).Where("id = ?", userID).
		Updates(map[string]interface{}{"quizzes_taken": quizzesTaken, "avg_quiz_score": avgScore}).Error
}

func (ds *SqlService) GetTopUsersByPoints(limit int) ([]model.User, error) {
	var users []model.User
	err := ds.db.Where("is_active = ?", true).
		Order("points DESC").Limit(limit).Find(&users).Error
	return users, err
}

func (ds *SqlService) GetUserRankByPoints(userID string) (int, error) {
	user, err := ds.GetUser(userID)
	if err != nil {
		return 0, err
	}

	var ahead int64
	err = ds.db.Model(&model.User{}).
		Where("is_active = ? AND points > ?", true, user.Points).
		Count(&ahead).Error
	if err != nil {
		return 0, err
	}
	return int(ahead) + 1, nil
}

// ==================== TERMS ====================

func (ds *SqlService) CreateTerm(term *model.Term) (*model.Term, error) {
	if err := ds.db.Create(term).Error; err != nil {
		return nil, err
	}
	return term, nil
}

func (ds *SqlService) GetTerm(termID string) (*model.Term, error) {
	var term model.Term
	if err := ds.db.Where("id = ?", termID).First(&term).Error; err != nil {
		return nil, err
	}
	return &term, nil
}

func (ds *SqlService) GetTermByName(department, term string) (*model.Term, error) {
	var record model.Term
	err := ds.db.Where("department = ? AND term = ?", department, term).First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (ds *SqlService) GetTermsByDepartment(department string) ([]model.Term, error) {
	var terms []model.Term
	q := ds.db.Order("term ASC")
	if department != "" {
		q = q.Where("department = ?", department)
	}
	err := q.Find(&terms).Error
	return terms, err
}

// GetUnlearnedTerms returns the department's terms whose IDs are not in
// the user's learned set; it feeds the generation exclusion list.
func (ds *SqlService) GetUnlearnedTerms(userID, department string) ([]model.Term, error) {
	var terms []model.Term
	sub := ds.db.Model(&model.LearnedTerm{}).Select("term_id").Where("user_id = ?", userID)
	err := ds.db.Where("department = ?", department).
		Where("id NOT IN (?)", sub).
		Find(&terms).Error
	return terms, err
}

func (ds *SqlService) GetDepartments() ([]string, error) {
	var departments []string
	err := ds.db.Model(&model.Term{}).Distinct("department").
		Order("department ASC").Pluck("department", &departments).Error
	return departments, err
}

// ==================== DAILY CONTENT ====================

func (ds *SqlService) GetDailyContent(department, date string) (*model.DailyContent, error) {
	var content model.DailyContent
	err := ds.db.Preload("Term").
		Where("department = ? AND date = ?", department, date).
		First(&content).Error
	if err != nil {
		return nil, err
	}
	return &content, nil
}

// CreateDailyContentWithTerm persists the generated term and the daily
// content row in one transaction so a failure never leaves a partial
// record behind.
func (ds *SqlService) CreateDailyContentWithTerm(term *model.Term, content *model.DailyContent) error {
	return ds.db.Transaction(func(tx *gorm.DB) error {
		if term != nil {
			if err := tx.Create(term).Error; err != nil {
				return err
			}
			content.TermID = term.ID
		}
		return tx.Create(content).Error
	})
}

// ==================== LEARNED TERMS ====================

func (ds *SqlService) GetLearnedTerm(userID, termID string) (*model.LearnedTerm, error) {
	var record model.LearnedTerm
	err := ds.db.Where("user_id = ? AND term_id = ?", userID, termID).First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (ds *SqlService) CreateLearnedTerm(record *model.LearnedTerm) error {
	return ds.db.Create(record).Error
}

func (ds *SqlService) CountLearnedTerms(userID string) (int64, error) {
	var count int64
	err := ds.db.Model(&model.LearnedTerm{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

func (ds *SqlService) GetLearnedTerms(userID string) ([]model.LearnedTerm, error) {
	var records []model.LearnedTerm
	err := ds.db.Where("user_id = ?", userID).Order("learned_at DESC").Find(&records).Error
	return records, err
}

// ==================== STREAKS ====================

func (ds *SqlService) GetStreakRecord(userID string) (*model.StreakRecord, error) {
	var record model.StreakRecord
	if err := ds.db.Where("user_id = ?", userID).First(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

func (ds *SqlService) CreateStreakRecord(record *model.StreakRecord) (*model.StreakRecord, error) {
	if err := ds.db.Create(record).Error; err != nil {
		return nil, err
	}
	return record, nil
}

func (ds *SqlService) UpdateStreakRecord(record *model.StreakRecord) error {
	record.UpdatedAt = time.Now()
	return ds.db.Save(record).Error
}

// ==================== BADGES ====================

func (ds *SqlService) CreateBadge(badge *model.Badge) (*model.Badge, error) {
	if err := ds.db.Create(badge).Error; err != nil {
		return nil, err
	}
	return badge, nil
}

func (ds *SqlService) GetBadgeByName(name string) (*model.Badge, error) {
	var badge model.Badge
	if err := ds.db.Where("name = ?", name).First(&badge).Error; err != nil {
		return nil, err
	}
	return &badge, nil
}

func (ds *SqlService) GetBadges() ([]model.Badge, error) {
	var badges []model.Badge
	err := ds.db.Order("name ASC").Find(&badges).Error
	return badges, err
}

func (ds *SqlService) GetUserBadges(userID string) ([]model.UserBadge, error) {
	var records []model.UserBadge
	err := ds.db.Preload("Badge").Where("user_id = ?", userID).
		Order("earned_at DESC").Find(&records).Error
	return records, err
}

func (ds *SqlService) HasBadge(userID, badgeID string) (bool, error) {
	var count int64
	err := ds.db.Model(&model.UserBadge{}).
		Where("user_id = ? AND badge_id = ?", userID, badgeID).Count(&count).Error
	return count > 0, err
}

func (ds *SqlService) CreateUserBadge(record *model.UserBadge) error {
	return ds.db.Create(record).Error
}

// ==================== DUELS ====================

func (ds *SqlService) CreateDuel(duel *model.DuelSession) (*model.DuelSession, error) {
	if err := ds.db.Create(duel).Error; err != nil {
		return nil, err
	}
	return duel, nil
}

func (ds *SqlService) GetDuel(duelID string) (*model.DuelSession, error) {
	var duel model.DuelSession
	if err := ds.db.Where("id = ?", duelID).First(&duel).Error; err != nil {
		return nil, err
	}
	return &duel, nil
}

func (ds *SqlService) UpdateDuel(duel *model.DuelSession) error {
	duel.UpdatedAt = time.Now()
	return ds.db.Save(duel).Error
}

func (ds *SqlService) GetUserDuels(userID string) ([]model.DuelSession, error) {
	var duels []model.DuelSession
	err := ds.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&duels).Error
	return duels, err
}

func (ds *SqlService) CountDuelWins(userID string) (int64, error) {
	var count int64
	err := ds.db.Model(&model.DuelSession{}).
		Where("user_id = ? AND completed = ? AND user_score > ai_score", userID, true).
		Count(&count).Error
	return count, err
}

// ==================== BATTLES ====================

func (ds *SqlService) CreateBattle(battle *model.AsyncBattle) (*model.AsyncBattle, error) {
	if err := ds.db.Create(battle).Error; err != nil {
		return nil, err
	}
	return battle, nil
}

func (ds *SqlService) GetBattle(battleID string) (*model.AsyncBattle, error) {
	var battle model.AsyncBattle
	if err := ds.db.Where("id = ?", battleID).First(&battle).Error; err != nil {
		return nil, err
	}
	return &battle, nil
}

func (ds *SqlService) UpdateBattle(battle *model.AsyncBattle) error {
	battle.UpdatedAt = time.Now()
	return ds.db.Save(battle).Error
}

// ClaimBattle transitions pending -> active only when the row is still
// pending, so two joiners cannot both win the race.
func (ds *SqlService) ClaimBattle(battleID, opponentID string) (bool, error) {
	res := ds.db.Model(&model.AsyncBattle{}).
		Where("id = ? AND status = ?", battleID, "pending").
		Updates(map[string]interface{}{
			"opponent_id": opponentID,
			"status":      "active",
			"updated_at":  time.Now(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// FinalizeBattle marks a battle completed only if it is not completed
// yet. The caller that wins this write is the one that pays out.
func (ds *SqlService) FinalizeBattle(battleID string, winnerID *string) (bool, error) {
	res := ds.db.Model(&model.AsyncBattle{}).
		Where("id = ? AND status <> ?", battleID, "completed").
		Updates(map[string]interface{}{
			"status":     "completed",
			"winner_id":  winnerID,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (ds *SqlService) GetBattlesForUser(userID string) ([]model.AsyncBattle, error) {
	var battles []model.AsyncBattle
	err := ds.db.Where("challenger_id = ? OR opponent_id = ?", userID, userID).
		Order("created_at DESC").Find(&battles).Error
	return battles, err
}

func (ds *SqlService) GetOpenBattles(department, excludeUserID string) ([]model.AsyncBattle, error) {
	var battles []model.AsyncBattle
	err := ds.db.Where("status = ? AND department = ? AND challenger_id != ?",
		"pending", department, excludeUserID).
		Order("created_at ASC").Find(&battles).Error
	return battles, err
}
