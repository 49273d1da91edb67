package seeders

import (
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lexiquest-app/lexi_api/model"
)

// BadgeSeeder handles seeding the badge catalog
type BadgeSeeder struct {
	db *gorm.DB
}

// NewBadgeSeeder creates a new badge seeder
func NewBadgeSeeder(db *gorm.DB) *BadgeSeeder {
	return &BadgeSeeder{db: db}
}

// SeedBadges creates the full badge catalog. Existing badges are left
// untouched so reseeding is safe.
func (s *BadgeSeeder) SeedBadges() error {
	badges := []model.Badge{
		{Name: "Shield", Description: "Reach 300 points", Condition: "points:300"},
		{Name: "Medium Shield", Description: "Reach 500 points", Condition: "points:500"},
		{Name: "Bronze Shield", Description: "Reach 1000 points", Condition: "points:1000"},
		{Name: "Silver Shield", Description: "Reach 2500 points", Condition: "points:2500"},
		{Name: "Gold Shield", Description: "Reach 5000 points", Condition: "points:5000"},
		{Name: "Streak Starter", Description: "Complete 3 days in a row", Condition: "streak:3"},
		{Name: "Weekly Warrior", Description: "Complete 7 days in a row", Condition: "streak:7"},
		{Name: "Monthly Master", Description: "Complete 30 days in a row", Condition: "streak:30"},
		{Name: "AI Slayer", Description: "Win 5 duels against the AI", Condition: "duel_wins:5"},
	}

	created := 0
	for _, badge := range badges {
		var existing model.Badge
		if err := s.db.Where("name = ?", badge.Name).First(&existing).Error; err == nil {
			continue
		}

		badge.ID = uuid.Must(uuid.NewV7()).String()
		badge.CreatedAt = time.Now()
		badge.UpdatedAt = time.Now()
		if err := s.db.Create(&badge).Error; err != nil {
			return err
		}
		created++
	}

	log.Printf("Seeded %d badges (%d already present)", created, len(badges)-created)
	return nil
}
