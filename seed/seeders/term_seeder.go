package seeders

import (
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lexiquest-app/lexi_api/model"
)

// TermSeeder handles seeding the starter vocabulary. The fallback quiz
// generator needs a few terms per department before the first remote
// generation lands.
type TermSeeder struct {
	db *gorm.DB
}

// NewTermSeeder creates a new term seeder
func NewTermSeeder(db *gorm.DB) *TermSeeder {
	return &TermSeeder{db: db}
}

// SeedTerms inserts the starter catalog, skipping terms already present.
func (s *TermSeeder) SeedTerms() error {
	terms := []model.Term{
		{Department: "Engineering", Term: "Technical Debt", Definition: "The future rework cost incurred by choosing a quick solution now over a better one that would take longer", Example: "We shipped fast but racked up technical debt we are still paying down."},
		{Department: "Engineering", Term: "Refactoring", Definition: "Restructuring existing code without changing its external behavior", Example: "The refactoring left the API untouched but halved the file count."},
		{Department: "Engineering", Term: "Idempotent", Definition: "An operation that produces the same result whether applied once or many times", Example: "Retries are safe because the endpoint is idempotent."},
		{Department: "Engineering", Term: "Rollback", Definition: "Reverting a system to a previous stable state after a failed change", Example: "The deploy broke login so we triggered a rollback."},
		{Department: "Engineering", Term: "Canary Release", Definition: "Rolling out a change to a small subset of users before full deployment", Example: "The canary release caught the regression before anyone else saw it."},

		{Department: "Marketing", Term: "Conversion Rate", Definition: "The percentage of prospects who take a desired action", Example: "The new landing page lifted the conversion rate by two points."},
		{Department: "Marketing", Term: "Churn", Definition: "The rate at which customers stop doing business with a company", Example: "Quarterly churn dropped after the loyalty program launch."},
		{Department: "Marketing", Term: "Funnel", Definition: "The staged path a prospect follows from awareness to purchase", Example: "Most drop-off happens at the middle of the funnel."},
		{Department: "Marketing", Term: "Positioning", Definition: "How a product is framed to occupy a distinct place in the customer's mind", Example: "Our positioning targets teams priced out of the enterprise tools."},
		{Department: "Marketing", Term: "Attribution", Definition: "Assigning credit for a conversion to the marketing touchpoints that drove it", Example: "Attribution showed the podcast ads outperformed search."},

		{Department: "Finance", Term: "Burn Rate", Definition: "The pace at which a company spends its cash reserves", Example: "At the current burn rate we have eighteen months of runway."},
		{Department: "Finance", Term: "EBITDA", Definition: "Earnings before interest, taxes, depreciation and amortization", Example: "EBITDA improved even though net income stayed flat."},
		{Department: "Finance", Term: "Accrual", Definition: "Recording revenue or expenses when they are incurred rather than when cash moves", Example: "The December invoice lands in this year's books as an accrual."},
		{Department: "Finance", Term: "Working Capital", Definition: "Current assets minus current liabilities, the cash available for day-to-day operations", Example: "Slow receivables squeezed our working capital."},
		{Department: "Finance", Term: "Amortization", Definition: "Spreading the cost of an intangible asset over its useful life", Example: "The license fee is subject to amortization over five years."},

		{Department: "HR", Term: "Onboarding", Definition: "The structured process of integrating a new employee into the organization", Example: "Onboarding now includes a week of pairing with a mentor."},
		{Department: "HR", Term: "Attrition", Definition: "The gradual reduction of workforce through resignations and retirements", Example: "Attrition in support doubled after the reorg."},
		{Department: "HR", Term: "Calibration", Definition: "Aligning performance ratings across managers to a common standard", Example: "Calibration moved two ratings up and one down."},
		{Department: "HR", Term: "Succession Planning", Definition: "Identifying and developing employees to fill key roles when they open", Example: "Succession planning meant the transition took a week, not a quarter."},
		{Department: "HR", Term: "Total Rewards", Definition: "The complete package of pay, benefits and perks offered to employees", Example: "The total rewards statement shows more than base salary."},
	}

	created := 0
	for _, term := range terms {
		var existing model.Term
		if err := s.db.Where("department = ? AND term = ?", term.Department, term.Term).First(&existing).Error; err == nil {
			continue
		}

		term.ID = uuid.Must(uuid.NewV7()).String()
		term.CreatedAt = time.Now()
		term.UpdatedAt = time.Now()
		if err := s.db.Create(&term).Error; err != nil {
			return err
		}
		created++
	}

	log.Printf("Seeded %d terms (%d already present)", created, len(terms)-created)
	return nil
}
