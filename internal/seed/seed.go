package seed

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ggorockee/leadmaps/internal/database"
	"github.com/ggorockee/leadmaps/internal/logger"
	"github.com/ggorockee/leadmaps/internal/models"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultSource tags rows loaded without an explicit source
const DefaultSource = "seed"

// File is the top-level layout of a seed YAML file
type File struct {
	Businesses []Entry `yaml:"businesses"`
}

// Entry is one business and its lead signals
type Entry struct {
	Name       string   `yaml:"name" validate:"required,max=255"`
	Category   string   `yaml:"category" validate:"max=100"`
	Website    *string  `yaml:"website"`
	City       string   `yaml:"city" validate:"max=100"`
	PostalCode *string  `yaml:"postal_code" validate:"omitempty,max=20"`
	Phone      *string  `yaml:"phone" validate:"omitempty,max=50"`
	Email      *string  `yaml:"email" validate:"omitempty,email"`
	Source     string   `yaml:"source" validate:"max=50"`
	Rating     *float64 `yaml:"rating" validate:"omitempty,min=0,max=5"`
	Reviews    *int     `yaml:"reviews" validate:"omitempty,min=0"`
	Hiring     bool     `yaml:"hiring"`
	Ads        bool     `yaml:"ads"`
	New        bool     `yaml:"new"`
	Score      float64  `yaml:"score" validate:"min=0,max=100"`
}

var validate = validator.New()

// Load reads and validates a seed file
func Load(path string) ([]Entry, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var f File
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	for i := range f.Businesses {
		e := &f.Businesses[i]
		e.Name = strings.TrimSpace(e.Name)
		e.City = strings.TrimSpace(e.City)
		if e.Source == "" {
			e.Source = DefaultSource
		}
		if err := validate.Struct(e); err != nil {
			return nil, fmt.Errorf("entry %d (%q): %w", i, e.Name, err)
		}
	}
	return f.Businesses, nil
}

// Models splits an entry into the business row and its lead
func (e Entry) Models() (models.Business, models.Lead) {
	b := models.Business{
		Name:       e.Name,
		Category:   e.Category,
		Website:    e.Website,
		City:       e.City,
		PostalCode: e.PostalCode,
		Phone:      e.Phone,
		Email:      e.Email,
		Source:     e.Source,
	}
	l := models.Lead{
		Rating:  e.Rating,
		Reviews: e.Reviews,
		Hiring:  e.Hiring,
		Ads:     e.Ads,
		IsNew:   e.New,
		Score:   e.Score,
	}
	return b, l
}

// Apply upserts entries in one transaction. Re-applying the same file
// updates rows in place, keyed by (name, city) and business_id.
func Apply(ctx context.Context, db *database.DB, entries []Entry) (int, error) {
	log := logger.GetLogger("seed")

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, e := range entries {
			business, lead := e.Models()

			if err := tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "name"}, {Name: "city"}},
				DoUpdates: clause.AssignmentColumns([]string{
					"category", "website", "postal_code", "phone", "email", "source", "updated_at",
				}),
			}).Create(&business).Error; err != nil {
				return fmt.Errorf("upsert business %q: %w", e.Name, err)
			}

			lead.BusinessID = business.ID
			if err := tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "business_id"}},
				DoUpdates: clause.AssignmentColumns([]string{
					"rating", "reviews", "hiring", "ads", "is_new", "score", "updated_at",
				}),
			}).Create(&lead).Error; err != nil {
				return fmt.Errorf("upsert lead for %q: %w", e.Name, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	log.Infow("seed applied", "businesses", len(entries))
	return len(entries), nil
}
