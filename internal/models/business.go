package models

import (
	"time"
)

// Business represents a local business that can be offered as a lead
// DB: businesses
type Business struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Name       string    `gorm:"column:name;size:255;not null;uniqueIndex:idx_business_name_city" json:"name"`
	Category   string    `gorm:"column:category;size:100;not null;default:'';index:idx_business_category" json:"category"`
	Website    *string   `gorm:"column:website;type:text" json:"website,omitempty"`
	City       string    `gorm:"column:city;size:100;not null;default:'';uniqueIndex:idx_business_name_city" json:"city"`
	PostalCode *string   `gorm:"column:postal_code;size:20" json:"postal_code,omitempty"`
	Phone      *string   `gorm:"column:phone;size:50" json:"phone,omitempty"`
	Email      *string   `gorm:"column:email;size:255" json:"email,omitempty"`
	Source     string    `gorm:"column:source;size:50;not null;default:'seed'" json:"source"`
	CreatedAt  time.Time `gorm:"column:created_at;not null" json:"created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at;not null" json:"updated_at"`

	// Relations
	Lead *Lead `gorm:"foreignKey:BusinessID" json:"lead,omitempty"`
}

func (Business) TableName() string {
	return "businesses"
}

// Lead carries the signal bundle and ranking score of one business
// DB: leads
type Lead struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	BusinessID uint      `gorm:"column:business_id;not null;uniqueIndex:idx_lead_business" json:"business_id"`
	Rating     *float64  `gorm:"column:rating;type:double precision" json:"rating"`
	Reviews    *int      `gorm:"column:reviews" json:"reviews"`
	Hiring     bool      `gorm:"column:hiring;not null;default:false" json:"hiring"`
	Ads        bool      `gorm:"column:ads;not null;default:false" json:"ads"`
	IsNew      bool      `gorm:"column:is_new;not null;default:false" json:"new"`
	Score      float64   `gorm:"column:score;not null;default:0;index:idx_lead_score,sort:desc" json:"score"`
	CreatedAt  time.Time `gorm:"column:created_at;not null" json:"created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at;not null" json:"updated_at"`
}

func (Lead) TableName() string {
	return "leads"
}
