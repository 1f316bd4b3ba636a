package search

// Signals is the nested signal bundle of a result row
type Signals struct {
	Rating  *float64 `json:"rating"`
	Reviews *int     `json:"reviews"`
	Hiring  bool     `json:"hiring"`
	Ads     bool     `json:"ads"`
	New     bool     `json:"new"`
}

// ResultRow is the UI-facing projection of a business and its lead record
type ResultRow struct {
	ID         uint    `json:"id"`
	Name       string  `json:"name"`
	Category   string  `json:"category"`
	Website    *string `json:"website"`
	City       string  `json:"city"`
	PostalCode *string `json:"postalCode"`
	Phone      *string `json:"phone"`
	Email      *string `json:"email"`
	Signals    Signals `json:"signals"`
	Score      float64 `json:"score"`
	Source     string  `json:"source"`
}

// LeadRow is one row of the businesses LEFT JOIN leads query.
// Lead columns are pointers because a business may have no lead record.
type LeadRow struct {
	BusinessID uint     `gorm:"column:business_id"`
	Name       string   `gorm:"column:name"`
	Category   string   `gorm:"column:category"`
	Website    *string  `gorm:"column:website"`
	City       string   `gorm:"column:city"`
	PostalCode *string  `gorm:"column:postal_code"`
	Phone      *string  `gorm:"column:phone"`
	Email      *string  `gorm:"column:email"`
	Source     string   `gorm:"column:source"`
	Rating     *float64 `gorm:"column:rating"`
	Reviews    *int     `gorm:"column:reviews"`
	Hiring     *bool    `gorm:"column:hiring"`
	Ads        *bool    `gorm:"column:ads"`
	IsNew      *bool    `gorm:"column:is_new"`
	Score      *float64 `gorm:"column:score"`
}

// Project maps a persisted row into the external result shape.
// Rating and reviews keep their nil; absent booleans read as false and an absent score as 0.
func Project(r LeadRow) ResultRow {
	return ResultRow{
		ID:         r.BusinessID,
		Name:       r.Name,
		Category:   r.Category,
		Website:    r.Website,
		City:       r.City,
		PostalCode: r.PostalCode,
		Phone:      r.Phone,
		Email:      r.Email,
		Signals: Signals{
			Rating:  r.Rating,
			Reviews: r.Reviews,
			Hiring:  deref(r.Hiring),
			Ads:     deref(r.Ads),
			New:     deref(r.IsNew),
		},
		Score:  deref(r.Score),
		Source: r.Source,
	}
}

// ProjectAll projects rows in order
func ProjectAll(rows []LeadRow) []ResultRow {
	out := make([]ResultRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, Project(r))
	}
	return out
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
