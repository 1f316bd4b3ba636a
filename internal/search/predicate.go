package search

import (
	"strings"
)

// Field names the filter a predicate was derived from
type Field string

const (
	FieldCategory    Field = "category"
	FieldKeywords    Field = "keywords"
	FieldHiring      Field = "hiring"
	FieldAds         Field = "ads"
	FieldNewlyOpened Field = "newlyOpened"
	FieldMinRating   Field = "minRating"
	FieldMinReviews  Field = "minReviews"
)

// Op is the comparison kind of a predicate
type Op int

const (
	// OpContains: case-insensitive substring of one column
	OpContains Op = iota
	// OpContainsAny: case-insensitive substring of any of several columns
	OpContainsAny
	// OpEquals: boolean equality
	OpEquals
	// OpAtLeast: numeric >=, a missing value never satisfies it
	OpAtLeast
)

// Predicate is a single typed condition over a candidate row.
// Exactly one of Text, Bool or Number is meaningful, depending on Op.
type Predicate struct {
	Field  Field
	Op     Op
	Text   string
	Bool   bool
	Number float64
}

// keywordColumns are searched by the keywords predicate, ORed together
var keywordColumns = []string{"businesses.name", "businesses.city", "businesses.website"}

// Compose translates a validated filter into AND-combined predicates.
// location and radiusKm are accepted by the validator but produce no predicate.
func Compose(f Filter) []Predicate {
	var preds []Predicate

	if f.Category != nil {
		preds = append(preds, Predicate{Field: FieldCategory, Op: OpContains, Text: *f.Category})
	}
	if f.Keywords != nil {
		preds = append(preds, Predicate{Field: FieldKeywords, Op: OpContainsAny, Text: *f.Keywords})
	}
	if f.Hiring != nil {
		preds = append(preds, Predicate{Field: FieldHiring, Op: OpEquals, Bool: *f.Hiring})
	}
	if f.Ads != nil {
		preds = append(preds, Predicate{Field: FieldAds, Op: OpEquals, Bool: *f.Ads})
	}
	if f.NewlyOpened != nil {
		preds = append(preds, Predicate{Field: FieldNewlyOpened, Op: OpEquals, Bool: *f.NewlyOpened})
	}
	if f.MinRating != nil {
		preds = append(preds, Predicate{Field: FieldMinRating, Op: OpAtLeast, Number: *f.MinRating})
	}
	if f.MinReviews != nil {
		preds = append(preds, Predicate{Field: FieldMinReviews, Op: OpAtLeast, Number: float64(*f.MinReviews)})
	}

	return preds
}

// SQL renders the predicate as a parameterized condition for the
// businesses LEFT JOIN leads query. User values only ever appear in args.
func (p Predicate) SQL() (string, []any) {
	switch p.Field {
	case FieldCategory:
		return "businesses.category ILIKE ?", []any{likePattern(p.Text)}
	case FieldKeywords:
		pattern := likePattern(p.Text)
		conds := make([]string, len(keywordColumns))
		args := make([]any, len(keywordColumns))
		for i, col := range keywordColumns {
			conds[i] = col + " ILIKE ?"
			args[i] = pattern
		}
		return "(" + strings.Join(conds, " OR ") + ")", args
	case FieldHiring:
		return "COALESCE(leads.hiring, false) = ?", []any{p.Bool}
	case FieldAds:
		return "COALESCE(leads.ads, false) = ?", []any{p.Bool}
	case FieldNewlyOpened:
		return "COALESCE(leads.is_new, false) = ?", []any{p.Bool}
	case FieldMinRating:
		// NULL >= x is never true, so rows without a rating drop out
		return "leads.rating >= ?", []any{p.Number}
	case FieldMinReviews:
		return "leads.reviews >= ?", []any{int(p.Number)}
	}
	return "1 = 1", nil
}

// Match evaluates the predicate against an in-memory row with the same semantics as SQL.
func (p Predicate) Match(r ResultRow) bool {
	switch p.Field {
	case FieldCategory:
		return containsFold(r.Category, p.Text)
	case FieldKeywords:
		return containsFold(r.Name, p.Text) ||
			containsFold(r.City, p.Text) ||
			(r.Website != nil && containsFold(*r.Website, p.Text))
	case FieldHiring:
		return r.Signals.Hiring == p.Bool
	case FieldAds:
		return r.Signals.Ads == p.Bool
	case FieldNewlyOpened:
		return r.Signals.New == p.Bool
	case FieldMinRating:
		return r.Signals.Rating != nil && *r.Signals.Rating >= p.Number
	case FieldMinReviews:
		return r.Signals.Reviews != nil && float64(*r.Signals.Reviews) >= p.Number
	}
	return true
}

// MatchAll reports whether every predicate holds for the row
func MatchAll(preds []Predicate, r ResultRow) bool {
	for _, p := range preds {
		if !p.Match(r) {
			return false
		}
	}
	return true
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern wraps text for a substring ILIKE with its wildcards escaped
func likePattern(text string) string {
	return "%" + likeEscaper.Replace(text) + "%"
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
