package search

import "sort"

// SourceMock tags rows served from the fallback dataset
const SourceMock = "mock"

// Fallback serves a small fixed dataset when the live store has nothing to show,
// so empty or demo environments still render results.
type Fallback struct {
	rows []ResultRow
}

// NewFallback builds a provider over rows; with no rows the built-in sample set is used.
// Every row is tagged with SourceMock.
func NewFallback(rows ...ResultRow) *Fallback {
	if len(rows) == 0 {
		rows = sampleRows()
	}
	tagged := make([]ResultRow, len(rows))
	for i, r := range rows {
		r.Source = SourceMock
		tagged[i] = r
	}
	return &Fallback{rows: tagged}
}

// Filter applies preds to the dataset, orders by score descending and caps at limit.
func (f *Fallback) Filter(preds []Predicate, limit int) []ResultRow {
	out := make([]ResultRow, 0, len(f.rows))
	for _, r := range f.rows {
		if MatchAll(preds, r) {
			out = append(out, r)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func sampleRows() []ResultRow {
	return []ResultRow{
		{
			ID:         900001,
			Name:       "카페 온더코너",
			Category:   "카페",
			Website:    strPtr("https://onthecorner.example.kr"),
			City:       "서울",
			PostalCode: strPtr("04524"),
			Phone:      strPtr("02-123-4567"),
			Signals:    Signals{Rating: floatPtr(4.6), Reviews: intPtr(312), Hiring: true, Ads: false, New: false},
			Score:      87,
		},
		{
			ID:         900002,
			Name:       "미소치과의원",
			Category:   "치과",
			Website:    strPtr("https://miso-dental.example.kr"),
			City:       "부산",
			PostalCode: strPtr("48058"),
			Phone:      strPtr("051-987-6543"),
			Email:      strPtr("hello@miso-dental.example.kr"),
			Signals:    Signals{Rating: floatPtr(4.2), Reviews: intPtr(128), Hiring: false, Ads: true, New: false},
			Score:      74,
		},
		{
			ID:         900003,
			Name:       "바른 필라테스 스튜디오",
			Category:   "피트니스",
			City:       "대구",
			PostalCode: strPtr("41911"),
			Signals:    Signals{Rating: nil, Reviews: nil, Hiring: false, Ads: false, New: true},
			Score:      61,
		},
		{
			ID:         900004,
			Name:       "그린 헤어살롱",
			Category:   "미용실",
			Website:    strPtr("https://green-hair.example.kr"),
			City:       "서울",
			PostalCode: strPtr("06035"),
			Phone:      strPtr("02-555-0199"),
			Signals:    Signals{Rating: floatPtr(3.9), Reviews: intPtr(45), Hiring: true, Ads: true, New: true},
			Score:      55,
		},
	}
}

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }

func intPtr(i int) *int { return &i }
