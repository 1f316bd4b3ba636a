package search

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestProjectWithoutLead(t *testing.T) {
	row := Project(LeadRow{BusinessID: 7, Name: "Solo", Category: "꽃집", City: "광주", Source: "seed"})

	if row.Signals.Rating != nil || row.Signals.Reviews != nil {
		t.Errorf("missing rating/reviews must stay nil, got %+v", row.Signals)
	}
	if row.Signals.Hiring || row.Signals.Ads || row.Signals.New {
		t.Errorf("missing lead booleans should read as false, got %+v", row.Signals)
	}
	if row.Score != 0 {
		t.Errorf("missing score should be 0, got %v", row.Score)
	}
	if row.ID != 7 || row.Source != "seed" {
		t.Errorf("unexpected identity fields: %+v", row)
	}
}

func TestProjectNestsSignals(t *testing.T) {
	rating, reviews, yes, score := 4.1, 99, true, 42.5
	row := Project(LeadRow{
		BusinessID: 1,
		Name:       "Full",
		Rating:     &rating,
		Reviews:    &reviews,
		Hiring:     &yes,
		IsNew:      &yes,
		Score:      &score,
	})

	if *row.Signals.Rating != 4.1 || *row.Signals.Reviews != 99 {
		t.Errorf("unexpected rating/reviews: %+v", row.Signals)
	}
	if !row.Signals.Hiring || row.Signals.Ads || !row.Signals.New {
		t.Errorf("unexpected booleans: %+v", row.Signals)
	}
	if row.Score != 42.5 {
		t.Errorf("expected score 42.5, got %v", row.Score)
	}
}

func TestResultRowJSONKeepsNulls(t *testing.T) {
	b, err := json.Marshal(Project(LeadRow{BusinessID: 1, Name: "X"}))
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	s := string(b)
	for _, want := range []string{`"rating":null`, `"reviews":null`, `"postalCode":null`, `"signals":{`} {
		if !strings.Contains(s, want) {
			t.Errorf("expected %s in %s", want, s)
		}
	}
}
