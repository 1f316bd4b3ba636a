package search

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
)

// DefaultLimit is applied when the caller does not ask for a row cap
const DefaultLimit = 50

// ErrInvalidInput marks a filter that failed schema validation
var ErrInvalidInput = errors.New("invalid input")

// Filter is the validated lead-search filter set. A nil field imposes no predicate.
type Filter struct {
	Keywords    *string  `json:"keywords,omitempty" validate:"omitempty,max=200"`
	Category    *string  `json:"category,omitempty" validate:"omitempty,max=100"`
	Location    *string  `json:"location,omitempty" validate:"omitempty,max=100"`
	RadiusKm    *int     `json:"radiusKm,omitempty" validate:"omitempty,min=0,max=500"`
	Hiring      *bool    `json:"hiring,omitempty"`
	Ads         *bool    `json:"ads,omitempty"`
	NewlyOpened *bool    `json:"newlyOpened,omitempty"`
	MinRating   *float64 `json:"minRating,omitempty" validate:"omitempty,min=0,max=5"`
	MinReviews  *int     `json:"minReviews,omitempty" validate:"omitempty,min=0,max=10000"`
	Limit       int      `json:"limit" validate:"min=1,max=200"`
}

// filterInput is the decode target for untrusted input; Limit stays a pointer
// so an explicit 0 can be told apart from an absent value.
type filterInput struct {
	Keywords    *string  `mapstructure:"keywords"`
	Category    *string  `mapstructure:"category"`
	Location    *string  `mapstructure:"location"`
	RadiusKm    *int     `mapstructure:"radiusKm"`
	Hiring      *bool    `mapstructure:"hiring"`
	Ads         *bool    `mapstructure:"ads"`
	NewlyOpened *bool    `mapstructure:"newlyOpened"`
	MinRating   *float64 `mapstructure:"minRating"`
	MinReviews  *int     `mapstructure:"minReviews"`
	Limit       *int     `mapstructure:"limit"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// ParseFilter sanitizes, coerces and validates a raw filter record.
// Every failure wraps ErrInvalidInput.
func ParseFilter(raw map[string]any) (Filter, error) {
	var in filterInput

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.DecodeHookFuncType(coerce),
		Result:     &in,
	})
	if err != nil {
		return Filter{}, err
	}
	if err := decoder.Decode(SanitizeFields(raw, textFields...)); err != nil {
		return Filter{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	f := Filter{
		Keywords:    in.Keywords,
		Category:    in.Category,
		Location:    in.Location,
		RadiusKm:    in.RadiusKm,
		Hiring:      in.Hiring,
		Ads:         in.Ads,
		NewlyOpened: in.NewlyOpened,
		MinRating:   in.MinRating,
		MinReviews:  in.MinReviews,
		Limit:       DefaultLimit,
	}
	if in.Limit != nil {
		f.Limit = *in.Limit
	}

	if err := validate.Struct(f); err != nil {
		return Filter{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return f, nil
}

// coerce trims strings, drops blank ones and converts numeric-looking strings
// into the numeric or boolean type of the target field.
func coerce(_ reflect.Type, to reflect.Type, data any) (any, error) {
	if to.Kind() == reflect.Ptr {
		to = to.Elem()
	}

	switch v := data.(type) {
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return nil, nil
		}
		switch to.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			n, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, fmt.Errorf("not a number")
			}
			return toInteger(n)
		case reflect.Float32, reflect.Float64:
			n, err := strconv.ParseFloat(s, 64)
			if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
				return nil, fmt.Errorf("not a number")
			}
			return n, nil
		case reflect.Bool:
			b, err := strconv.ParseBool(s)
			if err != nil {
				return nil, fmt.Errorf("not a boolean")
			}
			return b, nil
		}
		return s, nil
	case float64:
		switch to.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return toInteger(v)
		}
	}
	return data, nil
}

func toInteger(n float64) (int64, error) {
	if n != math.Trunc(n) || math.IsInf(n, 0) || math.Abs(n) > math.MaxInt32 {
		return 0, fmt.Errorf("not an integer")
	}
	return int64(n), nil
}
