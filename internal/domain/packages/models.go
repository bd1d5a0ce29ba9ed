package packages

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/zignal-platform/zignal-api/internal/pkg/apperr"
	"github.com/zignal-platform/zignal-api/internal/pkg/validators"
)

// SubscriptionActive is the user_packages status counted as a subscriber
const SubscriptionActive = "active"

// Package entity
type Package struct {
	ID           string    `json:"id" validate:"required,uuid4"`
	Name         string    `json:"name" validate:"required,notblank,max=255"`
	Description  string    `json:"description" validate:"required,notblank"`
	Price        float64   `json:"price" validate:"gte=0"`
	DurationDays int       `json:"duration_days" validate:"gt=0"`
	Features     []string  `json:"features"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Validate for validating Package struct
func (p *Package) Validate() error {
	return validators.Struct(p)
}

// Summary is a package together with its active subscriber count
type Summary struct {
	Package
	SubscriberCount int64 `json:"subscriber_count"`
}

// CreateInput carries the raw admin input for a new package.
// Price and duration arrive as text so that JSON numbers and numeric strings are both accepted.
type CreateInput struct {
	Name         string
	Description  string
	Price        string
	DurationDays string
	Features     []string
	Active       *bool
}

// decimalPattern rejects the NaN, Inf and hex forms strconv.ParseFloat would accept
var decimalPattern = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// ParsePrice accepts a non-negative, finite decimal
func ParsePrice(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, apperr.Validation("Missing required fields: name, description, price, duration_days")
	}
	if !decimalPattern.MatchString(raw) {
		return 0, apperr.Validation("Price must be a number")
	}
	price, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(price) || math.IsInf(price, 0) {
		return 0, apperr.Validation("Price must be a number")
	}
	if price < 0 {
		return 0, apperr.Validation("Price must be greater than or equal to 0")
	}
	return price, nil
}

// ParseDurationDays accepts a positive whole number of days
func ParseDurationDays(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, apperr.Validation("Missing required fields: name, description, price, duration_days")
	}
	days, err := strconv.Atoi(raw)
	if err != nil {
		if !decimalPattern.MatchString(raw) {
			return 0, apperr.Validation("Duration must be a whole number of days")
		}
		f, ferr := strconv.ParseFloat(raw, 64)
		if ferr != nil || f != float64(int(f)) {
			return 0, apperr.Validation("Duration must be a whole number of days")
		}
		days = int(f)
	}
	if days <= 0 {
		return 0, apperr.Validation("Duration must be greater than 0 days")
	}
	return days, nil
}
