package transactions

import (
	"strings"
	"time"

	"github.com/moneytrack-io/moneytrack/internal/models"
	"github.com/moneytrack-io/moneytrack/internal/respond"
)

// ValidDate reports whether s is a real calendar date in YYYY-MM-DD form.
func ValidDate(s string) bool {
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

// Validate checks a transaction payload before any storage access and
// returns one entry per failing field.
func Validate(f Fields) []respond.FieldError {
	var errs []respond.FieldError
	if !models.TransactionType(f.Type).Valid() {
		errs = append(errs, respond.FieldError{Field: "type", Message: `Type must be either "expense" or "revenue"`})
	}
	if f.Amount <= 0 {
		errs = append(errs, respond.FieldError{Field: "amount", Message: "Amount must be a positive number"})
	}
	if strings.TrimSpace(f.Description) == "" {
		errs = append(errs, respond.FieldError{Field: "description", Message: "Description is required"})
	}
	if !ValidDate(f.Date) {
		errs = append(errs, respond.FieldError{Field: "date", Message: "Date must be a valid date (YYYY-MM-DD)"})
	}
	return errs
}
