package compoff

import (
	"time"

	"github.com/shopspring/decimal"
)

// Availability says whether the optional comp-off history exists in this
// deployment. The adapter decides it from the database, not from error text.
type Availability string

const (
	Available   Availability = "available"
	Unavailable Availability = "unavailable"
)

// Credit is compensatory time earned by working on a day off.
type Credit struct {
	ID         string
	UserID     string
	WorkedDate time.Time
	Days       decimal.Decimal
	ExpiresOn  *time.Time
	CreatedAt  time.Time
}

// History is the adapter result for a range.
type History struct {
	Availability Availability
	Reason       string // set when unavailable
	Credits      []Credit
}

func (h History) IsAvailable() bool {
	return h.Availability == Available
}

// UnavailableHistory builds the disabled-feature result.
func UnavailableHistory(reason string) History {
	return History{Availability: Unavailable, Reason: reason}
}
