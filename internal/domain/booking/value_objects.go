package booking

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Money holds a price in the catalog's currency unit. Gateway calls convert to
// minor units at the boundary.
type Money struct {
	amount int64
}

func NewMoney(amount int64) (Money, error) {
	if amount < 0 {
		return Money{}, errors.New("money cannot be negative")
	}
	return Money{amount: amount}, nil
}

// ReconstructMoney rehydrates a stored amount without re-validation.
func ReconstructMoney(amount int64) Money {
	return Money{amount: amount}
}

func (m Money) Amount() int64 {
	return m.amount
}

func (m Money) MinorUnits() int64 {
	return m.amount * 100
}

func (m Money) Add(other Money) Money {
	return Money{amount: m.amount + other.amount}
}

func (m Money) IsZero() bool {
	return m.amount == 0
}

// LineItem is an immutable snapshot of a catalog test or package taken at
// booking creation. Later catalog edits never flow back into it.
type LineItem struct {
	id    uuid.UUID
	name  string
	price Money
}

func NewLineItem(id uuid.UUID, name string, price Money) (LineItem, error) {
	if id == uuid.Nil {
		return LineItem{}, errors.New("line item id required")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return LineItem{}, errors.New("line item name required")
	}
	return LineItem{id: id, name: name, price: price}, nil
}

func ReconstructLineItem(id uuid.UUID, name string, price Money) LineItem {
	return LineItem{id: id, name: name, price: price}
}

func (li LineItem) ID() uuid.UUID { return li.id }
func (li LineItem) Name() string  { return li.name }
func (li LineItem) Price() Money  { return li.price }

// Schedule is the requested appointment slot. The time of day is an opaque
// string; validating it against lab operating hours is not this core's job.
type Schedule struct {
	date      time.Time
	timeOfDay string
}

func NewSchedule(date time.Time, timeOfDay string) (Schedule, error) {
	if date.IsZero() {
		return Schedule{}, errors.New("appointment date required")
	}
	timeOfDay = strings.TrimSpace(timeOfDay)
	if timeOfDay == "" {
		return Schedule{}, errors.New("appointment time required")
	}
	return Schedule{date: date, timeOfDay: timeOfDay}, nil
}

func ReconstructSchedule(date time.Time, timeOfDay string) Schedule {
	return Schedule{date: date, timeOfDay: timeOfDay}
}

func (s Schedule) Date() time.Time   { return s.date }
func (s Schedule) TimeOfDay() string { return s.timeOfDay }

// CancellationDeadline is the last instant at which the owner may still cancel.
// The boundary itself is excluded.
func (s Schedule) CancellationDeadline() time.Time {
	return s.date.Add(-24 * time.Hour)
}

// ResultEntry is one measured value inside a test's result set.
type ResultEntry struct {
	Label          string `json:"label"`
	Value          string `json:"value"`
	Unit           string `json:"unit,omitempty"`
	ReferenceRange string `json:"referenceRange,omitempty"`
	Type           string `json:"type,omitempty"`
	Required       bool   `json:"required,omitempty"`
}

// ResultSet is the full set of clinical values submitted for one test within
// one booking, with submitter identity and timestamp.
type ResultSet struct {
	testID      uuid.UUID
	entries     []ResultEntry
	submittedBy uuid.UUID
	submittedAt time.Time
}

func NewResultSet(testID uuid.UUID, entries []ResultEntry, submittedBy uuid.UUID, submittedAt time.Time) (ResultSet, error) {
	if testID == uuid.Nil {
		return ResultSet{}, errors.New("result set test id required")
	}
	if len(entries) == 0 {
		return ResultSet{}, errors.New("result set requires at least one entry")
	}
	for _, e := range entries {
		if strings.TrimSpace(e.Label) == "" {
			return ResultSet{}, errors.New("result entry label required")
		}
	}
	if submittedBy == uuid.Nil {
		return ResultSet{}, errors.New("result set submitter required")
	}
	return ResultSet{
		testID:      testID,
		entries:     entries,
		submittedBy: submittedBy,
		submittedAt: submittedAt,
	}, nil
}

func ReconstructResultSet(testID uuid.UUID, entries []ResultEntry, submittedBy uuid.UUID, submittedAt time.Time) ResultSet {
	return ResultSet{
		testID:      testID,
		entries:     entries,
		submittedBy: submittedBy,
		submittedAt: submittedAt,
	}
}

func (r ResultSet) TestID() uuid.UUID      { return r.testID }
func (r ResultSet) Entries() []ResultEntry { return r.entries }
func (r ResultSet) SubmittedBy() uuid.UUID { return r.submittedBy }
func (r ResultSet) SubmittedAt() time.Time { return r.submittedAt }
