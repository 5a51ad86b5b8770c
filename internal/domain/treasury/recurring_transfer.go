package treasury

import (
	"fmt"
	"time"

	"github.com/circleops/treasury/internal/domain/shared"
	"github.com/circleops/treasury/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Frequency represents how often a recurring transfer generates a record
type Frequency string

const (
	FrequencyMonthly   Frequency = "MONTHLY"
	FrequencyQuarterly Frequency = "QUARTERLY"
	FrequencyAnnual    Frequency = "ANNUAL"
)

// IsValid checks if the frequency is a valid Frequency
func (f Frequency) IsValid() bool {
	switch f {
	case FrequencyMonthly, FrequencyQuarterly, FrequencyAnnual:
		return true
	}
	return false
}

// String returns the string representation of Frequency
func (f Frequency) String() string {
	return string(f)
}

// RecurringTransferStatus represents the status of a recurring definition
type RecurringTransferStatus string

const (
	RecurringTransferStatusActive RecurringTransferStatus = "ACTIVE"
	RecurringTransferStatusPaused RecurringTransferStatus = "PAUSED"
)

// IsValid checks if the status is a valid RecurringTransferStatus
func (s RecurringTransferStatus) IsValid() bool {
	switch s {
	case RecurringTransferStatusActive, RecurringTransferStatusPaused:
		return true
	}
	return false
}

// RecurringTransfer defines a standing reimbursement that the generator
// materializes once per period, for example a monthly rent subsidy.
// Generated records are keyed by (definition ID, period start), which is
// what makes generation idempotent.
type RecurringTransfer struct {
	shared.CircleAggregateRoot
	RecipientUserID uuid.UUID               `json:"recipient_user_id"`
	FundID          uuid.UUID               `json:"fund_id"`
	Amount          decimal.Decimal         `json:"amount"`
	Description     string                  `json:"description"`
	Frequency       Frequency               `json:"frequency"`
	StartDate       time.Time               `json:"start_date"`
	EndDate         *time.Time              `json:"end_date"`
	Status          RecurringTransferStatus `json:"status"`
}

// NewRecurringTransfer creates a new active recurring transfer definition
func NewRecurringTransfer(
	circleID uuid.UUID,
	recipientUserID uuid.UUID,
	fundID uuid.UUID,
	amount valueobject.Money,
	description string,
	frequency Frequency,
	startDate time.Time,
	endDate *time.Time,
) (*RecurringTransfer, error) {
	if recipientUserID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "Recipient user ID cannot be empty")
	}
	if fundID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Fund ID cannot be empty")
	}
	if amount.Amount().LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Amount must be positive")
	}
	if description == "" {
		return nil, shared.NewDomainError("INVALID_DESCRIPTION", "Description cannot be empty")
	}
	if !frequency.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Frequency is not valid")
	}
	if startDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Start date is required")
	}
	if endDate != nil && endDate.Before(startDate) {
		return nil, shared.NewDomainError("INVALID_INPUT", "End date cannot be before start date")
	}

	return &RecurringTransfer{
		CircleAggregateRoot: shared.NewCircleAggregateRoot(circleID),
		RecipientUserID:     recipientUserID,
		FundID:              fundID,
		Amount:              amount.Amount(),
		Description:         description,
		Frequency:           frequency,
		StartDate:           startDate,
		EndDate:             endDate,
		Status:              RecurringTransferStatusActive,
	}, nil
}

// Pause suspends generation for this definition
func (r *RecurringTransfer) Pause() error {
	if r.Status == RecurringTransferStatusPaused {
		return shared.NewDomainError("INVALID_STATE", "Recurring transfer is already paused")
	}
	r.Status = RecurringTransferStatusPaused
	r.UpdatedAt = time.Now()
	return nil
}

// Resume reactivates a paused definition
func (r *RecurringTransfer) Resume() error {
	if r.Status == RecurringTransferStatusActive {
		return shared.NewDomainError("INVALID_STATE", "Recurring transfer is already active")
	}
	r.Status = RecurringTransferStatusActive
	r.UpdatedAt = time.Now()
	return nil
}

// IsActive returns true if the definition generates records
func (r *RecurringTransfer) IsActive() bool {
	return r.Status == RecurringTransferStatusActive
}

// PeriodFor computes the period start containing asOf, or false when
// asOf falls outside the definition's window.
//
// Monthly periods are calendar months. Quarterly periods are 3-month
// blocks anchored at the start date, annual periods are start-date
// anniversary years. Anchors late in the month normalize the way
// time.AddDate does.
func (r *RecurringTransfer) PeriodFor(asOf time.Time) (time.Time, bool) {
	if asOf.Before(r.StartDate) {
		return time.Time{}, false
	}

	var period time.Time
	switch r.Frequency {
	case FrequencyMonthly:
		period = time.Date(asOf.Year(), asOf.Month(), 1, 0, 0, 0, 0, time.UTC)
		// A mid-month start date clamps its first period so generated
		// records never predate the definition.
		if period.Before(r.StartDate) {
			period = r.StartDate
		}
	case FrequencyQuarterly:
		months := monthsSince(r.StartDate, asOf)
		period = r.StartDate.AddDate(0, (months/3)*3, 0)
	case FrequencyAnnual:
		period = r.StartDate.AddDate(yearsSince(r.StartDate, asOf), 0, 0)
	default:
		return time.Time{}, false
	}

	if r.EndDate != nil && period.After(*r.EndDate) {
		return time.Time{}, false
	}
	return period, true
}

// AmountMoney returns the amount as Money
func (r *RecurringTransfer) AmountMoney() valueobject.Money {
	return valueobject.NewMoneyEUR(r.Amount)
}

// monthsSince returns the number of whole months elapsed from start to asOf
func monthsSince(start, asOf time.Time) int {
	months := (asOf.Year()-start.Year())*12 + int(asOf.Month()) - int(start.Month())
	if asOf.Day() < start.Day() {
		months--
	}
	if months < 0 {
		return 0
	}
	return months
}

// yearsSince returns the number of whole years elapsed from start to asOf
func yearsSince(start, asOf time.Time) int {
	years := asOf.Year() - start.Year()
	if years > 0 && asOf.Before(start.AddDate(years, 0, 0)) {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}

// describePeriod is used in generated record descriptions
func describePeriod(f Frequency, periodStart time.Time) string {
	switch f {
	case FrequencyMonthly:
		return periodStart.Format("2006-01")
	case FrequencyQuarterly:
		return fmt.Sprintf("%s quarter", periodStart.Format("2006-01-02"))
	default:
		return periodStart.Format("2006")
	}
}
