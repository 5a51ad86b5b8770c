package treasury

import (
	"context"
	"time"

	"github.com/circleops/treasury/internal/domain/treasury"
	"github.com/google/uuid"
)

// RecurringService materializes recurring transfer definitions into
// approved reimbursements, once per period.
type RecurringService struct {
	uow treasury.UnitOfWork
}

// NewRecurringService creates a new RecurringService
func NewRecurringService(uow treasury.UnitOfWork) *RecurringService {
	return &RecurringService{uow: uow}
}

// GenerateResult reports how many records a generation run created
type GenerateResult struct {
	Count int `json:"count"`
}

// Generate creates the current period's reimbursement for every active
// definition whose window contains asOf. A definition that already has
// a generated record for the period is skipped, so running generation
// twice in the same period is a no-op. Zero created records is success.
func (s *RecurringService) Generate(ctx context.Context, circleID uuid.UUID, asOf time.Time) (*GenerateResult, error) {
	if asOf.IsZero() {
		asOf = time.Now()
	}

	result := &GenerateResult{}
	err := s.uow.Execute(ctx, func(repos treasury.UnitOfWorkRepos) error {
		definitions, err := repos.RecurringTransfers().FindActiveForCircle(ctx, circleID)
		if err != nil {
			return err
		}

		for i := range definitions {
			definition := &definitions[i]

			periodStart, ok := definition.PeriodFor(asOf)
			if !ok {
				continue
			}

			exists, err := repos.Reimbursements().ExistsForPeriod(ctx, circleID, definition.ID, periodStart)
			if err != nil {
				return err
			}
			if exists {
				continue
			}

			reimbursement, err := treasury.NewGeneratedReimbursement(circleID, definition, periodStart)
			if err != nil {
				return err
			}
			if err := repos.Reimbursements().Save(ctx, reimbursement); err != nil {
				return err
			}
			result.Count++
		}

		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
