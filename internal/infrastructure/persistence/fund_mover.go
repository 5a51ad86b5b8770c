package persistence

import (
	"context"
	"time"

	"github.com/circleops/treasury/internal/domain/treasury"
	"github.com/circleops/treasury/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormFundMover implements treasury.FundMover using GORM.
// Count and Move build the same WHERE clause, so a dry run reports
// exactly what a commit on the same snapshot would touch.
type GormFundMover struct {
	db *gorm.DB
}

// NewGormFundMover creates a new GormFundMover
func NewGormFundMover(db *gorm.DB) *GormFundMover {
	return &GormFundMover{db: db}
}

func (m *GormFundMover) reimbursementQuery(ctx context.Context, circleID uuid.UUID, f treasury.MoveFilter) *gorm.DB {
	query := m.db.WithContext(ctx).Model(&models.ReimbursementModel{}).
		Where("circle_id = ? AND fund_id = ? AND expense_date >= ?", circleID, f.SourceFundID, f.FromDate)
	if len(f.ReimbursementStatuses) > 0 {
		query = query.Where("status IN ?", f.ReimbursementStatuses)
	}
	return query
}

func (m *GormFundMover) plannedExpenseQuery(ctx context.Context, circleID uuid.UUID, f treasury.MoveFilter) *gorm.DB {
	query := m.db.WithContext(ctx).Model(&models.PlannedExpenseModel{}).
		Where("circle_id = ? AND fund_id = ? AND due_date >= ?", circleID, f.SourceFundID, f.FromDate)
	if len(f.PlannedStatuses) > 0 {
		query = query.Where("status IN ?", f.PlannedStatuses)
	}
	return query
}

func (m *GormFundMover) directExpenseQuery(ctx context.Context, circleID uuid.UUID, f treasury.MoveFilter) *gorm.DB {
	return m.db.WithContext(ctx).Model(&models.DirectExpenseModel{}).
		Where("circle_id = ? AND fund_id = ? AND incurred_at >= ?", circleID, f.SourceFundID, f.FromDate)
}

// CountReimbursements counts the reimbursements a move would touch
func (m *GormFundMover) CountReimbursements(ctx context.Context, circleID uuid.UUID, f treasury.MoveFilter) (int64, error) {
	var count int64
	err := m.reimbursementQuery(ctx, circleID, f).Count(&count).Error
	return count, err
}

// CountPlannedExpenses counts the planned expenses a move would touch
func (m *GormFundMover) CountPlannedExpenses(ctx context.Context, circleID uuid.UUID, f treasury.MoveFilter) (int64, error) {
	var count int64
	err := m.plannedExpenseQuery(ctx, circleID, f).Count(&count).Error
	return count, err
}

// CountDirectExpenses counts the direct expenses a move would touch
func (m *GormFundMover) CountDirectExpenses(ctx context.Context, circleID uuid.UUID, f treasury.MoveFilter) (int64, error) {
	var count int64
	err := m.directExpenseQuery(ctx, circleID, f).Count(&count).Error
	return count, err
}

// MoveReimbursements reassigns matching reimbursements to the target fund
func (m *GormFundMover) MoveReimbursements(ctx context.Context, circleID uuid.UUID, f treasury.MoveFilter, targetFundID uuid.UUID) (int64, error) {
	result := m.reimbursementQuery(ctx, circleID, f).
		Updates(map[string]interface{}{"fund_id": targetFundID, "updated_at": time.Now()})
	return result.RowsAffected, result.Error
}

// MovePlannedExpenses reassigns matching planned expenses to the target fund
func (m *GormFundMover) MovePlannedExpenses(ctx context.Context, circleID uuid.UUID, f treasury.MoveFilter, targetFundID uuid.UUID) (int64, error) {
	result := m.plannedExpenseQuery(ctx, circleID, f).
		Updates(map[string]interface{}{"fund_id": targetFundID, "updated_at": time.Now()})
	return result.RowsAffected, result.Error
}

// MoveDirectExpenses reassigns matching direct expenses to the target fund
func (m *GormFundMover) MoveDirectExpenses(ctx context.Context, circleID uuid.UUID, f treasury.MoveFilter, targetFundID uuid.UUID) (int64, error) {
	result := m.directExpenseQuery(ctx, circleID, f).
		Updates(map[string]interface{}{"fund_id": targetFundID, "updated_at": time.Now()})
	return result.RowsAffected, result.Error
}
