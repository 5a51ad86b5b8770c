package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/circleops/treasury/internal/domain/shared"
	"github.com/circleops/treasury/internal/domain/treasury"
	"github.com/circleops/treasury/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormPaymentTransferRepository implements treasury.PaymentTransferRepository using GORM
type GormPaymentTransferRepository struct {
	db        *gorm.DB
	forUpdate bool
}

// NewGormPaymentTransferRepository creates a new GormPaymentTransferRepository
func NewGormPaymentTransferRepository(db *gorm.DB) *GormPaymentTransferRepository {
	return &GormPaymentTransferRepository{db: db}
}

// WithRowLocking returns a copy of the repository whose reads take row locks.
// The unit of work uses this so refresh and execute serialize per transfer row.
func (r *GormPaymentTransferRepository) WithRowLocking() *GormPaymentTransferRepository {
	return &GormPaymentTransferRepository{db: r.db, forUpdate: true}
}

// locked applies SELECT ... FOR UPDATE where the dialect supports it.
// SQLite has no FOR UPDATE; its transactions serialize writers anyway.
func (r *GormPaymentTransferRepository) locked(query *gorm.DB) *gorm.DB {
	if r.forUpdate && r.db.Dialector.Name() == "postgres" {
		return query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return query
}

// FindByIDForCircle finds a payment transfer with its items by ID within a circle
func (r *GormPaymentTransferRepository) FindByIDForCircle(ctx context.Context, circleID, id uuid.UUID) (*treasury.PaymentTransfer, error) {
	var model models.PaymentTransferModel
	query := r.locked(r.db.WithContext(ctx)).
		Preload("Items").
		Where("circle_id = ? AND id = ?", circleID, id)
	if err := query.First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForCircle finds all payment transfers for a circle with filtering
func (r *GormPaymentTransferRepository) FindAllForCircle(ctx context.Context, circleID uuid.UUID, filter shared.Filter) ([]treasury.PaymentTransfer, error) {
	var transferModels []models.PaymentTransferModel
	query := r.db.WithContext(ctx).Model(&models.PaymentTransferModel{}).
		Preload("Items").
		Where("circle_id = ?", circleID)
	query = r.applyFilter(query, filter)

	if err := query.Find(&transferModels).Error; err != nil {
		return nil, err
	}
	transfers := make([]treasury.PaymentTransfer, len(transferModels))
	for i, model := range transferModels {
		transfers[i] = *model.ToDomain()
	}
	return transfers, nil
}

// CountForCircle counts payment transfers for a circle with filtering
func (r *GormPaymentTransferRepository) CountForCircle(ctx context.Context, circleID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.PaymentTransferModel{}).
		Where("circle_id = ?", circleID)
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FindPendingByScope returns all pending transfers in a scope
func (r *GormPaymentTransferRepository) FindPendingByScope(ctx context.Context, circleID uuid.UUID, scope treasury.Scope) ([]treasury.PaymentTransfer, error) {
	var transferModels []models.PaymentTransferModel
	query := r.locked(r.db.WithContext(ctx)).
		Preload("Items").
		Where("circle_id = ? AND status = ? AND budget_type = ?", circleID, treasury.PaymentTransferStatusPending, scope.Type)
	if scope.Type == treasury.BudgetTypeGroup {
		query = query.Where("group_id = ?", scope.GroupID)
	} else {
		query = query.Where("group_id IS NULL")
	}

	if err := query.Find(&transferModels).Error; err != nil {
		return nil, err
	}
	transfers := make([]treasury.PaymentTransfer, len(transferModels))
	for i, model := range transferModels {
		transfers[i] = *model.ToDomain()
	}
	return transfers, nil
}

// Save creates or updates a payment transfer, replacing its item references
func (r *GormPaymentTransferRepository) Save(ctx context.Context, transfer *treasury.PaymentTransfer) error {
	model := models.PaymentTransferModelFromDomain(transfer)
	items := model.Items
	model.Items = nil

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Save(model).Error; err != nil {
			return err
		}
		if err := tx.Where("transfer_id = ?", model.ID).
			Delete(&models.PaymentTransferItemModel{}).Error; err != nil {
			return err
		}
		if len(items) > 0 {
			if err := tx.Create(&items).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete removes a payment transfer and its item references
func (r *GormPaymentTransferRepository) Delete(ctx context.Context, circleID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("transfer_id = ?", id).
			Delete(&models.PaymentTransferItemModel{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.PaymentTransferModel{}, "circle_id = ? AND id = ?", circleID, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// Stats aggregates transfer counts and totals per status for a circle
func (r *GormPaymentTransferRepository) Stats(ctx context.Context, circleID uuid.UUID) (*treasury.TransferStats, error) {
	var rows []struct {
		Status treasury.PaymentTransferStatus
		Cnt    int64
		Total  decimal.Decimal
	}
	if err := r.db.WithContext(ctx).Model(&models.PaymentTransferModel{}).
		Select("status, COUNT(*) as cnt, COALESCE(SUM(total_amount), 0) as total").
		Where("circle_id = ?", circleID).
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	stats := &treasury.TransferStats{
		PendingTotal:  decimal.Zero,
		ExecutedTotal: decimal.Zero,
	}
	for _, row := range rows {
		switch row.Status {
		case treasury.PaymentTransferStatusPending:
			stats.PendingCount = row.Cnt
			stats.PendingTotal = row.Total
		case treasury.PaymentTransferStatusExecuted:
			stats.ExecutedCount = row.Cnt
			stats.ExecutedTotal = row.Total
		}
	}
	return stats, nil
}

// applyFilter applies filter conditions to query
func (r *GormPaymentTransferRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	sortField := ValidateSortField(filter.OrderBy, PaymentTransferSortFields, "created_at")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	query = query.Order(fmt.Sprintf("%s %s", sortField, sortOrder))

	if filter.PageSize > 0 {
		query = query.Limit(filter.PageSize)
		offset := (filter.Page - 1) * filter.PageSize
		if offset > 0 {
			query = query.Offset(offset)
		}
	}

	return query
}

// applyFilterWithoutPagination applies filter conditions without pagination
func (r *GormPaymentTransferRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	if recipientID, ok := filter.Filters["recipient_user_id"]; ok {
		query = query.Where("recipient_user_id = ?", recipientID)
	}
	if budgetType, ok := filter.Filters["budget_type"]; ok {
		query = query.Where("budget_type = ?", budgetType)
	}
	return query
}
