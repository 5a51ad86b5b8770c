package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/circleops/treasury/internal/domain/shared"
	"github.com/circleops/treasury/internal/domain/treasury"
	"github.com/circleops/treasury/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormReimbursementRepository implements treasury.ReimbursementRepository using GORM
type GormReimbursementRepository struct {
	db *gorm.DB
}

// NewGormReimbursementRepository creates a new GormReimbursementRepository
func NewGormReimbursementRepository(db *gorm.DB) *GormReimbursementRepository {
	return &GormReimbursementRepository{db: db}
}

// FindByIDForCircle finds a reimbursement by ID within a circle
func (r *GormReimbursementRepository) FindByIDForCircle(ctx context.Context, circleID, id uuid.UUID) (*treasury.Reimbursement, error) {
	var model models.ReimbursementModel
	if err := r.db.WithContext(ctx).
		Where("circle_id = ? AND id = ?", circleID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForCircle finds all reimbursements for a circle with filtering
func (r *GormReimbursementRepository) FindAllForCircle(ctx context.Context, circleID uuid.UUID, filter shared.Filter) ([]treasury.Reimbursement, error) {
	var reimbursementModels []models.ReimbursementModel
	query := r.db.WithContext(ctx).Model(&models.ReimbursementModel{}).
		Where("circle_id = ?", circleID)
	query = r.applyFilter(query, filter)

	if err := query.Find(&reimbursementModels).Error; err != nil {
		return nil, err
	}
	reimbursements := make([]treasury.Reimbursement, len(reimbursementModels))
	for i, model := range reimbursementModels {
		reimbursements[i] = *model.ToDomain()
	}
	return reimbursements, nil
}

// CountForCircle counts reimbursements for a circle with filtering
func (r *GormReimbursementRepository) CountForCircle(ctx context.Context, circleID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.ReimbursementModel{}).
		Where("circle_id = ?", circleID)
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FindApprovedInFunds returns every approved reimbursement whose fund is in fundIDs
func (r *GormReimbursementRepository) FindApprovedInFunds(ctx context.Context, circleID uuid.UUID, fundIDs []uuid.UUID) ([]treasury.Reimbursement, error) {
	if len(fundIDs) == 0 {
		return nil, nil
	}
	var reimbursementModels []models.ReimbursementModel
	if err := r.db.WithContext(ctx).
		Where("circle_id = ? AND status = ? AND fund_id IN ?", circleID, treasury.ReimbursementStatusApproved, fundIDs).
		Order("expense_date ASC").
		Find(&reimbursementModels).Error; err != nil {
		return nil, err
	}
	reimbursements := make([]treasury.Reimbursement, len(reimbursementModels))
	for i, model := range reimbursementModels {
		reimbursements[i] = *model.ToDomain()
	}
	return reimbursements, nil
}

// FindByIDsForCircle finds reimbursements by a set of IDs within a circle
func (r *GormReimbursementRepository) FindByIDsForCircle(ctx context.Context, circleID uuid.UUID, ids []uuid.UUID) ([]treasury.Reimbursement, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var reimbursementModels []models.ReimbursementModel
	if err := r.db.WithContext(ctx).
		Where("circle_id = ? AND id IN ?", circleID, ids).
		Find(&reimbursementModels).Error; err != nil {
		return nil, err
	}
	reimbursements := make([]treasury.Reimbursement, len(reimbursementModels))
	for i, model := range reimbursementModels {
		reimbursements[i] = *model.ToDomain()
	}
	return reimbursements, nil
}

// ExistsForPeriod reports whether a generated record exists for (definition, period start)
func (r *GormReimbursementRepository) ExistsForPeriod(ctx context.Context, circleID, recurringTransferID uuid.UUID, periodStart time.Time) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.ReimbursementModel{}).
		Where("circle_id = ? AND recurring_transfer_id = ? AND period_start = ?", circleID, recurringTransferID, periodStart).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a reimbursement
func (r *GormReimbursementRepository) Save(ctx context.Context, reimbursement *treasury.Reimbursement) error {
	model := models.ReimbursementModelFromDomain(reimbursement)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveWithLock saves the reimbursement with optimistic locking
func (r *GormReimbursementRepository) SaveWithLock(ctx context.Context, reimbursement *treasury.Reimbursement) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current models.ReimbursementModel
		if err := tx.Select("version").Where("id = ?", reimbursement.GetID()).First(&current).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				model := models.ReimbursementModelFromDomain(reimbursement)
				return tx.Create(model).Error
			}
			return err
		}

		// Domain model already incremented the version
		expectedVersion := reimbursement.GetVersion() - 1
		if current.Version != expectedVersion {
			return shared.NewDomainError("CONCURRENCY_CONFLICT", "Reimbursement has been modified by another user")
		}

		model := models.ReimbursementModelFromDomain(reimbursement)
		result := tx.Model(model).
			Where("id = ? AND version = ?", reimbursement.GetID(), expectedVersion).
			Save(model)

		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.NewDomainError("CONCURRENCY_CONFLICT", "Reimbursement has been modified by another user")
		}
		return nil
	})
}

// applyFilter applies filter conditions to query
func (r *GormReimbursementRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	// Sort field whitelist prevents SQL injection through OrderBy
	sortField := ValidateSortField(filter.OrderBy, ReimbursementSortFields, "created_at")
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
func (r *GormReimbursementRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("description LIKE ?", "%"+filter.Search+"%")
	}
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	if fundID, ok := filter.Filters["fund_id"]; ok {
		query = query.Where("fund_id = ?", fundID)
	}
	if recipientID, ok := filter.Filters["recipient_user_id"]; ok {
		query = query.Where("recipient_user_id = ?", recipientID)
	}
	if userID, ok := filter.Filters["user_id"]; ok {
		query = query.Where("user_id = ?", userID)
	}
	return query
}
