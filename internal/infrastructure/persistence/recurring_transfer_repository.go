package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/circleops/treasury/internal/domain/shared"
	"github.com/circleops/treasury/internal/domain/treasury"
	"github.com/circleops/treasury/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormRecurringTransferRepository implements treasury.RecurringTransferRepository using GORM
type GormRecurringTransferRepository struct {
	db *gorm.DB
}

// NewGormRecurringTransferRepository creates a new GormRecurringTransferRepository
func NewGormRecurringTransferRepository(db *gorm.DB) *GormRecurringTransferRepository {
	return &GormRecurringTransferRepository{db: db}
}

// FindByIDForCircle finds a recurring transfer by ID within a circle
func (r *GormRecurringTransferRepository) FindByIDForCircle(ctx context.Context, circleID, id uuid.UUID) (*treasury.RecurringTransfer, error) {
	var model models.RecurringTransferModel
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

// FindAllForCircle finds all recurring transfers for a circle with filtering
func (r *GormRecurringTransferRepository) FindAllForCircle(ctx context.Context, circleID uuid.UUID, filter shared.Filter) ([]treasury.RecurringTransfer, error) {
	var transferModels []models.RecurringTransferModel
	query := r.db.WithContext(ctx).Model(&models.RecurringTransferModel{}).
		Where("circle_id = ?", circleID)

	if filter.Search != "" {
		query = query.Where("description LIKE ?", "%"+filter.Search+"%")
	}
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	if recipientID, ok := filter.Filters["recipient_user_id"]; ok {
		query = query.Where("recipient_user_id = ?", recipientID)
	}

	sortField := ValidateSortField(filter.OrderBy, RecurringTransferSortFields, "created_at")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	query = query.Order(fmt.Sprintf("%s %s", sortField, sortOrder))

	if filter.PageSize > 0 {
		query = query.Limit(filter.PageSize)
		offset := (filter.Page - 1) * filter.PageSize
		if offset > 0 {
			query = query.Offset(offset)
		}
	}

	if err := query.Find(&transferModels).Error; err != nil {
		return nil, err
	}
	transfers := make([]treasury.RecurringTransfer, len(transferModels))
	for i, model := range transferModels {
		transfers[i] = *model.ToDomain()
	}
	return transfers, nil
}

// FindActiveForCircle finds every active recurring transfer definition in a circle
func (r *GormRecurringTransferRepository) FindActiveForCircle(ctx context.Context, circleID uuid.UUID) ([]treasury.RecurringTransfer, error) {
	var transferModels []models.RecurringTransferModel
	if err := r.db.WithContext(ctx).
		Where("circle_id = ? AND status = ?", circleID, treasury.RecurringTransferStatusActive).
		Order("created_at ASC").
		Find(&transferModels).Error; err != nil {
		return nil, err
	}
	transfers := make([]treasury.RecurringTransfer, len(transferModels))
	for i, model := range transferModels {
		transfers[i] = *model.ToDomain()
	}
	return transfers, nil
}

// Save creates or updates a recurring transfer
func (r *GormRecurringTransferRepository) Save(ctx context.Context, transfer *treasury.RecurringTransfer) error {
	model := models.RecurringTransferModelFromDomain(transfer)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete removes a recurring transfer definition
func (r *GormRecurringTransferRepository) Delete(ctx context.Context, circleID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.RecurringTransferModel{}, "circle_id = ? AND id = ?", circleID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}
