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

// GormChargeRepository implements treasury.ChargeRepository using GORM
type GormChargeRepository struct {
	db *gorm.DB
}

// NewGormChargeRepository creates a new GormChargeRepository
func NewGormChargeRepository(db *gorm.DB) *GormChargeRepository {
	return &GormChargeRepository{db: db}
}

// FindByIDForCircle finds a charge by ID within a circle
func (r *GormChargeRepository) FindByIDForCircle(ctx context.Context, circleID, id uuid.UUID) (*treasury.Charge, error) {
	var model models.ChargeModel
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

// FindAllForCircle finds all charges for a circle with filtering
func (r *GormChargeRepository) FindAllForCircle(ctx context.Context, circleID uuid.UUID, filter shared.Filter) ([]treasury.Charge, error) {
	var chargeModels []models.ChargeModel
	query := r.db.WithContext(ctx).Model(&models.ChargeModel{}).
		Where("circle_id = ?", circleID)
	query = r.applyFilter(query, filter)

	if err := query.Find(&chargeModels).Error; err != nil {
		return nil, err
	}
	charges := make([]treasury.Charge, len(chargeModels))
	for i, model := range chargeModels {
		charges[i] = *model.ToDomain()
	}
	return charges, nil
}

// CountForCircle counts charges for a circle with filtering
func (r *GormChargeRepository) CountForCircle(ctx context.Context, circleID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.ChargeModel{}).
		Where("circle_id = ?", circleID)
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FindOpenInFunds returns every open charge whose fund is in fundIDs
func (r *GormChargeRepository) FindOpenInFunds(ctx context.Context, circleID uuid.UUID, fundIDs []uuid.UUID) ([]treasury.Charge, error) {
	if len(fundIDs) == 0 {
		return nil, nil
	}
	var chargeModels []models.ChargeModel
	if err := r.db.WithContext(ctx).
		Where("circle_id = ? AND status IN ? AND fund_id IN ?", circleID, treasury.OpenChargeStatuses(), fundIDs).
		Order("charge_date ASC").
		Find(&chargeModels).Error; err != nil {
		return nil, err
	}
	charges := make([]treasury.Charge, len(chargeModels))
	for i, model := range chargeModels {
		charges[i] = *model.ToDomain()
	}
	return charges, nil
}

// FindByIDsForCircle finds charges by a set of IDs within a circle
func (r *GormChargeRepository) FindByIDsForCircle(ctx context.Context, circleID uuid.UUID, ids []uuid.UUID) ([]treasury.Charge, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var chargeModels []models.ChargeModel
	if err := r.db.WithContext(ctx).
		Where("circle_id = ? AND id IN ?", circleID, ids).
		Find(&chargeModels).Error; err != nil {
		return nil, err
	}
	charges := make([]treasury.Charge, len(chargeModels))
	for i, model := range chargeModels {
		charges[i] = *model.ToDomain()
	}
	return charges, nil
}

// Save creates or updates a charge
func (r *GormChargeRepository) Save(ctx context.Context, charge *treasury.Charge) error {
	model := models.ChargeModelFromDomain(charge)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveWithLock saves the charge with optimistic locking
func (r *GormChargeRepository) SaveWithLock(ctx context.Context, charge *treasury.Charge) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current models.ChargeModel
		if err := tx.Select("version").Where("id = ?", charge.GetID()).First(&current).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				model := models.ChargeModelFromDomain(charge)
				return tx.Create(model).Error
			}
			return err
		}

		// Domain model already incremented the version
		expectedVersion := charge.GetVersion() - 1
		if current.Version != expectedVersion {
			return shared.NewDomainError("CONCURRENCY_CONFLICT", "Charge has been modified by another user")
		}

		model := models.ChargeModelFromDomain(charge)
		result := tx.Model(model).
			Where("id = ? AND version = ?", charge.GetID(), expectedVersion).
			Save(model)

		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.NewDomainError("CONCURRENCY_CONFLICT", "Charge has been modified by another user")
		}
		return nil
	})
}

// applyFilter applies filter conditions to query
func (r *GormChargeRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	sortField := ValidateSortField(filter.OrderBy, ChargeSortFields, "created_at")
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
func (r *GormChargeRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("description LIKE ?", "%"+filter.Search+"%")
	}
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	if fundID, ok := filter.Filters["fund_id"]; ok {
		query = query.Where("fund_id = ?", fundID)
	}
	if userID, ok := filter.Filters["user_id"]; ok {
		query = query.Where("user_id = ?", userID)
	}
	return query
}
