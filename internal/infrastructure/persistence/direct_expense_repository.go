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

// GormDirectExpenseRepository implements treasury.DirectExpenseRepository using GORM
type GormDirectExpenseRepository struct {
	db *gorm.DB
}

// NewGormDirectExpenseRepository creates a new GormDirectExpenseRepository
func NewGormDirectExpenseRepository(db *gorm.DB) *GormDirectExpenseRepository {
	return &GormDirectExpenseRepository{db: db}
}

// FindByIDForCircle finds a direct expense by ID within a circle
func (r *GormDirectExpenseRepository) FindByIDForCircle(ctx context.Context, circleID, id uuid.UUID) (*treasury.DirectExpense, error) {
	var model models.DirectExpenseModel
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

// FindAllForCircle finds all direct expenses for a circle with filtering
func (r *GormDirectExpenseRepository) FindAllForCircle(ctx context.Context, circleID uuid.UUID, filter shared.Filter) ([]treasury.DirectExpense, error) {
	var expenseModels []models.DirectExpenseModel
	query := r.db.WithContext(ctx).Model(&models.DirectExpenseModel{}).
		Where("circle_id = ?", circleID)

	if filter.Search != "" {
		query = query.Where("description LIKE ?", "%"+filter.Search+"%")
	}
	if fundID, ok := filter.Filters["fund_id"]; ok {
		query = query.Where("fund_id = ?", fundID)
	}
	if apartmentID, ok := filter.Filters["apartment_id"]; ok {
		query = query.Where("apartment_id = ?", apartmentID)
	}

	sortField := ValidateSortField(filter.OrderBy, DirectExpenseSortFields, "incurred_at")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	query = query.Order(fmt.Sprintf("%s %s", sortField, sortOrder))

	if filter.PageSize > 0 {
		query = query.Limit(filter.PageSize)
		offset := (filter.Page - 1) * filter.PageSize
		if offset > 0 {
			query = query.Offset(offset)
		}
	}

	if err := query.Find(&expenseModels).Error; err != nil {
		return nil, err
	}
	expenses := make([]treasury.DirectExpense, len(expenseModels))
	for i, model := range expenseModels {
		expenses[i] = *model.ToDomain()
	}
	return expenses, nil
}

// Save creates or updates a direct expense
func (r *GormDirectExpenseRepository) Save(ctx context.Context, expense *treasury.DirectExpense) error {
	model := models.DirectExpenseModelFromDomain(expense)
	return r.db.WithContext(ctx).Save(model).Error
}
