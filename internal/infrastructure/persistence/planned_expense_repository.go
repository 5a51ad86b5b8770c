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

// GormPlannedExpenseRepository implements treasury.PlannedExpenseRepository using GORM
type GormPlannedExpenseRepository struct {
	db *gorm.DB
}

// NewGormPlannedExpenseRepository creates a new GormPlannedExpenseRepository
func NewGormPlannedExpenseRepository(db *gorm.DB) *GormPlannedExpenseRepository {
	return &GormPlannedExpenseRepository{db: db}
}

// FindByIDForCircle finds a planned expense by ID within a circle
func (r *GormPlannedExpenseRepository) FindByIDForCircle(ctx context.Context, circleID, id uuid.UUID) (*treasury.PlannedExpense, error) {
	var model models.PlannedExpenseModel
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

// FindAllForCircle finds all planned expenses for a circle with filtering
func (r *GormPlannedExpenseRepository) FindAllForCircle(ctx context.Context, circleID uuid.UUID, filter shared.Filter) ([]treasury.PlannedExpense, error) {
	var expenseModels []models.PlannedExpenseModel
	query := r.db.WithContext(ctx).Model(&models.PlannedExpenseModel{}).
		Where("circle_id = ?", circleID)

	if filter.Search != "" {
		query = query.Where("description LIKE ?", "%"+filter.Search+"%")
	}
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	if fundID, ok := filter.Filters["fund_id"]; ok {
		query = query.Where("fund_id = ?", fundID)
	}

	sortField := ValidateSortField(filter.OrderBy, PlannedExpenseSortFields, "due_date")
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
	expenses := make([]treasury.PlannedExpense, len(expenseModels))
	for i, model := range expenseModels {
		expenses[i] = *model.ToDomain()
	}
	return expenses, nil
}

// Save creates or updates a planned expense
func (r *GormPlannedExpenseRepository) Save(ctx context.Context, expense *treasury.PlannedExpense) error {
	model := models.PlannedExpenseModelFromDomain(expense)
	return r.db.WithContext(ctx).Save(model).Error
}
