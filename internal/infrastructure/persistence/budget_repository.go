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

// GormBudgetRepository implements treasury.BudgetRepository using GORM
type GormBudgetRepository struct {
	db *gorm.DB
}

// NewGormBudgetRepository creates a new GormBudgetRepository
func NewGormBudgetRepository(db *gorm.DB) *GormBudgetRepository {
	return &GormBudgetRepository{db: db}
}

// FindByIDForCircle finds a budget by ID within a circle
func (r *GormBudgetRepository) FindByIDForCircle(ctx context.Context, circleID, id uuid.UUID) (*treasury.Budget, error) {
	var model models.BudgetModel
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

// FindAllForCircle finds all budgets for a circle with filtering
func (r *GormBudgetRepository) FindAllForCircle(ctx context.Context, circleID uuid.UUID, filter shared.Filter) ([]treasury.Budget, error) {
	var budgetModels []models.BudgetModel
	query := r.db.WithContext(ctx).Model(&models.BudgetModel{}).
		Where("circle_id = ?", circleID)

	if filter.Search != "" {
		query = query.Where("name LIKE ?", "%"+filter.Search+"%")
	}
	if budgetType, ok := filter.Filters["budget_type"]; ok {
		query = query.Where("budget_type = ?", budgetType)
	}
	if groupID, ok := filter.Filters["group_id"]; ok {
		query = query.Where("group_id = ?", groupID)
	}

	sortField := ValidateSortField(filter.OrderBy, BudgetSortFields, "created_at")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	query = query.Order(fmt.Sprintf("%s %s", sortField, sortOrder))

	if filter.PageSize > 0 {
		query = query.Limit(filter.PageSize)
		offset := (filter.Page - 1) * filter.PageSize
		if offset > 0 {
			query = query.Offset(offset)
		}
	}

	if err := query.Find(&budgetModels).Error; err != nil {
		return nil, err
	}
	budgets := make([]treasury.Budget, len(budgetModels))
	for i, model := range budgetModels {
		budgets[i] = *model.ToDomain()
	}
	return budgets, nil
}

// Save creates or updates a budget
func (r *GormBudgetRepository) Save(ctx context.Context, budget *treasury.Budget) error {
	model := models.BudgetModelFromDomain(budget)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete removes a budget
func (r *GormBudgetRepository) Delete(ctx context.Context, circleID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.BudgetModel{}, "circle_id = ? AND id = ?", circleID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}
