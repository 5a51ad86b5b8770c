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

// GormFundRepository implements treasury.FundRepository using GORM
type GormFundRepository struct {
	db *gorm.DB
}

// NewGormFundRepository creates a new GormFundRepository
func NewGormFundRepository(db *gorm.DB) *GormFundRepository {
	return &GormFundRepository{db: db}
}

// FindByIDForCircle finds a fund by ID within a circle
func (r *GormFundRepository) FindByIDForCircle(ctx context.Context, circleID, id uuid.UUID) (*treasury.Fund, error) {
	var model models.FundModel
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

// FindAllForCircle finds all funds for a circle with filtering
func (r *GormFundRepository) FindAllForCircle(ctx context.Context, circleID uuid.UUID, filter shared.Filter) ([]treasury.Fund, error) {
	var fundModels []models.FundModel
	query := r.db.WithContext(ctx).Model(&models.FundModel{}).
		Where("circle_id = ?", circleID)

	if filter.Search != "" {
		query = query.Where("name LIKE ?", "%"+filter.Search+"%")
	}
	if budgetID, ok := filter.Filters["budget_id"]; ok {
		query = query.Where("budget_id = ?", budgetID)
	}
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}

	sortField := ValidateSortField(filter.OrderBy, FundSortFields, "created_at")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	query = query.Order(fmt.Sprintf("%s %s", sortField, sortOrder))

	if filter.PageSize > 0 {
		query = query.Limit(filter.PageSize)
		offset := (filter.Page - 1) * filter.PageSize
		if offset > 0 {
			query = query.Offset(offset)
		}
	}

	if err := query.Find(&fundModels).Error; err != nil {
		return nil, err
	}
	funds := make([]treasury.Fund, len(fundModels))
	for i, model := range fundModels {
		funds[i] = *model.ToDomain()
	}
	return funds, nil
}

// FindIDsByScope returns the IDs of all funds whose budget matches the scope
func (r *GormFundRepository) FindIDsByScope(ctx context.Context, circleID uuid.UUID, scope treasury.Scope) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	query := r.db.WithContext(ctx).Model(&models.FundModel{}).
		Joins("JOIN budgets ON budgets.id = funds.budget_id").
		Where("funds.circle_id = ? AND budgets.budget_type = ?", circleID, scope.Type)
	if scope.Type == treasury.BudgetTypeGroup {
		query = query.Where("budgets.group_id = ?", scope.GroupID)
	}

	if err := query.Pluck("funds.id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// Save creates or updates a fund
func (r *GormFundRepository) Save(ctx context.Context, fund *treasury.Fund) error {
	model := models.FundModelFromDomain(fund)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete removes a fund
func (r *GormFundRepository) Delete(ctx context.Context, circleID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.FundModel{}, "circle_id = ? AND id = ?", circleID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}
