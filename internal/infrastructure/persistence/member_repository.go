package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/circleops/treasury/internal/domain/identity"
	"github.com/circleops/treasury/internal/domain/shared"
	"github.com/circleops/treasury/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormMemberRepository implements identity.MemberRepository using GORM
type GormMemberRepository struct {
	db *gorm.DB
}

// NewGormMemberRepository creates a new GormMemberRepository
func NewGormMemberRepository(db *gorm.DB) *GormMemberRepository {
	return &GormMemberRepository{db: db}
}

// FindByID finds a member by ID across circles
func (r *GormMemberRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Member, error) {
	var model models.MemberModel
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByUsernameForCircle finds a member by username within a circle
func (r *GormMemberRepository) FindByUsernameForCircle(ctx context.Context, circleID uuid.UUID, username string) (*identity.Member, error) {
	var model models.MemberModel
	if err := r.db.WithContext(ctx).
		Where("circle_id = ? AND username = ?", circleID, strings.ToLower(strings.TrimSpace(username))).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForCircle lists members of a circle with filtering
func (r *GormMemberRepository) FindAllForCircle(ctx context.Context, circleID uuid.UUID, filter shared.Filter) ([]identity.Member, error) {
	var memberModels []models.MemberModel
	query := r.db.WithContext(ctx).Model(&models.MemberModel{}).
		Where("circle_id = ?", circleID)

	if filter.Search != "" {
		query = query.Where("username LIKE ? OR display_name LIKE ?",
			"%"+filter.Search+"%", "%"+filter.Search+"%")
	}
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	if role, ok := filter.Filters["role"]; ok {
		query = query.Where("role = ?", role)
	}

	sortField := ValidateSortField(filter.OrderBy, MemberSortFields, "created_at")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	query = query.Order(fmt.Sprintf("%s %s", sortField, sortOrder))

	if filter.PageSize > 0 {
		query = query.Limit(filter.PageSize)
		offset := (filter.Page - 1) * filter.PageSize
		if offset > 0 {
			query = query.Offset(offset)
		}
	}

	if err := query.Find(&memberModels).Error; err != nil {
		return nil, err
	}
	members := make([]identity.Member, len(memberModels))
	for i, model := range memberModels {
		members[i] = *model.ToDomain()
	}
	return members, nil
}

// Save persists a new member
func (r *GormMemberRepository) Save(ctx context.Context, member *identity.Member) error {
	model := models.MemberModelFromDomain(member)
	return r.db.WithContext(ctx).Create(model).Error
}

// Update persists changes to an existing member
func (r *GormMemberRepository) Update(ctx context.Context, member *identity.Member) error {
	model := models.MemberModelFromDomain(member)
	return r.db.WithContext(ctx).Save(model).Error
}
