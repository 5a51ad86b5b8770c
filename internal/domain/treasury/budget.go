package treasury

import (
	"github.com/circleops/treasury/internal/domain/shared"
	"github.com/google/uuid"
)

// BudgetType distinguishes circle-wide budgets from group budgets
type BudgetType string

const (
	BudgetTypeCircle BudgetType = "CIRCLE"
	BudgetTypeGroup  BudgetType = "GROUP"
)

// IsValid checks if the type is a valid BudgetType
func (t BudgetType) IsValid() bool {
	switch t {
	case BudgetTypeCircle, BudgetTypeGroup:
		return true
	}
	return false
}

// String returns the string representation of BudgetType
func (t BudgetType) String() string {
	return string(t)
}

// Scope identifies a netting scope: either the whole circle budget or a
// single group budget. GroupID is required when Type is GROUP.
type Scope struct {
	Type    BudgetType
	GroupID *uuid.UUID
}

// NewCircleScope returns the circle-wide scope
func NewCircleScope() Scope {
	return Scope{Type: BudgetTypeCircle}
}

// NewGroupScope returns the scope of one group budget
func NewGroupScope(groupID uuid.UUID) Scope {
	return Scope{Type: BudgetTypeGroup, GroupID: &groupID}
}

// Validate checks the scope's internal consistency
func (s Scope) Validate() error {
	if !s.Type.IsValid() {
		return shared.NewDomainError("INVALID_INPUT", "Budget type is not valid")
	}
	if s.Type == BudgetTypeGroup && (s.GroupID == nil || *s.GroupID == uuid.Nil) {
		return shared.NewDomainError("INVALID_INPUT", "Group ID is required for group scope")
	}
	if s.Type == BudgetTypeCircle && s.GroupID != nil {
		return shared.NewDomainError("INVALID_INPUT", "Group ID must be empty for circle scope")
	}
	return nil
}

// Matches reports whether a budget falls inside this scope
func (s Scope) Matches(b *Budget) bool {
	if b.BudgetType != s.Type {
		return false
	}
	if s.Type == BudgetTypeGroup {
		return b.GroupID != nil && s.GroupID != nil && *b.GroupID == *s.GroupID
	}
	return true
}

// Budget represents an allocation container aggregate root.
// Funds belong to budgets; a budget is either circle-wide or tied to a group.
type Budget struct {
	shared.CircleAggregateRoot
	Name       string     `json:"name"`
	BudgetType BudgetType `json:"budget_type"`
	GroupID    *uuid.UUID `json:"group_id"`
	FiscalYear int        `json:"fiscal_year"`
	Remark     string     `json:"remark"`
}

// NewBudget creates a new budget
func NewBudget(circleID uuid.UUID, name string, budgetType BudgetType, groupID *uuid.UUID, fiscalYear int) (*Budget, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Budget name cannot be empty")
	}
	if len(name) > 100 {
		return nil, shared.NewDomainError("INVALID_NAME", "Budget name cannot exceed 100 characters")
	}
	if !budgetType.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Budget type is not valid")
	}
	if budgetType == BudgetTypeGroup && (groupID == nil || *groupID == uuid.Nil) {
		return nil, shared.NewDomainError("INVALID_INPUT", "Group budget requires a group ID")
	}
	if budgetType == BudgetTypeCircle {
		groupID = nil
	}

	return &Budget{
		CircleAggregateRoot: shared.NewCircleAggregateRoot(circleID),
		Name:                name,
		BudgetType:          budgetType,
		GroupID:             groupID,
		FiscalYear:          fiscalYear,
	}, nil
}

// Rename changes the budget name
func (b *Budget) Rename(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Budget name cannot be empty")
	}
	if len(name) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Budget name cannot exceed 100 characters")
	}
	b.Name = name
	return nil
}

// Scope returns the netting scope this budget belongs to
func (b *Budget) Scope() Scope {
	if b.BudgetType == BudgetTypeGroup && b.GroupID != nil {
		return NewGroupScope(*b.GroupID)
	}
	return NewCircleScope()
}
