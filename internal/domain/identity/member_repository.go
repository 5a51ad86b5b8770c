package identity

import (
	"context"

	"github.com/circleops/treasury/internal/domain/shared"
	"github.com/google/uuid"
)

// MemberRepository defines the persistence interface for members
type MemberRepository interface {
	// FindByID finds a member by ID across circles (token refresh path)
	FindByID(ctx context.Context, id uuid.UUID) (*Member, error)

	// FindByUsernameForCircle finds a member by username within a circle.
	// Usernames are unique per circle, so the lookup needs both.
	FindByUsernameForCircle(ctx context.Context, circleID uuid.UUID, username string) (*Member, error)

	// FindAllForCircle lists members of a circle
	FindAllForCircle(ctx context.Context, circleID uuid.UUID, filter shared.Filter) ([]Member, error)

	// Save persists a new member
	Save(ctx context.Context, m *Member) error

	// Update persists changes to an existing member
	Update(ctx context.Context, m *Member) error
}
