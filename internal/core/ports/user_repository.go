package ports

import (
	"context"

	"github.com/talentpulse/performance-api/internal/core/domain"
)

// UserFinder is the read side of the user store used to resolve identities.
type UserFinder interface {
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
}

// UserRepository defines persistence operations for users. Lookups return
// domain.ErrUserNotFound when nothing matches; Create returns
// domain.ErrUserExists on a duplicate email. Names are not unique, so
// FindByName also returns domain.ErrUserNotFound when several users share one.
type UserRepository interface {
	UserFinder
	FindByName(ctx context.Context, name string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	ListByManager(ctx context.Context, managerID int64) ([]*domain.User, error)
	Count(ctx context.Context) (int64, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id int64) error
}
