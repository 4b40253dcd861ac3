package ports

import (
	"context"

	"github.com/talentpulse/performance-api/internal/core/domain"
)

// KPIRepository persists KPI definitions and evaluation results.
type KPIRepository interface {
	Create(ctx context.Context, kpi *domain.KPI) (*domain.KPI, error)
	FindByID(ctx context.Context, id int64) (*domain.KPI, error)
	List(ctx context.Context) ([]*domain.KPI, error)

	CreateResult(ctx context.Context, result *domain.KPIResult) (*domain.KPIResult, error)
	// CountResults returns the total number of results and how many of them
	// reached the given status.
	CountResults(ctx context.Context, status domain.KPIStatus) (total, matching int64, err error)
}
