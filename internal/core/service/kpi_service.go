package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/talentpulse/performance-api/internal/core/auth"
	"github.com/talentpulse/performance-api/internal/core/domain"
	"github.com/talentpulse/performance-api/internal/core/ports"
)

type kpiService struct {
	users  ports.UserFinder
	kpis   ports.KPIRepository
	logger zerolog.Logger
	now    func() time.Time
}

func NewKPIService(users ports.UserFinder, kpis ports.KPIRepository, logger zerolog.Logger) ports.KPIService {
	return &kpiService{users: users, kpis: kpis, logger: logger, now: time.Now}
}

func (s *kpiService) List(ctx context.Context) ([]*domain.KPI, error) {
	return s.kpis.List(ctx)
}

func (s *kpiService) Create(ctx context.Context, in ports.CreateKPIInput) (*domain.KPI, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", domain.ErrValidation)
	}
	if in.Target <= 0 {
		return nil, fmt.Errorf("%w: target must be greater than zero", domain.ErrValidation)
	}
	if in.Weightage < 0 {
		return nil, fmt.Errorf("%w: weightage cannot be negative", domain.ErrValidation)
	}
	weightage := in.Weightage
	if weightage == 0 {
		weightage = domain.DefaultWeightage
	}
	var department *string
	if in.Department != nil {
		if d := strings.TrimSpace(*in.Department); d != "" {
			department = &d
		}
	}

	return s.kpis.Create(ctx, &domain.KPI{
		Title:      title,
		Target:     in.Target,
		Weightage:  weightage,
		Department: department,
	})
}

// Evaluate scores an employee against a KPI and stores the result. Managers
// may only evaluate their direct reports.
func (s *kpiService) Evaluate(ctx context.Context, caller *domain.User, in ports.EvaluateKPIInput) (*domain.KPIResult, error) {
	kpi, err := s.kpis.FindByID(ctx, in.KPIID)
	if err != nil {
		return nil, err
	}
	employee, err := s.users.FindByID(ctx, in.EmployeeID)
	if err != nil {
		return nil, err
	}
	if err := auth.CanActOn(caller, employee); err != nil {
		return nil, err
	}

	status, score := kpi.Evaluate(in.AchievedValue)
	result, err := s.kpis.CreateResult(ctx, &domain.KPIResult{
		KPIID:         kpi.ID,
		EmployeeID:    employee.ID,
		AchievedValue: in.AchievedValue,
		Status:        status,
		Score:         round2(score),
		CreatedAt:     s.now().UTC(),
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info().Int64("kpi_id", kpi.ID).Int64("employee_id", employee.ID).Str("status", string(status)).Msg("kpi evaluated")
	return result, nil
}
