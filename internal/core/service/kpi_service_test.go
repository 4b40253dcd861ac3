package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/talentpulse/performance-api/internal/core/domain"
	"github.com/talentpulse/performance-api/internal/core/ports"
)

func TestKPIService_Create(t *testing.T) {
	repo := &stubKPIRepo{}
	svc := NewKPIService(seededUsers(), repo, zerolog.Nop())
	ctx := context.Background()

	kpi, err := svc.Create(ctx, ports.CreateKPIInput{Title: " Deals closed ", Target: 10, Department: ptr("  ")})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if kpi.Title != "Deals closed" || kpi.Weightage != domain.DefaultWeightage || kpi.Department != nil {
		t.Fatalf("unexpected kpi: %+v", kpi)
	}

	for name, in := range map[string]ports.CreateKPIInput{
		"no title":        {Target: 1},
		"zero target":     {Title: "t"},
		"negative weight": {Title: "t", Target: 1, Weightage: -1},
	} {
		if _, err := svc.Create(ctx, in); !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("%s: expected ErrValidation, got %v", name, err)
		}
	}
}

func TestKPIService_Evaluate(t *testing.T) {
	repo := &stubKPIRepo{kpis: []*domain.KPI{{ID: 1, Title: "Deals", Target: 200, Weightage: 1.5}}}
	svc := NewKPIService(seededUsers(), repo, zerolog.Nop())
	ctx := context.Background()

	result, err := svc.Evaluate(ctx, testManager, ports.EvaluateKPIInput{KPIID: 1, EmployeeID: 3, AchievedValue: 200})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if result.Status != domain.KPIAchieved || result.Score != 150 {
		t.Fatalf("expected Achieved/150, got %s/%v", result.Status, result.Score)
	}

	result, err = svc.Evaluate(ctx, testAdmin, ports.EvaluateKPIInput{KPIID: 1, EmployeeID: 4, AchievedValue: 100})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if result.Status != domain.KPINotAchieved || result.Score != 75 {
		t.Fatalf("expected Not Achieved/75, got %s/%v", result.Status, result.Score)
	}

	if _, err := svc.Evaluate(ctx, testManager, ports.EvaluateKPIInput{KPIID: 1, EmployeeID: 4, AchievedValue: 1}); !errors.Is(err, domain.ErrOwnershipForbidden) {
		t.Fatalf("expected ErrOwnershipForbidden, got %v", err)
	}
	if _, err := svc.Evaluate(ctx, testManager, ports.EvaluateKPIInput{KPIID: 9, EmployeeID: 3}); !errors.Is(err, domain.ErrKPINotFound) {
		t.Fatalf("expected ErrKPINotFound, got %v", err)
	}
	if _, err := svc.Evaluate(ctx, testManager, ports.EvaluateKPIInput{KPIID: 1, EmployeeID: 99}); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if len(repo.results) != 2 {
		t.Fatalf("expected 2 stored results, got %d", len(repo.results))
	}
}
