package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/talentpulse/performance-api/internal/core/domain"
	"github.com/talentpulse/performance-api/internal/core/ports"
)

var (
	testAdmin    = &domain.User{ID: 1, Name: "root", Role: domain.RoleAdmin, IsActive: true}
	testManager  = &domain.User{ID: 2, Name: "mia", Role: domain.RoleManager, IsActive: true}
	testReport   = &domain.User{ID: 3, Name: "ed", Role: domain.RoleEmployee, ManagerID: ptr(int64(2)), IsActive: true}
	testOutsider = &domain.User{ID: 4, Name: "lou", Role: domain.RoleEmployee, IsActive: true}
)

func seededUsers() *stubUserRepo {
	return newStubUserRepo(testAdmin, testManager, testReport, testOutsider)
}

func TestPerformanceService_Create_Ownership(t *testing.T) {
	reviews := &stubReviewRepo{}
	svc := NewPerformanceService(seededUsers(), reviews, zerolog.Nop())
	ctx := context.Background()

	review, err := svc.Create(ctx, testManager, ports.CreateReviewInput{EmployeeID: 3, Rating: 4.5, Comments: " solid "})
	if err != nil {
		t.Fatalf("manager reviewing a report: %v", err)
	}
	if review.ManagerID != testManager.ID || review.EmployeeID != 3 || review.Comments != "solid" {
		t.Fatalf("unexpected review: %+v", review)
	}

	if _, err := svc.Create(ctx, testManager, ports.CreateReviewInput{EmployeeID: 4, Rating: 3}); !errors.Is(err, domain.ErrOwnershipForbidden) {
		t.Fatalf("expected ErrOwnershipForbidden, got %v", err)
	}
	if _, err := svc.Create(ctx, testAdmin, ports.CreateReviewInput{EmployeeID: 4, Rating: 3}); err != nil {
		t.Fatalf("admin bypasses ownership: %v", err)
	}
	if _, err := svc.Create(ctx, testManager, ports.CreateReviewInput{EmployeeID: 99, Rating: 3}); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if len(reviews.reviews) != 2 {
		t.Fatalf("expected 2 stored reviews, got %d", len(reviews.reviews))
	}
}

func TestPerformanceService_Create_RatingRange(t *testing.T) {
	svc := NewPerformanceService(seededUsers(), &stubReviewRepo{}, zerolog.Nop())

	for _, rating := range []float64{-0.5, 5.1} {
		if _, err := svc.Create(context.Background(), testAdmin, ports.CreateReviewInput{EmployeeID: 3, Rating: rating}); !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("rating %v: expected ErrValidation, got %v", rating, err)
		}
	}
	for _, rating := range []float64{0, 5} {
		if _, err := svc.Create(context.Background(), testAdmin, ports.CreateReviewInput{EmployeeID: 3, Rating: rating}); err != nil {
			t.Fatalf("rating %v should be accepted: %v", rating, err)
		}
	}
}

func TestPerformanceService_Lists(t *testing.T) {
	reviews := &stubReviewRepo{reviews: []*domain.PerformanceReview{
		{ID: 1, EmployeeID: 3, ManagerID: 2, Rating: 4},
		{ID: 2, EmployeeID: 4, ManagerID: 1, Rating: 2},
	}}
	svc := NewPerformanceService(seededUsers(), reviews, zerolog.Nop())
	ctx := context.Background()

	mine, err := svc.ListMine(ctx, testReport)
	if err != nil || len(mine) != 1 || mine[0].ID != 1 {
		t.Fatalf("ListMine: %v %v", mine, err)
	}
	if _, err := svc.ListForEmployee(ctx, testManager, 4); !errors.Is(err, domain.ErrOwnershipForbidden) {
		t.Fatalf("expected ErrOwnershipForbidden, got %v", err)
	}
	team, err := svc.ListForEmployee(ctx, testManager, 3)
	if err != nil || len(team) != 1 {
		t.Fatalf("ListForEmployee: %v %v", team, err)
	}
	all, err := svc.ListAll(ctx)
	if err != nil || len(all) != 2 {
		t.Fatalf("ListAll: %v %v", all, err)
	}
}
