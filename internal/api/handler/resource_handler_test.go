package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/talentpulse/performance-api/internal/core/domain"
	"github.com/talentpulse/performance-api/internal/core/ports"
)

var (
	callerManager = &domain.User{ID: 2, Name: "mia", Role: domain.RoleManager, IsActive: true}
	callerAdmin   = &domain.User{ID: 1, Name: "root", Role: domain.RoleAdmin, IsActive: true}
)

type stubUserService struct {
	ports.UserService
	createIn   ports.CreateUserInput
	updateIn   ports.UpdateUserInput
	assignArgs [2]int64
	activeArg  *bool
}

func (s *stubUserService) List(context.Context) ([]*domain.User, error) { return nil, nil }

func (s *stubUserService) Create(_ context.Context, in ports.CreateUserInput) (*domain.User, error) {
	s.createIn = in
	return &domain.User{ID: 10, Name: in.Name, Role: roleOr(in.Role)}, nil
}

func (s *stubUserService) Update(_ context.Context, id int64, in ports.UpdateUserInput) (*domain.User, error) {
	s.updateIn = in
	role := domain.RoleEmployee
	if in.Role != nil {
		role = *in.Role
	}
	return &domain.User{ID: id, Role: role}, nil
}

func (s *stubUserService) AssignManager(_ context.Context, userID, managerID int64) (*domain.User, error) {
	s.assignArgs = [2]int64{userID, managerID}
	return &domain.User{ID: userID, Role: domain.RoleEmployee, ManagerID: &managerID}, nil
}

func (s *stubUserService) SetActive(_ context.Context, id int64, active bool) (*domain.User, error) {
	s.activeArg = &active
	return &domain.User{ID: id, Role: domain.RoleEmployee, IsActive: active}, nil
}

// roleOr keeps stub responses serializable: the zero Role has no JSON form.
func roleOr(r domain.Role) domain.Role {
	if r.Valid() {
		return r
	}
	return domain.RoleEmployee
}

func TestUserHandler_List_EmptyArray(t *testing.T) {
	h := NewUserHandler(&stubUserService{})
	e, c, rec := newJSONContext(t, http.MethodGet, "/api/users", "")
	if err := serve(e, c, h.List); err != nil {
		t.Fatalf("List: %v", err)
	}
	if rec.Body.String() != "[]\n" {
		t.Fatalf("expected an empty JSON array, got %q", rec.Body.String())
	}
}

func TestUserHandler_Create(t *testing.T) {
	stub := &stubUserService{}
	h := NewUserHandler(stub)

	e, c, rec := newJSONContext(t, http.MethodPost, "/api/users", `{"name":"nina","email":"nina@example.com","password":"secret1","role":"Manager"}`)
	if err := serve(e, c, h.Create); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if rec.Code != http.StatusCreated || stub.createIn.Role != domain.RoleManager {
		t.Fatalf("expected 201 with Manager role, got %d %v", rec.Code, stub.createIn.Role)
	}

	e, c, rec = newJSONContext(t, http.MethodPost, "/api/users", `{"name":"nina","email":"nina@example.com","password":"secret1","role":"Owner"}`)
	_ = serve(e, c, h.Create)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for an unknown role, got %d", rec.Code)
	}
}

func TestUserHandler_UpdateAndAssign(t *testing.T) {
	stub := &stubUserService{}
	h := NewUserHandler(stub)

	e, c, rec := newJSONContext(t, http.MethodPut, "/api/users/4", `{"role":"Admin","is_active":false}`)
	c.SetParamNames("id")
	c.SetParamValues("4")
	if err := serve(e, c, h.Update); err != nil {
		t.Fatalf("Update: %v", err)
	}
	var updated struct {
		ID   int64  `json:"id"`
		Role string `json:"role"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &updated); err != nil || rec.Code != http.StatusOK {
		t.Fatalf("expected a 200 user body, got %d %q (%v)", rec.Code, rec.Body.String(), err)
	}
	if updated.ID != 4 || updated.Role != "Admin" {
		t.Fatalf("unexpected updated user: %+v", updated)
	}
	if stub.updateIn.Role == nil || *stub.updateIn.Role != domain.RoleAdmin || stub.updateIn.IsActive == nil || *stub.updateIn.IsActive {
		t.Fatalf("unexpected update input: %+v", stub.updateIn)
	}
	if stub.updateIn.Name != nil || stub.updateIn.Password != nil {
		t.Fatalf("absent fields must stay nil")
	}

	e, c, _ = newJSONContext(t, http.MethodPost, "/api/users/4/assign-manager?manager_id=2", "")
	c.SetParamNames("id")
	c.SetParamValues("4")
	if err := serve(e, c, h.AssignManager); err != nil {
		t.Fatalf("AssignManager: %v", err)
	}
	if stub.assignArgs != [2]int64{4, 2} {
		t.Fatalf("unexpected assign args: %v", stub.assignArgs)
	}

	e, c, rec = newJSONContext(t, http.MethodPost, "/api/users/4/assign-manager", "")
	c.SetParamNames("id")
	c.SetParamValues("4")
	_ = serve(e, c, h.AssignManager)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without manager_id, got %d", rec.Code)
	}

	e, c, rec = newJSONContext(t, http.MethodPost, "/api/users/abc/deactivate", "")
	c.SetParamNames("id")
	c.SetParamValues("abc")
	_ = serve(e, c, h.Deactivate)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for a bad id, got %d", rec.Code)
	}

	e, c, _ = newJSONContext(t, http.MethodPost, "/api/users/4/deactivate", "")
	c.SetParamNames("id")
	c.SetParamValues("4")
	if err := serve(e, c, h.Deactivate); err != nil {
		t.Fatalf("Deactivate: %v", err)
	}
	if stub.activeArg == nil || *stub.activeArg {
		t.Fatalf("expected deactivation")
	}
}

type stubPerformanceService struct {
	ports.PerformanceService
	in  ports.CreateReviewInput
	err error
}

func (s *stubPerformanceService) Create(_ context.Context, caller *domain.User, in ports.CreateReviewInput) (*domain.PerformanceReview, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.in = in
	return &domain.PerformanceReview{ID: 1, EmployeeID: in.EmployeeID, ManagerID: caller.ID, Rating: in.Rating}, nil
}

func TestPerformanceHandler_Create(t *testing.T) {
	stub := &stubPerformanceService{}
	h := NewPerformanceHandler(stub)

	e, c, rec := newJSONContext(t, http.MethodPost, "/api/performance", `{"employee_id":3,"rating":0}`)
	withUser(c, callerManager)
	if err := serve(e, c, h.Create); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if rec.Code != http.StatusCreated || stub.in.Rating != 0 {
		t.Fatalf("a zero rating is valid, got %d %+v", rec.Code, stub.in)
	}

	for _, body := range []string{`{"employee_id":3}`, `{"employee_id":3,"rating":6}`} {
		e, c, rec = newJSONContext(t, http.MethodPost, "/api/performance", body)
		withUser(c, callerManager)
		_ = serve(e, c, h.Create)
		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("%s: expected 422, got %d", body, rec.Code)
		}
	}

	stub.err = domain.ErrOwnershipForbidden
	e, c, _ = newJSONContext(t, http.MethodPost, "/api/performance", `{"employee_id":4,"rating":3}`)
	withUser(c, callerManager)
	if err := serve(e, c, h.Create); !errors.Is(err, domain.ErrOwnershipForbidden) {
		t.Fatalf("expected ErrOwnershipForbidden, got %v", err)
	}
}

type stubFeedbackService struct {
	ports.FeedbackService
	status domain.FeedbackStatus
}

func (s *stubFeedbackService) Post(_ context.Context, caller *domain.User, in ports.PostFeedbackInput) (*domain.Feedback, error) {
	if domain.IsAbusive(in.Message) {
		return nil, domain.ErrAbusiveContent
	}
	fb := &domain.Feedback{ID: 1, ToUserID: in.ToUserID, Message: in.Message, IsAnonymous: in.IsAnonymous, Status: domain.FeedbackPending}
	if !in.IsAnonymous {
		fb.FromUserID = &caller.ID
	}
	return fb, nil
}

func (s *stubFeedbackService) Moderate(_ context.Context, id int64, status domain.FeedbackStatus) (*domain.Feedback, error) {
	s.status = status
	return &domain.Feedback{ID: id, Status: status}, nil
}

func TestFeedbackHandler_Post(t *testing.T) {
	h := NewFeedbackHandler(&stubFeedbackService{})

	e, c, rec := newJSONContext(t, http.MethodPost, "/api/feedback", `{"to_user_id":3,"message":"nice","is_anonymous":true}`)
	withUser(c, callerManager)
	if err := serve(e, c, h.Post); err != nil {
		t.Fatalf("Post: %v", err)
	}
	var resp map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if rec.Code != http.StatusCreated || resp["from_user_id"] != nil {
		t.Fatalf("anonymous feedback must not expose its sender: %d %+v", rec.Code, resp)
	}

	e, c, rec = newJSONContext(t, http.MethodPost, "/api/feedback", `{"to_user_id":3,"message":"   "}`)
	withUser(c, callerManager)
	_ = serve(e, c, h.Post)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for a blank message, got %d", rec.Code)
	}

	e, c, _ = newJSONContext(t, http.MethodPost, "/api/feedback", `{"to_user_id":3,"message":"stupid idea"}`)
	withUser(c, callerManager)
	if err := serve(e, c, h.Post); !errors.Is(err, domain.ErrAbusiveContent) {
		t.Fatalf("expected ErrAbusiveContent, got %v", err)
	}
}

func TestFeedbackHandler_Moderate(t *testing.T) {
	stub := &stubFeedbackService{}
	h := NewFeedbackHandler(stub)

	e, c, rec := newJSONContext(t, http.MethodPut, "/api/feedback/5/reject", "")
	c.SetParamNames("id")
	c.SetParamValues("5")
	if err := serve(e, c, h.Reject); err != nil {
		t.Fatalf("Reject: %v", err)
	}
	if rec.Code != http.StatusOK || stub.status != domain.FeedbackRejected {
		t.Fatalf("expected rejected, got %d %s", rec.Code, stub.status)
	}
}

type stubKPIService struct {
	ports.KPIService
	createIn ports.CreateKPIInput
}

func (s *stubKPIService) Create(_ context.Context, in ports.CreateKPIInput) (*domain.KPI, error) {
	s.createIn = in
	return &domain.KPI{ID: 1, Title: in.Title, Target: in.Target, Weightage: in.Weightage}, nil
}

func (s *stubKPIService) Evaluate(_ context.Context, _ *domain.User, in ports.EvaluateKPIInput) (*domain.KPIResult, error) {
	return &domain.KPIResult{ID: 1, KPIID: in.KPIID, EmployeeID: in.EmployeeID, AchievedValue: in.AchievedValue, Status: domain.KPIAchieved, Score: 150}, nil
}

func TestKPIHandler(t *testing.T) {
	stub := &stubKPIService{}
	h := NewKPIHandler(stub)

	e, c, rec := newJSONContext(t, http.MethodPost, "/api/kpi", `{"title":"Deals","target":200,"weightage":1.5}`)
	withUser(c, callerAdmin)
	if err := serve(e, c, h.Create); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if rec.Code != http.StatusCreated || stub.createIn.Weightage != 1.5 {
		t.Fatalf("unexpected create: %d %+v", rec.Code, stub.createIn)
	}

	e, c, rec = newJSONContext(t, http.MethodPost, "/api/kpi", `{"title":"Deals","target":0}`)
	withUser(c, callerAdmin)
	_ = serve(e, c, h.Create)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for a zero target, got %d", rec.Code)
	}

	e, c, rec = newJSONContext(t, http.MethodPost, "/api/kpi/evaluate", `{"kpi_id":1,"employee_id":3,"achieved_value":0}`)
	withUser(c, callerManager)
	if err := serve(e, c, h.Evaluate); err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
}
