package service

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/talentpulse/performance-api/internal/core/auth"
	"github.com/talentpulse/performance-api/internal/core/domain"
	"github.com/talentpulse/performance-api/internal/core/ports"
)

func newTestHasher(t *testing.T, schemes ...string) *auth.PasswordHasher {
	t.Helper()
	if len(schemes) == 0 {
		schemes = []string{auth.SchemeArgon2id, auth.SchemeBcrypt}
	}
	h, err := auth.NewPasswordHasher(auth.HasherConfig{
		Schemes:    schemes,
		Argon2:     auth.Argon2Params{Memory: 1024, Time: 1, Threads: 1, SaltLen: 16, KeyLen: 32},
		BcryptCost: bcrypt.MinCost,
	})
	if err != nil {
		t.Fatalf("NewPasswordHasher: %v", err)
	}
	return h
}

func newTestTokens(t *testing.T) *auth.TokenService {
	t.Helper()
	tokens, err := auth.NewTokenService(auth.TokenConfig{Secret: "test-secret", TTL: time.Hour})
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	return tokens
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	if u.ManagerID != nil {
		id := *u.ManagerID
		clone.ManagerID = &id
	}
	return &clone
}

type stubUserRepo struct {
	users   map[int64]*domain.User
	nextID  int64
	updates int
	err     error
}

func newStubUserRepo(seed ...*domain.User) *stubUserRepo {
	r := &stubUserRepo{users: make(map[int64]*domain.User)}
	for _, u := range seed {
		r.users[u.ID] = cloneUser(u)
		if u.ID > r.nextID {
			r.nextID = u.ID
		}
	}
	return r
}

func (r *stubUserRepo) FindByID(_ context.Context, id int64) (*domain.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	if u, ok := r.users[id]; ok {
		return cloneUser(u), nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByName(_ context.Context, name string) (*domain.User, error) {
	var found *domain.User
	for _, u := range r.users {
		if u.Name != name {
			continue
		}
		if found != nil {
			return nil, domain.ErrUserNotFound
		}
		found = u
	}
	if found == nil {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(found), nil
}

func (r *stubUserRepo) List(context.Context) ([]*domain.User, error) {
	out := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, cloneUser(u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubUserRepo) ListByManager(_ context.Context, managerID int64) ([]*domain.User, error) {
	var out []*domain.User
	for _, u := range r.users {
		if u.ReportsTo(managerID) {
			out = append(out, cloneUser(u))
		}
	}
	return out, nil
}

func (r *stubUserRepo) Count(context.Context) (int64, error) {
	if r.err != nil {
		return 0, r.err
	}
	return int64(len(r.users)), nil
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	r.nextID++
	created := cloneUser(user)
	created.ID = r.nextID
	r.users[created.ID] = cloneUser(created)
	return created, nil
}

func (r *stubUserRepo) Update(_ context.Context, user *domain.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return domain.ErrUserNotFound
	}
	r.updates++
	r.users[user.ID] = cloneUser(user)
	return nil
}

func (r *stubUserRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

type stubReviewRepo struct {
	reviews []*domain.PerformanceReview
}

func (r *stubReviewRepo) Create(_ context.Context, review *domain.PerformanceReview) (*domain.PerformanceReview, error) {
	created := *review
	created.ID = int64(len(r.reviews) + 1)
	r.reviews = append(r.reviews, &created)
	return &created, nil
}

func (r *stubReviewRepo) List(context.Context) ([]*domain.PerformanceReview, error) {
	return r.reviews, nil
}

func (r *stubReviewRepo) ListByEmployees(_ context.Context, ids ...int64) ([]*domain.PerformanceReview, error) {
	var out []*domain.PerformanceReview
	for i := len(r.reviews) - 1; i >= 0; i-- {
		for _, id := range ids {
			if r.reviews[i].EmployeeID == id {
				out = append(out, r.reviews[i])
			}
		}
	}
	return out, nil
}

type stubFeedbackRepo struct {
	items []*domain.Feedback
}

func (r *stubFeedbackRepo) Create(_ context.Context, fb *domain.Feedback) (*domain.Feedback, error) {
	created := *fb
	created.ID = int64(len(r.items) + 1)
	r.items = append(r.items, &created)
	return &created, nil
}

func (r *stubFeedbackRepo) FindByID(_ context.Context, id int64) (*domain.Feedback, error) {
	for _, fb := range r.items {
		if fb.ID == id {
			return fb, nil
		}
	}
	return nil, domain.ErrFeedbackNotFound
}

func (r *stubFeedbackRepo) List(context.Context) ([]*domain.Feedback, error) {
	return r.items, nil
}

func (r *stubFeedbackRepo) ListByRecipients(_ context.Context, ids ...int64) ([]*domain.Feedback, error) {
	var out []*domain.Feedback
	for _, fb := range r.items {
		for _, id := range ids {
			if fb.ToUserID == id {
				out = append(out, fb)
			}
		}
	}
	return out, nil
}

func (r *stubFeedbackRepo) SetStatus(ctx context.Context, id int64, status domain.FeedbackStatus) (*domain.Feedback, error) {
	fb, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	fb.Status = status
	return fb, nil
}

func (r *stubFeedbackRepo) Delete(_ context.Context, id int64) error {
	for i, fb := range r.items {
		if fb.ID == id {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return nil
		}
	}
	return domain.ErrFeedbackNotFound
}

func (r *stubFeedbackRepo) Count(context.Context) (int64, error) {
	return int64(len(r.items)), nil
}

type stubKPIRepo struct {
	kpis    []*domain.KPI
	results []*domain.KPIResult
}

func (r *stubKPIRepo) Create(_ context.Context, kpi *domain.KPI) (*domain.KPI, error) {
	created := *kpi
	created.ID = int64(len(r.kpis) + 1)
	r.kpis = append(r.kpis, &created)
	return &created, nil
}

func (r *stubKPIRepo) FindByID(_ context.Context, id int64) (*domain.KPI, error) {
	for _, k := range r.kpis {
		if k.ID == id {
			return k, nil
		}
	}
	return nil, domain.ErrKPINotFound
}

func (r *stubKPIRepo) List(context.Context) ([]*domain.KPI, error) {
	return r.kpis, nil
}

func (r *stubKPIRepo) CreateResult(_ context.Context, result *domain.KPIResult) (*domain.KPIResult, error) {
	created := *result
	created.ID = int64(len(r.results) + 1)
	r.results = append(r.results, &created)
	return &created, nil
}

func (r *stubKPIRepo) CountResults(_ context.Context, status domain.KPIStatus) (int64, int64, error) {
	var matching int64
	for _, res := range r.results {
		if res.Status == status {
			matching++
		}
	}
	return int64(len(r.results)), matching, nil
}

// memRevocations is an in-memory revocation list with the same semantics as
// the redis store.
type memRevocations struct {
	tokens   map[string]time.Time
	subjects map[int64]time.Time
}

func newMemRevocations() *memRevocations {
	return &memRevocations{tokens: map[string]time.Time{}, subjects: map[int64]time.Time{}}
}

func (m *memRevocations) RevokeToken(_ context.Context, tokenID string, expiresAt time.Time) error {
	m.tokens[tokenID] = expiresAt
	return nil
}

func (m *memRevocations) RevokeSubject(_ context.Context, subjectID int64, at time.Time, _ time.Duration) error {
	m.subjects[subjectID] = at
	return nil
}

func (m *memRevocations) IsRevoked(_ context.Context, tokenID string, subjectID int64, issuedAt time.Time) (bool, error) {
	if _, ok := m.tokens[tokenID]; ok {
		return true, nil
	}
	at, ok := m.subjects[subjectID]
	return ok && issuedAt.UnixMilli() <= at.UnixMilli(), nil
}

type recordingAudit struct {
	mu     sync.Mutex
	events []ports.AuditEvent
}

func (a *recordingAudit) Record(e ports.AuditEvent) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.events = append(a.events, e)
}

func (a *recordingAudit) actions() []ports.AuditAction {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]ports.AuditAction, 0, len(a.events))
	for _, e := range a.events {
		out = append(out, e.Action)
	}
	return out
}

func ptr[T any](v T) *T { return &v }
