package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/talentpulse/performance-api/internal/core/domain"
)

type ReviewRepository struct {
	col *mongo.Collection
	seq *sequence
}

func NewReviewRepository(db *mongo.Database) *ReviewRepository {
	return &ReviewRepository{col: db.Collection(collectionReviews), seq: newSequence(db, collectionReviews)}
}

type reviewDoc struct {
	ID         int64     `bson:"_id"`
	EmployeeID int64     `bson:"employee_id"`
	ManagerID  int64     `bson:"manager_id"`
	Rating     float64   `bson:"rating"`
	Comments   string    `bson:"comments,omitempty"`
	CreatedAt  time.Time `bson:"created_at"`
}

func (d reviewDoc) toDomain() *domain.PerformanceReview {
	return &domain.PerformanceReview{
		ID:         d.ID,
		EmployeeID: d.EmployeeID,
		ManagerID:  d.ManagerID,
		Rating:     d.Rating,
		Comments:   d.Comments,
		CreatedAt:  d.CreatedAt.UTC(),
	}
}

func (r *ReviewRepository) Create(ctx context.Context, review *domain.PerformanceReview) (*domain.PerformanceReview, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id, err := r.seq.next(ctx)
	if err != nil {
		return nil, err
	}
	doc := reviewDoc{
		ID:         id,
		EmployeeID: review.EmployeeID,
		ManagerID:  review.ManagerID,
		Rating:     review.Rating,
		Comments:   review.Comments,
		CreatedAt:  review.CreatedAt.UTC(),
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert review: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *ReviewRepository) List(ctx context.Context) ([]*domain.PerformanceReview, error) {
	return r.find(ctx, bson.M{})
}

func (r *ReviewRepository) ListByEmployees(ctx context.Context, employeeIDs ...int64) ([]*domain.PerformanceReview, error) {
	if len(employeeIDs) == 0 {
		return nil, nil
	}
	return r.find(ctx, bson.M{"employee_id": bson.M{"$in": employeeIDs}})
}

func (r *ReviewRepository) find(ctx context.Context, filter bson.M) ([]*domain.PerformanceReview, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	var docs []reviewDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode reviews: %w", err)
	}
	out := make([]*domain.PerformanceReview, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}
