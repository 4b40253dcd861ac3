package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/talentpulse/performance-api/internal/core/domain"
)

type FeedbackRepository struct {
	col *mongo.Collection
	seq *sequence
}

func NewFeedbackRepository(db *mongo.Database) *FeedbackRepository {
	return &FeedbackRepository{col: db.Collection(collectionFeedback), seq: newSequence(db, collectionFeedback)}
}

type feedbackDoc struct {
	ID          int64     `bson:"_id"`
	FromUserID  *int64    `bson:"from_user_id"`
	ToUserID    int64     `bson:"to_user_id"`
	Message     string    `bson:"message"`
	IsAnonymous bool      `bson:"is_anonymous"`
	Status      string    `bson:"status"`
	CreatedAt   time.Time `bson:"created_at"`
}

func (d feedbackDoc) toDomain() *domain.Feedback {
	return &domain.Feedback{
		ID:          d.ID,
		FromUserID:  d.FromUserID,
		ToUserID:    d.ToUserID,
		Message:     d.Message,
		IsAnonymous: d.IsAnonymous,
		Status:      domain.FeedbackStatus(d.Status),
		CreatedAt:   d.CreatedAt.UTC(),
	}
}

func (r *FeedbackRepository) Create(ctx context.Context, fb *domain.Feedback) (*domain.Feedback, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id, err := r.seq.next(ctx)
	if err != nil {
		return nil, err
	}
	doc := feedbackDoc{
		ID:          id,
		FromUserID:  fb.FromUserID,
		ToUserID:    fb.ToUserID,
		Message:     fb.Message,
		IsAnonymous: fb.IsAnonymous,
		Status:      string(fb.Status),
		CreatedAt:   fb.CreatedAt.UTC(),
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert feedback: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *FeedbackRepository) FindByID(ctx context.Context, id int64) (*domain.Feedback, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc feedbackDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrFeedbackNotFound
		}
		return nil, fmt.Errorf("find feedback: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *FeedbackRepository) List(ctx context.Context) ([]*domain.Feedback, error) {
	return r.find(ctx, bson.M{})
}

func (r *FeedbackRepository) ListByRecipients(ctx context.Context, userIDs ...int64) ([]*domain.Feedback, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	return r.find(ctx, bson.M{"to_user_id": bson.M{"$in": userIDs}})
}

func (r *FeedbackRepository) SetStatus(ctx context.Context, id int64, status domain.FeedbackStatus) (*domain.Feedback, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc feedbackDoc
	err := r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": string(status)}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrFeedbackNotFound
		}
		return nil, fmt.Errorf("update feedback: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *FeedbackRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete feedback: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrFeedbackNotFound
	}
	return nil
}

func (r *FeedbackRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("count feedback: %w", err)
	}
	return n, nil
}

func (r *FeedbackRepository) find(ctx context.Context, filter bson.M) ([]*domain.Feedback, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}
	var docs []feedbackDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode feedback: %w", err)
	}
	out := make([]*domain.Feedback, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}
