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

// KPIRepository stores KPI definitions and their evaluation results in two
// collections.
type KPIRepository struct {
	kpis       *mongo.Collection
	results    *mongo.Collection
	kpiSeq     *sequence
	resultsSeq *sequence
}

func NewKPIRepository(db *mongo.Database) *KPIRepository {
	return &KPIRepository{
		kpis:       db.Collection(collectionKPIs),
		results:    db.Collection(collectionKPIResults),
		kpiSeq:     newSequence(db, collectionKPIs),
		resultsSeq: newSequence(db, collectionKPIResults),
	}
}

type kpiDoc struct {
	ID         int64   `bson:"_id"`
	Title      string  `bson:"title"`
	Target     float64 `bson:"target"`
	Weightage  float64 `bson:"weightage"`
	Department *string `bson:"department,omitempty"`
}

func (d kpiDoc) toDomain() *domain.KPI {
	return &domain.KPI{ID: d.ID, Title: d.Title, Target: d.Target, Weightage: d.Weightage, Department: d.Department}
}

type kpiResultDoc struct {
	ID            int64     `bson:"_id"`
	KPIID         int64     `bson:"kpi_id"`
	EmployeeID    int64     `bson:"employee_id"`
	AchievedValue float64   `bson:"achieved_value"`
	Status        string    `bson:"status"`
	Score         float64   `bson:"score"`
	CreatedAt     time.Time `bson:"created_at"`
}

func (r *KPIRepository) Create(ctx context.Context, kpi *domain.KPI) (*domain.KPI, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id, err := r.kpiSeq.next(ctx)
	if err != nil {
		return nil, err
	}
	doc := kpiDoc{ID: id, Title: kpi.Title, Target: kpi.Target, Weightage: kpi.Weightage, Department: kpi.Department}
	if _, err := r.kpis.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert kpi: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *KPIRepository) FindByID(ctx context.Context, id int64) (*domain.KPI, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc kpiDoc
	if err := r.kpis.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrKPINotFound
		}
		return nil, fmt.Errorf("find kpi: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *KPIRepository) List(ctx context.Context) ([]*domain.KPI, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.kpis.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list kpis: %w", err)
	}
	var docs []kpiDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode kpis: %w", err)
	}
	out := make([]*domain.KPI, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (r *KPIRepository) CreateResult(ctx context.Context, result *domain.KPIResult) (*domain.KPIResult, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id, err := r.resultsSeq.next(ctx)
	if err != nil {
		return nil, err
	}
	doc := kpiResultDoc{
		ID:            id,
		KPIID:         result.KPIID,
		EmployeeID:    result.EmployeeID,
		AchievedValue: result.AchievedValue,
		Status:        string(result.Status),
		Score:         result.Score,
		CreatedAt:     result.CreatedAt.UTC(),
	}
	if _, err := r.results.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert kpi result: %w", err)
	}

	created := *result
	created.ID = id
	return &created, nil
}

func (r *KPIRepository) CountResults(ctx context.Context, status domain.KPIStatus) (int64, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	total, err := r.results.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, 0, fmt.Errorf("count kpi results: %w", err)
	}
	matching, err := r.results.CountDocuments(ctx, bson.M{"status": string(status)})
	if err != nil {
		return 0, 0, fmt.Errorf("count kpi results: %w", err)
	}
	return total, matching, nil
}
