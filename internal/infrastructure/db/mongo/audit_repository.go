package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/talentpulse/performance-api/internal/core/ports"
)

// AuditRepository appends auth audit events to the auth_audit collection.
type AuditRepository struct {
	col *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{col: db.Collection(collectionAudit)}
}

type auditDoc struct {
	Action    string    `bson:"action"`
	SubjectID int64     `bson:"subject_id,omitempty"`
	Role      string    `bson:"role,omitempty"`
	Outcome   string    `bson:"outcome"`
	Reason    string    `bson:"reason,omitempty"`
	RequestID string    `bson:"request_id,omitempty"`
	Path      string    `bson:"path,omitempty"`
	At        time.Time `bson:"at"`
}

func toAuditDoc(e ports.AuditEvent) auditDoc {
	return auditDoc{
		Action:    string(e.Action),
		SubjectID: e.SubjectID,
		Role:      e.Role,
		Outcome:   e.Outcome,
		Reason:    e.Reason,
		RequestID: e.RequestID,
		Path:      e.Path,
		At:        e.At.UTC(),
	}
}

func (r *AuditRepository) Write(ctx context.Context, event ports.AuditEvent) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, toAuditDoc(event)); err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}
