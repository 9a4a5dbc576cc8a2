package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/clinicflow/clinic-api/internal/core/domain"
)

const auditCollection = "audit_events"

// AuditRepository appends audit events to their own collection.
type AuditRepository struct {
	coll *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{coll: db.Collection(auditCollection)}
}

type auditDocument struct {
	Action     string    `bson:"action"`
	ActorID    string    `bson:"actor_id,omitempty"`
	SubjectID  string    `bson:"subject_id,omitempty"`
	Email      string    `bson:"email,omitempty"`
	Success    bool      `bson:"success"`
	Reason     string    `bson:"reason,omitempty"`
	Timestamp  time.Time `bson:"timestamp"`
	RecordedAt time.Time `bson:"recorded_at"`
}

// InsertEvent persists a single audit event.
func (r *AuditRepository) InsertEvent(ctx context.Context, event *domain.AuditEvent) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.coll.InsertOne(ctx, auditDocument{
		Action:     string(event.Action),
		ActorID:    event.ActorID,
		SubjectID:  event.SubjectID,
		Email:      event.Email,
		Success:    event.Success,
		Reason:     event.Reason,
		Timestamp:  event.Timestamp.UTC(),
		RecordedAt: time.Now().UTC(),
	})
	return err
}
