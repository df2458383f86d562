package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tickethub/ticketing-system/internal/core/domain"
)

const auditCollection = "user_audit"

// MongoAuditRepository is the append-only store for the directory audit
// trail. Entries are never updated or removed.
type MongoAuditRepository struct {
	coll *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *MongoAuditRepository {
	return &MongoAuditRepository{coll: db.Collection(auditCollection)}
}

type mongoAuditEvent struct {
	Action    string `bson:"action"`
	Username  string `bson:"username"`
	Actor     string `bson:"actor,omitempty"`
	Timestamp int64  `bson:"timestamp"`
}

func (r *MongoAuditRepository) Insert(ctx context.Context, event *domain.AuditEvent) error {
	doc := mongoAuditEvent{
		Action:    string(event.Action),
		Username:  event.Username,
		Actor:     event.Actor,
		Timestamp: event.Timestamp.Unix(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

func (r *MongoAuditRepository) ListByUsername(ctx context.Context, username string) ([]*domain.AuditEvent, error) {
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{"username": username}, opts)
	if err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	defer cursor.Close(ctx)

	var events []*domain.AuditEvent
	for cursor.Next(ctx) {
		var me mongoAuditEvent
		if err := cursor.Decode(&me); err != nil {
			return nil, fmt.Errorf("decode audit event: %w", err)
		}
		events = append(events, &domain.AuditEvent{
			Action:    domain.AuditAction(me.Action),
			Username:  me.Username,
			Actor:     me.Actor,
			Timestamp: unixToTime(me.Timestamp),
		})
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	return events, nil
}
