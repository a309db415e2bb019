package interactions

import (
	"context"

	"fhirhub-service/internal/app/contracts"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	transitionCollection = "interaction_state_transitions"
	snapshotCollection   = "request_response_history"
)

type InteractionMongoRepository struct {
	db *mongo.Database
}

func NewInteractionMongoRepository(client *mongo.Client, dbName string) *InteractionMongoRepository {
	return &InteractionMongoRepository{
		db: client.Database(dbName),
	}
}

// Execute appends one state transition. Inserts only; transitions are never
// updated or deleted.
func (r *InteractionMongoRepository) Execute(ctx context.Context, record *contracts.StateTransitionRecord) error {
	_, err := r.db.Collection(transitionCollection).InsertOne(ctx, record)
	return err
}

func (r *InteractionMongoRepository) LatestTransition(ctx context.Context, interactionID string) (*contracts.StateTransitionRecord, error) {
	findOptions := options.FindOne().SetSort(bson.D{{Key: "recorded_at", Value: -1}})
	record := new(contracts.StateTransitionRecord)
	err := r.db.Collection(transitionCollection).
		FindOne(ctx, bson.M{"interaction_id": interactionID}, findOptions).
		Decode(record)
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (r *InteractionMongoRepository) Transitions(ctx context.Context, interactionID string) ([]contracts.StateTransitionRecord, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "recorded_at", Value: 1}})
	cursor, err := r.db.Collection(transitionCollection).
		Find(ctx, bson.M{"interaction_id": interactionID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []contracts.StateTransitionRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// PersistSnapshot stores one request/response pair from the recorder.
func (r *InteractionMongoRepository) PersistSnapshot(ctx context.Context, snapshot *RequestResponseEncountered) error {
	_, err := r.db.Collection(snapshotCollection).InsertOne(ctx, snapshot)
	return err
}
