package accessRepo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"barakah/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// MongoAccessRepo implements AccessRepository using MongoDB.
type MongoAccessRepo struct {
	coll *mongo.Collection
}

// NewMongoAccessRepo binds the access_grants collection of db.
func NewMongoAccessRepo(db *mongo.Database, logger *zap.Logger) AccessRepository {
	repo := &MongoAccessRepo{coll: db.Collection("access_grants")}
	if err := repo.ensureIndexes(); err != nil {
		logger.Warn("access grant indexes not created", zap.Error(err))
	}
	return repo
}

// newContext creates a context with the given timeout.
func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

func (r *MongoAccessRepo) Save(grant *models.AccessGrant) (*models.AccessGrant, bool, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	grant.Email = strings.ToLower(grant.Email)
	filter := bson.M{"session_id": grant.SessionID}
	update := bson.M{"$setOnInsert": grant}
	res, err := r.coll.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return nil, false, fmt.Errorf("failed to save access grant for session %s: %w", grant.SessionID, err)
	}
	if res.UpsertedCount == 1 {
		return grant, true, nil
	}

	stored, err := r.GetBySession(grant.SessionID)
	if err != nil {
		return nil, false, err
	}
	if stored == nil {
		return nil, false, fmt.Errorf("access grant for session %s vanished after upsert", grant.SessionID)
	}
	return stored, false, nil
}

func (r *MongoAccessRepo) GetBySession(sessionID string) (*models.AccessGrant, error) {
	return r.findOne(bson.M{"session_id": sessionID})
}

func (r *MongoAccessRepo) GetByAPIKeyHash(hash string) (*models.AccessGrant, error) {
	return r.findOne(bson.M{"api_key_hash": hash})
}

func (r *MongoAccessRepo) ClaimAPIKey(sessionID, hash string) (bool, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{"session_id": sessionID, "api_key_hash": bson.M{"$exists": false}}
	res, err := r.coll.UpdateOne(ctx, filter, bson.M{"$set": bson.M{"api_key_hash": hash}})
	if err != nil {
		return false, fmt.Errorf("failed to claim api key for session %s: %w", sessionID, err)
	}
	return res.ModifiedCount == 1, nil
}

func (r *MongoAccessRepo) GetByEmail(email string) ([]models.AccessGrant, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "granted_at", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{"email": strings.ToLower(email)}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve access grants: %w", err)
	}
	defer cursor.Close(ctx)

	grants := []models.AccessGrant{}
	for cursor.Next(ctx) {
		var g models.AccessGrant
		if err := cursor.Decode(&g); err != nil {
			return nil, fmt.Errorf("failed to decode access grant: %w", err)
		}
		grants = append(grants, g)
	}
	return grants, cursor.Err()
}

func (r *MongoAccessRepo) findOne(filter bson.M) (*models.AccessGrant, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var grant models.AccessGrant
	if err := r.coll.FindOne(ctx, filter).Decode(&grant); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch access grant: %w", err)
	}
	return &grant, nil
}
