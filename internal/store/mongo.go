package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

const emailIndexName = "email_unique"

// MongoConfig holds the configuration for connecting to MongoDB
type MongoConfig struct {
	URI            string
	ConnectTimeout time.Duration
}

var _ Store = (*MongoStore)(nil)

// MongoStore implements the Store interface on a MongoDB collection
type MongoStore struct {
	users *mongo.Collection
}

// NewMongoClient connects to MongoDB and verifies the connection with a ping
func NewMongoClient(ctx context.Context, cfg MongoConfig) (*mongo.Client, error) {
	opts := options.Client().ApplyURI(cfg.URI)
	if cfg.ConnectTimeout > 0 {
		opts.SetConnectTimeout(cfg.ConnectTimeout).SetServerSelectionTimeout(cfg.ConnectTimeout)
	}

	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, fmt.Errorf("connect to mongo: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	return client, nil
}

// NewMongoStore creates a new MongoStore over the given collection
func NewMongoStore(db *mongo.Database, collection string) *MongoStore {
	return &MongoStore{users: db.Collection(collection)}
}

// EnsureIndexes creates the unique email index. It is a no-op when the index exists.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetName(emailIndexName).SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create email index: %w", err)
	}

	return nil
}

// Ping checks that the database is reachable
func (s *MongoStore) Ping(ctx context.Context) error {
	return s.users.Database().Client().Ping(ctx, readpref.Primary())
}

// FindByEmail retrieves a user by exact email match
func (s *MongoStore) FindByEmail(ctx context.Context, email string) (User, error) {
	var u User
	err := s.users.FindOne(ctx, bson.D{{Key: "email", Value: email}}).Decode(&u)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return u, ErrNotFound
		}

		return u, fmt.Errorf("find user: %w", err)
	}

	return u, nil
}

// CreatePartial inserts a user that has not completed its profile yet
func (s *MongoStore) CreatePartial(ctx context.Context, r CreatePartialRequest) (User, error) {
	u := User{
		Email:             r.Email,
		Provider:          r.Provider,
		CreatedAt:         r.CreatedAt.UTC().Truncate(time.Millisecond),
		IsProfileComplete: false,
	}

	res, err := s.users.InsertOne(ctx, u)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return User{}, ErrDuplicateKey
		}

		return User{}, fmt.Errorf("insert user: %w", err)
	}

	if id, ok := res.InsertedID.(bson.ObjectID); ok {
		u.ID = id
	}

	return u, nil
}

// MergeUpdate sets the supplied profile fields and marks the profile complete
func (s *MongoStore) MergeUpdate(ctx context.Context, r MergeUpdateRequest) error {
	set := append(r.Profile.set(), bson.E{Key: "is_profile_complete", Value: true})

	res, err := s.users.UpdateOne(ctx,
		bson.D{{Key: "email", Value: r.Email}},
		bson.D{{Key: "$set", Value: set}})
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}

	if res.MatchedCount == 0 {
		return ErrNotFound
	}

	return nil
}
