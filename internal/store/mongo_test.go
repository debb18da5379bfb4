package store

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	testdb "github.com/lalitjoshi007/FMT/internal/pkg/test/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

const dbName = "fmt_auth_test"

var client *mongo.Client

func TestMain(m *testing.M) {
	res, closeMongo := testdb.StartMongo(context.Background())

	var err error
	client, err = NewMongoClient(context.Background(), MongoConfig{
		URI:            res.URI(""),
		ConnectTimeout: 10 * time.Second,
	})
	if err != nil {
		closeMongo()
		log.Fatal("failed to connect to mongo:", err)
	}

	code := m.Run()
	_ = client.Disconnect(context.Background())
	closeMongo()
	os.Exit(code)
}

func newStore(t *testing.T) *MongoStore {
	t.Helper()
	testdb.Reset(t, client, dbName)

	s := NewMongoStore(client.Database(dbName), "users")
	require.NoError(t, s.EnsureIndexes(t.Context()))
	return s
}

func ptr(s string) *string {
	return &s
}

func TestCreatePartial(t *testing.T) {
	s := newStore(t)
	now := time.Now()

	u, err := s.CreatePartial(t.Context(), CreatePartialRequest{
		Email:     "a@x.com",
		Provider:  "google",
		CreatedAt: now,
	})
	require.NoError(t, err)
	assert.False(t, u.ID.IsZero())

	var raw bson.M
	err = client.Database(dbName).Collection("users").FindOne(t.Context(), bson.D{{Key: "email", Value: "a@x.com"}}).Decode(&raw)
	require.NoError(t, err)

	assert.Equal(t, "google", raw["provider"])
	assert.Equal(t, false, raw["is_profile_complete"])
	assert.Contains(t, raw, "created_at")
	assert.NotContains(t, raw, "username")
	assert.NotContains(t, raw, "name")
	assert.NotContains(t, raw, "date_of_birth")
	assert.NotContains(t, raw, "gender")
}

func TestCreatePartial_Duplicate(t *testing.T) {
	s := newStore(t)
	req := CreatePartialRequest{Email: "a@x.com", Provider: "google", CreatedAt: time.Now()}

	_, err := s.CreatePartial(t.Context(), req)
	require.NoError(t, err)

	_, err = s.CreatePartial(t.Context(), req)
	require.ErrorIs(t, err, ErrDuplicateKey)

	n, err := client.Database(dbName).Collection("users").CountDocuments(t.Context(), bson.D{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestFindByEmail(t *testing.T) {
	s := newStore(t)
	created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	_, err := s.CreatePartial(t.Context(), CreatePartialRequest{Email: "a@x.com", Provider: "facebook", CreatedAt: created})
	require.NoError(t, err)

	u, err := s.FindByEmail(t.Context(), "a@x.com")
	require.NoError(t, err)

	assert.Equal(t, "a@x.com", u.Email)
	assert.Equal(t, "facebook", u.Provider)
	assert.True(t, created.Equal(u.CreatedAt))
	assert.False(t, u.IsProfileComplete)
	assert.Nil(t, u.Username)
}

func TestFindByEmail_NotFound(t *testing.T) {
	s := newStore(t)

	_, err := s.FindByEmail(t.Context(), "nobody@x.com")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestFindByEmail_ExactMatch(t *testing.T) {
	s := newStore(t)

	_, err := s.CreatePartial(t.Context(), CreatePartialRequest{Email: "a@x.com", Provider: "google", CreatedAt: time.Now()})
	require.NoError(t, err)

	_, err = s.FindByEmail(t.Context(), "A@x.com")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMergeUpdate(t *testing.T) {
	s := newStore(t)

	_, err := s.CreatePartial(t.Context(), CreatePartialRequest{Email: "a@x.com", Provider: "google", CreatedAt: time.Now()})
	require.NoError(t, err)

	err = s.MergeUpdate(t.Context(), MergeUpdateRequest{
		Email: "a@x.com",
		Profile: Profile{
			Username: Value("alice"),
			Name:     Value("Alice"),
		},
	})
	require.NoError(t, err)

	err = s.MergeUpdate(t.Context(), MergeUpdateRequest{
		Email:   "a@x.com",
		Profile: Profile{Gender: Value("f")},
	})
	require.NoError(t, err)

	u, err := s.FindByEmail(t.Context(), "a@x.com")
	require.NoError(t, err)

	assert.True(t, u.IsProfileComplete)
	require.NotNil(t, u.Username)
	assert.Equal(t, "alice", *u.Username)
	require.NotNil(t, u.Name)
	assert.Equal(t, "Alice", *u.Name)
	require.NotNil(t, u.Gender)
	assert.Equal(t, "f", *u.Gender)
	assert.Nil(t, u.DateOfBirth)
	assert.Equal(t, "google", u.Provider)
}

func TestMergeUpdate_NullClearsField(t *testing.T) {
	s := newStore(t)

	_, err := s.CreatePartial(t.Context(), CreatePartialRequest{Email: "a@x.com", Provider: "google", CreatedAt: time.Now()})
	require.NoError(t, err)

	err = s.MergeUpdate(t.Context(), MergeUpdateRequest{
		Email:   "a@x.com",
		Profile: Profile{Name: Value("Alice"), Gender: Value("f")},
	})
	require.NoError(t, err)

	err = s.MergeUpdate(t.Context(), MergeUpdateRequest{
		Email:   "a@x.com",
		Profile: Profile{Name: Null()},
	})
	require.NoError(t, err)

	u, err := s.FindByEmail(t.Context(), "a@x.com")
	require.NoError(t, err)
	assert.Nil(t, u.Name)
	require.NotNil(t, u.Gender)
	assert.Equal(t, "f", *u.Gender)

	var raw bson.M
	err = client.Database(dbName).Collection("users").FindOne(t.Context(), bson.D{{Key: "email", Value: "a@x.com"}}).Decode(&raw)
	require.NoError(t, err)
	assert.Contains(t, raw, "name")
	assert.Nil(t, raw["name"])
}

func TestMergeUpdate_EmptyProfile(t *testing.T) {
	s := newStore(t)

	_, err := s.CreatePartial(t.Context(), CreatePartialRequest{Email: "a@x.com", Provider: "google", CreatedAt: time.Now()})
	require.NoError(t, err)

	require.NoError(t, s.MergeUpdate(t.Context(), MergeUpdateRequest{Email: "a@x.com"}))

	u, err := s.FindByEmail(t.Context(), "a@x.com")
	require.NoError(t, err)
	assert.True(t, u.IsProfileComplete)
}

func TestMergeUpdate_NotFound(t *testing.T) {
	s := newStore(t)

	err := s.MergeUpdate(t.Context(), MergeUpdateRequest{
		Email:   "nobody@x.com",
		Profile: Profile{Name: Value("Nobody")},
	})
	require.ErrorIs(t, err, ErrNotFound)

	n, err := client.Database(dbName).Collection("users").CountDocuments(t.Context(), bson.D{})
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)
}

func TestEnsureIndexes_Idempotent(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.EnsureIndexes(t.Context()))
}

func TestPing(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.Ping(t.Context()))
}
