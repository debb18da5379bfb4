package testdb

import (
	"context"
	"fmt"
	"log"
	"testing"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

type MongoStartResponse struct {
	Host string
	Port string
}

// URI returns a connection string for db on the started container.
func (r MongoStartResponse) URI(db string) string {
	return fmt.Sprintf("mongodb://%s:%s/%s", r.Host, r.Port, db)
}

func StartMongo(ctx context.Context) (MongoStartResponse, func()) {
	req := testcontainers.ContainerRequest{
		Image:        "mongo:8.0",
		ExposedPorts: []string{"27017/tcp"},
		WaitingFor:   wait.ForListeningPort("27017/tcp"),
	}

	cont, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		log.Fatalf("failed to start mongo container: %v", err)
	}

	host, err := cont.Host(ctx)
	if err != nil {
		log.Fatalf("failed to get host: %v", err)
	}

	port, err := cont.MappedPort(ctx, "27017/tcp")
	if err != nil {
		log.Fatalf("failed to get port: %v", err)
	}

	closer := func() {
		_ = cont.Terminate(context.Background())
	}
	return MongoStartResponse{
		Host: host,
		Port: port.Port(),
	}, closer
}

// Reset drops db so that every test starts from an empty database.
func Reset(t *testing.T, client *mongo.Client, db string) {
	t.Helper()

	if err := client.Database(db).Drop(t.Context()); err != nil {
		t.Fatalf("failed to drop database %q: %v", db, err)
	}
}
