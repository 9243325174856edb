// Package suite starts a throwaway redis for repository tests.
package suite

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/redis/go-redis/v9"
)

const (
	expireDuration  = 300
	maxWaitDuration = 120 * time.Second
)

const (
	redisPort  = "6379/tcp"
	redisImage = "redis"
	redisTag   = "alpine"
)

type Suite struct {
	*testing.T
	Logger *slog.Logger

	Storage *redis.Client
}

// container is shared by every test of one test binary.
type container struct {
	once     sync.Once
	pool     *dockertest.Pool
	resource *dockertest.Resource
	addr     string
	err      error
}

var shared container

// Main runs the package tests and removes the container afterwards.
// Use it from TestMain.
func Main(m *testing.M) {
	code := m.Run()

	if shared.resource != nil {
		if err := shared.pool.Purge(shared.resource); err != nil {
			fmt.Fprintf(os.Stderr, "could not purge redis container: %v\n", err)
		}
	}

	os.Exit(code)
}

// New returns a client on an empty database. Tests are skipped when docker
// is not reachable.
func New(t *testing.T) (context.Context, *Suite) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), maxWaitDuration)
	t.Cleanup(cancel)

	shared.once.Do(func() {
		shared.addr, shared.err = shared.start()
	})

	if shared.err != nil {
		t.Skipf("redis container unavailable: %v", shared.err)
	}

	client := redis.NewClient(&redis.Options{Addr: shared.addr})
	t.Cleanup(func() {
		_ = client.Close()
	})

	if err := client.FlushDB(ctx).Err(); err != nil {
		t.Fatalf("could not flush database: %v", err)
	}

	return ctx, &Suite{
		T:       t,
		Logger:  slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})),
		Storage: client,
	}
}

func (that *container) start() (string, error) {
	pool, err := dockertest.NewPool("")
	if err != nil {
		return "", fmt.Errorf("could not connect to docker: %w", err)
	}

	if err = pool.Client.Ping(); err != nil {
		return "", fmt.Errorf("docker is not responding: %w", err)
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: redisImage,
		Tag:        redisTag,
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		return "", fmt.Errorf("could not start resource: %w", err)
	}

	// hard kill in case Main never runs
	_ = resource.Expire(expireDuration)

	that.pool = pool
	that.resource = resource

	addr := resource.GetHostPort(redisPort)
	pool.MaxWait = maxWaitDuration

	if err = pool.Retry(func() error {
		client := redis.NewClient(&redis.Options{Addr: addr})
		defer client.Close()

		return client.Ping(context.Background()).Err()
	}); err != nil {
		return "", fmt.Errorf("could not connect to redis: %w", err)
	}

	return addr, nil
}
