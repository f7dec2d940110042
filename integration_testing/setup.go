package integration_testing

import (
	"context"
	"fmt"
	"log"
	"net"
	"time"

	"github.com/2beens/gymsheets/internal/db"

	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
)

const (
	serverPort  = 9000
	serverHost  = "localhost"
	metricsPort = "9002"
	testDBName  = "gymsheets"
)

var serverEndpoint = fmt.Sprintf("http://%s:%d", serverHost, serverPort)

type Suite struct {
	DB           *pgxpool.Pool
	Redis        *redis.Client
	RedisPort    string
	PostgresPort string
	dockerPool   *dockertest.Pool
	teardown     []func()
}

func newSuite(ctx context.Context) *Suite {
	var err error
	suite := &Suite{
		teardown: make([]func(), 0),
	}

	// uses a sensible default on windows (tcp/http) and linux/osx (socket)
	suite.dockerPool, err = dockertest.NewPool("")
	if err != nil {
		log.Fatalf("could not create new dockertest pool: %s", err)
	}
	suite.dockerPool.MaxWait = time.Minute

	// uses pool to try to connect to Docker
	if err = suite.dockerPool.Client.Ping(); err != nil {
		log.Fatalf("could not ping dockertest pool: %s", err)
	}

	if err := suite.redisSetup(ctx); err != nil {
		suite.cleanup()
		log.Fatalf("failed to setup redis: %s", err.Error())
	}

	if err := suite.postgresSetup(ctx); err != nil {
		suite.cleanup()
		log.Fatalf("failed to setup postgres: %s", err)
	}

	return suite
}

func (s *Suite) cleanup() {
	if s.DB != nil {
		s.DB.Close()
	}
	if s.Redis != nil {
		_ = s.Redis.Close()
	}
	for _, teardown := range s.teardown {
		teardown()
	}
}

func (s *Suite) redisSetup(ctx context.Context) error {
	redisResource, err := s.dockerPool.RunWithOptions(&dockertest.RunOptions{
		Repository: "redis",
		Name:       "gymsheets-redis",
		Tag:        "6.2",
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
	})
	if err != nil {
		return fmt.Errorf("run redis: %s", err)
	}

	s.teardown = append(s.teardown, func() {
		_ = redisResource.Close()
	})

	s.RedisPort = redisResource.GetPort("6379/tcp")
	s.Redis = redis.NewClient(&redis.Options{
		Addr: net.JoinHostPort("localhost", s.RedisPort),
	})
	return s.dockerPool.Retry(func() error {
		return s.Redis.Ping(ctx).Err()
	})
}

func (s *Suite) postgresSetup(ctx context.Context) error {
	pgResource, err := s.dockerPool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "15",
		Env: []string{
			"POSTGRES_USER=postgres",
			"POSTGRES_PASSWORD=postgres",
			"POSTGRES_DB=" + testDBName,
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{
			Name: "no",
		}
	})
	if err != nil {
		return fmt.Errorf("dockerpool run postgres: %s", err)
	}

	s.teardown = append(s.teardown, func() {
		_ = pgResource.Close()
	})

	s.PostgresPort = pgResource.GetPort("5432/tcp")
	s.DB, err = db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:     "localhost",
		DBPort:     s.PostgresPort,
		DBName:     testDBName,
		DBPassword: "postgres",
	})
	if err != nil {
		return fmt.Errorf("open db pool: %s", err)
	}

	return s.dockerPool.Retry(func() error {
		return s.DB.Ping(ctx)
	})
}
