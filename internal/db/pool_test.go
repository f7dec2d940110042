package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnString(t *testing.T) {
	assert.Equal(t,
		"postgres://postgres@localhost:5432/gymsheets",
		ConnString(NewDBPoolParams{DBHost: "localhost", DBPort: "5432", DBName: "gymsheets"}),
	)
	assert.Equal(t,
		"postgres://memo:p%40ss@db:6543/gymsheets",
		ConnString(NewDBPoolParams{DBHost: "db", DBPort: "6543", DBName: "gymsheets", DBUser: "memo", DBPassword: "p@ss"}),
	)
}

func TestNewDBPool_Lazy(t *testing.T) {
	// pgxpool connects lazily, so a pool to an unreachable host is still created
	pool, err := NewDBPool(context.Background(), NewDBPoolParams{
		DBHost:   "127.0.0.1",
		DBPort:   "1",
		DBName:   "gymsheets",
		MaxConns: 2,
	})
	require.NoError(t, err)
	defer pool.Close()
	assert.Equal(t, int32(2), pool.Config().MaxConns)
}
