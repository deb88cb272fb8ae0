package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDBPool_InvalidParams(t *testing.T) {
	_, err := NewDBPool(context.Background(), NewDBPoolParams{})
	assert.Error(t, err)

	_, err = NewDBPool(context.Background(), NewDBPoolParams{ConnString: "::not a conn string::"})
	assert.Error(t, err)
}

func TestNewDBPool_Lazy(t *testing.T) {
	// pgxpool does not dial on creation
	pool, err := NewDBPool(context.Background(), NewDBPoolParams{
		ConnString:     "postgres://postgres@localhost:1/diary",
		MaxConns:       3,
		TracingEnabled: true,
	})
	require.NoError(t, err)
	defer pool.Close()
	assert.Equal(t, int32(3), pool.Config().MaxConns)
	assert.NotNil(t, pool.Config().ConnConfig.Tracer)
}

func TestNewMongoClient_InvalidParams(t *testing.T) {
	_, err := NewMongoClient(context.Background(), NewMongoClientParams{})
	assert.Error(t, err)

	_, err = NewMongoClient(context.Background(), NewMongoClientParams{URI: "http://not-mongo"})
	assert.Error(t, err)
}
