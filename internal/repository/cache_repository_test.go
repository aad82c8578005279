package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/sma-timetable-grid/pkg/errors"
)

func TestCacheRepositoryWithoutClient(t *testing.T) {
	repo := NewCacheRepository(nil, "timetable")
	ctx := context.Background()

	var dest map[string]string
	err := repo.Get(ctx, "view:1", &dest)
	require.ErrorIs(t, err, appErrors.ErrCacheMiss)
	require.NoError(t, repo.Set(ctx, "view:1", map[string]string{"a": "b"}, time.Minute))
	require.NoError(t, repo.DeleteByPattern(ctx, "view:*"))
	require.NoError(t, repo.Close())
}

func TestCacheRepositoryKeyNamespace(t *testing.T) {
	assert.Equal(t, "timetable:view:1", NewCacheRepository(nil, "timetable").key("view:1"))
	assert.Equal(t, "view:1", NewCacheRepository(nil, "").key("view:1"))
}
