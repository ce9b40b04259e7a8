package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	appErrors "github.com/noah-isme/course-portal-api/pkg/errors"
)

func TestCacheRepositoryWithoutClient(t *testing.T) {
	repo := NewCacheRepository(nil, nil)
	ctx := context.Background()

	var dest []string
	assert.ErrorIs(t, repo.Get(ctx, "playlist:PL1", &dest), appErrors.ErrCacheMiss)
	assert.NoError(t, repo.Set(ctx, "playlist:PL1", []string{"v1"}, 0))
	assert.NoError(t, repo.DeleteByPattern(ctx, "playlist:*"))
	assert.NoError(t, repo.Close())
}
