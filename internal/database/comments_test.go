package database

import (
	"context"
	"testing"
	"time"

	"shareit/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentCreateAndList(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)

	first := &models.Comment{ItemID: 1, AuthorID: 2, Text: "works great", Created: now.Add(-time.Hour)}
	second := &models.Comment{ItemID: 1, AuthorID: 3, Text: "battery died fast", Created: now}
	other := &models.Comment{ItemID: 9, AuthorID: 2, Text: "unrelated", Created: now}

	require.NoError(t, db.CreateComment(ctx, first))
	require.NoError(t, db.CreateComment(ctx, second))
	require.NoError(t, db.CreateComment(ctx, other))
	assert.NotZero(t, first.ID)

	comments, err := db.ListCommentsByItem(ctx, 1)
	require.NoError(t, err)
	require.Len(t, comments, 2)

	// Oldest first.
	assert.Equal(t, "works great", comments[0].Text)
	assert.Equal(t, "battery died fast", comments[1].Text)

	empty, err := db.ListCommentsByItem(ctx, 404)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
