package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kindredapp/kindred/internal/db"
	svcErr "github.com/kindredapp/kindred/internal/errors"
	"github.com/kindredapp/kindred/internal/repository"
)

func TestCreateOrGetCanonicalOrder(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewMatchRepository(dbase)

	expires := time.Now().UTC().Add(24 * time.Hour)

	match, created, err := repo.CreateOrGet(ctx, 7, 3, 7, expires)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, uint64(3), match.UserAID)
	assert.Equal(t, uint64(7), match.UserBID)
	assert.Equal(t, uint64(7), match.InitiatorID)

	// opposite orientation resolves to the same row
	again, created, err := repo.CreateOrGet(ctx, 3, 7, 3, expires)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, match.ID, again.ID)
	assert.Equal(t, uint64(7), again.InitiatorID)

	var count int64
	dbase.Model(&db.Match{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestGetByUsersNotFound(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewMatchRepository(dbase)

	_, err := repo.GetByUsers(ctx, 1, 2)
	assert.ErrorIs(t, err, svcErr.ErrNotFound)
}

func TestCreateMessageFlipsFirstMessageFlag(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewMatchRepository(dbase)

	match, _, err := repo.CreateOrGet(ctx, 1, 2, 1, time.Now().UTC().Add(24*time.Hour))
	require.NoError(t, err)
	assert.False(t, match.HasFirstMessage)

	require.NoError(t, repo.CreateMessage(ctx, &db.Message{
		MatchID:  match.ID,
		SenderID: 2,
		Body:     "hey!",
	}))

	got, err := repo.GetByID(ctx, match.ID)
	require.NoError(t, err)
	assert.True(t, got.HasFirstMessage)

	// a second message leaves the flag alone
	require.NoError(t, repo.CreateMessage(ctx, &db.Message{
		MatchID:  match.ID,
		SenderID: 1,
		Body:     "hey back",
	}))

	msgs, err := repo.ListMessages(ctx, match.ID)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "hey!", msgs[0].Body)

	last, err := repo.LastMessage(ctx, match.ID)
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, "hey back", last.Body)
}

func TestRematchResetsWindow(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewMatchRepository(dbase)

	match, _, err := repo.CreateOrGet(ctx, 1, 2, 1, time.Now().UTC().Add(-time.Hour))
	require.NoError(t, err)
	require.NoError(t, repo.CreateMessage(ctx, &db.Message{MatchID: match.ID, SenderID: 1, Body: "hi"}))

	fresh := time.Now().UTC().Add(24 * time.Hour).Truncate(time.Millisecond)
	require.NoError(t, repo.Rematch(ctx, match.ID, fresh))

	got, err := repo.GetByID(ctx, match.ID)
	require.NoError(t, err)
	require.NotNil(t, got.ExpiresAt)
	assert.WithinDuration(t, fresh, *got.ExpiresAt, time.Second)
	assert.False(t, got.HasFirstMessage)
}
