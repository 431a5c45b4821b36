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

// TestCreateComplimentDailyUnique checks the (sender, receiver, day) index:
// a second same-day compliment conflicts, a new day or receiver does not.
func TestCreateComplimentDailyUnique(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewComplimentRepository(dbase)

	today := db.DayUTC(time.Now().UTC())
	err := repo.Create(ctx, &db.Compliment{SenderID: 1, ReceiverID: 2, Day: today, Message: "hi"})
	require.NoError(t, err)

	err = repo.Create(ctx, &db.Compliment{SenderID: 1, ReceiverID: 2, Day: today, Message: "hi again"})
	assert.ErrorIs(t, err, svcErr.ErrDuplicateEdge)

	err = repo.Create(ctx, &db.Compliment{SenderID: 1, ReceiverID: 3, Day: today, Message: "hey"})
	assert.NoError(t, err)

	tomorrow := today.AddDate(0, 0, 1)
	err = repo.Create(ctx, &db.Compliment{SenderID: 1, ReceiverID: 2, Day: tomorrow, Message: "hi tomorrow"})
	assert.NoError(t, err)
}

// TestListReceivedOrder returns a receiver's compliments newest first and
// ignores ones addressed to others.
func TestListReceivedOrder(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewComplimentRepository(dbase)

	today := db.DayUTC(time.Now().UTC())
	require.NoError(t, repo.Create(ctx, &db.Compliment{SenderID: 2, ReceiverID: 1, Day: today, Message: "first"}))
	require.NoError(t, repo.Create(ctx, &db.Compliment{SenderID: 3, ReceiverID: 1, Day: today, Message: "second"}))
	require.NoError(t, repo.Create(ctx, &db.Compliment{SenderID: 2, ReceiverID: 3, Day: today, Message: "elsewhere"}))

	got, err := repo.ListReceived(ctx, 1)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "second", got[0].Message)
	assert.Equal(t, "first", got[1].Message)
}

// TestStorageFailureClassification verifies that datastore errors with no
// dedicated sentinel surface as ErrStorageFailure.
func TestStorageFailureClassification(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewComplimentRepository(dbase)

	sqlDB, err := dbase.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	err = repo.Create(ctx, &db.Compliment{SenderID: 1, ReceiverID: 2, Day: db.DayUTC(time.Now().UTC()), Message: "hi"})
	assert.ErrorIs(t, err, svcErr.ErrStorageFailure)

	_, err = repo.ListReceived(ctx, 1)
	assert.ErrorIs(t, err, svcErr.ErrStorageFailure)
}
