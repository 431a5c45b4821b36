package profile_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/kindredapp/kindred/internal/app"
	"github.com/kindredapp/kindred/internal/cache"
	"github.com/kindredapp/kindred/internal/config"
	"github.com/kindredapp/kindred/internal/db"
	svcErr "github.com/kindredapp/kindred/internal/errors"
	"github.com/kindredapp/kindred/internal/service/profile"
)

//
// Test helpers
//

func seedProfiles(t *testing.T, gdb *gorm.DB) {
	t.Helper()

	now := time.Now().UTC()
	users := []db.User{
		{ID: 1, Email: "u1@test.com", PasswordHash: "x", SuperLikesLeft: 5, SuperLikesResetAt: now},
		{ID: 2, Email: "u2@test.com", PasswordHash: "x", SuperLikesLeft: 5, SuperLikesResetAt: now},
	}
	require.NoError(t, gdb.Create(&users).Error)

	profiles := []db.Profile{
		{
			UserID: 1, DisplayName: "alex", Birthdate: now.AddDate(-28, 0, -1),
			AgeMin: 21, AgeMax: 40,
			Prompts: []db.ProfilePrompt{{Question: "q1", Answer: "a1"}},
		},
		{
			UserID: 2, DisplayName: "sam", Birthdate: now.AddDate(-31, 0, -1),
			AgeMin: 21, AgeMax: 40,
		},
	}
	require.NoError(t, gdb.Create(&profiles).Error)
}

func setupService(t *testing.T) (*profile.Service, *gorm.DB) {
	t.Helper()

	dbName := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	dbase, err := gorm.Open(sqlite.Open(dbName), &gorm.Config{
		NowFunc:                func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	require.NoError(t, err)

	sqlDB, err := dbase.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, dbase.AutoMigrate(db.Models...))
	seedProfiles(t, dbase)

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(func() { mr.Close() })

	cfg := &config.Config{Redis: config.RedisConfig{Addr: mr.Addr()}}
	redisCache := cache.NewRedisCache(cfg)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	appCtx := app.New(dbase, redisCache, logger)
	return profile.NewService(appCtx), dbase
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

//
// Tests
//

func TestGetOwnProfile(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupService(t)

	view, err := svc.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "alex", view.DisplayName)
	assert.Equal(t, 28, view.Age)
	assert.Equal(t, 21, view.AgeMin)
	require.Len(t, view.Prompts, 1)
	assert.Equal(t, "q1", view.Prompts[0].Question)

	_, err = svc.Get(ctx, 99)
	assert.ErrorIs(t, err, svcErr.ErrNotFound)
}

// TestUpdatePartial leaves unset fields alone and replaces prompts wholesale.
func TestUpdatePartial(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupService(t)

	prompts := []profile.PromptView{
		{Question: "new q", Answer: "new a"},
		{Question: "another q", Answer: "another a"},
	}
	view, err := svc.Update(ctx, 1, profile.UpdateInput{
		Bio:     strPtr("updated bio"),
		AgeMin:  intPtr(25),
		Prompts: &prompts,
	})
	require.NoError(t, err)
	assert.Equal(t, "updated bio", view.Bio)
	assert.Equal(t, 25, view.AgeMin)
	assert.Equal(t, 40, view.AgeMax)
	assert.Equal(t, "alex", view.DisplayName)
	require.Len(t, view.Prompts, 2)
	assert.Equal(t, "new q", view.Prompts[0].Question)
}

// TestUpdateAgeRangeInvariant rejects edits that break 18 <= min <= max <= 99.
func TestUpdateAgeRangeInvariant(t *testing.T) {
	ctx := context.Background()
	svc, gdb := setupService(t)

	for _, in := range []profile.UpdateInput{
		{AgeMin: intPtr(17)},
		{AgeMax: intPtr(100)},
		{AgeMin: intPtr(50), AgeMax: intPtr(30)},
	} {
		_, err := svc.Update(ctx, 1, in)
		assert.ErrorIs(t, err, svcErr.ErrInvalidArgument)
	}

	// rejected updates must not persist anything
	var p db.Profile
	require.NoError(t, gdb.Where("user_id = ?", 1).First(&p).Error)
	assert.Equal(t, 21, p.AgeMin)
	assert.Equal(t, 40, p.AgeMax)
}

func TestUpdateEmptyDisplayName(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupService(t)

	_, err := svc.Update(ctx, 1, profile.UpdateInput{DisplayName: strPtr("")})
	assert.ErrorIs(t, err, svcErr.ErrInvalidArgument)
}

// TestBlockHidesPublicProfile blocks in either direction hide the projection.
func TestBlockHidesPublicProfile(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupService(t)

	view, err := svc.GetPublic(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, "sam", view.DisplayName)

	require.NoError(t, svc.Block(ctx, 1, 2))

	_, err = svc.GetPublic(ctx, 1, 2)
	assert.ErrorIs(t, err, svcErr.ErrNotFound)

	// the blocked side cannot see the blocker either
	_, err = svc.GetPublic(ctx, 2, 1)
	assert.ErrorIs(t, err, svcErr.ErrNotFound)

	require.NoError(t, svc.Unblock(ctx, 1, 2))
	_, err = svc.GetPublic(ctx, 1, 2)
	assert.NoError(t, err)
}

func TestBlockValidation(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupService(t)

	assert.ErrorIs(t, svc.Block(ctx, 1, 1), svcErr.ErrInvalidArgument)
	assert.ErrorIs(t, svc.Block(ctx, 1, 404), svcErr.ErrNotFound)

	require.NoError(t, svc.Block(ctx, 1, 2))
	assert.ErrorIs(t, svc.Block(ctx, 1, 2), svcErr.ErrDuplicateEdge)

	// unblocking someone never blocked is fine
	assert.NoError(t, svc.Unblock(ctx, 2, 1))
}
