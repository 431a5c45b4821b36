package discovery_test

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
	"github.com/kindredapp/kindred/internal/repository"
	"github.com/kindredapp/kindred/internal/service/discovery"
)

//
// Test helpers
//

// seedFeed inserts viewer 1 (premium, looking for 25-35) and candidates aged
// 22, 28, 33 and 40.
func seedFeed(t *testing.T, gdb *gorm.DB) {
	t.Helper()

	now := time.Now().UTC()
	ages := map[uint64]int{2: 22, 3: 28, 4: 33, 5: 40}

	users := []db.User{
		{ID: 1, Email: "u1@test.com", PasswordHash: "x", IsPremium: true, SuperLikesLeft: 10, SuperLikesResetAt: now},
	}
	profiles := []db.Profile{
		{UserID: 1, DisplayName: "viewer", Birthdate: now.AddDate(-30, 0, -1), AgeMin: 25, AgeMax: 35},
	}
	for id, age := range ages {
		users = append(users, db.User{
			ID: id, Email: fmt.Sprintf("u%d@test.com", id), PasswordHash: "x",
			SuperLikesLeft: 5, SuperLikesResetAt: now,
		})
		profiles = append(profiles, db.Profile{
			UserID:      id,
			DisplayName: fmt.Sprintf("candidate-%d", id),
			Birthdate:   now.AddDate(-age, 0, -1),
			AgeMin:      18,
			AgeMax:      99,
		})
	}

	require.NoError(t, gdb.Create(&users).Error)
	require.NoError(t, gdb.Create(&profiles).Error)
}

func setupService(t *testing.T) (*discovery.Service, *gorm.DB, *miniredis.Miniredis) {
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
	seedFeed(t, dbase)

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(func() { mr.Close() })

	cfg := &config.Config{Redis: config.RedisConfig{Addr: mr.Addr()}}
	redisCache := cache.NewRedisCache(cfg)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	appCtx := app.New(dbase, redisCache, logger)
	return discovery.NewService(appCtx), dbase, mr
}

//
// Tests
//

// TestFeedAgeWindow checks only candidates inside the viewer's age range show
// up, and the viewer's own age does not have to suit the candidates.
func TestFeedAgeWindow(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := setupService(t)

	profiles, err := svc.Feed(ctx, 1)
	require.NoError(t, err)
	require.Len(t, profiles, 2)

	seen := map[uint64]int{}
	for _, p := range profiles {
		seen[p.UserID] = p.Age
	}
	assert.Equal(t, 28, seen[3])
	assert.Equal(t, 33, seen[4])
}

// TestFeedExcludesLikedAndBlocked removes already-liked and blocked users from
// the pool.
func TestFeedExcludesLikedAndBlocked(t *testing.T) {
	ctx := context.Background()
	svc, gdb, _ := setupService(t)

	likeRepo := repository.NewLikeRepository(gdb)
	require.NoError(t, likeRepo.CreateLike(ctx, &db.Like{LikerID: 1, LikeeID: 3}))
	require.NoError(t, gdb.Create(&db.Block{BlockerID: 1, BlockedID: 4}).Error)

	profiles, err := svc.Feed(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, profiles)
}

// TestActivateBoost covers the premium gate, the single-active rule and the
// cache marker.
func TestActivateBoost(t *testing.T) {
	ctx := context.Background()
	svc, _, mr := setupService(t)

	// free tier is rejected
	_, err := svc.ActivateBoost(ctx, 2)
	assert.ErrorIs(t, err, svcErr.ErrForbidden)

	boost, err := svc.ActivateBoost(ctx, 1)
	require.NoError(t, err)
	assert.True(t, boost.IsActive)
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), boost.ExpiresAt, time.Minute)

	// marker written with the boost's lifetime
	assert.True(t, mr.Exists("boost:active:1"))

	// only one at a time
	_, err = svc.ActivateBoost(ctx, 1)
	assert.ErrorIs(t, err, svcErr.ErrInvalidArgument)
}

// TestBoostStatus reports the running boost and sweeps lapsed rows.
func TestBoostStatus(t *testing.T) {
	ctx := context.Background()
	svc, gdb, _ := setupService(t)

	active, err := svc.BoostStatus(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, active)

	boost, err := svc.ActivateBoost(ctx, 1)
	require.NoError(t, err)

	active, err = svc.BoostStatus(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, boost.ID, active.ID)

	// lapse the boost; status goes quiet and the row is swept
	stale := time.Now().UTC().Add(-time.Minute)
	require.NoError(t, gdb.Model(&db.Boost{}).Where("id = ?", boost.ID).
		Update("expires_at", stale).Error)

	active, err = svc.BoostStatus(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, active)

	var swept db.Boost
	require.NoError(t, gdb.First(&swept, boost.ID).Error)
	assert.False(t, swept.IsActive)
}
