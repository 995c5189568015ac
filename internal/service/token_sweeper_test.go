package service

import (
	"context"
	"testing"
	"time"

	"task-management-backend/internal/models"
	"task-management-backend/internal/repository"
	"task-management-backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenSweeper_SweepExpired(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	tokens := repository.NewTokenRepo(db)
	sweeper := NewTokenSweeper(tokens, time.Minute, testutil.NewLogger())

	now := time.Date(2030, 1, 1, 12, 0, 0, 0, time.UTC)
	sweeper.now = func() time.Time { return now }

	expired := seedUser(t, db, "expired", models.RoleUser)
	active := seedUser(t, db, "active", models.RoleUser)
	require.NoError(t, tokens.Replace(ctx, &models.TokenRecord{
		UserID: expired.ID, TokenType: models.TokenTypeAccess,
		EncryptedToken: "x", TokenHash: "x", ExpiredAt: now.Add(-time.Second),
	}))
	require.NoError(t, tokens.Replace(ctx, &models.TokenRecord{
		UserID: active.ID, TokenType: models.TokenTypeAccess,
		EncryptedToken: "y", TokenHash: "y", ExpiredAt: now.Add(time.Hour),
	}))
	_, _, err := tokens.CreateIfAbsent(ctx, &models.TokenRecord{
		UserID: expired.ID, TokenType: models.TokenTypeRefresh,
		EncryptedToken: "z", TokenHash: "z", ExpiredAt: now.Add(-time.Hour),
	})
	require.NoError(t, err)

	deleted, err := sweeper.SweepExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	_, err = tokens.FindByUserAndType(ctx, expired.ID, models.TokenTypeAccess)
	assert.ErrorIs(t, err, repository.ErrTokenNotFound)
	_, err = tokens.FindByUserAndType(ctx, active.ID, models.TokenTypeAccess)
	assert.NoError(t, err)
	_, err = tokens.FindByUserAndType(ctx, expired.ID, models.TokenTypeRefresh)
	assert.NoError(t, err)

	deleted, err = sweeper.SweepExpired(ctx)
	require.NoError(t, err)
	assert.Zero(t, deleted)
}

func TestTokenSweeper_StartStopsOnCancel(t *testing.T) {
	db := testutil.NewDB(t)
	sweeper := NewTokenSweeper(repository.NewTokenRepo(db), 10*time.Millisecond, testutil.NewLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sweeper.Start(ctx)
		close(done)
	}()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}
