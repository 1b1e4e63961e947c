package database

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/staffcircle/backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFollowExists(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewFollowRepo(db)
	follower, following := uuid.New(), uuid.New()

	mock.ExpectQuery(`SELECT count\(\*\) FROM "follows" WHERE follower_id = \$1 AND following_id = \$2`).
		WithArgs(follower, following).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	exists, err := repo.Exists(context.Background(), follower, following)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFollowDeleteReportsMissingEdge(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewFollowRepo(db)
	follower, following := uuid.New(), uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "follows" WHERE follower_id = \$1 AND following_id = \$2`).
		WithArgs(follower, following).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	deleted, err := repo.Delete(context.Background(), follower, following)
	require.NoError(t, err)
	assert.False(t, deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFollowerCountsGroupsByFollowedUser(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewFollowRepo(db)
	alice, bob := uuid.New(), uuid.New()

	mock.ExpectQuery(`SELECT following_id, count\(\*\) as count FROM "follows" GROUP BY "following_id"`).
		WillReturnRows(sqlmock.NewRows([]string{"following_id", "count"}).
			AddRow(alice, 3).
			AddRow(bob, 1))

	counts, err := repo.FollowerCounts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), counts[alice])
	assert.Equal(t, int64(1), counts[bob])
	assert.Equal(t, int64(0), counts[uuid.New()])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFollowingIDs(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewFollowRepo(db)
	follower := uuid.New()
	followed := uuid.New()

	mock.ExpectQuery(`SELECT "following_id" FROM "follows" WHERE follower_id = \$1`).
		WithArgs(follower).
		WillReturnRows(sqlmock.NewRows([]string{"following_id"}).AddRow(followed))

	ids, err := repo.FollowingIDs(context.Background(), follower)
	require.NoError(t, err)
	require.Len(t, ids, 1)
	assert.Equal(t, followed, ids[0])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFollowAdd(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewFollowRepo(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "follows"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New()))
	mock.ExpectCommit()

	err := repo.Add(context.Background(), &models.Follow{
		FollowerID:  uuid.New(),
		FollowingID: uuid.New(),
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
