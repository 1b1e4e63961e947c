package database

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostFindByIDMissing(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostRepo(db)
	id := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "posts" WHERE id = \$1`).
		WithArgs(id, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	post, err := repo.FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.Nil(t, post)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostSearchByKeyword(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostRepo(db)

	mock.ExpectQuery(`SELECT .* FROM "posts" WHERE posts\.content LIKE \$1 ORDER BY posts\.created_at desc LIMIT \$2`).
		WithArgs("%campaign%", DefaultFeedLimit).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	posts, err := repo.Search(context.Background(), PostFilter{Keyword: "campaign"})
	require.NoError(t, err)
	assert.Empty(t, posts)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostSearchJoinsAuthorForStoreFilter(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostRepo(db)

	mock.ExpectQuery(`SELECT .* FROM "posts" JOIN users ON users\.id = posts\.author_id WHERE users\.store_code LIKE \$1`).
		WithArgs("%042%", DefaultFeedLimit).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.Search(context.Background(), PostFilter{StoreCode: "042"})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostSearchEmptyAuthorSetMatchesNothing(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostRepo(db)

	// An empty, non-nil author set must still constrain the query.
	mock.ExpectQuery(`SELECT .* FROM "posts" WHERE posts\.author_id IN \(NULL\)`).
		WithArgs(DefaultFeedLimit).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	posts, err := repo.Search(context.Background(), PostFilter{AuthorIDs: []uuid.UUID{}})
	require.NoError(t, err)
	assert.Empty(t, posts)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostFindSinceBoundsWindow(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostRepo(db)
	since := time.Date(2025, 6, 8, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT \* FROM "posts" WHERE created_at >= \$1`).
		WithArgs(since).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	posts, err := repo.FindSince(context.Background(), since)
	require.NoError(t, err)
	assert.Empty(t, posts)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostDeleteByAuthorScopesToOwner(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostRepo(db)
	postID, authorID := uuid.New(), uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "posts" WHERE id = \$1 AND author_id = \$2`).
		WithArgs(postID, authorID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	deleted, err := repo.DeleteByAuthor(context.Background(), postID, authorID)
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostDeleteByAuthorWrongOwner(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostRepo(db)
	postID, authorID := uuid.New(), uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "posts" WHERE id = \$1 AND author_id = \$2`).
		WithArgs(postID, authorID).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	deleted, err := repo.DeleteByAuthor(context.Background(), postID, authorID)
	require.NoError(t, err)
	assert.False(t, deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}
