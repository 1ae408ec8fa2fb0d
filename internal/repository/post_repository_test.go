package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var postTestCols = []string{
	"id", "title", "content", "author_id", "is_published", "created_at", "updated_at",
}

func TestPostList_PublishedFilter(t *testing.T) {
	db, mock := newMock(t)
	now := time.Now()
	mock.ExpectQuery("SELECT "+postColumns+" FROM posts WHERE is_published=1 ORDER BY id LIMIT ? OFFSET ?").
		WithArgs(10, 0).
		WillReturnRows(sqlmock.NewRows(postTestCols).
			AddRow(1, "One", "body", 1, true, now, now).
			AddRow(2, "Two", nil, 2, true, now, now))

	posts, err := NewPostRepo(db).List(context.Background(), 0, 10, true)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "body", posts[0].Content)
	assert.Equal(t, "", posts[1].Content)
}

func TestPostList_AllIncludesDrafts(t *testing.T) {
	db, mock := newMock(t)
	now := time.Now()
	mock.ExpectQuery("SELECT "+postColumns+" FROM posts ORDER BY id LIMIT ? OFFSET ?").
		WithArgs(10, 5).
		WillReturnRows(sqlmock.NewRows(postTestCols).
			AddRow(7, "Draft", "wip", 1, false, now, now))

	posts, err := NewPostRepo(db).List(context.Background(), 5, 10, false)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.False(t, posts[0].IsPublished)
}

func TestPostListByAuthor(t *testing.T) {
	db, mock := newMock(t)
	now := time.Now()
	mock.ExpectQuery("SELECT "+postColumns+" FROM posts WHERE author_id=? AND is_published=1 ORDER BY id LIMIT ? OFFSET ?").
		WithArgs(uint64(4), 100, 0).
		WillReturnRows(sqlmock.NewRows(postTestCols).
			AddRow(9, "Theirs", "", 4, true, now, now))

	posts, err := NewPostRepo(db).ListByAuthor(context.Background(), 4, 0, 100)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, uint64(4), posts[0].AuthorID)
}

func TestPostDelete_NoRows(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec("DELETE FROM posts WHERE id=?").WithArgs(uint64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := NewPostRepo(db).Delete(context.Background(), 99)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestPostCreate(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec("INSERT INTO posts (title, content, author_id, is_published) VALUES (?,?,?,?)").
		WithArgs("Title", "body", uint64(1), true).
		WillReturnResult(sqlmock.NewResult(3, 1))

	id, err := NewPostRepo(db).Create(context.Background(), "Title", "body", 1, true)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), id)
}
