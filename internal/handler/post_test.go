package handler_test

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var postTestCols = []string{
	"id", "title", "content", "author_id", "is_published", "created_at", "updated_at",
}

func postRow(id uint64, title string, authorID uint64, published bool) *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows(postTestCols).
		AddRow(id, title, "some content", authorID, published, now, now)
}

func TestCreatePost_RequiresAuth(t *testing.T) {
	db, _ := newMockDB(t)
	e := newApp(t, db)

	rec := doJSON(e, http.MethodPost, "/api/v1/posts", "", echo.Map{"title": "First"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreatePost_Success(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(selectUserByID).WithArgs(uint64(1)).
		WillReturnRows(userRow(1, "ada@example.com", "ada", "x", true, false))
	mock.ExpectExec(insertPost).
		WithArgs("First post", "hello", uint64(1), true).
		WillReturnResult(sqlmock.NewResult(5, 1))
	mock.ExpectQuery(selectPostByID).WithArgs(uint64(5)).
		WillReturnRows(postRow(5, "First post", 1, true))

	e := newApp(t, db)
	rec := doJSON(e, http.MethodPost, "/api/v1/posts", accessToken(t, 1), echo.Map{
		"title": "First post", "content": "hello", "is_published": true,
	})

	require.Equal(t, http.StatusCreated, rec.Code)
	var body struct {
		ID       uint64 `json:"id"`
		Title    string `json:"title"`
		AuthorID uint64 `json:"author_id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, uint64(5), body.ID)
	assert.Equal(t, "First post", body.Title)
	assert.Equal(t, uint64(1), body.AuthorID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreatePost_EmptyTitle(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(selectUserByID).WithArgs(uint64(1)).
		WillReturnRows(userRow(1, "ada@example.com", "ada", "x", true, false))

	e := newApp(t, db)
	rec := doJSON(e, http.MethodPost, "/api/v1/posts", accessToken(t, 1), echo.Map{
		"title": "   ", "content": "hello",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Title is required")
}

func TestGetPost_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(selectPostByID).WithArgs(uint64(99)).
		WillReturnError(sql.ErrNoRows)

	e := newApp(t, db)
	rec := doJSON(e, http.MethodGet, "/api/v1/posts/99", "", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Post not found")
}

func TestUpdatePost_NotAuthor(t *testing.T) {
	db, mock := newMockDB(t)
	// carol (id 2) tries to edit bob's (id 1) post
	mock.ExpectQuery(selectUserByID).WithArgs(uint64(2)).
		WillReturnRows(userRow(2, "carol@example.com", "carol", "x", true, false))
	mock.ExpectQuery(selectPostByID).WithArgs(uint64(10)).
		WillReturnRows(postRow(10, "Bob's post", 1, true))

	e := newApp(t, db)
	rec := doJSON(e, http.MethodPut, "/api/v1/posts/10", accessToken(t, 2), echo.Map{
		"title": "Hijacked",
	})

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "Not authorized to update this post")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeletePost_NotAuthor(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(selectUserByID).WithArgs(uint64(2)).
		WillReturnRows(userRow(2, "carol@example.com", "carol", "x", true, false))
	mock.ExpectQuery(selectPostByID).WithArgs(uint64(10)).
		WillReturnRows(postRow(10, "Bob's post", 1, true))

	e := newApp(t, db)
	rec := doJSON(e, http.MethodDelete, "/api/v1/posts/10", accessToken(t, 2), nil)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "Not authorized to delete this post")
}

func TestDeletePost_ByAuthor(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(selectUserByID).WithArgs(uint64(1)).
		WillReturnRows(userRow(1, "bob@example.com", "bob", "x", true, false))
	mock.ExpectQuery(selectPostByID).WithArgs(uint64(10)).
		WillReturnRows(postRow(10, "Bob's post", 1, true))
	mock.ExpectExec(deletePost).WithArgs(uint64(10)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	e := newApp(t, db)
	rec := doJSON(e, http.MethodDelete, "/api/v1/posts/10", accessToken(t, 1), nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Post deleted successfully")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListPosts_PublishedByDefault(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery("SELECT id,title,content,author_id,is_published,created_at,updated_at FROM posts WHERE is_published=1 ORDER BY id LIMIT ? OFFSET ?").
		WithArgs(100, 0).
		WillReturnRows(postRow(1, "One", 1, true).AddRow(2, "Two", "more", 2, true, time.Now(), time.Now()))

	e := newApp(t, db)
	rec := doJSON(e, http.MethodGet, "/api/v1/posts", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var posts []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &posts))
	assert.Len(t, posts, 2)
}

func TestListPostsByUser(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery("SELECT id,title,content,author_id,is_published,created_at,updated_at FROM posts WHERE author_id=? AND is_published=1 ORDER BY id LIMIT ? OFFSET ?").
		WithArgs(uint64(7), 100, 0).
		WillReturnRows(postRow(3, "Theirs", 7, true))

	e := newApp(t, db)
	rec := doJSON(e, http.MethodGet, "/api/v1/posts/user/7", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var posts []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &posts))
	assert.Len(t, posts, 1)
}
