package handler_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStats_RequiresSuperuser(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(selectUserByID).WithArgs(uint64(1)).
		WillReturnRows(userRow(1, "user@example.com", "user", "x", true, false))

	e := newApp(t, db)
	rec := doJSON(e, http.MethodGet, "/api/v1/admin/stats", accessToken(t, 1), nil)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestStats_AsSuperuser(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(selectUserByID).WithArgs(uint64(9)).
		WillReturnRows(userRow(9, "root@example.com", "root", "x", true, true))
	mock.ExpectQuery("SELECT COUNT(*) FROM users").
		WillReturnRows(sqlmock.NewRows([]string{"COUNT(*)"}).AddRow(42))
	mock.ExpectQuery("SELECT COUNT(*) FROM posts").
		WillReturnRows(sqlmock.NewRows([]string{"COUNT(*)"}).AddRow(7))

	e := newApp(t, db)
	rec := doJSON(e, http.MethodGet, "/api/v1/admin/stats", accessToken(t, 9), nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Database struct {
			TotalUsers int64 `json:"total_users"`
			TotalPosts int64 `json:"total_posts"`
		} `json:"database"`
		Redis struct {
			Status string `json:"status"`
		} `json:"redis"`
		Application struct {
			Environment string `json:"environment"`
		} `json:"application"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, int64(42), body.Database.TotalUsers)
	assert.Equal(t, int64(7), body.Database.TotalPosts)
	assert.Equal(t, "unavailable", body.Redis.Status)
	assert.Equal(t, "test", body.Application.Environment)
}

func TestClearCache_WithoutRedis(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(selectUserByID).WithArgs(uint64(9)).
		WillReturnRows(userRow(9, "root@example.com", "root", "x", true, true))

	e := newApp(t, db)
	rec := doJSON(e, http.MethodDelete, "/api/v1/admin/cache", accessToken(t, 9), nil)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "Cache is not configured")
}
