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

	"github.com/haikudo/backend/internal/auth"
)

const neutralResetReply = "Password reset email sent (if email exists)"

func resetToken(t *testing.T, userID uint64) string {
	t.Helper()
	tok, err := auth.NewResetToken(testSecret, "HS256", userID, 15*time.Minute)
	require.NoError(t, err)
	return tok.Token
}

func TestForgotPassword_KnownEmail(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(selectUserByEmail).WithArgs("ada@example.com").
		WillReturnRows(userRow(1, "ada@example.com", "ada", "x", true, false))

	e := newApp(t, db)
	rec := doJSON(e, http.MethodPost, "/api/v1/auth/forgot-password", "", echo.Map{
		"email": "ada@example.com",
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), neutralResetReply)
}

func TestForgotPassword_UnknownEmailSameReply(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(selectUserByEmail).WithArgs("ghost@example.com").
		WillReturnError(sql.ErrNoRows)

	e := newApp(t, db)
	rec := doJSON(e, http.MethodPost, "/api/v1/auth/forgot-password", "", echo.Map{
		"email": "ghost@example.com",
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), neutralResetReply)
}

func TestResetPassword_Success(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(selectUserByID).WithArgs(uint64(3)).
		WillReturnRows(userRow(3, "carol@example.com", "carol", "x", true, false))
	mock.ExpectExec(updatePassword).
		WithArgs(sqlmock.AnyArg(), uint64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	e := newApp(t, db)
	rec := doJSON(e, http.MethodPost, "/api/v1/auth/reset-password", "", echo.Map{
		"token": resetToken(t, 3), "new_password": "FreshPass1",
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Password reset successfully")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResetPassword_AccessTokenRejected(t *testing.T) {
	db, _ := newMockDB(t)
	e := newApp(t, db)

	rec := doJSON(e, http.MethodPost, "/api/v1/auth/reset-password", "", echo.Map{
		"token": accessToken(t, 3), "new_password": "FreshPass1",
	})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid or expired reset token")
}

func TestResetPassword_WeakPassword(t *testing.T) {
	db, _ := newMockDB(t)
	e := newApp(t, db)

	rec := doJSON(e, http.MethodPost, "/api/v1/auth/reset-password", "", echo.Map{
		"token": resetToken(t, 3), "new_password": "weak",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Password must be at least 8 characters")
}

func TestRefreshToken(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(selectUserByID).WithArgs(uint64(3)).
		WillReturnRows(userRow(3, "carol@example.com", "carol", "x", true, false))

	e := newApp(t, db)
	rec := doJSON(e, http.MethodPost, "/api/v1/auth/refresh-token", accessToken(t, 3), nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "bearer", body.TokenType)

	uid, err := auth.VerifyAccessToken(testSecret, body.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), uid)
}

func TestRefreshToken_RequiresAuth(t *testing.T) {
	db, _ := newMockDB(t)
	e := newApp(t, db)

	rec := doJSON(e, http.MethodPost, "/api/v1/auth/refresh-token", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
