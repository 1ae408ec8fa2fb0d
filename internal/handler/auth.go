package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/haikudo/backend/internal/auth"
	"github.com/haikudo/backend/internal/config"
	"github.com/haikudo/backend/internal/middleware"
	"github.com/haikudo/backend/internal/repository"
)

// AuthHandler serves password reset and token refresh.
type AuthHandler struct {
	Cfg   config.Config
	Users *repository.UserRepo
}

func NewAuthHandler(cfg config.Config, users *repository.UserRepo) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: users}
}

type forgotPasswordReq struct {
	Email string `json:"email"`
}

type resetPasswordReq struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

// ForgotPassword issues a reset token for the account, if one exists. The
// response is identical either way so the endpoint cannot be used to probe
// which emails are registered.
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req forgotPasswordReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation_error", "detail": "Invalid request body"})
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !validEmail(email) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation_error", "detail": "Invalid email format"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, email)
	if err == nil && u.IsActive {
		tok, terr := auth.NewResetToken(h.Cfg.SecretKey, h.Cfg.Algorithm, u.ID, h.Cfg.ResetTokenTTL)
		if terr == nil {
			// No mail transport wired yet; the token is surfaced in the
			// server log so operators can hand it out manually.
			zerolog.Ctx(c.Request().Context()).Info().
				Uint64("user_id", u.ID).
				Str("reset_token", tok.Token).
				Time("expires_at", tok.Exp).
				Msg("password reset token issued")
		}
	} else if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal_error", "detail": "Query failed"})
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Password reset email sent (if email exists)"})
}

// ResetPassword redeems a reset token and stores the new password hash.
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req resetPasswordReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation_error", "detail": "Invalid request body"})
	}

	userID, err := auth.VerifyResetToken(h.Cfg.SecretKey, req.Token)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid_token", "detail": "Invalid or expired reset token"})
	}
	if issues := passwordIssues(req.NewPassword); len(issues) > 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation_error", "detail": echo.Map{"password": issues}})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid_token", "detail": "Invalid or expired reset token"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal_error", "detail": "Query failed"})
	}

	hash, err := auth.HashPassword(req.NewPassword, h.Cfg.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal_error", "detail": "Password update failed"})
	}
	if err := h.Users.UpdatePassword(ctx, userID, hash); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal_error", "detail": "Password update failed"})
	}

	zerolog.Ctx(c.Request().Context()).Info().Uint64("user_id", userID).Msg("password reset")
	return c.JSON(http.StatusOK, echo.Map{"message": "Password reset successfully"})
}

// RefreshToken exchanges a still-valid access token for a fresh one.
func (h *AuthHandler) RefreshToken(c echo.Context) error {
	u := middleware.CurrentUser(c)
	tok, err := auth.NewAccessToken(h.Cfg.SecretKey, h.Cfg.Algorithm, u.ID, h.Cfg.AccessTokenTTL)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal_error", "detail": "Token issue failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"access_token": tok.Token,
		"token_type":   "bearer",
	})
}
