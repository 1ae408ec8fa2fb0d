package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/haikudo/backend/internal/auth"
	"github.com/haikudo/backend/internal/config"
	"github.com/haikudo/backend/internal/event"
	"github.com/haikudo/backend/internal/middleware"
	"github.com/haikudo/backend/internal/model"
	"github.com/haikudo/backend/internal/repository"
)

// UserHandler bundles dependencies for account endpoints.
type UserHandler struct {
	Cfg    config.Config
	Users  *repository.UserRepo
	Events *event.Publisher
}

func NewUserHandler(cfg config.Config, users *repository.UserRepo, events *event.Publisher) *UserHandler {
	return &UserHandler{Cfg: cfg, Users: users, Events: events}
}

// ----- DTOs -----

type registerReq struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Password string `json:"password"`
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type profileUpdateReq struct {
	Email    *string `json:"email"`
	Username *string `json:"username"`
	FullName *string `json:"full_name"`
	IsActive *bool   `json:"is_active"`
}

type userResp struct {
	ID          uint64    `json:"id"`
	Email       string    `json:"email"`
	Username    string    `json:"username"`
	FullName    string    `json:"full_name,omitempty"`
	IsActive    bool      `json:"is_active"`
	IsSuperuser bool      `json:"is_superuser"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// loginResp deliberately carries the full public user record next to the
// token; every field in userResp is readable anyway via GET /users/:id.
type loginResp struct {
	AccessToken string   `json:"access_token"`
	TokenType   string   `json:"token_type"`
	User        userResp `json:"user"`
}

func toUserResp(u model.User) userResp {
	return userResp{
		ID:          u.ID,
		Email:       u.Email,
		Username:    u.Username,
		FullName:    u.FullName,
		IsActive:    u.IsActive,
		IsSuperuser: u.IsSuperuser,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

// Register creates an account. Validation and uniqueness checks run before
// the insert so the store never sees a half-valid user.
func (h *UserHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation_error", "detail": "Invalid request body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Username = strings.TrimSpace(req.Username)

	var issues []string
	if !validEmail(req.Email) {
		issues = append(issues, "Email address is not valid")
	}
	issues = append(issues, usernameIssues(req.Username)...)
	issues = append(issues, passwordIssues(req.Password)...)
	if len(issues) > 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error":  "validation_error",
			"detail": echo.Map{"message": "Registration data is not valid", "issues": issues},
		})
	}

	hash, err := auth.HashPassword(req.Password, h.Cfg.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal_error", "detail": "Create user failed"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	uid, err := h.Users.Create(ctx, req.Email, req.Username, req.FullName, hash)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrEmailExists):
			return c.JSON(http.StatusConflict, echo.Map{"error": "conflict", "detail": "Email already registered"})
		case errors.Is(err, repository.ErrUsernameExists):
			return c.JSON(http.StatusConflict, echo.Map{"error": "conflict", "detail": "Username already taken"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal_error", "detail": "Create user failed"})
	}

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal_error", "detail": "Create user failed"})
	}

	zerolog.Ctx(c.Request().Context()).Info().
		Uint64("user_id", uid).Str("email", u.Email).Msg("user registered")
	h.Events.PublishAsync(event.QueueUserRegistered, event.UserRegistered{
		UserID: uid, Email: u.Email, Username: u.Username, OccurredAt: time.Now().UTC(),
	})

	return c.JSON(http.StatusCreated, toUserResp(u))
}

// Login verifies credentials and issues an access token. Unknown email and
// wrong password answer identically.
func (h *UserHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation_error", "detail": "Invalid request body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation_error", "detail": "Email and password are required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid_credentials", "detail": "Incorrect email or password"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal_error", "detail": "Login failed"})
	}
	if !auth.VerifyPassword(u.PasswordHash, req.Password) {
		zerolog.Ctx(c.Request().Context()).Warn().
			Str("email", req.Email).Str("client", c.RealIP()).Msg("failed login attempt")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid_credentials", "detail": "Incorrect email or password"})
	}
	if !u.IsActive {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "inactive_account", "detail": "Account is inactive"})
	}

	// Upgrade hashes left behind by a lower configured cost. Best effort:
	// login succeeds either way.
	if auth.NeedsRehash(u.PasswordHash, h.Cfg.BcryptCost) {
		if fresh, herr := auth.HashPassword(req.Password, h.Cfg.BcryptCost); herr == nil {
			if uerr := h.Users.UpdatePassword(ctx, u.ID, fresh); uerr != nil {
				zerolog.Ctx(c.Request().Context()).Warn().Err(uerr).Uint64("user_id", u.ID).Msg("password rehash failed")
			}
		}
	}

	tok, err := auth.NewAccessToken(h.Cfg.SecretKey, h.Cfg.Algorithm, u.ID, h.Cfg.AccessTokenTTL)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal_error", "detail": "Issue token failed"})
	}

	return c.JSON(http.StatusOK, loginResp{
		AccessToken: tok.Token,
		TokenType:   "bearer",
		User:        toUserResp(u),
	})
}

// Profile returns the authenticated user's own record.
func (h *UserHandler) Profile(c echo.Context) error {
	return c.JSON(http.StatusOK, toUserResp(*middleware.CurrentUser(c)))
}

// UpdateProfile applies a partial update to the authenticated user.
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	var req profileUpdateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation_error", "detail": "Invalid request body"})
	}

	u := *middleware.CurrentUser(c)
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if !validEmail(email) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation_error", "detail": "Email address is not valid"})
		}
		u.Email = email
	}
	if req.Username != nil {
		username := strings.TrimSpace(*req.Username)
		if issues := usernameIssues(username); len(issues) > 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{
				"error":  "validation_error",
				"detail": echo.Map{"message": "Username is invalid", "issues": issues},
			})
		}
		u.Username = username
	}
	if req.FullName != nil {
		u.FullName = strings.TrimSpace(*req.FullName)
	}
	if req.IsActive != nil {
		u.IsActive = *req.IsActive
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if req.Email != nil || req.Username != nil {
		other, err := h.Users.FindConflict(ctx, u.ID, u.Email, u.Username)
		if err == nil {
			if other.Email == u.Email {
				return c.JSON(http.StatusConflict, echo.Map{"error": "conflict", "detail": "Email already registered"})
			}
			return c.JSON(http.StatusConflict, echo.Map{"error": "conflict", "detail": "Username already taken"})
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal_error", "detail": "Update failed"})
		}
	}

	if err := h.Users.Update(ctx, u); err != nil {
		switch {
		case errors.Is(err, repository.ErrEmailExists):
			return c.JSON(http.StatusConflict, echo.Map{"error": "conflict", "detail": "Email already registered"})
		case errors.Is(err, repository.ErrUsernameExists):
			return c.JSON(http.StatusConflict, echo.Map{"error": "conflict", "detail": "Username already taken"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal_error", "detail": "Update failed"})
	}

	fresh, err := h.Users.GetByID(ctx, u.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal_error", "detail": "Update failed"})
	}
	return c.JSON(http.StatusOK, toUserResp(fresh))
}

// GetByID returns a public profile.
func (h *UserHandler) GetByID(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation_error", "detail": "Invalid user id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "not_found", "detail": "User not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal_error", "detail": "Query failed"})
	}
	return c.JSON(http.StatusOK, toUserResp(u))
}

// List returns a paginated user listing.
func (h *UserHandler) List(c echo.Context) error {
	skip, limit := pagination(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	users, err := h.Users.List(ctx, skip, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal_error", "detail": "Query failed"})
	}
	out := make([]userResp, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResp(u))
	}
	return c.JSON(http.StatusOK, out)
}

// Delete removes a user account. Superuser only.
func (h *UserHandler) Delete(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation_error", "detail": "Invalid user id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Users.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "not_found", "detail": "User not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal_error", "detail": "Delete failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "User deleted successfully"})
}

// pagination reads skip/limit query parameters with the listing defaults.
func pagination(c echo.Context) (skip, limit int) {
	skip, limit = 0, 100
	if v, err := strconv.Atoi(c.QueryParam("skip")); err == nil && v >= 0 {
		skip = v
	}
	if v, err := strconv.Atoi(c.QueryParam("limit")); err == nil && v >= 0 && v <= 100 {
		limit = v
	}
	return skip, limit
}
