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

	"github.com/haikudo/backend/internal/config"
	"github.com/haikudo/backend/internal/event"
	"github.com/haikudo/backend/internal/middleware"
	"github.com/haikudo/backend/internal/model"
	"github.com/haikudo/backend/internal/policy"
	"github.com/haikudo/backend/internal/repository"
)

// PostHandler bundles dependencies for post endpoints.
type PostHandler struct {
	Cfg    config.Config
	Posts  *repository.PostRepo
	Events *event.Publisher
}

func NewPostHandler(cfg config.Config, posts *repository.PostRepo, events *event.Publisher) *PostHandler {
	return &PostHandler{Cfg: cfg, Posts: posts, Events: events}
}

type postCreateReq struct {
	Title       string `json:"title"`
	Content     string `json:"content"`
	IsPublished bool   `json:"is_published"`
}

type postUpdateReq struct {
	Title       *string `json:"title"`
	Content     *string `json:"content"`
	IsPublished *bool   `json:"is_published"`
}

type postResp struct {
	ID          uint64    `json:"id"`
	Title       string    `json:"title"`
	Content     string    `json:"content,omitempty"`
	AuthorID    uint64    `json:"author_id"`
	IsPublished bool      `json:"is_published"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toPostResp(p model.Post) postResp {
	return postResp{
		ID:          p.ID,
		Title:       p.Title,
		Content:     p.Content,
		AuthorID:    p.AuthorID,
		IsPublished: p.IsPublished,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// Create inserts a post owned by the authenticated user.
func (h *PostHandler) Create(c echo.Context) error {
	var req postCreateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation_error", "detail": "Invalid request body"})
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation_error", "detail": "Title is required"})
	}

	u := middleware.CurrentUser(c)
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	id, err := h.Posts.Create(ctx, req.Title, req.Content, u.ID, req.IsPublished)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal_error", "detail": "Create post failed"})
	}
	p, err := h.Posts.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal_error", "detail": "Create post failed"})
	}

	zerolog.Ctx(c.Request().Context()).Info().
		Uint64("post_id", id).Uint64("author_id", u.ID).Msg("post created")
	h.Events.PublishAsync(event.QueuePostCreated, event.PostCreated{
		PostID: id, AuthorID: u.ID, Title: p.Title, OccurredAt: time.Now().UTC(),
	})

	return c.JSON(http.StatusCreated, toPostResp(p))
}

// List returns paginated posts, by default only published ones.
func (h *PostHandler) List(c echo.Context) error {
	skip, limit := pagination(c)
	publishedOnly := true
	if v := c.QueryParam("published_only"); v != "" {
		publishedOnly = v != "false" && v != "0"
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	posts, err := h.Posts.List(ctx, skip, limit, publishedOnly)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal_error", "detail": "Query failed"})
	}
	out := make([]postResp, 0, len(posts))
	for _, p := range posts {
		out = append(out, toPostResp(p))
	}
	return c.JSON(http.StatusOK, out)
}

// Get returns a single post.
func (h *PostHandler) Get(c echo.Context) error {
	p, errResp := h.loadPost(c)
	if errResp != nil {
		return errResp(c)
	}
	return c.JSON(http.StatusOK, toPostResp(p))
}

// Update modifies a post. Only the author may update it.
func (h *PostHandler) Update(c echo.Context) error {
	var req postUpdateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation_error", "detail": "Invalid request body"})
	}

	p, errResp := h.loadPost(c)
	if errResp != nil {
		return errResp(c)
	}
	if !policy.CanModifyPost(middleware.CurrentUser(c), &p) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden", "detail": "Not authorized to update this post"})
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation_error", "detail": "Title is required"})
		}
		p.Title = title
	}
	if req.Content != nil {
		p.Content = *req.Content
	}
	if req.IsPublished != nil {
		p.IsPublished = *req.IsPublished
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Posts.Update(ctx, p); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal_error", "detail": "Update failed"})
	}
	fresh, err := h.Posts.GetByID(ctx, p.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal_error", "detail": "Update failed"})
	}
	return c.JSON(http.StatusOK, toPostResp(fresh))
}

// Delete removes a post. Only the author may delete it.
func (h *PostHandler) Delete(c echo.Context) error {
	p, errResp := h.loadPost(c)
	if errResp != nil {
		return errResp(c)
	}
	u := middleware.CurrentUser(c)
	if !policy.CanModifyPost(u, &p) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden", "detail": "Not authorized to delete this post"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Posts.Delete(ctx, p.ID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal_error", "detail": "Delete failed"})
	}

	zerolog.Ctx(c.Request().Context()).Info().
		Uint64("post_id", p.ID).Uint64("author_id", u.ID).Msg("post deleted")
	h.Events.PublishAsync(event.QueuePostDeleted, event.PostDeleted{
		PostID: p.ID, AuthorID: u.ID, OccurredAt: time.Now().UTC(),
	})

	return c.JSON(http.StatusOK, echo.Map{"message": "Post deleted successfully"})
}

// ListByUser returns a user's published posts.
func (h *PostHandler) ListByUser(c echo.Context) error {
	authorID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation_error", "detail": "Invalid user id"})
	}
	skip, limit := pagination(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	posts, err := h.Posts.ListByAuthor(ctx, authorID, skip, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal_error", "detail": "Query failed"})
	}
	out := make([]postResp, 0, len(posts))
	for _, p := range posts {
		out = append(out, toPostResp(p))
	}
	return c.JSON(http.StatusOK, out)
}

// loadPost fetches the post named by the :id param. The second return
// value, when non-nil, writes the error response for the caller.
func (h *PostHandler) loadPost(c echo.Context) (model.Post, func(echo.Context) error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return model.Post{}, func(c echo.Context) error {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation_error", "detail": "Invalid post id"})
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	p, err := h.Posts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Post{}, func(c echo.Context) error {
				return c.JSON(http.StatusNotFound, echo.Map{"error": "not_found", "detail": "Post not found"})
			}
		}
		return model.Post{}, func(c echo.Context) error {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal_error", "detail": "Query failed"})
		}
	}
	return p, nil
}
