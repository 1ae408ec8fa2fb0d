package repository

import (
	"context"
	"database/sql"

	"github.com/haikudo/backend/internal/model"
)

type PostRepo struct{ DB *sql.DB }

func NewPostRepo(db *sql.DB) *PostRepo { return &PostRepo{DB: db} }

const postColumns = "id,title,content,author_id,is_published,created_at,updated_at"

// Create inserts a post and returns its ID.
func (r *PostRepo) Create(ctx context.Context, title, content string, authorID uint64, published bool) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO posts (title, content, author_id, is_published) VALUES (?,?,?,?)",
		title, nullable(content), authorID, published)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByID fetches a post by id.
func (r *PostRepo) GetByID(ctx context.Context, id uint64) (model.Post, error) {
	return scanPost(r.DB.QueryRowContext(ctx,
		"SELECT "+postColumns+" FROM posts WHERE id=? LIMIT 1", id))
}

// List returns posts ordered by id with offset pagination, optionally
// restricted to published posts.
func (r *PostRepo) List(ctx context.Context, skip, limit int, publishedOnly bool) ([]model.Post, error) {
	q := "SELECT " + postColumns + " FROM posts"
	if publishedOnly {
		q += " WHERE is_published=1"
	}
	q += " ORDER BY id LIMIT ? OFFSET ?"
	rows, err := r.DB.QueryContext(ctx, q, limit, skip)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPosts(rows)
}

// ListByAuthor returns the published posts of one author.
func (r *PostRepo) ListByAuthor(ctx context.Context, authorID uint64, skip, limit int) ([]model.Post, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+postColumns+" FROM posts WHERE author_id=? AND is_published=1 ORDER BY id LIMIT ? OFFSET ?",
		authorID, limit, skip)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPosts(rows)
}

// Update persists the mutable fields of p.
func (r *PostRepo) Update(ctx context.Context, p model.Post) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE posts SET title=?, content=?, is_published=? WHERE id=?",
		p.Title, nullable(p.Content), p.IsPublished, p.ID)
	return err
}

// Delete removes a post. Returns sql.ErrNoRows when no row matched.
func (r *PostRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM posts WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Count reports the total number of posts.
func (r *PostRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM posts").Scan(&n)
	return n, err
}

func scanPost(row rowScanner) (model.Post, error) {
	var (
		p       model.Post
		content sql.NullString
	)
	err := row.Scan(&p.ID, &p.Title, &content, &p.AuthorID, &p.IsPublished, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return model.Post{}, err
	}
	p.Content = content.String
	return p, nil
}

func collectPosts(rows *sql.Rows) ([]model.Post, error) {
	posts := []model.Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}
