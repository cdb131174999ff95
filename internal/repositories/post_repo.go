package repositories

import (
	"context"
	"errors"

	"dentamart/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Post, error)
	ListFeed(ctx context.Context, limit, offset int) ([]*models.Post, error)
	Like(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type postRepo struct {
	db Database
}

func NewPostRepository(db Database) PostRepository {
	return &postRepo{db: db}
}

const postColumns = `id, author_id, content, image_path, likes, created_at, updated_at`

func scanPost(row pgx.Row) (*models.Post, error) {
	p := &models.Post{}
	err := row.Scan(&p.ID, &p.AuthorID, &p.Content, &p.ImagePath, &p.Likes, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *postRepo) Create(ctx context.Context, post *models.Post) error {
	query := `
		INSERT INTO posts (id, author_id, content, image_path, likes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, 0, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, post.ID, post.AuthorID, post.Content, post.ImagePath)
	return err
}

func (r *postRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE id = $1`
	post, err := scanPost(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return post, err
}

func (r *postRepo) ListFeed(ctx context.Context, limit, offset int) ([]*models.Post, error) {
	query := `
		SELECT ` + postColumns + `
		FROM posts
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []*models.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}

func (r *postRepo) Like(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE posts SET likes = likes + 1, updated_at = NOW() WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

func (r *postRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM posts WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}
