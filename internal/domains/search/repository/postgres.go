package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"cms-backend/internal/domains/post"
)

// SearchRepository runs full-text queries over published posts using the
// stored tsvector column. It only ever reads; indexing happens in the
// database as posts change.
type SearchRepository struct {
	pool *pgxpool.Pool
}

func NewSearchRepository(pool *pgxpool.Pool) *SearchRepository {
	return &SearchRepository{pool: pool}
}

// Search returns published posts matching query, ranked by relevance.
func (r *SearchRepository) Search(ctx context.Context, query string, page, limit int) ([]post.Post, int, error) {
	var total int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM posts
		WHERE status = 'published' AND search_vector @@ plainto_tsquery('english', $1)`,
		query,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count search results: %w", err)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, title, slug, content, status, author_id,
		       scheduled_for, published_at, created_at, updated_at
		FROM posts
		WHERE status = 'published' AND search_vector @@ plainto_tsquery('english', $1)
		ORDER BY ts_rank(search_vector, plainto_tsquery('english', $1)) DESC
		LIMIT $2 OFFSET $3`,
		query, limit, (page-1)*limit,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("search posts: %w", err)
	}
	defer rows.Close()

	var posts []post.Post
	for rows.Next() {
		var p post.Post
		err := rows.Scan(&p.ID, &p.Title, &p.Slug, &p.Content, &p.Status, &p.AuthorID,
			&p.ScheduledFor, &p.PublishedAt, &p.CreatedAt, &p.UpdatedAt)
		if err != nil {
			return nil, 0, fmt.Errorf("scan search result: %w", err)
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate search results: %w", err)
	}
	return posts, total, nil
}
