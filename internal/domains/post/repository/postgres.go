package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"cms-backend/internal/domains/post"
	"cms-backend/internal/shared/utils"
	"cms-backend/pkg/database"
)

// postSelectList is the column list for SELECT/RETURNING on posts (single
// source for schema changes).
const postSelectList = `id, title, slug, content, status, author_id,
	scheduled_for, published_at, created_at, updated_at`

// maxSlugAttempts bounds insert retries when a concurrent creation grabs
// the probed slug between our probe and our insert.
const maxSlugAttempts = 3

type postgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates the pgx-backed post repository.
func NewPostgresRepository(pool *pgxpool.Pool) post.Repository {
	return &postgresRepository{pool: pool}
}

func (r *postgresRepository) Create(ctx context.Context, authorID uuid.UUID, title, content string) (*post.Post, error) {
	base := utils.Slugify(title)

	for attempt := 0; attempt < maxSlugAttempts; attempt++ {
		created, err := database.WithTransactionResult(ctx, r.pool, func(tx pgx.Tx) (*post.Post, error) {
			slug, err := nextFreeSlug(ctx, tx, base)
			if err != nil {
				return nil, err
			}

			row := tx.QueryRow(ctx, `
				INSERT INTO posts (id, title, slug, content, status, author_id)
				VALUES ($1, $2, $3, $4, 'draft', $5)
				RETURNING `+postSelectList,
				uuid.New(), title, slug, content, authorID,
			)
			return scanPost(row)
		})
		if err != nil {
			// Two concurrent creations with the same title can probe the
			// same free slug; the unique index catches the loser, which
			// simply probes again.
			if isUniqueViolation(err) {
				continue
			}
			return nil, fmt.Errorf("create post: %w", err)
		}
		return created, nil
	}

	return nil, fmt.Errorf("create post: slug contention exceeded %d attempts", maxSlugAttempts)
}

// nextFreeSlug probes base, base-1, base-2, ... against the transactional
// view of existing slugs.
func nextFreeSlug(ctx context.Context, tx pgx.Tx, base string) (string, error) {
	slug := base
	for counter := 1; ; counter++ {
		var taken bool
		err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM posts WHERE slug = $1)`, slug).Scan(&taken)
		if err != nil {
			return "", fmt.Errorf("probe slug %s: %w", slug, err)
		}
		if !taken {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, counter)
	}
}

func (r *postgresRepository) FindByID(ctx context.Context, id uuid.UUID) (*post.Post, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+postSelectList+` FROM posts WHERE id = $1`, id)

	p, err := scanPost(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, post.ErrPostNotFound
		}
		return nil, fmt.Errorf("find post: %w", err)
	}
	return p, nil
}

func (r *postgresRepository) FindPublishedByID(ctx context.Context, id uuid.UUID) (*post.Post, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+postSelectList+` FROM posts WHERE id = $1 AND status = 'published'`, id)

	p, err := scanPost(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, post.ErrPostNotFound
		}
		return nil, fmt.Errorf("find published post: %w", err)
	}
	return p, nil
}

func (r *postgresRepository) ListByAuthor(ctx context.Context, authorID uuid.UUID, page, limit int) ([]post.Post, int, error) {
	var total int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM posts WHERE author_id = $1`, authorID).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count author posts: %w", err)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT `+postSelectList+` FROM posts
		WHERE author_id = $1
		ORDER BY updated_at DESC
		LIMIT $2 OFFSET $3`,
		authorID, limit, (page-1)*limit,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list author posts: %w", err)
	}
	defer rows.Close()

	posts, err := scanPosts(rows)
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

func (r *postgresRepository) ListPublished(ctx context.Context, page, limit int) ([]post.Post, int, error) {
	var total int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM posts WHERE status = 'published'`).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count published posts: %w", err)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT `+postSelectList+` FROM posts
		WHERE status = 'published'
		ORDER BY published_at DESC NULLS LAST, updated_at DESC
		LIMIT $1 OFFSET $2`,
		limit, (page-1)*limit,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list published posts: %w", err)
	}
	defer rows.Close()

	posts, err := scanPosts(rows)
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

func (r *postgresRepository) Update(ctx context.Context, id, editorID uuid.UUID, title, content *string) (*post.Post, post.Status, error) {
	type updateResult struct {
		post *post.Post
		prev post.Status
	}

	result, err := database.WithTransactionResult(ctx, r.pool, func(tx pgx.Tx) (updateResult, error) {
		// Pre-image from the row as read at transaction start, locked so a
		// concurrent editor cannot interleave between snapshot and update.
		var prevTitle, prevContent string
		var prevStatus post.Status
		err := tx.QueryRow(ctx,
			`SELECT title, content, status FROM posts WHERE id = $1 FOR UPDATE`, id).
			Scan(&prevTitle, &prevContent, &prevStatus)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return updateResult{}, post.ErrPostNotFound
			}
			return updateResult{}, fmt.Errorf("read pre-image: %w", err)
		}

		// The revision row goes in before the new values are applied.
		_, err = tx.Exec(ctx, `
			INSERT INTO post_revisions (post_id, title_snapshot, content_snapshot, revision_author_id)
			VALUES ($1, $2, $3, $4)`,
			id, prevTitle, prevContent, editorID,
		)
		if err != nil {
			return updateResult{}, fmt.Errorf("record revision: %w", err)
		}

		newTitle := prevTitle
		if title != nil {
			newTitle = *title
		}
		newContent := prevContent
		if content != nil {
			newContent = *content
		}

		// Slug is reassigned only when the title actually changed. On a
		// collision with a different post the edit path must not probe
		// unboundedly, so it falls back to a timestamp suffix.
		var newSlug *string
		if newTitle != prevTitle {
			candidate := utils.Slugify(newTitle)
			var taken bool
			err := tx.QueryRow(ctx,
				`SELECT EXISTS (SELECT 1 FROM posts WHERE slug = $1 AND id <> $2)`,
				candidate, id).Scan(&taken)
			if err != nil {
				return updateResult{}, fmt.Errorf("probe slug %s: %w", candidate, err)
			}
			if taken {
				candidate = fmt.Sprintf("%s-%d", candidate, time.Now().UnixMilli())
			}
			newSlug = &candidate
		}

		row := tx.QueryRow(ctx, `
			UPDATE posts
			SET title = $1, content = $2, slug = COALESCE($3, slug), updated_at = NOW()
			WHERE id = $4
			RETURNING `+postSelectList,
			newTitle, newContent, newSlug, id,
		)
		updated, err := scanPost(row)
		if err != nil {
			return updateResult{}, fmt.Errorf("apply update: %w", err)
		}

		return updateResult{post: updated, prev: prevStatus}, nil
	})
	if err != nil {
		return nil, "", err
	}
	return result.post, result.prev, nil
}

func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) (post.Status, error) {
	var status post.Status
	err := r.pool.QueryRow(ctx,
		`DELETE FROM posts WHERE id = $1 RETURNING status`, id).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", post.ErrPostNotFound
		}
		return "", fmt.Errorf("delete post: %w", err)
	}
	return status, nil
}

func (r *postgresRepository) MarkPublished(ctx context.Context, id uuid.UUID) (*post.Post, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE posts
		SET status = 'published', published_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND status = 'draft'
		RETURNING `+postSelectList,
		id,
	)

	p, err := scanPost(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, r.missingOrWrongState(ctx, id)
		}
		return nil, fmt.Errorf("publish post: %w", err)
	}
	return p, nil
}

func (r *postgresRepository) MarkScheduled(ctx context.Context, id uuid.UUID, when time.Time) (*post.Post, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE posts
		SET status = 'scheduled', scheduled_for = $2, updated_at = NOW()
		WHERE id = $1 AND status = 'draft'
		RETURNING `+postSelectList,
		id, when,
	)

	p, err := scanPost(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, r.missingOrWrongState(ctx, id)
		}
		return nil, fmt.Errorf("schedule post: %w", err)
	}
	return p, nil
}

// missingOrWrongState distinguishes a conditional update that matched no
// rows because the post is absent from one that matched no rows because
// the post is no longer a draft.
func (r *postgresRepository) missingOrWrongState(ctx context.Context, id uuid.UUID) error {
	var exists bool
	if err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM posts WHERE id = $1)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("check post exists: %w", err)
	}
	if exists {
		return post.ErrInvalidState
	}
	return post.ErrPostNotFound
}

func (r *postgresRepository) FindDueScheduled(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id FROM posts
		WHERE status = 'scheduled' AND scheduled_for IS NOT NULL AND scheduled_for <= NOW()`)
	if err != nil {
		return nil, fmt.Errorf("find due scheduled posts: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan due post id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate due posts: %w", err)
	}
	return ids, nil
}

func (r *postgresRepository) ClaimAndPublish(ctx context.Context, id uuid.UUID) (bool, error) {
	// Match and update in a single statement: idempotent under concurrent
	// workers with no external locking. scheduled_for is kept for audit.
	tag, err := r.pool.Exec(ctx, `
		UPDATE posts
		SET status = 'published', published_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND status = 'scheduled' AND scheduled_for <= NOW()`,
		id,
	)
	if err != nil {
		return false, fmt.Errorf("claim post %s: %w", id, err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *postgresRepository) ListRevisions(ctx context.Context, postID uuid.UUID) ([]post.Revision, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT pr.id, pr.post_id, pr.title_snapshot, pr.content_snapshot,
		       u.username, pr.revision_timestamp
		FROM post_revisions pr
		JOIN users u ON u.id = pr.revision_author_id
		WHERE pr.post_id = $1
		ORDER BY pr.revision_timestamp DESC`,
		postID,
	)
	if err != nil {
		return nil, fmt.Errorf("list revisions: %w", err)
	}
	defer rows.Close()

	var revisions []post.Revision
	for rows.Next() {
		var rev post.Revision
		err := rows.Scan(&rev.ID, &rev.PostID, &rev.TitleSnapshot,
			&rev.ContentSnapshot, &rev.RevisionAuthor, &rev.RevisionTimestamp)
		if err != nil {
			return nil, fmt.Errorf("scan revision: %w", err)
		}
		revisions = append(revisions, rev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate revisions: %w", err)
	}
	return revisions, nil
}

func scanPost(row pgx.Row) (*post.Post, error) {
	p := &post.Post{}
	err := row.Scan(&p.ID, &p.Title, &p.Slug, &p.Content, &p.Status, &p.AuthorID,
		&p.ScheduledFor, &p.PublishedAt, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func scanPosts(rows pgx.Rows) ([]post.Post, error) {
	var posts []post.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate posts: %w", err)
	}
	return posts, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
