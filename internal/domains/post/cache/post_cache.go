// Package cache is the coherence layer for the public read path. All keys,
// TTLs and invalidation rules live here; call sites never touch redis keys
// directly. Every operation is advisory: an unreachable cache store must
// never fail the surrounding request.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"cms-backend/internal/domains/post"
	"cms-backend/pkg/cache"
	"cms-backend/pkg/logger"
)

const (
	postKeyPrefix = "published_post:"
	listKeyPrefix = "published_posts_list:"

	postTTL = 5 * time.Minute
	listTTL = time.Minute
)

// PostCache is the read-through cache for published posts.
type PostCache struct {
	store cache.Cache
}

// NewPostCache wraps the shared cache store.
func NewPostCache(store cache.Cache) *PostCache {
	return &PostCache{store: store}
}

func postKey(id uuid.UUID) string {
	return postKeyPrefix + id.String()
}

func listKey(page, limit int) string {
	return fmt.Sprintf("%s%d:%d", listKeyPrefix, page, limit)
}

// GetPost returns a cached published post, or false on miss or cache error.
func (c *PostCache) GetPost(ctx context.Context, id uuid.UUID) (*post.Post, bool) {
	var p post.Post
	found, err := c.store.Get(ctx, postKey(id), &p)
	if err != nil {
		logger.Warn("post cache read failed", map[string]interface{}{"error": err.Error()})
		return nil, false
	}
	if !found {
		return nil, false
	}
	return &p, true
}

// SetPost stores a published post with a bounded TTL.
func (c *PostCache) SetPost(ctx context.Context, p *post.Post) {
	if err := c.store.Set(ctx, postKey(p.ID), p, postTTL); err != nil {
		logger.Warn("post cache write failed", map[string]interface{}{"error": err.Error()})
	}
}

// GetList returns a cached published-list page, or false on miss or error.
func (c *PostCache) GetList(ctx context.Context, page, limit int) (*post.ListResult, bool) {
	var result post.ListResult
	found, err := c.store.Get(ctx, listKey(page, limit), &result)
	if err != nil {
		logger.Warn("list cache read failed", map[string]interface{}{"error": err.Error()})
		return nil, false
	}
	if !found {
		return nil, false
	}
	return &result, true
}

// SetList stores one page of the published list.
func (c *PostCache) SetList(ctx context.Context, page, limit int, result *post.ListResult) {
	if err := c.store.Set(ctx, listKey(page, limit), result, listTTL); err != nil {
		logger.Warn("list cache write failed", map[string]interface{}{"error": err.Error()})
	}
}

// InvalidatePost drops a post's item key and every list page. Callers must
// invoke it only after the mutating transaction has committed, so a racing
// reader cannot repopulate the cache with pre-commit state.
func (c *PostCache) InvalidatePost(ctx context.Context, id uuid.UUID) {
	if err := c.store.Delete(ctx, postKey(id)); err != nil {
		logger.Warn("post cache invalidation failed", map[string]interface{}{"error": err.Error()})
	}
	c.InvalidateLists(ctx)
}

// InvalidateLists drops every cached list page. Pages cannot be invalidated
// selectively: publishing or removing one post shifts every page's
// membership.
func (c *PostCache) InvalidateLists(ctx context.Context) {
	if err := c.store.DeletePattern(ctx, listKeyPrefix+"*"); err != nil {
		logger.Warn("list cache invalidation failed", map[string]interface{}{"error": err.Error()})
	}
}
