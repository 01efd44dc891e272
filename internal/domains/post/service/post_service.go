package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"cms-backend/internal/config"
	"cms-backend/internal/domains/post"
	postcache "cms-backend/internal/domains/post/cache"
	"cms-backend/pkg/logger"
)

type postService struct {
	repo       post.Repository
	cache      *postcache.PostCache
	pagination config.PaginationConfig
}

// NewPostService wires the lifecycle engine.
func NewPostService(repo post.Repository, cache *postcache.PostCache, pagination config.PaginationConfig) post.Service {
	return &postService{
		repo:       repo,
		cache:      cache,
		pagination: pagination,
	}
}

func (s *postService) CreateDraft(ctx context.Context, authorID uuid.UUID, req post.CreatePostRequest) (*post.Post, error) {
	created, err := s.repo.Create(ctx, authorID, req.Title, req.Content)
	if err != nil {
		return nil, err
	}

	logger.Info("draft created", map[string]interface{}{
		"post_id": created.ID.String(),
		"slug":    created.Slug,
	})
	return created, nil
}

func (s *postService) GetOwned(ctx context.Context, id, userID uuid.UUID) (*post.Post, error) {
	return s.findOwned(ctx, id, userID)
}

func (s *postService) Update(ctx context.Context, id, userID uuid.UUID, req post.UpdatePostRequest) (*post.Post, error) {
	if _, err := s.findOwned(ctx, id, userID); err != nil {
		return nil, err
	}

	if req.IsEmpty() {
		return s.repo.FindByID(ctx, id)
	}

	updated, prevStatus, err := s.repo.Update(ctx, id, userID, req.Title, req.Content)
	if err != nil {
		return nil, err
	}

	// The repository transaction has committed; an edit to a published
	// post must now drop any cached pre-edit state.
	if prevStatus == post.StatusPublished {
		s.cache.InvalidatePost(ctx, id)
	}
	return updated, nil
}

func (s *postService) Delete(ctx context.Context, id, userID uuid.UUID) error {
	if _, err := s.findOwned(ctx, id, userID); err != nil {
		return err
	}

	status, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}

	if status == post.StatusPublished {
		s.cache.InvalidatePost(ctx, id)
	}
	return nil
}

func (s *postService) Publish(ctx context.Context, id, userID uuid.UUID) (*post.Post, error) {
	current, err := s.findOwned(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if current.Status != post.StatusDraft {
		return nil, post.ErrInvalidState
	}

	published, err := s.repo.MarkPublished(ctx, id)
	if err != nil {
		return nil, err
	}

	s.cache.InvalidatePost(ctx, id)

	logger.Info("post published", map[string]interface{}{"post_id": id.String()})
	return published, nil
}

func (s *postService) Schedule(ctx context.Context, id, userID uuid.UUID, req post.SchedulePostRequest) (*post.Post, error) {
	if !req.ScheduledFor.After(time.Now()) {
		return nil, post.ErrInvalidTime
	}

	current, err := s.findOwned(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if current.Status != post.StatusDraft {
		return nil, post.ErrInvalidState
	}

	scheduled, err := s.repo.MarkScheduled(ctx, id, req.ScheduledFor)
	if err != nil {
		return nil, err
	}

	logger.Info("post scheduled", map[string]interface{}{
		"post_id":       id.String(),
		"scheduled_for": req.ScheduledFor.Format(time.RFC3339),
	})
	return scheduled, nil
}

func (s *postService) ListOwned(ctx context.Context, authorID uuid.UUID, page, limit int) (*post.ListResult, error) {
	page, limit = s.clamp(page, limit)

	posts, total, err := s.repo.ListByAuthor(ctx, authorID, page, limit)
	if err != nil {
		return nil, err
	}

	return &post.ListResult{
		Posts:      posts,
		Pagination: post.NewPagination(page, limit, total),
	}, nil
}

func (s *postService) ListRevisions(ctx context.Context, id, userID uuid.UUID) ([]post.Revision, error) {
	if _, err := s.findOwned(ctx, id, userID); err != nil {
		return nil, err
	}
	return s.repo.ListRevisions(ctx, id)
}

func (s *postService) ListPublished(ctx context.Context, page, limit int) (*post.ListResult, error) {
	page, limit = s.clamp(page, limit)

	if cached, ok := s.cache.GetList(ctx, page, limit); ok {
		return cached, nil
	}

	posts, total, err := s.repo.ListPublished(ctx, page, limit)
	if err != nil {
		return nil, err
	}

	result := &post.ListResult{
		Posts:      posts,
		Pagination: post.NewPagination(page, limit, total),
	}
	s.cache.SetList(ctx, page, limit, result)
	return result, nil
}

func (s *postService) GetPublished(ctx context.Context, id uuid.UUID) (*post.Post, error) {
	if cached, ok := s.cache.GetPost(ctx, id); ok {
		return cached, nil
	}

	p, err := s.repo.FindPublishedByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.cache.SetPost(ctx, p)
	return p, nil
}

// RunScheduledPublishCycle promotes every due scheduled post. Each post is
// claimed with its own conditional update, so concurrent cycles and partial
// failures cannot double-publish or lose items: a claim that affects zero
// rows lost the race and is skipped silently, a claim that errors is logged
// and the batch continues.
func (s *postService) RunScheduledPublishCycle(ctx context.Context) error {
	due, err := s.repo.FindDueScheduled(ctx)
	if err != nil {
		return fmt.Errorf("select due posts: %w", err)
	}

	published := 0
	for _, id := range due {
		claimed, err := s.repo.ClaimAndPublish(ctx, id)
		if err != nil {
			logger.Error(fmt.Sprintf("scheduled publish failed for post %s", id), err)
			continue
		}
		if !claimed {
			// Another worker instance got there first.
			continue
		}

		s.cache.InvalidatePost(ctx, id)
		published++
	}

	if len(due) > 0 {
		logger.Info("scheduled publish cycle finished", map[string]interface{}{
			"due":       len(due),
			"published": published,
		})
	}
	return nil
}

// findOwned loads a post and enforces ownership: a missing post is
// NotFound, somebody else's post is Forbidden.
func (s *postService) findOwned(ctx context.Context, id, userID uuid.UUID) (*post.Post, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.AuthorID != userID {
		return nil, post.ErrNotOwner
	}
	return p, nil
}

func (s *postService) clamp(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = s.pagination.DefaultLimit
	}
	if limit > s.pagination.MaxLimit {
		limit = s.pagination.MaxLimit
	}
	return page, limit
}
