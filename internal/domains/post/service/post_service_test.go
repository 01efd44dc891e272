package service_test

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cms-backend/internal/config"
	"cms-backend/internal/domains/post"
	postcache "cms-backend/internal/domains/post/cache"
	"cms-backend/internal/domains/post/service"
	"cms-backend/internal/shared/utils"
	"cms-backend/pkg/cache"
)

// fakeRepo mirrors the postgres repository's observable behavior in
// memory: slug probing at create, conditional state transitions, revision
// snapshots before edits, and race-safe claims.
type fakeRepo struct {
	posts     map[uuid.UUID]*post.Post
	revisions map[uuid.UUID][]post.Revision

	// Overrides for scripting worker-cycle races and failures.
	findDue func() ([]uuid.UUID, error)
	claim   func(id uuid.UUID) (bool, error)
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		posts:     make(map[uuid.UUID]*post.Post),
		revisions: make(map[uuid.UUID][]post.Revision),
	}
}

func (r *fakeRepo) slugTaken(slug string, except uuid.UUID) bool {
	for id, p := range r.posts {
		if id != except && p.Slug == slug {
			return true
		}
	}
	return false
}

func (r *fakeRepo) Create(_ context.Context, authorID uuid.UUID, title, content string) (*post.Post, error) {
	base := utils.Slugify(title)
	slug := base
	for i := 1; r.slugTaken(slug, uuid.Nil); i++ {
		slug = fmt.Sprintf("%s-%d", base, i)
	}

	now := time.Now()
	p := &post.Post{
		ID:        uuid.New(),
		Title:     title,
		Slug:      slug,
		Content:   content,
		Status:    post.StatusDraft,
		AuthorID:  authorID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.posts[p.ID] = p
	return copyPost(p), nil
}

func (r *fakeRepo) FindByID(_ context.Context, id uuid.UUID) (*post.Post, error) {
	p, ok := r.posts[id]
	if !ok {
		return nil, post.ErrPostNotFound
	}
	return copyPost(p), nil
}

func (r *fakeRepo) FindPublishedByID(_ context.Context, id uuid.UUID) (*post.Post, error) {
	p, ok := r.posts[id]
	if !ok || p.Status != post.StatusPublished {
		return nil, post.ErrPostNotFound
	}
	return copyPost(p), nil
}

func (r *fakeRepo) ListByAuthor(_ context.Context, authorID uuid.UUID, page, limit int) ([]post.Post, int, error) {
	var all []post.Post
	for _, p := range r.posts {
		if p.AuthorID == authorID {
			all = append(all, *copyPost(p))
		}
	}
	return paginate(all, page, limit)
}

func (r *fakeRepo) ListPublished(_ context.Context, page, limit int) ([]post.Post, int, error) {
	var all []post.Post
	for _, p := range r.posts {
		if p.Status == post.StatusPublished {
			all = append(all, *copyPost(p))
		}
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].PublishedAt.After(*all[j].PublishedAt)
	})
	return paginate(all, page, limit)
}

func (r *fakeRepo) Update(_ context.Context, id, editorID uuid.UUID, title, content *string) (*post.Post, post.Status, error) {
	p, ok := r.posts[id]
	if !ok {
		return nil, "", post.ErrPostNotFound
	}
	prevStatus := p.Status

	r.revisions[id] = append([]post.Revision{{
		ID:                uuid.New(),
		PostID:            id,
		TitleSnapshot:     p.Title,
		ContentSnapshot:   p.Content,
		RevisionAuthor:    editorID.String(),
		RevisionTimestamp: time.Now(),
	}}, r.revisions[id]...)

	if title != nil && *title != p.Title {
		p.Title = *title
		slug := utils.Slugify(*title)
		if r.slugTaken(slug, id) {
			slug = fmt.Sprintf("%s-%d", slug, time.Now().UnixMilli())
		}
		p.Slug = slug
	}
	if content != nil {
		p.Content = *content
	}
	p.UpdatedAt = time.Now()
	return copyPost(p), prevStatus, nil
}

func (r *fakeRepo) Delete(_ context.Context, id uuid.UUID) (post.Status, error) {
	p, ok := r.posts[id]
	if !ok {
		return "", post.ErrPostNotFound
	}
	status := p.Status
	delete(r.posts, id)
	delete(r.revisions, id)
	return status, nil
}

func (r *fakeRepo) MarkPublished(_ context.Context, id uuid.UUID) (*post.Post, error) {
	p, ok := r.posts[id]
	if !ok {
		return nil, post.ErrPostNotFound
	}
	if p.Status != post.StatusDraft {
		return nil, post.ErrInvalidState
	}
	now := time.Now()
	p.Status = post.StatusPublished
	p.PublishedAt = &now
	p.UpdatedAt = now
	return copyPost(p), nil
}

func (r *fakeRepo) MarkScheduled(_ context.Context, id uuid.UUID, when time.Time) (*post.Post, error) {
	p, ok := r.posts[id]
	if !ok {
		return nil, post.ErrPostNotFound
	}
	if p.Status != post.StatusDraft {
		return nil, post.ErrInvalidState
	}
	p.Status = post.StatusScheduled
	p.ScheduledFor = &when
	p.UpdatedAt = time.Now()
	return copyPost(p), nil
}

func (r *fakeRepo) FindDueScheduled(_ context.Context) ([]uuid.UUID, error) {
	if r.findDue != nil {
		return r.findDue()
	}
	var due []uuid.UUID
	for id, p := range r.posts {
		if p.Status == post.StatusScheduled && p.ScheduledFor != nil && !p.ScheduledFor.After(time.Now()) {
			due = append(due, id)
		}
	}
	return due, nil
}

func (r *fakeRepo) ClaimAndPublish(_ context.Context, id uuid.UUID) (bool, error) {
	if r.claim != nil {
		return r.claim(id)
	}
	return r.doClaim(id)
}

func (r *fakeRepo) doClaim(id uuid.UUID) (bool, error) {
	p, ok := r.posts[id]
	if !ok || p.Status != post.StatusScheduled || p.ScheduledFor == nil || p.ScheduledFor.After(time.Now()) {
		return false, nil
	}
	now := time.Now()
	p.Status = post.StatusPublished
	p.PublishedAt = &now
	p.UpdatedAt = now
	return true, nil
}

func (r *fakeRepo) ListRevisions(_ context.Context, postID uuid.UUID) ([]post.Revision, error) {
	return r.revisions[postID], nil
}

func copyPost(p *post.Post) *post.Post {
	c := *p
	return &c
}

func paginate(all []post.Post, page, limit int) ([]post.Post, int, error) {
	total := len(all)
	start := (page - 1) * limit
	if start >= total {
		return nil, total, nil
	}
	end := start + limit
	if end > total {
		end = total
	}
	return all[start:end], total, nil
}

func newTestService(t *testing.T) (post.Service, *fakeRepo, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	repo := newFakeRepo()
	svc := service.NewPostService(
		repo,
		postcache.NewPostCache(cache.NewRedisCache(client)),
		config.PaginationConfig{DefaultLimit: 20, MaxLimit: 100},
	)
	return svc, repo, mr
}

func TestCreateDraft(t *testing.T) {
	svc, _, _ := newTestService(t)
	authorID := uuid.New()

	p, err := svc.CreateDraft(context.Background(), authorID, post.CreatePostRequest{
		Title:   "Hello, World!",
		Content: "first post",
	})
	require.NoError(t, err)

	assert.Equal(t, post.StatusDraft, p.Status)
	assert.Equal(t, "hello-world", p.Slug)
	assert.Equal(t, authorID, p.AuthorID)
	assert.Nil(t, p.PublishedAt)
	assert.Nil(t, p.ScheduledFor)
}

func TestCreateDraft_DuplicateTitlesGetDistinctSlugs(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	authorID := uuid.New()

	slugs := make([]string, 0, 3)
	for i := 0; i < 3; i++ {
		p, err := svc.CreateDraft(ctx, authorID, post.CreatePostRequest{Title: "Same Title"})
		require.NoError(t, err)
		slugs = append(slugs, p.Slug)
	}

	assert.Equal(t, []string{"same-title", "same-title-1", "same-title-2"}, slugs)
}

func TestPublish(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	authorID := uuid.New()

	draft, err := svc.CreateDraft(ctx, authorID, post.CreatePostRequest{Title: "Launch"})
	require.NoError(t, err)

	published, err := svc.Publish(ctx, draft.ID, authorID)
	require.NoError(t, err)
	assert.Equal(t, post.StatusPublished, published.Status)
	require.NotNil(t, published.PublishedAt)

	// published is terminal
	_, err = svc.Publish(ctx, draft.ID, authorID)
	assert.ErrorIs(t, err, post.ErrInvalidState)
}

func TestPublish_NotOwner(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	draft, err := svc.CreateDraft(ctx, uuid.New(), post.CreatePostRequest{Title: "Mine"})
	require.NoError(t, err)

	_, err = svc.Publish(ctx, draft.ID, uuid.New())
	assert.ErrorIs(t, err, post.ErrNotOwner)
}

func TestPublish_NotFound(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Publish(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, post.ErrPostNotFound)
}

func TestSchedule(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	authorID := uuid.New()

	draft, err := svc.CreateDraft(ctx, authorID, post.CreatePostRequest{Title: "Later"})
	require.NoError(t, err)

	when := time.Now().Add(time.Hour)
	scheduled, err := svc.Schedule(ctx, draft.ID, authorID, post.SchedulePostRequest{ScheduledFor: when})
	require.NoError(t, err)
	assert.Equal(t, post.StatusScheduled, scheduled.Status)
	require.NotNil(t, scheduled.ScheduledFor)

	// scheduled posts cannot be published directly
	_, err = svc.Publish(ctx, draft.ID, authorID)
	assert.ErrorIs(t, err, post.ErrInvalidState)
}

func TestSchedule_PastTime(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	authorID := uuid.New()

	draft, err := svc.CreateDraft(ctx, authorID, post.CreatePostRequest{Title: "Too Late"})
	require.NoError(t, err)

	_, err = svc.Schedule(ctx, draft.ID, authorID, post.SchedulePostRequest{
		ScheduledFor: time.Now().Add(-time.Minute),
	})
	assert.ErrorIs(t, err, post.ErrInvalidTime)
}

func TestUpdate_RecordsRevision(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	authorID := uuid.New()

	draft, err := svc.CreateDraft(ctx, authorID, post.CreatePostRequest{
		Title:   "Original Title",
		Content: "original content",
	})
	require.NoError(t, err)

	newTitle := "Edited Title"
	newContent := "edited content"
	updated, err := svc.Update(ctx, draft.ID, authorID, post.UpdatePostRequest{
		Title:   &newTitle,
		Content: &newContent,
	})
	require.NoError(t, err)
	assert.Equal(t, newTitle, updated.Title)
	assert.Equal(t, newContent, updated.Content)
	assert.Equal(t, "edited-title", updated.Slug)

	revisions, err := svc.ListRevisions(ctx, draft.ID, authorID)
	require.NoError(t, err)
	require.Len(t, revisions, 1)
	assert.Equal(t, "Original Title", revisions[0].TitleSnapshot)
	assert.Equal(t, "original content", revisions[0].ContentSnapshot)
}

func TestUpdate_EmptyRequestIsNoOp(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	authorID := uuid.New()

	draft, err := svc.CreateDraft(ctx, authorID, post.CreatePostRequest{Title: "Untouched"})
	require.NoError(t, err)

	got, err := svc.Update(ctx, draft.ID, authorID, post.UpdatePostRequest{})
	require.NoError(t, err)
	assert.Equal(t, draft.Title, got.Title)

	revisions, err := svc.ListRevisions(ctx, draft.ID, authorID)
	require.NoError(t, err)
	assert.Empty(t, revisions)
}

func TestDelete(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	authorID := uuid.New()

	draft, err := svc.CreateDraft(ctx, authorID, post.CreatePostRequest{Title: "Gone"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, draft.ID, authorID))

	_, err = svc.GetOwned(ctx, draft.ID, authorID)
	assert.ErrorIs(t, err, post.ErrPostNotFound)
}

func TestRunScheduledPublishCycle(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()
	authorID := uuid.New()

	draft, err := svc.CreateDraft(ctx, authorID, post.CreatePostRequest{Title: "Due"})
	require.NoError(t, err)

	// Backdate the schedule directly; the service rejects past times.
	past := time.Now().Add(-time.Minute)
	repo.posts[draft.ID].Status = post.StatusScheduled
	repo.posts[draft.ID].ScheduledFor = &past

	require.NoError(t, svc.RunScheduledPublishCycle(ctx))

	p, err := svc.GetOwned(ctx, draft.ID, authorID)
	require.NoError(t, err)
	assert.Equal(t, post.StatusPublished, p.Status)
	require.NotNil(t, p.PublishedAt)
	firstPublishedAt := *p.PublishedAt

	// A second cycle finds nothing due and changes nothing.
	require.NoError(t, svc.RunScheduledPublishCycle(ctx))
	p, err = svc.GetOwned(ctx, draft.ID, authorID)
	require.NoError(t, err)
	assert.Equal(t, firstPublishedAt, *p.PublishedAt)
}

func TestRunScheduledPublishCycle_LostClaimIsSkipped(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()
	authorID := uuid.New()

	draft, err := svc.CreateDraft(ctx, authorID, post.CreatePostRequest{Title: "Contended"})
	require.NoError(t, err)

	past := time.Now().Add(-time.Minute)
	repo.posts[draft.ID].Status = post.StatusScheduled
	repo.posts[draft.ID].ScheduledFor = &past

	// A concurrent cycle claims the post first.
	claimed, err := repo.ClaimAndPublish(ctx, draft.ID)
	require.NoError(t, err)
	require.True(t, claimed)
	firstPublishedAt := *repo.posts[draft.ID].PublishedAt

	// The loser's claim affects zero rows; that is not an error.
	claimed, err = repo.ClaimAndPublish(ctx, draft.ID)
	require.NoError(t, err)
	assert.False(t, claimed)

	// Our cycle read its due list before the other cycle committed, so the
	// already-claimed post is still in it.
	repo.findDue = func() ([]uuid.UUID, error) {
		return []uuid.UUID{draft.ID}, nil
	}

	require.NoError(t, svc.RunScheduledPublishCycle(ctx))

	p, err := svc.GetOwned(ctx, draft.ID, authorID)
	require.NoError(t, err)
	assert.Equal(t, post.StatusPublished, p.Status)
	assert.Equal(t, firstPublishedAt, *p.PublishedAt)
}

func TestRunScheduledPublishCycle_ClaimErrorDoesNotAbortBatch(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()
	authorID := uuid.New()

	failing, err := svc.CreateDraft(ctx, authorID, post.CreatePostRequest{Title: "Failing"})
	require.NoError(t, err)
	healthy, err := svc.CreateDraft(ctx, authorID, post.CreatePostRequest{Title: "Healthy"})
	require.NoError(t, err)

	past := time.Now().Add(-time.Minute)
	for _, id := range []uuid.UUID{failing.ID, healthy.ID} {
		repo.posts[id].Status = post.StatusScheduled
		repo.posts[id].ScheduledFor = &past
	}

	repo.claim = func(id uuid.UUID) (bool, error) {
		if id == failing.ID {
			return false, errors.New("connection reset")
		}
		return repo.doClaim(id)
	}

	// One failed claim is logged and the batch continues.
	require.NoError(t, svc.RunScheduledPublishCycle(ctx))

	p, err := svc.GetOwned(ctx, failing.ID, authorID)
	require.NoError(t, err)
	assert.Equal(t, post.StatusScheduled, p.Status)
	assert.Nil(t, p.PublishedAt)

	p, err = svc.GetOwned(ctx, healthy.ID, authorID)
	require.NoError(t, err)
	assert.Equal(t, post.StatusPublished, p.Status)
	assert.NotNil(t, p.PublishedAt)
}

func TestGetPublished_ReadThroughAndInvalidation(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()
	authorID := uuid.New()

	draft, err := svc.CreateDraft(ctx, authorID, post.CreatePostRequest{
		Title:   "Cached",
		Content: "v1",
	})
	require.NoError(t, err)
	_, err = svc.Publish(ctx, draft.ID, authorID)
	require.NoError(t, err)

	got, err := svc.GetPublished(ctx, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, "v1", got.Content)

	// Mutate behind the cache's back: the stale copy is still served.
	repo.posts[draft.ID].Content = "v2-direct"
	got, err = svc.GetPublished(ctx, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, "v1", got.Content)

	// An edit through the service invalidates after commit.
	newContent := "v3"
	_, err = svc.Update(ctx, draft.ID, authorID, post.UpdatePostRequest{Content: &newContent})
	require.NoError(t, err)

	got, err = svc.GetPublished(ctx, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, "v3", got.Content)
}

func TestGetPublished_DraftIsNotVisible(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	draft, err := svc.CreateDraft(ctx, uuid.New(), post.CreatePostRequest{Title: "Hidden"})
	require.NoError(t, err)

	_, err = svc.GetPublished(ctx, draft.ID)
	assert.ErrorIs(t, err, post.ErrPostNotFound)
}

func TestListPublished_CacheInvalidatedByPublish(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	authorID := uuid.New()

	first, err := svc.CreateDraft(ctx, authorID, post.CreatePostRequest{Title: "First"})
	require.NoError(t, err)
	_, err = svc.Publish(ctx, first.ID, authorID)
	require.NoError(t, err)

	result, err := svc.ListPublished(ctx, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Pagination.Total)

	second, err := svc.CreateDraft(ctx, authorID, post.CreatePostRequest{Title: "Second"})
	require.NoError(t, err)
	_, err = svc.Publish(ctx, second.ID, authorID)
	require.NoError(t, err)

	result, err = svc.ListPublished(ctx, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Pagination.Total)
}

func TestListOwned_ClampsPagination(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	authorID := uuid.New()

	_, err := svc.CreateDraft(ctx, authorID, post.CreatePostRequest{Title: "Only One"})
	require.NoError(t, err)

	result, err := svc.ListOwned(ctx, authorID, -5, 10000)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Pagination.Page)
	assert.Equal(t, 100, result.Pagination.Limit)
	assert.Equal(t, 1, result.Pagination.Total)
}
