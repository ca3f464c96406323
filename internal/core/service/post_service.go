package service

import (
	"context"
	"strings"
	"time"

	"github.com/socialblog/blogging-system/internal/api/metrics"
	"github.com/socialblog/blogging-system/internal/core/domain"
	"github.com/socialblog/blogging-system/internal/core/ports"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 50
	summaryMaxRunes  = 150
)

// ViewSink receives view events for asynchronous processing. The post
// service never blocks a read on view accounting.
type ViewSink interface {
	Enqueue(event ports.ViewEvent)
}

// PostService implements post CRUD with author-only mutations.
type PostService struct {
	repo  ports.PostRepository
	views ViewSink
}

// NewPostService builds a PostService. views may be nil, in which case
// view events are dropped.
func NewPostService(repo ports.PostRepository, views ViewSink) *PostService {
	return &PostService{repo: repo, views: views}
}

func (s *PostService) Create(ctx context.Context, authorID string, in ports.CreatePostInput) (*domain.Post, error) {
	title := strings.TrimSpace(in.Title)
	content := strings.TrimSpace(in.Content)
	if title == "" || content == "" || authorID == "" {
		return nil, domain.ErrValidation
	}

	summary := strings.TrimSpace(in.Summary)
	if summary == "" {
		summary = truncateSummary(content)
	}

	now := time.Now().UTC()
	post := &domain.Post{
		Title:     title,
		Summary:   summary,
		Content:   content,
		Image:     strings.TrimSpace(in.Image),
		Tags:      cleanTags(in.Tags),
		AuthorID:  authorID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	created, err := s.repo.Create(ctx, post)
	if err != nil {
		return nil, err
	}

	metrics.PostsCreatedTotal.Inc()
	return created, nil
}

func (s *PostService) Get(ctx context.Context, id, viewerKey string) (*domain.Post, error) {
	post, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.views != nil && viewerKey != "" {
		s.views.Enqueue(ports.ViewEvent{PostID: post.ID, ViewerKey: viewerKey})
	}
	return post, nil
}

func (s *PostService) List(ctx context.Context, page, limit int) (*ports.PostPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	posts, total, err := s.repo.List(ctx, page, limit)
	if err != nil {
		return nil, err
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &ports.PostPage{
		Posts:      posts,
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1 && total > 0,
	}, nil
}

func (s *PostService) Update(ctx context.Context, id, userID string, in ports.UpdatePostInput) (*domain.Post, error) {
	post, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != userID {
		return nil, domain.ErrForbidden
	}

	if in.Title != nil {
		post.Title = strings.TrimSpace(*in.Title)
	}
	if in.Summary != nil {
		post.Summary = strings.TrimSpace(*in.Summary)
	}
	if in.Content != nil {
		post.Content = strings.TrimSpace(*in.Content)
	}
	if in.Image != nil {
		post.Image = strings.TrimSpace(*in.Image)
	}
	if in.Tags != nil {
		post.Tags = cleanTags(in.Tags)
	}
	if post.Title == "" || post.Content == "" {
		return nil, domain.ErrValidation
	}
	post.UpdatedAt = time.Now().UTC()

	return s.repo.Update(ctx, post)
}

func (s *PostService) Delete(ctx context.Context, id, userID string) error {
	post, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if post.AuthorID != userID {
		return domain.ErrForbidden
	}
	return s.repo.Delete(ctx, id)
}

// Like records at most one like per user. Liking an already-liked post is
// a no-op that still returns the current post.
func (s *PostService) Like(ctx context.Context, id, userID string) (*domain.Post, error) {
	if _, err := s.repo.AddLike(ctx, id, userID); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id)
}

func truncateSummary(content string) string {
	runes := []rune(content)
	if len(runes) <= summaryMaxRunes {
		return content
	}
	return string(runes[:summaryMaxRunes]) + "..."
}

func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
