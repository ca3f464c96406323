package ports

import (
	"context"

	"github.com/socialblog/blogging-system/internal/core/domain"
)

type CreatePostInput struct {
	Title   string
	Summary string
	Content string
	Image   string
	Tags    []string
}

type UpdatePostInput struct {
	Title   *string
	Summary *string
	Content *string
	Image   *string
	Tags    []string
}

// PostPage is one page of the post listing.
type PostPage struct {
	Posts      []domain.Post
	Page       int
	Limit      int
	Total      int64
	TotalPages int
	HasNext    bool
	HasPrev    bool
}

// PostService implements the post CRUD operations. Mutations are
// author-only; the caller passes the user id attached by the auth
// middleware.
type PostService interface {
	Create(ctx context.Context, authorID string, in CreatePostInput) (*domain.Post, error)

	// Get fetches a post and records a view for viewerKey (best effort).
	Get(ctx context.Context, id, viewerKey string) (*domain.Post, error)

	List(ctx context.Context, page, limit int) (*PostPage, error)
	Update(ctx context.Context, id, userID string, in UpdatePostInput) (*domain.Post, error)
	Delete(ctx context.Context, id, userID string) error
	Like(ctx context.Context, id, userID string) (*domain.Post, error)
}
