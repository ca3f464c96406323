package ports

import (
	"context"

	"github.com/socialblog/blogging-system/internal/core/domain"
)

// PostRepository defines persistence for blog posts.
type PostRepository interface {
	Create(ctx context.Context, post *domain.Post) (*domain.Post, error)
	FindByID(ctx context.Context, id string) (*domain.Post, error)

	// List returns one page of posts, newest first, plus the total count.
	List(ctx context.Context, page, limit int) ([]domain.Post, int64, error)

	Update(ctx context.Context, post *domain.Post) (*domain.Post, error)
	Delete(ctx context.Context, id string) error

	IncrementViews(ctx context.Context, id string) error

	// AddLike records a like once per user. Returns true when the like
	// was applied, false when the user had already liked the post.
	AddLike(ctx context.Context, postID, userID string) (bool, error)
}
