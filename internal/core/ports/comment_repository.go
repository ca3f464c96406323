package ports

import (
	"context"

	"github.com/socialblog/blogging-system/internal/core/domain"
)

// CommentRepository defines persistence for post comments.
type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) (*domain.Comment, error)
	ListByPost(ctx context.Context, postID string) ([]domain.Comment, error)
}
