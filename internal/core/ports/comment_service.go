package ports

import (
	"context"

	"github.com/socialblog/blogging-system/internal/core/domain"
)

type CommentService interface {
	Add(ctx context.Context, postID, authorID, content string) (*domain.Comment, error)
	ListByPost(ctx context.Context, postID string) ([]domain.Comment, error)
}
