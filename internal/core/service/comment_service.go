package service

import (
	"context"
	"strings"
	"time"

	"github.com/socialblog/blogging-system/internal/core/domain"
	"github.com/socialblog/blogging-system/internal/core/ports"
)

// CommentService implements comment creation and listing. A comment can
// only be attached to an existing post.
type CommentService struct {
	comments ports.CommentRepository
	posts    ports.PostRepository
}

func NewCommentService(comments ports.CommentRepository, posts ports.PostRepository) *CommentService {
	return &CommentService{comments: comments, posts: posts}
}

func (s *CommentService) Add(ctx context.Context, postID, authorID, content string) (*domain.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" || authorID == "" {
		return nil, domain.ErrValidation
	}

	if _, err := s.posts.FindByID(ctx, postID); err != nil {
		return nil, err
	}

	comment := &domain.Comment{
		PostID:    postID,
		AuthorID:  authorID,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	return s.comments.Create(ctx, comment)
}

func (s *CommentService) ListByPost(ctx context.Context, postID string) ([]domain.Comment, error) {
	if _, err := s.posts.FindByID(ctx, postID); err != nil {
		return nil, err
	}
	return s.comments.ListByPost(ctx, postID)
}
