package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/socialblog/blogging-system/internal/core/domain"
	"github.com/socialblog/blogging-system/internal/core/ports"
)

type memCommentRepo struct {
	mu       sync.Mutex
	seq      int
	comments []domain.Comment
}

func (r *memCommentRepo) Create(_ context.Context, comment *domain.Comment) (*domain.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	clone := *comment
	clone.ID = fmt.Sprintf("c%d", r.seq)
	r.comments = append(r.comments, clone)
	out := clone
	return &out, nil
}

func (r *memCommentRepo) ListByPost(_ context.Context, postID string) ([]domain.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Comment
	for _, c := range r.comments {
		if c.PostID == postID {
			out = append(out, c)
		}
	}
	return out, nil
}

func newTestCommentService(t *testing.T) (*CommentService, *domain.Post) {
	t.Helper()
	posts := newMemPostRepo()
	post := seedPost(t, posts)
	return NewCommentService(&memCommentRepo{}, posts), post
}

func TestCommentService_Add(t *testing.T) {
	svc, post := newTestCommentService(t)

	comment, err := svc.Add(context.Background(), post.ID, "u2", "  nice post  ")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if comment.ID == "" || comment.Content != "nice post" {
		t.Fatalf("unexpected comment: %+v", comment)
	}

	list, err := svc.ListByPost(context.Background(), post.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].AuthorID != "u2" {
		t.Fatalf("unexpected list: %+v", list)
	}
}

func TestCommentService_Add_Validation(t *testing.T) {
	svc, post := newTestCommentService(t)

	if _, err := svc.Add(context.Background(), post.ID, "u2", "   "); err != domain.ErrValidation {
		t.Fatalf("blank content: expected ErrValidation, got %v", err)
	}
	if _, err := svc.Add(context.Background(), post.ID, "", "hi"); err != domain.ErrValidation {
		t.Fatalf("missing author: expected ErrValidation, got %v", err)
	}
}

func TestCommentService_UnknownPost(t *testing.T) {
	svc, _ := newTestCommentService(t)

	if _, err := svc.Add(context.Background(), "missing", "u2", "hi"); !errors.Is(err, domain.ErrPostNotFound) {
		t.Fatalf("add: expected ErrPostNotFound, got %v", err)
	}
	if _, err := svc.ListByPost(context.Background(), "missing"); !errors.Is(err, domain.ErrPostNotFound) {
		t.Fatalf("list: expected ErrPostNotFound, got %v", err)
	}
}

var _ ports.CommentRepository = (*memCommentRepo)(nil)
