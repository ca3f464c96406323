package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/socialblog/blogging-system/internal/core/domain"
	"github.com/socialblog/blogging-system/internal/core/ports"
)

// stubDeduper is a scriptable ViewDeduper.
type stubDeduper struct {
	dup     bool
	err     error
	marked  int
	markErr error
}

func (d *stubDeduper) IsDuplicate(_ context.Context, _, _ string) (bool, error) {
	return d.dup, d.err
}

func (d *stubDeduper) Mark(_ context.Context, _, _ string) error {
	d.marked++
	return d.markErr
}

func seedPost(t *testing.T, repo *memPostRepo) *domain.Post {
	t.Helper()
	post, err := repo.Create(context.Background(), &domain.Post{Title: "t", Content: "body", AuthorID: "u1"})
	if err != nil {
		t.Fatalf("seed post: %v", err)
	}
	return post
}

func TestViewService_CountsView(t *testing.T) {
	repo := newMemPostRepo()
	post := seedPost(t, repo)
	dedup := &stubDeduper{}
	svc := NewViewService(repo, dedup, zerolog.Nop())

	if err := svc.Process(context.Background(), ports.ViewEvent{PostID: post.ID, ViewerKey: "v1"}); err != nil {
		t.Fatalf("process: %v", err)
	}

	stored, _ := repo.FindByID(context.Background(), post.ID)
	if stored.Views != 1 {
		t.Fatalf("expected 1 view, got %d", stored.Views)
	}
	if dedup.marked != 1 {
		t.Fatalf("expected viewer marked once, got %d", dedup.marked)
	}
}

func TestViewService_SkipsDuplicate(t *testing.T) {
	repo := newMemPostRepo()
	post := seedPost(t, repo)
	svc := NewViewService(repo, &stubDeduper{dup: true}, zerolog.Nop())

	if err := svc.Process(context.Background(), ports.ViewEvent{PostID: post.ID, ViewerKey: "v1"}); err != nil {
		t.Fatalf("process: %v", err)
	}

	stored, _ := repo.FindByID(context.Background(), post.ID)
	if stored.Views != 0 {
		t.Fatalf("duplicate must not count, got %d views", stored.Views)
	}
}

// A failing dedup backend must not lose the view.
func TestViewService_DedupFailureCountsAnyway(t *testing.T) {
	repo := newMemPostRepo()
	post := seedPost(t, repo)
	dedup := &stubDeduper{err: errors.New("redis down"), markErr: errors.New("redis down")}
	svc := NewViewService(repo, dedup, zerolog.Nop())

	if err := svc.Process(context.Background(), ports.ViewEvent{PostID: post.ID, ViewerKey: "v1"}); err != nil {
		t.Fatalf("process: %v", err)
	}

	stored, _ := repo.FindByID(context.Background(), post.ID)
	if stored.Views != 1 {
		t.Fatalf("expected 1 view despite dedup failure, got %d", stored.Views)
	}
}

func TestViewService_UnknownPost(t *testing.T) {
	svc := NewViewService(newMemPostRepo(), nil, zerolog.Nop())

	err := svc.Process(context.Background(), ports.ViewEvent{PostID: "missing", ViewerKey: "v1"})
	if !errors.Is(err, domain.ErrPostNotFound) {
		t.Fatalf("expected ErrPostNotFound, got %v", err)
	}
}
