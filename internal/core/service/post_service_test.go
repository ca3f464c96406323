package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/socialblog/blogging-system/internal/core/domain"
	"github.com/socialblog/blogging-system/internal/core/ports"
)

// memPostRepo is an in-memory post store for tests.
type memPostRepo struct {
	mu    sync.Mutex
	seq   int
	posts map[string]*domain.Post
}

func newMemPostRepo() *memPostRepo {
	return &memPostRepo{posts: make(map[string]*domain.Post)}
}

func (r *memPostRepo) Create(_ context.Context, post *domain.Post) (*domain.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	clone := *post
	clone.ID = fmt.Sprintf("p%d", r.seq)
	r.posts[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *memPostRepo) FindByID(_ context.Context, id string) (*domain.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.posts[id]; ok {
		clone := *p
		return &clone, nil
	}
	return nil, domain.ErrPostNotFound
}

func (r *memPostRepo) List(_ context.Context, page, limit int) ([]domain.Post, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := make([]domain.Post, 0, len(r.posts))
	for _, p := range r.posts {
		all = append(all, *p)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	total := int64(len(all))
	start := (page - 1) * limit
	if start >= len(all) {
		return nil, total, nil
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (r *memPostRepo) Update(_ context.Context, post *domain.Post) (*domain.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.posts[post.ID]; !ok {
		return nil, domain.ErrPostNotFound
	}
	clone := *post
	r.posts[post.ID] = &clone
	out := clone
	return &out, nil
}

func (r *memPostRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.posts[id]; !ok {
		return domain.ErrPostNotFound
	}
	delete(r.posts, id)
	return nil
}

func (r *memPostRepo) IncrementViews(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id]
	if !ok {
		return domain.ErrPostNotFound
	}
	p.Views++
	return nil
}

func (r *memPostRepo) AddLike(_ context.Context, postID, userID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[postID]
	if !ok {
		return false, domain.ErrPostNotFound
	}
	for _, id := range p.LikedBy {
		if id == userID {
			return false, nil
		}
	}
	p.LikedBy = append(p.LikedBy, userID)
	p.Likes++
	return true, nil
}

// captureSink records enqueued view events.
type captureSink struct {
	events []ports.ViewEvent
}

func (s *captureSink) Enqueue(event ports.ViewEvent) {
	s.events = append(s.events, event)
}

func TestPostService_Create(t *testing.T) {
	svc := NewPostService(newMemPostRepo(), nil)

	post, err := svc.Create(context.Background(), "u1", ports.CreatePostInput{
		Title:   "  First Post  ",
		Content: "Hello world",
		Tags:    []string{" go ", "", "web"},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if post.ID == "" {
		t.Fatalf("expected assigned id")
	}
	if post.Title != "First Post" {
		t.Fatalf("expected trimmed title, got %q", post.Title)
	}
	if len(post.Tags) != 2 || post.Tags[0] != "go" || post.Tags[1] != "web" {
		t.Fatalf("unexpected tags: %v", post.Tags)
	}
	if post.Summary != "Hello world" {
		t.Fatalf("expected content as summary, got %q", post.Summary)
	}
}

func TestPostService_Create_Validation(t *testing.T) {
	svc := NewPostService(newMemPostRepo(), nil)

	cases := []struct {
		authorID string
		in       ports.CreatePostInput
	}{
		{"u1", ports.CreatePostInput{Title: "", Content: "body"}},
		{"u1", ports.CreatePostInput{Title: "t", Content: "   "}},
		{"", ports.CreatePostInput{Title: "t", Content: "body"}},
	}
	for _, c := range cases {
		if _, err := svc.Create(context.Background(), c.authorID, c.in); err != domain.ErrValidation {
			t.Fatalf("input %+v: expected ErrValidation, got %v", c.in, err)
		}
	}
}

func TestPostService_Create_TruncatesSummary(t *testing.T) {
	svc := NewPostService(newMemPostRepo(), nil)

	long := strings.Repeat("é", 200)
	post, err := svc.Create(context.Background(), "u1", ports.CreatePostInput{
		Title:   "t",
		Content: long,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	want := strings.Repeat("é", 150) + "..."
	if post.Summary != want {
		t.Fatalf("expected 150-rune summary with ellipsis, got %d runes", len([]rune(post.Summary)))
	}
}

func TestPostService_Get_EnqueuesView(t *testing.T) {
	repo := newMemPostRepo()
	sink := &captureSink{}
	svc := NewPostService(repo, sink)

	created, _ := svc.Create(context.Background(), "u1", ports.CreatePostInput{Title: "t", Content: "body"})

	if _, err := svc.Get(context.Background(), created.ID, "viewer-1"); err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(sink.events) != 1 || sink.events[0].PostID != created.ID || sink.events[0].ViewerKey != "viewer-1" {
		t.Fatalf("unexpected events: %+v", sink.events)
	}

	// No viewer key means no event.
	if _, err := svc.Get(context.Background(), created.ID, ""); err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(sink.events) != 1 {
		t.Fatalf("expected no event for empty viewer key")
	}

	if _, err := svc.Get(context.Background(), "missing", "viewer-1"); err != domain.ErrPostNotFound {
		t.Fatalf("expected ErrPostNotFound, got %v", err)
	}
}

func TestPostService_List_Pagination(t *testing.T) {
	repo := newMemPostRepo()
	svc := NewPostService(repo, nil)

	for i := 0; i < 25; i++ {
		repo.Create(context.Background(), &domain.Post{
			Title:     fmt.Sprintf("post %d", i),
			Content:   "body",
			AuthorID:  "u1",
			CreatedAt: time.Now().Add(time.Duration(i) * time.Second),
		})
	}

	page, err := svc.List(context.Background(), 2, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.Total != 25 || page.TotalPages != 3 {
		t.Fatalf("expected total 25 in 3 pages, got %d in %d", page.Total, page.TotalPages)
	}
	if len(page.Posts) != 10 {
		t.Fatalf("expected 10 posts, got %d", len(page.Posts))
	}
	if !page.HasNext || !page.HasPrev {
		t.Fatalf("middle page should have both neighbours: %+v", page)
	}

	last, _ := svc.List(context.Background(), 3, 10)
	if len(last.Posts) != 5 || last.HasNext || !last.HasPrev {
		t.Fatalf("unexpected last page: %d posts, hasNext=%v hasPrev=%v", len(last.Posts), last.HasNext, last.HasPrev)
	}

	// Out-of-range inputs are clamped.
	clamped, _ := svc.List(context.Background(), 0, 500)
	if clamped.Page != 1 || clamped.Limit != maxPageLimit {
		t.Fatalf("expected clamped page=1 limit=%d, got page=%d limit=%d", maxPageLimit, clamped.Page, clamped.Limit)
	}
}

func TestPostService_Update_AuthorOnly(t *testing.T) {
	svc := NewPostService(newMemPostRepo(), nil)
	created, _ := svc.Create(context.Background(), "u1", ports.CreatePostInput{Title: "t", Content: "body"})

	title := "updated"
	if _, err := svc.Update(context.Background(), created.ID, "u2", ports.UpdatePostInput{Title: &title}); err != domain.ErrForbidden {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	updated, err := svc.Update(context.Background(), created.ID, "u1", ports.UpdatePostInput{Title: &title})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Title != "updated" || updated.Content != "body" {
		t.Fatalf("unexpected post after update: %+v", updated)
	}

	empty := "  "
	if _, err := svc.Update(context.Background(), created.ID, "u1", ports.UpdatePostInput{Title: &empty}); err != domain.ErrValidation {
		t.Fatalf("expected ErrValidation for blank title, got %v", err)
	}
}

func TestPostService_Delete_AuthorOnly(t *testing.T) {
	svc := NewPostService(newMemPostRepo(), nil)
	created, _ := svc.Create(context.Background(), "u1", ports.CreatePostInput{Title: "t", Content: "body"})

	if err := svc.Delete(context.Background(), created.ID, "u2"); err != domain.ErrForbidden {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := svc.Delete(context.Background(), created.ID, "u1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.Get(context.Background(), created.ID, ""); !errors.Is(err, domain.ErrPostNotFound) {
		t.Fatalf("expected ErrPostNotFound after delete, got %v", err)
	}
}

func TestPostService_Like_OncePerUser(t *testing.T) {
	svc := NewPostService(newMemPostRepo(), nil)
	created, _ := svc.Create(context.Background(), "u1", ports.CreatePostInput{Title: "t", Content: "body"})

	post, err := svc.Like(context.Background(), created.ID, "u2")
	if err != nil {
		t.Fatalf("like: %v", err)
	}
	if post.Likes != 1 {
		t.Fatalf("expected 1 like, got %d", post.Likes)
	}

	post, err = svc.Like(context.Background(), created.ID, "u2")
	if err != nil {
		t.Fatalf("repeat like: %v", err)
	}
	if post.Likes != 1 {
		t.Fatalf("repeat like must not increment, got %d", post.Likes)
	}

	if _, err := svc.Like(context.Background(), "missing", "u2"); err != domain.ErrPostNotFound {
		t.Fatalf("expected ErrPostNotFound, got %v", err)
	}
}
