package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/socialblog/blogging-system/internal/api"
	"github.com/socialblog/blogging-system/internal/api/handler"
	"github.com/socialblog/blogging-system/internal/api/middleware"
	"github.com/socialblog/blogging-system/internal/core/domain"
	"github.com/socialblog/blogging-system/internal/core/ports"
)

type stubPostService struct {
	createFn func(ctx context.Context, authorID string, in ports.CreatePostInput) (*domain.Post, error)
	getFn    func(ctx context.Context, id, viewerKey string) (*domain.Post, error)
	listFn   func(ctx context.Context, page, limit int) (*ports.PostPage, error)
	updateFn func(ctx context.Context, id, userID string, in ports.UpdatePostInput) (*domain.Post, error)
	deleteFn func(ctx context.Context, id, userID string) error
	likeFn   func(ctx context.Context, id, userID string) (*domain.Post, error)
}

func (s *stubPostService) Create(ctx context.Context, authorID string, in ports.CreatePostInput) (*domain.Post, error) {
	return s.createFn(ctx, authorID, in)
}

func (s *stubPostService) Get(ctx context.Context, id, viewerKey string) (*domain.Post, error) {
	return s.getFn(ctx, id, viewerKey)
}

func (s *stubPostService) List(ctx context.Context, page, limit int) (*ports.PostPage, error) {
	return s.listFn(ctx, page, limit)
}

func (s *stubPostService) Update(ctx context.Context, id, userID string, in ports.UpdatePostInput) (*domain.Post, error) {
	return s.updateFn(ctx, id, userID, in)
}

func (s *stubPostService) Delete(ctx context.Context, id, userID string) error {
	return s.deleteFn(ctx, id, userID)
}

func (s *stubPostService) Like(ctx context.Context, id, userID string) (*domain.Post, error) {
	return s.likeFn(ctx, id, userID)
}

type stubCommentService struct {
	addFn  func(ctx context.Context, postID, authorID, content string) (*domain.Comment, error)
	listFn func(ctx context.Context, postID string) ([]domain.Comment, error)
}

func (s *stubCommentService) Add(ctx context.Context, postID, authorID, content string) (*domain.Comment, error) {
	return s.addFn(ctx, postID, authorID, content)
}

func (s *stubCommentService) ListByPost(ctx context.Context, postID string) ([]domain.Comment, error) {
	return s.listFn(ctx, postID)
}

func newPostEcho(posts ports.PostService, comments ports.CommentService) *echo.Echo {
	e := echo.New()
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = api.NewHTTPErrorHandler(zerolog.Nop())

	ph := handler.NewPostHandler(posts)
	ch := handler.NewCommentHandler(comments)
	requireAuth := middleware.VerifyAccessToken(testJWTSecret)

	e.GET("/posts", ph.List)
	e.GET("/posts/:id", ph.Get)
	e.POST("/posts", ph.Create, requireAuth)
	e.PUT("/posts/:id", ph.Update, requireAuth)
	e.DELETE("/posts/:id", ph.Delete, requireAuth)
	e.POST("/posts/:id/like", ph.Like, requireAuth)
	e.GET("/posts/:id/comments", ch.List)
	e.POST("/posts/:id/comments", ch.Add, requireAuth)
	return e
}

func TestPostHandler_List(t *testing.T) {
	posts := &stubPostService{
		listFn: func(_ context.Context, page, limit int) (*ports.PostPage, error) {
			if page != 2 || limit != 5 {
				t.Fatalf("expected page=2 limit=5, got %d/%d", page, limit)
			}
			return &ports.PostPage{
				Posts:      []domain.Post{{ID: "p1", Title: "t"}},
				Page:       2,
				Limit:      5,
				Total:      11,
				TotalPages: 3,
				HasNext:    true,
				HasPrev:    true,
			}, nil
		},
	}
	e := newPostEcho(posts, nil)

	rec := doJSON(e, http.MethodGet, "/posts?page=2&limit=5", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body struct {
		Success    bool `json:"success"`
		Data       []domain.Post
		Pagination struct {
			CurrentPage int   `json:"currentPage"`
			TotalPosts  int64 `json:"totalPosts"`
			HasNext     bool  `json:"hasNextPage"`
		} `json:"pagination"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !body.Success || len(body.Data) != 1 || body.Pagination.TotalPosts != 11 || !body.Pagination.HasNext {
		t.Fatalf("unexpected body: %s", rec.Body)
	}
}

func TestPostHandler_Get(t *testing.T) {
	posts := &stubPostService{
		getFn: func(_ context.Context, id, viewerKey string) (*domain.Post, error) {
			if id != "p1" {
				return nil, domain.ErrPostNotFound
			}
			if viewerKey == "" {
				t.Fatalf("expected a viewer key for anonymous reads")
			}
			return &domain.Post{ID: "p1", Title: "t"}, nil
		},
	}
	e := newPostEcho(posts, nil)

	rec := doJSON(e, http.MethodGet, "/posts/p1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec = doJSON(e, http.MethodGet, "/posts/missing", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestPostHandler_Create(t *testing.T) {
	posts := &stubPostService{
		createFn: func(_ context.Context, authorID string, in ports.CreatePostInput) (*domain.Post, error) {
			if authorID != "u1" {
				t.Fatalf("expected author u1, got %q", authorID)
			}
			return &domain.Post{ID: "p1", Title: in.Title, AuthorID: authorID}, nil
		},
	}
	e := newPostEcho(posts, nil)

	rec := doJSON(e, http.MethodPost, "/posts", `{"title":"t","content":"body"}`, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+bearerToken(t, "u1", time.Minute))
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body)
	}

	// Unauthenticated.
	rec = doJSON(e, http.MethodPost, "/posts", `{"title":"t","content":"body"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	// Missing title.
	rec = doJSON(e, http.MethodPost, "/posts", `{"content":"body"}`, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+bearerToken(t, "u1", time.Minute))
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestPostHandler_Update_Forbidden(t *testing.T) {
	posts := &stubPostService{
		updateFn: func(_ context.Context, _, _ string, _ ports.UpdatePostInput) (*domain.Post, error) {
			return nil, domain.ErrForbidden
		},
	}
	e := newPostEcho(posts, nil)

	rec := doJSON(e, http.MethodPut, "/posts/p1", `{"title":"new"}`, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+bearerToken(t, "u2", time.Minute))
	})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestPostHandler_Delete(t *testing.T) {
	var deleted string
	posts := &stubPostService{
		deleteFn: func(_ context.Context, id, userID string) error {
			deleted = id + "/" + userID
			return nil
		},
	}
	e := newPostEcho(posts, nil)

	rec := doJSON(e, http.MethodDelete, "/posts/p1", "", func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+bearerToken(t, "u1", time.Minute))
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if deleted != "p1/u1" {
		t.Fatalf("unexpected delete call %q", deleted)
	}
}

func TestPostHandler_Like(t *testing.T) {
	posts := &stubPostService{
		likeFn: func(_ context.Context, id, userID string) (*domain.Post, error) {
			return &domain.Post{ID: id, Likes: 1}, nil
		},
	}
	e := newPostEcho(posts, nil)

	rec := doJSON(e, http.MethodPost, "/posts/p1/like", "", func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+bearerToken(t, "u2", time.Minute))
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body struct {
		Data domain.Post `json:"data"`
	}
	json.Unmarshal(rec.Body.Bytes(), &body)
	if body.Data.Likes != 1 {
		t.Fatalf("expected 1 like, got %s", rec.Body)
	}
}

func TestCommentHandler(t *testing.T) {
	comments := &stubCommentService{
		addFn: func(_ context.Context, postID, authorID, content string) (*domain.Comment, error) {
			if postID != "p1" {
				return nil, domain.ErrPostNotFound
			}
			return &domain.Comment{ID: "c1", PostID: postID, AuthorID: authorID, Content: content}, nil
		},
		listFn: func(_ context.Context, postID string) ([]domain.Comment, error) {
			if postID != "p1" {
				return nil, domain.ErrPostNotFound
			}
			return []domain.Comment{{ID: "c1", PostID: postID}}, nil
		},
	}
	e := newPostEcho(nil, comments)

	rec := doJSON(e, http.MethodPost, "/posts/p1/comments", `{"content":"nice"}`, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+bearerToken(t, "u2", time.Minute))
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body)
	}

	rec = doJSON(e, http.MethodGet, "/posts/p1/comments", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec = doJSON(e, http.MethodPost, "/posts/missing/comments", `{"content":"nice"}`, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+bearerToken(t, "u2", time.Minute))
	})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
