package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/socialblog/blogging-system/internal/api/metrics"
	"github.com/socialblog/blogging-system/internal/core/ports"
)

// ViewDeduper suppresses repeat views from the same viewer inside a TTL
// window. Backed by Redis in production.
type ViewDeduper interface {
	IsDuplicate(ctx context.Context, postID, viewerKey string) (bool, error)
	Mark(ctx context.Context, postID, viewerKey string) error
}

// ViewService applies view events to the post store. Dedup failures are
// treated as misses: losing a duplicate check must never lose a view.
type ViewService struct {
	repo  ports.PostRepository
	dedup ViewDeduper
	log   zerolog.Logger
}

func NewViewService(repo ports.PostRepository, dedup ViewDeduper, log zerolog.Logger) *ViewService {
	return &ViewService{repo: repo, dedup: dedup, log: log}
}

func (s *ViewService) Process(ctx context.Context, event ports.ViewEvent) error {
	if s.dedup != nil {
		dup, err := s.dedup.IsDuplicate(ctx, event.PostID, event.ViewerKey)
		if err != nil {
			s.log.Warn().Err(err).Str("post_id", event.PostID).Msg("view dedup check failed")
		} else if dup {
			metrics.PostViewsTotal.WithLabelValues("duplicate").Inc()
			return nil
		}
	}

	if err := s.repo.IncrementViews(ctx, event.PostID); err != nil {
		return err
	}

	if s.dedup != nil {
		if err := s.dedup.Mark(ctx, event.PostID, event.ViewerKey); err != nil {
			s.log.Warn().Err(err).Str("post_id", event.PostID).Msg("view dedup mark failed")
		}
	}

	metrics.PostViewsTotal.WithLabelValues("counted").Inc()
	return nil
}
