package ports

import "context"

// ViewEvent is a single "post was opened" occurrence. ViewerKey identifies
// the viewer for dedup purposes: the user id when authenticated, otherwise
// the client address.
type ViewEvent struct {
	PostID    string
	ViewerKey string
}

// ViewService processes view events off the request path.
type ViewService interface {
	Process(ctx context.Context, event ViewEvent) error
}
