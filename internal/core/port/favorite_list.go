package port

import (
	"context"
	"encoding/json"

	"bilibili-favorites-service/internal/core/domain"
)

// FavoriteListPort - contract for the upstream favorite-list client.
type FavoriteListPort interface {
	// FavoriteList builds a handle for the list with the given media id. No I/O is done.
	FavoriteList(mediaID int64) FavoriteListHandle
}

// FavoriteListHandle issues calls against one remote favorite list.
// Payloads are returned verbatim from the upstream.
type FavoriteListHandle interface {
	MediaID() int64
	GetInfo(ctx context.Context) (json.RawMessage, error)
	GetContent(ctx context.Context, page int) (*domain.ContentPage, error)
	GetContentIDsInfo(ctx context.Context) (json.RawMessage, error)
}

// VideoPort - contract for video lookups on the upstream.
type VideoPort interface {
	VideoPages(ctx context.Context, bvid string) ([]domain.VideoPage, error)
}
