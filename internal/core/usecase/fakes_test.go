package usecase

import (
	"context"
	"encoding/json"

	"bilibili-favorites-service/internal/core/domain"
	"bilibili-favorites-service/internal/core/port"
)

// fakeFavorites records calls in order and returns canned payloads.
type fakeFavorites struct {
	calls []string

	mediaID int64
	page    int

	info    json.RawMessage
	content *domain.ContentPage
	ids     json.RawMessage

	infoErr    error
	contentErr error
	idsErr     error
}

func (f *fakeFavorites) FavoriteList(mediaID int64) port.FavoriteListHandle {
	f.mediaID = mediaID
	return &fakeHandle{f: f}
}

type fakeHandle struct {
	f *fakeFavorites
}

func (h *fakeHandle) MediaID() int64 { return h.f.mediaID }

func (h *fakeHandle) GetInfo(ctx context.Context) (json.RawMessage, error) {
	h.f.calls = append(h.f.calls, "info")
	return h.f.info, h.f.infoErr
}

func (h *fakeHandle) GetContent(ctx context.Context, page int) (*domain.ContentPage, error) {
	h.f.calls = append(h.f.calls, "content")
	h.f.page = page
	if h.f.contentErr != nil {
		return nil, h.f.contentErr
	}
	// hand out a copy so callers cannot mutate the canned page
	c := *h.f.content
	return &c, nil
}

func (h *fakeHandle) GetContentIDsInfo(ctx context.Context) (json.RawMessage, error) {
	h.f.calls = append(h.f.calls, "ids")
	return h.f.ids, h.f.idsErr
}

type fakeVideos struct {
	bvid  string
	pages []domain.VideoPage
	err   error
}

func (f *fakeVideos) VideoPages(ctx context.Context, bvid string) ([]domain.VideoPage, error) {
	f.bvid = bvid
	return f.pages, f.err
}
