package bilibili

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"

	"github.com/pkg/errors"

	"bilibili-favorites-service/internal/contextkeys"
	"bilibili-favorites-service/internal/core/domain"
	"bilibili-favorites-service/internal/core/port"
)

// PageSize is the number of medias the web player shows per page.
const PageSize = 20

// FavoriteListHandle provides operations on one favorite list.
type FavoriteListHandle struct {
	client  *Client
	mediaID int64
}

// FavoriteList gets a handle for a favorite list. No request is made.
func (c *Client) FavoriteList(mediaID int64) port.FavoriteListHandle {
	return &FavoriteListHandle{client: c, mediaID: mediaID}
}

func (h *FavoriteListHandle) MediaID() int64 {
	return h.mediaID
}

func (h *FavoriteListHandle) mediaIDParam() string {
	return strconv.FormatInt(h.mediaID, 10)
}

// GetInfo retrieves the list's metadata (title, owner, media_count, ...).
func (h *FavoriteListHandle) GetInfo(ctx context.Context) (json.RawMessage, error) {
	data, err := h.client.get(ctx, "/x/v3/fav/folder/info", url.Values{
		"media_id": {h.mediaIDParam()},
	})
	if err != nil {
		return nil, errors.Wrapf(err, "get info of favorite list %d", h.mediaID)
	}
	return data, nil
}

// GetContent retrieves one page of medias, newest first. Pages start at 1; page < 1
// fetches page 1 and the returned ContentPage carries the page actually fetched.
func (h *FavoriteListHandle) GetContent(ctx context.Context, page int) (*domain.ContentPage, error) {
	if page < 1 {
		page = 1
	}

	data, err := h.client.get(ctx, "/x/v3/fav/resource/list", url.Values{
		"media_id": {h.mediaIDParam()},
		"pn":       {strconv.Itoa(page)},
		"ps":       {strconv.Itoa(PageSize)},
		"keyword":  {""},
		"order":    {"mtime"},
		"type":     {"0"},
		"tid":      {"0"},
		"platform": {"web"},
	})
	if err != nil {
		return nil, errors.Wrapf(err, "get page %d of favorite list %d", page, h.mediaID)
	}

	medias, hasMore := h.decodeContent(ctx, data)
	return &domain.ContentPage{
		Page:    page,
		Medias:  medias,
		HasMore: hasMore,
		Raw:     data,
	}, nil
}

// decodeContent reads medias and has_more out of a content page. Fields that are
// missing or of an unexpected type fall back to empty/false; Raw keeps them as sent.
func (h *FavoriteListHandle) decodeContent(ctx context.Context, data json.RawMessage) ([]json.RawMessage, bool) {
	if len(data) == 0 {
		return nil, false
	}

	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "BilibiliClient",
		"media_id":  h.mediaID,
	})

	var body contentResponse
	if err := json.Unmarshal(data, &body); err != nil {
		logger.Warn("Content page is not an object, passing it through", port.Fields{"error": err.Error()})
		return nil, false
	}

	var medias []json.RawMessage
	if len(body.Medias) > 0 {
		if err := json.Unmarshal(body.Medias, &medias); err != nil {
			logger.Warn("Unexpected medias in content page", port.Fields{"error": err.Error()})
			medias = nil
		}
	}

	var hasMore bool
	if len(body.HasMore) > 0 {
		if err := json.Unmarshal(body.HasMore, &hasMore); err != nil {
			logger.Warn("Unexpected has_more in content page", port.Fields{"error": err.Error()})
			hasMore = false
		}
	}

	return medias, hasMore
}

// GetContentIDsInfo retrieves the ids of every media in the list, in one call.
func (h *FavoriteListHandle) GetContentIDsInfo(ctx context.Context) (json.RawMessage, error) {
	data, err := h.client.get(ctx, "/x/v3/fav/resource/ids", url.Values{
		"media_id": {h.mediaIDParam()},
		"platform": {"web"},
	})
	if err != nil {
		return nil, errors.Wrapf(err, "get content ids of favorite list %d", h.mediaID)
	}
	return data, nil
}
