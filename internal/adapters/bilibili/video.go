package bilibili

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/pkg/errors"

	"bilibili-favorites-service/internal/core/domain"
)

// VideoPages lists the parts of a (possibly multi-part) video.
func (c *Client) VideoPages(ctx context.Context, bvid string) ([]domain.VideoPage, error) {
	data, err := c.get(ctx, "/x/player/pagelist", url.Values{"bvid": {bvid}})
	if err != nil {
		return nil, errors.Wrapf(err, "get pages of video %s", bvid)
	}

	var parts []videoPartResponse
	if len(data) > 0 {
		if err := json.Unmarshal(data, &parts); err != nil {
			return nil, errors.Wrapf(&TransportError{Op: "decode page list", Err: err}, "get pages of video %s", bvid)
		}
	}

	pages := make([]domain.VideoPage, len(parts))
	for i, p := range parts {
		pages[i] = domain.VideoPage{
			Page:     p.Page,
			Title:    p.Part,
			Duration: p.Duration,
			Cover:    p.FirstFrame,
		}
	}
	return pages, nil
}
