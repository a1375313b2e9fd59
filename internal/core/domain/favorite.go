package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// FavoriteListID - numeric media id of a favorite list.
type FavoriteListID int64

// ParseFavoriteListID parses the fid path segment. It is the only validation done locally.
func ParseFavoriteListID(raw string) (FavoriteListID, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidFavoriteID, raw)
	}
	return FavoriteListID(id), nil
}

// ContentPage - one page of media items of a favorite list.
type ContentPage struct {
	// Page is the page that was fetched, which may differ from the one requested.
	Page int

	Medias  []json.RawMessage
	HasMore bool

	// Raw is the upstream payload as received.
	Raw json.RawMessage
}

// VideoList - everything the web UI needs to render a favorite list on first load.
type VideoList struct {
	FID       string
	Info      json.RawMessage
	IDsList   json.RawMessage
	FirstPage json.RawMessage
}
