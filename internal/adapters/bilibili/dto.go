package bilibili

import "encoding/json"

// contentResponse - data of /x/v3/fav/resource/list. medias is null for an empty list.
// Fields stay raw so a change of their shape upstream does not fail the whole page.
type contentResponse struct {
	Medias  json.RawMessage `json:"medias"`
	HasMore json.RawMessage `json:"has_more"`
}

// videoPartResponse - one element of /x/player/pagelist.
type videoPartResponse struct {
	CID        int64  `json:"cid"`
	Page       int    `json:"page"`
	Part       string `json:"part"`
	Duration   int    `json:"duration"`
	FirstFrame string `json:"first_frame"`
}
