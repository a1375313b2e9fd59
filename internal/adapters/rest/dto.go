package rest

import "encoding/json"

type PingResponse struct {
	Msg string `json:"msg"`
}

// VideoListResponse - first load of a favorite list. Upstream payloads are passed through as is.
type VideoListResponse struct {
	FID       string          `json:"fid"`
	Info      json.RawMessage `json:"info"`
	IDsList   json.RawMessage `json:"ids_list"`
	FirstPage json.RawMessage `json:"first_page"`
}

type PageResponse struct {
	FID     string            `json:"fid"`
	Page    int               `json:"page"`
	Medias  []json.RawMessage `json:"medias"`
	HasMore bool              `json:"has_more"`
}

type VideoPageResponse struct {
	Page     int    `json:"page"`
	Title    string `json:"title"`
	Duration int    `json:"duration"`
	Cover    string `json:"cover"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
