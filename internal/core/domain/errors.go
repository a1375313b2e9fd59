package domain

import "errors"

var (
	ErrInvalidFavoriteID = errors.New("favorite list id must be an integer")
	ErrInvalidPage       = errors.New("page must be an integer")
	ErrInvalidBVID       = errors.New("bvid must not be empty")

	// ErrUpstream marks failures reported by, or while talking to, the upstream platform.
	ErrUpstream = errors.New("upstream request failed")
)
