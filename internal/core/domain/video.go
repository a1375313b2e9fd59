package domain

// VideoPage - one part of a multi-part video.
type VideoPage struct {
	Page     int
	Title    string
	Duration int
	Cover    string
}
