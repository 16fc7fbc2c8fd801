package model

import "time"

// MediaType classifies the dominant content kind of a post.
type MediaType string

const (
	MediaPhoto MediaType = "photo"
	MediaVideo MediaType = "video"
	MediaText  MediaType = "text"
)

// Post is one published channel item, normalized from whichever source
// produced it.
type Post struct {
	// ID is the numeric suffix of the permalink, or a positional index
	// when the permalink carries none.
	ID    string `json:"id"`
	Title string `json:"title"`
	Text  string `json:"text"`
	// Link is the canonical permalink. A record without one is not a
	// valid post and never leaves the extractor.
	Link string `json:"link"`
	// Date is kept as the source gave it; ordering parses it lazily and
	// treats anything unparseable as the oldest possible value.
	Date      string    `json:"date"`
	Image     string    `json:"image,omitempty"`
	HasImage  bool      `json:"hasImage"`
	Video     bool      `json:"video"`
	MediaType MediaType `json:"mediaType"`
}

// Photo is a standalone media record, produced by the RSS path only.
type Photo struct {
	URL   string `json:"url"`
	Title string `json:"title"`
	Link  string `json:"link"`
}

// Snapshot is the result of one successful load cycle. It is replaced
// wholesale on refresh and never partially mutated.
type Snapshot struct {
	Posts      []Post    `json:"posts"`
	Photos     []Photo   `json:"photos"`
	CapturedAt time.Time `json:"capturedAt"`
}
