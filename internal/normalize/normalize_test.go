package normalize

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/tgpulse/tgpulse/internal/model"
)

func post(link, date string) model.Post {
	return model.Post{ID: link, Title: link, Link: link, Date: date, MediaType: model.MediaText}
}

func links(posts []model.Post) []string {
	out := make([]string, 0, len(posts))
	for _, p := range posts {
		out = append(out, p.Link)
	}
	return out
}

func TestPostsDeduplicatesByLinkFirstWins(t *testing.T) {
	in := []model.Post{
		{Link: "https://t.me/c/1", Title: "original", Date: "2024-05-01T00:00:00Z"},
		{Link: "https://t.me/c/1", Title: "duplicate", Date: "2024-05-01T00:00:00Z"},
		{Link: "https://t.me/c/2", Title: "second", Date: "2024-05-01T00:00:00Z"},
	}

	out := Posts(in, 10)
	if len(out) != 2 {
		t.Fatalf("len = %d, want 2", len(out))
	}
	if out[0].Title != "original" {
		t.Fatalf("first occurrence should win, got %q", out[0].Title)
	}

	seen := make(map[string]bool)
	for _, p := range out {
		if seen[p.Link] {
			t.Fatalf("duplicate link in output: %q", p.Link)
		}
		seen[p.Link] = true
	}
}

func TestPostsDropsRecordsWithoutLink(t *testing.T) {
	in := []model.Post{
		post("", "2024-05-03T00:00:00Z"),
		post("https://t.me/c/1", "2024-05-01T00:00:00Z"),
	}
	out := Posts(in, 10)
	if len(out) != 1 || out[0].Link == "" {
		t.Fatalf("linkless record should be discarded: %v", links(out))
	}
}

func TestPostsSortedByDateDescending(t *testing.T) {
	in := []model.Post{
		post("https://t.me/c/1", "2024-05-01T00:00:00Z"),
		post("https://t.me/c/3", "2024-05-03T00:00:00Z"),
		post("https://t.me/c/2", "Mon, 02 May 2024 10:00:00 GMT"), // differing formats still order
	}

	out := Posts(in, 10)
	want := []string{"https://t.me/c/3", "https://t.me/c/2", "https://t.me/c/1"}
	if !reflect.DeepEqual(links(out), want) {
		t.Fatalf("order = %v, want %v", links(out), want)
	}
}

func TestPostsInvalidDatesSortLast(t *testing.T) {
	in := []model.Post{
		post("https://t.me/c/bad", "not a date"),
		post("https://t.me/c/none", ""),
		post("https://t.me/c/ok", "2020-01-01T00:00:00Z"),
	}

	out := Posts(in, 10)
	if out[0].Link != "https://t.me/c/ok" {
		t.Fatalf("dated post should rank first, got %v", links(out))
	}
	// Undated posts keep their relative order (stable sort).
	if out[1].Link != "https://t.me/c/bad" || out[2].Link != "https://t.me/c/none" {
		t.Fatalf("undated order not preserved: %v", links(out))
	}
}

func TestPostsTruncatesToLimit(t *testing.T) {
	var in []model.Post
	for i := 0; i < 12; i++ {
		in = append(in, post(fmt.Sprintf("https://t.me/c/%d", i+1), fmt.Sprintf("2024-05-%02dT00:00:00Z", i+1)))
	}

	out := Posts(in, 10)
	if len(out) != 10 {
		t.Fatalf("len = %d, want 10", len(out))
	}
	// The ten most recent survive.
	if out[0].Link != "https://t.me/c/12" || out[9].Link != "https://t.me/c/3" {
		t.Fatalf("unexpected window: %v", links(out))
	}
}

func TestPostsIdempotent(t *testing.T) {
	in := []model.Post{
		post("https://t.me/c/2", "2024-05-02T00:00:00Z"),
		post("https://t.me/c/1", "2024-05-01T00:00:00Z"),
		post("https://t.me/c/2", "2024-05-02T00:00:00Z"),
		post("https://t.me/c/x", "garbage"),
	}

	once := Posts(in, 10)
	twice := Posts(once, 10)
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("normalize not idempotent:\nonce:  %v\ntwice: %v", links(once), links(twice))
	}
}
