package extract

import (
	"strings"
	"testing"

	"github.com/tgpulse/tgpulse/internal/model"
)

const feedFixture = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
<title>chan</title>
<link>https://t.me/chan</link>
<item>
  <title>First &lt;b&gt;post&lt;/b&gt;</title>
  <link>https://t.me/chan/5</link>
  <pubDate>Mon, 06 May 2024 10:00:00 GMT</pubDate>
  <description>&lt;img src="https://x/a.jpg?size=90"&gt; caption and a bare https://x/b.png url</description>
</item>
<item>
  <description>plain text only</description>
</item>
</channel>
</rss>`

func TestFeedExtraction(t *testing.T) {
	res, err := Feed(feedFixture, "chan")
	if err != nil {
		t.Fatalf("Feed error: %v", err)
	}
	if len(res.Posts) != 2 {
		t.Fatalf("posts = %d, want 2", len(res.Posts))
	}

	first := res.Posts[0]
	if first.Title != "First post" {
		t.Fatalf("title = %q, want markup stripped", first.Title)
	}
	if first.Link != "https://t.me/chan/5" || first.ID != "5" {
		t.Fatalf("link/id = %q/%q", first.Link, first.ID)
	}
	if first.Date != "Mon, 06 May 2024 10:00:00 GMT" {
		t.Fatalf("date = %q", first.Date)
	}
	if !first.HasImage || first.MediaType != model.MediaPhoto {
		t.Fatalf("hasImage/mediaType = %v/%q", first.HasImage, first.MediaType)
	}
	if first.Image != "https://x/a.jpg" {
		t.Fatalf("image = %q, want first encountered URL without query string", first.Image)
	}

	second := res.Posts[1]
	if second.Title != "Post 2" {
		t.Fatalf("missing title fallback = %q, want %q", second.Title, "Post 2")
	}
	if second.Link != "https://t.me/chan" {
		t.Fatalf("missing link fallback = %q, want channel root", second.Link)
	}
	if second.HasImage || second.MediaType != model.MediaText {
		t.Fatalf("hasImage/mediaType = %v/%q", second.HasImage, second.MediaType)
	}
	if second.Text != "plain text only" {
		t.Fatalf("text = %q", second.Text)
	}
}

func TestFeedPhotosCollected(t *testing.T) {
	res, err := Feed(feedFixture, "chan")
	if err != nil {
		t.Fatalf("Feed error: %v", err)
	}

	urls := make(map[string]bool)
	for _, ph := range res.Photos {
		urls[ph.URL] = true
		if ph.Link != "https://t.me/chan/5" {
			t.Fatalf("photo link = %q", ph.Link)
		}
		if ph.Title != "First post" {
			t.Fatalf("photo title = %q", ph.Title)
		}
	}
	if !urls["https://x/a.jpg?size=90"] {
		t.Fatalf("img-tag URL missing from photos: %v", urls)
	}
	if !urls["https://x/b.png"] {
		t.Fatalf("bare URL missing from photos: %v", urls)
	}
}

func TestFeedSentinelPhotosFiltered(t *testing.T) {
	document := `<?xml version="1.0"?><rss version="2.0"><channel><title>c</title>
<item><title>t</title><link>https://t.me/chan/8</link>
<description>&lt;img src="https://x/loading.gif"&gt; &lt;img src="https://x/real.jpg"&gt;</description></item>
</channel></rss>`

	res, err := Feed(document, "chan")
	if err != nil {
		t.Fatalf("Feed error: %v", err)
	}
	for _, ph := range res.Photos {
		if strings.Contains(ph.URL, "loading") {
			t.Fatalf("sentinel photo kept: %q", ph.URL)
		}
	}
	if len(res.Photos) == 0 {
		t.Fatalf("real photo should survive the sentinel filter")
	}
}

func TestFeedSentinelNeverPrimaryImage(t *testing.T) {
	document := `<?xml version="1.0"?><rss version="2.0"><channel><title>c</title>
<item><title>t</title><link>https://t.me/chan/11</link>
<description>&lt;img src="https://cdn.example/channel_avatar.jpg"&gt; &lt;img src="https://x/real.jpg?size=1280"&gt;</description></item>
<item><title>u</title><link>https://t.me/chan/12</link>
<description>&lt;img src="https://cdn.example/channel_avatar.jpg"&gt;</description></item>
</channel></rss>`

	res, err := Feed(document, "chan")
	if err != nil {
		t.Fatalf("Feed error: %v", err)
	}

	first := res.Posts[0]
	if first.Image != "https://x/real.jpg" {
		t.Fatalf("image = %q, want first non-chrome URL without query string", first.Image)
	}

	second := res.Posts[1]
	if second.Image != "" || second.HasImage || second.MediaType != model.MediaText {
		t.Fatalf("image/hasImage/mediaType = %q/%v/%q, want no primary image", second.Image, second.HasImage, second.MediaType)
	}
}

func TestFeedDescriptionTruncated(t *testing.T) {
	long := strings.Repeat("word ", 40) // 200 chars
	document := `<?xml version="1.0"?><rss version="2.0"><channel><title>c</title>
<item><title>t</title><link>https://t.me/chan/9</link><description>` + long + `</description></item>
</channel></rss>`

	res, err := Feed(document, "chan")
	if err != nil {
		t.Fatalf("Feed error: %v", err)
	}
	text := res.Posts[0].Text
	if !strings.HasSuffix(text, "…") {
		t.Fatalf("truncated text should end with ellipsis: %q", text)
	}
	if got := len([]rune(strings.TrimSuffix(text, "…"))); got != descriptionLimit {
		t.Fatalf("text runes = %d, want %d", got, descriptionLimit)
	}
}

func TestFeedDescriptionImageDedup(t *testing.T) {
	document := `<?xml version="1.0"?><rss version="2.0"><channel><title>c</title>
<item><title>t</title><link>https://t.me/chan/10</link>
<description>&lt;img src="https://x/same.jpg"&gt;&lt;img src="https://x/same.jpg"&gt;</description></item>
</channel></rss>`

	res, err := Feed(document, "chan")
	if err != nil {
		t.Fatalf("Feed error: %v", err)
	}
	if len(res.Photos) != 1 {
		t.Fatalf("photos = %d, want 1 after exact-URL dedup", len(res.Photos))
	}
}

func TestFeedRejectsGarbage(t *testing.T) {
	if _, err := Feed("this is not xml at all", "chan"); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestStripTags(t *testing.T) {
	in := `  <b>bold</b> &amp; <a href="x">link</a>  `
	if got := StripTags(in); got != "bold & link" {
		t.Fatalf("StripTags = %q", got)
	}
}
