package extract

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/mmcdole/gofeed"

	"github.com/tgpulse/tgpulse/internal/model"
)

const descriptionLimit = 100

// Feed mirrors wrap post images in several layouts, so the description is
// scanned three independent ways: inline <img> tags, <img> tags inside an
// embedded escaped-content block, and bare image URLs.
var (
	imgTagRe    = regexp.MustCompile(`(?i)<img[^>]+src="([^"]+)"`)
	cdataRe     = regexp.MustCompile(`(?s)<!\[CDATA\[(.*?)\]\]>`)
	bareImageRe = regexp.MustCompile(`(?i)https?://[^\s<>"]+\.(?:jpg|jpeg|png|gif|webp)`)
)

// feedSentinels are the chrome markers filtered from feed photos.
var feedSentinels = []string{"placeholder", "loading"}

// Feed parses a feed mirror document into posts plus standalone photo
// records for every image found in item descriptions.
func Feed(document, channel string) (Result, error) {
	parsed, err := gofeed.NewParser().ParseString(document)
	if err != nil {
		return Result{}, fmt.Errorf("extract: parse feed: %w", err)
	}

	channelRoot := "https://t.me/" + channel

	var res Result
	for i, item := range parsed.Items {
		title := StripTags(item.Title)
		if title == "" {
			title = fmt.Sprintf("Post %d", i+1)
		}

		link := item.Link
		if link == "" {
			link = channelRoot
		}

		date := item.Published
		if date == "" {
			date = item.Updated
		}

		images := descriptionImages(item.Description)
		for _, u := range images {
			if isFeedSentinel(u) {
				continue
			}
			res.Photos = append(res.Photos, model.Photo{
				URL:   u,
				Title: title,
				Link:  link,
			})
		}

		// Chrome and profile imagery never becomes the primary image, even
		// when the description carries nothing else.
		primary := ""
		for _, u := range images {
			if !isSentinelImage(u) {
				primary, _, _ = strings.Cut(u, "?")
				break
			}
		}

		post := model.Post{
			ID:       postID(link, i),
			Title:    truncateTitle(title),
			Text:     truncateRunes(StripTags(item.Description), descriptionLimit),
			Link:     link,
			Date:     date,
			HasImage: primary != "",
			// The feed mirror exposes no video markers.
			MediaType: model.MediaText,
		}
		if primary != "" {
			post.Image = primary
			post.MediaType = model.MediaPhoto
		}

		res.Posts = append(res.Posts, post)
	}

	return res, nil
}

// descriptionImages collects every image URL in a description, in
// encounter order, deduplicated by exact string.
func descriptionImages(description string) []string {
	var urls []string
	seen := make(map[string]struct{})

	add := func(u string) {
		if u == "" {
			return
		}
		if _, ok := seen[u]; ok {
			return
		}
		seen[u] = struct{}{}
		urls = append(urls, u)
	}

	for _, m := range imgTagRe.FindAllStringSubmatch(description, -1) {
		add(m[1])
	}

	if block := cdataRe.FindStringSubmatch(description); block != nil {
		for _, m := range imgTagRe.FindAllStringSubmatch(block[1], -1) {
			add(m[1])
		}
	}

	for _, u := range bareImageRe.FindAllString(description, -1) {
		add(u)
	}

	return urls
}

func isFeedSentinel(u string) bool {
	lower := strings.ToLower(u)
	for _, sentinel := range feedSentinels {
		if strings.Contains(lower, sentinel) {
			return true
		}
	}
	return false
}

func truncateTitle(title string) string {
	rs := []rune(title)
	if len(rs) > titleLimit {
		return string(rs[:titleLimit])
	}
	return title
}
