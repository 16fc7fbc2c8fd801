// Package extract turns raw markup from the channel's public sources into
// provisional posts. Parsing is best-effort: the upstream page can change
// shape at any time, so every lookup runs through a cascade of fallback
// selectors and a candidate that cannot be resolved is dropped, not failed.
package extract

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/tgpulse/tgpulse/internal/model"
)

// Result is the provisional output of one extraction: posts plus, per
// source kind, the extras it can supply (avatar for the web page, photos
// for the feed).
type Result struct {
	Posts  []model.Post
	Photos []model.Photo
	Avatar string
}

const (
	// maxCandidates caps how many message elements get parsed per page.
	// A bound on processing cost, not a correctness requirement.
	maxCandidates = 15

	titleLimit = 50
)

// Selector cascades for the known page shapes, most specific first.
var (
	avatarSelectors = []string{
		".tgme_channel_info_header_photo img",
		".tgme_page_photo img",
		".tgme_channel_info_header img",
		".tgme_channel_info_header_photo",
		"img.tgme_channel_info_header_photo",
		".tgme_channel_info_header_photo_wrap img",
		`img[src*="avatar"]`,
		".tgme_page_photo_wrap img",
	}

	messageSelector         = ".tgme_widget_message"
	fallbackMessageSelector = "[data-post], .message, .tgme_widget_message_wrap"

	textSelector     = ".tgme_widget_message_text, .message_text, p"
	dateLinkSelector = "a.tgme_widget_message_date, a.message_date"
	imageSelector    = ".tgme_widget_message_photo img, img.tgme_widget_message_photo"
	videoSelector    = ".tgme_widget_message_video, video, .tgme_widget_message_video_player"
)

// imageSentinels mark chrome and profile imagery rather than post content.
var imageSentinels = []string{"placeholder", "loading", "avatar", "channel", "profile", "logo", "icon"}

var postIDRe = regexp.MustCompile(`/(\d+)$`)

// WebPage parses the channel's public preview page into posts and the
// channel avatar URL. A missing avatar is non-fatal.
func WebPage(page, channel string) (Result, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return Result{}, fmt.Errorf("extract: parse web page: %w", err)
	}

	res := Result{Avatar: channelAvatar(doc)}

	messages := doc.Find(messageSelector)
	if messages.Length() == 0 {
		messages = doc.Find(fallbackMessageSelector)
	}

	messages.EachWithBreak(func(i int, s *goquery.Selection) bool {
		if i >= maxCandidates {
			return false
		}
		if post, ok := messagePost(s, channel, i); ok {
			res.Posts = append(res.Posts, post)
		}
		return true
	})

	return res, nil
}

// Avatar runs only the avatar cascade over a channel page. Used by the
// deferred avatar retry, which fetches the plain channel page rather than
// the preview page.
func Avatar(page string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return ""
	}
	return channelAvatar(doc)
}

// channelAvatar resolves the channel avatar: known header selectors first,
// then page meta tags, then any header image. First non-empty match wins.
func channelAvatar(doc *goquery.Document) string {
	for _, sel := range avatarSelectors {
		if u := imageURL(doc.Find(sel).First()); u != "" {
			return u
		}
	}

	if u, ok := doc.Find(`meta[property="og:image"], meta[name="twitter:image"]`).First().Attr("content"); ok && u != "" {
		return u
	}

	return imageURL(doc.Find(".tgme_channel_info_header img, .tgme_page_photo img").First())
}

// messagePost turns one message-like element into a post, or reports that
// the candidate should be discarded.
func messagePost(s *goquery.Selection, channel string, index int) (model.Post, bool) {
	text := strings.TrimSpace(s.Find(textSelector).First().Text())

	link := permalink(s, channel)
	if link == "" {
		// No permalink means no canonical identity; drop the candidate.
		return model.Post{}, false
	}

	images := postImages(s)
	hasImage := len(images) > 0
	video := s.Find(videoSelector).Length() > 0 || s.HasClass("tgme_widget_message_video")

	// A candidate becomes a post only when it carries actual content.
	if text == "" && !hasImage && !video {
		return model.Post{}, false
	}

	post := model.Post{
		ID:       postID(link, index),
		Title:    titleFor(text, hasImage, video, index),
		Text:     text,
		Link:     link,
		Date:     messageDate(s),
		HasImage: hasImage,
		Video:    video,
	}
	if hasImage {
		post.Image = images[0]
	}
	if text == "" {
		switch {
		case hasImage:
			post.Text = "Photo from the channel"
		case video:
			post.Text = "Video from the channel"
		}
	}

	switch {
	case video:
		post.MediaType = model.MediaVideo
	case hasImage:
		post.MediaType = model.MediaPhoto
	default:
		post.MediaType = model.MediaText
	}

	return post, true
}

// permalink resolves the post's canonical URL through a cascade: the date
// link, any contained link on the channel path or with a numeric tail, a
// data-post attribute, and finally an enclosing anchor.
func permalink(s *goquery.Selection, channel string) string {
	if href, ok := s.Find(dateLinkSelector).First().Attr("href"); ok && href != "" {
		return href
	}

	var found string
	s.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href, _ := a.Attr("href")
		if strings.Contains(href, "/"+channel+"/") || postIDRe.MatchString(href) {
			found = href
			return false
		}
		return true
	})
	if found != "" {
		return found
	}

	dataPost := s.AttrOr("data-post", "")
	if dataPost == "" {
		dataPost = s.Closest("[data-post]").AttrOr("data-post", "")
	}
	if dataPost != "" {
		return "https://t.me/" + dataPost
	}

	if href, ok := s.Closest("a[href]").Attr("href"); ok && href != "" {
		return href
	}

	return ""
}

// postImages collects the post's picture URLs, filtering out chrome and
// avatar imagery and stripping any trailing query string.
func postImages(s *goquery.Selection) []string {
	var urls []string
	s.Find(imageSelector).Each(func(_ int, img *goquery.Selection) {
		u := imageURL(img)
		if u == "" || isSentinelImage(u) {
			return
		}
		// Drop size/tracking parameters to get the full image.
		u, _, _ = strings.Cut(u, "?")
		urls = append(urls, u)
	})
	return urls
}

func isSentinelImage(u string) bool {
	lower := strings.ToLower(u)
	for _, sentinel := range imageSentinels {
		if strings.Contains(lower, sentinel) {
			return true
		}
	}
	return false
}

// imageURL reads an image element's source, preferring src over the lazy
// data-src variant.
func imageURL(s *goquery.Selection) string {
	if u, ok := s.Attr("src"); ok && u != "" {
		return u
	}
	return s.AttrOr("data-src", "")
}

// messageDate reads the element's embedded timestamp; current time when
// the page does not expose one.
func messageDate(s *goquery.Selection) string {
	if dt, ok := s.Find("time[datetime]").First().Attr("datetime"); ok && dt != "" {
		return dt
	}
	return time.Now().UTC().Format(time.RFC3339)
}

func postID(link string, index int) string {
	if m := postIDRe.FindStringSubmatch(link); m != nil {
		return m[1]
	}
	return fmt.Sprintf("%d", index)
}

func titleFor(text string, hasImage, video bool, index int) string {
	if text != "" {
		rs := []rune(text)
		if len(rs) > titleLimit {
			return string(rs[:titleLimit])
		}
		return text
	}
	switch {
	case hasImage:
		return "Photo"
	case video:
		return "Video"
	default:
		return fmt.Sprintf("Post %d", index+1)
	}
}
