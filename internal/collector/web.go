package collector

import (
	"context"
	"fmt"
	"time"

	"github.com/gocolly/colly/v2"

	"github.com/tgpulse/tgpulse/internal/extract"
	"github.com/tgpulse/tgpulse/internal/relay"
)

const (
	webBaseURL     = "https://t.me/s/"
	channelBaseURL = "https://t.me/"

	collectorUserAgent = "tgpulse-bot/1.0"

	// minPageLength guards against relay error pages and empty bodies:
	// anything shorter cannot be a real preview page.
	minPageLength = 100
)

// WebSource fetches the channel's public preview page, through the relay
// when one is configured or directly otherwise.
type WebSource struct {
	relay   *relay.Client
	channel string
	timeout time.Duration
}

// NewWebSource creates the web-page source. relayClient may be nil, in
// which case the page is scraped directly.
func NewWebSource(relayClient *relay.Client, channel string, timeout time.Duration) *WebSource {
	return &WebSource{relay: relayClient, channel: channel, timeout: timeout}
}

func (w *WebSource) Name() string {
	return "telegram_web"
}

func (w *WebSource) Fetch(ctx context.Context) (extract.Result, error) {
	page, err := w.fetchPage(ctx, webBaseURL+w.channel)
	if err != nil {
		return extract.Result{}, err
	}
	if len(page) <= minPageLength {
		return extract.Result{}, fmt.Errorf("web: page too short (%d bytes)", len(page))
	}
	return extract.WebPage(page, w.channel)
}

// FetchAvatar retrieves the plain channel page and resolves only the
// avatar. Used by the loader's deferred avatar retry.
func (w *WebSource) FetchAvatar(ctx context.Context) (string, error) {
	page, err := w.fetchPage(ctx, channelBaseURL+w.channel)
	if err != nil {
		return "", err
	}
	avatar := extract.Avatar(page)
	if avatar == "" {
		return "", fmt.Errorf("web: no avatar found for channel %s", w.channel)
	}
	return avatar, nil
}

func (w *WebSource) fetchPage(ctx context.Context, target string) (string, error) {
	if w.relay != nil {
		return w.relay.Get(ctx, target)
	}
	return w.fetchDirect(ctx, target)
}

// fetchDirect scrapes the page without a relay. The collector has no
// native context support, so cancellation is checked before the visit and
// again on each request.
func (w *WebSource) fetchDirect(ctx context.Context, target string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("web: visit %s: %w", target, err)
	}

	c := colly.NewCollector(
		colly.AllowedDomains("t.me"),
		colly.UserAgent(collectorUserAgent),
	)
	c.SetRequestTimeout(w.timeout)

	c.OnRequest(func(r *colly.Request) {
		if ctx.Err() != nil {
			r.Abort()
		}
	})

	var body string
	c.OnResponse(func(r *colly.Response) {
		body = string(r.Body)
	})

	if err := c.Visit(target); err != nil {
		return "", fmt.Errorf("web: visit %s: %w", target, err)
	}
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("web: visit %s: %w", target, err)
	}
	return body, nil
}
