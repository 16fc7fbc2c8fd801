package collector

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tgpulse/tgpulse/internal/extract"
	"github.com/tgpulse/tgpulse/internal/relay"
)

const (
	feedBaseURL = "https://tg.i-c-a.su/rss/"

	maxFeedBytes = 2 << 20 // 2MB
)

// RSSSource fetches a feed mirror of the channel. Second in priority: it
// is tried only when the web page yields nothing.
type RSSSource struct {
	relay   *relay.Client
	channel string
	timeout time.Duration
}

// NewRSSSource creates the feed-mirror source. relayClient may be nil, in
// which case the feed is fetched directly.
func NewRSSSource(relayClient *relay.Client, channel string, timeout time.Duration) *RSSSource {
	return &RSSSource{relay: relayClient, channel: channel, timeout: timeout}
}

func (r *RSSSource) Name() string {
	return "telegram_rss"
}

func (r *RSSSource) Fetch(ctx context.Context) (extract.Result, error) {
	target := feedBaseURL + r.channel

	var (
		document string
		err      error
	)
	if r.relay != nil {
		document, err = r.relay.Get(ctx, target)
	} else {
		document, err = r.fetchDirect(ctx, target)
	}
	if err != nil {
		return extract.Result{}, err
	}

	if !strings.Contains(document, "<rss") && !strings.Contains(document, "<feed") {
		return extract.Result{}, fmt.Errorf("rss: no feed root tag in response from %s", target)
	}

	return extract.Feed(document, r.channel)
}

func (r *RSSSource) fetchDirect(ctx context.Context, target string) (string, error) {
	client := &http.Client{Timeout: r.timeout}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", fmt.Errorf("rss: create request: %w", err)
	}
	req.Header.Set("User-Agent", collectorUserAgent)

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("rss: fetch %s: %w", target, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("rss: unexpected status %d from %s", resp.StatusCode, target)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFeedBytes))
	if err != nil {
		return "", fmt.Errorf("rss: read body: %w", err)
	}
	return string(body), nil
}
