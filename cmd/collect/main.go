package main

import (
	"context"
	"encoding/json"
	"log"
	"os"

	"github.com/tgpulse/tgpulse/internal/cache"
	"github.com/tgpulse/tgpulse/internal/collector"
	"github.com/tgpulse/tgpulse/internal/config"
	"github.com/tgpulse/tgpulse/internal/loader"
	"github.com/tgpulse/tgpulse/internal/relay"
)

// One-shot entry point: run a single load cycle and print the result as
// JSON. Handy for checking what the channel currently yields.
func main() {
	cfg := config.Load()

	var relayClient *relay.Client
	if cfg.RelayURL != "" {
		relayClient = relay.New(cfg.RelayURL, cfg.FetchTimeout)
	}

	web := collector.NewWebSource(relayClient, cfg.Channel, cfg.FetchTimeout)
	rss := collector.NewRSSSource(relayClient, cfg.Channel, cfg.FetchTimeout)

	l := loader.New([]collector.Source{web, rss}, cache.New(cfg.CacheTTL), cfg.PostsLimit, cfg.FetchTimeout)

	posts, photos := l.Load(context.Background())

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(map[string]any{"posts": posts, "photos": photos}); err != nil {
		log.Fatalf("encode result: %v", err)
	}
}
