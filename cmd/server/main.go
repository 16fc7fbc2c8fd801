package main

import (
	"log"

	"github.com/gin-gonic/gin"

	"github.com/tgpulse/tgpulse/internal/api"
	"github.com/tgpulse/tgpulse/internal/cache"
	"github.com/tgpulse/tgpulse/internal/collector"
	"github.com/tgpulse/tgpulse/internal/config"
	"github.com/tgpulse/tgpulse/internal/loader"
	"github.com/tgpulse/tgpulse/internal/relay"
	"github.com/tgpulse/tgpulse/internal/scheduler"
)

func main() {
	cfg := config.Load()

	var relayClient *relay.Client
	if cfg.RelayURL != "" {
		relayClient = relay.New(cfg.RelayURL, cfg.FetchTimeout)
	} else {
		log.Println("no relay configured, fetching sources directly")
	}

	web := collector.NewWebSource(relayClient, cfg.Channel, cfg.FetchTimeout)
	rss := collector.NewRSSSource(relayClient, cfg.Channel, cfg.FetchTimeout)

	store := cache.New(cfg.CacheTTL)

	l := loader.New([]collector.Source{web, rss}, store, cfg.PostsLimit, cfg.FetchTimeout)
	l.SetAvatarSource(web)

	s, err := scheduler.New(cfg.RefreshInterval, l)
	if err != nil {
		log.Fatalf("init scheduler failed: %v", err)
	}
	s.Start()
	defer s.Stop()

	r := gin.Default()
	apiServer := api.NewServer(l, cfg.Channel, cfg.PostsLimit)
	apiServer.RegisterRoutes(r)

	addr := ":" + cfg.AppPort
	log.Printf("starting server at %s ...", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("server exit: %v", err)
	}
}
