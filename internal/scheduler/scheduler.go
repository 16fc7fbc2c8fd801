package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/tgpulse/tgpulse/internal/loader"
)

// refreshTimeout bounds one whole refresh cycle (both sources plus
// extraction) so a hung refresh cannot pile up behind the next tick.
const refreshTimeout = 30 * time.Second

// Scheduler refreshes the loader on a fixed interval so page hits stay
// cache-warm between visits.
type Scheduler struct {
	cron   *cron.Cron
	loader *loader.Loader
}

func New(interval time.Duration, l *loader.Loader) (*Scheduler, error) {
	c := cron.New()

	s := &Scheduler{cron: c, loader: l}

	if _, err := c.AddFunc(fmt.Sprintf("@every %s", interval), s.runOnce); err != nil {
		return nil, err
	}
	return s, nil
}

// Start begins the periodic refresh and warms the cache once in the
// background so the first page hit does not pay for the fetch.
func (s *Scheduler) Start() {
	s.cron.Start()
	go s.runOnce()
}

func (s *Scheduler) Stop() {
	s.cron.Stop()
}

// RunOnce triggers a refresh cycle outside the cron schedule.
func (s *Scheduler) RunOnce() {
	s.runOnce()
}

func (s *Scheduler) runOnce() {
	log.Println("start refresh job...")

	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()

	posts, photos := s.loader.Load(ctx)
	log.Printf("refresh job done, posts=%d photos=%d", len(posts), len(photos))
}
