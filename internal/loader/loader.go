// Package loader orchestrates one load cycle: consult the cache, try the
// sources in priority order, normalize whichever succeeded, store the
// snapshot. It never surfaces an error: the contract is always a valid,
// possibly empty, result.
package loader

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/tgpulse/tgpulse/internal/cache"
	"github.com/tgpulse/tgpulse/internal/collector"
	"github.com/tgpulse/tgpulse/internal/extract"
	"github.com/tgpulse/tgpulse/internal/model"
	"github.com/tgpulse/tgpulse/internal/normalize"
)

// avatarRetryDelay is the one-shot delay before the deferred avatar
// re-attempt when a page yielded no avatar.
const avatarRetryDelay = 500 * time.Millisecond

// AvatarFetcher resolves the channel avatar independently of the post
// pipeline.
type AvatarFetcher interface {
	FetchAvatar(ctx context.Context) (string, error)
}

type Loader struct {
	sources      []collector.Source
	cache        *cache.Store
	limit        int
	fetchTimeout time.Duration

	avatarSource AvatarFetcher

	mu           sync.Mutex
	avatar       string
	retryPending bool
}

func New(sources []collector.Source, store *cache.Store, limit int, fetchTimeout time.Duration) *Loader {
	return &Loader{
		sources:      sources,
		cache:        store,
		limit:        limit,
		fetchTimeout: fetchTimeout,
	}
}

// SetAvatarSource enables the best-effort avatar retry. Without one, a
// missing avatar simply stays missing.
func (l *Loader) SetAvatarSource(src AvatarFetcher) {
	l.avatarSource = src
}

// Load runs one cycle and returns the current post list and photos.
func (l *Loader) Load(ctx context.Context) ([]model.Post, []model.Photo) {
	start := time.Now()

	if snap, ok := l.cache.Get(); ok && l.cache.Fresh(time.Now()) {
		log.Printf("loader: cache hit, %d post(s)", len(snap.Posts))
		// Truncation is idempotent; reapplied defensively on reads.
		return nonNil(normalize.Posts(snap.Posts, l.limit)), nonNilPhotos(snap.Photos)
	}

	for _, src := range l.sources {
		res, err := l.fetchOne(ctx, src)
		if err != nil {
			log.Printf("loader: %s: %v", src.Name(), err)
			continue
		}
		if len(res.Posts) == 0 {
			log.Printf("loader: %s returned no posts", src.Name())
			continue
		}

		l.handleAvatar(res.Avatar)

		posts := normalize.Posts(res.Posts, l.limit)
		l.cache.Put(model.Snapshot{
			Posts:      posts,
			Photos:     res.Photos,
			CapturedAt: time.Now(),
		})

		log.Printf("loader: %s done, %d post(s) in %s", src.Name(), len(posts), time.Since(start).Round(time.Millisecond))
		return nonNil(posts), nonNilPhotos(res.Photos)
	}

	// Every source failed. Prefer yesterday's posts over an empty page:
	// the expired snapshot is kept around exactly for this.
	if snap, ok := l.cache.Get(); ok && len(snap.Posts) > 0 {
		log.Printf("loader: all sources failed, serving stale snapshot captured at %s", snap.CapturedAt.Format(time.RFC3339))
		return nonNil(normalize.Posts(snap.Posts, l.limit)), nonNilPhotos(snap.Photos)
	}

	log.Println("loader: all sources failed and no snapshot available")
	return []model.Post{}, []model.Photo{}
}

// fetchOne runs a single source under the per-fetch timeout. A panic in a
// source counts as an empty result, same as any other failure.
func (l *Loader) fetchOne(ctx context.Context, src collector.Source) (res extract.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, l.fetchTimeout)
	defer cancel()

	return src.Fetch(ctx)
}

// Avatar returns the last resolved channel avatar URL, or empty.
func (l *Loader) Avatar() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.avatar
}

// handleAvatar records a resolved avatar, or schedules the one-shot
// deferred retry when the page carried none. The retry never blocks post
// loading.
func (l *Loader) handleAvatar(avatar string) {
	if avatar != "" {
		l.mu.Lock()
		l.avatar = avatar
		l.mu.Unlock()
		return
	}
	if l.avatarSource == nil {
		return
	}

	l.mu.Lock()
	if l.avatar != "" || l.retryPending {
		l.mu.Unlock()
		return
	}
	l.retryPending = true
	l.mu.Unlock()

	time.AfterFunc(avatarRetryDelay, l.retryAvatar)
}

func (l *Loader) retryAvatar() {
	defer func() {
		l.mu.Lock()
		l.retryPending = false
		l.mu.Unlock()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), l.fetchTimeout)
	defer cancel()

	avatar, err := l.avatarSource.FetchAvatar(ctx)
	if err != nil {
		log.Printf("loader: avatar retry failed: %v", err)
		return
	}

	l.mu.Lock()
	l.avatar = avatar
	l.mu.Unlock()
	log.Printf("loader: avatar resolved on retry")
}

func nonNil(posts []model.Post) []model.Post {
	if posts == nil {
		return []model.Post{}
	}
	return posts
}

func nonNilPhotos(photos []model.Photo) []model.Photo {
	if photos == nil {
		return []model.Photo{}
	}
	return photos
}
