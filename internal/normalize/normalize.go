// Package normalize is the pure final stage of the pipeline: whatever
// extractor produced the posts, the output here is deduplicated, ordered
// newest-first and bounded. Applying it to its own output is a no-op.
package normalize

import (
	"sort"
	"time"

	"github.com/araddon/dateparse"
	"github.com/samber/lo"

	"github.com/tgpulse/tgpulse/internal/model"
)

// Posts deduplicates by permalink (first occurrence wins), sorts by date
// descending and truncates to limit. Posts with missing or unparseable
// dates sort after everything else; equal dates keep their relative order.
func Posts(posts []model.Post, limit int) []model.Post {
	valid := lo.Filter(posts, func(p model.Post, _ int) bool {
		return p.Link != ""
	})
	unique := lo.UniqBy(valid, func(p model.Post) string {
		return p.Link
	})

	sort.SliceStable(unique, func(i, j int) bool {
		return postTime(unique[i]).After(postTime(unique[j]))
	})

	if limit > 0 && len(unique) > limit {
		unique = unique[:limit]
	}
	return unique
}

// postTime parses the post date leniently; anything unparseable becomes
// the zero time so it ranks last.
func postTime(p model.Post) time.Time {
	if p.Date == "" {
		return time.Time{}
	}
	t, err := dateparse.ParseAny(p.Date)
	if err != nil {
		return time.Time{}
	}
	return t
}
