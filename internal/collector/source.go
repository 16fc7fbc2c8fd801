// Package collector fetches raw documents from the channel's external
// sources and feeds them through the matching extractor. Sources are tried
// by the loader in fixed priority order; any failure in one source is an
// empty result, never fatal to the overall load.
package collector

import (
	"context"

	"github.com/tgpulse/tgpulse/internal/extract"
)

// Source is one external origin of channel posts.
type Source interface {
	Name() string
	Fetch(ctx context.Context) (extract.Result, error)
}
