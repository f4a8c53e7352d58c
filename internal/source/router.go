package source

import (
	"context"

	"github.com/Kaosethi/telesalesautomation/internal/lead"
	"github.com/Kaosethi/telesalesautomation/internal/window"
)

// Router dispatches candidate loads to a per-source loader, for deployments
// where PC and Mobile live in separate databases. Sources without an entry
// yield an empty batch.
type Router map[lead.Source]CandidateSource

// Candidates delegates to the loader registered for src.
func (r Router) Candidates(ctx context.Context, src lead.Source, w lead.Window, ranges window.Ranges) (lead.Batch, error) {
	loader, ok := r[src]
	if !ok {
		return lead.Batch{}, nil
	}
	return loader.Candidates(ctx, src, w, ranges)
}
