// Package source loads raw candidate batches per (source, window). Two
// implementations exist: a Postgres loader for production and a
// deterministic mock generator for dry runs and tests.
package source

import (
	"context"

	"github.com/Kaosethi/telesalesautomation/internal/lead"
	"github.com/Kaosethi/telesalesautomation/internal/window"
)

// CandidateSource resolves one (source, window) batch. Implementations
// return an empty batch — never an error — when a window simply has no
// candidates.
type CandidateSource interface {
	Candidates(ctx context.Context, src lead.Source, w lead.Window, ranges window.Ranges) (lead.Batch, error)
}
