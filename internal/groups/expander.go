// Package groups expands collective-artist credits into their members.
package groups

import (
	"context"
	"fmt"
	"log/slog"

	"rcg/internal/chart"
	"rcg/internal/logging"
)

// Lookup returns the members of a collective, or nothing when the id is not
// a known collective.
type Lookup interface {
	Members(ctx context.Context, collectiveID string) ([]chart.Member, error)
}

// LookupError wraps a failed member lookup. It is logged, never returned.
type LookupError struct {
	CollectiveID string
	Err          error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("group lookup %s: %v", e.CollectiveID, e.Err)
}

func (e *LookupError) Unwrap() error { return e.Err }

// DefaultDepth expands collectives one level: members that are themselves
// collectives stay unexpanded.
const DefaultDepth = 1

// Expander appends collective members to a track as featured credits.
//
// Expand does not deduplicate; running it twice on the same track appends the
// members twice. Callers expand each track exactly once.
type Expander struct {
	lookup Lookup
	depth  int
	logger *slog.Logger
}

// NewExpander builds an expander. A depth below 1 falls back to DefaultDepth.
func NewExpander(lookup Lookup, depth int, logger *slog.Logger) *Expander {
	if depth < 1 {
		depth = DefaultDepth
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Expander{
		lookup: lookup,
		depth:  depth,
		logger: logging.NewComponentLogger(logger, "groups"),
	}
}

// Expand returns track with member credits appended after the original
// credits. The original collective credit is kept as is.
func (e *Expander) Expand(ctx context.Context, track chart.Track) chart.Track {
	if e == nil || e.lookup == nil {
		return track
	}
	var added []chart.Artist
	frontier := track.Credits()
	for level := 0; level < e.depth && len(frontier) > 0; level++ {
		var next []chart.Artist
		for _, credit := range frontier {
			members, err := e.lookup.Members(ctx, credit.ExternalID)
			if err != nil {
				logging.WarnWithContext(e.logger, "group member lookup failed", "group_lookup_failed",
					logging.String(logging.FieldSongID, track.ExternalID()),
					logging.String(logging.FieldArtistID, credit.ExternalID),
					logging.String(logging.FieldArtist, credit.Name),
					logging.Error(&LookupError{CollectiveID: credit.ExternalID, Err: err}),
					logging.String(logging.FieldImpact, "credit left unexpanded"),
				)
				continue
			}
			for _, member := range members {
				featured := member.AsFeatured()
				added = append(added, featured)
				next = append(next, featured)
			}
		}
		frontier = next
	}
	if len(added) == 0 {
		return track
	}
	e.logger.Debug("collective expanded",
		logging.String(logging.FieldSongID, track.ExternalID()),
		logging.Int("members_added", len(added)),
	)
	return track.WithCredits(added...)
}
