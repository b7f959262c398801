package gender

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"rcg/internal/logging"
)

// Result records both raw signals alongside the resolved label so the store
// can keep them for auditing.
type Result struct {
	Artist  string `json:"artist"`
	SourceA Label  `json:"source_a"`
	SourceB Label  `json:"source_b"`
	Gender  Label  `json:"gender"`
}

// Classifier resolves artist names against two biography sources.
type Classifier struct {
	sourceA BiographySource
	sourceB BiographySource
	logger  *slog.Logger
}

// NewClassifier wires the two sources. Source A takes precedence when both
// are decisive and disagree.
func NewClassifier(sourceA, sourceB BiographySource, logger *slog.Logger) *Classifier {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Classifier{
		sourceA: sourceA,
		sourceB: sourceB,
		logger:  logging.NewComponentLogger(logger, "gender"),
	}
}

// Classify queries both sources concurrently and combines their labels. It
// never fails: every lookup problem ends in a sentinel.
func (c *Classifier) Classify(ctx context.Context, artistName string) Result {
	result := Result{Artist: artistName}
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		result.SourceA = c.evaluate(groupCtx, c.sourceA, artistName)
		return nil
	})
	group.Go(func() error {
		result.SourceB = c.evaluate(groupCtx, c.sourceB, artistName)
		return nil
	})
	// evaluate turns every failure into a sentinel, so neither closure
	// returns an error and Wait only joins them.
	_ = group.Wait()
	result.Gender = Combine(result.SourceA, result.SourceB)
	c.logger.Debug("artist classified",
		logging.String(logging.FieldArtist, artistName),
		logging.String("source_a", result.SourceA.String()),
		logging.String("source_b", result.SourceB.String()),
		logging.String("gender", result.Gender.String()),
	)
	return result
}

func (c *Classifier) evaluate(ctx context.Context, source BiographySource, artistName string) Label {
	if source == nil {
		return PageError
	}
	text, err := source.Biography(ctx, artistName)
	if err != nil {
		if !isKnownSourceError(err) {
			lookupErr := &LookupError{Source: source.Name(), Artist: artistName, Err: err}
			logging.WarnWithContext(c.logger, "biography lookup failed", "gender_lookup_failed",
				logging.String(logging.FieldArtist, artistName),
				logging.String("source", source.Name()),
				logging.Error(lookupErr),
				logging.String(logging.FieldErrorHint, "check network access and API credentials"),
				logging.String(logging.FieldImpact, "source recorded as page error"),
			)
		}
		return SentinelFor(err)
	}
	if strings.TrimSpace(text) == "" {
		return NoBio
	}
	return CountPronouns(text)
}
