package audio

import (
	"context"
	"log/slog"
	"strings"

	"yogaseq/internal/catalog"
	"yogaseq/internal/logging"
	"yogaseq/internal/sequence"
)

// Cuer plays pose and end-of-hold cues for the session timer.
type Cuer struct {
	ctx     context.Context
	sink    Sink
	catalog func() *catalog.Catalog
	endCue  string
	logger  *slog.Logger
}

// NewCuer builds a cue player. lookup returns the current catalogue and
// may be nil, in which case only the pose's own label names the cue.
func NewCuer(ctx context.Context, sink Sink, lookup func() *catalog.Catalog, endCue string, logger *slog.Logger) *Cuer {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Cuer{
		ctx:     ctx,
		sink:    sink,
		catalog: lookup,
		endCue:  strings.TrimSpace(endCue),
		logger:  logging.NewComponentLogger(logger, "audio"),
	}
}

// PoseCandidates returns the cue names for pose. The asana comes from the
// pose itself or, failing that, the index row that lists its first plate.
// The record's display name is preferred over the pose label.
func (c *Cuer) PoseCandidates(pose sequence.Pose) []string {
	asana := pose.AsanaNo
	name := pose.Label
	var cat *catalog.Catalog
	if c.catalog != nil {
		cat = c.catalog()
	}
	if cat != nil {
		if asana.Empty() {
			if id, ok := cat.AsanaForPlate(pose.Plates.First()); ok {
				asana = id
			}
		}
		if rec, ok := cat.Record(string(asana)); ok && rec.DisplayName() != "" {
			name = rec.DisplayName()
		}
	}
	return Candidates(asana, name)
}

// PoseCue plays the first available cue for pose.
func (c *Cuer) PoseCue(pose sequence.Pose) {
	candidates := c.PoseCandidates(pose)
	if len(candidates) == 0 {
		return
	}
	if name, ok := PlayFirst(c.ctx, c.sink, KindPose, candidates); ok {
		c.logger.Debug("pose cue played", logging.String("cue", name))
		return
	}
	c.logger.Debug("no pose cue available", logging.Any("candidates", candidates))
}

// EndCue plays the end-of-hold cue.
func (c *Cuer) EndCue() {
	if c.endCue == "" {
		return
	}
	if _, ok := PlayFirst(c.ctx, c.sink, KindEnd, []string{c.endCue}); !ok {
		c.logger.Debug("end cue unavailable", logging.String("cue", c.endCue))
	}
}
