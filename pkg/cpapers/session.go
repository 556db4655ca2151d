package cpapers

import (
	"context"
	"log/slog"
	"time"

	"github.com/rendis/papergraph/pkg/schema"
)

// defaultPollInterval is the pause between consecutive status checks
// while a graph build is still running.
const defaultPollInterval = time.Second

// overloadedRetryDelays is the fixed wait schedule applied when the
// service reports OVERLOADED. The schedule is never reordered or
// jittered; whatever snapshot is alive after the last attempt wins.
var overloadedRetryDelays = []time.Duration{
	5 * time.Second,
	10 * time.Second,
	20 * time.Second,
	40 * time.Second,
}

// GraphResult is one item of a retrieval stream: a snapshot or the
// error that ended the stream. Exactly one of the two fields is set.
type GraphResult struct {
	Snapshot *schema.GraphResponse
	Err      error
}

// graphFetcher performs one status check against the service.
type graphFetcher interface {
	fetchGraph(ctx context.Context, paperID string, fresh bool) (*schema.GraphResponse, error)
}

// graphSession drives a single retrieval: it owns the polling loop, the
// overload schedule, the one-shot freshness escalation and the
// carry-forward of the last seen graph. A session is single-use and
// feeds exactly one consumer; none of its state is shared.
type graphSession struct {
	fetcher graphFetcher
	logger  *slog.Logger

	paperID string
	fresh   bool
	wait    bool

	// escalated latches once an OLD_GRAPH answer upgrades the session
	// to fresh; a second OLD_GRAPH is then accepted as final.
	escalated bool
	lastGraph *schema.Graph

	interval time.Duration
	sleep    func(ctx context.Context, delay time.Duration) error

	out chan GraphResult
}

// run executes the polling protocol and closes the stream when done.
func (s *graphSession) run(ctx context.Context) {
	defer close(s.out)

	s.logger.DebugContext(ctx, "starting graph retrieval",
		slog.Bool("fresh_only", s.fresh), slog.Bool("wait", s.wait))

	for {
		snap, err := s.fetcher.fetchGraph(ctx, s.paperID, s.fresh)
		if err != nil {
			s.emit(ctx, GraphResult{Err: err})
			return
		}
		s.retainGraph(snap)
		s.logger.DebugContext(ctx, "graph status", slog.String("status", string(snap.Status)))

		if snap.Status == schema.StatusOldGraph {
			final := !s.wait || s.escalated
			if !final {
				// One-shot upgrade: every following fetch asks for a rebuild.
				s.escalated = true
				s.fresh = true
				s.logger.DebugContext(ctx, "old graph received, requesting fresh rebuild")
			}
			snap.GraphJSON = s.lastGraph
			if !s.emit(ctx, GraphResult{Snapshot: snap}) {
				return
			}
			if final {
				return
			}
			if s.sleep(ctx, s.interval) != nil {
				return
			}
			continue
		}

		if snap.Status == schema.StatusOverloaded {
			for _, delay := range overloadedRetryDelays {
				s.logger.DebugContext(ctx, "service overloaded, backing off",
					slog.Duration("delay", delay))
				if s.sleep(ctx, delay) != nil {
					return
				}
				retry, err := s.fetcher.fetchGraph(ctx, s.paperID, s.fresh)
				if err != nil {
					s.emit(ctx, GraphResult{Err: err})
					return
				}
				snap = retry
				s.retainGraph(snap)
				if snap.Status != schema.StatusOverloaded {
					break
				}
			}
		}

		snap.GraphJSON = s.lastGraph
		if !s.emit(ctx, GraphResult{Snapshot: snap}) {
			return
		}
		if snap.Status.Terminal() || !s.wait {
			return
		}
		if s.sleep(ctx, s.interval) != nil {
			return
		}
	}
}

// retainGraph keeps the most recent non-empty graph so later snapshots
// never regress to an empty one.
func (s *graphSession) retainGraph(snap *schema.GraphResponse) {
	if snap.GraphJSON != nil {
		s.lastGraph = snap.GraphJSON
	}
}

// emit delivers one result to the consumer, giving up if the context is
// cancelled first. The channel is unbuffered, so the loop never runs
// ahead of the consumer by more than the item being produced.
func (s *graphSession) emit(ctx context.Context, res GraphResult) bool {
	select {
	case s.out <- res:
		return true
	case <-ctx.Done():
		return false
	}
}

// waitInterval sleeps for the given delay, honoring context cancellation.
func waitInterval(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(delay):
		return nil
	}
}
