// Package backend publishes finished dashboard sessions into BigQuery, for offline analysis of
// what people asked for and what they were told.
package backend

import(
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	fdash "github.com/skypies/flightdash"
)

// Sink is wherever the denormalized rows end up.
type Sink interface {
	Put(ctx context.Context, name string, rows []*fdash.PredictionForBigQuery) error
}

type Logger interface {
	Printf(format string, v ...interface{})
}

// Publisher turns a session's history into rows. A nil Publisher publishes nothing. It remembers
// how much of each session it has already published, so ending a session twice adds no rows.
type Publisher struct {
	Sink   Sink
	Logger Logger
	Now    func() time.Time

	mu        sync.Mutex
	published map[string]int // sessionId -> rows already handed to the sink
}

func NewPublisher(s Sink) *Publisher {
	return &Publisher{Sink:s, Logger:log.Default(), Now:time.Now, published:map[string]int{}}
}

func (p *Publisher)Infof(format string, args ...interface{}) {
	if p.Logger != nil { p.Logger.Printf("[backend] "+format, args...) }
}

// Filename is the name for a session's batch of rows; it is only used by sinks that stage via
// cloud storage.
func Filename(sessionId string, t time.Time) string {
	return fmt.Sprintf("predictions-%s-%s.json", t.UTC().Format("2006.01.02-150405"), sessionId)
}

// Published returns how many rows of the session have been handed to the sink so far.
func (p *Publisher)Published(sessionId string) int {
	if p == nil { return 0 }
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.published[sessionId]
}

// Publish hands the sink the rows of h it has not yet seen for this session, and returns how many
// that was. Rows keep their position in the history as their Seq. Calls for the same session are
// serialized, so concurrent session ends can't both publish the same rows.
func (p *Publisher)Publish(ctx context.Context, sessionId string, h fdash.History) (int, error) {
	if p == nil || p.Sink == nil { return 0, nil }

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.published == nil { p.published = map[string]int{} }

	done := p.published[sessionId]
	if len(h) <= done { return 0, nil }

	tStart := time.Now()
	t := p.Now()
	rows := h.ForBigQuery(sessionId, t)[done:]
	if err := p.Sink.Put(ctx, Filename(sessionId, t), rows); err != nil {
		return 0, fmt.Errorf("Publish(%s): %v", sessionId, err)
	}
	p.published[sessionId] = len(h)

	p.Infof("published %d predictions for session %s, took %s", len(rows), sessionId, time.Since(tStart))
	return len(rows), nil
}
