package flightdash

import(
	"fmt"
	"time"

	"github.com/skypies/util/date"
)

// History is the ordered list of predictions made during a session, oldest first.
type History []PredictionRecord

func (h History)Clone() History {
	if h == nil { return nil }
	out := make(History, len(h))
	for i,r := range h {
		out[i] = r.Clone()
	}
	return out
}

// Latest returns the most recent record, or nil.
func (h History)Latest() *PredictionRecord {
	if len(h) == 0 { return nil }
	r := h[len(h)-1].Clone()
	return &r
}

func (h History)String() string {
	str := fmt.Sprintf("--- history (%d predictions) ---\n", len(h))
	for i,r := range h {
		str += fmt.Sprintf(" [%02d] %s\n", i+1, r)
	}
	return str
}

// SessionSnapshot is a frozen copy of a session's results, taken when the user navigates away
// or the session ends.
type SessionSnapshot struct {
	History       History
	LatestResult *PredictionRecord
	SavedAt       time.Time // zero if unknown
}

func NewSnapshot(h History, latest *PredictionRecord, t time.Time) *SessionSnapshot {
	snap := SessionSnapshot{History: h.Clone(), SavedAt: t}
	if latest != nil {
		r := latest.Clone()
		snap.LatestResult = &r
	}
	return &snap
}

// IsEmpty is true if the snapshot holds nothing worth restoring.
func (s *SessionSnapshot)IsEmpty() bool {
	return s == nil || (len(s.History) == 0 && s.LatestResult == nil)
}

func (s *SessionSnapshot)Clone() *SessionSnapshot {
	if s == nil { return nil }
	return NewSnapshot(s.History, s.LatestResult, s.SavedAt)
}

// SavedAtString renders the save time the way the restore banner shows it; empty if unknown.
func (s *SessionSnapshot)SavedAtString() string {
	if s == nil || s.SavedAt.IsZero() { return "" }
	return date.InPdt(s.SavedAt).Format("15:04")
}

func (s *SessionSnapshot)String() string {
	if s == nil { return "<no snapshot>" }
	return fmt.Sprintf("snapshot: %d predictions, latest=%v, saved=%s", len(s.History),
		s.LatestResult != nil, s.SavedAtString())
}

// {{{ -------------------------={ E N D }=----------------------------------

// Local variables:
// folded-file: t
// end:

// }}}
