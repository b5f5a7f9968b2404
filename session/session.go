// Package session owns the live state of one dashboard session: the history of predictions, the
// latest result, and the snapshot taken when the user leaves the prediction view.
package session

import(
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	fdash "github.com/skypies/flightdash"
	"github.com/skypies/flightdash/predict"
)

// {{{ View, StalePolicy

type View int
const(
	ViewPredict View = iota
	ViewHome
)

func (v View)String() string {
	switch v {
	case ViewPredict: return "predict"
	case ViewHome:    return "home"
	}
	return fmt.Sprintf("View(%d)", int(v))
}

func ParseView(s string) (View, error) {
	switch s {
	case "predict": return ViewPredict, nil
	case "home":    return ViewHome, nil
	}
	return ViewHome, fmt.Errorf("unknown view %q", s)
}

// StalePolicy decides what happens to a prediction that comes back after the user has navigated
// away or restored while it was in flight.
type StalePolicy int
const(
	AppendStale  StalePolicy = iota // append to whatever history is live now
	DiscardStale                    // drop it
)

func ParseStalePolicy(s string) (StalePolicy, error) {
	switch s {
	case "", "append": return AppendStale, nil
	case "discard":    return DiscardStale, nil
	}
	return AppendStale, fmt.Errorf("unknown stale policy %q", s)
}

// }}}
// {{{ State

type State struct {
	History               fdash.History
	LatestResult         *fdash.PredictionRecord
	SavedSnapshot        *fdash.SessionSnapshot
	ClearedSinceNavigate  bool
	View                  View
}

func (s State)IsEmpty() bool { return len(s.History) == 0 && s.LatestResult == nil }

func (s State)clone() State {
	out := s
	out.History = s.History.Clone()
	if s.LatestResult != nil {
		r := s.LatestResult.Clone()
		out.LatestResult = &r
	}
	out.SavedSnapshot = s.SavedSnapshot.Clone()
	return out
}

func (s State)String() string {
	return fmt.Sprintf("[%s] %d predictions, latest=%v, cleared=%v, %s", s.View, len(s.History),
		s.LatestResult != nil, s.ClearedSinceNavigate, s.SavedSnapshot)
}

// }}}
// {{{ Store{}

// Persister is the durable side of the store; persist.Adapter is the real one.
type Persister interface {
	Save(ctx context.Context, snap *fdash.SessionSnapshot)
	Load(ctx context.Context) *fdash.SessionSnapshot
	Clear(ctx context.Context)
}

type Logger interface {
	Printf(format string, v ...interface{})
}

// Store serializes all transitions behind a mutex. The only call made without the lock held is
// the one to the prediction service.
type Store struct {
	Client      predict.Predictor
	Persistence Persister // may be nil
	Logger      Logger
	Stale       StalePolicy
	Now         func() time.Time

	mu          sync.Mutex
	state       State
	epoch       int  // bumped whenever the live history is replaced
	started     bool // OnSessionStart has run
	submitted   bool // a Submit has been attempted
}

func NewStore(c predict.Predictor, p Persister) *Store {
	return &Store{
		Client: c,
		Persistence: p,
		Logger: log.Default(),
		Now: time.Now,
		state: State{View:ViewPredict},
	}
}

func (s *Store)logf(level, format string, args ...interface{}) {
	if s.Logger != nil { s.Logger.Printf("["+level+"] "+format, args...) }
}
func (s *Store)Debugf(format string, args ...interface{}) { s.logf("debug", format, args...) }
func (s *Store)Infof(format string, args ...interface{})  { s.logf("info", format, args...) }
func (s *Store)Errorf(format string, args ...interface{}) { s.logf("error", format, args...) }

// State returns a deep copy of the current state.
func (s *Store)State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// History returns a copy of the live history.
func (s *Store)History() fdash.History {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.History.Clone()
}

// }}}

// {{{ s.Submit

// Submit validates the input, asks the service for a prediction, and appends it to the history.
// On any error, the history is untouched. Failed calls are not retried.
func (s *Store)Submit(ctx context.Context, in fdash.PredictionInput) (fdash.PredictionRecord, error) {
	if err := in.Validate(); err != nil {
		var ie *fdash.InputError
		if errors.As(err, &ie) {
			return fdash.PredictionRecord{}, &ValidationError{Field:ie.Field, Reason:ie.Reason}
		}
		return fdash.PredictionRecord{}, &ValidationError{Reason:err.Error()}
	}

	s.mu.Lock()
	s.submitted = true
	s.state.View = ViewPredict // the form only lives on the prediction view
	epoch := s.epoch
	s.mu.Unlock()

	rec,err := s.Client.Predict(ctx, in.Normalized())
	if err != nil {
		s.Errorf("Submit %s: %v", in, err)
		return fdash.PredictionRecord{}, newNetworkError(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if epoch != s.epoch && s.Stale == DiscardStale {
		s.Infof("Submit %s: discarding stale result", in)
		return rec.Clone(), nil
	}

	s.state.History = append(s.state.History, rec)
	latest := rec.Clone()
	s.state.LatestResult = &latest
	s.Debugf("Submit %s: now %d predictions", in, len(s.state.History))

	return rec.Clone(), nil
}

// }}}
// {{{ s.Navigate, s.NavigateAway

// NavigateAway moves the user off the prediction view (leaving=true) or back onto it. Leaving
// with something on screen snapshots it and clears the live state; any older snapshot is lost.
func (s *Store)NavigateAway(leavingPredictionView bool) {
	if leavingPredictionView {
		s.Navigate(ViewHome)
	} else {
		s.Navigate(ViewPredict)
	}
}

func (s *Store)Navigate(target View) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.View == target { return }
	from := s.state.View
	s.state.View = target

	if from != ViewPredict || s.state.IsEmpty() { return }

	s.state.SavedSnapshot = fdash.NewSnapshot(s.state.History, s.state.LatestResult, s.Now())
	s.state.History = nil
	s.state.LatestResult = nil
	s.state.ClearedSinceNavigate = true
	s.epoch++
	s.Debugf("Navigate %s->%s: %s", from, target, s.state.SavedSnapshot)
}

// }}}
// {{{ s.Restore

// Restore brings back the saved snapshot, if there is one, and forgets it (here and in the
// durable store). It returns false if there was nothing to restore.
func (s *Store)Restore(ctx context.Context) bool {
	s.mu.Lock()
	snap := s.state.SavedSnapshot
	if snap == nil {
		s.mu.Unlock()
		return false
	}

	s.state.History = snap.History.Clone()
	s.state.LatestResult = snap.Clone().LatestResult
	s.state.SavedSnapshot = nil
	s.state.ClearedSinceNavigate = false
	s.state.View = ViewPredict
	s.epoch++
	s.Debugf("Restore: %d predictions", len(s.state.History))
	s.mu.Unlock()

	if s.Persistence != nil {
		s.Persistence.Clear(ctx)
	}
	return true
}

// RestoreBanner says whether to offer a restore, and the text to show alongside.
func (s *Store)RestoreBanner() (bool, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.SavedSnapshot == nil || !s.state.ClearedSinceNavigate { return false, "" }
	if t := s.state.SavedSnapshot.SavedAtString(); t != "" {
		return true, fmt.Sprintf("History last saved at %s", t)
	}
	return true, ""
}

// }}}
// {{{ s.HealthCheck

func (s *Store)HealthCheck(ctx context.Context) (predict.Status, error) {
	return s.Client.Health(ctx)
}

// }}}
// {{{ s.OnSessionStart, s.OnSessionEnd

// OnSessionStart loads any snapshot left by a previous session. It only does anything the first
// time it is called, and only if nothing has been submitted yet.
func (s *Store)OnSessionStart(ctx context.Context) bool {
	s.mu.Lock()
	if s.started || s.submitted {
		s.mu.Unlock()
		return false
	}
	s.started = true
	s.mu.Unlock()

	if s.Persistence == nil { return false }
	snap := s.Persistence.Load(ctx)
	if snap.IsEmpty() { return false }

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.SavedSnapshot = snap
	s.state.ClearedSinceNavigate = true
	s.Infof("OnSessionStart: loaded %s", snap)
	return true
}

// OnSessionEnd persists whatever the next session should be offered: the live state if there is
// any, else an unrestored snapshot (keeping its original save time). The write is synchronous.
func (s *Store)OnSessionEnd(ctx context.Context) {
	s.mu.Lock()
	var snap *fdash.SessionSnapshot
	if !s.state.IsEmpty() {
		snap = fdash.NewSnapshot(s.state.History, s.state.LatestResult, s.Now())
	} else if s.state.SavedSnapshot != nil {
		snap = s.state.SavedSnapshot.Clone()
	}
	s.mu.Unlock()

	if snap == nil || s.Persistence == nil { return }
	s.Persistence.Save(ctx, snap)
	s.Infof("OnSessionEnd: saved %s", snap)
}

// }}}

// {{{ -------------------------={ E N D }=----------------------------------

// Local variables:
// folded-file: t
// end:

// }}}
