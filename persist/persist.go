// Package persist keeps a SessionSnapshot in a durable key/value store, under three keys, so that
// it survives a page reload or a dashboard restart.
package persist

import(
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	fdash "github.com/skypies/flightdash"
)

const(
	KeyHistory   = "flightdash.history"
	KeyResult    = "flightdash.result"
	KeyTimestamp = "flightdash.timestamp"
)

var Keys = []string{KeyHistory, KeyResult, KeyTimestamp}

// ErrAbsent is returned by a KVStore when the key holds no value.
var ErrAbsent = fmt.Errorf("no value for key")

// KVStore is the durable string store underneath the adapter. Implementations must treat each
// Put as a whole-value replacement.
type KVStore interface {
	Get(ctx context.Context, key string) (string, error)
	Put(ctx context.Context, key, val string) error
	Delete(ctx context.Context, key string) error
}

// Lister is implemented by stores that can enumerate their keys; Clear uses it to check that the
// keys really went.
type Lister interface {
	List(ctx context.Context) ([]string, error)
}

type Logger interface {
	Printf(format string, v ...interface{})
}

// Error is logged, never returned to the session; the adapter treats all failures as absence.
type Error struct {
	Op  string
	Key string
	Err error
}

func (e *Error)Error() string { return fmt.Sprintf("persist/%s(%s): %v", e.Op, e.Key, e.Err) }
func (e *Error)Unwrap() error { return e.Err }

// {{{ Adapter

type Adapter struct {
	Store  KVStore
	Logger Logger
}

func NewAdapter(s KVStore) *Adapter {
	return &Adapter{Store:s, Logger:log.Default()}
}

func (a *Adapter)Errorf(format string, args ...interface{}) {
	if a.Logger != nil { a.Logger.Printf("[persist] "+format, args...) }
}

func (a *Adapter)fail(op, key string, err error) {
	a.Errorf("%v", &Error{Op:op, Key:key, Err:err})
}

// }}}
// {{{ a.Save

// Save writes all three keys. Empty snapshots are never written. A nil LatestResult is stored as
// JSON null; a zero SavedAt is stored as the current time.
func (a *Adapter)Save(ctx context.Context, snap *fdash.SessionSnapshot) {
	if snap.IsEmpty() { return }

	savedAt := snap.SavedAt
	if savedAt.IsZero() { savedAt = time.Now() }

	history := snap.History
	if history == nil { history = fdash.History{} }

	hBytes,err := json.Marshal(history)
	if err != nil { a.fail("save", KeyHistory, err); return }
	rBytes,err := json.Marshal(snap.LatestResult)
	if err != nil { a.fail("save", KeyResult, err); return }

	vals := map[string]string{
		KeyHistory:   string(hBytes),
		KeyResult:    string(rBytes),
		KeyTimestamp: savedAt.UTC().Format(time.RFC3339Nano),
	}
	for _,k := range Keys {
		if err := a.Store.Put(ctx, k, vals[k]); err != nil {
			a.fail("save", k, err)
		}
	}
}

// }}}
// {{{ a.Load

// Load reads back a snapshot. It returns nil unless at least one of the history or result keys
// holds something parseable; a bad timestamp only loses the SavedAt. An empty history comes back
// as nil, the same as it went in.
func (a *Adapter)Load(ctx context.Context) *fdash.SessionSnapshot {
	snap := fdash.SessionSnapshot{}

	if str,ok := a.get(ctx, KeyHistory); ok {
		h := fdash.History{}
		if err := json.Unmarshal([]byte(str), &h); err != nil {
			a.fail("load", KeyHistory, err)
		} else if len(h) > 0 {
			snap.History = h
		}
	}

	if str,ok := a.get(ctx, KeyResult); ok {
		var r *fdash.PredictionRecord
		if err := json.Unmarshal([]byte(str), &r); err != nil {
			a.fail("load", KeyResult, err)
		} else {
			snap.LatestResult = r
		}
	}

	if snap.IsEmpty() { return nil }

	if str,ok := a.get(ctx, KeyTimestamp); ok {
		if t,err := time.Parse(time.RFC3339Nano, str); err != nil {
			a.fail("load", KeyTimestamp, err)
		} else {
			snap.SavedAt = t
		}
	}

	return &snap
}

func (a *Adapter)get(ctx context.Context, key string) (string, bool) {
	str,err := a.Store.Get(ctx, key)
	if errors.Is(err, ErrAbsent) {
		return "", false
	} else if err != nil {
		a.fail("load", key, err)
		return "", false
	}
	return str, str != ""
}

// }}}
// {{{ a.Clear

var ErrStillPresent = fmt.Errorf("still present after delete")

func (a *Adapter)Clear(ctx context.Context) {
	for _,k := range Keys {
		if err := a.Store.Delete(ctx, k); err != nil && !errors.Is(err, ErrAbsent) {
			a.fail("clear", k, err)
		}
	}

	l,ok := a.Store.(Lister)
	if !ok { return }
	names,err := l.List(ctx)
	if err != nil { a.fail("clear", "*", err); return }
	present := map[string]bool{}
	for _,n := range names { present[n] = true }
	for _,k := range Keys {
		if present[k] { a.fail("clear", k, ErrStillPresent) }
	}
}

// }}}
// {{{ a.Close

// Close releases the underlying store's client, if it has one.
func (a *Adapter)Close() error {
	if c,ok := a.Store.(io.Closer); ok { return c.Close() }
	return nil
}

// }}}

// {{{ -------------------------={ E N D }=----------------------------------

// Local variables:
// folded-file: t
// end:

// }}}
