package session

import(
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	fdash "github.com/skypies/flightdash"
	"github.com/skypies/flightdash/charts"
	"github.com/skypies/flightdash/persist"
	"github.com/skypies/flightdash/predict"
)

// {{{ fakePredictor

type fakePredictor struct {
	sync.Mutex
	Calls   int
	Err     error
	Results map[string]fdash.PredictionRecord // by carrier
	Gate    chan struct{}                     // if set, Predict blocks until it is closed
}

func (fp *fakePredictor)Predict(ctx context.Context, in fdash.PredictionInput) (fdash.PredictionRecord, error) {
	fp.Lock()
	fp.Calls++
	gate := fp.Gate
	fp.Unlock()
	if gate != nil { <-gate }

	if fp.Err != nil { return fdash.PredictionRecord{}, fp.Err }
	r := fp.Results[in.Carrier]
	r.Input = in
	return r, nil
}

func (fp *fakePredictor)Health(ctx context.Context) (predict.Status, error) {
	return predict.Status{Status:"ok", Detail:"FastAPI is running"}, nil
}

// }}}

var tNow = time.Date(2024, 5, 1, 17, 30, 0, 0, time.UTC)

func input(carrier string) fdash.PredictionInput {
	return fdash.PredictionInput{Carrier:carrier, Airport:"JFK", Month:3}
}

func newTestStore() (*Store, *fakePredictor, *persist.MemStore) {
	fp := &fakePredictor{Results: map[string]fdash.PredictionRecord{
		"AA": {TotalDelayMinutes:45, HighWeatherRisk:false, DelayCategory:fdash.Minor},
		"UA": {TotalDelayMinutes:80, HighWeatherRisk:true, DelayCategory:fdash.Major},
		"DL": {TotalDelayMinutes:0, HighWeatherRisk:false, DelayCategory:fdash.NoDelay},
	}}
	ms := persist.NewMemStore()
	adapter := persist.NewAdapter(ms)
	adapter.Logger = log.New(&bytes.Buffer{}, "", 0)

	s := NewStore(fp, adapter)
	s.Logger = log.New(&bytes.Buffer{}, "", 0)
	s.Now = func() time.Time { return tNow }
	return s, fp, ms
}

func TestSubmitAppends(t *testing.T) {
	s,fp,_ := newTestStore()
	rec,err := s.Submit(context.Background(), input("AA"))
	require.NoError(t, err)
	assert.Equal(t, 45.0, rec.TotalDelayMinutes)
	assert.Equal(t, 1, fp.Calls)

	st := s.State()
	require.Len(t, st.History, 1)
	require.NotNil(t, st.LatestResult)
	assert.Equal(t, fdash.Minor, st.LatestResult.DelayCategory)
	assert.Equal(t, charts.RiskCounts{High:0, Low:1}, charts.RiskDistribution(st.History))
}

func TestNavigateAwayAndRestore(t *testing.T) {
	ctx := context.Background()
	s,_,_ := newTestStore()
	s.Submit(ctx, input("UA"))
	s.Submit(ctx, input("AA"))

	s.NavigateAway(true)
	st := s.State()
	assert.Empty(t, st.History)
	assert.Nil(t, st.LatestResult)
	require.NotNil(t, st.SavedSnapshot)
	assert.Len(t, st.SavedSnapshot.History, 2)
	assert.True(t, st.ClearedSinceNavigate)
	assert.Equal(t, ViewHome, st.View)

	show,msg := s.RestoreBanner()
	assert.True(t, show)
	assert.Contains(t, msg, "History last saved at")

	assert.True(t, s.Restore(ctx))
	st = s.State()
	require.Len(t, st.History, 2)
	assert.Equal(t, "AA", st.LatestResult.Input.Carrier)
	assert.Nil(t, st.SavedSnapshot)
	assert.False(t, st.ClearedSinceNavigate)
	assert.Equal(t, charts.RiskCounts{High:1, Low:1}, charts.RiskDistribution(st.History))

	show,_ = s.RestoreBanner()
	assert.False(t, show)
}

func TestSubmitInvalid(t *testing.T) {
	s,fp,_ := newTestStore()
	in := input("AA")
	in.Airport = ""

	_,err := s.Submit(context.Background(), in)
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "airport", ve.Field)
	assert.Equal(t, 0, fp.Calls)
	assert.Empty(t, s.State().History)
}

func TestSecondNavigateReplacesSnapshot(t *testing.T) {
	ctx := context.Background()
	s,_,_ := newTestStore()
	s.Submit(ctx, input("UA"))
	s.NavigateAway(true)

	s.Submit(ctx, input("DL"))
	s.NavigateAway(true)

	st := s.State()
	require.NotNil(t, st.SavedSnapshot)
	require.Len(t, st.SavedSnapshot.History, 1)
	assert.Equal(t, "DL", st.SavedSnapshot.History[0].Input.Carrier)

	require.True(t, s.Restore(ctx))
	h := s.History()
	require.Len(t, h, 1)
	assert.Equal(t, "DL", h[0].Input.Carrier)
}

func TestNavigateNoops(t *testing.T) {
	ctx := context.Background()
	s,_,_ := newTestStore()

	s.NavigateAway(false) // already on the prediction view
	assert.Nil(t, s.State().SavedSnapshot)

	s.NavigateAway(true) // nothing to snapshot
	st := s.State()
	assert.Nil(t, st.SavedSnapshot)
	assert.False(t, st.ClearedSinceNavigate)

	s.Submit(ctx, input("AA"))
	s.NavigateAway(true)
	s.NavigateAway(true) // already home; must not overwrite the snapshot
	st = s.State()
	require.NotNil(t, st.SavedSnapshot)
	assert.Len(t, st.SavedSnapshot.History, 1)

	s.NavigateAway(false) // coming back doesn't restore
	assert.Empty(t, s.State().History)
	assert.True(t, s.State().ClearedSinceNavigate)
}

func TestRestoreIdempotent(t *testing.T) {
	ctx := context.Background()
	s,_,_ := newTestStore()
	assert.False(t, s.Restore(ctx))

	s.Submit(ctx, input("AA"))
	s.NavigateAway(true)
	require.True(t, s.Restore(ctx))
	before := s.State()

	assert.False(t, s.Restore(ctx))
	assert.Equal(t, before, s.State())
}

func TestSubmitNetworkError(t *testing.T) {
	s,fp,_ := newTestStore()
	fp.Err = &predict.APIError{Op:"/predict", StatusCode:503, Detail:"Model not loaded."}

	_,err := s.Submit(context.Background(), input("AA"))
	var ne *NetworkError
	require.True(t, errors.As(err, &ne))
	assert.Equal(t, "Model not loaded.", ne.Message)
	assert.Equal(t, 1, fp.Calls)
	assert.Empty(t, s.State().History)
	assert.Nil(t, s.State().LatestResult)

	fp.Err = fmt.Errorf("connection refused")
	_,err = s.Submit(context.Background(), input("AA"))
	require.True(t, errors.As(err, &ne))
	assert.Equal(t, predict.FallbackMessage, ne.Message)
}

func TestStateIsACopy(t *testing.T) {
	s,_,_ := newTestStore()
	s.Submit(context.Background(), input("AA"))

	st := s.State()
	st.History[0].TotalDelayMinutes = 999
	st.LatestResult.TotalDelayMinutes = 999
	assert.Equal(t, 45.0, s.State().History[0].TotalDelayMinutes)
	assert.Equal(t, 45.0, s.State().LatestResult.TotalDelayMinutes)
}

func TestSessionEndThenStart(t *testing.T) {
	ctx := context.Background()
	s,_,ms := newTestStore()
	s.Submit(ctx, input("AA"))
	s.Submit(ctx, input("UA"))
	s.OnSessionEnd(ctx)
	assert.Equal(t, 3, ms.Len())

	// A new session over the same durable store
	s2 := NewStore(s.Client, s.Persistence)
	s2.Logger = s.Logger
	assert.True(t, s2.OnSessionStart(ctx))
	assert.False(t, s2.OnSessionStart(ctx)) // at most once

	st := s2.State()
	assert.Empty(t, st.History)
	require.NotNil(t, st.SavedSnapshot)
	assert.Len(t, st.SavedSnapshot.History, 2)
	assert.True(t, st.ClearedSinceNavigate)
	assert.True(t, tNow.Equal(st.SavedSnapshot.SavedAt))

	require.True(t, s2.Restore(ctx))
	assert.Len(t, s2.History(), 2)
	assert.Equal(t, 0, ms.Len()) // restore clears the durable copy
}

func TestSessionEndPendingSnapshot(t *testing.T) {
	ctx := context.Background()
	s,_,_ := newTestStore()
	s.Submit(ctx, input("AA"))
	s.NavigateAway(true)

	s.Now = func() time.Time { return tNow.Add(time.Hour) }
	s.OnSessionEnd(ctx)

	snap := s.Persistence.Load(ctx)
	require.NotNil(t, snap)
	assert.Len(t, snap.History, 1)
	assert.True(t, tNow.Equal(snap.SavedAt), "pending snapshot keeps its save time")
}

func TestSessionEndEmpty(t *testing.T) {
	s,_,ms := newTestStore()
	s.OnSessionEnd(context.Background())
	assert.Equal(t, 0, ms.Len())
}

func TestSessionStartAfterSubmit(t *testing.T) {
	ctx := context.Background()
	s,_,ms := newTestStore()
	a := s.Persistence.(*persist.Adapter)
	r := fdash.PredictionRecord{TotalDelayMinutes:3}
	a.Save(ctx, fdash.NewSnapshot(fdash.History{r}, &r, tNow))
	require.Equal(t, 3, ms.Len())

	s.Submit(ctx, input("AA"))
	assert.False(t, s.OnSessionStart(ctx))
	assert.Nil(t, s.State().SavedSnapshot)
}

func TestStalePolicy(t *testing.T) {
	for _,policy := range []StalePolicy{AppendStale, DiscardStale} {
		ctx := context.Background()
		s,fp,_ := newTestStore()
		s.Stale = policy
		s.Submit(ctx, input("AA"))

		fp.Gate = make(chan struct{})
		done := make(chan struct{})
		go func() {
			s.Submit(ctx, input("UA"))
			close(done)
		}()

		// Wait for the call to be in flight, then navigate away underneath it
		require.Eventually(t, func() bool {
			fp.Lock()
			defer fp.Unlock()
			return fp.Calls == 2
		}, time.Second, time.Millisecond)
		s.NavigateAway(true)
		close(fp.Gate)
		<-done

		st := s.State()
		require.NotNil(t, st.SavedSnapshot)
		assert.Len(t, st.SavedSnapshot.History, 1)
		if policy == AppendStale {
			assert.Len(t, st.History, 1)
			assert.Equal(t, "UA", st.LatestResult.Input.Carrier)
		} else {
			assert.Empty(t, st.History)
			assert.Nil(t, st.LatestResult)
		}
	}
}

func TestConcurrentSubmits(t *testing.T) {
	ctx := context.Background()
	s,_,_ := newTestStore()

	wg := sync.WaitGroup{}
	for i:=0; i<20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			carriers := []string{"AA", "UA", "DL"}
			s.Submit(ctx, input(carriers[i%3]))
		}(i)
	}
	wg.Wait()

	h := s.History()
	assert.Len(t, h, 20)
	rc := charts.RiskDistribution(h)
	assert.Equal(t, len(h), rc.Total())
}

func TestHealthCheck(t *testing.T) {
	s,_,_ := newTestStore()
	st,err := s.HealthCheck(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ok", st.Status)
}

func TestParsers(t *testing.T) {
	p,err := ParseStalePolicy("discard")
	assert.NoError(t, err)
	assert.Equal(t, DiscardStale, p)
	_,err = ParseStalePolicy("shred")
	assert.Error(t, err)

	v,err := ParseView("home")
	assert.NoError(t, err)
	assert.Equal(t, ViewHome, v)
	_,err = ParseView("attic")
	assert.Error(t, err)
}
