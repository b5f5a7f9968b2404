package persist

import(
	"bytes"
	"context"
	"fmt"
	"log"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	fdash "github.com/skypies/flightdash"
)

func newTestAdapter(s KVStore) (*Adapter, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	a := NewAdapter(s)
	a.Logger = log.New(buf, "", 0)
	return a, buf
}

func testSnapshot() *fdash.SessionSnapshot {
	r1 := fdash.PredictionRecord{
		Input: fdash.PredictionInput{Carrier:"AA", Airport:"JFK", Month:6, WeatherDelayCount:4},
		TotalDelayMinutes: 12.5,
		HighWeatherRisk: true,
		DelayCategory: fdash.Minor,
	}
	r2 := fdash.PredictionRecord{
		Input: fdash.PredictionInput{Carrier:"UA", Airport:"SFO", Month:1},
		TotalDelayMinutes: 45,
		DelayCategory: fdash.Major,
		RiskScore: 0.07,
		Alternatives: []fdash.Alternative{{Carrier: "DL", RiskScore: 0.02, FlightVolume: 300}},
	}
	h := fdash.History{r1, r2}
	return fdash.NewSnapshot(h, &r2, time.Date(2024, 5, 1, 17, 30, 0, 0, time.UTC))
}

func TestSaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	a,_ := newTestAdapter(NewMemStore())

	snap := testSnapshot()
	a.Save(ctx, snap)
	got := a.Load(ctx)

	require.NotNil(t, got)
	assert.Equal(t, snap.History, got.History)
	assert.Equal(t, snap.LatestResult, got.LatestResult)
	assert.True(t, snap.SavedAt.Equal(got.SavedAt))
}

func TestSaveNullResult(t *testing.T) {
	ctx := context.Background()
	ms := NewMemStore()
	a,_ := newTestAdapter(ms)

	snap := testSnapshot()
	snap.LatestResult = nil
	a.Save(ctx, snap)

	v,err := ms.Get(ctx, KeyResult)
	require.NoError(t, err)
	assert.Equal(t, "null", v)

	got := a.Load(ctx)
	require.NotNil(t, got)
	assert.Nil(t, got.LatestResult)
	assert.Len(t, got.History, 2)
}

func TestRoundTripResultOnly(t *testing.T) {
	ctx := context.Background()
	a,_ := newTestAdapter(NewMemStore())

	r := fdash.PredictionRecord{Input:fdash.PredictionInput{Carrier:"DL", Airport:"ATL", Month:2},
		DelayCategory:fdash.NoDelay}
	snap := fdash.NewSnapshot(nil, &r, time.Date(2024, 5, 1, 17, 30, 0, 0, time.UTC))
	require.Nil(t, snap.History)

	a.Save(ctx, snap)
	got := a.Load(ctx)
	require.NotNil(t, got)
	assert.Nil(t, got.History)
	assert.Equal(t, snap.LatestResult, got.LatestResult)
}

func TestSaveEmptyIsNoop(t *testing.T) {
	ms := NewMemStore()
	a,_ := newTestAdapter(ms)
	a.Save(context.Background(), &fdash.SessionSnapshot{SavedAt:time.Now()})
	a.Save(context.Background(), nil)
	assert.Equal(t, 0, ms.Len())
}

func TestLoadNothing(t *testing.T) {
	a,buf := newTestAdapter(NewMemStore())
	assert.Nil(t, a.Load(context.Background()))
	assert.Empty(t, buf.String())
}

func TestLoadCorrupt(t *testing.T) {
	ctx := context.Background()

	tests := []struct{
		Name      string
		Vals      map[string]string
		ExpectNil bool
		ExpectLen int
		ExpectTS  bool
	}{
		{"all garbage", map[string]string{KeyHistory:"{{", KeyResult:"[", KeyTimestamp:"x"}, true, 0, false},
		{"only timestamp", map[string]string{KeyTimestamp:"2024-05-01T17:30:00Z"}, true, 0, false},
		{"bad timestamp", map[string]string{KeyHistory:`[{"total_delay_minutes":3,"delay_category":"Minor"}]`,
			KeyTimestamp:"yesterday"}, false, 1, false},
		{"history, no result", map[string]string{KeyHistory:`[]`, KeyResult:"null"}, true, 0, false},
		{"result only", map[string]string{KeyResult:`{"total_delay_minutes":0,"delay_category":"No Delay"}`,
			KeyTimestamp:"2024-05-01T17:30:00Z"}, false, 0, true},
		{"bad category", map[string]string{KeyHistory:`[{"delay_category":"Awful"}]`}, true, 0, false},
	}

	for _,test := range tests {
		ms := NewMemStore()
		for k,v := range test.Vals { ms.Put(ctx, k, v) }
		a,_ := newTestAdapter(ms)

		got := a.Load(ctx)
		if test.ExpectNil {
			assert.Nil(t, got, test.Name)
			continue
		}
		require.NotNil(t, got, test.Name)
		assert.Len(t, got.History, test.ExpectLen, test.Name)
		assert.Equal(t, test.ExpectTS, !got.SavedAt.IsZero(), test.Name)
	}
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	ms := NewMemStore()
	a,_ := newTestAdapter(ms)

	a.Save(ctx, testSnapshot())
	assert.Equal(t, 3, ms.Len())
	a.Clear(ctx)
	assert.Equal(t, 0, ms.Len())
	assert.Nil(t, a.Load(ctx))

	a.Clear(ctx) // idempotent
}

type brokenStore struct{}

func (brokenStore)Get(ctx context.Context, key string) (string, error) { return "", fmt.Errorf("boom") }
func (brokenStore)Put(ctx context.Context, key, val string) error     { return fmt.Errorf("boom") }
func (brokenStore)Delete(ctx context.Context, key string) error       { return fmt.Errorf("boom") }

func TestFailuresAreLogged(t *testing.T) {
	ctx := context.Background()
	a,buf := newTestAdapter(brokenStore{})

	a.Save(ctx, testSnapshot())
	assert.Nil(t, a.Load(ctx))
	a.Clear(ctx)

	assert.Contains(t, buf.String(), "persist/save(flightdash.history): boom")
	assert.Contains(t, buf.String(), "persist/load(flightdash.result): boom")
	assert.Contains(t, buf.String(), "persist/clear(flightdash.timestamp): boom")
}

type stickyStore struct {
	*MemStore
}

func (stickyStore)Delete(ctx context.Context, key string) error { return nil }

func TestClearVerifiesWithList(t *testing.T) {
	ctx := context.Background()
	ss := stickyStore{NewMemStore()}
	a,buf := newTestAdapter(ss)

	a.Save(ctx, testSnapshot())
	a.Clear(ctx)
	assert.Contains(t, buf.String(), "persist/clear(flightdash.history): still present after delete")

	a,buf = newTestAdapter(NewMemStore())
	a.Save(ctx, testSnapshot())
	a.Clear(ctx)
	assert.Empty(t, buf.String())
}

func TestFileStoreSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	a,_ := newTestAdapter(NewFileStore(dir))
	snap := testSnapshot()
	a.Save(ctx, snap)
	assert.NoError(t, a.Close())

	// A later process, with a fresh store on the same directory
	fs := NewFileStore(dir)
	names,err := fs.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{KeyHistory, KeyResult, KeyTimestamp}, names)

	b,buf := newTestAdapter(fs)
	got := b.Load(ctx)
	require.NotNil(t, got)
	assert.Equal(t, snap.History, got.History)
	assert.Equal(t, snap.LatestResult, got.LatestResult)
	assert.True(t, snap.SavedAt.Equal(got.SavedAt))

	b.Clear(ctx)
	assert.Nil(t, b.Load(ctx))
	names,err = fs.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, names)
	assert.Empty(t, buf.String())
}

func TestFileStoreAbsent(t *testing.T) {
	ctx := context.Background()
	fs := NewFileStore(filepath.Join(t.TempDir(), "not-yet"))

	_,err := fs.Get(ctx, KeyHistory)
	assert.ErrorIs(t, err, ErrAbsent)
	assert.ErrorIs(t, fs.Delete(ctx, KeyHistory), ErrAbsent)
	names,err := fs.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, names)

	require.NoError(t, fs.Put(ctx, KeyHistory, "[]"))
	v,err := fs.Get(ctx, KeyHistory)
	require.NoError(t, err)
	assert.Equal(t, "[]", v)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	s,err := Open(ctx, Options{})
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, s)
	s,err = Open(ctx, Options{Backend:"memory"})
	require.NoError(t, err)
	assert.IsType(t, &MemStore{}, s)
	s,err = Open(ctx, Options{Backend:"file", Dir:"/tmp/x"})
	require.NoError(t, err)
	assert.Equal(t, "/tmp/x", s.(*FileStore).Dir)

	_,err = Open(ctx, Options{Backend:"floppy"})
	assert.Error(t, err)
	_,err = Open(ctx, Options{Backend:"gcs"})
	assert.Error(t, err)
	_,err = Open(ctx, Options{Backend:"datastore"})
	assert.Error(t, err)
}
