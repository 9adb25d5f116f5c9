package poller

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matryer/is"
)

const twoDevices = `[
  {"id": 1, "name": "HPE Alletra 6000", "score": 90, "greenScore": 80, "featureScore": 85,
   "latency": 0.12, "sustainability": {"powerEfficiency": 88, "carbonReduction": 30}},
  {"id": 2, "name": "HPE MSA 2062", "score": 79, "greenScore": 99, "featureScore": 99}
]`

func TestRefreshEnrichesAndStoresSnapshot(t *testing.T) {
	is := is.New(t)

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		is.Equal(r.Method, http.MethodGet)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(twoDevices))
	}))
	defer ts.Close()

	p := New(ts.URL, time.Hour, nil)
	is.True(!p.Ready()) // no data before the first fetch

	p.Refresh(context.Background())

	snap, ok := p.Snapshot()
	is.True(ok)
	is.Equal(len(snap.Devices), 2)
	is.Equal(snap.Devices[0].DeviceScore, 85)
	is.Equal(snap.Devices[1].DeviceScore, 92)
	is.Equal(snap.Devices[0].Sustainability.PowerEfficiency, 88)
	is.Equal(snap.Devices[0].Latency, 0.12)
}

func TestFailedFetchKeepsPreviousSnapshot(t *testing.T) {
	is := is.New(t)

	var fail atomic.Bool
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(twoDevices))
	}))
	defer ts.Close()

	p := New(ts.URL, time.Hour, nil)
	p.Refresh(context.Background())
	first, ok := p.Snapshot()
	is.True(ok)

	fail.Store(true)
	p.Refresh(context.Background())

	second, ok := p.Snapshot()
	is.True(ok)
	is.Equal(second.FetchedAt, first.FetchedAt) // failed poll must not replace data
}

func TestMalformedBodyIsNotStored(t *testing.T) {
	is := is.New(t)

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"not": "an array"}`))
	}))
	defer ts.Close()

	p := New(ts.URL, time.Hour, nil)
	p.Refresh(context.Background())

	is.True(!p.Ready())
}

func TestRunPollsOnInterval(t *testing.T) {
	is := is.New(t)

	var hits atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(twoDevices))
	}))
	defer ts.Close()

	p := New(ts.URL, 10*time.Millisecond, nil)
	updates := make(chan Snapshot, 16)
	p.OnUpdate = func(s Snapshot) {
		select {
		case updates <- s:
		default:
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()

	for i := 0; i < 3; i++ {
		select {
		case <-updates:
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for poll")
		}
	}
	cancel()
	<-done

	is.True(hits.Load() >= 3)
}
