package main

import (
	"context"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/matryer/is"

	"github.com/vesaa/storagepulse/internal/catalog"
	"github.com/vesaa/storagepulse/internal/config"
)

func TestServeFillsDashboardOnFirstPoll(t *testing.T) {
	is := is.New(t)
	gin.SetMode(gin.TestMode)

	store, err := catalog.Open(":memory:", "")
	is.NoErr(err)
	defer store.Close()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	is.NoErr(err)

	cfg := &config.Config{
		ServerHost:          "0.0.0.0",
		Port:                ln.Addr().(*net.TCPAddr).Port,
		PollIntervalSeconds: 3600, // only the initial poll can fill the dashboard
		FetchTimeoutSeconds: 5,
		DefaultSortKey:      "deviceScore",
		DefaultSortDir:      "desc",
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- serve(ctx, ln, store, cfg) }()

	url := "http://" + ln.Addr().String() + "/api/dashboard"
	status := 0
	for deadline := time.Now().Add(5 * time.Second); time.Now().Before(deadline); time.Sleep(20 * time.Millisecond) {
		resp, err := http.Get(url)
		is.NoErr(err) // listener accepts before serve returns control
		resp.Body.Close()
		if status = resp.StatusCode; status == http.StatusOK {
			break
		}
	}
	is.Equal(status, http.StatusOK)

	cancel()
	select {
	case err := <-done:
		is.NoErr(err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not return after cancel")
	}
}
