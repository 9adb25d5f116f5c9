// Package poller keeps the dashboard's device snapshot fresh.
// It fetches the devices endpoint once at start and then on a fixed
// interval. A failed fetch is logged and the previous snapshot is kept;
// there is no retry.
package poller

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/vesaa/storagepulse/internal/dashboard"
	"github.com/vesaa/storagepulse/internal/metrics"
	"github.com/vesaa/storagepulse/internal/models"
)

// Snapshot is one successful fetch, already enriched with device scores.
type Snapshot struct {
	Devices   []models.Device
	FetchedAt time.Time
}

// Poller fetches url every interval.
type Poller struct {
	url      string
	interval time.Duration
	client   *http.Client

	mu   sync.RWMutex
	snap *Snapshot

	// OnUpdate, if set, is called after every successful fetch.
	OnUpdate func(Snapshot)
}

// New creates a Poller. A nil client gets a 10 second timeout.
func New(url string, interval time.Duration, client *http.Client) *Poller {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Poller{url: url, interval: interval, client: client}
}

// Run fetches immediately and then on every tick until ctx is done.
func (p *Poller) Run(ctx context.Context) {
	p.Refresh(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	log.Info().Str("url", p.url).Dur("interval", p.interval).Msg("poller started")
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("poller stopped")
			return
		case <-ticker.C:
			p.Refresh(ctx)
		}
	}
}

// Refresh performs one fetch and swaps the snapshot on success.
func (p *Poller) Refresh(ctx context.Context) {
	devices, err := p.fetch(ctx)
	if err != nil {
		metrics.PollsTotal.WithLabelValues("error").Inc()
		log.Error().Err(err).Str("url", p.url).Msg("error fetching device data")
		return
	}

	snap := Snapshot{Devices: dashboard.Enrich(devices), FetchedAt: time.Now()}
	p.mu.Lock()
	p.snap = &snap
	p.mu.Unlock()

	metrics.PollsTotal.WithLabelValues("ok").Inc()
	metrics.LastPollTimestamp.Set(float64(snap.FetchedAt.Unix()))
	metrics.DashboardDevices.Set(float64(len(snap.Devices)))
	log.Debug().Int("devices", len(snap.Devices)).Msg("device data refreshed")

	if p.OnUpdate != nil {
		p.OnUpdate(snap)
	}
}

// Snapshot returns the latest data; ok is false until the first successful
// fetch.
func (p *Poller) Snapshot() (Snapshot, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.snap == nil {
		return Snapshot{}, false
	}
	return *p.snap, true
}

// Ready reports whether any data has arrived yet.
func (p *Poller) Ready() bool {
	_, ok := p.Snapshot()
	return ok
}

// fetch issues a single GET and decodes the JSON device array.
func (p *Poller) fetch(ctx context.Context) ([]models.Device, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("server returned %d", resp.StatusCode)
	}

	var devices []models.Device
	if err := json.NewDecoder(resp.Body).Decode(&devices); err != nil {
		return nil, fmt.Errorf("decoding devices: %w", err)
	}
	return devices, nil
}
