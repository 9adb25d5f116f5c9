package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/matryer/is"

	"github.com/vesaa/storagepulse/internal/catalog"
	"github.com/vesaa/storagepulse/internal/dashboard"
	"github.com/vesaa/storagepulse/internal/generator"
	"github.com/vesaa/storagepulse/internal/models"
	"github.com/vesaa/storagepulse/internal/poller"
)

type staticCatalog struct {
	templates []models.DeviceTemplate
	err       error
}

func (c staticCatalog) List(context.Context) ([]models.DeviceTemplate, error) {
	return c.templates, c.err
}

func (c staticCatalog) Get(_ context.Context, id uint) (*models.DeviceTemplate, error) {
	if c.err != nil {
		return nil, c.err
	}
	for _, t := range c.templates {
		if t.ID == id {
			return &t, nil
		}
	}
	return nil, catalog.ErrNotFound
}

type staticSnapshots struct {
	snap  poller.Snapshot
	ready bool
}

func (s staticSnapshots) Snapshot() (poller.Snapshot, bool) { return s.snap, s.ready }

func readySnapshots() staticSnapshots {
	devices := generator.New(5).Generate(catalog.DefaultTemplates())
	return staticSnapshots{
		snap:  poller.Snapshot{Devices: dashboard.Enrich(devices), FetchedAt: time.Now()},
		ready: true,
	}
}

func newTestServer(snaps SnapshotSource) *httptest.Server {
	gin.SetMode(gin.TestMode)
	s := New(staticCatalog{templates: catalog.DefaultTemplates()}, generator.New(1), snaps, models.SortConfig{})
	return httptest.NewServer(s.Engine())
}

func testRequest(is *is.I, ts *httptest.Server, method, path string) (*http.Response, string) {
	req, err := http.NewRequest(method, ts.URL+path, nil)
	is.NoErr(err)
	resp, err := http.DefaultClient.Do(req)
	is.NoErr(err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	is.NoErr(err)
	return resp, string(body)
}

func TestDevicesEndpointReturnsSixFreshDevices(t *testing.T) {
	is := is.New(t)
	ts := newTestServer(staticSnapshots{})
	defer ts.Close()

	resp, body := testRequest(is, ts, http.MethodGet, "/api/devices")
	is.Equal(resp.StatusCode, http.StatusOK)
	is.Equal(resp.Header.Get("Access-Control-Allow-Origin"), "*")

	var devices []map[string]any
	is.NoErr(json.Unmarshal([]byte(body), &devices))
	is.Equal(len(devices), 6)
	is.Equal(devices[0]["name"], "HPE GreenLake for File Storage - Enterprise")

	_, hasScore := devices[0]["deviceScore"]
	is.True(!hasScore) // device score is computed by the dashboard, not the generator
	sus, ok := devices[0]["sustainability"].(map[string]any)
	is.True(ok)
	_, ok = sus["powerEfficiency"]
	is.True(ok)

	_, second := testRequest(is, ts, http.MethodGet, "/api/devices")
	is.True(body != second) // metrics are regenerated on every call
}

func TestSingleDeviceEndpoint(t *testing.T) {
	is := is.New(t)
	ts := newTestServer(staticSnapshots{})
	defer ts.Close()

	resp, body := testRequest(is, ts, http.MethodGet, "/api/devices/4")
	is.Equal(resp.StatusCode, http.StatusOK)
	var d models.Device
	is.NoErr(json.Unmarshal([]byte(body), &d))
	is.Equal(d.ID, uint(4))
	is.True(d.Score >= generator.ScoreMin && d.Score <= generator.ScoreMax)

	resp, _ = testRequest(is, ts, http.MethodGet, "/api/devices/42")
	is.Equal(resp.StatusCode, http.StatusNotFound)
	resp, _ = testRequest(is, ts, http.MethodGet, "/api/devices/x")
	is.Equal(resp.StatusCode, http.StatusBadRequest)
}

func TestDevicesEndpointReportsCatalogErrors(t *testing.T) {
	is := is.New(t)
	gin.SetMode(gin.TestMode)
	s := New(staticCatalog{err: errors.New("boom")}, generator.New(1), staticSnapshots{}, models.SortConfig{})
	ts := httptest.NewServer(s.Engine())
	defer ts.Close()

	resp, body := testRequest(is, ts, http.MethodGet, "/api/devices")
	is.Equal(resp.StatusCode, http.StatusInternalServerError)
	is.True(strings.Contains(body, "boom"))
}

func TestDashboardIsLoadingBeforeFirstPoll(t *testing.T) {
	is := is.New(t)
	ts := newTestServer(staticSnapshots{})
	defer ts.Close()

	resp, _ := testRequest(is, ts, http.MethodGet, "/api/dashboard")
	is.Equal(resp.StatusCode, http.StatusServiceUnavailable)

	resp, body := testRequest(is, ts, http.MethodGet, "/")
	is.Equal(resp.StatusCode, http.StatusOK)
	is.True(strings.Contains(body, "Loading data..."))
}

func TestDashboardSortsByQuery(t *testing.T) {
	is := is.New(t)
	ts := newTestServer(readySnapshots())
	defer ts.Close()

	resp, body := testRequest(is, ts, http.MethodGet, "/api/dashboard?sort=sustainability.powerEfficiency&dir=asc")
	is.Equal(resp.StatusCode, http.StatusOK)

	var view dashboard.View
	is.NoErr(json.Unmarshal([]byte(body), &view))
	is.Equal(view.Sort, models.SortConfig{Key: "sustainability.powerEfficiency", Direction: models.SortAsc})
	is.Equal(len(view.Devices), 6)
	for i := 1; i < len(view.Devices); i++ {
		is.True(view.Devices[i-1].Sustainability.PowerEfficiency <= view.Devices[i].Sustainability.PowerEfficiency)
	}

	resp, body = testRequest(is, ts, http.MethodGet, "/api/dashboard")
	is.Equal(resp.StatusCode, http.StatusOK)
	is.NoErr(json.Unmarshal([]byte(body), &view))
	is.Equal(view.Sort, dashboard.DefaultSort)
	for i := 1; i < len(view.Devices); i++ {
		is.True(view.Devices[i-1].DeviceScore >= view.Devices[i].DeviceScore)
	}
}

func TestDashboardRejectsBadSort(t *testing.T) {
	is := is.New(t)
	ts := newTestServer(readySnapshots())
	defer ts.Close()

	resp, _ := testRequest(is, ts, http.MethodGet, "/api/dashboard?sort=bogus")
	is.Equal(resp.StatusCode, http.StatusBadRequest)
	resp, _ = testRequest(is, ts, http.MethodGet, "/api/dashboard?dir=up")
	is.Equal(resp.StatusCode, http.StatusBadRequest)
}

func TestDeviceDetail(t *testing.T) {
	is := is.New(t)
	ts := newTestServer(readySnapshots())
	defer ts.Close()

	resp, body := testRequest(is, ts, http.MethodGet, "/api/dashboard/devices/3")
	is.Equal(resp.StatusCode, http.StatusOK)
	var detail dashboard.DeviceDetail
	is.NoErr(json.Unmarshal([]byte(body), &detail))
	is.Equal(detail.Device.Name, "HPE Alletra 6000")
	is.True(len(detail.Rows) > 0)

	resp, _ = testRequest(is, ts, http.MethodGet, "/api/dashboard/devices/99")
	is.Equal(resp.StatusCode, http.StatusNotFound)
	resp, _ = testRequest(is, ts, http.MethodGet, "/api/dashboard/devices/abc")
	is.Equal(resp.StatusCode, http.StatusBadRequest)
}

func TestInsightsEndpoint(t *testing.T) {
	is := is.New(t)
	ts := newTestServer(readySnapshots())
	defer ts.Close()

	resp, body := testRequest(is, ts, http.MethodGet, "/api/dashboard/insights/performance")
	is.Equal(resp.StatusCode, http.StatusOK)
	is.True(strings.Contains(body, `"label":"Latency"`))

	resp, _ = testRequest(is, ts, http.MethodGet, "/api/dashboard/insights/nope")
	is.Equal(resp.StatusCode, http.StatusNotFound)
}

func TestHTMLPages(t *testing.T) {
	is := is.New(t)
	ts := newTestServer(readySnapshots())
	defer ts.Close()

	resp, body := testRequest(is, ts, http.MethodGet, "/?sort=greenScore&dir=desc")
	is.Equal(resp.StatusCode, http.StatusOK)
	is.True(strings.Contains(body, "HPE StoreEasy 1660"))
	is.True(strings.Contains(body, "Highest Device Score"))
	is.True(strings.Contains(body, "dir=asc&amp;sort=greenScore")) // active desc column toggles to asc

	resp, body = testRequest(is, ts, http.MethodGet, "/devices/5")
	is.Equal(resp.StatusCode, http.StatusOK)
	is.True(strings.Contains(body, "Detailed analysis of HPE StoreEasy 1660"))

	resp, _ = testRequest(is, ts, http.MethodGet, "/static/style.css")
	is.Equal(resp.StatusCode, http.StatusOK)
}

func TestHealthAndMetrics(t *testing.T) {
	is := is.New(t)
	ts := newTestServer(staticSnapshots{})
	defer ts.Close()

	resp, _ := testRequest(is, ts, http.MethodGet, "/api/health")
	is.Equal(resp.StatusCode, http.StatusOK)

	testRequest(is, ts, http.MethodGet, "/api/devices")
	resp, body := testRequest(is, ts, http.MethodGet, "/metrics")
	is.Equal(resp.StatusCode, http.StatusOK)
	is.True(strings.Contains(body, "storagepulse_devices_generated_total"))
}

func TestDashboardPollsItsOwnEndpoint(t *testing.T) {
	is := is.New(t)
	gin.SetMode(gin.TestMode)

	ts := httptest.NewUnstartedServer(nil)
	p := poller.New("http://"+ts.Listener.Addr().String()+"/api/devices", time.Hour, nil)
	s := New(staticCatalog{templates: catalog.DefaultTemplates()}, generator.New(3), p, models.SortConfig{})
	ts.Config.Handler = s.Engine()
	ts.Start()
	defer ts.Close()

	resp, _ := testRequest(is, ts, http.MethodGet, "/api/dashboard")
	is.Equal(resp.StatusCode, http.StatusServiceUnavailable)

	p.Refresh(context.Background())

	resp, body := testRequest(is, ts, http.MethodGet, "/api/dashboard")
	is.Equal(resp.StatusCode, http.StatusOK)
	var view dashboard.View
	is.NoErr(json.Unmarshal([]byte(body), &view))
	is.Equal(len(view.Devices), 6)
}
