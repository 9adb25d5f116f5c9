package server

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/vesaa/storagepulse/internal/dashboard"
	"github.com/vesaa/storagepulse/internal/models"
)

// RegisterPages mounts the HTML dashboard and its static assets.
func (s *Server) RegisterPages(r *gin.Engine) {
	mountTemplates(r)
	r.GET("/", s.handleIndexPage)
	r.GET("/devices/:id", s.handleDetailPage)
}

type column struct {
	Key    string
	Label  string
	Href   string
	Icon   string
	Active bool
}

type cell struct {
	Text  string
	Level models.ComparisonLevel
	Bar   int // score bar width in percent; 0 hides the bar
}

type row struct {
	ID        uint
	Name      string
	Type      string
	TypeClass string
	Cells     []cell
}

type summaryItem struct {
	Label string
	Value string
}

type tableView struct {
	Name     dashboard.Table
	Title    string
	Subtitle string
	Columns  []column
	Rows     []row
	Summary  []summaryItem
}

var tableTitles = map[dashboard.Table][2]string{
	dashboard.TableOverview:       {"Storage Product Overview", "Comparison of all storage solutions with key scores"},
	dashboard.TableSustainability: {"Sustainability", "Green score, power efficiency and carbon reduction"},
	dashboard.TablePerformance:    {"Performance", "Throughput, IOPS and latency"},
	dashboard.TableFeatures:       {"Features", "Feature score, data reduction and protocol support"},
}

func (s *Server) handleIndexPage(c *gin.Context) {
	snap, ok := s.snapshots.Snapshot()
	if !ok || len(snap.Devices) == 0 {
		c.HTML(http.StatusOK, "loading.html", nil)
		return
	}
	cfg, err := s.sortFromQuery(c)
	if err != nil {
		cfg = s.defaultSort
	}
	view, err := dashboard.BuildView(snap.Devices, cfg, snap.FetchedAt)
	if err != nil {
		c.String(http.StatusInternalServerError, err.Error())
		return
	}

	tables := make([]tableView, 0, len(dashboard.Tables))
	for _, t := range dashboard.Tables {
		tables = append(tables, buildTable(t, view))
	}
	c.HTML(http.StatusOK, "index.html", gin.H{
		"Tables":    tables,
		"FetchedAt": view.FetchedAt.Format("2006-01-02 15:04:05"),
	})
}

func (s *Server) handleDetailPage(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.String(http.StatusBadRequest, "invalid id")
		return
	}
	snap, ok := s.snapshots.Snapshot()
	if !ok {
		c.HTML(http.StatusOK, "loading.html", nil)
		return
	}
	d, found := dashboard.Find(snap.Devices, uint(id))
	if !found {
		c.String(http.StatusNotFound, "device not found")
		return
	}
	avg, err := dashboard.ComputeAverages(snap.Devices)
	if err != nil {
		c.String(http.StatusInternalServerError, err.Error())
		return
	}

	detail := dashboard.Detail(d, avg)
	rows := make([]gin.H, 0, len(detail.Rows))
	for _, r := range detail.Rows {
		rows = append(rows, gin.H{
			"Label":   r.Label,
			"Value":   formatValue(r.Key, r.Value),
			"Average": formatValue(r.Key, r.Average),
			"Level":   r.Level,
		})
	}
	c.HTML(http.StatusOK, "detail.html", gin.H{
		"Device":      d,
		"Protocols":   strings.Join(d.Protocols, ", "),
		"Performance": detail.Performance,
		"Rows":        rows,
		"Suggestions": detail.Suggestions,
	})
}

func buildTable(t dashboard.Table, view dashboard.View) tableView {
	metrics := dashboard.TableMetrics(t)
	titles := tableTitles[t]
	tv := tableView{Name: t, Title: titles[0], Subtitle: titles[1]}

	for _, m := range metrics {
		next := dashboard.Toggle(view.Sort, m.Key)
		q := url.Values{"sort": {next.Key}, "dir": {string(next.Direction)}}
		tv.Columns = append(tv.Columns, column{
			Key:    m.Key,
			Label:  m.Label,
			Href:   "/?" + q.Encode(),
			Icon:   dashboard.SortIcon(view.Sort, m.Key),
			Active: view.Sort.Key == m.Key,
		})
	}

	for _, d := range view.Devices {
		r := row{
			ID:        d.ID,
			Name:      d.Name,
			Type:      d.Type,
			TypeClass: strings.ToLower(strings.ReplaceAll(d.Type, " ", "-")),
		}
		for _, m := range metrics {
			v, _ := dashboard.NumericValue(d, m.Key)
			c := cell{
				Text:  cellText(m.Key, v, d),
				Level: dashboard.CompareKey(d, view.Averages, m.Key),
			}
			if m.Unit == "/100" {
				c.Bar = int(v)
			}
			r.Cells = append(r.Cells, c)
		}
		tv.Rows = append(tv.Rows, r)
	}

	if t == dashboard.TableOverview {
		tv.Summary = []summaryItem{
			{"Total Products", strconv.Itoa(len(view.Devices))},
			{"Highest Performance Score", fmt.Sprintf("%.0f/100", view.Highest["score"])},
			{"Highest Device Score", fmt.Sprintf("%.0f/100", view.Highest["deviceScore"])},
			{"Highest Green Score", fmt.Sprintf("%.0f/100", view.Highest["greenScore"])},
			{"Highest Feature Score", fmt.Sprintf("%.0f/100", view.Highest["featureScore"])},
		}
	}
	return tv
}

// cellText shows the device's own strings where the table column is derived
// from them.
func cellText(key string, v float64, d models.Device) string {
	switch key {
	case "dataReductionRatio":
		if d.DataReduction != "" {
			return d.DataReduction
		}
	case "protocolCount":
		if len(d.Protocols) > 0 {
			return strings.Join(d.Protocols, ", ")
		}
	}
	return formatValue(key, v)
}

// formatValue renders a metric for display.
func formatValue(key string, v float64) string {
	switch key {
	case "readSpeed", "writeSpeed":
		return fmt.Sprintf("%.0f MB/s", v)
	case "iops":
		return dashboard.FormatNumber(v)
	case "latency":
		return fmt.Sprintf("%.2f ms", v)
	case "sustainability.carbonReduction":
		return fmt.Sprintf("%.0f%%", v)
	case "dataReductionRatio":
		return strconv.FormatFloat(v, 'f', -1, 64) + ":1"
	default:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
}
