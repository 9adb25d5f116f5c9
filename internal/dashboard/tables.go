package dashboard

import (
	"fmt"
	"strconv"

	"github.com/vesaa/storagepulse/internal/models"
)

// Table names the four dashboard tables.
type Table string

const (
	TableOverview       Table = "overview"
	TableSustainability Table = "sustainability"
	TablePerformance    Table = "performance"
	TableFeatures       Table = "features"
)

// Tables lists the tables in display order.
var Tables = []Table{TableOverview, TableSustainability, TablePerformance, TableFeatures}

// Metric is one column of a table.
type Metric struct {
	Key      string `json:"key"`
	Label    string `json:"label"`
	Unit     string `json:"unit"`
	Inverted bool   `json:"inverted,omitempty"`
}

var tableMetrics = map[Table][]Metric{
	TableOverview: {
		{Key: "deviceScore", Label: "Device Score", Unit: "/100"},
		{Key: "score", Label: "Performance Score", Unit: "/100"},
		{Key: "greenScore", Label: "Green Score", Unit: "/100"},
		{Key: "featureScore", Label: "Feature Score", Unit: "/100"},
	},
	TableSustainability: {
		{Key: "greenScore", Label: "Green Score", Unit: "/100"},
		{Key: "sustainability.powerEfficiency", Label: "Power Efficiency", Unit: "/100"},
		{Key: "sustainability.carbonReduction", Label: "Carbon Reduction", Unit: "%"},
	},
	TablePerformance: {
		{Key: "score", Label: "Performance Score", Unit: "/100"},
		{Key: "readSpeed", Label: "Read Speed", Unit: " MB/s"},
		{Key: "writeSpeed", Label: "Write Speed", Unit: " MB/s"},
		{Key: "iops", Label: "IOPS"},
		{Key: "latency", Label: "Latency", Unit: " ms", Inverted: true},
	},
	TableFeatures: {
		{Key: "featureScore", Label: "Feature Score", Unit: "/100"},
		{Key: "dataReductionRatio", Label: "Data Reduction", Unit: ":1"},
		{Key: "protocolCount", Label: "Protocols Supported"},
	},
}

// ParseTable validates a table name.
func ParseTable(s string) (Table, error) {
	t := Table(s)
	if _, ok := tableMetrics[t]; !ok {
		return "", fmt.Errorf("unknown table %q", s)
	}
	return t, nil
}

// TableMetrics returns the columns of table, or nil for an unknown table.
func TableMetrics(table Table) []Metric {
	return tableMetrics[table]
}

// Insight is the fleet-wide summary of one metric.
type Insight struct {
	Metric
	Average    float64 `json:"average"`
	Best       float64 `json:"best"`
	BestDevice string  `json:"bestDevice"`
}

// Insights summarises every metric of table over devices. "Best" honours
// inverted metrics.
func Insights(table Table, devices []models.Device) ([]Insight, error) {
	metrics := TableMetrics(table)
	if metrics == nil {
		return nil, fmt.Errorf("unknown table %q", table)
	}
	if len(devices) == 0 {
		return nil, ErrNoDevices
	}

	out := make([]Insight, 0, len(metrics))
	for _, m := range metrics {
		f := fields[m.Key]
		var sum float64
		best, bestName := f.num(devices[0]), devices[0].Name
		for _, d := range devices {
			v := f.num(d)
			sum += v
			if (m.Inverted && v < best) || (!m.Inverted && v > best) {
				best, bestName = v, d.Name
			}
		}
		out = append(out, Insight{
			Metric:     m,
			Average:    round2(sum / float64(len(devices))),
			Best:       best,
			BestDevice: bestName,
		})
	}
	return out, nil
}

// FormatNumber abbreviates large numbers: 1.5M, 12.3K.
func FormatNumber(n float64) string {
	switch {
	case n >= 1_000_000:
		return strconv.FormatFloat(n/1_000_000, 'f', 1, 64) + "M"
	case n >= 1_000:
		return strconv.FormatFloat(n/1_000, 'f', 1, 64) + "K"
	default:
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
}
