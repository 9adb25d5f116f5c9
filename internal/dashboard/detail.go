package dashboard

import (
	"time"

	"github.com/vesaa/storagepulse/internal/models"
)

// DetailRow is one metric of a device set against the column average.
type DetailRow struct {
	Metric
	Value   float64                `json:"value"`
	Average float64                `json:"average"`
	Level   models.ComparisonLevel `json:"level"`
}

// DeviceDetail is the detail page for a single device.
type DeviceDetail struct {
	Device      models.Device           `json:"device"`
	Performance models.PerformanceLevel `json:"performanceLevel"`
	Rows        []DetailRow             `json:"rows"`
	Suggestions []string                `json:"suggestions"`
}

// detailMetrics are the columns that have a fleet average.
var detailMetrics = []Metric{
	{Key: "deviceScore", Label: "Device Score", Unit: "/100"},
	{Key: "score", Label: "Performance Score", Unit: "/100"},
	{Key: "greenScore", Label: "Green Score", Unit: "/100"},
	{Key: "featureScore", Label: "Feature Score", Unit: "/100"},
	{Key: "readSpeed", Label: "Read Speed", Unit: " MB/s"},
	{Key: "writeSpeed", Label: "Write Speed", Unit: " MB/s"},
	{Key: "iops", Label: "IOPS"},
	{Key: "latency", Label: "Latency", Unit: " ms", Inverted: true},
	{Key: "sustainability.powerEfficiency", Label: "Power Efficiency", Unit: "/100"},
	{Key: "sustainability.carbonReduction", Label: "Carbon Reduction", Unit: "%"},
	{Key: "dataReductionRatio", Label: "Data Reduction", Unit: ":1"},
	{Key: "protocolCount", Label: "Protocols Supported"},
}

var suggestionText = map[string]string{
	"deviceScore":                    "Overall score trails the fleet; start with the weakest of its performance, green and feature scores.",
	"score":                          "Performance score is below average; review workload placement and cache tiering.",
	"greenScore":                     "Green score is below average; consider power-saving modes and consolidating under-used capacity.",
	"featureScore":                   "Feature score is below average; enable data services such as deduplication, compression and replication.",
	"readSpeed":                      "Read throughput is below average; check host multipathing and front-end port saturation.",
	"writeSpeed":                     "Write throughput is below average; check write cache sizing and RAID layout.",
	"iops":                           "IOPS are below average; spread hot volumes across more media or move them to an NVMe tier.",
	"latency":                        "Latency is above average; look for queue depth limits and congested fabric links.",
	"sustainability.powerEfficiency": "Power efficiency is below average; schedule firmware updates and review drive spin-down policies.",
	"sustainability.carbonReduction": "Carbon reduction is below average; raise data reduction ratios to shrink the physical footprint.",
	"dataReductionRatio":             "Data reduction ratio is below average; turn on inline deduplication and compression for suitable volumes.",
	"protocolCount":                  "Supports fewer protocols than its peers; check whether file or object services can be licensed.",
}

// Detail builds the detail view of d against avg.
func Detail(d models.Device, avg models.Averages) DeviceDetail {
	rows := make([]DetailRow, 0, len(detailMetrics))
	for _, m := range detailMetrics {
		v, _ := NumericValue(d, m.Key)
		a, _ := AverageOf(avg, m.Key)
		rows = append(rows, DetailRow{
			Metric:  m,
			Value:   v,
			Average: a,
			Level:   CompareKey(d, avg, m.Key),
		})
	}
	return DeviceDetail{
		Device:      d,
		Performance: PerformanceLevelOf(d.DeviceScore),
		Rows:        rows,
		Suggestions: suggestionsFor(rows),
	}
}

// Suggestions lists improvement hints for every metric of d that falls
// below the fleet average.
func Suggestions(d models.Device, avg models.Averages) []string {
	return Detail(d, avg).Suggestions
}

func suggestionsFor(rows []DetailRow) []string {
	out := []string{}
	for _, r := range rows {
		if r.Level == models.BelowAverage {
			out = append(out, suggestionText[r.Key])
		}
	}
	return out
}

// View is everything the dashboard renders for one snapshot.
type View struct {
	Devices   []models.Device    `json:"devices"`
	Averages  models.Averages    `json:"averages"`
	Highest   map[string]float64 `json:"highest"`
	Sort      models.SortConfig  `json:"sort"`
	FetchedAt time.Time          `json:"fetchedAt"`
}

// summaryKeys are the columns shown in the "highest" summary row.
var summaryKeys = []string{"score", "deviceScore", "greenScore", "featureScore"}

// BuildView sorts devices and computes averages and highest values.
func BuildView(devices []models.Device, cfg models.SortConfig, fetchedAt time.Time) (View, error) {
	avg, err := ComputeAverages(devices)
	if err != nil {
		return View{}, err
	}
	highest := make(map[string]float64, len(summaryKeys))
	for _, k := range summaryKeys {
		highest[k], _ = Highest(devices, k)
	}
	return View{
		Devices:   Sort(devices, cfg),
		Averages:  avg,
		Highest:   highest,
		Sort:      cfg,
		FetchedAt: fetchedAt,
	}, nil
}

// Find returns the device with id.
func Find(devices []models.Device, id uint) (models.Device, bool) {
	for _, d := range devices {
		if d.ID == id {
			return d, true
		}
	}
	return models.Device{}, false
}
