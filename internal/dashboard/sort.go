package dashboard

import (
	"sort"
	"strconv"
	"strings"

	"github.com/vesaa/storagepulse/internal/models"
)

// field describes one sortable column.
type field struct {
	numeric  bool
	inverted bool // lower is better
	num      func(models.Device) float64
	str      func(models.Device) string
}

func numField(fn func(models.Device) float64) field {
	return field{numeric: true, num: fn}
}

func strField(fn func(models.Device) string) field {
	return field{str: fn}
}

// fields maps sort keys, including dotted nested paths, to accessors.
var fields = map[string]field{
	"id":            numField(func(d models.Device) float64 { return float64(d.ID) }),
	"name":          strField(func(d models.Device) string { return d.Name }),
	"productLine":   strField(func(d models.Device) string { return d.ProductLine }),
	"type":          strField(func(d models.Device) string { return d.Type }),
	"tier":          strField(func(d models.Device) string { return d.Tier }),
	"capacity":      strField(func(d models.Device) string { return d.Capacity }),
	"deployment":    strField(func(d models.Device) string { return d.Deployment }),
	"dataReduction": strField(func(d models.Device) string { return d.DataReduction }),

	"deviceScore":  numField(func(d models.Device) float64 { return float64(d.DeviceScore) }),
	"score":        numField(func(d models.Device) float64 { return float64(d.Score) }),
	"greenScore":   numField(func(d models.Device) float64 { return float64(d.GreenScore) }),
	"featureScore": numField(func(d models.Device) float64 { return float64(d.FeatureScore) }),
	"readSpeed":    numField(func(d models.Device) float64 { return float64(d.ReadSpeed) }),
	"writeSpeed":   numField(func(d models.Device) float64 { return float64(d.WriteSpeed) }),
	"iops":         numField(func(d models.Device) float64 { return float64(d.IOPS) }),
	"latency": {
		numeric:  true,
		inverted: true,
		num:      func(d models.Device) float64 { return d.Latency },
	},
	"price": numField(func(d models.Device) float64 { return float64(d.Price) }),

	"sustainability.powerEfficiency": numField(func(d models.Device) float64 {
		return float64(d.Sustainability.PowerEfficiency)
	}),
	"sustainability.carbonReduction": numField(func(d models.Device) float64 {
		return float64(d.Sustainability.CarbonReduction)
	}),

	"dataReductionRatio": numField(DataReductionRatio),
	"protocolCount":      numField(func(d models.Device) float64 { return float64(len(d.Protocols)) }),
}

// KnownKey reports whether key can be sorted on.
func KnownKey(key string) bool {
	_, ok := fields[key]
	return ok
}

// NumericValue returns the numeric value of key for d.
func NumericValue(d models.Device, key string) (float64, bool) {
	f, ok := fields[key]
	if !ok || !f.numeric {
		return 0, false
	}
	return f.num(d), true
}

// DataReductionRatio parses "N:1" into N; malformed values yield 0.
func DataReductionRatio(d models.Device) float64 {
	n, _, ok := strings.Cut(d.DataReduction, ":")
	if !ok {
		return 0
	}
	v, err := strconv.ParseFloat(n, 64)
	if err != nil {
		return 0
	}
	return v
}

// DefaultSort is the initial dashboard ordering.
var DefaultSort = models.SortConfig{Key: "deviceScore", Direction: models.SortDesc}

// Sort returns a stably sorted copy of devices. Unknown keys keep the input
// order.
func Sort(devices []models.Device, cfg models.SortConfig) []models.Device {
	out := make([]models.Device, len(devices))
	copy(out, devices)

	f, ok := fields[cfg.Key]
	if !ok {
		return out
	}

	cmp := func(a, b models.Device) int {
		if f.numeric {
			x, y := f.num(a), f.num(b)
			switch {
			case x < y:
				return -1
			case x > y:
				return 1
			}
			return 0
		}
		return strings.Compare(f.str(a), f.str(b))
	}

	desc := cfg.Direction != models.SortAsc
	sort.SliceStable(out, func(i, j int) bool {
		c := cmp(out[i], out[j])
		if desc {
			return c > 0
		}
		return c < 0
	})
	return out
}

// Toggle computes the next sort after clicking the column key: a new column
// starts descending, clicking the active descending column flips it to
// ascending, and anything else goes back to descending.
func Toggle(current models.SortConfig, key string) models.SortConfig {
	dir := models.SortDesc
	if current.Key == key && current.Direction == models.SortDesc {
		dir = models.SortAsc
	}
	return models.SortConfig{Key: key, Direction: dir}
}

// Highest returns the largest value of a numeric column.
func Highest(devices []models.Device, key string) (float64, bool) {
	f, ok := fields[key]
	if !ok || !f.numeric || len(devices) == 0 {
		return 0, false
	}
	best := f.num(devices[0])
	for _, d := range devices[1:] {
		if v := f.num(d); v > best {
			best = v
		}
	}
	return best, true
}

// SortIcon is the column header indicator for key under cfg.
func SortIcon(cfg models.SortConfig, key string) string {
	if cfg.Key != key {
		return "▲▼"
	}
	if cfg.Direction == models.SortAsc {
		return "▲"
	}
	return "▼"
}
